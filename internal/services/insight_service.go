package services

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"time"

	"gorm.io/gorm"

	"fintrack/internal/ai"
	"fintrack/internal/cache"
	apperrors "fintrack/internal/errors"
	"fintrack/internal/logger"
	"fintrack/internal/models"
)

// BudgetSnapshot captures one budget's state for change detection.
type BudgetSnapshot struct {
	Category   string  `json:"category"`
	Amount     int64   `json:"amount"`
	Spent      int64   `json:"spent"`
	Percentage float64 `json:"percentage"`
}

// CategoryTotal is the expense sum for one category in the snapshot window.
type CategoryTotal struct {
	Category string `json:"category"`
	Total    int64  `json:"total"`
}

// Snapshot is a deterministic summary of the user's current month: budgets
// sorted by category, total expense, and per-category expense totals. Two
// snapshots over the same financial state always serialize identically.
type Snapshot struct {
	Budgets        []BudgetSnapshot `json:"budgets"`
	TotalExpense   int64            `json:"total_expense"`
	CategoryTotals []CategoryTotal  `json:"category_totals"`
}

// Fingerprint serializes the snapshot for storage alongside a cached insight.
func (s Snapshot) Fingerprint() string {
	raw, err := json.Marshal(s)
	if err != nil {
		return ""
	}
	return string(raw)
}

// CachedInsight is the cache record for a generated insight.
type CachedInsight struct {
	OneLiner    string    `json:"one_liner"`
	FullInsight string    `json:"full_insight"`
	GeneratedAt time.Time `json:"generated_at"`
	Snapshot    Snapshot  `json:"snapshot"`
}

// insightService generates spending advice, regenerating only when the
// user's financial picture has moved enough to make the cached text stale.
type insightService struct {
	db    *gorm.DB
	gen   ai.Generator
	cache cache.Cache[CachedInsight]
}

// NewInsightService creates a new InsightServicer. gen may be nil when no AI
// provider is configured; cached insights still serve, fresh ones fail with
// an explicit error.
func NewInsightService(db *gorm.DB, gen ai.Generator, c cache.Cache[CachedInsight]) InsightServicer {
	return &insightService{db: db, gen: gen, cache: c}
}

// GetInsight returns insight text for the user's current month, serving the
// cached version unless the snapshot has changed materially since it was
// generated.
func (s *insightService) GetInsight(ctx context.Context, userID uint) (*InsightResult, error) {
	snapshot, err := s.buildSnapshot(userID)
	if err != nil {
		return nil, err
	}

	key := insightCacheKey(userID)
	cached, hit, err := s.cache.Get(key)
	if err != nil {
		// A broken cache read costs one regeneration, not the request.
		logger.Get().Warnw("insight cache read failed", "error", err, "user_id", userID)
		hit = false
	}

	if hit && !ShouldRegenerate(cached.Snapshot, *snapshot) {
		return &InsightResult{
			OneLiner:    cached.OneLiner,
			FullInsight: cached.FullInsight,
			GeneratedAt: cached.GeneratedAt,
			Cached:      true,
		}, nil
	}

	if s.gen == nil {
		if hit {
			return &InsightResult{
				OneLiner:    cached.OneLiner,
				FullInsight: cached.FullInsight,
				GeneratedAt: cached.GeneratedAt,
				Cached:      true,
			}, nil
		}
		return nil, apperrors.ErrInsightUnavailable
	}

	insight, err := s.gen.GenerateInsight(ctx, snapshotFacts(*snapshot))
	if err != nil {
		return nil, err
	}

	record := CachedInsight{
		OneLiner:    insight.OneLiner,
		FullInsight: insight.FullInsight,
		GeneratedAt: time.Now(),
		Snapshot:    *snapshot,
	}
	if err := s.cache.Set(key, record); err != nil {
		logger.Get().Warnw("insight cache write failed", "error", err, "user_id", userID)
	}

	return &InsightResult{
		OneLiner:    record.OneLiner,
		FullInsight: record.FullInsight,
		GeneratedAt: record.GeneratedAt,
		Cached:      false,
	}, nil
}

func insightCacheKey(userID uint) string {
	return fmt.Sprintf("insight:user:%d", userID)
}

// buildSnapshot summarizes the user's current month.
func (s *insightService) buildSnapshot(userID uint) (*Snapshot, error) {
	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	var budgets []models.Budget
	if err := s.db.Where("user_id = ?", userID).Order("category ASC").Find(&budgets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var txns []models.Transaction
	err := s.db.Where("user_id = ? AND type = ? AND date >= ?",
		userID, models.TransactionTypeExpense, monthStart).Find(&txns).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	snapshot := &Snapshot{Budgets: make([]BudgetSnapshot, 0, len(budgets))}
	for _, b := range budgets {
		var pct float64
		if b.Amount > 0 {
			pct = float64(b.Spent) / float64(b.Amount) * 100
		}
		snapshot.Budgets = append(snapshot.Budgets, BudgetSnapshot{
			Category:   b.Category,
			Amount:     b.Amount,
			Spent:      b.Spent,
			Percentage: pct,
		})
	}

	totals := make(map[string]int64)
	for _, txn := range txns {
		snapshot.TotalExpense += txn.Amount
		totals[txn.Category] += txn.Amount
	}
	snapshot.CategoryTotals = make([]CategoryTotal, 0, len(totals))
	for category, total := range totals {
		snapshot.CategoryTotals = append(snapshot.CategoryTotals, CategoryTotal{Category: category, Total: total})
	}
	sort.Slice(snapshot.CategoryTotals, func(i, j int) bool {
		return snapshot.CategoryTotals[i].Category < snapshot.CategoryTotals[j].Category
	})

	return snapshot, nil
}

// ShouldRegenerate reports whether the financial picture has moved enough
// since old was captured to make its insight stale: a budget crossing the 80%
// or 100% line in either direction, any budget percentage moving more than 20
// points, total expense changing more than 20%, or the budget set itself
// changing.
func ShouldRegenerate(old, current Snapshot) bool {
	if len(old.Budgets) != len(current.Budgets) {
		return true
	}

	oldByCategory := make(map[string]BudgetSnapshot, len(old.Budgets))
	for _, b := range old.Budgets {
		oldByCategory[b.Category] = b
	}
	for _, b := range current.Budgets {
		prev, ok := oldByCategory[b.Category]
		if !ok {
			return true
		}
		if crossed(prev.Percentage, b.Percentage, 80) || crossed(prev.Percentage, b.Percentage, 100) {
			return true
		}
		if math.Abs(b.Percentage-prev.Percentage) > 20 {
			return true
		}
	}

	if old.TotalExpense == 0 {
		return current.TotalExpense != 0
	}
	change := math.Abs(float64(current.TotalExpense-old.TotalExpense)) / float64(old.TotalExpense)
	return change > 0.20
}

// crossed reports whether moving from a to b passes the threshold in either
// direction. Landing exactly on it counts as crossing.
func crossed(a, b, threshold float64) bool {
	return (a < threshold && b >= threshold) || (a >= threshold && b < threshold)
}

// snapshotFacts converts a snapshot into the generator's input shape.
func snapshotFacts(s Snapshot) ai.InsightFacts {
	facts := ai.InsightFacts{
		TotalExpense:   s.TotalExpense,
		Budgets:        make([]ai.BudgetFact, 0, len(s.Budgets)),
		CategoryTotals: make([]ai.CategoryFact, 0, len(s.CategoryTotals)),
	}
	for _, b := range s.Budgets {
		facts.Budgets = append(facts.Budgets, ai.BudgetFact{
			Category:   b.Category,
			Amount:     b.Amount,
			Spent:      b.Spent,
			Percentage: b.Percentage,
		})
	}
	for _, c := range s.CategoryTotals {
		facts.CategoryTotals = append(facts.CategoryTotals, ai.CategoryFact{
			Category: c.Category,
			Total:    c.Total,
		})
	}
	return facts
}
