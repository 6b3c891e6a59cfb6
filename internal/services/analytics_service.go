package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
)

// analyticsService implements transaction search and the chart aggregations
// behind the dashboard.
type analyticsService struct {
	db     *gorm.DB
	budget BudgetServicer
}

// NewAnalyticsService creates a new AnalyticsServicer.
func NewAnalyticsService(db *gorm.DB, budget BudgetServicer) AnalyticsServicer {
	return &analyticsService{db: db, budget: budget}
}

// Search returns the user's transactions inside the time window whose
// category, type, note, or amount matches the free-text query. An empty query
// matches everything in the window.
func (s *analyticsService) Search(userID uint, freeText string, window TimeWindow) ([]models.Transaction, error) {
	q := s.db.Where("user_id = ?", userID)
	if start, ok := windowStart(time.Now(), window); ok {
		q = q.Where("date >= ?", start)
	}

	var txns []models.Transaction
	if err := q.Order("date DESC").Find(&txns).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	needle := strings.ToLower(strings.TrimSpace(freeText))
	if needle == "" {
		return txns, nil
	}

	// Amount matching works on the human-entered decimal form, so "12.50"
	// finds a 1250-cent transaction.
	amountCents, amountOK := parseAmountQuery(needle)

	matched := txns[:0]
	for _, txn := range txns {
		if strings.Contains(strings.ToLower(txn.Category), needle) ||
			strings.Contains(string(txn.Type), needle) ||
			strings.Contains(strings.ToLower(txn.Note), needle) ||
			(amountOK && txn.Amount == amountCents) {
			matched = append(matched, txn)
		}
	}
	return matched, nil
}

// parseAmountQuery interprets the query as a decimal money amount and returns
// it in cents.
func parseAmountQuery(text string) (int64, bool) {
	d, err := decimal.NewFromString(text)
	if err != nil {
		return 0, false
	}
	cents := d.Mul(decimal.NewFromInt(100))
	if !cents.IsInteger() {
		return 0, false
	}
	return cents.IntPart(), true
}

// windowStart returns the inclusive lower bound of a time window relative to
// now. The week window opens on the most recent Sunday, not seven days back.
func windowStart(now time.Time, window TimeWindow) (time.Time, bool) {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	switch window {
	case TimeWindowWeek:
		return midnight.AddDate(0, 0, -int(now.Weekday())), true
	case TimeWindowMonth:
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()), true
	case TimeWindowYear:
		return time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location()), true
	default:
		return time.Time{}, false
	}
}

// Dashboard builds the full dashboard payload. The month and year transaction
// sets and the budget list are independent reads, so they run concurrently.
func (s *analyticsService) Dashboard(ctx context.Context, userID uint) (*DashboardSummary, error) {
	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	yearStart := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())

	var (
		monthTxns []models.Transaction
		yearTxns  []models.Transaction
		budgets   []models.Budget
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := s.db.WithContext(ctx).
			Where("user_id = ? AND date >= ?", userID, monthStart).
			Find(&monthTxns).Error
		if err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	g.Go(func() error {
		err := s.db.WithContext(ctx).
			Where("user_id = ? AND date >= ?", userID, yearStart).
			Find(&yearTxns).Error
		if err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	g.Go(func() error {
		err := s.db.WithContext(ctx).
			Where("user_id = ?", userID).
			Order("category ASC").
			Find(&budgets).Error
		if err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	summary := &DashboardSummary{
		Daily:   groupByDay(monthTxns),
		Weekly:  groupByWeek(monthTxns),
		Monthly: groupByMonth(yearTxns, now.Year()),
		Budgets: make([]BudgetProgress, 0, len(budgets)),
	}
	for _, txn := range monthTxns {
		switch txn.Type {
		case models.TransactionTypeIncome:
			summary.MonthIncome += txn.Amount
		case models.TransactionTypeExpense:
			summary.MonthExpense += txn.Amount
		}
	}
	for i := range budgets {
		summary.Budgets = append(summary.Budgets, budgetProgress(&budgets[i]))
	}
	return summary, nil
}

// groupByDay buckets a month's transactions into 31 day slots. Short months
// leave their trailing buckets at zero.
func groupByDay(txns []models.Transaction) []ChartBucket {
	buckets := make([]ChartBucket, 31)
	for i := range buckets {
		buckets[i].Label = fmt.Sprintf("%d", i+1)
	}
	for _, txn := range txns {
		addToBucket(buckets, txn.Date.Day()-1, txn)
	}
	return buckets
}

// groupByWeek buckets a month's transactions into 4 week slots by calendar
// day: days 1-7 land in week 1, 8-14 in week 2, 15-21 in week 3, and
// everything from day 22 on, including days 29-31, folds into week 4.
func groupByWeek(txns []models.Transaction) []ChartBucket {
	buckets := make([]ChartBucket, 4)
	for i := range buckets {
		buckets[i].Label = fmt.Sprintf("Week %d", i+1)
	}
	for _, txn := range txns {
		week := (txn.Date.Day() + 6) / 7
		if week > 4 {
			week = 4
		}
		addToBucket(buckets, week-1, txn)
	}
	return buckets
}

// groupByMonth buckets a year's transactions into 12 month slots, dropping
// anything outside the given year.
func groupByMonth(txns []models.Transaction, year int) []ChartBucket {
	buckets := make([]ChartBucket, 12)
	for i := range buckets {
		buckets[i].Label = time.Month(i + 1).String()[:3]
	}
	for _, txn := range txns {
		if txn.Date.Year() != year {
			continue
		}
		addToBucket(buckets, int(txn.Date.Month())-1, txn)
	}
	return buckets
}

func addToBucket(buckets []ChartBucket, idx int, txn models.Transaction) {
	if idx < 0 || idx >= len(buckets) {
		return
	}
	switch txn.Type {
	case models.TransactionTypeIncome:
		buckets[idx].Income += txn.Amount
	case models.TransactionTypeExpense:
		buckets[idx].Expense += txn.Amount
	}
}
