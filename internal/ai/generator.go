// Package ai wraps the Gemini model behind a small interface so services can
// extract receipts and generate insight text without knowing the provider.
package ai

import (
	"context"
	"time"
)

// Receipt holds the fields extracted from a receipt image. Amount is in
// cents.
type Receipt struct {
	Merchant string
	Amount   int64
	Category string
	Date     time.Time
}

// BudgetFact is one budget's state fed into insight generation.
type BudgetFact struct {
	Category   string  `json:"category"`
	Amount     int64   `json:"amount"`
	Spent      int64   `json:"spent"`
	Percentage float64 `json:"percentage"`
}

// CategoryFact is one category's expense total fed into insight generation.
type CategoryFact struct {
	Category string `json:"category"`
	Total    int64  `json:"total"`
}

// InsightFacts is the financial state an insight is generated from.
type InsightFacts struct {
	Budgets        []BudgetFact   `json:"budgets"`
	TotalExpense   int64          `json:"total_expense"`
	CategoryTotals []CategoryFact `json:"category_totals"`
}

// Insight is the generated advice text.
type Insight struct {
	OneLiner    string
	FullInsight string
}

// Generator produces model output for the two AI features.
type Generator interface {
	ExtractReceipt(ctx context.Context, image []byte, mimeType string) (*Receipt, error)
	GenerateInsight(ctx context.Context, facts InsightFacts) (*Insight, error)
}
