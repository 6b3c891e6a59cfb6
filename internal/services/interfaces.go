package services

import (
	"context"
	"time"

	"gorm.io/gorm"

	"fintrack/internal/models"
	"fintrack/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, firstName, lastName string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id uint) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	StoreRefreshTokenHash(userID uint, tokenHash string) error
	GetRefreshTokenHash(userID uint) (string, error)
}

// AccountServicer defines the contract for account-related business logic.
type AccountServicer interface {
	CreateAccount(userID uint, name string, initialBalance int64, isDefault bool) (*models.Account, error)
	GetUserAccounts(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Account], error)
	GetAccountByID(userID, accountID uint) (*models.Account, error)
	UpdateAccount(userID, accountID uint, name *string, isDefault *bool) (*models.Account, error)
	DeleteAccount(userID, accountID uint) error
}

// LedgerServicer keeps account balances and budget spend consistent with the
// set of live transactions. Every method takes the *gorm.DB handle of an open
// database transaction so a failed step aborts the whole mutation.
type LedgerServicer interface {
	Apply(tx *gorm.DB, txn *models.Transaction) error
	Reverse(tx *gorm.DB, txn *models.Transaction) error
	ApplyEdit(tx *gorm.DB, old, updated *models.Transaction) error
}

// TransactionUpdateFields holds the optional fields of a transaction edit.
type TransactionUpdateFields struct {
	AccountID *uint
	Type      *models.TransactionType
	Category  *string
	Amount    *int64
	Note      *string
	Date      *time.Time
}

// TransactionFilter holds optional filter parameters for listing transactions.
type TransactionFilter struct {
	FromDate  *time.Time
	ToDate    *time.Time
	Type      *models.TransactionType
	Category  *string
	AccountID *uint
}

// TransactionServicer defines the contract for transaction-related business logic.
type TransactionServicer interface {
	CreateTransaction(userID, accountID uint, txType models.TransactionType, category string, amount int64, note string, date time.Time) (*models.Transaction, error)
	CreateFromReceipt(userID, accountID uint, receipt ReceiptDraft) (*models.Transaction, error)
	GetUserTransactions(userID uint, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	GetTransactionByID(userID, transactionID uint) (*models.Transaction, error)
	UpdateTransaction(userID, transactionID uint, fields TransactionUpdateFields) (*models.Transaction, error)
	DeleteTransaction(userID, transactionID uint) error
}

// ReceiptDraft carries the values extracted from a receipt image together
// with the stored image's location.
type ReceiptDraft struct {
	Merchant      string
	Amount        int64
	Category      string
	Date          time.Time
	ReceiptObject string
	ReceiptURL    string
}

// BudgetUpdateFields holds the optional fields of a budget edit.
type BudgetUpdateFields struct {
	Category    *string
	Amount      *int64
	PeriodUnit  *models.BudgetPeriod
	PeriodCount *int
	StartDate   *time.Time
}

// BudgetProgress contains spending vs budget data for a budget's window.
type BudgetProgress struct {
	BudgetID   uint    `json:"budget_id"`
	Category   string  `json:"category"`
	Budgeted   int64   `json:"budgeted"`
	Spent      int64   `json:"spent"`
	Remaining  int64   `json:"remaining"`
	Percentage float64 `json:"percentage"`
}

// BudgetServicer defines the contract for budget-related business logic.
type BudgetServicer interface {
	CreateBudget(userID uint, category string, amount int64, unit models.BudgetPeriod, count int, startDate time.Time) (*models.Budget, error)
	GetUserBudgets(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Budget], error)
	GetBudgetByID(userID, budgetID uint) (*models.Budget, error)
	UpdateBudget(userID, budgetID uint, fields BudgetUpdateFields) (*models.Budget, error)
	DeleteBudget(userID, budgetID uint) error
	GetBudgetProgress(userID, budgetID uint) (*BudgetProgress, error)
}

// TimeWindow restricts a transaction search to a recent period.
type TimeWindow string

const (
	TimeWindowAll   TimeWindow = "all"
	TimeWindowWeek  TimeWindow = "week"  // since the most recent Sunday
	TimeWindowMonth TimeWindow = "month" // since the 1st of the current month
	TimeWindowYear  TimeWindow = "year"  // since January 1st
)

// ChartBucket is one income/expense pair in a chart series.
type ChartBucket struct {
	Label   string `json:"label"`
	Income  int64  `json:"income"`
	Expense int64  `json:"expense"`
}

// DashboardSummary aggregates the chart series and totals shown on the
// dashboard.
type DashboardSummary struct {
	MonthIncome  int64            `json:"month_income"`
	MonthExpense int64            `json:"month_expense"`
	Daily        []ChartBucket    `json:"daily"`
	Weekly       []ChartBucket    `json:"weekly"`
	Monthly      []ChartBucket    `json:"monthly"`
	Budgets      []BudgetProgress `json:"budgets"`
}

// AnalyticsServicer defines the contract for transaction search and grouping.
type AnalyticsServicer interface {
	Search(userID uint, freeText string, window TimeWindow) ([]models.Transaction, error)
	Dashboard(ctx context.Context, userID uint) (*DashboardSummary, error)
}

// InsightResult is the generated (or cached) insight text for a user.
type InsightResult struct {
	OneLiner    string    `json:"one_liner"`
	FullInsight string    `json:"full_insight"`
	GeneratedAt time.Time `json:"generated_at"`
	Cached      bool      `json:"cached"`
}

// InsightServicer defines the contract for insight generation and caching.
type InsightServicer interface {
	GetInsight(ctx context.Context, userID uint) (*InsightResult, error)
}

// ReportServicer renders transaction reports for download.
type ReportServicer interface {
	TransactionsCSV(userID uint, freeText string, window TimeWindow) ([]byte, error)
	TransactionsPDF(userID uint, freeText string, window TimeWindow) ([]byte, error)
}
