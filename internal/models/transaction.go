package models

import "time"

// TransactionType represents the type of transaction
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// Transaction represents a financial transaction in the system. Amount is
// always positive (in cents); Type decides the sign of its effect.
type Transaction struct {
	Base
	UserID    uint            `gorm:"not null;index" json:"user_id"`
	AccountID uint            `gorm:"not null;index" json:"account_id"`
	Type      TransactionType `gorm:"not null" json:"type"`
	Category  string          `gorm:"not null" json:"category"`
	Amount    int64           `gorm:"type:bigint;not null" json:"amount"`
	Note      string          `json:"note"`
	Date      time.Time       `gorm:"not null" json:"date"`

	// Set when the transaction was created from an uploaded receipt image.
	ReceiptObject string `json:"receipt_object,omitempty"`
	ReceiptURL    string `json:"receipt_url,omitempty"`

	Account Account `gorm:"foreignKey:AccountID" json:"account,omitempty"`
}
