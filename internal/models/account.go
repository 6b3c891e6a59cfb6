package models

// Account represents a money account owned by a user. Balance is stored in
// cents and equals the signed sum of the account's live transactions (income
// positive, expense negative); only the ledger mutates it.
type Account struct {
	Base
	UserID    uint   `gorm:"not null;index" json:"user_id"`
	Name      string `gorm:"not null" json:"name"`
	Balance   int64  `gorm:"type:bigint;not null;default:0" json:"balance"`
	IsDefault bool   `gorm:"default:false" json:"is_default"`

	Transactions []Transaction `gorm:"foreignKey:AccountID" json:"transactions,omitempty"`
}
