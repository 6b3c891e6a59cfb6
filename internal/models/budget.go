package models

import "time"

// BudgetPeriod represents the unit a budget window is measured in.
type BudgetPeriod string

const (
	BudgetPeriodDaily   BudgetPeriod = "daily"
	BudgetPeriodWeekly  BudgetPeriod = "weekly"
	BudgetPeriodMonthly BudgetPeriod = "monthly"
	BudgetPeriodYearly  BudgetPeriod = "yearly"
)

// Budget caps spending for one expense category over [StartDate, EndDate].
// EndDate is derived from StartDate advanced by PeriodCount units of
// PeriodUnit. Spent is maintained by the ledger and never drops below zero.
type Budget struct {
	Base
	UserID      uint         `gorm:"not null;index" json:"user_id"`
	Category    string       `gorm:"not null" json:"category"`
	Amount      int64        `gorm:"type:bigint;not null" json:"amount"`
	PeriodUnit  BudgetPeriod `gorm:"not null" json:"period_unit"`
	PeriodCount int          `gorm:"not null;default:1" json:"period_count"`
	StartDate   time.Time    `gorm:"not null" json:"start_date"`
	EndDate     time.Time    `gorm:"not null" json:"end_date"`
	Spent       int64        `gorm:"type:bigint;not null;default:0" json:"spent"`
}
