// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"fintrack/internal/categories"
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("transaction_type", validateTransactionType)
		_ = v.RegisterValidation("budget_period", validateBudgetPeriod)
		_ = v.RegisterValidation("category_name", validateCategoryName)
		_ = v.RegisterValidation("expense_category", validateExpenseCategory)
		_ = v.RegisterValidation("time_window", validateTimeWindow)
	}
}

func validateTransactionType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "income", "expense":
		return true
	}
	return false
}

func validateBudgetPeriod(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "daily", "weekly", "monthly", "yearly":
		return true
	}
	return false
}

func validateCategoryName(fl validator.FieldLevel) bool {
	return categories.Valid(fl.Field().String())
}

func validateExpenseCategory(fl validator.FieldLevel) bool {
	return categories.ValidExpense(fl.Field().String())
}

func validateTimeWindow(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "all", "week", "month", "year":
		return true
	}
	return false
}
