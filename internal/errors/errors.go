// Package errors provides custom error types for the fintrack API.
// All service-layer errors should use AppError to ensure consistent,
// secure error responses that never leak internal details to clients.
package errors

import "net/http"

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// Authentication & authorization errors.
var (
	ErrUnauthorized       = &AppError{Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrInvalidCredentials = &AppError{Code: "INVALID_CREDENTIALS", Message: "Invalid email or password", StatusCode: http.StatusUnauthorized}
	ErrForbidden          = &AppError{Code: "FORBIDDEN", Message: "Access denied", StatusCode: http.StatusForbidden}
)

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// User errors.
var (
	ErrUserNotFound   = &AppError{Code: "USER_NOT_FOUND", Message: "User not found", StatusCode: http.StatusNotFound}
	ErrDuplicateEmail = &AppError{Code: "DUPLICATE_EMAIL", Message: "A user with this email already exists", StatusCode: http.StatusConflict}
)

// Account errors.
var (
	ErrAccountNotFound = &AppError{Code: "ACCOUNT_NOT_FOUND", Message: "Account not found", StatusCode: http.StatusNotFound}
)

// Transaction errors.
var (
	ErrTransactionNotFound    = &AppError{Code: "TRANSACTION_NOT_FOUND", Message: "Transaction not found", StatusCode: http.StatusNotFound}
	ErrInvalidTransactionType = &AppError{Code: "INVALID_TRANSACTION_TYPE", Message: "Unsupported transaction type", StatusCode: http.StatusBadRequest}
	ErrFutureDate             = &AppError{Code: "FUTURE_DATE", Message: "Transaction date cannot be in the future", StatusCode: http.StatusBadRequest}
	ErrUnknownCategory        = &AppError{Code: "UNKNOWN_CATEGORY", Message: "Unknown category", StatusCode: http.StatusBadRequest}
)

// Budget errors.
var (
	ErrBudgetNotFound      = &AppError{Code: "BUDGET_NOT_FOUND", Message: "Budget not found", StatusCode: http.StatusNotFound}
	ErrInvalidPeriod       = &AppError{Code: "INVALID_PERIOD", Message: "Invalid budget period", StatusCode: http.StatusBadRequest}
	ErrInvalidBudgetWindow = &AppError{Code: "INVALID_BUDGET_WINDOW", Message: "Today must fall within the budget window", StatusCode: http.StatusBadRequest}
	ErrBudgetLimitReached  = &AppError{Code: "BUDGET_LIMIT_REACHED", Message: "You can have at most 3 active budgets", StatusCode: http.StatusConflict}
	ErrDuplicateCategory   = &AppError{Code: "DUPLICATE_CATEGORY", Message: "A budget for this category already exists", StatusCode: http.StatusConflict}
)

// External collaborator errors.
var (
	ErrExternalService      = &AppError{Code: "EXTERNAL_SERVICE", Message: "An external service is unavailable, please try again", StatusCode: http.StatusBadGateway}
	ErrInsightUnavailable   = &AppError{Code: "INSIGHT_UNAVAILABLE", Message: "Insights are unavailable right now", StatusCode: http.StatusServiceUnavailable}
	ErrReceiptUnreadable    = &AppError{Code: "RECEIPT_UNREADABLE", Message: "Could not read the receipt, please enter the transaction manually", StatusCode: http.StatusUnprocessableEntity}
	ErrStorageNotConfigured = &AppError{Code: "STORAGE_NOT_CONFIGURED", Message: "File storage is not configured", StatusCode: http.StatusServiceUnavailable}
)
