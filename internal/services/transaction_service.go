package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"fintrack/internal/categories"
	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/pagination"
)

// transactionService handles transaction-related business logic.
type transactionService struct {
	db     *gorm.DB
	ledger LedgerServicer
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB, ledger LedgerServicer) TransactionServicer {
	return &transactionService{db: db, ledger: ledger}
}

// CreateTransaction records a new transaction and applies its effect to the
// account balance and any matching budget in one database transaction. If the
// account does not exist the row is never persisted.
func (s *transactionService) CreateTransaction(
	userID, accountID uint,
	txType models.TransactionType,
	category string,
	amount int64,
	note string,
	date time.Time,
) (*models.Transaction, error) {
	txn := &models.Transaction{
		UserID:    userID,
		AccountID: accountID,
		Type:      txType,
		Category:  category,
		Amount:    amount,
		Note:      note,
		Date:      date,
	}
	if err := s.validate(txn); err != nil {
		return nil, err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(txn).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return s.ledger.Apply(tx, txn)
	})
	if err != nil {
		return nil, err
	}
	return txn, nil
}

// CreateFromReceipt records an expense transaction built from an extracted
// receipt, keeping the stored image reference on the row.
func (s *transactionService) CreateFromReceipt(userID, accountID uint, receipt ReceiptDraft) (*models.Transaction, error) {
	date := receipt.Date
	if date.IsZero() {
		date = time.Now()
	}

	txn := &models.Transaction{
		UserID:        userID,
		AccountID:     accountID,
		Type:          models.TransactionTypeExpense,
		Category:      categories.Normalize(receipt.Category),
		Amount:        receipt.Amount,
		Note:          receipt.Merchant,
		Date:          date,
		ReceiptObject: receipt.ReceiptObject,
		ReceiptURL:    receipt.ReceiptURL,
	}
	if err := s.validate(txn); err != nil {
		return nil, err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(txn).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return s.ledger.Apply(tx, txn)
	})
	if err != nil {
		return nil, err
	}
	return txn, nil
}

// GetUserTransactions retrieves a paginated, filtered list of the user's transactions.
func (s *transactionService) GetUserTransactions(userID uint, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	page.Defaults()

	base := s.db.Model(&models.Transaction{}).Where("user_id = ?", userID)
	base = applyTransactionFilters(base, filter)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var transactions []models.Transaction
	if err := base.Scopes(pagination.Paginate(page)).
		Order("date DESC").
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(transactions, page.Page, page.PageSize, totalItems)
	return &result, nil
}

func applyTransactionFilters(q *gorm.DB, f TransactionFilter) *gorm.DB {
	if f.FromDate != nil {
		q = q.Where("date >= ?", *f.FromDate)
	}
	if f.ToDate != nil {
		q = q.Where("date <= ?", *f.ToDate)
	}
	if f.Type != nil {
		q = q.Where("type = ?", *f.Type)
	}
	if f.Category != nil {
		q = q.Where("category = ?", *f.Category)
	}
	if f.AccountID != nil {
		q = q.Where("account_id = ?", *f.AccountID)
	}
	return q
}

// GetTransactionByID retrieves a transaction by ID for a specific user
func (s *transactionService) GetTransactionByID(userID, transactionID uint) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := s.db.Where("id = ? AND user_id = ?", transactionID, userID).First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &transaction, nil
}

// UpdateTransaction edits a transaction and moves the ledger from the old
// effect to the new one atomically.
func (s *transactionService) UpdateTransaction(userID, transactionID uint, fields TransactionUpdateFields) (*models.Transaction, error) {
	old, err := s.GetTransactionByID(userID, transactionID)
	if err != nil {
		return nil, err
	}

	updated := *old
	if fields.AccountID != nil {
		updated.AccountID = *fields.AccountID
	}
	if fields.Type != nil {
		updated.Type = *fields.Type
	}
	if fields.Category != nil {
		updated.Category = *fields.Category
	}
	if fields.Amount != nil {
		updated.Amount = *fields.Amount
	}
	if fields.Note != nil {
		updated.Note = *fields.Note
	}
	if fields.Date != nil {
		updated.Date = *fields.Date
	}

	if err := s.validate(&updated); err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.ledger.ApplyEdit(tx, old, &updated); err != nil {
			return err
		}
		if err := tx.Save(&updated).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteTransaction deletes a transaction and reverses its effect on the
// account balance and any matching budget.
func (s *transactionService) DeleteTransaction(userID, transactionID uint) error {
	transaction, err := s.GetTransactionByID(userID, transactionID)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(transaction).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return s.ledger.Reverse(tx, transaction)
	})
}

// validate checks the fields every transaction must satisfy before the
// ledger touches anything.
func (s *transactionService) validate(txn *models.Transaction) error {
	if txn.Amount <= 0 {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}
	if txn.AccountID == 0 {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "account ID is required")
	}
	if txn.Type != models.TransactionTypeIncome && txn.Type != models.TransactionTypeExpense {
		return apperrors.ErrInvalidTransactionType
	}
	if !categories.Valid(txn.Category) {
		return apperrors.ErrUnknownCategory
	}
	if txn.Date.IsZero() {
		txn.Date = time.Now()
	}
	if txn.Date.After(endOfToday()) {
		return apperrors.ErrFutureDate
	}
	return nil
}

func endOfToday() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 999999999, now.Location())
}
