package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
)

// ledgerService applies and reverses the financial effect of transactions
// against account balances and budget spend. Callers run its methods inside a
// database transaction; if any step fails the whole mutation rolls back, so a
// transaction row is never persisted without its balance effect.
type ledgerService struct{}

// NewLedgerService creates a new LedgerServicer.
func NewLedgerService() LedgerServicer {
	return &ledgerService{}
}

// Apply adds the transaction's effect: income adds to the account balance,
// expense subtracts, and an expense whose date falls inside a matching
// budget's window increases that budget's spend.
func (s *ledgerService) Apply(tx *gorm.DB, txn *models.Transaction) error {
	if err := s.adjustAccount(tx, txn.UserID, txn.AccountID, txn.Type, txn.Amount); err != nil {
		return err
	}
	return s.adjustBudget(tx, txn, txn.Amount)
}

// Reverse removes the transaction's effect, restoring the balance and budget
// spend to their values before Apply. Used before deletion and as one half of
// re-applying an edited transaction.
func (s *ledgerService) Reverse(tx *gorm.DB, txn *models.Transaction) error {
	if err := s.adjustAccount(tx, txn.UserID, txn.AccountID, inverseType(txn.Type), txn.Amount); err != nil {
		return err
	}
	return s.adjustBudget(tx, txn, -txn.Amount)
}

// ApplyEdit moves the ledger from old's effect to updated's effect with the
// minimum number of balance updates:
//
//  1. account changed: reverse against the old account, apply against the new
//  2. only the type flipped: a single 2×amount update in the new direction
//  3. type and amount changed: reverse old, then apply new
//  4. only the amount changed: one signed-delta update
//
// Budget spend is re-derived whenever anything that decides an expense
// contribution changed (type, amount, category, or date, since spend counts
// only transactions dated inside the budget window).
func (s *ledgerService) ApplyEdit(tx *gorm.DB, old, updated *models.Transaction) error {
	accountChanged := old.AccountID != updated.AccountID
	typeChanged := old.Type != updated.Type
	amountChanged := old.Amount != updated.Amount

	switch {
	case accountChanged:
		if err := s.adjustAccount(tx, old.UserID, old.AccountID, inverseType(old.Type), old.Amount); err != nil {
			return err
		}
		if err := s.adjustAccount(tx, updated.UserID, updated.AccountID, updated.Type, updated.Amount); err != nil {
			return err
		}
	case typeChanged && !amountChanged:
		// Reverse+apply collapsed into one update of twice the amount.
		if err := s.adjustAccount(tx, old.UserID, old.AccountID, updated.Type, 2*old.Amount); err != nil {
			return err
		}
	case typeChanged:
		if err := s.adjustAccount(tx, old.UserID, old.AccountID, inverseType(old.Type), old.Amount); err != nil {
			return err
		}
		if err := s.adjustAccount(tx, old.UserID, old.AccountID, updated.Type, updated.Amount); err != nil {
			return err
		}
	case amountChanged:
		delta := updated.Amount - old.Amount
		direction := old.Type
		if delta < 0 {
			direction = inverseType(old.Type)
			delta = -delta
		}
		if err := s.adjustAccount(tx, old.UserID, old.AccountID, direction, delta); err != nil {
			return err
		}
	}

	if typeChanged || amountChanged || old.Category != updated.Category || !old.Date.Equal(updated.Date) {
		if err := s.adjustBudget(tx, old, -old.Amount); err != nil {
			return err
		}
		if err := s.adjustBudget(tx, updated, updated.Amount); err != nil {
			return err
		}
	}

	return nil
}

// adjustAccount moves the balance of the user's account by amount in the
// given direction.
func (s *ledgerService) adjustAccount(tx *gorm.DB, userID, accountID uint, direction models.TransactionType, amount int64) error {
	var account models.Account
	if err := tx.Where("id = ? AND user_id = ?", accountID, userID).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrAccountNotFound
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	switch direction {
	case models.TransactionTypeIncome:
		account.Balance += amount
	case models.TransactionTypeExpense:
		account.Balance -= amount
	default:
		return apperrors.ErrInvalidTransactionType
	}

	if err := tx.Model(&account).Update("balance", account.Balance).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// adjustBudget moves the spend of the budget watching txn's category by
// delta, if such a budget exists and txn is an expense dated inside its
// window. Spend never drops below zero.
func (s *ledgerService) adjustBudget(tx *gorm.DB, txn *models.Transaction, delta int64) error {
	if txn.Type != models.TransactionTypeExpense {
		return nil
	}

	var budget models.Budget
	err := tx.Where("user_id = ? AND category = ? AND start_date <= ? AND end_date >= ?",
		txn.UserID, txn.Category, txn.Date, txn.Date).First(&budget).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// No budget watching this category.
			return nil
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	spent := budget.Spent + delta
	if spent < 0 {
		spent = 0
	}
	if err := tx.Model(&budget).Update("spent", spent).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

func inverseType(t models.TransactionType) models.TransactionType {
	if t == models.TransactionTypeIncome {
		return models.TransactionTypeExpense
	}
	return models.TransactionTypeIncome
}
