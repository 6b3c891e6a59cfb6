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

// accountService handles account-related business logic.
type accountService struct {
	db     *gorm.DB
	ledger LedgerServicer
}

// NewAccountService creates a new AccountServicer.
func NewAccountService(db *gorm.DB, ledger LedgerServicer) AccountServicer {
	return &accountService{db: db, ledger: ledger}
}

// CreateAccount creates a new account for a user. A non-zero initial balance
// is recorded as an income transaction so the balance invariant holds from
// the first day.
func (s *accountService) CreateAccount(userID uint, name string, initialBalance int64, isDefault bool) (*models.Account, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "account name is required")
	}
	if initialBalance < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "initial balance cannot be negative")
	}

	account := &models.Account{
		UserID:    userID,
		Name:      name,
		Balance:   0,
		IsDefault: isDefault,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if isDefault {
			if err := tx.Model(&models.Account{}).Where("user_id = ?", userID).
				Update("is_default", false).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		}

		if err := tx.Create(account).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		if initialBalance > 0 {
			opening := &models.Transaction{
				UserID:    userID,
				AccountID: account.ID,
				Type:      models.TransactionTypeIncome,
				Category:  categories.Other,
				Amount:    initialBalance,
				Note:      "Initial balance",
				Date:      time.Now(),
			}
			if err := tx.Create(opening).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
			if err := s.ledger.Apply(tx, opening); err != nil {
				return err
			}
			account.Balance = initialBalance
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return account, nil
}

// GetUserAccounts retrieves a paginated list of accounts for a user.
func (s *accountService) GetUserAccounts(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Account], error) {
	page.Defaults()

	var totalItems int64
	base := s.db.Model(&models.Account{}).Where("user_id = ?", userID)
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var accounts []models.Account
	if err := base.Scopes(pagination.Paginate(page)).Order("is_default DESC, name ASC").Find(&accounts).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(accounts, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetAccountByID retrieves an account by ID for a specific user
func (s *accountService) GetAccountByID(userID, accountID uint) (*models.Account, error) {
	var account models.Account
	if err := s.db.Where("id = ? AND user_id = ?", accountID, userID).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAccountNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &account, nil
}

// UpdateAccount updates an account's name and default flag. Balance is never
// updated here; only the ledger mutates it.
func (s *accountService) UpdateAccount(userID, accountID uint, name *string, isDefault *bool) (*models.Account, error) {
	account, err := s.GetAccountByID(userID, accountID)
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		updates := make(map[string]interface{})
		if name != nil && *name != "" {
			updates["name"] = *name
		}
		if isDefault != nil {
			if *isDefault {
				if err := tx.Model(&models.Account{}).Where("user_id = ? AND id <> ?", userID, accountID).
					Update("is_default", false).Error; err != nil {
					return apperrors.Wrap(apperrors.ErrInternalServer, err)
				}
			}
			updates["is_default"] = *isDefault
		}

		if len(updates) > 0 {
			if err := tx.Model(account).Updates(updates).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return account, nil
}

// DeleteAccount deletes an account after cascading deletion of all its
// transactions. Budget spend contributed by the deleted expense transactions
// is released; the account's own balance reversal is moot once the row is
// gone, but running the full reversal keeps the invariant checkable at every
// intermediate step.
func (s *accountService) DeleteAccount(userID, accountID uint) error {
	account, err := s.GetAccountByID(userID, accountID)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		var txns []models.Transaction
		if err := tx.Where("user_id = ? AND account_id = ?", userID, accountID).Find(&txns).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		for i := range txns {
			if err := s.ledger.Reverse(tx, &txns[i]); err != nil {
				return err
			}
			if err := tx.Delete(&txns[i]).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		}

		if err := tx.Delete(account).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
}
