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

// maxBudgetsPerUser caps how many budgets an owner may hold at once.
const maxBudgetsPerUser = 3

// budgetService handles budget-related business logic.
type budgetService struct {
	db *gorm.DB
}

// NewBudgetService creates a new BudgetServicer.
func NewBudgetService(db *gorm.DB) BudgetServicer {
	return &budgetService{db: db}
}

// CreateBudget creates a budget for an expense category. The window must
// contain today, the owner may hold at most three budgets, and only one
// budget per category is allowed. Spend starts at the sum of the expense
// transactions already inside the window so the spend invariant holds
// immediately.
func (s *budgetService) CreateBudget(
	userID uint,
	category string,
	amount int64,
	unit models.BudgetPeriod,
	count int,
	startDate time.Time,
) (*models.Budget, error) {
	if amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "budget amount must be greater than zero")
	}
	if !categories.ValidExpense(category) {
		return nil, apperrors.ErrUnknownCategory
	}

	endDate, err := PeriodEnd(startDate, unit, count)
	if err != nil {
		return nil, err
	}
	if err := checkBudgetWindow(startDate, endDate); err != nil {
		return nil, err
	}

	budget := &models.Budget{
		UserID:      userID,
		Category:    category,
		Amount:      amount,
		PeriodUnit:  unit,
		PeriodCount: count,
		StartDate:   startDate,
		EndDate:     endDate,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.checkCreationRules(tx, userID, category); err != nil {
			return err
		}

		spent, err := s.sumWindowSpend(tx, userID, category, startDate, endDate)
		if err != nil {
			return err
		}
		budget.Spent = spent

		if err := tx.Create(budget).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return budget, nil
}

// checkCreationRules enforces the per-owner budget count and category
// uniqueness before a budget is persisted.
func (s *budgetService) checkCreationRules(tx *gorm.DB, userID uint, category string) error {
	var count int64
	if err := tx.Model(&models.Budget{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count >= maxBudgetsPerUser {
		return apperrors.ErrBudgetLimitReached
	}

	var dup int64
	if err := tx.Model(&models.Budget{}).Where("user_id = ? AND category = ?", userID, category).Count(&dup).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if dup > 0 {
		return apperrors.ErrDuplicateCategory
	}
	return nil
}

// checkBudgetWindow rejects windows that do not contain today.
func checkBudgetWindow(startDate, endDate time.Time) error {
	now := time.Now()
	if now.Before(startDate) || now.After(endDate) {
		return apperrors.ErrInvalidBudgetWindow
	}
	return nil
}

// sumWindowSpend totals the live expense transactions for a category inside
// [startDate, endDate].
func (s *budgetService) sumWindowSpend(tx *gorm.DB, userID uint, category string, startDate, endDate time.Time) (int64, error) {
	var spent int64
	err := tx.Model(&models.Transaction{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("user_id = ? AND category = ? AND type = ? AND date BETWEEN ? AND ?",
			userID, category, models.TransactionTypeExpense, startDate, endDate).
		Scan(&spent).Error
	if err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return spent, nil
}

// GetUserBudgets returns a paginated list of budgets for the user.
func (s *budgetService) GetUserBudgets(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Budget], error) {
	page.Defaults()

	base := s.db.Model(&models.Budget{}).Where("user_id = ?", userID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var budgets []models.Budget
	if err := base.Scopes(pagination.Paginate(page)).Order("category ASC").Find(&budgets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(budgets, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetBudgetByID returns a budget by ID if it belongs to the user.
func (s *budgetService) GetBudgetByID(userID, budgetID uint) (*models.Budget, error) {
	var budget models.Budget
	if err := s.db.Where("id = ? AND user_id = ?", budgetID, userID).First(&budget).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBudgetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &budget, nil
}

// UpdateBudget edits a budget. The end date is recomputed when the period or
// start date changes, and spend is recounted from the live transactions
// whenever the category or window moved; an amount-only edit carries spend
// over untouched.
func (s *budgetService) UpdateBudget(userID, budgetID uint, fields BudgetUpdateFields) (*models.Budget, error) {
	budget, err := s.GetBudgetByID(userID, budgetID)
	if err != nil {
		return nil, err
	}

	updated := *budget
	if fields.Category != nil {
		if !categories.ValidExpense(*fields.Category) {
			return nil, apperrors.ErrUnknownCategory
		}
		updated.Category = *fields.Category
	}
	if fields.Amount != nil {
		if *fields.Amount <= 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "budget amount must be greater than zero")
		}
		updated.Amount = *fields.Amount
	}
	if fields.PeriodUnit != nil {
		updated.PeriodUnit = *fields.PeriodUnit
	}
	if fields.PeriodCount != nil {
		updated.PeriodCount = *fields.PeriodCount
	}
	if fields.StartDate != nil {
		updated.StartDate = *fields.StartDate
	}

	windowChanged := fields.PeriodUnit != nil || fields.PeriodCount != nil || fields.StartDate != nil
	if windowChanged {
		endDate, err := PeriodEnd(updated.StartDate, updated.PeriodUnit, updated.PeriodCount)
		if err != nil {
			return nil, err
		}
		if err := checkBudgetWindow(updated.StartDate, endDate); err != nil {
			return nil, err
		}
		updated.EndDate = endDate
	}

	categoryChanged := fields.Category != nil && *fields.Category != budget.Category

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if categoryChanged {
			var dup int64
			if err := tx.Model(&models.Budget{}).
				Where("user_id = ? AND category = ? AND id <> ?", userID, updated.Category, budgetID).
				Count(&dup).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
			if dup > 0 {
				return apperrors.ErrDuplicateCategory
			}
		}

		if categoryChanged || windowChanged {
			spent, err := s.sumWindowSpend(tx, userID, updated.Category, updated.StartDate, updated.EndDate)
			if err != nil {
				return err
			}
			updated.Spent = spent
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

// DeleteBudget soft-deletes a budget.
func (s *budgetService) DeleteBudget(userID, budgetID uint) error {
	budget, err := s.GetBudgetByID(userID, budgetID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(budget).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// GetBudgetProgress reports spending vs budget from the ledger-maintained
// spend column.
func (s *budgetService) GetBudgetProgress(userID, budgetID uint) (*BudgetProgress, error) {
	budget, err := s.GetBudgetByID(userID, budgetID)
	if err != nil {
		return nil, err
	}
	progress := budgetProgress(budget)
	return &progress, nil
}

func budgetProgress(budget *models.Budget) BudgetProgress {
	var percentage float64
	if budget.Amount > 0 {
		percentage = float64(budget.Spent) / float64(budget.Amount) * 100
	}
	return BudgetProgress{
		BudgetID:   budget.ID,
		Category:   budget.Category,
		Budgeted:   budget.Amount,
		Spent:      budget.Spent,
		Remaining:  budget.Amount - budget.Spent,
		Percentage: percentage,
	}
}
