package services

import (
	"testing"
	"time"

	"fintrack/internal/models"
	"fintrack/internal/pagination"
	"fintrack/internal/testutil"
)

func TestCreateBudget(t *testing.T) {
	start := time.Now().AddDate(0, 0, -1)

	t.Run("success", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		user := testutil.CreateTestUser(t, db)

		budget, err := svc.CreateBudget(user.ID, "food", 50000, models.BudgetPeriodMonthly, 1, start)
		testutil.AssertNoError(t, err)
		if budget.Spent != 0 {
			t.Errorf("expected spent 0, got %d", budget.Spent)
		}
		if !budget.EndDate.Equal(start.AddDate(0, 1, 0)) {
			t.Errorf("expected end date %v, got %v", start.AddDate(0, 1, 0), budget.EndDate)
		}
	})

	t.Run("counts_existing_window_expenses", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		user := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestAccount(t, db, user.ID)

		testutil.CreateTestTransaction(t, db, user.ID, account.ID, models.TransactionTypeExpense, "food", 1200)
		testutil.CreateTestTransaction(t, db, user.ID, account.ID, models.TransactionTypeExpense, "food", 800)
		// Outside the window and wrong type must not count.
		testutil.CreateTestTransactionOnDate(t, db, user.ID, account.ID, models.TransactionTypeExpense, "food", 5000, start.AddDate(0, -2, 0))
		testutil.CreateTestTransaction(t, db, user.ID, account.ID, models.TransactionTypeIncome, "food", 9999)

		budget, err := svc.CreateBudget(user.ID, "food", 50000, models.BudgetPeriodMonthly, 1, start)
		testutil.AssertNoError(t, err)
		if budget.Spent != 2000 {
			t.Errorf("expected spent 2000, got %d", budget.Spent)
		}
	})

	t.Run("limit_of_three", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		user := testutil.CreateTestUser(t, db)

		for _, category := range []string{"food", "transport", "shopping"} {
			_, err := svc.CreateBudget(user.ID, category, 10000, models.BudgetPeriodMonthly, 1, start)
			testutil.AssertNoError(t, err)
		}

		_, err := svc.CreateBudget(user.ID, "entertainment", 10000, models.BudgetPeriodMonthly, 1, start)
		testutil.AssertAppError(t, err, "BUDGET_LIMIT_REACHED")
	})

	t.Run("duplicate_category", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateBudget(user.ID, "food", 10000, models.BudgetPeriodMonthly, 1, start)
		testutil.AssertNoError(t, err)
		_, err = svc.CreateBudget(user.ID, "food", 20000, models.BudgetPeriodWeekly, 2, start)
		testutil.AssertAppError(t, err, "DUPLICATE_CATEGORY")
	})

	t.Run("non_expense_category", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateBudget(user.ID, "salary", 10000, models.BudgetPeriodMonthly, 1, start)
		testutil.AssertAppError(t, err, "UNKNOWN_CATEGORY")
	})

	t.Run("zero_amount", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateBudget(user.ID, "food", 0, models.BudgetPeriodMonthly, 1, start)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("window_must_contain_today", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		user := testutil.CreateTestUser(t, db)

		// A weekly window that ended before today.
		_, err := svc.CreateBudget(user.ID, "food", 10000, models.BudgetPeriodWeekly, 1, time.Now().AddDate(0, 0, -10))
		testutil.AssertAppError(t, err, "INVALID_BUDGET_WINDOW")

		// A window that has not started yet.
		_, err = svc.CreateBudget(user.ID, "food", 10000, models.BudgetPeriodMonthly, 1, time.Now().AddDate(0, 0, 2))
		testutil.AssertAppError(t, err, "INVALID_BUDGET_WINDOW")
	})
}

func TestUpdateBudget(t *testing.T) {
	t.Run("amount_only_carries_spend", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		user := testutil.CreateTestUser(t, db)
		budget := testutil.CreateTestBudget(t, db, user.ID, "food", 10000)
		budget.Spent = 3000
		testutil.AssertNoError(t, db.Save(budget).Error)

		amount := int64(20000)
		updated, err := svc.UpdateBudget(user.ID, budget.ID, BudgetUpdateFields{Amount: &amount})
		testutil.AssertNoError(t, err)
		if updated.Amount != 20000 {
			t.Errorf("expected amount 20000, got %d", updated.Amount)
		}
		if updated.Spent != 3000 {
			t.Errorf("expected spend carried over as 3000, got %d", updated.Spent)
		}
	})

	t.Run("category_change_recounts_spend", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		user := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestAccount(t, db, user.ID)
		budget := testutil.CreateTestBudget(t, db, user.ID, "food", 10000)

		testutil.CreateTestTransaction(t, db, user.ID, account.ID, models.TransactionTypeExpense, "transport", 1500)

		category := "transport"
		updated, err := svc.UpdateBudget(user.ID, budget.ID, BudgetUpdateFields{Category: &category})
		testutil.AssertNoError(t, err)
		if updated.Spent != 1500 {
			t.Errorf("expected spend recounted to 1500, got %d", updated.Spent)
		}
	})

	t.Run("category_change_rejects_duplicate", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		user := testutil.CreateTestUser(t, db)
		testutil.CreateTestBudget(t, db, user.ID, "transport", 10000)
		budget := testutil.CreateTestBudget(t, db, user.ID, "food", 10000)

		category := "transport"
		_, err := svc.UpdateBudget(user.ID, budget.ID, BudgetUpdateFields{Category: &category})
		testutil.AssertAppError(t, err, "DUPLICATE_CATEGORY")
	})

	t.Run("window_change_recomputes_end_date", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		user := testutil.CreateTestUser(t, db)
		budget := testutil.CreateTestBudget(t, db, user.ID, "food", 10000)

		unit := models.BudgetPeriodWeekly
		count := 2
		updated, err := svc.UpdateBudget(user.ID, budget.ID, BudgetUpdateFields{PeriodUnit: &unit, PeriodCount: &count})
		testutil.AssertNoError(t, err)
		if !updated.EndDate.Equal(updated.StartDate.AddDate(0, 0, 14)) {
			t.Errorf("expected end date two weeks after start, got %v", updated.EndDate)
		}
	})

	t.Run("window_change_must_still_contain_today", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		user := testutil.CreateTestUser(t, db)
		budget := testutil.CreateTestBudget(t, db, user.ID, "food", 10000)

		newStart := time.Now().AddDate(0, 0, -10)
		unit := models.BudgetPeriodWeekly
		count := 1
		_, err := svc.UpdateBudget(user.ID, budget.ID, BudgetUpdateFields{StartDate: &newStart, PeriodUnit: &unit, PeriodCount: &count})
		testutil.AssertAppError(t, err, "INVALID_BUDGET_WINDOW")
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		user := testutil.CreateTestUser(t, db)

		amount := int64(100)
		_, err := svc.UpdateBudget(user.ID, 99999, BudgetUpdateFields{Amount: &amount})
		testutil.AssertAppError(t, err, "BUDGET_NOT_FOUND")
	})
}

func TestDeleteBudget(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		user := testutil.CreateTestUser(t, db)
		budget := testutil.CreateTestBudget(t, db, user.ID, "food", 10000)

		testutil.AssertNoError(t, svc.DeleteBudget(user.ID, budget.ID))
		_, err := svc.GetBudgetByID(user.ID, budget.ID)
		testutil.AssertAppError(t, err, "BUDGET_NOT_FOUND")
	})

	t.Run("wrong_user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		owner := testutil.CreateTestUser(t, db)
		other := testutil.CreateTestUser(t, db)
		budget := testutil.CreateTestBudget(t, db, owner.ID, "food", 10000)

		err := svc.DeleteBudget(other.ID, budget.ID)
		testutil.AssertAppError(t, err, "BUDGET_NOT_FOUND")
	})
}

func TestGetBudgetProgress(t *testing.T) {
	t.Run("percentage", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		user := testutil.CreateTestUser(t, db)
		budget := testutil.CreateTestBudget(t, db, user.ID, "food", 10000)
		budget.Spent = 7500
		testutil.AssertNoError(t, db.Save(budget).Error)

		progress, err := svc.GetBudgetProgress(user.ID, budget.ID)
		testutil.AssertNoError(t, err)
		if progress.Percentage != 75 {
			t.Errorf("expected percentage 75, got %f", progress.Percentage)
		}
		if progress.Remaining != 2500 {
			t.Errorf("expected remaining 2500, got %d", progress.Remaining)
		}
	})
}

func TestGetUserBudgets(t *testing.T) {
	t.Run("ordered_by_category", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		user := testutil.CreateTestUser(t, db)
		testutil.CreateTestBudget(t, db, user.ID, "transport", 10000)
		testutil.CreateTestBudget(t, db, user.ID, "food", 10000)

		result, err := svc.GetUserBudgets(user.ID, pagination.PageRequest{})
		testutil.AssertNoError(t, err)
		if result.TotalItems != 2 {
			t.Fatalf("expected 2 budgets, got %d", result.TotalItems)
		}
		if result.Data[0].Category != "food" {
			t.Errorf("expected food first, got %s", result.Data[0].Category)
		}
	})
}
