package services

import (
	"testing"
	"time"

	"fintrack/internal/models"
	"fintrack/internal/pagination"
	"fintrack/internal/testutil"
)

func TestCreateTransaction(t *testing.T) {
	t.Run("income_increases_balance", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		ledger := NewLedgerService()
		txSvc := NewTransactionService(db, ledger)
		user := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestAccount(t, db, user.ID)

		tx, err := txSvc.CreateTransaction(user.ID, account.ID, models.TransactionTypeIncome, "salary", 5000, "Salary", time.Now())
		testutil.AssertNoError(t, err)

		if tx.ID == 0 {
			t.Fatal("expected non-zero transaction ID")
		}

		var updated models.Account
		testutil.AssertNoError(t, db.First(&updated, account.ID).Error)
		if updated.Balance != 5000 {
			t.Errorf("expected balance 5000, got %d", updated.Balance)
		}
	})

	t.Run("expense_decreases_balance", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		txSvc := NewTransactionService(db, NewLedgerService())
		user := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestAccountWithBalance(t, db, user.ID, 10000)

		_, err := txSvc.CreateTransaction(user.ID, account.ID, models.TransactionTypeExpense, "food", 3000, "Lunch", time.Now())
		testutil.AssertNoError(t, err)

		var updated models.Account
		testutil.AssertNoError(t, db.First(&updated, account.ID).Error)
		if updated.Balance != 7000 {
			t.Errorf("expected balance 7000, got %d", updated.Balance)
		}
	})

	t.Run("zero_amount", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		txSvc := NewTransactionService(db, NewLedgerService())
		user := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestAccount(t, db, user.ID)

		_, err := txSvc.CreateTransaction(user.ID, account.ID, models.TransactionTypeIncome, "salary", 0, "", time.Now())
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("unknown_category", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		txSvc := NewTransactionService(db, NewLedgerService())
		user := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestAccount(t, db, user.ID)

		_, err := txSvc.CreateTransaction(user.ID, account.ID, models.TransactionTypeExpense, "yachts", 1000, "", time.Now())
		testutil.AssertAppError(t, err, "UNKNOWN_CATEGORY")
	})

	t.Run("invalid_type", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		txSvc := NewTransactionService(db, NewLedgerService())
		user := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestAccount(t, db, user.ID)

		_, err := txSvc.CreateTransaction(user.ID, account.ID, models.TransactionType("transfer"), "other", 1000, "", time.Now())
		testutil.AssertAppError(t, err, "INVALID_TRANSACTION_TYPE")
	})

	t.Run("future_date", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		txSvc := NewTransactionService(db, NewLedgerService())
		user := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestAccount(t, db, user.ID)

		_, err := txSvc.CreateTransaction(user.ID, account.ID, models.TransactionTypeIncome, "salary", 1000, "", time.Now().AddDate(0, 0, 2))
		testutil.AssertAppError(t, err, "FUTURE_DATE")
	})

	t.Run("missing_account_persists_nothing", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		txSvc := NewTransactionService(db, NewLedgerService())
		user := testutil.CreateTestUser(t, db)

		_, err := txSvc.CreateTransaction(user.ID, 99999, models.TransactionTypeIncome, "salary", 1000, "", time.Now())
		testutil.AssertAppError(t, err, "ACCOUNT_NOT_FOUND")

		var count int64
		testutil.AssertNoError(t, db.Model(&models.Transaction{}).Where("user_id = ?", user.ID).Count(&count).Error)
		if count != 0 {
			t.Errorf("expected no transaction rows after rollback, got %d", count)
		}
	})

	t.Run("wrong_user_account", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		txSvc := NewTransactionService(db, NewLedgerService())
		user1 := testutil.CreateTestUser(t, db)
		user2 := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestAccount(t, db, user1.ID)

		_, err := txSvc.CreateTransaction(user2.ID, account.ID, models.TransactionTypeIncome, "salary", 1000, "", time.Now())
		testutil.AssertAppError(t, err, "ACCOUNT_NOT_FOUND")
	})
}

func TestCreateFromReceipt(t *testing.T) {
	t.Run("records_expense_with_receipt_refs", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		txSvc := NewTransactionService(db, NewLedgerService())
		user := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestAccountWithBalance(t, db, user.ID, 10000)

		tx, err := txSvc.CreateFromReceipt(user.ID, account.ID, ReceiptDraft{
			Merchant:      "Corner Cafe",
			Amount:        1250,
			Category:      "food",
			ReceiptObject: "receipts/user-1/abc.jpg",
			ReceiptURL:    "https://storage.googleapis.com/bucket/receipts/user-1/abc.jpg",
		})
		testutil.AssertNoError(t, err)

		if tx.Type != models.TransactionTypeExpense {
			t.Errorf("expected expense, got %s", tx.Type)
		}
		if tx.Note != "Corner Cafe" {
			t.Errorf("expected merchant as note, got %q", tx.Note)
		}
		if tx.ReceiptObject == "" || tx.ReceiptURL == "" {
			t.Error("expected receipt references to be stored")
		}

		var updated models.Account
		testutil.AssertNoError(t, db.First(&updated, account.ID).Error)
		if updated.Balance != 8750 {
			t.Errorf("expected balance 8750, got %d", updated.Balance)
		}
	})

	t.Run("unrecognized_category_falls_back_to_other", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		txSvc := NewTransactionService(db, NewLedgerService())
		user := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestAccount(t, db, user.ID)

		tx, err := txSvc.CreateFromReceipt(user.ID, account.ID, ReceiptDraft{
			Merchant: "Mystery Shop",
			Amount:   500,
			Category: "Fine Dining & Cocktails",
		})
		testutil.AssertNoError(t, err)
		if tx.Category != "other" {
			t.Errorf("expected category other, got %q", tx.Category)
		}
	})
}

func TestUpdateTransaction(t *testing.T) {
	t.Run("amount_edit_moves_balance", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		txSvc := NewTransactionService(db, NewLedgerService())
		user := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestAccount(t, db, user.ID)

		tx, err := txSvc.CreateTransaction(user.ID, account.ID, models.TransactionTypeIncome, "salary", 1000, "", time.Now())
		testutil.AssertNoError(t, err)

		newAmount := int64(1800)
		updated, err := txSvc.UpdateTransaction(user.ID, tx.ID, TransactionUpdateFields{Amount: &newAmount})
		testutil.AssertNoError(t, err)
		if updated.Amount != 1800 {
			t.Errorf("expected amount 1800, got %d", updated.Amount)
		}

		var acct models.Account
		testutil.AssertNoError(t, db.First(&acct, account.ID).Error)
		if acct.Balance != 1800 {
			t.Errorf("expected balance 1800, got %d", acct.Balance)
		}
	})

	t.Run("validation_failure_leaves_ledger_untouched", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		txSvc := NewTransactionService(db, NewLedgerService())
		user := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestAccount(t, db, user.ID)

		tx, err := txSvc.CreateTransaction(user.ID, account.ID, models.TransactionTypeIncome, "salary", 1000, "", time.Now())
		testutil.AssertNoError(t, err)

		bad := "not-a-category"
		_, err = txSvc.UpdateTransaction(user.ID, tx.ID, TransactionUpdateFields{Category: &bad})
		testutil.AssertAppError(t, err, "UNKNOWN_CATEGORY")

		var acct models.Account
		testutil.AssertNoError(t, db.First(&acct, account.ID).Error)
		if acct.Balance != 1000 {
			t.Errorf("expected balance unchanged at 1000, got %d", acct.Balance)
		}
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		txSvc := NewTransactionService(db, NewLedgerService())
		user := testutil.CreateTestUser(t, db)

		amount := int64(100)
		_, err := txSvc.UpdateTransaction(user.ID, 99999, TransactionUpdateFields{Amount: &amount})
		testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")
	})
}

func TestDeleteTransaction(t *testing.T) {
	t.Run("reverses_effect", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		txSvc := NewTransactionService(db, NewLedgerService())
		user := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestAccountWithBalance(t, db, user.ID, 5000)

		tx, err := txSvc.CreateTransaction(user.ID, account.ID, models.TransactionTypeExpense, "food", 2000, "", time.Now())
		testutil.AssertNoError(t, err)

		testutil.AssertNoError(t, txSvc.DeleteTransaction(user.ID, tx.ID))

		var acct models.Account
		testutil.AssertNoError(t, db.First(&acct, account.ID).Error)
		if acct.Balance != 5000 {
			t.Errorf("expected balance restored to 5000, got %d", acct.Balance)
		}

		_, err = txSvc.GetTransactionByID(user.ID, tx.ID)
		testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")
	})
}

func TestGetUserTransactions(t *testing.T) {
	t.Run("filters_by_type_and_category", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		txSvc := NewTransactionService(db, NewLedgerService())
		user := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestAccountWithBalance(t, db, user.ID, 100000)

		_, err := txSvc.CreateTransaction(user.ID, account.ID, models.TransactionTypeIncome, "salary", 5000, "", time.Now())
		testutil.AssertNoError(t, err)
		_, err = txSvc.CreateTransaction(user.ID, account.ID, models.TransactionTypeExpense, "food", 1200, "", time.Now())
		testutil.AssertNoError(t, err)
		_, err = txSvc.CreateTransaction(user.ID, account.ID, models.TransactionTypeExpense, "transport", 800, "", time.Now())
		testutil.AssertNoError(t, err)

		expense := models.TransactionTypeExpense
		result, err := txSvc.GetUserTransactions(user.ID, pagination.PageRequest{}, TransactionFilter{Type: &expense})
		testutil.AssertNoError(t, err)
		if result.TotalItems != 2 {
			t.Errorf("expected 2 expenses, got %d", result.TotalItems)
		}

		food := "food"
		result, err = txSvc.GetUserTransactions(user.ID, pagination.PageRequest{}, TransactionFilter{Category: &food})
		testutil.AssertNoError(t, err)
		if result.TotalItems != 1 {
			t.Errorf("expected 1 food transaction, got %d", result.TotalItems)
		}
	})
}
