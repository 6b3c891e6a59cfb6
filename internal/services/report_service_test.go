package services

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"fintrack/internal/models"
	"fintrack/internal/testutil"
)

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		cents int64
		want  string
	}{
		{1250, "12.50"},
		{1, "0.01"},
		{0, "0.00"},
		{100000, "1000.00"},
		{-450, "-4.50"},
	}
	for _, tt := range tests {
		if got := formatAmount(tt.cents); got != tt.want {
			t.Errorf("formatAmount(%d) = %q, want %q", tt.cents, got, tt.want)
		}
	}
}

func TestTransactionsCSV(t *testing.T) {
	t.Run("header_and_rows", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReportService(NewAnalyticsService(db, NewBudgetService(db)))
		user := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestAccount(t, db, user.ID)

		date := time.Date(2025, time.March, 5, 10, 0, 0, 0, time.UTC)
		txn := testutil.CreateTestTransactionOnDate(t, db, user.ID, account.ID, models.TransactionTypeExpense, "food", 1250, date)
		txn.Note = "Lunch"
		testutil.AssertNoError(t, db.Save(txn).Error)

		raw, err := svc.TransactionsCSV(user.ID, "", TimeWindowAll)
		testutil.AssertNoError(t, err)

		records, err := csv.NewReader(bytes.NewReader(raw)).ReadAll()
		testutil.AssertNoError(t, err)
		if len(records) != 2 {
			t.Fatalf("expected header plus 1 row, got %d records", len(records))
		}
		if strings.Join(records[0], ",") != "Date,Category,Description,Amount,Type" {
			t.Errorf("unexpected header %v", records[0])
		}
		want := []string{"2025-03-05", "food", "Lunch", "12.50", "expense"}
		for i, cell := range want {
			if records[1][i] != cell {
				t.Errorf("column %d: expected %q, got %q", i, cell, records[1][i])
			}
		}
	})

	t.Run("empty_result_still_has_header", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReportService(NewAnalyticsService(db, NewBudgetService(db)))
		user := testutil.CreateTestUser(t, db)

		raw, err := svc.TransactionsCSV(user.ID, "", TimeWindowAll)
		testutil.AssertNoError(t, err)

		records, err := csv.NewReader(bytes.NewReader(raw)).ReadAll()
		testutil.AssertNoError(t, err)
		if len(records) != 1 {
			t.Fatalf("expected only the header, got %d records", len(records))
		}
	})

	t.Run("honours_search_query", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReportService(NewAnalyticsService(db, NewBudgetService(db)))
		user := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestAccount(t, db, user.ID)

		testutil.CreateTestTransaction(t, db, user.ID, account.ID, models.TransactionTypeExpense, "food", 1250)
		testutil.CreateTestTransaction(t, db, user.ID, account.ID, models.TransactionTypeExpense, "transport", 900)

		raw, err := svc.TransactionsCSV(user.ID, "transport", TimeWindowAll)
		testutil.AssertNoError(t, err)

		records, err := csv.NewReader(bytes.NewReader(raw)).ReadAll()
		testutil.AssertNoError(t, err)
		if len(records) != 2 {
			t.Fatalf("expected header plus 1 matching row, got %d records", len(records))
		}
		if records[1][1] != "transport" {
			t.Errorf("expected the transport row, got %v", records[1])
		}
	})
}

func TestTransactionsPDF(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewReportService(NewAnalyticsService(db, NewBudgetService(db)))
	user := testutil.CreateTestUser(t, db)
	account := testutil.CreateTestAccount(t, db, user.ID)
	testutil.CreateTestTransaction(t, db, user.ID, account.ID, models.TransactionTypeIncome, "salary", 300000)
	testutil.CreateTestTransaction(t, db, user.ID, account.ID, models.TransactionTypeExpense, "food", 1250)

	raw, err := svc.TransactionsPDF(user.ID, "", TimeWindowAll)
	testutil.AssertNoError(t, err)
	if len(raw) == 0 {
		t.Fatal("expected PDF bytes")
	}
	if !bytes.HasPrefix(raw, []byte("%PDF")) {
		t.Errorf("expected output to start with %%PDF, got %q", raw[:4])
	}
}
