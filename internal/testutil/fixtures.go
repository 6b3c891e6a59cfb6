package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"fintrack/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:    email,
		Password: string(hash),
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestAccount creates an account with zero balance.
func CreateTestAccount(t *testing.T, db *gorm.DB, userID uint) *models.Account {
	t.Helper()
	return CreateTestAccountWithBalance(t, db, userID, 0)
}

// CreateTestAccountWithBalance creates an account with the given balance (in cents).
func CreateTestAccountWithBalance(t *testing.T, db *gorm.DB, userID uint, balance int64) *models.Account {
	t.Helper()

	account := &models.Account{
		UserID:  userID,
		Name:    fmt.Sprintf("Test Account %d", nextID()),
		Balance: balance,
	}
	if err := db.Create(account).Error; err != nil {
		t.Fatalf("failed to create test account: %v", err)
	}
	return account
}

// CreateTestTransaction creates a transaction of the given type and amount (in cents).
func CreateTestTransaction(t *testing.T, db *gorm.DB, userID, accountID uint, txType models.TransactionType, category string, amount int64) *models.Transaction {
	t.Helper()
	return CreateTestTransactionOnDate(t, db, userID, accountID, txType, category, amount, time.Now())
}

// CreateTestTransactionOnDate creates a transaction dated as given.
func CreateTestTransactionOnDate(t *testing.T, db *gorm.DB, userID, accountID uint, txType models.TransactionType, category string, amount int64, date time.Time) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		UserID:    userID,
		AccountID: accountID,
		Type:      txType,
		Category:  category,
		Amount:    amount,
		Date:      date,
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}

// CreateTestBudget creates a monthly budget for the given category with a
// window containing today.
func CreateTestBudget(t *testing.T, db *gorm.DB, userID uint, category string, amount int64) *models.Budget {
	t.Helper()

	start := time.Now().AddDate(0, 0, -1)
	budget := &models.Budget{
		UserID:      userID,
		Category:    category,
		Amount:      amount,
		PeriodUnit:  models.BudgetPeriodMonthly,
		PeriodCount: 1,
		StartDate:   start,
		EndDate:     start.AddDate(0, 1, 0),
	}
	if err := db.Create(budget).Error; err != nil {
		t.Fatalf("failed to create test budget: %v", err)
	}
	return budget
}
