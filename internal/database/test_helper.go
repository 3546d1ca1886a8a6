package database

import (
	"testing"
	"time"

	"github.com/mvaldivia/soltrack/internal/config"
	"github.com/mvaldivia/soltrack/internal/models"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func SetupTestDB(t *testing.T) *DB {
	t.Helper()

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	}

	db, err := gorm.Open(sqlite.Open(":memory:"), gormConfig)
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	testDB := &DB{
		DB: db,
		config: &config.DatabaseConfig{
			MaxConnections: 1,
			MaxIdleConns:   1,
		},
	}

	if err := testDB.AutoMigrate(); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return testDB
}

func CreateTestUser(t *testing.T, db *DB, email string) *models.User {
	t.Helper()

	user := &models.User{
		Email:    email,
		Name:     gofakeit.Name(),
		GoogleID: uuid.New().String(),
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}

	return user
}

func CreateTestUserWithCredentials(t *testing.T, db *DB, email string) *models.User {
	t.Helper()

	user := CreateTestUser(t, db, email)
	user.EncryptedRefreshToken = "encrypted-refresh-token"
	user.EncryptedAccessToken = "encrypted-access-token"
	if err := db.Save(user).Error; err != nil {
		t.Fatalf("failed to store test credentials: %v", err)
	}

	return user
}

func CreateTestTransaction(t *testing.T, db *DB, userID uuid.UUID, date time.Time, amount float64, currency, category string) *models.Transaction {
	t.Helper()

	txn := &models.Transaction{
		UserID:      userID,
		Date:        date,
		Description: gofakeit.Sentence(3),
		Amount:      decimal.NewFromFloat(amount),
		Currency:    currency,
		Category:    category,
		Bank:        "BCP",
		EmailID:     models.SourceManual,
	}

	if err := db.Create(txn).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}

	return txn
}
