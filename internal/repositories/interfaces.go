package repositories

import (
	"time"

	"github.com/mvaldivia/soltrack/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserRepositoryInterface defines user persistence operations
type UserRepositoryInterface interface {
	GetByID(id uuid.UUID) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	ListWithStoredCredentials() ([]models.User, error)
	UpdateSyncStatus(id uuid.UUID, syncedAt time.Time, status string) error
	UpdateTokens(id uuid.UUID, encryptedRefresh, encryptedAccess string, expiry *time.Time) error
}

// TransactionRepositoryInterface defines transaction persistence operations.
// CreateInTx variants participate in a caller-owned database transaction;
// the sync pipeline uses them so that one email's transactions commit
// atomically with their processed-email marker.
type TransactionRepositoryInterface interface {
	Create(txn *models.Transaction) error
	CreateInTx(tx *gorm.DB, txn *models.Transaction) error
	GetByID(id uuid.UUID) (*models.Transaction, error)
	Update(txn *models.Transaction) error
	Delete(id uuid.UUID, userID uuid.UUID) error
	ListForOwner(userID uuid.UUID, filters models.TransactionFilters) ([]models.Transaction, int64, error)
	ListByDateRange(userID uuid.UUID, from, to time.Time) ([]models.Transaction, error)
	ListExpensesByDateRange(userID uuid.UUID, from, to time.Time) ([]models.Transaction, error)
	ExpenseTotalsByCategory(userID uuid.UUID, from, to time.Time) ([]models.CategoryCurrencyTotal, error)
}

// ProcessedEmailRepositoryInterface defines dedup marker operations
type ProcessedEmailRepositoryInterface interface {
	Exists(userID uuid.UUID, emailID string) (bool, error)
	CreateInTx(tx *gorm.DB, marker *models.ProcessedEmail) error
	GetByUserAndEmail(userID uuid.UUID, emailID string) (*models.ProcessedEmail, error)
	CountForUser(userID uuid.UUID) (int64, error)
}

// BudgetRepositoryInterface defines budget persistence operations
type BudgetRepositoryInterface interface {
	ListForOwner(userID uuid.UUID) ([]models.Budget, error)
	Upsert(budget *models.Budget) error
	Delete(id uuid.UUID, userID uuid.UUID) error
}

// ExchangeRateRepositoryInterface defines rate sample cache operations.
// The cache is append-only; Latest returns the newest sample per pair.
type ExchangeRateRepositoryInterface interface {
	Latest(fromCurrency, toCurrency string) (*models.ExchangeRate, error)
	Create(sample *models.ExchangeRate) error
}
