package repositories

import (
	"errors"
	"fmt"
	"time"

	"github.com/mvaldivia/soltrack/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrTransactionNotFound = errors.New("transaction not found")

// transactionRepository implements TransactionRepositoryInterface
type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *gorm.DB) TransactionRepositoryInterface {
	return &transactionRepository{db: db}
}

// Create creates a new transaction
func (r *transactionRepository) Create(txn *models.Transaction) error {
	if err := r.db.Create(txn).Error; err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

// CreateInTx creates a transaction inside a caller-owned database transaction
func (r *transactionRepository) CreateInTx(tx *gorm.DB, txn *models.Transaction) error {
	if err := tx.Create(txn).Error; err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

// GetByID retrieves a transaction by ID
func (r *transactionRepository) GetByID(id uuid.UUID) (*models.Transaction, error) {
	var txn models.Transaction
	if err := r.db.Where("id = ?", id).First(&txn).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return &txn, nil
}

// Update saves the full transaction model
func (r *transactionRepository) Update(txn *models.Transaction) error {
	result := r.db.Model(&models.Transaction{}).
		Where("id = ? AND user_id = ?", txn.ID, txn.UserID).
		Updates(map[string]interface{}{
			"date":        txn.Date,
			"description": txn.Description,
			"amount":      txn.Amount,
			"currency":    txn.Currency,
			"category":    txn.Category,
			"bank":        txn.Bank,
			"updated_at":  time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update transaction: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrTransactionNotFound
	}
	return nil
}

// Delete removes a transaction, scoped to its owner
func (r *transactionRepository) Delete(id uuid.UUID, userID uuid.UUID) error {
	result := r.db.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Transaction{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete transaction: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrTransactionNotFound
	}
	return nil
}

// ListForOwner retrieves an owner's transactions with optional filters
func (r *transactionRepository) ListForOwner(userID uuid.UUID, filters models.TransactionFilters) ([]models.Transaction, int64, error) {
	var transactions []models.Transaction
	var total int64

	query := r.db.Model(&models.Transaction{}).Where("user_id = ?", userID)

	if filters.Month != 0 && filters.Year != 0 {
		from, to := monthRange(filters.Year, time.Month(filters.Month))
		query = query.Where("date >= ? AND date < ?", from, to)
	} else if filters.Year != 0 {
		from := time.Date(filters.Year, 1, 1, 0, 0, 0, 0, time.UTC)
		query = query.Where("date >= ? AND date < ?", from, from.AddDate(1, 0, 0))
	}
	if filters.Category != "" {
		query = query.Where("category = ?", filters.Category)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions: %w", err)
	}

	if filters.Limit > 0 {
		query = query.Offset(filters.Offset).Limit(filters.Limit)
	}

	if err := query.Order("date DESC, created_at DESC").Find(&transactions).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list transactions: %w", err)
	}

	return transactions, total, nil
}

// ListByDateRange retrieves all of an owner's transactions in [from, to)
func (r *transactionRepository) ListByDateRange(userID uuid.UUID, from, to time.Time) ([]models.Transaction, error) {
	var transactions []models.Transaction
	if err := r.db.Where("user_id = ? AND date >= ? AND date < ?", userID, from, to).
		Order("date ASC").
		Find(&transactions).Error; err != nil {
		return nil, fmt.Errorf("failed to list transactions by date range: %w", err)
	}
	return transactions, nil
}

// ListExpensesByDateRange retrieves expense (negative amount) transactions in [from, to)
func (r *transactionRepository) ListExpensesByDateRange(userID uuid.UUID, from, to time.Time) ([]models.Transaction, error) {
	var transactions []models.Transaction
	if err := r.db.Where("user_id = ? AND date >= ? AND date < ? AND amount < 0", userID, from, to).
		Order("date ASC").
		Find(&transactions).Error; err != nil {
		return nil, fmt.Errorf("failed to list expenses by date range: %w", err)
	}
	return transactions, nil
}

// ExpenseTotalsByCategory sums expense amounts per (category, currency)
// in [from, to). Date bounds instead of month extraction keep the query
// portable between postgres and the sqlite test database.
func (r *transactionRepository) ExpenseTotalsByCategory(userID uuid.UUID, from, to time.Time) ([]models.CategoryCurrencyTotal, error) {
	var totals []models.CategoryCurrencyTotal

	if err := r.db.Model(&models.Transaction{}).
		Select("category, currency, SUM(amount) as total").
		Where("user_id = ? AND date >= ? AND date < ? AND amount < 0", userID, from, to).
		Group("category, currency").
		Scan(&totals).Error; err != nil {
		return nil, fmt.Errorf("failed to sum expenses by category: %w", err)
	}

	return totals, nil
}

func monthRange(year int, month time.Month) (time.Time, time.Time) {
	from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(0, 1, 0)
}
