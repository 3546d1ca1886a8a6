package repositories

import (
	"errors"
	"fmt"

	"github.com/mvaldivia/soltrack/internal/models"

	"gorm.io/gorm"
)

var ErrNoRateSample = errors.New("no exchange rate sample stored")

// exchangeRateRepository implements ExchangeRateRepositoryInterface
type exchangeRateRepository struct {
	db *gorm.DB
}

// NewExchangeRateRepository creates a new exchange rate repository
func NewExchangeRateRepository(db *gorm.DB) ExchangeRateRepositoryInterface {
	return &exchangeRateRepository{db: db}
}

// Latest returns the newest stored sample for the pair
func (r *exchangeRateRepository) Latest(fromCurrency, toCurrency string) (*models.ExchangeRate, error) {
	var sample models.ExchangeRate
	if err := r.db.Where("from_currency = ? AND to_currency = ?", fromCurrency, toCurrency).
		Order("fetched_at DESC").
		First(&sample).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoRateSample
		}
		return nil, fmt.Errorf("failed to get latest exchange rate: %w", err)
	}
	return &sample, nil
}

// Create appends a new rate sample
func (r *exchangeRateRepository) Create(sample *models.ExchangeRate) error {
	if err := r.db.Create(sample).Error; err != nil {
		return fmt.Errorf("failed to store exchange rate sample: %w", err)
	}
	return nil
}
