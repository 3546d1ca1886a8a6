package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ExchangeRate is one append-only sample of a currency pair rate. The
// newest row per pair acts as the cache; freshness is judged against a
// TTL by the rate service, never here.
type ExchangeRate struct {
	ID           uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	FromCurrency string          `gorm:"type:varchar(3);not null;index" json:"from_currency"`
	ToCurrency   string          `gorm:"type:varchar(3);not null;index" json:"to_currency"`
	Rate         decimal.Decimal `gorm:"type:decimal(18,8);not null" json:"rate"`
	FetchedAt    time.Time       `gorm:"not null;index" json:"fetched_at"`
}

// BeforeCreate hook for ExchangeRate
func (e *ExchangeRate) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.FetchedAt.IsZero() {
		e.FetchedAt = time.Now()
	}
	return nil
}

// Age returns how long ago the sample was fetched
func (e *ExchangeRate) Age() time.Duration {
	return time.Since(e.FetchedAt)
}

// IsFresh reports whether the sample is younger than the given TTL
func (e *ExchangeRate) IsFresh(ttl time.Duration) bool {
	return e.Age() < ttl
}

// TableName returns the table name for ExchangeRate
func (e *ExchangeRate) TableName() string {
	return "exchange_rates"
}
