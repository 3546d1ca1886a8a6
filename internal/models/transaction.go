package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SourceManual marks transactions created through the API rather than
// extracted from a bank email.
const SourceManual = "manual"

var (
	ErrInvalidCurrency = errors.New("currency must be PEN or USD")
	ErrInvalidCategory = errors.New("invalid transaction category")
)

// Transaction represents one financial movement owned by a single user.
// The amount sign encodes direction: negative for expenses, positive for
// income. Amounts are never mutated after creation except through an
// explicit update.
type Transaction struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	UserID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
	Date        time.Time       `gorm:"type:date;not null;index" json:"date"`
	Description string          `gorm:"type:text;not null" json:"description"`
	Amount      decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	Currency    string          `gorm:"type:varchar(3);not null;default:'PEN'" json:"currency"`
	Category    string          `gorm:"type:varchar(50);not null" json:"category"`
	Bank        string          `gorm:"type:varchar(100)" json:"bank"`
	EmailID     string          `gorm:"type:varchar(100);not null;default:'manual';index" json:"email_id"`
	CreatedAt   time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"not null" json:"updated_at"`
}

// BeforeCreate hook for Transaction
func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}

	now := time.Now()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	if t.UpdatedAt.IsZero() {
		t.UpdatedAt = now
	}

	if t.EmailID == "" {
		t.EmailID = SourceManual
	}

	return t.Validate()
}

// BeforeUpdate hook for Transaction
func (t *Transaction) BeforeUpdate(tx *gorm.DB) error {
	// Map-based updates carry an empty struct; only validate full models
	if tx.Statement.Dest != nil {
		if _, ok := tx.Statement.Dest.(map[string]interface{}); ok {
			return nil
		}
	}
	t.UpdatedAt = time.Now()
	return t.Validate()
}

// Validate validates the transaction fields
func (t *Transaction) Validate() error {
	if t.UserID == uuid.Nil {
		return errors.New("user ID is required")
	}

	if t.Date.IsZero() {
		return errors.New("transaction date is required")
	}

	if t.Description == "" {
		return errors.New("transaction description is required")
	}

	if !IsValidCurrency(t.Currency) {
		return ErrInvalidCurrency
	}

	if !IsValidCategory(t.Category) {
		return ErrInvalidCategory
	}

	return nil
}

// IsExpense returns true for outgoing amounts
func (t *Transaction) IsExpense() bool {
	return t.Amount.IsNegative()
}

// IsIncome returns true for incoming amounts
func (t *Transaction) IsIncome() bool {
	return t.Amount.IsPositive()
}

// IsManual returns true when the transaction was not extracted from an email
func (t *Transaction) IsManual() bool {
	return t.EmailID == SourceManual
}

// TableName returns the table name for Transaction
func (t *Transaction) TableName() string {
	return "transactions"
}
