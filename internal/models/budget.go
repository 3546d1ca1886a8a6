package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Budget is a monthly spending limit for one category. Unique per
// (user_id, category); its lifecycle is independent from transactions.
type Budget struct {
	ID           uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	UserID       uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_budgets_user_category" json:"user_id"`
	Category     string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_budgets_user_category" json:"category"`
	MonthlyLimit decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"monthly_limit"`
	Currency     string          `gorm:"type:varchar(3);not null;default:'PEN'" json:"currency"`
	CreatedAt    time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"not null" json:"updated_at"`
}

// BeforeCreate hook for Budget
func (b *Budget) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return b.Validate()
}

// BeforeUpdate hook for Budget
func (b *Budget) BeforeUpdate(tx *gorm.DB) error {
	if tx.Statement.Dest != nil {
		if _, ok := tx.Statement.Dest.(map[string]interface{}); ok {
			return nil
		}
	}
	return b.Validate()
}

// Validate validates the budget fields
func (b *Budget) Validate() error {
	if b.UserID == uuid.Nil {
		return errors.New("user ID is required")
	}
	if !IsValidCategory(b.Category) {
		return ErrInvalidCategory
	}
	if !IsValidCurrency(b.Currency) {
		return ErrInvalidCurrency
	}
	if b.MonthlyLimit.IsNegative() {
		return errors.New("monthly limit cannot be negative")
	}
	return nil
}

// TableName returns the table name for Budget
func (b *Budget) TableName() string {
	return "budgets"
}
