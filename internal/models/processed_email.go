package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProcessedEmail is the per-email dedup and audit marker. One row exists
// per (user_id, email_id) pair; the pair is the at-most-once guarantee for
// extraction. Rows are written only by the sync pipeline, in the same
// database transaction as the extracted transactions, and are never
// updated afterwards.
//
// TransactionCount may be zero: the email was read but no transactions
// were found (or extraction failed). The email is still never retried.
type ProcessedEmail struct {
	ID               uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID           uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_processed_emails_user_email" json:"user_id"`
	EmailID          string    `gorm:"type:varchar(100);not null;uniqueIndex:idx_processed_emails_user_email" json:"email_id"`
	ProcessedAt      time.Time `gorm:"not null" json:"processed_at"`
	TransactionCount int       `gorm:"not null;default:0" json:"transaction_count"`
}

// BeforeCreate hook for ProcessedEmail
func (p *ProcessedEmail) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.ProcessedAt.IsZero() {
		p.ProcessedAt = time.Now()
	}
	return p.Validate()
}

// Validate validates the marker fields
func (p *ProcessedEmail) Validate() error {
	if p.UserID == uuid.Nil {
		return errors.New("user ID is required")
	}
	if p.EmailID == "" {
		return errors.New("email ID is required")
	}
	if p.TransactionCount < 0 {
		return errors.New("transaction count cannot be negative")
	}
	return nil
}

// TableName returns the table name for ProcessedEmail
func (p *ProcessedEmail) TableName() string {
	return "processed_emails"
}
