package repositories

import (
	"errors"
	"fmt"

	"github.com/mvaldivia/soltrack/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrMarkerNotFound = errors.New("processed email marker not found")

// processedEmailRepository implements ProcessedEmailRepositoryInterface
type processedEmailRepository struct {
	db *gorm.DB
}

// NewProcessedEmailRepository creates a new processed email repository
func NewProcessedEmailRepository(db *gorm.DB) ProcessedEmailRepositoryInterface {
	return &processedEmailRepository{db: db}
}

// Exists checks the (user_id, email_id) dedup key. A true result means the
// email was already handled by a previous sync run and must be skipped.
func (r *processedEmailRepository) Exists(userID uuid.UUID, emailID string) (bool, error) {
	var count int64
	if err := r.db.Model(&models.ProcessedEmail{}).
		Where("user_id = ? AND email_id = ?", userID, emailID).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check processed email: %w", err)
	}
	return count > 0, nil
}

// CreateInTx writes the marker inside a caller-owned database transaction,
// the same one that carries the email's extracted transactions.
func (r *processedEmailRepository) CreateInTx(tx *gorm.DB, marker *models.ProcessedEmail) error {
	if err := tx.Create(marker).Error; err != nil {
		return fmt.Errorf("failed to create processed email marker: %w", err)
	}
	return nil
}

// GetByUserAndEmail retrieves one marker
func (r *processedEmailRepository) GetByUserAndEmail(userID uuid.UUID, emailID string) (*models.ProcessedEmail, error) {
	var marker models.ProcessedEmail
	if err := r.db.Where("user_id = ? AND email_id = ?", userID, emailID).First(&marker).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMarkerNotFound
		}
		return nil, fmt.Errorf("failed to get processed email marker: %w", err)
	}
	return &marker, nil
}

// CountForUser returns the number of emails ever processed for a user
func (r *processedEmailRepository) CountForUser(userID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.Model(&models.ProcessedEmail{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count processed emails: %w", err)
	}
	return count, nil
}
