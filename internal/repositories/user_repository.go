package repositories

import (
	"errors"
	"fmt"
	"time"

	"github.com/mvaldivia/soltrack/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrUserNotFound = errors.New("user not found")

// userRepository implements UserRepositoryInterface
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) UserRepositoryInterface {
	return &userRepository{db: db}
}

// GetByID retrieves a user by ID
func (r *userRepository) GetByID(id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// GetByEmail retrieves a user by email address
func (r *userRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return &user, nil
}

// ListWithStoredCredentials returns every user the scheduled sync should
// visit: those that ever completed the Gmail grant.
func (r *userRepository) ListWithStoredCredentials() ([]models.User, error) {
	var users []models.User
	if err := r.db.Where("encrypted_refresh_token <> ''").
		Order("created_at ASC").
		Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users with credentials: %w", err)
	}
	return users, nil
}

// UpdateSyncStatus records the outcome of one sync run. Called exactly
// once per run, regardless of how many per-email errors occurred.
func (r *userRepository) UpdateSyncStatus(id uuid.UUID, syncedAt time.Time, status string) error {
	result := r.db.Model(&models.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"last_sync_at":     syncedAt,
			"last_sync_status": status,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update sync status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// UpdateTokens stores freshly encrypted OAuth tokens
func (r *userRepository) UpdateTokens(id uuid.UUID, encryptedRefresh, encryptedAccess string, expiry *time.Time) error {
	result := r.db.Model(&models.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"encrypted_refresh_token": encryptedRefresh,
			"encrypted_access_token":  encryptedAccess,
			"token_expiry":            expiry,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update tokens: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}
