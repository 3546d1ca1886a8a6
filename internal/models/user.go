package models

import (
	"errors"
	"regexp"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	SyncStatusNever = "never"
	SyncStatusOK    = "ok"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// User is the owner of a mailbox and its financial data. Gmail OAuth
// tokens are stored encrypted; the sync pipeline only ever sees the
// decrypted credentials through the credential source.
type User struct {
	ID                    uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	Email                 string     `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Name                  string     `gorm:"type:varchar(255)" json:"name"`
	Picture               string     `gorm:"type:text" json:"picture"`
	GoogleID              string     `gorm:"type:varchar(255);uniqueIndex" json:"-"`
	EncryptedRefreshToken string     `gorm:"type:text" json:"-"`
	EncryptedAccessToken  string     `gorm:"type:text" json:"-"`
	TokenExpiry           *time.Time `json:"-"`
	CreatedAt             time.Time  `gorm:"not null" json:"created_at"`
	LastSyncAt            *time.Time `json:"last_sync_at,omitempty"`
	LastSyncStatus        string     `gorm:"type:varchar(50);not null;default:'never'" json:"last_sync_status"`
}

// BeforeCreate hook for User
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	if u.LastSyncStatus == "" {
		u.LastSyncStatus = SyncStatusNever
	}
	return u.Validate()
}

// Validate validates the user fields
func (u *User) Validate() error {
	if u.Email == "" {
		return errors.New("email is required")
	}
	if !emailRegex.MatchString(u.Email) {
		return errors.New("invalid email format")
	}
	return nil
}

// HasStoredCredentials reports whether the user ever granted Gmail access.
// Scheduled syncs skip users without stored credentials entirely.
func (u *User) HasStoredCredentials() bool {
	return u.EncryptedRefreshToken != ""
}

// TableName returns the table name for User
func (u *User) TableName() string {
	return "users"
}
