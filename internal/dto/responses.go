package dto

import (
	"time"

	"github.com/mvaldivia/soltrack/internal/models"
)

// TransactionListResponse is a paginated transaction listing.
type TransactionListResponse struct {
	Transactions []models.Transaction `json:"transactions"`
	Total        int64                `json:"total"`
	Limit        int                  `json:"limit"`
	Offset       int                  `json:"offset"`
}

// SyncTriggeredResponse acknowledges a fire-and-forget sync request.
type SyncTriggeredResponse struct {
	Message  string `json:"message"`
	DaysBack int    `json:"days_back"`
}

// SyncStatusResponse reports the owner's last sync outcome.
type SyncStatusResponse struct {
	LastSyncAt     *time.Time `json:"last_sync_at"`
	LastSyncStatus string     `json:"last_sync_status"`
}
