package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mvaldivia/soltrack/internal/database"
	"github.com/mvaldivia/soltrack/internal/extractor"
	"github.com/mvaldivia/soltrack/internal/gmail"
	"github.com/mvaldivia/soltrack/internal/models"
	"github.com/mvaldivia/soltrack/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type syncService struct {
	db          *database.DB
	userRepo    repositories.UserRepositoryInterface
	txnRepo     repositories.TransactionRepositoryInterface
	markerRepo  repositories.ProcessedEmailRepositoryInterface
	emails      EmailSource
	extractor   TransactionExtractor
	credentials CredentialSource
	metrics     MetricsRecorderInterface
}

func NewSyncService(
	db *database.DB,
	userRepo repositories.UserRepositoryInterface,
	txnRepo repositories.TransactionRepositoryInterface,
	markerRepo repositories.ProcessedEmailRepositoryInterface,
	emails EmailSource,
	txnExtractor TransactionExtractor,
	credentials CredentialSource,
	metrics MetricsRecorderInterface,
) SyncServiceInterface {
	return &syncService{
		db:          db,
		userRepo:    userRepo,
		txnRepo:     txnRepo,
		markerRepo:  markerRepo,
		emails:      emails,
		extractor:   txnExtractor,
		credentials: credentials,
		metrics:     metrics,
	}
}

// SyncForOwner runs the full pipeline for one owner: list bank emails,
// extract transactions from each unprocessed one, and commit each email's
// transactions together with its processed marker as one unit. It never
// panics or returns an error; failures are absorbed into the summary so it
// is safe to call from scheduler goroutines.
func (s *syncService) SyncForOwner(ctx context.Context, userID uuid.UUID, lookbackDays int) (summary *models.SyncSummary) {
	start := time.Now()
	summary = &models.SyncSummary{}

	defer func() {
		if r := recover(); r != nil {
			slog.Error("sync panic recovered", "user_id", userID, "panic", r)
			summary.Errors++
		}
		summary.DurationSeconds = time.Since(start).Seconds()
		if summary.Error == "" {
			summary.Message = fmt.Sprintf("Sync complete: %d new transaction(s)", summary.TransactionsAdded)
		}
		s.metrics.RecordProcessingTime("sync.run", time.Since(start))
		slog.Info("sync finished",
			"user_id", userID,
			"emails_processed", summary.EmailsProcessed,
			"emails_skipped", summary.EmailsSkipped,
			"transactions_added", summary.TransactionsAdded,
			"errors", summary.Errors,
			"duration_seconds", summary.DurationSeconds)
	}()

	slog.Info("sync starting", "user_id", userID, "lookback_days", lookbackDays)

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		slog.Error("sync could not load user", "user_id", userID, "error", err)
		summary.Error = "user_not_found"
		return summary
	}
	if !user.HasStoredCredentials() {
		slog.Warn("no stored gmail credentials, skipping sync", "user_id", userID)
		summary.Error = "no_credentials"
		return summary
	}

	tokenSource, err := s.credentials.TokenSource(ctx, user)
	if err != nil {
		slog.Error("sync could not build token source", "user_id", userID, "error", err)
		summary.Error = "no_credentials"
		return summary
	}

	err = s.emails.ForEach(ctx, tokenSource, lookbackDays, func(msg gmail.Message) error {
		s.processEmail(ctx, userID, msg, summary)
		return nil
	})
	if err != nil {
		slog.Error("sync email stream failed", "user_id", userID, "error", err)
		summary.Errors++
	}

	s.updateSyncStatus(userID, summary.Errors)

	return summary
}

// processEmail handles one email end to end. Extraction failure still marks
// the email processed with zero transactions: extraction runs at most once
// per (owner, email) and is never retried.
func (s *syncService) processEmail(ctx context.Context, userID uuid.UUID, msg gmail.Message, summary *models.SyncSummary) {
	exists, err := s.markerRepo.Exists(userID, msg.ID)
	if err != nil {
		slog.Error("dedup lookup failed", "user_id", userID, "email_id", msg.ID, "error", err)
		summary.Errors++
		return
	}
	if exists {
		summary.EmailsSkipped++
		return
	}

	candidates, err := s.extractor.Extract(ctx, msg.Subject, msg.Body)
	if err != nil {
		slog.Error("extraction failed", "user_id", userID, "email_id", msg.ID, "error", err)
		s.metrics.IncrementCounter("sync.extraction.failed", nil)
		summary.Errors++
		candidates = nil
	}

	txns := make([]*models.Transaction, 0, len(candidates))
	for _, candidate := range candidates {
		txn, err := s.coerceCandidate(userID, msg.ID, candidate)
		if err != nil {
			slog.Error("failed to coerce candidate", "email_id", msg.ID, "error", err)
			continue
		}
		txns = append(txns, txn)
	}

	// One commit unit per email: its transactions and the processed
	// marker succeed or fail together.
	err = s.db.Transaction(func(tx *gorm.DB) error {
		for _, txn := range txns {
			if err := s.txnRepo.CreateInTx(tx, txn); err != nil {
				return err
			}
		}
		return s.markerRepo.CreateInTx(tx, &models.ProcessedEmail{
			UserID:           userID,
			EmailID:          msg.ID,
			TransactionCount: len(txns),
		})
	})
	if err != nil {
		slog.Error("failed to commit email", "user_id", userID, "email_id", msg.ID, "error", err)
		summary.Errors++
		return
	}

	summary.EmailsProcessed++
	summary.TransactionsAdded += len(txns)
	s.metrics.IncrementCounter("sync.email.processed", nil)
	slog.Info("email processed", "user_id", userID, "email_id", msg.ID, "transactions", len(txns))
}

func (s *syncService) coerceCandidate(userID uuid.UUID, emailID string, candidate extractor.Candidate) (*models.Transaction, error) {
	date, err := time.Parse("2006-01-02", candidate.Date)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", candidate.Date, err)
	}
	amount, err := decimal.NewFromString(candidate.Amount.String())
	if err != nil {
		return nil, fmt.Errorf("invalid amount %q: %w", candidate.Amount, err)
	}

	txn := &models.Transaction{
		UserID:      userID,
		Date:        date,
		Description: candidate.Description,
		Amount:      amount,
		Currency:    candidate.Currency,
		Category:    models.NormalizeCategory(candidate.Category),
		Bank:        candidate.Bank,
		EmailID:     emailID,
	}
	if err := txn.Validate(); err != nil {
		return nil, err
	}
	return txn, nil
}

// updateSyncStatus records the run outcome on the owner, exactly once per
// run regardless of how many per-email errors occurred.
func (s *syncService) updateSyncStatus(userID uuid.UUID, errorCount int) {
	status := models.SyncStatusOK
	if errorCount > 0 {
		status = fmt.Sprintf("errors=%d", errorCount)
	}
	if err := s.userRepo.UpdateSyncStatus(userID, time.Now().UTC(), status); err != nil {
		slog.Error("failed to update sync status", "user_id", userID, "error", err)
	}
}

// SyncAllOwners runs a sync for every owner with stored credentials, one at
// a time. Used by the scheduler.
func (s *syncService) SyncAllOwners(ctx context.Context, lookbackDays int) {
	users, err := s.userRepo.ListWithStoredCredentials()
	if err != nil {
		slog.Error("failed to list users for scheduled sync", "error", err)
		return
	}

	slog.Info("scheduled sync starting", "users", len(users))
	for i := range users {
		if ctx.Err() != nil {
			slog.Warn("scheduled sync cancelled", "remaining", len(users)-i)
			return
		}
		s.SyncForOwner(ctx, users[i].ID, lookbackDays)
	}
}
