package services

import (
	"context"
	"time"

	"github.com/mvaldivia/soltrack/internal/extractor"
	"github.com/mvaldivia/soltrack/internal/gmail"
	"github.com/mvaldivia/soltrack/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/oauth2"
)

// EmailSource streams bank notification emails for an owner within a
// lookback window.
type EmailSource interface {
	ForEach(ctx context.Context, tokenSource oauth2.TokenSource, lookbackDays int, fn func(gmail.Message) error) error
}

// TransactionExtractor turns one email into transaction candidates.
type TransactionExtractor interface {
	Extract(ctx context.Context, subject, body string) ([]extractor.Candidate, error)
}

// CredentialSource resolves an owner's stored Gmail tokens into a usable
// OAuth token source.
type CredentialSource interface {
	TokenSource(ctx context.Context, user *models.User) (oauth2.TokenSource, error)
}

// RateProvider resolves exchange rates. Rate never fails; it degrades
// through cached and fallback values instead.
type RateProvider interface {
	Rate(fromCurrency, toCurrency string) decimal.Decimal
	RateInfo(fromCurrency, toCurrency string) *models.RateInfo
}

// SessionServiceInterface issues and verifies the signed session tokens
// that identify an owner on API requests
type SessionServiceInterface interface {
	Issue(user *models.User) (string, time.Time, error)
	Verify(token string) (uuid.UUID, error)
}

// SyncServiceInterface runs the email-to-transaction sync pipeline
type SyncServiceInterface interface {
	SyncForOwner(ctx context.Context, userID uuid.UUID, lookbackDays int) *models.SyncSummary
	SyncAllOwners(ctx context.Context, lookbackDays int)
}

// DashboardServiceInterface computes the multi-currency aggregations
type DashboardServiceInterface interface {
	MonthlySummary(userID uuid.UUID, month, year int) (*models.MonthlySummary, error)
	ExpensesByCategory(userID uuid.UUID, month, year int) ([]models.CategoryTotal, error)
	MonthlyTrend(userID uuid.UUID, year int) ([]models.MonthlyTrendPoint, error)
	BudgetStatus(userID uuid.UUID, month, year int) ([]models.BudgetStatus, error)
}

type MetricsRecorderInterface interface {
	IncrementCounter(name string, tags map[string]string)
	RecordProcessingTime(name string, duration time.Duration)
}
