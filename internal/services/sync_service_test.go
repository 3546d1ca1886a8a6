package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/mvaldivia/soltrack/internal/database"
	"github.com/mvaldivia/soltrack/internal/extractor"
	"github.com/mvaldivia/soltrack/internal/gmail"
	"github.com/mvaldivia/soltrack/internal/models"
	"github.com/mvaldivia/soltrack/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

type fakeEmailSource struct {
	messages []gmail.Message
	err      error
}

func (f *fakeEmailSource) ForEach(_ context.Context, _ oauth2.TokenSource, _ int, fn func(gmail.Message) error) error {
	if f.err != nil {
		return f.err
	}
	for _, msg := range f.messages {
		if err := fn(msg); err != nil {
			return err
		}
	}
	return nil
}

// fakeExtractor keys results by email subject and counts calls per subject.
type fakeExtractor struct {
	results map[string][]extractor.Candidate
	errs    map[string]error
	calls   map[string]int
}

func newFakeExtractor() *fakeExtractor {
	return &fakeExtractor{
		results: map[string][]extractor.Candidate{},
		errs:    map[string]error{},
		calls:   map[string]int{},
	}
}

func (f *fakeExtractor) Extract(_ context.Context, subject, _ string) ([]extractor.Candidate, error) {
	f.calls[subject]++
	if err := f.errs[subject]; err != nil {
		return nil, err
	}
	return f.results[subject], nil
}

type fakeCredentialSource struct {
	err error
}

func (f *fakeCredentialSource) TokenSource(_ context.Context, _ *models.User) (oauth2.TokenSource, error) {
	if f.err != nil {
		return nil, f.err
	}
	return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "test-token"}), nil
}

type noopMetrics struct{}

func (noopMetrics) IncrementCounter(string, map[string]string) {}
func (noopMetrics) RecordProcessingTime(string, time.Duration) {}

func candidate(date, description, amount, currency, category, bank string) extractor.Candidate {
	return extractor.Candidate{
		Date:        date,
		Description: description,
		Amount:      json.Number(amount),
		Currency:    currency,
		Category:    category,
		Bank:        bank,
	}
}

type syncFixture struct {
	db         *database.DB
	userRepo   repositories.UserRepositoryInterface
	txnRepo    repositories.TransactionRepositoryInterface
	markerRepo repositories.ProcessedEmailRepositoryInterface
	emails     *fakeEmailSource
	extractor  *fakeExtractor
	service    SyncServiceInterface
}

func newSyncFixture(t *testing.T) *syncFixture {
	db := database.SetupTestDB(t)
	userRepo := repositories.NewUserRepository(db.DB)
	txnRepo := repositories.NewTransactionRepository(db.DB)
	markerRepo := repositories.NewProcessedEmailRepository(db.DB)
	emails := &fakeEmailSource{}
	fakeExt := newFakeExtractor()

	service := NewSyncService(db, userRepo, txnRepo, markerRepo, emails, fakeExt, &fakeCredentialSource{}, noopMetrics{})

	return &syncFixture{
		db:         db,
		userRepo:   userRepo,
		txnRepo:    txnRepo,
		markerRepo: markerRepo,
		emails:     emails,
		extractor:  fakeExt,
		service:    service,
	}
}

func TestSyncForOwnerPersistsTransactionsAndMarkers(t *testing.T) {
	f := newSyncFixture(t)
	user := database.CreateTestUserWithCredentials(t, f.db, "maria@example.com")

	f.emails.messages = []gmail.Message{
		{ID: "msg-1", Subject: "compra-bcp", Body: "Consumo S/ 45.50"},
		{ID: "msg-2", Subject: "abono-interbank", Body: "Abono S/ 2500"},
	}
	f.extractor.results["compra-bcp"] = []extractor.Candidate{
		candidate("2025-03-05", "PLAZA VEA", "-45.50", "PEN", "groceries", "BCP"),
		candidate("2025-03-05", "UBER", "-12.00", "PEN", "transport", "BCP"),
	}
	f.extractor.results["abono-interbank"] = []extractor.Candidate{
		candidate("2025-03-06", "Sueldo", "2500", "PEN", "salary", "Interbank"),
	}

	summary := f.service.SyncForOwner(context.Background(), user.ID, 7)

	assert.Equal(t, 2, summary.EmailsProcessed)
	assert.Equal(t, 0, summary.EmailsSkipped)
	assert.Equal(t, 3, summary.TransactionsAdded)
	assert.Equal(t, 0, summary.Errors)
	assert.Empty(t, summary.Error)

	txns, total, err := f.txnRepo.ListForOwner(user.ID, models.TransactionFilters{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	for _, txn := range txns {
		assert.Contains(t, []string{"msg-1", "msg-2"}, txn.EmailID)
	}

	marker, err := f.markerRepo.GetByUserAndEmail(user.ID, "msg-1")
	require.NoError(t, err)
	assert.Equal(t, 2, marker.TransactionCount)

	reloaded, err := f.userRepo.GetByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SyncStatusOK, reloaded.LastSyncStatus)
	require.NotNil(t, reloaded.LastSyncAt)
}

func TestSyncForOwnerIsIdempotent(t *testing.T) {
	f := newSyncFixture(t)
	user := database.CreateTestUserWithCredentials(t, f.db, "maria@example.com")

	f.emails.messages = []gmail.Message{{ID: "msg-1", Subject: "compra", Body: "x"}}
	f.extractor.results["compra"] = []extractor.Candidate{
		candidate("2025-03-05", "PLAZA VEA", "-45.50", "PEN", "groceries", "BCP"),
	}

	first := f.service.SyncForOwner(context.Background(), user.ID, 7)
	second := f.service.SyncForOwner(context.Background(), user.ID, 7)

	assert.Equal(t, 1, first.TransactionsAdded)
	assert.Equal(t, 0, second.TransactionsAdded)
	assert.Equal(t, 1, second.EmailsSkipped)

	// Extraction ran at most once for the email across both runs
	assert.Equal(t, 1, f.extractor.calls["compra"])

	_, total, err := f.txnRepo.ListForOwner(user.ID, models.TransactionFilters{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestSyncForOwnerExtractionFailureStillMarks(t *testing.T) {
	f := newSyncFixture(t)
	user := database.CreateTestUserWithCredentials(t, f.db, "maria@example.com")

	f.emails.messages = []gmail.Message{
		{ID: "msg-bad", Subject: "falla", Body: "x"},
		{ID: "msg-good", Subject: "compra", Body: "y"},
	}
	f.extractor.errs["falla"] = errors.New("model unavailable")
	f.extractor.results["compra"] = []extractor.Candidate{
		candidate("2025-03-05", "PLAZA VEA", "-45.50", "PEN", "groceries", "BCP"),
	}

	summary := f.service.SyncForOwner(context.Background(), user.ID, 7)

	// The failed email still counts as processed, with zero transactions
	assert.Equal(t, 2, summary.EmailsProcessed)
	assert.Equal(t, 1, summary.TransactionsAdded)
	assert.Equal(t, 1, summary.Errors)

	marker, err := f.markerRepo.GetByUserAndEmail(user.ID, "msg-bad")
	require.NoError(t, err)
	assert.Equal(t, 0, marker.TransactionCount)

	reloaded, err := f.userRepo.GetByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "errors=1", reloaded.LastSyncStatus)

	// The failed email is never retried on the next run
	second := f.service.SyncForOwner(context.Background(), user.ID, 7)
	assert.Equal(t, 2, second.EmailsSkipped)
	assert.Equal(t, 1, f.extractor.calls["falla"])
}

func TestSyncForOwnerEmptyExtractionWritesZeroCountMarker(t *testing.T) {
	f := newSyncFixture(t)
	user := database.CreateTestUserWithCredentials(t, f.db, "maria@example.com")

	f.emails.messages = []gmail.Message{{ID: "msg-empty", Subject: "promo", Body: "publicidad"}}

	summary := f.service.SyncForOwner(context.Background(), user.ID, 7)

	assert.Equal(t, 1, summary.EmailsProcessed)
	assert.Equal(t, 0, summary.TransactionsAdded)
	assert.Equal(t, 0, summary.Errors)

	marker, err := f.markerRepo.GetByUserAndEmail(user.ID, "msg-empty")
	require.NoError(t, err)
	assert.Equal(t, 0, marker.TransactionCount)
}

func TestSyncForOwnerSkipsInvalidCandidates(t *testing.T) {
	f := newSyncFixture(t)
	user := database.CreateTestUserWithCredentials(t, f.db, "maria@example.com")

	f.emails.messages = []gmail.Message{{ID: "msg-1", Subject: "compra", Body: "x"}}
	f.extractor.results["compra"] = []extractor.Candidate{
		candidate("not-a-date", "rota", "-1", "PEN", "other", "BCP"),
		candidate("2025-03-05", "divisa rara", "-1", "EUR", "other", "BCP"),
		candidate("2025-03-05", "válida", "-45.50", "PEN", "groceries", "BCP"),
	}

	summary := f.service.SyncForOwner(context.Background(), user.ID, 7)

	assert.Equal(t, 1, summary.TransactionsAdded)

	marker, err := f.markerRepo.GetByUserAndEmail(user.ID, "msg-1")
	require.NoError(t, err)
	assert.Equal(t, 1, marker.TransactionCount)
}

func TestSyncForOwnerUnknownCategoryNormalized(t *testing.T) {
	f := newSyncFixture(t)
	user := database.CreateTestUserWithCredentials(t, f.db, "maria@example.com")

	f.emails.messages = []gmail.Message{{ID: "msg-1", Subject: "compra", Body: "x"}}
	f.extractor.results["compra"] = []extractor.Candidate{
		candidate("2025-03-05", "misterioso", "-10", "PEN", "cryptocurrency", "BCP"),
	}

	summary := f.service.SyncForOwner(context.Background(), user.ID, 7)
	assert.Equal(t, 1, summary.TransactionsAdded)

	txns, _, err := f.txnRepo.ListForOwner(user.ID, models.TransactionFilters{})
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, models.CategoryOther, txns[0].Category)
}

func TestSyncForOwnerNoCredentials(t *testing.T) {
	f := newSyncFixture(t)
	user := database.CreateTestUser(t, f.db, "maria@example.com")

	summary := f.service.SyncForOwner(context.Background(), user.ID, 7)

	assert.Equal(t, "no_credentials", summary.Error)
	assert.Equal(t, 0, summary.TransactionsAdded)

	// Sync status untouched when the run never started
	reloaded, err := f.userRepo.GetByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SyncStatusNever, reloaded.LastSyncStatus)
}

func TestSyncForOwnerEmailStreamFailureCounted(t *testing.T) {
	f := newSyncFixture(t)
	user := database.CreateTestUserWithCredentials(t, f.db, "maria@example.com")

	f.emails.err = errors.New("gmail unavailable")

	summary := f.service.SyncForOwner(context.Background(), user.ID, 7)

	assert.Equal(t, 1, summary.Errors)

	reloaded, err := f.userRepo.GetByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "errors=1", reloaded.LastSyncStatus)
}

func TestSyncAllOwnersSkipsUsersWithoutCredentials(t *testing.T) {
	f := newSyncFixture(t)
	withCreds := database.CreateTestUserWithCredentials(t, f.db, "creds@example.com")
	withoutCreds := database.CreateTestUser(t, f.db, "nocreds@example.com")

	f.emails.messages = []gmail.Message{{ID: "msg-1", Subject: "compra", Body: "x"}}
	f.extractor.results["compra"] = []extractor.Candidate{
		candidate("2025-03-05", "PLAZA VEA", "-45.50", "PEN", "groceries", "BCP"),
	}

	f.service.SyncAllOwners(context.Background(), 7)

	synced, err := f.userRepo.GetByID(withCreds.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SyncStatusOK, synced.LastSyncStatus)

	skipped, err := f.userRepo.GetByID(withoutCreds.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SyncStatusNever, skipped.LastSyncStatus)
}
