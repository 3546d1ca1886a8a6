package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mvaldivia/soltrack/internal/config"
	"github.com/mvaldivia/soltrack/internal/database"
	"github.com/mvaldivia/soltrack/internal/dto"
	"github.com/mvaldivia/soltrack/internal/models"
	"github.com/mvaldivia/soltrack/internal/repositories"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSyncService struct {
	calls chan int
}

func (r *recordingSyncService) SyncForOwner(_ context.Context, _ uuid.UUID, lookbackDays int) *models.SyncSummary {
	r.calls <- lookbackDays
	return &models.SyncSummary{}
}

func (r *recordingSyncService) SyncAllOwners(_ context.Context, _ int) {}

func syncTestConfig() config.SyncConfig {
	return config.SyncConfig{
		Interval:            6 * time.Hour,
		DefaultLookbackDays: 7,
		MinLookbackDays:     1,
		MaxLookbackDays:     180,
	}
}

func newSyncContext(e *echo.Echo, userID uuid.UUID, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, "/api/sync", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", userID)
	return c, rec
}

func TestTriggerSyncReturnsImmediately(t *testing.T) {
	e := echo.New()
	db := database.SetupTestDB(t)
	userRepo := repositories.NewUserRepository(db.DB)
	user := database.CreateTestUser(t, db, "maria@example.com")

	syncService := &recordingSyncService{calls: make(chan int, 1)}
	handler := NewSyncHandler(syncService, userRepo, syncTestConfig())

	c, rec := newSyncContext(e, user.ID, `{"days_back": 30}`)

	require.NoError(t, handler.TriggerSync(c))
	assert.Equal(t, http.StatusAccepted, rec.Code)

	var resp dto.SyncTriggeredResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 30, resp.DaysBack)

	// The sync runs in the background after the response is sent
	select {
	case days := <-syncService.calls:
		assert.Equal(t, 30, days)
	case <-time.After(time.Second):
		t.Fatal("background sync never started")
	}
}

func TestTriggerSyncDefaultsLookback(t *testing.T) {
	e := echo.New()
	db := database.SetupTestDB(t)
	userRepo := repositories.NewUserRepository(db.DB)
	user := database.CreateTestUser(t, db, "maria@example.com")

	syncService := &recordingSyncService{calls: make(chan int, 1)}
	handler := NewSyncHandler(syncService, userRepo, syncTestConfig())

	c, rec := newSyncContext(e, user.ID, `{}`)

	require.NoError(t, handler.TriggerSync(c))
	assert.Equal(t, http.StatusAccepted, rec.Code)

	select {
	case days := <-syncService.calls:
		assert.Equal(t, 7, days)
	case <-time.After(time.Second):
		t.Fatal("background sync never started")
	}
}

func TestTriggerSyncRejectsOutOfRangeLookback(t *testing.T) {
	e := echo.New()
	db := database.SetupTestDB(t)
	userRepo := repositories.NewUserRepository(db.DB)
	user := database.CreateTestUser(t, db, "maria@example.com")

	syncService := &recordingSyncService{calls: make(chan int, 1)}
	handler := NewSyncHandler(syncService, userRepo, syncTestConfig())

	for _, days := range []int{-1, 181, 1000} {
		c, rec := newSyncContext(e, user.ID, fmt.Sprintf(`{"days_back": %d}`, days))

		require.NoError(t, handler.TriggerSync(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	}

	select {
	case <-syncService.calls:
		t.Fatal("sync must not start for invalid lookback")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestGetSyncStatus(t *testing.T) {
	e := echo.New()
	db := database.SetupTestDB(t)
	userRepo := repositories.NewUserRepository(db.DB)
	user := database.CreateTestUser(t, db, "maria@example.com")

	syncedAt := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, userRepo.UpdateSyncStatus(user.ID, syncedAt, models.SyncStatusOK))

	syncService := &recordingSyncService{calls: make(chan int, 1)}
	handler := NewSyncHandler(syncService, userRepo, syncTestConfig())

	req := httptest.NewRequest(http.MethodGet, "/api/sync/status", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", user.ID)

	require.NoError(t, handler.GetSyncStatus(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp dto.SyncStatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, models.SyncStatusOK, resp.LastSyncStatus)
	require.NotNil(t, resp.LastSyncAt)
}
