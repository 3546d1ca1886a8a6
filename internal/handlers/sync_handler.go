package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/mvaldivia/soltrack/internal/config"
	"github.com/mvaldivia/soltrack/internal/dto"
	"github.com/mvaldivia/soltrack/internal/errors"
	"github.com/mvaldivia/soltrack/internal/repositories"
	"github.com/mvaldivia/soltrack/internal/services"

	"github.com/labstack/echo/v4"
)

// SyncHandler exposes the on-demand sync trigger and sync status
type SyncHandler struct {
	syncService services.SyncServiceInterface
	userRepo    repositories.UserRepositoryInterface
	cfg         config.SyncConfig
}

func NewSyncHandler(syncService services.SyncServiceInterface, userRepo repositories.UserRepositoryInterface, cfg config.SyncConfig) *SyncHandler {
	return &SyncHandler{
		syncService: syncService,
		userRepo:    userRepo,
		cfg:         cfg,
	}
}

// TriggerSync starts a sync for the authenticated owner in the background
// and returns immediately. The run's outcome is visible via GetSyncStatus.
func (h *SyncHandler) TriggerSync(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	var req dto.SyncRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid request body"))
	}

	daysBack := req.DaysBack
	if daysBack == 0 {
		daysBack = h.cfg.DefaultLookbackDays
	}
	if daysBack < h.cfg.MinLookbackDays || daysBack > h.cfg.MaxLookbackDays {
		return SendError(c, errors.SyncInvalidLookback,
			errors.WithDetails(fmt.Sprintf("days_back must be between %d and %d", h.cfg.MinLookbackDays, h.cfg.MaxLookbackDays)))
	}

	// Fire and forget: the request's context dies with the response, so the
	// background run gets its own.
	go h.syncService.SyncForOwner(context.Background(), userID, daysBack)

	return c.JSON(http.StatusAccepted, dto.SyncTriggeredResponse{
		Message:  "Sync started",
		DaysBack: daysBack,
	})
}

// GetSyncStatus returns the owner's last sync timestamp and outcome
func (h *SyncHandler) GetSyncStatus(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	user, err := h.userRepo.GetByID(userID)
	if err != nil {
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, dto.SyncStatusResponse{
		LastSyncAt:     user.LastSyncAt,
		LastSyncStatus: user.LastSyncStatus,
	})
}
