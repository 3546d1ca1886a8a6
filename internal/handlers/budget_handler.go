package handlers

import (
	stderrors "errors"
	"net/http"

	"github.com/mvaldivia/soltrack/internal/dto"
	"github.com/mvaldivia/soltrack/internal/errors"
	"github.com/mvaldivia/soltrack/internal/models"
	"github.com/mvaldivia/soltrack/internal/repositories"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// BudgetHandler handles budget CRUD
type BudgetHandler struct {
	budgetRepo repositories.BudgetRepositoryInterface
}

func NewBudgetHandler(budgetRepo repositories.BudgetRepositoryInterface) *BudgetHandler {
	return &BudgetHandler{budgetRepo: budgetRepo}
}

// ListBudgets returns all budgets for the owner
func (h *BudgetHandler) ListBudgets(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	budgets, err := h.budgetRepo.ListForOwner(userID)
	if err != nil {
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, budgets)
}

// UpsertBudget creates or replaces the budget for one category
func (h *BudgetHandler) UpsertBudget(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	var req dto.UpsertBudgetRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid request body"))
	}
	if err := c.Validate(req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails(err.Error()))
	}

	if !models.IsValidCategory(req.Category) {
		return SendError(c, errors.BudgetInvalidCategory)
	}
	limit, err := decimal.NewFromString(req.MonthlyLimit)
	if err != nil || limit.IsNegative() {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("monthly_limit must be a non-negative number"))
	}

	budget := &models.Budget{
		UserID:       userID,
		Category:     req.Category,
		MonthlyLimit: limit,
		Currency:     req.Currency,
	}
	if err := h.budgetRepo.Upsert(budget); err != nil {
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, budget)
}

// DeleteBudget removes one of the owner's budgets
func (h *BudgetHandler) DeleteBudget(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	budgetID, err := uuid.Parse(c.Param("budgetId"))
	if err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("invalid budget ID"))
	}

	if err := h.budgetRepo.Delete(budgetID, userID); err != nil {
		if stderrors.Is(err, repositories.ErrBudgetNotFound) {
			return SendError(c, errors.BudgetNotFound)
		}
		return SendSystemError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}
