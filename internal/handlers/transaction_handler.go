package handlers

import (
	stderrors "errors"
	"net/http"
	"time"

	"github.com/mvaldivia/soltrack/internal/dto"
	"github.com/mvaldivia/soltrack/internal/errors"
	"github.com/mvaldivia/soltrack/internal/models"
	"github.com/mvaldivia/soltrack/internal/repositories"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

const (
	defaultPageLimit = 50
	maxPageLimit     = 200
)

// TransactionHandler handles manual transaction CRUD. Extracted
// transactions flow through the sync pipeline, not through here.
type TransactionHandler struct {
	txnRepo repositories.TransactionRepositoryInterface
}

func NewTransactionHandler(txnRepo repositories.TransactionRepositoryInterface) *TransactionHandler {
	return &TransactionHandler{txnRepo: txnRepo}
}

// ListTransactions returns the owner's transactions with optional
// month/year/category filters and pagination
func (h *TransactionHandler) ListTransactions(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	filters := models.TransactionFilters{
		Month:    getIntParam(c, "month", 0),
		Year:     getIntParam(c, "year", 0),
		Category: c.QueryParam("category"),
		Limit:    getIntParam(c, "limit", defaultPageLimit),
		Offset:   getIntParam(c, "offset", 0),
	}
	if filters.Limit < 1 || filters.Limit > maxPageLimit {
		filters.Limit = defaultPageLimit
	}
	if filters.Offset < 0 {
		filters.Offset = 0
	}
	if filters.Month != 0 && (filters.Month < 1 || filters.Month > 12) {
		return SendError(c, errors.ValidationOutOfRange, errors.WithDetails("month must be between 1 and 12"))
	}
	if filters.Category != "" && !models.IsValidCategory(filters.Category) {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("unknown category"))
	}

	txns, total, err := h.txnRepo.ListForOwner(userID, filters)
	if err != nil {
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, dto.TransactionListResponse{
		Transactions: txns,
		Total:        total,
		Limit:        filters.Limit,
		Offset:       filters.Offset,
	})
}

// CreateTransaction records a manual transaction for the owner
func (h *TransactionHandler) CreateTransaction(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	var req dto.CreateTransactionRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid request body"))
	}
	if err := c.Validate(req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails(err.Error()))
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return SendError(c, errors.ValidationInvalidDate, errors.WithDetails("date must be YYYY-MM-DD"))
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return SendError(c, errors.TransactionInvalidFields, errors.WithDetails("invalid amount"))
	}
	if !models.IsValidCategory(req.Category) {
		return SendError(c, errors.TransactionInvalidFields, errors.WithDetails("unknown category"))
	}

	txn := &models.Transaction{
		UserID:      userID,
		Date:        date,
		Description: req.Description,
		Amount:      amount,
		Currency:    req.Currency,
		Category:    req.Category,
		Bank:        req.Bank,
		EmailID:     models.SourceManual,
	}
	if err := h.txnRepo.Create(txn); err != nil {
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusCreated, txn)
}

// UpdateTransaction changes the provided fields of an owner's transaction
func (h *TransactionHandler) UpdateTransaction(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	txnID, err := uuid.Parse(c.Param("transactionId"))
	if err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("invalid transaction ID"))
	}

	var req dto.UpdateTransactionRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid request body"))
	}
	if err := c.Validate(req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails(err.Error()))
	}

	txn, err := h.txnRepo.GetByID(txnID)
	if err != nil {
		if stderrors.Is(err, repositories.ErrTransactionNotFound) {
			return SendError(c, errors.TransactionNotFound)
		}
		return SendSystemError(c, err)
	}
	if txn.UserID != userID {
		return SendError(c, errors.TransactionNotFound)
	}

	if err := applyTransactionUpdates(txn, &req); err != nil {
		return SendError(c, errors.TransactionInvalidFields, errors.WithDetails(err.Error()))
	}

	if err := h.txnRepo.Update(txn); err != nil {
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, txn)
}

func applyTransactionUpdates(txn *models.Transaction, req *dto.UpdateTransactionRequest) error {
	if req.Date != nil {
		date, err := time.Parse("2006-01-02", *req.Date)
		if err != nil {
			return stderrors.New("date must be YYYY-MM-DD")
		}
		txn.Date = date
	}
	if req.Description != nil {
		txn.Description = *req.Description
	}
	if req.Amount != nil {
		amount, err := decimal.NewFromString(*req.Amount)
		if err != nil {
			return stderrors.New("invalid amount")
		}
		txn.Amount = amount
	}
	if req.Currency != nil {
		txn.Currency = *req.Currency
	}
	if req.Category != nil {
		if !models.IsValidCategory(*req.Category) {
			return stderrors.New("unknown category")
		}
		txn.Category = *req.Category
	}
	if req.Bank != nil {
		txn.Bank = *req.Bank
	}
	return txn.Validate()
}

// DeleteTransaction removes an owner's transaction
func (h *TransactionHandler) DeleteTransaction(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	txnID, err := uuid.Parse(c.Param("transactionId"))
	if err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("invalid transaction ID"))
	}

	if err := h.txnRepo.Delete(txnID, userID); err != nil {
		if stderrors.Is(err, repositories.ErrTransactionNotFound) {
			return SendError(c, errors.TransactionNotFound)
		}
		return SendSystemError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}
