package handlers

import (
	"net/http"
	"time"

	"github.com/mvaldivia/soltrack/internal/errors"
	"github.com/mvaldivia/soltrack/internal/models"
	"github.com/mvaldivia/soltrack/internal/services"

	"github.com/labstack/echo/v4"
)

// DashboardHandler serves the aggregated dashboard views
type DashboardHandler struct {
	dashboardService services.DashboardServiceInterface
	rates            services.RateProvider
}

func NewDashboardHandler(dashboardService services.DashboardServiceInterface, rates services.RateProvider) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		rates:            rates,
	}
}

// GetSummary returns the monthly income/expense summary per currency plus
// the USD-normalized total
func (h *DashboardHandler) GetSummary(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	month, year := getMonthYearParams(c)
	if month < 1 || month > 12 {
		return SendError(c, errors.ValidationOutOfRange, errors.WithDetails("month must be between 1 and 12"))
	}

	summary, err := h.dashboardService.MonthlySummary(userID, month, year)
	if err != nil {
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, summary)
}

// GetByCategory returns the month's expense totals per category in USD,
// largest first
func (h *DashboardHandler) GetByCategory(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	month, year := getMonthYearParams(c)
	if month < 1 || month > 12 {
		return SendError(c, errors.ValidationOutOfRange, errors.WithDetails("month must be between 1 and 12"))
	}

	totals, err := h.dashboardService.ExpensesByCategory(userID, month, year)
	if err != nil {
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, totals)
}

// GetMonthlyTrend returns the year's expense totals per month in USD
func (h *DashboardHandler) GetMonthlyTrend(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	year := getIntParam(c, "year", time.Now().Year())

	trend, err := h.dashboardService.MonthlyTrend(userID, year)
	if err != nil {
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, trend)
}

// GetBudgetStatus compares each budget with the month's spend
func (h *DashboardHandler) GetBudgetStatus(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	month, year := getMonthYearParams(c)
	if month < 1 || month > 12 {
		return SendError(c, errors.ValidationOutOfRange, errors.WithDetails("month must be between 1 and 12"))
	}

	statuses, err := h.dashboardService.BudgetStatus(userID, month, year)
	if err != nil {
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, statuses)
}

// GetExchangeRate returns the current PEN to USD rate with provenance
func (h *DashboardHandler) GetExchangeRate(c echo.Context) error {
	info := h.rates.RateInfo(models.CurrencyPEN, models.CurrencyUSD)
	return c.JSON(http.StatusOK, info)
}
