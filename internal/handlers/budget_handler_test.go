package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mvaldivia/soltrack/internal/database"
	"github.com/mvaldivia/soltrack/internal/models"
	"github.com/mvaldivia/soltrack/internal/repositories"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func budgetTestContext(t *testing.T, e *echo.Echo, userID uuid.UUID, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", userID)
	return c, rec
}

func TestUpsertBudget(t *testing.T) {
	e := echo.New()
	e.Validator = NewValidator()
	db := database.SetupTestDB(t)
	repo := repositories.NewBudgetRepository(db.DB)
	handler := NewBudgetHandler(repo)
	user := database.CreateTestUser(t, db, "maria@example.com")

	body := `{"category": "groceries", "monthly_limit": "800.00", "currency": "PEN"}`
	c, rec := budgetTestContext(t, e, user.ID, http.MethodPut, "/api/budgets", body)

	require.NoError(t, handler.UpsertBudget(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	budgets, err := repo.ListForOwner(user.ID)
	require.NoError(t, err)
	require.Len(t, budgets, 1)
	assert.True(t, budgets[0].MonthlyLimit.Equal(decimal.NewFromFloat(800.00)))
}

func TestUpsertBudgetUnknownCategory(t *testing.T) {
	e := echo.New()
	e.Validator = NewValidator()
	db := database.SetupTestDB(t)
	handler := NewBudgetHandler(repositories.NewBudgetRepository(db.DB))
	user := database.CreateTestUser(t, db, "maria@example.com")

	body := `{"category": "crypto", "monthly_limit": "100", "currency": "PEN"}`
	c, rec := budgetTestContext(t, e, user.ID, http.MethodPut, "/api/budgets", body)

	require.NoError(t, handler.UpsertBudget(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpsertBudgetNegativeLimit(t *testing.T) {
	e := echo.New()
	e.Validator = NewValidator()
	db := database.SetupTestDB(t)
	handler := NewBudgetHandler(repositories.NewBudgetRepository(db.DB))
	user := database.CreateTestUser(t, db, "maria@example.com")

	body := `{"category": "groceries", "monthly_limit": "-5", "currency": "PEN"}`
	c, rec := budgetTestContext(t, e, user.ID, http.MethodPut, "/api/budgets", body)

	require.NoError(t, handler.UpsertBudget(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListBudgets(t *testing.T) {
	e := echo.New()
	db := database.SetupTestDB(t)
	repo := repositories.NewBudgetRepository(db.DB)
	handler := NewBudgetHandler(repo)
	user := database.CreateTestUser(t, db, "maria@example.com")

	require.NoError(t, repo.Upsert(&models.Budget{
		UserID:       user.ID,
		Category:     models.CategoryTransport,
		MonthlyLimit: decimal.NewFromFloat(200.00),
		Currency:     models.CurrencyPEN,
	}))

	c, rec := budgetTestContext(t, e, user.ID, http.MethodGet, "/api/budgets", "")

	require.NoError(t, handler.ListBudgets(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var budgets []models.Budget
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &budgets))
	require.Len(t, budgets, 1)
	assert.Equal(t, models.CategoryTransport, budgets[0].Category)
}

func TestDeleteBudgetNotFound(t *testing.T) {
	e := echo.New()
	db := database.SetupTestDB(t)
	handler := NewBudgetHandler(repositories.NewBudgetRepository(db.DB))
	user := database.CreateTestUser(t, db, "maria@example.com")

	c, rec := budgetTestContext(t, e, user.ID, http.MethodDelete, "/api/budgets/"+uuid.NewString(), "")
	c.SetParamNames("budgetId")
	c.SetParamValues(uuid.NewString())

	require.NoError(t, handler.DeleteBudget(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
