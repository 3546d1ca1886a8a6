package services

import (
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/mvaldivia/soltrack/internal/models"
	"github.com/mvaldivia/soltrack/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var monthNames = []string{"", "Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

type dashboardService struct {
	txnRepo    repositories.TransactionRepositoryInterface
	budgetRepo repositories.BudgetRepositoryInterface
	rates      RateProvider
}

func NewDashboardService(
	txnRepo repositories.TransactionRepositoryInterface,
	budgetRepo repositories.BudgetRepositoryInterface,
	rates RateProvider,
) DashboardServiceInterface {
	return &dashboardService{
		txnRepo:    txnRepo,
		budgetRepo: budgetRepo,
		rates:      rates,
	}
}

// toUSD converts an amount to USD using the given PEN rate. USD amounts
// pass through unchanged.
func toUSD(amount decimal.Decimal, currency string, penToUSD decimal.Decimal) decimal.Decimal {
	if currency == models.CurrencyUSD {
		return amount
	}
	return amount.Mul(penToUSD)
}

func monthBounds(month, year int) (time.Time, time.Time) {
	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(0, 1, 0)
}

// MonthlySummary aggregates one month's income and expenses per currency
// plus a USD-normalized total. The exchange rate is resolved once and used
// for every conversion in the response, so the normalized figures are
// internally consistent even if the rate changes mid-request.
func (s *dashboardService) MonthlySummary(userID uuid.UUID, month, year int) (*models.MonthlySummary, error) {
	penToUSD := s.rates.Rate(models.CurrencyPEN, models.CurrencyUSD)

	from, to := monthBounds(month, year)
	txns, err := s.txnRepo.ListByDateRange(userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	var penIncome, penExpenses, usdIncome, usdExpenses decimal.Decimal
	for i := range txns {
		txn := &txns[i]
		switch {
		case txn.Currency == models.CurrencyPEN && txn.IsIncome():
			penIncome = penIncome.Add(txn.Amount)
		case txn.Currency == models.CurrencyPEN && txn.IsExpense():
			penExpenses = penExpenses.Add(txn.Amount)
		case txn.Currency == models.CurrencyUSD && txn.IsIncome():
			usdIncome = usdIncome.Add(txn.Amount)
		case txn.Currency == models.CurrencyUSD && txn.IsExpense():
			usdExpenses = usdExpenses.Add(txn.Amount)
		}
	}

	totalIncome := toUSD(penIncome, models.CurrencyPEN, penToUSD).Add(usdIncome)
	totalExpenses := toUSD(penExpenses, models.CurrencyPEN, penToUSD).Add(usdExpenses)

	summary := &models.MonthlySummary{
		Month:            month,
		Year:             year,
		PEN:              breakdown(penIncome, penExpenses),
		USD:              breakdown(usdIncome, usdExpenses),
		TotalUSD:         breakdown(totalIncome, totalExpenses),
		ExchangeRate:     penToUSD,
		TransactionCount: len(txns),
	}

	slog.Info("monthly summary generated",
		"user_id", userID,
		"month", month,
		"year", year,
		"transaction_count", len(txns))

	return summary, nil
}

func breakdown(income, expenses decimal.Decimal) models.CurrencyBreakdown {
	return models.CurrencyBreakdown{
		Income:   income.Round(2),
		Expenses: expenses.Round(2),
		Net:      income.Add(expenses).Round(2),
	}
}

// ExpensesByCategory returns the month's expense totals per category,
// normalized to USD as absolute values, sorted largest first.
func (s *dashboardService) ExpensesByCategory(userID uuid.UUID, month, year int) ([]models.CategoryTotal, error) {
	penToUSD := s.rates.Rate(models.CurrencyPEN, models.CurrencyUSD)

	from, to := monthBounds(month, year)
	rows, err := s.txnRepo.ExpenseTotalsByCategory(userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to total expenses: %w", err)
	}

	totals := map[string]decimal.Decimal{}
	for _, row := range rows {
		converted := toUSD(row.Total, row.Currency, penToUSD).Abs()
		totals[row.Category] = totals[row.Category].Add(converted)
	}

	result := make([]models.CategoryTotal, 0, len(totals))
	for category, total := range totals {
		result = append(result, models.CategoryTotal{Category: category, Total: total.Round(2)})
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].Total.Equal(result[j].Total) {
			return result[i].Total.GreaterThan(result[j].Total)
		}
		return result[i].Category < result[j].Category
	})

	return result, nil
}

// MonthlyTrend returns USD expense totals per month for one year. Months
// without expenses are omitted.
func (s *dashboardService) MonthlyTrend(userID uuid.UUID, year int) ([]models.MonthlyTrendPoint, error) {
	penToUSD := s.rates.Rate(models.CurrencyPEN, models.CurrencyUSD)

	from := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
	expenses, err := s.txnRepo.ListExpensesByDateRange(userID, from, from.AddDate(1, 0, 0))
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}

	totals := map[int]decimal.Decimal{}
	for i := range expenses {
		txn := &expenses[i]
		converted := toUSD(txn.Amount, txn.Currency, penToUSD).Abs()
		month := int(txn.Date.Month())
		totals[month] = totals[month].Add(converted)
	}

	months := make([]int, 0, len(totals))
	for month := range totals {
		months = append(months, month)
	}
	sort.Ints(months)

	result := make([]models.MonthlyTrendPoint, 0, len(months))
	for _, month := range months {
		result = append(result, models.MonthlyTrendPoint{
			Month:    monthNames[month],
			MonthNum: month,
			Expenses: totals[month].Round(2),
		})
	}

	return result, nil
}

// BudgetStatus compares each budget against the month's USD-normalized
// spend. A zero limit reports zero percent rather than dividing by zero.
func (s *dashboardService) BudgetStatus(userID uuid.UUID, month, year int) ([]models.BudgetStatus, error) {
	budgets, err := s.budgetRepo.ListForOwner(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}
	if len(budgets) == 0 {
		return []models.BudgetStatus{}, nil
	}

	penToUSD := s.rates.Rate(models.CurrencyPEN, models.CurrencyUSD)

	from, to := monthBounds(month, year)
	rows, err := s.txnRepo.ExpenseTotalsByCategory(userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to total expenses: %w", err)
	}

	spent := map[string]decimal.Decimal{}
	for _, row := range rows {
		converted := toUSD(row.Total, row.Currency, penToUSD).Abs()
		spent[row.Category] = spent[row.Category].Add(converted)
	}

	hundred := decimal.NewFromInt(100)
	result := make([]models.BudgetStatus, 0, len(budgets))
	for i := range budgets {
		budget := &budgets[i]
		limitUSD := toUSD(budget.MonthlyLimit, budget.Currency, penToUSD)
		spentUSD := spent[budget.Category]

		pct := decimal.Zero
		if limitUSD.IsPositive() {
			pct = spentUSD.Div(limitUSD).Mul(hundred)
		}

		result = append(result, models.BudgetStatus{
			Category:   budget.Category,
			Limit:      limitUSD.Round(2),
			Spent:      spentUSD.Round(2),
			Percentage: pct.Round(1),
			Currency:   models.CurrencyUSD,
		})
	}

	return result, nil
}
