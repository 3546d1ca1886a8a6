package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CurrencyBreakdown holds income, expenses and net for one currency.
// Expenses keep their negative sign; net is income plus expenses.
type CurrencyBreakdown struct {
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
	Net      decimal.Decimal `json:"net"`
}

// MonthlySummary is the dashboard summary for one calendar month. TotalUSD
// normalizes both currencies to USD using a single exchange rate snapshot.
type MonthlySummary struct {
	Month            int               `json:"month"`
	Year             int               `json:"year"`
	PEN              CurrencyBreakdown `json:"pen"`
	USD              CurrencyBreakdown `json:"usd"`
	TotalUSD         CurrencyBreakdown `json:"total_usd"`
	ExchangeRate     decimal.Decimal   `json:"exchange_rate"`
	TransactionCount int               `json:"transaction_count"`
}

// CategoryTotal is one category's expense total in USD, absolute value.
type CategoryTotal struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
}

// MonthlyTrendPoint is one month's expense total in USD for the trend chart.
// Months with no expenses are omitted.
type MonthlyTrendPoint struct {
	Month    string          `json:"month"`
	MonthNum int             `json:"month_num"`
	Expenses decimal.Decimal `json:"expenses"`
}

// BudgetStatus compares a category budget against the month's spend, both
// normalized to USD.
type BudgetStatus struct {
	Category   string          `json:"category"`
	Limit      decimal.Decimal `json:"limit"`
	Spent      decimal.Decimal `json:"spent"`
	Percentage decimal.Decimal `json:"percentage"`
	Currency   string          `json:"currency"`
}

// Rate sources reported by RateInfo.
const (
	RateSourceCache      = "cache"
	RateSourceFresh      = "fresh"
	RateSourceStaleCache = "stale_cache"
	RateSourceFallback   = "fallback"
)

// RateInfo is an exchange rate with provenance metadata.
type RateInfo struct {
	FromCurrency string          `json:"from_currency"`
	ToCurrency   string          `json:"to_currency"`
	Rate         decimal.Decimal `json:"rate"`
	FetchedAt    *time.Time      `json:"fetched_at"`
	AgeHours     *float64        `json:"age_hours"`
	Source       string          `json:"source"`
}

// SyncSummary reports one owner's sync run. Error is set to
// "no_credentials" when the owner has no stored Gmail tokens.
type SyncSummary struct {
	EmailsProcessed   int     `json:"emails_processed"`
	EmailsSkipped     int     `json:"emails_skipped"`
	TransactionsAdded int     `json:"transactions_added"`
	Errors            int     `json:"errors"`
	DurationSeconds   float64 `json:"duration_seconds"`
	Message           string  `json:"message,omitempty"`
	Error             string  `json:"error,omitempty"`
}
