package models

import "github.com/shopspring/decimal"

// CategoryCurrencyTotal is one row of a grouped expense query: the summed
// (negative) amount for a category in its native currency. Currency
// normalization happens in the dashboard service, not in SQL, so a single
// exchange rate can be applied uniformly per request.
type CategoryCurrencyTotal struct {
	Category string          `json:"category"`
	Currency string          `json:"currency"`
	Total    decimal.Decimal `json:"total"`
}
