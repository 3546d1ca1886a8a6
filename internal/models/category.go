package models

const (
	CurrencyPEN = "PEN"
	CurrencyUSD = "USD"
)

const (
	CategoryGroceries     = "groceries"
	CategoryTransport     = "transport"
	CategoryRestaurants   = "restaurants"
	CategoryEntertainment = "entertainment"
	CategoryUtilities     = "utilities"
	CategoryTransfer      = "transfer"
	CategorySalary        = "salary"
	CategoryShopping      = "shopping"
	CategoryHealth        = "health"
	CategoryEducation     = "education"
	CategoryOther         = "other"
)

// Categories is the closed set of transaction categories. The extractor
// prompt and the budget endpoints are both constrained to this list.
var Categories = []string{
	CategoryGroceries,
	CategoryTransport,
	CategoryRestaurants,
	CategoryEntertainment,
	CategoryUtilities,
	CategoryTransfer,
	CategorySalary,
	CategoryShopping,
	CategoryHealth,
	CategoryEducation,
	CategoryOther,
}

// IsValidCurrency checks if the currency code is one of the supported codes
func IsValidCurrency(currency string) bool {
	switch currency {
	case CurrencyPEN, CurrencyUSD:
		return true
	default:
		return false
	}
}

// IsValidCategory checks if the category is part of the closed enum
func IsValidCategory(category string) bool {
	for _, c := range Categories {
		if c == category {
			return true
		}
	}
	return false
}

// NormalizeCategory maps unknown category values onto "other" so that
// extractor output outside the enum never reaches the database.
func NormalizeCategory(category string) string {
	if IsValidCategory(category) {
		return category
	}
	return CategoryOther
}
