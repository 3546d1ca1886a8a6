package models

// TransactionFilters narrows owner-scoped transaction listings. Month and
// Year of zero mean "no month filter"; Category empty means all categories.
type TransactionFilters struct {
	Month    int
	Year     int
	Category string
	Limit    int
	Offset   int
}
