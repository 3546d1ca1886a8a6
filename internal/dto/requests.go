package dto

// CreateTransactionRequest is the payload for manually recording a
// transaction. Amounts travel as strings to avoid float precision loss.
type CreateTransactionRequest struct {
	Date        string `json:"date" validate:"required,datetime=2006-01-02"`
	Description string `json:"description" validate:"required,max=500"`
	Amount      string `json:"amount" validate:"required"`
	Currency    string `json:"currency" validate:"required,oneof=PEN USD"`
	Category    string `json:"category" validate:"required"`
	Bank        string `json:"bank" validate:"max=100"`
}

// UpdateTransactionRequest updates a manual or extracted transaction.
// Only the provided fields change.
type UpdateTransactionRequest struct {
	Date        *string `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=500"`
	Amount      *string `json:"amount,omitempty"`
	Currency    *string `json:"currency,omitempty" validate:"omitempty,oneof=PEN USD"`
	Category    *string `json:"category,omitempty"`
	Bank        *string `json:"bank,omitempty" validate:"omitempty,max=100"`
}

// UpsertBudgetRequest creates or replaces the budget for one category.
type UpsertBudgetRequest struct {
	Category     string `json:"category" validate:"required"`
	MonthlyLimit string `json:"monthly_limit" validate:"required"`
	Currency     string `json:"currency" validate:"required,oneof=PEN USD"`
}

// SyncRequest triggers an on-demand sync. DaysBack defaults to the
// configured lookback when zero.
type SyncRequest struct {
	DaysBack int `json:"days_back"`
}
