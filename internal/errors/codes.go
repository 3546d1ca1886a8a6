package errors

// ErrorCode represents a standardized error code used throughout the API
type ErrorCode string

// Authentication error codes (AUTH_*)
const (
	AuthMissingToken       ErrorCode = "AUTH_001"
	AuthExpiredToken       ErrorCode = "AUTH_002"
	AuthInvalidTokenFormat ErrorCode = "AUTH_003"
)

// Validation error codes (VALIDATION_*)
const (
	ValidationGeneral     ErrorCode = "VALIDATION_001"
	ValidationInvalidDate ErrorCode = "VALIDATION_002"
	ValidationOutOfRange  ErrorCode = "VALIDATION_003"
)

// Transaction error codes (TRANSACTION_*)
const (
	TransactionNotFound      ErrorCode = "TRANSACTION_001"
	TransactionInvalidFields ErrorCode = "TRANSACTION_002"
)

// Budget error codes (BUDGET_*)
const (
	BudgetNotFound        ErrorCode = "BUDGET_001"
	BudgetInvalidCategory ErrorCode = "BUDGET_002"
)

// Sync error codes (SYNC_*)
const (
	SyncInvalidLookback ErrorCode = "SYNC_001"
)

// System error codes (SYSTEM_*)
const (
	SystemInternalError     ErrorCode = "SYSTEM_001"
	SystemDatabaseError     ErrorCode = "SYSTEM_002"
	SystemRateLimitExceeded ErrorCode = "SYSTEM_003"
)

// errorMessages maps error codes to their default human-readable messages
var errorMessages = map[ErrorCode]string{
	AuthMissingToken:       "Authorization token is required",
	AuthExpiredToken:       "Authorization token has expired",
	AuthInvalidTokenFormat: "Authorization token is invalid",

	ValidationGeneral:     "Request validation failed",
	ValidationInvalidDate: "Invalid date value",
	ValidationOutOfRange:  "Value is out of the allowed range",

	TransactionNotFound:      "Transaction not found",
	TransactionInvalidFields: "Transaction fields are invalid",

	BudgetNotFound:        "Budget not found",
	BudgetInvalidCategory: "Budget category is not supported",

	SyncInvalidLookback: "Lookback window must be between 1 and 180 days",

	SystemInternalError:     "An internal error occurred",
	SystemDatabaseError:     "A database error occurred",
	SystemRateLimitExceeded: "Too many requests, slow down",
}

// GetErrorMessage returns the default message for an error code
func GetErrorMessage(code ErrorCode) string {
	if message, ok := errorMessages[code]; ok {
		return message
	}
	return "Unknown error"
}
