package handlers

const (
	ErrInvalidJSON          = "Invalid request body"
	ErrMissingFields        = "Missing required fields"
	ErrUnauthorized         = "Unauthorized"
	ErrForbidden            = "Forbidden"
	ErrTooManyRequests      = "Too many requests"
	ErrInternalServerError  = "Internal server error"
	ErrNotFound             = "Not found"
	ErrFamilySaveFailed     = "Failed to save family information"
	ErrMissingQuery         = "Missing query"
	ErrAssistantUnavailable = "Assistant unavailable"
	ErrDNAAnalysisFailed    = "Failed to analyze DNA data. Please try again later."
	ErrFileTooLarge         = "File is too large"

	// dnaFormField is the multipart field carrying a raw DNA file
	dnaFormField = "dnaFile"
)
