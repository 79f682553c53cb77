package common

import (
	"net/http"
)

// ErrorResponse is the JSON error envelope returned by the API.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// CustomError carries an error code and an HTTP status alongside the cause.
type CustomError struct {
	Code    string
	Message string
	Err     error
	Status  int
}

func (e *CustomError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewError creates a new CustomError.
func NewError(code string, message string, status int, err error) *CustomError {
	return &CustomError{
		Code:    code,
		Message: message,
		Status:  status,
		Err:     err,
	}
}

// Error codes carried in analysis responses. All of these except
// NO_API_KEY and INTERNAL_ERROR describe expected degraded outcomes and
// ship with HTTP 200.
const (
	ErrCodeNoImages              = "NO_IMAGES"
	ErrCodeNoUsableImages        = "NO_USABLE_IMAGES"
	ErrCodeNoIngredientsDetected = "NO_INGREDIENTS_DETECTED"
	ErrCodeImageTooSmall         = "IMAGE_TOO_SMALL"
	ErrCodeAPIError              = "API_ERROR"
	ErrCodeNoAPIKey              = "NO_API_KEY"

	ErrCodeInvalidRequest   = "INVALID_REQUEST"    // 400
	ErrCodeMethodNotAllowed = "METHOD_NOT_ALLOWED" // 405
	ErrCodeRequestTimeout   = "REQUEST_TIMEOUT"    // 408
	ErrCodeTooManyRequests  = "TOO_MANY_REQUESTS"  // 429
	ErrCodeInternalError    = "INTERNAL_ERROR"     // 500
)

// Predefined errors for the transport layer.
var (
	ErrInvalidRequest   = NewError(ErrCodeInvalidRequest, "invalid request body", http.StatusBadRequest, nil)
	ErrMethodNotAllowed = NewError(ErrCodeMethodNotAllowed, "method not allowed", http.StatusMethodNotAllowed, nil)
	ErrTooManyRequests  = NewError(ErrCodeTooManyRequests, "too many requests", http.StatusTooManyRequests, nil)
	ErrInternalError    = NewError(ErrCodeInternalError, "internal server error", http.StatusInternalServerError, nil)
	ErrNoAPIKey         = NewError(ErrCodeNoAPIKey, "vision service credential is not configured", http.StatusInternalServerError, nil)

	ErrCacheFull     = NewError("CACHE_FULL", "cache is full", http.StatusServiceUnavailable, nil)
	ErrCacheDisabled = NewError("CACHE_DISABLED", "cache is disabled", http.StatusServiceUnavailable, nil)
)
