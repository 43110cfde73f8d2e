package errors

import "net/http"

// ErrorCode represents a unique error identifier
type ErrorCode int

// Error code ranges allocation:
// 10000-10999: System & Common errors
// 13000-13999: Run & Submission errors
// 14000-14999: Contest & Arena errors
const (
	// ========== System & Common Errors (10000-10999) ==========

	// Success
	Success ErrorCode = 10000

	// Generic errors (10000-10099)
	InternalServerError ErrorCode = 10001
	InvalidParams       ErrorCode = 10002
	NotFound            ErrorCode = 10003
	Unauthorized        ErrorCode = 10004
	Forbidden           ErrorCode = 10005
	TooManyRequests     ErrorCode = 10006
	ServiceUnavailable  ErrorCode = 10007
	Timeout             ErrorCode = 10008

	// Database errors (10100-10199)
	DatabaseError  ErrorCode = 10100
	RecordNotFound ErrorCode = 10101

	// Cache errors (10200-10299)
	CacheError ErrorCode = 10200
	CacheMiss  ErrorCode = 10201

	// Validation errors (10300-10399)
	ValidationFailed   ErrorCode = 10300
	InvalidFormat      ErrorCode = 10301
	InvalidValue       ErrorCode = 10302
	RequiredFieldEmpty ErrorCode = 10303

	// ========== Run & Submission Errors (13000-13999) ==========

	// Runs (13000-13099)
	RunNotFound          ErrorCode = 13000
	RunSourceUnavailable ErrorCode = 13001
	RunSourceTooLarge    ErrorCode = 13002
	RunDiffFailed        ErrorCode = 13003

	// Run list (13100-13199)
	InvalidFilter ErrorCode = 13100
	InvalidOffset ErrorCode = 13101
	RenderFailed  ErrorCode = 13102

	// ========== Contest & Arena Errors (14000-14999) ==========

	ContestNotFound     ErrorCode = 14000
	ContestAccessDenied ErrorCode = 14003
	TranslationMissing  ErrorCode = 14300
)

var errorMessages = map[ErrorCode]string{
	Success: "Success",

	InternalServerError: "Internal server error",
	InvalidParams:       "Invalid parameters",
	NotFound:            "Resource not found",
	Unauthorized:        "Unauthorized",
	Forbidden:           "Forbidden",
	TooManyRequests:     "Too many requests",
	ServiceUnavailable:  "Service unavailable",
	Timeout:             "Request timeout",

	DatabaseError:  "Database error",
	RecordNotFound: "Record not found",

	CacheError: "Cache error",
	CacheMiss:  "Cache miss",

	ValidationFailed:   "Validation failed",
	InvalidFormat:      "Invalid format",
	InvalidValue:       "Invalid value",
	RequiredFieldEmpty: "Required field is empty",

	RunNotFound:          "Run not found",
	RunSourceUnavailable: "Run source is unavailable",
	RunSourceTooLarge:    "Run source is too large",
	RunDiffFailed:        "Failed to compare runs",

	InvalidFilter: "Invalid run filter",
	InvalidOffset: "Invalid page offset",
	RenderFailed:  "Failed to render run list",

	ContestNotFound:     "Contest not found",
	ContestAccessDenied: "Access to this contest is denied",
	TranslationMissing:  "Translation table not found",
}

// Message returns the default message for the error code
func (c ErrorCode) Message() string {
	if msg, ok := errorMessages[c]; ok {
		return msg
	}
	return "Unknown error"
}

// HTTPStatus returns the recommended HTTP status code for the error code
func (c ErrorCode) HTTPStatus() int {
	switch {
	case c == Success:
		return http.StatusOK
	case c == Unauthorized:
		return http.StatusUnauthorized
	case c == Forbidden, c == ContestAccessDenied:
		return http.StatusForbidden
	case c == NotFound, c == RecordNotFound, c == RunNotFound, c == ContestNotFound:
		return http.StatusNotFound
	case c == TooManyRequests:
		return http.StatusTooManyRequests
	case c == ServiceUnavailable, c == RunSourceUnavailable:
		return http.StatusServiceUnavailable
	case c == Timeout:
		return http.StatusGatewayTimeout
	case c >= 10300 && c < 10400: // Validation errors
		return http.StatusBadRequest
	case c == InvalidParams, c == InvalidFilter, c == InvalidOffset, c == RunSourceTooLarge:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
