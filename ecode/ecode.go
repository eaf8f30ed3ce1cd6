// Package ecode defines the business error codes returned in API responses.
//
// Codes follow a standardized numbering scheme:
//   - 0: Success (OK)
//   - -1 to -99: Application-level errors
//   - -100 to -199: Authentication/authorization errors
//   - -400 to -499: Request validation errors
//   - -500+: Server errors
//
// Retrieve human-readable messages with Text, map codes to HTTP statuses
// with ToHTTPStatus, and register application-specific codes with Register:
//
//	const OrderExpired = -1002
//	ecode.Register(OrderExpired, "Order has expired")
package ecode

import (
	"net/http"
	"sync"
)

const (
	OK           = 0
	AppErr       = -1
	SignCheckErr = -3 // Signature verification failed

	Unauthorized = -101
	AccessDenied = -403

	RequestErr = -400
	ParamErr   = -401
	CursorErr  = -402 // Pagination cursor invalid or tampered
	NotFound   = -404
	Conflict   = -409

	ServerErr          = -500
	ServiceUnavailable = -503
	Deadline           = -504
)

var (
	messagesMu sync.RWMutex
	messages   = map[int]string{
		OK:                 "success",
		AppErr:             "Application error",
		SignCheckErr:       "Signature verification failed",
		Unauthorized:       "Account not logged in",
		AccessDenied:       "Access denied",
		RequestErr:         "Invalid request",
		ParamErr:           "Invalid parameters",
		CursorErr:          "Invalid pagination cursor",
		NotFound:           "Resource not found",
		Conflict:           "Resource conflict",
		ServerErr:          "Internal server error",
		ServiceUnavailable: "Service unavailable",
		Deadline:           "Deadline exceeded",
	}
)

// Text returns the human-readable message for a code.
func Text(code int) string {
	messagesMu.RLock()
	defer messagesMu.RUnlock()
	if msg, ok := messages[code]; ok {
		return msg
	}
	return messages[ServerErr]
}

// Register adds or overrides the message for an application-specific code.
func Register(code int, message string) {
	messagesMu.Lock()
	defer messagesMu.Unlock()
	messages[code] = message
}

// ToHTTPStatus maps a business code to the HTTP status it travels with.
func ToHTTPStatus(code int) int {
	switch code {
	case OK:
		return http.StatusOK
	case Unauthorized:
		return http.StatusUnauthorized
	case AccessDenied:
		return http.StatusForbidden
	case NotFound:
		return http.StatusNotFound
	case Conflict:
		return http.StatusConflict
	case RequestErr, ParamErr, CursorErr, SignCheckErr:
		return http.StatusBadRequest
	case ServiceUnavailable:
		return http.StatusServiceUnavailable
	case Deadline:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
