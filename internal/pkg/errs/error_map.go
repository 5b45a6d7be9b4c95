/*
Package errs provides the application error type and its code constants.

This file maps every code to its client-facing message and HTTP status.
*/
package errs

import "net/http"

// errorMap holds the CustomError template for every known code.
// A zero Status is resolved to 400 Bad Request by NewError.
var errorMap = map[int]CustomError{
	// 1xxx: General Request Handling Errors
	ErrRateLimitExceeded: {Code: ErrRateLimitExceeded, Message: "Too many requests. Please try again later.", Status: http.StatusTooManyRequests},
	ErrNotFound:          {Code: ErrNotFound, Message: "Resource not found.", Status: http.StatusNotFound},
	ErrMethodNotAllowed:  {Code: ErrMethodNotAllowed, Message: "Method not allowed.", Status: http.StatusMethodNotAllowed},

	// 4xxx: Realtime Transport Errors
	ErrOriginNotAllowed:   {Code: ErrOriginNotAllowed, Message: "Origin %s is not allowed.", Status: http.StatusForbidden},
	ErrUpgradeFailed:      {Code: ErrUpgradeFailed, Message: "WebSocket upgrade failed: %s."},
	ErrServerShuttingDown: {Code: ErrServerShuttingDown, Message: "Server is shutting down.", Status: http.StatusServiceUnavailable},

	// 5xxx: Internal System Errors
	ErrUnknown: {Code: ErrUnknown, Message: "Something went wrong. Please try again.", Status: http.StatusInternalServerError},
}
