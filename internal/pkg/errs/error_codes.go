/*
Package errs provides the application error type and its code constants.

Codes identify HTTP-facing failures in logs and in the JSON envelope returned by the
administrative and upgrade endpoints. The WebSocket protocol itself defines no error events.
*/
package errs

// 1xxx: General Request Handling Errors
const (
	// ErrRateLimitExceeded indicates that the request rate has exceeded the set limit.
	ErrRateLimitExceeded = 1007

	// ErrNotFound indicates that no route matched the request.
	ErrNotFound = 1008

	// ErrMethodNotAllowed indicates that the route exists but not for this method.
	ErrMethodNotAllowed = 1009
)

// 4xxx: Realtime Transport Errors
const (
	// ErrOriginNotAllowed indicates the WebSocket handshake came from an origin outside ALLOWED_ORIGINS.
	ErrOriginNotAllowed = 4001

	// ErrUpgradeFailed indicates the HTTP connection could not be upgraded to WebSocket.
	ErrUpgradeFailed = 4002

	// ErrServerShuttingDown indicates the hub no longer accepts connections.
	ErrServerShuttingDown = 4003
)

// 5xxx: Internal System Errors
const (
	// ErrUnknown represents an unclassified, general server internal error.
	ErrUnknown = 5000
)
