package errs

import (
	"errors"
	"net/http"
	"testing"
)

func TestNewErrorDefaultsStatus(t *testing.T) {
	err := NewError(ErrUpgradeFailed, "missing Sec-WebSocket-Key")
	if err.Status != http.StatusBadRequest {
		t.Fatalf("Status=%d, want %d", err.Status, http.StatusBadRequest)
	}
	if err.Code != ErrUpgradeFailed {
		t.Fatalf("Code=%d, want %d", err.Code, ErrUpgradeFailed)
	}
	if err.Message != "WebSocket upgrade failed: missing Sec-WebSocket-Key." {
		t.Fatalf("Message=%q", err.Message)
	}
}

func TestNewErrorFormatsDetails(t *testing.T) {
	err := NewError(ErrOriginNotAllowed, "https://evil.example")
	if err.Message != "Origin https://evil.example is not allowed." {
		t.Fatalf("Message=%q", err.Message)
	}
	if err.Status != http.StatusForbidden {
		t.Fatalf("Status=%d, want %d", err.Status, http.StatusForbidden)
	}
}

func TestNewErrorUnknownCode(t *testing.T) {
	err := NewError(424242)
	if err.Code != ErrUnknown {
		t.Fatalf("Code=%d, want %d", err.Code, ErrUnknown)
	}
	if err.Status != http.StatusInternalServerError {
		t.Fatalf("Status=%d, want %d", err.Status, http.StatusInternalServerError)
	}
}

func TestCustomErrorUnwrapsWithAs(t *testing.T) {
	var wrapped error = NewError(ErrRateLimitExceeded)

	var customErr *CustomError
	if !errors.As(wrapped, &customErr) {
		t.Fatalf("errors.As failed for %T", wrapped)
	}
	if customErr.Status != http.StatusTooManyRequests {
		t.Fatalf("Status=%d, want %d", customErr.Status, http.StatusTooManyRequests)
	}
}
