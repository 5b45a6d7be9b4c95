package resp

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"rtcrelay/internal/pkg/errs"
)

func TestRespondSuccessEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)

	RespondSuccess(rec, req, map[string]string{"status": "ok"})

	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d, want %d", rec.Code, http.StatusOK)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("Content-Type=%q", ct)
	}

	var body struct {
		Code    int               `json:"code"`
		Message string            `json:"message"`
		Data    map[string]string `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body.Code != 0 || body.Message != "success" || body.Data["status"] != "ok" {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestRespondErrorUsesStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ws", nil)

	RespondError(rec, req, errs.NewError(errs.ErrRateLimitExceeded))

	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status=%d, want %d", rec.Code, http.StatusTooManyRequests)
	}

	var body JSONResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body.Code != errs.ErrRateLimitExceeded {
		t.Fatalf("code=%d, want %d", body.Code, errs.ErrRateLimitExceeded)
	}
}

func TestRespondErrorNil(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	RespondError(rec, req, nil)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status=%d, want %d", rec.Code, http.StatusInternalServerError)
	}
}

func TestRespondErrorRetryAfter(t *testing.T) {
	tests := []struct {
		code int
		want string
	}{
		{errs.ErrRateLimitExceeded, "5"},
		{errs.ErrServerShuttingDown, "1"},
		{errs.ErrNotFound, ""},
	}

	for _, tt := range tests {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/clear-messages", nil)

		RespondError(rec, req, errs.NewError(tt.code))

		if got := rec.Header().Get("Retry-After"); got != tt.want {
			t.Fatalf("code %d: Retry-After=%q, want %q", tt.code, got, tt.want)
		}
	}
}

func TestRespondAck(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/clear-messages", nil)

	RespondAck(rec, req, http.StatusAccepted, "messages cleared")

	if rec.Code != http.StatusAccepted {
		t.Fatalf("status=%d, want %d", rec.Code, http.StatusAccepted)
	}
	if got := rec.Body.String(); got != `{"response":"messages cleared"}` {
		t.Fatalf("body=%s", got)
	}
	if cc := rec.Header().Get("Cache-Control"); cc != "no-store" {
		t.Fatalf("Cache-Control=%q, want no-store", cc)
	}
}

func TestRespondRawUnwrapped(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/debug", nil)

	RespondRaw(rec, req, http.StatusOK, map[string]int{"users": 2})

	if got := rec.Body.String(); got != `{"users":2}` {
		t.Fatalf("body=%s", got)
	}
}

func TestRespondUnencodable(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/debug", nil)

	RespondRaw(rec, req, http.StatusOK, map[string]any{"bad": make(chan int)})

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status=%d, want %d", rec.Code, http.StatusInternalServerError)
	}
}
