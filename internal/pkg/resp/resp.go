/*
Package resp writes JSON HTTP responses.

Most endpoints use the {code, message, data} envelope. The administrative commands keep the
bare bodies their clients already parse: an {"response": ...} acknowledgement or a raw object.
Responses are never cached since they report live hub state.
*/
package resp

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"rtcrelay/internal/pkg/errs"
)

// retryAfter is the Retry-After hint, in seconds, per throttling status.
var retryAfter = map[int]int{
	http.StatusTooManyRequests:    5,
	http.StatusServiceUnavailable: 1,
}

// JSONResponse is the standard response envelope.
type JSONResponse struct {
	// Code is 0 on success, otherwise an errs code.
	Code int `json:"code"`

	// Message is the client-facing status description.
	Message string `json:"message"`

	// Data is the optional response payload.
	Data any `json:"data,omitempty"`
}

// Ack acknowledges an administrative command.
type Ack struct {
	Response string `json:"response"`
}

func write(w http.ResponseWriter, r *http.Request, status int, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		// The request logger stores a request-scoped logger in the context.
		zerolog.Ctx(r.Context()).Error().
			Err(err).
			Int("http_status", status).
			Msg("Error encoding JSON response")

		http.Error(w, "Error encoding JSON response", http.StatusInternalServerError)
		return
	}

	h := w.Header()
	h.Set("Content-Type", "application/json")
	h.Set("X-Content-Type-Options", "nosniff")
	h.Set("Cache-Control", "no-store")

	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// RespondSuccess writes data inside the success envelope with HTTP 200.
func RespondSuccess(w http.ResponseWriter, r *http.Request, data any) {
	write(w, r, http.StatusOK, JSONResponse{Message: "success", Data: data})
}

// RespondError writes customErr inside the envelope using its HTTP status. Throttling statuses
// carry a Retry-After header.
func RespondError(w http.ResponseWriter, r *http.Request, customErr *errs.CustomError) {
	if customErr == nil {
		customErr = errs.NewError(errs.ErrUnknown)
	}

	if secs, ok := retryAfter[customErr.Status]; ok {
		w.Header().Set("Retry-After", strconv.Itoa(secs))
	}

	write(w, r, customErr.Status, JSONResponse{
		Code:    customErr.Code,
		Message: customErr.Message,
	})
}

// RespondAck writes {"response": text} with status.
func RespondAck(w http.ResponseWriter, r *http.Request, status int, text string) {
	write(w, r, status, Ack{Response: text})
}

// RespondRaw writes payload without the envelope.
func RespondRaw(w http.ResponseWriter, r *http.Request, status int, payload any) {
	write(w, r, status, payload)
}
