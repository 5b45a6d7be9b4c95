package handler

import (
	"net/http"
	"time"

	"rtcrelay/internal/pkg/errs"
	"rtcrelay/internal/pkg/logx"
	"rtcrelay/internal/pkg/resp"
)

// HandleHealth reports liveness in the standard envelope.
func HandleHealth(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data := map[string]string{
			"status":  "ok",
			"service": "rtc-relay",
		}

		if deps.Credentials != nil {
			data["relayProvider"] = deps.Credentials.Provider()
			data["credentialsFetchedAt"] = deps.Credentials.FetchedAt().UTC().Format(time.RFC3339)
		}

		resp.RespondSuccess(w, r, data)
	}
}

// HandleClearMessages empties the server-side chat history.
func HandleClearMessages(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := deps.Hub.ClearMessages(); err != nil {
			logx.Error(err, "Failed to clear messages")
			resp.RespondError(w, r, errs.NewError(errs.ErrServerShuttingDown))
			return
		}

		logx.Info("Message history cleared via admin endpoint.")
		resp.RespondAck(w, r, http.StatusAccepted, "messages cleared")
	}
}

// HandleDebug returns the raw hub counts, outside the standard envelope.
func HandleDebug(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := deps.Hub.Stats()
		if err != nil {
			logx.Error(err, "Failed to read hub stats")
			resp.RespondError(w, r, errs.NewError(errs.ErrServerShuttingDown))
			return
		}

		resp.RespondRaw(w, r, http.StatusOK, stats)
	}
}
