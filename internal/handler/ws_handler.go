/*
Package handler provides the HTTP handler function for WebSocket connection upgrading.

HandleWebSocket rate limits and origin-checks the handshake, upgrades the connection, and hands
the new client to the hub. The request goroutine then runs the client's read pump until the
connection ends.
*/
package handler

import (
	"net/http"

	"github.com/gorilla/websocket"

	"rtcrelay/internal/app/chat"
	"rtcrelay/internal/pkg/errs"
	"rtcrelay/internal/pkg/limiter"
	"rtcrelay/internal/pkg/logx"
	"rtcrelay/internal/pkg/resp"
)

// HandleWebSocket creates an HTTP HandlerFunc to process WebSocket connection requests.
func HandleWebSocket(deps *AppDeps, upgrader websocket.Upgrader, origins *originPolicy, rateLimiter *limiter.IPRateLimiter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip := limiter.ClientIP(r)

		if !rateLimiter.Allow(ip) {
			logx.Warn("WebSocket connection rejected: Rate limit exceeded.", "ip", ip)
			resp.RespondError(w, r, errs.NewError(errs.ErrRateLimitExceeded))
			return
		}

		if !origins.allowed(r) {
			origin := r.Header.Get("Origin")
			logx.Warn("WebSocket connection rejected: Origin not allowed.", "origin", origin)
			resp.RespondError(w, r, errs.NewError(errs.ErrOriginNotAllowed, origin))
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			// upgradeError has already answered.
			return
		}

		client := chat.NewClient(deps.Hub, conn, deps.Config.PingTimeout)

		if err := deps.Hub.Register(client); err != nil {
			logx.Warn("WebSocket connection dropped: hub not accepting clients.", "endpoint_id", client.ID())
			closeMsg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down")
			_ = conn.WriteMessage(websocket.CloseMessage, closeMsg)
			_ = conn.Close()
			return
		}

		go client.WritePump()

		logx.Debug("WebSocket connection established", "endpoint_id", client.ID())

		client.ReadPump()
	}
}

// upgradeError replaces the upgrader's plain-text failure with the errs envelope, keeping the
// status it chose.
func upgradeError(w http.ResponseWriter, r *http.Request, status int, reason error) {
	logx.Warn("WebSocket upgrade failed.", "status", status, "reason", reason.Error())

	e := errs.NewError(errs.ErrUpgradeFailed, reason.Error())
	e.Status = status
	resp.RespondError(w, r, e)
}
