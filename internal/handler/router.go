/*
Package handler provides the HTTP surface of the relay server.

This file defines the main Router, applying logging, CORS and IP-based rate limiting before
delegating to the WebSocket and administrative handlers.
*/
package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/rs/cors"
	"golang.org/x/time/rate"

	"rtcrelay/internal/pkg/errs"
	"rtcrelay/internal/pkg/limiter"
	"rtcrelay/internal/pkg/logx"
	"rtcrelay/internal/pkg/resp"
)

const (
	JoinRate   = 0.2
	JoinBurst  = 5
	AdminRate  = 0.1
	AdminBurst = 3
)

// Router sets up the routing table. ctx bounds the background sweeps of the rate limiters.
func Router(ctx context.Context, deps *AppDeps) http.Handler {
	joinLimiter := limiter.NewIPRateLimiter(ctx, rate.Limit(JoinRate), JoinBurst)
	adminLimiter := limiter.NewIPRateLimiter(ctx, rate.Limit(AdminRate), AdminBurst)

	r := chi.NewRouter()

	origins := newOriginPolicy(deps.Config)

	wsUpgrader := websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin:     origins.allowed,
		Error:           upgradeError,
	}

	corsAllowedOrigins := []string{}
	if deps.Config.IsDevelopment() {
		corsAllowedOrigins = []string{"*"}
	} else if len(deps.Config.AllowedOrigins) > 0 {
		corsAllowedOrigins = deps.Config.AllowedOrigins
	}

	c := cors.New(cors.Options{
		AllowedOrigins: corsAllowedOrigins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	})
	r.Use(c.Handler)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logx.RequestLogger())
	r.Use(middleware.Recoverer)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		resp.RespondError(w, r, errs.NewError(errs.ErrNotFound))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		resp.RespondError(w, r, errs.NewError(errs.ErrMethodNotAllowed))
	})

	r.Get("/health", HandleHealth(deps))
	r.Get("/debug", HandleDebug(deps))
	r.With(adminLimiter.Middleware).Get("/clear-messages", HandleClearMessages(deps))

	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics.Handler())
	}

	r.Get("/ws", HandleWebSocket(deps, wsUpgrader, origins, joinLimiter))

	return r
}
