/*
Package main is the entry point for the rtc-relay signaling server.

It loads configuration, initializes the global logger, fetches the relay (STUN/TURN)
credentials once, starts the signaling hub and the HTTP server, and shuts both down gracefully
on SIGINT or SIGTERM.
*/
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rtcrelay/internal/app/chat"
	"rtcrelay/internal/app/relay"
	"rtcrelay/internal/configs"
	"rtcrelay/internal/handler"
	"rtcrelay/internal/pkg/logx"
	"rtcrelay/internal/pkg/metrics"
)

const (
	credentialFetchTimeout = 15 * time.Second
	shutdownTimeout        = 5 * time.Second
)

func main() {
	// Load configuration from environment variables
	cfg, err := configs.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logx.InitGlobalLogger(cfg.IsDevelopment())
	logx.Logger().Info().
		Str("environment", cfg.Environment).
		Int("port", cfg.Port).
		Strs("allowed_origins", cfg.AllowedOrigins).
		Str("relay_provider", cfg.RelayProvider).
		Dur("ping_timeout", cfg.PingTimeout).
		Msg("Configuration loaded successfully")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	provider, err := relay.NewProvider(cfg)
	if err != nil {
		logx.Fatal(err, "Invalid relay provider configuration")
	}

	fetchCtx, cancelFetch := context.WithTimeout(ctx, credentialFetchTimeout)
	creds, err := relay.Bootstrap(fetchCtx, provider)
	cancelFetch()
	if err != nil {
		logx.Fatal(err, "Failed to obtain relay credentials", "provider", provider.Name())
	}

	m := metrics.New()

	hub := chat.NewHub(creds, m)
	go hub.Run()

	router := handler.Router(ctx, &handler.AppDeps{
		Hub:         hub,
		Config:      cfg,
		Credentials: creds,
		Metrics:     m,
	})

	serverAddr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{
		Addr:              serverAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		logx.Info("Signaling server starting", "addr", serverAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logx.Fatal(err, "Server failed to start")
		}
	}()

	<-ctx.Done()
	logx.Info("Received shutdown signal. Starting graceful shutdown...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()

	// Hijacked WebSocket connections are not tracked by Shutdown; the hub closes them.
	if err := server.Shutdown(shutdownCtx); err != nil {
		logx.Error(err, "Server forced to shutdown")
	}

	hub.Shutdown()

	logx.Info("Server gracefully stopped.")
}
