package handler

import (
	"rtcrelay/internal/app/chat"
	"rtcrelay/internal/app/relay"
	"rtcrelay/internal/configs"
	"rtcrelay/internal/pkg/metrics"
)

// AppDeps bundles what the HTTP layer needs. Metrics may be nil.
type AppDeps struct {
	Hub         *chat.Hub
	Config      *configs.AppConfig
	Credentials *relay.Credentials
	Metrics     *metrics.Metrics
}
