package handler

import (
	"net/http"

	"rtcrelay/internal/configs"
)

// originPolicy decides which browser origins may open a WebSocket.
type originPolicy struct {
	allowAll bool
	origins  map[string]struct{}
}

func newOriginPolicy(cfg *configs.AppConfig) *originPolicy {
	p := &originPolicy{
		allowAll: cfg.IsDevelopment(),
		origins:  make(map[string]struct{}, len(cfg.AllowedOrigins)),
	}
	for _, origin := range cfg.AllowedOrigins {
		p.origins[origin] = struct{}{}
	}
	return p
}

// allowed has the websocket.Upgrader CheckOrigin signature. Non-browser clients send no Origin
// header and are accepted.
func (p *originPolicy) allowed(r *http.Request) bool {
	if p.allowAll {
		return true
	}

	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}

	_, ok := p.origins[origin]
	return ok
}
