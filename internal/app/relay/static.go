package relay

import (
	"context"
	"fmt"

	"github.com/pion/webrtc/v4"
)

// staticProvider serves a fixed, operator-supplied list. Useful for self-hosted STUN/TURN
// with long-lived credentials and for local development.
type staticProvider struct {
	servers []webrtc.ICEServer
}

// NewStaticProvider parses raw (ICE_SERVERS_JSON) eagerly so configuration errors surface at startup.
func NewStaticProvider(raw string) (Provider, error) {
	servers, err := ParseICEServersJSON(raw)
	if err != nil {
		return nil, fmt.Errorf("ICE_SERVERS_JSON: %w", err)
	}
	return &staticProvider{servers: servers}, nil
}

func (p *staticProvider) Name() string { return "static" }

func (p *staticProvider) ICEServers(ctx context.Context) ([]webrtc.ICEServer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return p.servers, nil
}
