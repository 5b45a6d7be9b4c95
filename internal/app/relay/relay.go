/*
Package relay obtains the NAT traversal (STUN/TURN) servers handed to every client.

Credentials are fetched exactly once, before the HTTP listener starts, through one of several
providers. The resulting Credentials value is immutable and shared read-only by every
connection; a failed fetch aborts startup.
*/
package relay

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pion/webrtc/v4"

	"rtcrelay/internal/configs"
	"rtcrelay/internal/pkg/logx"
)

// ErrNoICEServers is returned when a provider answers with an empty server list.
var ErrNoICEServers = errors.New("relay provider returned no ICE servers")

// Provider fetches a list of ICE servers with short-lived credentials.
type Provider interface {
	// Name identifies the provider in logs.
	Name() string

	// ICEServers performs the fetch. It is called once per process.
	ICEServers(ctx context.Context) ([]webrtc.ICEServer, error)
}

// Credentials is the immutable result of the startup fetch.
type Credentials struct {
	provider  string
	servers   []ICEServerView
	fetchedAt time.Time
}

// ICEServerView is the wire form of one ICE server, shaped like the browser RTCIceServer dictionary.
type ICEServerView struct {
	URLs       []string `json:"urls"`
	Username   string   `json:"username,omitempty"`
	Credential string   `json:"credential,omitempty"`
}

// Servers returns a copy of the ICE servers for one client snapshot.
func (c *Credentials) Servers() []ICEServerView {
	out := make([]ICEServerView, len(c.servers))
	for i, s := range c.servers {
		out[i] = ICEServerView{
			URLs:       append([]string(nil), s.URLs...),
			Username:   s.Username,
			Credential: s.Credential,
		}
	}
	return out
}

// Provider returns the name of the provider that issued the credentials.
func (c *Credentials) Provider() string {
	return c.provider
}

// FetchedAt returns when the credentials were obtained.
func (c *Credentials) FetchedAt() time.Time {
	return c.fetchedAt
}

// NewCredentials wraps an already validated server list. Used by tests and static setups.
func NewCredentials(provider string, servers []webrtc.ICEServer) (*Credentials, error) {
	if len(servers) == 0 {
		return nil, ErrNoICEServers
	}

	views := make([]ICEServerView, 0, len(servers))
	for i, s := range servers {
		if err := validateICEServer(s); err != nil {
			return nil, fmt.Errorf("iceServers[%d]: %w", i, err)
		}
		view := ICEServerView{
			URLs:     append([]string(nil), s.URLs...),
			Username: s.Username,
		}
		if cred, ok := s.Credential.(string); ok {
			view.Credential = cred
		}
		views = append(views, view)
	}

	return &Credentials{
		provider:  provider,
		servers:   views,
		fetchedAt: time.Now(),
	}, nil
}

// NewProvider builds the provider selected by cfg.RelayProvider.
func NewProvider(cfg *configs.AppConfig) (Provider, error) {
	switch cfg.RelayProvider {
	case configs.RelayProviderTwilio:
		return NewTwilioProvider(cfg.Twilio), nil
	case configs.RelayProviderTURNREST:
		return NewTURNRESTProvider(cfg.TURN)
	case configs.RelayProviderStatic:
		return NewStaticProvider(cfg.ICEServersJSON)
	default:
		return nil, fmt.Errorf("unsupported relay provider %q", cfg.RelayProvider)
	}
}

// Bootstrap fetches credentials from p once. Any error is meant to be fatal for the process.
func Bootstrap(ctx context.Context, p Provider) (*Credentials, error) {
	logger := logx.Component("relay")

	start := time.Now()
	servers, err := p.ICEServers(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch ICE servers from %s: %w", p.Name(), err)
	}

	creds, err := NewCredentials(p.Name(), servers)
	if err != nil {
		return nil, fmt.Errorf("validate ICE servers from %s: %w", p.Name(), err)
	}

	logger.Info().
		Str("provider", p.Name()).
		Int("ice_servers", len(servers)).
		Dur("latency", time.Since(start)).
		Msg("Relay credentials obtained.")

	return creds, nil
}
