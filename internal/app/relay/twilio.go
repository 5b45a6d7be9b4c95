package relay

import (
	"context"
	"strings"

	"github.com/pion/webrtc/v4"
	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"

	"rtcrelay/internal/configs"
)

// tokenCreator is the slice of the Twilio REST API used here.
type tokenCreator interface {
	CreateToken(params *openapi.CreateTokenParams) (*openapi.ApiV2010Token, error)
}

// twilioProvider fetches Network Traversal Service tokens.
type twilioProvider struct {
	api tokenCreator
	ttl int
}

// NewTwilioProvider builds a provider backed by the Twilio REST client.
func NewTwilioProvider(cfg configs.TwilioConfig) Provider {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.AccountSID,
		Password: cfg.AuthToken,
	})

	return &twilioProvider{api: client.Api, ttl: cfg.TokenTTL}
}

func (p *twilioProvider) Name() string { return "twilio" }

type tokenResult struct {
	token *openapi.ApiV2010Token
	err   error
}

// ICEServers calls the Tokens endpoint. The SDK call takes no context, so cancellation only
// stops the wait; the request itself is bounded by the SDK's HTTP client.
func (p *twilioProvider) ICEServers(ctx context.Context) ([]webrtc.ICEServer, error) {
	params := &openapi.CreateTokenParams{}
	if p.ttl > 0 {
		params.SetTtl(p.ttl)
	}

	done := make(chan tokenResult, 1)
	go func() {
		token, err := p.api.CreateToken(params)
		done <- tokenResult{token: token, err: err}
	}()

	var res tokenResult
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res = <-done:
	}

	if res.err != nil {
		return nil, res.err
	}
	if res.token == nil || res.token.IceServers == nil {
		return nil, ErrNoICEServers
	}

	return convertTwilioServers(*res.token.IceServers), nil
}

func convertTwilioServers(in []openapi.ApiV2010AccountTokenIceServers) []webrtc.ICEServer {
	out := make([]webrtc.ICEServer, 0, len(in))
	for _, s := range in {
		url := strings.TrimSpace(s.Urls)
		if url == "" {
			url = strings.TrimSpace(s.Url)
		}
		if url == "" {
			continue
		}

		server := webrtc.ICEServer{
			URLs:           []string{url},
			Username:       s.Username,
			CredentialType: webrtc.ICECredentialTypePassword,
		}
		if s.Credential != "" {
			server.Credential = s.Credential
		}
		out = append(out, server)
	}
	return out
}
