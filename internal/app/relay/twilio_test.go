package relay

import (
	"context"
	"errors"
	"testing"
	"time"

	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

type fakeTokenCreator struct {
	token  *openapi.ApiV2010Token
	err    error
	params *openapi.CreateTokenParams
	block  chan struct{}
}

func (f *fakeTokenCreator) CreateToken(params *openapi.CreateTokenParams) (*openapi.ApiV2010Token, error) {
	f.params = params
	if f.block != nil {
		<-f.block
	}
	return f.token, f.err
}

func TestTwilioProviderConvertsServers(t *testing.T) {
	servers := []openapi.ApiV2010AccountTokenIceServers{
		{Url: "stun:global.stun.twilio.com:3478", Urls: "stun:global.stun.twilio.com:3478"},
		{Urls: "turn:global.turn.twilio.com:3478?transport=udp", Username: "user", Credential: "pass"},
		{},
	}
	fake := &fakeTokenCreator{token: &openapi.ApiV2010Token{IceServers: &servers}}
	p := &twilioProvider{api: fake, ttl: 3600}

	got, err := p.ICEServers(context.Background())
	if err != nil {
		t.Fatalf("ICEServers: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len=%d, want 2 (empty entry skipped)", len(got))
	}
	if got[1].Username != "user" || got[1].Credential != "pass" {
		t.Fatalf("turn server=%+v", got[1])
	}
	if fake.params == nil || fake.params.Ttl == nil || *fake.params.Ttl != 3600 {
		t.Fatalf("ttl not forwarded: %+v", fake.params)
	}
}

func TestTwilioProviderErrors(t *testing.T) {
	boom := errors.New("401 unauthorized")
	p := &twilioProvider{api: &fakeTokenCreator{err: boom}}
	if _, err := p.ICEServers(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("err=%v, want boom", err)
	}

	p = &twilioProvider{api: &fakeTokenCreator{token: &openapi.ApiV2010Token{}}}
	if _, err := p.ICEServers(context.Background()); !errors.Is(err, ErrNoICEServers) {
		t.Fatalf("err=%v, want ErrNoICEServers", err)
	}
}

func TestTwilioProviderHonorsContext(t *testing.T) {
	block := make(chan struct{})
	defer close(block)

	p := &twilioProvider{api: &fakeTokenCreator{block: block}}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if _, err := p.ICEServers(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err=%v, want DeadlineExceeded", err)
	}
}
