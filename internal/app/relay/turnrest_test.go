package relay

import (
	"context"
	"strings"
	"testing"
	"time"

	"rtcrelay/internal/configs"
)

func newTestTURNProvider(t *testing.T) *turnRESTProvider {
	t.Helper()

	p, err := NewTURNRESTProvider(configs.TURNConfig{
		SharedSecret:   "north",
		URLs:           []string{"turn:turn.example:3478?transport=udp"},
		STUNURLs:       []string{"stun:stun.example:3478"},
		TTLSeconds:     3600,
		UsernamePrefix: "rtcrelay",
	})
	if err != nil {
		t.Fatalf("NewTURNRESTProvider: %v", err)
	}

	tp := p.(*turnRESTProvider)
	tp.now = func() time.Time { return time.Unix(1_700_000_000, 0) }
	tp.sessionID = func() (string, error) { return "abc", nil }
	return tp
}

func TestTURNRESTCredentials(t *testing.T) {
	p := newTestTURNProvider(t)

	servers, err := p.ICEServers(context.Background())
	if err != nil {
		t.Fatalf("ICEServers: %v", err)
	}
	if len(servers) != 2 {
		t.Fatalf("len=%d, want 2 (stun + turn)", len(servers))
	}
	if servers[0].Username != "" {
		t.Fatalf("stun entry must not carry credentials: %+v", servers[0])
	}

	turn := servers[1]
	if turn.Username != "1700003600:rtcrelay:abc" {
		t.Fatalf("Username=%q", turn.Username)
	}
	if got, want := turn.Credential, signUsername([]byte("north"), turn.Username); got != want {
		t.Fatalf("Credential=%v, want %v", got, want)
	}
	if err := validateICEServer(turn); err != nil {
		t.Fatalf("generated server invalid: %v", err)
	}
}

func TestSignUsernameIsStable(t *testing.T) {
	a := signUsername([]byte("secret"), "1:p:x")
	b := signUsername([]byte("secret"), "1:p:x")
	c := signUsername([]byte("other"), "1:p:x")
	if a != b {
		t.Fatalf("signature not deterministic: %q vs %q", a, b)
	}
	if a == c {
		t.Fatalf("different secrets produced the same signature")
	}
}

func TestNewTURNRESTProviderValidation(t *testing.T) {
	valid := configs.TURNConfig{
		SharedSecret:   "s",
		URLs:           []string{"turn:turn.example:3478"},
		TTLSeconds:     60,
		UsernamePrefix: "p",
	}

	cases := []struct {
		name    string
		mutate  func(*configs.TURNConfig)
		wantErr string
	}{
		{"no secret", func(c *configs.TURNConfig) { c.SharedSecret = "" }, "shared secret"},
		{"zero ttl", func(c *configs.TURNConfig) { c.TTLSeconds = 0 }, "TTLSeconds"},
		{"no prefix", func(c *configs.TURNConfig) { c.UsernamePrefix = "" }, "UsernamePrefix is required"},
		{"colon prefix", func(c *configs.TURNConfig) { c.UsernamePrefix = "a:b" }, "must not contain"},
		{"no urls", func(c *configs.TURNConfig) { c.URLs = nil }, "at least one"},
		{"stun in turn list", func(c *configs.TURNConfig) { c.URLs = []string{"stun:x"} }, "not a turn url"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid
			tc.mutate(&cfg)
			_, err := NewTURNRESTProvider(cfg)
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("err=%v, want containing %q", err, tc.wantErr)
			}
		})
	}
}
