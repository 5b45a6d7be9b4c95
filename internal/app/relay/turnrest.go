package relay

import (
	"context"
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pion/webrtc/v4"

	"rtcrelay/internal/configs"
	"rtcrelay/internal/pkg/randx"
)

// turnRESTProvider issues coturn-compatible TURN REST credentials (use-auth-secret mode):
//
//	username   = <unix_expiry>:<prefix>:<random>
//	credential = base64(hmac_sha1(shared_secret, username))
type turnRESTProvider struct {
	sharedSecret   []byte
	turnURLs       []string
	stunURLs       []string
	ttlSeconds     int64
	usernamePrefix string

	now       func() time.Time
	sessionID func() (string, error)
}

// NewTURNRESTProvider validates cfg and returns a provider that signs credentials locally.
func NewTURNRESTProvider(cfg configs.TURNConfig) (Provider, error) {
	if cfg.SharedSecret == "" {
		return nil, errors.New("shared secret is required")
	}
	if cfg.TTLSeconds <= 0 {
		return nil, errors.New("TTLSeconds must be > 0")
	}
	if cfg.UsernamePrefix == "" {
		return nil, errors.New("UsernamePrefix is required")
	}
	if strings.Contains(cfg.UsernamePrefix, ":") {
		return nil, errors.New("UsernamePrefix must not contain ':'")
	}
	if len(cfg.URLs) == 0 {
		return nil, errors.New("at least one TURN url is required")
	}
	for _, url := range cfg.URLs {
		if !isTURNURL(url) {
			return nil, fmt.Errorf("not a turn url: %q", url)
		}
	}

	return &turnRESTProvider{
		sharedSecret:   []byte(cfg.SharedSecret),
		turnURLs:       cfg.URLs,
		stunURLs:       cfg.STUNURLs,
		ttlSeconds:     cfg.TTLSeconds,
		usernamePrefix: cfg.UsernamePrefix,
		now:            time.Now,
		sessionID:      func() (string, error) { return randx.SessionToken(16) },
	}, nil
}

func (p *turnRESTProvider) Name() string { return "turnrest" }

func (p *turnRESTProvider) ICEServers(ctx context.Context) ([]webrtc.ICEServer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sessionID, err := p.sessionID()
	if err != nil {
		return nil, err
	}

	expiryUnix := p.now().UTC().Unix() + p.ttlSeconds
	username := fmt.Sprintf("%d:%s:%s", expiryUnix, p.usernamePrefix, sessionID)

	var servers []webrtc.ICEServer
	if len(p.stunURLs) > 0 {
		servers = append(servers, webrtc.ICEServer{URLs: p.stunURLs})
	}
	servers = append(servers, webrtc.ICEServer{
		URLs:           p.turnURLs,
		Username:       username,
		Credential:     signUsername(p.sharedSecret, username),
		CredentialType: webrtc.ICECredentialTypePassword,
	})

	return servers, nil
}

func signUsername(sharedSecret []byte, username string) string {
	mac := hmac.New(sha1.New, sharedSecret)
	_, _ = mac.Write([]byte(username))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}
