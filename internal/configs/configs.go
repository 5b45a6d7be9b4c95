/*
Package configs loads the server configuration from environment variables.

Values are read once at startup: listening port, allowed browser origins, transport heartbeat,
and the settings of the relay-credential provider whose ICE servers are handed to every client.
*/
package configs

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Relay credential providers.
const (
	RelayProviderTwilio   = "twilio"
	RelayProviderTURNREST = "turnrest"
	RelayProviderStatic   = "static"
)

const (
	defaultPort               = 4001
	defaultPingTimeout        = 60 * time.Second
	defaultTURNTTLSeconds     = 24 * 60 * 60
	defaultTURNUsernamePrefix = "rtcrelay"
	minPingTimeout            = 5 * time.Second
	developmentEnvironment    = "development"
	developmentDefaultOrigin  = "http://localhost:5173"
)

// AppConfig contains all configuration parameters required for the application to run.
type AppConfig struct {
	// General Server Settings
	Environment string
	Port        int

	// Transport Settings
	AllowedOrigins []string
	PingTimeout    time.Duration

	// Relay Credential Settings
	RelayProvider  string
	Twilio         TwilioConfig
	TURN           TURNConfig
	ICEServersJSON string
}

// TwilioConfig holds the account used with the Twilio Network Traversal Service.
type TwilioConfig struct {
	AccountSID string
	AuthToken  string

	// TokenTTL is the credential lifetime in seconds; 0 keeps Twilio's default.
	TokenTTL int
}

// TURNConfig holds coturn-style TURN REST settings.
type TURNConfig struct {
	SharedSecret   string
	URLs           []string
	STUNURLs       []string
	TTLSeconds     int64
	UsernamePrefix string
}

// IsDevelopment reports whether the server runs in development mode.
func (c *AppConfig) IsDevelopment() bool {
	return c.Environment == developmentEnvironment
}

// LoadConfig reads the configuration from the process environment.
func LoadConfig() (*AppConfig, error) {
	return load(os.Getenv)
}

func load(getenv func(string) string) (*AppConfig, error) {
	cfg := &AppConfig{}

	// --- General Server Settings ---
	cfg.Environment = strings.TrimSpace(getenv("ENVIRONMENT"))
	if cfg.Environment == "" {
		cfg.Environment = developmentEnvironment
	}

	port, err := intFromEnv(getenv, "PORT", defaultPort)
	if err != nil {
		return nil, err
	}
	if port < 1024 || port > 65535 {
		return nil, fmt.Errorf("port number %d is outside the allowed range (%d-%d)", port, 1024, 65535)
	}
	cfg.Port = port

	// --- Transport Settings ---
	cfg.AllowedOrigins = splitList(getenv("ALLOWED_ORIGINS"))
	if len(cfg.AllowedOrigins) == 0 {
		if !cfg.IsDevelopment() {
			return nil, fmt.Errorf("ALLOWED_ORIGINS environment variable is required in %s environment", cfg.Environment)
		}
		cfg.AllowedOrigins = []string{developmentDefaultOrigin}
	}

	cfg.PingTimeout = defaultPingTimeout
	if raw := strings.TrimSpace(getenv("PING_TIMEOUT")); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid PING_TIMEOUT environment variable: %w", err)
		}
		if d < minPingTimeout {
			return nil, fmt.Errorf("PING_TIMEOUT %s is below the minimum of %s", d, minPingTimeout)
		}
		cfg.PingTimeout = d
	}

	// --- Relay Credential Settings ---
	cfg.RelayProvider = strings.ToLower(strings.TrimSpace(getenv("RELAY_PROVIDER")))
	if cfg.RelayProvider == "" {
		cfg.RelayProvider = RelayProviderTwilio
	}

	switch cfg.RelayProvider {
	case RelayProviderTwilio:
		cfg.Twilio.AccountSID = strings.TrimSpace(getenv("TWILIO_SSID"))
		cfg.Twilio.AuthToken = strings.TrimSpace(getenv("TWILIO_TOKEN"))
		if cfg.Twilio.AccountSID == "" || cfg.Twilio.AuthToken == "" {
			return nil, fmt.Errorf("TWILIO_SSID and TWILIO_TOKEN environment variables are required for the %s relay provider", RelayProviderTwilio)
		}
		ttl, err := intFromEnv(getenv, "TWILIO_TOKEN_TTL", 0)
		if err != nil {
			return nil, err
		}
		if ttl < 0 {
			return nil, fmt.Errorf("TWILIO_TOKEN_TTL must not be negative")
		}
		cfg.Twilio.TokenTTL = ttl

	case RelayProviderTURNREST:
		cfg.TURN.SharedSecret = getenv("TURN_SHARED_SECRET")
		if cfg.TURN.SharedSecret == "" {
			return nil, fmt.Errorf("TURN_SHARED_SECRET environment variable is required for the %s relay provider", RelayProviderTURNREST)
		}
		cfg.TURN.URLs = splitList(getenv("TURN_URLS"))
		if len(cfg.TURN.URLs) == 0 {
			return nil, fmt.Errorf("TURN_URLS environment variable is required for the %s relay provider", RelayProviderTURNREST)
		}
		cfg.TURN.STUNURLs = splitList(getenv("STUN_URLS"))
		ttl, err := intFromEnv(getenv, "TURN_TTL_SECONDS", defaultTURNTTLSeconds)
		if err != nil {
			return nil, err
		}
		if ttl <= 0 {
			return nil, fmt.Errorf("TURN_TTL_SECONDS must be > 0")
		}
		cfg.TURN.TTLSeconds = int64(ttl)
		cfg.TURN.UsernamePrefix = strings.TrimSpace(getenv("TURN_USERNAME_PREFIX"))
		if cfg.TURN.UsernamePrefix == "" {
			cfg.TURN.UsernamePrefix = defaultTURNUsernamePrefix
		}

	case RelayProviderStatic:
		cfg.ICEServersJSON = strings.TrimSpace(getenv("ICE_SERVERS_JSON"))
		if cfg.ICEServersJSON == "" {
			return nil, fmt.Errorf("ICE_SERVERS_JSON environment variable is required for the %s relay provider", RelayProviderStatic)
		}

	default:
		return nil, fmt.Errorf("unsupported RELAY_PROVIDER %q (want %s, %s or %s)",
			cfg.RelayProvider, RelayProviderTwilio, RelayProviderTURNREST, RelayProviderStatic)
	}

	return cfg, nil
}

func intFromEnv(getenv func(string) string, key string, def int) (int, error) {
	raw := strings.TrimSpace(getenv(key))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s environment variable: %w", key, err)
	}
	return v, nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
