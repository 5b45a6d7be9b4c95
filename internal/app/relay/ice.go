package relay

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/pion/stun/v3"
	"github.com/pion/webrtc/v4"
)

// staticServer is one entry of ICE_SERVERS_JSON, shaped like the browser RTCIceServer.
type staticServer struct {
	URLs       urlList `json:"urls"`
	Username   string  `json:"username,omitempty"`
	Credential string  `json:"credential,omitempty"`
}

// urlList decodes "urls" given either as one string or as an array.
type urlList []string

func (l *urlList) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var one string
		if err := json.Unmarshal(b, &one); err != nil {
			return err
		}
		*l = urlList{one}
		return nil
	}

	var many []string
	if err := json.Unmarshal(b, &many); err != nil {
		return err
	}
	*l = many
	return nil
}

// ParseICEServersJSON decodes and validates a static ICE server list.
func ParseICEServersJSON(raw string) ([]webrtc.ICEServer, error) {
	var entries []staticServer
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, err
	}

	servers := make([]webrtc.ICEServer, 0, len(entries))
	for i, e := range entries {
		s := webrtc.ICEServer{
			URLs:           compactURLs(e.URLs),
			Username:       strings.TrimSpace(e.Username),
			CredentialType: webrtc.ICECredentialTypePassword,
		}
		if cred := strings.TrimSpace(e.Credential); cred != "" {
			s.Credential = cred
		}

		if err := validateICEServer(s); err != nil {
			return nil, fmt.Errorf("iceServers[%d]: %w", i, err)
		}
		servers = append(servers, s)
	}
	return servers, nil
}

func compactURLs(urls []string) []string {
	out := urls[:0:0]
	for _, u := range urls {
		if u = strings.TrimSpace(u); u != "" {
			out = append(out, u)
		}
	}
	return out
}

// validateICEServer parses every URL with the STUN/TURN URI grammar and requires a username
// and password credential when any of them is a TURN relay.
func validateICEServer(s webrtc.ICEServer) error {
	if len(s.URLs) == 0 {
		return errors.New("missing urls")
	}

	relayed := false
	for _, raw := range s.URLs {
		uri, err := stun.ParseURI(strings.TrimSpace(raw))
		if err != nil {
			return fmt.Errorf("unsupported url %q: %w", raw, err)
		}
		if isRelayScheme(uri.Scheme) {
			relayed = true
		}
	}
	if !relayed {
		return nil
	}

	if strings.TrimSpace(s.Username) == "" {
		return errors.New("turn urls require username")
	}
	if cred, ok := s.Credential.(string); !ok || strings.TrimSpace(cred) == "" {
		return errors.New("turn urls require credential")
	}
	return nil
}

func isRelayScheme(scheme stun.SchemeType) bool {
	return scheme == stun.SchemeTypeTURN || scheme == stun.SchemeTypeTURNS
}

// isTURNURL reports whether raw parses as a turn: or turns: URI.
func isTURNURL(raw string) bool {
	uri, err := stun.ParseURI(strings.TrimSpace(raw))
	return err == nil && isRelayScheme(uri.Scheme)
}
