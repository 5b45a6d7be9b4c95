/*
Package randx generates identifiers and random tokens.

Endpoint ids are UUIDv4 strings assigned by the server per WebSocket connection; a reconnect
always yields a fresh id. Session tokens feed TURN REST usernames.
*/
package randx

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"
)

// EndpointID returns a new opaque identifier for one live connection.
func EndpointID() string {
	return uuid.NewString()
}

// SessionToken returns n random bytes hex-encoded.
func SessionToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to read random bytes for session token: %w", err)
	}
	return hex.EncodeToString(b), nil
}
