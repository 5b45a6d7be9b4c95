package chat

import (
	"github.com/rs/zerolog"
)

// SignalRouter forwards offer, answer and candidate payloads to exactly one named endpoint.
// It keeps no state and never inspects the payload.
type SignalRouter struct {
	transport Transport
	recorder  Recorder
	logger    zerolog.Logger
}

// NewSignalRouter returns a router writing through t.
func NewSignalRouter(t Transport, rec Recorder, logger zerolog.Logger) *SignalRouter {
	return &SignalRouter{transport: t, recorder: rec, logger: logger}
}

// Relay delivers req.Payload from sender to req.Target and reports whether the frame was queued.
// Unknown targets and a target equal to the sender are dropped.
func (r *SignalRouter) Relay(kind EventName, sender string, req SignalRequest) bool {
	delivered := r.relay(kind, sender, req)
	r.recorder.SignalRelayed(string(kind), delivered)
	return delivered
}

func (r *SignalRouter) relay(kind EventName, sender string, req SignalRequest) bool {
	logger := r.logger.With().
		Str("signal", string(kind)).
		Str("from", sender).
		Str("target", req.Target).
		Logger()

	if req.Target == "" || req.Target == sender {
		logger.Debug().Msg("Signal dropped: no addressable target.")
		return false
	}

	frame, err := encodeEvent(kind, SignalDelivery{From: sender, Payload: req.Payload})
	if err != nil {
		logger.Error().Err(err).Msg("Failed to encode signal.")
		return false
	}

	if !r.transport.Send(req.Target, frame) {
		logger.Debug().Msg("Signal dropped: target not connected.")
		return false
	}

	logger.Debug().Msg("Signal relayed.")
	return true
}
