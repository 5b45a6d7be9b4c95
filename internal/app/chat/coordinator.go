package chat

import (
	"encoding/json"
	"errors"

	"github.com/rs/zerolog"

	"rtcrelay/internal/app/relay"
)

// EndpointState is the lifecycle state of one connection.
type EndpointState int

const (
	StateConnected EndpointState = iota
	StateInitialized
	StateDisconnected
)

func (s EndpointState) String() string {
	switch s {
	case StateConnected:
		return "connected"
	case StateInitialized:
		return "initialized"
	case StateDisconnected:
		return "disconnected"
	default:
		return "unknown"
	}
}

// Stats is a point-in-time view of the hub state.
type Stats struct {
	Users              int `json:"users"`
	ActiveBroadcasters int `json:"activeBroadcasters"`
	Messages           int `json:"messages"`
	Connections        int `json:"connections"`
}

// Coordinator applies connection lifecycle events and client events to the registry, the message
// log and the slot manager. It is single-threaded: the hub goroutine is its only caller.
type Coordinator struct {
	credentials *relay.Credentials
	transport   Transport
	recorder    Recorder

	registry *Registry
	messages *MessageLog
	slots    *SlotManager
	router   *SignalRouter

	// states tracks live endpoints only; a missing entry means disconnected or never connected.
	states map[string]EndpointState

	logger zerolog.Logger
}

// NewCoordinator wires the core components over t. rec may be nil.
func NewCoordinator(creds *relay.Credentials, t Transport, rec Recorder, logger zerolog.Logger) *Coordinator {
	if rec == nil {
		rec = nopRecorder{}
	}

	return &Coordinator{
		credentials: creds,
		transport:   t,
		recorder:    rec,
		registry:    NewRegistry(),
		messages:    NewMessageLog(),
		slots:       NewSlotManager(MaxBroadcasters),
		router:      NewSignalRouter(t, rec, logger),
		states:      make(map[string]EndpointState),
		logger:      logger,
	}
}

// Connect moves endpointID to Connected and sends it the initial snapshot.
func (c *Coordinator) Connect(endpointID string) {
	if _, exists := c.states[endpointID]; exists {
		c.logger.Warn().Str("endpoint_id", endpointID).Msg("Duplicate connect ignored.")
		return
	}
	c.states[endpointID] = StateConnected

	var servers []relay.ICEServerView
	if c.credentials != nil {
		servers = c.credentials.Servers()
	}

	c.send(endpointID, EventConnectSuccess, ConnectSuccessPayload{
		EndpointID: endpointID,
		ICEServers: servers,
		Users:      c.registry.List(),
		Messages:   c.messages.Snapshot(),
	})

	c.logger.Info().
		Str("endpoint_id", endpointID).
		Int("users", c.registry.Len()).
		Msg("Endpoint connected.")
}

// Handle dispatches one client event. Events from endpoints that are not connected are dropped.
func (c *Coordinator) Handle(endpointID string, env Envelope) {
	logger := c.logger.With().
		Str("endpoint_id", endpointID).
		Str("event", string(env.Event)).
		Logger()

	if _, live := c.states[endpointID]; !live {
		logger.Warn().Msg("Event from unknown endpoint dropped.")
		return
	}

	if env.Event.IsClientEvent() {
		c.recorder.EventReceived(string(env.Event))
	} else {
		c.recorder.EventReceived("unknown")
	}

	if env.Event.IsSignaling() {
		var req SignalRequest
		if err := decodeData(env.Data, &req); err != nil {
			logger.Warn().Err(err).Msg("Invalid signaling payload.")
			return
		}
		c.router.Relay(env.Event, endpointID, req)
		return
	}

	switch env.Event {
	case EventInitializeSession:
		var p InitializeSessionPayload
		if err := decodeData(env.Data, &p); err != nil {
			logger.Warn().Err(err).Msg("Invalid initialize-session payload.")
			return
		}
		c.initialize(endpointID, p.DisplayName, logger)

	case EventSendMessage:
		var p SendMessagePayload
		if err := decodeData(env.Data, &p); err != nil {
			logger.Warn().Err(err).Msg("Invalid send-message payload.")
			return
		}
		c.sendMessage(endpointID, p.Text, logger)

	case EventRequestBroadcast:
		c.requestBroadcast(endpointID, logger)

	case EventEndBroadcast:
		c.endBroadcast(endpointID, logger)

	case EventConnectionFailed:
		var p ConnectionFailedPayload
		if err := decodeData(env.Data, &p); err != nil {
			logger.Warn().Err(err).Msg("Invalid connection-failed payload.")
			return
		}
		logger.Info().Str("target", p.Target).Msg("Client reported a failed peer connection.")

	default:
		logger.Warn().Msg("Unsupported event ignored.")
	}
}

// Disconnect is terminal for endpointID: the user is removed and any broadcast slot is freed,
// each with its announcement to the remaining endpoints.
func (c *Coordinator) Disconnect(endpointID string) {
	state, live := c.states[endpointID]
	if !live {
		return
	}
	delete(c.states, endpointID)

	logger := c.logger.With().
		Str("endpoint_id", endpointID).
		Str("previous_state", state.String()).
		Logger()

	if u, ok := c.registry.Remove(endpointID); ok {
		c.broadcast(EventUserLogout, u, endpointID)
		logger.Info().
			Str("display_name", u.DisplayName).
			Int("users", c.registry.Len()).
			Msg("User logged out.")
	} else {
		logger.Info().Msg("Uninitialized endpoint disconnected.")
	}

	// Slots are not tied to initialization, so release unconditionally.
	if c.slots.Release(endpointID) {
		c.broadcast(EventBroadcastEnded, BroadcastEndedPayload{EndpointID: endpointID}, endpointID)
		logger.Info().Int("broadcasters", c.slots.Count()).Msg("Broadcast slot freed on disconnect.")
	}
}

// ClearMessages empties the message log.
func (c *Coordinator) ClearMessages() int {
	n := c.messages.Len()
	c.messages.Clear()
	c.logger.Info().Int("cleared", n).Msg("Messages cleared.")
	return n
}

// Stats returns the current counts. connections is supplied by the transport owner.
func (c *Coordinator) Stats(connections int) Stats {
	return Stats{
		Users:              c.registry.Len(),
		ActiveBroadcasters: c.slots.Count(),
		Messages:           c.messages.Len(),
		Connections:        connections,
	}
}

// State returns the lifecycle state of endpointID.
func (c *Coordinator) State(endpointID string) EndpointState {
	if s, ok := c.states[endpointID]; ok {
		return s
	}
	return StateDisconnected
}

func (c *Coordinator) initialize(endpointID, displayName string, logger zerolog.Logger) {
	u, err := c.registry.Initialize(endpointID, displayName)
	if errors.Is(err, ErrAlreadyInitialized) {
		logger.Warn().Msg("Duplicate initialize-session ignored.")
		return
	}

	c.states[endpointID] = StateInitialized

	c.send(endpointID, EventInitializedSession, u)
	c.broadcast(EventUserJoin, u, endpointID)

	logger.Info().
		Str("display_name", u.DisplayName).
		Int("users", c.registry.Len()).
		Msg("User joined.")
}

func (c *Coordinator) sendMessage(endpointID, text string, logger zerolog.Logger) {
	u, ok := c.registry.Find(endpointID)
	if !ok {
		logger.Warn().Msg("Message from uninitialized endpoint dropped.")
		return
	}

	msg := c.messages.Append(u.DisplayName, text)
	c.broadcast(EventNewMessage, msg)

	logger.Debug().
		Str("display_name", u.DisplayName).
		Int("messages", c.messages.Len()).
		Msg("Message appended.")
}

func (c *Coordinator) requestBroadcast(endpointID string, logger zerolog.Logger) {
	decision := c.slots.Request(endpointID)
	c.recorder.SlotRequested(decision.String())

	c.send(endpointID, EventBroadcastRequestResponse, BroadcastResponsePayload{
		Approved: decision == SlotApproved,
	})

	logger.Info().
		Str("decision", decision.String()).
		Int("broadcasters", c.slots.Count()).
		Int("capacity", MaxBroadcasters).
		Msg("Broadcast slot requested.")
}

func (c *Coordinator) endBroadcast(endpointID string, logger zerolog.Logger) {
	if !c.slots.Release(endpointID) {
		logger.Debug().Msg("end-broadcast from endpoint without a slot.")
		return
	}

	c.broadcast(EventBroadcastEnded, BroadcastEndedPayload{EndpointID: endpointID}, endpointID)

	logger.Info().Int("broadcasters", c.slots.Count()).Msg("Broadcast ended.")
}

func (c *Coordinator) send(endpointID string, name EventName, data any) {
	frame, err := encodeEvent(name, data)
	if err != nil {
		c.logger.Error().Err(err).Str("event", string(name)).Msg("Failed to encode event.")
		return
	}

	if !c.transport.Send(endpointID, frame) {
		c.logger.Debug().
			Str("endpoint_id", endpointID).
			Str("event", string(name)).
			Msg("Direct event not delivered.")
	}
}

func (c *Coordinator) broadcast(name EventName, data any, exclude ...string) {
	frame, err := encodeEvent(name, data)
	if err != nil {
		c.logger.Error().Err(err).Str("event", string(name)).Msg("Failed to encode event.")
		return
	}

	c.transport.Broadcast(frame, exclude...)
}

// decodeData unmarshals an optional payload. A missing payload leaves dst at its zero value.
func decodeData(raw json.RawMessage, dst any) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, dst)
}
