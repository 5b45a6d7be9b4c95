package chat

import (
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"rtcrelay/internal/app/relay"
	"rtcrelay/internal/pkg/logx"
)

// ErrHubStopped is returned by hub operations after Shutdown.
var ErrHubStopped = errors.New("hub stopped")

const eventQueueSize = 256

type hubEventKind int

const (
	hubConnect hubEventKind = iota
	hubFrame
	hubDisconnect
)

// hubEvent carries everything a connection reports. Connect, frames and disconnect of one client
// share the events channel so they are applied in the order the client produced them.
type hubEvent struct {
	kind   hubEventKind
	client *Client
	env    Envelope
}

// Hub is the single owner of all signaling state. Every mutation runs on the Run goroutine.
type Hub struct {
	events   chan hubEvent
	requests chan func()

	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once

	conns       *connSet
	coordinator *Coordinator
	recorder    Recorder

	logger zerolog.Logger
}

// NewHub builds a hub handing creds to every new connection. rec may be nil.
func NewHub(creds *relay.Credentials, rec Recorder) *Hub {
	if rec == nil {
		rec = nopRecorder{}
	}

	logger := logx.Component("hub")
	conns := newConnSet(logger)

	return &Hub{
		events:      make(chan hubEvent, eventQueueSize),
		requests:    make(chan func()),
		stop:        make(chan struct{}),
		done:        make(chan struct{}),
		conns:       conns,
		coordinator: NewCoordinator(creds, conns, rec, logger),
		recorder:    rec,
		logger:      logger,
	}
}

// Run processes events until Shutdown. It must be started exactly once.
func (h *Hub) Run() {
	defer close(h.done)

	h.logger.Info().Msg("Hub loop started.")

	for {
		select {
		case ev := <-h.events:
			h.dispatch(ev)
			h.reapEvicted()
			h.publishGauges()

		case fn := <-h.requests:
			fn()
			h.publishGauges()

		case <-h.stop:
			n := h.conns.len()
			h.conns.closeAll()
			h.logger.Info().Int("closed_connections", n).Msg("Hub loop stopped.")
			return
		}
	}
}

func (h *Hub) dispatch(ev hubEvent) {
	switch ev.kind {
	case hubConnect:
		if !h.conns.add(ev.client) {
			h.logger.Error().Str("endpoint_id", ev.client.id).Msg("Endpoint id collision, closing connection.")
			ev.client.closeSend()
			return
		}
		ev.client.registered = true
		h.coordinator.Connect(ev.client.id)

	case hubFrame:
		if ev.client.registered {
			h.coordinator.Handle(ev.client.id, ev.env)
		}

	case hubDisconnect:
		h.conns.remove(ev.client)
		h.release(ev.client)
	}
}

// release runs the coordinator's disconnect once per client. Frames the client queued before
// that point are ignored afterwards.
func (h *Hub) release(c *Client) {
	if !c.registered {
		return
	}
	c.registered = false
	h.coordinator.Disconnect(c.id)
}

// reapEvicted disconnects clients dropped for a full queue. Announcing their departure can evict
// further clients, hence the loop.
func (h *Hub) reapEvicted() {
	for {
		evicted := h.conns.drainEvicted()
		if len(evicted) == 0 {
			return
		}
		for _, c := range evicted {
			h.logger.Info().Str("endpoint_id", c.id).Msg("Evicted client disconnected.")
			h.release(c)
		}
	}
}

func (h *Hub) publishGauges() {
	s := h.coordinator.Stats(h.conns.len())
	h.recorder.Gauges(s.Connections, s.Users, s.ActiveBroadcasters, s.Messages)
}

// Register hands a freshly upgraded client to the hub. The client receives connect-success once
// the hub has processed the registration.
func (h *Hub) Register(c *Client) error {
	return h.submit(hubEvent{kind: hubConnect, client: c})
}

func (h *Hub) submit(ev hubEvent) error {
	select {
	case <-h.stop:
		return ErrHubStopped
	default:
	}

	select {
	case h.events <- ev:
		return nil
	case <-h.stop:
		return ErrHubStopped
	}
}

// do runs fn on the hub goroutine and waits for it to finish.
func (h *Hub) do(fn func()) error {
	finished := make(chan struct{})

	select {
	case h.requests <- func() { fn(); close(finished) }:
	case <-h.stop:
		return ErrHubStopped
	}

	<-finished
	return nil
}

// ClearMessages empties the chat history. Connected clients keep what they already received.
func (h *Hub) ClearMessages() error {
	return h.do(func() { h.coordinator.ClearMessages() })
}

// Stats returns the current counts as seen by the hub goroutine.
func (h *Hub) Stats() (Stats, error) {
	var s Stats
	err := h.do(func() { s = h.coordinator.Stats(h.conns.len()) })
	return s, err
}

// Shutdown stops the loop and closes every client queue. Safe to call more than once.
func (h *Hub) Shutdown() {
	h.stopOnce.Do(func() {
		h.logger.Info().Msg("Shutting down hub...")
		close(h.stop)
	})
	<-h.done
}
