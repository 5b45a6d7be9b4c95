package chat

import "github.com/rs/zerolog"

// Transport is the fan-out surface the coordinator writes to. Frames are complete envelopes.
type Transport interface {
	// Send queues frame for one endpoint and reports whether it was accepted.
	Send(endpointID string, frame []byte) bool

	// Broadcast queues frame for every connected endpoint except those in exclude.
	Broadcast(frame []byte, exclude ...string)
}

// connSet is the hub-owned Transport over live WebSocket clients.
type connSet struct {
	clients map[string]*Client

	// evicted collects clients dropped by enqueue until the hub reaps them.
	evicted []*Client

	logger zerolog.Logger
}

func newConnSet(logger zerolog.Logger) *connSet {
	return &connSet{
		clients: make(map[string]*Client),
		logger:  logger,
	}
}

func (s *connSet) add(c *Client) bool {
	if _, exists := s.clients[c.id]; exists {
		return false
	}
	s.clients[c.id] = c
	return true
}

// remove drops c if it is still the registered client for its id and closes its queue.
func (s *connSet) remove(c *Client) {
	if current, ok := s.clients[c.id]; ok && current == c {
		delete(s.clients, c.id)
	}
	c.closeSend()
}

func (s *connSet) Send(endpointID string, frame []byte) bool {
	c, ok := s.clients[endpointID]
	if !ok {
		return false
	}
	return s.enqueue(c, frame)
}

func (s *connSet) Broadcast(frame []byte, exclude ...string) {
	for id, c := range s.clients {
		if containsID(exclude, id) {
			continue
		}
		s.enqueue(c, frame)
	}
}

// enqueue never blocks. A client whose queue is full is evicted: its queue is closed so the write
// pump sends a close frame, and the hub runs its disconnect cleanup right after the current event.
func (s *connSet) enqueue(c *Client, frame []byte) bool {
	select {
	case c.send <- frame:
		return true
	default:
		s.logger.Warn().
			Str("endpoint_id", c.id).
			Int("queue_len", len(c.send)).
			Msg("Client send queue full, evicting connection.")
		delete(s.clients, c.id)
		c.closeSend()
		s.evicted = append(s.evicted, c)
		return false
	}
}

// drainEvicted returns and forgets the clients evicted since the last call.
func (s *connSet) drainEvicted() []*Client {
	out := s.evicted
	s.evicted = nil
	return out
}

func (s *connSet) closeAll() {
	for id, c := range s.clients {
		c.closeSend()
		delete(s.clients, id)
	}
}

func (s *connSet) len() int {
	return len(s.clients)
}

func containsID(ids []string, id string) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
