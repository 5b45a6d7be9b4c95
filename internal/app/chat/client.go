package chat

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"rtcrelay/internal/pkg/logx"
	"rtcrelay/internal/pkg/randx"
)

const (
	// timeout duration for writing to the WebSocket connection.
	writeWait = 10 * time.Second

	// maximum allowed size (in bytes) of a frame sent by the client. SDP offers can be large.
	maxMessageSize = 64 * 1024

	sendQueueSize = 256

	// DefaultPongTimeout is used when NewClient gets a zero timeout.
	DefaultPongTimeout = 60 * time.Second
)

// Client is one WebSocket connection, identified by a server-assigned endpoint id.
type Client struct {
	hub  *Hub
	conn *websocket.Conn

	id string

	// queued frames waiting for the write pump. Closed by the hub only.
	send chan []byte

	// closed guards send against a double close. registered is set once the hub accepted the
	// client. Both are touched on the hub goroutine only.
	closed     bool
	registered bool

	pongWait   time.Duration
	pingPeriod time.Duration

	logger zerolog.Logger
}

// NewClient wraps conn with a fresh endpoint id.
func NewClient(hub *Hub, conn *websocket.Conn, pongTimeout time.Duration) *Client {
	if pongTimeout <= 0 {
		pongTimeout = DefaultPongTimeout
	}

	id := randx.EndpointID()

	return &Client{
		hub:        hub,
		conn:       conn,
		id:         id,
		send:       make(chan []byte, sendQueueSize),
		pongWait:   pongTimeout,
		pingPeriod: (pongTimeout * 9) / 10,
		logger: logx.Logger().With().
			Str("component", "client").
			Str("endpoint_id", id).
			Logger(),
	}
}

// ID returns the endpoint id.
func (c *Client) ID() string {
	return c.id
}

func (c *Client) closeSend() {
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}

// ReadPump reads frames until the connection fails, then reports the disconnect to the hub.
func (c *Client) ReadPump() {
	defer c.cleanupOnDisconnect()

	c.conn.SetReadLimit(maxMessageSize)

	if err := c.conn.SetReadDeadline(time.Now().Add(c.pongWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set read deadline")
		return
	}

	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(c.pongWait))
	})

	for {
		_, frame, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Info().Err(err).Msg("Error reading message (Client close/going away)")
			}
			break
		}

		var env Envelope
		if err := json.Unmarshal(frame, &env); err != nil || env.Event == "" {
			c.logger.Warn().Err(err).Int("frame_bytes", len(frame)).Msg("Client sent invalid frame")
			continue
		}

		if err := c.hub.submit(hubEvent{kind: hubFrame, client: c, env: env}); err != nil {
			break
		}
	}
}

func (c *Client) cleanupOnDisconnect() {
	c.logger.Debug().Msg("Client connection cleanup starting.")

	// Blocks until the hub accepts it so the disconnect is never lost while the hub runs.
	_ = c.hub.submit(hubEvent{kind: hubDisconnect, client: c})

	if err := c.conn.Close(); err != nil {
		c.logger.Debug().Err(err).Msg("Client connection close error")
	}
}

// WritePump drains the send queue to the connection and keeps the heartbeat going.
func (c *Client) WritePump() {
	ticker := time.NewTicker(c.pingPeriod)

	defer func() {
		ticker.Stop()

		if err := c.conn.Close(); err != nil {
			c.logger.Debug().Err(err).Msg("Client connection close error in WritePump")
		}
	}()

	for {
		select {
		case frame, ok := <-c.send:
			if !c.writeQueuedFrame(frame, ok) {
				return
			}

		case <-ticker.C:
			if !c.writePing() {
				return
			}
		}
	}
}

// writeQueuedFrame returns false when the pump should stop.
func (c *Client) writeQueuedFrame(frame []byte, ok bool) bool {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set write deadline")
		return false
	}

	if !ok {
		if err := c.conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
			c.logger.Debug().Err(err).Msg("Error writing close message")
		}
		return false
	}

	if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
		c.logger.Warn().Err(err).Msg("Error writing message")
		return false
	}

	return true
}

func (c *Client) writePing() bool {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set write deadline on ping")
		return false
	}

	if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
		c.logger.Warn().Err(err).Msg("Error writing ping")
		return false
	}

	return true
}
