/*
Package chat implements the signaling hub: the session registry, chat history, broadcast slot
arbitration and the relay of SDP/ICE payloads between endpoints.

This file defines the wire protocol. Every WebSocket text frame is one JSON envelope
{"event": <name>, "data": <payload>}.
*/
package chat

import (
	"encoding/json"

	"rtcrelay/internal/app/relay"
	"rtcrelay/internal/app/user"
)

// EventName identifies a protocol event.
type EventName string

// Server to client events.
const (
	EventConnectSuccess           EventName = "connect-success"
	EventInitializedSession       EventName = "initialized-session"
	EventUserJoin                 EventName = "user-join"
	EventUserLogout               EventName = "user-logout"
	EventNewMessage               EventName = "new-message"
	EventBroadcastRequestResponse EventName = "broadcast-request-response"
	EventBroadcastEnded           EventName = "broadcast-ended"
)

// Client to server events.
const (
	EventInitializeSession EventName = "initialize-session"
	EventSendMessage       EventName = "send-message"
	EventRequestBroadcast  EventName = "request-broadcast"
	EventEndBroadcast      EventName = "end-broadcast"
	EventConnectionFailed  EventName = "connection-failed"
)

// Signaling events travel in both directions with different payload shapes.
const (
	EventOffer     EventName = "offer"
	EventAnswer    EventName = "answer"
	EventCandidate EventName = "candidate"
)

// IsSignaling reports whether e is relayed point to point.
func (e EventName) IsSignaling() bool {
	switch e {
	case EventOffer, EventAnswer, EventCandidate:
		return true
	}
	return false
}

// IsClientEvent reports whether a client may send e.
func (e EventName) IsClientEvent() bool {
	switch e {
	case EventInitializeSession, EventSendMessage, EventRequestBroadcast,
		EventEndBroadcast, EventConnectionFailed:
		return true
	}
	return e.IsSignaling()
}

// Envelope is the frame format in both directions.
type Envelope struct {
	Event EventName       `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// ChatMessage is one entry of the message log, captured at send time.
type ChatMessage struct {
	DisplayName string `json:"displayName"`
	Text        string `json:"text"`
}

// ConnectSuccessPayload is the snapshot sent to a new connection.
type ConnectSuccessPayload struct {
	EndpointID string                `json:"endpointId"`
	ICEServers []relay.ICEServerView `json:"iceServers"`
	Users      []user.User           `json:"users"`
	Messages   []ChatMessage         `json:"messages"`
}

// InitializeSessionPayload is sent by a client to join.
type InitializeSessionPayload struct {
	DisplayName string `json:"displayName"`
}

// SendMessagePayload carries chat text from a client.
type SendMessagePayload struct {
	Text string `json:"text"`
}

// BroadcastResponsePayload answers a request-broadcast, to the requester only.
type BroadcastResponsePayload struct {
	Approved bool `json:"approved"`
}

// BroadcastEndedPayload announces that an endpoint stopped broadcasting.
type BroadcastEndedPayload struct {
	EndpointID string `json:"endpointId"`
}

// SignalRequest is the inbound shape of offer, answer and candidate. Payload is opaque.
type SignalRequest struct {
	Target  string          `json:"target"`
	Payload json.RawMessage `json:"payload"`
}

// SignalDelivery is the outbound shape of offer, answer and candidate.
type SignalDelivery struct {
	From    string          `json:"from"`
	Payload json.RawMessage `json:"payload"`
}

// ConnectionFailedPayload is a client report that a peer connection could not be established.
type ConnectionFailedPayload struct {
	Target string `json:"target"`
}

// encodeEvent marshals data into an envelope frame.
func encodeEvent(name EventName, data any) ([]byte, error) {
	env := Envelope{Event: name}

	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			return nil, err
		}
		env.Data = raw
	}

	return json.Marshal(env)
}
