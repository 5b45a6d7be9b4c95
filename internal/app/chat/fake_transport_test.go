package chat

import (
	"encoding/json"
	"testing"
)

// recordingTransport delivers frames to in-memory inboxes of the endpoints marked connected.
type recordingTransport struct {
	connected map[string]bool
	inbox     map[string][]Envelope
}

func newRecordingTransport(ids ...string) *recordingTransport {
	rt := &recordingTransport{
		connected: make(map[string]bool),
		inbox:     make(map[string][]Envelope),
	}
	for _, id := range ids {
		rt.connected[id] = true
	}
	return rt
}

func (rt *recordingTransport) Send(endpointID string, frame []byte) bool {
	if !rt.connected[endpointID] {
		return false
	}
	rt.deliver(endpointID, frame)
	return true
}

func (rt *recordingTransport) Broadcast(frame []byte, exclude ...string) {
	for id, ok := range rt.connected {
		if ok && !containsID(exclude, id) {
			rt.deliver(id, frame)
		}
	}
}

func (rt *recordingTransport) deliver(id string, frame []byte) {
	var env Envelope
	if err := json.Unmarshal(frame, &env); err != nil {
		panic(err)
	}
	rt.inbox[id] = append(rt.inbox[id], env)
}

func (rt *recordingTransport) connect(id string) {
	rt.connected[id] = true
}

func (rt *recordingTransport) disconnect(id string) {
	delete(rt.connected, id)
}

// take returns and clears the frames received by id.
func (rt *recordingTransport) take(id string) []Envelope {
	out := rt.inbox[id]
	delete(rt.inbox, id)
	return out
}

func (rt *recordingTransport) reset() {
	rt.inbox = make(map[string][]Envelope)
}

func eventNames(envs []Envelope) []EventName {
	out := make([]EventName, len(envs))
	for i, e := range envs {
		out[i] = e.Event
	}
	return out
}

func mustData[T any](t *testing.T, env Envelope) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(env.Data, &v); err != nil {
		t.Fatalf("decode %s data %s: %v", env.Event, env.Data, err)
	}
	return v
}

func mustEnvelope(t *testing.T, name EventName, data any) Envelope {
	t.Helper()
	env := Envelope{Event: name}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			t.Fatalf("marshal %s: %v", name, err)
		}
		env.Data = raw
	}
	return env
}

type countingRecorder struct {
	nopRecorder
	signals map[bool]int
	slots   map[string]int
}

func newCountingRecorder() *countingRecorder {
	return &countingRecorder{signals: make(map[bool]int), slots: make(map[string]int)}
}

func (r *countingRecorder) SignalRelayed(_ string, delivered bool) { r.signals[delivered]++ }
func (r *countingRecorder) SlotRequested(decision string)          { r.slots[decision]++ }
