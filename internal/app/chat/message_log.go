package chat

// MessageLog is the append-only chat history handed to joining clients.
// It is bounded only by Clear and is owned by the hub goroutine.
type MessageLog struct {
	messages []ChatMessage
}

// NewMessageLog returns an empty log.
func NewMessageLog() *MessageLog {
	return &MessageLog{}
}

// Append records a message and returns it.
func (l *MessageLog) Append(displayName, text string) ChatMessage {
	msg := ChatMessage{DisplayName: displayName, Text: text}
	l.messages = append(l.messages, msg)
	return msg
}

// Snapshot returns a copy of the history in append order.
func (l *MessageLog) Snapshot() []ChatMessage {
	out := make([]ChatMessage, len(l.messages))
	copy(out, l.messages)
	return out
}

// Clear drops the server-side history. Clients keep what they already rendered.
func (l *MessageLog) Clear() {
	l.messages = nil
}

// Len returns the number of stored messages.
func (l *MessageLog) Len() int {
	return len(l.messages)
}
