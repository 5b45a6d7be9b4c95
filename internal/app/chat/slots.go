package chat

// MaxBroadcasters is the hard ceiling on concurrent broadcasters. There is no waitlist.
const MaxBroadcasters = 4

// SlotDecision is the outcome of a broadcast slot request.
type SlotDecision int

const (
	SlotApproved SlotDecision = iota
	SlotDeniedAlreadyBroadcasting
	SlotDeniedFull
)

func (d SlotDecision) String() string {
	switch d {
	case SlotApproved:
		return "approved"
	case SlotDeniedAlreadyBroadcasting:
		return "denied_already_broadcasting"
	case SlotDeniedFull:
		return "denied_full"
	default:
		return "unknown"
	}
}

// SlotManager tracks which endpoints currently broadcast. The check-then-insert in Request is
// atomic because only the hub goroutine calls it.
type SlotManager struct {
	capacity int
	holders  map[string]struct{}
}

// NewSlotManager returns a manager with the given capacity.
func NewSlotManager(capacity int) *SlotManager {
	return &SlotManager{
		capacity: capacity,
		holders:  make(map[string]struct{}, capacity),
	}
}

// Request tries to give endpointID a slot.
func (m *SlotManager) Request(endpointID string) SlotDecision {
	if _, ok := m.holders[endpointID]; ok {
		return SlotDeniedAlreadyBroadcasting
	}
	if len(m.holders) >= m.capacity {
		return SlotDeniedFull
	}

	m.holders[endpointID] = struct{}{}
	return SlotApproved
}

// Release frees the slot of endpointID and reports whether it held one.
func (m *SlotManager) Release(endpointID string) bool {
	if _, ok := m.holders[endpointID]; !ok {
		return false
	}
	delete(m.holders, endpointID)
	return true
}

// Count returns the number of active broadcasters.
func (m *SlotManager) Count() int {
	return len(m.holders)
}
