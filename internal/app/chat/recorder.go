package chat

// Recorder receives hub telemetry. Implementations must be cheap; they run on the hub goroutine.
type Recorder interface {
	EventReceived(event string)
	SignalRelayed(kind string, delivered bool)
	SlotRequested(decision string)
	Gauges(connections, users, broadcasters, messages int)
}

type nopRecorder struct{}

func (nopRecorder) EventReceived(string)       {}
func (nopRecorder) SignalRelayed(string, bool) {}
func (nopRecorder) SlotRequested(string)       {}
func (nopRecorder) Gauges(int, int, int, int)  {}
