package log

// Logger receives protocol trace events. Implementations must be safe
// for concurrent use and should return quickly; Log sits on the
// discovery receive loop and the connection event path.
type Logger interface {
	Log(event Event)
}

// NoopLogger discards every event. It is the trace sink used when a
// component's Config leaves Trace nil, and is usable as a zero value.
type NoopLogger struct{}

// Log discards the event.
func (NoopLogger) Log(Event) {}

// Compile-time interface satisfaction check.
var _ Logger = NoopLogger{}
