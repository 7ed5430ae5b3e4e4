package connection

// State represents the connection state.
type State uint8

const (
	// StateDisconnected indicates no server is selected.
	StateDisconnected State = iota

	// StateConnecting indicates a session is being established.
	StateConnecting

	// StateAuthenticating indicates the session exists and the manager
	// is waiting for the Core to grant a token.
	StateAuthenticating

	// StateConnected indicates an authenticated, usable session.
	StateConnected

	// StateError indicates the last attempt failed.
	StateError
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "DISCONNECTED"
	case StateConnecting:
		return "CONNECTING"
	case StateAuthenticating:
		return "AUTHENTICATING"
	case StateConnected:
		return "CONNECTED"
	case StateError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}
