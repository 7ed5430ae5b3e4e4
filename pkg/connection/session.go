package connection

// AppInfo identifies this application to the Core. The Core displays it
// in its extension-authorization list.
type AppInfo struct {
	ExtensionID string
	DisplayName string
	Version     string
	Publisher   string
	Email       string
}

// Session is the authenticated client handle obtained from the external
// Core client library. It is a foreign capability: the manager never
// looks inside it beyond this interface, so tests can substitute a fake.
type Session interface {
	// Token returns the authorization token, or "" while the Core has
	// not granted one yet.
	Token() string

	// OnStateChange registers fn to be called on every session-level
	// state change. The session invokes fn from its own background
	// goroutine.
	OnStateChange(fn func())

	// Stop shuts the session down.
	Stop() error
}

// SessionFactory opens a session against host:port. A non-empty token
// from an earlier authorization is passed through to allow silent
// re-authorization.
type SessionFactory func(info AppInfo, host string, port int, token string) (Session, error)

// Credentials is the persisted last-known-server record.
type Credentials struct {
	CoreID   string `json:"core_id,omitempty"`
	CoreName string `json:"core_name,omitempty"`
	Token    string `json:"token,omitempty"`
	Host     string `json:"host,omitempty"`
	Port     int    `json:"port,omitempty"`
}

// CredentialStore persists the credentials of the last successfully
// authorized server. Save is called only on successful authentication;
// Load only when reconnecting from saved state.
type CredentialStore interface {
	Load() (Credentials, error)
	Save(Credentials) error
}

// AuthStatus is the terminal outcome of one authentication attempt,
// delivered exactly once per attempt to the registered observer.
type AuthStatus struct {
	// Authenticated reports whether the Core granted a token.
	Authenticated bool

	// Token is the granted token when Authenticated is true.
	Token string

	// ErrorMessage is a human-readable failure description when
	// Authenticated is false.
	ErrorMessage string
}
