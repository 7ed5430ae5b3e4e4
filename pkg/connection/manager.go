package connection

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/roon-community/rooncore-go/pkg/discovery"
	"github.com/roon-community/rooncore-go/pkg/log"
)

// Connection errors.
var (
	// ErrNoSavedCredentials is returned by ReconnectFromSaved when the
	// store holds no usable last-known server.
	ErrNoSavedCredentials = errors.New("no saved credentials")
)

// Config holds manager configuration.
type Config struct {
	// AppInfo is passed to the session factory on every connect.
	AppInfo AppInfo

	// Factory opens sessions. Required.
	Factory SessionFactory

	// Store persists credentials of authorized servers. Required.
	Store CredentialStore

	// Logger receives operational log output; nil discards it.
	Logger *slog.Logger

	// Trace receives protocol trace events; nil discards them.
	Trace log.Logger
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.Factory == nil {
		return errors.New("connection: session factory is required")
	}
	if c.Store == nil {
		return errors.New("connection: credential store is required")
	}
	return nil
}

// Manager is the connection state machine. It assumes a single control
// goroutine drives Connect, Disconnect and ReconnectFromSaved; session
// authorization events arrive from the session's own goroutine and are
// serialized against those calls with the manager's mutex.
type Manager struct {
	appInfo AppInfo
	factory SessionFactory
	store   CredentialStore
	logger  *slog.Logger
	trace   log.Logger

	mu        sync.Mutex
	state     State
	server    *discovery.ServerRecord
	session   Session
	observer  func(AuthStatus)
	attemptID string
}

// NewManager creates a connection manager in the Disconnected state.
func NewManager(cfg Config) (*Manager, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	trace := cfg.Trace
	if trace == nil {
		trace = log.NoopLogger{}
	}
	return &Manager{
		appInfo: cfg.AppInfo,
		factory: cfg.Factory,
		store:   cfg.Store,
		logger:  logger,
		trace:   trace,
		state:   StateDisconnected,
	}, nil
}

// State returns the current connection state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// CurrentServer returns the currently targeted server, if any.
func (m *Manager) CurrentServer() (discovery.ServerRecord, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.server == nil {
		return discovery.ServerRecord{}, false
	}
	return *m.server, true
}

// Session returns the session handle while Connected, nil otherwise.
func (m *Manager) Session() Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateConnected {
		return nil
	}
	return m.session
}

// OnAuthStatus registers the observer for authentication outcomes. Only
// one observer is held; registering replaces the previous one. The
// observer is invoked outside the manager's lock and must not be assumed
// to run on any particular goroutine.
func (m *Manager) OnAuthStatus(fn func(AuthStatus)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.observer = fn
}

// Connect starts a connection attempt against server. A non-empty token
// from an earlier authorization is passed to the session to allow silent
// re-authorization.
//
// Connect returns nil once the attempt is under way; the authentication
// outcome arrives asynchronously through the observer. When session
// creation itself fails, Connect transitions to Error, emits a failed
// AuthStatus, and returns the error.
func (m *Manager) Connect(server discovery.ServerRecord, token string) error {
	attemptID := uuid.NewString()

	m.mu.Lock()
	old := m.state
	m.state = StateConnecting
	srv := server
	m.server = &srv
	m.session = nil
	m.attemptID = attemptID
	m.mu.Unlock()

	m.logger.Info("connecting",
		"attempt_id", attemptID, "core_id", server.ID, "name", server.Name,
		"host", server.Host, "port", server.Port, "have_token", token != "")
	m.traceState(attemptID, server.ID, old, StateConnecting, "")

	sess, err := m.factory(m.appInfo, server.Host, server.Port, token)
	if err != nil {
		m.mu.Lock()
		if m.attemptID == attemptID {
			m.state = StateError
		}
		m.mu.Unlock()

		m.logger.Error("connection failed", "attempt_id", attemptID, "error", err)
		m.traceState(attemptID, server.ID, StateConnecting, StateError, err.Error())
		m.notify(AuthStatus{Authenticated: false, ErrorMessage: err.Error()})
		return fmt.Errorf("connect to %s:%d: %w", server.Host, server.Port, err)
	}

	m.mu.Lock()
	m.session = sess
	m.state = StateAuthenticating
	m.mu.Unlock()

	m.logger.Info("connection initiated, waiting for authentication", "attempt_id", attemptID)
	m.traceState(attemptID, server.ID, StateConnecting, StateAuthenticating, "")

	sess.OnStateChange(m.onSessionEvent)
	return nil
}

// onSessionEvent handles a session-level state change. It is invoked
// from the session's background goroutine on every event, so it must be
// idempotent: only the first event that finds a granted token while we
// are Authenticating transitions to Connected, persists credentials and
// emits the success status.
func (m *Manager) onSessionEvent() {
	m.mu.Lock()
	if m.session == nil || m.state != StateAuthenticating {
		m.mu.Unlock()
		return
	}
	token := m.session.Token()
	if token == "" {
		m.mu.Unlock()
		m.logger.Debug("session event without token, authorization pending")
		return
	}
	m.state = StateConnected
	server := *m.server
	attemptID := m.attemptID
	m.mu.Unlock()

	m.logger.Info("authentication successful", "attempt_id", attemptID, "core_id", server.ID)
	m.traceState(attemptID, server.ID, StateAuthenticating, StateConnected, "")

	creds := Credentials{
		CoreID:   server.ID,
		CoreName: server.Name,
		Token:    token,
		Host:     server.Host,
		Port:     server.Port,
	}
	if err := m.store.Save(creds); err != nil {
		// The live session stays usable; only the next
		// ReconnectFromSaved suffers.
		m.logger.Warn("failed to persist credentials", "error", err)
	}

	m.notify(AuthStatus{Authenticated: true, Token: token})
}

// Disconnect tears down the current session, if any, and returns to
// Disconnected from any prior state. Session shutdown is best-effort;
// its failure is logged, never raised.
func (m *Manager) Disconnect() {
	m.mu.Lock()
	sess := m.session
	var coreID string
	if m.server != nil {
		coreID = m.server.ID
	}
	old := m.state
	attemptID := m.attemptID
	m.session = nil
	m.server = nil
	m.state = StateDisconnected
	m.mu.Unlock()

	if sess != nil {
		if err := sess.Stop(); err != nil {
			m.logger.Warn("error stopping session", "error", err)
		}
	}

	if old != StateDisconnected {
		m.logger.Info("disconnected", "attempt_id", attemptID)
		m.traceState(attemptID, coreID, old, StateDisconnected, "")
	}
}

// ReconnectFromSaved connects to the last successfully authorized server
// using the persisted credentials. When the store holds no core id, host
// or port, it returns ErrNoSavedCredentials without any state change.
func (m *Manager) ReconnectFromSaved() error {
	creds, err := m.store.Load()
	if err != nil {
		return fmt.Errorf("load credentials: %w", err)
	}
	if creds.CoreID == "" || creds.Host == "" || creds.Port == 0 {
		m.logger.Info("no saved server to reconnect to")
		return ErrNoSavedCredentials
	}

	name := creds.CoreName
	if name == "" {
		name = discovery.UnknownField
	}
	server := discovery.ServerRecord{
		ID:      creds.CoreID,
		Name:    name,
		Version: discovery.UnknownField,
		Host:    creds.Host,
		Port:    creds.Port,
	}

	m.logger.Info("reconnecting to saved server", "core_id", server.ID, "name", server.Name)
	return m.Connect(server, creds.Token)
}

// notify delivers an AuthStatus to the observer, if one is registered.
// A panicking observer is contained here: connection state must survive
// a misbehaving UI callback.
func (m *Manager) notify(status AuthStatus) {
	m.mu.Lock()
	observer := m.observer
	m.mu.Unlock()

	if observer == nil {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("auth status observer panicked", "panic", r)
		}
	}()
	observer(status)
}

func (m *Manager) traceState(attemptID, coreID string, from, to State, reason string) {
	m.trace.Log(log.Event{
		Timestamp: time.Now(),
		AttemptID: attemptID,
		Category:  log.CategoryState,
		CoreID:    coreID,
		StateChange: &log.StateChangeEvent{
			OldState: from.String(),
			NewState: to.String(),
			Reason:   reason,
		},
	})
}
