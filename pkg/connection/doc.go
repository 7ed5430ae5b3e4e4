// Package connection drives the lifecycle of a single Core connection.
//
// The manager owns one connection at a time and moves it through
//
//	DISCONNECTED -> CONNECTING -> AUTHENTICATING -> CONNECTED
//
// with ERROR reachable from CONNECTING and AUTHENTICATING, and
// DISCONNECTED reachable from any state via Disconnect.
//
// The authenticated session itself comes from a foreign client library
// and stays behind the Session interface: the manager only needs to read
// its token, register for state-change events and ask it to stop. The
// session delivers events from its own background goroutine; the manager
// serializes those against Connect and Disconnect with a mutex, and keeps
// session creation, credential persistence and observer notification
// outside the lock.
//
// Authorization is asynchronous. A connect attempt returns once it is
// under way; the terminal outcome arrives exactly once as an AuthStatus
// through the registered observer. On success the credentials of the
// current server are persisted through the CredentialStore, so a later
// ReconnectFromSaved can re-authorize silently.
package connection
