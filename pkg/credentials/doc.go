// Package credentials persists the last successfully authorized Core
// server - id, name, host, port and token - so the application can
// reconnect silently on the next start.
//
// The store is a single JSON file under the user's config directory
// (default ~/.config/rooncore). A missing or unreadable file loads as an
// empty record rather than an error: saved credentials are a
// convenience, and losing them only costs one manual re-authorization.
package credentials
