package sood

import (
	"errors"
	"strconv"
)

// Protocol constants.
const (
	// Version is the SOOD protocol version this package speaks.
	Version = 0x02

	// TypeQuery identifies an outbound discovery query.
	TypeQuery = 'Q'

	// TypeResponse identifies a server's discovery response.
	TypeResponse = 'R'

	// headerLen is magic (4) + version (1) + message type (1).
	headerLen = 6

	// MaxNameLen is the longest encodable property name.
	MaxNameLen = 255

	// MaxValueLen is the longest encodable property value.
	MaxValueLen = 65535
)

// Property names used by Core discovery responses.
const (
	PropUniqueID       = "unique_id"
	PropName           = "name"
	PropDisplayVersion = "display_version"
	PropHTTPPort       = "http_port"
	PropQueryServiceID = "query_service_id"
)

// Decode errors.
var (
	ErrBadMagic   = errors.New("sood: bad magic")
	ErrBadVersion = errors.New("sood: unsupported protocol version")
	ErrTruncated  = errors.New("sood: truncated message")
	ErrTooLong    = errors.New("sood: property exceeds encodable length")
)

// Properties holds the key/value pairs of a decoded message.
type Properties map[string]string

// String returns the value for key, or def when the key is absent.
func (p Properties) String(key, def string) string {
	if v, ok := p[key]; ok {
		return v
	}
	return def
}

// Port returns the numeric value for key, or def when the key is absent
// or its value is not a valid port number. Non-numeric values are treated
// the same as absent ones.
func (p Properties) Port(key string, def int) int {
	v, ok := p[key]
	if !ok {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 || n > 65535 {
		return def
	}
	return n
}

// Message is a decoded SOOD datagram.
type Message struct {
	// Type is TypeQuery or TypeResponse.
	Type byte

	// Props are the message properties in no particular order.
	Props Properties

	// order preserves encoding order for Encode round trips.
	order []string
}

// IsResponse reports whether the message is a discovery response.
func (m *Message) IsResponse() bool {
	return m.Type == TypeResponse
}

// Set adds or replaces a property, preserving insertion order for Encode.
func (m *Message) Set(name, value string) {
	if m.Props == nil {
		m.Props = make(Properties)
	}
	if _, exists := m.Props[name]; !exists {
		m.order = append(m.order, name)
	}
	m.Props[name] = value
}
