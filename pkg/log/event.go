package log

import (
	"time"
)

// Event represents a protocol trace event captured during discovery or
// connection handling. CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// AttemptID identifies the discovery pass or connection attempt
	// the event belongs to (UUID).
	AttemptID string `cbor:"2,keyasint,omitempty"`

	// Category classifies the event type.
	Category Category `cbor:"3,keyasint"`

	// Direction indicates datagram flow, for CategoryDatagram events.
	Direction Direction `cbor:"4,keyasint,omitempty"`

	// RemoteAddr is the peer address (IP:port) where applicable.
	RemoteAddr string `cbor:"5,keyasint,omitempty"`

	// CoreID is the unique id of the server involved, once known.
	CoreID string `cbor:"6,keyasint,omitempty"`

	// Type-specific payload (one of these will be set).
	Datagram    *DatagramEvent    `cbor:"7,keyasint,omitempty"`
	StateChange *StateChangeEvent `cbor:"8,keyasint,omitempty"`
	Error       *ErrorEventData   `cbor:"9,keyasint,omitempty"`
}

// Direction indicates the direction of datagram flow.
type Direction uint8

const (
	// DirectionIn indicates a received datagram.
	DirectionIn Direction = 0
	// DirectionOut indicates a sent datagram.
	DirectionOut Direction = 1
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case DirectionIn:
		return "IN"
	case DirectionOut:
		return "OUT"
	default:
		return "UNKNOWN"
	}
}

// Category classifies the event type.
type Category uint8

const (
	// CategoryDatagram indicates a discovery datagram (probe or response).
	CategoryDatagram Category = 0
	// CategoryState indicates a connection state change.
	CategoryState Category = 1
	// CategoryError indicates an error event.
	CategoryError Category = 2
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryDatagram:
		return "DATAGRAM"
	case CategoryState:
		return "STATE"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// DatagramEvent describes a discovery datagram.
type DatagramEvent struct {
	// Size is the datagram length in bytes.
	Size int `cbor:"1,keyasint"`

	// Kind names the datagram: "probe", "response", "malformed".
	Kind string `cbor:"2,keyasint,omitempty"`

	// Duplicate is set when a response repeated an already-seen id.
	Duplicate bool `cbor:"3,keyasint,omitempty"`
}

// StateChangeEvent describes a connection state transition.
type StateChangeEvent struct {
	// OldState is the state before the transition.
	OldState string `cbor:"1,keyasint"`

	// NewState is the state after the transition.
	NewState string `cbor:"2,keyasint"`

	// Reason optionally explains the transition.
	Reason string `cbor:"3,keyasint,omitempty"`
}

// ErrorEventData describes an error captured at any layer.
type ErrorEventData struct {
	// Message is the error text.
	Message string `cbor:"1,keyasint"`

	// Context describes what was being attempted.
	Context string `cbor:"2,keyasint,omitempty"`
}
