package sood

import (
	"encoding/binary"
	"fmt"
)

var magic = []byte{'S', 'O', 'O', 'D'}

// Decode parses a SOOD datagram. It validates the magic marker and
// protocol version before interpreting the remainder, and returns a
// wrapped ErrTruncated when a length-prefixed field runs past the end of
// the buffer. Decode never panics on arbitrary input.
func Decode(data []byte) (*Message, error) {
	if len(data) < headerLen {
		return nil, fmt.Errorf("%w: %d bytes", ErrTruncated, len(data))
	}
	for i, b := range magic {
		if data[i] != b {
			return nil, ErrBadMagic
		}
	}
	if data[4] != Version {
		return nil, fmt.Errorf("%w: 0x%02x", ErrBadVersion, data[4])
	}

	msg := &Message{Type: data[5], Props: make(Properties)}

	rest := data[headerLen:]
	for len(rest) > 0 {
		nameLen := int(rest[0])
		rest = rest[1:]
		if len(rest) < nameLen {
			return nil, fmt.Errorf("%w: property name", ErrTruncated)
		}
		name := string(rest[:nameLen])
		rest = rest[nameLen:]

		if len(rest) < 2 {
			return nil, fmt.Errorf("%w: value length of %q", ErrTruncated, name)
		}
		valueLen := int(binary.BigEndian.Uint16(rest))
		rest = rest[2:]
		if len(rest) < valueLen {
			return nil, fmt.Errorf("%w: value of %q", ErrTruncated, name)
		}
		msg.Set(name, string(rest[:valueLen]))
		rest = rest[valueLen:]
	}

	return msg, nil
}

// Encode serializes a message into SOOD wire format. Properties are
// written in insertion order.
func Encode(msg *Message) ([]byte, error) {
	buf := make([]byte, 0, 64)
	buf = append(buf, magic...)
	buf = append(buf, Version, msg.Type)

	for _, name := range msg.order {
		value := msg.Props[name]
		if len(name) > MaxNameLen || len(value) > MaxValueLen {
			return nil, fmt.Errorf("%w: %q", ErrTooLong, name)
		}
		buf = append(buf, byte(len(name)))
		buf = append(buf, name...)
		buf = binary.BigEndian.AppendUint16(buf, uint16(len(value)))
		buf = append(buf, value...)
	}

	return buf, nil
}
