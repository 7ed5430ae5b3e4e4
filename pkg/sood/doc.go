// Package sood implements the SOOD discovery wire format used by Roon
// Core servers to answer local-network presence queries.
//
// A SOOD message is a single UDP datagram:
//
//	bytes 0-3  magic "SOOD"
//	byte  4    protocol version (0x02)
//	byte  5    message type: 'Q' (query) or 'R' (response)
//	bytes 6..  properties
//
// Each property is encoded as a 1-byte name length, the name, a 2-byte
// big-endian value length, and the value. All names and values are UTF-8
// strings.
//
// Queries carry a query_service_id property identifying the service being
// searched for. Responses carry server identity properties; the ones this
// module interprets are unique_id, name, display_version and http_port.
// Unknown properties are preserved in the decoded property map.
//
// The outbound query is a fixed payload embedded at build time; see Probe.
package sood
