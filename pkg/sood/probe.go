package sood

import _ "embed"

// probePayload is the fixed Core discovery query. It is a static byte
// sequence, not computed: a version-2 query datagram carrying the
// query_service_id of the Core discovery service.
//
//go:embed probe.sood
var probePayload []byte

// Probe returns the outbound discovery query datagram. Callers must not
// modify the returned slice.
func Probe() []byte {
	return probePayload
}
