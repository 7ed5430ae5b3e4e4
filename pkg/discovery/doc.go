// Package discovery locates Core servers on the local network.
//
// Discovery is a single probe/response pass over UDP: one SOOD query is
// sent to the protocol's well-known multicast group and, separately, to
// the subnet broadcast address of every active IPv4 interface, then
// responses are collected until a wall-clock deadline. Servers identify
// themselves with a vendor-assigned unique id; within one pass the first
// response per id wins and later ones are dropped, whatever transport path
// delivered them.
//
// A global broadcast alone does not reach all interfaces or cross all
// home-router setups reliably, which is why probes go out per interface
// and over multicast as well.
//
// Discovery never fails loudly: a pass that cannot open its socket, reach
// a target, or decode a datagram degrades to fewer (possibly zero)
// results. An empty result list means "no servers found", not an error.
package discovery
