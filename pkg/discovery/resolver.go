package discovery

import (
	"log/slog"
	"net"
)

// TargetResolver produces the set of addresses a discovery probe is sent
// to over plain UDP (the multicast probe is separate).
type TargetResolver interface {
	// ResolveBroadcastTargets returns broadcast addresses to probe.
	// The result always contains at least the limited-broadcast address.
	ResolveBroadcastTargets() []string
}

// AddrSource enumerates local interface addresses. It matches
// net.InterfaceAddrs and exists so tests can substitute a fixed set.
type AddrSource func() ([]net.Addr, error)

// InterfaceResolver derives one subnet broadcast address per active IPv4
// interface address, plus the limited-broadcast address. Enumeration
// problems degrade the result instead of failing it: if the address
// source is unavailable the resolver returns just the limited-broadcast
// address.
type InterfaceResolver struct {
	// Addrs supplies interface addresses; nil means net.InterfaceAddrs.
	Addrs AddrSource

	// Logger receives operational log output; nil discards it.
	Logger *slog.Logger
}

// ResolveBroadcastTargets implements TargetResolver.
func (r *InterfaceResolver) ResolveBroadcastTargets() []string {
	logger := r.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	targets := []string{LimitedBroadcast}
	seen := map[string]bool{LimitedBroadcast: true}

	source := r.Addrs
	if source == nil {
		source = net.InterfaceAddrs
	}

	addrs, err := source()
	if err != nil {
		logger.Warn("interface enumeration unavailable, using limited broadcast only", "error", err)
		return targets
	}

	for _, addr := range addrs {
		ipnet, ok := addr.(*net.IPNet)
		if !ok || ipnet.IP.To4() == nil || !ipnet.IP.IsGlobalUnicast() {
			continue
		}
		bcast, err := broadcastOf(ipnet)
		if err != nil {
			logger.Warn("skipping interface address", "addr", addr.String(), "error", err)
			continue
		}
		if !seen[bcast] {
			seen[bcast] = true
			targets = append(targets, bcast)
		}
	}

	return targets
}

// broadcastOf computes the subnet broadcast address for an IPv4 network
// by setting all host bits.
func broadcastOf(ipnet *net.IPNet) (string, error) {
	ip := ipnet.IP.To4()
	mask := ipnet.Mask
	if len(mask) == net.IPv6len {
		mask = mask[len(mask)-net.IPv4len:]
	}
	if ip == nil || len(mask) != net.IPv4len {
		return "", &net.AddrError{Err: "not an IPv4 network", Addr: ipnet.String()}
	}

	bcast := make(net.IP, net.IPv4len)
	for i := range bcast {
		bcast[i] = ip[i] | ^mask[i]
	}
	return bcast.String(), nil
}

// Compile-time interface satisfaction check.
var _ TargetResolver = (*InterfaceResolver)(nil)
