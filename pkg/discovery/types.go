package discovery

import (
	"fmt"
	"time"

	"github.com/roon-community/rooncore-go/pkg/sood"
)

// Protocol constants.
const (
	// Port is the well-known SOOD discovery port.
	Port = 9003

	// MulticastGroup is the well-known SOOD multicast group.
	MulticastGroup = "239.255.90.90"

	// LimitedBroadcast is the conventional all-ones broadcast address,
	// always probed in addition to per-interface subnet broadcasts.
	LimitedBroadcast = "255.255.255.255"

	// DefaultHTTPPort is assumed when a response omits http_port.
	DefaultHTTPPort = 9100

	// UnknownField fills name and version when a response omits them.
	UnknownField = "Unknown"

	// DefaultTimeout bounds a discovery pass when the caller passes zero.
	DefaultTimeout = 5 * time.Second

	// multicastTTL lets probes cross the one router hop common in
	// home networks with a separate media VLAN.
	multicastTTL = 4

	// maxDatagramSize bounds a single discovery response.
	maxDatagramSize = 4096
)

// ServerRecord describes one discovered Core server. It is an immutable
// value; two records with equal ID are the same logical server.
type ServerRecord struct {
	// ID is the vendor-assigned unique identifier of the server.
	ID string

	// Name is the server's display name, or "Unknown".
	Name string

	// Version is the server's software version string, or "Unknown".
	Version string

	// Host is the IP address the response came from.
	Host string

	// Port is the server's HTTP port (default 9100).
	Port int
}

// String renders the record the way the CLI lists it.
func (r ServerRecord) String() string {
	return fmt.Sprintf("%s (%s) at %s:%d, version %s", r.Name, r.ID, r.Host, r.Port, r.Version)
}

// recordFromResponse builds a ServerRecord from decoded response
// properties. It returns ok=false when unique_id is absent: an empty id
// would falsely dedupe unrelated servers, so such responses are unusable.
func recordFromResponse(props sood.Properties, host string) (ServerRecord, bool) {
	id, ok := props[sood.PropUniqueID]
	if !ok || id == "" {
		return ServerRecord{}, false
	}
	return ServerRecord{
		ID:      id,
		Name:    props.String(sood.PropName, UnknownField),
		Version: props.String(sood.PropDisplayVersion, UnknownField),
		Host:    host,
		Port:    props.Port(sood.PropHTTPPort, DefaultHTTPPort),
	}, true
}
