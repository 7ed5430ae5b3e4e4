package discovery_test

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/roon-community/rooncore-go/pkg/discovery"
	"github.com/roon-community/rooncore-go/pkg/sood"
)

// staticResolver targets the loopback responder instead of real
// broadcast addresses.
type staticResolver struct {
	targets []string
}

func (s staticResolver) ResolveBroadcastTargets() []string {
	return s.targets
}

// response encodes a SOOD response datagram from name/value pairs.
func response(t *testing.T, pairs ...string) []byte {
	t.Helper()
	msg := &sood.Message{Type: sood.TypeResponse}
	for i := 0; i < len(pairs); i += 2 {
		msg.Set(pairs[i], pairs[i+1])
	}
	data, err := sood.Encode(msg)
	require.NoError(t, err)
	return data
}

// startResponder runs a fake Core on loopback. For every query received
// it sends each reply datagram back to the prober. It returns the port
// the responder listens on.
func startResponder(t *testing.T, replies ...[]byte) int {
	t.Helper()

	conn, err := net.ListenUDP("udp4", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	go func() {
		buf := make([]byte, 4096)
		for {
			n, src, err := conn.ReadFromUDP(buf)
			if err != nil {
				return
			}
			msg, err := sood.Decode(buf[:n])
			if err != nil || msg.Type != sood.TypeQuery {
				continue
			}
			for _, reply := range replies {
				_, _ = conn.WriteToUDP(reply, src)
			}
		}
	}()

	return conn.LocalAddr().(*net.UDPAddr).Port
}

func newService(t *testing.T, port int) *discovery.Service {
	t.Helper()
	return discovery.New(discovery.Config{
		Port:     port,
		Resolver: staticResolver{targets: []string{"127.0.0.1"}},
	})
}

func TestDiscoverFindsServer(t *testing.T) {
	port := startResponder(t, response(t,
		sood.PropUniqueID, "core-1",
		sood.PropName, "Study",
		sood.PropDisplayVersion, "2.0 (build 1407)",
		sood.PropHTTPPort, "9331",
	))

	records := newService(t, port).Discover(time.Second)

	require.Len(t, records, 1)
	require.Equal(t, discovery.ServerRecord{
		ID:      "core-1",
		Name:    "Study",
		Version: "2.0 (build 1407)",
		Host:    "127.0.0.1",
		Port:    9331,
	}, records[0])
}

func TestDiscoverDedupesFirstSeenWins(t *testing.T) {
	port := startResponder(t,
		response(t, sood.PropUniqueID, "core-1", sood.PropName, "First"),
		response(t, sood.PropUniqueID, "core-2", sood.PropName, "Other"),
		response(t, sood.PropUniqueID, "core-1", sood.PropName, "Second", sood.PropHTTPPort, "9400"),
	)

	records := newService(t, port).Discover(time.Second)

	require.Len(t, records, 2)
	require.Equal(t, "core-1", records[0].ID)
	require.Equal(t, "First", records[0].Name, "the first response for an id wins")
	require.Equal(t, discovery.DefaultHTTPPort, records[0].Port)
	require.Equal(t, "core-2", records[1].ID)
}

func TestDiscoverAppliesDefaults(t *testing.T) {
	port := startResponder(t, response(t,
		sood.PropUniqueID, "core-1",
		sood.PropHTTPPort, "not-a-number",
	))

	records := newService(t, port).Discover(time.Second)

	require.Len(t, records, 1)
	require.Equal(t, discovery.UnknownField, records[0].Name)
	require.Equal(t, discovery.UnknownField, records[0].Version)
	require.Equal(t, discovery.DefaultHTTPPort, records[0].Port)
}

func TestDiscoverSkipsUnusableDatagrams(t *testing.T) {
	port := startResponder(t,
		[]byte("not a sood datagram"),
		response(t, sood.PropName, "Nameless"), // no unique_id
		response(t, sood.PropUniqueID, "core-9", sood.PropName, "Attic"),
	)

	records := newService(t, port).Discover(time.Second)

	require.Len(t, records, 1)
	require.Equal(t, "core-9", records[0].ID)
}

func TestDiscoverTimeoutBoundWithNoServers(t *testing.T) {
	// Nobody listens on this port; the pass must still return close to
	// the requested timeout with an empty result.
	conn, err := net.ListenUDP("udp4", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	require.NoError(t, err)
	port := conn.LocalAddr().(*net.UDPAddr).Port
	conn.Close()

	svc := newService(t, port)

	start := time.Now()
	records := svc.Discover(300 * time.Millisecond)
	elapsed := time.Since(start)

	require.Empty(t, records)
	require.GreaterOrEqual(t, elapsed, 250*time.Millisecond)
	require.Less(t, elapsed, 2*time.Second)
}
