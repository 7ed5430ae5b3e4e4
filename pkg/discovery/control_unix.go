//go:build !solaris && !windows

package discovery

import (
	"syscall"

	"golang.org/x/sys/unix"
)

// udpSocketControl configures the discovery socket before bind: address
// and port reuse so overlapping passes can share the well-known port, and
// SO_BROADCAST so probes may target broadcast addresses. Options the
// platform rejects are skipped; discovery proceeds without them.
func udpSocketControl(_, _ string, c syscall.RawConn) error {
	return c.Control(func(fd uintptr) {
		_ = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEADDR, 1)
		_ = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEPORT, 1)
		_ = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_BROADCAST, 1)
	})
}
