//go:build solaris || windows

package discovery

import "syscall"

// udpSocketControl is a no-op where the unix socket options are
// unavailable; discovery proceeds without reuse or explicit broadcast
// permission.
func udpSocketControl(_, _ string, _ syscall.RawConn) error {
	return nil
}
