package discovery

import (
	"errors"
	"net"
	"slices"
	"testing"
)

func ipnet(ip string, maskBits int) *net.IPNet {
	return &net.IPNet{
		IP:   net.ParseIP(ip),
		Mask: net.CIDRMask(maskBits, 32),
	}
}

func TestResolveBroadcastTargets(t *testing.T) {
	tests := []struct {
		name  string
		addrs []net.Addr
		want  []string
	}{
		{
			name: "single /24",
			addrs: []net.Addr{
				ipnet("192.168.1.5", 24),
			},
			want: []string{LimitedBroadcast, "192.168.1.255"},
		},
		{
			name: "multiple interfaces",
			addrs: []net.Addr{
				ipnet("192.168.1.5", 24),
				ipnet("10.0.3.17", 16),
			},
			want: []string{LimitedBroadcast, "192.168.1.255", "10.0.255.255"},
		},
		{
			name: "same subnet counted once",
			addrs: []net.Addr{
				ipnet("192.168.1.5", 24),
				ipnet("192.168.1.9", 24),
			},
			want: []string{LimitedBroadcast, "192.168.1.255"},
		},
		{
			name: "loopback and IPv6 skipped",
			addrs: []net.Addr{
				ipnet("127.0.0.1", 8),
				&net.IPNet{IP: net.ParseIP("fe80::1"), Mask: net.CIDRMask(64, 128)},
				ipnet("172.16.4.2", 12),
			},
			want: []string{LimitedBroadcast, "172.31.255.255"},
		},
		{
			name:  "no usable addresses",
			addrs: nil,
			want:  []string{LimitedBroadcast},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &InterfaceResolver{
				Addrs: func() ([]net.Addr, error) { return tt.addrs, nil },
			}
			got := r.ResolveBroadcastTargets()
			if !slices.Equal(got, tt.want) {
				t.Errorf("ResolveBroadcastTargets() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResolveDegradesWhenEnumerationFails(t *testing.T) {
	r := &InterfaceResolver{
		Addrs: func() ([]net.Addr, error) { return nil, errors.New("no permission") },
	}
	got := r.ResolveBroadcastTargets()
	want := []string{LimitedBroadcast}
	if !slices.Equal(got, want) {
		t.Errorf("ResolveBroadcastTargets() = %v, want %v", got, want)
	}
}

func TestBroadcastOf(t *testing.T) {
	tests := []struct {
		cidr string
		want string
	}{
		{"192.168.1.5/24", "192.168.1.255"},
		{"10.11.12.13/8", "10.255.255.255"},
		{"172.16.4.2/30", "172.16.4.3"},
		{"192.0.2.1/32", "192.0.2.1"},
	}

	for _, tt := range tests {
		t.Run(tt.cidr, func(t *testing.T) {
			ip, network, err := net.ParseCIDR(tt.cidr)
			if err != nil {
				t.Fatalf("ParseCIDR: %v", err)
			}
			network.IP = ip
			got, err := broadcastOf(network)
			if err != nil {
				t.Fatalf("broadcastOf: %v", err)
			}
			if got != tt.want {
				t.Errorf("broadcastOf(%s) = %s, want %s", tt.cidr, got, tt.want)
			}
		})
	}
}
