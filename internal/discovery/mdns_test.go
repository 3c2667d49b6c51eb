package discovery

import (
	"net"
	"testing"
	"time"

	"github.com/grandcat/zeroconf"
)

func TestParseServiceEntry(t *testing.T) {
	tests := []struct {
		name     string
		entry    *zeroconf.ServiceEntry
		wantNil  bool
		wantName string
		wantIP   string
	}{
		{
			name: "router by instance name",
			entry: &zeroconf.ServiceEntry{
				ServiceRecord: zeroconf.ServiceRecord{Instance: `FRITZ!Box\ 7590`},
				HostName:      "fritz.box.local.",
				Port:          80,
				AddrIPv4:      []net.IP{net.ParseIP("192.168.178.1")},
				Text:          []string{"path=/"},
			},
			wantName: "FRITZ!Box 7590",
			wantIP:   "192.168.178.1",
		},
		{
			name: "router by hostname",
			entry: &zeroconf.ServiceEntry{
				ServiceRecord: zeroconf.ServiceRecord{Instance: "Web"},
				HostName:      "FRITZ-Repeater-1200.local.",
				AddrIPv4:      []net.IP{net.ParseIP("192.168.178.23")},
			},
			wantName: "Web",
			wantIP:   "192.168.178.23",
		},
		{
			name: "unrelated device",
			entry: &zeroconf.ServiceEntry{
				ServiceRecord: zeroconf.ServiceRecord{Instance: "printer"},
				HostName:      "printer.local.",
				AddrIPv4:      []net.IP{net.ParseIP("192.168.178.30")},
			},
			wantNil: true,
		},
		{
			name: "IPv6 only",
			entry: &zeroconf.ServiceEntry{
				ServiceRecord: zeroconf.ServiceRecord{Instance: "FRITZ!Box"},
				AddrIPv6:      []net.IP{net.ParseIP("fe80::1")},
			},
			wantNil: true,
		},
		{
			name:    "nil entry",
			entry:   nil,
			wantNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			device := parseServiceEntry(tt.entry)

			if tt.wantNil {
				if device != nil {
					t.Errorf("parseServiceEntry() = %v, want nil", device)
				}
				return
			}
			if device == nil {
				t.Fatal("parseServiceEntry() = nil, want device")
			}

			if device.Name != tt.wantName {
				t.Errorf("device.Name = %q, want %q", device.Name, tt.wantName)
			}
			if device.IP != tt.wantIP {
				t.Errorf("device.IP = %q, want %q", device.IP, tt.wantIP)
			}
			if device.Port != 49000 {
				t.Errorf("device.Port = %d, want 49000", device.Port)
			}
			if !device.HasSource(SourceMDNS) {
				t.Errorf("device.Sources = %v, want mdns", device.Sources)
			}
			if time.Since(device.DiscoveredAt) > time.Second {
				t.Errorf("device.DiscoveredAt is not recent: %v", device.DiscoveredAt)
			}
		})
	}
}

func TestParseServiceEntry_Metadata(t *testing.T) {
	entry := &zeroconf.ServiceEntry{
		ServiceRecord: zeroconf.ServiceRecord{Instance: "FRITZ!Box"},
		Port:          80,
		AddrIPv4:      []net.IP{net.ParseIP("192.168.178.1")},
		Text:          []string{"path=/", "flag", "version=7.57"},
	}

	device := parseServiceEntry(entry)
	if device == nil {
		t.Fatal("parseServiceEntry() = nil, want device")
	}

	expected := map[string]string{
		"path":      "/",
		"flag":      "",
		"version":   "7.57",
		"http_port": "80",
	}
	if len(device.Metadata) != len(expected) {
		t.Errorf("device.Metadata has %d entries, want %d", len(device.Metadata), len(expected))
	}
	for key, want := range expected {
		if got := device.GetMetadata(key); got != want {
			t.Errorf("GetMetadata(%q) = %q, want %q", key, got, want)
		}
	}
}

func TestRouterPattern(t *testing.T) {
	tests := []struct {
		name  string
		match bool
	}{
		{"FRITZ!Box 7590", true},
		{"fritz.box.local.", true},
		{"Fritz-Powerline", true},
		{"speedport.ip", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := routerPattern.MatchString(tt.name); got != tt.match {
				t.Errorf("routerPattern.MatchString(%q) = %v, want %v", tt.name, got, tt.match)
			}
		})
	}
}
