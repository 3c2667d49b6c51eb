package discovery

import (
	"bytes"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"
)

// Source names the protocol a device was found with
type Source string

const (
	SourceSSDP Source = "ssdp"
	SourceMDNS Source = "mdns"
)

// Device represents a TR-064 capable device discovered on the network
type Device struct {
	// Name is the friendly name (e.g., "FRITZ!Box 7590")
	Name string

	// Model is the model name from the device description (SSDP only)
	Model string

	// Hostname is the mDNS hostname (e.g., "fritz.box.local.")
	Hostname string

	// IP is the IPv4 address (e.g., "192.168.178.1")
	IP string

	// Port is the TR-064 port (49000 unless the description says otherwise)
	Port int

	// Location is the description URL announced over SSDP
	Location string

	// Sources lists every protocol that reported this device
	Sources []Source

	// Metadata contains additional mDNS TXT record data
	Metadata map[string]string

	// DiscoveredAt is when the device was first discovered
	DiscoveredAt time.Time
}

// String returns a human-readable string representation of the device
func (d *Device) String() string {
	name := d.Name
	if name == "" {
		name = d.Hostname
	}
	if name == "" {
		name = "Unknown device"
	}
	return fmt.Sprintf("%s at %s (%s)", name, d.Address(), d.sourceList())
}

// Address returns host:port of the TR-064 endpoint
func (d *Device) Address() string {
	return net.JoinHostPort(d.IP, strconv.Itoa(d.Port))
}

// HasSource reports whether the device was seen by src
func (d *Device) HasSource(src Source) bool {
	for _, s := range d.Sources {
		if s == src {
			return true
		}
	}
	return false
}

// GetMetadata retrieves a metadata value by key, or returns empty string if not found
func (d *Device) GetMetadata(key string) string {
	if d.Metadata == nil {
		return ""
	}
	return d.Metadata[key]
}

func (d *Device) sourceList() string {
	parts := make([]string, len(d.Sources))
	for i, s := range d.Sources {
		parts[i] = string(s)
	}
	return strings.Join(parts, "+")
}

// absorb merges what another source learned about the same host
func (d *Device) absorb(other *Device) {
	if d.Name == "" {
		d.Name = other.Name
	}
	if d.Model == "" {
		d.Model = other.Model
	}
	if d.Hostname == "" {
		d.Hostname = other.Hostname
	}
	if d.Location == "" {
		d.Location = other.Location
	}
	for _, s := range other.Sources {
		if !d.HasSource(s) {
			d.Sources = append(d.Sources, s)
		}
	}
	for k, v := range other.Metadata {
		if d.Metadata == nil {
			d.Metadata = make(map[string]string)
		}
		if _, ok := d.Metadata[k]; !ok {
			d.Metadata[k] = v
		}
	}
	if other.DiscoveredAt.Before(d.DiscoveredAt) {
		d.DiscoveredAt = other.DiscoveredAt
	}
}

// ipLess orders IPv4 addresses numerically, falling back to string order
func ipLess(a, b string) bool {
	ipA, ipB := net.ParseIP(a).To4(), net.ParseIP(b).To4()
	if ipA == nil || ipB == nil {
		return a < b
	}
	return bytes.Compare(ipA, ipB) < 0
}
