package discovery

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/grandcat/zeroconf"

	"github.com/muurk/tr064-debug/internal/tr064"
)

const (
	// ServiceType is the mDNS service type browsed for
	// Routers advertise their web interface as "_http._tcp"
	ServiceType = "_http._tcp"

	// ServiceDomain is the mDNS domain (typically "local.")
	ServiceDomain = "local."
)

// routerPattern matches instance or host names of AVM routers
// (e.g., "FRITZ!Box 7590", "fritz.box.local.", "FRITZ-Repeater-1200")
var routerPattern = regexp.MustCompile(`(?i)fritz`)

// browseFunc feeds mDNS service entries into entries until ctx is done
type browseFunc func(ctx context.Context, entries chan *zeroconf.ServiceEntry) error

// browseMDNS is the default browse using a fresh zeroconf resolver
func browseMDNS(ctx context.Context, entries chan *zeroconf.ServiceEntry) error {
	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return fmt.Errorf("failed to create mDNS resolver: %w", err)
	}
	if err := resolver.Browse(ctx, ServiceType, ServiceDomain, entries); err != nil {
		return fmt.Errorf("failed to browse for mDNS services: %w", err)
	}
	return nil
}

// collectMDNS browses until ctx is done and returns the matching devices
func collectMDNS(ctx context.Context, browse browseFunc) ([]*Device, error) {
	entries := make(chan *zeroconf.ServiceEntry)
	done := make(chan struct{})
	var devices []*Device

	go func() {
		defer close(done)
		for {
			select {
			case <-ctx.Done():
				return
			case entry, ok := <-entries:
				if !ok {
					return
				}
				if device := parseServiceEntry(entry); device != nil {
					devices = append(devices, device)
				}
			}
		}
	}()

	if err := browse(ctx, entries); err != nil {
		return nil, err
	}

	<-ctx.Done()
	<-done
	return devices, nil
}

// parseServiceEntry converts a zeroconf service entry to a Device
// Returns nil if the entry is not a router or has no IPv4 address
func parseServiceEntry(entry *zeroconf.ServiceEntry) *Device {
	if entry == nil {
		return nil
	}
	if !routerPattern.MatchString(entry.Instance) && !routerPattern.MatchString(entry.HostName) {
		return nil
	}
	if len(entry.AddrIPv4) == 0 {
		return nil
	}

	// Parse TXT records into metadata
	metadata := make(map[string]string)
	for _, txt := range entry.Text {
		// TXT records are in "key=value" format
		parts := strings.SplitN(txt, "=", 2)
		if len(parts) == 2 {
			metadata[parts[0]] = parts[1]
		} else {
			metadata[parts[0]] = ""
		}
	}
	if entry.Port != 0 {
		metadata["http_port"] = strconv.Itoa(entry.Port)
	}

	return &Device{
		Name:     unescapeInstance(entry.Instance),
		Hostname: entry.HostName,
		IP:       entry.AddrIPv4[0].String(),
		// mDNS announces the web interface; TR-064 listens on its own port
		Port:         tr064.DefaultPort,
		Sources:      []Source{SourceMDNS},
		Metadata:     metadata,
		DiscoveredAt: time.Now(),
	}
}

// unescapeInstance removes DNS-SD escaping from an instance name
func unescapeInstance(s string) string {
	return strings.ReplaceAll(s, `\`, "")
}
