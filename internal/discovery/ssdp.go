package discovery

import (
	"context"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/huin/goupnp"

	"github.com/muurk/tr064-debug/internal/tr064"
)

// SearchTarget is the SSDP search target of TR-064 gateways
const SearchTarget = "urn:dslforum-org:device:InternetGatewayDevice:1"

// searchSSDP is the default SSDP search
func searchSSDP(ctx context.Context) ([]goupnp.MaybeRootDevice, error) {
	return goupnp.DiscoverDevicesCtx(ctx, SearchTarget)
}

// parseRootDevice converts an SSDP response to a Device.
// Returns nil for failed fetches and non-IPv4 locations.
func parseRootDevice(m goupnp.MaybeRootDevice) *Device {
	if m.Location == nil {
		return nil
	}

	ip := net.ParseIP(m.Location.Hostname())
	if ip == nil || ip.To4() == nil {
		return nil
	}

	port := tr064.DefaultPort
	if p, err := strconv.Atoi(m.Location.Port()); err == nil && p > 0 {
		port = p
	}

	device := &Device{
		IP:           ip.To4().String(),
		Port:         port,
		Location:     m.Location.String(),
		Sources:      []Source{SourceSSDP},
		DiscoveredAt: time.Now(),
	}
	if m.Err == nil && m.Root != nil {
		device.Name = strings.TrimSpace(m.Root.Device.FriendlyName)
		device.Model = strings.TrimSpace(m.Root.Device.ModelName)
	}
	if m.USN != "" {
		device.Metadata = map[string]string{"usn": m.USN}
	}
	return device
}
