package discovery

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/huin/goupnp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/muurk/tr064-debug/internal/logging"
)

// DefaultScanTimeout is the default timeout for device discovery
const DefaultScanTimeout = 5 * time.Second

// Scanner discovers TR-064 devices via SSDP and mDNS in parallel
type Scanner struct {
	// Timeout is the maximum time to wait for device discovery
	Timeout time.Duration

	// DisableSSDP and DisableMDNS switch off a discovery protocol
	DisableSSDP bool
	DisableMDNS bool

	ssdp   func(ctx context.Context) ([]goupnp.MaybeRootDevice, error)
	browse browseFunc
}

// NewScanner creates a new scanner with default settings
func NewScanner() *Scanner {
	return &Scanner{
		Timeout: DefaultScanTimeout,
		ssdp:    searchSSDP,
		browse:  browseMDNS,
	}
}

// Scan runs both discovery protocols until the timeout and returns the
// merged devices, one per IP address, sorted by address. A protocol that
// fails is logged and skipped; Scan only fails when every enabled protocol
// failed.
func (s *Scanner) Scan(ctx context.Context) ([]*Device, error) {
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = DefaultScanTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var (
		ssdpDevices, mdnsDevices []*Device
		ssdpErr, mdnsErr         error
	)

	g, gctx := errgroup.WithContext(ctx)
	if !s.DisableSSDP {
		g.Go(func() error {
			ssdpDevices, ssdpErr = s.scanSSDP(gctx)
			return nil
		})
	}
	if !s.DisableMDNS {
		g.Go(func() error {
			mdnsDevices, mdnsErr = collectMDNS(gctx, s.browse)
			return nil
		})
	}
	_ = g.Wait()

	if ssdpErr != nil {
		logging.Warn("SSDP discovery failed", zap.Error(ssdpErr))
	}
	if mdnsErr != nil {
		logging.Warn("mDNS discovery failed", zap.Error(mdnsErr))
	}

	failedSSDP := s.DisableSSDP || ssdpErr != nil
	failedMDNS := s.DisableMDNS || mdnsErr != nil
	if failedSSDP && failedMDNS {
		if err := errors.Join(ssdpErr, mdnsErr); err != nil {
			return nil, err
		}
		return nil, errors.New("no discovery protocol enabled")
	}

	devices := Merge(ssdpDevices, mdnsDevices)
	logging.Debug("Discovery finished",
		zap.Int("ssdp", len(ssdpDevices)),
		zap.Int("mdns", len(mdnsDevices)),
		zap.Int("devices", len(devices)),
	)
	return devices, nil
}

func (s *Scanner) scanSSDP(ctx context.Context) ([]*Device, error) {
	search := s.ssdp
	if search == nil {
		search = searchSSDP
	}
	responses, err := search(ctx)
	if err != nil {
		return nil, err
	}

	devices := make([]*Device, 0, len(responses))
	for _, m := range responses {
		if m.Err != nil {
			logging.Debug("Ignoring SSDP response",
				zap.String("usn", m.USN),
				zap.Error(m.Err),
			)
		}
		if device := parseRootDevice(m); device != nil {
			devices = append(devices, device)
		}
	}
	return devices, nil
}

// Merge combines device lists, folding entries with the same IP address
// into the first one seen. The result is sorted by IP address.
func Merge(lists ...[]*Device) []*Device {
	byIP := make(map[string]*Device)
	var merged []*Device
	for _, list := range lists {
		for _, d := range list {
			if existing, ok := byIP[d.IP]; ok {
				existing.absorb(d)
				continue
			}
			cp := *d
			cp.Sources = append([]Source(nil), d.Sources...)
			if d.Metadata != nil {
				cp.Metadata = make(map[string]string, len(d.Metadata))
				for k, v := range d.Metadata {
					cp.Metadata[k] = v
				}
			}
			byIP[d.IP] = &cp
			merged = append(merged, &cp)
		}
	}

	sort.Slice(merged, func(i, j int) bool {
		return ipLess(merged[i].IP, merged[j].IP)
	})
	return merged
}
