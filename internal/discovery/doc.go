// Package discovery finds TR-064 capable routers on the local network.
//
// Two protocols run in parallel for the configured timeout:
//
//   - SSDP: an M-SEARCH for urn:dslforum-org:device:InternetGatewayDevice:1
//     via goupnp. Responses carry the description URL, so the TR-064 port
//     and the friendly name are known exactly.
//   - mDNS: a "_http._tcp" browse via zeroconf, filtered to AVM host and
//     instance names. mDNS only announces the web interface, so these
//     devices are assumed to serve TR-064 on the default port 49000.
//
// Results are merged by IP address; SSDP data wins when both protocols
// report the same host.
//
// # Usage Example
//
//	scanner := discovery.NewScanner()
//	scanner.Timeout = 5 * time.Second
//	devices, err := scanner.Scan(ctx)
//	if err != nil {
//	    return err
//	}
//	for _, d := range devices {
//	    fmt.Println(d)
//	}
//
// # Network Requirements
//
//   - Requires multicast support on the network interface
//   - Devices must be on the same local network segment
//   - Firewall must allow SSDP (UDP 1900) and mDNS (UDP 5353)
package discovery
