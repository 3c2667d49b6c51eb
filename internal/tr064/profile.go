package tr064

import (
	"fmt"
	"net"
	"strconv"
	"time"
)

const (
	// DefaultPort is the plain-HTTP TR-064 port of Fritz!Box class devices
	DefaultPort = 49000

	// DefaultTimeout is used when a profile does not specify a timeout
	DefaultTimeout = 5 * time.Second

	// DescriptionPath is the location of the TR-064 device description
	DescriptionPath = "/tr64desc.xml"
)

// ConnectionProfile holds everything needed to open a session with a device.
// It is persisted verbatim (including the password) by the credential store.
type ConnectionProfile struct {
	Host      string `yaml:"host"`
	Port      int    `yaml:"port"`
	Username  string `yaml:"username"`
	Password  string `yaml:"password"`
	TimeoutMs int    `yaml:"timeout_ms"`
	UseSSL    bool   `yaml:"use_ssl"`
}

// Timeout returns the per-request timeout of the profile
func (p ConnectionProfile) Timeout() time.Duration {
	if p.TimeoutMs <= 0 {
		return DefaultTimeout
	}
	return time.Duration(p.TimeoutMs) * time.Millisecond
}

// BaseURL returns the plain HTTP base URL of the device
func (p ConnectionProfile) BaseURL() string {
	port := p.Port
	if port == 0 {
		port = DefaultPort
	}
	return "http://" + net.JoinHostPort(p.Host, strconv.Itoa(port))
}

// DescriptionURL returns the URL of the device description document
func (p ConnectionProfile) DescriptionURL() string {
	return p.BaseURL() + DescriptionPath
}

// Validate checks the profile before any network traffic is attempted
func (p ConnectionProfile) Validate() error {
	if err := ValidateIPv4(p.Host); err != nil {
		return err
	}
	if p.Port != 0 {
		if err := ValidatePort(p.Port); err != nil {
			return err
		}
	}
	if p.TimeoutMs < 0 {
		return NewValidationError(fmt.Sprintf("timeout must not be negative, got %dms", p.TimeoutMs))
	}
	return nil
}

// ValidateIPv4 validates a dotted-quad IPv4 address
func ValidateIPv4(host string) error {
	ip := net.ParseIP(host)
	if ip == nil || ip.To4() == nil {
		return NewValidationError(fmt.Sprintf("not a valid IPv4 address: %q", host))
	}
	return nil
}

// ValidatePort validates a TCP port number.
// Valid range: 1-65535
func ValidatePort(port int) error {
	if port <= 0 || port > 65535 {
		return NewValidationError(fmt.Sprintf("port must be 1-65535, got %d", port))
	}
	return nil
}
