package config

import "time"

const (
	// UIModeAuto picks the full-screen prompts on a terminal and line mode otherwise
	UIModeAuto = "auto"
	// UIModeTUI always uses the full-screen prompts
	UIModeTUI = "tui"
	// UIModePlain always uses line-mode prompts
	UIModePlain = "plain"
)

// Registry represents the entire user preferences file.
// Device credentials are not part of it; they live in the credential store.
type Registry struct {
	Version     int          `yaml:"version"`
	Preferences *Preferences `yaml:"preferences,omitempty"`
	LastDevice  *LastDevice  `yaml:"last_device,omitempty"`
}

// Preferences represents application-wide user preferences.
type Preferences struct {
	Defaults        *DeviceDefaults `yaml:"defaults,omitempty"` // Pre-filled answers of the Add-device prompt
	DiscoverTimeout int             `yaml:"discover_timeout"`   // SSDP/mDNS discovery timeout in seconds
	StorePath       string          `yaml:"store_path,omitempty"`
	UIMode          string          `yaml:"ui_mode"` // auto, tui or plain
	HistoryFile     string          `yaml:"history_file,omitempty"`
}

// DeviceDefaults holds the defaults offered when adding a device.
// Passwords are never stored here.
type DeviceDefaults struct {
	Port      int    `yaml:"port"`
	TimeoutMs int    `yaml:"timeout_ms"`
	UseSSL    bool   `yaml:"use_ssl"`
	Username  string `yaml:"username,omitempty"`
}

// LastDevice remembers the most recently connected stored device
type LastDevice struct {
	Name     string    `yaml:"name"`
	LastSeen time.Time `yaml:"last_seen"`
}

// DefaultPreferences returns the built-in preferences
func DefaultPreferences() *Preferences {
	return &Preferences{
		Defaults: &DeviceDefaults{
			Port:      49000,
			TimeoutMs: 5000,
			UseSSL:    true,
		},
		DiscoverTimeout: 5,
		UIMode:          UIModeAuto,
	}
}

// NewRegistry creates a new Registry with default values.
func NewRegistry() *Registry {
	return &Registry{
		Version:     1,
		Preferences: DefaultPreferences(),
	}
}

// normalize fills in defaults for sections missing from a loaded file
func (r *Registry) normalize() {
	defaults := DefaultPreferences()
	if r.Preferences == nil {
		r.Preferences = defaults
		return
	}
	if r.Preferences.Defaults == nil {
		r.Preferences.Defaults = defaults.Defaults
	}
	if r.Preferences.Defaults.Port == 0 {
		r.Preferences.Defaults.Port = defaults.Defaults.Port
	}
	if r.Preferences.Defaults.TimeoutMs == 0 {
		r.Preferences.Defaults.TimeoutMs = defaults.Defaults.TimeoutMs
	}
	if r.Preferences.DiscoverTimeout <= 0 {
		r.Preferences.DiscoverTimeout = defaults.DiscoverTimeout
	}
	switch r.Preferences.UIMode {
	case UIModeAuto, UIModeTUI, UIModePlain:
	default:
		r.Preferences.UIMode = UIModeAuto
	}
}

// DiscoverDuration returns the discovery timeout as a duration
func (p *Preferences) DiscoverDuration() time.Duration {
	if p == nil || p.DiscoverTimeout <= 0 {
		return 5 * time.Second
	}
	return time.Duration(p.DiscoverTimeout) * time.Second
}

// RecordLastDevice remembers the device that was connected most recently.
func (r *Registry) RecordLastDevice(name string) {
	r.LastDevice = &LastDevice{Name: name, LastSeen: time.Now()}
}

// LastDeviceName returns the most recently connected device, or "".
func (r *Registry) LastDeviceName() string {
	if r.LastDevice == nil {
		return ""
	}
	return r.LastDevice.Name
}
