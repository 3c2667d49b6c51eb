// Package config provides user preferences for tr064-debug.
//
// Preferences live in a YAML file following OS conventions:
//   - Linux: $XDG_CONFIG_HOME/tr064-debug/config.yaml or $HOME/.config/tr064-debug/config.yaml
//   - macOS: $HOME/.config/tr064-debug/config.yaml
//   - Windows: %LOCALAPPDATA%\tr064-debug\config.yaml
//
// They hold the defaults offered by the Add-device prompt (port, timeout,
// SSL, username), the discovery timeout, the UI mode and an optional
// credential store location. Passwords are never written here; see package
// store for the credential file.
//
// # Usage Example
//
//	registry, err := config.LoadRegistry()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	path, err := registry.StorePath(flagStore)
//	...
//	registry.RecordLastDevice("FRITZ!Box 7590")
//	if err := registry.Save(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Thread Safety
//
// The global registry uses sync.Once for safe initialization across goroutines.
// File writes go through WriteFileAtomic, which is serialized by a mutex.
package config
