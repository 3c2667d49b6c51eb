// Package store keeps device connection profiles keyed by the device's
// friendly name.
//
// FileStore persists the index as credentials.yaml (by default next to the
// executable, see config.Registry.StorePath). Passwords are written in
// plaintext with file mode 0600. MemoryStore is the in-memory equivalent.
package store
