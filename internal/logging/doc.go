// Package logging provides structured logging for tr064-debug.
//
// This package wraps a global zap logger with convenience functions for the
// events that matter when debugging a TR-064 device: session setup, HTTP
// round trips, SOAP action outcomes and TLS handshakes of the encrypted
// channel.
//
// # Silent by Default
//
// The interactive menu owns the terminal, so logging is disabled unless a
// level is configured through --log-level or TR064_DEBUG_LOG_LEVEL. Output
// goes to stderr, or to the file named by --log-file / TR064_DEBUG_LOG_FILE:
//
//	TR064_DEBUG_LOG_LEVEL=debug TR064_DEBUG_LOG_FILE=/tmp/tr064.log tr064-debug start
//
// # Structured Logging
//
//	logging.LogSOAPAction("DeviceInfo1", "GetInfo", 0, elapsed, err)
//	logging.LogSession("192.168.178.1", "FRITZ!Box 7590", "encrypted")
//
// At debug level the raw SCPD and SOAP bodies are logged via LogPayload.
package logging
