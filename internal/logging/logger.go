package logging

import (
	"crypto/tls"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var logger *zap.Logger

const (
	// LogLevelEnvVar is the environment variable that controls logging verbosity.
	// When unset or empty, logging is silent (no zap output).
	// Valid values: "debug", "info", "warn", "error"
	LogLevelEnvVar = "TR064_DEBUG_LOG_LEVEL"

	// LogFileEnvVar names a file that receives log output. The interactive
	// menu owns stdout, so logs default to stderr when this is unset.
	LogFileEnvVar = "TR064_DEBUG_LOG_FILE"

	// maxPayloadLog limits how much of a SOAP body is written to the log
	maxPayloadLog = 2048
)

// Initialize creates a new logger with the specified level and output file.
// Empty arguments fall back to TR064_DEBUG_LOG_LEVEL and TR064_DEBUG_LOG_FILE.
// If no level is configured at all, logging is disabled (silent mode).
func Initialize(level, file string) error {
	if level == "" {
		level = os.Getenv(LogLevelEnvVar)
	}
	if file == "" {
		file = os.Getenv(LogFileEnvVar)
	}

	if level == "" {
		logger = zap.NewNop()
		return nil
	}

	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		// Unknown level - use info as default when explicitly set to something
		zapLevel = zapcore.InfoLevel
	}

	output := "stderr"
	if file != "" {
		output = file
	}

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(zapLevel),
		Development:      false,
		Encoding:         "console",
		EncoderConfig:    zap.NewDevelopmentEncoderConfig(),
		OutputPaths:      []string{output},
		ErrorOutputPaths: []string{"stderr"},
	}

	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.EncodeCaller = zapcore.ShortCallerEncoder
	if file == "" {
		// Colors only make sense on a terminal
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		config.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}

	var err error
	logger, err = config.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	return nil
}

// GetLogger returns the global logger instance
func GetLogger() *zap.Logger {
	if logger == nil {
		// Fallback to silent logger if not initialized
		logger = zap.NewNop()
	}
	return logger
}

// Info logs an info message
func Info(msg string, fields ...zap.Field) {
	GetLogger().Info(msg, fields...)
}

// Debug logs a debug message
func Debug(msg string, fields ...zap.Field) {
	GetLogger().Debug(msg, fields...)
}

// Warn logs a warning message
func Warn(msg string, fields ...zap.Field) {
	GetLogger().Warn(msg, fields...)
}

// Error logs an error message
func Error(msg string, fields ...zap.Field) {
	GetLogger().Error(msg, fields...)
}

// LogSession logs a device session event (initialized, encrypted, logged in)
func LogSession(host string, device string, event string) {
	Info("Device session event",
		zap.String("host", host),
		zap.String("device", device),
		zap.String("event", event),
	)
}

// LogHTTPExchange logs a single HTTP round trip to a device
func LogHTTPExchange(method, url string, statusCode int, duration time.Duration, err error) {
	fields := []zap.Field{
		zap.String("method", method),
		zap.String("url", url),
		zap.Duration("duration", duration),
	}
	if err != nil {
		fields = append(fields, zap.Error(err))
		Warn("HTTP request failed", fields...)
		return
	}
	fields = append(fields, zap.Int("status_code", statusCode))
	Debug("HTTP exchange", fields...)
}

// LogSOAPAction logs the outcome of a TR-064 action invocation
func LogSOAPAction(service, action string, inArgs int, duration time.Duration, err error) {
	fields := []zap.Field{
		zap.String("service", service),
		zap.String("action", action),
		zap.Int("in_args", inArgs),
		zap.Duration("duration", duration),
	}
	if err != nil {
		fields = append(fields, zap.Error(err))
		Warn("SOAP action failed", fields...)
		return
	}
	Info("SOAP action completed", fields...)
}

// LogTLSHandshake logs TLS handshake details of the encrypted device channel
func LogTLSHandshake(host string, state tls.ConnectionState) {
	Info("TLS handshake completed",
		zap.String("host", host),
		zap.Uint16("tls_version", state.Version),
		zap.String("tls_version_name", tlsVersionName(state.Version)),
		zap.String("cipher_suite_name", tls.CipherSuiteName(state.CipherSuite)),
		zap.Int("peer_certificates", len(state.PeerCertificates)),
	)
}

// LogPayload logs a raw XML payload at debug level (useful for debugging
// malformed SCPD documents and SOAP responses)
func LogPayload(label string, data []byte) {
	if !GetLogger().Core().Enabled(zapcore.DebugLevel) {
		return
	}
	Debug(label,
		zap.Int("length", len(data)),
		zap.String("body", truncate(data)),
	)
}

// Helper functions

func tlsVersionName(version uint16) string {
	switch version {
	case tls.VersionTLS10:
		return "TLS 1.0"
	case tls.VersionTLS11:
		return "TLS 1.1"
	case tls.VersionTLS12:
		return "TLS 1.2"
	case tls.VersionTLS13:
		return "TLS 1.3"
	default:
		return fmt.Sprintf("Unknown (0x%04x)", version)
	}
}

func truncate(data []byte) string {
	if len(data) > maxPayloadLog {
		return string(data[:maxPayloadLog]) + "..."
	}
	return string(data)
}

// Sync flushes any buffered log entries
func Sync() {
	if logger != nil {
		_ = logger.Sync()
	}
}
