package tr064

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"
	"syscall"

	"github.com/huin/goupnp/soap"

	"github.com/muurk/tr064-debug/internal/urls"
)

// Error types for device session operations

// ErrorType represents the category of error that occurred
type ErrorType int

const (
	// ErrTypeNetwork indicates a network-level error
	ErrTypeNetwork ErrorType = iota
	// ErrTypeAuth indicates the device rejected the credentials
	ErrTypeAuth
	// ErrTypeHTTP indicates a non-200 HTTP status outside of SOAP faults
	ErrTypeHTTP
	// ErrTypeParse indicates a malformed description, SCPD or SOAP response
	ErrTypeParse
	// ErrTypeValidation indicates invalid operator input
	ErrTypeValidation
	// ErrTypeTimeout indicates a request timeout
	ErrTypeTimeout
	// ErrTypeConnectionRefused indicates the device refused the connection
	ErrTypeConnectionRefused
	// ErrTypeDNS indicates a DNS resolution failure
	ErrTypeDNS
	// ErrTypeTLS indicates the encrypted channel could not be established
	ErrTypeTLS
	// ErrTypeSOAPFault indicates the device answered with a SOAP fault
	ErrTypeSOAPFault
	// ErrTypeNotFound indicates an unknown service or action
	ErrTypeNotFound
	// ErrTypeUnknown indicates an unknown or unexpected error
	ErrTypeUnknown
)

// NetworkErrorSubtype provides more specific network error classification
type NetworkErrorSubtype int

const (
	NetworkErrorGeneral NetworkErrorSubtype = iota
	NetworkErrorTimeout
	NetworkErrorConnectionRefused
	NetworkErrorDNS
	NetworkErrorHostUnreachable
	NetworkErrorNetworkUnreachable
)

// String returns a human-readable name for the error type
func (et ErrorType) String() string {
	switch et {
	case ErrTypeNetwork:
		return "Network Error"
	case ErrTypeAuth:
		return "Authentication Error"
	case ErrTypeHTTP:
		return "HTTP Error"
	case ErrTypeParse:
		return "Parse Error"
	case ErrTypeValidation:
		return "Validation Error"
	case ErrTypeTimeout:
		return "Timeout"
	case ErrTypeConnectionRefused:
		return "Connection Refused"
	case ErrTypeDNS:
		return "DNS Error"
	case ErrTypeTLS:
		return "TLS Error"
	case ErrTypeSOAPFault:
		return "SOAP Fault"
	case ErrTypeNotFound:
		return "Not Found"
	case ErrTypeUnknown:
		return "Unknown Error"
	default:
		return fmt.Sprintf("ErrorType(%d)", et)
	}
}

// DeviceError represents an error that occurred while talking to a device
type DeviceError struct {
	Type           ErrorType           // Category of error
	Message        string              // Human-readable error message
	StatusCode     int                 // HTTP status code (if applicable)
	Err            error               // Underlying error (if any)
	NetworkSubtype NetworkErrorSubtype // More specific network error type
	Host           string              // Device address (for context)
	FaultCode      int                 // UPnP error code of a SOAP fault
	Payload        string              // Raw response body (if any)
}

// Error implements the error interface
func (e *DeviceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error for error chain inspection
func (e *DeviceError) Unwrap() error {
	return e.Err
}

// ClassifyNetworkError analyzes a transport error and returns a more specific error type
func ClassifyNetworkError(err error, host string) *DeviceError {
	if err == nil {
		return nil
	}

	if os.IsTimeout(err) || errors.Is(err, os.ErrDeadlineExceeded) {
		return &DeviceError{
			Type:           ErrTypeTimeout,
			Message:        "Request timed out",
			Err:            err,
			NetworkSubtype: NetworkErrorTimeout,
			Host:           host,
		}
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return &DeviceError{
			Type:           ErrTypeDNS,
			Message:        fmt.Sprintf("DNS resolution failed for %s", dnsErr.Name),
			Err:            err,
			NetworkSubtype: NetworkErrorDNS,
			Host:           host,
		}
	}

	var recordErr tls.RecordHeaderError
	var certErr *tls.CertificateVerificationError
	var unknownAuthErr x509.UnknownAuthorityError
	if errors.As(err, &recordErr) || errors.As(err, &certErr) || errors.As(err, &unknownAuthErr) {
		return &DeviceError{
			Type:    ErrTypeTLS,
			Message: "TLS handshake with device failed",
			Err:     err,
			Host:    host,
		}
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		if errors.Is(opErr.Err, syscall.ECONNREFUSED) {
			return &DeviceError{
				Type:           ErrTypeConnectionRefused,
				Message:        "Device refused connection",
				Err:            err,
				NetworkSubtype: NetworkErrorConnectionRefused,
				Host:           host,
			}
		}
		if errors.Is(opErr.Err, syscall.EHOSTUNREACH) {
			return &DeviceError{
				Type:           ErrTypeNetwork,
				Message:        "Host unreachable",
				Err:            err,
				NetworkSubtype: NetworkErrorHostUnreachable,
				Host:           host,
			}
		}
		if errors.Is(opErr.Err, syscall.ENETUNREACH) {
			return &DeviceError{
				Type:           ErrTypeNetwork,
				Message:        "Network unreachable",
				Err:            err,
				NetworkSubtype: NetworkErrorNetworkUnreachable,
				Host:           host,
			}
		}
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != err {
		return ClassifyNetworkError(urlErr.Err, host)
	}

	return &DeviceError{
		Type:           ErrTypeNetwork,
		Message:        "Network error occurred",
		Err:            err,
		NetworkSubtype: NetworkErrorGeneral,
		Host:           host,
	}
}

// NewNetworkError creates a network-level error with automatic classification
func NewNetworkError(message string, err error) *DeviceError {
	if classified := ClassifyNetworkError(err, ""); classified != nil {
		classified.Message = message
		return classified
	}
	return &DeviceError{Type: ErrTypeNetwork, Message: message, Err: err}
}

// NewAuthError creates an authentication error
func NewAuthError(message string) *DeviceError {
	return &DeviceError{
		Type:       ErrTypeAuth,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
	}
}

// NewHTTPError creates an HTTP-level error
func NewHTTPError(statusCode int, message string) *DeviceError {
	return &DeviceError{
		Type:       ErrTypeHTTP,
		Message:    message,
		StatusCode: statusCode,
	}
}

// NewParseError creates a parsing error
func NewParseError(message string, err error) *DeviceError {
	return &DeviceError{Type: ErrTypeParse, Message: message, Err: err}
}

// NewValidationError creates a validation error
func NewValidationError(message string) *DeviceError {
	return &DeviceError{Type: ErrTypeValidation, Message: message}
}

// NewNotFoundError creates an error for an unknown service or action.
// The result matches errors.Is(err, ErrNotFound).
func NewNotFoundError(err error) *DeviceError {
	if err == nil {
		err = ErrNotFound
	}
	return &DeviceError{Type: ErrTypeNotFound, Message: err.Error(), Err: err}
}

// NewSOAPFaultError converts a fault returned by the device
func NewSOAPFaultError(fault *soap.SOAPFaultError) *DeviceError {
	upnp := fault.Detail.UPnPError
	msg := strings.TrimSpace(upnp.ErrorDescription)
	if msg == "" {
		msg = strings.TrimSpace(fault.FaultString)
	}
	if msg == "" {
		msg = "device returned a SOAP fault"
	}
	return &DeviceError{
		Type:       ErrTypeSOAPFault,
		Message:    msg,
		StatusCode: http.StatusInternalServerError,
		FaultCode:  upnp.Errorcode,
		Err:        fault,
		Payload:    string(fault.Detail.Raw),
	}
}

func hasType(err error, types ...ErrorType) bool {
	var devErr *DeviceError
	if !errors.As(err, &devErr) {
		return false
	}
	for _, t := range types {
		if devErr.Type == t {
			return true
		}
	}
	return false
}

// IsNetworkError checks if an error is a network error (including timeout, connection refused, DNS, TLS)
func IsNetworkError(err error) bool {
	return hasType(err, ErrTypeNetwork, ErrTypeTimeout, ErrTypeConnectionRefused, ErrTypeDNS, ErrTypeTLS)
}

// IsAuthError checks if an error is an authentication error
func IsAuthError(err error) bool {
	return hasType(err, ErrTypeAuth)
}

// IsHTTPError checks if an error is an HTTP error
func IsHTTPError(err error) bool {
	return hasType(err, ErrTypeHTTP)
}

// IsParseError checks if an error is a parse error
func IsParseError(err error) bool {
	return hasType(err, ErrTypeParse)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return hasType(err, ErrTypeValidation)
}

// IsSOAPFault checks if an error is a SOAP fault returned by the device
func IsSOAPFault(err error) bool {
	return hasType(err, ErrTypeSOAPFault)
}

// IsNotFound checks if an error reports an unknown service or action
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || hasType(err, ErrTypeNotFound)
}

// GetTroubleshootingHint returns user-friendly troubleshooting advice for an error
func GetTroubleshootingHint(err error) string {
	var devErr *DeviceError
	if !errors.As(err, &devErr) {
		return "An unexpected error occurred. Please try again."
	}

	switch devErr.Type {
	case ErrTypeTimeout:
		return strings.Join([]string{
			"The device did not respond in time.",
			"Troubleshooting:",
			"  • Check that the router is powered on",
			"  • Increase the timeout when adding the device",
			"  • Some actions (e.g. log retrieval) take longer than others",
		}, "\n")

	case ErrTypeConnectionRefused:
		return strings.Join([]string{
			"The device refused the connection.",
			"Troubleshooting:",
			"  • Enable \"Allow access for applications\" (TR-064) in the router UI",
			"  • Verify the port number (default is 49000)",
		}, "\n")

	case ErrTypeDNS:
		return strings.Join([]string{
			"Could not resolve the device hostname.",
			"Troubleshooting:",
			"  • Use the IPv4 address of the router",
			"  • Check your network DNS settings",
		}, "\n")

	case ErrTypeTLS:
		return strings.Join([]string{
			"The encrypted channel could not be established.",
			"Troubleshooting:",
			"  • Re-add the device with SSL disabled",
			"  • Check that the security port is reachable from this host",
		}, "\n")

	case ErrTypeAuth:
		return strings.Join([]string{
			"Authentication failed.",
			"Troubleshooting:",
			"  • Check username and password of a router user",
			"  • The user needs the \"FRITZ!Box settings\" permission for most services",
			"  • Remove the stored device and add it again with new credentials",
		}, "\n")

	case ErrTypeNetwork:
		hint := []string{"Network communication failed."}

		switch devErr.NetworkSubtype {
		case NetworkErrorHostUnreachable:
			hint = append(hint, "The device is not reachable on the network.",
				"Troubleshooting:",
				"  • Verify the device IP address is correct",
				"  • Check that you're on the same network as the device",
				"  • Try pinging the device: ping "+devErr.Host)

		case NetworkErrorNetworkUnreachable:
			hint = append(hint, "Your computer cannot reach the device's network.",
				"Troubleshooting:",
				"  • Check your network adapter settings",
				"  • Verify you are connected to the router's LAN")

		default:
			hint = append(hint, "Troubleshooting:",
				"  • Check your network connection",
				"  • Verify the device is powered on")
		}

		return strings.Join(hint, "\n")

	case ErrTypeHTTP:
		if devErr.StatusCode >= 500 {
			return fmt.Sprintf("The device returned HTTP %d. The action may not be supported by this firmware.", devErr.StatusCode)
		}
		return fmt.Sprintf("The device returned HTTP error %d. Check the request parameters.", devErr.StatusCode)

	case ErrTypeSOAPFault:
		hint := "The device rejected the action."
		if devErr.FaultCode != 0 {
			hint = fmt.Sprintf("The device rejected the action with UPnP error %d.", devErr.FaultCode)
		}
		return hint + "\nError codes per action: " + urls.AVMInterfaces

	case ErrTypeNotFound:
		return "The service or action is not part of this device's catalog."

	case ErrTypeParse:
		return strings.Join([]string{
			"Failed to parse the device's response.",
			"The device may not implement TR-064 on this port.",
			"If it does, please report it: " + urls.ProjectIssues,
		}, "\n")

	case ErrTypeValidation:
		return "The entered values are invalid. Check the error message for details."

	default:
		return "An error occurred. Please check the error message for details."
	}
}

// GetShortErrorMessage returns a concise, user-friendly error message
func GetShortErrorMessage(err error) string {
	var devErr *DeviceError
	if !errors.As(err, &devErr) {
		return err.Error()
	}

	switch devErr.Type {
	case ErrTypeTimeout:
		return "Device not responding (timeout)"
	case ErrTypeConnectionRefused:
		return "Device refused connection - is TR-064 enabled?"
	case ErrTypeDNS:
		return "Cannot resolve device hostname"
	case ErrTypeTLS:
		return "Encrypted channel failed"
	case ErrTypeAuth:
		return "Authentication failed - check credentials"
	case ErrTypeNetwork:
		switch devErr.NetworkSubtype {
		case NetworkErrorHostUnreachable:
			return "Device unreachable - check network connection"
		case NetworkErrorNetworkUnreachable:
			return "Network unreachable - check connection"
		default:
			return "Network error - check connection"
		}
	case ErrTypeHTTP:
		return fmt.Sprintf("Device error (HTTP %d)", devErr.StatusCode)
	case ErrTypeParse:
		return "Failed to parse device response"
	case ErrTypeSOAPFault:
		if devErr.FaultCode != 0 {
			return fmt.Sprintf("SOAP fault %d: %s", devErr.FaultCode, devErr.Message)
		}
		return "SOAP fault: " + devErr.Message
	default:
		return devErr.Message
	}
}
