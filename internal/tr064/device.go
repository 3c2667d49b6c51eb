package tr064

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/huin/goupnp"
	"github.com/huin/goupnp/soap"
	"go.uber.org/zap"

	"github.com/muurk/tr064-debug/internal/logging"
)

// Device is an initialized device session
type Device struct {
	profile    ConnectionProfile
	root       *goupnp.RootDevice
	catalog    ServiceCatalog
	httpClient *http.Client
	encrypted  bool
}

// FriendlyName returns the name the device reports for itself
func (d *Device) FriendlyName() string {
	if d.root != nil {
		if name := strings.TrimSpace(d.root.Device.FriendlyName); name != "" {
			return name
		}
	}
	return d.profile.Host
}

// Profile returns the profile the session was opened with
func (d *Device) Profile() ConnectionProfile {
	return d.profile
}

// Catalog returns the services and actions of the device
func (d *Device) Catalog() ServiceCatalog {
	return d.catalog
}

// Encrypted reports whether control requests use the HTTPS channel
func (d *Device) Encrypted() bool {
	return d.encrypted
}

// ModelName returns the model reported in the device description
func (d *Device) ModelName() string {
	if d.root == nil {
		return ""
	}
	return d.root.Device.ModelName
}

// Invoke calls an action of the device with the given ordered in-arguments.
// With no arguments the action is invoked without parameters.
func (d *Device) Invoke(ctx context.Context, service, action string, args []Argument) (Result, error) {
	svc, err := d.catalog.Service(service)
	if err != nil {
		return Result{}, NewNotFoundError(err)
	}
	if _, err := svc.Action(action); err != nil {
		return Result{}, NewNotFoundError(err)
	}
	return d.call(ctx, d.httpClient, svc, action, args)
}

func (d *Device) call(ctx context.Context, hc *http.Client, svc ServiceDescriptor, action string, args []Argument) (Result, error) {
	client := soap.NewSOAPClient(svc.ControlURL)
	rc, rec := recordingClient(hc)
	client.HTTPClient = *rc

	var out responseArgs
	start := time.Now()
	err := client.PerformActionCtx(ctx, svc.ServiceType, action, encodeInArgs(args), &out)
	logging.LogSOAPAction(svc.Name, action, len(args), time.Since(start), err)

	status, body := rec.last()
	if err != nil {
		return Result{}, d.classifyActionError(ctx, err, status, body)
	}

	return Result{
		Action: out.name,
		Args:   out.args,
		Raw:    string(body),
	}, nil
}

// classifyActionError maps a failed SOAP call onto the error taxonomy
func (d *Device) classifyActionError(ctx context.Context, err error, status int, body []byte) error {
	var fault *soap.SOAPFaultError
	if errors.As(err, &fault) {
		ferr := NewSOAPFaultError(fault)
		ferr.Host = d.profile.Host
		ferr.Payload = string(body)
		return ferr
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("%s: %w", err, ctxErr)
	}

	switch {
	case status == http.StatusUnauthorized:
		aerr := NewAuthError("device rejected the credentials")
		aerr.Host = d.profile.Host
		aerr.Payload = string(body)
		aerr.Err = err
		return aerr
	case status != 0 && status != http.StatusOK:
		herr := NewHTTPError(status, fmt.Sprintf("device answered HTTP %d", status))
		herr.Host = d.profile.Host
		herr.Payload = string(body)
		herr.Err = err
		return herr
	case status == http.StatusOK:
		perr := NewParseError("failed to decode SOAP response", err)
		perr.Host = d.profile.Host
		perr.Payload = string(body)
		return perr
	}

	// no response at all: the request failed in transport
	return ClassifyNetworkError(err, d.profile.Host)
}

// encrypt queries the security port on the plain channel and moves every
// control URL onto HTTPS.
func (d *Device) encrypt(ctx context.Context, plain *http.Client) error {
	svc, err := d.serviceByType(DeviceInfoService)
	if err != nil {
		return NewNotFoundError(err)
	}

	res, err := d.call(ctx, plain, svc, SecurityPortAction, nil)
	if err != nil {
		return err
	}
	port, err := parseSecurityPort(res)
	if err != nil {
		return err
	}

	for i := range d.catalog.Services {
		d.catalog.Services[i].ControlURL = rebase(d.catalog.Services[i].ControlURL, d.profile.Host, port)
	}
	d.encrypted = true

	logging.Debug("Encrypted channel ready",
		zap.String("host", d.profile.Host),
		zap.Int("security_port", port),
	)
	return nil
}

// serviceByType finds a service by its full service type
func (d *Device) serviceByType(serviceType string) (ServiceDescriptor, error) {
	for _, s := range d.catalog.Services {
		if s.ServiceType == serviceType {
			return s, nil
		}
	}
	return ServiceDescriptor{}, fmt.Errorf("service %q: %w", serviceType, ErrNotFound)
}
