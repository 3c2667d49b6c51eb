package tr064

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"

	"github.com/huin/goupnp"
	"github.com/huin/goupnp/scpd"
	"go.uber.org/zap"

	"github.com/muurk/tr064-debug/internal/logging"
)

const (
	// DeviceInfoService is the service that reports the security port
	DeviceInfoService = "urn:dslforum-org:service:DeviceInfo:1"

	// SecurityPortAction returns the HTTPS port of the device
	SecurityPortAction = "GetSecurityPort"

	securityPortArg = "NewSecurityPort"
)

// Session is a connected, authenticated device
type Session interface {
	FriendlyName() string
	Profile() ConnectionProfile
	Catalog() ServiceCatalog
	Invoke(ctx context.Context, service, action string, args []Argument) (Result, error)
}

// Connector opens sessions
type Connector interface {
	Connect(ctx context.Context, profile ConnectionProfile) (Session, error)
}

// ConnectStep identifies a phase of Connect
type ConnectStep int

const (
	StepDescription ConnectStep = iota + 1
	StepServices
	StepEncrypt
	StepLogin
)

// String returns the label shown in the progress list
func (s ConnectStep) String() string {
	switch s {
	case StepDescription:
		return "Fetch device description"
	case StepServices:
		return "Load service descriptions"
	case StepEncrypt:
		return "Open encrypted channel"
	case StepLogin:
		return "Log in"
	default:
		return fmt.Sprintf("ConnectStep(%d)", int(s))
	}
}

// ConnectSteps lists the phases in execution order
var ConnectSteps = []ConnectStep{StepDescription, StepServices, StepEncrypt, StepLogin}

// StepObserver is notified when a connect phase starts (done=false) and when
// it ends (done=true, err set on failure). Skipped phases report done with
// skipped=true.
type StepObserver func(step ConnectStep, done, skipped bool, err error)

// Client connects to TR-064 devices
type Client struct {
	// Observer receives connect progress (optional)
	Observer StepObserver
}

// NewClient creates a new device client
func NewClient() *Client {
	return &Client{}
}

type observerKey struct{}

// WithObserver returns a context whose Connect calls also report progress to
// obs, in addition to the client's own Observer.
func WithObserver(ctx context.Context, obs StepObserver) context.Context {
	return context.WithValue(ctx, observerKey{}, obs)
}

func observerFrom(ctx context.Context) StepObserver {
	obs, _ := ctx.Value(observerKey{}).(StepObserver)
	return obs
}

func (c *Client) notify(ctx context.Context, step ConnectStep, done, skipped bool, err error) {
	if c.Observer != nil {
		c.Observer(step, done, skipped, err)
	}
	if obs := observerFrom(ctx); obs != nil {
		obs(step, done, skipped, err)
	}
}

// run executes one connect phase with progress notifications
func (c *Client) run(ctx context.Context, step ConnectStep, fn func() error) error {
	c.notify(ctx, step, false, false, nil)
	err := fn()
	c.notify(ctx, step, true, false, err)
	return err
}

// Connect initializes the device, optionally upgrades to the encrypted
// channel and attaches the profile's credentials.
func (c *Client) Connect(ctx context.Context, profile ConnectionProfile) (Session, error) {
	if err := profile.Validate(); err != nil {
		return nil, err
	}

	dev := &Device{profile: profile}
	plain := newHTTPClient(profile, "", "")

	var root *goupnp.RootDevice
	err := c.run(ctx, StepDescription, func() error {
		var err error
		root, err = fetchDescription(ctx, plain, profile)
		return err
	})
	if err != nil {
		return nil, err
	}
	dev.root = root

	err = c.run(ctx, StepServices, func() error {
		var err error
		dev.catalog, err = buildCatalog(ctx, plain, root, profile.Host)
		return err
	})
	if err != nil {
		return nil, err
	}

	if profile.UseSSL {
		err = c.run(ctx, StepEncrypt, func() error {
			return dev.encrypt(ctx, plain)
		})
		if err != nil {
			return nil, err
		}
	} else {
		c.notify(ctx, StepEncrypt, true, true, nil)
	}

	err = c.run(ctx, StepLogin, func() error {
		dev.httpClient = newHTTPClient(profile, profile.Username, profile.Password)
		return nil
	})
	if err != nil {
		return nil, err
	}

	logging.LogSession(profile.Host, dev.FriendlyName(), "connected")
	return dev, nil
}

// fetchDescription downloads and decodes tr64desc.xml
func fetchDescription(ctx context.Context, hc *http.Client, profile ConnectionProfile) (*goupnp.RootDevice, error) {
	loc, err := url.Parse(profile.DescriptionURL())
	if err != nil {
		return nil, NewValidationError(fmt.Sprintf("invalid device address: %v", err))
	}

	root := new(goupnp.RootDevice)
	if err := getXML(ctx, hc, loc.String(), profile.Host, root); err != nil {
		return nil, err
	}

	base := loc
	if root.URLBaseStr != "" {
		if override, err := url.Parse(root.URLBaseStr); err == nil {
			base = override
		}
	}
	root.SetURLBase(base)
	return root, nil
}

// buildCatalog fetches the SCPD of every service of the device tree
func buildCatalog(ctx context.Context, hc *http.Client, root *goupnp.RootDevice, host string) (ServiceCatalog, error) {
	var services []*goupnp.Service
	root.Device.VisitServices(func(srv *goupnp.Service) {
		services = append(services, srv)
	})

	catalog := ServiceCatalog{Services: make([]ServiceDescriptor, 0, len(services))}
	for _, srv := range services {
		if err := ctx.Err(); err != nil {
			return ServiceCatalog{}, err
		}

		desc := ServiceDescriptor{
			Name:        ShortServiceName(srv.ServiceId, srv.ServiceType),
			ServiceType: srv.ServiceType,
			ControlURL:  srv.ControlURL.URL,
		}

		doc := new(scpd.SCPD)
		if err := getXML(ctx, hc, srv.SCPDURL.URL.String(), host, doc); err != nil {
			if IsNetworkError(err) {
				return ServiceCatalog{}, err
			}
			logging.Warn("Skipping actions of service",
				zap.String("service", desc.Name),
				zap.Error(err),
			)
		} else {
			doc.Clean()
			for _, action := range doc.Actions {
				desc.Actions = append(desc.Actions, NewActionDescriptor(action))
			}
		}
		catalog.Services = append(catalog.Services, desc)
	}

	logging.Debug("Service catalog loaded",
		zap.Int("services", len(catalog.Services)),
		zap.Int("actions", catalog.ActionCount()),
	)
	return catalog, nil
}

// getXML performs a GET request and decodes the XML body into v
func getXML(ctx context.Context, hc *http.Client, target, host string, v interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := hc.Do(req)
	if err != nil {
		return ClassifyNetworkError(err, host)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return NewAuthError(fmt.Sprintf("device requires authentication for %s", req.URL.Path))
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxCapturedBody))
		herr := NewHTTPError(resp.StatusCode, fmt.Sprintf("GET %s returned %s", req.URL.Path, resp.Status))
		herr.Payload = string(body)
		return herr
	}

	if err := xml.NewDecoder(resp.Body).Decode(v); err != nil {
		return NewParseError(fmt.Sprintf("failed to decode %s", req.URL.Path), err)
	}
	return nil
}

// rebase moves a control URL onto the encrypted channel
func rebase(u url.URL, host string, port int) url.URL {
	u.Scheme = "https"
	u.Host = net.JoinHostPort(host, strconv.Itoa(port))
	return u
}

// parseSecurityPort extracts the security port from a GetSecurityPort result
func parseSecurityPort(res Result) (int, error) {
	raw, ok := res.Get(securityPortArg)
	if !ok {
		return 0, NewParseError(fmt.Sprintf("%s missing in %s response", securityPortArg, SecurityPortAction), nil)
	}
	port, err := strconv.Atoi(raw)
	if err != nil || ValidatePort(port) != nil {
		return 0, NewParseError(fmt.Sprintf("invalid security port %q", raw), err)
	}
	return port, nil
}
