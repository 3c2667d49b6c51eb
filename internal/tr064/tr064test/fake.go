// Package tr064test provides in-memory sessions and connectors for tests.
package tr064test

import (
	"context"
	"sync"

	"github.com/muurk/tr064-debug/internal/tr064"
)

// Call records one Invoke
type Call struct {
	Service string
	Action  string
	Args    []tr064.Argument
}

// Session is a scripted tr064.Session
type Session struct {
	Name     string
	Model    string
	Prof     tr064.ConnectionProfile
	Services tr064.ServiceCatalog

	// Results and Errors are keyed by action name
	Results map[string]tr064.Result
	Errors  map[string]error

	mu    sync.Mutex
	calls []Call
}

// NewSession creates a session reporting name and exposing catalog
func NewSession(name string, catalog tr064.ServiceCatalog) *Session {
	return &Session{
		Name:     name,
		Services: catalog,
		Results:  map[string]tr064.Result{},
		Errors:   map[string]error{},
	}
}

func (s *Session) FriendlyName() string             { return s.Name }
func (s *Session) Profile() tr064.ConnectionProfile { return s.Prof }
func (s *Session) Catalog() tr064.ServiceCatalog    { return s.Services }
func (s *Session) ModelName() string                { return s.Model }

// Invoke records the call and returns the scripted outcome
func (s *Session) Invoke(ctx context.Context, service, action string, args []tr064.Argument) (tr064.Result, error) {
	s.mu.Lock()
	s.calls = append(s.calls, Call{Service: service, Action: action, Args: args})
	s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return tr064.Result{}, err
	}
	if _, err := s.Services.Action(service, action); err != nil {
		return tr064.Result{}, tr064.NewNotFoundError(err)
	}
	if err, ok := s.Errors[action]; ok {
		return tr064.Result{}, err
	}
	if res, ok := s.Results[action]; ok {
		return res, nil
	}
	return tr064.Result{Action: action + "Response"}, nil
}

// Calls returns all recorded invocations
func (s *Session) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}

// Connector hands out sessions keyed by host
type Connector struct {
	Sessions map[string]*Session
	Errors   map[string]error

	mu       sync.Mutex
	profiles []tr064.ConnectionProfile
}

// NewConnector creates an empty connector
func NewConnector() *Connector {
	return &Connector{
		Sessions: map[string]*Session{},
		Errors:   map[string]error{},
	}
}

// Connect implements tr064.Connector
func (c *Connector) Connect(ctx context.Context, profile tr064.ConnectionProfile) (tr064.Session, error) {
	c.mu.Lock()
	c.profiles = append(c.profiles, profile)
	c.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err, ok := c.Errors[profile.Host]; ok {
		return nil, err
	}
	s, ok := c.Sessions[profile.Host]
	if !ok {
		return nil, tr064.ClassifyNetworkError(errUnreachable, profile.Host)
	}
	s.Prof = profile
	return s, nil
}

// Profiles returns every profile Connect was called with
func (c *Connector) Profiles() []tr064.ConnectionProfile {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]tr064.ConnectionProfile(nil), c.profiles...)
}

type unreachableError struct{}

func (unreachableError) Error() string { return "no route to host" }

var errUnreachable error = unreachableError{}

// Catalog builds a catalog from service name -> actions
func Catalog(services ...tr064.ServiceDescriptor) tr064.ServiceCatalog {
	return tr064.ServiceCatalog{Services: services}
}

// Service builds a service descriptor
func Service(name string, actions ...tr064.ActionDescriptor) tr064.ServiceDescriptor {
	return tr064.ServiceDescriptor{
		Name:        name,
		ServiceType: "urn:dslforum-org:service:" + name,
		Actions:     actions,
	}
}

// Action builds an action descriptor
func Action(name string, in, out []string) tr064.ActionDescriptor {
	return tr064.ActionDescriptor{Name: name, InArgs: in, OutArgs: out}
}
