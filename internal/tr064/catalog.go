package tr064

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/huin/goupnp/scpd"
)

// ErrNotFound is returned (wrapped) when a service or action is not part of
// the device's catalog.
var ErrNotFound = errors.New("not found")

// ActionDescriptor describes one action of a service as declared by the
// device's SCPD.
type ActionDescriptor struct {
	Name    string
	InArgs  []string
	OutArgs []string
}

// NewActionDescriptor builds a descriptor from a parsed SCPD action,
// keeping the declared argument order.
func NewActionDescriptor(action scpd.Action) ActionDescriptor {
	desc := ActionDescriptor{Name: action.Name}
	for _, arg := range action.Arguments {
		switch strings.ToLower(strings.TrimSpace(arg.Direction)) {
		case "in":
			desc.InArgs = append(desc.InArgs, arg.Name)
		case "out":
			desc.OutArgs = append(desc.OutArgs, arg.Name)
		}
	}
	return desc
}

// ServiceDescriptor describes one service of a device
type ServiceDescriptor struct {
	// Name is the short service id used as menu label and lookup key
	// (e.g. "DeviceInfo1")
	Name string

	// ServiceType is the SOAP namespace of the service
	// (e.g. "urn:dslforum-org:service:DeviceInfo:1")
	ServiceType string

	// ControlURL is the absolute SOAP endpoint of the service
	ControlURL url.URL

	// Actions in SCPD order
	Actions []ActionDescriptor
}

// ActionNames returns the action names in catalog order
func (s ServiceDescriptor) ActionNames() []string {
	names := make([]string, len(s.Actions))
	for i, a := range s.Actions {
		names[i] = a.Name
	}
	return names
}

// Action looks up an action by name. The first match wins.
func (s ServiceDescriptor) Action(name string) (ActionDescriptor, error) {
	for _, a := range s.Actions {
		if a.Name == name {
			return a, nil
		}
	}
	return ActionDescriptor{}, fmt.Errorf("action %q in service %q: %w", name, s.Name, ErrNotFound)
}

// ServiceCatalog is the ordered list of services a device exposes
type ServiceCatalog struct {
	Services []ServiceDescriptor
}

// ServiceNames returns the service names in catalog order
func (c ServiceCatalog) ServiceNames() []string {
	names := make([]string, len(c.Services))
	for i, s := range c.Services {
		names[i] = s.Name
	}
	return names
}

// Service looks up a service by name. The first match wins.
func (c ServiceCatalog) Service(name string) (ServiceDescriptor, error) {
	for _, s := range c.Services {
		if s.Name == name {
			return s, nil
		}
	}
	return ServiceDescriptor{}, fmt.Errorf("service %q: %w", name, ErrNotFound)
}

// Action looks up an action within a service
func (c ServiceCatalog) Action(service, action string) (ActionDescriptor, error) {
	svc, err := c.Service(service)
	if err != nil {
		return ActionDescriptor{}, err
	}
	return svc.Action(action)
}

// ActionCount returns the total number of actions across all services
func (c ServiceCatalog) ActionCount() int {
	n := 0
	for _, s := range c.Services {
		n += len(s.Actions)
	}
	return n
}

// ShortServiceName derives the menu name of a service from its serviceId
// ("urn:dslforum-org:serviceId:DeviceInfo1" -> "DeviceInfo1"). When the id is
// empty the service type is used instead.
func ShortServiceName(serviceID, serviceType string) string {
	if id := strings.TrimSpace(serviceID); id != "" {
		if i := strings.LastIndex(id, ":"); i >= 0 && i < len(id)-1 {
			return id[i+1:]
		}
		return id
	}
	return serviceType
}
