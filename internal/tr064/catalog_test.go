package tr064

import (
	"errors"
	"testing"

	"github.com/huin/goupnp/scpd"
)

func TestNewActionDescriptor(t *testing.T) {
	action := scpd.Action{
		Name: "SetConfigPassword",
		Arguments: []scpd.Argument{
			{Name: "NewPassword", Direction: "in"},
			{Name: "NewOldPassword", Direction: " IN "},
			{Name: "NewStatus", Direction: "out"},
		},
	}

	desc := NewActionDescriptor(action)

	if desc.Name != "SetConfigPassword" {
		t.Errorf("Name = %q", desc.Name)
	}
	if len(desc.InArgs) != 2 || desc.InArgs[0] != "NewPassword" || desc.InArgs[1] != "NewOldPassword" {
		t.Errorf("InArgs = %v, want declared order", desc.InArgs)
	}
	if len(desc.OutArgs) != 1 || desc.OutArgs[0] != "NewStatus" {
		t.Errorf("OutArgs = %v", desc.OutArgs)
	}
}

func TestServiceCatalog_Lookup(t *testing.T) {
	catalog := ServiceCatalog{Services: []ServiceDescriptor{
		{Name: "DeviceInfo1", Actions: []ActionDescriptor{{Name: "GetInfo"}, {Name: "Reboot"}}},
		{Name: "Hosts1", Actions: []ActionDescriptor{{Name: "GetHostNumberOfEntries"}}},
		{Name: "DeviceInfo1", Actions: []ActionDescriptor{{Name: "Shadowed"}}},
	}}

	tests := []struct {
		name    string
		service string
		action  string
		wantErr bool
	}{
		{"present", "DeviceInfo1", "Reboot", false},
		{"second service", "Hosts1", "GetHostNumberOfEntries", false},
		{"first match wins", "DeviceInfo1", "Shadowed", true},
		{"unknown service", "WANIPConnection1", "GetInfo", true},
		{"unknown action", "Hosts1", "GetInfo", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := catalog.Action(tt.service, tt.action)
			if tt.wantErr {
				if !errors.Is(err, ErrNotFound) {
					t.Errorf("Action() error = %v, want ErrNotFound", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Action() error = %v", err)
			}
			if got.Name != tt.action {
				t.Errorf("Action() = %q, want %q", got.Name, tt.action)
			}
		})
	}

	if n := catalog.ActionCount(); n != 4 {
		t.Errorf("ActionCount() = %d, want 4", n)
	}
}

func TestShortServiceName(t *testing.T) {
	tests := []struct {
		id, serviceType, want string
	}{
		{"urn:DeviceInfo-com:serviceId:DeviceInfo1", "", "DeviceInfo1"},
		{"DeviceInfo1", "", "DeviceInfo1"},
		{"", "urn:dslforum-org:service:Hosts:1", "urn:dslforum-org:service:Hosts:1"},
		{"urn:broken:", "x", "urn:broken:"},
	}

	for _, tt := range tests {
		if got := ShortServiceName(tt.id, tt.serviceType); got != tt.want {
			t.Errorf("ShortServiceName(%q, %q) = %q, want %q", tt.id, tt.serviceType, got, tt.want)
		}
	}
}

func TestConnectionProfile_Defaults(t *testing.T) {
	p := ConnectionProfile{Host: "192.168.178.1"}

	if p.Timeout() != DefaultTimeout {
		t.Errorf("Timeout() = %v, want %v", p.Timeout(), DefaultTimeout)
	}
	if p.DescriptionURL() != "http://192.168.178.1:49000/tr64desc.xml" {
		t.Errorf("DescriptionURL() = %s", p.DescriptionURL())
	}

	p.TimeoutMs = 1500
	if p.Timeout().Milliseconds() != 1500 {
		t.Errorf("Timeout() = %v, want 1.5s", p.Timeout())
	}
}

func TestResult(t *testing.T) {
	res := Result{Args: []Argument{{Name: "NewEnable", Value: "1"}, {Name: "NewSSID", Value: "home"}}}

	if v, ok := res.Get("NewSSID"); !ok || v != "home" {
		t.Errorf("Get(NewSSID) = %q, %v", v, ok)
	}
	if _, ok := res.Get("NewChannel"); ok {
		t.Error("Get(NewChannel) should be absent")
	}
	if got := res.String(); got != `{ NewEnable: "1", NewSSID: "home" }` {
		t.Errorf("String() = %s", got)
	}
	if got := (Result{}).String(); got != "{}" {
		t.Errorf("empty String() = %s", got)
	}
}
