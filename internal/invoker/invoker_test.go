package invoker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/muurk/tr064-debug/internal/prompt"
	"github.com/muurk/tr064-debug/internal/prompt/prompttest"
	"github.com/muurk/tr064-debug/internal/tr064"
	"github.com/muurk/tr064-debug/internal/tr064/tr064test"
)

func testSession() *tr064test.Session {
	return tr064test.NewSession("FRITZ!Box 7590", tr064test.Catalog(
		tr064test.Service("DeviceInfo1",
			tr064test.Action("Reboot", nil, nil),
			tr064test.Action("GetInfo", nil, []string{"NewManufacturerName", "NewModelName"}),
		),
		tr064test.Service("LANConfigSecurity1",
			tr064test.Action("SetConfigPassword", []string{"NewPassword"}, nil),
		),
		tr064test.Service("Hosts1",
			tr064test.Action("GetSpecificHostEntry", []string{"NewMACAddress", "X_Extra"}, []string{"NewIPAddress"}),
		),
	))
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		action tr064.ActionDescriptor
		want   Shape
	}{
		{"none", tr064test.Action("Reboot", nil, nil), ShapeNoArgs},
		{"out only", tr064test.Action("GetInfo", nil, []string{"NewModelName"}), ShapeOutArgs},
		{"in only", tr064test.Action("SetEnable", []string{"NewEnable"}, nil), ShapeInArgs},
		{"in and out", tr064test.Action("GetGenericHostEntry", []string{"NewIndex"}, []string{"NewIPAddress"}), ShapeInArgs},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.action); got != tt.want {
				t.Errorf("Classify() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPromptLabel(t *testing.T) {
	tests := []struct {
		arg, want string
	}{
		{"NewPassword", "Password:"},
		{"NewX_AVM-DE_WLANGlobalEnable", "X_AVM-DE_WLANGlobalEnable:"},
		{"X_Extra", "X_Extra:"},
		{"New", "New:"},
		{"Newsletter", "sletter:"},
	}

	for _, tt := range tests {
		if got := PromptLabel(tt.arg); got != tt.want {
			t.Errorf("PromptLabel(%q) = %q, want %q", tt.arg, got, tt.want)
		}
	}
}

func TestInvoke_NoParameters(t *testing.T) {
	for _, action := range []string{"Reboot", "GetInfo"} {
		t.Run(action, func(t *testing.T) {
			session := testSession()
			script := prompttest.New()

			report, err := New().Invoke(context.Background(), session, script, "DeviceInfo1", action)
			if err != nil {
				t.Fatalf("Invoke() error = %v", err)
			}
			if !report.OK() {
				t.Fatalf("report.Err = %v", report.Err)
			}
			if report.Action != action {
				t.Errorf("report.Action = %q, want %q", report.Action, action)
			}

			calls := session.Calls()
			if len(calls) != 1 || len(calls[0].Args) != 0 {
				t.Errorf("calls = %+v, want one call without parameters", calls)
			}
			if len(script.Asked()) != 0 {
				t.Errorf("no questions expected, got %d", len(script.Asked()))
			}
		})
	}
}

func TestInvoke_PasswordArgument(t *testing.T) {
	session := testSession()
	script := prompttest.New("hunter2")

	report, err := New().Invoke(context.Background(), session, script, "LANConfigSecurity1", "SetConfigPassword")
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}

	asked := script.Asked()
	if len(asked) != 1 || asked[0].Message != "Password:" || asked[0].Name != "NewPassword" {
		t.Fatalf("asked = %+v, want one question labelled Password:", asked)
	}

	calls := session.Calls()
	if len(calls) != 1 {
		t.Fatalf("calls = %d, want 1", len(calls))
	}
	want := []tr064.Argument{{Name: "NewPassword", Value: "hunter2"}}
	if len(calls[0].Args) != 1 || calls[0].Args[0] != want[0] {
		t.Errorf("Args = %+v, want %+v", calls[0].Args, want)
	}
	if report.Shape != ShapeInArgs {
		t.Errorf("Shape = %v", report.Shape)
	}
}

func TestInvoke_ArgumentOrderAndFreshQuestions(t *testing.T) {
	session := testSession()
	script := prompttest.New("AA:BB:CC:DD:EE:FF", "x", "11:22:33:44:55:66", "y")
	inv := New()

	for i := 0; i < 2; i++ {
		if _, err := inv.Invoke(context.Background(), session, script, "Hosts1", "GetSpecificHostEntry"); err != nil {
			t.Fatalf("Invoke() error = %v", err)
		}
	}

	asked := script.Asked()
	if len(asked) != 4 {
		t.Fatalf("asked %d questions, want 4", len(asked))
	}
	if asked[0].Message != "MACAddress:" || asked[1].Message != "X_Extra:" {
		t.Errorf("labels = %q, %q", asked[0].Message, asked[1].Message)
	}

	calls := session.Calls()
	if calls[1].Args[0].Value != "11:22:33:44:55:66" || calls[1].Args[1].Name != "X_Extra" {
		t.Errorf("second call args = %+v", calls[1].Args)
	}
}

func TestInvoke_DeviceError(t *testing.T) {
	session := testSession()
	fault := &tr064.DeviceError{Type: tr064.ErrTypeSOAPFault, FaultCode: 401, Message: "Invalid Action"}
	session.Errors["Reboot"] = fault

	report, err := New().Invoke(context.Background(), session, prompttest.New(), "DeviceInfo1", "Reboot")
	if err != nil {
		t.Fatalf("Invoke() error = %v, device errors belong in the report", err)
	}
	if !errors.Is(report.Err, fault) {
		t.Errorf("report.Err = %v, want the fault", report.Err)
	}
}

func TestInvoke_UnknownAction(t *testing.T) {
	session := testSession()

	report, err := New().Invoke(context.Background(), session, prompttest.New(), "DeviceInfo1", "SelfDestruct")
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
	if !errors.Is(report.Err, tr064.ErrNotFound) {
		t.Errorf("report.Err = %v, want ErrNotFound", report.Err)
	}
	if len(session.Calls()) != 0 {
		t.Error("unknown action must not be invoked")
	}
}

func TestInvoke_PromptAborted(t *testing.T) {
	session := testSession()

	_, err := New().Invoke(context.Background(), session, prompttest.New(), "LANConfigSecurity1", "SetConfigPassword")
	if !errors.Is(err, prompt.ErrAborted) {
		t.Errorf("Invoke() error = %v, want ErrAborted", err)
	}
	if len(session.Calls()) != 0 {
		t.Error("aborted prompt must not invoke the action")
	}
}

func TestInvoke_Duration(t *testing.T) {
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	ticks := []time.Time{base, base.Add(150 * time.Millisecond)}
	inv := &Invoker{Now: func() time.Time {
		t := ticks[0]
		ticks = ticks[1:]
		return t
	}}

	report, err := inv.Invoke(context.Background(), testSession(), prompttest.New(), "DeviceInfo1", "GetInfo")
	if err != nil {
		t.Fatal(err)
	}
	if report.Duration != 150*time.Millisecond {
		t.Errorf("Duration = %v, want 150ms", report.Duration)
	}
}
