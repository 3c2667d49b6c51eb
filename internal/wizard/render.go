package wizard

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/muurk/tr064-debug/internal/discovery"
	"github.com/muurk/tr064-debug/internal/invoker"
	"github.com/muurk/tr064-debug/internal/tr064"
	"github.com/muurk/tr064-debug/internal/ui"
)

// payloadMaxLines caps raw SOAP bodies printed after a result
const payloadMaxLines = 40

// Renderer shows everything the navigator prints between prompts
type Renderer interface {
	// Connecting starts the connect progress display and returns the
	// observer that reports the connect phases.
	Connecting(profile tr064.ConnectionProfile) tr064.StepObserver
	Connected(session tr064.Session, savedAs string)
	ConnectFailed(profile tr064.ConnectionProfile, err error)

	Report(report invoker.Report)
	Profile(name string, profile tr064.ConnectionProfile, showPassword bool)
	Removed(name string, removed bool)
	Devices(devices []*discovery.Device)

	Notice(message string)
	Warning(title string, err error)
	Farewell()
}

// TerminalRenderer renders with the ui components
type TerminalRenderer struct {
	printer *ui.Printer
	runner  *ui.StepRunner
}

// NewTerminalRenderer creates a renderer writing to w
func NewTerminalRenderer(w io.Writer) *TerminalRenderer {
	return &TerminalRenderer{printer: ui.NewPrinter(w)}
}

// SetWidth overrides the detected terminal width
func (r *TerminalRenderer) SetWidth(width int) *TerminalRenderer {
	r.printer.SetWidth(width)
	return r
}

// Connecting implements Renderer
func (r *TerminalRenderer) Connecting(profile tr064.ConnectionProfile) tr064.StepObserver {
	names := make([]string, len(tr064.ConnectSteps))
	for i, step := range tr064.ConnectSteps {
		names[i] = step.String()
	}

	r.runner = ui.NewStepRunner(ui.StepRunnerConfig{
		Title:     "Connecting",
		Command:   profile.BaseURL(),
		Params:    profileParams(profile, false),
		StepNames: names,
		Output:    r.printer.Writer(),
		Width:     r.printer.Width(),
	})
	r.runner.Start()
	onStep := r.runner.Callback()

	return func(step tr064.ConnectStep, done, skipped bool, err error) {
		number := stepNumber(step)
		switch {
		case skipped:
			onStep(number, "", ui.StepSkipped, "SSL off")
		case !done:
			onStep(number, "", ui.StepRunning, "")
		case err != nil:
			onStep(number, "", ui.StepFailed, tr064.GetShortErrorMessage(err))
		default:
			onStep(number, "", ui.StepComplete, "")
		}
	}
}

func stepNumber(step tr064.ConnectStep) int {
	for i, s := range tr064.ConnectSteps {
		if s == step {
			return i + 1
		}
	}
	return 0
}

// Connected implements Renderer
func (r *TerminalRenderer) Connected(session tr064.Session, savedAs string) {
	catalog := session.Catalog()
	details := []ui.Detail{
		{Key: "Services", Value: strconv.Itoa(len(catalog.Services))},
		{Key: "Actions", Value: strconv.Itoa(catalog.ActionCount())},
	}
	if m, ok := session.(interface{ ModelName() string }); ok && m.ModelName() != "" {
		details = append(details, ui.Detail{Key: "Model", Value: m.ModelName()})
	}
	if enc, ok := session.(interface{ Encrypted() bool }); ok {
		channel := "plain HTTP"
		if enc.Encrypted() {
			channel = "encrypted (HTTPS)"
		}
		details = append(details, ui.Detail{Key: "Channel", Value: channel})
	}
	if savedAs != "" {
		details = append(details, ui.Detail{Key: "Saved as", Value: savedAs})
	}

	title := "Connected to " + session.FriendlyName()
	if r.runner == nil {
		r.printer.PrintSuccess(title, details...)
		return
	}
	r.runner.Succeed(title, details...)
	r.runner = nil
}

// ConnectFailed implements Renderer
func (r *TerminalRenderer) ConnectFailed(profile tr064.ConnectionProfile, err error) {
	tips := ui.SplitHint(tr064.GetTroubleshootingHint(err))
	title := "Connection to " + hostPort(profile)
	if r.runner == nil {
		r.printer.PrintFailure(title, err, tips)
	} else {
		r.runner.Fail(title, err, tips)
		r.runner = nil
	}
	r.printPayload("Raw error response", err)
}

// Report implements Renderer
func (r *TerminalRenderer) Report(report invoker.Report) {
	title := fmt.Sprintf("%s / %s", report.Service, report.Action)

	if report.OK() {
		details := []ui.Detail{
			{Key: "Action", Value: report.Action},
			{Key: "Shape", Value: report.Shape.String()},
		}
		for _, arg := range report.Args {
			details = append(details, ui.Detail{Key: "→ " + arg.Name, Value: arg.Value})
		}
		for _, arg := range report.Result.Args {
			details = append(details, ui.Detail{Key: arg.Name, Value: arg.Value})
		}
		details = append(details, ui.Detail{Key: "Duration", Value: report.Duration.String()})

		r.printer.PrintSuccess(title, details...)
		if report.Result.Raw != "" {
			r.printer.PrintPayload("Raw response", report.Result.Raw, payloadMaxLines)
		}
		return
	}

	r.printer.PrintFailure(title, report.Err, ui.SplitHint(tr064.GetTroubleshootingHint(report.Err)),
		ui.Detail{Key: "Service", Value: report.Service},
		ui.Detail{Key: "Action", Value: report.Action},
	)
	r.printPayload("Raw error response", report.Err)
}

func (r *TerminalRenderer) printPayload(title string, err error) {
	var devErr *tr064.DeviceError
	if errors.As(err, &devErr) && strings.TrimSpace(devErr.Payload) != "" {
		r.printer.PrintPayload(title, devErr.Payload, payloadMaxLines)
	}
}

// Profile implements Renderer
func (r *TerminalRenderer) Profile(name string, profile tr064.ConnectionProfile, showPassword bool) {
	r.printer.PrintHeader(name, profile.BaseURL(), profileParams(profile, showPassword)...)
}

// Removed implements Renderer
func (r *TerminalRenderer) Removed(name string, removed bool) {
	if removed {
		r.printer.PrintSuccess("Credentials removed", ui.Detail{Key: "Device", Value: name})
		return
	}
	r.Notice("No credentials in storage for " + name)
}

// Devices implements Renderer
func (r *TerminalRenderer) Devices(devices []*discovery.Device) {
	params := make([]ui.Param, 0, len(devices))
	for _, d := range devices {
		value := d.Address()
		if d.Model != "" {
			value += "  " + d.Model
		}
		name := d.Name
		if name == "" {
			name = d.IP
		}
		params = append(params, ui.Param{Key: name, Value: value})
	}
	r.printer.PrintHeader(fmt.Sprintf("Found %d device(s)", len(devices)), "ssdp + mdns", params...)
}

// Notice implements Renderer
func (r *TerminalRenderer) Notice(message string) {
	r.printer.PrintMuted(message)
}

// Warning implements Renderer
func (r *TerminalRenderer) Warning(title string, err error) {
	r.printer.PrintWarning(title, ui.Detail{Key: "Error", Value: err.Error()})
}

// Farewell implements Renderer
func (r *TerminalRenderer) Farewell() {
	r.printer.Newline()
	r.printer.PrintMuted("Bye!")
}

func hostPort(profile tr064.ConnectionProfile) string {
	return fmt.Sprintf("%s:%d", profile.Host, profile.Port)
}

// profileParams lists a profile for display; the password is masked unless
// showPassword is set.
func profileParams(profile tr064.ConnectionProfile, showPassword bool) []ui.Param {
	password := MaskPassword(profile.Password)
	if showPassword {
		password = profile.Password
	}
	ssl := "off"
	if profile.UseSSL {
		ssl = "on"
	}
	return []ui.Param{
		{Key: "Host", Value: profile.Host},
		{Key: "Port", Value: strconv.Itoa(profile.Port)},
		{Key: "Username", Value: profile.Username},
		{Key: "Password", Value: password},
		{Key: "Timeout", Value: profile.Timeout().String()},
		{Key: "SSL", Value: ssl},
	}
}

// MaskPassword hides a password, keeping an indication that one is set
func MaskPassword(password string) string {
	if password == "" {
		return "(none)"
	}
	return "********"
}
