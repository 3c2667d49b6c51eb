package wizard

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/muurk/tr064-debug/internal/config"
	"github.com/muurk/tr064-debug/internal/discovery"
	"github.com/muurk/tr064-debug/internal/invoker"
	"github.com/muurk/tr064-debug/internal/logging"
	"github.com/muurk/tr064-debug/internal/prompt"
	"github.com/muurk/tr064-debug/internal/store"
	"github.com/muurk/tr064-debug/internal/tr064"
)

// Scanner finds devices on the local network
type Scanner interface {
	Scan(ctx context.Context) ([]*discovery.Device, error)
}

// Options configures a Navigator
type Options struct {
	Store     store.Store
	Connector tr064.Connector
	Prompter  prompt.Prompter
	Renderer  Renderer

	// Invoker defaults to invoker.New()
	Invoker *invoker.Invoker

	// Scanner backs "Discover devices"; nil disables discovery
	Scanner Scanner

	// Registry provides Add-device defaults and remembers the last device.
	// Defaults to config.NewRegistry().
	Registry *config.Registry

	// SaveRegistry persists the registry after the last device changed (optional)
	SaveRegistry func(*config.Registry) error

	// ShowPasswords reveals passwords on the credentials screen
	ShowPasswords bool

	// Start is the first screen (default StateMain)
	Start State
}

// Navigator drives the interactive menu. It holds the navigation state and
// the connected session for one interactive run.
type Navigator struct {
	store         store.Store
	connector     tr064.Connector
	prompter      prompt.Prompter
	render        Renderer
	invoker       *invoker.Invoker
	scanner       Scanner
	registry      *config.Registry
	saveRegistry  func(*config.Registry) error
	showPasswords bool

	state   State
	session tr064.Session
	service string
	action  string

	// pre-filled Add-device answers from discovery
	pendingHost string
	pendingPort int
}

// New creates a navigator
func New(opts Options) (*Navigator, error) {
	if opts.Store == nil {
		return nil, errors.New("wizard: store is required")
	}
	if opts.Connector == nil {
		return nil, errors.New("wizard: connector is required")
	}
	if opts.Prompter == nil {
		return nil, errors.New("wizard: prompter is required")
	}
	if opts.Renderer == nil {
		return nil, errors.New("wizard: renderer is required")
	}

	inv := opts.Invoker
	if inv == nil {
		inv = invoker.New()
	}
	registry := opts.Registry
	if registry == nil {
		registry = config.NewRegistry()
	}

	return &Navigator{
		store:         opts.Store,
		connector:     opts.Connector,
		prompter:      opts.Prompter,
		render:        opts.Renderer,
		invoker:       inv,
		scanner:       opts.Scanner,
		registry:      registry,
		saveRegistry:  opts.SaveRegistry,
		showPasswords: opts.ShowPasswords,
		state:         opts.Start,
	}, nil
}

// State returns the screen shown by the next Step
func (n *Navigator) State() State {
	return n.state
}

// Session returns the connected device, or nil
func (n *Navigator) Session() tr064.Session {
	return n.session
}

// Service returns the selected service
func (n *Navigator) Service() string {
	return n.service
}

// Action returns the selected action
func (n *Navigator) Action() string {
	return n.action
}

// Done reports whether the operator chose Exit
func (n *Navigator) Done() bool {
	return n.state == StateExit
}

// Run steps through screens until the operator exits, input ends or ctx is
// cancelled. Ending input or an interrupt is not an error.
func (n *Navigator) Run(ctx context.Context) error {
	for !n.Done() {
		if err := n.Step(ctx); err != nil {
			if errors.Is(err, prompt.ErrAborted) || errors.Is(err, context.Canceled) {
				break
			}
			return err
		}
	}
	n.render.Farewell()
	return nil
}

// Step shows exactly one screen and moves to the next state. The only
// errors returned are prompt failures and context cancellation; device and
// store failures are rendered and the menu continues.
func (n *Navigator) Step(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	from := n.state
	var err error
	switch n.state {
	case StateMain:
		err = n.mainMenu(ctx)
	case StateDeviceSelect:
		err = n.deviceSelect(ctx)
	case StateAddDevice:
		err = n.addDevice(ctx)
	case StateDiscover:
		err = n.discover(ctx)
	case StateShowCredentials:
		err = n.showCredentials(ctx)
	case StateRemoveCredentials:
		err = n.removeCredentials(ctx)
	case StateServiceSelect:
		err = n.serviceSelect(ctx)
	case StateActionSelect:
		err = n.actionSelect(ctx)
	case StateArgumentEntry, StateInvoking:
		err = n.invoke(ctx)
	case StateExit:
		return nil
	default:
		n.state = StateMain
	}

	logging.Debug("Screen done",
		zap.Stringer("from", from),
		zap.Stringer("to", n.state),
		zap.Error(err),
	)
	return err
}

// choose asks a single-choice question. Sub-screens get a Back entry.
func (n *Navigator) choose(ctx context.Context, message string, choices []string, def string, back bool) (string, error) {
	if back {
		choices = withBack(choices)
	}
	q := prompt.Select("choice", message, choices)
	q.Default = def

	answers, err := n.prompter.Ask(ctx, []prompt.Question{q})
	if err != nil {
		return "", err
	}
	return answers.String("choice"), nil
}

func (n *Navigator) mainMenu(ctx context.Context) error {
	choice, err := n.choose(ctx, "What do you want to do?", mainChoices, "", false)
	if err != nil {
		return err
	}

	switch choice {
	case ChoiceSelectDevice:
		n.state = StateDeviceSelect
	case ChoiceAddDevice:
		n.state = StateAddDevice
	case ChoiceDiscover:
		n.state = StateDiscover
	case ChoiceShowCredentials:
		n.state = StateShowCredentials
	case ChoiceRemoveCredentials:
		n.state = StateRemoveCredentials
	case ChoiceExit:
		n.state = StateExit
	}
	return nil
}

func (n *Navigator) deviceSelect(ctx context.Context) error {
	names := n.store.Keys()
	if len(names) == 0 {
		n.render.Notice(fmt.Sprintf("No stored devices. Choose %q first.", ChoiceAddDevice))
		n.state = StateMain
		return nil
	}

	def := ""
	if last := n.registry.LastDeviceName(); last != "" {
		if _, ok := n.store.Get(last); ok {
			def = last
		}
	}

	choice, err := n.choose(ctx, "Select the device to debug:", names, def, true)
	if err != nil {
		return err
	}
	if choice == ChoiceBack {
		n.state = parent(StateDeviceSelect)
		return nil
	}

	profile, ok := n.store.Get(choice)
	if !ok {
		n.render.Notice(fmt.Sprintf("%q is no longer stored.", choice))
		n.state = StateMain
		return nil
	}
	return n.connect(ctx, profile, false)
}

// addDeviceQuestions builds the Add-device prompt from the preferences
func (n *Navigator) addDeviceQuestions() []prompt.Question {
	defaults := config.DefaultPreferences().Defaults
	if n.registry.Preferences != nil && n.registry.Preferences.Defaults != nil {
		defaults = n.registry.Preferences.Defaults
	}

	port := defaults.Port
	if n.pendingPort != 0 {
		port = n.pendingPort
	}

	host := prompt.Input("host", "IP address:")
	host.Default = n.pendingHost
	host.Validate = prompt.IPv4

	portQ := prompt.Input("port", "Port:")
	portQ.Default = strconv.Itoa(port)
	portQ.Validate = prompt.Port

	user := prompt.Input("username", "Username:")
	user.Default = defaults.Username

	timeout := prompt.Input("timeout", "Timeout (s):")
	timeout.Default = strconv.Itoa(defaults.TimeoutMs / 1000)
	timeout.Validate = prompt.NonNegative

	return []prompt.Question{
		host,
		portQ,
		user,
		prompt.Password("password", "Password:"),
		timeout,
		prompt.Confirm("ssl", "Encrypted connection (SSL)?", defaults.UseSSL),
		prompt.Confirm("store", "Save credentials after connecting?", true),
	}
}

// AskProfile runs the Add-device questions and returns the profile and
// whether it should be stored.
func (n *Navigator) AskProfile(ctx context.Context) (tr064.ConnectionProfile, bool, error) {
	answers, err := n.prompter.Ask(ctx, n.addDeviceQuestions())
	if err != nil {
		return tr064.ConnectionProfile{}, false, err
	}

	port, err := answers.Int("port")
	if err != nil {
		return tr064.ConnectionProfile{}, false, err
	}
	timeout, err := answers.Int("timeout")
	if err != nil {
		return tr064.ConnectionProfile{}, false, err
	}

	profile := tr064.ConnectionProfile{
		Host:      answers.String("host"),
		Port:      port,
		Username:  answers.String("username"),
		Password:  answers.String("password"),
		TimeoutMs: timeout * 1000,
		UseSSL:    answers.Bool("ssl"),
	}
	return profile, answers.Bool("store"), nil
}

func (n *Navigator) addDevice(ctx context.Context) error {
	profile, persist, err := n.AskProfile(ctx)
	if err != nil {
		return err
	}
	n.pendingHost, n.pendingPort = "", 0
	return n.connect(ctx, profile, persist)
}

// connect opens a session; with persist the profile is stored under the
// name the device reports for itself.
func (n *Navigator) connect(ctx context.Context, profile tr064.ConnectionProfile, persist bool) error {
	observer := n.render.Connecting(profile)
	session, err := n.connector.Connect(tr064.WithObserver(ctx, observer), profile)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		n.render.ConnectFailed(profile, err)
		n.state = StateMain
		return nil
	}

	n.session = session
	n.service, n.action = "", ""

	name := session.FriendlyName()
	saved := ""
	if persist {
		if err := n.store.Set(name, profile); err != nil {
			n.render.Warning("Credentials not saved", err)
		} else {
			saved = name
		}
	}
	n.render.Connected(session, saved)

	if _, ok := n.store.Get(name); ok {
		n.rememberDevice(name)
	}
	n.state = StateServiceSelect
	return nil
}

func (n *Navigator) rememberDevice(name string) {
	n.registry.RecordLastDevice(name)
	if n.saveRegistry == nil {
		return
	}
	if err := n.saveRegistry(n.registry); err != nil {
		logging.Warn("Failed to save preferences", zap.Error(err))
	}
}

func (n *Navigator) discover(ctx context.Context) error {
	if n.scanner == nil {
		n.render.Notice("Discovery is not available.")
		n.state = StateMain
		return nil
	}

	n.render.Notice("Searching the local network for TR-064 devices...")
	devices, err := n.scanner.Scan(ctx)
	if err != nil {
		if errors.Is(err, prompt.ErrAborted) {
			return err
		}
		if errors.Is(ctx.Err(), context.Canceled) {
			return ctx.Err()
		}
		n.render.Warning("Discovery failed", err)
		n.state = StateMain
		return nil
	}
	if len(devices) == 0 {
		n.render.Notice("No devices found.")
		n.state = StateMain
		return nil
	}

	n.render.Devices(devices)
	labels := make([]string, len(devices))
	for i, d := range devices {
		labels[i] = d.String()
	}

	choice, err := n.choose(ctx, "Select a device to add:", labels, "", true)
	if err != nil {
		return err
	}
	if choice == ChoiceBack {
		n.state = parent(StateDiscover)
		return nil
	}

	for i, label := range labels {
		if label == choice {
			n.pendingHost = devices[i].IP
			n.pendingPort = devices[i].Port
			break
		}
	}
	n.state = StateAddDevice
	return nil
}

func (n *Navigator) showCredentials(ctx context.Context) error {
	names := n.store.Keys()
	if len(names) == 0 {
		n.render.Notice("No credentials in storage.")
		n.state = StateMain
		return nil
	}

	choice, err := n.choose(ctx, "Select the credentials to show:", names, "", true)
	if err != nil {
		return err
	}
	if choice == ChoiceBack {
		n.state = parent(StateShowCredentials)
		return nil
	}

	if profile, ok := n.store.Get(choice); ok {
		n.render.Profile(choice, profile, n.showPasswords)
	}
	return nil
}

func (n *Navigator) removeCredentials(ctx context.Context) error {
	names := n.store.Keys()
	if len(names) == 0 {
		n.render.Notice("No credentials in storage.")
		n.state = StateMain
		return nil
	}

	choice, err := n.choose(ctx, "Select the credentials to remove:", names, "", true)
	if err != nil {
		return err
	}
	if choice == ChoiceBack {
		n.state = parent(StateRemoveCredentials)
		return nil
	}

	answers, err := n.prompter.Ask(ctx, []prompt.Question{
		prompt.Confirm("confirm", fmt.Sprintf("Remove %q?", choice), false),
	})
	if err != nil {
		return err
	}
	if !answers.Bool("confirm") {
		return nil
	}

	_, removed, err := n.store.Remove(choice)
	if err != nil {
		n.render.Warning("Credentials not removed", err)
		return nil
	}
	n.render.Removed(choice, removed)
	if removed && n.session != nil && n.session.FriendlyName() == choice {
		n.session = nil
	}
	n.state = StateMain
	return nil
}

func (n *Navigator) serviceSelect(ctx context.Context) error {
	if n.session == nil {
		n.state = StateDeviceSelect
		return nil
	}

	names := n.session.Catalog().ServiceNames()
	if len(names) == 0 {
		n.render.Notice(fmt.Sprintf("%s exposes no services.", n.session.FriendlyName()))
		n.state = parent(StateServiceSelect)
		return nil
	}

	choice, err := n.choose(ctx, "Select the service you want to debug:", names, n.service, true)
	if err != nil {
		return err
	}
	if choice == ChoiceBack {
		n.state = parent(StateServiceSelect)
		return nil
	}

	n.service = choice
	n.action = ""
	n.state = StateActionSelect
	return nil
}

func (n *Navigator) actionSelect(ctx context.Context) error {
	if n.session == nil {
		n.state = StateDeviceSelect
		return nil
	}

	svc, err := n.session.Catalog().Service(n.service)
	if err != nil {
		n.render.Warning("Service unavailable", err)
		n.state = StateServiceSelect
		return nil
	}
	names := svc.ActionNames()
	if len(names) == 0 {
		n.render.Notice(fmt.Sprintf("%s declares no actions.", svc.Name))
		n.state = parent(StateActionSelect)
		return nil
	}

	choice, err := n.choose(ctx, "Select the action you want to debug:", names, n.action, true)
	if err != nil {
		return err
	}
	if choice == ChoiceBack {
		n.state = parent(StateActionSelect)
		return nil
	}

	n.action = choice
	n.state = StateInvoking
	if desc, err := svc.Action(choice); err == nil && invoker.Classify(desc) == invoker.ShapeInArgs {
		n.state = StateArgumentEntry
	}
	return nil
}

// invoke runs the selected action and always returns to ACTION_SELECT
func (n *Navigator) invoke(ctx context.Context) error {
	if n.session == nil {
		n.state = StateDeviceSelect
		return nil
	}

	report, err := n.invoker.Invoke(ctx, n.session, n.prompter, n.service, n.action)
	if err != nil {
		return err
	}
	n.render.Report(report)
	n.state = StateActionSelect
	return nil
}
