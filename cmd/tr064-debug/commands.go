package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/muurk/tr064-debug/internal/config"
	"github.com/muurk/tr064-debug/internal/discovery"
	"github.com/muurk/tr064-debug/internal/logging"
	"github.com/muurk/tr064-debug/internal/prompt"
	"github.com/muurk/tr064-debug/internal/store"
	"github.com/muurk/tr064-debug/internal/tr064"
	"github.com/muurk/tr064-debug/internal/ui"
	"github.com/muurk/tr064-debug/internal/version"
	"github.com/muurk/tr064-debug/internal/wizard"
	"github.com/muurk/tr064-debug/internal/wizard/tui"
)

// Command flags
var (
	showPasswords bool
	assumeYes     bool
	scanTimeout   int
)

func init() {
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(restartCmd)
	rootCmd.AddCommand(credentialsCmd)
	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(scanCmd)
}

// startCmd runs the interactive menu
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the interactive menu",
	Long: `Start the interactive menu.

From the main menu you can connect to a stored device, add a new device,
discover devices on the local network, and show or remove stored
credentials. Once connected, pick a service and an action to invoke it.`,
	Example: `  # Start the menu (same as running without a command)
  tr064-debug start

  # Use a credential store in the current directory
  tr064-debug start --store ./credentials.yaml

  # Line-mode prompts, debug log written to a file
  tr064-debug start --plain --log-level debug --log-file tr064.log`,
	RunE: runStart,
}

func runStart(cmd *cobra.Command, args []string) error {
	return runNavigator(cmd, wizard.StateMain)
}

// restartCmd asks for a fresh profile and enters the menu for it
var restartCmd = &cobra.Command{
	Use:   "restart",
	Short: "Enter a new connection profile and start the menu",
	Long: `Prompt for a new connection profile (host, port, credentials, timeout
and SSL), connect, and continue in the interactive menu.

The profile is stored under the name the device reports if you choose to.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runNavigator(cmd, wizard.StateAddDevice)
	},
}

// credentialsCmd lists stored connection profiles
var credentialsCmd = &cobra.Command{
	Use:   "credentials",
	Short: "Show stored device credentials",
	Long: `Print every connection profile in the credential store.

Passwords are masked unless --show-passwords is given.`,
	Example: `  tr064-debug credentials
  tr064-debug credentials --show-passwords`,
	RunE: runCredentials,
}

func init() {
	credentialsCmd.Flags().BoolVar(&showPasswords, "show-passwords", false, "Print passwords in clear text")
}

func runCredentials(cmd *cobra.Command, args []string) error {
	registry := loadRegistry()
	st, err := openStore(registry)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	keys := st.Keys()
	if len(keys) == 0 {
		fmt.Fprintf(out, "No credentials stored in %s\n", st.Path())
		return nil
	}

	renderer := wizard.NewTerminalRenderer(out)
	for _, name := range keys {
		profile, _ := st.Get(name)
		renderer.Profile(name, profile, showPasswords)
	}
	fmt.Fprintf(out, "\n%d device(s) in %s\n", len(keys), st.Path())
	return nil
}

// removeCmd deletes a stored connection profile
var removeCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove stored credentials of a device",
	Long: `Remove the connection profile stored under the given device name.

Use 'tr064-debug credentials' to list the stored names.`,
	Example: `  tr064-debug remove "FRITZ!Box 7590"
  tr064-debug remove "FRITZ!Box 7590" --yes`,
	Args: cobra.ExactArgs(1),
	RunE: runRemove,
}

func init() {
	removeCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Do not ask for confirmation")
}

func runRemove(cmd *cobra.Command, args []string) error {
	name := args[0]

	registry := loadRegistry()
	st, err := openStore(registry)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	renderer := wizard.NewTerminalRenderer(out)

	if _, ok := st.Get(name); !ok {
		renderer.Removed(name, false)
		return nil
	}

	if !assumeYes {
		warnings := []string{fmt.Sprintf("The profile %q will be deleted from %s", name, st.Path())}
		if !ui.Confirm(cmd.InOrStdin(), out, "Remove stored credentials", warnings, "Remove "+name+"?") {
			return nil
		}
	}

	_, removed, err := st.Remove(name)
	if err != nil {
		return fmt.Errorf("failed to remove %s: %w", name, err)
	}
	renderer.Removed(name, removed)
	return nil
}

// scanCmd discovers TR-064 devices on the network
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan for TR-064 devices on the network",
	Long: `Scan for TR-064 devices using SSDP and mDNS discovery.

SSDP searches for InternetGatewayDevice:1 announcements; mDNS looks for
Fritz!Box HTTP services. Results from both are merged per IP address.`,
	Example: `  # Scan with the configured timeout (default 5 seconds)
  tr064-debug scan

  # Longer scan for slow networks
  tr064-debug scan --timeout 15`,
	RunE: runScan,
}

func init() {
	scanCmd.Flags().IntVar(&scanTimeout, "timeout", 0, "Scan timeout in seconds (default from preferences)")
}

func runScan(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	registry := loadRegistry()
	timeout := registry.Preferences.DiscoverDuration()
	if scanTimeout > 0 {
		timeout = time.Duration(scanTimeout) * time.Second
	}

	out := cmd.OutOrStdout()
	scanner := discovery.NewScanner()
	scanner.Timeout = timeout

	var devices []*discovery.Device
	var err error
	if useTUI(registry) {
		devices, err = tui.NewSpinnerScanner(scanner, nil, nil).Scan(ctx)
	} else {
		fmt.Fprintf(out, "Scanning for TR-064 devices (timeout: %s)...\n\n", timeout)
		devices, err = scanner.Scan(ctx)
	}
	if errors.Is(err, prompt.ErrAborted) || errors.Is(ctx.Err(), context.Canceled) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	if len(devices) == 0 {
		fmt.Fprintln(out, "No devices found.")
		fmt.Fprintln(out, "\nTroubleshooting:")
		fmt.Fprintln(out, "  - Ensure TR-064 access is enabled on the device (Home Network > Network > Network Settings)")
		fmt.Fprintln(out, "  - Check that this computer is on the same network segment")
		fmt.Fprintln(out, "  - Try increasing --timeout for slower networks")
		fmt.Fprintln(out, "  - Use 'tr064-debug restart' to enter the address manually")
		return nil
	}

	wizard.NewTerminalRenderer(out).Devices(devices)
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Use 'tr064-debug' and choose \"Add device\" or \"Discover devices\" to connect")
	return nil
}

// runNavigator runs the interactive menu starting at the given screen
func runNavigator(cmd *cobra.Command, start wizard.State) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	registry := loadRegistry()
	st, err := openStore(registry)
	if err != nil {
		return err
	}

	fancy := useTUI(registry)
	prompter, closePrompter, err := newPrompter(registry, fancy)
	if err != nil {
		return err
	}
	defer closePrompter()

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, ui.RenderBanner("tr064-debug", version.Version, "Interactive TR-064 debugging"))
	fmt.Fprintln(out)

	scanner := discovery.NewScanner()
	scanner.Timeout = registry.Preferences.DiscoverDuration()

	var wizardScanner wizard.Scanner = scanner
	if fancy {
		wizardScanner = tui.NewSpinnerScanner(scanner, nil, nil)
	}

	logging.Info("Starting interactive session",
		zap.String("store", st.Path()),
		zap.Bool("tui", fancy),
		zap.String("start", start.String()),
	)

	nav, err := wizard.New(wizard.Options{
		Store:        st,
		Connector:    tr064.NewClient(),
		Prompter:     prompter,
		Renderer:     wizard.NewTerminalRenderer(out),
		Scanner:      wizardScanner,
		Registry:     registry,
		SaveRegistry: (*config.Registry).Save,
		Start:        start,
	})
	if err != nil {
		return err
	}
	return nav.Run(ctx)
}

// loadRegistry returns the user preferences, falling back to the defaults
// when the preferences file cannot be read.
func loadRegistry() *config.Registry {
	registry, err := config.LoadRegistry()
	if err != nil {
		logging.Warn("Using default preferences", zap.Error(err))
		return config.NewRegistry()
	}
	return registry
}

func openStore(registry *config.Registry) (*store.FileStore, error) {
	path, err := registry.StorePath(storePath)
	if err != nil {
		return nil, err
	}
	st, err := store.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open credential store: %w", err)
	}
	return st, nil
}

// useTUI decides between full-screen and line-mode prompts
func useTUI(registry *config.Registry) bool {
	if plainMode {
		return false
	}
	switch registry.Preferences.UIMode {
	case config.UIModePlain:
		return false
	case config.UIModeTUI:
		return true
	}
	return ui.IsTerminal()
}

func newPrompter(registry *config.Registry, fancy bool) (prompt.Prompter, func(), error) {
	if fancy {
		return tui.NewPrompter(nil, nil), func() {}, nil
	}

	lp, err := prompt.NewLinePrompter(prompt.LineConfig{
		HistoryFile: registry.HistoryPath(),
		Stdin:       os.Stdin,
	})
	if err != nil {
		return nil, nil, err
	}
	return lp, func() { _ = lp.Close() }, nil
}
