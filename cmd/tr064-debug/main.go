// Tr064-debug is an interactive debugger for TR-064 devices such as the
// AVM Fritz!Box.
//
// It connects to a device, lists the services and actions its TR-064
// description publishes, prompts for input arguments and prints the
// device's answer together with the raw SOAP payload. Connection profiles
// can be stored under the device's friendly name for later sessions.
//
// Usage:
//
//	tr064-debug [command] [flags]
//
// Running without arguments starts the interactive menu.
// See 'tr064-debug --help' for available commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/muurk/tr064-debug/internal/logging"
	"github.com/muurk/tr064-debug/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// Global flags
var (
	storePath string
	logLevel  string
	logFile   string
	plainMode bool
)

var rootCmd = &cobra.Command{
	Use:   "tr064-debug",
	Short: "Interactive TR-064 Debugging Utility",
	Long: `An interactive command line tool for debugging TR-064 devices.

Connects to a device (for example an AVM Fritz!Box), lists its services and
actions, asks for the input arguments of an action and prints the result
together with the raw SOAP response.

If no command is specified, the interactive menu will launch automatically.`,
	Version:      version.Version,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return logging.Initialize(logLevel, logFile)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Sync()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default behavior: run the menu when no subcommand provided
		return runStart(cmd, args)
	},
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVar(&storePath, "store", "", "Credential store file (default: credentials.yaml next to the executable)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); logging is off when empty")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Write logs to this file instead of stderr")
	rootCmd.PersistentFlags().BoolVar(&plainMode, "plain", false, "Use line-mode prompts instead of the full-screen prompts")

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "tr064-debug %s\n", version.Full())
	},
}
