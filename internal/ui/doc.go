// Package ui provides terminal UI components for the tr064-debug CLI.
//
// This package uses Lipgloss (and the Bubbles progress bar) to render the
// curated output shown between prompts of the interactive session. The
// components follow a "render and move on" pattern: they print a styled
// block to a writer and never read input themselves, except for Confirm.
//
// # Architecture
//
// The UI package provides four main component types:
//
//   - Header: Session banner showing the device and connection parameters
//   - Progress: Step list showing the connection phases as they finish
//   - Result: Success/failure boxes with ordered key/value details
//   - Payload: Raw SOAP response box
//
// These components are orchestrated by the StepRunner, which manages the
// header → steps → result flow of a connection attempt, and by the
// Printer, which the navigator uses for everything else.
//
// Example:
//
//	runner := ui.NewStepRunner(ui.StepRunnerConfig{
//	    Title:     "Connect",
//	    Command:   "tr064-debug start",
//	    Params:    []ui.Param{{Key: "Host", Value: "192.168.178.1:49000"}},
//	    StepNames: []string{"Fetch device description", "Log in"},
//	})
//	runner.Start()
//	onStep := runner.Callback()
//	onStep(1, "", ui.StepComplete, "")
//	runner.Succeed("FRITZ!Box 7590")
//
// # Logging Integration
//
// Logging is controlled via TR064_DEBUG_LOG_LEVEL (or --log-level). When
// unset, zap logging is silent so the curated UI output stays clean.
package ui
