package ui

import (
	"fmt"
	"io"
	"os"
	"time"
)

// StepRunnerConfig holds configuration for a multi-step operation
type StepRunnerConfig struct {
	Title     string  // e.g., "TR-064 session"
	Command   string  // Subtitle (e.g., "tr064-debug start")
	Params    []Param // Parameters to display in header
	StepNames []string
	Output    io.Writer // default: os.Stdout
	Width     int       // default: terminal width
}

// StepRunner renders the header → steps → result flow of an operation.
type StepRunner struct {
	config    StepRunnerConfig
	header    *Header
	progress  *Progress
	output    io.Writer
	startTime time.Time
	width     int
}

// NewStepRunner creates a new runner
func NewStepRunner(config StepRunnerConfig) *StepRunner {
	if config.Output == nil {
		config.Output = os.Stdout
	}
	width := config.Width
	if width == 0 {
		width = GetTerminalWidth()
	}

	header := NewHeader(config.Title, config.Command, config.Params...)
	header.SetWidth(width)

	var prog *Progress
	if len(config.StepNames) > 0 {
		prog = NewProgress(config.StepNames...).SetWidth(width)
	}

	return &StepRunner{
		config:   config,
		header:   header,
		progress: prog,
		output:   config.Output,
		width:    width,
	}
}

// Start prints the header and starts the clock
func (r *StepRunner) Start() {
	r.startTime = time.Now()
	_, _ = fmt.Fprintln(r.output, r.header.Render())
	_, _ = fmt.Fprintln(r.output)
}

// Elapsed returns the time since Start
func (r *StepRunner) Elapsed() time.Duration {
	return time.Since(r.startTime)
}

// Callback returns the step callback that prints step lines as they finish
func (r *StepRunner) Callback() StepCallback {
	return func(stepNumber int, name string, status StepStatus, message string) {
		if r.progress == nil || stepNumber < 1 || stepNumber > len(r.progress.Steps) {
			return
		}
		if name != "" {
			r.progress.Steps[stepNumber-1].Name = name
		}
		r.progress.UpdateStep(stepNumber, status, message)

		line := r.progress.stepLine(stepNumber)
		switch status {
		case StepComplete, StepFailed, StepSkipped:
			_, _ = fmt.Fprintln(r.output, line)
		case StepRunning:
			// overwritten when the step completes
			_, _ = fmt.Fprint(r.output, line+"\r")
		}
	}
}

// Succeed prints a success box with the given details plus the duration
func (r *StepRunner) Succeed(title string, details ...Detail) {
	details = append(details, Detail{Key: "Duration", Value: r.Elapsed().Round(time.Millisecond).String()})
	_, _ = fmt.Fprintln(r.output)
	_, _ = fmt.Fprintln(r.output, NewSuccessResult(title, details...).SetWidth(r.width).Render())
}

// Fail prints a failure box with troubleshooting tips
func (r *StepRunner) Fail(title string, err error, troubleshooting []string) {
	_, _ = fmt.Fprintln(r.output)
	_, _ = fmt.Fprintln(r.output, NewFailureResult(title, err, troubleshooting).SetWidth(r.width).Render())
}
