package tui

import (
	"context"
	"errors"
	"io"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/tr064-debug/internal/discovery"
	"github.com/muurk/tr064-debug/internal/prompt"
)

// Scanner finds devices on the local network
type Scanner interface {
	Scan(ctx context.Context) ([]*discovery.Device, error)
}

// scanResultMsg carries the scan outcome back into the program
type scanResultMsg struct {
	devices []*discovery.Device
	err     error
}

// ScanModel shows a spinner while a scan runs
type ScanModel struct {
	ctx     context.Context
	scanner Scanner
	label   string
	spinner spinner.Model

	devices []*discovery.Device
	err     error
	done    bool
	aborted bool
}

// NewScanModel creates a model that runs scanner once
func NewScanModel(ctx context.Context, scanner Scanner, label string) ScanModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(PrimaryColor)

	return ScanModel{
		ctx:     ctx,
		scanner: scanner,
		label:   label,
		spinner: s,
	}
}

// Init implements tea.Model
func (m ScanModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.scan)
}

func (m ScanModel) scan() tea.Msg {
	devices, err := m.scanner.Scan(m.ctx)
	return scanResultMsg{devices: devices, err: err}
}

// Update implements tea.Model
func (m ScanModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, inputKeys.Abort) {
			m.aborted = true
			return m, tea.Quit
		}

	case scanResultMsg:
		m.devices = msg.devices
		m.err = msg.err
		m.done = true
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model
func (m ScanModel) View() string {
	if m.done || m.aborted {
		return ""
	}
	return m.spinner.View() + " " + m.label + "  " + RenderSubtitle("esc to cancel") + "\n"
}

// Devices returns the scan result
func (m ScanModel) Devices() []*discovery.Device { return m.devices }

// Err returns the scan error
func (m ScanModel) Err() error { return m.err }

// SpinnerScanner wraps a Scanner with a spinner display
type SpinnerScanner struct {
	Scanner Scanner
	Label   string

	in  io.Reader
	out io.Writer
}

// NewSpinnerScanner creates a SpinnerScanner; nil in or out use the terminal
func NewSpinnerScanner(scanner Scanner, in io.Reader, out io.Writer) *SpinnerScanner {
	return &SpinnerScanner{
		Scanner: scanner,
		Label:   "Scanning for TR-064 devices (SSDP + mDNS)...",
		in:      in,
		out:     out,
	}
}

// Scan implements Scanner. Cancelling the spinner returns prompt.ErrAborted.
func (s *SpinnerScanner) Scan(ctx context.Context) ([]*discovery.Device, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	opts := []tea.ProgramOption{tea.WithContext(ctx)}
	if s.in != nil {
		opts = append(opts, tea.WithInput(s.in))
	}
	if s.out != nil {
		opts = append(opts, tea.WithOutput(s.out))
	}

	final, err := tea.NewProgram(NewScanModel(ctx, s.Scanner, s.Label), opts...).Run()
	if err != nil {
		if ctx.Err() != nil || errors.Is(err, tea.ErrProgramKilled) {
			return nil, prompt.ErrAborted
		}
		return nil, err
	}

	m, ok := final.(ScanModel)
	if !ok || m.aborted {
		return nil, prompt.ErrAborted
	}
	return m.devices, m.err
}
