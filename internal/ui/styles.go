package ui

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Palette shared by every box this package draws
var (
	PrimaryColor = lipgloss.Color("#7D56F4")
	SuccessColor = lipgloss.Color("#43BF6D")
	ErrorColor   = lipgloss.Color("#FF5555")
	WarningColor = lipgloss.Color("#FFA500")
	MutedColor   = lipgloss.Color("#626262")
	TextColor    = lipgloss.Color("#FFFFFF")
)

// Rendering width bounds
const (
	MinTerminalWidth = 60
	MaxContentWidth  = 100
)

func fg(c lipgloss.Color) lipgloss.Style { return lipgloss.NewStyle().Foreground(c) }

// Session header (device, profile parameters)
var (
	HeaderTitleStyle      = fg(TextColor).Bold(true).PaddingLeft(2)
	HeaderCommandStyle    = fg(MutedColor).PaddingLeft(2)
	HeaderParamKeyStyle   = fg(MutedColor).PaddingLeft(2)
	HeaderParamValueStyle = fg(TextColor)
	BannerStyle           = fg(PrimaryColor).Bold(true)
)

// Connect steps
var (
	StepCompleteStyle = fg(SuccessColor)
	StepRunningStyle  = fg(WarningColor)
	StepPendingStyle  = fg(MutedColor)
	StepNoteStyle     = fg(MutedColor).Italic(true)
)

// Action results and failures
var (
	SuccessTitleStyle         = fg(SuccessColor).Bold(true)
	ErrorTitleStyle           = fg(ErrorColor).Bold(true)
	ErrorMessageStyle         = fg(ErrorColor)
	ResultKeyStyle            = fg(MutedColor)
	ResultValueStyle          = fg(TextColor)
	TroubleshootingTitleStyle = fg(MutedColor).Bold(true)
	TroubleshootingItemStyle  = fg(MutedColor)
)

// Raw SOAP payloads and secondary text
var (
	PayloadTitleStyle   = fg(MutedColor).Bold(true)
	PayloadContentStyle = fg(TextColor)
	MutedStyle          = fg(MutedColor)
)

const (
	SuccessMarker = "✓"
	FailureMarker = "✗"
)

// GetTerminalWidth returns the stdout width clamped to the supported range
func GetTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return MinTerminalWidth
	}
	return min(clampWidth(width), MaxContentWidth)
}

// IsTerminal reports whether both stdin and stdout are terminals
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

func clampWidth(width int) int {
	return max(width, MinTerminalWidth)
}

func divider(width int) string {
	return fg(PrimaryColor).Render(strings.Repeat("─", width))
}
