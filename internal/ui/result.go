package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ResultType indicates success or failure
type ResultType int

const (
	ResultSuccess ResultType = iota
	ResultFailure
	ResultWarning
)

// Detail is one key/value line of a result box
type Detail struct {
	Key   string
	Value string
}

// Result represents a result box (success, failure, or warning)
type Result struct {
	Type            ResultType // Success, failure, or warning
	Title           string     // e.g., "DeviceInfo1 / GetInfo"
	Details         []Detail   // Key-value details, in order
	Error           error      // Error (for failure results)
	Troubleshooting []string   // Troubleshooting tips (for failure results)
	Width           int        // Terminal width
}

// NewSuccessResult creates a success result box
func NewSuccessResult(title string, details ...Detail) *Result {
	return &Result{
		Type:    ResultSuccess,
		Title:   title,
		Details: details,
		Width:   GetTerminalWidth(),
	}
}

// NewFailureResult creates a failure result box
func NewFailureResult(title string, err error, troubleshooting []string) *Result {
	return &Result{
		Type:            ResultFailure,
		Title:           title,
		Error:           err,
		Troubleshooting: troubleshooting,
		Width:           GetTerminalWidth(),
	}
}

// NewWarningResult creates a warning result box
func NewWarningResult(title string, details ...Detail) *Result {
	return &Result{
		Type:    ResultWarning,
		Title:   title,
		Details: details,
		Width:   GetTerminalWidth(),
	}
}

// SetWidth sets the terminal width for responsive rendering
func (r *Result) SetWidth(width int) *Result {
	r.Width = width
	return r
}

// AddDetail appends a detail line
func (r *Result) AddDetail(key, value string) *Result {
	r.Details = append(r.Details, Detail{Key: key, Value: value})
	return r
}

// Render returns the styled result box as a string
func (r *Result) Render() string {
	switch r.Type {
	case ResultFailure:
		return r.renderFailure()
	case ResultWarning:
		return r.renderBox(lipgloss.NewStyle().Foreground(WarningColor).Bold(true), "⚠  WARNING", WarningColor)
	default:
		return r.renderBox(SuccessTitleStyle, SuccessMarker+"  SUCCESS", SuccessColor)
	}
}

func (r *Result) renderBox(titleStyle lipgloss.Style, label string, color lipgloss.Color) string {
	width := clampWidth(r.Width)

	lines := []string{"", titleStyle.Render(fmt.Sprintf("   %s  ─  %s", label, r.Title)), ""}
	lines = append(lines, r.renderDetails()...)
	lines = append(lines, "")

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(color).
		Width(width-2).
		Padding(0, 2).
		Render(strings.Join(lines, "\n"))
}

func (r *Result) renderDetails() []string {
	keyWidth := 0
	for _, d := range r.Details {
		if w := lipgloss.Width(d.Key); w > keyWidth {
			keyWidth = w
		}
	}

	lines := make([]string, 0, len(r.Details))
	for _, d := range r.Details {
		key := ResultKeyStyle.Render(fmt.Sprintf("   %-*s", keyWidth+1, d.Key+":"))
		lines = append(lines, key+" "+ResultValueStyle.Render(d.Value))
	}
	return lines
}

func (r *Result) renderFailure() string {
	width := clampWidth(r.Width)

	lines := []string{"", ErrorTitleStyle.Render(fmt.Sprintf("   %s  FAILED  ─  %s", FailureMarker, r.Title)), ""}

	if r.Error != nil {
		lines = append(lines, ErrorMessageStyle.Render("   Error: "+r.Error.Error()), "")
	}
	if len(r.Details) > 0 {
		lines = append(lines, r.renderDetails()...)
		lines = append(lines, "")
	}
	if len(r.Troubleshooting) > 0 {
		lines = append(lines, r.renderTroubleshootingBox(width), "")
	}

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(ErrorColor).
		Width(width-2).
		Padding(0, 2).
		Render(strings.Join(lines, "\n"))
}

// renderTroubleshootingBox renders the inner troubleshooting box
func (r *Result) renderTroubleshootingBox(width int) string {
	lines := []string{TroubleshootingTitleStyle.Render("Troubleshooting:"), ""}
	for _, tip := range r.Troubleshooting {
		lines = append(lines, TroubleshootingItemStyle.Render("  • "+tip))
	}

	innerWidth := width - 12
	if innerWidth < 40 {
		innerWidth = 40
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(MutedColor).
		Width(innerWidth).
		Padding(0, 1).
		MarginLeft(3).
		Render(strings.Join(lines, "\n"))
}

// String implements fmt.Stringer
func (r *Result) String() string {
	return r.Render()
}

// SplitHint turns a multi-line troubleshooting hint into bullet items,
// dropping the headline and "Troubleshooting:" marker lines.
func SplitHint(hint string) []string {
	var tips []string
	for i, line := range strings.Split(hint, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || line == "Troubleshooting:" {
			continue
		}
		if strings.HasPrefix(line, "•") {
			tips = append(tips, strings.TrimSpace(strings.TrimPrefix(line, "•")))
			continue
		}
		if i == 0 && strings.Contains(hint, "Troubleshooting:") {
			continue
		}
		tips = append(tips, line)
	}
	return tips
}
