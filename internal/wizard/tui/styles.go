package tui

import "github.com/charmbracelet/lipgloss"

// Layout constants for responsive terminal width
const (
	MinTerminalWidth = 60  // Minimum supported terminal width
	MaxContentWidth  = 100 // Maximum content width before capping
	MaxListHeight    = 12  // Choices shown before the list paginates
)

// Color palette
var (
	// Primary colors
	PrimaryColor   = lipgloss.Color("#7D56F4") // Purple
	SecondaryColor = lipgloss.Color("#43BF6D") // Green
	WarningColor   = lipgloss.Color("#FFA500") // Orange
	ErrorColor     = lipgloss.Color("#FF5555") // Red

	// Neutral colors
	TextColor      = lipgloss.Color("#FFFFFF") // White
	SubtleColor    = lipgloss.Color("#626262") // Gray
	HighlightColor = lipgloss.Color("#43BF6D") // Green (same as secondary)
)

// Common styles
var (
	// Question marker ("?") in front of every prompt
	MarkerStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Bold(true)

	// Question text
	MessageStyle = lipgloss.NewStyle().
			Foreground(TextColor).
			Bold(true)

	// Accepted answer
	AnswerStyle = lipgloss.NewStyle().
			Foreground(HighlightColor)

	// Subtitle style
	SubtitleStyle = lipgloss.NewStyle().
			Foreground(SubtleColor).
			Italic(true)

	// Menu item style (unselected)
	MenuItemStyle = lipgloss.NewStyle().
			PaddingLeft(2).
			Foreground(TextColor)

	// Menu item style (selected)
	SelectedMenuItemStyle = lipgloss.NewStyle().
				Foreground(HighlightColor).
				Bold(true)

	// Synthetic entries such as "Back"
	NavigationItemStyle = lipgloss.NewStyle().
				PaddingLeft(2).
				Foreground(SubtleColor)

	// Help text style
	HelpStyle = lipgloss.NewStyle().
			Foreground(SubtleColor).
			PaddingLeft(2)

	// Inline validation message
	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true).
			PaddingLeft(2)

	// Focused input style
	FocusedInputStyle = lipgloss.NewStyle().
				Foreground(PrimaryColor).
				Bold(true)

	// Placeholder (default answer) style
	PlaceholderStyle = lipgloss.NewStyle().
				Foreground(SubtleColor)
)

// RenderQuestion renders the "? message" line of a prompt
func RenderQuestion(message string) string {
	return MarkerStyle.Render("?") + " " + MessageStyle.Render(message)
}

// RenderSubtitle renders a subtitle with consistent styling
func RenderSubtitle(text string) string {
	return SubtitleStyle.Render(text)
}

// RenderMenuItem renders a menu item with selection indicator
func RenderMenuItem(text string, selected bool) string {
	if selected {
		return SelectedMenuItemStyle.Render("→ " + text)
	}
	return MenuItemStyle.Render(text)
}

// RenderHelp renders help text
func RenderHelp(text string) string {
	return HelpStyle.Render(text)
}

// RenderError renders a validation message
func RenderError(text string) string {
	return ErrorStyle.Render(">> " + text)
}

// CalculateBoxWidth clamps the content width to the supported range
func CalculateBoxWidth(terminalWidth int) int {
	if terminalWidth < MinTerminalWidth {
		return MinTerminalWidth
	}
	if terminalWidth > MaxContentWidth {
		return MaxContentWidth
	}
	return terminalWidth
}
