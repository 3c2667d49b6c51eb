package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Payload represents a box for displaying a raw device response
type Payload struct {
	Title    string // e.g., "Raw response"
	Content  string
	Width    int
	MaxLines int // 0 = unlimited
}

// NewPayload creates a new payload box
func NewPayload(title, content string) *Payload {
	return &Payload{
		Title:   title,
		Content: content,
		Width:   GetTerminalWidth(),
	}
}

// SetWidth sets the terminal width for responsive rendering
func (p *Payload) SetWidth(width int) *Payload {
	p.Width = width
	return p
}

// SetMaxLines limits the number of lines displayed
func (p *Payload) SetMaxLines(max int) *Payload {
	p.MaxLines = max
	return p
}

// Lines returns the content split into display lines. XML documents that
// arrive on a single line are broken up at tag boundaries.
func (p *Payload) Lines() []string {
	content := strings.TrimSpace(strings.ReplaceAll(p.Content, "\r\n", "\n"))
	if content == "" {
		return nil
	}
	if !strings.Contains(content, "\n") && strings.HasPrefix(content, "<") {
		content = strings.ReplaceAll(content, "><", ">\n<")
	}
	return strings.Split(content, "\n")
}

// Render returns the styled payload box as a string
func (p *Payload) Render() string {
	width := clampWidth(p.Width)
	lines := p.Lines()

	truncated := 0
	if p.MaxLines > 0 && len(lines) > p.MaxLines {
		truncated = len(lines) - p.MaxLines
		lines = lines[:p.MaxLines]
	}

	body := make([]string, 0, len(lines)+3)
	body = append(body, PayloadTitleStyle.Render(p.Title), "")
	for _, l := range lines {
		body = append(body, PayloadContentStyle.Render(l))
	}
	if len(lines) == 0 {
		body = append(body, MutedStyle.Render("(empty)"))
	}
	if truncated > 0 {
		body = append(body, MutedStyle.Render(fmt.Sprintf("... %d more lines", truncated)))
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(MutedColor).
		Width(width-4).
		Padding(0, 1).
		Render(strings.Join(body, "\n"))
}

// String implements fmt.Stringer
func (p *Payload) String() string {
	return p.Render()
}
