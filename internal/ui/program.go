package ui

import (
	"fmt"
	"io"
	"os"
)

// Printer provides methods for printing UI components to a writer.
// Everything the interactive session shows between prompts goes through it.
type Printer struct {
	out   io.Writer
	width int
}

// NewPrinter creates a new Printer that writes to the given writer.
// If w is nil, os.Stdout is used.
func NewPrinter(w io.Writer) *Printer {
	if w == nil {
		w = os.Stdout
	}
	return &Printer{
		out:   w,
		width: GetTerminalWidth(),
	}
}

// Writer returns the underlying writer
func (p *Printer) Writer() io.Writer {
	return p.out
}

// Width returns the width used by this printer
func (p *Printer) Width() int {
	return p.width
}

// SetWidth overrides the detected terminal width
func (p *Printer) SetWidth(width int) *Printer {
	p.width = width
	return p
}

// Print writes content to the output
func (p *Printer) Print(content string) {
	_, _ = fmt.Fprint(p.out, content)
}

// Println writes content with a newline
func (p *Printer) Println(content string) {
	_, _ = fmt.Fprintln(p.out, content)
}

// PrintLines writes multiple lines
func (p *Printer) PrintLines(lines ...string) {
	for _, line := range lines {
		_, _ = fmt.Fprintln(p.out, line)
	}
}

// Newline prints an empty line
func (p *Printer) Newline() {
	_, _ = fmt.Fprintln(p.out)
}

// PrintMuted prints a secondary line
func (p *Printer) PrintMuted(content string) {
	p.Println(MutedStyle.Render(content))
}

// PrintHeader prints a styled header
func (p *Printer) PrintHeader(title, command string, params ...Param) {
	p.Println(NewHeader(title, command, params...).SetWidth(p.width).Render())
	p.Newline()
}

// PrintSuccess prints a styled success result
func (p *Printer) PrintSuccess(title string, details ...Detail) {
	p.Newline()
	p.Println(NewSuccessResult(title, details...).SetWidth(p.width).Render())
}

// PrintFailure prints a styled failure result
func (p *Printer) PrintFailure(title string, err error, troubleshooting []string, details ...Detail) {
	r := NewFailureResult(title, err, troubleshooting).SetWidth(p.width)
	r.Details = details
	p.Newline()
	p.Println(r.Render())
}

// PrintWarning prints a styled warning result
func (p *Printer) PrintWarning(title string, details ...Detail) {
	p.Newline()
	p.Println(NewWarningResult(title, details...).SetWidth(p.width).Render())
}

// PrintPayload prints a raw payload box
func (p *Printer) PrintPayload(title, content string, maxLines int) {
	p.Println(NewPayload(title, content).SetWidth(p.width).SetMaxLines(maxLines).Render())
}
