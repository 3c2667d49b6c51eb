package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

// StepStatus represents the current state of a step
type StepStatus int

const (
	StepPending StepStatus = iota
	StepRunning
	StepComplete
	StepFailed
	StepSkipped
)

// done reports whether the step counts towards the progress bar
func (s StepStatus) done() bool {
	return s == StepComplete || s == StepSkipped
}

// stepLook is the marker and style of each status in the step list
var stepLook = map[StepStatus]struct {
	marker string
	style  lipgloss.Style
}{
	StepPending:  {"·", StepPendingStyle},
	StepRunning:  {"●", StepRunningStyle},
	StepComplete: {SuccessMarker, StepCompleteStyle},
	StepFailed:   {FailureMarker, ErrorTitleStyle},
	StepSkipped:  {"⊘", StepPendingStyle},
}

// Step is one named phase of a multi-step operation
type Step struct {
	Name    string
	Status  StepStatus
	Message string // shown in parentheses, e.g. "SSL off"
}

// Progress is a bar plus step list, redrawn after every step update
type Progress struct {
	Steps   []Step
	Current int     // 1-based number of the running step
	Percent float64 // finished share, 0.0 - 1.0
	Width   int

	bar progress.Model
}

// NewProgress creates a progress display for the named steps
func NewProgress(names ...string) *Progress {
	p := &Progress{Steps: make([]Step, len(names))}
	for i, name := range names {
		p.Steps[i] = Step{Name: name}
	}
	return p.SetWidth(GetTerminalWidth())
}

// SetWidth sizes the bar for the given terminal width
func (p *Progress) SetWidth(width int) *Progress {
	p.Width = width
	p.bar = progress.New(
		progress.WithDefaultGradient(),
		progress.WithWidth(min(max(width-20, 20), 50)),
	)
	return p
}

// UpdateStep records the status of step n (1-based); unknown steps are ignored
func (p *Progress) UpdateStep(n int, status StepStatus, message string) {
	if n < 1 || n > len(p.Steps) {
		return
	}
	p.Steps[n-1].Status = status
	p.Steps[n-1].Message = message

	if status == StepRunning {
		p.Current = n
		return
	}
	finished := 0
	for _, s := range p.Steps {
		if s.Status.done() {
			finished++
		}
	}
	p.Percent = float64(finished) / float64(len(p.Steps))
}

// Render returns the bar followed by one line per step
func (p *Progress) Render() string {
	total := len(p.Steps)
	lines := []string{
		lipgloss.NewStyle().PaddingLeft(2).Render(
			fmt.Sprintf("%s  %3.0f%%  [%d/%d]", p.bar.ViewAs(p.Percent), p.Percent*100, p.Current, total)),
		"",
	}
	for i := range p.Steps {
		lines = append(lines, p.stepLine(i+1))
	}
	return strings.Join(lines, "\n")
}

// stepLine renders step n (1-based) with its marker and note
func (p *Progress) stepLine(n int) string {
	step := p.Steps[n-1]
	look := stepLook[step.Status]
	line := fmt.Sprintf("  [%d/%d] %s%s%s", n, len(p.Steps),
		look.style.Render(step.Name),
		strings.Repeat(" ", max(45-lipgloss.Width(step.Name), 1)),
		look.style.Render(look.marker))
	if step.Message != "" {
		line += "  " + StepNoteStyle.Render("("+step.Message+")")
	}
	return line
}

// String implements fmt.Stringer
func (p *Progress) String() string {
	return p.Render()
}

// StepCallback is the function signature for step progress updates.
type StepCallback func(stepNumber int, name string, status StepStatus, message string)
