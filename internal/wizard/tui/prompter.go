package tui

import (
	"context"
	"errors"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/muurk/tr064-debug/internal/logging"
	"github.com/muurk/tr064-debug/internal/prompt"
)

// Prompter asks questions with an inline bubbletea program per question.
// Answered questions stay on screen as a one-line summary.
type Prompter struct {
	in  io.Reader
	out io.Writer
}

// NewPrompter creates a prompter; nil in or out use the terminal
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: in, out: out}
}

// Ask implements prompt.Prompter
func (p *Prompter) Ask(ctx context.Context, questions []prompt.Question) (prompt.Answers, error) {
	answers := make(prompt.Answers, len(questions))
	for _, q := range questions {
		value, err := p.askOne(ctx, q)
		if err != nil {
			return nil, err
		}
		answers[q.Name] = value
	}
	return answers, nil
}

func (p *Prompter) askOne(ctx context.Context, q prompt.Question) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", prompt.ErrAborted
	}

	opts := []tea.ProgramOption{tea.WithContext(ctx)}
	if p.in != nil {
		opts = append(opts, tea.WithInput(p.in))
	}
	if p.out != nil {
		opts = append(opts, tea.WithOutput(p.out))
	}

	final, err := tea.NewProgram(NewQuestionModel(q), opts...).Run()
	if err != nil {
		if ctx.Err() != nil || errors.Is(err, tea.ErrProgramKilled) {
			return "", prompt.ErrAborted
		}
		return "", fmt.Errorf("prompt %q: %w", q.Name, err)
	}

	m, ok := final.(QuestionModel)
	if !ok || !m.Done() {
		logging.Debug("Question aborted", zap.String("question", q.Name))
		return "", prompt.ErrAborted
	}
	return m.Value(), nil
}
