package prompt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/chzyer/readline"
	"go.uber.org/zap"

	"github.com/muurk/tr064-debug/internal/logging"
)

// LineReader is the subset of *readline.Instance used by LinePrompter
type LineReader interface {
	Readline() (string, error)
	ReadPassword(prompt string) ([]byte, error)
	SetPrompt(prompt string)
}

// LinePrompter asks questions one line at a time. It is used with --plain
// and whenever stdin or stdout is not a terminal.
type LinePrompter struct {
	rl  LineReader
	out io.Writer
	rli *readline.Instance
}

// LineConfig configures NewLinePrompter
type LineConfig struct {
	HistoryFile string
	Stdin       io.ReadCloser
	Stdout      io.Writer
}

// NewLinePrompter creates a readline backed prompter
func NewLinePrompter(cfg LineConfig) (*LinePrompter, error) {
	out := cfg.Stdout
	if out == nil {
		out = os.Stdout
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "? ",
		HistoryFile:     cfg.HistoryFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		Stdin:           cfg.Stdin,
		Stdout:          out,
	})
	if err != nil {
		return nil, fmt.Errorf("readline init: %w", err)
	}

	return &LinePrompter{rl: rl, out: out, rli: rl}, nil
}

// NewLinePrompterWithReader creates a prompter on top of an existing reader
func NewLinePrompterWithReader(rl LineReader, out io.Writer) *LinePrompter {
	return &LinePrompter{rl: rl, out: out}
}

// Close releases the terminal
func (p *LinePrompter) Close() error {
	if p.rli != nil {
		return p.rli.Close()
	}
	return nil
}

// Ask implements Prompter
func (p *LinePrompter) Ask(ctx context.Context, questions []Question) (Answers, error) {
	answers := make(Answers, len(questions))
	for _, q := range questions {
		value, err := p.askOne(ctx, q)
		if err != nil {
			return nil, err
		}
		answers[q.Name] = value
	}
	return answers, nil
}

func (p *LinePrompter) askOne(ctx context.Context, q Question) (string, error) {
	if q.Kind == KindSelect {
		fmt.Fprintf(p.out, "? %s\n", q.Message)
		for i, c := range q.Choices {
			fmt.Fprintf(p.out, "  %2d) %s\n", i+1, c)
		}
	}

	for {
		if err := ctx.Err(); err != nil {
			return "", ErrAborted
		}

		raw, err := p.read(q)
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
				return "", ErrAborted
			}
			return "", err
		}

		value, err := Resolve(q, raw)
		if err != nil {
			logging.Debug("Answer rejected",
				zap.String("question", q.Name),
				zap.Error(err),
			)
			fmt.Fprintf(p.out, ">> %s\n", err)
			continue
		}
		return value, nil
	}
}

func (p *LinePrompter) read(q Question) (string, error) {
	switch q.Kind {
	case KindPassword:
		b, err := p.rl.ReadPassword(fmt.Sprintf("? %s ", q.Message))
		return string(b), err
	case KindSelect:
		p.rl.SetPrompt("  Answer: ")
	case KindConfirm:
		hint := "(y/N)"
		if b, _ := parseBool(q.Default); b {
			hint = "(Y/n)"
		}
		p.rl.SetPrompt(fmt.Sprintf("? %s %s ", q.Message, hint))
	default:
		if q.Default != "" {
			p.rl.SetPrompt(fmt.Sprintf("? %s (%s) ", q.Message, q.Default))
		} else {
			p.rl.SetPrompt(fmt.Sprintf("? %s ", q.Message))
		}
	}
	return p.rl.Readline()
}
