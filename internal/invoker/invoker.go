// Package invoker runs a single TR-064 action: it classifies the action's
// argument shape, collects in-arguments from the operator and calls the
// device.
package invoker

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/tr064-debug/internal/logging"
	"github.com/muurk/tr064-debug/internal/prompt"
	"github.com/muurk/tr064-debug/internal/tr064"
)

// argPrefix is the conventional prefix of TR-064 argument names
const argPrefix = "New"

// Shape classifies an action by its arguments
type Shape int

const (
	ShapeNoArgs  Shape = iota // no in- and no out-arguments
	ShapeOutArgs              // out-arguments only
	ShapeInArgs               // at least one in-argument
)

// String returns the name of the shape
func (s Shape) String() string {
	switch s {
	case ShapeNoArgs:
		return "no arguments"
	case ShapeOutArgs:
		return "out arguments"
	case ShapeInArgs:
		return "in arguments"
	default:
		return fmt.Sprintf("Shape(%d)", int(s))
	}
}

// Classify returns the shape of an action
func Classify(a tr064.ActionDescriptor) Shape {
	switch {
	case len(a.InArgs) > 0:
		return ShapeInArgs
	case len(a.OutArgs) > 0:
		return ShapeOutArgs
	default:
		return ShapeNoArgs
	}
}

// PromptLabel derives the question label for an in-argument:
// "NewPassword" becomes "Password:". Names without the prefix keep their
// full name and get the colon too.
func PromptLabel(arg string) string {
	if len(arg) > len(argPrefix) && strings.HasPrefix(arg, argPrefix) {
		return arg[len(argPrefix):] + ":"
	}
	return arg + ":"
}

// Questions builds a fresh question list for the in-arguments of an action
func Questions(a tr064.ActionDescriptor) []prompt.Question {
	qs := make([]prompt.Question, len(a.InArgs))
	for i, name := range a.InArgs {
		qs[i] = prompt.Question{
			Kind:    prompt.KindInput,
			Name:    name,
			Message: PromptLabel(name),
		}
	}
	return qs
}

// Report describes one invocation
type Report struct {
	Service  string
	Action   string
	Shape    Shape
	Args     []tr064.Argument
	Result   tr064.Result
	Err      error
	Duration time.Duration
}

// OK reports whether the invocation succeeded
func (r Report) OK() bool {
	return r.Err == nil
}

// Invoker runs actions against a session
type Invoker struct {
	// Now is used to time invocations (defaults to time.Now)
	Now func() time.Time
}

// New creates an invoker
func New() *Invoker {
	return &Invoker{Now: time.Now}
}

func (inv *Invoker) now() time.Time {
	if inv.Now != nil {
		return inv.Now()
	}
	return time.Now()
}

// Invoke looks up the action, asks for its in-arguments and calls it.
// Device failures are returned inside the Report; the error return is
// reserved for prompt failures (ErrAborted) that end the interactive loop.
func (inv *Invoker) Invoke(ctx context.Context, session tr064.Session, p prompt.Prompter, service, action string) (Report, error) {
	report := Report{Service: service, Action: action}

	desc, err := session.Catalog().Action(service, action)
	if err != nil {
		report.Err = tr064.NewNotFoundError(err)
		return report, nil
	}
	report.Shape = Classify(desc)

	if report.Shape == ShapeInArgs {
		answers, err := p.Ask(ctx, Questions(desc))
		if err != nil {
			return report, err
		}
		report.Args = make([]tr064.Argument, len(desc.InArgs))
		for i, name := range desc.InArgs {
			report.Args[i] = tr064.Argument{Name: name, Value: answers[name]}
		}
	}

	start := inv.now()
	report.Result, report.Err = session.Invoke(ctx, service, action, report.Args)
	report.Duration = inv.now().Sub(start)

	if report.Err != nil && errors.Is(report.Err, context.Canceled) {
		return report, prompt.ErrAborted
	}

	logging.Debug("Action invoked",
		zap.String("service", service),
		zap.String("action", action),
		zap.Stringer("shape", report.Shape),
		zap.Duration("duration", report.Duration),
		zap.Bool("ok", report.OK()),
	)
	return report, nil
}
