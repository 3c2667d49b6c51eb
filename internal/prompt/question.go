package prompt

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrAborted is returned when the operator ends input (EOF or interrupt)
var ErrAborted = errors.New("prompt aborted")

// Kind selects how a question is presented
type Kind int

const (
	KindInput Kind = iota
	KindPassword
	KindConfirm
	KindSelect
)

// String returns the name of the kind
func (k Kind) String() string {
	switch k {
	case KindInput:
		return "input"
	case KindPassword:
		return "password"
	case KindConfirm:
		return "confirm"
	case KindSelect:
		return "select"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Question is one prompt shown to the operator
type Question struct {
	Kind    Kind
	Name    string // key in Answers
	Message string // label shown to the operator
	Default string // used when the answer is empty
	Choices []string

	// Validate rejects an answer; the question is asked again with the
	// returned message.
	Validate func(string) error

	// Filter rewrites an accepted answer before it is stored
	Filter func(string) string
}

// Prompter asks questions in order and returns all answers
type Prompter interface {
	Ask(ctx context.Context, questions []Question) (Answers, error)
}

// Answers maps question names to answers
type Answers map[string]string

// String returns the answer for name
func (a Answers) String(name string) string {
	return a[name]
}

// Int returns the answer for name as an integer
func (a Answers) Int(name string) (int, error) {
	v, ok := a[name]
	if !ok {
		return 0, fmt.Errorf("no answer for %q", name)
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, fmt.Errorf("answer for %q is not a number: %w", name, err)
	}
	return n, nil
}

// Bool returns the answer for name as a boolean (confirm questions)
func (a Answers) Bool(name string) bool {
	b, _ := parseBool(a[name])
	return b
}

// Input creates a free-text question
func Input(name, message string) Question {
	return Question{Kind: KindInput, Name: name, Message: message}
}

// Password creates a masked free-text question
func Password(name, message string) Question {
	return Question{Kind: KindPassword, Name: name, Message: message}
}

// Confirm creates a yes/no question
func Confirm(name, message string, def bool) Question {
	return Question{Kind: KindConfirm, Name: name, Message: message, Default: strconv.FormatBool(def)}
}

// Select creates a single-choice question
func Select(name, message string, choices []string) Question {
	return Question{Kind: KindSelect, Name: name, Message: message, Choices: choices}
}

// Resolve turns a raw answer into the stored value: defaults are applied,
// confirm answers become "true"/"false", select answers must name a choice
// (or its 1-based number), then Validate and Filter run.
func Resolve(q Question, raw string) (string, error) {
	value := raw
	if q.Kind != KindPassword {
		value = strings.TrimSpace(raw)
	}
	if value == "" {
		value = q.Default
	}

	switch q.Kind {
	case KindConfirm:
		b, ok := parseBool(value)
		if !ok {
			return "", errors.New("please answer yes or no")
		}
		value = strconv.FormatBool(b)

	case KindSelect:
		choice, err := matchChoice(q.Choices, value)
		if err != nil {
			return "", err
		}
		value = choice
	}

	if q.Validate != nil {
		if err := q.Validate(value); err != nil {
			return "", err
		}
	}
	if q.Filter != nil {
		value = q.Filter(value)
	}
	return value, nil
}

func matchChoice(choices []string, value string) (string, error) {
	if len(choices) == 0 {
		return "", errors.New("nothing to choose from")
	}
	for _, c := range choices {
		if c == value {
			return c, nil
		}
	}
	if n, err := strconv.Atoi(value); err == nil && n >= 1 && n <= len(choices) {
		return choices[n-1], nil
	}
	return "", fmt.Errorf("please choose one of the %d entries", len(choices))
}

func parseBool(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "y", "yes", "true", "1", "j", "ja":
		return true, true
	case "n", "no", "false", "0", "nein":
		return false, true
	}
	return false, false
}
