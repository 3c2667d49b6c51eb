// Package prompttest provides a scripted prompt.Prompter for tests.
package prompttest

import (
	"context"
	"sync"

	"github.com/muurk/tr064-debug/internal/prompt"
)

// Script answers questions from a fixed list of raw inputs, in order. Each
// input goes through prompt.Resolve, so an invalid input is rejected and the
// next one is tried for the same question, like an operator retyping it.
// When the inputs run out Ask returns prompt.ErrAborted.
type Script struct {
	mu       sync.Mutex
	inputs   []string
	asked    []prompt.Question
	rejected []string
}

// New creates a script from raw inputs
func New(inputs ...string) *Script {
	return &Script{inputs: inputs}
}

// Push appends more inputs
func (s *Script) Push(inputs ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inputs = append(s.inputs, inputs...)
}

// Ask implements prompt.Prompter
func (s *Script) Ask(ctx context.Context, questions []prompt.Question) (prompt.Answers, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	answers := make(prompt.Answers, len(questions))
	for _, q := range questions {
		s.asked = append(s.asked, q)
		for {
			if ctx.Err() != nil || len(s.inputs) == 0 {
				return nil, prompt.ErrAborted
			}
			raw := s.inputs[0]
			s.inputs = s.inputs[1:]

			value, err := prompt.Resolve(q, raw)
			if err != nil {
				s.rejected = append(s.rejected, raw)
				continue
			}
			answers[q.Name] = value
			break
		}
	}
	return answers, nil
}

// Asked returns every question asked so far
func (s *Script) Asked() []prompt.Question {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]prompt.Question(nil), s.asked...)
}

// Last returns the most recent question
func (s *Script) Last() prompt.Question {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.asked) == 0 {
		return prompt.Question{}
	}
	return s.asked[len(s.asked)-1]
}

// Rejected returns inputs that failed validation
func (s *Script) Rejected() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.rejected...)
}

// Remaining reports how many inputs are left
func (s *Script) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.inputs)
}
