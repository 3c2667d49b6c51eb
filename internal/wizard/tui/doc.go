// Package tui implements prompt.Prompter with bubbletea.
//
// Every question runs as its own small inline program: select questions
// use a filterable list, input and password questions a text input and
// confirm questions single y/n keys. Answers are checked with
// prompt.Resolve before the program quits, so invalid input is reported
// next to the question instead of re-asking it. Esc or ctrl+c abort the
// whole question set with prompt.ErrAborted.
package tui
