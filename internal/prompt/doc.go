// Package prompt models interactive questions and their answers.
//
// A Prompter asks a list of Questions in order and returns Answers keyed by
// question name. Answers are normalized by Resolve, which applies defaults,
// checks select choices and runs the question's Validate and Filter hooks; a
// rejected answer is reported and the question asked again. When the operator
// ends input (EOF or Ctrl+C) prompters return ErrAborted.
//
// LinePrompter is the readline implementation; the full-screen bubbletea
// implementation lives in package wizard/tui. Tests use prompttest.Script.
package prompt
