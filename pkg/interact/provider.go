// Package interact defines the question-and-answer surface used by the
// interactive composition flow, with a terminal implementation and a scripted
// one for replay and tests.
package interact

import (
	"errors"
)

// ErrInterrupted is returned by every Provider method when the user cancels
// the prompt (Ctrl+C). It is distinct from an empty answer.
var ErrInterrupted = errors.New("interrupted by user")

// Choice is one selectable option.
type Choice struct {
	Value       string
	Description string
}

// Label is the text shown for the choice in a menu.
func (c Choice) Label() string {
	if c.Description == "" {
		return c.Value
	}
	return c.Value + " - " + c.Description
}

// Validator rejects an answer with a descriptive error.
type Validator func(string) error

// Provider asks the user questions.
type Provider interface {
	SelectOne(prompt string, choices []Choice, def string) (string, error)
	SelectMany(prompt string, choices []Choice, defs []string) ([]string, error)
	InputText(prompt, def string, validate Validator) (string, error)
	InputPath(prompt, def string, validate Validator) (string, error)
	Confirm(prompt string, def bool) (bool, error)
}
