package interact

import (
	"fmt"
	"strconv"
	"strings"
)

// Interrupt is a scripted answer that simulates Ctrl+C.
const Interrupt = "\x03"

// Scripted replays a fixed list of answers, one per question, in order.
// Multi-select answers are comma separated and confirm answers are parsed
// with strconv.ParseBool. An empty answer takes the question's default.
type Scripted struct {
	Answers []string
	// Asked records every prompt in the order it was asked.
	Asked []string
}

// Compile-time check that Scripted implements Provider.
var _ Provider = (*Scripted)(nil)

// NewScripted returns a provider answering with answers.
func NewScripted(answers ...string) *Scripted {
	return &Scripted{Answers: answers}
}

func (s *Scripted) next(prompt string) (string, error) {
	s.Asked = append(s.Asked, prompt)
	if len(s.Answers) == 0 {
		return "", fmt.Errorf("no scripted answer left for %q", prompt)
	}
	a := s.Answers[0]
	s.Answers = s.Answers[1:]
	if a == Interrupt {
		return "", ErrInterrupted
	}
	return a, nil
}

// SelectOne implements Provider.
func (s *Scripted) SelectOne(prompt string, choices []Choice, def string) (string, error) {
	a, err := s.next(prompt)
	if err != nil {
		return "", err
	}
	if a == "" {
		return def, nil
	}
	for _, c := range choices {
		if c.Value == a {
			return a, nil
		}
	}
	return "", fmt.Errorf("scripted answer %q is not one of the choices for %q", a, prompt)
}

// SelectMany implements Provider.
func (s *Scripted) SelectMany(prompt string, choices []Choice, defs []string) ([]string, error) {
	a, err := s.next(prompt)
	if err != nil {
		return nil, err
	}
	if a == "" {
		return defs, nil
	}
	var out []string
	for _, v := range strings.Split(a, ",") {
		v = strings.TrimSpace(v)
		found := false
		for _, c := range choices {
			if c.Value == v {
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("scripted answer %q is not one of the choices for %q", v, prompt)
		}
		out = append(out, v)
	}
	return out, nil
}

// InputText implements Provider.
func (s *Scripted) InputText(prompt, def string, validate Validator) (string, error) {
	a, err := s.next(prompt)
	if err != nil {
		return "", err
	}
	if a == "" {
		a = def
	}
	if validate != nil {
		if err := validate(a); err != nil {
			return "", fmt.Errorf("scripted answer for %q rejected: %w", prompt, err)
		}
	}
	return a, nil
}

// InputPath implements Provider.
func (s *Scripted) InputPath(prompt, def string, validate Validator) (string, error) {
	return s.InputText(prompt, def, validate)
}

// Confirm implements Provider.
func (s *Scripted) Confirm(prompt string, def bool) (bool, error) {
	a, err := s.next(prompt)
	if err != nil {
		return false, err
	}
	if a == "" {
		return def, nil
	}
	return strconv.ParseBool(a)
}
