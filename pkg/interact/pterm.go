package interact

import (
	"strings"

	"github.com/pterm/pterm"
)

// Pterm asks questions on the terminal using pterm's interactive printers.
type Pterm struct {
	// MaxHeight limits the number of visible menu rows.
	MaxHeight int
}

// Compile-time check that Pterm implements Provider.
var _ Provider = (*Pterm)(nil)

// NewPterm returns a terminal provider.
func NewPterm() *Pterm {
	return &Pterm{MaxHeight: 10}
}

// SelectOne shows a single-choice menu and returns the chosen value.
func (p *Pterm) SelectOne(prompt string, choices []Choice, def string) (string, error) {
	if len(choices) == 0 {
		return "", nil
	}
	labels, byLabel := labelIndex(choices)

	interrupted := false
	printer := pterm.DefaultInteractiveSelect.
		WithOptions(labels).
		WithMaxHeight(p.MaxHeight).
		WithOnInterruptFunc(func() { interrupted = true })
	if def != "" {
		for _, c := range choices {
			if c.Value == def {
				printer = printer.WithDefaultOption(c.Label())
			}
		}
	}

	label, err := printer.Show(prompt)
	if interrupted {
		return "", ErrInterrupted
	}
	if err != nil {
		return "", err
	}
	return byLabel[label], nil
}

// SelectMany shows a multi-choice menu and returns the chosen values in
// menu order.
func (p *Pterm) SelectMany(prompt string, choices []Choice, defs []string) ([]string, error) {
	if len(choices) == 0 {
		return nil, nil
	}
	labels, byLabel := labelIndex(choices)

	var defLabels []string
	for _, c := range choices {
		for _, d := range defs {
			if c.Value == d {
				defLabels = append(defLabels, c.Label())
			}
		}
	}

	interrupted := false
	selected, err := pterm.DefaultInteractiveMultiselect.
		WithOptions(labels).
		WithDefaultOptions(defLabels).
		WithFilter(false).
		WithMaxHeight(p.MaxHeight).
		WithOnInterruptFunc(func() { interrupted = true }).
		Show(prompt)
	if interrupted {
		return nil, ErrInterrupted
	}
	if err != nil {
		return nil, err
	}

	picked := make(map[string]bool, len(selected))
	for _, l := range selected {
		picked[byLabel[l]] = true
	}
	var out []string
	for _, c := range choices {
		if picked[c.Value] {
			out = append(out, c.Value)
		}
	}
	return out, nil
}

// InputText reads a line of text, asking again until validate accepts it.
func (p *Pterm) InputText(prompt, def string, validate Validator) (string, error) {
	for {
		interrupted := false
		answer, err := pterm.DefaultInteractiveTextInput.
			WithDefaultValue(def).
			WithOnInterruptFunc(func() { interrupted = true }).
			Show(prompt)
		if interrupted {
			return "", ErrInterrupted
		}
		if err != nil {
			return "", err
		}
		answer = strings.TrimSpace(answer)
		if validate != nil {
			if verr := validate(answer); verr != nil {
				pterm.Warning.Println(verr.Error())
				continue
			}
		}
		return answer, nil
	}
}

// InputPath reads a filesystem path. A leading ~ is expanded by validators,
// not here, so the answer is returned as typed.
func (p *Pterm) InputPath(prompt, def string, validate Validator) (string, error) {
	return p.InputText(prompt, def, validate)
}

// Confirm asks a yes/no question.
func (p *Pterm) Confirm(prompt string, def bool) (bool, error) {
	interrupted := false
	answer, err := pterm.DefaultInteractiveConfirm.
		WithDefaultValue(def).
		WithOnInterruptFunc(func() { interrupted = true }).
		Show(prompt)
	if interrupted {
		return false, ErrInterrupted
	}
	if err != nil {
		return false, err
	}
	return answer, nil
}

func labelIndex(choices []Choice) ([]string, map[string]string) {
	labels := make([]string, 0, len(choices))
	byLabel := make(map[string]string, len(choices))
	for _, c := range choices {
		labels = append(labels, c.Label())
		byLabel[c.Label()] = c.Value
	}
	return labels, byLabel
}
