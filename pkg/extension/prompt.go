package extension

import (
	"fmt"
	"strings"

	"devc/pkg/interact"
)

// PromptArguments asks the question of every argument that declares a Prompt
// and returns the equivalent argv fragment. Values are always written as
// --name=value so optional-value flags parse unambiguously.
func PromptArguments(p interact.Provider, args []Argument) ([]string, error) {
	var argv []string
	for _, a := range args {
		if a.Prompt == "" {
			continue
		}
		frag, err := promptArgument(p, a)
		if err != nil {
			return nil, err
		}
		argv = append(argv, frag...)
	}
	return argv, nil
}

func promptArgument(p interact.Provider, a Argument) ([]string, error) {
	flag := "--" + a.Name
	switch a.Kind {
	case KindBool:
		def, _ := a.Default.(bool)
		ok, err := p.Confirm(a.Prompt, def)
		if err != nil {
			return nil, err
		}
		switch {
		case ok && !def:
			return []string{flag}, nil
		case !ok && def:
			return []string{flag + "=false"}, nil
		}
		return nil, nil

	case KindChoice:
		choices := make([]interact.Choice, 0, len(a.Choices))
		for _, c := range a.Choices {
			choices = append(choices, interact.Choice{Value: c})
		}
		def := stringDefault(a.Default)
		if def == "" {
			def = a.NoOptDefault
		}
		v, err := p.SelectOne(a.Prompt, choices, def)
		if err != nil || v == "" {
			return nil, err
		}
		return []string{flag + "=" + v}, nil

	case KindStrings:
		def, _ := a.Default.([]string)
		v, err := p.InputText(a.Prompt, strings.Join(def, ","), validator(a, true))
		if err != nil || v == "" {
			return nil, err
		}
		return []string{flag + "=" + v}, nil

	case KindPath:
		v, err := p.InputPath(a.Prompt, stringDefault(a.Default), validator(a, false))
		if err != nil || v == "" {
			return nil, err
		}
		return []string{flag + "=" + v}, nil
	}

	v, err := p.InputText(a.Prompt, stringDefault(a.Default), validator(a, false))
	if err != nil || v == "" {
		return nil, err
	}
	return []string{flag + "=" + v}, nil
}

// validator adapts an Argument's checks to an interactive answer. An empty
// answer is accepted unless the argument is required.
func validator(a Argument, list bool) interact.Validator {
	return func(answer string) error {
		if strings.TrimSpace(answer) == "" {
			if a.Required {
				return fmt.Errorf("--%s is required", a.Name)
			}
			return nil
		}
		if a.Validate == nil {
			return nil
		}
		if !list {
			return a.Validate(answer)
		}
		for _, part := range strings.Split(answer, ",") {
			if part = strings.TrimSpace(part); part == "" {
				continue
			}
			if err := a.Validate(part); err != nil {
				return err
			}
		}
		return nil
	}
}
