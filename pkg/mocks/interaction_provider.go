package mocks

import (
	"github.com/stretchr/testify/mock"

	"devc/pkg/interact"
)

// MockInteractionProvider is a testify mock for interact.Provider.
type MockInteractionProvider struct {
	mock.Mock
}

func (m *MockInteractionProvider) SelectOne(prompt string, choices []interact.Choice, def string) (string, error) {
	args := m.Called(prompt, choices, def)
	return args.String(0), args.Error(1)
}

func (m *MockInteractionProvider) SelectMany(prompt string, choices []interact.Choice, defs []string) ([]string, error) {
	args := m.Called(prompt, choices, defs)
	var out []string
	if v := args.Get(0); v != nil {
		out = v.([]string)
	}
	return out, args.Error(1)
}

func (m *MockInteractionProvider) InputText(prompt, def string, validate interact.Validator) (string, error) {
	args := m.Called(prompt, def, validate)
	return args.String(0), args.Error(1)
}

func (m *MockInteractionProvider) InputPath(prompt, def string, validate interact.Validator) (string, error) {
	args := m.Called(prompt, def, validate)
	return args.String(0), args.Error(1)
}

func (m *MockInteractionProvider) Confirm(prompt string, def bool) (bool, error) {
	args := m.Called(prompt, def)
	return args.Bool(0), args.Error(1)
}
