package extension

import (
	"context"
	"errors"

	"github.com/spf13/pflag"

	"devc/pkg/document"
	"devc/pkg/interact"
)

// fakeExt is a configurable extension used across the package tests.
type fakeExt struct {
	Base
	requires    string
	args        []Argument
	update      document.Document
	updateErr   error
	validateErr error
	validated   int
}

func (f *fakeExt) Requires() string {
	if f.requires != "" {
		return f.requires
	}
	return DefaultRequires
}

func (f *fakeExt) Arguments(Defaults) []Argument { return f.args }

func (f *fakeExt) Updates(context.Context, Values) (document.Document, error) {
	return f.update, f.updateErr
}

func (f *fakeExt) PreconditionEnvironment(context.Context, Values) error { return nil }

func (f *fakeExt) ValidateEnvironment(context.Context, Values) error {
	f.validated++
	return f.validateErr
}

// commandExt owns a subcommand point and an add-on point.
type commandExt struct {
	Base
	sub, addon string
}

func (c *commandExt) SubcommandPoint() string { return c.sub }
func (c *commandExt) AddonPoint() string      { return c.addon }

// runnerExt records the context it was run with.
type runnerExt struct {
	fakeExt
	ran *RunContext
}

func (r *runnerExt) Run(_ context.Context, rc *RunContext) error {
	r.ran = rc
	return nil
}

// promptExt answers its own questions.
type promptExt struct {
	Base
	argv []string
}

func (p *promptExt) Arguments(Defaults) []Argument {
	return []Argument{{Name: "custom", Kind: KindString}}
}

func (p *promptExt) Prompt(context.Context, interact.Provider, Defaults) ([]string, error) {
	return p.argv, nil
}

func factoryOf(ext Extension) Factory {
	return func() (Extension, error) { return ext, nil }
}

func failingFactory(msg string) Factory {
	return func() (Extension, error) { return nil, errors.New(msg) }
}

func newSet() *ArgumentSet {
	return NewArgumentSet(pflag.NewFlagSet("test", pflag.ContinueOnError), nil)
}

func instance(name string, ext Extension) *Instance {
	return &Instance{Name: name, Extension: ext}
}
