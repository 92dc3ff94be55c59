// Package extension composes a command line out of independently registered
// extensions. It resolves extension points, binds each extension's arguments
// into a shared flag set while tracking ownership, detects which extensions a
// parse invoked, merges their update documents and offers an interactive flow
// that produces the same argv a user could have typed.
package extension

import (
	"context"
	"io"

	"devc/pkg/document"
	"devc/pkg/interact"
)

// ProtocolVersion is the extension protocol implemented by this build.
const ProtocolVersion = "0.1.0"

// DefaultRequires is the protocol range declared by Base.
const DefaultRequires = "^0.1"

// Extension is implemented by every extension. Requires returns the protocol
// version range the extension supports, for example "^0.1".
type Extension interface {
	Requires() string
}

// Base can be embedded to declare DefaultRequires.
type Base struct{}

// Requires implements Extension.
func (Base) Requires() string { return DefaultRequires }

// ArgumentProvider declares command-line arguments. Implementations must
// consult defaults before falling back to their own default values.
type ArgumentProvider interface {
	Arguments(defaults Defaults) []Argument
}

// UpdateProducer contributes an update document when invoked.
type UpdateProducer interface {
	Updates(ctx context.Context, values Values) (document.Document, error)
}

// EnvironmentValidator checks the host before updates are produced.
// PreconditionEnvironment runs first and may prepare state,
// ValidateEnvironment only inspects it.
type EnvironmentValidator interface {
	PreconditionEnvironment(ctx context.Context, values Values) error
	ValidateEnvironment(ctx context.Context, values Values) error
}

// Prompter replaces the question flow derived from Argument.Prompt and
// returns the argv fragment equivalent to the answers.
type Prompter interface {
	Prompt(ctx context.Context, p interact.Provider, defaults Defaults) ([]string, error)
}

// SubcommandOwner hosts a nested extension point whose extensions become
// subcommands. Exactly one of them is selected per invocation.
type SubcommandOwner interface {
	SubcommandPoint() string
}

// AddonOwner hosts a nested extension point whose extensions contribute
// flags and update documents. Any number of them may be invoked.
type AddonOwner interface {
	AddonPoint() string
}

// Runner executes a mounted command extension.
type Runner interface {
	Run(ctx context.Context, rc *RunContext) error
}

// RunContext is handed to a Runner.
type RunContext struct {
	// Name is the name the extension was registered under.
	Name string
	// Args holds positional arguments left after flag parsing.
	Args []string
	// Values holds every argument visible to the command.
	Values Values
	// Addons manages the add-on extensions of the nearest AddonOwner.
	// It is never nil.
	Addons *Manager
	Out    io.Writer
}

// Defaults overrides extension argument defaults by key.
type Defaults map[string]any

// Get returns the default stored under key, or fallback.
func (d Defaults) Get(key string, fallback any) any {
	if v, ok := d[key]; ok {
		return v
	}
	return fallback
}

// Instance is a materialized extension.
type Instance struct {
	Name        string
	Point       string
	Description string
	Extension   Extension

	arguments []Argument
	owned     []string
}

// Arguments returns the names of the arguments the instance introduced.
func (i *Instance) Arguments() []string {
	out := make([]string, len(i.owned))
	copy(out, i.owned)
	return out
}
