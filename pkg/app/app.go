// Package app wires the long-lived services of a devc run.
package app

import (
	"github.com/google/wire"

	"devc/pkg/config"
	"devc/pkg/env"
	"devc/pkg/extension"
	"devc/pkg/plugins"
	"devc/pkg/templates"
)

// Runtime aggregates the dependencies commands rely on.
type Runtime struct {
	Config   *config.Config
	Registry *extension.Registry
	Loader   *templates.Loader
	Probe    env.VersionProbe
	Defaults extension.Defaults
}

// ProviderSet exposes the runtime wiring for DI.
var ProviderSet = wire.NewSet(
	NewLoader,
	NewDefaults,
	NewRegistry,
	NewRuntime,
	env.NewDockerProbe,
	wire.Bind(new(env.VersionProbe), new(*env.DockerProbe)),
)

// NewLoader returns a template loader honouring the configured override dir.
func NewLoader(cfg *config.Config) (*templates.Loader, error) {
	return templates.NewLoader(cfg.GetTemplatesDir())
}

// NewDefaults returns the argument defaults of cfg.
func NewDefaults(cfg *config.Config) extension.Defaults {
	return cfg.GetDefaults()
}

// NewRegistry returns a registry holding the built-in extension points.
func NewRegistry(loader *templates.Loader, probe env.VersionProbe) (*extension.Registry, error) {
	reg := extension.NewRegistry()
	if err := plugins.Register(reg, plugins.Deps{Loader: loader, Probe: probe}); err != nil {
		return nil, err
	}
	return reg, nil
}

// NewRuntime binds the services into a Runtime.
func NewRuntime(cfg *config.Config, reg *extension.Registry, loader *templates.Loader, probe env.VersionProbe, defaults extension.Defaults) *Runtime {
	return &Runtime{
		Config:   cfg,
		Registry: reg,
		Loader:   loader,
		Probe:    probe,
		Defaults: defaults,
	}
}
