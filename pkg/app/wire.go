//go:build wireinject

package app

import (
	"github.com/google/wire"

	"devc/pkg/config"
)

// InitializeRuntime builds a Runtime for cfg.
func InitializeRuntime(cfg *config.Config) (*Runtime, error) {
	wire.Build(ProviderSet)
	return nil, nil
}
