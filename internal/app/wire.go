//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"
	"github.com/spf13/viper"

	"github.com/dstack-org/dops-cli/internal/adapters"
	"github.com/dstack-org/dops-cli/internal/config"
	"github.com/dstack-org/dops-cli/internal/logging"
	"github.com/dstack-org/dops-cli/internal/usecase"
)

// InitApp creates a fully wired App instance
func InitApp(v *viper.Viper, sink usecase.ProgressSink) (*App, error) {
	wire.Build(
		// Configuration and logging
		config.Provider,
		logging.LoggingSet,

		// Adapters
		adapters.AllAdapters,

		// Use cases
		usecase.NewConfigurePeriphery,
		usecase.NewComposeDeployment,
		usecase.NewComposeFixture,
		usecase.NewVerifyDeployment,
		usecase.NewProposePriceUpdate,
		usecase.NewListDeployments,
		usecase.NewShowDeployment,

		// App
		NewApp,
	)
	return nil, nil
}
