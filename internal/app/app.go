package app

import (
	"github.com/dstack-org/dops-cli/internal/config"
	"github.com/dstack-org/dops-cli/internal/usecase"
)

// App is the main application container that holds all use cases
type App struct {
	// Configuration
	Config *config.RuntimeConfig

	// Use cases
	ComposeDeployment  *usecase.ComposeDeployment
	ComposeFixture     *usecase.ComposeFixture
	VerifyDeployment   *usecase.VerifyDeployment
	ProposePriceUpdate *usecase.ProposePriceUpdate
	ListDeployments    *usecase.ListDeployments
	ShowDeployment     *usecase.ShowDeployment
}

// NewApp creates a new application instance with all use cases
func NewApp(
	cfg *config.RuntimeConfig,
	composeDeployment *usecase.ComposeDeployment,
	composeFixture *usecase.ComposeFixture,
	verifyDeployment *usecase.VerifyDeployment,
	proposePriceUpdate *usecase.ProposePriceUpdate,
	listDeployments *usecase.ListDeployments,
	showDeployment *usecase.ShowDeployment,
) (*App, error) {
	return &App{
		Config:             cfg,
		ComposeDeployment:  composeDeployment,
		ComposeFixture:     composeFixture,
		VerifyDeployment:   verifyDeployment,
		ProposePriceUpdate: proposePriceUpdate,
		ListDeployments:    listDeployments,
		ShowDeployment:     showDeployment,
	}, nil
}
