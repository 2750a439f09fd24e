package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dstack-org/dops-cli/internal/config"
	"github.com/dstack-org/dops-cli/internal/domain"
	"github.com/dstack-org/dops-cli/internal/domain/models"
	"github.com/dstack-org/dops-cli/internal/usecase"
)

func verifyEnv(network *config.NetworkConfig) (*MockDeploymentStore, *MockChainReader, *usecase.VerifyDeployment) {
	store := new(MockDeploymentStore)
	chain := new(MockChainReader)
	cfg := &config.RuntimeConfig{NetworkName: "localhost", Network: network}
	return store, chain, usecase.NewVerifyDeployment(cfg, store, chain, testLogger())
}

func TestVerifyDeployment(t *testing.T) {
	ctx := context.Background()

	t.Run("all units present", func(t *testing.T) {
		network := dpoolNetwork()
		network.Rewards = &config.RewardsConfig{
			Managers: []config.RewardManagerConfig{{Symbol: "sfrax"}},
		}
		store, _, uc := verifyEnv(network)

		store.On("Get", ctx, mock.Anything).Return(&models.DeploymentRecord{
			Address: testVaultAddr.Hex(),
		}, nil)

		summary, err := uc.Run(ctx, usecase.VerifyParams{})

		require.NoError(t, err)
		assert.Equal(t, 2, summary.Total)
		assert.Equal(t, 2, summary.Deployed)
		assert.InDelta(t, 1.0, summary.SuccessRate(), 0.001)
	})

	t.Run("missing record fails its unit only", func(t *testing.T) {
		network := dpoolNetwork()
		store, _, uc := verifyEnv(network)

		store.On("Get", ctx, "dpool-sfrax-vault").Return(nil, domain.ErrNotFound)
		store.On("Get", ctx, "dpool-sfrax-periphery").Return(&models.DeploymentRecord{
			Address: testPeriAddr.Hex(),
		}, nil)

		summary, err := uc.Run(ctx, usecase.VerifyParams{})

		require.NoError(t, err)
		assert.Equal(t, 1, summary.Total)
		assert.Equal(t, 0, summary.Deployed)
		require.Len(t, summary.Units, 1)
		assert.False(t, summary.Units[0].OK)
		assert.ErrorContains(t, summary.Units[0].Err, "dpool-sfrax-vault")
	})

	t.Run("on-chain check catches codeless addresses", func(t *testing.T) {
		network := dpoolNetwork()
		store, chain, uc := verifyEnv(network)

		store.On("Get", ctx, mock.Anything).Return(&models.DeploymentRecord{
			Address: testVaultAddr.Hex(),
		}, nil)
		chain.On("HasCode", ctx, testVaultAddr).Return(false, nil)

		summary, err := uc.Run(ctx, usecase.VerifyParams{CheckOnChain: true})

		require.NoError(t, err)
		assert.Equal(t, 0, summary.Deployed)
		assert.ErrorContains(t, summary.Units[0].Err, "no code")
	})

	t.Run("ledger-only check skips the chain", func(t *testing.T) {
		network := dpoolNetwork()
		store, chain, uc := verifyEnv(network)

		store.On("Get", ctx, mock.Anything).Return(&models.DeploymentRecord{
			Address: testVaultAddr.Hex(),
		}, nil)

		_, err := uc.Run(ctx, usecase.VerifyParams{})
		require.NoError(t, err)
		chain.AssertNotCalled(t, "HasCode", mock.Anything, mock.Anything)
	})

	t.Run("pool ledger reference must resolve", func(t *testing.T) {
		network := dpoolNetwork()
		network.DPool.Instances[0].Pool = "dpool-frax-vault"
		store, _, uc := verifyEnv(network)

		store.On("Get", ctx, "dpool-sfrax-vault").Return(&models.DeploymentRecord{
			Address: testVaultAddr.Hex(),
		}, nil)
		store.On("Get", ctx, "dpool-sfrax-periphery").Return(&models.DeploymentRecord{
			Address: testPeriAddr.Hex(),
		}, nil)
		store.On("Get", ctx, "dpool-frax-vault").Return(nil, domain.ErrNotFound)

		summary, err := uc.Run(ctx, usecase.VerifyParams{})

		require.NoError(t, err)
		assert.Equal(t, 0, summary.Deployed)
		assert.ErrorContains(t, summary.Units[0].Err, "pool dpool-frax-vault")
	})

	t.Run("no network selected is an error", func(t *testing.T) {
		_, _, uc := verifyEnv(nil)
		_, err := uc.Run(ctx, usecase.VerifyParams{})
		assert.ErrorIs(t, err, domain.ErrMissingConfig)
	})

	t.Run("empty summary has zero success rate", func(t *testing.T) {
		summary := &usecase.VerifySummary{}
		assert.Zero(t, summary.SuccessRate())
	})
}
