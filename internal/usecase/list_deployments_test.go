package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dstack-org/dops-cli/internal/domain/models"
	"github.com/dstack-org/dops-cli/internal/usecase"
)

func TestListDeployments(t *testing.T) {
	ctx := context.Background()

	t.Run("lists sorted by chain then ID", func(t *testing.T) {
		records := []*models.DeploymentRecord{
			{ID: "dpool-sfrax-vault", ChainID: 252, Unit: models.UnitVault, CreatedAt: time.Now()},
			{ID: "liquidator-bot-odos", ChainID: 146, Unit: models.UnitLiquidatorBot, CreatedAt: time.Now()},
			{ID: "dpool-sfrax-periphery", ChainID: 252, Unit: models.UnitPeriphery, CreatedAt: time.Now()},
			{ID: "dpool-susds-vault", ChainID: 146, Unit: models.UnitVault, CreatedAt: time.Now()},
		}

		store := new(MockDeploymentStore)
		store.On("List", ctx, models.RecordFilter{}).Return(records, nil)

		uc := usecase.NewListDeployments(store)
		result, err := uc.Run(ctx, models.RecordFilter{})

		require.NoError(t, err)
		require.Len(t, result.Records, 4)
		expected := []string{
			"dpool-susds-vault",
			"liquidator-bot-odos",
			"dpool-sfrax-periphery",
			"dpool-sfrax-vault",
		}
		for i, record := range result.Records {
			assert.Equal(t, expected[i], record.ID, "record at index %d", i)
		}

		assert.Equal(t, 4, result.Summary.Total)
		assert.Equal(t, 2, result.Summary.ByUnit[models.UnitVault])
		assert.Equal(t, 2, result.Summary.ByChain[252])
		assert.Equal(t, 2, result.Summary.ByChain[146])
	})

	t.Run("filter is passed through to the store", func(t *testing.T) {
		filter := models.RecordFilter{ChainID: 252, Unit: models.UnitVault}

		store := new(MockDeploymentStore)
		store.On("List", ctx, filter).Return([]*models.DeploymentRecord{}, nil)

		uc := usecase.NewListDeployments(store)
		result, err := uc.Run(ctx, filter)

		require.NoError(t, err)
		assert.Empty(t, result.Records)
		assert.Zero(t, result.Summary.Total)
		store.AssertExpectations(t)
	})

	t.Run("store error propagates", func(t *testing.T) {
		store := new(MockDeploymentStore)
		store.On("List", ctx, models.RecordFilter{}).Return(nil, errBoom)

		uc := usecase.NewListDeployments(store)
		_, err := uc.Run(ctx, models.RecordFilter{})
		assert.ErrorIs(t, err, errBoom)
	})
}
