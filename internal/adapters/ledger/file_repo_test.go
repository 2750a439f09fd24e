package ledger_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dstack-org/dops-cli/internal/adapters/ledger"
	"github.com/dstack-org/dops-cli/internal/config"
	"github.com/dstack-org/dops-cli/internal/domain"
	"github.com/dstack-org/dops-cli/internal/domain/models"
)

func newRepo(t *testing.T, root string) *ledger.FileRepository {
	t.Helper()
	repo, err := ledger.NewFileRepository(&config.RuntimeConfig{ProjectRoot: root})
	require.NoError(t, err)
	return repo
}

func vaultRecord() *models.DeploymentRecord {
	return &models.DeploymentRecord{
		ID:           "dpool-sfrax-vault",
		ChainID:      252,
		ContractName: "DPoolVault",
		Unit:         models.UnitVault,
		Address:      "0x1111111111111111111111111111111111111111",
		TxHash:       "0xabcd",
		Args:         []string{"0x2222222222222222222222222222222222222222"},
		CreatedAt:    time.Now().UTC().Truncate(time.Second),
	}
}

func TestFileRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("empty ledger", func(t *testing.T) {
		repo := newRepo(t, t.TempDir())

		assert.False(t, repo.Has(ctx, "dpool-sfrax-vault"))
		_, err := repo.Get(ctx, "dpool-sfrax-vault")
		assert.ErrorIs(t, err, domain.ErrNotFound)

		records, err := repo.List(ctx, models.RecordFilter{})
		require.NoError(t, err)
		assert.Empty(t, records)
	})

	t.Run("save and reload", func(t *testing.T) {
		root := t.TempDir()
		repo := newRepo(t, root)

		record := vaultRecord()
		require.NoError(t, repo.Save(ctx, record))
		assert.True(t, repo.Has(ctx, record.ID))

		// A fresh repository over the same root sees the persisted record
		reloaded := newRepo(t, root)
		got, err := reloaded.Get(ctx, record.ID)
		require.NoError(t, err)
		assert.Equal(t, record.Address, got.Address)
		assert.Equal(t, record.ChainID, got.ChainID)
		assert.Equal(t, record.Unit, got.Unit)
		assert.Equal(t, record.Args, got.Args)
	})

	t.Run("lookup by address is case-insensitive", func(t *testing.T) {
		repo := newRepo(t, t.TempDir())
		require.NoError(t, repo.Save(ctx, vaultRecord()))

		got, err := repo.GetByAddress(ctx, 252, "0x1111111111111111111111111111111111111111")
		require.NoError(t, err)
		assert.Equal(t, "dpool-sfrax-vault", got.ID)

		got, err = repo.GetByAddress(ctx, 252, "0X1111111111111111111111111111111111111111")
		require.NoError(t, err)
		assert.Equal(t, "dpool-sfrax-vault", got.ID)

		_, err = repo.GetByAddress(ctx, 1, "0x1111111111111111111111111111111111111111")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("save replaces a record under the same ID", func(t *testing.T) {
		repo := newRepo(t, t.TempDir())
		require.NoError(t, repo.Save(ctx, vaultRecord()))

		replacement := vaultRecord()
		replacement.Address = "0x3333333333333333333333333333333333333333"
		require.NoError(t, repo.Save(ctx, replacement))

		got, err := repo.Get(ctx, replacement.ID)
		require.NoError(t, err)
		assert.Equal(t, replacement.Address, got.Address)

		records, err := repo.List(ctx, models.RecordFilter{})
		require.NoError(t, err)
		assert.Len(t, records, 1)
	})

	t.Run("list filters", func(t *testing.T) {
		repo := newRepo(t, t.TempDir())
		require.NoError(t, repo.Save(ctx, vaultRecord()))

		bot := &models.DeploymentRecord{
			ID:           "liquidator-bot-odos",
			ChainID:      146,
			ContractName: "OdosLiquidatorBot",
			Unit:         models.UnitLiquidatorBot,
			Address:      "0x4444444444444444444444444444444444444444",
			CreatedAt:    time.Now().UTC(),
		}
		require.NoError(t, repo.Save(ctx, bot))

		vaults, err := repo.List(ctx, models.RecordFilter{Unit: models.UnitVault})
		require.NoError(t, err)
		require.Len(t, vaults, 1)
		assert.Equal(t, "dpool-sfrax-vault", vaults[0].ID)

		chain146, err := repo.List(ctx, models.RecordFilter{ChainID: 146})
		require.NoError(t, err)
		require.Len(t, chain146, 1)
		assert.Equal(t, "liquidator-bot-odos", chain146[0].ID)
	})

	t.Run("record without ID is rejected", func(t *testing.T) {
		repo := newRepo(t, t.TempDir())
		err := repo.Save(ctx, &models.DeploymentRecord{Address: "0x01"})
		assert.Error(t, err)
	})

	t.Run("no temp file is left behind", func(t *testing.T) {
		root := t.TempDir()
		repo := newRepo(t, root)
		require.NoError(t, repo.Save(ctx, vaultRecord()))

		_, err := os.Stat(filepath.Join(root, ledger.DataDir, ledger.DeploymentsFile+".tmp"))
		assert.True(t, os.IsNotExist(err))
	})
}
