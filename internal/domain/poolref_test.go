package domain_test

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dstack-org/dops-cli/internal/domain"
)

func TestParsePoolRef(t *testing.T) {
	t.Run("literal address", func(t *testing.T) {
		ref, err := domain.ParsePoolRef("0x1234567890AbcdEF1234567890aBcdef12345678")
		require.NoError(t, err)
		assert.Equal(t, domain.PoolRefByAddress, ref.Kind)
		assert.Equal(t, common.HexToAddress("0x1234567890AbcdEF1234567890aBcdef12345678"), ref.Address)
	})

	t.Run("deployment ID", func(t *testing.T) {
		ref, err := domain.ParsePoolRef("dpool-sfrax-vault")
		require.NoError(t, err)
		assert.Equal(t, domain.PoolRefByID, ref.Kind)
		assert.Equal(t, "dpool-sfrax-vault", ref.ID)
	})

	t.Run("short hex string is an ID", func(t *testing.T) {
		ref, err := domain.ParsePoolRef("0x1234")
		require.NoError(t, err)
		assert.Equal(t, domain.PoolRefByID, ref.Kind)
	})

	t.Run("hex without prefix is an ID", func(t *testing.T) {
		ref, err := domain.ParsePoolRef("1234567890abcdef1234567890abcdef12345678")
		require.NoError(t, err)
		assert.Equal(t, domain.PoolRefByID, ref.Kind)
	})

	t.Run("zero address rejected", func(t *testing.T) {
		_, err := domain.ParsePoolRef("0x0000000000000000000000000000000000000000")
		assert.ErrorIs(t, err, domain.ErrZeroAddress)
	})

	t.Run("empty reference rejected", func(t *testing.T) {
		_, err := domain.ParsePoolRef("")
		assert.Error(t, err)
	})
}

func TestIsAddressShaped(t *testing.T) {
	assert.True(t, domain.IsAddressShaped("0x1234567890abcdef1234567890abcdef12345678"))
	assert.True(t, domain.IsAddressShaped("0x1234567890ABCDEF1234567890ABCDEF12345678"))
	assert.False(t, domain.IsAddressShaped("0x1234"))
	assert.False(t, domain.IsAddressShaped("dpool-sfrax-vault"))
	assert.False(t, domain.IsAddressShaped("0x1234567890abcdef1234567890abcdef123456789")) // 41 chars
	assert.False(t, domain.IsAddressShaped(""))
}

func TestPoolRefString(t *testing.T) {
	byID := domain.PoolRef{Kind: domain.PoolRefByID, ID: "dpool-sfrax-vault"}
	assert.Equal(t, "dpool-sfrax-vault", byID.String())

	addr := common.HexToAddress("0x1234567890abcdef1234567890abcdef12345678")
	byAddr := domain.PoolRef{Kind: domain.PoolRefByAddress, Address: addr}
	assert.Equal(t, addr.Hex(), byAddr.String())
}
