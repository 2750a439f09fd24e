package safe_test

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"

	"github.com/dstack-org/dops-cli/pkg/safe"
)

var (
	hashSafe = common.HexToAddress("0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb")
	hashTo   = common.HexToAddress("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
)

func TestTxHash(t *testing.T) {
	chainID := big.NewInt(252)
	tx := safe.Tx{
		To:    hashTo,
		Data:  []byte{0x01, 0x02, 0x03},
		Nonce: big.NewInt(7),
	}

	t.Run("deterministic", func(t *testing.T) {
		a := safe.TxHash(hashSafe, chainID, tx)
		b := safe.TxHash(hashSafe, chainID, tx)
		assert.Equal(t, a, b)
		assert.NotEqual(t, common.Hash{}, a)
	})

	t.Run("nonce changes the hash", func(t *testing.T) {
		bumped := tx
		bumped.Nonce = big.NewInt(8)
		assert.NotEqual(t, safe.TxHash(hashSafe, chainID, tx), safe.TxHash(hashSafe, chainID, bumped))
	})

	t.Run("chain ID changes the hash", func(t *testing.T) {
		assert.NotEqual(t,
			safe.TxHash(hashSafe, big.NewInt(252), tx),
			safe.TxHash(hashSafe, big.NewInt(146), tx))
	})

	t.Run("calldata changes the hash", func(t *testing.T) {
		other := tx
		other.Data = []byte{0x01, 0x02, 0x04}
		assert.NotEqual(t, safe.TxHash(hashSafe, chainID, tx), safe.TxHash(hashSafe, chainID, other))
	})

	t.Run("safe address changes the hash", func(t *testing.T) {
		otherSafe := common.HexToAddress("0xcccccccccccccccccccccccccccccccccccccccc")
		assert.NotEqual(t, safe.TxHash(hashSafe, chainID, tx), safe.TxHash(otherSafe, chainID, tx))
	})

	t.Run("nil gas fields equal explicit zeros", func(t *testing.T) {
		explicit := tx
		explicit.Value = big.NewInt(0)
		explicit.SafeTxGas = big.NewInt(0)
		explicit.BaseGas = big.NewInt(0)
		explicit.GasPrice = big.NewInt(0)
		assert.Equal(t, safe.TxHash(hashSafe, chainID, tx), safe.TxHash(hashSafe, chainID, explicit))
	})

	t.Run("inputs are not mutated", func(t *testing.T) {
		nonce := big.NewInt(7)
		withNonce := tx
		withNonce.Nonce = nonce
		safe.TxHash(hashSafe, chainID, withNonce)
		assert.Equal(t, "7", nonce.String())
		assert.Equal(t, "252", chainID.String())
	})
}
