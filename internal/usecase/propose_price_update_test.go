package usecase_test

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dstack-org/dops-cli/internal/config"
	"github.com/dstack-org/dops-cli/internal/domain"
	"github.com/dstack-org/dops-cli/internal/usecase"
)

var (
	testOracle = common.HexToAddress("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
	testSafe   = common.HexToAddress("0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb")
	testSender = common.HexToAddress("0xcccccccccccccccccccccccccccccccccccccccc")
)

func priceUpdateConfig() *config.RuntimeConfig {
	return &config.RuntimeConfig{
		NetworkName: "fraxtal",
		Network: &config.NetworkConfig{
			ChainID: 252,
			RPCURL:  "http://localhost:8545",
			Oracle:  &config.OracleConfig{Wrapper: testOracle.Hex()},
			Safe: &config.SafeConfig{
				Address: testSafe.Hex(),
				Sender:  testSender.Hex(),
			},
		},
	}
}

func TestProposePriceUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("proposes a small change", func(t *testing.T) {
		oracle := new(MockOracleClient)
		proposer := new(MockSafeProposer)

		oldPrice, _ := domain.ParsePrice("1.00")
		callData := []byte{0xde, 0xad}
		txHash := common.HexToHash("0x1234")

		oracle.On("Price", ctx, testOracle).Return(oldPrice, nil)
		oracle.On("BpsTolerance", ctx, testOracle).Return(big.NewInt(100), nil)
		oracle.On("PackSetPrice", mock.Anything, mock.Anything, mock.Anything).Return(callData, nil)
		proposer.On("ProposeTransaction", ctx, testSafe, testOracle, callData, testSender).Return(txHash, nil)

		uc := usecase.NewProposePriceUpdate(priceUpdateConfig(), oracle, proposer, testLogger())
		result, err := uc.Run(ctx, usecase.ProposePriceParams{NewPrice: "1.05"})

		require.NoError(t, err)
		assert.False(t, result.NoChange)
		require.NotNil(t, result.Proposal)
		assert.Equal(t, "500", result.Proposal.ChangeBps.String())
		assert.False(t, result.Proposal.LargeChange)
		assert.Equal(t, txHash, result.Proposal.SafeTxHash)
		assert.Equal(t, "100", result.ToleranceBps.String())

		oracle.AssertExpectations(t)
		proposer.AssertExpectations(t)
	})

	t.Run("no-op change submits nothing", func(t *testing.T) {
		oracle := new(MockOracleClient)
		proposer := new(MockSafeProposer)

		oldPrice, _ := domain.ParsePrice("1.00")
		oracle.On("Price", ctx, testOracle).Return(oldPrice, nil)

		uc := usecase.NewProposePriceUpdate(priceUpdateConfig(), oracle, proposer, testLogger())
		result, err := uc.Run(ctx, usecase.ProposePriceParams{NewPrice: "1.00"})

		require.NoError(t, err)
		assert.True(t, result.NoChange)
		assert.Nil(t, result.Proposal)

		proposer.AssertNotCalled(t, "ProposeTransaction",
			mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		oracle.AssertNotCalled(t, "PackSetPrice", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("large change requires confirmation", func(t *testing.T) {
		oracle := new(MockOracleClient)
		proposer := new(MockSafeProposer)

		oldPrice, _ := domain.ParsePrice("1.00")
		oracle.On("Price", ctx, testOracle).Return(oldPrice, nil)

		uc := usecase.NewProposePriceUpdate(priceUpdateConfig(), oracle, proposer, testLogger())
		// 1.00 -> 0.40 is -6000 bps
		_, err := uc.Run(ctx, usecase.ProposePriceParams{NewPrice: "0.40"})

		assert.ErrorIs(t, err, domain.ErrUnconfirmedLargeChange)
		proposer.AssertNotCalled(t, "ProposeTransaction",
			mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("large change goes through when confirmed", func(t *testing.T) {
		oracle := new(MockOracleClient)
		proposer := new(MockSafeProposer)

		oldPrice, _ := domain.ParsePrice("1.00")
		oracle.On("Price", ctx, testOracle).Return(oldPrice, nil)
		oracle.On("BpsTolerance", ctx, testOracle).Return(big.NewInt(100), nil)
		oracle.On("PackSetPrice", mock.Anything, mock.Anything, mock.Anything).Return([]byte{0x01}, nil)
		proposer.On("ProposeTransaction", ctx, testSafe, testOracle, []byte{0x01}, testSender).
			Return(common.HexToHash("0x99"), nil)

		uc := usecase.NewProposePriceUpdate(priceUpdateConfig(), oracle, proposer, testLogger())
		result, err := uc.Run(ctx, usecase.ProposePriceParams{
			NewPrice:           "0.40",
			ConfirmLargeChange: true,
		})

		require.NoError(t, err)
		assert.True(t, result.Proposal.LargeChange)
		assert.Equal(t, "-6000", result.Proposal.ChangeBps.String())
	})

	t.Run("exactly 5000 bps is not large", func(t *testing.T) {
		oracle := new(MockOracleClient)
		proposer := new(MockSafeProposer)

		oldPrice, _ := domain.ParsePrice("1.00")
		oracle.On("Price", ctx, testOracle).Return(oldPrice, nil)
		oracle.On("BpsTolerance", ctx, testOracle).Return(big.NewInt(100), nil)
		oracle.On("PackSetPrice", mock.Anything, mock.Anything, mock.Anything).Return([]byte{0x01}, nil)
		proposer.On("ProposeTransaction", ctx, testSafe, testOracle, []byte{0x01}, testSender).
			Return(common.HexToHash("0x99"), nil)

		uc := usecase.NewProposePriceUpdate(priceUpdateConfig(), oracle, proposer, testLogger())
		result, err := uc.Run(ctx, usecase.ProposePriceParams{NewPrice: "0.50"})

		require.NoError(t, err)
		assert.False(t, result.Proposal.LargeChange)
		assert.Equal(t, "-5000", result.Proposal.ChangeBps.String())
	})

	t.Run("oracle override wins over config", func(t *testing.T) {
		oracle := new(MockOracleClient)
		proposer := new(MockSafeProposer)

		override := common.HexToAddress("0xdddddddddddddddddddddddddddddddddddddddd")
		oldPrice, _ := domain.ParsePrice("1.00")
		oracle.On("Price", ctx, override).Return(oldPrice, nil)
		oracle.On("BpsTolerance", ctx, override).Return(big.NewInt(100), nil)
		oracle.On("PackSetPrice", mock.Anything, mock.Anything, mock.Anything).Return([]byte{0x01}, nil)
		proposer.On("ProposeTransaction", ctx, testSafe, override, []byte{0x01}, testSender).
			Return(common.HexToHash("0x99"), nil)

		uc := usecase.NewProposePriceUpdate(priceUpdateConfig(), oracle, proposer, testLogger())
		_, err := uc.Run(ctx, usecase.ProposePriceParams{
			NewPrice:       "1.01",
			OracleOverride: override.Hex(),
		})

		require.NoError(t, err)
		oracle.AssertExpectations(t)
	})

	t.Run("invalid price aborts before any read", func(t *testing.T) {
		oracle := new(MockOracleClient)
		proposer := new(MockSafeProposer)

		uc := usecase.NewProposePriceUpdate(priceUpdateConfig(), oracle, proposer, testLogger())
		_, err := uc.Run(ctx, usecase.ProposePriceParams{NewPrice: "not-a-price"})

		assert.Error(t, err)
		oracle.AssertNotCalled(t, "Price", mock.Anything, mock.Anything)
	})

	t.Run("missing safe section", func(t *testing.T) {
		cfg := priceUpdateConfig()
		cfg.Network.Safe = nil

		uc := usecase.NewProposePriceUpdate(cfg, new(MockOracleClient), new(MockSafeProposer), testLogger())
		_, err := uc.Run(ctx, usecase.ProposePriceParams{NewPrice: "1.05"})

		assert.ErrorIs(t, err, domain.ErrMissingConfig)
	})

	t.Run("missing oracle everywhere", func(t *testing.T) {
		cfg := priceUpdateConfig()
		cfg.Network.Oracle = nil

		uc := usecase.NewProposePriceUpdate(cfg, new(MockOracleClient), new(MockSafeProposer), testLogger())
		_, err := uc.Run(ctx, usecase.ProposePriceParams{NewPrice: "1.05"})

		assert.ErrorIs(t, err, domain.ErrMissingConfig)
	})
}
