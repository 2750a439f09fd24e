package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"

	"github.com/dstack-org/dops-cli/internal/config"
	"github.com/dstack-org/dops-cli/internal/domain"
	"github.com/dstack-org/dops-cli/internal/domain/models"
	"github.com/ethereum/go-ethereum/common"
)

// ProposePriceUpdate computes a governance oracle price change and submits
// it as a multisig transaction proposal. The on-chain setter re-validates
// the expected old price and the basis-point delta, so the numbers built
// here must match what the contract derives.
type ProposePriceUpdate struct {
	cfg      *config.RuntimeConfig
	oracle   OracleClient
	proposer SafeProposer
	log      *slog.Logger
}

// NewProposePriceUpdate creates a new price-update use case
func NewProposePriceUpdate(
	cfg *config.RuntimeConfig,
	oracle OracleClient,
	proposer SafeProposer,
	log *slog.Logger,
) *ProposePriceUpdate {
	return &ProposePriceUpdate{
		cfg:      cfg,
		oracle:   oracle,
		proposer: proposer,
		log:      log,
	}
}

// ProposePriceParams carries the operator inputs, normally sourced from the
// NEW_PRICE, ORACLE_ADDRESS and CONFIRM_LARGE_CHANGE environment variables.
type ProposePriceParams struct {
	NewPrice           string // required decimal string, e.g. "1.00"
	OracleOverride     string // optional oracle wrapper address override
	ConfirmLargeChange bool   // CONFIRM_LARGE_CHANGE=yes
}

// ProposePriceResult is the outcome of the workflow
type ProposePriceResult struct {
	// NoChange is set when newPrice equals the current on-chain price;
	// no proposal is constructed in that case.
	NoChange bool
	// ToleranceBps is the contract-side verification tolerance, informational
	ToleranceBps *big.Int
	Proposal     *models.PriceProposal
}

// Run executes the price-update workflow
func (p *ProposePriceUpdate) Run(ctx context.Context, params ProposePriceParams) (*ProposePriceResult, error) {
	if params.NewPrice == "" {
		return nil, fmt.Errorf("%w: NEW_PRICE is required", domain.ErrMissingConfig)
	}

	newPrice, err := domain.ParsePrice(params.NewPrice)
	if err != nil {
		return nil, fmt.Errorf("invalid NEW_PRICE: %w", err)
	}

	oracleAddr, err := p.resolveOracle(params.OracleOverride)
	if err != nil {
		return nil, err
	}

	safeCfg := p.safeConfig()
	if safeCfg == nil {
		return nil, fmt.Errorf("%w: no safe section configured for network %s",
			domain.ErrMissingConfig, p.cfg.NetworkName)
	}

	oldPrice, err := p.oracle.Price(ctx, oracleAddr)
	if err != nil {
		return nil, fmt.Errorf("failed to read current oracle price: %w", err)
	}

	p.log.Info("current oracle price", "oracle", oracleAddr.Hex(), "price", oldPrice.String())

	// A no-op change is never submitted
	if newPrice.Cmp(oldPrice) == 0 {
		p.log.Info("new price equals current price, nothing to propose")
		return &ProposePriceResult{NoChange: true}, nil
	}

	changeBps, err := domain.ComputeChangeBps(oldPrice, newPrice)
	if err != nil {
		return nil, err
	}

	large := new(big.Int).Abs(changeBps).Cmp(big.NewInt(models.LargeChangeThresholdBps)) > 0
	if large && !params.ConfirmLargeChange {
		return nil, fmt.Errorf("%w: |%s| bps exceeds %d bps, set CONFIRM_LARGE_CHANGE=yes to proceed",
			domain.ErrUnconfirmedLargeChange, changeBps, models.LargeChangeThresholdBps)
	}

	tolerance, err := p.oracle.BpsTolerance(ctx, oracleAddr)
	if err != nil {
		return nil, fmt.Errorf("failed to read oracle bps tolerance: %w", err)
	}
	p.log.Info("proposing price change",
		"old", oldPrice.String(),
		"new", newPrice.String(),
		"changeBps", changeBps.String(),
		"contractToleranceBps", tolerance.String(),
	)

	data, err := p.oracle.PackSetPrice(oldPrice, newPrice, changeBps)
	if err != nil {
		return nil, fmt.Errorf("failed to encode setPrice call: %w", err)
	}

	safeAddr := common.HexToAddress(safeCfg.Address)
	sender := common.HexToAddress(safeCfg.Sender)
	txHash, err := p.proposer.ProposeTransaction(ctx, safeAddr, oracleAddr, data, sender)
	if err != nil {
		return nil, fmt.Errorf("failed to propose transaction to safe service: %w", err)
	}

	return &ProposePriceResult{
		ToleranceBps: tolerance,
		Proposal: &models.PriceProposal{
			Oracle:      oracleAddr,
			Safe:        safeAddr,
			OldPrice:    oldPrice,
			NewPrice:    newPrice,
			ChangeBps:   changeBps,
			LargeChange: large,
			CallData:    data,
			SafeTxHash:  txHash,
		},
	}, nil
}

func (p *ProposePriceUpdate) resolveOracle(override string) (common.Address, error) {
	raw := override
	if raw == "" {
		if p.cfg.Network != nil && p.cfg.Network.Oracle != nil {
			raw = p.cfg.Network.Oracle.Wrapper
		}
	}
	if raw == "" {
		return common.Address{}, fmt.Errorf("%w: no oracle wrapper address (config oracle.wrapper or ORACLE_ADDRESS)",
			domain.ErrMissingConfig)
	}
	if !domain.IsAddressShaped(raw) {
		return common.Address{}, fmt.Errorf("%w: oracle address %q", domain.ErrInvalidAddress, raw)
	}
	addr := common.HexToAddress(raw)
	if addr == (common.Address{}) {
		return common.Address{}, fmt.Errorf("oracle address: %w", domain.ErrZeroAddress)
	}
	return addr, nil
}

func (p *ProposePriceUpdate) safeConfig() *config.SafeConfig {
	if p.cfg.Network == nil {
		return nil
	}
	return p.cfg.Network.Safe
}
