package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dstack-org/dops-cli/internal/config"
	"github.com/dstack-org/dops-cli/internal/domain"
	"github.com/ethereum/go-ethereum/common"
	"github.com/hashicorp/go-multierror"
)

// VerifyDeployment checks, for every configured unit, that the expected
// ledger records exist (and optionally that code is live on-chain), and
// aggregates a pass/fail summary. An individual unit failure is recorded
// and reported, never aborts the run.
type VerifyDeployment struct {
	cfg   *config.RuntimeConfig
	store DeploymentStore
	chain ChainReader
	log   *slog.Logger
}

// NewVerifyDeployment creates a new verification use case
func NewVerifyDeployment(cfg *config.RuntimeConfig, store DeploymentStore, chain ChainReader, log *slog.Logger) *VerifyDeployment {
	return &VerifyDeployment{
		cfg:   cfg,
		store: store,
		chain: chain,
		log:   log,
	}
}

// VerifyParams controls a verification run
type VerifyParams struct {
	// CheckOnChain additionally verifies that each recorded address has code
	CheckOnChain bool
}

// UnitVerification is the per-unit verification result
type UnitVerification struct {
	Unit string
	OK   bool
	Err  error
}

// VerifySummary aggregates verification results
type VerifySummary struct {
	Units    []UnitVerification
	Deployed int
	Total    int
}

// SuccessRate returns the fraction of verified units in [0, 1]
func (s *VerifySummary) SuccessRate() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Deployed) / float64(s.Total)
}

// Run verifies every configured unit
func (v *VerifyDeployment) Run(ctx context.Context, params VerifyParams) (*VerifySummary, error) {
	if v.cfg.Network == nil {
		return nil, fmt.Errorf("%w: --network is required for verification", domain.ErrMissingConfig)
	}

	summary := &VerifySummary{}
	network := v.cfg.Network

	if network.DPool != nil {
		for _, instance := range network.DPool.Instances {
			unit := "dpool:" + instance.Symbol
			err := v.verifyInstance(ctx, params, instance)
			v.add(summary, unit, err)
		}
	}

	if network.LiquidatorBotOdos != nil {
		err := v.verifyRecord(ctx, params, "liquidator-bot-odos")
		v.add(summary, "liquidator-bot-odos", err)
	}

	if network.Rewards != nil {
		for _, manager := range network.Rewards.Managers {
			unit := "reward-manager:" + manager.Symbol
			err := v.verifyRecord(ctx, params, "reward-manager-"+manager.Symbol)
			v.add(summary, unit, err)
		}
	}

	return summary, nil
}

func (v *VerifyDeployment) add(summary *VerifySummary, unit string, err error) {
	summary.Total++
	if err != nil {
		v.log.Warn("unit verification failed", "unit", unit, "error", err)
		summary.Units = append(summary.Units, UnitVerification{Unit: unit, Err: err})
		return
	}
	summary.Deployed++
	summary.Units = append(summary.Units, UnitVerification{Unit: unit, OK: true})
}

// verifyInstance checks vault, periphery, and pool resolvability for one
// dPool instance, collecting every problem instead of stopping at the first
func (v *VerifyDeployment) verifyInstance(ctx context.Context, params VerifyParams, instance config.DPoolInstance) error {
	var errs *multierror.Error

	for _, id := range []string{
		fmt.Sprintf("dpool-%s-vault", instance.Symbol),
		fmt.Sprintf("dpool-%s-periphery", instance.Symbol),
	} {
		if err := v.verifyRecord(ctx, params, id); err != nil {
			errs = multierror.Append(errs, err)
		}
	}

	if err := v.verifyPoolRef(ctx, instance.Pool); err != nil {
		errs = multierror.Append(errs, err)
	}

	return errs.ErrorOrNil()
}

func (v *VerifyDeployment) verifyRecord(ctx context.Context, params VerifyParams, id string) error {
	record, err := v.store.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("record %s: %w", id, err)
	}

	addr := common.HexToAddress(record.Address)
	if addr == (common.Address{}) {
		return fmt.Errorf("record %s: %w", id, domain.ErrZeroAddress)
	}

	if params.CheckOnChain {
		hasCode, err := v.chain.HasCode(ctx, addr)
		if err != nil {
			return fmt.Errorf("record %s: code check failed: %w", id, err)
		}
		if !hasCode {
			return fmt.Errorf("record %s: no code at %s", id, addr.Hex())
		}
	}
	return nil
}

func (v *VerifyDeployment) verifyPoolRef(ctx context.Context, ref string) error {
	poolRef, err := domain.ParsePoolRef(ref)
	if err != nil {
		return err
	}
	if poolRef.Kind == domain.PoolRefByAddress {
		return nil
	}
	if _, err := v.store.Get(ctx, poolRef.ID); err != nil {
		return fmt.Errorf("pool %s: %w", poolRef.ID, err)
	}
	return nil
}
