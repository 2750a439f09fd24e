package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"time"

	"github.com/dstack-org/dops-cli/internal/config"
	"github.com/dstack-org/dops-cli/internal/domain"
	"github.com/dstack-org/dops-cli/internal/domain/models"
	"github.com/ethereum/go-ethereum/common"
	"github.com/samber/lo"
)

// Unit tags for scoping a compose run
const (
	TagDPool      = "dpool"
	TagLiquidator = "liquidator"
	TagRewards    = "rewards"
)

// UnitStatus is the tri-state outcome of one deployment unit
type UnitStatus string

const (
	UnitDeployed UnitStatus = "DEPLOYED"
	UnitReused   UnitStatus = "REUSED"
	UnitSkipped  UnitStatus = "SKIPPED"
	UnitFailed   UnitStatus = "FAILED"
)

// UnitOutcome is the per-unit result of a compose run
type UnitOutcome struct {
	Unit    string
	Status  UnitStatus
	Address common.Address
	Reason  string
	Err     error
}

// ComposeResult aggregates the outcomes of a full compose run
type ComposeResult struct {
	Outcomes []UnitOutcome
}

// Counts returns (deployed+reused, skipped, failed)
func (r *ComposeResult) Counts() (ok, skipped, failed int) {
	for _, o := range r.Outcomes {
		switch o.Status {
		case UnitDeployed, UnitReused:
			ok++
		case UnitSkipped:
			skipped++
		case UnitFailed:
			failed++
		}
	}
	return
}

// ComposeParams controls a compose run
type ComposeParams struct {
	// SkipIfAlreadyDeployed keeps existing ledger records instead of
	// redeploying under the same ID
	SkipIfAlreadyDeployed bool
	// Tags restricts the run to a subset of units; empty means all
	Tags []string
}

// ComposeDeployment runs the multi-unit deployment sequence for a network:
// dPool vault/periphery/adapter sets, the Odos liquidator bot, and reward
// managers. A unit failure is recorded and the run continues with the next
// unit; a missing optional dependency is a skip, not an error.
type ComposeDeployment struct {
	cfg       *config.RuntimeConfig
	store     DeploymentStore
	deployer  ContractDeployer
	periphery *ConfigurePeriphery
	pools     PoolClient
	log       *slog.Logger
	progress  ProgressSink
}

// NewComposeDeployment creates a new deployment composer
func NewComposeDeployment(
	cfg *config.RuntimeConfig,
	store DeploymentStore,
	deployer ContractDeployer,
	periphery *ConfigurePeriphery,
	pools PoolClient,
	log *slog.Logger,
	progress ProgressSink,
) *ComposeDeployment {
	return &ComposeDeployment{
		cfg:       cfg,
		store:     store,
		deployer:  deployer,
		periphery: periphery,
		pools:     pools,
		log:       log,
		progress:  progress,
	}
}

// Run executes the deployment sequence in dependency order
func (c *ComposeDeployment) Run(ctx context.Context, params ComposeParams) (*ComposeResult, error) {
	if c.cfg.Network == nil {
		return nil, fmt.Errorf("%w: --network is required for deployment", domain.ErrMissingConfig)
	}

	result := &ComposeResult{}

	if c.tagged(params, TagDPool) {
		c.runDPool(ctx, params, result)
	}
	if c.tagged(params, TagLiquidator) {
		c.runLiquidatorBot(ctx, params, result)
	}
	if c.tagged(params, TagRewards) {
		c.runRewardManagers(ctx, params, result)
	}

	return result, nil
}

func (c *ComposeDeployment) tagged(params ComposeParams, tag string) bool {
	return len(params.Tags) == 0 || lo.Contains(params.Tags, tag)
}

// record appends an outcome and reports progress
func (c *ComposeDeployment) record(ctx context.Context, result *ComposeResult, outcome UnitOutcome) {
	result.Outcomes = append(result.Outcomes, outcome)
	c.progress.OnProgress(ctx, ProgressEvent{
		Stage:   "unit_done",
		Current: len(result.Outcomes),
		Message: fmt.Sprintf("%s: %s", outcome.Unit, outcome.Status),
	})
}

func (c *ComposeDeployment) runDPool(ctx context.Context, params ComposeParams, result *ComposeResult) {
	network := c.cfg.Network
	if network.DPool == nil {
		// Absent section means the feature is disabled for this network
		c.log.Info("dpool not configured for network, skipping", "network", c.cfg.NetworkName)
		c.record(ctx, result, UnitOutcome{Unit: "dpool", Status: UnitSkipped, Reason: "not configured"})
		return
	}

	for _, instance := range network.DPool.Instances {
		unit := "dpool:" + instance.Symbol
		outcome, err := c.deployDPoolInstance(ctx, params, instance)
		if err != nil {
			if domain.IsSkip(err) {
				c.log.Warn("skipping dpool instance", "unit", unit, "reason", err)
				c.record(ctx, result, UnitOutcome{Unit: unit, Status: UnitSkipped, Reason: err.Error()})
				continue
			}
			c.log.Error("dpool instance deployment failed", "unit", unit, "error", err)
			c.record(ctx, result, UnitOutcome{Unit: unit, Status: UnitFailed, Err: err})
			continue
		}
		c.record(ctx, result, *outcome)
	}
}

func (c *ComposeDeployment) deployDPoolInstance(ctx context.Context, params ComposeParams, instance config.DPoolInstance) (*UnitOutcome, error) {
	unit := "dpool:" + instance.Symbol

	pool, err := c.resolvePool(ctx, unit, instance.Pool)
	if err != nil {
		return nil, err
	}

	baseAsset, err := requireAddress("base_asset", instance.BaseAsset)
	if err != nil {
		return nil, err
	}

	vaultID := fmt.Sprintf("dpool-%s-vault", instance.Symbol)
	vault, vaultReused, err := c.deployOnce(ctx, vaultID, "DPoolVault", models.UnitVault,
		params.SkipIfAlreadyDeployed, baseAsset, pool)
	if err != nil {
		return nil, err
	}

	peripheryID := fmt.Sprintf("dpool-%s-periphery", instance.Symbol)
	periphery, peripheryReused, err := c.deployOnce(ctx, peripheryID, "DPoolPeriphery", models.UnitPeriphery,
		params.SkipIfAlreadyDeployed, vault, pool)
	if err != nil {
		return nil, err
	}

	adapters := make(map[common.Address]common.Address, len(instance.Adapters))
	for _, adapterCfg := range instance.Adapters {
		vaultAsset, err := requireAddress("vault_asset", adapterCfg.VaultAsset)
		if err != nil {
			return nil, err
		}
		adapterID := fmt.Sprintf("dpool-%s-adapter-%s",
			instance.Symbol, strings.ToLower(vaultAsset.Hex()))
		adapter, _, err := c.deployOnce(ctx, adapterID, adapterCfg.Contract, models.UnitAdapter,
			params.SkipIfAlreadyDeployed, vaultAsset, vault)
		if err != nil {
			return nil, err
		}
		adapters[vaultAsset] = adapter
	}

	// Post-deploy configuration is idempotent: current on-chain state is
	// checked before every write
	if _, err := c.periphery.Run(ctx, ConfigurePeripheryParams{
		Periphery: periphery,
		Instance:  instance,
		Adapters:  adapters,
	}); err != nil {
		return nil, fmt.Errorf("post-deploy configuration failed: %w", err)
	}

	status := UnitDeployed
	if vaultReused && peripheryReused {
		status = UnitReused
	}
	return &UnitOutcome{Unit: unit, Status: status, Address: vault}, nil
}

func (c *ComposeDeployment) runLiquidatorBot(ctx context.Context, params ComposeParams, result *ComposeResult) {
	network := c.cfg.Network
	bot := network.LiquidatorBotOdos
	if bot == nil {
		c.log.Info("liquidator bot not configured for network, skipping", "network", c.cfg.NetworkName)
		c.record(ctx, result, UnitOutcome{Unit: "liquidator-bot-odos", Status: UnitSkipped, Reason: "not configured"})
		return
	}

	const unit = "liquidator-bot-odos"
	addr, status, err := c.deployLiquidatorBot(ctx, params, bot)
	if err != nil {
		c.log.Error("liquidator bot deployment failed", "error", err)
		c.record(ctx, result, UnitOutcome{Unit: unit, Status: UnitFailed, Err: err})
		return
	}
	c.record(ctx, result, UnitOutcome{Unit: unit, Status: status, Address: addr})
}

func (c *ComposeDeployment) deployLiquidatorBot(ctx context.Context, params ComposeParams, bot *config.LiquidatorBotConfig) (common.Address, UnitStatus, error) {
	if bot.Router == "" {
		return common.Address{}, UnitFailed,
			fmt.Errorf("%w: liquidator_bot_odos.router", domain.ErrMissingConfig)
	}
	router, err := requireAddress("router", bot.Router)
	if err != nil {
		return common.Address{}, UnitFailed, err
	}
	odosRouter, err := requireAddress("odos_router", bot.OdosRouter)
	if err != nil {
		return common.Address{}, UnitFailed, err
	}
	provider, err := requireAddress("addresses_provider", bot.AddressesProvider)
	if err != nil {
		return common.Address{}, UnitFailed, err
	}
	flashMinter, err := requireAddress("flash_minter", bot.FlashMinter)
	if err != nil {
		return common.Address{}, UnitFailed, err
	}

	pool, err := c.pools.GetPool(ctx, provider)
	if err != nil {
		return common.Address{}, UnitFailed, fmt.Errorf("failed to resolve pool from addresses provider: %w", err)
	}
	if pool == (common.Address{}) {
		return common.Address{}, UnitFailed, fmt.Errorf("addresses provider returned pool: %w", domain.ErrZeroAddress)
	}

	c.logReserveWiring(ctx, provider)

	id := "liquidator-bot-odos"
	addr, reused, err := c.deployOnce(ctx, id, "OdosLiquidatorBot", models.UnitLiquidatorBot,
		params.SkipIfAlreadyDeployed,
		router, odosRouter, pool, flashMinter,
		new(big.Int).SetUint64(bot.SlippageToleranceBps))
	if err != nil {
		return common.Address{}, UnitFailed, err
	}
	if reused {
		return addr, UnitReused, nil
	}
	return addr, UnitDeployed, nil
}

// logReserveWiring resolves the reserve token addresses of each configured
// dStable through the pool data provider. Informational only; a failure here
// never fails the unit.
func (c *ComposeDeployment) logReserveWiring(ctx context.Context, provider common.Address) {
	network := c.cfg.Network
	if network.DStables == nil || len(network.TokenProxyContractMap) == 0 {
		return
	}

	dataProvider, err := c.pools.GetPoolDataProvider(ctx, provider)
	if err != nil {
		c.log.Warn("failed to resolve pool data provider", "error", err)
		return
	}

	for _, symbol := range network.DStables.Symbols {
		raw, ok := network.TokenProxyContractMap[symbol]
		if !ok || !domain.IsAddressShaped(raw) {
			continue
		}
		tokens, err := c.pools.GetReserveTokensAddresses(ctx, dataProvider, common.HexToAddress(raw))
		if err != nil {
			c.log.Warn("failed to resolve reserve tokens", "symbol", symbol, "error", err)
			continue
		}
		c.log.Debug("reserve wiring",
			"symbol", symbol,
			"aToken", tokens.AToken.Hex(),
			"variableDebt", tokens.VariableDebtToken.Hex(),
		)
	}
}

func (c *ComposeDeployment) runRewardManagers(ctx context.Context, params ComposeParams, result *ComposeResult) {
	network := c.cfg.Network
	if network.Rewards == nil {
		c.log.Info("reward managers not configured for network, skipping", "network", c.cfg.NetworkName)
		c.record(ctx, result, UnitOutcome{Unit: "rewards", Status: UnitSkipped, Reason: "not configured"})
		return
	}

	for _, manager := range network.Rewards.Managers {
		unit := "reward-manager:" + manager.Symbol
		outcome, err := c.deployRewardManager(ctx, params, manager)
		if err != nil {
			if domain.IsSkip(err) {
				c.log.Warn("skipping reward manager", "unit", unit, "reason", err)
				c.record(ctx, result, UnitOutcome{Unit: unit, Status: UnitSkipped, Reason: err.Error()})
				continue
			}
			c.log.Error("reward manager deployment failed", "unit", unit, "error", err)
			c.record(ctx, result, UnitOutcome{Unit: unit, Status: UnitFailed, Err: err})
			continue
		}
		c.record(ctx, result, *outcome)
	}
}

func (c *ComposeDeployment) deployRewardManager(ctx context.Context, params ComposeParams, manager config.RewardManagerConfig) (*UnitOutcome, error) {
	unit := "reward-manager:" + manager.Symbol

	vault, err := c.resolvePool(ctx, unit, manager.Vault)
	if err != nil {
		return nil, err
	}
	treasury, err := requireAddress("treasury", manager.Treasury)
	if err != nil {
		return nil, err
	}

	id := "reward-manager-" + manager.Symbol
	addr, reused, err := c.deployOnce(ctx, id, "RewardManager", models.UnitRewardManager,
		params.SkipIfAlreadyDeployed,
		vault, treasury, new(big.Int).SetUint64(manager.TreasuryBps))
	if err != nil {
		return nil, err
	}

	status := UnitDeployed
	if reused {
		status = UnitReused
	}
	return &UnitOutcome{Unit: unit, Status: status, Address: addr}, nil
}

// resolvePool resolves a config reference that is either a prior deployment
// ID or a literal address. A deployment ID that has no ledger record is a
// skip, so a single missing optional pool doesn't abort the full run.
func (c *ComposeDeployment) resolvePool(ctx context.Context, unit, ref string) (common.Address, error) {
	poolRef, err := domain.ParsePoolRef(ref)
	if err != nil {
		return common.Address{}, err
	}

	switch poolRef.Kind {
	case domain.PoolRefByAddress:
		return poolRef.Address, nil
	default:
		record, err := c.store.Get(ctx, poolRef.ID)
		if err != nil {
			return common.Address{}, &domain.SkipError{
				Unit:   unit,
				Reason: fmt.Sprintf("dependency %q resolves neither as a deployment ID nor as an address", ref),
			}
		}
		addr := common.HexToAddress(record.Address)
		if addr == (common.Address{}) {
			return common.Address{}, fmt.Errorf("ledger record %s: %w", poolRef.ID, domain.ErrZeroAddress)
		}
		return addr, nil
	}
}

// deployOnce deploys a contract under a stable deployment ID, honoring
// skip-if-already-deployed, and records the result in the ledger.
func (c *ComposeDeployment) deployOnce(
	ctx context.Context,
	id, contractName string,
	unit models.UnitKind,
	skipIfAlreadyDeployed bool,
	args ...interface{},
) (common.Address, bool, error) {
	if skipIfAlreadyDeployed && c.store.Has(ctx, id) {
		record, err := c.store.Get(ctx, id)
		if err != nil {
			return common.Address{}, false, err
		}
		c.log.Info("deployment exists, reusing", "id", id, "address", record.Address)
		return common.HexToAddress(record.Address), true, nil
	}

	// Fail fast on a zero address before any on-chain transaction is sent
	for i, arg := range args {
		if addr, ok := arg.(common.Address); ok && addr == (common.Address{}) {
			return common.Address{}, false,
				fmt.Errorf("%s constructor arg %d: %w", contractName, i, domain.ErrZeroAddress)
		}
	}

	c.progress.OnProgress(ctx, ProgressEvent{Stage: "deploying", Message: id})
	addr, txHash, err := c.deployer.Deploy(ctx, contractName, args...)
	if err != nil {
		return common.Address{}, false, fmt.Errorf("failed to deploy %s: %w", id, err)
	}

	record := &models.DeploymentRecord{
		ID:           id,
		ChainID:      c.cfg.ChainID(),
		ContractName: contractName,
		Unit:         unit,
		Address:      addr.Hex(),
		TxHash:       txHash.Hex(),
		Args:         lo.Map(args, func(a interface{}, _ int) string { return fmt.Sprint(a) }),
		CreatedAt:    time.Now().UTC(),
	}
	if err := c.store.Save(ctx, record); err != nil {
		return common.Address{}, false, fmt.Errorf("failed to record deployment %s: %w", id, err)
	}

	c.log.Info("deployed", "id", id, "address", addr.Hex(), "tx", txHash.Hex())
	return addr, false, nil
}

// requireAddress parses a config value that must be a non-zero address
func requireAddress(field, raw string) (common.Address, error) {
	if raw == "" {
		return common.Address{}, fmt.Errorf("%w: %s", domain.ErrMissingConfig, field)
	}
	if !domain.IsAddressShaped(raw) {
		return common.Address{}, fmt.Errorf("%w: %s=%q", domain.ErrInvalidAddress, field, raw)
	}
	addr := common.HexToAddress(raw)
	if addr == (common.Address{}) {
		return common.Address{}, fmt.Errorf("%s: %w", field, domain.ErrZeroAddress)
	}
	return addr, nil
}
