package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"

	"github.com/dstack-org/dops-cli/internal/config"
	"github.com/dstack-org/dops-cli/internal/domain"
	"github.com/ethereum/go-ethereum/common"
)

// ConfigurePeriphery performs the idempotent post-deploy configuration of a
// vault periphery: asset whitelisting, slippage bounds, and adapter
// registration. Current on-chain state is read before every write so that
// re-running the deployment issues no redundant transactions.
type ConfigurePeriphery struct {
	periphery PeripheryClient
	router    AdapterRegistry
	log       *slog.Logger
}

// NewConfigurePeriphery creates a new periphery configuration use case
func NewConfigurePeriphery(periphery PeripheryClient, router AdapterRegistry, log *slog.Logger) *ConfigurePeriphery {
	return &ConfigurePeriphery{
		periphery: periphery,
		router:    router,
		log:       log,
	}
}

// ConfigurePeripheryParams identifies the periphery and its desired state
type ConfigurePeripheryParams struct {
	Periphery common.Address
	Instance  config.DPoolInstance
	// Adapters maps vault-asset address to the deployed adapter address
	Adapters map[common.Address]common.Address
}

// PeripheryConfigResult reports what was changed vs already in place
type PeripheryConfigResult struct {
	WhitelistedNow     []common.Address
	WhitelistedAlready []common.Address
	SlippageChanged    bool
	AdaptersSet        int
	AdaptersKept       int
}

// Run applies the desired periphery configuration
func (c *ConfigurePeriphery) Run(ctx context.Context, params ConfigurePeripheryParams) (*PeripheryConfigResult, error) {
	if params.Periphery == (common.Address{}) {
		return nil, fmt.Errorf("periphery: %w", domain.ErrZeroAddress)
	}

	result := &PeripheryConfigResult{}

	for _, raw := range params.Instance.WhitelistAssets {
		if !domain.IsAddressShaped(raw) {
			return result, fmt.Errorf("whitelist asset %q: %w", raw, domain.ErrInvalidAddress)
		}
		asset := common.HexToAddress(raw)

		whitelisted, err := c.periphery.IsWhitelistedAsset(ctx, params.Periphery, asset)
		if err != nil {
			return result, fmt.Errorf("failed to query whitelist for %s: %w", asset.Hex(), err)
		}
		if whitelisted {
			c.log.Debug("asset already whitelisted", "asset", asset.Hex())
			result.WhitelistedAlready = append(result.WhitelistedAlready, asset)
			continue
		}

		txHash, err := c.periphery.AddWhitelistedAsset(ctx, params.Periphery, asset)
		if err != nil {
			return result, fmt.Errorf("failed to whitelist %s: %w", asset.Hex(), err)
		}
		c.log.Info("whitelisted asset", "asset", asset.Hex(), "tx", txHash.Hex())
		result.WhitelistedNow = append(result.WhitelistedNow, asset)
	}

	if err := c.configureSlippage(ctx, params, result); err != nil {
		return result, err
	}

	if err := c.registerAdapters(ctx, params, result); err != nil {
		return result, err
	}

	return result, nil
}

func (c *ConfigurePeriphery) configureSlippage(ctx context.Context, params ConfigurePeripheryParams, result *PeripheryConfigResult) error {
	if params.Instance.InitialSlippageBps == 0 {
		return nil
	}

	desired := new(big.Int).SetUint64(params.Instance.InitialSlippageBps)
	current, err := c.periphery.MaxSlippageBps(ctx, params.Periphery)
	if err != nil {
		return fmt.Errorf("failed to read max slippage: %w", err)
	}
	if current.Cmp(desired) == 0 {
		c.log.Debug("max slippage already set", "bps", desired.String())
		return nil
	}

	txHash, err := c.periphery.SetMaxSlippage(ctx, params.Periphery, desired)
	if err != nil {
		return fmt.Errorf("failed to set max slippage: %w", err)
	}
	c.log.Info("set max slippage", "bps", desired.String(), "tx", txHash.Hex())
	result.SlippageChanged = true
	return nil
}

func (c *ConfigurePeriphery) registerAdapters(ctx context.Context, params ConfigurePeripheryParams, result *PeripheryConfigResult) error {
	for vaultAsset, adapter := range params.Adapters {
		if adapter == (common.Address{}) {
			return fmt.Errorf("adapter for %s: %w", vaultAsset.Hex(), domain.ErrZeroAddress)
		}

		// Zero address in the router mapping means "not registered"
		current, err := c.router.AdapterFor(ctx, params.Periphery, vaultAsset)
		if err != nil {
			return fmt.Errorf("failed to query adapter for %s: %w", vaultAsset.Hex(), err)
		}
		if current == adapter {
			c.log.Debug("adapter already registered", "vaultAsset", vaultAsset.Hex(), "adapter", adapter.Hex())
			result.AdaptersKept++
			continue
		}
		if current != (common.Address{}) {
			c.log.Warn("replacing registered adapter",
				"vaultAsset", vaultAsset.Hex(), "old", current.Hex(), "new", adapter.Hex())
		}

		txHash, err := c.router.SetAdapter(ctx, params.Periphery, vaultAsset, adapter)
		if err != nil {
			return fmt.Errorf("failed to register adapter for %s: %w", vaultAsset.Hex(), err)
		}
		c.log.Info("registered adapter",
			"vaultAsset", vaultAsset.Hex(), "adapter", adapter.Hex(), "tx", txHash.Hex())
		result.AdaptersSet++
	}
	return nil
}
