package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// ProjectConfig is the parsed dops.toml
type ProjectConfig struct {
	ArtifactsDir string                    `toml:"artifacts_dir"`
	Networks     map[string]*NetworkConfig `toml:"networks"`
}

// NetworkConfig is the per-network protocol configuration. Optional
// sub-sections are pointers: a nil section means the feature is disabled
// for this network, which consuming code treats as skip, never as an error.
type NetworkConfig struct {
	ChainID uint64 `toml:"chain_id"`
	RPCURL  string `toml:"rpc_url"`

	DPool             *DPoolConfig         `toml:"dpool"`
	LiquidatorBotOdos *LiquidatorBotConfig `toml:"liquidator_bot_odos"`
	DStables          *DStablesConfig      `toml:"dstables"`
	Rewards           *RewardsConfig       `toml:"rewards"`
	Oracle            *OracleConfig        `toml:"oracle"`
	WalletAddresses   *WalletAddresses     `toml:"wallet_addresses"`
	Safe              *SafeConfig          `toml:"safe"`

	// Maps token symbol to its proxy contract address, for networks where
	// the canonical token sits behind a bridge proxy.
	TokenProxyContractMap map[string]string `toml:"token_proxy_contract_map"`
}

// DPoolConfig declares the stable-asset vault instances for a network
type DPoolConfig struct {
	Instances []DPoolInstance `toml:"instances"`
}

// DPoolInstance is one vault + periphery pair around an underlying pool.
// Also used by fixture manifests, hence the yaml tags.
type DPoolInstance struct {
	Symbol    string `toml:"symbol" yaml:"symbol"`         // e.g. "sfrax"
	BaseAsset string `toml:"base_asset" yaml:"base_asset"` // underlying stable asset address
	// Pool is either a prior deployment ID or a literal address
	Pool               string          `toml:"pool" yaml:"pool"`
	InitialSlippageBps uint64          `toml:"initial_slippage_bps" yaml:"initial_slippage_bps"`
	WhitelistAssets    []string        `toml:"whitelist_assets" yaml:"whitelist_assets"`
	Adapters           []AdapterConfig `toml:"adapters" yaml:"adapters"`
}

// AdapterConfig maps a vault asset to the adapter contract translating it
// to the stable-asset unit
type AdapterConfig struct {
	VaultAsset string `toml:"vault_asset" yaml:"vault_asset"`
	Contract   string `toml:"contract" yaml:"contract"` // artifact name of the adapter
}

// LiquidatorBotConfig configures the Odos flash-loan liquidator bot
type LiquidatorBotConfig struct {
	Router               string `toml:"router"` // required
	OdosRouter           string `toml:"odos_router"`
	AddressesProvider    string `toml:"addresses_provider"`
	FlashMinter          string `toml:"flash_minter"`
	SlippageToleranceBps uint64 `toml:"slippage_tolerance_bps"`
	HealthFactorFloor    uint64 `toml:"health_factor_floor"`
}

// DStablesConfig lists the stable-asset symbols live on a network
type DStablesConfig struct {
	Symbols []string `toml:"symbols"`
}

// RewardsConfig declares the reward-compounding managers
type RewardsConfig struct {
	Managers []RewardManagerConfig `toml:"managers"`
}

// RewardManagerConfig configures one reward-compounding manager
type RewardManagerConfig struct {
	Symbol      string `toml:"symbol"`
	Vault       string `toml:"vault"` // deployment ID or address
	Treasury    string `toml:"treasury"`
	TreasuryBps uint64 `toml:"treasury_bps"`
}

// OracleConfig configures the governance-controlled oracle wrapper
type OracleConfig struct {
	Wrapper string `toml:"wrapper"` // oracle wrapper address
}

// WalletAddresses holds the well-known operational addresses of a network
type WalletAddresses struct {
	Governance string `toml:"governance"`
	Treasury   string `toml:"treasury"`
	Deployer   string `toml:"deployer"`
}

// SafeConfig configures the multisig used for governance proposals
type SafeConfig struct {
	Address string `toml:"address"`
	// ServiceURL overrides the default transaction-service URL for the chain
	ServiceURL string `toml:"service_url"`
	// Sender is the address proposing transactions to the service
	Sender string `toml:"sender"`
}

const ProjectConfigFile = "dops.toml"

// LoadProjectConfig reads and parses dops.toml from the project root.
func LoadProjectConfig(projectRoot string) (*ProjectConfig, error) {
	path := filepath.Join(projectRoot, ProjectConfigFile)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", ProjectConfigFile, err)
	}

	var cfg ProjectConfig
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", ProjectConfigFile, err)
	}

	if cfg.ArtifactsDir == "" {
		cfg.ArtifactsDir = "artifacts"
	}

	return &cfg, nil
}

// ResolveNetwork looks up a named network in the project config.
func (c *ProjectConfig) ResolveNetwork(name string) (*NetworkConfig, error) {
	network, ok := c.Networks[name]
	if !ok {
		return nil, fmt.Errorf("network %q not configured in %s", name, ProjectConfigFile)
	}
	if network.ChainID == 0 {
		return nil, fmt.Errorf("network %q has no chain_id", name)
	}
	if network.RPCURL == "" {
		return nil, fmt.Errorf("network %q has no rpc_url", name)
	}
	return network, nil
}
