package chain

import (
	"context"
	"fmt"
	"math/big"

	"github.com/dstack-org/dops-cli/internal/usecase"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
)

// bound returns a bound contract for the given ABI at the given address
func (c *Client) bound(ctx context.Context, contractABI abi.ABI, addr common.Address) (*bind.BoundContract, error) {
	eth, err := c.ensureConnected(ctx)
	if err != nil {
		return nil, err
	}
	return bind.NewBoundContract(addr, contractABI, eth, eth, eth), nil
}

func (c *Client) callAddress(ctx context.Context, contractABI abi.ABI, addr common.Address, method string, args ...interface{}) (common.Address, error) {
	contract, err := c.bound(ctx, contractABI, addr)
	if err != nil {
		return common.Address{}, err
	}
	var out []interface{}
	if err := contract.Call(&bind.CallOpts{Context: ctx}, &out, method, args...); err != nil {
		return common.Address{}, fmt.Errorf("%s: %w", method, err)
	}
	return *abi.ConvertType(out[0], new(common.Address)).(*common.Address), nil
}

func (c *Client) callBig(ctx context.Context, contractABI abi.ABI, addr common.Address, method string, args ...interface{}) (*big.Int, error) {
	contract, err := c.bound(ctx, contractABI, addr)
	if err != nil {
		return nil, err
	}
	var out []interface{}
	if err := contract.Call(&bind.CallOpts{Context: ctx}, &out, method, args...); err != nil {
		return nil, fmt.Errorf("%s: %w", method, err)
	}
	return abi.ConvertType(out[0], new(big.Int)).(*big.Int), nil
}

// Oracle wrapper surface

// Price reads the oracle wrapper's current price
func (c *Client) Price(ctx context.Context, oracle common.Address) (*big.Int, error) {
	return c.callBig(ctx, oracleWrapperABI, oracle, "price")
}

// BpsTolerance reads the wrapper's contract-side verification tolerance
func (c *Client) BpsTolerance(ctx context.Context, oracle common.Address) (*big.Int, error) {
	return c.callBig(ctx, oracleWrapperABI, oracle, "bpsTolerance")
}

// PackSetPrice encodes the setPrice(oldPrice, newPrice, changeBps) calldata
// for a governance proposal
func (c *Client) PackSetPrice(oldPrice, newPrice, changeBps *big.Int) ([]byte, error) {
	return oracleWrapperABI.Pack("setPrice", oldPrice, newPrice, changeBps)
}

// Pool addresses-provider surface

// GetPool reads the pool address from the addresses provider
func (c *Client) GetPool(ctx context.Context, provider common.Address) (common.Address, error) {
	return c.callAddress(ctx, addressesProviderABI, provider, "getPool")
}

// GetPoolDataProvider reads the data-provider address
func (c *Client) GetPoolDataProvider(ctx context.Context, provider common.Address) (common.Address, error) {
	return c.callAddress(ctx, addressesProviderABI, provider, "getPoolDataProvider")
}

// GetReserveTokensAddresses reads the reserve token addresses for an asset
func (c *Client) GetReserveTokensAddresses(ctx context.Context, dataProvider, asset common.Address) (usecase.ReserveTokens, error) {
	contract, err := c.bound(ctx, dataProviderABI, dataProvider)
	if err != nil {
		return usecase.ReserveTokens{}, err
	}
	var out []interface{}
	if err := contract.Call(&bind.CallOpts{Context: ctx}, &out, "getReserveTokensAddresses", asset); err != nil {
		return usecase.ReserveTokens{}, fmt.Errorf("getReserveTokensAddresses: %w", err)
	}
	return usecase.ReserveTokens{
		AToken:            *abi.ConvertType(out[0], new(common.Address)).(*common.Address),
		StableDebtToken:   *abi.ConvertType(out[1], new(common.Address)).(*common.Address),
		VariableDebtToken: *abi.ConvertType(out[2], new(common.Address)).(*common.Address),
	}, nil
}

// Periphery surface

// IsWhitelistedAsset reports whether the asset is whitelisted in the periphery
func (c *Client) IsWhitelistedAsset(ctx context.Context, periphery, asset common.Address) (bool, error) {
	contract, err := c.bound(ctx, peripheryABI, periphery)
	if err != nil {
		return false, err
	}
	var out []interface{}
	if err := contract.Call(&bind.CallOpts{Context: ctx}, &out, "isWhitelistedAsset", asset); err != nil {
		return false, fmt.Errorf("isWhitelistedAsset: %w", err)
	}
	return *abi.ConvertType(out[0], new(bool)).(*bool), nil
}

// AddWhitelistedAsset whitelists an asset in the periphery
func (c *Client) AddWhitelistedAsset(ctx context.Context, periphery, asset common.Address) (common.Hash, error) {
	contract, err := c.bound(ctx, peripheryABI, periphery)
	if err != nil {
		return common.Hash{}, err
	}
	return c.transactAndWait(ctx, contract, "addWhitelistedAsset", asset)
}

// MaxSlippageBps reads the periphery's slippage bound
func (c *Client) MaxSlippageBps(ctx context.Context, periphery common.Address) (*big.Int, error) {
	return c.callBig(ctx, peripheryABI, periphery, "maxSlippageBps")
}

// SetMaxSlippage sets the periphery's slippage bound
func (c *Client) SetMaxSlippage(ctx context.Context, periphery common.Address, bps *big.Int) (common.Hash, error) {
	contract, err := c.bound(ctx, peripheryABI, periphery)
	if err != nil {
		return common.Hash{}, err
	}
	return c.transactAndWait(ctx, contract, "setMaxSlippage", bps)
}

// AdapterFor reads the registered adapter for a vault asset; the zero
// address means "not registered"
func (c *Client) AdapterFor(ctx context.Context, router, vaultAsset common.Address) (common.Address, error) {
	return c.callAddress(ctx, peripheryABI, router, "vaultAssetToAdapter", vaultAsset)
}

// SetAdapter registers an adapter for a vault asset
func (c *Client) SetAdapter(ctx context.Context, router, vaultAsset, adapter common.Address) (common.Hash, error) {
	contract, err := c.bound(ctx, peripheryABI, router)
	if err != nil {
		return common.Hash{}, err
	}
	return c.transactAndWait(ctx, contract, "setAdapter", vaultAsset, adapter)
}

// Interface conformance
var (
	_ usecase.ContractDeployer = (*Client)(nil)
	_ usecase.ChainReader      = (*Client)(nil)
	_ usecase.OracleClient     = (*Client)(nil)
	_ usecase.PeripheryClient  = (*Client)(nil)
	_ usecase.AdapterRegistry  = (*Client)(nil)
	_ usecase.PoolClient       = (*Client)(nil)
)
