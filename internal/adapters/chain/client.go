package chain

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"
	"os"
	"sync"

	"github.com/dstack-org/dops-cli/internal/adapters/artifacts"
	"github.com/dstack-org/dops-cli/internal/config"
	"github.com/dstack-org/dops-cli/internal/domain"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
)

// DeployerKeyEnv names the environment variable holding the deployer's
// private key (hex, no 0x prefix required)
const DeployerKeyEnv = "DEPLOYER_PRIVATE_KEY"

// Client is the ethclient-backed chain adapter. It connects lazily on first
// use and submits transactions strictly sequentially from one sender, so
// nonce ordering is whatever the node provides.
type Client struct {
	cfg       *config.RuntimeConfig
	artifacts *artifacts.Repository
	log       *slog.Logger

	mu      sync.Mutex
	eth     *ethclient.Client
	chainID *big.Int
	auth    *bind.TransactOpts
}

// NewClient creates an unconnected chain client
func NewClient(cfg *config.RuntimeConfig, repo *artifacts.Repository, log *slog.Logger) *Client {
	return &Client{
		cfg:       cfg,
		artifacts: repo,
		log:       log,
	}
}

// ensureConnected dials the configured RPC endpoint and verifies that the
// node's chain ID matches the config
func (c *Client) ensureConnected(ctx context.Context) (*ethclient.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.eth != nil {
		return c.eth, nil
	}
	if c.cfg.Network == nil {
		return nil, fmt.Errorf("%w: no network selected", domain.ErrMissingConfig)
	}

	eth, err := ethclient.DialContext(ctx, c.cfg.Network.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RPC: %w", err)
	}

	chainID, err := eth.ChainID(ctx)
	if err != nil {
		eth.Close()
		return nil, fmt.Errorf("failed to get chain ID: %w", err)
	}
	if chainID.Uint64() != c.cfg.Network.ChainID {
		eth.Close()
		return nil, fmt.Errorf("chain ID mismatch: expected %d, got %d",
			c.cfg.Network.ChainID, chainID.Uint64())
	}

	c.eth = eth
	c.chainID = chainID
	c.log.Debug("connected", "rpc", c.cfg.Network.RPCURL, "chainId", chainID.Uint64())
	return eth, nil
}

// transactor builds the keyed transactor from DEPLOYER_PRIVATE_KEY
func (c *Client) transactor(ctx context.Context) (*bind.TransactOpts, error) {
	if _, err := c.ensureConnected(ctx); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.auth != nil {
		c.auth.Context = ctx
		return c.auth, nil
	}

	raw := os.Getenv(DeployerKeyEnv)
	if raw == "" {
		return nil, fmt.Errorf("%w: %s", domain.ErrMissingConfig, DeployerKeyEnv)
	}
	key, err := crypto.HexToECDSA(stripHexPrefix(raw))
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", DeployerKeyEnv, err)
	}

	auth, err := bind.NewKeyedTransactorWithChainID(key, c.chainID)
	if err != nil {
		return nil, fmt.Errorf("failed to create transactor: %w", err)
	}
	auth.Context = ctx
	c.auth = auth
	return auth, nil
}

func stripHexPrefix(s string) string {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		return s[2:]
	}
	return s
}

// HasCode reports whether the address has contract code
func (c *Client) HasCode(ctx context.Context, address common.Address) (bool, error) {
	eth, err := c.ensureConnected(ctx)
	if err != nil {
		return false, err
	}
	code, err := eth.CodeAt(ctx, address, nil)
	if err != nil {
		return false, fmt.Errorf("failed to check code at %s: %w", address.Hex(), err)
	}
	return len(code) > 0, nil
}

// Deploy deploys a contract from its artifact, waits for the deployment to
// be mined, and returns the contract address and the deployment tx hash.
func (c *Client) Deploy(ctx context.Context, contractName string, args ...interface{}) (common.Address, common.Hash, error) {
	eth, err := c.ensureConnected(ctx)
	if err != nil {
		return common.Address{}, common.Hash{}, err
	}
	auth, err := c.transactor(ctx)
	if err != nil {
		return common.Address{}, common.Hash{}, err
	}

	artifact, err := c.artifacts.Get(contractName)
	if err != nil {
		return common.Address{}, common.Hash{}, err
	}

	addr, tx, _, err := bind.DeployContract(auth, artifact.ABI, artifact.Bytecode, eth, args...)
	if err != nil {
		return common.Address{}, common.Hash{}, fmt.Errorf("failed to deploy %s: %w", contractName, err)
	}

	c.log.Debug("deployment submitted", "contract", contractName, "tx", tx.Hash().Hex())
	if _, err := bind.WaitDeployed(ctx, eth, tx); err != nil {
		return common.Address{}, common.Hash{}, fmt.Errorf("deployment of %s not mined: %w", contractName, err)
	}

	return addr, tx.Hash(), nil
}

// transactAndWait submits a state-changing call and waits for its receipt
func (c *Client) transactAndWait(ctx context.Context, contract *bind.BoundContract, method string, args ...interface{}) (common.Hash, error) {
	eth, err := c.ensureConnected(ctx)
	if err != nil {
		return common.Hash{}, err
	}
	auth, err := c.transactor(ctx)
	if err != nil {
		return common.Hash{}, err
	}

	tx, err := contract.Transact(auth, method, args...)
	if err != nil {
		return common.Hash{}, fmt.Errorf("%s: %w", method, err)
	}

	receipt, err := bind.WaitMined(ctx, eth, tx)
	if err != nil {
		return common.Hash{}, fmt.Errorf("%s not mined: %w", method, err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return common.Hash{}, fmt.Errorf("%s reverted (tx %s)", method, tx.Hash().Hex())
	}
	return tx.Hash(), nil
}
