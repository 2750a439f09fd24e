package usecase

import (
	"context"
	"math/big"

	"github.com/dstack-org/dops-cli/internal/domain/models"
	"github.com/ethereum/go-ethereum/common"
)

// DeploymentStore handles persistence of deployment ledger records
type DeploymentStore interface {
	Get(ctx context.Context, id string) (*models.DeploymentRecord, error)
	Has(ctx context.Context, id string) bool
	Save(ctx context.Context, record *models.DeploymentRecord) error
	List(ctx context.Context, filter models.RecordFilter) ([]*models.DeploymentRecord, error)
	GetByAddress(ctx context.Context, chainID uint64, address string) (*models.DeploymentRecord, error)
}

// ContractDeployer deploys a contract from its artifact and waits for the
// deployment to be mined
type ContractDeployer interface {
	Deploy(ctx context.Context, contractName string, args ...interface{}) (common.Address, common.Hash, error)
}

// ChainReader checks on-chain state
type ChainReader interface {
	HasCode(ctx context.Context, address common.Address) (bool, error)
}

// OracleClient talks to the governance oracle wrapper contract
type OracleClient interface {
	Price(ctx context.Context, oracle common.Address) (*big.Int, error)
	BpsTolerance(ctx context.Context, oracle common.Address) (*big.Int, error)
	PackSetPrice(oldPrice, newPrice, changeBps *big.Int) ([]byte, error)
}

// PeripheryClient reads and configures the vault periphery contract
type PeripheryClient interface {
	IsWhitelistedAsset(ctx context.Context, periphery, asset common.Address) (bool, error)
	AddWhitelistedAsset(ctx context.Context, periphery, asset common.Address) (common.Hash, error)
	MaxSlippageBps(ctx context.Context, periphery common.Address) (*big.Int, error)
	SetMaxSlippage(ctx context.Context, periphery common.Address, bps *big.Int) (common.Hash, error)
}

// AdapterRegistry manages the vault-asset -> adapter mapping held by the
// on-chain router. A zero adapter address means "not registered".
type AdapterRegistry interface {
	AdapterFor(ctx context.Context, router, vaultAsset common.Address) (common.Address, error)
	SetAdapter(ctx context.Context, router, vaultAsset, adapter common.Address) (common.Hash, error)
}

// ReserveTokens are the token addresses of one lending-market reserve
type ReserveTokens struct {
	AToken            common.Address
	StableDebtToken   common.Address
	VariableDebtToken common.Address
}

// PoolClient reads the lending pool addresses-provider surface
type PoolClient interface {
	GetPool(ctx context.Context, provider common.Address) (common.Address, error)
	GetPoolDataProvider(ctx context.Context, provider common.Address) (common.Address, error)
	GetReserveTokensAddresses(ctx context.Context, dataProvider, asset common.Address) (ReserveTokens, error)
}

// SafeProposer submits a transaction proposal to the multisig
// transaction-coordination service. It never signs; human signers approve
// independently.
type SafeProposer interface {
	ProposeTransaction(ctx context.Context, safe, to common.Address, data []byte, sender common.Address) (common.Hash, error)
}

// Snapshotter captures and restores test-network state
type Snapshotter interface {
	Snapshot(ctx context.Context) (string, error)
	Revert(ctx context.Context, id string) (bool, error)
}

// ProgressEvent represents a progress update
type ProgressEvent struct {
	Stage   string
	Current int
	Total   int
	Message string
}

// ProgressSink receives progress events
type ProgressSink interface {
	OnProgress(ctx context.Context, event ProgressEvent)
	Info(message string)
	Error(message string)
}

// NopProgress is a no-op implementation of ProgressSink
type NopProgress struct{}

func (NopProgress) OnProgress(context.Context, ProgressEvent) {}
func (NopProgress) Info(string)                               {}
func (NopProgress) Error(string)                              {}
