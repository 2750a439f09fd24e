package usecase_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/mock"

	"github.com/dstack-org/dops-cli/internal/domain/models"
	"github.com/dstack-org/dops-cli/internal/usecase"
)

// testLogger returns a logger that discards everything
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var errBoom = errors.New("boom")

// MockDeploymentStore is a mock implementation of DeploymentStore
type MockDeploymentStore struct {
	mock.Mock
}

func (m *MockDeploymentStore) Get(ctx context.Context, id string) (*models.DeploymentRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DeploymentRecord), args.Error(1)
}

func (m *MockDeploymentStore) Has(ctx context.Context, id string) bool {
	args := m.Called(ctx, id)
	return args.Bool(0)
}

func (m *MockDeploymentStore) Save(ctx context.Context, record *models.DeploymentRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockDeploymentStore) List(ctx context.Context, filter models.RecordFilter) ([]*models.DeploymentRecord, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.DeploymentRecord), args.Error(1)
}

func (m *MockDeploymentStore) GetByAddress(ctx context.Context, chainID uint64, address string) (*models.DeploymentRecord, error) {
	args := m.Called(ctx, chainID, address)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DeploymentRecord), args.Error(1)
}

// MockContractDeployer is a mock implementation of ContractDeployer
type MockContractDeployer struct {
	mock.Mock
}

func (m *MockContractDeployer) Deploy(ctx context.Context, contractName string, args ...interface{}) (common.Address, common.Hash, error) {
	callArgs := m.Called(ctx, contractName, args)
	return callArgs.Get(0).(common.Address), callArgs.Get(1).(common.Hash), callArgs.Error(2)
}

// MockOracleClient is a mock implementation of OracleClient
type MockOracleClient struct {
	mock.Mock
}

func (m *MockOracleClient) Price(ctx context.Context, oracle common.Address) (*big.Int, error) {
	args := m.Called(ctx, oracle)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*big.Int), args.Error(1)
}

func (m *MockOracleClient) BpsTolerance(ctx context.Context, oracle common.Address) (*big.Int, error) {
	args := m.Called(ctx, oracle)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*big.Int), args.Error(1)
}

func (m *MockOracleClient) PackSetPrice(oldPrice, newPrice, changeBps *big.Int) ([]byte, error) {
	args := m.Called(oldPrice, newPrice, changeBps)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// MockSafeProposer is a mock implementation of SafeProposer
type MockSafeProposer struct {
	mock.Mock
}

func (m *MockSafeProposer) ProposeTransaction(ctx context.Context, safe, to common.Address, data []byte, sender common.Address) (common.Hash, error) {
	args := m.Called(ctx, safe, to, data, sender)
	return args.Get(0).(common.Hash), args.Error(1)
}

// MockPeripheryClient is a mock implementation of PeripheryClient
type MockPeripheryClient struct {
	mock.Mock
}

func (m *MockPeripheryClient) IsWhitelistedAsset(ctx context.Context, periphery, asset common.Address) (bool, error) {
	args := m.Called(ctx, periphery, asset)
	return args.Bool(0), args.Error(1)
}

func (m *MockPeripheryClient) AddWhitelistedAsset(ctx context.Context, periphery, asset common.Address) (common.Hash, error) {
	args := m.Called(ctx, periphery, asset)
	return args.Get(0).(common.Hash), args.Error(1)
}

func (m *MockPeripheryClient) MaxSlippageBps(ctx context.Context, periphery common.Address) (*big.Int, error) {
	args := m.Called(ctx, periphery)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*big.Int), args.Error(1)
}

func (m *MockPeripheryClient) SetMaxSlippage(ctx context.Context, periphery common.Address, bps *big.Int) (common.Hash, error) {
	args := m.Called(ctx, periphery, bps)
	return args.Get(0).(common.Hash), args.Error(1)
}

// MockAdapterRegistry is a mock implementation of AdapterRegistry
type MockAdapterRegistry struct {
	mock.Mock
}

func (m *MockAdapterRegistry) AdapterFor(ctx context.Context, router, vaultAsset common.Address) (common.Address, error) {
	args := m.Called(ctx, router, vaultAsset)
	return args.Get(0).(common.Address), args.Error(1)
}

func (m *MockAdapterRegistry) SetAdapter(ctx context.Context, router, vaultAsset, adapter common.Address) (common.Hash, error) {
	args := m.Called(ctx, router, vaultAsset, adapter)
	return args.Get(0).(common.Hash), args.Error(1)
}

// MockPoolClient is a mock implementation of PoolClient
type MockPoolClient struct {
	mock.Mock
}

func (m *MockPoolClient) GetPool(ctx context.Context, provider common.Address) (common.Address, error) {
	args := m.Called(ctx, provider)
	return args.Get(0).(common.Address), args.Error(1)
}

func (m *MockPoolClient) GetPoolDataProvider(ctx context.Context, provider common.Address) (common.Address, error) {
	args := m.Called(ctx, provider)
	return args.Get(0).(common.Address), args.Error(1)
}

func (m *MockPoolClient) GetReserveTokensAddresses(ctx context.Context, dataProvider, asset common.Address) (usecase.ReserveTokens, error) {
	args := m.Called(ctx, dataProvider, asset)
	return args.Get(0).(usecase.ReserveTokens), args.Error(1)
}

// MockChainReader is a mock implementation of ChainReader
type MockChainReader struct {
	mock.Mock
}

func (m *MockChainReader) HasCode(ctx context.Context, address common.Address) (bool, error) {
	args := m.Called(ctx, address)
	return args.Bool(0), args.Error(1)
}

// MockSnapshotter is a mock implementation of Snapshotter
type MockSnapshotter struct {
	mock.Mock
}

func (m *MockSnapshotter) Snapshot(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockSnapshotter) Revert(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// MockProgressSink records progress events
type MockProgressSink struct {
	events []usecase.ProgressEvent
}

func (m *MockProgressSink) OnProgress(ctx context.Context, event usecase.ProgressEvent) {
	m.events = append(m.events, event)
}

func (m *MockProgressSink) Info(string)  {}
func (m *MockProgressSink) Error(string) {}
