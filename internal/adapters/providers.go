package adapters

import (
	"github.com/google/wire"

	"github.com/dstack-org/dops-cli/internal/adapters/anvil"
	"github.com/dstack-org/dops-cli/internal/adapters/artifacts"
	"github.com/dstack-org/dops-cli/internal/adapters/chain"
	"github.com/dstack-org/dops-cli/internal/adapters/ledger"
	"github.com/dstack-org/dops-cli/internal/adapters/safe"
	"github.com/dstack-org/dops-cli/internal/usecase"
)

// LedgerSet provides the file-backed deployment ledger
var LedgerSet = wire.NewSet(
	ledger.NewFileRepository,
	wire.Bind(new(usecase.DeploymentStore), new(*ledger.FileRepository)),
)

// ChainSet provides the RPC-backed chain adapter and its artifact source
var ChainSet = wire.NewSet(
	artifacts.NewRepository,

	chain.NewClient,
	wire.Bind(new(usecase.ContractDeployer), new(*chain.Client)),
	wire.Bind(new(usecase.ChainReader), new(*chain.Client)),
	wire.Bind(new(usecase.OracleClient), new(*chain.Client)),
	wire.Bind(new(usecase.PeripheryClient), new(*chain.Client)),
	wire.Bind(new(usecase.AdapterRegistry), new(*chain.Client)),
	wire.Bind(new(usecase.PoolClient), new(*chain.Client)),
)

// SafeSet provides the Safe Transaction Service proposer
var SafeSet = wire.NewSet(
	safe.NewProposerAdapter,
	wire.Bind(new(usecase.SafeProposer), new(*safe.ProposerAdapter)),
)

// AnvilSet provides the test-node snapshotter
var AnvilSet = wire.NewSet(
	anvil.NewSnapshotterAdapter,
	wire.Bind(new(usecase.Snapshotter), new(*anvil.SnapshotterAdapter)),
)

// AllAdapters includes all adapter sets
var AllAdapters = wire.NewSet(
	LedgerSet,
	ChainSet,
	SafeSet,
	AnvilSet,
)
