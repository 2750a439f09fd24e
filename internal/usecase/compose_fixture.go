package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/dstack-org/dops-cli/internal/config"
	"github.com/ethereum/go-ethereum/common"
)

// ComposeFixture brings up a declared deployment fixture against a
// snapshot-capable test network. The deployment sequence runs once; tests
// call Fixture.Revert between cases to roll the chain back to the
// post-deploy snapshot instead of redeploying.
type ComposeFixture struct {
	composer *ComposeDeployment
	store    DeploymentStore
	snap     Snapshotter
	log      *slog.Logger
}

// NewComposeFixture creates a new fixture composer
func NewComposeFixture(composer *ComposeDeployment, store DeploymentStore, snap Snapshotter, log *slog.Logger) *ComposeFixture {
	return &ComposeFixture{
		composer: composer,
		store:    store,
		snap:     snap,
		log:      log,
	}
}

// Fixture holds resolved contract handles and the snapshot to revert to
type Fixture struct {
	Vault     common.Address
	Periphery common.Address
	Records   map[string]common.Address

	snap       Snapshotter
	mu         sync.Mutex
	snapshotID string
}

// Run deploys the fixture's instance scoped to the manifest's tag subset,
// snapshots the chain, and returns live handles.
func (f *ComposeFixture) Run(ctx context.Context, manifest *config.FixtureManifest) (*Fixture, error) {
	result, err := f.composer.Run(ctx, ComposeParams{
		SkipIfAlreadyDeployed: true,
		Tags:                  manifest.Tags,
	})
	if err != nil {
		return nil, fmt.Errorf("fixture %s: deployment failed: %w", manifest.Name, err)
	}
	if _, _, failed := result.Counts(); failed > 0 {
		return nil, fmt.Errorf("fixture %s: %d unit(s) failed to deploy", manifest.Name, failed)
	}

	fixture := &Fixture{
		Records: make(map[string]common.Address),
		snap:    f.snap,
	}

	symbol := manifest.Instance.Symbol
	for _, id := range []string{
		fmt.Sprintf("dpool-%s-vault", symbol),
		fmt.Sprintf("dpool-%s-periphery", symbol),
	} {
		record, err := f.store.Get(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("fixture %s: %s not recorded after deploy: %w", manifest.Name, id, err)
		}
		fixture.Records[id] = common.HexToAddress(record.Address)
	}
	fixture.Vault = fixture.Records[fmt.Sprintf("dpool-%s-vault", symbol)]
	fixture.Periphery = fixture.Records[fmt.Sprintf("dpool-%s-periphery", symbol)]

	snapshotID, err := f.snap.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("fixture %s: snapshot failed: %w", manifest.Name, err)
	}
	fixture.snapshotID = snapshotID

	f.log.Debug("fixture ready", "name", manifest.Name, "snapshot", snapshotID)
	return fixture, nil
}

// Revert rolls the chain back to the post-deploy snapshot. The test node
// consumes a snapshot on revert, so a fresh one is taken immediately for
// the next revert.
func (fx *Fixture) Revert(ctx context.Context) error {
	fx.mu.Lock()
	defer fx.mu.Unlock()

	ok, err := fx.snap.Revert(ctx, fx.snapshotID)
	if err != nil {
		return fmt.Errorf("failed to revert snapshot %s: %w", fx.snapshotID, err)
	}
	if !ok {
		return fmt.Errorf("snapshot %s no longer available", fx.snapshotID)
	}

	snapshotID, err := fx.snap.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("failed to re-snapshot after revert: %w", err)
	}
	fx.snapshotID = snapshotID
	return nil
}
