package anvil

import (
	"context"
	"fmt"
	"sync"

	"github.com/dstack-org/dops-cli/internal/config"
	"github.com/dstack-org/dops-cli/internal/domain"
	"github.com/dstack-org/dops-cli/internal/usecase"
	"github.com/dstack-org/dops-cli/pkg/anvil"
)

// SnapshotterAdapter implements usecase.Snapshotter against the configured
// network's RPC endpoint, connecting lazily on first use.
type SnapshotterAdapter struct {
	cfg *config.RuntimeConfig

	mu     sync.Mutex
	client *anvil.SnapshotClient
}

// NewSnapshotterAdapter creates a new snapshotter adapter
func NewSnapshotterAdapter(cfg *config.RuntimeConfig) *SnapshotterAdapter {
	return &SnapshotterAdapter{cfg: cfg}
}

func (s *SnapshotterAdapter) ensure(ctx context.Context) (*anvil.SnapshotClient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.client != nil {
		return s.client, nil
	}
	if s.cfg.Network == nil {
		return nil, fmt.Errorf("%w: no network selected", domain.ErrMissingConfig)
	}

	client, err := anvil.Dial(ctx, s.cfg.Network.RPCURL)
	if err != nil {
		return nil, err
	}
	s.client = client
	return client, nil
}

// Snapshot captures the current test-node state
func (s *SnapshotterAdapter) Snapshot(ctx context.Context) (string, error) {
	client, err := s.ensure(ctx)
	if err != nil {
		return "", err
	}
	return client.Snapshot(ctx)
}

// Revert restores a prior snapshot
func (s *SnapshotterAdapter) Revert(ctx context.Context, id string) (bool, error) {
	client, err := s.ensure(ctx)
	if err != nil {
		return false, err
	}
	return client.Revert(ctx, id)
}

var _ usecase.Snapshotter = (*SnapshotterAdapter)(nil)
