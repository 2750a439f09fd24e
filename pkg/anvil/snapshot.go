// Package anvil provides a thin client for the state-snapshot RPC surface
// of local test nodes (anvil, hardhat network).
package anvil

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/rpc"
)

// SnapshotClient drives evm_snapshot / evm_revert on a test node. Snapshots
// are consumed on revert, so callers that revert repeatedly must take a new
// snapshot after each revert.
type SnapshotClient struct {
	rpc *rpc.Client
}

// Dial connects to a test node's RPC endpoint
func Dial(ctx context.Context, url string) (*SnapshotClient, error) {
	client, err := rpc.DialContext(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to test node: %w", err)
	}
	return &SnapshotClient{rpc: client}, nil
}

// NewSnapshotClient wraps an existing RPC client
func NewSnapshotClient(client *rpc.Client) *SnapshotClient {
	return &SnapshotClient{rpc: client}
}

// Snapshot captures the current chain state and returns the snapshot ID
func (c *SnapshotClient) Snapshot(ctx context.Context) (string, error) {
	var id string
	if err := c.rpc.CallContext(ctx, &id, "evm_snapshot"); err != nil {
		return "", fmt.Errorf("evm_snapshot failed: %w", err)
	}
	return id, nil
}

// Revert restores the chain to a prior snapshot. Returns false when the
// snapshot ID is unknown or already consumed.
func (c *SnapshotClient) Revert(ctx context.Context, id string) (bool, error) {
	var ok bool
	if err := c.rpc.CallContext(ctx, &ok, "evm_revert", id); err != nil {
		return false, fmt.Errorf("evm_revert failed: %w", err)
	}
	return ok, nil
}

// Close releases the underlying RPC connection
func (c *SnapshotClient) Close() {
	c.rpc.Close()
}
