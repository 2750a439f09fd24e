package usecase

import (
	"context"
	"sort"

	"github.com/dstack-org/dops-cli/internal/domain/models"
)

// ListDeployments lists ledger records with optional filtering
type ListDeployments struct {
	store DeploymentStore
}

// NewListDeployments creates a new list use case
func NewListDeployments(store DeploymentStore) *ListDeployments {
	return &ListDeployments{store: store}
}

// ListSummary provides summary statistics over the listed records
type ListSummary struct {
	Total   int
	ByUnit  map[models.UnitKind]int
	ByChain map[uint64]int
}

// ListResult contains the records plus a summary
type ListResult struct {
	Records []*models.DeploymentRecord
	Summary ListSummary
}

// Run lists records sorted by (chainID, ID)
func (l *ListDeployments) Run(ctx context.Context, filter models.RecordFilter) (*ListResult, error) {
	records, err := l.store.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	sort.Slice(records, func(i, j int) bool {
		if records[i].ChainID != records[j].ChainID {
			return records[i].ChainID < records[j].ChainID
		}
		return records[i].ID < records[j].ID
	})

	summary := ListSummary{
		Total:   len(records),
		ByUnit:  make(map[models.UnitKind]int),
		ByChain: make(map[uint64]int),
	}
	for _, r := range records {
		summary.ByUnit[r.Unit]++
		summary.ByChain[r.ChainID]++
	}

	return &ListResult{Records: records, Summary: summary}, nil
}
