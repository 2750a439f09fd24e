package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dstack-org/dops-cli/internal/domain"
	"github.com/dstack-org/dops-cli/internal/domain/models"
	"github.com/sahilm/fuzzy"
)

// ShowDeployment resolves a single ledger record by ID or address
type ShowDeployment struct {
	store DeploymentStore
}

// NewShowDeployment creates a new show use case
func NewShowDeployment(store DeploymentStore) *ShowDeployment {
	return &ShowDeployment{store: store}
}

// RecordNotFoundError carries fuzzy-matched suggestions for a failed lookup
type RecordNotFoundError struct {
	ID          string
	Suggestions []string
}

func (e *RecordNotFoundError) Error() string {
	if len(e.Suggestions) == 0 {
		return fmt.Sprintf("no deployment record %q", e.ID)
	}
	return fmt.Sprintf("no deployment record %q (did you mean: %s)",
		e.ID, strings.Join(e.Suggestions, ", "))
}

func (e *RecordNotFoundError) Unwrap() error { return domain.ErrNotFound }

// Run looks up a record by deployment ID, or by address when the identifier
// is address-shaped and a chain ID is known.
func (s *ShowDeployment) Run(ctx context.Context, identifier string, chainID uint64) (*models.DeploymentRecord, error) {
	if domain.IsAddressShaped(identifier) {
		if chainID == 0 {
			return nil, fmt.Errorf("--network is required when looking up by address")
		}
		record, err := s.store.GetByAddress(ctx, chainID, identifier)
		if err != nil {
			return nil, fmt.Errorf("no deployment at %s on chain %d", identifier, chainID)
		}
		return record, nil
	}

	record, err := s.store.Get(ctx, identifier)
	if err == nil {
		return record, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	return nil, &RecordNotFoundError{
		ID:          identifier,
		Suggestions: s.suggest(ctx, identifier),
	}
}

// suggest fuzzy-matches the identifier against all known deployment IDs
func (s *ShowDeployment) suggest(ctx context.Context, identifier string) []string {
	records, err := s.store.List(ctx, models.RecordFilter{})
	if err != nil {
		return nil
	}

	ids := make([]string, len(records))
	for i, r := range records {
		ids[i] = r.ID
	}

	matches := fuzzy.Find(identifier, ids)
	suggestions := make([]string, 0, 3)
	for i, m := range matches {
		if i == 3 {
			break
		}
		suggestions = append(suggestions, m.Str)
	}
	return suggestions
}
