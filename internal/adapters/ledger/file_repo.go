package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/dstack-org/dops-cli/internal/config"
	"github.com/dstack-org/dops-cli/internal/domain"
	"github.com/dstack-org/dops-cli/internal/domain/models"
)

const (
	DataDir         = ".dops"
	DeploymentsFile = "deployments.json"
)

// FileRepository stores deployment records in a JSON file under the project
// data directory. Writes go through a temp file and an atomic rename.
// Concurrent runs against the same network are not safe and must be
// serialized by the operator.
type FileRepository struct {
	path string

	mu        sync.RWMutex
	records   map[string]*models.DeploymentRecord
	byAddress map[uint64]map[string]string // chainID -> lowercased address -> id
}

// NewFileRepository creates a ledger backed by <root>/.dops/deployments.json
func NewFileRepository(cfg *config.RuntimeConfig) (*FileRepository, error) {
	dir := cfg.DataDir
	if dir == "" {
		dir = filepath.Join(cfg.ProjectRoot, DataDir)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create %s directory: %w", DataDir, err)
	}

	r := &FileRepository{
		path:      filepath.Join(dir, DeploymentsFile),
		records:   make(map[string]*models.DeploymentRecord),
		byAddress: make(map[uint64]map[string]string),
	}
	if err := r.load(); err != nil {
		return nil, fmt.Errorf("failed to load deployment ledger: %w", err)
	}
	return r, nil
}

func (r *FileRepository) load() error {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if err := json.Unmarshal(data, &r.records); err != nil {
		return err
	}
	r.rebuildIndex()
	return nil
}

func (r *FileRepository) rebuildIndex() {
	r.byAddress = make(map[uint64]map[string]string)
	for id, record := range r.records {
		if r.byAddress[record.ChainID] == nil {
			r.byAddress[record.ChainID] = make(map[string]string)
		}
		r.byAddress[record.ChainID][strings.ToLower(record.Address)] = id
	}
}

// save writes the ledger file via temp file + atomic rename
func (r *FileRepository) save() error {
	data, err := json.MarshalIndent(r.records, "", "  ")
	if err != nil {
		return err
	}

	tmpPath := r.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmpPath, r.path)
}

// Get retrieves a record by deployment ID
func (r *FileRepository) Get(ctx context.Context, id string) (*models.DeploymentRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.records[id]
	if !ok {
		return nil, fmt.Errorf("deployment %s: %w", id, domain.ErrNotFound)
	}
	return record, nil
}

// Has reports whether a record exists for the given ID
func (r *FileRepository) Has(ctx context.Context, id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.records[id]
	return ok
}

// Save persists a record, replacing any prior record under the same ID
func (r *FileRepository) Save(ctx context.Context, record *models.DeploymentRecord) error {
	if record.ID == "" {
		return fmt.Errorf("deployment record has no ID")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.records[record.ID] = record
	if r.byAddress[record.ChainID] == nil {
		r.byAddress[record.ChainID] = make(map[string]string)
	}
	r.byAddress[record.ChainID][strings.ToLower(record.Address)] = record.ID

	return r.save()
}

// List retrieves records matching the filter
func (r *FileRepository) List(ctx context.Context, filter models.RecordFilter) ([]*models.DeploymentRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*models.DeploymentRecord
	for _, record := range r.records {
		if filter.Matches(record) {
			result = append(result, record)
		}
	}
	return result, nil
}

// GetByAddress retrieves a record by chain ID and contract address
func (r *FileRepository) GetByAddress(ctx context.Context, chainID uint64, address string) (*models.DeploymentRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	byAddr, ok := r.byAddress[chainID]
	if !ok {
		return nil, fmt.Errorf("no deployments on chain %d: %w", chainID, domain.ErrNotFound)
	}
	id, ok := byAddr[strings.ToLower(address)]
	if !ok {
		return nil, fmt.Errorf("deployment at %s: %w", address, domain.ErrNotFound)
	}
	return r.records[id], nil
}
