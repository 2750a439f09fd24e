package artifacts

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/dstack-org/dops-cli/internal/config"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// Artifact is a compiled contract: parsed ABI plus creation bytecode
type Artifact struct {
	ContractName string
	ABI          abi.ABI
	Bytecode     []byte
}

// rawArtifact matches the compiler output JSON on disk
type rawArtifact struct {
	ContractName string          `json:"contractName"`
	ABI          json.RawMessage `json:"abi"`
	Bytecode     string          `json:"bytecode"`
}

// Repository loads compiled contract artifacts from the artifacts directory
// (one <Name>.json per contract, {contractName, abi, bytecode}), caching
// parsed results.
type Repository struct {
	dir string

	mu    sync.Mutex
	cache map[string]*Artifact
}

// NewRepository creates an artifact repository rooted at the configured
// artifacts directory
func NewRepository(cfg *config.RuntimeConfig) *Repository {
	dir := cfg.Project.ArtifactsDir
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(cfg.ProjectRoot, dir)
	}
	return &Repository{
		dir:   dir,
		cache: make(map[string]*Artifact),
	}
}

// Get loads (or returns the cached) artifact for a contract name
func (r *Repository) Get(name string) (*Artifact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if artifact, ok := r.cache[name]; ok {
		return artifact, nil
	}

	path := filepath.Join(r.dir, name+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read artifact %s: %w", name, err)
	}

	var raw rawArtifact
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse artifact %s: %w", name, err)
	}

	parsed, err := abi.JSON(strings.NewReader(string(raw.ABI)))
	if err != nil {
		return nil, fmt.Errorf("invalid ABI in artifact %s: %w", name, err)
	}

	bytecode := common.FromHex(raw.Bytecode)
	if len(bytecode) == 0 {
		return nil, fmt.Errorf("artifact %s has no bytecode (is it an interface?)", name)
	}

	artifact := &Artifact{
		ContractName: name,
		ABI:          parsed,
		Bytecode:     bytecode,
	}
	r.cache[name] = artifact
	return artifact, nil
}
