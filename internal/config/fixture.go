package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// FixtureManifest declares a test-harness deployment fixture: which dPool
// instance to bring up and which tag subset of the deployment sequence to
// run. Parsed from a YAML file next to the test suite.
type FixtureManifest struct {
	Name     string        `yaml:"name"`
	Tags     []string      `yaml:"tags"` // e.g. ["dpool"]
	Instance DPoolInstance `yaml:"instance"`
}

// LoadFixtureManifest reads and validates a fixture manifest file.
func LoadFixtureManifest(path string) (*FixtureManifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture manifest: %w", err)
	}

	var m FixtureManifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse fixture manifest: %w", err)
	}

	if m.Instance.Symbol == "" {
		return nil, fmt.Errorf("fixture manifest %s: instance.symbol is required", path)
	}

	return &m, nil
}
