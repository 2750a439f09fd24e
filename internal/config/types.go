package config

import (
	"time"
)

// RuntimeConfig is the fully resolved runtime configuration, injected into
// use cases. Built once per invocation by Provider; read-only thereafter.
type RuntimeConfig struct {
	// Core settings
	ProjectRoot string
	DataDir     string

	// Context settings
	NetworkName string
	Network     *NetworkConfig // nil if no --network was given

	// Execution settings
	Debug          bool
	NonInteractive bool
	Timeout        time.Duration

	// Command-specific settings
	SkipIfAlreadyDeployed bool

	// Project config (dops.toml), all networks
	Project *ProjectConfig
}

// ChainID returns the chain ID of the selected network, or 0 when no
// network is selected.
func (c *RuntimeConfig) ChainID() uint64 {
	if c.Network == nil {
		return 0
	}
	return c.Network.ChainID
}
