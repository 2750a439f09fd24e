package models

import (
	"time"
)

// UnitKind identifies the logical deployment unit a record belongs to
type UnitKind string

const (
	UnitVault         UnitKind = "VAULT"
	UnitPeriphery     UnitKind = "PERIPHERY"
	UnitAdapter       UnitKind = "ADAPTER"
	UnitLiquidatorBot UnitKind = "LIQUIDATOR_BOT"
	UnitRewardManager UnitKind = "REWARD_MANAGER"
)

// DeploymentRecord is a ledger entry for a deployed contract, keyed by a
// stable deployment ID. Records are never mutated in place; a redeploy
// replaces the whole record unless skip-if-already-deployed keeps the old one.
type DeploymentRecord struct {
	ID           string    `json:"id"` // e.g. "dpool-sfrax-vault"
	ChainID      uint64    `json:"chainId"`
	ContractName string    `json:"contractName"` // artifact name, e.g. "DPoolVault"
	Unit         UnitKind  `json:"unit"`
	Address      string    `json:"address"`
	TxHash       string    `json:"txHash,omitempty"`
	Args         []string  `json:"args,omitempty"` // constructor args, stringified
	CreatedAt    time.Time `json:"createdAt"`
}

// RecordFilter narrows ledger listings
type RecordFilter struct {
	ChainID      uint64
	Unit         UnitKind
	ContractName string
}

// Matches reports whether the record passes the filter
func (f RecordFilter) Matches(r *DeploymentRecord) bool {
	if f.ChainID != 0 && r.ChainID != f.ChainID {
		return false
	}
	if f.Unit != "" && r.Unit != f.Unit {
		return false
	}
	if f.ContractName != "" && r.ContractName != f.ContractName {
		return false
	}
	return true
}
