package domain

import (
	"fmt"
	"regexp"

	"github.com/ethereum/go-ethereum/common"
)

// PoolRefKind discriminates the two ways a pool can be referenced in config.
type PoolRefKind int

const (
	// PoolRefByID references a pool through a prior deployment ledger record
	PoolRefByID PoolRefKind = iota
	// PoolRefByAddress references a pool by a literal on-chain address
	PoolRefByAddress
)

var addressShape = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

// PoolRef is a two-variant pool reference: either a deployment ID to be
// resolved against the ledger, or a literal address. Config strings are
// classified once, up front, instead of falling back on failed lookups.
type PoolRef struct {
	Kind    PoolRefKind
	ID      string
	Address common.Address
}

// ParsePoolRef classifies a config string as a deployment ID or a literal
// address. Address-shaped strings (0x + 40 hex chars) are taken as addresses;
// everything else is treated as a deployment ID.
func ParsePoolRef(s string) (PoolRef, error) {
	if s == "" {
		return PoolRef{}, fmt.Errorf("empty pool reference")
	}
	if addressShape.MatchString(s) {
		addr := common.HexToAddress(s)
		if addr == (common.Address{}) {
			return PoolRef{}, fmt.Errorf("pool reference %s: %w", s, ErrZeroAddress)
		}
		return PoolRef{Kind: PoolRefByAddress, Address: addr}, nil
	}
	return PoolRef{Kind: PoolRefByID, ID: s}, nil
}

// IsAddressShaped reports whether s looks like a hex Ethereum address.
func IsAddressShaped(s string) bool {
	return addressShape.MatchString(s)
}

func (r PoolRef) String() string {
	if r.Kind == PoolRefByAddress {
		return r.Address.Hex()
	}
	return r.ID
}
