package models

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// LargeChangeThresholdBps is the absolute basis-point delta above which a
// price proposal requires explicit operator confirmation (50%).
const LargeChangeThresholdBps = 5000

// PriceProposal is the ephemeral result of the governance price-update
// workflow: a signed basis-point delta and the multisig transaction built
// from it. Its only persistent effect is the proposal submitted to the
// Safe transaction service.
type PriceProposal struct {
	Oracle      common.Address
	Safe        common.Address
	OldPrice    *big.Int
	NewPrice    *big.Int
	ChangeBps   *big.Int // signed, truncating integer division
	LargeChange bool     // |ChangeBps| > LargeChangeThresholdBps
	CallData    []byte   // setPrice(oldPrice, newPrice, changeBps)
	SafeTxHash  common.Hash
}
