package domain

import (
	"fmt"
	"math/big"
	"strings"
)

// Prices are 18-decimal fixed-point integers. No floating point is used
// anywhere on the path to an on-chain value.
const PriceDecimals = 18

// BpsDenominator is the basis-point scale (10000 bps = 100%)
var BpsDenominator = big.NewInt(10_000)

// ComputeChangeBps returns the signed basis-point delta between oldPrice and
// newPrice, with truncating integer division:
//
//	newPrice >= oldPrice:  (newPrice - oldPrice) * 10000 / oldPrice
//	newPrice <  oldPrice: -((oldPrice - newPrice) * 10000 / oldPrice)
//
// The oracle wrapper contract re-derives the delta with the same formula and
// rejects proposals whose submitted delta disagrees beyond its tolerance, so
// the truncation direction here must not change.
func ComputeChangeBps(oldPrice, newPrice *big.Int) (*big.Int, error) {
	if oldPrice == nil || newPrice == nil {
		return nil, fmt.Errorf("nil price")
	}
	if oldPrice.Sign() <= 0 {
		return nil, fmt.Errorf("old price must be positive, got %s", oldPrice)
	}
	if newPrice.Sign() < 0 {
		return nil, fmt.Errorf("new price must not be negative, got %s", newPrice)
	}

	delta := new(big.Int)
	if newPrice.Cmp(oldPrice) >= 0 {
		delta.Sub(newPrice, oldPrice)
		delta.Mul(delta, BpsDenominator)
		delta.Quo(delta, oldPrice)
	} else {
		delta.Sub(oldPrice, newPrice)
		delta.Mul(delta, BpsDenominator)
		delta.Quo(delta, oldPrice)
		delta.Neg(delta)
	}
	return delta, nil
}

// ParsePrice parses a decimal price string ("1.00", "0.995") into an
// 18-decimal fixed-point integer. More than 18 fractional digits is an
// error rather than a silent truncation.
func ParsePrice(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("empty price")
	}
	if strings.HasPrefix(s, "-") {
		return nil, fmt.Errorf("negative price %q", s)
	}

	intPart := s
	fracPart := ""
	if idx := strings.IndexByte(s, '.'); idx >= 0 {
		intPart, fracPart = s[:idx], s[idx+1:]
	}
	if intPart == "" && fracPart == "" {
		return nil, fmt.Errorf("invalid price %q", s)
	}
	if intPart == "" {
		intPart = "0"
	}
	if len(fracPart) > PriceDecimals {
		return nil, fmt.Errorf("price %q has more than %d decimal places", s, PriceDecimals)
	}

	digits := intPart + fracPart + strings.Repeat("0", PriceDecimals-len(fracPart))
	v, ok := new(big.Int).SetString(digits, 10)
	if !ok {
		return nil, fmt.Errorf("invalid price %q", s)
	}
	return v, nil
}
