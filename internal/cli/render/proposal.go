package render

import (
	"fmt"
	"io"
	"math/big"
	"strings"

	"github.com/dstack-org/dops-cli/internal/domain"
	"github.com/dstack-org/dops-cli/internal/usecase"
)

// ProposalRenderer renders the outcome of the price-update workflow
type ProposalRenderer struct {
	out io.Writer
}

// NewProposalRenderer creates a new proposal renderer
func NewProposalRenderer(out io.Writer) *ProposalRenderer {
	return &ProposalRenderer{out: out}
}

// RenderProposal renders either the no-op notice or the submitted proposal
func (r *ProposalRenderer) RenderProposal(result *usecase.ProposePriceResult) error {
	if result.NoChange {
		skippedStyle.Fprintln(r.out, "New price equals the current on-chain price, nothing to propose")
		return nil
	}

	p := result.Proposal
	headerStyle.Fprintln(r.out, "Price update proposed")
	fmt.Fprintf(r.out, "  Oracle:      %s\n", p.Oracle.Hex())
	fmt.Fprintf(r.out, "  Safe:        %s\n", p.Safe.Hex())
	fmt.Fprintf(r.out, "  Old price:   %s\n", formatPrice(p.OldPrice))
	fmt.Fprintf(r.out, "  New price:   %s\n", formatPrice(p.NewPrice))
	fmt.Fprintf(r.out, "  Change:      %s bps\n", p.ChangeBps)
	if result.ToleranceBps != nil {
		faintStyle.Fprintf(r.out, "  Tolerance:   %s bps\n", result.ToleranceBps)
	}
	if p.LargeChange {
		skippedStyle.Fprintln(r.out, "  Large change confirmed by operator")
	}
	fmt.Fprintf(r.out, "  SafeTxHash:  %s\n", p.SafeTxHash.Hex())
	deployedStyle.Fprintln(r.out, "\nConfirm and execute the transaction in the Safe UI")
	return nil
}

// formatPrice renders an 18-decimal fixed-point value as a decimal string
func formatPrice(price *big.Int) string {
	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(domain.PriceDecimals), nil)
	whole, frac := new(big.Int).QuoRem(price, scale, new(big.Int))
	if frac.Sign() == 0 {
		return whole.String()
	}
	digits := frac.String()
	if pad := domain.PriceDecimals - len(digits); pad > 0 {
		digits = strings.Repeat("0", pad) + digits
	}
	return whole.String() + "." + trimTrailingZeros(digits)
}

func trimTrailingZeros(s string) string {
	for len(s) > 1 && s[len(s)-1] == '0' {
		s = s[:len(s)-1]
	}
	return s
}
