package safe

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dstack-org/dops-cli/internal/config"
	"github.com/dstack-org/dops-cli/internal/domain"
	"github.com/dstack-org/dops-cli/internal/usecase"
	safeclient "github.com/dstack-org/dops-cli/pkg/safe"
	"github.com/ethereum/go-ethereum/common"
)

// ProposerAdapter implements usecase.SafeProposer on top of the Safe
// Transaction Service client. Proposals are plain CALLs with zero value and
// default gas fields; signers confirm through the Safe UI afterwards.
type ProposerAdapter struct {
	cfg *config.RuntimeConfig
	log *slog.Logger
}

// NewProposerAdapter creates a new Safe proposer adapter
func NewProposerAdapter(cfg *config.RuntimeConfig, log *slog.Logger) *ProposerAdapter {
	return &ProposerAdapter{cfg: cfg, log: log}
}

// ProposeTransaction builds and submits a multisig transaction proposal
func (p *ProposerAdapter) ProposeTransaction(ctx context.Context, safe, to common.Address, data []byte, sender common.Address) (common.Hash, error) {
	if p.cfg.Network == nil {
		return common.Hash{}, fmt.Errorf("%w: no network selected", domain.ErrMissingConfig)
	}

	client, err := p.client()
	if err != nil {
		return common.Hash{}, err
	}

	tx := safeclient.Tx{
		To:   to,
		Data: data,
	}

	txHash, err := client.ProposeTransaction(safe, p.cfg.Network.ChainID, tx, sender, "dops")
	if err != nil {
		return common.Hash{}, err
	}

	p.log.Info("proposal submitted",
		"safe", safe.Hex(), "to", to.Hex(), "safeTxHash", txHash.Hex())
	return txHash, nil
}

func (p *ProposerAdapter) client() (*safeclient.Client, error) {
	if p.cfg.Network.Safe != nil && p.cfg.Network.Safe.ServiceURL != "" {
		return safeclient.NewClientWithURL(p.cfg.Network.Safe.ServiceURL), nil
	}
	return safeclient.NewClient(p.cfg.Network.ChainID)
}

var _ usecase.SafeProposer = (*ProposerAdapter)(nil)
