package safe

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// proposeRequest is the service's multisig-transaction creation payload
type proposeRequest struct {
	To                      string `json:"to"`
	Value                   string `json:"value"`
	Data                    string `json:"data"`
	Operation               uint8  `json:"operation"`
	SafeTxGas               string `json:"safeTxGas"`
	BaseGas                 string `json:"baseGas"`
	GasPrice                string `json:"gasPrice"`
	GasToken                string `json:"gasToken"`
	RefundReceiver          string `json:"refundReceiver"`
	Nonce                   string `json:"nonce"`
	ContractTransactionHash string `json:"contractTransactionHash"`
	Sender                  string `json:"sender"`
	Origin                  string `json:"origin,omitempty"`
}

// ProposeTransaction submits a transaction proposal to the service. The
// proposal is unsigned; signers review and confirm it independently in the
// Safe UI. Returns the safeTxHash identifying the proposal.
func (c *Client) ProposeTransaction(safe common.Address, chainID uint64, tx Tx, sender common.Address, origin string) (common.Hash, error) {
	if tx.Nonce == nil {
		info, err := c.GetSafeInfo(safe)
		if err != nil {
			return common.Hash{}, fmt.Errorf("failed to fetch safe nonce: %w", err)
		}
		tx.Nonce = big.NewInt(info.Nonce)
	}

	txHash := TxHash(safe, new(big.Int).SetUint64(chainID), tx)

	body := proposeRequest{
		To:                      tx.To.Hex(),
		Value:                   bigString(tx.Value),
		Data:                    hexutil.Encode(tx.Data),
		Operation:               tx.Operation,
		SafeTxGas:               bigString(tx.SafeTxGas),
		BaseGas:                 bigString(tx.BaseGas),
		GasPrice:                bigString(tx.GasPrice),
		GasToken:                tx.GasToken.Hex(),
		RefundReceiver:          tx.RefundReceiver.Hex(),
		Nonce:                   tx.Nonce.String(),
		ContractTransactionHash: txHash.Hex(),
		Sender:                  sender.Hex(),
		Origin:                  origin,
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to encode proposal: %w", err)
	}

	url := fmt.Sprintf("%s/api/v1/safes/%s/multisig-transactions/", c.serviceURL, safe.Hex())
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return common.Hash{}, fmt.Errorf("proposal rejected: status %d, body: %s",
			resp.StatusCode, string(respBody))
	}

	return txHash, nil
}

func bigString(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}
