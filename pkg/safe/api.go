package safe

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// TransactionServiceURLs contains the Safe Transaction Service URLs for different networks
var TransactionServiceURLs = map[uint64]string{
	1:        "https://safe-transaction-mainnet.safe.global",
	10:       "https://safe-transaction-optimism.safe.global",
	100:      "https://safe-transaction-gnosis-chain.safe.global",
	137:      "https://safe-transaction-polygon.safe.global",
	146:      "https://safe-transaction-sonic.safe.global",
	252:      "https://safe-transaction-fraxtal.safe.global",
	42161:    "https://safe-transaction-arbitrum.safe.global",
	11155111: "https://safe-transaction-sepolia.safe.global",
	8453:     "https://safe-transaction-base.safe.global",
	56:       "https://safe-transaction-bsc.safe.global",
	43114:    "https://safe-transaction-avalanche.safe.global",
}

// SafeInfo is the service's view of a Safe account
type SafeInfo struct {
	Address   string   `json:"address"`
	Nonce     int64    `json:"nonce"`
	Threshold int      `json:"threshold"`
	Owners    []string `json:"owners"`
	Version   string   `json:"version"`
}

// MultisigTransaction represents a Safe multisig transaction
type MultisigTransaction struct {
	Safe                  string         `json:"safe"`
	To                    string         `json:"to"`
	Value                 string         `json:"value"`
	Data                  string         `json:"data"`
	Operation             int            `json:"operation"`
	SafeTxGas             int            `json:"safeTxGas"`
	BaseGas               int            `json:"baseGas"`
	GasPrice              string         `json:"gasPrice"`
	GasToken              string         `json:"gasToken"`
	RefundReceiver        string         `json:"refundReceiver"`
	Nonce                 int            `json:"nonce"`
	ExecutionDate         *time.Time     `json:"executionDate"`
	SubmissionDate        time.Time      `json:"submissionDate"`
	TransactionHash       *string        `json:"transactionHash"`
	SafeTxHash            string         `json:"safeTxHash"`
	IsExecuted            bool           `json:"isExecuted"`
	IsSuccessful          *bool          `json:"isSuccessful"`
	ConfirmationsRequired int            `json:"confirmationsRequired"`
	Confirmations         []Confirmation `json:"confirmations"`
}

// Confirmation represents a confirmation on a Safe transaction
type Confirmation struct {
	Owner          string    `json:"owner"`
	SubmissionDate time.Time `json:"submissionDate"`
	Signature      string    `json:"signature"`
	SignatureType  string    `json:"signatureType"`
}

// GetSafeInfo retrieves the Safe account state, including its current nonce
func (c *Client) GetSafeInfo(safeAddress common.Address) (*SafeInfo, error) {
	url := fmt.Sprintf("%s/api/v1/safes/%s/", c.serviceURL, safeAddress.Hex())

	var info SafeInfo
	if err := c.getJSON(url, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// GetTransaction retrieves a Safe transaction by its hash
func (c *Client) GetTransaction(safeTxHash common.Hash) (*MultisigTransaction, error) {
	url := fmt.Sprintf("%s/api/v1/multisig-transactions/%s/", c.serviceURL, safeTxHash.Hex())

	var tx MultisigTransaction
	if err := c.getJSON(url, &tx); err != nil {
		return nil, err
	}
	return &tx, nil
}

// IsTransactionExecuted checks if a Safe transaction has been executed
func (c *Client) IsTransactionExecuted(safeTxHash common.Hash) (bool, *common.Hash, error) {
	tx, err := c.GetTransaction(safeTxHash)
	if err != nil {
		return false, nil, err
	}

	if tx.IsExecuted && tx.TransactionHash != nil {
		ethTxHash := common.HexToHash(*tx.TransactionHash)
		return true, &ethTxHash, nil
	}

	return false, nil, nil
}

// GetPendingTransactions retrieves pending transactions for a Safe
func (c *Client) GetPendingTransactions(safeAddress common.Address) ([]*MultisigTransaction, error) {
	url := fmt.Sprintf("%s/api/v1/safes/%s/multisig-transactions/?executed=false&ordering=-nonce",
		c.serviceURL, safeAddress.Hex())

	var result struct {
		Results []*MultisigTransaction `json:"results"`
	}
	if err := c.getJSON(url, &result); err != nil {
		return nil, err
	}
	return result.Results, nil
}

func (c *Client) getJSON(url string, v any) error {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("unexpected status code: %d, body: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
