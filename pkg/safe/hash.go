package safe

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"
)

// EIP-712 type hashes used by the Safe contracts (v1.3.0+)
var (
	domainSeparatorTypeHash = crypto.Keccak256(
		[]byte("EIP712Domain(uint256 chainId,address verifyingContract)"))
	safeTxTypeHash = crypto.Keccak256(
		[]byte("SafeTx(address to,uint256 value,bytes data,uint8 operation,uint256 safeTxGas,uint256 baseGas,uint256 gasPrice,address gasToken,address refundReceiver,uint256 nonce)"))
)

// Tx is a Safe transaction to be hashed and proposed. Zero-value gas fields
// are valid (the common case for governance proposals).
type Tx struct {
	To             common.Address
	Value          *big.Int
	Data           []byte
	Operation      uint8 // 0 = CALL, 1 = DELEGATECALL
	SafeTxGas      *big.Int
	BaseGas        *big.Int
	GasPrice       *big.Int
	GasToken       common.Address
	RefundReceiver common.Address
	Nonce          *big.Int
}

// TxHash computes the EIP-712 safeTxHash that signers approve. It must
// match what the Safe contract computes on-chain or the service rejects
// the proposal.
func TxHash(safe common.Address, chainID *big.Int, tx Tx) common.Hash {
	domainSeparator := crypto.Keccak256(
		domainSeparatorTypeHash,
		uintWord(chainID),
		addressWord(safe),
	)

	safeTxStruct := crypto.Keccak256(
		safeTxTypeHash,
		addressWord(tx.To),
		uintWord(tx.Value),
		crypto.Keccak256(tx.Data),
		uintWord(big.NewInt(int64(tx.Operation))),
		uintWord(tx.SafeTxGas),
		uintWord(tx.BaseGas),
		uintWord(tx.GasPrice),
		addressWord(tx.GasToken),
		addressWord(tx.RefundReceiver),
		uintWord(tx.Nonce),
	)

	return common.BytesToHash(crypto.Keccak256(
		[]byte{0x19, 0x01},
		domainSeparator,
		safeTxStruct,
	))
}

// uintWord encodes a uint256 as a 32-byte ABI word; nil encodes as zero
func uintWord(v *big.Int) []byte {
	if v == nil {
		v = common.Big0
	}
	return math.U256Bytes(new(big.Int).Set(v))
}

// addressWord encodes an address as a left-padded 32-byte ABI word
func addressWord(a common.Address) []byte {
	return common.LeftPadBytes(a.Bytes(), 32)
}
