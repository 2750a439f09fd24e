package chain

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// Hand-maintained ABI fragments for the on-chain surface this tool consumes.
// Only the methods actually called are declared.

const oracleWrapperABIJSON = `[
	{"type":"function","name":"price","inputs":[],"outputs":[{"name":"","type":"uint256"}],"stateMutability":"view"},
	{"type":"function","name":"bpsTolerance","inputs":[],"outputs":[{"name":"","type":"uint256"}],"stateMutability":"view"},
	{"type":"function","name":"setPrice","inputs":[{"name":"oldPrice","type":"uint256"},{"name":"newPrice","type":"uint256"},{"name":"changeBps","type":"int256"}],"outputs":[],"stateMutability":"nonpayable"}
]`

const addressesProviderABIJSON = `[
	{"type":"function","name":"getPool","inputs":[],"outputs":[{"name":"","type":"address"}],"stateMutability":"view"},
	{"type":"function","name":"getPoolDataProvider","inputs":[],"outputs":[{"name":"","type":"address"}],"stateMutability":"view"}
]`

const dataProviderABIJSON = `[
	{"type":"function","name":"getReserveTokensAddresses","inputs":[{"name":"asset","type":"address"}],"outputs":[{"name":"aTokenAddress","type":"address"},{"name":"stableDebtTokenAddress","type":"address"},{"name":"variableDebtTokenAddress","type":"address"}],"stateMutability":"view"}
]`

const peripheryABIJSON = `[
	{"type":"function","name":"isWhitelistedAsset","inputs":[{"name":"asset","type":"address"}],"outputs":[{"name":"","type":"bool"}],"stateMutability":"view"},
	{"type":"function","name":"addWhitelistedAsset","inputs":[{"name":"asset","type":"address"}],"outputs":[],"stateMutability":"nonpayable"},
	{"type":"function","name":"maxSlippageBps","inputs":[],"outputs":[{"name":"","type":"uint256"}],"stateMutability":"view"},
	{"type":"function","name":"setMaxSlippage","inputs":[{"name":"bps","type":"uint256"}],"outputs":[],"stateMutability":"nonpayable"},
	{"type":"function","name":"vaultAssetToAdapter","inputs":[{"name":"vaultAsset","type":"address"}],"outputs":[{"name":"","type":"address"}],"stateMutability":"view"},
	{"type":"function","name":"setAdapter","inputs":[{"name":"vaultAsset","type":"address"},{"name":"adapter","type":"address"}],"outputs":[],"stateMutability":"nonpayable"}
]`

var (
	oracleWrapperABI     = mustParseABI(oracleWrapperABIJSON)
	addressesProviderABI = mustParseABI(addressesProviderABIJSON)
	dataProviderABI      = mustParseABI(dataProviderABIJSON)
	peripheryABI         = mustParseABI(peripheryABIJSON)
)

func mustParseABI(s string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(s))
	if err != nil {
		panic("invalid ABI: " + err.Error())
	}
	return parsed
}
