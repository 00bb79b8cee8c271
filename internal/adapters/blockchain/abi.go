package blockchain

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// Minimal ABI fragments: only the functions this engine calls.
const (
	pairABIJSON = `[
		{"inputs":[],"name":"getReserves","outputs":[
			{"internalType":"uint112","name":"reserve0","type":"uint112"},
			{"internalType":"uint112","name":"reserve1","type":"uint112"},
			{"internalType":"uint32","name":"blockTimestampLast","type":"uint32"}],
		 "stateMutability":"view","type":"function"},
		{"inputs":[],"name":"token0","outputs":[{"internalType":"address","name":"","type":"address"}],
		 "stateMutability":"view","type":"function"},
		{"inputs":[],"name":"token1","outputs":[{"internalType":"address","name":"","type":"address"}],
		 "stateMutability":"view","type":"function"}
	]`

	factoryABIJSON = `[
		{"inputs":[{"internalType":"address","name":"tokenA","type":"address"},
			{"internalType":"address","name":"tokenB","type":"address"}],
		 "name":"getPair","outputs":[{"internalType":"address","name":"pair","type":"address"}],
		 "stateMutability":"view","type":"function"}
	]`

	routerABIJSON = `[
		{"inputs":[{"internalType":"uint256","name":"amountIn","type":"uint256"},
			{"internalType":"address[]","name":"path","type":"address[]"}],
		 "name":"getAmountsOut","outputs":[{"internalType":"uint256[]","name":"amounts","type":"uint256[]"}],
		 "stateMutability":"view","type":"function"},
		{"inputs":[{"internalType":"uint256","name":"amountIn","type":"uint256"},
			{"internalType":"uint256","name":"amountOutMin","type":"uint256"},
			{"internalType":"address[]","name":"path","type":"address[]"},
			{"internalType":"address","name":"to","type":"address"},
			{"internalType":"uint256","name":"deadline","type":"uint256"}],
		 "name":"swapExactTokensForTokens","outputs":[{"internalType":"uint256[]","name":"amounts","type":"uint256[]"}],
		 "stateMutability":"nonpayable","type":"function"},
		{"inputs":[{"internalType":"uint256","name":"amountOutMin","type":"uint256"},
			{"internalType":"address[]","name":"path","type":"address[]"},
			{"internalType":"address","name":"to","type":"address"},
			{"internalType":"uint256","name":"deadline","type":"uint256"}],
		 "name":"swapExactETHForTokens","outputs":[{"internalType":"uint256[]","name":"amounts","type":"uint256[]"}],
		 "stateMutability":"payable","type":"function"},
		{"inputs":[{"internalType":"uint256","name":"amountIn","type":"uint256"},
			{"internalType":"uint256","name":"amountOutMin","type":"uint256"},
			{"internalType":"address[]","name":"path","type":"address[]"},
			{"internalType":"address","name":"to","type":"address"},
			{"internalType":"uint256","name":"deadline","type":"uint256"}],
		 "name":"swapExactTokensForETH","outputs":[{"internalType":"uint256[]","name":"amounts","type":"uint256[]"}],
		 "stateMutability":"nonpayable","type":"function"}
	]`

	erc20ABIJSON = `[
		{"inputs":[{"internalType":"address","name":"spender","type":"address"},
			{"internalType":"uint256","name":"amount","type":"uint256"}],
		 "name":"approve","outputs":[{"internalType":"bool","name":"","type":"bool"}],
		 "stateMutability":"nonpayable","type":"function"},
		{"inputs":[{"internalType":"address","name":"owner","type":"address"},
			{"internalType":"address","name":"spender","type":"address"}],
		 "name":"allowance","outputs":[{"internalType":"uint256","name":"","type":"uint256"}],
		 "stateMutability":"view","type":"function"}
	]`
)

var (
	PairABI    = mustParseABI(pairABIJSON)
	FactoryABI = mustParseABI(factoryABIJSON)
	RouterABI  = mustParseABI(routerABIJSON)
	ERC20ABI   = mustParseABI(erc20ABIJSON)
)

func mustParseABI(s string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(s))
	if err != nil {
		panic(err)
	}
	return parsed
}
