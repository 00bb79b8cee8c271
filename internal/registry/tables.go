package registry

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/glidewallet/swap-engine/internal/config"
	"github.com/glidewallet/swap-engine/internal/domain"
)

// Static token tables. One table per network; the sets are disjoint and the
// active one is selected once at start-up. GLDR is the curated custom token
// whose pool only the direct AMM pricer can route.

var mainnetTokens = []domain.Token{
	{
		Symbol:     "ETH",
		Name:       "Ether",
		Address:    domain.NativeTokenAddress,
		Decimals:   18,
		Native:     true,
		PriceRefID: "ethereum",
	},
	{
		Symbol:     "WETH",
		Name:       "Wrapped Ether",
		Address:    common.HexToAddress("0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2"),
		Decimals:   18,
		PriceRefID: "weth",
	},
	{
		Symbol:     "USDC",
		Name:       "USD Coin",
		Address:    common.HexToAddress("0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48"),
		Decimals:   6,
		PriceRefID: "usd-coin",
	},
	{
		Symbol:     "USDT",
		Name:       "Tether USD",
		Address:    common.HexToAddress("0xdAC17F958D2ee523a2206206994597C13D831ec7"),
		Decimals:   6,
		PriceRefID: "tether",
	},
	{
		Symbol:     "DAI",
		Name:       "Dai Stablecoin",
		Address:    common.HexToAddress("0x6B175474E89094C44Da98b954EedeAC495271d0F"),
		Decimals:   18,
		PriceRefID: "dai",
	},
	{
		Symbol:     "WBTC",
		Name:       "Wrapped BTC",
		Address:    common.HexToAddress("0x2260FAC5E5542a773Aa44fBCfeDf7C193bc2C599"),
		Decimals:   8,
		PriceRefID: "wrapped-bitcoin",
	},
	{
		Symbol:   "GLDR",
		Name:     "Glider",
		Address:  common.HexToAddress("0x91aC5a1f3488Ce64a3866bb56a7E0Be93E0e2a5c"),
		Decimals: 18,
	},
}

var testnetTokens = []domain.Token{
	{
		Symbol:     "ETH",
		Name:       "Ether",
		Address:    domain.NativeTokenAddress,
		Decimals:   18,
		Native:     true,
		PriceRefID: "ethereum",
	},
	{
		Symbol:     "WETH",
		Name:       "Wrapped Ether",
		Address:    common.HexToAddress("0xfFf9976782d46CC05630D1f6eBAb18b2324d6B14"),
		Decimals:   18,
		PriceRefID: "weth",
	},
	{
		Symbol:     "USDC",
		Name:       "USD Coin (test)",
		Address:    common.HexToAddress("0x1c7D4B196Cb0C7B01d743Fbc6116a902379C7238"),
		Decimals:   6,
		PriceRefID: "usd-coin",
	},
	{
		Symbol:   "GLDR",
		Name:     "Glider (test)",
		Address:  common.HexToAddress("0x5a77f1443D16ee5761d310e38b62f77f726bC71c"),
		Decimals: 18,
	},
}

func tokensForNetwork(network config.Network) []domain.Token {
	if network == config.MainnetNetwork {
		return mainnetTokens
	}
	return testnetTokens
}
