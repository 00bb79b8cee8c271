package domain

import (
	"github.com/ethereum/go-ethereum/common"
)

// NativeTokenAddress is the sentinel address used to denote the chain's
// native asset in quote requests and token tables.
var NativeTokenAddress = common.HexToAddress("0xEeeeeEeeeEeEeeEeEeEeeEEEeeeeEeeeeeeeEEeE")

// Token describes one supported asset on the active network. Token sets are
// loaded once at start-up and never mutated afterwards.
type Token struct {
	// Symbol is unique within the active network set (e.g. "USDC").
	Symbol string `json:"symbol"`

	// Name is the display name (e.g. "USD Coin").
	Name string `json:"name"`

	// Address is the token contract, or NativeTokenAddress for the
	// chain's native asset.
	Address common.Address `json:"address"`

	// Decimals is the smallest-unit precision.
	Decimals uint8 `json:"decimals"`

	// Native marks the chain's gas asset.
	Native bool `json:"native"`

	// PriceRefID is an optional external price-reference identifier
	// (e.g. a coingecko id). Informational only.
	PriceRefID string `json:"priceRefId,omitempty"`
}

func (t Token) IsNative() bool {
	return t.Native || t.Address == NativeTokenAddress
}
