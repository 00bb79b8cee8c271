package domain

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// QuoteSource identifies which liquidity backend produced a quote. The swap
// executor branches on this tag exhaustively when assembling calls.
type QuoteSource string

const (
	SourceZeroEx      QuoteSource = "zeroex"
	SourceRouterProbe QuoteSource = "router_probe"
	SourceDirectAmm   QuoteSource = "direct_amm"
)

// ExecutableDetail is the transaction plan attached to a quote: everything
// the executor needs to turn the quote into an on-chain call.
type ExecutableDetail struct {
	// To is the contract the swap call targets.
	To common.Address `json:"to"`

	// Data is the swap calldata.
	Data []byte `json:"data"`

	// Value is the native amount attached to the swap call. Non-zero only
	// when the sell token is the chain's native asset.
	Value *big.Int `json:"value"`

	// AllowanceTarget is the contract that must be granted spending
	// allowance for the sell token before the swap call runs.
	AllowanceTarget common.Address `json:"allowanceTarget"`
}

// Quote is the normalized result of a pricing request. Immutable once
// created; destroyed on expiry or consumption.
type Quote struct {
	ID       string         `json:"id"`
	WalletID string         `json:"walletId"`
	Taker    common.Address `json:"taker"`

	SellToken Token `json:"sellToken"`
	BuyToken  Token `json:"buyToken"`

	// Amounts in smallest units.
	SellAmount   *big.Int `json:"sellAmount"`
	BuyAmount    *big.Int `json:"buyAmount"`
	MinBuyAmount *big.Int `json:"minBuyAmount"`

	// Price is the spot price (buy units per sell unit, decimal string).
	Price string `json:"price"`

	// GuaranteedPrice is the slippage-adjusted worst-case price.
	GuaranteedPrice string `json:"guaranteedPrice"`

	// PriceImpactPct is the price impact as a percentage with two decimal
	// places (e.g. "0.31").
	PriceImpactPct string `json:"priceImpactPct"`

	// EstimatedGas is informational only; gas is sponsored.
	EstimatedGas uint64 `json:"estimatedGas"`

	Source    QuoteSource `json:"source"`
	ExpiresAt time.Time   `json:"expiresAt"`

	Detail ExecutableDetail `json:"detail"`
}

// CachedQuoteEntry wraps a quote with the request context needed to
// re-validate an execution request against it. A cached entry is consumed at
// most once.
type CachedQuoteEntry struct {
	Quote Quote `json:"quote"`

	// WalletID and SellAmount repeat the original request so the executor
	// can detect substituted values. SellAmount is kept as the canonical
	// decimal string to avoid numeric representation mismatches.
	WalletID   string    `json:"walletId"`
	SellAmount string    `json:"sellAmount"`
	CreatedAt  time.Time `json:"createdAt"`
}
