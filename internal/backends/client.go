// Package backends implements the liquidity sources the aggregator consults:
// the external quote API, the on-chain router probe, and the direct AMM
// pricer. All of them normalize into the same quote shape.
package backends

import (
	"context"
	"math/big"

	ethcommon "github.com/ethereum/go-ethereum/common"

	"github.com/glidewallet/swap-engine/internal/domain"
)

// QuoteRequest carries the resolved, validated parameters of a pricing
// request. Exactly one of SellAmount or BuyAmount is set.
type QuoteRequest struct {
	Sell domain.Token
	Buy  domain.Token

	SellAmount *big.Int
	BuyAmount  *big.Int

	SlippageBps uint16
	Taker       ethcommon.Address
	ChainID     uint64
}

// Client is a forward-quoting liquidity source. Implementations return
// liquidity-class errors (domain.IsLiquidityError) when the pair simply has
// no market, and plain errors for transport failures; the aggregator only
// falls back on the former.
type Client interface {
	Name() domain.QuoteSource
	QuoteBySellAmount(ctx context.Context, req *QuoteRequest) (*domain.Quote, error)
}

// ReverseQuoter is implemented by sources that can quote from a desired buy
// amount. Only the external API supports this.
type ReverseQuoter interface {
	QuoteByBuyAmount(ctx context.Context, req *QuoteRequest) (*domain.Quote, error)
}
