package backends

import (
	"context"
	"math/big"

	ethcommon "github.com/ethereum/go-ethereum/common"

	"github.com/glidewallet/swap-engine/internal/domain"
	"github.com/glidewallet/swap-engine/internal/pricing"
)

const ammGasEstimate = 160000

// AmmClient adapts the direct reserve-based pricer to the backend interface.
// It serves the curated custom-token pairs that aggregator backends cannot
// see, and deliberately has no reverse mode.
type AmmClient struct {
	pricer *pricing.DirectPricer
	router ethcommon.Address
}

func NewAmmClient(pricer *pricing.DirectPricer, router ethcommon.Address) *AmmClient {
	return &AmmClient{pricer: pricer, router: router}
}

func (c *AmmClient) Name() domain.QuoteSource {
	return domain.SourceDirectAmm
}

func (c *AmmClient) QuoteBySellAmount(ctx context.Context, req *QuoteRequest) (*domain.Quote, error) {
	res, err := c.pricer.Price(ctx, req.Sell, req.Buy, req.SellAmount, req.SlippageBps)
	if err != nil {
		return nil, err
	}

	detail, err := BuildRouterDetail(c.router, req.Sell, req.Buy, res.Path, req.SellAmount, res.MinAmountOut, req.Taker)
	if err != nil {
		return nil, err
	}

	return &domain.Quote{
		Taker:           req.Taker,
		SellToken:       req.Sell,
		BuyToken:        req.Buy,
		SellAmount:      new(big.Int).Set(req.SellAmount),
		BuyAmount:       res.AmountOut,
		MinBuyAmount:    res.MinAmountOut,
		Price:           pricing.SpotPrice(req.SellAmount, res.AmountOut, req.Sell.Decimals, req.Buy.Decimals),
		GuaranteedPrice: pricing.SpotPrice(req.SellAmount, res.MinAmountOut, req.Sell.Decimals, req.Buy.Decimals),
		PriceImpactPct:  pricing.FormatImpactPct(res.ImpactBps),
		EstimatedGas:    ammGasEstimate,
		Source:          domain.SourceDirectAmm,
		Detail:          *detail,
	}, nil
}
