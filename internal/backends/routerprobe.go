package backends

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog/log"

	"github.com/glidewallet/swap-engine/internal/adapters/blockchain"
	"github.com/glidewallet/swap-engine/internal/domain"
	"github.com/glidewallet/swap-engine/internal/pricing"
)

// Informational gas figures for router swaps; gas is sponsored either way.
const (
	probeGasBase   = 150000
	probeGasPerHop = 80000
)

// RouterProbe quotes by asking the V2 router to simulate the swap, trying
// the direct pair first and then a hop through the wrapped-native token. It
// is the fallback when the external API has no route.
type RouterProbe struct {
	reader blockchain.Reader
	router ethcommon.Address
	weth   ethcommon.Address
}

func NewRouterProbe(reader blockchain.Reader, router, weth ethcommon.Address) *RouterProbe {
	return &RouterProbe{reader: reader, router: router, weth: weth}
}

func (c *RouterProbe) Name() domain.QuoteSource {
	return domain.SourceRouterProbe
}

func (c *RouterProbe) QuoteBySellAmount(ctx context.Context, req *QuoteRequest) (*domain.Quote, error) {
	sellAddr := legAddress(req.Sell, c.weth)
	buyAddr := legAddress(req.Buy, c.weth)

	path, amounts, err := c.probe(ctx, req, sellAddr, buyAddr)
	if err != nil {
		return nil, err
	}

	buyAmount := amounts[len(amounts)-1]
	minOut := pricing.MinOutAfterSlippage(buyAmount, req.SlippageBps)

	detail, err := BuildRouterDetail(c.router, req.Sell, req.Buy, path, req.SellAmount, minOut, req.Taker)
	if err != nil {
		return nil, err
	}

	return &domain.Quote{
		Taker:           req.Taker,
		SellToken:       req.Sell,
		BuyToken:        req.Buy,
		SellAmount:      new(big.Int).Set(req.SellAmount),
		BuyAmount:       buyAmount,
		MinBuyAmount:    minOut,
		Price:           pricing.SpotPrice(req.SellAmount, buyAmount, req.Sell.Decimals, req.Buy.Decimals),
		GuaranteedPrice: pricing.SpotPrice(req.SellAmount, minOut, req.Sell.Decimals, req.Buy.Decimals),
		PriceImpactPct:  pricing.FormatImpactPct(c.firstLegImpact(ctx, req.SellAmount, path)),
		EstimatedGas:    uint64(probeGasBase + probeGasPerHop*(len(path)-2)),
		Source:          domain.SourceRouterProbe,
		Detail:          *detail,
	}, nil
}

// probe tries candidate paths in preference order. A revert means the path
// has no pool and the next candidate is tried; any other RPC failure aborts.
func (c *RouterProbe) probe(ctx context.Context, req *QuoteRequest, sellAddr, buyAddr ethcommon.Address) ([]ethcommon.Address, []*big.Int, error) {
	candidates := [][]ethcommon.Address{{sellAddr, buyAddr}}
	if sellAddr != c.weth && buyAddr != c.weth {
		candidates = append(candidates, []ethcommon.Address{sellAddr, c.weth, buyAddr})
	}

	for _, path := range candidates {
		amounts, err := c.reader.AmountsOut(ctx, req.SellAmount, path)
		if err == nil {
			if len(amounts) != len(path) {
				return nil, nil, fmt.Errorf("router returned %d amounts for %d-leg path", len(amounts), len(path))
			}
			return path, amounts, nil
		}
		if !isRevert(err) {
			return nil, nil, fmt.Errorf("router probe failed: %w", err)
		}
		log.Debug().
			Int("legs", len(path)).
			Str("pair", req.Sell.Symbol+"/"+req.Buy.Symbol).
			Msg("[routerProbe] path reverted, trying next candidate")
	}

	return nil, nil, fmt.Errorf("%w: no router path for %s/%s", domain.ErrNoLiquidity, req.Sell.Symbol, req.Buy.Symbol)
}

// firstLegImpact estimates impact from the entry pool's reserves. Best
// effort: the path already simulated successfully, so read failures here
// only degrade the display value.
func (c *RouterProbe) firstLegImpact(ctx context.Context, amountIn *big.Int, path []ethcommon.Address) uint16 {
	pair, err := c.reader.PairFor(ctx, path[0], path[1])
	if err != nil || pair == (ethcommon.Address{}) {
		return 0
	}
	state, err := c.reader.PoolState(ctx, pair)
	if err != nil {
		return 0
	}
	reserveIn, _, ok := state.OrientFor(path[0])
	if !ok {
		return 0
	}
	return pricing.PriceImpactBps(amountIn, reserveIn)
}

func legAddress(t domain.Token, weth ethcommon.Address) ethcommon.Address {
	if t.IsNative() {
		return weth
	}
	return t.Address
}

func isRevert(err error) bool {
	return err != nil && strings.Contains(err.Error(), "execution reverted")
}
