package pricing

import (
	"context"
	"fmt"
	"math/big"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog/log"

	"github.com/glidewallet/swap-engine/internal/adapters/blockchain"
	"github.com/glidewallet/swap-engine/internal/common"
	"github.com/glidewallet/swap-engine/internal/domain"
	"github.com/glidewallet/swap-engine/internal/metrics"
)

// simToleranceBps bounds how far the router's simulated output may fall
// below the locally computed one before the quote is rejected. Rounding in
// the router accounts for at most a few basis points.
const simToleranceBps = 10

// Result is a priced single-hop swap against one V2 pool.
type Result struct {
	Pair         ethcommon.Address
	Path         []ethcommon.Address
	AmountOut    *big.Int
	MinAmountOut *big.Int
	ImpactBps    uint16
}

// DirectPricer prices swaps straight from pool reserves, for pairs the
// aggregator backends do not index. Every quote is cross-checked against the
// router's getAmountsOut simulation before it is returned.
type DirectPricer struct {
	reader        blockchain.Reader
	weth          ethcommon.Address
	minSellAmount *big.Int
}

func NewDirectPricer(reader blockchain.Reader, weth ethcommon.Address, minSellAmount uint64) *DirectPricer {
	return &DirectPricer{
		reader:        reader,
		weth:          weth,
		minSellAmount: new(big.Int).SetUint64(minSellAmount),
	}
}

// Price quotes a single-hop sell of sellAmount. Native tokens trade through
// the wrapped-native pool, so their path leg is the WETH address.
func (p *DirectPricer) Price(ctx context.Context, sell, buy domain.Token, sellAmount *big.Int, slippageBps uint16) (*Result, error) {
	if sellAmount == nil || sellAmount.Cmp(p.minSellAmount) < 0 {
		return nil, fmt.Errorf("%w: below minimum of %s smallest units", domain.ErrAmountTooSmall, p.minSellAmount)
	}

	sellAddr := p.legAddress(sell)
	buyAddr := p.legAddress(buy)
	if sellAddr == buyAddr {
		return nil, fmt.Errorf("%w: %s and %s share a pool leg", domain.ErrIdenticalTokens, sell.Symbol, buy.Symbol)
	}

	pair, err := p.reader.PairFor(ctx, sellAddr, buyAddr)
	if err != nil {
		return nil, err
	}
	if pair == (ethcommon.Address{}) {
		return nil, fmt.Errorf("%w: no pool for %s/%s", domain.ErrNoLiquidity, sell.Symbol, buy.Symbol)
	}

	state, err := p.reader.PoolState(ctx, pair)
	if err != nil {
		return nil, err
	}

	reserveIn, reserveOut, ok := state.OrientFor(sellAddr)
	if !ok {
		return nil, fmt.Errorf("%w: pool %s does not hold %s", domain.ErrPathInvalid, pair, sell.Symbol)
	}

	out, err := GetAmountOut(sellAmount, reserveIn, reserveOut)
	if err != nil {
		return nil, err
	}
	if out.Sign() == 0 {
		return nil, fmt.Errorf("%w: output rounds to zero", domain.ErrAmountTooSmall)
	}

	path := []ethcommon.Address{sellAddr, buyAddr}
	if err := p.validateAgainstRouter(ctx, sellAmount, path, out); err != nil {
		return nil, err
	}

	return &Result{
		Pair:         pair,
		Path:         path,
		AmountOut:    out,
		MinAmountOut: MinOutAfterSlippage(out, slippageBps),
		ImpactBps:    PriceImpactBps(sellAmount, reserveIn),
	}, nil
}

// validateAgainstRouter simulates the swap on the router itself and rejects
// the quote when the router disagrees beyond rounding tolerance. The router
// is ground truth for whether the path is actually executable.
func (p *DirectPricer) validateAgainstRouter(ctx context.Context, amountIn *big.Int, path []ethcommon.Address, computed *big.Int) error {
	amounts, err := p.reader.AmountsOut(ctx, amountIn, path)
	if err != nil {
		metrics.RouterSimRejections.Inc()
		return fmt.Errorf("%w: router simulation failed: %v", domain.ErrPathInvalid, err)
	}
	if len(amounts) != len(path) {
		metrics.RouterSimRejections.Inc()
		return fmt.Errorf("%w: router returned %d amounts for %d-leg path", domain.ErrPathInvalid, len(amounts), len(path))
	}

	simulated := amounts[len(amounts)-1]
	floor := new(big.Int).Mul(computed, big.NewInt(common.BpsDenominator-simToleranceBps))
	floor.Div(floor, big.NewInt(common.BpsDenominator))

	if simulated.Cmp(floor) < 0 {
		metrics.RouterSimRejections.Inc()
		log.Warn().
			Str("computed", computed.String()).
			Str("simulated", simulated.String()).
			Msg("[directPricer] router simulation below computed output")
		return fmt.Errorf("%w: router simulated %s vs computed %s", domain.ErrPathInvalid, simulated, computed)
	}
	return nil
}

func (p *DirectPricer) legAddress(t domain.Token) ethcommon.Address {
	if t.IsNative() {
		return p.weth
	}
	return t.Address
}
