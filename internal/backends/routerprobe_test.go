package backends

import (
	"context"
	"errors"
	"math/big"
	"testing"

	ethcommon "github.com/ethereum/go-ethereum/common"

	"github.com/glidewallet/swap-engine/internal/domain"
)

var (
	probeRouter = ethcommon.HexToAddress("0x7a250d5630B4cF539739dF2C5dAcb4c659F2488D")
	probeWETH   = ethcommon.HexToAddress("0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2")
	probePair   = ethcommon.HexToAddress("0x3333333333333333333333333333333333333333")
)

// probeReader simulates the router: paths present in routes succeed, all
// others revert. rpcErr overrides everything to model a transport failure.
type probeReader struct {
	routes map[int]*big.Int // path length -> final output
	rpcErr error
	state  *domain.PoolState
}

func (f *probeReader) PairFor(_ context.Context, _, _ ethcommon.Address) (ethcommon.Address, error) {
	if f.state == nil {
		return ethcommon.Address{}, nil
	}
	return probePair, nil
}

func (f *probeReader) PoolState(_ context.Context, _ ethcommon.Address) (*domain.PoolState, error) {
	if f.state == nil {
		return nil, errors.New("no state")
	}
	return f.state, nil
}

func (f *probeReader) AmountsOut(_ context.Context, amountIn *big.Int, path []ethcommon.Address) ([]*big.Int, error) {
	if f.rpcErr != nil {
		return nil, f.rpcErr
	}
	out, ok := f.routes[len(path)]
	if !ok {
		return nil, errors.New("execution reverted")
	}
	amounts := make([]*big.Int, len(path))
	amounts[0] = amountIn
	for i := 1; i < len(path); i++ {
		amounts[i] = out
	}
	return amounts, nil
}

func daiToken() domain.Token {
	return domain.Token{
		Symbol:   "DAI",
		Address:  ethcommon.HexToAddress("0x6B175474E89094C44Da98b954EedeAC495271d0F"),
		Decimals: 18,
	}
}

func TestRouterProbeDirectPath(t *testing.T) {
	reader := &probeReader{routes: map[int]*big.Int{2: big.NewInt(995000)}}
	probe := NewRouterProbe(reader, probeRouter, probeWETH)

	quote, err := probe.QuoteBySellAmount(context.Background(), &QuoteRequest{
		Sell:        usdcToken(),
		Buy:         daiToken(),
		SellAmount:  big.NewInt(1000000),
		SlippageBps: 100,
	})
	if err != nil {
		t.Fatalf("QuoteBySellAmount: %v", err)
	}
	if quote.Source != domain.SourceRouterProbe {
		t.Errorf("Source = %s", quote.Source)
	}
	if quote.BuyAmount.String() != "995000" {
		t.Errorf("BuyAmount = %s", quote.BuyAmount)
	}
	if quote.MinBuyAmount.String() != "985050" {
		t.Errorf("MinBuyAmount = %s", quote.MinBuyAmount)
	}
	if quote.Detail.To != probeRouter {
		t.Errorf("Detail.To = %s, want router", quote.Detail.To)
	}
	if quote.Detail.AllowanceTarget != probeRouter {
		t.Errorf("AllowanceTarget = %s, want router", quote.Detail.AllowanceTarget)
	}
	if len(quote.Detail.Data) == 0 {
		t.Error("empty calldata")
	}
}

func TestRouterProbeFallsBackToHop(t *testing.T) {
	reader := &probeReader{routes: map[int]*big.Int{3: big.NewInt(990000)}}
	probe := NewRouterProbe(reader, probeRouter, probeWETH)

	quote, err := probe.QuoteBySellAmount(context.Background(), &QuoteRequest{
		Sell:        usdcToken(),
		Buy:         daiToken(),
		SellAmount:  big.NewInt(1000000),
		SlippageBps: 100,
	})
	if err != nil {
		t.Fatalf("QuoteBySellAmount: %v", err)
	}
	if quote.BuyAmount.String() != "990000" {
		t.Errorf("BuyAmount = %s", quote.BuyAmount)
	}
	// Two hops cost more gas than one.
	if quote.EstimatedGas != probeGasBase+probeGasPerHop {
		t.Errorf("EstimatedGas = %d", quote.EstimatedGas)
	}
}

func TestRouterProbeNoHopThroughWETHLeg(t *testing.T) {
	// When one side already is WETH there is no hop candidate; a direct
	// revert is terminal.
	reader := &probeReader{routes: map[int]*big.Int{3: big.NewInt(1)}}
	probe := NewRouterProbe(reader, probeRouter, probeWETH)

	weth := domain.Token{Symbol: "WETH", Address: probeWETH, Decimals: 18}
	_, err := probe.QuoteBySellAmount(context.Background(), &QuoteRequest{
		Sell:        weth,
		Buy:         daiToken(),
		SellAmount:  big.NewInt(1000000),
		SlippageBps: 100,
	})
	if !errors.Is(err, domain.ErrNoLiquidity) {
		t.Errorf("got %v, want ErrNoLiquidity", err)
	}
}

func TestRouterProbeAllPathsRevert(t *testing.T) {
	reader := &probeReader{routes: map[int]*big.Int{}}
	probe := NewRouterProbe(reader, probeRouter, probeWETH)

	_, err := probe.QuoteBySellAmount(context.Background(), &QuoteRequest{
		Sell:        usdcToken(),
		Buy:         daiToken(),
		SellAmount:  big.NewInt(1000000),
		SlippageBps: 100,
	})
	if !errors.Is(err, domain.ErrNoLiquidity) {
		t.Errorf("got %v, want ErrNoLiquidity", err)
	}
}

func TestRouterProbeTransportErrorAborts(t *testing.T) {
	reader := &probeReader{rpcErr: errors.New("connection refused")}
	probe := NewRouterProbe(reader, probeRouter, probeWETH)

	_, err := probe.QuoteBySellAmount(context.Background(), &QuoteRequest{
		Sell:        usdcToken(),
		Buy:         daiToken(),
		SellAmount:  big.NewInt(1000000),
		SlippageBps: 100,
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if domain.IsLiquidityError(err) {
		t.Errorf("transport failure misclassified as liquidity error: %v", err)
	}
}

func TestBuildRouterDetailVariants(t *testing.T) {
	sellAmount := big.NewInt(1000000)
	minOut := big.NewInt(990000)
	taker := ethcommon.HexToAddress("0x2222222222222222222222222222222222222222")
	path := []ethcommon.Address{probeWETH, daiToken().Address}

	native := nativeToken()
	erc20 := daiToken()

	nativeSell, err := BuildRouterDetail(probeRouter, native, erc20, path, sellAmount, minOut, taker)
	if err != nil {
		t.Fatalf("BuildRouterDetail native sell: %v", err)
	}
	if nativeSell.Value.Cmp(sellAmount) != 0 {
		t.Errorf("native sell Value = %s, want sell amount attached", nativeSell.Value)
	}

	erc20Sell, err := BuildRouterDetail(probeRouter, erc20, native, path, sellAmount, minOut, taker)
	if err != nil {
		t.Fatalf("BuildRouterDetail erc20 sell: %v", err)
	}
	if erc20Sell.Value.Sign() != 0 {
		t.Errorf("erc20 sell Value = %s, want 0", erc20Sell.Value)
	}

	// Different router functions produce different selectors.
	if string(nativeSell.Data[:4]) == string(erc20Sell.Data[:4]) {
		t.Error("native and erc20 sells packed the same router function")
	}
}
