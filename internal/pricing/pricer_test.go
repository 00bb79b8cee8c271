package pricing

import (
	"context"
	"errors"
	"math/big"
	"testing"

	ethcommon "github.com/ethereum/go-ethereum/common"

	"github.com/glidewallet/swap-engine/internal/domain"
)

var (
	testWETH = ethcommon.HexToAddress("0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2")
	testGLDR = ethcommon.HexToAddress("0x91aC5a1f3488Ce64a3866bb56a7E0Be93E0e2a5c")
	testPair = ethcommon.HexToAddress("0x1111111111111111111111111111111111111111")
)

type fakeReader struct {
	pair      ethcommon.Address
	pairErr   error
	state     *domain.PoolState
	stateErr  error
	simOut    *big.Int
	simErr    error
	simCalled bool
}

func (f *fakeReader) PairFor(_ context.Context, _, _ ethcommon.Address) (ethcommon.Address, error) {
	return f.pair, f.pairErr
}

func (f *fakeReader) PoolState(_ context.Context, _ ethcommon.Address) (*domain.PoolState, error) {
	return f.state, f.stateErr
}

func (f *fakeReader) AmountsOut(_ context.Context, amountIn *big.Int, path []ethcommon.Address) ([]*big.Int, error) {
	f.simCalled = true
	if f.simErr != nil {
		return nil, f.simErr
	}
	return []*big.Int{amountIn, f.simOut}, nil
}

func gldrToken() domain.Token {
	return domain.Token{Symbol: "GLDR", Address: testGLDR, Decimals: 18}
}

func wethToken() domain.Token {
	return domain.Token{Symbol: "WETH", Address: testWETH, Decimals: 18}
}

func ethToken() domain.Token {
	return domain.Token{Symbol: "ETH", Address: domain.NativeTokenAddress, Decimals: 18, Native: true}
}

func poolState(reserveGLDR, reserveWETH int64) *domain.PoolState {
	// GLDR sorts below WETH, so it is token0 in the fixture.
	return &domain.PoolState{
		Pair:     testPair,
		Token0:   testGLDR,
		Token1:   testWETH,
		Reserve0: big.NewInt(reserveGLDR),
		Reserve1: big.NewInt(reserveWETH),
	}
}

func TestDirectPricerHappyPath(t *testing.T) {
	reader := &fakeReader{
		pair:   testPair,
		state:  poolState(1000000, 2000000),
		simOut: big.NewInt(19743),
	}
	pricer := NewDirectPricer(reader, testWETH, 1000)

	res, err := pricer.Price(context.Background(), gldrToken(), wethToken(), big.NewInt(10000), 100)
	if err != nil {
		t.Fatalf("Price: %v", err)
	}

	if res.AmountOut.String() != "19743" {
		t.Errorf("AmountOut = %s, want 19743", res.AmountOut)
	}
	if res.MinAmountOut.String() != "19545" {
		t.Errorf("MinAmountOut = %s, want 19545", res.MinAmountOut)
	}
	if res.ImpactBps != 100 {
		t.Errorf("ImpactBps = %d, want 100", res.ImpactBps)
	}
	if res.Pair != testPair {
		t.Errorf("Pair = %s, want %s", res.Pair, testPair)
	}
	if len(res.Path) != 2 || res.Path[0] != testGLDR || res.Path[1] != testWETH {
		t.Errorf("unexpected path %v", res.Path)
	}
	if !reader.simCalled {
		t.Error("router simulation was not consulted")
	}
}

func TestDirectPricerNativeLegUsesWETH(t *testing.T) {
	reader := &fakeReader{
		pair:   testPair,
		state:  poolState(1000000, 2000000),
		simOut: big.NewInt(4960),
	}
	pricer := NewDirectPricer(reader, testWETH, 1000)

	// Selling native ETH routes through the wrapped token's pool.
	res, err := pricer.Price(context.Background(), ethToken(), gldrToken(), big.NewInt(10000), 100)
	if err != nil {
		t.Fatalf("Price: %v", err)
	}
	if res.Path[0] != testWETH {
		t.Errorf("sell leg = %s, want WETH %s", res.Path[0], testWETH)
	}
	if res.Path[1] != testGLDR {
		t.Errorf("buy leg = %s, want GLDR %s", res.Path[1], testGLDR)
	}
}

func TestDirectPricerDustFloor(t *testing.T) {
	pricer := NewDirectPricer(&fakeReader{}, testWETH, 1000)

	_, err := pricer.Price(context.Background(), gldrToken(), wethToken(), big.NewInt(999), 100)
	if !errors.Is(err, domain.ErrAmountTooSmall) {
		t.Errorf("got %v, want ErrAmountTooSmall", err)
	}
}

func TestDirectPricerNoPair(t *testing.T) {
	reader := &fakeReader{pair: ethcommon.Address{}}
	pricer := NewDirectPricer(reader, testWETH, 1000)

	_, err := pricer.Price(context.Background(), gldrToken(), wethToken(), big.NewInt(10000), 100)
	if !errors.Is(err, domain.ErrNoLiquidity) {
		t.Errorf("got %v, want ErrNoLiquidity", err)
	}
}

func TestDirectPricerDrainedPool(t *testing.T) {
	reader := &fakeReader{pair: testPair, state: poolState(0, 0)}
	pricer := NewDirectPricer(reader, testWETH, 1000)

	_, err := pricer.Price(context.Background(), gldrToken(), wethToken(), big.NewInt(10000), 100)
	if !errors.Is(err, domain.ErrNoLiquidity) {
		t.Errorf("got %v, want ErrNoLiquidity", err)
	}
}

func TestDirectPricerRouterDisagrees(t *testing.T) {
	reader := &fakeReader{
		pair:  testPair,
		state: poolState(1000000, 2000000),
		// Well below computed 19743 minus the rounding tolerance.
		simOut: big.NewInt(15000),
	}
	pricer := NewDirectPricer(reader, testWETH, 1000)

	_, err := pricer.Price(context.Background(), gldrToken(), wethToken(), big.NewInt(10000), 100)
	if !errors.Is(err, domain.ErrPathInvalid) {
		t.Errorf("got %v, want ErrPathInvalid", err)
	}
}

func TestDirectPricerRouterWithinTolerance(t *testing.T) {
	reader := &fakeReader{
		pair:  testPair,
		state: poolState(1000000, 2000000),
		// 19743 * 9990 / 10000 = 19723 is the acceptance floor.
		simOut: big.NewInt(19723),
	}
	pricer := NewDirectPricer(reader, testWETH, 1000)

	if _, err := pricer.Price(context.Background(), gldrToken(), wethToken(), big.NewInt(10000), 100); err != nil {
		t.Errorf("quote within tolerance rejected: %v", err)
	}
}

func TestDirectPricerRouterReverts(t *testing.T) {
	reader := &fakeReader{
		pair:   testPair,
		state:  poolState(1000000, 2000000),
		simErr: errors.New("execution reverted"),
	}
	pricer := NewDirectPricer(reader, testWETH, 1000)

	_, err := pricer.Price(context.Background(), gldrToken(), wethToken(), big.NewInt(10000), 100)
	if !errors.Is(err, domain.ErrPathInvalid) {
		t.Errorf("got %v, want ErrPathInvalid", err)
	}
}
