// Package pricing computes swap output directly from V2 pool reserves for
// pairs too new or thin for aggregator backends to discover.
package pricing

import (
	"fmt"
	"math/big"

	"github.com/holiman/uint256"

	"github.com/glidewallet/swap-engine/internal/common"
	"github.com/glidewallet/swap-engine/internal/domain"
)

// Constant-product fee encoding: 997/1000 is the canonical 0.3% V2 fee.
const (
	FeeNumerator   = 997
	FeeDenominator = 1000
)

// GetAmountOut applies the constant-product formula with the fixed
// proportional fee:
//
//	out = reserveOut * amountIn*997 / (reserveIn*1000 + amountIn*997)
//
// Inputs take the uint256 fast path when they cannot overflow it; oversized
// amounts fall back to big.Int.
func GetAmountOut(amountIn, reserveIn, reserveOut *big.Int) (*big.Int, error) {
	if amountIn == nil || amountIn.Sign() <= 0 {
		return nil, fmt.Errorf("%w: non-positive input", domain.ErrAmountTooSmall)
	}
	if reserveIn == nil || reserveOut == nil || reserveIn.Sign() <= 0 || reserveOut.Sign() <= 0 {
		return nil, fmt.Errorf("%w: empty reserves", domain.ErrNoLiquidity)
	}

	// Reserves are uint112 on-chain; the fast path only needs the input
	// amount to leave room for reserveOut * amountIn * 997.
	if amountIn.BitLen()+reserveOut.BitLen()+10 < 256 {
		return getAmountOutU256(amountIn, reserveIn, reserveOut), nil
	}
	return getAmountOutBig(amountIn, reserveIn, reserveOut), nil
}

func getAmountOutU256(amountIn, reserveIn, reserveOut *big.Int) *big.Int {
	in, _ := uint256.FromBig(amountIn)
	rin, _ := uint256.FromBig(reserveIn)
	rout, _ := uint256.FromBig(reserveOut)

	feeNum := uint256.NewInt(FeeNumerator)
	feeDen := uint256.NewInt(FeeDenominator)

	num := new(uint256.Int).Mul(in, feeNum)
	den := new(uint256.Int).Mul(rin, feeDen)
	den.Add(den, num)
	num.Mul(num, rout)
	num.Div(num, den)

	return num.ToBig()
}

func getAmountOutBig(amountIn, reserveIn, reserveOut *big.Int) *big.Int {
	num := new(big.Int).Mul(amountIn, big.NewInt(FeeNumerator))
	den := new(big.Int).Mul(reserveIn, big.NewInt(FeeDenominator))
	den.Add(den, num)
	num.Mul(num, reserveOut)
	return num.Div(num, den)
}

// MinOutAfterSlippage derives the minimum acceptable output from the quoted
// output and a slippage tolerance in basis points.
func MinOutAfterSlippage(out *big.Int, slippageBps uint16) *big.Int {
	min := new(big.Int).Mul(out, big.NewInt(int64(common.BpsDenominator-int(slippageBps))))
	return min.Div(min, big.NewInt(common.BpsDenominator))
}

// PriceImpactBps expresses input ÷ input-side reserve in basis points,
// capped at 10000 (100%). A zero reserve is maximal impact.
func PriceImpactBps(amountIn, reserveIn *big.Int) uint16 {
	if reserveIn == nil || reserveIn.Sign() <= 0 {
		return common.BpsDenominator
	}
	if amountIn == nil || amountIn.Sign() <= 0 {
		return 0
	}

	impact := new(big.Int).Mul(amountIn, big.NewInt(common.BpsDenominator))
	impact.Div(impact, reserveIn)
	if !impact.IsUint64() || impact.Uint64() > common.BpsDenominator {
		return common.BpsDenominator
	}
	return uint16(impact.Uint64())
}

// FormatImpactPct renders basis points as a percentage with two decimal
// places, e.g. 31 -> "0.31".
func FormatImpactPct(bps uint16) string {
	return fmt.Sprintf("%d.%02d", bps/100, bps%100)
}

// SpotPrice formats buy units per sell unit adjusted for token decimals.
func SpotPrice(sellAmount, buyAmount *big.Int, sellDecimals, buyDecimals uint8) string {
	if sellAmount == nil || sellAmount.Sign() == 0 || buyAmount == nil {
		return "0"
	}

	price := new(big.Float).SetInt(buyAmount)
	price.Quo(price, new(big.Float).SetInt(sellAmount))

	// Rescale by the decimals difference so the price is in whole-token
	// terms on both sides.
	shift := int(sellDecimals) - int(buyDecimals)
	if shift != 0 {
		scale := new(big.Float).SetInt(pow10(abs(shift)))
		if shift > 0 {
			price.Mul(price, scale)
		} else {
			price.Quo(price, scale)
		}
	}
	return price.Text('g', 12)
}

func pow10(n int) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n)), nil)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
