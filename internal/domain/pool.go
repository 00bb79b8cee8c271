package domain

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// PoolState is a point-in-time read of a V2 pair's reserves together with
// the canonical token ordering. Reserves change every block, so a PoolState
// is read fresh per pricing operation and never cached beyond it.
type PoolState struct {
	Pair common.Address

	Token0 common.Address
	Token1 common.Address

	Reserve0 *big.Int
	Reserve1 *big.Int
}

// OrientFor returns the (reserveIn, reserveOut) pair for a swap that sells
// tokenIn. The second return is false when tokenIn is on neither side.
func (p *PoolState) OrientFor(tokenIn common.Address) (reserveIn, reserveOut *big.Int, ok bool) {
	switch tokenIn {
	case p.Token0:
		return p.Reserve0, p.Reserve1, true
	case p.Token1:
		return p.Reserve1, p.Reserve0, true
	default:
		return nil, nil, false
	}
}
