package backends

import (
	"math/big"
	"time"

	ethcommon "github.com/ethereum/go-ethereum/common"

	"github.com/glidewallet/swap-engine/internal/adapters/blockchain"
	"github.com/glidewallet/swap-engine/internal/common"
	"github.com/glidewallet/swap-engine/internal/domain"
)

// BuildRouterDetail assembles the router transaction plan for a quoted path.
// The variant is chosen by which side of the trade is the native asset; the
// deadline is a fixed window from now.
func BuildRouterDetail(router ethcommon.Address, sell, buy domain.Token, path []ethcommon.Address, sellAmount, minOut *big.Int, recipient ethcommon.Address) (*domain.ExecutableDetail, error) {
	deadline := big.NewInt(time.Now().Unix() + common.SwapDeadlineSeconds)

	var (
		data  []byte
		value = big.NewInt(0)
		err   error
	)
	switch {
	case sell.IsNative():
		data, err = blockchain.RouterABI.Pack("swapExactETHForTokens", minOut, path, recipient, deadline)
		value = new(big.Int).Set(sellAmount)
	case buy.IsNative():
		data, err = blockchain.RouterABI.Pack("swapExactTokensForETH", sellAmount, minOut, path, recipient, deadline)
	default:
		data, err = blockchain.RouterABI.Pack("swapExactTokensForTokens", sellAmount, minOut, path, recipient, deadline)
	}
	if err != nil {
		return nil, err
	}

	return &domain.ExecutableDetail{
		To:              router,
		Data:            data,
		Value:           value,
		AllowanceTarget: router,
	}, nil
}
