// Package blockchain provides read-only queries against the configured
// network endpoint: pair reserves, token ordering, factory pair lookup and
// the router's own output simulation.
package blockchain

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/rs/zerolog/log"
	container "github.com/thehyperflames/dicontainer-go"

	"github.com/glidewallet/swap-engine/internal/config"
	"github.com/glidewallet/swap-engine/internal/domain"
)

const CHAIN_SERVICE = "chain-service"

// Reader is the read-only on-chain surface the pricing layer depends on.
type Reader interface {
	// PairFor returns the pool address for a token pair, or the zero
	// address when the factory has no pair registered.
	PairFor(ctx context.Context, tokenA, tokenB common.Address) (common.Address, error)

	// PoolState reads reserves and token ordering in one pass. Never
	// cached: reserves change every block.
	PoolState(ctx context.Context, pair common.Address) (*domain.PoolState, error)

	// AmountsOut asks the router to simulate a swap along path. This is
	// the ground truth for whether the router can actually route it.
	AmountsOut(ctx context.Context, amountIn *big.Int, path []common.Address) ([]*big.Int, error)
}

type ChainService struct {
	container.BaseDIInstance

	client *ethclient.Client
	conf   *config.ChainConfig
}

func (svc *ChainService) ID() string {
	return CHAIN_SERVICE
}

func (svc *ChainService) Configure(c container.IContainer) error {
	svc.conf = c.GetConfig(config.CHAIN_CONFIG_KEY).(*config.ChainConfig)

	client, err := ethclient.Dial(svc.conf.RPCUrl)
	if err != nil {
		return fmt.Errorf("failed to dial rpc endpoint: %w", err)
	}
	svc.client = client
	return nil
}

func (svc *ChainService) Start() error {
	log.Info().
		Str("network", svc.conf.Network).
		Uint64("chainId", svc.conf.ChainID).
		Msg("[chainService] connected to rpc endpoint")
	return nil
}

func (svc *ChainService) Stop() error {
	if svc.client != nil {
		svc.client.Close()
	}
	return nil
}

func (svc *ChainService) call(ctx context.Context, to common.Address, data []byte) ([]byte, error) {
	return svc.client.CallContract(ctx, ethereum.CallMsg{To: &to, Data: data}, nil)
}

func (svc *ChainService) PairFor(ctx context.Context, tokenA, tokenB common.Address) (common.Address, error) {
	data, err := FactoryABI.Pack("getPair", tokenA, tokenB)
	if err != nil {
		return common.Address{}, err
	}

	res, err := svc.call(ctx, svc.conf.FactoryAddress, data)
	if err != nil {
		return common.Address{}, fmt.Errorf("factory getPair call failed: %w", err)
	}

	out, err := FactoryABI.Unpack("getPair", res)
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to decode getPair result: %w", err)
	}
	return out[0].(common.Address), nil
}

func (svc *ChainService) PoolState(ctx context.Context, pair common.Address) (*domain.PoolState, error) {
	state := &domain.PoolState{Pair: pair}

	// Three independent view calls; issue them concurrently and join.
	var wg sync.WaitGroup
	errs := make([]error, 3)

	wg.Add(3)
	go func() {
		defer wg.Done()
		state.Token0, errs[0] = svc.pairToken(ctx, pair, "token0")
	}()
	go func() {
		defer wg.Done()
		state.Token1, errs[1] = svc.pairToken(ctx, pair, "token1")
	}()
	go func() {
		defer wg.Done()
		state.Reserve0, state.Reserve1, errs[2] = svc.reserves(ctx, pair)
	}()
	wg.Wait()

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return state, nil
}

func (svc *ChainService) pairToken(ctx context.Context, pair common.Address, method string) (common.Address, error) {
	data, err := PairABI.Pack(method)
	if err != nil {
		return common.Address{}, err
	}
	res, err := svc.call(ctx, pair, data)
	if err != nil {
		return common.Address{}, fmt.Errorf("pair %s call failed: %w", method, err)
	}
	out, err := PairABI.Unpack(method, res)
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to decode %s result: %w", method, err)
	}
	return out[0].(common.Address), nil
}

func (svc *ChainService) reserves(ctx context.Context, pair common.Address) (*big.Int, *big.Int, error) {
	data, err := PairABI.Pack("getReserves")
	if err != nil {
		return nil, nil, err
	}
	res, err := svc.call(ctx, pair, data)
	if err != nil {
		return nil, nil, fmt.Errorf("pair getReserves call failed: %w", err)
	}
	out, err := PairABI.Unpack("getReserves", res)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decode getReserves result: %w", err)
	}
	return out[0].(*big.Int), out[1].(*big.Int), nil
}

func (svc *ChainService) AmountsOut(ctx context.Context, amountIn *big.Int, path []common.Address) ([]*big.Int, error) {
	data, err := RouterABI.Pack("getAmountsOut", amountIn, path)
	if err != nil {
		return nil, err
	}
	res, err := svc.call(ctx, svc.conf.RouterAddress, data)
	if err != nil {
		return nil, fmt.Errorf("router getAmountsOut call failed: %w", err)
	}
	out, err := RouterABI.Unpack("getAmountsOut", res)
	if err != nil {
		return nil, fmt.Errorf("failed to decode getAmountsOut result: %w", err)
	}
	return out[0].([]*big.Int), nil
}

// Router returns the configured router address.
func (svc *ChainService) Router() common.Address {
	return svc.conf.RouterAddress
}

// WETH returns the configured wrapped-native token address.
func (svc *ChainService) WETH() common.Address {
	return svc.conf.WETHAddress
}
