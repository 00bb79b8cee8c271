package config

import (
	"errors"
	"os"
	"strconv"

	"github.com/ethereum/go-ethereum/common"

	commonutil "github.com/glidewallet/swap-engine/internal/common"
)

// Network selects which static token and contract table is active.
// Mainnet and testnet sets are disjoint and never mixed.
type Network = string

var (
	MainnetNetwork Network = "mainnet"
	TestnetNetwork Network = "testnet"
)

type ChainConfig struct {
	RPCUrl  string
	ChainID uint64
	Network Network

	// Canonical V2 contracts for the active network. Used by the router
	// probe backend and the direct AMM pricer.
	RouterAddress  common.Address
	FactoryAddress common.Address
	WETHAddress    common.Address
}

func (c *ChainConfig) Key() string {
	return CHAIN_CONFIG_KEY
}

func (c *ChainConfig) Load() error {
	c.RPCUrl = os.Getenv("RPC_URL")
	c.Network = commonutil.GetEnvOrDefault("NETWORK", TestnetNetwork)

	chainID, err := strconv.ParseUint(commonutil.GetEnvOrDefault("CHAIN_ID", defaultChainID(c.Network)), 10, 64)
	if err != nil {
		return errors.New("invalid CHAIN_ID")
	}
	c.ChainID = chainID

	c.RouterAddress = common.HexToAddress(commonutil.GetEnvOrDefault("V2_ROUTER_ADDRESS", defaultRouter(c.Network)))
	c.FactoryAddress = common.HexToAddress(commonutil.GetEnvOrDefault("V2_FACTORY_ADDRESS", defaultFactory(c.Network)))
	c.WETHAddress = common.HexToAddress(commonutil.GetEnvOrDefault("WETH_ADDRESS", defaultWETH(c.Network)))

	return c.Validate()
}

func (c *ChainConfig) Validate() error {
	if c.RPCUrl == "" {
		return errors.New("RPC_URL is required")
	}
	if c.Network != MainnetNetwork && c.Network != TestnetNetwork {
		return errors.New("NETWORK must be mainnet or testnet")
	}
	zero := common.Address{}
	if c.RouterAddress == zero || c.FactoryAddress == zero || c.WETHAddress == zero {
		return errors.New("router/factory/WETH addresses must be set")
	}
	return nil
}

func defaultChainID(network Network) string {
	if network == MainnetNetwork {
		return "1"
	}
	return "11155111"
}

func defaultRouter(network Network) string {
	if network == MainnetNetwork {
		return "0x7a250d5630B4cF539739dF2C5dAcb4c659F2488D"
	}
	return "0xC532a74256D3Db42D0Bf7a0400fEFDbad7694008"
}

func defaultFactory(network Network) string {
	if network == MainnetNetwork {
		return "0x5C69bEe701ef814a2B6a3EDD4B1652CB9cc5aA6f"
	}
	return "0x7E0987E5b3a30e3f2828572Bb659A548460a3003"
}

func defaultWETH(network Network) string {
	if network == MainnetNetwork {
		return "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2"
	}
	return "0xfFf9976782d46CC05630D1f6eBAb18b2324d6B14"
}
