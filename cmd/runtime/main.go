package main

import (
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	container "github.com/thehyperflames/dicontainer-go"

	"github.com/glidewallet/swap-engine/internal/adapters/accounts"
	"github.com/glidewallet/swap-engine/internal/adapters/blockchain"
	"github.com/glidewallet/swap-engine/internal/aggregator"
	"github.com/glidewallet/swap-engine/internal/cache"
	"github.com/glidewallet/swap-engine/internal/common"
	"github.com/glidewallet/swap-engine/internal/config"
	"github.com/glidewallet/swap-engine/internal/executor"
	"github.com/glidewallet/swap-engine/internal/http"
	"github.com/glidewallet/swap-engine/internal/registry"
)

// @title Glide Swap Engine API
// @version 1.0
// @description Swap quotation and atomic execution engine for the Glide wallet backend.
// @description
// @description ## - Features
// @description - **Quote Aggregation**: Primary aggregator backend with on-chain router probe fallback
// @description - **Direct AMM Pricing**: Curated custom-token pairs priced straight from V2 pool reserves
// @description - **Single-Use Quotes**: Each quote is cached for 30 seconds and executable exactly once
// @description - **Atomic Execution**: Approval and swap submitted as one all-or-nothing unit
// @description - **Gasless Swaps**: Fees sponsored through smart executing accounts
// @description
// @description ## - Usage Tips
// @description - Amounts are decimal strings in smallest token units (wei-style)
// @description - Tokens are addressed by symbol or contract address, case-insensitive
// @description - Default slippage is 100 bps (1%); values above the cap are clamped
// @description - Rate limit: 10 requests/second (burst: 20)
//
// @BasePath /
// @schemes https http
// @tag.name tokens
// @tag.description List the supported token set for the active network
// @tag.name quote
// @tag.description Get executable swap quotes with price impact analysis
// @tag.name swap
// @tag.description Execute quoted swaps and track settlement

func main() {
	common.InitRuntime()

	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("no .env file loaded")
	}

	conf := container.NewConf(
		&config.GeneralConfig{},
		&config.ChainConfig{},
		&config.SwapConfig{},
		&config.CacheConfig{},
		&config.BackendsConfig{},
		&config.PersistenceConfig{},
	)

	dic, err := container.New(
		conf,

		&registry.Service{},
		&blockchain.ChainService{},
		&cache.Service{},
		&accounts.Service{},
		&aggregator.Service{},
		&executor.Service{},

		&http.HTTPService{},
	)
	if err != nil {
		log.Error().Err(err).Msg("failed to create di container")
		return
	}

	if err := dic.Run(); err != nil {
		log.Error().Err(err).Msg("failed to run di container")
		return
	}

	log.Info().Msg("Shutting down services...")
	if err := dic.Stop(); err != nil {
		log.Error().Err(err).Msg("error during shutdown")
	}
	log.Info().Msg("Shutdown complete")
}
