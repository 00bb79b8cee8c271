package config

import (
	"errors"
	"strings"

	"github.com/glidewallet/swap-engine/internal/common"
)

type SwapConfig struct {
	// QuoteTTLSeconds is the quote validity window. A quote can be
	// executed until this window lapses, then never again.
	QuoteTTLSeconds int

	// DefaultSlippageBps applies when the caller omits slippage.
	DefaultSlippageBps uint16

	// MaxSlippageBps caps caller-supplied slippage.
	MaxSlippageBps uint16

	// MinSellAmount is the direct-pricer dust floor in smallest units.
	MinSellAmount uint64

	// DirectPairs lists pairs routed exclusively through the direct AMM
	// pricer, as "SYMA/SYMB" entries. These are custom tokens whose pools
	// aggregator backends cannot discover.
	DirectPairs []string
}

func (c *SwapConfig) Key() string {
	return SWAP_CONFIG_KEY
}

func (c *SwapConfig) Load() error {
	c.QuoteTTLSeconds = common.GetEnvOrDefaultInt("QUOTE_TTL_SECONDS", 30)
	c.DefaultSlippageBps = uint16(common.GetEnvOrDefaultInt("DEFAULT_SLIPPAGE_BPS", 100))
	c.MaxSlippageBps = uint16(common.GetEnvOrDefaultInt("MAX_SLIPPAGE_BPS", 1000))
	c.MinSellAmount = uint64(common.GetEnvOrDefaultInt("MIN_SELL_AMOUNT", 1000))

	c.DirectPairs = nil
	for _, p := range strings.Split(common.GetEnvOrDefault("DIRECT_AMM_PAIRS", "GLDR/WETH"), ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			c.DirectPairs = append(c.DirectPairs, strings.ToUpper(p))
		}
	}
	return c.Validate()
}

func (c *SwapConfig) Validate() error {
	if c.QuoteTTLSeconds <= 0 {
		return errors.New("QUOTE_TTL_SECONDS must be positive")
	}
	if c.DefaultSlippageBps == 0 || c.DefaultSlippageBps > c.MaxSlippageBps {
		return errors.New("DEFAULT_SLIPPAGE_BPS must be in (0, MAX_SLIPPAGE_BPS]")
	}
	if c.MaxSlippageBps >= 10000 {
		return errors.New("MAX_SLIPPAGE_BPS must be below 10000")
	}
	return nil
}
