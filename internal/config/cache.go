package config

import (
	"github.com/glidewallet/swap-engine/internal/common"
)

type CacheConfig struct {
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// SweepIntervalSeconds is how often the in-process fallback store
	// removes expired entries. The shared store expires natively.
	SweepIntervalSeconds int
}

func (c *CacheConfig) Key() string {
	return CACHE_CONFIG_KEY
}

func (c *CacheConfig) Load() error {
	c.RedisAddr = common.GetEnvOrDefault("REDIS_ADDR", "localhost:6379")
	c.RedisPassword = common.GetEnvOrDefault("REDIS_PASSWORD", "")
	c.RedisDB = common.GetEnvOrDefaultInt("REDIS_DB", 0)
	c.SweepIntervalSeconds = common.GetEnvOrDefaultInt("CACHE_SWEEP_INTERVAL", 10)
	return nil
}

func (c *CacheConfig) Validate() error {
	return nil
}
