package config

import (
	"github.com/glidewallet/swap-engine/internal/common"
)

type PersistenceConfig struct {
	// DBPath is the path to the BoltDB file for the transaction log.
	// Default: "./data/swaplog.db"
	DBPath string

	// Enabled controls whether submitted swaps are recorded to disk. The
	// log is informational; writes are best-effort and never fail a swap.
	Enabled bool
}

func (c *PersistenceConfig) Key() string {
	return PERSISTENCE_CONFIG_KEY
}

func (c *PersistenceConfig) Load() error {
	c.DBPath = common.GetEnvOrDefault("SWAPLOG_DB_PATH", "./data/swaplog.db")
	c.Enabled = common.GetEnvOrDefaultBool("SWAPLOG_ENABLED", true)
	return nil
}

func (c *PersistenceConfig) Validate() error {
	return nil
}
