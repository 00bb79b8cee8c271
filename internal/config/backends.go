package config

import (
	"errors"
	"os"

	"github.com/glidewallet/swap-engine/internal/common"
)

type BackendsConfig struct {
	// ZeroEx aggregator API.
	ZeroExBaseURL string
	ZeroExAPIKey  string

	// AccountExecutorURL is the account-abstraction executor collaborator.
	AccountExecutorURL string

	// HTTPTimeoutSeconds bounds every outbound backend call.
	HTTPTimeoutSeconds int
}

func (c *BackendsConfig) Key() string {
	return BACKENDS_CONFIG_KEY
}

func (c *BackendsConfig) Load() error {
	c.ZeroExBaseURL = common.GetEnvOrDefault("ZEROEX_BASE_URL", "https://api.0x.org")
	c.ZeroExAPIKey = os.Getenv("ZEROEX_API_KEY")
	c.AccountExecutorURL = os.Getenv("ACCOUNT_EXECUTOR_URL")
	c.HTTPTimeoutSeconds = common.GetEnvOrDefaultInt("BACKEND_HTTP_TIMEOUT", 10)
	return c.Validate()
}

func (c *BackendsConfig) Validate() error {
	if c.ZeroExBaseURL == "" {
		return errors.New("ZEROEX_BASE_URL is required")
	}
	if c.AccountExecutorURL == "" {
		return errors.New("ACCOUNT_EXECUTOR_URL is required")
	}
	return nil
}
