package config

import (
	"errors"

	"github.com/glidewallet/swap-engine/internal/common"
)

type ServerEnv = string

var (
	DevEnv     ServerEnv = "dev"
	StagingEnv ServerEnv = "staging"
	ProdEnv    ServerEnv = "prod"
)

const (
	GENERAL_CONFIG_KEY     = "general-config"
	CHAIN_CONFIG_KEY       = "chain-config"
	SWAP_CONFIG_KEY        = "swap-config"
	CACHE_CONFIG_KEY       = "cache-config"
	BACKENDS_CONFIG_KEY    = "backends-config"
	PERSISTENCE_CONFIG_KEY = "persistence-config"
)

type GeneralConfig struct {
	HTTPPort string
	HTTPHost string
	Env      string
	LogLevel string
}

func (gc *GeneralConfig) Key() string {
	return GENERAL_CONFIG_KEY
}

func (gc *GeneralConfig) Load() error {
	gc.HTTPPort = common.GetEnvOrDefault("HTTP_PORT", "8080")
	gc.HTTPHost = common.GetEnvOrDefault("HTTP_HOST", "localhost")
	gc.Env = common.GetEnvOrDefault("ENV", "dev")
	gc.LogLevel = common.GetEnvOrDefault("LOG_LEVEL", "INFO")
	common.SetGlobalLevel(gc.LogLevel)
	return gc.Validate()
}

func (gc *GeneralConfig) Validate() error {
	if gc.HTTPPort == "" || gc.HTTPHost == "" || gc.Env == "" {
		return errors.New("invalid server config")
	}
	return nil
}
