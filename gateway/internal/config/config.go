package config

import (
	"time"

	sharedcfg "github.com/Skotchmaster/garden_shop/pkg/config"
)

type Config struct {
	ListenAddr      string
	LogLevel        string
	CartURL         string
	UpstreamTimeout time.Duration
	AllowOrigins    []string
}

func Load() *Config {
	cfg := &Config{
		ListenAddr:      sharedcfg.EnvDefault("GATEWAY_ADDR", ":8000"),
		LogLevel:        sharedcfg.EnvDefault("LOG_LEVEL", "info"),
		CartURL:         sharedcfg.EnvDefault("CART_URL", ""),
		UpstreamTimeout: sharedcfg.EnvDurationDefault("UPSTREAM_TIMEOUT", 10*time.Second),
		AllowOrigins:    sharedcfg.CSV(sharedcfg.EnvDefault("CORS_ALLOW_ORIGINS", "*")),
	}
	sharedcfg.MustURL(cfg.CartURL, "CART_URL")
	return cfg
}
