package config

import (
	"os"
	"strconv"

	sharedcfg "github.com/Skotchmaster/garden_shop/pkg/config"
)

type Config struct {
	Port        string
	LogLevel    string
	DatabaseURL string
	AutoMigrate bool
	CatalogSeed string

	KafkaBrokers []string
	CartTopic    string
}

func Load() *Config {
	base := sharedcfg.Load()
	sharedcfg.MustNonEmpty(base.DatabaseURL, "DATABASE_URL")

	return &Config{
		Port:        strconv.Itoa(base.ServerPort),
		LogLevel:    base.LogLevel,
		DatabaseURL: base.DatabaseURL,
		AutoMigrate: sharedcfg.EnvDefault("DB_AUTO_MIGRATE", "true") == "true",
		CatalogSeed: os.Getenv("CATALOG_SEED"),

		KafkaBrokers: base.KafkaBrokers,
		CartTopic:    base.CartTopic,
	}
}
