package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	sharedcfg "github.com/Skotchmaster/garden_shop/pkg/config"
	"github.com/Skotchmaster/garden_shop/pkg/db"
	"github.com/Skotchmaster/garden_shop/pkg/events"
	"github.com/Skotchmaster/garden_shop/pkg/logging"
	"github.com/Skotchmaster/garden_shop/services/cart/internal/config"
	"github.com/Skotchmaster/garden_shop/services/cart/internal/httpserver"
	"github.com/Skotchmaster/garden_shop/services/cart/internal/repo"
	"github.com/Skotchmaster/garden_shop/services/cart/internal/service"
)

func main() {
	sharedcfg.LoadEnvFile(".env")
	cfg := config.Load()

	log := logging.New(cfg.LogLevel).With("service", "cart")
	ctx := logging.IntoContext(context.Background(), log)

	initCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	gdb, err := db.Open(initCtx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Error("db_init_error", "error", err)
		os.Exit(1)
	}

	Repo := &repo.GormRepo{DB: gdb}
	if cfg.AutoMigrate {
		if err := Repo.Migrate(ctx); err != nil {
			log.Error("db_migrate_error", "error", err)
			os.Exit(1)
		}
	}
	if cfg.CatalogSeed != "" {
		if _, err := service.SeedCatalog(ctx, Repo, cfg.CatalogSeed); err != nil {
			log.Error("catalog_seed_error", "error", err)
			os.Exit(1)
		}
	}

	publisher := events.New(cfg.KafkaBrokers, cfg.CartTopic)

	cartService := &service.CartService{
		Repo:   Repo,
		Events: publisher,
	}

	e := httpserver.New(&httpserver.Deps{
		CartHandler: &httpserver.CartHTTP{Svc: cartService},
		Logger:      log,
		Ready: func() error {
			sqlDB, err := gdb.DB()
			if err != nil {
				return err
			}
			pingCtx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			return sqlDB.PingContext(pingCtx)
		},
	})
	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 15 * time.Second
	e.Server.ReadHeaderTimeout = 3 * time.Second

	go func() {
		log.Info("server_starting", "port", cfg.Port)
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server_start_error", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Info("server_shutting_down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Warn("server_shutdown_error", "error", err)
	}
	if err := publisher.Close(); err != nil {
		log.Warn("publisher_close_error", "error", err)
	}
	if err := db.Close(gdb); err != nil {
		log.Warn("db_close_error", "error", err)
	}

	log.Info("server_stopped")
}
