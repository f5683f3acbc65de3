package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/garden_shop/gateway/internal/config"
	"github.com/Skotchmaster/garden_shop/gateway/internal/httpserver"
	sharedcfg "github.com/Skotchmaster/garden_shop/pkg/config"
	"github.com/Skotchmaster/garden_shop/pkg/logging"
)

func main() {
	sharedcfg.LoadEnvFile(".env")
	cfg := config.Load()
	log := logging.New(cfg.LogLevel).With("service", "gateway")

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 15 * time.Second
	e.Server.ReadHeaderTimeout = 3 * time.Second

	if err := httpserver.Register(e, &httpserver.Deps{
		CartURL:         cfg.CartURL,
		UpstreamTimeout: cfg.UpstreamTimeout,
		AllowOrigins:    cfg.AllowOrigins,
		Logger:          log,
	}); err != nil {
		log.Error("gateway_init_error", "error", err)
		os.Exit(1)
	}

	go func() {
		log.Info("gateway_starting", "addr", cfg.ListenAddr, "cart_url", cfg.CartURL)
		if err := e.Start(cfg.ListenAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("gateway_start_error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Warn("gateway_shutdown_error", "error", err)
	}
}
