package httpserver

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	loggingmw "github.com/Skotchmaster/garden_shop/pkg/middleware/logging"
)

type Deps struct {
	CartURL         string
	UpstreamTimeout time.Duration
	AllowOrigins    []string
	Logger          *slog.Logger
}

// Register mounts the storefront API: /api/cart/... is served by the cart service.
func Register(e *echo.Echo, d *Deps) error {
	e.HTTPErrorHandler = errorHandler

	e.Use(middleware.Recover())
	e.Use(loggingmw.RequestLogger(d.Logger))
	e.Use(middleware.Secure())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: d.AllowOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
	}))

	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	cartProxy, err := newProxy(d.CartURL, "/api", "cart", d.UpstreamTimeout)
	if err != nil {
		return err
	}

	api := e.Group("/api")
	api.Any("/cart/*", cartProxy)

	return nil
}

func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	code := http.StatusInternalServerError
	msg := "internal server error"
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if m, ok := he.Message.(string); ok {
			msg = m
		}
	}
	_ = c.JSON(code, map[string]string{"error": msg})
}
