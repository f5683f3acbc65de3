package httpserver

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	loggingmw "github.com/Skotchmaster/garden_shop/pkg/middleware/logging"
)

type Deps struct {
	CartHandler *CartHTTP
	Logger      *slog.Logger
	Ready       func() error
}

// New builds the echo instance with the error handler, validator and middleware
// the cart routes expect.
func New(d *Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = ErrorHandler
	e.Validator = NewRequestValidator()

	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(loggingmw.RequestLogger(d.Logger))

	Register(e, d)
	return e
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if d.Ready != nil {
			if err := d.Ready(); err != nil {
				return echo.NewHTTPError(http.StatusServiceUnavailable, "not ready")
			}
		}
		return c.NoContent(http.StatusOK)
	})

	cart := e.Group("/cart")
	cart.PUT("/items/:itemId", d.CartHandler.UpdateItem)
	cart.DELETE("/items/:itemId", d.CartHandler.RemoveItem)
	cart.GET("/:sessionId", d.CartHandler.GetCart)
	cart.POST("/:sessionId/items", d.CartHandler.AddItem)
	cart.DELETE("/:sessionId/items", d.CartHandler.ClearCart)
}
