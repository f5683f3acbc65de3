package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/garden_shop/pkg/logging"
	"github.com/Skotchmaster/garden_shop/services/cart/internal/service"
	"github.com/Skotchmaster/garden_shop/services/cart/internal/transport"
)

type CartHTTP struct {
	Svc *service.CartService
}

func (h *CartHTTP) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "get.cart")

	cart, items, err := h.Svc.GetCart(ctx, c.Param("sessionId"))
	if err != nil {
		l.Warn("get_cart_error", "error", err)
		return err
	}

	l.Debug("get_cart_success", "items", len(items))
	return c.JSON(http.StatusOK, transport.ToCartResponse(*cart, items))
}

func (h *CartHTTP) AddItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "add.item")

	var req transport.AddItemRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("add_item_error", "status", http.StatusBadRequest, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		l.Warn("add_item_error", "status", http.StatusBadRequest, "error", err)
		return err
	}

	item, err := h.Svc.AddItem(ctx, c.Param("sessionId"), req.ProductID, req.Quantity)
	if err != nil {
		l.Warn("add_item_error", "product_id", req.ProductID, "error", err)
		return err
	}

	l.Info("add_item_success", "item_id", item.ID, "quantity", item.Quantity)
	return c.JSON(http.StatusOK, transport.ToLineItem(*item))
}

func (h *CartHTTP) UpdateItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "update.item")

	var req transport.UpdateItemRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_item_error", "status", http.StatusBadRequest, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		l.Warn("update_item_error", "status", http.StatusBadRequest, "error", err)
		return err
	}

	item, err := h.Svc.UpdateItem(ctx, c.Param("itemId"), req.Quantity)
	if err != nil {
		l.Warn("update_item_error", "item_id", c.Param("itemId"), "error", err)
		return err
	}

	l.Info("update_item_success", "item_id", item.ID, "quantity", item.Quantity)
	return c.JSON(http.StatusOK, transport.ToLineItem(*item))
}

func (h *CartHTTP) RemoveItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "remove.item")

	if err := h.Svc.RemoveItem(ctx, c.Param("itemId")); err != nil {
		l.Warn("remove_item_error", "item_id", c.Param("itemId"), "error", err)
		return err
	}

	l.Info("remove_item_success", "item_id", c.Param("itemId"))
	return c.NoContent(http.StatusNoContent)
}

func (h *CartHTTP) ClearCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "clear.cart")

	n, err := h.Svc.ClearCart(ctx, c.Param("sessionId"))
	if err != nil {
		l.Warn("clear_cart_error", "error", err)
		return err
	}

	l.Info("clear_cart_success", "removed", n)
	return c.NoContent(http.StatusNoContent)
}
