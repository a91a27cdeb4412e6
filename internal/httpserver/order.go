package httpserver

import (
	"net/http"

	"github.com/Skotchmaster/marketplace/internal/logging"
	authmw "github.com/Skotchmaster/marketplace/internal/middleware/auth"
	"github.com/Skotchmaster/marketplace/internal/service"
	"github.com/Skotchmaster/marketplace/internal/transport"
	"github.com/labstack/echo/v4"
)

type OrderHTTP struct {
	Svc *service.OrderService
}

func (h *OrderHTTP) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.create")

	var req service.CreateOrderInput
	if err := bindBody(c, l, "create_order_failed", &req); err != nil {
		return err
	}

	orders, err := h.Svc.Create(ctx, authmw.UserID(c), req)
	if err != nil {
		return fail(l, "create_order_failed", err)
	}

	l.Info("create_order_success", "orders", len(orders))
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "orders": orders})
}

func (h *OrderHTTP) GetUserOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.get_user_orders")

	orders, err := h.Svc.ListForUser(ctx, authmw.UserID(c), authmw.IsAdmin(c), c.Param("userId"))
	if err != nil {
		return fail(l, "get_orders_failed", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "orders": orders})
}

func (h *OrderHTTP) GetSellerOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.get_seller_orders")

	orders, err := h.Svc.ListForShop(ctx, authmw.ShopID(c), c.Param("shopId"))
	if err != nil {
		return fail(l, "get_orders_failed", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "orders": orders})
}

func (h *OrderHTTP) UpdateOrderStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.update_status")

	var req transport.UpdateStatusRequest
	if err := bindBody(c, l, "update_status_failed", &req); err != nil {
		return err
	}

	order, err := h.Svc.UpdateStatus(ctx, authmw.ShopID(c), c.Param("id"), req.Status)
	if err != nil {
		return fail(l, "update_status_failed", err)
	}

	l.Info("update_status_success", "order_id", order.ID.Hex(), "status", order.Status)
	return c.JSON(http.StatusOK, echo.Map{"success": true, "order": order})
}

func (h *OrderHTTP) GetAllOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.get_all")

	orders, err := h.Svc.ListAll(ctx)
	if err != nil {
		return fail(l, "get_orders_failed", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "orders": orders})
}
