package httpserver

import (
	"net/http"

	"github.com/Skotchmaster/marketplace/internal/logging"
	authmw "github.com/Skotchmaster/marketplace/internal/middleware/auth"
	"github.com/Skotchmaster/marketplace/internal/service"
	"github.com/labstack/echo/v4"
)

type ShopHTTP struct {
	Svc *service.ShopService
}

func (h *ShopHTTP) CreateShop(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "shop.create")

	var req service.CreateShopInput
	if err := bindBody(c, l, "create_shop_failed", &req); err != nil {
		return err
	}

	shop, err := h.Svc.Create(ctx, authmw.UserID(c), req)
	if err != nil {
		return fail(l, "create_shop_failed", err)
	}

	l.Info("create_shop_success", "shop_id", shop.ID.Hex())
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "shop": shop})
}

func (h *ShopHTTP) GetShopInfo(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "shop.get_info")

	shop, err := h.Svc.Get(ctx, c.Param("id"))
	if err != nil {
		return fail(l, "get_shop_failed", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "shop": shop})
}
