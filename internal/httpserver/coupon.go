package httpserver

import (
	"net/http"

	"github.com/Skotchmaster/marketplace/internal/logging"
	authmw "github.com/Skotchmaster/marketplace/internal/middleware/auth"
	"github.com/Skotchmaster/marketplace/internal/service"
	"github.com/labstack/echo/v4"
)

type CouponHTTP struct {
	Svc *service.CouponService
}

func (h *CouponHTTP) CreateCoupon(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "coupon.create")

	var req service.CreateCouponInput
	if err := bindBody(c, l, "create_coupon_failed", &req); err != nil {
		return err
	}

	coupon, err := h.Svc.Create(ctx, authmw.ShopID(c), req)
	if err != nil {
		return fail(l, "create_coupon_failed", err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "couponCode": coupon})
}

func (h *CouponHTTP) GetShopCoupons(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "coupon.list")

	coupons, err := h.Svc.ListForShop(ctx, authmw.ShopID(c), c.Param("id"))
	if err != nil {
		return fail(l, "get_coupons_failed", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "couponCodes": coupons})
}

func (h *CouponHTTP) DeleteCoupon(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "coupon.delete")

	if err := h.Svc.Delete(ctx, authmw.ShopID(c), c.Param("id")); err != nil {
		return fail(l, "delete_coupon_failed", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Coupon code deleted successfully!"})
}

func (h *CouponHTTP) GetCouponValue(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "coupon.get_value")

	coupon, err := h.Svc.GetByName(ctx, c.Param("name"))
	if err != nil {
		return fail(l, "get_coupon_failed", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "couponCode": coupon})
}
