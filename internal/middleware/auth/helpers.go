package auth

import "github.com/labstack/echo/v4"

func UserID(c echo.Context) string {
	v, _ := c.Get(CtxUserID).(string)
	return v
}

func Role(c echo.Context) string {
	v, _ := c.Get(CtxRole).(string)
	return v
}

func IsAdmin(c echo.Context) bool {
	return Role(c) == "admin"
}

func ShopID(c echo.Context) string {
	v, _ := c.Get(CtxShopID).(string)
	return v
}
