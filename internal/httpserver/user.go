package httpserver

import (
	"net/http"

	"github.com/Skotchmaster/marketplace/internal/logging"
	authmw "github.com/Skotchmaster/marketplace/internal/middleware/auth"
	"github.com/Skotchmaster/marketplace/internal/service"
	"github.com/Skotchmaster/marketplace/internal/tokens"
	"github.com/labstack/echo/v4"
)

type UserHTTP struct {
	Svc *service.AuthService
}

func (h *UserHTTP) CreateUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.create")

	var req service.RegisterInput
	if err := bindBody(c, l, "create_user_failed", &req); err != nil {
		return err
	}

	user, err := h.Svc.Register(ctx, req)
	if err != nil {
		return fail(l, "create_user_failed", err)
	}

	l.Info("create_user_success", "user_id", user.ID.String())
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "user": user})
}

func (h *UserHTTP) LoginUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.login")

	var req service.LoginInput
	if err := bindBody(c, l, "login_failed", &req); err != nil {
		return err
	}

	user, pair, err := h.Svc.Login(ctx, req)
	if err != nil {
		return fail(l, "login_failed", err)
	}

	tokens.SetPairCookies(c.SetCookie, pair)
	l.Info("login_success", "user_id", user.ID.String())
	return c.JSON(http.StatusOK, echo.Map{"success": true, "user": user})
}

func (h *UserHTTP) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.logout")

	var refresh string
	if ck, err := c.Cookie(tokens.RefreshCookie); err == nil {
		refresh = ck.Value
	}
	if err := h.Svc.Logout(ctx, refresh); err != nil {
		return fail(l, "logout_failed", err)
	}

	tokens.ClearPairCookies(c.SetCookie)
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Log out successful!"})
}

func (h *UserHTTP) GetUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.get")

	user, err := h.Svc.CurrentUser(ctx, authmw.UserID(c))
	if err != nil {
		return fail(l, "get_user_failed", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "user": user})
}
