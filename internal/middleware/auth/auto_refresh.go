package auth

import (
	"context"
	"errors"

	"github.com/Skotchmaster/marketplace/internal/apperr"
	"github.com/Skotchmaster/marketplace/internal/tokens"
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const (
	CtxUserID = "user_id"
	CtxRole   = "role"
	CtxShopID = "shop_id"
)

// Refresher rotates a refresh token into a new pair.
type Refresher interface {
	Refresh(ctx context.Context, refreshToken string) (tokens.Pair, error)
}

// SellerLookup resolves the shop owned by an account.
type SellerLookup interface {
	SellerShopID(ctx context.Context, userID string) (string, error)
}

type AutoRefreshMiddleware struct {
	JWTSecret []byte
	Refresher Refresher
	Sellers   SellerLookup
}

func NewAutoRefreshMiddleware(secret []byte, refresher Refresher, sellers SellerLookup) *AutoRefreshMiddleware {
	return &AutoRefreshMiddleware{
		JWTSecret: secret,
		Refresher: refresher,
		Sellers:   sellers,
	}
}

type ValidatorFunc func(c echo.Context, claims *tokens.AccessClaims) error

func (m *AutoRefreshMiddleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return m.requireAuthWithValidator(next, nil)
}

func (m *AutoRefreshMiddleware) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return m.requireAuthWithValidator(next, func(_ echo.Context, claims *tokens.AccessClaims) error {
		if claims.Role != "admin" {
			return apperr.Forbidden("admin access required")
		}
		return nil
	})
}

// RequireSeller admits accounts that own a shop and exposes the shop id.
func (m *AutoRefreshMiddleware) RequireSeller(next echo.HandlerFunc) echo.HandlerFunc {
	return m.requireAuthWithValidator(next, func(c echo.Context, claims *tokens.AccessClaims) error {
		if m.Sellers == nil {
			return apperr.Forbidden("seller access required")
		}
		shopID, err := m.Sellers.SellerShopID(c.Request().Context(), claims.Subject)
		if err != nil {
			return err
		}
		c.Set(CtxShopID, shopID)
		return nil
	})
}

func (m *AutoRefreshMiddleware) requireAuthWithValidator(next echo.HandlerFunc, validator ValidatorFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		accessCookie, err := c.Cookie(tokens.AccessCookie)
		if err != nil || accessCookie.Value == "" {
			return m.refreshAndContinue(c, next, validator)
		}

		claims, err := tokens.AccessClaimsFromToken(accessCookie.Value, m.JWTSecret)
		if err == nil && claims != nil {
			return m.admit(c, next, validator, claims)
		}

		if !errors.Is(err, jwt.ErrTokenExpired) {
			tokens.ClearPairCookies(c.SetCookie)
			return apperr.Unauthorized("invalid access token")
		}

		return m.refreshAndContinue(c, next, validator)
	}
}

func (m *AutoRefreshMiddleware) refreshAndContinue(c echo.Context, next echo.HandlerFunc, validator ValidatorFunc) error {
	refreshCookie, err := c.Cookie(tokens.RefreshCookie)
	if err != nil || refreshCookie.Value == "" || m.Refresher == nil {
		return apperr.Unauthorized("please login to continue")
	}

	pair, err := m.Refresher.Refresh(c.Request().Context(), refreshCookie.Value)
	if err != nil {
		tokens.ClearPairCookies(c.SetCookie)
		return apperr.Unauthorized("refresh failed: " + err.Error())
	}
	tokens.SetPairCookies(c.SetCookie, pair)

	claims, err := tokens.AccessClaimsFromToken(pair.AccessToken, m.JWTSecret)
	if err != nil {
		tokens.ClearPairCookies(c.SetCookie)
		return apperr.Unauthorized("new access token invalid")
	}
	return m.admit(c, next, validator, claims)
}

func (m *AutoRefreshMiddleware) admit(c echo.Context, next echo.HandlerFunc, validator ValidatorFunc, claims *tokens.AccessClaims) error {
	setUserContext(c, claims)
	if validator != nil {
		if err := validator(c, claims); err != nil {
			return err
		}
	}
	return next(c)
}

func setUserContext(c echo.Context, claims *tokens.AccessClaims) {
	c.Set(CtxUserID, claims.Subject)
	c.Set(CtxRole, claims.Role)
}
