package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Skotchmaster/marketplace/internal/apperr"
	"github.com/Skotchmaster/marketplace/internal/tokens"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("test-secret")

type fakeRefresher struct {
	pair  tokens.Pair
	err   error
	calls int
}

func (f *fakeRefresher) Refresh(_ context.Context, _ string) (tokens.Pair, error) {
	f.calls++
	return f.pair, f.err
}

type fakeSellers map[string]string

func (f fakeSellers) SellerShopID(_ context.Context, userID string) (string, error) {
	if id, ok := f[userID]; ok {
		return id, nil
	}
	return "", apperr.Forbidden("you must own a shop")
}

func newEcho() *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = apperr.HTTPErrorHandler
	return e
}

func accessToken(t *testing.T, sub, role string, exp time.Time) string {
	t.Helper()
	tok, err := tokens.SignAccess(sub, role, exp, secret)
	require.NoError(t, err)
	return tok
}

func serve(e *echo.Echo, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/p", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func echoUser(c echo.Context) error {
	return c.String(http.StatusOK, UserID(c)+"|"+Role(c)+"|"+ShopID(c))
}

func TestRequireAuth_ValidAccess(t *testing.T) {
	m := NewAutoRefreshMiddleware(secret, nil, nil)
	e := newEcho()
	e.GET("/p", echoUser, m.RequireAuth)

	rec := serve(e, &http.Cookie{Name: tokens.AccessCookie, Value: accessToken(t, "u1", "user", time.Now().Add(time.Minute))})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u1|user|", rec.Body.String())
}

func TestRequireAuth_NoCookies(t *testing.T) {
	m := NewAutoRefreshMiddleware(secret, &fakeRefresher{}, nil)
	e := newEcho()
	e.GET("/p", echoUser, m.RequireAuth)

	rec := serve(e)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":false`)
}

func TestRequireAuth_InvalidAccessClearsCookies(t *testing.T) {
	m := NewAutoRefreshMiddleware(secret, &fakeRefresher{}, nil)
	e := newEcho()
	e.GET("/p", echoUser, m.RequireAuth)

	rec := serve(e, &http.Cookie{Name: tokens.AccessCookie, Value: "garbage"})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Len(t, rec.Result().Cookies(), 2)
}

func TestRequireAuth_ExpiredAccessRefreshes(t *testing.T) {
	fresh := accessToken(t, "u2", "user", time.Now().Add(time.Minute))
	ref := &fakeRefresher{pair: tokens.Pair{
		AccessToken:  fresh,
		AccessExp:    time.Now().Add(time.Minute),
		RefreshToken: "new-refresh",
		RefreshExp:   time.Now().Add(time.Hour),
	}}
	m := NewAutoRefreshMiddleware(secret, ref, nil)
	e := newEcho()
	e.GET("/p", echoUser, m.RequireAuth)

	rec := serve(e,
		&http.Cookie{Name: tokens.AccessCookie, Value: accessToken(t, "u2", "user", time.Now().Add(-time.Minute))},
		&http.Cookie{Name: tokens.RefreshCookie, Value: "old-refresh"},
	)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, ref.calls)
	assert.Equal(t, "u2|user|", rec.Body.String())

	got := map[string]string{}
	for _, c := range rec.Result().Cookies() {
		got[c.Name] = c.Value
	}
	assert.Equal(t, fresh, got[tokens.AccessCookie])
	assert.Equal(t, "new-refresh", got[tokens.RefreshCookie])
}

func TestRequireAuth_RefreshFails(t *testing.T) {
	m := NewAutoRefreshMiddleware(secret, &fakeRefresher{err: errors.New("revoked")}, nil)
	e := newEcho()
	e.GET("/p", echoUser, m.RequireAuth)

	rec := serve(e,
		&http.Cookie{Name: tokens.AccessCookie, Value: accessToken(t, "u2", "user", time.Now().Add(-time.Minute))},
		&http.Cookie{Name: tokens.RefreshCookie, Value: "old-refresh"},
	)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAdmin(t *testing.T) {
	m := NewAutoRefreshMiddleware(secret, nil, nil)
	e := newEcho()
	e.GET("/p", echoUser, m.RequireAdmin)

	rec := serve(e, &http.Cookie{Name: tokens.AccessCookie, Value: accessToken(t, "u1", "user", time.Now().Add(time.Minute))})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = serve(e, &http.Cookie{Name: tokens.AccessCookie, Value: accessToken(t, "a1", "admin", time.Now().Add(time.Minute))})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireSeller(t *testing.T) {
	m := NewAutoRefreshMiddleware(secret, nil, fakeSellers{"owner": "shop-1"})
	e := newEcho()
	e.GET("/p", echoUser, m.RequireSeller)

	rec := serve(e, &http.Cookie{Name: tokens.AccessCookie, Value: accessToken(t, "owner", "user", time.Now().Add(time.Minute))})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "owner|user|shop-1", rec.Body.String())

	rec = serve(e, &http.Cookie{Name: tokens.AccessCookie, Value: accessToken(t, "stranger", "user", time.Now().Add(time.Minute))})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
