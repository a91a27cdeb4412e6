package httpserver

import (
	"log/slog"
	"net/http"

	"github.com/Skotchmaster/marketplace/internal/apperr"
	authmw "github.com/Skotchmaster/marketplace/internal/middleware/auth"
	"github.com/Skotchmaster/marketplace/internal/middleware/csrf"
	loggingmw "github.com/Skotchmaster/marketplace/internal/middleware/logging"
	"github.com/Skotchmaster/marketplace/internal/middleware/metrics"
	"github.com/Skotchmaster/marketplace/internal/validator"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

type Deps struct {
	Logger  *slog.Logger
	Metrics *metrics.Metrics

	ClientURL   string
	CSRFEnabled bool

	JWTSecret []byte
	Refresher authmw.Refresher
	Sellers   authmw.SellerLookup

	Users    *UserHTTP
	Shops    *ShopHTTP
	Products *ProductHTTP
	Orders   *OrderHTTP
	Coupons  *CouponHTTP
	Payments *PaymentHTTP
	Health   *HealthHTTP
}

// New builds the echo instance with the global middleware chain and every
// route registered.
func New(d *Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = apperr.HTTPErrorHandler
	e.Validator = validator.New()

	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	if d.Metrics != nil {
		e.Use(d.Metrics.Middleware())
	}
	e.Use(loggingmw.RequestLogger(d.Logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     []string{d.ClientURL},
		AllowCredentials: true,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, "X-CSRF-Token"},
	}))
	if d.CSRFEnabled {
		cfg := csrf.DefaultConfig()
		cfg.TrustedOrigins = []string{d.ClientURL}
		cfg.SkipPaths = []string{"/health/live", "/health/ready", "/metrics"}
		e.Use(csrf.Middleware(cfg))
	}
	e.Use(echomw.BodyLimit("50M"))

	Register(e, d)
	return e
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", d.Health.Live)
	e.GET("/health/ready", d.Health.Ready)
	if d.Metrics != nil {
		e.GET("/metrics", d.Metrics.Handler())
	}

	auth := authmw.NewAutoRefreshMiddleware(d.JWTSecret, d.Refresher, d.Sellers)

	api := e.Group("/api/v2")

	user := api.Group("/user")
	user.POST("/create-user", d.Users.CreateUser)
	user.POST("/login-user", d.Users.LoginUser)
	user.GET("/logout", d.Users.Logout)
	user.GET("/getuser", d.Users.GetUser, auth.RequireAuth)

	shop := api.Group("/shop")
	shop.POST("/create-shop", d.Shops.CreateShop, auth.RequireAuth)
	shop.GET("/get-shop-info/:id", d.Shops.GetShopInfo)

	product := api.Group("/product")
	product.POST("/create-product", d.Products.CreateProduct)
	product.GET("/get-all-products-shop/:id", d.Products.GetShopProducts)
	product.DELETE("/delete-shop-product/:id", d.Products.DeleteShopProduct, auth.RequireSeller)
	product.GET("/get-all-products", d.Products.GetAllProducts)
	product.PUT("/create-new-review", d.Products.CreateReview, auth.RequireAuth)
	product.GET("/admin-all-products", d.Products.GetAllProducts, auth.RequireAdmin)
	product.GET("/search", d.Products.SearchProducts)

	order := api.Group("/order")
	order.POST("/create-order", d.Orders.CreateOrder, auth.RequireAuth)
	order.GET("/get-all-orders/:userId", d.Orders.GetUserOrders, auth.RequireAuth)
	order.GET("/get-seller-all-orders/:shopId", d.Orders.GetSellerOrders, auth.RequireSeller)
	order.PUT("/update-order-status/:id", d.Orders.UpdateOrderStatus, auth.RequireSeller)
	order.GET("/admin-all-orders", d.Orders.GetAllOrders, auth.RequireAdmin)

	coupon := api.Group("/coupon")
	coupon.POST("/create-coupon-code", d.Coupons.CreateCoupon, auth.RequireSeller)
	coupon.GET("/get-coupon/:id", d.Coupons.GetShopCoupons, auth.RequireSeller)
	coupon.DELETE("/delete-coupon/:id", d.Coupons.DeleteCoupon, auth.RequireSeller)
	coupon.GET("/get-coupon-value/:name", d.Coupons.GetCouponValue)

	payment := api.Group("/payment")
	payment.POST("/process", d.Payments.ProcessPayment, auth.RequireAuth)
	payment.GET("/stripeapikey", d.Payments.StripeAPIKey)
}
