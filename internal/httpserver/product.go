package httpserver

import (
	"net/http"

	"github.com/Skotchmaster/marketplace/internal/logging"
	authmw "github.com/Skotchmaster/marketplace/internal/middleware/auth"
	"github.com/Skotchmaster/marketplace/internal/service"
	"github.com/Skotchmaster/marketplace/internal/transport"
	"github.com/Skotchmaster/marketplace/internal/util"
	"github.com/labstack/echo/v4"
)

type ProductHTTP struct {
	Svc *service.ProductService
}

func (h *ProductHTTP) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.create")

	var req transport.CreateProductRequest
	if err := bindBody(c, l, "create_product_failed", &req); err != nil {
		return err
	}

	product, err := h.Svc.Create(ctx, req.ToInput())
	if err != nil {
		return fail(l, "create_product_failed", err)
	}

	l.Info("create_product_success", "product_id", product.ID.Hex(), "images", len(product.Images))
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "product": product})
}

func (h *ProductHTTP) GetShopProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_shop_products")

	products, err := h.Svc.ListByShop(ctx, c.Param("id"))
	if err != nil {
		return fail(l, "get_shop_products_failed", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "products": products})
}

func (h *ProductHTTP) DeleteShopProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.delete", "shop_id", authmw.ShopID(c))

	if err := h.Svc.Delete(ctx, c.Param("id")); err != nil {
		return fail(l, "delete_product_failed", err)
	}

	l.Info("delete_product_success", "product_id", c.Param("id"))
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Product Deleted successfully!"})
}

// GetAllProducts serves both the public and the admin listing.
func (h *ProductHTTP) GetAllProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_all")

	products, err := h.Svc.ListAll(ctx)
	if err != nil {
		return fail(l, "get_products_failed", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "products": products})
}

func (h *ProductHTTP) CreateReview(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.review")

	var req transport.ReviewRequest
	if err := bindBody(c, l, "review_failed", &req); err != nil {
		return err
	}

	if err := h.Svc.Review(ctx, authmw.UserID(c), req.ToInput()); err != nil {
		return fail(l, "review_failed", err)
	}

	l.Info("review_success", "product_id", req.ProductID)
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Reviewed successfully!"})
}

func (h *ProductHTTP) SearchProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.search")

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	from, limit := util.Calculate(page, size)

	total, docs, err := h.Svc.SearchProducts(ctx, c.QueryParam("q"), from, limit)
	if err != nil {
		return fail(l, "search_failed", err)
	}

	return c.JSON(http.StatusOK, transport.SearchResponse{
		Success:  true,
		Total:    total,
		Page:     from/limit + 1,
		Size:     limit,
		Products: docs,
	})
}
