package service

import (
	"context"
	"errors"
	"time"

	"github.com/Skotchmaster/marketplace/internal/apperr"
	"github.com/Skotchmaster/marketplace/internal/es"
	"github.com/Skotchmaster/marketplace/internal/imagestore"
	"github.com/Skotchmaster/marketplace/internal/logging"
	"github.com/Skotchmaster/marketplace/internal/models"
	"github.com/Skotchmaster/marketplace/internal/mykafka"
	"github.com/Skotchmaster/marketplace/internal/repo"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const productImagesFolder = "products"

type ProductService struct {
	Products ProductStore
	Shops    ShopStore
	Orders   OrderStore
	Images   imagestore.Store
	Events   EventPublisher
	// Search and Cache are optional.
	Search ProductSearch
	Cache  ListingCache
}

type CreateProductInput struct {
	ShopID        string   `json:"shopId"`
	Name          string   `json:"name"          validate:"required"`
	Description   string   `json:"description"   validate:"required"`
	Category      string   `json:"category"      validate:"required"`
	Tags          string   `json:"tags"`
	OriginalPrice float64  `json:"originalPrice" validate:"gte=0"`
	DiscountPrice float64  `json:"discountPrice" validate:"required,gt=0"`
	Stock         int      `json:"stock"         validate:"gte=0"`
	Images        []string `json:"images"`
}

type ReviewInput struct {
	User      models.ReviewAuthor `json:"user"`
	Rating    float64             `json:"rating"`
	Comment   string              `json:"comment"`
	ProductID string              `json:"productId"`
	OrderID   string              `json:"orderId"`
}

func (s *ProductService) Create(ctx context.Context, in CreateProductInput) (*models.Product, error) {
	l := logging.FromContext(ctx).With("svc", "product.create")

	if in.ShopID == "" {
		return nil, apperr.Validation("shopId is missing in the request")
	}
	shopID, err := parseID(in.ShopID, "shop")
	if err != nil {
		return nil, err
	}
	if err := validateInput(in); err != nil {
		return nil, err
	}

	shop, err := s.Shops.FindByID(ctx, shopID)
	if err != nil {
		return nil, storeErr(err, "shop not found")
	}

	images := make([]models.Image, 0, len(in.Images))
	for i, payload := range in.Images {
		img, err := s.Images.Upload(ctx, productImagesFolder, payload)
		if err != nil {
			l.Error("image_upload_failed", "index", i, "uploaded", len(images), "error", err)
			return nil, apperr.Internal(err)
		}
		images = append(images, img)
	}

	product := &models.Product{
		Name:          in.Name,
		Description:   in.Description,
		Category:      in.Category,
		Tags:          in.Tags,
		OriginalPrice: in.OriginalPrice,
		DiscountPrice: in.DiscountPrice,
		Stock:         in.Stock,
		Images:        images,
		Reviews:       []models.Review{},
		ShopID:        shop.ID,
		Shop:          shop.Summary(),
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.Products.Create(ctx, product); err != nil {
		return nil, apperr.Internal(err)
	}

	publish(ctx, s.Events, mykafka.TopicProduct, product.ID.Hex(), mykafka.ProductCreated, product)
	s.reindex(ctx, product)
	s.invalidate(ctx)
	return product, nil
}

func (s *ProductService) ListByShop(ctx context.Context, shopHex string) ([]models.Product, error) {
	shopID, err := parseID(shopHex, "shop")
	if err != nil {
		return nil, err
	}
	products, err := s.Products.ListByShop(ctx, shopID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return products, nil
}

// ListAll returns every product newest first, reading through the cache.
func (s *ProductService) ListAll(ctx context.Context) ([]models.Product, error) {
	l := logging.FromContext(ctx)

	if s.Cache != nil {
		products, ok, err := s.Cache.GetAll(ctx)
		if err != nil {
			l.Warn("cache_read_failed", "error", err)
		} else if ok {
			return products, nil
		}
	}

	products, err := s.Products.ListAll(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	if s.Cache != nil {
		if err := s.Cache.SetAll(ctx, products); err != nil {
			l.Warn("cache_write_failed", "error", err)
		}
	}
	return products, nil
}

// Delete removes the product's images one by one and then the record. An
// image failure stops the deletion and leaves the record in place.
func (s *ProductService) Delete(ctx context.Context, idHex string) error {
	l := logging.FromContext(ctx).With("svc", "product.delete")

	id, err := parseID(idHex, "product")
	if err != nil {
		return err
	}
	product, err := s.Products.FindByID(ctx, id)
	if err != nil {
		return storeErr(err, "product not found")
	}

	for i, img := range product.Images {
		if err := s.Images.Delete(ctx, img.PublicID); err != nil {
			l.Error("image_delete_failed", "index", i, "public_id", img.PublicID, "error", err)
			return apperr.Internal(err)
		}
	}

	if err := s.Products.Delete(ctx, id); err != nil {
		return storeErr(err, "product not found")
	}

	publish(ctx, s.Events, mykafka.TopicProduct, idHex, mykafka.ProductDeleted, map[string]string{
		"productId": idHex,
		"shopId":    product.ShopID.Hex(),
	})
	if s.Search != nil {
		if err := s.Search.DeleteProduct(ctx, idHex); err != nil {
			l.Warn("search_delete_failed", "error", err)
		}
	}
	s.invalidate(ctx)
	return nil
}

// Review adds or replaces the principal's review, recomputes the rating and
// marks the matching order line items as reviewed.
func (s *ProductService) Review(ctx context.Context, principalID string, in ReviewInput) error {
	productID, err := parseID(in.ProductID, "product")
	if err != nil {
		return err
	}
	orderID, err := parseID(in.OrderID, "order")
	if err != nil {
		return err
	}
	if in.Rating < 1 || in.Rating > 5 {
		return apperr.Validation("rating must be between 1 and 5")
	}

	product, err := s.Products.FindByID(ctx, productID)
	if err != nil {
		return storeErr(err, "product not found")
	}

	author := in.User
	if author.ID == "" {
		author.ID = principalID
	}

	if i := product.ReviewIndexBy(principalID); i >= 0 {
		rev := &product.Reviews[i]
		rev.Rating = in.Rating
		rev.Comment = in.Comment
		rev.User = author
	} else {
		product.Reviews = append(product.Reviews, models.Review{
			User:      author,
			Rating:    in.Rating,
			Comment:   in.Comment,
			ProductID: productID,
			CreatedAt: time.Now().UTC(),
		})
	}
	product.Ratings = AverageRating(product.Reviews)

	if err := s.Products.ReplaceReviews(ctx, productID, product.Reviews, product.Ratings); err != nil {
		return storeErr(err, "product not found")
	}

	if err := s.markReviewed(ctx, orderID, productID); err != nil {
		return err
	}

	publish(ctx, s.Events, mykafka.TopicProduct, in.ProductID, mykafka.ProductReviewed, map[string]any{
		"productId": in.ProductID,
		"userId":    principalID,
		"rating":    in.Rating,
		"ratings":   product.Ratings,
	})
	s.reindex(ctx, product)
	s.invalidate(ctx)
	return nil
}

// markReviewed looks up the product's line items in the order's cart and
// flags each one by position. A missing order is skipped.
func (s *ProductService) markReviewed(ctx context.Context, orderID, productID primitive.ObjectID) error {
	order, err := s.Orders.FindByID(ctx, orderID)
	if errors.Is(err, repo.ErrNotFound) {
		logging.FromContext(ctx).Warn("review_order_missing", "order_id", orderID.Hex())
		return nil
	}
	if err != nil {
		return apperr.Internal(err)
	}

	for _, i := range order.LineItemIndexes(productID) {
		if order.Cart[i].IsReviewed {
			continue
		}
		if err := s.Orders.SetLineItemReviewed(ctx, orderID, i); err != nil {
			return apperr.Internal(err)
		}
	}
	return nil
}

func (s *ProductService) SearchProducts(ctx context.Context, q string, from, size int) (int64, []es.ProductDoc, error) {
	if s.Search == nil {
		return 0, nil, apperr.Unavailable("search is disabled")
	}
	if q == "" {
		return 0, nil, apperr.Validation("query parameter q is required")
	}
	total, docs, err := s.Search.Search(ctx, q, from, size)
	if err != nil {
		return 0, nil, apperr.Internal(err)
	}
	return total, docs, nil
}

func (s *ProductService) reindex(ctx context.Context, p *models.Product) {
	if s.Search == nil {
		return
	}
	if err := s.Search.IndexProduct(ctx, p); err != nil {
		logging.FromContext(ctx).Warn("search_index_failed", "product_id", p.ID.Hex(), "error", err)
	}
}

func (s *ProductService) invalidate(ctx context.Context) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.Invalidate(ctx); err != nil {
		logging.FromContext(ctx).Warn("cache_invalidate_failed", "error", err)
	}
}
