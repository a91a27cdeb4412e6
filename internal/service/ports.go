package service

import (
	"context"
	"time"

	"github.com/Skotchmaster/marketplace/internal/es"
	"github.com/Skotchmaster/marketplace/internal/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ProductStore interface {
	Create(ctx context.Context, p *models.Product) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	ListAll(ctx context.Context) ([]models.Product, error)
	ListByShop(ctx context.Context, shopID primitive.ObjectID) ([]models.Product, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	ReplaceReviews(ctx context.Context, id primitive.ObjectID, reviews []models.Review, ratings float64) error
	AdjustStock(ctx context.Context, id primitive.ObjectID, delta int) error
}

type ShopStore interface {
	Create(ctx context.Context, s *models.Shop) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Shop, error)
	FindByOwner(ctx context.Context, ownerID string) (*models.Shop, error)
	AddBalance(ctx context.Context, id primitive.ObjectID, amount float64) error
}

type OrderStore interface {
	Create(ctx context.Context, o *models.Order) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
	ListByUser(ctx context.Context, userID string) ([]models.Order, error)
	ListByShop(ctx context.Context, shopID primitive.ObjectID) ([]models.Order, error)
	ListAll(ctx context.Context) ([]models.Order, error)
	SetLineItemReviewed(ctx context.Context, orderID primitive.ObjectID, index int) error
	SaveStatus(ctx context.Context, o *models.Order) error
}

type CouponStore interface {
	Create(ctx context.Context, c *models.Coupon) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Coupon, error)
	FindByName(ctx context.Context, name string) (*models.Coupon, error)
	ListByShop(ctx context.Context, shopID primitive.ObjectID) ([]models.Coupon, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type UserStore interface {
	CreateUserIfNotExists(ctx context.Context, u *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	SaveRefresh(ctx context.Context, userID uuid.UUID, rawToken, jti string, exp time.Time) error
	RotateRefresh(ctx context.Context, oldJTI, rawOld string, next models.RefreshToken) error
	RevokeRefresh(ctx context.Context, rawToken string) error
}

type EventPublisher interface {
	PublishEvent(ctx context.Context, topic, key string, event any) error
}

type ProductSearch interface {
	IndexProduct(ctx context.Context, p *models.Product) error
	DeleteProduct(ctx context.Context, id string) error
	Search(ctx context.Context, query string, from, size int) (int64, []es.ProductDoc, error)
}

type ListingCache interface {
	GetAll(ctx context.Context) ([]models.Product, bool, error)
	SetAll(ctx context.Context, products []models.Product) error
	Invalidate(ctx context.Context) error
}

type PaymentIntents interface {
	CreateIntent(ctx context.Context, amount int64, currency string) (string, error)
}
