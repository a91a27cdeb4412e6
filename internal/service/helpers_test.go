package service

import (
	"context"
	"sync"
	"testing"

	"github.com/Skotchmaster/marketplace/internal/apperr"
	"github.com/Skotchmaster/marketplace/internal/imagestore"
	"github.com/Skotchmaster/marketplace/internal/models"
	"github.com/Skotchmaster/marketplace/internal/mykafka"
	"github.com/Skotchmaster/marketplace/internal/repo/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []string
}

func (p *recordingPublisher) PublishEvent(_ context.Context, topic, _ string, event any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if ev, ok := event.(mykafka.Event); ok {
		p.events = append(p.events, topic+"/"+ev.Type)
	}
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.events...)
}

type env struct {
	products *memory.ProductRepo
	shops    *memory.ShopRepo
	orders   *memory.OrderRepo
	coupons  *memory.CouponRepo
	images   *imagestore.Memory
	events   *recordingPublisher
}

func newEnv() *env {
	images := imagestore.NewMemory("http://img.test")
	images.Lenient = true
	return &env{
		products: memory.NewProductRepo(),
		shops:    memory.NewShopRepo(),
		orders:   memory.NewOrderRepo(),
		coupons:  memory.NewCouponRepo(),
		images:   images,
		events:   &recordingPublisher{},
	}
}

func (e *env) productService() *ProductService {
	return &ProductService{
		Products: e.products,
		Shops:    e.shops,
		Orders:   e.orders,
		Images:   e.images,
		Events:   e.events,
	}
}

func (e *env) orderService() *OrderService {
	return &OrderService{
		Orders:   e.orders,
		Products: e.products,
		Shops:    e.shops,
		Coupons:  e.coupons,
		Events:   e.events,
	}
}

func (e *env) seedShop(t *testing.T, owner string) *models.Shop {
	t.Helper()
	s := &models.Shop{Name: "Shop of " + owner, Email: owner + "@shop.test", OwnerID: owner}
	require.NoError(t, e.shops.Create(context.Background(), s))
	return s
}

func (e *env) seedProduct(t *testing.T, shop *models.Shop, name string, price float64, stock int) *models.Product {
	t.Helper()
	p := &models.Product{
		Name:          name,
		Description:   "d",
		Category:      "c",
		DiscountPrice: price,
		Stock:         stock,
		ShopID:        shop.ID,
		Shop:          shop.Summary(),
	}
	require.NoError(t, e.products.Create(context.Background(), p))
	return p
}

func validProductInput(shopID string, images ...string) CreateProductInput {
	return CreateProductInput{
		ShopID:        shopID,
		Name:          "Desk lamp",
		Description:   "Warm light",
		Category:      "Home",
		DiscountPrice: 19.5,
		OriginalPrice: 25,
		Stock:         4,
		Images:        images,
	}
}

func assertStatus(t *testing.T, err error, status int) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, status, apperr.StatusOf(err), "error: %v", err)
}

