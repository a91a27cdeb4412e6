// Package memory holds mutex-guarded in-process versions of the document
// repositories. They back tests and local runs without MongoDB.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Skotchmaster/marketplace/internal/models"
	"github.com/Skotchmaster/marketplace/internal/repo"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ProductRepo struct {
	mu    sync.RWMutex
	items map[primitive.ObjectID]models.Product
}

func NewProductRepo() *ProductRepo {
	return &ProductRepo{items: map[primitive.ObjectID]models.Product{}}
}

func cloneProduct(p models.Product) models.Product {
	p.Images = append([]models.Image{}, p.Images...)
	p.Reviews = append([]models.Review{}, p.Reviews...)
	return p
}

func (r *ProductRepo) Create(_ context.Context, p *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	if p.Images == nil {
		p.Images = []models.Image{}
	}
	if p.Reviews == nil {
		p.Reviews = []models.Review{}
	}
	r.items[p.ID] = cloneProduct(*p)
	return nil
}

func (r *ProductRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.items[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	p = cloneProduct(p)
	return &p, nil
}

func (r *ProductRepo) ListAll(_ context.Context) ([]models.Product, error) {
	return r.list(func(models.Product) bool { return true }), nil
}

func (r *ProductRepo) ListByShop(_ context.Context, shopID primitive.ObjectID) ([]models.Product, error) {
	return r.list(func(p models.Product) bool { return p.ShopID == shopID }), nil
}

func (r *ProductRepo) list(keep func(models.Product) bool) []models.Product {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []models.Product{}
	for _, p := range r.items {
		if keep(p) {
			out = append(out, cloneProduct(p))
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r *ProductRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return repo.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *ProductRepo) ReplaceReviews(_ context.Context, id primitive.ObjectID, reviews []models.Review, ratings float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.items[id]
	if !ok {
		return repo.ErrNotFound
	}
	p.Reviews = append([]models.Review{}, reviews...)
	p.Ratings = ratings
	r.items[id] = p
	return nil
}

func (r *ProductRepo) AdjustStock(_ context.Context, id primitive.ObjectID, delta int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.items[id]
	if !ok || p.Stock+delta < 0 {
		return repo.ErrNotFound
	}
	p.Stock += delta
	p.SoldOut -= delta
	r.items[id] = p
	return nil
}

type ShopRepo struct {
	mu    sync.RWMutex
	items map[primitive.ObjectID]models.Shop
}

func NewShopRepo() *ShopRepo {
	return &ShopRepo{items: map[primitive.ObjectID]models.Shop{}}
}

func (r *ShopRepo) Create(_ context.Context, s *models.Shop) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.items {
		if existing.OwnerID == s.OwnerID {
			return repo.ErrDuplicate
		}
	}
	if s.ID.IsZero() {
		s.ID = primitive.NewObjectID()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
	r.items[s.ID] = *s
	return nil
}

func (r *ShopRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.Shop, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.items[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return &s, nil
}

func (r *ShopRepo) FindByOwner(_ context.Context, ownerID string) (*models.Shop, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, s := range r.items {
		if s.OwnerID == ownerID {
			return &s, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (r *ShopRepo) AddBalance(_ context.Context, id primitive.ObjectID, amount float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.items[id]
	if !ok {
		return repo.ErrNotFound
	}
	s.AvailableBalance += amount
	r.items[id] = s
	return nil
}

type OrderRepo struct {
	mu    sync.RWMutex
	items map[primitive.ObjectID]models.Order
}

func NewOrderRepo() *OrderRepo {
	return &OrderRepo{items: map[primitive.ObjectID]models.Order{}}
}

func cloneOrder(o models.Order) models.Order {
	o.Cart = append([]models.LineItem{}, o.Cart...)
	if o.DeliveredAt != nil {
		t := *o.DeliveredAt
		o.DeliveredAt = &t
	}
	return o
}

func (r *OrderRepo) Create(_ context.Context, o *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if o.ID.IsZero() {
		o.ID = primitive.NewObjectID()
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now().UTC()
	}
	r.items[o.ID] = cloneOrder(*o)
	return nil
}

func (r *OrderRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	o, ok := r.items[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	o = cloneOrder(o)
	return &o, nil
}

func (r *OrderRepo) ListByUser(_ context.Context, userID string) ([]models.Order, error) {
	return r.list(func(o models.Order) bool { return o.User == userID }), nil
}

func (r *OrderRepo) ListByShop(_ context.Context, shopID primitive.ObjectID) ([]models.Order, error) {
	return r.list(func(o models.Order) bool { return o.ShopID == shopID }), nil
}

func (r *OrderRepo) ListAll(_ context.Context) ([]models.Order, error) {
	return r.list(func(models.Order) bool { return true }), nil
}

func (r *OrderRepo) list(keep func(models.Order) bool) []models.Order {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []models.Order{}
	for _, o := range r.items {
		if keep(o) {
			out = append(out, cloneOrder(o))
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r *OrderRepo) SetLineItemReviewed(_ context.Context, orderID primitive.ObjectID, index int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.items[orderID]
	if !ok || index < 0 || index >= len(o.Cart) {
		return repo.ErrNotFound
	}
	o.Cart = append([]models.LineItem{}, o.Cart...)
	o.Cart[index].IsReviewed = true
	r.items[orderID] = o
	return nil
}

func (r *OrderRepo) SaveStatus(_ context.Context, o *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.items[o.ID]
	if !ok {
		return repo.ErrNotFound
	}
	stored.Status = o.Status
	stored.PaymentInfo = o.PaymentInfo
	if o.DeliveredAt != nil {
		t := *o.DeliveredAt
		stored.DeliveredAt = &t
	}
	r.items[o.ID] = stored
	return nil
}

type CouponRepo struct {
	mu    sync.RWMutex
	items map[primitive.ObjectID]models.Coupon
}

func NewCouponRepo() *CouponRepo {
	return &CouponRepo{items: map[primitive.ObjectID]models.Coupon{}}
}

func (r *CouponRepo) Create(_ context.Context, c *models.Coupon) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.items {
		if existing.Name == c.Name {
			return repo.ErrDuplicate
		}
	}
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	r.items[c.ID] = *c
	return nil
}

func (r *CouponRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.Coupon, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.items[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return &c, nil
}

func (r *CouponRepo) FindByName(_ context.Context, name string) (*models.Coupon, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.items {
		if c.Name == name {
			return &c, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (r *CouponRepo) ListByShop(_ context.Context, shopID primitive.ObjectID) ([]models.Coupon, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []models.Coupon{}
	for _, c := range r.items {
		if c.ShopID == shopID {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *CouponRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return repo.ErrNotFound
	}
	delete(r.items, id)
	return nil
}
