package service

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/Skotchmaster/marketplace/internal/models"
	"github.com/Skotchmaster/marketplace/internal/mykafka"
	"github.com/Skotchmaster/marketplace/internal/repo/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestProductCreate_StoresImagesInSubmissionOrder(t *testing.T) {
	for _, n := range []int{0, 1, 3} {
		e := newEnv()
		shop := e.seedShop(t, "owner-1")
		svc := e.productService()

		payloads := make([]string, n)
		for i := range payloads {
			payloads[i] = strings.Repeat("x", i+1)
		}

		p, err := svc.Create(context.Background(), validProductInput(shop.ID.Hex(), payloads...))
		require.NoError(t, err)
		require.Len(t, p.Images, n)

		calls := e.images.Calls()
		require.Len(t, calls, n)
		for i, img := range p.Images {
			assert.Equal(t, "upload:"+img.PublicID, calls[i])
			assert.True(t, strings.HasPrefix(img.PublicID, "products/"))
			assert.Equal(t, "http://img.test/"+img.PublicID, img.URL)
		}

		stored, err := e.products.FindByID(context.Background(), p.ID)
		require.NoError(t, err)
		assert.Equal(t, p.Images, stored.Images)
		assert.Equal(t, shop.ID, stored.ShopID)
		assert.Equal(t, shop.Name, stored.Shop.Name)
		assert.Empty(t, stored.Reviews)
	}
}

func TestProductCreate_ListedUnderShop(t *testing.T) {
	e := newEnv()
	shop := e.seedShop(t, "owner-1")
	svc := e.productService()

	p, err := svc.Create(context.Background(), validProductInput(shop.ID.Hex(), "imgA"))
	require.NoError(t, err)
	assert.Len(t, p.Images, 1)

	list, err := svc.ListByShop(context.Background(), shop.ID.Hex())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, p.ID, list[0].ID)
	assert.Equal(t, []string{mykafka.TopicProduct + "/" + mykafka.ProductCreated}, e.events.types())
}

func TestProductCreate_ShopErrorsStoreNothing(t *testing.T) {
	cases := []struct {
		name   string
		shopID string
		status int
	}{
		{"absent", "", http.StatusBadRequest},
		{"malformed", "not-an-id", http.StatusBadRequest},
		{"unknown", primitive.NewObjectID().Hex(), http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := newEnv()
			svc := e.productService()

			_, err := svc.Create(context.Background(), validProductInput(tc.shopID, "imgA"))
			assertStatus(t, err, tc.status)

			all, err := e.products.ListAll(context.Background())
			require.NoError(t, err)
			assert.Empty(t, all)
			assert.Empty(t, e.images.Calls())
		})
	}
}

func TestProductCreate_ValidationFailure(t *testing.T) {
	e := newEnv()
	shop := e.seedShop(t, "owner-1")
	in := validProductInput(shop.ID.Hex())
	in.Name = ""

	_, err := e.productService().Create(context.Background(), in)
	assertStatus(t, err, http.StatusBadRequest)
	assert.Contains(t, err.Error(), "Name")
}

func TestProductCreate_UploadFailureStoresNoProduct(t *testing.T) {
	e := newEnv()
	shop := e.seedShop(t, "owner-1")
	e.images.FailUploadAt = 2

	_, err := e.productService().Create(context.Background(), validProductInput(shop.ID.Hex(), "a", "b", "c"))
	assertStatus(t, err, http.StatusInternalServerError)

	all, err := e.products.ListAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)

	calls := e.images.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, "upload:failed", calls[1])
	// the first image is not compensated
	assert.Equal(t, 1, e.images.Len())
}

func TestProductReview_RatingIsMeanOfReviews(t *testing.T) {
	e := newEnv()
	shop := e.seedShop(t, "owner-1")
	p := e.seedProduct(t, shop, "Mug", 10, 5)
	svc := e.productService()
	orderID := primitive.NewObjectID().Hex()

	for user, rating := range map[string]float64{"u1": 5, "u2": 4, "u3": 3} {
		require.NoError(t, svc.Review(context.Background(), user, ReviewInput{
			User:      models.ReviewAuthor{ID: user, Name: user},
			Rating:    rating,
			Comment:   "ok",
			ProductID: p.ID.Hex(),
			OrderID:   orderID,
		}))
	}

	stored, err := e.products.FindByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Reviews, 3)
	assert.InDelta(t, 4.0, stored.Ratings, 1e-9)
}

func TestProductReview_SameUserReplacesReview(t *testing.T) {
	e := newEnv()
	shop := e.seedShop(t, "owner-1")
	p := e.seedProduct(t, shop, "Mug", 10, 5)
	svc := e.productService()
	orderID := primitive.NewObjectID().Hex()

	require.NoError(t, svc.Review(context.Background(), "u1", ReviewInput{
		User: models.ReviewAuthor{ID: "u1", Name: "Old Name"}, Rating: 5, Comment: "great",
		ProductID: p.ID.Hex(), OrderID: orderID,
	}))
	require.NoError(t, svc.Review(context.Background(), "u1", ReviewInput{
		User: models.ReviewAuthor{ID: "u1", Name: "New Name"}, Rating: 3, Comment: "meh",
		ProductID: p.ID.Hex(), OrderID: orderID,
	}))

	stored, err := e.products.FindByID(context.Background(), p.ID)
	require.NoError(t, err)
	require.Len(t, stored.Reviews, 1)
	assert.Equal(t, 3.0, stored.Reviews[0].Rating)
	assert.Equal(t, "meh", stored.Reviews[0].Comment)
	assert.Equal(t, "New Name", stored.Reviews[0].User.Name)
	assert.Equal(t, 3.0, stored.Ratings)
}

func TestProductReview_AuthorDefaultsToPrincipal(t *testing.T) {
	e := newEnv()
	shop := e.seedShop(t, "owner-1")
	p := e.seedProduct(t, shop, "Mug", 10, 5)

	require.NoError(t, e.productService().Review(context.Background(), "u9", ReviewInput{
		User: models.ReviewAuthor{Name: "Nine"}, Rating: 2,
		ProductID: p.ID.Hex(), OrderID: primitive.NewObjectID().Hex(),
	}))

	stored, err := e.products.FindByID(context.Background(), p.ID)
	require.NoError(t, err)
	require.Len(t, stored.Reviews, 1)
	assert.Equal(t, "u9", stored.Reviews[0].User.ID)
}

func TestProductReview_MarksEveryMatchingLineItem(t *testing.T) {
	e := newEnv()
	shop := e.seedShop(t, "owner-1")
	mug := e.seedProduct(t, shop, "Mug", 10, 5)
	pen := e.seedProduct(t, shop, "Pen", 2, 5)

	order := &models.Order{
		User:   "u1",
		ShopID: shop.ID,
		Cart: []models.LineItem{
			{ProductID: mug.ID, Name: "Mug", Qty: 1},
			{ProductID: pen.ID, Name: "Pen", Qty: 1},
			{ProductID: mug.ID, Name: "Mug", Qty: 2},
		},
		Status: models.StatusDelivered,
	}
	require.NoError(t, e.orders.Create(context.Background(), order))

	require.NoError(t, e.productService().Review(context.Background(), "u1", ReviewInput{
		User: models.ReviewAuthor{ID: "u1"}, Rating: 4,
		ProductID: mug.ID.Hex(), OrderID: order.ID.Hex(),
	}))

	stored, err := e.orders.FindByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.True(t, stored.Cart[0].IsReviewed)
	assert.False(t, stored.Cart[1].IsReviewed)
	assert.True(t, stored.Cart[2].IsReviewed)
	assert.Contains(t, e.events.types(), mykafka.TopicProduct+"/"+mykafka.ProductReviewed)
}

func TestProductReview_MissingOrderIsSkipped(t *testing.T) {
	e := newEnv()
	shop := e.seedShop(t, "owner-1")
	p := e.seedProduct(t, shop, "Mug", 10, 5)

	err := e.productService().Review(context.Background(), "u1", ReviewInput{
		Rating: 5, ProductID: p.ID.Hex(), OrderID: primitive.NewObjectID().Hex(),
	})
	require.NoError(t, err)

	stored, err := e.products.FindByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Reviews, 1)
}

func TestProductReview_Rejections(t *testing.T) {
	e := newEnv()
	shop := e.seedShop(t, "owner-1")
	p := e.seedProduct(t, shop, "Mug", 10, 5)
	svc := e.productService()
	orderID := primitive.NewObjectID().Hex()

	cases := []struct {
		name   string
		in     ReviewInput
		status int
	}{
		{"bad product id", ReviewInput{Rating: 3, ProductID: "zzz", OrderID: orderID}, http.StatusBadRequest},
		{"bad order id", ReviewInput{Rating: 3, ProductID: p.ID.Hex(), OrderID: "zzz"}, http.StatusBadRequest},
		{"rating too low", ReviewInput{Rating: 0, ProductID: p.ID.Hex(), OrderID: orderID}, http.StatusBadRequest},
		{"rating too high", ReviewInput{Rating: 6, ProductID: p.ID.Hex(), OrderID: orderID}, http.StatusBadRequest},
		{"unknown product", ReviewInput{Rating: 3, ProductID: primitive.NewObjectID().Hex(), OrderID: orderID}, http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assertStatus(t, svc.Review(context.Background(), "u1", tc.in), tc.status)
		})
	}

	stored, err := e.products.FindByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.Reviews)
}

// deleteTracker records how many image calls had happened when the record
// itself was removed.
type deleteTracker struct {
	*memory.ProductRepo
	images        interface{ Calls() []string }
	callsAtDelete int
}

func (d *deleteTracker) Delete(ctx context.Context, id primitive.ObjectID) error {
	d.callsAtDelete = len(d.images.Calls())
	return d.ProductRepo.Delete(ctx, id)
}

func TestProductDelete_RemovesImagesBeforeRecord(t *testing.T) {
	e := newEnv()
	shop := e.seedShop(t, "owner-1")
	svc := e.productService()
	tracker := &deleteTracker{ProductRepo: e.products, images: e.images, callsAtDelete: -1}
	svc.Products = tracker

	p, err := svc.Create(context.Background(), validProductInput(shop.ID.Hex(), "a", "b"))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), p.ID.Hex()))

	calls := e.images.Calls()
	require.Len(t, calls, 4)
	assert.Equal(t, "delete:"+p.Images[0].PublicID, calls[2])
	assert.Equal(t, "delete:"+p.Images[1].PublicID, calls[3])
	assert.Equal(t, 4, tracker.callsAtDelete)
	assert.Zero(t, e.images.Len())

	_, err = e.products.FindByID(context.Background(), p.ID)
	assert.Error(t, err)
}

func TestProductDelete_ImageFailureKeepsRecord(t *testing.T) {
	e := newEnv()
	shop := e.seedShop(t, "owner-1")
	svc := e.productService()

	p, err := svc.Create(context.Background(), validProductInput(shop.ID.Hex(), "a", "b"))
	require.NoError(t, err)
	e.images.FailDelete[p.Images[1].PublicID] = true

	assertStatus(t, svc.Delete(context.Background(), p.ID.Hex()), http.StatusInternalServerError)

	stored, err := e.products.FindByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.Images, stored.Images)
}

func TestProductDelete_UnknownOrMalformedID(t *testing.T) {
	e := newEnv()
	svc := e.productService()

	assertStatus(t, svc.Delete(context.Background(), primitive.NewObjectID().Hex()), http.StatusNotFound)
	assertStatus(t, svc.Delete(context.Background(), "nope"), http.StatusBadRequest)
	assert.Empty(t, e.images.Calls())
}

type fakeCache struct {
	products []models.Product
	hit      bool
	sets     int
	drops    int
}

func (c *fakeCache) GetAll(context.Context) ([]models.Product, bool, error) {
	return c.products, c.hit, nil
}

func (c *fakeCache) SetAll(_ context.Context, products []models.Product) error {
	c.products, c.hit = products, true
	c.sets++
	return nil
}

func (c *fakeCache) Invalidate(context.Context) error {
	c.products, c.hit = nil, false
	c.drops++
	return nil
}

func TestProductListAll_ReadsThroughCache(t *testing.T) {
	e := newEnv()
	shop := e.seedShop(t, "owner-1")
	cache := &fakeCache{}
	svc := e.productService()
	svc.Cache = cache

	_, err := svc.Create(context.Background(), validProductInput(shop.ID.Hex()))
	require.NoError(t, err)
	assert.Equal(t, 1, cache.drops)

	first, err := svc.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, 1, cache.sets)

	second, err := svc.ListAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, cache.sets)
}

func TestProductSearch_Disabled(t *testing.T) {
	e := newEnv()
	svc := e.productService()

	_, _, err := svc.SearchProducts(context.Background(), "lamp", 0, 10)
	assertStatus(t, err, http.StatusServiceUnavailable)
}

func TestAverageRating(t *testing.T) {
	assert.Equal(t, 0.0, AverageRating(nil))
	assert.InDelta(t, 3.5, AverageRating([]models.Review{{Rating: 5}, {Rating: 2}}), 1e-9)
}
