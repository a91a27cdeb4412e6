package cache

import (
	"context"
	"testing"
	"time"

	"github.com/Skotchmaster/marketplace/internal/models"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func setupTestRedis(t *testing.T) (*ProductCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewProductCache(client, time.Minute), mr
}

func TestProductCache_RoundTrip(t *testing.T) {
	c, mr := setupTestRedis(t)
	ctx := context.Background()

	_, ok, err := c.GetAll(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	id := primitive.NewObjectID()
	require.NoError(t, c.SetAll(ctx, []models.Product{{ID: id, Name: "Lamp", Ratings: 4.5}}))
	assert.Equal(t, time.Minute, mr.TTL(allProductsKey))

	got, ok, err := c.GetAll(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, got, 1)
	assert.Equal(t, id, got[0].ID)
	assert.Equal(t, 4.5, got[0].Ratings)

	require.NoError(t, c.Invalidate(ctx))
	assert.False(t, mr.Exists(allProductsKey))
}

func TestProductCache_Expiry(t *testing.T) {
	c, mr := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, c.SetAll(ctx, []models.Product{}))
	mr.FastForward(2 * time.Minute)

	_, ok, err := c.GetAll(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestProductCache_CorruptEntry(t *testing.T) {
	c, mr := setupTestRedis(t)
	require.NoError(t, mr.Set(allProductsKey, "not-json"))

	_, ok, err := c.GetAll(context.Background())
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestProductCache_ServerDown(t *testing.T) {
	c, mr := setupTestRedis(t)
	mr.Close()

	_, _, err := c.GetAll(context.Background())
	assert.Error(t, err)
}
