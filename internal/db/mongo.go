package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	ProductsCollection = "products"
	ShopsCollection    = "shops"
	OrdersCollection   = "orders"
	CouponsCollection  = "coupons"
)

type MongoDB struct {
	Client   *mongo.Client
	Database *mongo.Database
}

// ConnectMongo dials, pings and bootstraps indexes.
func ConnectMongo(ctx context.Context, uri, dbName string) (*MongoDB, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	m := &MongoDB{Client: client, Database: client.Database(dbName)}
	if err := m.CreateIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to create indexes: %w", err)
	}
	return m, nil
}

func (m *MongoDB) CreateIndexes(ctx context.Context) error {
	indexes := map[string][]mongo.IndexModel{
		ProductsCollection: {
			{Keys: bson.D{{Key: "shopId", Value: 1}}, Options: options.Index().SetName("product_shop")},
			{Keys: bson.D{{Key: "createdAt", Value: -1}}, Options: options.Index().SetName("product_created_desc")},
		},
		ShopsCollection: {
			{Keys: bson.D{{Key: "ownerId", Value: 1}}, Options: options.Index().SetUnique(true).SetName("shop_owner_unique")},
		},
		OrdersCollection: {
			{Keys: bson.D{{Key: "user", Value: 1}}, Options: options.Index().SetName("order_user")},
			{Keys: bson.D{{Key: "shopId", Value: 1}}, Options: options.Index().SetName("order_shop")},
		},
		CouponsCollection: {
			{Keys: bson.D{{Key: "name", Value: 1}}, Options: options.Index().SetUnique(true).SetName("coupon_name_unique")},
			{Keys: bson.D{{Key: "shopId", Value: 1}}, Options: options.Index().SetName("coupon_shop")},
		},
	}

	for coll, models := range indexes {
		if _, err := m.Database.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("%s indexes: %w", coll, err)
		}
	}
	return nil
}

func (m *MongoDB) Ping(ctx context.Context) error {
	return m.Client.Ping(ctx, nil)
}

func (m *MongoDB) Disconnect(ctx context.Context) error {
	return m.Client.Disconnect(ctx)
}
