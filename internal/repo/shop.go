package repo

import (
	"context"
	"errors"
	"time"

	"github.com/Skotchmaster/marketplace/internal/db"
	"github.com/Skotchmaster/marketplace/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type ShopRepo struct {
	collection *mongo.Collection
}

func NewShopRepo(database *mongo.Database) *ShopRepo {
	return &ShopRepo{collection: database.Collection(db.ShopsCollection)}
}

func (r *ShopRepo) Create(ctx context.Context, s *models.Shop) error {
	if s.ID.IsZero() {
		s.ID = primitive.NewObjectID()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
	if _, err := r.collection.InsertOne(ctx, s); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

func (r *ShopRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Shop, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *ShopRepo) FindByOwner(ctx context.Context, ownerID string) (*models.Shop, error) {
	return r.findOne(ctx, bson.M{"ownerId": ownerID})
}

func (r *ShopRepo) findOne(ctx context.Context, filter bson.M) (*models.Shop, error) {
	var s models.Shop
	if err := r.collection.FindOne(ctx, filter).Decode(&s); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *ShopRepo) AddBalance(ctx context.Context, id primitive.ObjectID, amount float64) error {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$inc": bson.M{"availableBalance": amount}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
