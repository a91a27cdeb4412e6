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
	"go.mongodb.org/mongo-driver/mongo/options"
)

type CouponRepo struct {
	collection *mongo.Collection
}

func NewCouponRepo(database *mongo.Database) *CouponRepo {
	return &CouponRepo{collection: database.Collection(db.CouponsCollection)}
}

func (r *CouponRepo) Create(ctx context.Context, c *models.Coupon) error {
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	if _, err := r.collection.InsertOne(ctx, c); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

func (r *CouponRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Coupon, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *CouponRepo) FindByName(ctx context.Context, name string) (*models.Coupon, error) {
	return r.findOne(ctx, bson.M{"name": name})
}

func (r *CouponRepo) findOne(ctx context.Context, filter bson.M) (*models.Coupon, error) {
	var c models.Coupon
	if err := r.collection.FindOne(ctx, filter).Decode(&c); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *CouponRepo) ListByShop(ctx context.Context, shopID primitive.ObjectID) ([]models.Coupon, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := r.collection.Find(ctx, bson.M{"shopId": shopID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	coupons := []models.Coupon{}
	if err := cur.All(ctx, &coupons); err != nil {
		return nil, err
	}
	return coupons, nil
}

func (r *CouponRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
