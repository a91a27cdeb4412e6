package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Skotchmaster/marketplace/internal/db"
	"github.com/Skotchmaster/marketplace/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type OrderRepo struct {
	collection *mongo.Collection
}

func NewOrderRepo(database *mongo.Database) *OrderRepo {
	return &OrderRepo{collection: database.Collection(db.OrdersCollection)}
}

func (r *OrderRepo) Create(ctx context.Context, o *models.Order) error {
	if o.ID.IsZero() {
		o.ID = primitive.NewObjectID()
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now().UTC()
	}
	_, err := r.collection.InsertOne(ctx, o)
	return err
}

func (r *OrderRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	var o models.Order
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&o); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

func (r *OrderRepo) ListByUser(ctx context.Context, userID string) ([]models.Order, error) {
	return r.find(ctx, bson.M{"user": userID})
}

func (r *OrderRepo) ListByShop(ctx context.Context, shopID primitive.ObjectID) ([]models.Order, error) {
	return r.find(ctx, bson.M{"shopId": shopID})
}

func (r *OrderRepo) ListAll(ctx context.Context) ([]models.Order, error) {
	return r.find(ctx, bson.M{})
}

func (r *OrderRepo) find(ctx context.Context, filter bson.M) ([]models.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	orders := []models.Order{}
	if err := cur.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// SetLineItemReviewed flags exactly one cart element, addressed by position.
func (r *OrderRepo) SetLineItemReviewed(ctx context.Context, orderID primitive.ObjectID, index int) error {
	field := fmt.Sprintf("cart.%d.isReviewed", index)
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": orderID},
		bson.M{"$set": bson.M{field: true}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// SaveStatus persists the status-related fields of o.
func (r *OrderRepo) SaveStatus(ctx context.Context, o *models.Order) error {
	set := bson.M{
		"status":      o.Status,
		"paymentInfo": o.PaymentInfo,
	}
	if o.DeliveredAt != nil {
		set["deliveredAt"] = o.DeliveredAt
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": o.ID}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
