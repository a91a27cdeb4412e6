package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Coupon struct {
	ID              primitive.ObjectID `json:"_id"                       bson:"_id,omitempty"`
	Name            string             `json:"name"                      bson:"name"`
	Value           int                `json:"value"                     bson:"value"`
	MinAmount       *float64           `json:"minAmount,omitempty"       bson:"minAmount,omitempty"`
	MaxAmount       *float64           `json:"maxAmount,omitempty"       bson:"maxAmount,omitempty"`
	SelectedProduct string             `json:"selectedProduct,omitempty" bson:"selectedProduct,omitempty"`
	ShopID          primitive.ObjectID `json:"shopId"                    bson:"shopId"`
	CreatedAt       time.Time          `json:"createdAt"                 bson:"createdAt"`
}
