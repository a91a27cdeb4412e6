package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Shop struct {
	ID               primitive.ObjectID `json:"_id"              bson:"_id,omitempty"`
	Name             string             `json:"name"             bson:"name"`
	Email            string             `json:"email"            bson:"email"`
	Description      string             `json:"description"      bson:"description"`
	Address          string             `json:"address"          bson:"address"`
	PhoneNumber      string             `json:"phoneNumber"      bson:"phoneNumber"`
	ZipCode          string             `json:"zipCode"          bson:"zipCode"`
	Avatar           Image              `json:"avatar"           bson:"avatar"`
	OwnerID          string             `json:"ownerId"          bson:"ownerId"`
	AvailableBalance float64            `json:"availableBalance" bson:"availableBalance"`
	CreatedAt        time.Time          `json:"createdAt"        bson:"createdAt"`
}

// ShopSummary is the shop snapshot embedded in every product.
type ShopSummary struct {
	ID          primitive.ObjectID `json:"_id"         bson:"_id"`
	Name        string             `json:"name"        bson:"name"`
	Email       string             `json:"email"       bson:"email"`
	Address     string             `json:"address"     bson:"address"`
	PhoneNumber string             `json:"phoneNumber" bson:"phoneNumber"`
	Avatar      Image              `json:"avatar"      bson:"avatar"`
	CreatedAt   time.Time          `json:"createdAt"   bson:"createdAt"`
}

func (s *Shop) Summary() ShopSummary {
	return ShopSummary{
		ID:          s.ID,
		Name:        s.Name,
		Email:       s.Email,
		Address:     s.Address,
		PhoneNumber: s.PhoneNumber,
		Avatar:      s.Avatar,
		CreatedAt:   s.CreatedAt,
	}
}
