package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Image struct {
	PublicID string `json:"public_id" bson:"public_id"`
	URL      string `json:"url"       bson:"url"`
}

type Product struct {
	ID            primitive.ObjectID `json:"_id"           bson:"_id,omitempty"`
	Name          string             `json:"name"          bson:"name"`
	Description   string             `json:"description"   bson:"description"`
	Category      string             `json:"category"      bson:"category"`
	Tags          string             `json:"tags"          bson:"tags"`
	OriginalPrice float64            `json:"originalPrice" bson:"originalPrice"`
	DiscountPrice float64            `json:"discountPrice" bson:"discountPrice"`
	Stock         int                `json:"stock"         bson:"stock"`
	Images        []Image            `json:"images"        bson:"images"`
	Reviews       []Review           `json:"reviews"       bson:"reviews"`
	Ratings       float64            `json:"ratings"       bson:"ratings"`
	ShopID        primitive.ObjectID `json:"shopId"        bson:"shopId"`
	Shop          ShopSummary        `json:"shop"          bson:"shop"`
	SoldOut       int                `json:"sold_out"      bson:"sold_out"`
	CreatedAt     time.Time          `json:"createdAt"     bson:"createdAt"`
}

type Review struct {
	User      ReviewAuthor       `json:"user"      bson:"user"`
	Rating    float64            `json:"rating"    bson:"rating"`
	Comment   string             `json:"comment"   bson:"comment"`
	ProductID primitive.ObjectID `json:"productId" bson:"productId"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}

// ReviewAuthor is the client-supplied author snapshot stored with a review.
type ReviewAuthor struct {
	ID     string `json:"_id"              bson:"_id"`
	Name   string `json:"name"             bson:"name"`
	Email  string `json:"email,omitempty"  bson:"email,omitempty"`
	Avatar *Image `json:"avatar,omitempty" bson:"avatar,omitempty"`
}

// ReviewIndexBy returns the position of the review written by userID, or -1.
func (p *Product) ReviewIndexBy(userID string) int {
	for i := range p.Reviews {
		if p.Reviews[i].User.ID == userID {
			return i
		}
	}
	return -1
}
