package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	StatusProcessing  = "Processing"
	StatusTransferred = "Transferred to delivery partner"
	StatusShipping    = "Shipping"
	StatusReceived    = "Received"
	StatusOnTheWay    = "On the way"
	StatusDelivered   = "Delivered"

	PaymentSucceeded = "Succeeded"
)

var orderStatuses = map[string]struct{}{
	StatusProcessing:  {},
	StatusTransferred: {},
	StatusShipping:    {},
	StatusReceived:    {},
	StatusOnTheWay:    {},
	StatusDelivered:   {},
}

func ValidOrderStatus(s string) bool {
	_, ok := orderStatuses[s]
	return ok
}

type Order struct {
	ID              primitive.ObjectID `json:"_id"                   bson:"_id,omitempty"`
	Cart            []LineItem         `json:"cart"                  bson:"cart"`
	ShippingAddress Address            `json:"shippingAddress"       bson:"shippingAddress"`
	User            string             `json:"user"                  bson:"user"`
	ShopID          primitive.ObjectID `json:"shopId"                bson:"shopId"`
	TotalPrice      float64            `json:"totalPrice"            bson:"totalPrice"`
	Discount        float64            `json:"discount"              bson:"discount"`
	CouponCode      string             `json:"couponCode,omitempty"  bson:"couponCode,omitempty"`
	Status          string             `json:"status"                bson:"status"`
	PaymentInfo     PaymentInfo        `json:"paymentInfo"           bson:"paymentInfo"`
	PaidAt          time.Time          `json:"paidAt"                bson:"paidAt"`
	DeliveredAt     *time.Time         `json:"deliveredAt,omitempty" bson:"deliveredAt,omitempty"`
	CreatedAt       time.Time          `json:"createdAt"             bson:"createdAt"`
}

// LineItem is one product entry in an order's cart; its _id is the product id.
type LineItem struct {
	ProductID  primitive.ObjectID `json:"_id"        bson:"_id"`
	Name       string             `json:"name"       bson:"name"`
	ShopID     primitive.ObjectID `json:"shopId"     bson:"shopId"`
	Price      float64            `json:"price"      bson:"price"`
	Qty        int                `json:"qty"        bson:"qty"`
	Image      string             `json:"image"      bson:"image"`
	IsReviewed bool               `json:"isReviewed" bson:"isReviewed"`
}

type Address struct {
	Address1 string `json:"address1" bson:"address1"`
	Address2 string `json:"address2" bson:"address2"`
	ZipCode  string `json:"zipCode"  bson:"zipCode"`
	Country  string `json:"country"  bson:"country"`
	City     string `json:"city"     bson:"city"`
}

type PaymentInfo struct {
	ID     string `json:"id,omitempty"     bson:"id,omitempty"`
	Status string `json:"status,omitempty" bson:"status,omitempty"`
	Type   string `json:"type,omitempty"   bson:"type,omitempty"`
}

// LineItemIndexes returns the cart positions holding productID.
func (o *Order) LineItemIndexes(productID primitive.ObjectID) []int {
	var idx []int
	for i := range o.Cart {
		if o.Cart[i].ProductID == productID {
			idx = append(idx, i)
		}
	}
	return idx
}

func (o *Order) Subtotal() float64 {
	var sum float64
	for _, it := range o.Cart {
		sum += it.Price * float64(it.Qty)
	}
	return sum
}
