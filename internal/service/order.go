package service

import (
	"context"
	"errors"
	"time"

	"github.com/Skotchmaster/marketplace/internal/apperr"
	"github.com/Skotchmaster/marketplace/internal/logging"
	"github.com/Skotchmaster/marketplace/internal/models"
	"github.com/Skotchmaster/marketplace/internal/mykafka"
	"github.com/Skotchmaster/marketplace/internal/repo"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// sellerShare is the part of a delivered order credited to the shop.
const sellerShare = 0.9

type OrderService struct {
	Orders   OrderStore
	Products ProductStore
	Shops    ShopStore
	Coupons  CouponStore
	Events   EventPublisher
}

type CartEntry struct {
	ProductID string `json:"_id" validate:"required"`
	Qty       int    `json:"qty" validate:"gte=1"`
}

type CreateOrderInput struct {
	Cart            []CartEntry        `json:"cart"            validate:"required,min=1,dive"`
	ShippingAddress models.Address     `json:"shippingAddress"`
	PaymentInfo     models.PaymentInfo `json:"paymentInfo"`
	CouponCode      string             `json:"couponCode"`
}

// Create splits the cart by shop and stores one order per shop.
func (s *OrderService) Create(ctx context.Context, userID string, in CreateOrderInput) ([]models.Order, error) {
	l := logging.FromContext(ctx).With("svc", "order.create")

	if err := validateInput(in); err != nil {
		return nil, err
	}

	var (
		shopOrder []primitive.ObjectID
		byShop    = map[primitive.ObjectID][]models.LineItem{}
	)
	for _, entry := range in.Cart {
		id, err := parseID(entry.ProductID, "product")
		if err != nil {
			return nil, err
		}
		p, err := s.Products.FindByID(ctx, id)
		if err != nil {
			return nil, storeErr(err, "product not found: "+entry.ProductID)
		}

		item := models.LineItem{
			ProductID: p.ID,
			Name:      p.Name,
			ShopID:    p.ShopID,
			Price:     p.DiscountPrice,
			Qty:       entry.Qty,
		}
		if len(p.Images) > 0 {
			item.Image = p.Images[0].URL
		}
		if _, seen := byShop[p.ShopID]; !seen {
			shopOrder = append(shopOrder, p.ShopID)
		}
		byShop[p.ShopID] = append(byShop[p.ShopID], item)
	}

	discounts := map[primitive.ObjectID]float64{}
	if in.CouponCode != "" {
		c, err := s.Coupons.FindByName(ctx, in.CouponCode)
		if err != nil {
			return nil, storeErr(err, "coupon code doesn't exist")
		}
		d, err := ApplyCoupon(c, byShop[c.ShopID])
		if err != nil {
			return nil, apperr.Validation("%s", err.Error())
		}
		discounts[c.ShopID] = d
	}

	now := time.Now().UTC()
	orders := make([]models.Order, 0, len(shopOrder))
	for _, shopID := range shopOrder {
		o := models.Order{
			Cart:            byShop[shopID],
			ShippingAddress: in.ShippingAddress,
			User:            userID,
			ShopID:          shopID,
			Discount:        discounts[shopID],
			Status:          models.StatusProcessing,
			PaymentInfo:     in.PaymentInfo,
			PaidAt:          now,
			CreatedAt:       now,
		}
		if o.Discount > 0 {
			o.CouponCode = in.CouponCode
		}
		o.TotalPrice = round2(o.Subtotal() - o.Discount)

		if err := s.Orders.Create(ctx, &o); err != nil {
			l.Error("order_create_failed", "shop_id", shopID.Hex(), "created", len(orders), "error", err)
			return nil, apperr.Internal(err)
		}
		publish(ctx, s.Events, mykafka.TopicOrder, o.ID.Hex(), mykafka.OrderCreated, o)
		orders = append(orders, o)
	}
	return orders, nil
}

func (s *OrderService) ListForUser(ctx context.Context, principalID string, isAdmin bool, userID string) ([]models.Order, error) {
	if userID != principalID && !isAdmin {
		return nil, apperr.Forbidden("you can only view your own orders")
	}
	orders, err := s.Orders.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return orders, nil
}

func (s *OrderService) ListForShop(ctx context.Context, sellerShopID, shopHex string) ([]models.Order, error) {
	shopID, err := parseID(shopHex, "shop")
	if err != nil {
		return nil, err
	}
	if shopHex != sellerShopID {
		return nil, apperr.Forbidden("you can only view your own shop's orders")
	}
	orders, err := s.Orders.ListByShop(ctx, shopID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return orders, nil
}

func (s *OrderService) ListAll(ctx context.Context) ([]models.Order, error) {
	orders, err := s.Orders.ListAll(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return orders, nil
}

// UpdateStatus moves a seller's order to status. Handing the order to the
// delivery partner takes the items out of stock; delivery settles payment
// and credits the shop.
func (s *OrderService) UpdateStatus(ctx context.Context, sellerShopID, idHex, status string) (*models.Order, error) {
	l := logging.FromContext(ctx).With("svc", "order.update_status")

	id, err := parseID(idHex, "order")
	if err != nil {
		return nil, err
	}
	if !models.ValidOrderStatus(status) {
		return nil, apperr.Validation("unknown order status: %s", status)
	}

	order, err := s.Orders.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, "order not found with this id")
	}
	if order.ShopID.Hex() != sellerShopID {
		return nil, apperr.Forbidden("order belongs to another shop")
	}

	previous := order.Status
	transferred := status == models.StatusTransferred && previous != models.StatusTransferred
	if transferred {
		if err := s.takeStock(ctx, order.Cart); err != nil {
			return nil, err
		}
	}

	order.Status = status
	delivered := status == models.StatusDelivered && previous != models.StatusDelivered
	credit := round2(order.TotalPrice * sellerShare)
	if delivered {
		now := time.Now().UTC()
		order.DeliveredAt = &now
		order.PaymentInfo.Status = models.PaymentSucceeded

		// the shop is credited before the status is stored so a failed
		// credit leaves the order retryable
		if err := s.Shops.AddBalance(ctx, order.ShopID, credit); err != nil {
			l.Error("shop_balance_update_failed", "shop_id", order.ShopID.Hex(), "error", err)
			return nil, apperr.Internal(err)
		}
	}

	if err := s.Orders.SaveStatus(ctx, order); err != nil {
		if delivered {
			if rerr := s.Shops.AddBalance(ctx, order.ShopID, -credit); rerr != nil {
				l.Error("shop_balance_revert_failed", "shop_id", order.ShopID.Hex(), "amount", credit, "error", rerr)
			}
		}
		if transferred {
			s.returnStock(ctx, order.Cart)
		}
		return nil, storeErr(err, "order not found with this id")
	}

	publish(ctx, s.Events, mykafka.TopicOrder, idHex, mykafka.OrderStatusUpdated, map[string]string{
		"orderId": idHex,
		"from":    previous,
		"to":      status,
	})
	return order, nil
}

// takeStock decrements stock for every line item. On the first failure the
// items already taken are given back, so a rejected transfer moves nothing.
func (s *OrderService) takeStock(ctx context.Context, cart []models.LineItem) error {
	for i, it := range cart {
		err := s.Products.AdjustStock(ctx, it.ProductID, -it.Qty)
		if err == nil {
			continue
		}
		s.returnStock(ctx, cart[:i])
		if errors.Is(err, repo.ErrNotFound) {
			return apperr.Conflict("insufficient stock for %s", it.Name)
		}
		return apperr.Internal(err)
	}
	return nil
}

func (s *OrderService) returnStock(ctx context.Context, items []models.LineItem) {
	for _, it := range items {
		if err := s.Products.AdjustStock(ctx, it.ProductID, it.Qty); err != nil {
			logging.FromContext(ctx).Error("stock_return_failed",
				"product_id", it.ProductID.Hex(), "qty", it.Qty, "error", err)
		}
	}
}
