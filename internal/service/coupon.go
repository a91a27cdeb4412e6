package service

import (
	"context"
	"errors"

	"github.com/Skotchmaster/marketplace/internal/apperr"
	"github.com/Skotchmaster/marketplace/internal/models"
	"github.com/Skotchmaster/marketplace/internal/repo"
)

var ErrCouponNotApplicable = errors.New("coupon code is not valid for this order")

type CouponService struct {
	Coupons CouponStore
}

type CreateCouponInput struct {
	Name            string   `json:"name"            validate:"required"`
	Value           int      `json:"value"           validate:"required,gte=1,lte=100"`
	MinAmount       *float64 `json:"minAmount"       validate:"omitempty,gte=0"`
	MaxAmount       *float64 `json:"maxAmount"       validate:"omitempty,gte=0"`
	SelectedProduct string   `json:"selectedProduct"`
}

// ApplyCoupon computes the discount c grants on items. Only items of the
// coupon's shop count, narrowed to one product name when the coupon says so.
func ApplyCoupon(c *models.Coupon, items []models.LineItem) (float64, error) {
	var eligible float64
	for _, it := range items {
		if it.ShopID != c.ShopID {
			continue
		}
		if c.SelectedProduct != "" && it.Name != c.SelectedProduct {
			continue
		}
		eligible += it.Price * float64(it.Qty)
	}

	if eligible <= 0 {
		return 0, ErrCouponNotApplicable
	}
	if c.MinAmount != nil && eligible < *c.MinAmount {
		return 0, ErrCouponNotApplicable
	}
	if c.MaxAmount != nil && eligible > *c.MaxAmount {
		return 0, ErrCouponNotApplicable
	}
	return round2(eligible * float64(c.Value) / 100), nil
}

func (s *CouponService) Create(ctx context.Context, sellerShopID string, in CreateCouponInput) (*models.Coupon, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	if in.MinAmount != nil && in.MaxAmount != nil && *in.MinAmount > *in.MaxAmount {
		return nil, apperr.Validation("minAmount must not exceed maxAmount")
	}
	shopID, err := parseID(sellerShopID, "shop")
	if err != nil {
		return nil, err
	}

	c := &models.Coupon{
		Name:            in.Name,
		Value:           in.Value,
		MinAmount:       in.MinAmount,
		MaxAmount:       in.MaxAmount,
		SelectedProduct: in.SelectedProduct,
		ShopID:          shopID,
	}
	if err := s.Coupons.Create(ctx, c); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, apperr.Conflict("coupon code already exists")
		}
		return nil, apperr.Internal(err)
	}
	return c, nil
}

func (s *CouponService) ListForShop(ctx context.Context, sellerShopID, shopHex string) ([]models.Coupon, error) {
	shopID, err := parseID(shopHex, "shop")
	if err != nil {
		return nil, err
	}
	if shopHex != sellerShopID {
		return nil, apperr.Forbidden("you can only view your own shop's coupons")
	}
	coupons, err := s.Coupons.ListByShop(ctx, shopID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return coupons, nil
}

func (s *CouponService) Delete(ctx context.Context, sellerShopID, idHex string) error {
	id, err := parseID(idHex, "coupon")
	if err != nil {
		return err
	}
	c, err := s.Coupons.FindByID(ctx, id)
	if err != nil {
		return storeErr(err, "coupon code doesn't exist")
	}
	if c.ShopID.Hex() != sellerShopID {
		return apperr.NotFound("coupon code doesn't exist")
	}
	if err := s.Coupons.Delete(ctx, id); err != nil {
		return storeErr(err, "coupon code doesn't exist")
	}
	return nil
}

func (s *CouponService) GetByName(ctx context.Context, name string) (*models.Coupon, error) {
	c, err := s.Coupons.FindByName(ctx, name)
	if err != nil {
		return nil, storeErr(err, "coupon code doesn't exist")
	}
	return c, nil
}
