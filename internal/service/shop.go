package service

import (
	"context"
	"errors"

	"github.com/Skotchmaster/marketplace/internal/apperr"
	"github.com/Skotchmaster/marketplace/internal/imagestore"
	"github.com/Skotchmaster/marketplace/internal/logging"
	"github.com/Skotchmaster/marketplace/internal/models"
	"github.com/Skotchmaster/marketplace/internal/repo"
)

const shopImagesFolder = "shops"

type ShopService struct {
	Shops  ShopStore
	Images imagestore.Store
}

type CreateShopInput struct {
	Name        string `json:"name"        validate:"required"`
	Email       string `json:"email"       validate:"required,email"`
	Description string `json:"description"`
	Address     string `json:"address"     validate:"required"`
	PhoneNumber string `json:"phoneNumber" validate:"required"`
	ZipCode     string `json:"zipCode"     validate:"required"`
	Avatar      string `json:"avatar"`
}

func (s *ShopService) Create(ctx context.Context, ownerID string, in CreateShopInput) (*models.Shop, error) {
	l := logging.FromContext(ctx).With("svc", "shop.create")

	if err := validateInput(in); err != nil {
		return nil, err
	}

	if _, err := s.Shops.FindByOwner(ctx, ownerID); err == nil {
		return nil, apperr.Conflict("you already own a shop")
	} else if !errors.Is(err, repo.ErrNotFound) {
		return nil, apperr.Internal(err)
	}

	shop := &models.Shop{
		Name:        in.Name,
		Email:       in.Email,
		Description: in.Description,
		Address:     in.Address,
		PhoneNumber: in.PhoneNumber,
		ZipCode:     in.ZipCode,
		OwnerID:     ownerID,
	}
	if in.Avatar != "" {
		img, err := s.Images.Upload(ctx, shopImagesFolder, in.Avatar)
		if err != nil {
			l.Error("avatar_upload_failed", "error", err)
			return nil, apperr.Internal(err)
		}
		shop.Avatar = img
	}

	if err := s.Shops.Create(ctx, shop); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, apperr.Conflict("you already own a shop")
		}
		return nil, apperr.Internal(err)
	}
	return shop, nil
}

func (s *ShopService) Get(ctx context.Context, idHex string) (*models.Shop, error) {
	id, err := parseID(idHex, "shop")
	if err != nil {
		return nil, err
	}
	shop, err := s.Shops.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, "shop not found")
	}
	return shop, nil
}

// SellerShopID returns the id of the shop owned by userID. Accounts without
// a shop are not sellers.
func (s *ShopService) SellerShopID(ctx context.Context, userID string) (string, error) {
	shop, err := s.Shops.FindByOwner(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return "", apperr.Forbidden("seller access required: create a shop first")
	}
	if err != nil {
		return "", apperr.Internal(err)
	}
	return shop.ID.Hex(), nil
}
