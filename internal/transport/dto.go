package transport

import (
	"bytes"
	"encoding/json"
	"errors"

	"github.com/Skotchmaster/marketplace/internal/models"
	"github.com/Skotchmaster/marketplace/internal/service"
)

// ImagePayloads accepts either a single string or a list of strings.
type ImagePayloads []string

func (p *ImagePayloads) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*p = nil
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var one string
		if err := json.Unmarshal(data, &one); err != nil {
			return err
		}
		if one == "" {
			*p = nil
			return nil
		}
		*p = ImagePayloads{one}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return errors.New("images must be a string or a list of strings")
	}
	*p = many
	return nil
}

type CreateProductRequest struct {
	ShopID        string        `json:"shopId"`
	Name          string        `json:"name"`
	Description   string        `json:"description"`
	Category      string        `json:"category"`
	Tags          string        `json:"tags"`
	OriginalPrice float64       `json:"originalPrice"`
	DiscountPrice float64       `json:"discountPrice"`
	Stock         int           `json:"stock"`
	Images        ImagePayloads `json:"images"`
}

func (r CreateProductRequest) ToInput() service.CreateProductInput {
	return service.CreateProductInput{
		ShopID:        r.ShopID,
		Name:          r.Name,
		Description:   r.Description,
		Category:      r.Category,
		Tags:          r.Tags,
		OriginalPrice: r.OriginalPrice,
		DiscountPrice: r.DiscountPrice,
		Stock:         r.Stock,
		Images:        []string(r.Images),
	}
}

type ReviewRequest struct {
	User      models.ReviewAuthor `json:"user"`
	Rating    float64             `json:"rating"`
	Comment   string              `json:"comment"`
	ProductID string              `json:"productId"`
	OrderID   string              `json:"orderId"`
}

func (r ReviewRequest) ToInput() service.ReviewInput {
	return service.ReviewInput(r)
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

type SearchResponse struct {
	Success  bool  `json:"success"`
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	Size     int   `json:"size"`
	Products any   `json:"products"`
}
