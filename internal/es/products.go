package es

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Skotchmaster/marketplace/internal/models"
	"github.com/elastic/go-elasticsearch/v9"
)

// ProductDoc is the searchable projection of a product.
type ProductDoc struct {
	ProductID     string    `json:"productId"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Category      string    `json:"category"`
	Tags          string    `json:"tags"`
	OriginalPrice float64   `json:"originalPrice"`
	DiscountPrice float64   `json:"discountPrice"`
	Ratings       float64   `json:"ratings"`
	ShopID        string    `json:"shopId"`
	ShopName      string    `json:"shopName"`
	Image         string    `json:"image,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

func DocFromProduct(p *models.Product) ProductDoc {
	doc := ProductDoc{
		ProductID:     p.ID.Hex(),
		Name:          p.Name,
		Description:   p.Description,
		Category:      p.Category,
		Tags:          p.Tags,
		OriginalPrice: p.OriginalPrice,
		DiscountPrice: p.DiscountPrice,
		Ratings:       p.Ratings,
		ShopID:        p.ShopID.Hex(),
		ShopName:      p.Shop.Name,
		CreatedAt:     p.CreatedAt,
	}
	if len(p.Images) > 0 {
		doc.Image = p.Images[0].URL
	}
	return doc
}

type ProductIndex struct {
	client *elasticsearch.Client
	index  string
}

func NewProductIndex(client *elasticsearch.Client, index string) *ProductIndex {
	return &ProductIndex{client: client, index: index}
}

func (x *ProductIndex) IndexProduct(ctx context.Context, p *models.Product) error {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(DocFromProduct(p)); err != nil {
		return fmt.Errorf("encode product: %w", err)
	}

	res, err := x.client.Index(x.index, &buf,
		x.client.Index.WithContext(ctx),
		x.client.Index.WithDocumentID(p.ID.Hex()),
	)
	if err != nil {
		return fmt.Errorf("index product: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return responseError("index product", res.Status(), res.Body)
	}
	return nil
}

func (x *ProductIndex) DeleteProduct(ctx context.Context, id string) error {
	res, err := x.client.Delete(x.index, id, x.client.Delete.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return responseError("delete product", res.Status(), res.Body)
	}
	return nil
}

func (x *ProductIndex) Search(ctx context.Context, query string, from, size int) (int64, []ProductDoc, error) {
	body := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     query,
				"fields":    []string{"name^2", "description", "category", "tags"},
				"fuzziness": "AUTO",
			},
		},
		"from": from,
		"size": size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, nil, fmt.Errorf("encode query: %w", err)
	}

	res, err := x.client.Search(
		x.client.Search.WithContext(ctx),
		x.client.Search.WithIndex(x.index),
		x.client.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("search: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return 0, nil, responseError("search", res.Status(), res.Body)
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source ProductDoc `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, fmt.Errorf("decode search response: %w", err)
	}

	docs := make([]ProductDoc, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		docs[i] = hit.Source
	}
	return r.Hits.Total.Value, docs, nil
}

func responseError(op, status string, body io.Reader) error {
	msg, _ := io.ReadAll(io.LimitReader(body, 1024))
	return fmt.Errorf("%s: %s: %s", op, status, bytes.TrimSpace(msg))
}
