// Package imagestore uploads product and shop images and removes them again.
package imagestore

import (
	"context"

	"github.com/Skotchmaster/marketplace/internal/models"
)

type Store interface {
	// Upload stores one image payload under folder and returns its reference.
	Upload(ctx context.Context, folder, payload string) (models.Image, error)
	Delete(ctx context.Context, publicID string) error
}
