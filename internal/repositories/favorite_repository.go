package repositories

import (
	"context"

	"storefront/internal/models"
)

// FavoriteRepository defines the interface for favorite data access.
type FavoriteRepository interface {
	Create(ctx context.Context, favorite *models.Favorite) error
	Delete(ctx context.Context, userID, productID string) error
	Exists(ctx context.Context, userID, productID string) (bool, error)
	// ListByUser returns favorites newest first with their products preloaded.
	ListByUser(ctx context.Context, userID string, offset, limit int) ([]models.Favorite, error)
	CountByUser(ctx context.Context, userID string) (int64, error)
}
