package repositories

import (
	"context"

	"storefront/internal/models"
)

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	Search(ctx context.Context, query models.CatalogQuery) ([]models.Product, int64, error)
	Categories(ctx context.Context) ([]string, error)
	GetByID(ctx context.Context, id string) (*models.Product, error)
	Similar(ctx context.Context, product *models.Product, limit int) ([]models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
	Deactivate(ctx context.Context, id string) error
	IncrementViews(ctx context.Context, id string) error
	UpdateRating(ctx context.Context, id string, rating float64) error
	Count(ctx context.Context) (int64, error)
}
