package repositories

import (
	"context"

	"storefront/internal/models"
)

// ReviewRepository defines the interface for review data access.
type ReviewRepository interface {
	Create(ctx context.Context, review *models.Review) error
	// GetOwned returns the review only when it belongs to userID.
	GetOwned(ctx context.Context, id, userID string) (*models.Review, error)
	Update(ctx context.Context, review *models.Review) error
	Delete(ctx context.Context, id string) error
	// ListByProduct returns reviews newest first with their authors attached.
	ListByProduct(ctx context.Context, productID string, offset, limit int) ([]models.Review, error)
	CountByProduct(ctx context.Context, productID string) (int64, error)
	// AverageForProduct returns the mean rating and the review count; the mean is 0 without reviews.
	AverageForProduct(ctx context.Context, productID string) (float64, int64, error)
	Distribution(ctx context.Context, productID string) (map[int]int64, error)
	StatsByProducts(ctx context.Context, productIDs []string) ([]models.RatingAggregate, error)
}
