package repositories

import (
	"context"
	"time"

	"storefront/internal/models"
)

// ViewHistoryRepository defines the interface for view history data access.
type ViewHistoryRepository interface {
	// Upsert creates the (user, product) row or refreshes its ViewedAt.
	Upsert(ctx context.Context, userID, productID string, viewedAt time.Time) (*models.ViewHistory, error)
	// ListByUser returns rows most recently viewed first with their products preloaded.
	ListByUser(ctx context.Context, userID string, offset, limit int) ([]models.ViewHistory, error)
	CountByUser(ctx context.Context, userID string) (int64, error)
	Delete(ctx context.Context, userID, productID string) error
	DeleteAllByUser(ctx context.Context, userID string) (int64, error)
	CountByProduct(ctx context.Context, productID string) (int64, error)
	CountByProducts(ctx context.Context, productIDs []string) ([]models.ViewAggregate, error)
}
