package services

import (
	"context"
	"errors"
	"time"

	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/pkg/logger"
)

// ViewHistoryService records and lists the products a user has viewed.
type ViewHistoryService struct {
	repo        repositories.ViewHistoryRepository
	productRepo repositories.ProductRepository
	stats       *StatsService
	defaults    models.CatalogDefaults
	now         func() time.Time
}

// NewViewHistoryService creates a new ViewHistoryService.
func NewViewHistoryService(
	repo repositories.ViewHistoryRepository,
	productRepo repositories.ProductRepository,
	stats *StatsService,
	defaults models.CatalogDefaults,
) *ViewHistoryService {
	return &ViewHistoryService{
		repo:        repo,
		productRepo: productRepo,
		stats:       stats,
		defaults:    defaults,
		now:         time.Now,
	}
}

// WithClock replaces the time source. Used by tests.
func (s *ViewHistoryService) WithClock(now func() time.Time) *ViewHistoryService {
	s.now = now
	return s
}

// Record stores that the user viewed the product now. Repeated views refresh viewedAt on the same row.
func (s *ViewHistoryService) Record(ctx context.Context, userID, productID string) (*models.ViewHistory, error) {
	if _, err := s.productRepo.GetByID(ctx, productID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, notFoundError("product not found")
		}
		logger.Error(ctx).Err(err).Str("product_id", productID).Msg("failed to look up product")
		return nil, systemError("failed to save view history", err)
	}

	row, err := s.repo.Upsert(ctx, userID, productID, s.now().UTC())
	if err != nil {
		logger.Error(ctx).Err(err).Str("product_id", productID).Msg("failed to save view history")
		return nil, systemError("failed to save view history", err)
	}
	return row, nil
}

// List returns the user's viewed products, most recent first, with stats and viewedAt attached.
// Rows of inactive or missing products are dropped from the page but still counted in the total.
func (s *ViewHistoryService) List(ctx context.Context, userID, page, limit string) (*models.ProductStatsPage, error) {
	p := parsePositive(page, s.defaults.Page)
	l := capLimit(parsePositive(limit, s.defaults.Limit), s.defaults.MaxLimit)

	rows, err := s.repo.ListByUser(ctx, userID, (p-1)*l, l)
	if err != nil {
		logger.Error(ctx).Err(err).Msg("failed to list view history")
		return nil, systemError("failed to get view history", err)
	}
	total, err := s.repo.CountByUser(ctx, userID)
	if err != nil {
		logger.Error(ctx).Err(err).Msg("failed to count view history")
		return nil, systemError("failed to get view history", err)
	}

	products := make([]models.Product, 0, len(rows))
	viewedAt := make([]time.Time, 0, len(rows))
	for _, row := range rows {
		if row.Product != nil && row.Product.IsActive {
			products = append(products, *row.Product)
			viewedAt = append(viewedAt, row.ViewedAt)
		}
	}

	enriched, err := s.stats.Enrich(ctx, products)
	if err != nil {
		logger.Error(ctx).Err(err).Msg("failed to enrich view history")
		return nil, systemError("failed to get view history", err)
	}
	for i := range enriched {
		t := viewedAt[i]
		enriched[i].ViewedAt = &t
	}

	return &models.ProductStatsPage{
		Products:   enriched,
		Pagination: models.NewPagination(p, l, total),
	}, nil
}

// Clear removes every history row of the user and returns how many were removed.
func (s *ViewHistoryService) Clear(ctx context.Context, userID string) (int64, error) {
	n, err := s.repo.DeleteAllByUser(ctx, userID)
	if err != nil {
		logger.Error(ctx).Err(err).Msg("failed to clear view history")
		return 0, systemError("failed to clear view history", err)
	}
	return n, nil
}

// Remove deletes one history row. Removing a missing row succeeds.
func (s *ViewHistoryService) Remove(ctx context.Context, userID, productID string) error {
	if err := s.repo.Delete(ctx, userID, productID); err != nil {
		logger.Error(ctx).Err(err).Str("product_id", productID).Msg("failed to remove view history")
		return systemError("failed to remove from view history", err)
	}
	return nil
}
