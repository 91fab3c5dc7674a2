package services

import (
	"context"
	"errors"

	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/pkg/logger"
)

// FavoriteService manages the favorites of a user.
type FavoriteService struct {
	repo        repositories.FavoriteRepository
	productRepo repositories.ProductRepository
	stats       *StatsService
	defaults    models.CatalogDefaults
}

// NewFavoriteService creates a new FavoriteService.
func NewFavoriteService(
	repo repositories.FavoriteRepository,
	productRepo repositories.ProductRepository,
	stats *StatsService,
	defaults models.CatalogDefaults,
) *FavoriteService {
	return &FavoriteService{
		repo:        repo,
		productRepo: productRepo,
		stats:       stats,
		defaults:    defaults,
	}
}

// Add favorites a product. Favoriting the same product twice is a conflict.
func (s *FavoriteService) Add(ctx context.Context, userID, productID string) (*models.Favorite, error) {
	if _, err := s.productRepo.GetByID(ctx, productID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, notFoundError("product not found")
		}
		logger.Error(ctx).Err(err).Str("product_id", productID).Msg("failed to look up product")
		return nil, systemError("failed to add favorite", err)
	}

	favorite := &models.Favorite{UserID: userID, ProductID: productID}
	if err := s.repo.Create(ctx, favorite); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, conflictError("already favorited", err)
		}
		logger.Error(ctx).Err(err).Str("product_id", productID).Msg("failed to add favorite")
		return nil, systemError("failed to add favorite", err)
	}
	return favorite, nil
}

// Remove deletes a favorite.
func (s *FavoriteService) Remove(ctx context.Context, userID, productID string) error {
	if err := s.repo.Delete(ctx, userID, productID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return notFoundError("product is not in favorites")
		}
		logger.Error(ctx).Err(err).Str("product_id", productID).Msg("failed to remove favorite")
		return systemError("failed to remove favorite", err)
	}
	return nil
}

// IsFavorite reports whether the user has favorited the product.
func (s *FavoriteService) IsFavorite(ctx context.Context, userID, productID string) (bool, error) {
	ok, err := s.repo.Exists(ctx, userID, productID)
	if err != nil {
		logger.Error(ctx).Err(err).Str("product_id", productID).Msg("failed to check favorite")
		return false, systemError("failed to check favorite", err)
	}
	return ok, nil
}

// List returns the user's favorited products, newest first, with stats attached.
// Favorites of inactive or missing products are dropped from the page but still counted in the total.
func (s *FavoriteService) List(ctx context.Context, userID, page, limit string) (*models.ProductStatsPage, error) {
	p := parsePositive(page, s.defaults.Page)
	l := capLimit(parsePositive(limit, s.defaults.Limit), s.defaults.MaxLimit)

	rows, err := s.repo.ListByUser(ctx, userID, (p-1)*l, l)
	if err != nil {
		logger.Error(ctx).Err(err).Msg("failed to list favorites")
		return nil, systemError("failed to get favorites", err)
	}
	total, err := s.repo.CountByUser(ctx, userID)
	if err != nil {
		logger.Error(ctx).Err(err).Msg("failed to count favorites")
		return nil, systemError("failed to get favorites", err)
	}

	products := make([]models.Product, 0, len(rows))
	for _, row := range rows {
		if row.Product != nil && row.Product.IsActive {
			products = append(products, *row.Product)
		}
	}

	enriched, err := s.stats.Enrich(ctx, products)
	if err != nil {
		logger.Error(ctx).Err(err).Msg("failed to enrich favorites")
		return nil, systemError("failed to get favorites", err)
	}

	return &models.ProductStatsPage{
		Products:   enriched,
		Pagination: models.NewPagination(p, l, total),
	}, nil
}

func capLimit(limit, max int) int {
	if max > 0 && limit > max {
		return max
	}
	return limit
}
