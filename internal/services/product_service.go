package services

import (
	"context"
	"errors"
	"strings"

	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/pkg/logger"
)

// CategoryCache stores the category list between product mutations.
type CategoryCache interface {
	Categories(ctx context.Context) ([]string, bool, error)
	SetCategories(ctx context.Context, categories []string) error
	InvalidateCategories(ctx context.Context) error
}

// ProductService handles business logic related to products.
type ProductService struct {
	repo         repositories.ProductRepository
	historyRepo  repositories.ViewHistoryRepository
	cache        CategoryCache
	defaults     models.CatalogDefaults
	similarLimit int
}

// NewProductService creates a new ProductService. cache may be nil.
func NewProductService(
	repo repositories.ProductRepository,
	historyRepo repositories.ViewHistoryRepository,
	cache CategoryCache,
	defaults models.CatalogDefaults,
	similarLimit int,
) *ProductService {
	return &ProductService{
		repo:         repo,
		historyRepo:  historyRepo,
		cache:        cache,
		defaults:     defaults,
		similarLimit: similarLimit,
	}
}

// Search runs a catalog search for the raw filters.
func (s *ProductService) Search(ctx context.Context, filters models.CatalogFilters) (*models.CatalogPage, error) {
	query, applied := BuildCatalogQuery(filters, s.defaults)

	products, total, err := s.repo.Search(ctx, query)
	if err != nil {
		logger.Error(ctx).Err(err).Msg("catalog search failed")
		return nil, systemError("search failed", err)
	}
	if products == nil {
		products = []models.Product{}
	}

	return &models.CatalogPage{
		Products:   products,
		Pagination: models.NewPagination(query.Page, query.Limit, total),
		Filters:    applied,
	}, nil
}

// Categories returns the sorted distinct product categories.
func (s *ProductService) Categories(ctx context.Context) ([]string, error) {
	if s.cache != nil {
		cached, ok, err := s.cache.Categories(ctx)
		if err != nil {
			logger.Warn(ctx).Err(err).Msg("category cache read failed")
		} else if ok {
			return cached, nil
		}
	}

	categories, err := s.repo.Categories(ctx)
	if err != nil {
		logger.Error(ctx).Err(err).Msg("failed to list categories")
		return nil, systemError("failed to get categories", err)
	}
	if categories == nil {
		categories = []string{}
	}

	if s.cache != nil {
		if err := s.cache.SetCategories(ctx, categories); err != nil {
			logger.Warn(ctx).Err(err).Msg("category cache write failed")
		}
	}
	return categories, nil
}

// GetProduct returns a product by id whether or not it is active. It has no side effects.
func (s *ProductService) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, notFoundError("product not found")
		}
		logger.Error(ctx).Err(err).Str("product_id", id).Msg("failed to get product")
		return nil, systemError("failed to get product", err)
	}
	return product, nil
}

// RecordView increments the view counter of a product.
func (s *ProductService) RecordView(ctx context.Context, id string) error {
	if err := s.repo.IncrementViews(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return notFoundError("product not found")
		}
		logger.Error(ctx).Err(err).Str("product_id", id).Msg("failed to record product view")
		return systemError("failed to get product", err)
	}
	return nil
}

// ViewProduct fetches a product and then records the view on it.
func (s *ProductService) ViewProduct(ctx context.Context, id string) (*models.Product, error) {
	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.RecordView(ctx, id); err != nil {
		return nil, err
	}
	product.Views++
	return product, nil
}

// Similar returns active products in the same category, most viewed first.
func (s *ProductService) Similar(ctx context.Context, id, limit string) ([]models.Product, error) {
	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	products, err := s.repo.Similar(ctx, product, parsePositive(limit, s.similarLimit))
	if err != nil {
		logger.Error(ctx).Err(err).Str("product_id", id).Msg("failed to get similar products")
		return nil, systemError("failed to get similar products", err)
	}
	if products == nil {
		products = []models.Product{}
	}
	return products, nil
}

// ViewCount returns the number of distinct users who viewed a product.
func (s *ProductService) ViewCount(ctx context.Context, id string) (int64, error) {
	count, err := s.historyRepo.CountByProduct(ctx, id)
	if err != nil {
		logger.Error(ctx).Err(err).Str("product_id", id).Msg("failed to count product views")
		return 0, systemError("failed to get view count", err)
	}
	return count, nil
}

// CreateProduct creates a new active product. Name and price are required.
func (s *ProductService) CreateProduct(ctx context.Context, in models.ProductInput) (*models.Product, error) {
	if in.Name == nil || strings.TrimSpace(*in.Name) == "" || in.Price == nil {
		return nil, validationError("name and price are required")
	}

	product := &models.Product{IsActive: true, Tags: []string{}}
	in.Apply(product)

	if err := s.repo.Create(ctx, product); err != nil {
		logger.Error(ctx).Err(err).Msg("failed to create product")
		return nil, systemError("failed to create product", err)
	}
	s.invalidateCategories(ctx)
	return product, nil
}

// UpdateProduct applies a partial update to an existing product.
func (s *ProductService) UpdateProduct(ctx context.Context, id string, in models.ProductInput) (*models.Product, error) {
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return nil, validationError("name must not be empty")
	}

	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	in.Apply(product)

	if err := s.repo.Update(ctx, product); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, notFoundError("product not found")
		}
		logger.Error(ctx).Err(err).Str("product_id", id).Msg("failed to update product")
		return nil, systemError("failed to update product", err)
	}
	s.invalidateCategories(ctx)
	return product, nil
}

// DeleteProduct soft-deletes a product. The row stays referenceable by favorites, history and reviews.
func (s *ProductService) DeleteProduct(ctx context.Context, id string) error {
	if err := s.repo.Deactivate(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return notFoundError("product not found")
		}
		logger.Error(ctx).Err(err).Str("product_id", id).Msg("failed to delete product")
		return systemError("failed to delete product", err)
	}
	s.invalidateCategories(ctx)
	return nil
}

func (s *ProductService) invalidateCategories(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateCategories(ctx); err != nil {
		logger.Warn(ctx).Err(err).Msg("category cache invalidation failed")
	}
}
