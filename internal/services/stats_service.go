package services

import (
	"context"
	"fmt"

	"storefront/internal/models"
	"storefront/internal/repositories"
)

// StatsService attaches view and review aggregates to product lists.
type StatsService struct {
	historyRepo repositories.ViewHistoryRepository
	reviewRepo  repositories.ReviewRepository
}

// NewStatsService creates a new StatsService.
func NewStatsService(historyRepo repositories.ViewHistoryRepository, reviewRepo repositories.ReviewRepository) *StatsService {
	return &StatsService{
		historyRepo: historyRepo,
		reviewRepo:  reviewRepo,
	}
}

// Enrich returns copies of products with viewCount, avgRating and totalReviews attached.
// It issues one grouped query per aggregate regardless of the number of products.
func (s *StatsService) Enrich(ctx context.Context, products []models.Product) ([]models.ProductWithStats, error) {
	out := make([]models.ProductWithStats, len(products))
	if len(products) == 0 {
		return out, nil
	}

	seen := make(map[string]bool, len(products))
	ids := make([]string, 0, len(products))
	for _, p := range products {
		if !seen[p.ID] {
			seen[p.ID] = true
			ids = append(ids, p.ID)
		}
	}

	views, err := s.historyRepo.CountByProducts(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate views: %w", err)
	}
	ratings, err := s.reviewRepo.StatsByProducts(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate ratings: %w", err)
	}

	viewCounts := make(map[string]int64, len(views))
	for _, v := range views {
		viewCounts[v.ProductID] = v.Count
	}
	ratingStats := make(map[string]models.RatingAggregate, len(ratings))
	for _, r := range ratings {
		ratingStats[r.ProductID] = r
	}

	for i, p := range products {
		enriched := models.ProductWithStats{Product: p, ViewCount: viewCounts[p.ID]}
		enriched.Tags = append([]string(nil), p.Tags...)
		if r, ok := ratingStats[p.ID]; ok {
			enriched.AvgRating = models.RoundRating(r.AvgRating)
			enriched.TotalReviews = r.TotalReviews
		}
		out[i] = enriched
	}
	return out, nil
}
