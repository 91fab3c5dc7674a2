package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/pkg/logger"
)

// ReviewService handles product reviews and keeps Product.Rating in step with them.
type ReviewService struct {
	repo         repositories.ReviewRepository
	productRepo  repositories.ProductRepository
	defaultLimit int
	maxLimit     int
}

// NewReviewService creates a new ReviewService.
func NewReviewService(repo repositories.ReviewRepository, productRepo repositories.ProductRepository, defaultLimit, maxLimit int) *ReviewService {
	return &ReviewService{
		repo:         repo,
		productRepo:  productRepo,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
	}
}

// Create adds a review to an existing product.
func (s *ReviewService) Create(ctx context.Context, userID string, in models.ReviewInput) (*models.Review, error) {
	if err := checkReview(in.Rating, in.Comment); err != nil {
		return nil, err
	}
	if _, err := s.productRepo.GetByID(ctx, in.ProductID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, notFoundError("product not found")
		}
		logger.Error(ctx).Err(err).Str("product_id", in.ProductID).Msg("failed to look up product")
		return nil, systemError("failed to create review", err)
	}

	review := &models.Review{
		UserID:    userID,
		ProductID: in.ProductID,
		Rating:    in.Rating,
		Comment:   in.Comment,
	}
	if err := s.repo.Create(ctx, review); err != nil {
		logger.Error(ctx).Err(err).Str("product_id", in.ProductID).Msg("failed to create review")
		return nil, systemError("failed to create review", err)
	}
	if err := s.recomputeRating(ctx, in.ProductID); err != nil {
		return nil, systemError("failed to create review", err)
	}
	return review, nil
}

// Update edits a review owned by userID. Reviews of other users are reported as not found.
func (s *ReviewService) Update(ctx context.Context, userID, reviewID string, in models.ReviewUpdate) (*models.Review, error) {
	if err := checkReview(in.Rating, in.Comment); err != nil {
		return nil, err
	}
	review, err := s.owned(ctx, userID, reviewID, "failed to update review")
	if err != nil {
		return nil, err
	}

	review.Rating = in.Rating
	review.Comment = in.Comment
	review.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, review); err != nil {
		logger.Error(ctx).Err(err).Str("review_id", reviewID).Msg("failed to update review")
		return nil, systemError("failed to update review", err)
	}
	if err := s.recomputeRating(ctx, review.ProductID); err != nil {
		return nil, systemError("failed to update review", err)
	}
	return review, nil
}

// Delete removes a review owned by userID.
func (s *ReviewService) Delete(ctx context.Context, userID, reviewID string) error {
	review, err := s.owned(ctx, userID, reviewID, "failed to delete review")
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, review.ID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return notFoundError("review not found or not owned by user")
		}
		logger.Error(ctx).Err(err).Str("review_id", reviewID).Msg("failed to delete review")
		return systemError("failed to delete review", err)
	}
	if err := s.recomputeRating(ctx, review.ProductID); err != nil {
		return systemError("failed to delete review", err)
	}
	return nil
}

// List returns one page of a product's reviews, newest first.
func (s *ReviewService) List(ctx context.Context, productID, page, limit string) (*models.ReviewPage, error) {
	p := parsePositive(page, 1)
	l := capLimit(parsePositive(limit, s.defaultLimit), s.maxLimit)

	reviews, err := s.repo.ListByProduct(ctx, productID, (p-1)*l, l)
	if err != nil {
		logger.Error(ctx).Err(err).Str("product_id", productID).Msg("failed to list reviews")
		return nil, systemError("failed to get reviews", err)
	}
	total, err := s.repo.CountByProduct(ctx, productID)
	if err != nil {
		logger.Error(ctx).Err(err).Str("product_id", productID).Msg("failed to count reviews")
		return nil, systemError("failed to get reviews", err)
	}
	if reviews == nil {
		reviews = []models.Review{}
	}

	return &models.ReviewPage{
		Reviews:    reviews,
		Pagination: models.NewPagination(p, l, total),
	}, nil
}

// Stats summarizes a product's reviews. Every star value from 1 to 5 is present in the distribution.
func (s *ReviewService) Stats(ctx context.Context, productID string) (*models.ReviewStats, error) {
	avg, total, err := s.repo.AverageForProduct(ctx, productID)
	if err != nil {
		logger.Error(ctx).Err(err).Str("product_id", productID).Msg("failed to average reviews")
		return nil, systemError("failed to get review stats", err)
	}
	dist, err := s.repo.Distribution(ctx, productID)
	if err != nil {
		logger.Error(ctx).Err(err).Str("product_id", productID).Msg("failed to group reviews")
		return nil, systemError("failed to get review stats", err)
	}

	stats := &models.ReviewStats{
		TotalReviews:       total,
		RatingDistribution: make(map[int]int64, 5),
	}
	if total > 0 {
		stats.AvgRating = models.RoundRating(avg)
	}
	for star := 1; star <= 5; star++ {
		stats.RatingDistribution[star] = dist[star]
	}
	return stats, nil
}

func (s *ReviewService) owned(ctx context.Context, userID, reviewID, failure string) (*models.Review, error) {
	review, err := s.repo.GetOwned(ctx, reviewID, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, notFoundError("review not found or not owned by user")
		}
		logger.Error(ctx).Err(err).Str("review_id", reviewID).Msg("failed to look up review")
		return nil, systemError(failure, err)
	}
	return review, nil
}

// recomputeRating stores the rounded mean of the remaining reviews, or 0 when none remain.
// It is not transactional with the review write; concurrent writers race on the stored value.
func (s *ReviewService) recomputeRating(ctx context.Context, productID string) error {
	avg, total, err := s.repo.AverageForProduct(ctx, productID)
	if err != nil {
		logger.Error(ctx).Err(err).Str("product_id", productID).Msg("failed to average reviews")
		return err
	}

	rating := 0.0
	if total > 0 {
		rating = models.RoundRating(avg)
	}
	if err := s.productRepo.UpdateRating(ctx, productID, rating); err != nil {
		logger.Error(ctx).Err(err).Str("product_id", productID).Msg("failed to update product rating")
		return err
	}
	return nil
}

func checkReview(rating int, comment string) error {
	if rating < 1 || rating > 5 {
		return validationError("rating must be between 1 and 5")
	}
	if strings.TrimSpace(comment) == "" {
		return validationError("comment is required")
	}
	if len([]rune(comment)) > 1000 {
		return validationError("comment must be at most 1000 characters")
	}
	return nil
}
