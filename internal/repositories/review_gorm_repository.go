package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"storefront/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMReviewRepository is a GORM implementation of ReviewRepository.
type GORMReviewRepository struct {
	db *gorm.DB
}

// NewGORMReviewRepository creates a new instance of GORMReviewRepository.
func NewGORMReviewRepository(db *gorm.DB) *GORMReviewRepository {
	return &GORMReviewRepository{db: db}
}

// Create creates a new review in the database.
func (r *GORMReviewRepository) Create(ctx context.Context, review *models.Review) error {
	if review.ID == "" {
		review.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Create(review).Error; err != nil {
		return fmt.Errorf("failed to create review: %w", err)
	}
	return r.attachAuthors(ctx, []*models.Review{review})
}

// GetOwned retrieves a review by ID only if userID wrote it.
func (r *GORMReviewRepository) GetOwned(ctx context.Context, id, userID string) (*models.Review, error) {
	var review models.Review
	if err := r.db.WithContext(ctx).First(&review, "id = ? AND user_id = ?", id, userID).Error; err != nil {
		if err = translate(err); err == ErrNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get review %s: %w", id, err)
	}
	return &review, nil
}

// Update saves the rating and comment of a review.
func (r *GORMReviewRepository) Update(ctx context.Context, review *models.Review) error {
	err := r.db.WithContext(ctx).Model(review).Select("rating", "comment", "updated_at").Updates(review).Error
	if err != nil {
		return fmt.Errorf("failed to update review: %w", err)
	}
	return r.attachAuthors(ctx, []*models.Review{review})
}

// Delete removes a review by its ID.
func (r *GORMReviewRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.Review{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete review: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListByProduct returns one page of a product's reviews, newest first.
func (r *GORMReviewRepository) ListByProduct(ctx context.Context, productID string, offset, limit int) ([]models.Review, error) {
	var reviews []models.Review
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&reviews).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}

	refs := make([]*models.Review, len(reviews))
	for i := range reviews {
		refs[i] = &reviews[i]
	}
	if err := r.attachAuthors(ctx, refs); err != nil {
		return nil, err
	}
	return reviews, nil
}

// attachAuthors loads the public author data of all reviews in one query.
func (r *GORMReviewRepository) attachAuthors(ctx context.Context, reviews []*models.Review) error {
	if len(reviews) == 0 {
		return nil
	}
	ids := make([]string, 0, len(reviews))
	for _, review := range reviews {
		ids = append(ids, review.UserID)
	}

	var authors []models.Author
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Select("id, name, email").
		Where("id IN ?", ids).
		Scan(&authors).Error
	if err != nil {
		return fmt.Errorf("failed to load review authors: %w", err)
	}

	byID := make(map[string]models.Author, len(authors))
	for _, a := range authors {
		byID[a.ID] = a
	}
	for _, review := range reviews {
		if a, ok := byID[review.UserID]; ok {
			author := a
			review.Author = &author
		}
	}
	return nil
}

// CountByProduct counts the reviews of a product.
func (r *GORMReviewRepository) CountByProduct(ctx context.Context, productID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Review{}).Where("product_id = ?", productID).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count reviews: %w", err)
	}
	return count, nil
}

// AverageForProduct returns the unrounded mean rating and the review count.
func (r *GORMReviewRepository) AverageForProduct(ctx context.Context, productID string) (float64, int64, error) {
	var row struct {
		Avg   sql.NullFloat64
		Total int64
	}
	err := r.db.WithContext(ctx).Model(&models.Review{}).
		Select("AVG(rating) AS avg, COUNT(*) AS total").
		Where("product_id = ?", productID).
		Scan(&row).Error
	if err != nil {
		return 0, 0, fmt.Errorf("failed to average ratings: %w", err)
	}
	return row.Avg.Float64, row.Total, nil
}

// Distribution counts reviews per star value; stars without reviews are absent.
func (r *GORMReviewRepository) Distribution(ctx context.Context, productID string) (map[int]int64, error) {
	var rows []struct {
		Rating int
		Total  int64
	}
	err := r.db.WithContext(ctx).Model(&models.Review{}).
		Select("rating, COUNT(*) AS total").
		Where("product_id = ?", productID).
		Group("rating").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to group ratings: %w", err)
	}

	out := make(map[int]int64, len(rows))
	for _, row := range rows {
		out[row.Rating] = row.Total
	}
	return out, nil
}

// StatsByProducts groups reviews by product in a single query. AvgRating is unrounded.
func (r *GORMReviewRepository) StatsByProducts(ctx context.Context, productIDs []string) ([]models.RatingAggregate, error) {
	var rows []models.RatingAggregate
	if len(productIDs) == 0 {
		return rows, nil
	}
	err := r.db.WithContext(ctx).Model(&models.Review{}).
		Select("product_id, AVG(rating) AS avg_rating, COUNT(*) AS total_reviews").
		Where("product_id IN ?", productIDs).
		Group("product_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate reviews: %w", err)
	}
	return rows, nil
}
