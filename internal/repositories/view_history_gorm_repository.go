package repositories

import (
	"context"
	"fmt"
	"time"

	"storefront/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMViewHistoryRepository is a GORM implementation of ViewHistoryRepository.
type GORMViewHistoryRepository struct {
	db *gorm.DB
}

// NewGORMViewHistoryRepository creates a new instance of GORMViewHistoryRepository.
func NewGORMViewHistoryRepository(db *gorm.DB) *GORMViewHistoryRepository {
	return &GORMViewHistoryRepository{db: db}
}

// Upsert relies on the unique (user_id, product_id) index; a conflict only refreshes viewed_at.
func (r *GORMViewHistoryRepository) Upsert(ctx context.Context, userID, productID string, viewedAt time.Time) (*models.ViewHistory, error) {
	row := models.ViewHistory{
		ID:        uuid.New().String(),
		UserID:    userID,
		ProductID: productID,
		ViewedAt:  viewedAt,
	}
	err := r.db.WithContext(ctx).
		Omit("Product").
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"viewed_at"}),
		}).
		Create(&row).Error
	if err != nil {
		return nil, fmt.Errorf("failed to upsert view history: %w", err)
	}

	var stored models.ViewHistory
	err = r.db.WithContext(ctx).First(&stored, "user_id = ? AND product_id = ?", userID, productID).Error
	if err != nil {
		return nil, fmt.Errorf("failed to read view history: %w", translate(err))
	}
	return &stored, nil
}

// ListByUser returns one page of the user's history, most recent first.
func (r *GORMViewHistoryRepository) ListByUser(ctx context.Context, userID string, offset, limit int) ([]models.ViewHistory, error) {
	var rows []models.ViewHistory
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("user_id = ?", userID).
		Order("viewed_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list view history: %w", err)
	}
	return rows, nil
}

// CountByUser counts all history rows of the user.
func (r *GORMViewHistoryRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ViewHistory{}).Where("user_id = ?", userID).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count view history: %w", err)
	}
	return count, nil
}

// Delete removes one history row. Deleting a missing row is not an error.
func (r *GORMViewHistoryRepository) Delete(ctx context.Context, userID, productID string) error {
	err := r.db.WithContext(ctx).Where("user_id = ? AND product_id = ?", userID, productID).Delete(&models.ViewHistory{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete view history: %w", err)
	}
	return nil
}

// DeleteAllByUser clears the user's history and returns the number of removed rows.
func (r *GORMViewHistoryRepository) DeleteAllByUser(ctx context.Context, userID string) (int64, error) {
	res := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.ViewHistory{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to clear view history: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// CountByProduct counts the distinct users who viewed the product.
func (r *GORMViewHistoryRepository) CountByProduct(ctx context.Context, productID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ViewHistory{}).Where("product_id = ?", productID).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count product views: %w", err)
	}
	return count, nil
}

// CountByProducts groups history rows by product in a single query.
func (r *GORMViewHistoryRepository) CountByProducts(ctx context.Context, productIDs []string) ([]models.ViewAggregate, error) {
	var rows []models.ViewAggregate
	if len(productIDs) == 0 {
		return rows, nil
	}
	err := r.db.WithContext(ctx).Model(&models.ViewHistory{}).
		Select("product_id, COUNT(*) AS count").
		Where("product_id IN ?", productIDs).
		Group("product_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate view history: %w", err)
	}
	return rows, nil
}
