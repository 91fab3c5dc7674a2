package models

import "time"

// Review is a user's rating and comment on a product.
// Several reviews by the same user on the same product are allowed.
type Review struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID    string    `json:"userId" gorm:"type:varchar(36);not null;index"`
	ProductID string    `json:"productId" gorm:"type:varchar(36);not null;index:idx_reviews_product_created"`
	Rating    int       `json:"rating" gorm:"not null"`
	Comment   string    `json:"comment" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"createdAt" gorm:"index:idx_reviews_product_created,sort:desc"`
	UpdatedAt time.Time `json:"updatedAt"`
	Author    *Author   `json:"user,omitempty" gorm:"-"`
}

// ReviewStats summarizes the reviews of one product.
type ReviewStats struct {
	TotalReviews       int64         `json:"totalReviews"`
	AvgRating          float64       `json:"avgRating"`
	RatingDistribution map[int]int64 `json:"ratingDistribution"`
}

// RatingAggregate is the grouped review result for one product.
type RatingAggregate struct {
	ProductID    string
	AvgRating    float64
	TotalReviews int64
}

// ViewAggregate is the grouped view-history result for one product.
type ViewAggregate struct {
	ProductID string
	Count     int64
}

// ReviewInput is the body of a new review.
type ReviewInput struct {
	ProductID string `json:"productId" validate:"required"`
	Rating    int    `json:"rating" validate:"required,min=1,max=5"`
	Comment   string `json:"comment" validate:"required,max=1000"`
}

// ReviewUpdate is the body of a review edit.
type ReviewUpdate struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"required,max=1000"`
}
