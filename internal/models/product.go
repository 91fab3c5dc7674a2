package models

import (
	"time"

	"storefront/pkg/textfold"

	"gorm.io/gorm"
)

// Product represents a product in the store.
// Rating and Views are denormalized counters maintained by the review and view paths.
type Product struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name        string    `json:"name" gorm:"not null"`
	Description string    `json:"description"`
	Price       float64   `json:"price" gorm:"not null;index"`
	Discount    float64   `json:"discount" gorm:"not null;default:0"`
	FinalPrice  float64   `json:"finalPrice" gorm:"-"`
	Views       int64     `json:"views" gorm:"not null;default:0"`
	Stock       int       `json:"stock" gorm:"not null;default:0"`
	Image       string    `json:"image"`
	Category    string    `json:"category" gorm:"index"`
	Tags        []string  `json:"tags" gorm:"serializer:json"`
	Rating      float64   `json:"rating" gorm:"not null;default:0"`
	IsActive    bool      `json:"isActive" gorm:"not null;index"`
	SearchText  string    `json:"-" gorm:"type:text"`
	CreatedAt   time.Time `json:"createdAt" gorm:"index"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// BeforeSave refreshes the folded search document.
func (p *Product) BeforeSave(tx *gorm.DB) error {
	p.SearchText = textfold.Document(append([]string{p.Name, p.Description}, p.Tags...)...)
	p.FinalPrice = FinalPrice(p.Price, p.Discount)
	return nil
}

// AfterFind recomputes the virtual final price on every read.
func (p *Product) AfterFind(tx *gorm.DB) error {
	p.FinalPrice = FinalPrice(p.Price, p.Discount)
	return nil
}

// ProductWithStats is a product enriched with aggregates computed from view history and reviews.
// ViewCount counts distinct viewers and differs from the Views counter; AvgRating is computed on read
// while Rating is the stored average.
type ProductWithStats struct {
	Product
	ViewedAt     *time.Time `json:"viewedAt,omitempty"`
	ViewCount    int64      `json:"viewCount"`
	AvgRating    float64    `json:"avgRating"`
	TotalReviews int64      `json:"totalReviews"`
}

// ProductInput carries the writable product fields. Nil fields are left unchanged on update.
type ProductInput struct {
	Name        *string  `json:"name" validate:"omitempty,min=1,max=200"`
	Description *string  `json:"description" validate:"omitempty,max=5000"`
	Price       *float64 `json:"price" validate:"omitempty,gte=0"`
	Discount    *float64 `json:"discount" validate:"omitempty,gte=0,lte=100"`
	Stock       *int     `json:"stock" validate:"omitempty,gte=0"`
	Image       *string  `json:"image" validate:"omitempty,max=2048"`
	Category    *string  `json:"category" validate:"omitempty,max=100"`
	Tags        []string `json:"tags" validate:"omitempty,max=20,dive,min=1,max=50"`
}

// Apply copies the non-nil fields of in onto p.
func (in ProductInput) Apply(p *Product) {
	if in.Name != nil {
		p.Name = *in.Name
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.Discount != nil {
		p.Discount = *in.Discount
	}
	if in.Stock != nil {
		p.Stock = *in.Stock
	}
	if in.Image != nil {
		p.Image = *in.Image
	}
	if in.Category != nil {
		p.Category = *in.Category
	}
	if in.Tags != nil {
		p.Tags = append([]string(nil), in.Tags...)
	}
	p.FinalPrice = FinalPrice(p.Price, p.Discount)
}
