package models

import "time"

// Favorite marks a product as favorited by a user. One row per (user, product).
type Favorite struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID    string    `json:"userId" gorm:"type:varchar(36);not null;uniqueIndex:idx_favorites_user_product"`
	ProductID string    `json:"productId" gorm:"type:varchar(36);not null;uniqueIndex:idx_favorites_user_product;index"`
	CreatedAt time.Time `json:"createdAt" gorm:"index"`
	Product   *Product  `json:"-" gorm:"foreignKey:ProductID"`
}
