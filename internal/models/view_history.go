package models

import "time"

// ViewHistory records the most recent time a user viewed a product. One row per (user, product).
type ViewHistory struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID    string    `json:"userId" gorm:"type:varchar(36);not null;uniqueIndex:idx_view_histories_user_product"`
	ProductID string    `json:"productId" gorm:"type:varchar(36);not null;uniqueIndex:idx_view_histories_user_product;index"`
	ViewedAt  time.Time `json:"viewedAt" gorm:"not null;index"`
	Product   *Product  `json:"-" gorm:"foreignKey:ProductID"`
}
