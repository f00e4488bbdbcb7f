package models

import "time"

// ShoppingCart and CartItem are part of the persisted schema but have no
// API surface yet; they are migrated alongside the other entities.

type ShoppingCart struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	BuyerID   string    `json:"buyer_id" gorm:"index;type:varchar(36)"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CartItem struct {
	ID        string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	CartID    string `json:"cart_id" gorm:"index;type:varchar(36)"`
	ProductID string `json:"product_id" gorm:"type:varchar(36)"`
	Quantity  int    `json:"quantity"`
}
