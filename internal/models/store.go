package models

import "time"

// Store is a seller's catalog container. A user owns at most one store,
// and the owning user never changes after creation.
type Store struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name      string    `json:"name" gorm:"index;type:varchar(100)" validate:"required,min=3,max=100"`
	UserID    string    `json:"user_id" gorm:"uniqueIndex;type:varchar(36)"`
	LogoURL   string    `json:"logo_url" gorm:"type:varchar(512)"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
