package repositories

import "bbshop/internal/models"

// StoreRepository defines the interface for store data access.
type StoreRepository interface {
	Create(store *models.Store) error
	GetByID(id string) (*models.Store, error)
	GetByUserID(userID string) (*models.Store, error)
	SearchByName(name string) ([]models.Store, error)
	Update(store *models.Store) error
	Delete(id string) error
}
