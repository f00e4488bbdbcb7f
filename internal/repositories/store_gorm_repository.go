package repositories

import (
	"errors"
	"fmt"

	"bbshop/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMStoreRepository is a GORM implementation of StoreRepository.
type GORMStoreRepository struct {
	db *gorm.DB
}

// NewGORMStoreRepository creates a new instance of GORMStoreRepository.
func NewGORMStoreRepository(db *gorm.DB) *GORMStoreRepository {
	return &GORMStoreRepository{
		db: db,
	}
}

// Create creates a new store in the database. The unique index on user_id
// is the authoritative one-store-per-seller guard; a violation surfaces as
// ErrConflict.
func (r *GORMStoreRepository) Create(store *models.Store) error {
	if store.ID == "" {
		store.ID = uuid.New().String()
	}
	if err := r.db.Create(store).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("user %s already owns a store: %w", store.UserID, models.ErrConflict)
		}
		return fmt.Errorf("failed to create store: %w", err)
	}
	return nil
}

// GetByID retrieves a single store by its ID from the database.
func (r *GORMStoreRepository) GetByID(id string) (*models.Store, error) {
	var store models.Store
	if err := r.db.First(&store, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("store with ID %s: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get store by ID %s: %w", id, err)
	}
	return &store, nil
}

// GetByUserID retrieves the store owned by the given user, if any.
func (r *GORMStoreRepository) GetByUserID(userID string) (*models.Store, error) {
	var store models.Store
	if err := r.db.First(&store, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("store for user %s: %w", userID, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get store by user ID %s: %w", userID, err)
	}
	return &store, nil
}

// SearchByName retrieves all stores whose name contains the given fragment.
func (r *GORMStoreRepository) SearchByName(name string) ([]models.Store, error) {
	var stores []models.Store
	if err := r.db.Where("name LIKE ?", "%"+name+"%").Find(&stores).Error; err != nil {
		return nil, fmt.Errorf("failed to search stores by name %q: %w", name, err)
	}
	return stores, nil
}

// Update updates an existing store in the database.
func (r *GORMStoreRepository) Update(store *models.Store) error {
	res := r.db.Save(store)
	if res.Error != nil {
		return fmt.Errorf("failed to update store: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("store with ID %s: %w", store.ID, models.ErrNotFound)
	}
	return nil
}

// Delete deletes a store by its ID from the database.
func (r *GORMStoreRepository) Delete(id string) error {
	res := r.db.Delete(&models.Store{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete store: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("store with ID %s: %w", id, models.ErrNotFound)
	}
	return nil
}
