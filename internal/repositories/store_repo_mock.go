package repositories

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"bbshop/internal/models"

	"github.com/google/uuid"
)

// MockStoreRepository is an in-memory implementation of StoreRepository.
type MockStoreRepository struct {
	stores map[string]models.Store
	mu     sync.RWMutex
}

// NewMockStoreRepository creates a new instance of MockStoreRepository.
func NewMockStoreRepository() *MockStoreRepository {
	return &MockStoreRepository{
		stores: make(map[string]models.Store),
	}
}

// Create adds a new store, enforcing one store per user like the unique
// index does.
func (r *MockStoreRepository) Create(store *models.Store) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.stores {
		if existing.UserID == store.UserID {
			return fmt.Errorf("user %s already owns a store: %w", store.UserID, models.ErrConflict)
		}
	}

	if store.ID == "" {
		store.ID = uuid.New().String()
	}
	store.CreatedAt = time.Now()
	store.UpdatedAt = time.Now()
	r.stores[store.ID] = *store
	return nil
}

// GetByID returns a store by its ID.
func (r *MockStoreRepository) GetByID(id string) (*models.Store, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	store, ok := r.stores[id]
	if !ok {
		return nil, fmt.Errorf("store with ID %s: %w", id, models.ErrNotFound)
	}
	return &store, nil
}

// GetByUserID returns the store owned by the given user, if any.
func (r *MockStoreRepository) GetByUserID(userID string) (*models.Store, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, store := range r.stores {
		if store.UserID == userID {
			s := store
			return &s, nil
		}
	}
	return nil, fmt.Errorf("store for user %s: %w", userID, models.ErrNotFound)
}

// SearchByName returns all stores whose name contains the given fragment.
func (r *MockStoreRepository) SearchByName(name string) ([]models.Store, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matches []models.Store
	for _, store := range r.stores {
		if strings.Contains(strings.ToLower(store.Name), strings.ToLower(name)) {
			matches = append(matches, store)
		}
	}
	return matches, nil
}

// Update modifies an existing store.
func (r *MockStoreRepository) Update(store *models.Store) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.stores[store.ID]; !ok {
		return fmt.Errorf("store with ID %s: %w", store.ID, models.ErrNotFound)
	}
	store.UpdatedAt = time.Now()
	r.stores[store.ID] = *store
	return nil
}

// Delete removes a store by its ID.
func (r *MockStoreRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.stores[id]; !ok {
		return fmt.Errorf("store with ID %s: %w", id, models.ErrNotFound)
	}
	delete(r.stores, id)
	return nil
}
