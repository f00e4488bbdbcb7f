package services

import (
	"errors"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"time"

	"bbshop/internal/models"
	"bbshop/internal/repositories"
	"bbshop/pkg/storage"

	"github.com/google/uuid"
)

// Upload is an optional multipart file forwarded from a handler to a
// service. A nil *Upload means no file was sent.
type Upload struct {
	Filename string
	Content  io.Reader
}

// StoreResponse is the store representation returned to clients, with the
// owner's username joined in explicitly.
type StoreResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	LogoURL   string    `json:"logo_url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// StoreService handles business logic for stores.
type StoreService struct {
	storeRepo repositories.StoreRepository
	userRepo  repositories.UserRepository
	files     storage.Storage
}

// NewStoreService creates a new StoreService.
func NewStoreService(storeRepo repositories.StoreRepository, userRepo repositories.UserRepository, files storage.Storage) *StoreService {
	return &StoreService{
		storeRepo: storeRepo,
		userRepo:  userRepo,
		files:     files,
	}
}

// Create opens a store for the calling seller. A user may own at most one
// store, and only sellers may open one.
func (s *StoreService) Create(caller Caller, name string, logo *Upload) (*StoreResponse, error) {
	if caller.Role != models.RoleSeller {
		return nil, fmt.Errorf("role %s may not create a store: %w", caller.Role, models.ErrForbidden)
	}
	existing, err := s.storeRepo.GetByUserID(caller.ID)
	if err == nil && existing != nil {
		return nil, fmt.Errorf("user %s already owns store %s: %w", caller.ID, existing.ID, models.ErrConflict)
	}
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		return nil, fmt.Errorf("failed to check for existing store of user %s: %w", caller.ID, err)
	}

	store := &models.Store{
		Name:   name,
		UserID: caller.ID,
	}

	if logo != nil {
		url, err := s.saveFile("stores", logo)
		if err != nil {
			return nil, err
		}
		store.LogoURL = url
	}

	if err := s.storeRepo.Create(store); err != nil {
		return nil, fmt.Errorf("failed to create store: %w", err)
	}
	return s.toResponse(store), nil
}

// GetByID retrieves a single store.
func (s *StoreService) GetByID(id string) (*StoreResponse, error) {
	store, err := s.storeRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	return s.toResponse(store), nil
}

// GetByUserID retrieves the store owned by the given user.
func (s *StoreService) GetByUserID(userID string) (*StoreResponse, error) {
	store, err := s.storeRepo.GetByUserID(userID)
	if err != nil {
		return nil, err
	}
	return s.toResponse(store), nil
}

// SearchByName retrieves all stores whose name contains the fragment.
func (s *StoreService) SearchByName(name string) ([]StoreResponse, error) {
	stores, err := s.storeRepo.SearchByName(name)
	if err != nil {
		return nil, err
	}
	responses := make([]StoreResponse, 0, len(stores))
	for i := range stores {
		responses = append(responses, *s.toResponse(&stores[i]))
	}
	return responses, nil
}

// Update renames a store and optionally replaces its logo. Only the owner
// or an admin may do so; the owning user never changes.
func (s *StoreService) Update(caller Caller, id, name string, logo *Upload) (*StoreResponse, error) {
	store, err := s.storeRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if !caller.IsAdmin() && store.UserID != caller.ID {
		return nil, fmt.Errorf("user %s does not own store %s: %w", caller.ID, id, models.ErrForbidden)
	}

	store.Name = name
	if logo != nil {
		url, err := s.saveFile("stores", logo)
		if err != nil {
			return nil, err
		}
		store.LogoURL = url
	}

	if err := s.storeRepo.Update(store); err != nil {
		return nil, fmt.Errorf("failed to update store %s: %w", id, err)
	}
	return s.toResponse(store), nil
}

// Delete removes a store. Only the owner or an admin may do so.
func (s *StoreService) Delete(caller Caller, id string) error {
	store, err := s.storeRepo.GetByID(id)
	if err != nil {
		return err
	}
	if !caller.IsAdmin() && store.UserID != caller.ID {
		return fmt.Errorf("user %s does not own store %s: %w", caller.ID, id, models.ErrForbidden)
	}
	return s.storeRepo.Delete(id)
}

// saveFile stores an upload under dir with a generated name, keeping the
// original extension.
func (s *StoreService) saveFile(dir string, upload *Upload) (string, error) {
	if s.files == nil {
		return "", errors.New("file storage is not configured")
	}
	filename := uuid.New().String() + filepath.Ext(upload.Filename)
	url, err := s.files.Save(dir, filename, upload.Content)
	if err != nil {
		return "", fmt.Errorf("failed to save uploaded file: %w", err)
	}
	return url, nil
}

// toResponse joins the owner's username onto the store record. A missing
// owner only logs; the store itself is still returned.
func (s *StoreService) toResponse(store *models.Store) *StoreResponse {
	resp := &StoreResponse{
		ID:        store.ID,
		Name:      store.Name,
		UserID:    store.UserID,
		LogoURL:   store.LogoURL,
		CreatedAt: store.CreatedAt,
		UpdatedAt: store.UpdatedAt,
	}
	owner, err := s.userRepo.GetByID(store.UserID)
	if err != nil {
		log.Printf("Owner lookup failed for store %s: %v", store.ID, err)
		return resp
	}
	resp.Username = owner.Username
	return resp
}
