package services

import (
	"errors"
	"fmt"
	"path/filepath"

	"bbshop/internal/models"
	"bbshop/internal/repositories"
	"bbshop/pkg/storage"

	"github.com/google/uuid"
)

// CreateProductRequest is the payload for adding a product to a store.
type CreateProductRequest struct {
	Name        string  `json:"name" validate:"required,min=3,max=100"`
	Description string  `json:"description" validate:"omitempty,max=500"`
	Price       float64 `json:"price" validate:"gte=0"`
	Stock       int     `json:"stock" validate:"gte=0"`
	StoreID     string  `json:"store_id" validate:"required"`
}

// UpdateProductRequest carries the mutable fields of a product. The owning
// store never changes.
type UpdateProductRequest struct {
	Name        string  `json:"name" validate:"required,min=3,max=100"`
	Description string  `json:"description" validate:"omitempty,max=500"`
	Price       float64 `json:"price" validate:"gte=0"`
	Stock       int     `json:"stock" validate:"gte=0"`
}

// ProductService handles business logic for products.
type ProductService struct {
	productRepo repositories.ProductRepository
	storeRepo   repositories.StoreRepository
	files       storage.Storage
}

// NewProductService creates a new ProductService.
func NewProductService(productRepo repositories.ProductRepository, storeRepo repositories.StoreRepository, files storage.Storage) *ProductService {
	return &ProductService{
		productRepo: productRepo,
		storeRepo:   storeRepo,
		files:       files,
	}
}

// Create adds a product to a store. The caller must own the store or be an
// admin.
func (s *ProductService) Create(caller Caller, req CreateProductRequest, image *Upload) (*models.Product, error) {
	store, err := s.storeRepo.GetByID(req.StoreID)
	if err != nil {
		return nil, err
	}
	if !caller.IsAdmin() && store.UserID != caller.ID {
		return nil, fmt.Errorf("user %s does not own store %s: %w", caller.ID, req.StoreID, models.ErrForbidden)
	}

	product := &models.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		StoreID:     req.StoreID,
	}

	if image != nil {
		url, err := s.saveFile("products", image)
		if err != nil {
			return nil, err
		}
		product.ImageURL = url
	}

	if err := s.productRepo.Create(product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return product, nil
}

// GetByID retrieves a single product.
func (s *ProductService) GetByID(id string) (*models.Product, error) {
	return s.productRepo.GetByID(id)
}

// GetByStoreID retrieves all products in a store.
func (s *ProductService) GetByStoreID(storeID string) ([]models.Product, error) {
	return s.productRepo.GetByStoreID(storeID)
}

// GetAll retrieves all products.
func (s *ProductService) GetAll() ([]models.Product, error) {
	return s.productRepo.GetAll()
}

// Update modifies a product. The caller must own the product's store or be
// an admin; the product stays in its store.
func (s *ProductService) Update(caller Caller, id string, req UpdateProductRequest, image *Upload) (*models.Product, error) {
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(caller, product.StoreID); err != nil {
		return nil, err
	}

	product.Name = req.Name
	product.Description = req.Description
	product.Price = req.Price
	product.Stock = req.Stock
	if image != nil {
		url, err := s.saveFile("products", image)
		if err != nil {
			return nil, err
		}
		product.ImageURL = url
	}

	if err := s.productRepo.Update(product); err != nil {
		return nil, fmt.Errorf("failed to update product %s: %w", id, err)
	}
	return product, nil
}

// Delete removes a product. The caller must own the product's store or be
// an admin.
func (s *ProductService) Delete(caller Caller, id string) error {
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return err
	}
	if err := s.authorize(caller, product.StoreID); err != nil {
		return err
	}
	return s.productRepo.Delete(id)
}

// authorize checks that the caller owns the given store or is an admin.
func (s *ProductService) authorize(caller Caller, storeID string) error {
	if caller.IsAdmin() {
		return nil
	}
	store, err := s.storeRepo.GetByID(storeID)
	if err != nil {
		return err
	}
	if store.UserID != caller.ID {
		return fmt.Errorf("user %s does not own store %s: %w", caller.ID, storeID, models.ErrForbidden)
	}
	return nil
}

func (s *ProductService) saveFile(dir string, upload *Upload) (string, error) {
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
