package repositories

import "bbshop/internal/models"

// OrderRepository defines the interface for order data access.
//
// Create must persist the order and its items and decrement each ordered
// product's stock as one atomic unit: either everything is applied or
// nothing is. A failed stock guard surfaces models.ErrInsufficientStock.
type OrderRepository interface {
	Create(order *models.Order) error
	GetByID(id string) (*models.Order, error)
	GetByStoreID(storeID string) ([]models.Order, error)
	GetByUserID(userID string) ([]models.Order, error)
	UpdateStatus(id string, status models.OrderStatus) error
}
