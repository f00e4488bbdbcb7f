package services

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"bbshop/internal/models"
	"bbshop/internal/repositories"
)

// EventPublisher publishes order lifecycle events to a message broker.
// The order service treats a nil publisher as "events disabled".
type EventPublisher interface {
	Publish(routingKey string, body []byte) error
}

// OrderItemRequest is a single (product, quantity) line of a new order.
type OrderItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gte=1"`
}

// CreateOrderRequest is the payload for placing an order against a store.
type CreateOrderRequest struct {
	StoreID string             `json:"store_id" validate:"required"`
	Items   []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

// OrderItemResponse is an order line enriched with the product name.
type OrderItemResponse struct {
	ID          string  `json:"id"`
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
}

// OrderResponse is the order representation returned to clients.
type OrderResponse struct {
	ID          string              `json:"id"`
	UserID      string              `json:"user_id"`
	StoreID     string              `json:"store_id"`
	Status      models.OrderStatus  `json:"status"`
	Items       []OrderItemResponse `json:"items"`
	TotalAmount float64             `json:"total_amount"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// OrderService handles business logic for orders: placement with stock
// validation and price snapshots, role-gated status transitions, and
// role-gated reads.
type OrderService struct {
	orderRepo   repositories.OrderRepository
	productRepo repositories.ProductRepository
	storeRepo   repositories.StoreRepository
	publisher   EventPublisher
}

// NewOrderService creates a new OrderService.
func NewOrderService(orderRepo repositories.OrderRepository, productRepo repositories.ProductRepository, storeRepo repositories.StoreRepository, publisher EventPublisher) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		storeRepo:   storeRepo,
		publisher:   publisher,
	}
}

// Create places an order for the calling buyer. Every line is validated
// against the current catalog: the product must exist, belong to the target
// store, and have enough stock. Unit prices are captured from the product
// at this moment and never change afterwards. Persistence is atomic; the
// repository re-checks stock under its transaction, so a concurrent order
// cannot oversell.
func (s *OrderService) Create(caller Caller, req CreateOrderRequest) (*OrderResponse, error) {
	if caller.Role != models.RoleBuyer && !caller.IsAdmin() {
		return nil, fmt.Errorf("role %s may not place orders: %w", caller.Role, models.ErrForbidden)
	}
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("order needs at least one item: %w", models.ErrInvalidArgument)
	}
	if _, err := s.storeRepo.GetByID(req.StoreID); err != nil {
		return nil, err
	}

	items := make([]models.OrderItem, 0, len(req.Items))
	productNames := make(map[string]string, len(req.Items))
	for _, line := range req.Items {
		if line.Quantity < 1 {
			return nil, fmt.Errorf("quantity %d for product %s: %w", line.Quantity, line.ProductID, models.ErrInvalidArgument)
		}
		product, err := s.productRepo.GetByID(line.ProductID)
		if err != nil {
			return nil, err
		}
		if product.StoreID != req.StoreID {
			return nil, fmt.Errorf("product %s does not belong to store %s: %w", line.ProductID, req.StoreID, models.ErrInvalidArgument)
		}
		if product.Stock < line.Quantity {
			return nil, fmt.Errorf("product %s (requested: %d, available: %d): %w",
				product.Name, line.Quantity, product.Stock, models.ErrInsufficientStock)
		}
		items = append(items, models.OrderItem{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: product.Price, // snapshot, fixed at order time
		})
		productNames[product.ID] = product.Name
	}

	order := &models.Order{
		UserID:  caller.ID,
		StoreID: req.StoreID,
		Status:  models.OrderStatusPending,
		Items:   items,
	}
	if err := s.orderRepo.Create(order); err != nil {
		return nil, err
	}

	resp := s.toResponse(order, productNames)
	s.publishEvent("order.created", map[string]interface{}{
		"order_id": order.ID,
		"user_id":  order.UserID,
		"store_id": order.StoreID,
		"status":   order.Status,
		"total":    resp.TotalAmount,
	})
	return resp, nil
}

// UpdateStatus moves an order to the given status. Only an admin or the
// seller owning the order's store may do so. Any of the known statuses is
// a valid target; transitions are not ordered.
func (s *OrderService) UpdateStatus(caller Caller, orderID string, status models.OrderStatus) error {
	if !models.ValidOrderStatus(status) {
		return fmt.Errorf("unknown order status %q: %w", status, models.ErrInvalidArgument)
	}

	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return err
	}
	if !caller.IsAdmin() {
		store, err := s.storeRepo.GetByID(order.StoreID)
		if err != nil {
			return err
		}
		if store.UserID != caller.ID {
			return fmt.Errorf("user %s does not own the store of order %s: %w", caller.ID, orderID, models.ErrForbidden)
		}
	}

	if err := s.orderRepo.UpdateStatus(orderID, status); err != nil {
		return err
	}

	s.publishEvent("order.status_updated", map[string]interface{}{
		"order_id": orderID,
		"status":   status,
	})
	return nil
}

// GetByID retrieves a single order. Visible to the buyer who placed it,
// the seller owning its store, and admins.
func (s *OrderService) GetByID(caller Caller, id string) (*OrderResponse, error) {
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if !s.canRead(caller, order) {
		return nil, fmt.Errorf("user %s may not read order %s: %w", caller.ID, id, models.ErrForbidden)
	}
	return s.toResponse(order, s.lookupNames(order.Items)), nil
}

// GetByStoreID retrieves all orders for a store. Only its owning seller or
// an admin may list them.
func (s *OrderService) GetByStoreID(caller Caller, storeID string) ([]OrderResponse, error) {
	store, err := s.storeRepo.GetByID(storeID)
	if err != nil {
		return nil, err
	}
	if !caller.IsAdmin() && store.UserID != caller.ID {
		return nil, fmt.Errorf("user %s does not own store %s: %w", caller.ID, storeID, models.ErrForbidden)
	}

	orders, err := s.orderRepo.GetByStoreID(storeID)
	if err != nil {
		return nil, err
	}
	return s.toResponses(orders), nil
}

// GetByUserID retrieves all orders placed by a buyer. Only that buyer or
// an admin may list them.
func (s *OrderService) GetByUserID(caller Caller, userID string) ([]OrderResponse, error) {
	if !caller.IsAdmin() && caller.ID != userID {
		return nil, fmt.Errorf("user %s may not read orders of user %s: %w", caller.ID, userID, models.ErrForbidden)
	}

	orders, err := s.orderRepo.GetByUserID(userID)
	if err != nil {
		return nil, err
	}
	return s.toResponses(orders), nil
}

// canRead reports whether the caller may see the order: the placing buyer,
// the seller owning the order's store, or an admin.
func (s *OrderService) canRead(caller Caller, order *models.Order) bool {
	if caller.IsAdmin() || order.UserID == caller.ID {
		return true
	}
	store, err := s.storeRepo.GetByID(order.StoreID)
	if err != nil {
		return false
	}
	return store.UserID == caller.ID
}

// lookupNames fetches the product name for each distinct item. Deleted
// products simply show up without a name.
func (s *OrderService) lookupNames(items []models.OrderItem) map[string]string {
	names := make(map[string]string, len(items))
	for _, item := range items {
		if _, ok := names[item.ProductID]; ok {
			continue
		}
		product, err := s.productRepo.GetByID(item.ProductID)
		if err != nil {
			names[item.ProductID] = ""
			continue
		}
		names[item.ProductID] = product.Name
	}
	return names
}

func (s *OrderService) toResponses(orders []models.Order) []OrderResponse {
	responses := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		responses = append(responses, *s.toResponse(&orders[i], s.lookupNames(orders[i].Items)))
	}
	return responses
}

func (s *OrderService) toResponse(order *models.Order, productNames map[string]string) *OrderResponse {
	items := make([]OrderItemResponse, 0, len(order.Items))
	var total float64
	for _, item := range order.Items {
		items = append(items, OrderItemResponse{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: productNames[item.ProductID],
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		})
		total += item.UnitPrice * float64(item.Quantity)
	}
	return &OrderResponse{
		ID:          order.ID,
		UserID:      order.UserID,
		StoreID:     order.StoreID,
		Status:      order.Status,
		Items:       items,
		TotalAmount: total,
		CreatedAt:   order.CreatedAt,
		UpdatedAt:   order.UpdatedAt,
	}
}

// publishEvent marshals and publishes an order event. Publishing failures
// are logged, never surfaced: the order itself has already been persisted.
func (s *OrderService) publishEvent(routingKey string, payload map[string]interface{}) {
	if s.publisher == nil {
		return
	}
	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Failed to marshal %s event: %v", routingKey, err)
		return
	}
	if err := s.publisher.Publish(routingKey, body); err != nil {
		log.Printf("Warning: failed to publish %s event: %v", routingKey, err)
	}
}
