package services_test

import (
	"fmt"
	"testing"

	"bbshop/internal/models"
	"bbshop/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newOrderService(orderRepo *MockOrderRepository, productRepo *MockProductRepository, storeRepo *MockStoreRepository, publisher services.EventPublisher) *services.OrderService {
	return services.NewOrderService(orderRepo, productRepo, storeRepo, publisher)
}

var (
	buyer       = services.Caller{ID: "buyer-1", Role: models.RoleBuyer}
	seller      = services.Caller{ID: "seller-1", Role: models.RoleSeller}
	otherSeller = services.Caller{ID: "seller-2", Role: models.RoleSeller}
	admin       = services.Caller{ID: "admin-1", Role: models.RoleAdmin}
)

func TestOrderService_Create(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	productRepo := new(MockProductRepository)
	storeRepo := new(MockStoreRepository)
	publisher := new(MockEventPublisher)
	service := newOrderService(orderRepo, productRepo, storeRepo, publisher)

	store := &models.Store{ID: "store-1", Name: "Gadgets", UserID: seller.ID}
	product := &models.Product{ID: "prod-1", Name: "Laptop", Price: 1200.00, Stock: 10, StoreID: "store-1"}

	storeRepo.On("GetByID", "store-1").Return(store, nil).Once()
	productRepo.On("GetByID", "prod-1").Return(product, nil).Once()
	orderRepo.On("Create", mock.AnythingOfType("*models.Order")).Return(nil).Once()
	publisher.On("Publish", "order.created", mock.Anything).Return(nil).Once()

	resp, err := service.Create(buyer, services.CreateOrderRequest{
		StoreID: "store-1",
		Items:   []services.OrderItemRequest{{ProductID: "prod-1", Quantity: 3}},
	})

	assert.NoError(t, err)
	assert.Equal(t, buyer.ID, resp.UserID)
	assert.Equal(t, models.OrderStatusPending, resp.Status)
	assert.Len(t, resp.Items, 1)
	assert.Equal(t, 1200.00, resp.Items[0].UnitPrice)
	assert.Equal(t, "Laptop", resp.Items[0].ProductName)
	assert.Equal(t, 3600.00, resp.TotalAmount)
	orderRepo.AssertExpectations(t)
	productRepo.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestOrderService_Create_PriceSnapshot(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	productRepo := new(MockProductRepository)
	storeRepo := new(MockStoreRepository)
	service := newOrderService(orderRepo, productRepo, storeRepo, nil)

	store := &models.Store{ID: "store-1", UserID: seller.ID}
	product := &models.Product{ID: "prod-1", Name: "Laptop", Price: 100.00, Stock: 5, StoreID: "store-1"}

	storeRepo.On("GetByID", "store-1").Return(store, nil).Once()
	productRepo.On("GetByID", "prod-1").Return(product, nil).Once()

	var persisted *models.Order
	orderRepo.On("Create", mock.AnythingOfType("*models.Order")).Run(func(args mock.Arguments) {
		persisted = args.Get(0).(*models.Order)
	}).Return(nil).Once()

	resp, err := service.Create(buyer, services.CreateOrderRequest{
		StoreID: "store-1",
		Items:   []services.OrderItemRequest{{ProductID: "prod-1", Quantity: 2}},
	})
	assert.NoError(t, err)

	// The captured unit price must be the product price at call time.
	assert.Equal(t, 100.00, persisted.Items[0].UnitPrice)

	// A later price change must not affect the already-built response.
	product.Price = 999.00
	assert.Equal(t, 100.00, resp.Items[0].UnitPrice)
}

func TestOrderService_Create_InsufficientStock(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	productRepo := new(MockProductRepository)
	storeRepo := new(MockStoreRepository)
	service := newOrderService(orderRepo, productRepo, storeRepo, nil)

	store := &models.Store{ID: "store-1", UserID: seller.ID}
	product := &models.Product{ID: "prod-1", Name: "Laptop", Price: 1200.00, Stock: 10, StoreID: "store-1"}

	storeRepo.On("GetByID", "store-1").Return(store, nil).Once()
	productRepo.On("GetByID", "prod-1").Return(product, nil).Once()

	resp, err := service.Create(buyer, services.CreateOrderRequest{
		StoreID: "store-1",
		Items:   []services.OrderItemRequest{{ProductID: "prod-1", Quantity: 11}},
	})

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, models.ErrInsufficientStock)
	// No order must ever reach the repository.
	orderRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestOrderService_Create_ProductNotFound(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	productRepo := new(MockProductRepository)
	storeRepo := new(MockStoreRepository)
	service := newOrderService(orderRepo, productRepo, storeRepo, nil)

	storeRepo.On("GetByID", "store-1").Return(&models.Store{ID: "store-1"}, nil).Once()
	productRepo.On("GetByID", "missing").
		Return(nil, fmt.Errorf("product with ID missing: %w", models.ErrNotFound)).Once()

	resp, err := service.Create(buyer, services.CreateOrderRequest{
		StoreID: "store-1",
		Items:   []services.OrderItemRequest{{ProductID: "missing", Quantity: 1}},
	})

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, models.ErrNotFound)
	orderRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestOrderService_Create_ProductFromWrongStore(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	productRepo := new(MockProductRepository)
	storeRepo := new(MockStoreRepository)
	service := newOrderService(orderRepo, productRepo, storeRepo, nil)

	storeRepo.On("GetByID", "store-1").Return(&models.Store{ID: "store-1"}, nil).Once()
	productRepo.On("GetByID", "prod-1").
		Return(&models.Product{ID: "prod-1", Stock: 10, StoreID: "store-2"}, nil).Once()

	_, err := service.Create(buyer, services.CreateOrderRequest{
		StoreID: "store-1",
		Items:   []services.OrderItemRequest{{ProductID: "prod-1", Quantity: 1}},
	})

	assert.ErrorIs(t, err, models.ErrInvalidArgument)
}

func TestOrderService_Create_SellerForbidden(t *testing.T) {
	service := newOrderService(new(MockOrderRepository), new(MockProductRepository), new(MockStoreRepository), nil)

	_, err := service.Create(seller, services.CreateOrderRequest{
		StoreID: "store-1",
		Items:   []services.OrderItemRequest{{ProductID: "prod-1", Quantity: 1}},
	})

	assert.ErrorIs(t, err, models.ErrForbidden)
}

func TestOrderService_UpdateStatus(t *testing.T) {
	order := &models.Order{ID: "order-1", UserID: buyer.ID, StoreID: "store-1", Status: models.OrderStatusPending}
	store := &models.Store{ID: "store-1", UserID: seller.ID}

	t.Run("owning seller may transition", func(t *testing.T) {
		orderRepo := new(MockOrderRepository)
		storeRepo := new(MockStoreRepository)
		publisher := new(MockEventPublisher)
		service := newOrderService(orderRepo, new(MockProductRepository), storeRepo, publisher)

		orderRepo.On("GetByID", "order-1").Return(order, nil).Once()
		storeRepo.On("GetByID", "store-1").Return(store, nil).Once()
		orderRepo.On("UpdateStatus", "order-1", models.OrderStatusCompleted).Return(nil).Once()
		publisher.On("Publish", "order.status_updated", mock.Anything).Return(nil).Once()

		err := service.UpdateStatus(seller, "order-1", models.OrderStatusCompleted)
		assert.NoError(t, err)
		orderRepo.AssertExpectations(t)
		publisher.AssertExpectations(t)
	})

	t.Run("admin may transition", func(t *testing.T) {
		orderRepo := new(MockOrderRepository)
		storeRepo := new(MockStoreRepository)
		service := newOrderService(orderRepo, new(MockProductRepository), storeRepo, nil)

		orderRepo.On("GetByID", "order-1").Return(order, nil).Once()
		orderRepo.On("UpdateStatus", "order-1", models.OrderStatusShipped).Return(nil).Once()

		err := service.UpdateStatus(admin, "order-1", models.OrderStatusShipped)
		assert.NoError(t, err)
		// Admins bypass the store ownership lookup entirely.
		storeRepo.AssertNotCalled(t, "GetByID", mock.Anything)
	})

	t.Run("foreign seller is forbidden", func(t *testing.T) {
		orderRepo := new(MockOrderRepository)
		storeRepo := new(MockStoreRepository)
		service := newOrderService(orderRepo, new(MockProductRepository), storeRepo, nil)

		orderRepo.On("GetByID", "order-1").Return(order, nil).Once()
		storeRepo.On("GetByID", "store-1").Return(store, nil).Once()

		err := service.UpdateStatus(otherSeller, "order-1", models.OrderStatusCompleted)
		assert.ErrorIs(t, err, models.ErrForbidden)
		orderRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything)
	})

	t.Run("unknown status is rejected", func(t *testing.T) {
		orderRepo := new(MockOrderRepository)
		service := newOrderService(orderRepo, new(MockProductRepository), new(MockStoreRepository), nil)

		err := service.UpdateStatus(admin, "order-1", models.OrderStatus("delivered"))
		assert.ErrorIs(t, err, models.ErrInvalidArgument)
		orderRepo.AssertNotCalled(t, "GetByID", mock.Anything)
	})

	t.Run("missing order", func(t *testing.T) {
		orderRepo := new(MockOrderRepository)
		service := newOrderService(orderRepo, new(MockProductRepository), new(MockStoreRepository), nil)

		orderRepo.On("GetByID", "nope").
			Return(nil, fmt.Errorf("order with ID nope: %w", models.ErrNotFound)).Once()

		err := service.UpdateStatus(admin, "nope", models.OrderStatusCompleted)
		assert.ErrorIs(t, err, models.ErrNotFound)
	})
}

func TestOrderService_GetByID_Authorization(t *testing.T) {
	order := &models.Order{
		ID: "order-1", UserID: buyer.ID, StoreID: "store-1", Status: models.OrderStatusPending,
		Items: []models.OrderItem{{ID: "item-1", ProductID: "prod-1", Quantity: 2, UnitPrice: 10.0}},
	}
	store := &models.Store{ID: "store-1", UserID: seller.ID}
	product := &models.Product{ID: "prod-1", Name: "Laptop"}

	cases := []struct {
		name      string
		caller    services.Caller
		allowed   bool
		needStore bool
	}{
		{"placing buyer", buyer, true, false},
		{"owning seller", seller, true, true},
		{"admin", admin, true, false},
		{"foreign seller", otherSeller, false, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			orderRepo := new(MockOrderRepository)
			productRepo := new(MockProductRepository)
			storeRepo := new(MockStoreRepository)
			service := newOrderService(orderRepo, productRepo, storeRepo, nil)

			orderRepo.On("GetByID", "order-1").Return(order, nil).Once()
			if tc.needStore {
				storeRepo.On("GetByID", "store-1").Return(store, nil).Once()
			}
			if tc.allowed {
				productRepo.On("GetByID", "prod-1").Return(product, nil).Once()
			}

			resp, err := service.GetByID(tc.caller, "order-1")
			if tc.allowed {
				assert.NoError(t, err)
				assert.Equal(t, "Laptop", resp.Items[0].ProductName)
				assert.Equal(t, 20.0, resp.TotalAmount)
			} else {
				assert.ErrorIs(t, err, models.ErrForbidden)
			}
		})
	}
}

func TestOrderService_GetByStoreID(t *testing.T) {
	store := &models.Store{ID: "store-1", UserID: seller.ID}
	orders := []models.Order{{ID: "order-1", UserID: buyer.ID, StoreID: "store-1"}}

	t.Run("owning seller", func(t *testing.T) {
		orderRepo := new(MockOrderRepository)
		storeRepo := new(MockStoreRepository)
		service := newOrderService(orderRepo, new(MockProductRepository), storeRepo, nil)

		storeRepo.On("GetByID", "store-1").Return(store, nil).Once()
		orderRepo.On("GetByStoreID", "store-1").Return(orders, nil).Once()

		got, err := service.GetByStoreID(seller, "store-1")
		assert.NoError(t, err)
		assert.Len(t, got, 1)
	})

	t.Run("foreign seller", func(t *testing.T) {
		orderRepo := new(MockOrderRepository)
		storeRepo := new(MockStoreRepository)
		service := newOrderService(orderRepo, new(MockProductRepository), storeRepo, nil)

		storeRepo.On("GetByID", "store-1").Return(store, nil).Once()

		_, err := service.GetByStoreID(otherSeller, "store-1")
		assert.ErrorIs(t, err, models.ErrForbidden)
		orderRepo.AssertNotCalled(t, "GetByStoreID", mock.Anything)
	})
}

func TestOrderService_GetByUserID(t *testing.T) {
	orders := []models.Order{{ID: "order-1", UserID: buyer.ID, StoreID: "store-1"}}

	t.Run("self", func(t *testing.T) {
		orderRepo := new(MockOrderRepository)
		service := newOrderService(orderRepo, new(MockProductRepository), new(MockStoreRepository), nil)

		orderRepo.On("GetByUserID", buyer.ID).Return(orders, nil).Once()

		got, err := service.GetByUserID(buyer, buyer.ID)
		assert.NoError(t, err)
		assert.Len(t, got, 1)
	})

	t.Run("other buyer", func(t *testing.T) {
		orderRepo := new(MockOrderRepository)
		service := newOrderService(orderRepo, new(MockProductRepository), new(MockStoreRepository), nil)

		other := services.Caller{ID: "buyer-2", Role: models.RoleBuyer}
		_, err := service.GetByUserID(other, buyer.ID)
		assert.ErrorIs(t, err, models.ErrForbidden)
		orderRepo.AssertNotCalled(t, "GetByUserID", mock.Anything)
	})
}
