package services_test

import (
	"fmt"
	"testing"

	"bbshop/internal/models"
	"bbshop/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestStoreService_Create(t *testing.T) {
	t.Run("seller opens a store", func(t *testing.T) {
		storeRepo := new(MockStoreRepository)
		userRepo := new(MockUserRepository)
		service := services.NewStoreService(storeRepo, userRepo, nil)

		storeRepo.On("GetByUserID", seller.ID).
			Return(nil, fmt.Errorf("store for user %s: %w", seller.ID, models.ErrNotFound)).Once()
		storeRepo.On("Create", mock.AnythingOfType("*models.Store")).Return(nil).Once()
		userRepo.On("GetByID", seller.ID).
			Return(&models.User{ID: seller.ID, Username: "alice"}, nil).Once()

		resp, err := service.Create(seller, "Alice's Gadgets", nil)
		assert.NoError(t, err)
		assert.Equal(t, "Alice's Gadgets", resp.Name)
		assert.Equal(t, seller.ID, resp.UserID)
		assert.Equal(t, "alice", resp.Username)
		storeRepo.AssertExpectations(t)
	})

	t.Run("second store is a conflict", func(t *testing.T) {
		storeRepo := new(MockStoreRepository)
		service := services.NewStoreService(storeRepo, new(MockUserRepository), nil)

		storeRepo.On("GetByUserID", seller.ID).
			Return(&models.Store{ID: "store-1", UserID: seller.ID}, nil).Once()

		_, err := service.Create(seller, "Second Shop", nil)
		assert.ErrorIs(t, err, models.ErrConflict)
		storeRepo.AssertNotCalled(t, "Create", mock.Anything)
	})

	t.Run("lookup failure is not treated as no store", func(t *testing.T) {
		storeRepo := new(MockStoreRepository)
		service := services.NewStoreService(storeRepo, new(MockUserRepository), nil)

		storeRepo.On("GetByUserID", seller.ID).
			Return(nil, fmt.Errorf("connection reset")).Once()

		_, err := service.Create(seller, "Alice's Gadgets", nil)
		assert.Error(t, err)
		assert.NotErrorIs(t, err, models.ErrConflict)
		storeRepo.AssertNotCalled(t, "Create", mock.Anything)
	})

	t.Run("concurrent duplicate surfaces as conflict", func(t *testing.T) {
		storeRepo := new(MockStoreRepository)
		service := services.NewStoreService(storeRepo, new(MockUserRepository), nil)

		storeRepo.On("GetByUserID", seller.ID).
			Return(nil, fmt.Errorf("store for user %s: %w", seller.ID, models.ErrNotFound)).Once()
		// The unique index wins a race the pre-check missed.
		storeRepo.On("Create", mock.AnythingOfType("*models.Store")).
			Return(fmt.Errorf("user %s already owns a store: %w", seller.ID, models.ErrConflict)).Once()

		_, err := service.Create(seller, "Alice's Gadgets", nil)
		assert.ErrorIs(t, err, models.ErrConflict)
	})

	t.Run("buyer may not open a store", func(t *testing.T) {
		storeRepo := new(MockStoreRepository)
		service := services.NewStoreService(storeRepo, new(MockUserRepository), nil)

		_, err := service.Create(buyer, "Buyer's Shop", nil)
		assert.ErrorIs(t, err, models.ErrForbidden)
		storeRepo.AssertNotCalled(t, "GetByUserID", mock.Anything)
	})

	t.Run("admin may not open a store either", func(t *testing.T) {
		service := services.NewStoreService(new(MockStoreRepository), new(MockUserRepository), nil)

		_, err := service.Create(admin, "Admin's Shop", nil)
		assert.ErrorIs(t, err, models.ErrForbidden)
	})
}

func TestStoreService_Update(t *testing.T) {
	store := &models.Store{ID: "store-1", Name: "Old Name", UserID: seller.ID}

	t.Run("owner renames", func(t *testing.T) {
		storeRepo := new(MockStoreRepository)
		userRepo := new(MockUserRepository)
		service := services.NewStoreService(storeRepo, userRepo, nil)

		s := *store
		storeRepo.On("GetByID", "store-1").Return(&s, nil).Once()
		storeRepo.On("Update", mock.AnythingOfType("*models.Store")).Return(nil).Once()
		userRepo.On("GetByID", seller.ID).
			Return(&models.User{ID: seller.ID, Username: "alice"}, nil).Once()

		resp, err := service.Update(seller, "store-1", "New Name", nil)
		assert.NoError(t, err)
		assert.Equal(t, "New Name", resp.Name)
		// Ownership never moves.
		assert.Equal(t, seller.ID, resp.UserID)
	})

	t.Run("foreign seller is forbidden", func(t *testing.T) {
		storeRepo := new(MockStoreRepository)
		service := services.NewStoreService(storeRepo, new(MockUserRepository), nil)

		s := *store
		storeRepo.On("GetByID", "store-1").Return(&s, nil).Once()

		_, err := service.Update(otherSeller, "store-1", "Hijacked", nil)
		assert.ErrorIs(t, err, models.ErrForbidden)
		storeRepo.AssertNotCalled(t, "Update", mock.Anything)
	})
}

func TestStoreService_Delete(t *testing.T) {
	store := &models.Store{ID: "store-1", UserID: seller.ID}

	t.Run("admin deletes any store", func(t *testing.T) {
		storeRepo := new(MockStoreRepository)
		service := services.NewStoreService(storeRepo, new(MockUserRepository), nil)

		storeRepo.On("GetByID", "store-1").Return(store, nil).Once()
		storeRepo.On("Delete", "store-1").Return(nil).Once()

		assert.NoError(t, service.Delete(admin, "store-1"))
		storeRepo.AssertExpectations(t)
	})

	t.Run("foreign seller is forbidden", func(t *testing.T) {
		storeRepo := new(MockStoreRepository)
		service := services.NewStoreService(storeRepo, new(MockUserRepository), nil)

		storeRepo.On("GetByID", "store-1").Return(store, nil).Once()

		err := service.Delete(otherSeller, "store-1")
		assert.ErrorIs(t, err, models.ErrForbidden)
		storeRepo.AssertNotCalled(t, "Delete", mock.Anything)
	})
}

func TestStoreService_SearchByName(t *testing.T) {
	storeRepo := new(MockStoreRepository)
	userRepo := new(MockUserRepository)
	service := services.NewStoreService(storeRepo, userRepo, nil)

	storeRepo.On("SearchByName", "gadget").Return([]models.Store{
		{ID: "store-1", Name: "Gadget World", UserID: seller.ID},
	}, nil).Once()
	userRepo.On("GetByID", seller.ID).
		Return(&models.User{ID: seller.ID, Username: "alice"}, nil).Once()

	results, err := service.SearchByName("gadget")
	assert.NoError(t, err)
	assert.Len(t, results, 1)
	assert.Equal(t, "Gadget World", results[0].Name)
	assert.Equal(t, "alice", results[0].Username)
}
