package handlers

import (
	"log"

	"bbshop/internal/middleware"
	"bbshop/internal/models"
	"bbshop/internal/services"

	"github.com/gofiber/fiber/v2"
)

// StoreHandler handles HTTP requests for stores.
type StoreHandler struct {
	storeService *services.StoreService
}

// NewStoreHandler creates a new StoreHandler.
func NewStoreHandler(storeService *services.StoreService) *StoreHandler {
	return &StoreHandler{
		storeService: storeService,
	}
}

// RegisterPublicRoutes registers the store reads, which need no token.
func (h *StoreHandler) RegisterPublicRoutes(public fiber.Router) {
	publicRoutes := public.Group("/store")
	publicRoutes.Get("/search/:name", h.HandleSearch)
	publicRoutes.Get("/by-user-id/:userId", h.HandleGetByUserID)
	publicRoutes.Get("/:id", h.HandleGetByID)
}

// RegisterProtectedRoutes registers the store mutations. All require
// authentication; creation additionally requires the seller role.
func (h *StoreHandler) RegisterProtectedRoutes(protected fiber.Router) {
	protectedRoutes := protected.Group("/store")
	protectedRoutes.Post("/", middleware.RequireRoles(models.RoleSeller), h.HandleCreate)
	protectedRoutes.Put("/:id", h.HandleUpdate)
	protectedRoutes.Delete("/:id", h.HandleDelete)
}

// HandleCreate opens a store for the calling seller. The request is a
// multipart form with a "name" field and an optional "logo" file.
func (h *StoreHandler) HandleCreate(c *fiber.Ctx) error {
	name := c.FormValue("name")
	if name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Store name is required",
		})
	}

	logo, err := formUpload(c, "logo")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Could not read logo upload",
			"error":   err.Error(),
		})
	}

	store, err := h.storeService.Create(middleware.CallerFromCtx(c), name, logo)
	if err != nil {
		log.Printf("Error creating store: %v", err)
		return errorResponse(c, err, "Could not create store")
	}
	return c.Status(fiber.StatusCreated).JSON(store)
}

// HandleGetByID retrieves a single store.
func (h *StoreHandler) HandleGetByID(c *fiber.Ctx) error {
	store, err := h.storeService.GetByID(c.Params("id"))
	if err != nil {
		return errorResponse(c, err, "Could not retrieve store")
	}
	return c.JSON(store)
}

// HandleGetByUserID retrieves the store owned by the given user.
func (h *StoreHandler) HandleGetByUserID(c *fiber.Ctx) error {
	store, err := h.storeService.GetByUserID(c.Params("userId"))
	if err != nil {
		return errorResponse(c, err, "Could not retrieve store")
	}
	return c.JSON(store)
}

// HandleSearch lists stores whose name contains the fragment.
func (h *StoreHandler) HandleSearch(c *fiber.Ctx) error {
	stores, err := h.storeService.SearchByName(c.Params("name"))
	if err != nil {
		return errorResponse(c, err, "Could not search stores")
	}
	return c.JSON(stores)
}

// HandleUpdate renames a store and optionally replaces its logo.
func (h *StoreHandler) HandleUpdate(c *fiber.Ctx) error {
	name := c.FormValue("name")
	if name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Store name is required",
		})
	}

	logo, err := formUpload(c, "logo")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Could not read logo upload",
			"error":   err.Error(),
		})
	}

	store, err := h.storeService.Update(middleware.CallerFromCtx(c), c.Params("id"), name, logo)
	if err != nil {
		log.Printf("Error updating store %s: %v", c.Params("id"), err)
		return errorResponse(c, err, "Could not update store")
	}
	return c.JSON(store)
}

// HandleDelete removes a store.
func (h *StoreHandler) HandleDelete(c *fiber.Ctx) error {
	if err := h.storeService.Delete(middleware.CallerFromCtx(c), c.Params("id")); err != nil {
		log.Printf("Error deleting store %s: %v", c.Params("id"), err)
		return errorResponse(c, err, "Could not delete store")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// formUpload extracts an optional multipart file. A missing file yields
// (nil, nil); only a broken upload is an error.
func formUpload(c *fiber.Ctx, field string) (*services.Upload, error) {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		return nil, nil
	}
	file, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	// Fiber closes multipart files when the handler returns.
	return &services.Upload{
		Filename: fileHeader.Filename,
		Content:  file,
	}, nil
}
