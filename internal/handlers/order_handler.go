package handlers

import (
	"log"

	"bbshop/internal/middleware"
	"bbshop/internal/models"
	"bbshop/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	orderService *services.OrderService
	validate     *validator.Validate
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(orderService *services.OrderService) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		validate:     validator.New(),
	}
}

// RegisterRoutes registers the order routes. All of them require
// authentication; placement is gated to buyers at the route level, the
// finer ownership checks live in the service.
func (h *OrderHandler) RegisterRoutes(protected fiber.Router) {
	orderRoutes := protected.Group("/order")
	orderRoutes.Post("/", middleware.RequireRoles(models.RoleBuyer, models.RoleAdmin), h.HandleCreate)
	orderRoutes.Put("/:id/status", h.HandleUpdateStatus)
	orderRoutes.Get("/by-store/:storeId", h.HandleGetByStoreID)
	orderRoutes.Get("/by-user/:userId", h.HandleGetByUserID)
	orderRoutes.Get("/:id", h.HandleGetByID)
}

// HandleCreate places a new order for the calling buyer.
func (h *OrderHandler) HandleCreate(c *fiber.Ctx) error {
	var req services.CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing order request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return validationResponse(c, err)
	}

	order, err := h.orderService.Create(middleware.CallerFromCtx(c), req)
	if err != nil {
		log.Printf("Error creating order: %v", err)
		return errorResponse(c, err, "Could not create order")
	}
	return c.Status(fiber.StatusCreated).JSON(order)
}

// HandleUpdateStatus moves an order to a new status.
func (h *OrderHandler) HandleUpdateStatus(c *fiber.Ctx) error {
	var req struct {
		Status string `json:"status" validate:"required"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationResponse(c, err)
	}

	orderID := c.Params("id")
	err := h.orderService.UpdateStatus(middleware.CallerFromCtx(c), orderID, models.OrderStatus(req.Status))
	if err != nil {
		log.Printf("Error updating status of order %s: %v", orderID, err)
		return errorResponse(c, err, "Could not update order status")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleGetByID retrieves a single order.
func (h *OrderHandler) HandleGetByID(c *fiber.Ctx) error {
	order, err := h.orderService.GetByID(middleware.CallerFromCtx(c), c.Params("id"))
	if err != nil {
		return errorResponse(c, err, "Could not retrieve order")
	}
	return c.JSON(order)
}

// HandleGetByStoreID lists all orders placed against a store.
func (h *OrderHandler) HandleGetByStoreID(c *fiber.Ctx) error {
	orders, err := h.orderService.GetByStoreID(middleware.CallerFromCtx(c), c.Params("storeId"))
	if err != nil {
		return errorResponse(c, err, "Could not retrieve orders")
	}
	return c.JSON(orders)
}

// HandleGetByUserID lists all orders placed by a buyer.
func (h *OrderHandler) HandleGetByUserID(c *fiber.Ctx) error {
	orders, err := h.orderService.GetByUserID(middleware.CallerFromCtx(c), c.Params("userId"))
	if err != nil {
		return errorResponse(c, err, "Could not retrieve orders")
	}
	return c.JSON(orders)
}
