package handlers

import (
	"log"

	"bbshop/internal/middleware"
	"bbshop/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// UserHandler handles HTTP requests for user accounts.
type UserHandler struct {
	userService *services.UserService
	validate    *validator.Validate
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
		validate:    validator.New(),
	}
}

// RegisterPublicRoutes registers registration, which needs no token.
func (h *UserHandler) RegisterPublicRoutes(public fiber.Router) {
	public.Post("/user", h.HandleRegister)
}

// RegisterProtectedRoutes registers the authenticated account routes.
func (h *UserHandler) RegisterProtectedRoutes(protected fiber.Router) {
	userRoutes := protected.Group("/user")
	userRoutes.Get("/", h.HandleGetAll)
	userRoutes.Get("/:id", h.HandleGetByID)
	userRoutes.Put("/:id", h.HandleUpdate)
	userRoutes.Delete("/:id", h.HandleDelete)
}

// HandleRegister creates a new account.
func (h *UserHandler) HandleRegister(c *fiber.Ctx) error {
	var req services.RegisterUserRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing register request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return validationResponse(c, err)
	}

	user, err := h.userService.Register(req)
	if err != nil {
		log.Printf("Error registering user: %v", err)
		return errorResponse(c, err, "Could not register user")
	}

	return c.Status(fiber.StatusCreated).JSON(user)
}

// HandleGetAll lists all accounts (admin only).
func (h *UserHandler) HandleGetAll(c *fiber.Ctx) error {
	users, err := h.userService.GetAll(middleware.CallerFromCtx(c))
	if err != nil {
		return errorResponse(c, err, "Could not retrieve users")
	}
	return c.JSON(users)
}

// HandleGetByID retrieves a single account.
func (h *UserHandler) HandleGetByID(c *fiber.Ctx) error {
	user, err := h.userService.GetByID(middleware.CallerFromCtx(c), c.Params("id"))
	if err != nil {
		return errorResponse(c, err, "Could not retrieve user")
	}
	return c.JSON(user)
}

// HandleUpdate modifies an account.
func (h *UserHandler) HandleUpdate(c *fiber.Ctx) error {
	var req services.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return validationResponse(c, err)
	}

	user, err := h.userService.Update(middleware.CallerFromCtx(c), c.Params("id"), req)
	if err != nil {
		log.Printf("Error updating user %s: %v", c.Params("id"), err)
		return errorResponse(c, err, "Could not update user")
	}
	return c.JSON(user)
}

// HandleDelete removes an account.
func (h *UserHandler) HandleDelete(c *fiber.Ctx) error {
	if err := h.userService.Delete(middleware.CallerFromCtx(c), c.Params("id")); err != nil {
		log.Printf("Error deleting user %s: %v", c.Params("id"), err)
		return errorResponse(c, err, "Could not delete user")
	}
	return c.SendStatus(fiber.StatusNoContent)
}
