package handlers

import (
	"log"
	"strconv"

	"bbshop/internal/middleware"
	"bbshop/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	productService *services.ProductService
	validate       *validator.Validate
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(productService *services.ProductService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		validate:       validator.New(),
	}
}

// RegisterPublicRoutes registers the product reads, which need no token.
func (h *ProductHandler) RegisterPublicRoutes(public fiber.Router) {
	publicRoutes := public.Group("/product")
	publicRoutes.Get("/", h.HandleGetAll)
	publicRoutes.Get("/store/:storeId", h.HandleGetByStoreID)
	publicRoutes.Get("/:id", h.HandleGetByID)
}

// RegisterProtectedRoutes registers the product mutations. All require
// authentication; ownership is checked in the service.
func (h *ProductHandler) RegisterProtectedRoutes(protected fiber.Router) {
	protectedRoutes := protected.Group("/product")
	protectedRoutes.Post("/", h.HandleCreate)
	protectedRoutes.Put("/:id", h.HandleUpdate)
	protectedRoutes.Delete("/:id", h.HandleDelete)
}

// HandleCreate adds a product to a store. The request is a multipart form
// with name, description, price, stock, store_id fields and an optional
// "image" file.
func (h *ProductHandler) HandleCreate(c *fiber.Ctx) error {
	req, err := parseProductForm(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid product form",
			"error":   err.Error(),
		})
	}
	createReq := services.CreateProductRequest{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		StoreID:     c.FormValue("store_id"),
	}
	if err := h.validate.Struct(createReq); err != nil {
		return validationResponse(c, err)
	}

	image, err := formUpload(c, "image")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Could not read image upload",
			"error":   err.Error(),
		})
	}

	product, err := h.productService.Create(middleware.CallerFromCtx(c), createReq, image)
	if err != nil {
		log.Printf("Error creating product: %v", err)
		return errorResponse(c, err, "Could not create product")
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleGetByID retrieves a single product.
func (h *ProductHandler) HandleGetByID(c *fiber.Ctx) error {
	product, err := h.productService.GetByID(c.Params("id"))
	if err != nil {
		return errorResponse(c, err, "Could not retrieve product")
	}
	return c.JSON(product)
}

// HandleGetByStoreID lists all products in a store.
func (h *ProductHandler) HandleGetByStoreID(c *fiber.Ctx) error {
	products, err := h.productService.GetByStoreID(c.Params("storeId"))
	if err != nil {
		return errorResponse(c, err, "Could not retrieve products")
	}
	return c.JSON(products)
}

// HandleGetAll lists all products.
func (h *ProductHandler) HandleGetAll(c *fiber.Ctx) error {
	products, err := h.productService.GetAll()
	if err != nil {
		return errorResponse(c, err, "Could not retrieve products")
	}
	return c.JSON(products)
}

// HandleUpdate modifies a product.
func (h *ProductHandler) HandleUpdate(c *fiber.Ctx) error {
	req, err := parseProductForm(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid product form",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationResponse(c, err)
	}

	image, err := formUpload(c, "image")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Could not read image upload",
			"error":   err.Error(),
		})
	}

	product, err := h.productService.Update(middleware.CallerFromCtx(c), c.Params("id"), req, image)
	if err != nil {
		log.Printf("Error updating product %s: %v", c.Params("id"), err)
		return errorResponse(c, err, "Could not update product")
	}
	return c.JSON(product)
}

// HandleDelete removes a product.
func (h *ProductHandler) HandleDelete(c *fiber.Ctx) error {
	if err := h.productService.Delete(middleware.CallerFromCtx(c), c.Params("id")); err != nil {
		log.Printf("Error deleting product %s: %v", c.Params("id"), err)
		return errorResponse(c, err, "Could not delete product")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// parseProductForm reads the shared multipart fields of product create and
// update requests.
func parseProductForm(c *fiber.Ctx) (services.UpdateProductRequest, error) {
	var req services.UpdateProductRequest
	req.Name = c.FormValue("name")
	req.Description = c.FormValue("description")

	price, err := strconv.ParseFloat(c.FormValue("price", "0"), 64)
	if err != nil {
		return req, err
	}
	req.Price = price

	stock, err := strconv.Atoi(c.FormValue("stock", "0"))
	if err != nil {
		return req, err
	}
	req.Stock = stock
	return req, nil
}
