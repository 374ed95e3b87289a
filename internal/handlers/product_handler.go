package handlers

import (
	"errors"
	"fmt"
	"log"

	"productapi/internal/models"
	"productapi/internal/repositories"
	"productapi/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	service  *services.ProductService
	validate *validator.Validate
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService) *ProductHandler {
	return &ProductHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the product routes. Non-integer or negative IDs
// do not match a route and are answered with 404 by the router.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/product")
	productRoutes.Post("/", h.HandleCreateProduct)
	productRoutes.Get("/", h.HandleGetProducts)
	productRoutes.Get("/:id<int;min(0)>", h.HandleGetProductByID)
	productRoutes.Put("/:id<int;min(0)>", h.HandleUpdateProduct)
	productRoutes.Delete("/:id<int;min(0)>", h.HandleDeleteProduct)
}

// HandleCreateProduct creates a new product.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	in, problem := h.parseInput(c)
	if problem != nil {
		return c.Status(fiber.StatusBadRequest).JSON(problem)
	}

	product, err := h.service.CreateProduct(c.UserContext(), in)
	if err != nil {
		log.Printf("Error creating product: %v", err)
		return respondStoreError(c, err, "Could not create product")
	}
	return c.Status(fiber.StatusCreated).JSON(models.ToView(*product))
}

// HandleGetProducts retrieves all products.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	products, err := h.service.GetAllProducts(c.UserContext())
	if err != nil {
		log.Printf("Error getting all products: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve products",
		})
	}
	return c.JSON(models.ToViews(products))
}

// HandleGetProductByID retrieves a single product by its ID.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 0 {
		return respondNotFound(c)
	}

	product, err := h.service.GetProductByID(c.UserContext(), uint(id))
	if err != nil {
		log.Printf("Error getting product by ID %d: %v", id, err)
		return respondStoreError(c, err, "Could not retrieve product")
	}
	return c.JSON(models.ToView(*product))
}

// HandleUpdateProduct replaces all fields of an existing product.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 0 {
		return respondNotFound(c)
	}
	in, problem := h.parseInput(c)
	if problem != nil {
		return c.Status(fiber.StatusBadRequest).JSON(problem)
	}

	product, err := h.service.UpdateProduct(c.UserContext(), uint(id), in)
	if err != nil {
		log.Printf("Error updating product %d: %v", id, err)
		return respondStoreError(c, err, "Could not update product")
	}
	return c.JSON(models.ToView(*product))
}

// HandleDeleteProduct deletes a product and returns it as it was.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 0 {
		return respondNotFound(c)
	}

	product, err := h.service.DeleteProduct(c.UserContext(), uint(id))
	if err != nil {
		log.Printf("Error deleting product %d: %v", id, err)
		return respondStoreError(c, err, "Could not delete product")
	}
	return c.JSON(models.ToView(*product))
}

// parseInput decodes and validates the request body. A non-nil map is the
// body of the 400 response to send instead.
func (h *ProductHandler) parseInput(c *fiber.Ctx) (models.ProductInput, fiber.Map) {
	var in models.ProductInput
	if err := c.BodyParser(&in); err != nil {
		log.Printf("Error parsing product request body: %v", err)
		return in, fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		}
	}

	if err := h.validate.Struct(in); err != nil {
		var validationErrors validator.ValidationErrors
		if !errors.As(err, &validationErrors) {
			return in, fiber.Map{
				"message": "Invalid request body",
				"error":   err.Error(),
			}
		}
		errorMessages := make(map[string]string)
		for _, e := range validationErrors {
			errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
		return in, fiber.Map{
			"message": "Validation failed",
			"errors":  errorMessages,
		}
	}
	return in, nil
}

func respondNotFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"message": fmt.Sprintf("Product with ID %s not found", c.Params("id")),
	})
}

// respondStoreError maps repository errors onto HTTP statuses. Store faults
// are reported without their cause.
func respondStoreError(c *fiber.Ctx, err error, message string) error {
	switch {
	case errors.Is(err, repositories.ErrProductNotFound):
		return respondNotFound(c)
	case errors.Is(err, repositories.ErrDuplicateName):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message": "A product with this name already exists",
			"error":   err.Error(),
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": message,
		})
	}
}
