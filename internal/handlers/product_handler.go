package handlers

import (
	"storefront/internal/models"
	"storefront/internal/services"

	"github.com/gofiber/fiber/v2"
)

// ProductHandler handles HTTP requests for the catalog.
type ProductHandler struct {
	productService *services.ProductService
	validator      *requestValidator
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(productService *services.ProductService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		validator:      newRequestValidator(),
	}
}

// RegisterRoutes registers the catalog routes. Mutations require an admin.
func (h *ProductHandler) RegisterRoutes(router fiber.Router, g Guards) {
	router.Get("/categories", h.GetCategories)

	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.SearchProducts)
	productRoutes.Get("/search", h.SearchProducts)
	productRoutes.Get("/:id", h.GetProduct)
	productRoutes.Get("/:id/similar", h.GetSimilar)
	productRoutes.Get("/:id/view-count", h.GetViewCount)

	productRoutes.Post("/", g.Auth, g.Admin, h.CreateProduct)
	productRoutes.Put("/:id", g.Auth, g.Admin, h.UpdateProduct)
	productRoutes.Delete("/:id", g.Auth, g.Admin, h.DeleteProduct)
}

// SearchProducts lists one page of the catalog matching the query string filters.
func (h *ProductHandler) SearchProducts(c *fiber.Ctx) error {
	var filters models.CatalogFilters
	if err := c.QueryParser(&filters); err != nil {
		return invalid(c, []FieldError{{Field: "query", Message: "invalid query string"}})
	}

	page, err := h.productService.Search(c.UserContext(), filters)
	if err != nil {
		return fail(c, err)
	}
	return respond(c, fiber.StatusOK, "products retrieved", page)
}

// GetCategories lists the distinct categories.
func (h *ProductHandler) GetCategories(c *fiber.Ctx) error {
	categories, err := h.productService.Categories(c.UserContext())
	if err != nil {
		return fail(c, err)
	}
	return respond(c, fiber.StatusOK, "categories retrieved", categories)
}

// GetProduct returns a product and counts the view.
func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	product, err := h.productService.ViewProduct(c.UserContext(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return respond(c, fiber.StatusOK, "product retrieved", product)
}

// GetSimilar lists products in the same category.
func (h *ProductHandler) GetSimilar(c *fiber.Ctx) error {
	products, err := h.productService.Similar(c.UserContext(), c.Params("id"), c.Query("limit"))
	if err != nil {
		return fail(c, err)
	}
	return respond(c, fiber.StatusOK, "similar products retrieved", products)
}

// GetViewCount returns the number of distinct viewers of a product.
func (h *ProductHandler) GetViewCount(c *fiber.Ctx) error {
	id := c.Params("id")
	count, err := h.productService.ViewCount(c.UserContext(), id)
	if err != nil {
		return fail(c, err)
	}
	return respond(c, fiber.StatusOK, "view count retrieved", fiber.Map{
		"productId": id,
		"viewCount": count,
	})
}

// CreateProduct adds a product to the catalog.
func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	var in models.ProductInput
	if errs := h.validator.bind(c, &in); errs != nil {
		return invalid(c, errs)
	}

	product, err := h.productService.CreateProduct(c.UserContext(), in)
	if err != nil {
		return fail(c, err)
	}
	return respond(c, fiber.StatusCreated, "product created", product)
}

// UpdateProduct changes the fields present in the body.
func (h *ProductHandler) UpdateProduct(c *fiber.Ctx) error {
	var in models.ProductInput
	if errs := h.validator.bind(c, &in); errs != nil {
		return invalid(c, errs)
	}

	product, err := h.productService.UpdateProduct(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return fail(c, err)
	}
	return respond(c, fiber.StatusOK, "product updated", product)
}

// DeleteProduct hides a product from the catalog.
func (h *ProductHandler) DeleteProduct(c *fiber.Ctx) error {
	if err := h.productService.DeleteProduct(c.UserContext(), c.Params("id")); err != nil {
		return fail(c, err)
	}
	return respond(c, fiber.StatusOK, "product deleted", nil)
}
