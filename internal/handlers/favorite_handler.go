package handlers

import (
	"storefront/internal/services"

	"github.com/gofiber/fiber/v2"
)

// FavoriteHandler handles HTTP requests for the caller's favorites.
type FavoriteHandler struct {
	favoriteService *services.FavoriteService
	validator       *requestValidator
}

// NewFavoriteHandler creates a new FavoriteHandler.
func NewFavoriteHandler(favoriteService *services.FavoriteService) *FavoriteHandler {
	return &FavoriteHandler{
		favoriteService: favoriteService,
		validator:       newRequestValidator(),
	}
}

// RegisterRoutes registers the favorites routes. All of them require a user.
func (h *FavoriteHandler) RegisterRoutes(router fiber.Router, g Guards) {
	favoriteRoutes := router.Group("/favorites", g.Auth)
	favoriteRoutes.Post("/", h.AddFavorite)
	favoriteRoutes.Get("/", h.ListFavorites)
	favoriteRoutes.Get("/check/:productId", h.CheckFavorite)
	favoriteRoutes.Delete("/:productId", h.RemoveFavorite)
}

// ProductRef is a request body naming one product.
type ProductRef struct {
	ProductID string `json:"productId" validate:"required"`
}

// AddFavorite favorites a product.
func (h *FavoriteHandler) AddFavorite(c *fiber.Ctx) error {
	var req ProductRef
	if errs := h.validator.bind(c, &req); errs != nil {
		return invalid(c, errs)
	}

	favorite, err := h.favoriteService.Add(c.UserContext(), identity(c).UserID, req.ProductID)
	if err != nil {
		return fail(c, err)
	}
	return respond(c, fiber.StatusCreated, "added to favorites", favorite)
}

// RemoveFavorite unfavorites a product.
func (h *FavoriteHandler) RemoveFavorite(c *fiber.Ctx) error {
	if err := h.favoriteService.Remove(c.UserContext(), identity(c).UserID, c.Params("productId")); err != nil {
		return fail(c, err)
	}
	return respond(c, fiber.StatusOK, "removed from favorites", nil)
}

// ListFavorites returns one page of the caller's favorite products with stats.
func (h *FavoriteHandler) ListFavorites(c *fiber.Ctx) error {
	page, err := h.favoriteService.List(c.UserContext(), identity(c).UserID, c.Query("page"), c.Query("limit"))
	if err != nil {
		return fail(c, err)
	}
	return respond(c, fiber.StatusOK, "favorites retrieved", page)
}

// CheckFavorite reports whether the caller favorited a product.
func (h *FavoriteHandler) CheckFavorite(c *fiber.Ctx) error {
	ok, err := h.favoriteService.IsFavorite(c.UserContext(), identity(c).UserID, c.Params("productId"))
	if err != nil {
		return fail(c, err)
	}
	return respond(c, fiber.StatusOK, "favorite checked", fiber.Map{"isFavorite": ok})
}
