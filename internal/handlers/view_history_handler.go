package handlers

import (
	"storefront/internal/services"

	"github.com/gofiber/fiber/v2"
)

// ViewHistoryHandler handles HTTP requests for the caller's view history.
type ViewHistoryHandler struct {
	historyService *services.ViewHistoryService
	validator      *requestValidator
}

// NewViewHistoryHandler creates a new ViewHistoryHandler.
func NewViewHistoryHandler(historyService *services.ViewHistoryService) *ViewHistoryHandler {
	return &ViewHistoryHandler{
		historyService: historyService,
		validator:      newRequestValidator(),
	}
}

// RegisterRoutes registers the view history routes. All of them require a user.
func (h *ViewHistoryHandler) RegisterRoutes(router fiber.Router, g Guards) {
	historyRoutes := router.Group("/view-history", g.Auth)
	historyRoutes.Post("/", h.RecordView)
	historyRoutes.Get("/", h.ListHistory)
	historyRoutes.Delete("/", h.ClearHistory)
	historyRoutes.Delete("/:productId", h.RemoveFromHistory)
}

// RecordView stores or refreshes the caller's view of a product.
func (h *ViewHistoryHandler) RecordView(c *fiber.Ctx) error {
	var req ProductRef
	if errs := h.validator.bind(c, &req); errs != nil {
		return invalid(c, errs)
	}

	entry, err := h.historyService.Record(c.UserContext(), identity(c).UserID, req.ProductID)
	if err != nil {
		return fail(c, err)
	}
	return respond(c, fiber.StatusOK, "view recorded", entry)
}

// ListHistory returns one page of recently viewed products with stats.
func (h *ViewHistoryHandler) ListHistory(c *fiber.Ctx) error {
	page, err := h.historyService.List(c.UserContext(), identity(c).UserID, c.Query("page"), c.Query("limit"))
	if err != nil {
		return fail(c, err)
	}
	return respond(c, fiber.StatusOK, "view history retrieved", page)
}

// ClearHistory deletes all of the caller's history.
func (h *ViewHistoryHandler) ClearHistory(c *fiber.Ctx) error {
	deleted, err := h.historyService.Clear(c.UserContext(), identity(c).UserID)
	if err != nil {
		return fail(c, err)
	}
	return respond(c, fiber.StatusOK, "view history cleared", fiber.Map{"deletedCount": deleted})
}

// RemoveFromHistory deletes one product from the caller's history.
func (h *ViewHistoryHandler) RemoveFromHistory(c *fiber.Ctx) error {
	if err := h.historyService.Remove(c.UserContext(), identity(c).UserID, c.Params("productId")); err != nil {
		return fail(c, err)
	}
	return respond(c, fiber.StatusOK, "removed from view history", nil)
}
