package handlers

import (
	"storefront/internal/models"
	"storefront/internal/services"

	"github.com/gofiber/fiber/v2"
)

// ReviewHandler handles HTTP requests for product reviews.
type ReviewHandler struct {
	reviewService *services.ReviewService
	validator     *requestValidator
}

// NewReviewHandler creates a new ReviewHandler.
func NewReviewHandler(reviewService *services.ReviewService) *ReviewHandler {
	return &ReviewHandler{
		reviewService: reviewService,
		validator:     newRequestValidator(),
	}
}

// RegisterRoutes registers the review routes.
func (h *ReviewHandler) RegisterRoutes(router fiber.Router, g Guards) {
	router.Get("/products/:id/reviews", h.ListReviews)
	router.Get("/products/:id/reviews/stats", h.GetStats)

	reviewRoutes := router.Group("/reviews", g.Auth)
	reviewRoutes.Post("/", h.CreateReview)
	reviewRoutes.Put("/:reviewId", h.UpdateReview)
	reviewRoutes.Delete("/:reviewId", h.DeleteReview)
}

// CreateReview adds a review by the caller.
func (h *ReviewHandler) CreateReview(c *fiber.Ctx) error {
	var in models.ReviewInput
	if errs := h.validator.bind(c, &in); errs != nil {
		return invalid(c, errs)
	}

	review, err := h.reviewService.Create(c.UserContext(), identity(c).UserID, in)
	if err != nil {
		return fail(c, err)
	}
	return respond(c, fiber.StatusCreated, "review created", review)
}

// UpdateReview edits a review owned by the caller.
func (h *ReviewHandler) UpdateReview(c *fiber.Ctx) error {
	var in models.ReviewUpdate
	if errs := h.validator.bind(c, &in); errs != nil {
		return invalid(c, errs)
	}

	review, err := h.reviewService.Update(c.UserContext(), identity(c).UserID, c.Params("reviewId"), in)
	if err != nil {
		return fail(c, err)
	}
	return respond(c, fiber.StatusOK, "review updated", review)
}

// DeleteReview removes a review owned by the caller.
func (h *ReviewHandler) DeleteReview(c *fiber.Ctx) error {
	if err := h.reviewService.Delete(c.UserContext(), identity(c).UserID, c.Params("reviewId")); err != nil {
		return fail(c, err)
	}
	return respond(c, fiber.StatusOK, "review deleted", nil)
}

// ListReviews returns one page of a product's reviews, newest first.
func (h *ReviewHandler) ListReviews(c *fiber.Ctx) error {
	page, err := h.reviewService.List(c.UserContext(), c.Params("id"), c.Query("page"), c.Query("limit"))
	if err != nil {
		return fail(c, err)
	}
	return respond(c, fiber.StatusOK, "reviews retrieved", page)
}

// GetStats summarizes a product's reviews.
func (h *ReviewHandler) GetStats(c *fiber.Ctx) error {
	stats, err := h.reviewService.Stats(c.UserContext(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return respond(c, fiber.StatusOK, "review stats retrieved", stats)
}
