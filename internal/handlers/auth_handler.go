package handlers

import (
	"strings"

	"storefront/internal/middleware"
	"storefront/internal/services"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles HTTP requests for authentication.
type AuthHandler struct {
	authService *services.AuthService
	validator   *requestValidator
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validator:   newRequestValidator(),
	}
}

// RegisterRoutes registers the authentication and account routes.
func (h *AuthHandler) RegisterRoutes(router fiber.Router, g Guards) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/register", g.limit(middleware.RegisterLimit), h.HandleRegister)
	authRoutes.Post("/login", g.limit(middleware.LoginLimit), h.HandleLogin)

	router.Get("/account", g.Auth, h.HandleAccount)
	router.Get("/users", g.Auth, g.Admin, h.HandleListUsers)
}

// RegisterRequest represents the request body for registration.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=50,personname"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,password"`
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// HandleRegister handles new user registration.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return invalid(c, []FieldError{{Field: "body", Message: "invalid request body"}})
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	if errs := h.validator.check(req); errs != nil {
		return invalid(c, errs)
	}

	user, err := h.authService.RegisterUser(c.UserContext(), req.Name, req.Email, req.Password)
	if err != nil {
		return fail(c, err)
	}
	return respond(c, fiber.StatusCreated, "account created", user)
}

// HandleLogin handles user login and issues a JWT token.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return invalid(c, []FieldError{{Field: "body", Message: "invalid request body"}})
	}
	req.Email = strings.TrimSpace(req.Email)
	if errs := h.validator.check(req); errs != nil {
		return invalid(c, errs)
	}

	result, err := h.authService.LoginUser(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return fail(c, err)
	}
	return respond(c, fiber.StatusOK, "login successful", result)
}

// HandleAccount returns the identity carried by the caller's token.
func (h *AuthHandler) HandleAccount(c *fiber.Ctx) error {
	return respond(c, fiber.StatusOK, "account retrieved", identity(c))
}

// HandleListUsers lists all users. Admin only.
func (h *AuthHandler) HandleListUsers(c *fiber.Ctx) error {
	users, err := h.authService.ListUsers(c.UserContext())
	if err != nil {
		return fail(c, err)
	}
	return respond(c, fiber.StatusOK, "users retrieved", users)
}
