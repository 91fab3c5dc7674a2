package handlers

import (
	"strings"

	"storefront/internal/middleware"
	"storefront/internal/services"

	"github.com/gofiber/fiber/v2"
)

// PasswordResetHandler serves the OTP based password reset flow.
type PasswordResetHandler struct {
	resetService *services.PasswordResetService
	validator    *requestValidator
}

// NewPasswordResetHandler creates a new PasswordResetHandler.
func NewPasswordResetHandler(resetService *services.PasswordResetService) *PasswordResetHandler {
	return &PasswordResetHandler{
		resetService: resetService,
		validator:    newRequestValidator(),
	}
}

// RegisterRoutes registers the password reset routes.
func (h *PasswordResetHandler) RegisterRoutes(router fiber.Router, g Guards) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/forgot-password", g.limit(middleware.ForgotLimit), h.HandleForgotPassword)
	authRoutes.Post("/verify-otp", g.limit(middleware.VerifyLimit), h.HandleVerifyOTP)
	authRoutes.Post("/reset-password", h.HandleResetPassword)
}

// ForgotPasswordRequest starts a reset for Email.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// VerifyOTPRequest checks an OTP.
type VerifyOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp" validate:"required,len=6,numeric"`
}

// ResetPasswordRequest sets a new password with a verified OTP.
type ResetPasswordRequest struct {
	Email           string `json:"email" validate:"required,email"`
	OTP             string `json:"otp" validate:"required,len=6,numeric"`
	NewPassword     string `json:"newPassword" validate:"required,min=6,password"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=NewPassword"`
}

// HandleForgotPassword sends an OTP to a registered email.
func (h *PasswordResetHandler) HandleForgotPassword(c *fiber.Ctx) error {
	var req ForgotPasswordRequest
	if errs := h.validator.bind(c, &req); errs != nil {
		return invalid(c, errs)
	}
	if err := h.resetService.RequestReset(c.UserContext(), strings.TrimSpace(req.Email)); err != nil {
		return fail(c, err)
	}
	return respond(c, fiber.StatusOK, "OTP sent to your email", nil)
}

// HandleVerifyOTP marks an OTP as verified.
func (h *PasswordResetHandler) HandleVerifyOTP(c *fiber.Ctx) error {
	var req VerifyOTPRequest
	if errs := h.validator.bind(c, &req); errs != nil {
		return invalid(c, errs)
	}
	if err := h.resetService.VerifyOTP(c.UserContext(), strings.TrimSpace(req.Email), req.OTP); err != nil {
		return fail(c, err)
	}
	return respond(c, fiber.StatusOK, "OTP verified", nil)
}

// HandleResetPassword replaces the password of the account.
func (h *PasswordResetHandler) HandleResetPassword(c *fiber.Ctx) error {
	var req ResetPasswordRequest
	if errs := h.validator.bind(c, &req); errs != nil {
		return invalid(c, errs)
	}
	err := h.resetService.ResetPassword(c.UserContext(), strings.TrimSpace(req.Email), req.OTP, req.NewPassword)
	if err != nil {
		return fail(c, err)
	}
	return respond(c, fiber.StatusOK, "password reset successful", nil)
}
