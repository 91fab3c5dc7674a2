package middleware

import (
	"strings"

	"storefront/internal/services"
	"storefront/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

const identityKey = "identity"

// AuthRequired is a Fiber middleware to check for a valid JWT token.
func AuthRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return deny(c, fiber.StatusUnauthorized, "authorization header is required")
		}

		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			return deny(c, fiber.StatusUnauthorized, "authorization header format must be 'Bearer <token>'")
		}

		identity, err := authService.ValidateToken(parts[1])
		if err != nil {
			logger.Debug(c.UserContext()).Err(err).Msg("JWT validation failed")
			return deny(c, fiber.StatusUnauthorized, "invalid or expired token")
		}

		c.Locals(identityKey, identity)
		c.Locals("user_id", identity.UserID)
		return c.Next()
	}
}

// RequireRole rejects callers whose role is not one of roles. It must run after AuthRequired.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, ok := CurrentUser(c)
		if !ok {
			return deny(c, fiber.StatusUnauthorized, "authentication required")
		}
		for _, role := range roles {
			if identity.Role == role {
				return c.Next()
			}
		}
		return deny(c, fiber.StatusForbidden, "insufficient permissions")
	}
}

// CurrentUser returns the identity stored by AuthRequired.
func CurrentUser(c *fiber.Ctx) (*services.Identity, bool) {
	identity, ok := c.Locals(identityKey).(*services.Identity)
	return identity, ok && identity != nil
}

func deny(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"EC": 1,
		"EM": message,
		"DT": nil,
	})
}
