package handlers

import (
	"errors"

	"storefront/internal/middleware"
	"storefront/internal/services"
	"storefront/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

// Application status codes carried in the EC field of every response.
const (
	ecSuccess = 0
	ecFailure = 1
	ecSystem  = -1
)

// Response is the envelope of every JSON response.
type Response struct {
	EC     int          `json:"EC"`
	EM     string       `json:"EM"`
	DT     interface{}  `json:"DT"`
	Errors []FieldError `json:"errors,omitempty"`
}

// Guards are the middleware handlers routes are mounted behind.
// Admin must run after Auth. A nil Limiter disables rate limiting.
type Guards struct {
	Auth    fiber.Handler
	Admin   fiber.Handler
	Limiter *middleware.Limiter
}

func (g Guards) limit(rl middleware.RateLimit) fiber.Handler {
	return g.Limiter.Handler(rl)
}

func respond(c *fiber.Ctx, status int, message string, data interface{}) error {
	return c.Status(status).JSON(Response{EC: ecSuccess, EM: message, DT: data})
}

// fail writes the envelope for a service error.
func fail(c *fiber.Ctx, err error) error {
	status, ec := fiber.StatusInternalServerError, ecSystem
	switch services.KindOf(err) {
	case services.KindValidation:
		status, ec = fiber.StatusBadRequest, ecFailure
	case services.KindNotFound:
		status, ec = fiber.StatusNotFound, ecFailure
	case services.KindConflict:
		status, ec = fiber.StatusConflict, ecFailure
	case services.KindUnauthorized:
		status, ec = fiber.StatusUnauthorized, ecFailure
	default:
		logger.Error(c.UserContext()).Err(err).Str("path", c.Path()).Msg("request failed")
	}
	return c.Status(status).JSON(Response{EC: ec, EM: services.MessageOf(err), DT: nil})
}

func invalid(c *fiber.Ctx, fieldErrors []FieldError) error {
	return c.Status(fiber.StatusBadRequest).JSON(Response{
		EC:     ecFailure,
		EM:     "invalid data",
		DT:     nil,
		Errors: fieldErrors,
	})
}

// ErrorHandler renders errors that escaped a handler, including recovered panics, as the envelope.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		ec := ecFailure
		if fe.Code >= fiber.StatusInternalServerError {
			ec = ecSystem
		}
		return c.Status(fe.Code).JSON(Response{EC: ec, EM: fe.Message, DT: nil})
	}
	logger.Error(c.UserContext()).Err(err).Str("path", c.Path()).Msg("unhandled error")
	return c.Status(fiber.StatusInternalServerError).JSON(Response{EC: ecSystem, EM: "internal server error", DT: nil})
}

func identity(c *fiber.Ctx) *services.Identity {
	id, _ := middleware.CurrentUser(c)
	return id
}
