// Package router assembles the Fiber application: global middleware, operational endpoints and the API routes.
package router

import (
	"context"
	"time"

	"storefront/internal/handlers"
	"storefront/internal/middleware"
	"storefront/internal/models"
	"storefront/internal/services"
	"storefront/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

// APIPrefix is the mount point of the REST API.
const APIPrefix = "/v1/api"

// Services are the business services behind the API.
type Services struct {
	Auth          *services.AuthService
	PasswordReset *services.PasswordResetService
	Products      *services.ProductService
	Reviews       *services.ReviewService
	Favorites     *services.FavoriteService
	ViewHistory   *services.ViewHistoryService
}

// Options tune the application. The zero value is usable.
type Options struct {
	AppName            string
	CORSAllowedOrigins string
	Limiter            *middleware.Limiter
	// HealthChecks are reported by /health under their names.
	HealthChecks map[string]func(context.Context) error
}

// New builds the Fiber app.
func New(svc Services, opts Options) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      opts.AppName,
		ErrorHandler: handlers.ErrorHandler,
	})

	metrics := middleware.NewMetrics()

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.RequestLogger())
	app.Use(cors.New(cors.Config{
		AllowOrigins: opts.CORSAllowedOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(metrics.Middleware())

	app.Get("/health", healthHandler(opts.HealthChecks))
	app.Get("/metrics", metrics.Handler())

	guards := handlers.Guards{
		Auth:    middleware.AuthRequired(svc.Auth),
		Admin:   middleware.RequireRole(models.RoleAdmin),
		Limiter: opts.Limiter,
	}

	api := app.Group(APIPrefix, opts.Limiter.Handler(middleware.APILimit))
	handlers.NewAuthHandler(svc.Auth).RegisterRoutes(api, guards)
	handlers.NewPasswordResetHandler(svc.PasswordReset).RegisterRoutes(api, guards)
	handlers.NewProductHandler(svc.Products).RegisterRoutes(api, guards)
	handlers.NewReviewHandler(svc.Reviews).RegisterRoutes(api, guards)
	handlers.NewFavoriteHandler(svc.Favorites).RegisterRoutes(api, guards)
	handlers.NewViewHistoryHandler(svc.ViewHistory).RegisterRoutes(api, guards)

	return app
}

func healthHandler(checks map[string]func(context.Context) error) fiber.Handler {
	return func(c *fiber.Ctx) error {
		dependencies := make(map[string]bool, len(checks))
		healthy := true
		for name, check := range checks {
			err := check(c.UserContext())
			dependencies[name] = err == nil
			if err != nil {
				healthy = false
				logger.Warn(c.UserContext()).Err(err).Str("dependency", name).Msg("health check failed")
			}
		}

		status, code := "healthy", fiber.StatusOK
		if !healthy {
			status, code = "degraded", fiber.StatusServiceUnavailable
		}
		return c.Status(code).JSON(fiber.Map{
			"status":       status,
			"time":         time.Now().Format(time.RFC3339),
			"dependencies": dependencies,
		})
	}
}
