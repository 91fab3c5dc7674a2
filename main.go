package main

import (
	"context"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"storefront/internal/config"
	"storefront/internal/middleware"
	"storefront/internal/notify"
	"storefront/internal/repositories"
	"storefront/internal/router"
	"storefront/internal/seed"
	"storefront/internal/services"
	"storefront/pkg/cache"
	"storefront/pkg/database"
	"storefront/pkg/logger"
	"storefront/pkg/rabbitmq"

	"github.com/redis/go-redis/v9"
)

const serviceName = "storefront"

func main() {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("failed to load configuration")
	}

	logger.Init(serviceName, cfg.IsDevelopment())
	logger.SetLevel(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Database ---
	db, err := database.Open(database.Config{
		Driver: cfg.DBDriver,
		DSN:    cfg.DatabaseDSN,
		Debug:  cfg.LogLevel == "debug",
	})
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := repositories.AutoMigrate(db); err != nil {
		logger.Logger.Fatal().Err(err).Msg("failed to migrate database")
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("failed to get database handle")
	}
	defer sqlDB.Close()

	// --- Repositories ---
	productRepo := repositories.NewGORMProductRepository(db)
	userRepo := repositories.NewGORMUserRepository(db)
	favoriteRepo := repositories.NewGORMFavoriteRepository(db)
	historyRepo := repositories.NewGORMViewHistoryRepository(db)
	reviewRepo := repositories.NewGORMReviewRepository(db)
	resetRepo := repositories.NewGORMPasswordResetRepository(db)

	if cfg.SeedProducts {
		n, err := seed.Products(ctx, productRepo)
		if err != nil {
			logger.Logger.Fatal().Err(err).Msg("failed to seed products")
		}
		if n > 0 {
			logger.Logger.Info().Int("count", n).Msg("seeded sample products")
		}
	}

	healthChecks := map[string]func(context.Context) error{
		"database": sqlDB.PingContext,
	}

	// --- Redis (optional) ---
	var (
		redisClient   *redis.Client
		categoryCache services.CategoryCache
	)
	if cfg.RedisAddr != "" {
		redisClient, err = cache.Connect(ctx, cache.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			logger.Logger.Warn().Err(err).Msg("redis unavailable, using in-memory rate limiting and no category cache")
		} else {
			defer redisClient.Close()
			categoryCache = cache.NewCatalogCache(redisClient, cfg.CacheTTL)
			healthChecks["redis"] = func(ctx context.Context) error {
				return redisClient.Ping(ctx).Err()
			}
		}
	}

	// --- Notifications ---
	var wg sync.WaitGroup
	mailer := notify.LogMailer{}
	var publisher services.Publisher = notify.Direct{Mailer: mailer}
	if cfg.RabbitMQURL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL, Queue: cfg.RabbitMQQueue})
		if err != nil {
			logger.Logger.Warn().Err(err).Msg("RabbitMQ unavailable, emails are delivered in-process")
		} else {
			defer mqClient.Close()
			publisher = mqClient

			wg.Add(1)
			go func() {
				defer wg.Done()
				if err := mqClient.Consume(ctx, notify.Handler(mailer)); err != nil {
					logger.Logger.Error().Err(err).Msg("notification consumer stopped")
				}
			}()
		}
	}

	// --- Services ---
	statsService := services.NewStatsService(historyRepo, reviewRepo)
	authService := services.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTExpire)
	resetService := services.NewPasswordResetService(userRepo, resetRepo, publisher, cfg.OTPTTL)
	productService := services.NewProductService(productRepo, historyRepo, categoryCache, cfg.Catalog, cfg.SimilarLimit)
	reviewService := services.NewReviewService(reviewRepo, productRepo, cfg.ReviewsLimit, cfg.Catalog.MaxLimit)
	favoriteService := services.NewFavoriteService(favoriteRepo, productRepo, statsService, cfg.Catalog)
	historyService := services.NewViewHistoryService(historyRepo, productRepo, statsService, cfg.Catalog)

	wg.Add(1)
	go func() {
		defer wg.Done()
		resetService.RunSweeper(ctx, cfg.OTPSweepInterval)
	}()

	// --- HTTP ---
	app := router.New(router.Services{
		Auth:          authService,
		PasswordReset: resetService,
		Products:      productService,
		Reviews:       reviewService,
		Favorites:     favoriteService,
		ViewHistory:   historyService,
	}, router.Options{
		AppName:            serviceName,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		Limiter:            middleware.NewLimiter(redisClient, cfg.RateLimitEnabled),
		HealthChecks:       healthChecks,
	})

	go func() {
		logger.Logger.Info().Str("addr", cfg.AppPort).Msg("starting server")
		if err := app.Listen(cfg.AppPort); err != nil {
			logger.Logger.Error().Err(err).Msg("server stopped")
			stop()
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	<-ctx.Done()
	logger.Logger.Info().Msg("shutting down server")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Logger.Error().Err(err).Msg("error during server shutdown")
	}
	wg.Wait()

	logger.Logger.Info().Msg("server gracefully stopped")
}
