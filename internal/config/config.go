// Package config loads the service configuration from the environment and an optional file.
package config

import (
	"fmt"
	"strings"
	"time"

	"storefront/internal/models"

	"github.com/spf13/viper"
)

// Config holds every setting the service reads at startup.
type Config struct {
	AppPort  string
	AppEnv   string
	LogLevel string

	DBDriver    string
	DatabaseDSN string

	JWTSecret string
	JWTExpire time.Duration

	RabbitMQURL   string
	RabbitMQQueue string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	Catalog            models.CatalogDefaults
	ReviewsLimit       int
	SimilarLimit       int
	OTPTTL             time.Duration
	OTPSweepInterval   time.Duration
	RateLimitEnabled   bool
	CORSAllowedOrigins string
	SeedProducts       bool
}

// IsDevelopment reports whether the service runs in the development environment.
func (c Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DB_DRIVER", "sqlite")
	v.SetDefault("DATABASE_DSN", "storefront.db")
	v.SetDefault("JWT_SECRET", "change_me")
	v.SetDefault("JWT_EXPIRE", "168h")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("RABBITMQ_QUEUE", "notification_queue")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CACHE_TTL", "5m")
	v.SetDefault("CATALOG_DEFAULT_PAGE", 1)
	v.SetDefault("CATALOG_DEFAULT_LIMIT", 12)
	v.SetDefault("CATALOG_MAX_LIMIT", 100)
	v.SetDefault("REVIEWS_DEFAULT_LIMIT", 10)
	v.SetDefault("SIMILAR_DEFAULT_LIMIT", 8)
	v.SetDefault("OTP_TTL", "10m")
	v.SetDefault("OTP_SWEEP_INTERVAL", "1m")
	v.SetDefault("RATE_LIMIT_ENABLED", true)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("SEED_PRODUCTS", false)
}

// Load reads the configuration. Environment variables override the file named by CONFIG_FILE.
func Load() (Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file := v.GetString("CONFIG_FILE"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("failed to read config file %s: %w", file, err)
		}
	}

	cfg := Config{
		AppPort:     v.GetString("APP_PORT"),
		AppEnv:      v.GetString("APP_ENV"),
		LogLevel:    v.GetString("LOG_LEVEL"),
		DBDriver:    v.GetString("DB_DRIVER"),
		DatabaseDSN: v.GetString("DATABASE_DSN"),

		JWTSecret: v.GetString("JWT_SECRET"),
		JWTExpire: v.GetDuration("JWT_EXPIRE"),

		RabbitMQURL:   v.GetString("RABBITMQ_URL"),
		RabbitMQQueue: v.GetString("RABBITMQ_QUEUE"),

		RedisAddr:     v.GetString("REDIS_ADDR"),
		RedisPassword: v.GetString("REDIS_PASSWORD"),
		RedisDB:       v.GetInt("REDIS_DB"),
		CacheTTL:      v.GetDuration("CACHE_TTL"),

		Catalog: models.CatalogDefaults{
			Page:     v.GetInt("CATALOG_DEFAULT_PAGE"),
			Limit:    v.GetInt("CATALOG_DEFAULT_LIMIT"),
			MaxLimit: v.GetInt("CATALOG_MAX_LIMIT"),
		},
		ReviewsLimit:       v.GetInt("REVIEWS_DEFAULT_LIMIT"),
		SimilarLimit:       v.GetInt("SIMILAR_DEFAULT_LIMIT"),
		OTPTTL:             v.GetDuration("OTP_TTL"),
		OTPSweepInterval:   v.GetDuration("OTP_SWEEP_INTERVAL"),
		RateLimitEnabled:   v.GetBool("RATE_LIMIT_ENABLED"),
		CORSAllowedOrigins: v.GetString("CORS_ALLOWED_ORIGINS"),
		SeedProducts:       v.GetBool("SEED_PRODUCTS"),
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET must not be empty")
	}
	if c.JWTExpire <= 0 {
		return fmt.Errorf("JWT_EXPIRE must be positive")
	}
	if c.Catalog.Page < 1 || c.Catalog.Limit < 1 {
		return fmt.Errorf("catalog defaults must be positive, got page=%d limit=%d", c.Catalog.Page, c.Catalog.Limit)
	}
	if c.ReviewsLimit < 1 || c.SimilarLimit < 1 {
		return fmt.Errorf("list limits must be positive")
	}
	if c.OTPTTL <= 0 {
		return fmt.Errorf("OTP_TTL must be positive")
	}
	return nil
}
