package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	aws_pkg "github.com/Lecrosoft-Technologies/blossomflow-hub-sub000/pkg/aws"
	"github.com/joho/godotenv"
)

// Promo lookup sources.
const (
	PromoSourceDatabase = "database"
	PromoSourceAPI      = "api"
)

// Config holds all configuration for the storefront service.
type Config struct {
	Env      string
	LogLevel string
	Port     string

	AllowedOrigins []string
	RequestTimeout time.Duration

	RedisURL        string
	CartTTL         time.Duration
	PromoSessionTTL time.Duration
	CatalogCacheTTL time.Duration
	IdempotencyTTL  time.Duration

	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresHost     string
	PostgresPort     string
	PostgresSSLMode  string
	PostgresTimeZone string

	StorefrontAPIURL string
	APITimeout       time.Duration
	PromoSource      string

	StripeSecretKey  string
	StripeSuccessURL string
	StripeCancelURL  string

	AWSRegion           string
	AWSEndpoint         string
	AWSUseSecrets       bool
	AWSDBSecretID       string
	CheckoutSNSTopicARN string
}

// CredentialsSource supplies database credentials, e.g. from AWS Secrets Manager.
type CredentialsSource interface {
	DBCredentials(ctx context.Context) (*aws_pkg.DBCredentials, error)
}

// DBCredentialsSecret is the default Secrets Manager entry holding database credentials.
const DBCredentialsSecret = "storefront/DB_CREDENTIALS"

// Load reads configuration from an optional .env file and the environment,
// with an optional Secrets Manager override for database credentials.
func Load(ctx context.Context) (*Config, error) {
	_ = godotenv.Load()

	cfg := FromEnv()

	if cfg.AWSUseSecrets {
		awsCfg, err := aws_pkg.LoadAWSConfig(ctx, cfg.AWSRegion, cfg.AWSEndpoint)
		if err != nil {
			return nil, err
		}
		if err := cfg.ApplySecrets(ctx, aws_pkg.NewCredentialsSource(awsCfg, cfg.AWSDBSecretID)); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromEnv builds a Config from environment variables and defaults only.
func FromEnv() *Config {
	return &Config{
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: os.Getenv("LOG_LEVEL"),
		Port:     getEnv("PORT", "8080"),

		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3000")),
		RequestTimeout: getDuration("REQUEST_TIMEOUT", 30*time.Second),

		RedisURL:        getEnv("REDIS_URL", "redis://localhost:6379"),
		CartTTL:         getDuration("CART_TTL", 7*24*time.Hour),
		PromoSessionTTL: getDuration("PROMO_SESSION_TTL", 2*time.Hour),
		CatalogCacheTTL: getDuration("CATALOG_CACHE_TTL", 5*time.Minute),
		IdempotencyTTL:  getDuration("IDEMPOTENCY_TTL", 24*time.Hour),

		PostgresUser:     os.Getenv("POSTGRES_USER"),
		PostgresPassword: os.Getenv("POSTGRES_PASSWORD"),
		PostgresDB:       os.Getenv("POSTGRES_DB"),
		PostgresHost:     os.Getenv("POSTGRES_HOST"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
		PostgresTimeZone: getEnv("POSTGRES_TIMEZONE", "Africa/Lagos"),

		StorefrontAPIURL: strings.TrimSuffix(getEnv("STOREFRONT_API_URL", "http://localhost:3001/api"), "/"),
		APITimeout:       getDuration("STOREFRONT_API_TIMEOUT", 10*time.Second),
		PromoSource:      strings.ToLower(getEnv("PROMO_SOURCE", PromoSourceDatabase)),

		StripeSecretKey:  os.Getenv("STRIPE_API_KEY"),
		StripeSuccessURL: getEnv("STRIPE_SUCCESS_URL", "http://localhost:5173/checkout/success"),
		StripeCancelURL:  getEnv("STRIPE_CANCEL_URL", "http://localhost:5173/checkout"),

		AWSRegion:           os.Getenv("AWS_REGION"),
		AWSEndpoint:         os.Getenv("AWS_ENDPOINT"),
		AWSUseSecrets:       os.Getenv("AWS_USE_SECRETS") == "true",
		AWSDBSecretID:       getEnv("AWS_DB_SECRET_ID", DBCredentialsSecret),
		CheckoutSNSTopicARN: os.Getenv("CHECKOUT_SNS_TOPIC_ARN"),
	}
}

// ApplySecrets overrides database credentials with the ones held by src.
// Fields the secret leaves empty keep their env value.
func (c *Config) ApplySecrets(ctx context.Context, src CredentialsSource) error {
	creds, err := src.DBCredentials(ctx)
	if err != nil {
		return fmt.Errorf("load db credentials: %w", err)
	}

	override := func(v string, dst *string) {
		if v != "" {
			*dst = v
		}
	}
	override(creds.User, &c.PostgresUser)
	override(creds.Password, &c.PostgresPassword)
	override(creds.Name, &c.PostgresDB)
	override(creds.Host, &c.PostgresHost)
	override(creds.Port, &c.PostgresPort)
	return nil
}

// Validate reports missing or inconsistent settings.
func (c *Config) Validate() error {
	if c.PostgresUser == "" || c.PostgresPassword == "" || c.PostgresDB == "" || c.PostgresHost == "" {
		return fmt.Errorf("database config incomplete")
	}
	if c.PromoSource != PromoSourceDatabase && c.PromoSource != PromoSourceAPI {
		return fmt.Errorf("PROMO_SOURCE must be %q or %q, got %q", PromoSourceDatabase, PromoSourceAPI, c.PromoSource)
	}
	if c.StorefrontAPIURL == "" {
		return fmt.Errorf("STOREFRONT_API_URL is required")
	}
	return nil
}

// PostgresDSN renders the connection string for gorm's postgres driver.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		c.PostgresHost, c.PostgresUser, c.PostgresPassword, c.PostgresDB,
		c.PostgresPort, c.PostgresSSLMode, c.PostgresTimeZone)
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

// getDuration accepts Go durations ("90s") or whole seconds ("90").
func getDuration(key string, fallback time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	if d, err := time.ParseDuration(val); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(val); err == nil {
		return time.Duration(secs) * time.Second
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(part), "/")); p != "" {
			out = append(out, p)
		}
	}
	return out
}
