// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const defaultJWTSecret = "your-secret-key-change-in-production"

type Config struct {
	Environment string
	Server      ServerConfig
	Store       StoreConfig
	JWT         JWTConfig
	AWS         AWSConfig
	Payment     PaymentConfig
	Kafka       KafkaConfig
	RateLimit   RateLimitConfig
	Log         LogConfig
	I18n        I18nConfig
	Frontend    FrontendConfig
}

type FrontendConfig struct {
	BaseURL        string
	AllowedOrigins []string
}

type ServerConfig struct {
	Port         string
	Host         string
	ReadTimeout  int
	WriteTimeout int
	IdleTimeout  int

	// RequestTimeout bounds store and gateway work per request, in seconds.
	RequestTimeout int
}

type StoreConfig struct {
	Driver   string // postgres, mongo or memory
	Database DatabaseConfig
	Mongo    MongoConfig
}

type DatabaseConfig struct {
	Host         string
	Port         string
	User         string
	Password     string
	Database     string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  int
	LogLevel     string
}

type MongoConfig struct {
	URI      string
	Database string
	Timeout  int // in seconds
}

type JWTConfig struct {
	SecretKey      string
	AccessTokenTTL int // in hours
}

type AWSConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	S3Bucket        string
	CloudFrontURL   string
	MaxUploadSize   int64
}

type PaymentConfig struct {
	Provider             string // razorpay or stripe
	RazorpayKeyID        string
	RazorpayKeySecret    string
	RazorpayBaseURL      string
	StripeSecretKey      string
	StripePublishableKey string
	Currency             string
	Timeout              int // in seconds
	RetryMax             int

	// TotalTolerance is the largest accepted difference between a client
	// supplied order total and the recomputed one.
	TotalTolerance int64
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
}

type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
}

type LogConfig struct {
	Level  string
	Format string // json or text
}

type I18nConfig struct {
	DefaultLocale string
}

func Load() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	config := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Server: ServerConfig{
			Port:           getEnv("SERVER_PORT", "8080"),
			Host:           getEnv("SERVER_HOST", "localhost"),
			ReadTimeout:    getEnvAsInt("SERVER_READ_TIMEOUT", 15),
			WriteTimeout:   getEnvAsInt("SERVER_WRITE_TIMEOUT", 15),
			IdleTimeout:    getEnvAsInt("SERVER_IDLE_TIMEOUT", 60),
			RequestTimeout: getEnvAsInt("SERVER_REQUEST_TIMEOUT", 10),
		},
		Store: StoreConfig{
			Driver: strings.ToLower(getEnv("STORE_DRIVER", "postgres")),
			Database: DatabaseConfig{
				Host:         getEnv("DB_HOST", "localhost"),
				Port:         getEnv("DB_PORT", "5432"),
				User:         getEnv("DB_USER", "postgres"),
				Password:     getEnv("DB_PASSWORD", ""),
				Database:     getEnv("DB_NAME", "storefront"),
				SSLMode:      getEnv("DB_SSL_MODE", "disable"),
				MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
				MaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 25),
				MaxLifetime:  getEnvAsInt("DB_MAX_LIFETIME", 300),
				LogLevel:     getEnv("DB_LOG_LEVEL", "warn"),
			},
			Mongo: MongoConfig{
				URI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
				Database: getEnv("MONGO_DATABASE", "storefront"),
				Timeout:  getEnvAsInt("MONGO_TIMEOUT", 10),
			},
		},
		JWT: JWTConfig{
			SecretKey:      getEnv("JWT_SECRET", defaultJWTSecret),
			AccessTokenTTL: getEnvAsInt("JWT_ACCESS_TTL", 24), // 24 hours
		},
		AWS: AWSConfig{
			Region:          getEnv("AWS_REGION", "ap-south-1"),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			S3Bucket:        getEnv("AWS_S3_BUCKET", "storefront-product-images"),
			CloudFrontURL:   getEnv("AWS_CLOUDFRONT_URL", ""),
			MaxUploadSize:   int64(getEnvAsInt("AWS_MAX_UPLOAD_MB", 5)) << 20,
		},
		Payment: PaymentConfig{
			Provider:             strings.ToLower(getEnv("PAYMENT_PROVIDER", "razorpay")),
			RazorpayKeyID:        getEnv("RAZORPAY_KEY_ID", ""),
			RazorpayKeySecret:    getEnv("RAZORPAY_KEY_SECRET", ""),
			RazorpayBaseURL:      getEnv("RAZORPAY_BASE_URL", "https://api.razorpay.com"),
			StripeSecretKey:      getEnv("STRIPE_SECRET_KEY", ""),
			StripePublishableKey: getEnv("STRIPE_PUBLISHABLE_KEY", ""),
			Currency:             strings.ToUpper(getEnv("PAYMENT_CURRENCY", "INR")),
			Timeout:              getEnvAsInt("PAYMENT_TIMEOUT", 10),
			RetryMax:             getEnvAsInt("PAYMENT_RETRY_MAX", 2),
			TotalTolerance:       int64(getEnvAsInt("PAYMENT_TOTAL_TOLERANCE", 1)),
		},
		Kafka: KafkaConfig{
			Brokers: getEnvAsSlice("KAFKA_BROKERS", nil),
			Topic:   getEnv("KAFKA_TOPIC", "storefront.orders"),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: getEnvAsFloat("RATE_LIMIT_RPS", 20),
			Burst:             getEnvAsInt("RATE_LIMIT_BURST", 40),
		},
		Log: LogConfig{
			Level:  strings.ToLower(getEnv("LOG_LEVEL", "info")),
			Format: strings.ToLower(getEnv("LOG_FORMAT", "")),
		},
		I18n: I18nConfig{
			DefaultLocale: getEnv("DEFAULT_LOCALE", "en"),
		},
		Frontend: FrontendConfig{
			BaseURL:        getEnv("FRONTEND_URL", "http://localhost:3000"),
			AllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		},
	}

	if config.Log.Format == "" {
		config.Log.Format = "text"
		if config.IsProduction() {
			config.Log.Format = "json"
		}
	}

	return config, config.Validate()
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c *Config) Validate() error {
	if c.JWT.SecretKey == defaultJWTSecret && c.IsProduction() {
		return fmt.Errorf("JWT secret key must be changed in production")
	}

	switch c.Store.Driver {
	case "postgres":
		if c.Store.Database.Password == "" && c.IsProduction() {
			return fmt.Errorf("database password is required in production")
		}
	case "mongo":
		if c.Store.Mongo.URI == "" {
			return fmt.Errorf("MONGO_URI is required for the mongo store")
		}
	case "memory":
		if c.IsProduction() {
			return fmt.Errorf("memory store cannot be used in production")
		}
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}

	switch c.Payment.Provider {
	case "razorpay":
		if c.Payment.RazorpayKeySecret == "" && c.IsProduction() {
			return fmt.Errorf("razorpay key secret is required in production")
		}
	case "stripe":
		if c.Payment.StripeSecretKey == "" && c.IsProduction() {
			return fmt.Errorf("stripe secret key is required in production")
		}
	default:
		return fmt.Errorf("unknown payment provider %q", c.Payment.Provider)
	}

	if c.Payment.TotalTolerance < 0 {
		return fmt.Errorf("PAYMENT_TOTAL_TOLERANCE must not be negative")
	}

	return nil
}

func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.Server.RequestTimeout) * time.Second
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
