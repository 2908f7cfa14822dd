package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	HTTPAddr    string
	LogLevel    string

	DBType            string
	DBHost            string
	DBPort            string
	DBName            string
	DBUser            string
	DBPassword        string
	DBSSLMode         string
	DBMaxIdleConn     int
	DBMaxOpenConn     int
	DBConnMaxLifetime int

	Sync      SyncConfig
	RateLimit RateLimitConfig
	Bootstrap BootstrapConfig
}

// BootstrapConfig controls first-run seeding for self-hosted installs.
type BootstrapConfig struct {
	EnsureDefaultVendor bool
	DefaultVendorCode   string
}

// SyncConfig carries the batch synchronization policy knobs.
type SyncConfig struct {
	// ItemTimeout bounds each batch item's transaction so one slow item
	// cannot stall the rest of the batch.
	ItemTimeout time.Duration
	// AllowNegativeStock keeps the historical backorder behavior when true;
	// when false an order that would take stock below zero is rejected.
	AllowNegativeStock bool
	// InvoiceNumberRetries bounds the retry loop around invoice number
	// generation when two items race on the same vendor sequence.
	InvoiceNumberRetries int
}

type RateLimitConfig struct {
	Enabled       bool
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	SyncRate      float64
	SyncBurst     int
}

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		AppName:     getenv("APP_SERVICE", "fieldsync"),
		AppVersion:  getenv("APP_VERSION", "0.1.0"),
		Environment: getenv("ENVIRONMENT", "development"),
		HTTPAddr:    getenv("HTTP_ADDR", ":8080"),
		LogLevel:    getenv("LOG_LEVEL", "info"),

		DBType:            getenv("DATABASE_TYPE", "postgres"),
		DBHost:            getenv("DATABASE_HOST", "localhost"),
		DBPort:            getenv("DATABASE_PORT", "5432"),
		DBName:            getenv("DATABASE_NAME", "fieldsync"),
		DBUser:            getenv("DATABASE_USER", "postgres"),
		DBPassword:        getenv("DATABASE_PASSWORD", ""),
		DBSSLMode:         getenv("DATABASE_SSLMODE", "disable"),
		DBMaxIdleConn:     getenvInt("DATABASE_MAX_IDLE_CONN", 5),
		DBMaxOpenConn:     getenvInt("DATABASE_MAX_OPEN_CONN", 25),
		DBConnMaxLifetime: getenvInt("DATABASE_CONN_MAX_LIFETIME_MINUTES", 30),

		Sync: SyncConfig{
			ItemTimeout:          time.Duration(getenvInt("SYNC_ITEM_TIMEOUT_MS", 15000)) * time.Millisecond,
			AllowNegativeStock:   getenvBool("SYNC_ALLOW_NEGATIVE_STOCK", true),
			InvoiceNumberRetries: getenvInt("SYNC_INVOICE_NUMBER_RETRIES", 3),
		},
		RateLimit: RateLimitConfig{
			Enabled:       getenvBool("RATE_LIMIT_ENABLED", false),
			RedisAddr:     strings.TrimSpace(getenv("RATE_LIMIT_REDIS_ADDR", "")),
			RedisPassword: strings.TrimSpace(getenv("RATE_LIMIT_REDIS_PASSWORD", "")),
			RedisDB:       getenvInt("RATE_LIMIT_REDIS_DB", 0),
			SyncRate:      getenvFloat("RATE_LIMIT_SYNC_RATE", 1),
			SyncBurst:     getenvInt("RATE_LIMIT_SYNC_BURST", 5),
		},
		Bootstrap: BootstrapConfig{
			EnsureDefaultVendor: getenvBool("BOOTSTRAP_ENSURE_DEFAULT_VENDOR", true),
			DefaultVendorCode:   getenv("BOOTSTRAP_DEFAULT_VENDOR_CODE", "main"),
		},
	}
}

// Module wires configuration loading into the fx graph.
var Module = fx.Module("config",
	fx.Provide(Load),
)

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}

func getenvFloat(key string, def float64) float64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return def
	}
	return parsed
}

func getenvBool(key string, def bool) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if value == "" {
		return def
	}
	switch value {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}
