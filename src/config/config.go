package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/username/tradeperf/src/processors"
)

// AppConfig holds all configuration for the application.
// The values are loaded from environment variables.
type AppConfig struct {
	// Core settings
	Port      string
	LogLevel  string
	LogFormat string // "json" or "text"

	// Upload settings
	MaxUploadSizeBytes int64
	AllowedExtensions  []string
	UploadDir          string // Archive directory for raw uploads, empty disables archiving
	DefaultSource      string

	// Report settings
	ReportCurrency        string
	ReportCacheExpiration time.Duration
	CacheCleanupInterval  time.Duration
	NullAggregation       string // "propagate" or "skip"

	// Transaction code match strings, keyed by category
	TransCodes map[processors.Category]string

	// HTTP hardening
	RateLimitInterval time.Duration
	RateLimitBurst    int
	AllowedOrigins    []string
}

// Cfg is a global instance of the AppConfig.
var Cfg *AppConfig

// LoadConfig loads configuration from environment variables or a .env file.
// It centralizes all configuration logic for the application.
func LoadConfig() {
	// 1. Try loading from the current directory (standard behavior)
	errEnv := godotenv.Load()

	// 2. If not found, try loading from the parent directory
	if errEnv != nil {
		errEnv = godotenv.Load("../.env")
	}

	if errEnv != nil {
		if os.IsNotExist(errEnv) {
			log.Println("Info: No .env file found in current or parent directory. Relying on OS environment variables.")
		} else {
			log.Printf("Warning: Error loading .env file: %v. Relying on OS environment variables.", errEnv)
		}
	} else {
		log.Println(".env file loaded successfully.")
	}

	Cfg = Load()

	log.Printf("Configuration loaded: Port=%s, LogLevel=%s, MaxUpload=%d, UploadDir=%q, Currency=%s, NullAggregation=%s",
		Cfg.Port, Cfg.LogLevel, Cfg.MaxUploadSizeBytes, Cfg.UploadDir, Cfg.ReportCurrency, Cfg.NullAggregation)
}

// Load builds an AppConfig from the current environment without touching Cfg.
func Load() *AppConfig {
	nullAggregation := strings.ToLower(getEnv("NULL_AGGREGATION", "propagate"))
	if nullAggregation != "propagate" && nullAggregation != "skip" {
		log.Printf("WARNING: Invalid NULL_AGGREGATION '%s'. Using default 'propagate'.", nullAggregation)
		nullAggregation = "propagate"
	}

	return &AppConfig{
		// Core
		Port:      getEnv("PORT", "5001"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		// Uploads
		MaxUploadSizeBytes: getEnvAsInt64("MAX_UPLOAD_SIZE_BYTES", 16*1024*1024),
		AllowedExtensions:  getEnvAsList("ALLOWED_EXTENSIONS", []string{"csv"}),
		UploadDir:          getEnv("UPLOAD_DIR", ""),
		DefaultSource:      getEnv("DEFAULT_SOURCE", "robinhood"),

		// Reports
		ReportCurrency:        strings.ToUpper(getEnv("REPORT_CURRENCY", "USD")),
		ReportCacheExpiration: getEnvAsDuration("REPORT_CACHE_EXPIRATION", 15*time.Minute),
		CacheCleanupInterval:  getEnvAsDuration("CACHE_CLEANUP_INTERVAL", 30*time.Minute),
		NullAggregation:       nullAggregation,

		TransCodes: getTransCodes(),

		// HTTP
		RateLimitInterval: getEnvAsDuration("RATE_LIMIT_INTERVAL", 100*time.Millisecond),
		RateLimitBurst:    getEnvAsInt("RATE_LIMIT_BURST", 30),
		AllowedOrigins:    getEnvAsList("ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
	}
}

// getTransCodes reads TRANS_CODE_<CATEGORY> for every classifier category.
func getTransCodes() map[processors.Category]string {
	codes := make(map[processors.Category]string, len(processors.Categories))
	for _, cat := range processors.Categories {
		codes[cat] = getEnv("TRANS_CODE_"+strings.ToUpper(string(cat)), processors.DefaultTransCodes[cat])
	}
	return codes
}

// getEnv retrieves an environment variable or returns a fallback value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvAsInt retrieves an environment variable as an integer or returns a fallback.
func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	log.Printf("Invalid integer value for %s ('%s'), using default: %d", key, valueStr, fallback)
	return fallback
}

// getEnvAsInt64 retrieves an environment variable as an int64 or returns a fallback.
func getEnvAsInt64(key string, fallback int64) int64 {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil && value > 0 {
		return value
	}
	log.Printf("Invalid int64 value for %s ('%s'), using default: %d", key, valueStr, fallback)
	return fallback
}

// getEnvAsDuration retrieves an environment variable as a time.Duration or returns a fallback.
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	log.Printf("Invalid duration value for %s ('%s'), using default: %s", key, valueStr, fallback.String())
	return fallback
}

// getEnvAsList retrieves a comma-separated environment variable as a trimmed list.
// Empty items are dropped; an empty result falls back.
func getEnvAsList(key string, fallback []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	var items []string
	for _, item := range strings.Split(valueStr, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return fallback
	}
	return items
}
