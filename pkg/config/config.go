package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// ServerConfig holds server configuration
type ServerConfig struct {
	Port string
	Env  string
}

// CatalogConfig holds the remote product/category service settings
type CatalogConfig struct {
	BaseURL string
	Timeout time.Duration
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string
}

// MetricsConfig holds metrics configuration
type MetricsConfig struct {
	Prefix string
}

// UploadConfig holds settings for files attached to the product form
type UploadConfig struct {
	PreviewPath string
	MaxBytes    int64
}

// Config holds all configuration
type Config struct {
	ServiceName string
	Server      ServerConfig
	Catalog     CatalogConfig
	Log         LogConfig
	Metrics     MetricsConfig
	Upload      UploadConfig
}

// Load loads configuration from the environment, reading a .env file first if present
func Load(serviceName string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	serviceName = getEnv("SERVICE_NAME", serviceName)

	config := &Config{
		ServiceName: serviceName,
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
			Env:  getEnv("APP_ENV", "development"),
		},
		Catalog: CatalogConfig{
			BaseURL: strings.TrimRight(getEnv("CATALOG_BASE_URL", "https://bakend-wtc.onrender.com"), "/"),
			Timeout: getEnvAsDuration("CATALOG_TIMEOUT", 30*time.Second),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Metrics: MetricsConfig{
			Prefix: getEnv("METRICS_PREFIX", strings.ReplaceAll(serviceName, "-", "_")),
		},
		Upload: UploadConfig{
			PreviewPath: "/" + strings.Trim(getEnv("PREVIEW_PATH", "/previews"), "/"),
			MaxBytes:    getEnvAsInt64("UPLOAD_MAX_BYTES", 32<<20),
		},
	}

	u, err := url.Parse(config.Catalog.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid CATALOG_BASE_URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
		return nil, fmt.Errorf("invalid CATALOG_BASE_URL %q: absolute http(s) URL required", config.Catalog.BaseURL)
	}
	if config.Upload.MaxBytes <= 0 {
		return nil, fmt.Errorf("invalid UPLOAD_MAX_BYTES: %d", config.Upload.MaxBytes)
	}

	return config, nil
}

// LogFields returns the configuration as zap fields for startup logging
func (c *Config) LogFields() []zap.Field {
	return []zap.Field{
		zap.String("service", c.ServiceName),
		zap.String("environment", c.Server.Env),
		zap.String("server_port", c.Server.Port),
		zap.String("catalog_base_url", c.Catalog.BaseURL),
		zap.Duration("catalog_timeout", c.Catalog.Timeout),
		zap.String("preview_path", c.Upload.PreviewPath),
		zap.Int64("upload_max_bytes", c.Upload.MaxBytes),
	}
}

// IsProduction reports whether the service runs with APP_ENV=production
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// Helper function to get environment variables with defaults
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

// Helper function to get environment variables as int64
func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
		return value
	}
	return defaultValue
}

// Helper function to get environment variables as durations
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
