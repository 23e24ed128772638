package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Port    string
	BaseURL string

	// Database
	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	DBPath     string

	JWT JWTConfig

	// Logging
	LogLevel     string
	LogFile      string
	GormLogLevel string

	// Optional; empty disables the short link cache and token revocation.
	RedisURL string

	// Images go to S3 when S3Bucket is set, otherwise to MediaRoot on disk.
	S3Bucket   string
	AWSRegion  string
	S3Endpoint string
	S3BaseURL  string
	MediaRoot  string
	MediaURL   string

	CORSAllowedOrigins []string

	Shortcode ShortcodeConfig
}

type ShortcodeConfig struct {
	Length      int
	MaxAttempts int
	MaxWiden    int
}

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Load reads .env (when present) and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	jwtCfg, err := loadJWT()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Port:    getEnv("PORT", "8080"),
		BaseURL: getEnv("BASE_URL", "http://localhost:8080"),

		DBDriver:   getEnv("DB_DRIVER", "postgres"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "postgres"),
		DBName:     getEnv("DB_NAME", "foodgram"),
		DBSSLMode:  getEnv("DB_SSL_MODE", "disable"),
		DBPath:     getEnv("DB_PATH", "foodgram.sqlite"),

		JWT: jwtCfg,

		LogLevel:     getEnv("LOG_LEVEL", "info"),
		LogFile:      getEnv("LOG_FILE", ""),
		GormLogLevel: getEnv("GORM_LOG_LEVEL", "warn"),

		RedisURL: getEnv("REDIS_URL", ""),

		S3Bucket:   getEnv("S3_BUCKET_NAME", ""),
		AWSRegion:  getEnv("AWS_REGION", "us-east-1"),
		S3Endpoint: getEnv("S3_ENDPOINT", ""),
		S3BaseURL:  getEnv("S3_BASE_URL", ""),
		MediaRoot:  getEnv("MEDIA_ROOT", "media"),
		MediaURL:   getEnv("MEDIA_URL", "/media"),

		CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000")),
	}

	if cfg.Shortcode.Length, err = getEnvInt("SHORTCODE_LENGTH", 10); err != nil {
		return nil, err
	}
	if cfg.Shortcode.MaxAttempts, err = getEnvInt("SHORTCODE_MAX_ATTEMPTS", 10); err != nil {
		return nil, err
	}
	if cfg.Shortcode.MaxWiden, err = getEnvInt("SHORTCODE_MAX_WIDEN", 6); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// Validate reports every invalid field at once.
func (c *Config) Validate() error {
	var errs []error

	switch c.DBDriver {
	case "postgres":
		for field, value := range map[string]string{
			"DB_HOST": c.DBHost,
			"DB_PORT": c.DBPort,
			"DB_USER": c.DBUser,
			"DB_NAME": c.DBName,
		} {
			if strings.TrimSpace(value) == "" {
				errs = append(errs, ValidationError{Field: field, Message: "is required"})
			}
		}
	case "sqlite":
		if strings.TrimSpace(c.DBPath) == "" {
			errs = append(errs, ValidationError{Field: "DB_PATH", Message: "is required for sqlite"})
		}
	default:
		errs = append(errs, ValidationError{Field: "DB_DRIVER", Message: fmt.Sprintf("unsupported driver %q", c.DBDriver)})
	}

	if len(c.JWT.Secret) == 0 {
		errs = append(errs, ValidationError{Field: "JWT_SECRET", Message: "is required"})
	}
	if c.JWT.Expiration <= 0 {
		errs = append(errs, ValidationError{Field: "JWT_EXPIRATION", Message: "must be positive"})
	}
	if c.Shortcode.Length < 4 {
		errs = append(errs, ValidationError{Field: "SHORTCODE_LENGTH", Message: "must be at least 4"})
	}
	if c.Shortcode.MaxAttempts < 1 {
		errs = append(errs, ValidationError{Field: "SHORTCODE_MAX_ATTEMPTS", Message: "must be at least 1"})
	}
	if c.Shortcode.MaxWiden < 0 {
		errs = append(errs, ValidationError{Field: "SHORTCODE_MAX_WIDEN", Message: "must not be negative"})
	}
	if c.S3Bucket == "" && strings.TrimSpace(c.MediaRoot) == "" {
		errs = append(errs, ValidationError{Field: "MEDIA_ROOT", Message: "is required without S3_BUCKET_NAME"})
	}

	return errors.Join(errs...)
}

// MediaBaseURL is the public prefix of locally stored images.
func (c *Config) MediaBaseURL() string {
	return strings.TrimRight(c.BaseURL, "/") + "/" + strings.Trim(c.MediaURL, "/")
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	value, exists := os.LookupEnv(key)
	if !exists || strings.TrimSpace(value) == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, ValidationError{Field: key, Message: fmt.Sprintf("invalid integer %q", value)}
	}
	return n, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	value, exists := os.LookupEnv(key)
	if !exists || strings.TrimSpace(value) == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return 0, ValidationError{Field: key, Message: fmt.Sprintf("invalid duration %q", value)}
	}
	return d, nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
