package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

const devJWTSecret = "dev-secret-change-in-production"

var ErrInsecureJWTSecret = errors.New("JWT_SECRET must be set in production environment")

type Config struct {
	Port            string
	Env             string
	LogLevel        string
	ShutdownTimeout time.Duration

	DatabaseDriver string
	DatabaseDSN    string

	JWTSecret string
	JWTExpiry time.Duration

	AuthRateLimitRPS   float64
	AuthRateLimitBurst int

	CORSAllowedOrigins []string

	UploadMaxBytes int64
	Storage        StorageConfig
}

// StorageConfig selects and configures the disk used for recipe images.
type StorageConfig struct {
	Disk      string
	LocalRoot string
	BaseURL   string

	S3Bucket   string
	S3Region   string
	S3Key      string
	S3Secret   string
	S3Endpoint string
	S3URL      string
}

func Load() (Config, error) {
	cfg := Config{
		Port:            getEnv("PORT", "8080"),
		Env:             getEnv("ENV", "development"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		ShutdownTimeout: getDurationEnv("SHUTDOWN_TIMEOUT", 10*time.Second),

		DatabaseDriver: getEnv("DATABASE_DRIVER", "mysql"),
		DatabaseDSN:    getEnv("DATABASE_DSN", "root:password@tcp(127.0.0.1:3306)/recipebox?parseTime=true"),

		JWTSecret: getEnv("JWT_SECRET", devJWTSecret),
		JWTExpiry: getDurationEnv("JWT_EXPIRY", 24*time.Hour),

		AuthRateLimitRPS:   getFloatEnv("AUTH_RATE_LIMIT_RPS", 5),
		AuthRateLimitBurst: getIntEnv("AUTH_RATE_LIMIT_BURST", 10),

		CORSAllowedOrigins: getListEnv("CORS_ALLOWED_ORIGINS", []string{"*"}),

		UploadMaxBytes: int64(getIntEnv("UPLOAD_MAX_BYTES", 10<<20)),
		Storage: StorageConfig{
			Disk:       getEnv("STORAGE_DISK", "local"),
			LocalRoot:  getEnv("STORAGE_LOCAL_ROOT", "media"),
			BaseURL:    getEnv("STORAGE_URL", "http://localhost:8080/media"),
			S3Bucket:   getEnv("S3_BUCKET", ""),
			S3Region:   getEnv("S3_REGION", "us-east-1"),
			S3Key:      getEnv("S3_KEY", ""),
			S3Secret:   getEnv("S3_SECRET", ""),
			S3Endpoint: getEnv("S3_ENDPOINT", ""),
			S3URL:      getEnv("S3_URL", ""),
		},
	}

	if cfg.IsProduction() && cfg.JWTSecret == devJWTSecret {
		return Config{}, ErrInsecureJWTSecret
	}

	return cfg, nil
}

// IsProduction reports whether ENV is "production".
func (c Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getFloatEnv(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

// getListEnv splits a comma-separated value, dropping empty items.
func getListEnv(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
