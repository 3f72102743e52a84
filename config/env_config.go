package config

import (
	"os"
	"strconv"
)

type EnvConfig struct {
	Postgres struct {
		Host     string
		Database string
		Username string
		Password string
		Port     string
	}
	JWT struct {
		SecretKey string
		Expire    int
	}
	CORS struct {
		AllowDomains string
	}
	Redis struct {
		Host     string
		Port     string
		Password string
		Database int
	}
	RabbitMQ struct {
		Host     string
		Port     string
		Username string
		Password string
	}
	Storage struct {
		Root          string // root of the per-user upload trees
		MaxUploadSize int64  // per-file cap in bytes
		MaxBatchFiles int    // files accepted per batch-upload call
		ThumbnailSize int    // square thumbnail edge in pixels
		Thumbnailer   string // "imaging" or "copy"
	}
	Telemetry struct {
		OTLPEndpoint string
		ServiceName  string
	}
	Environment struct {
		Mode string
	}
	Port string
}

func LoadEnvConfig() *EnvConfig {
	var config EnvConfig

	// Postgres
	config.Postgres.Host = getEnv("POSTGRES_HOST", "localhost")
	config.Postgres.Database = getEnv("POSTGRES_DB", "cloudstore")
	config.Postgres.Username = getEnv("POSTGRES_USER", "postgres")
	config.Postgres.Password = os.Getenv("POSTGRES_PASSWORD")
	config.Postgres.Port = getEnv("POSTGRES_PORT", "5432")

	// JWT
	config.JWT.SecretKey = getEnv("JWT_SECRET_KEY", "cloudstore_secret_key")
	if val := os.Getenv("JWT_EXPIRE"); val != "" {
		config.JWT.Expire, _ = strconv.Atoi(val)
	}
	if config.JWT.Expire == 0 {
		config.JWT.Expire = 3600 * 24 * 7
	}

	config.CORS.AllowDomains = getEnv("ALLOWED_DOMAINS", "*")

	// Redis
	config.Redis.Host = getEnv("REDIS_HOST", "localhost")
	config.Redis.Port = getEnv("REDIS_PORT", "6379")
	config.Redis.Password = os.Getenv("REDIS_PASSWORD")
	config.Redis.Database, _ = strconv.Atoi(os.Getenv("REDIS_DB"))

	// RabbitMQ
	config.RabbitMQ.Host = getEnv("RABBITMQ_HOST", "localhost")
	config.RabbitMQ.Port = getEnv("RABBITMQ_PORT", "5672")
	config.RabbitMQ.Username = getEnv("RABBITMQ_USER", "guest")
	config.RabbitMQ.Password = getEnv("RABBITMQ_PASSWORD", "guest")

	// Storage
	config.Storage.Root = getEnv("STORAGE_ROOT", "./uploads")
	config.Storage.MaxUploadSize = getEnvInt64("MAX_UPLOAD_SIZE", 100*1024*1024)
	config.Storage.MaxBatchFiles = int(getEnvInt64("MAX_BATCH_FILES", 20))
	config.Storage.ThumbnailSize = int(getEnvInt64("THUMBNAIL_SIZE", 300))
	config.Storage.Thumbnailer = getEnv("THUMBNAILER", "imaging")

	// Telemetry
	config.Telemetry.OTLPEndpoint = os.Getenv("OTLP_ENDPOINT")
	config.Telemetry.ServiceName = getEnv("OTEL_SERVICE_NAME", "cloudstore-service")

	config.Environment.Mode = getEnv("ENV", "development")
	config.Port = getEnv("PORT", "8080")

	return &config
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseInt(value, 10, 64); err == nil {
			return parsed
		}
	}
	return fallback
}
