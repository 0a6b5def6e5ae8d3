package app

import (
	"os"
	"time"
)

// StorageDriver выбирает реализацию хранилища.
type StorageDriver string

const (
	StorageDriverMemory   StorageDriver = "memory"
	StorageDriverPostgres StorageDriver = "postgres"
)

// Config описывает настройки запуска приложения.
type Config struct {
	HTTPAddr    string
	MetricsAddr string

	StorageDriver       StorageDriver
	PostgresDSN         string
	PostgresAutoMigrate bool

	RedisAddr    string
	KafkaBrokers string

	TokenSecret string
	TokenTTL    time.Duration
}

// DefaultConfig возвращает базовые настройки: API на :8080, метрики на :9090,
// in-memory хранилище.
func DefaultConfig() Config {
	return Config{
		HTTPAddr:            ":8080",
		MetricsAddr:         ":9090",
		StorageDriver:       StorageDriverMemory,
		PostgresAutoMigrate: true,
		TokenSecret:         "dev-secret-change-me",
		TokenTTL:            24 * time.Hour,
	}
}

// ReadConfig собирает конфигурацию из переменных окружения поверх значений
// по умолчанию. Указанный CRM_POSTGRES_DSN переключает хранилище на postgres.
func ReadConfig() Config {
	cfg := DefaultConfig()

	if v := os.Getenv("CRM_HTTP_ADDR"); v != "" {
		cfg.HTTPAddr = v
	}
	if v := os.Getenv("CRM_METRICS_ADDR"); v != "" {
		cfg.MetricsAddr = v
	}
	if v := os.Getenv("CRM_STORAGE_DRIVER"); v != "" {
		cfg.StorageDriver = StorageDriver(v)
	}
	if v := os.Getenv("CRM_POSTGRES_DSN"); v != "" {
		cfg.PostgresDSN = v
		if os.Getenv("CRM_STORAGE_DRIVER") == "" {
			cfg.StorageDriver = StorageDriverPostgres
		}
	}
	if v := os.Getenv("CRM_POSTGRES_AUTO_MIGRATE"); v == "false" || v == "0" {
		cfg.PostgresAutoMigrate = false
	}
	if v := os.Getenv("CRM_REDIS_ADDR"); v != "" {
		cfg.RedisAddr = v
	}
	if v := os.Getenv("CRM_KAFKA_BROKERS"); v != "" {
		cfg.KafkaBrokers = v
	}
	if v := os.Getenv("CRM_TOKEN_SECRET"); v != "" {
		cfg.TokenSecret = v
	}
	if v := os.Getenv("CRM_TOKEN_TTL"); v != "" {
		if ttl, err := time.ParseDuration(v); err == nil && ttl > 0 {
			cfg.TokenTTL = ttl
		}
	}

	return cfg
}
