package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Application
	AppEnv   string
	AppPort  string
	LogLevel string
	LogFile  string

	// Storage backend: "memory" or "postgres"
	StorageBackend string

	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Cache (optional; disabled when RedisAddr is empty)
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	CacheTTLSecond int

	// Queries
	PopularDefaultCount int
}

func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:   getEnv("APP_ENV", "development"),
		AppPort:  getEnv("APP_PORT", "8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		LogFile:  getEnv("LOG_FILE", ""),

		StorageBackend: getEnv("STORAGE_BACKEND", "memory"),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "filmoteka"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "filmoteka_db"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		RedisAddr:      getEnv("REDIS_ADDR", ""),
		RedisPassword:  getEnv("REDIS_PASSWORD", ""),
		RedisDB:        getEnvInt("REDIS_DB", 0),
		CacheTTLSecond: getEnvInt("CACHE_TTL_SECONDS", 30),

		PopularDefaultCount: getEnvInt("POPULAR_DEFAULT_COUNT", 10),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.StorageBackend != "memory" && c.StorageBackend != "postgres" {
		return fmt.Errorf("STORAGE_BACKEND must be 'memory' or 'postgres', got %q", c.StorageBackend)
	}
	if c.StorageBackend == "postgres" && c.DBPassword == "" {
		return fmt.Errorf("DB_PASSWORD is required for the postgres backend")
	}
	if c.AppEnv == "production" && c.StorageBackend == "postgres" && c.DBSSLMode == "disable" {
		return fmt.Errorf("DB_SSLMODE must not be 'disable' in production")
	}
	if c.PopularDefaultCount <= 0 {
		return fmt.Errorf("POPULAR_DEFAULT_COUNT must be positive")
	}
	return nil
}

func (c *Config) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSecond) * time.Second
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
