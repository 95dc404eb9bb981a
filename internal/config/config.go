package config

import (
	"os"
	"strconv"
	"time"

	"sawari/internal/database"
	"sawari/internal/messaging"

	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	Port           string
	GinMode        string
	LogLevel       string
	LogFormat      string
	RequestTimeout time.Duration

	// Directory where the consumers service writes ticket receipts.
	ReceiptDir string

	Database      database.Config
	NATS          messaging.Config
	Cache         CacheConfig
	Elasticsearch ElasticsearchConfig
}

// CacheConfig configures the Valkey/Redis availability cache.
type CacheConfig struct {
	Addr     string
	Password string
	TTL      time.Duration
	Enabled  bool
}

// Load reads configuration from environment variables, after loading a
// local .env file when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:           getEnv("PORT", "8080"),
		GinMode:        getEnv("GIN_MODE", "debug"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "json"),
		RequestTimeout: time.Duration(getEnvInt("REQUEST_TIMEOUT_SEC", 30)) * time.Second,

		ReceiptDir: getEnv("RECEIPT_DIR", "saved_tickets"),

		Database: database.Config{
			Host:               getEnv("DB_HOST", "localhost"),
			Port:               getEnvInt("DB_PORT", 5432),
			User:               getEnv("DB_USER", "sawari"),
			Password:           getEnv("DB_PASSWORD", "sawari123"),
			DBName:             getEnv("DB_NAME", "sawari"),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 50),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 10),
			ConnMaxLifetimeMin: getEnvInt("DB_CONN_MAX_LIFETIME_MIN", 5),
			ConnMaxIdleTimeMin: getEnvInt("DB_CONN_MAX_IDLE_TIME_MIN", 1),
		},

		NATS: messaging.Config{
			URL:       getEnv("NATS_URL", "nats://localhost:4222"),
			ClusterID: getEnv("NATS_CLUSTER_ID", "sawari"),
			ClientID:  getEnv("NATS_CLIENT_ID", "sawari-api"),
			Enabled:   getEnv("NATS_ENABLED", "false") == "true",
		},

		Cache: CacheConfig{
			Addr:     getEnv("VALKEY_ADDR", "localhost:6379"),
			Password: getEnv("VALKEY_PASSWORD", ""),
			TTL:      time.Duration(getEnvInt("VALKEY_TTL_SEC", 5)) * time.Second,
			Enabled:  getEnv("VALKEY_ENABLED", "false") == "true",
		},

		Elasticsearch: ElasticsearchConfig{
			URL:        getEnv("ELASTICSEARCH_URL", "http://localhost:9200"),
			Username:   getEnv("ELASTICSEARCH_USERNAME", ""),
			Password:   getEnv("ELASTICSEARCH_PASSWORD", ""),
			Index:      getEnv("ELASTICSEARCH_INDEX", "buses"),
			MaxRetries: getEnvInt("ELASTICSEARCH_MAX_RETRIES", 3),
			Enabled:    getEnv("ELASTICSEARCH_ENABLED", "false") == "true",
		},
	}
}

// getEnv returns the environment variable value or a default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns an integer environment variable value or a default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
