package config

import (
	"os"
	"strconv"
	"time"
)

type Company struct {
	Name    string
	BaseURL string
}

type Config struct {
	ListenAddr       string
	LogJSON          bool
	ImageDir         string
	StorageBackend   string
	S3Bucket         string
	S3Region         string
	S3Endpoint       string
	S3AccessKey      string
	S3SecretKey      string
	RateLimit        int
	RateLimitWindow  time.Duration
	PostgresUser     string
	PostgresPassword string
	PostgresHost     string
	PostgresPort     string
	PostgresDatabase string
	PostgresSSLMode  string
	DBConnectRetries int
	DBConnectBackoff time.Duration
	Companies        map[string]Company
}

func Load() *Config {
	cfg := &Config{
		ListenAddr:       getEnv("LISTEN_ADDR", ":5001"),
		LogJSON:          getEnvBool("LOG_JSON", false),
		ImageDir:         getEnv("IMAGE_DIR", "."),
		StorageBackend:   getEnv("STORAGE_BACKEND", "local"),
		S3Bucket:         getEnv("S3_BUCKET", "fatura-images"),
		S3Region:         getEnv("AWS_REGION", "us-east-1"),
		S3Endpoint:       getEnv("S3_ENDPOINT", ""),
		S3AccessKey:      getEnv("AWS_ACCESS_KEY_ID", ""),
		S3SecretKey:      getEnv("AWS_SECRET_ACCESS_KEY", ""),
		RateLimit:        getEnvInt("RATE_LIMIT", 100),
		RateLimitWindow:  getEnvDuration("RATE_LIMIT_WINDOW", time.Minute),
		PostgresUser:     getEnv("POSTGRES_USER", "admin"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", ""),
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresDatabase: getEnv("POSTGRES_DATABASE", "megalink_email"),
		PostgresSSLMode:  getEnv("POSTGRES_SSL_MODE", "disable"),
		DBConnectRetries: getEnvInt("DB_CONNECT_RETRIES", 5),
		DBConnectBackoff: getEnvDuration("DB_CONNECT_BACKOFF", 2*time.Second),
		Companies: map[string]Company{
			"megalink": {Name: "Megalink Telecom", BaseURL: "https://api.megalinktelecom.hubsoft.com.br/pdf/fatura/"},
			"bjfibra":  {Name: "BJ Fibra", BaseURL: "https://api.bjfibra.hubsoft.com.br/pdf/fatura/"},
		},
	}

	if cfg.StorageBackend == "s3" && (cfg.S3AccessKey == "" || cfg.S3SecretKey == "") {
		panic("AWS credentials must be provided for the s3 storage backend")
	}

	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
