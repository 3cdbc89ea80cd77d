package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App       AppConfig
	Postgres  PostgresConfig
	Redis     RedisConfig
	Logger    LoggerConfig
	Auth      AuthConfig
	Storage   StorageConfig
	Mail      MailConfig
	RateLimit RateLimitConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines authentication parameters.
type AuthConfig struct {
	JWTSecret             string
	AccessTokenTTLMinutes int
	BcryptCost            int
}

// StorageConfig holds object storage (S3-compatible) connection values.
type StorageConfig struct {
	Region              string
	Endpoint            string
	AccessKey           string
	SecretKey           string
	Bucket              string
	PublicBaseURL       string
	SignedURLTTLMinutes int
	MaxUploadSizeMB     int
}

// MailConfig holds SMTP delivery settings.
type MailConfig struct {
	Host       string
	Port       string
	Username   string
	Password   string
	From       string
	AdminEmail string
}

// RateLimitConfig controls the request rate limiter.
type RateLimitConfig struct {
	Enabled       bool
	Max           int
	WindowSeconds int
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "cms-service"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "3000"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			JWTSecret:             getEnv("AUTH_JWT_SECRET", "dev-secret"),
			AccessTokenTTLMinutes: getEnvAsInt("AUTH_ACCESS_TOKEN_TTL_MINUTES", 60),
			BcryptCost:            getEnvAsInt("AUTH_BCRYPT_COST", 12),
		},
		Storage: StorageConfig{
			Region:              getEnv("STORAGE_REGION", "us-east-1"),
			Endpoint:            os.Getenv("STORAGE_ENDPOINT"),
			AccessKey:           os.Getenv("STORAGE_ACCESS_KEY"),
			SecretKey:           os.Getenv("STORAGE_SECRET_KEY"),
			Bucket:              os.Getenv("STORAGE_BUCKET"),
			PublicBaseURL:       os.Getenv("STORAGE_PUBLIC_BASE_URL"),
			SignedURLTTLMinutes: getEnvAsInt("STORAGE_SIGNED_URL_TTL_MINUTES", 60),
			MaxUploadSizeMB:     getEnvAsInt("STORAGE_MAX_UPLOAD_SIZE_MB", 5),
		},
		Mail: MailConfig{
			Host:       os.Getenv("EMAIL_HOST"),
			Port:       getEnv("EMAIL_PORT", "587"),
			Username:   os.Getenv("EMAIL_USERNAME"),
			Password:   os.Getenv("EMAIL_PASSWORD"),
			From:       getEnv("EMAIL_FROM", "noreply@example.com"),
			AdminEmail: os.Getenv("EMAIL_ADMIN_ADDRESS"),
		},
		RateLimit: RateLimitConfig{
			Enabled:       getEnvAsBool("RATE_LIMIT_ENABLED", true),
			Max:           getEnvAsInt("RATE_LIMIT_MAX", 100),
			WindowSeconds: getEnvAsInt("RATE_LIMIT_WINDOW_SECONDS", 600),
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// SignedURLTTL returns how long presigned URLs stay valid.
func (s StorageConfig) SignedURLTTL() time.Duration {
	if s.SignedURLTTLMinutes <= 0 {
		return time.Hour
	}
	return time.Duration(s.SignedURLTTLMinutes) * time.Minute
}

// MaxUploadBytes returns the upload size cap in bytes.
func (s StorageConfig) MaxUploadBytes() int64 {
	if s.MaxUploadSizeMB <= 0 {
		return 5 * 1024 * 1024
	}
	return int64(s.MaxUploadSizeMB) * 1024 * 1024
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
