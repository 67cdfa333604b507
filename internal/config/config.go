package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config aggregates runtime configuration for the StoreIt API.
type Config struct {
	Server   ServerConfig
	Postgres PostgresConfig
	MinIO    MinIOConfig
	Auth     AuthConfig
	Session  SessionConfig
	Storage  StorageConfig
	Metrics  MetricsConfig
	Log      LogConfig
}

// ServerConfig parameterizes the HTTP server.
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// Address returns the listen address in host:port form.
func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// PostgresConfig contains PostgreSQL connection details.
type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	MaxConns int
}

// DSN returns the PostgreSQL DSN string.
func (p PostgresConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		p.User, p.Password, p.Host, p.Port, p.Database, p.SSLMode)
}

// MinIOConfig carries MinIO connection and bucket information.
type MinIOConfig struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	UseSSL          bool
	Region          string
}

// AuthConfig groups authentication-related settings.
type AuthConfig struct {
	AccessTokenSecret  string
	RefreshTokenSecret string
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration
	BcryptCost         int
}

// SessionConfig names the cookies that carry the browser session.
type SessionConfig struct {
	CookieName      string
	GuestCookieName string
	CookieDomain    string
	Secure          bool
}

// StorageConfig bounds what a single user may store.
type StorageConfig struct {
	MaxUploadBytes int64
	QuotaBytes     int64
	PresignTTL     time.Duration
}

// MetricsConfig groups observability settings.
type MetricsConfig struct {
	PrometheusPath string
}

// LogConfig selects the zap level and encoder.
type LogConfig struct {
	Level  string
	Format string
}

// Load reads configuration values from environment variables, applying defaults.
func Load() (Config, error) {
	cfg := Config{
		Server: ServerConfig{
			Host:            getString("STOREIT_API_HOST", "0.0.0.0"),
			Port:            getInt("STOREIT_API_PORT", 8080),
			ReadTimeout:     getDuration("STOREIT_API_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getDuration("STOREIT_API_WRITE_TIMEOUT", 60*time.Second),
			IdleTimeout:     getDuration("STOREIT_API_IDLE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: getDuration("STOREIT_API_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Postgres: PostgresConfig{
			Host:     getString("POSTGRES_HOST", "localhost"),
			Port:     getInt("POSTGRES_PORT", 5432),
			User:     getString("POSTGRES_USER", "storeit_app"),
			Password: getString("POSTGRES_PASSWORD", DefaultPostgresPassword),
			Database: getString("POSTGRES_DB", "storeit"),
			SSLMode:  strings.ToLower(getString("POSTGRES_SSL_MODE", "disable")),
			MaxConns: getInt("POSTGRES_MAX_CONNS", 10),
		},
		MinIO: MinIOConfig{
			Endpoint:        getString("MINIO_ENDPOINT", "localhost:9000"),
			AccessKeyID:     getString("MINIO_ROOT_USER", "storeit"),
			SecretAccessKey: getString("MINIO_ROOT_PASSWORD", DefaultMinIOPassword),
			Bucket:          getString("MINIO_BUCKET", "storeit"),
			UseSSL:          getBool("MINIO_USE_SSL", false),
			Region:          getString("MINIO_REGION", ""),
		},
		Auth: loadAuthConfig(),
		Session: SessionConfig{
			CookieName:      getString("STOREIT_SESSION_COOKIE", "storeit-session"),
			GuestCookieName: getString("STOREIT_GUEST_COOKIE", "guest"),
			CookieDomain:    getString("STOREIT_COOKIE_DOMAIN", ""),
			Secure:          getBool("STOREIT_COOKIE_SECURE", false),
		},
		Storage: StorageConfig{
			MaxUploadBytes: getInt64("STOREIT_MAX_UPLOAD_BYTES", 100*1024*1024),
			QuotaBytes:     getInt64("STOREIT_QUOTA_BYTES", 2*1024*1024*1024),
			PresignTTL:     getDuration("STOREIT_PRESIGN_TTL", time.Hour),
		},
		Metrics: MetricsConfig{
			PrometheusPath: getString("STOREIT_METRICS_PATH", "/metrics"),
		},
		Log: LogConfig{
			Level:  getString("LOG_LEVEL", "info"),
			Format: getString("LOG_FORMAT", "json"),
		},
	}

	return cfg, nil
}

func getString(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if val, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getInt64(key string, fallback int64) int64 {
	if val, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.ParseInt(val, 10, 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if val, ok := os.LookupEnv(key); ok {
		val = strings.ToLower(strings.TrimSpace(val))
		switch val {
		case "1", "true", "t", "yes", "y":
			return true
		case "0", "false", "f", "no", "n":
			return false
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if val, ok := os.LookupEnv(key); ok {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func loadAuthConfig() AuthConfig {
	cost := getInt("STOREIT_AUTH_BCRYPT_COST", 12)
	if cost < 4 || cost > 31 {
		cost = 12
	}

	return AuthConfig{
		AccessTokenSecret:  getString("STOREIT_JWT_SECRET", DefaultAccessTokenSecret),
		RefreshTokenSecret: getString("STOREIT_JWT_REFRESH_SECRET", DefaultRefreshTokenSecret),
		AccessTokenTTL:     getDuration("STOREIT_AUTH_ACCESS_TOKEN_TTL", 15*time.Minute),
		RefreshTokenTTL:    getDuration("STOREIT_AUTH_REFRESH_TOKEN_TTL", 720*time.Hour),
		BcryptCost:         cost,
	}
}
