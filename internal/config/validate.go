package config

import (
	"fmt"
	"strings"
)

// Defaults that are fine for local development but must be replaced in any
// shared deployment.
const (
	DefaultPostgresPassword   = "change-me"
	DefaultMinIOPassword      = "change-me-strong-password"
	DefaultAccessTokenSecret  = "change-me-to-a-32-byte-secret"
	DefaultRefreshTokenSecret = "change-me-to-a-64-byte-secret"
)

const minSecretLength = 32

// ValidationResult lists blocking problems and advisory findings.
type ValidationResult struct {
	Valid    bool
	Errors   []string
	Warnings []string
}

// Validate checks the configuration without contacting any backend.
func (c Config) Validate() ValidationResult {
	var errs, warnings []string

	required := []struct {
		name  string
		value string
	}{
		{"POSTGRES_HOST", c.Postgres.Host},
		{"POSTGRES_USER", c.Postgres.User},
		{"POSTGRES_DB", c.Postgres.Database},
		{"MINIO_ENDPOINT", c.MinIO.Endpoint},
		{"MINIO_ROOT_USER", c.MinIO.AccessKeyID},
		{"MINIO_ROOT_PASSWORD", c.MinIO.SecretAccessKey},
		{"MINIO_BUCKET", c.MinIO.Bucket},
		{"STOREIT_JWT_SECRET", c.Auth.AccessTokenSecret},
		{"STOREIT_JWT_REFRESH_SECRET", c.Auth.RefreshTokenSecret},
		{"STOREIT_SESSION_COOKIE", c.Session.CookieName},
		{"STOREIT_GUEST_COOKIE", c.Session.GuestCookieName},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			errs = append(errs, "missing environment variable: "+r.name)
		}
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("invalid server port: %d", c.Server.Port))
	}
	if c.Storage.MaxUploadBytes <= 0 {
		errs = append(errs, "STOREIT_MAX_UPLOAD_BYTES must be positive")
	}
	if c.Storage.QuotaBytes <= 0 {
		errs = append(errs, "STOREIT_QUOTA_BYTES must be positive")
	}
	if c.Storage.QuotaBytes > 0 && c.Storage.MaxUploadBytes > c.Storage.QuotaBytes {
		warnings = append(warnings, "max upload size exceeds the per-user quota")
	}
	if c.Session.CookieName != "" && c.Session.CookieName == c.Session.GuestCookieName {
		errs = append(errs, "session and guest cookies must have different names")
	}
	if c.Auth.AccessTokenTTL <= 0 || c.Auth.RefreshTokenTTL <= 0 {
		errs = append(errs, "token lifetimes must be positive")
	}

	if c.Auth.AccessTokenSecret == DefaultAccessTokenSecret || c.Auth.RefreshTokenSecret == DefaultRefreshTokenSecret {
		warnings = append(warnings, "JWT secrets use development defaults")
	} else if len(c.Auth.AccessTokenSecret) < minSecretLength || len(c.Auth.RefreshTokenSecret) < minSecretLength {
		warnings = append(warnings, fmt.Sprintf("JWT secrets shorter than %d bytes", minSecretLength))
	}
	if c.Postgres.Password == DefaultPostgresPassword {
		warnings = append(warnings, "PostgreSQL password uses the development default")
	}
	if c.MinIO.SecretAccessKey == DefaultMinIOPassword {
		warnings = append(warnings, "MinIO password uses the development default")
	}
	if !c.Session.Secure {
		warnings = append(warnings, "session cookies are not marked Secure")
	}

	return ValidationResult{
		Valid:    len(errs) == 0,
		Errors:   errs,
		Warnings: warnings,
	}
}
