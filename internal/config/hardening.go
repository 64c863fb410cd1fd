package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// HardeningWarnings returns non-fatal warnings worth logging on startup.
func HardeningWarnings(cfg *Config) []string {
	var warns []string

	if cfg.Auth.AccessTTL > time.Hour {
		warns = append(warns, fmt.Sprintf("AUTH_ACCESS_TTL=%s is > 1h; consider shorter access tokens", cfg.Auth.AccessTTL))
	}
	if cfg.Auth.RefreshTTL < 24*time.Hour {
		warns = append(warns, fmt.Sprintf("AUTH_REFRESH_TTL=%s is < 24h; users may be logged out too often", cfg.Auth.RefreshTTL))
	}

	if !cfg.IsProduction() {
		return warns
	}
	if os.Getenv("ARGON2_MEMORY") == "" || os.Getenv("ARGON2_ITER") == "" {
		warns = append(warns, "ARGON2_* not explicitly set; using code defaults. Set strong values in production")
	}
	if strings.HasPrefix(cfg.Redis.URL, "redis://") {
		warns = append(warns, "REDIS_URL uses redis:// (no TLS). Prefer rediss:// for TLS")
	}
	if cfg.Redis.URL == "" && (cfg.Redis.User == "" || cfg.Redis.Password == "") {
		warns = append(warns, "REDIS_ADDR provided without REDIS_USER/REDIS_PASSWORD; require auth in production")
	}
	if cfg.HTTP.TLSCertFile == "" {
		warns = append(warns, "TLS_CERT_FILE not set; serving plain HTTP (expecting a TLS-terminating proxy)")
	}
	return warns
}
