// Package config loads process configuration from the environment (and an
// optional .env file) into a validated Config.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	AppEnv   string `mapstructure:"app_env" validate:"required,oneof=development production test"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`

	HTTP     HTTPConfig     `mapstructure:",squash"`
	Database DatabaseConfig `mapstructure:",squash"`
	Redis    RedisConfig    `mapstructure:",squash"`
	Auth     AuthConfig     `mapstructure:",squash"`
	Argon2   Argon2Config   `mapstructure:",squash"`
	Storage  StorageConfig  `mapstructure:",squash"`
	Limits   LimitsConfig   `mapstructure:",squash"`
}

type HTTPConfig struct {
	Addr           string   `mapstructure:"http_addr" validate:"required"`
	TLSCertFile    string   `mapstructure:"tls_cert_file"`
	TLSKeyFile     string   `mapstructure:"tls_key_file" validate:"required_with=TLSCertFile"`
	AllowedOrigins []string `mapstructure:"cors_allowed_origins"`
	MaxBodyBytes   int64    `mapstructure:"max_body_size" validate:"gt=0"`
}

type DatabaseConfig struct {
	URL          string        `mapstructure:"database_url" validate:"required"`
	MaxOpenConns int           `mapstructure:"db_max_open_conns" validate:"gte=1"`
	ConnMaxLife  time.Duration `mapstructure:"db_conn_max_lifetime"`
}

// RedisConfig accepts either a full URL or split address fields.
type RedisConfig struct {
	URL      string `mapstructure:"redis_url"`
	Addr     string `mapstructure:"redis_addr" validate:"required_without=URL"`
	User     string `mapstructure:"redis_user"`
	Password string `mapstructure:"redis_password"`
	TLS      bool   `mapstructure:"redis_tls"`
}

type AuthConfig struct {
	JWTSecret  string        `mapstructure:"auth_jwt_secret" validate:"required,min=32"`
	AccessTTL  time.Duration `mapstructure:"auth_access_ttl" validate:"gt=0"`
	RefreshTTL time.Duration `mapstructure:"auth_refresh_ttl" validate:"gt=0"`
	ClockSkew  time.Duration `mapstructure:"auth_clock_skew"`
}

type Argon2Config struct {
	Memory      uint32 `mapstructure:"argon2_memory" validate:"gte=65536"`
	Iterations  uint32 `mapstructure:"argon2_iter" validate:"gte=2"`
	Parallelism uint8  `mapstructure:"argon2_par" validate:"gte=1"`
}

// StorageConfig points at an S3-compatible bucket (AWS, R2, MinIO).
type StorageConfig struct {
	Endpoint        string        `mapstructure:"aws_endpoint"`
	Region          string        `mapstructure:"aws_region" validate:"required"`
	Bucket          string        `mapstructure:"aws_bucket" validate:"required"`
	AccessKeyID     string        `mapstructure:"aws_access_key_id"`
	SecretAccessKey string        `mapstructure:"aws_secret_access_key"`
	UsePathStyle    bool          `mapstructure:"aws_use_path_style"`
	PresignTTL      time.Duration `mapstructure:"avatar_url_ttl" validate:"gt=0"`
}

type LimitsConfig struct {
	RatePerSecond    float64       `mapstructure:"rate_limit_rps" validate:"gt=0"`
	RateBurst        int           `mapstructure:"rate_limit_burst" validate:"gt=0"`
	WindowLimit      int           `mapstructure:"rate_limit_window_max" validate:"gt=0"`
	Window           time.Duration `mapstructure:"rate_limit_window" validate:"gt=0"`
	LoginMaxAttempts int           `mapstructure:"login_max_attempts" validate:"gt=0"`
	LoginWindow      time.Duration `mapstructure:"login_window" validate:"gt=0"`
	FeaturedCacheTTL time.Duration `mapstructure:"featured_cache_ttl"`
}

func (c Config) IsProduction() bool { return strings.EqualFold(c.AppEnv, "production") }

func (c Config) IsDevelopment() bool { return strings.EqualFold(c.AppEnv, "development") }

var defaults = map[string]any{
	"app_env":               "development",
	"log_level":             "info",
	"http_addr":             ":3000",
	"max_body_size":         int64(10 << 20),
	"cors_allowed_origins":  "http://localhost:5173,http://127.0.0.1:5173",
	"db_max_open_conns":     10,
	"db_conn_max_lifetime":  "30m",
	"auth_access_ttl":       "15m",
	"auth_refresh_ttl":      "720h",
	"auth_clock_skew":       "60s",
	"argon2_memory":         131072,
	"argon2_iter":           3,
	"argon2_par":            1,
	"aws_region":            "auto",
	"avatar_url_ttl":        "15m",
	"rate_limit_rps":        5.0,
	"rate_limit_burst":      20,
	"rate_limit_window_max": 3000,
	"rate_limit_window":     "60m",
	"login_max_attempts":    10,
	"login_window":          "5m",
	"featured_cache_ttl":    "2h",
}

// Load reads .env files (when present), then environment variables, applies
// defaults and validates the result.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		// missing .env is normal outside local development
		_ = godotenv.Load(f)
	}

	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	for k := range keys() {
		if err := v.BindEnv(k, strings.ToUpper(k)); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", k, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.HTTP.AllowedOrigins = splitCSV(v.GetString("cors_allowed_origins"))

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate runs struct-tag validation and reports failing keys by env name.
func Validate(cfg *Config) error {
	err := validator.New().Struct(cfg)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate config: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
}

// keys lists every mapstructure key so viper binds them to env vars even
// when no default exists.
func keys() map[string]struct{} {
	ks := map[string]struct{}{}
	for k := range defaults {
		ks[k] = struct{}{}
	}
	for _, k := range []string{
		"tls_cert_file", "tls_key_file", "database_url",
		"redis_url", "redis_addr", "redis_user", "redis_password", "redis_tls",
		"auth_jwt_secret",
		"aws_endpoint", "aws_bucket", "aws_access_key_id", "aws_secret_access_key", "aws_use_path_style",
	} {
		ks[k] = struct{}{}
	}
	return ks
}

func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
