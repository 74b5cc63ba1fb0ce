package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port        string   `mapstructure:"PORT"`
	Env         string   `mapstructure:"ENV"`
	DatabaseURL string   `mapstructure:"DATABASE_URL"`
	DBMaxConns  int32    `mapstructure:"DB_MAX_CONNS"`
	DBMinConns  int32    `mapstructure:"DB_MIN_CONNS"`
	RedisURL    string   `mapstructure:"REDIS_URL"`
	CORSOrigins []string `mapstructure:"CORS_ORIGINS"`

	// External risk-prediction service.
	PredictionURL       string `mapstructure:"PREDICTION_URL"`
	PredictionTimeoutMS int    `mapstructure:"PREDICTION_TIMEOUT_MS"`

	// Auth is delegated to an external identity provider; this service only
	// validates the tokens it issues.
	AuthIssuer    string `mapstructure:"AUTH_ISSUER"`
	AuthAudience  string `mapstructure:"AUTH_AUDIENCE"`
	JWTSigningKey string `mapstructure:"JWT_SIGNING_KEY"`

	UploadMaxBytes  int64 `mapstructure:"UPLOAD_MAX_BYTES"`
	UploadChunkSize int   `mapstructure:"UPLOAD_CHUNK_SIZE"`

	DashboardCacheTTLSeconds int `mapstructure:"DASHBOARD_CACHE_TTL_SECONDS"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("DB_MAX_CONNS", 20)
	v.SetDefault("DB_MIN_CONNS", 5)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("PREDICTION_TIMEOUT_MS", 5000)
	v.SetDefault("UPLOAD_MAX_BYTES", 10*1024*1024)
	v.SetDefault("UPLOAD_CHUNK_SIZE", 400)
	v.SetDefault("DASHBOARD_CACHE_TTL_SECONDS", 60)

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("DATABASE_URL")
	v.BindEnv("DB_MAX_CONNS")
	v.BindEnv("DB_MIN_CONNS")
	v.BindEnv("REDIS_URL")
	v.BindEnv("CORS_ORIGINS")
	v.BindEnv("PREDICTION_URL")
	v.BindEnv("PREDICTION_TIMEOUT_MS")
	v.BindEnv("AUTH_ISSUER")
	v.BindEnv("AUTH_AUDIENCE")
	v.BindEnv("JWT_SIGNING_KEY")
	v.BindEnv("UPLOAD_MAX_BYTES")
	v.BindEnv("UPLOAD_CHUNK_SIZE")
	v.BindEnv("DASHBOARD_CACHE_TTL_SECONDS")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CORSOrigins == nil {
		origins := v.GetString("CORS_ORIGINS")
		if origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// IsProduction returns true when the server is configured for production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// PredictionTimeout returns the configured prediction-call timeout.
func (c *Config) PredictionTimeout() time.Duration {
	return time.Duration(c.PredictionTimeoutMS) * time.Millisecond
}

// DashboardCacheTTL returns the TTL for cached dashboard summaries.
func (c *Config) DashboardCacheTTL() time.Duration {
	return time.Duration(c.DashboardCacheTTLSeconds) * time.Second
}

// Validate checks that the configuration is safe to run. Outside development
// a JWT verification source must be configured so that real authentication is
// enforced, and the prediction service URL must be set.
func (c *Config) Validate() error {
	if !c.IsDev() {
		if c.JWTSigningKey == "" && c.AuthIssuer == "" {
			return fmt.Errorf("JWT_SIGNING_KEY or AUTH_ISSUER must be set when ENV is %q", c.Env)
		}
		if c.PredictionURL == "" {
			return fmt.Errorf("PREDICTION_URL is required when ENV is %q", c.Env)
		}
	}
	if c.UploadChunkSize <= 0 {
		return fmt.Errorf("UPLOAD_CHUNK_SIZE must be positive, got %d", c.UploadChunkSize)
	}
	if c.UploadMaxBytes <= 0 {
		return fmt.Errorf("UPLOAD_MAX_BYTES must be positive, got %d", c.UploadMaxBytes)
	}
	return nil
}
