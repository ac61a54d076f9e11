package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/memorycare/memorycare/internal/platform/db"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"

	ObjectStoreMemory = "memory"
	ObjectStoreS3     = "s3"

	minSessionSecretLen = 32
)

// devSessionSecret signs sessions when ENV=development and no secret is set.
const devSessionSecret = "memorycare-development-only-session-secret"

type Config struct {
	Port           string        `mapstructure:"PORT"`
	Env            string        `mapstructure:"ENV"`
	LogLevel       string        `mapstructure:"LOG_LEVEL"`
	StorageDriver  string        `mapstructure:"STORAGE_DRIVER"`
	DatabaseURL    string        `mapstructure:"DATABASE_URL"`
	DBMaxConns     int32         `mapstructure:"DB_MAX_CONNS"`
	DBMinConns     int32         `mapstructure:"DB_MIN_CONNS"`
	DBConnLifetime time.Duration `mapstructure:"DB_MAX_CONN_LIFETIME"`
	DBHealthCheck  time.Duration `mapstructure:"DB_HEALTH_CHECK_PERIOD"`
	RedisURL       string        `mapstructure:"REDIS_URL"`
	SessionSecret  string        `mapstructure:"SESSION_SECRET"`
	SessionTTL     time.Duration `mapstructure:"SESSION_TTL"`
	CookieSecure   bool          `mapstructure:"COOKIE_SECURE"`
	CORSOrigins    []string      `mapstructure:"CORS_ORIGINS"`
	RateLimitRPS   float64       `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst int           `mapstructure:"RATE_LIMIT_BURST"`
	BodyLimit      string        `mapstructure:"BODY_LIMIT"`
	RequestTimeout time.Duration `mapstructure:"REQUEST_TIMEOUT"`
	ObjectStore    string        `mapstructure:"OBJECT_STORE"`
	PublicBaseURL  string        `mapstructure:"OBJECT_PUBLIC_BASE_URL"`
	S3Bucket       string        `mapstructure:"S3_BUCKET"`
	S3Region       string        `mapstructure:"S3_REGION"`
	S3Endpoint     string        `mapstructure:"S3_ENDPOINT"`
	UploadURLTTL   time.Duration `mapstructure:"OBJECT_UPLOAD_TTL"`
	SeedDemoData   bool          `mapstructure:"SEED_DEMO_DATA"`
	TLSEnabled     bool          `mapstructure:"TLS_ENABLED"`
	TLSCertFile    string        `mapstructure:"TLS_CERT_FILE"`
	TLSKeyFile     string        `mapstructure:"TLS_KEY_FILE"`
}

var keys = []string{
	"PORT", "ENV", "LOG_LEVEL", "STORAGE_DRIVER", "DATABASE_URL", "DB_MAX_CONNS", "DB_MIN_CONNS",
	"DB_MAX_CONN_LIFETIME", "DB_HEALTH_CHECK_PERIOD",
	"REDIS_URL", "SESSION_SECRET", "SESSION_TTL", "COOKIE_SECURE", "CORS_ORIGINS",
	"RATE_LIMIT_RPS", "RATE_LIMIT_BURST", "BODY_LIMIT", "REQUEST_TIMEOUT",
	"OBJECT_STORE", "OBJECT_PUBLIC_BASE_URL", "S3_BUCKET", "S3_REGION", "S3_ENDPOINT",
	"OBJECT_UPLOAD_TTL", "SEED_DEMO_DATA", "TLS_ENABLED", "TLS_CERT_FILE", "TLS_KEY_FILE",
}

// Load reads configuration from the environment and an optional .env file.
// It does not validate; call Validate before starting the server.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("STORAGE_DRIVER", StorageMemory)
	v.SetDefault("DB_MAX_CONNS", 20)
	v.SetDefault("DB_MIN_CONNS", 2)
	v.SetDefault("DB_MAX_CONN_LIFETIME", "1h")
	v.SetDefault("DB_HEALTH_CHECK_PERIOD", "1m")
	v.SetDefault("SESSION_TTL", "168h")
	v.SetDefault("CORS_ORIGINS", "http://localhost:5173")
	v.SetDefault("RATE_LIMIT_RPS", 20)
	v.SetDefault("RATE_LIMIT_BURST", 40)
	v.SetDefault("BODY_LIMIT", "2M")
	v.SetDefault("REQUEST_TIMEOUT", "30s")
	v.SetDefault("OBJECT_STORE", ObjectStoreMemory)
	v.SetDefault("OBJECT_UPLOAD_TTL", "15m")

	for _, k := range keys {
		v.BindEnv(k)
	}

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.CORSOrigins = splitList(strings.Join(cfg.CORSOrigins, ","))
	if !v.IsSet("SEED_DEMO_DATA") {
		cfg.SeedDemoData = cfg.IsDev() && cfg.StorageDriver == StorageMemory
	}
	if cfg.SessionSecret == "" && cfg.IsDev() {
		cfg.SessionSecret = devSessionSecret
	}

	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Pool returns the Postgres pool settings.
func (c *Config) Pool() db.PoolConfig {
	return db.PoolConfig{
		URL:               c.DatabaseURL,
		MaxConns:          c.DBMaxConns,
		MinConns:          c.DBMinConns,
		MaxConnLifetime:   c.DBConnLifetime,
		HealthCheckPeriod: c.DBHealthCheck,
	}
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// IsProduction returns true when the server is configured for production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Validate checks that the configuration is safe to run.
func (c *Config) Validate() error {
	switch c.StorageDriver {
	case StorageMemory:
	case StoragePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when STORAGE_DRIVER is %q", StoragePostgres)
		}
		if c.DBMinConns > c.DBMaxConns {
			return fmt.Errorf("DB_MIN_CONNS (%d) must not exceed DB_MAX_CONNS (%d)", c.DBMinConns, c.DBMaxConns)
		}
	default:
		return fmt.Errorf("STORAGE_DRIVER must be %q or %q, got %q", StorageMemory, StoragePostgres, c.StorageDriver)
	}

	switch c.ObjectStore {
	case ObjectStoreMemory:
	case ObjectStoreS3:
		if c.S3Bucket == "" {
			return fmt.Errorf("S3_BUCKET is required when OBJECT_STORE is %q", ObjectStoreS3)
		}
	default:
		return fmt.Errorf("OBJECT_STORE must be %q or %q, got %q", ObjectStoreMemory, ObjectStoreS3, c.ObjectStore)
	}

	if !c.IsDev() {
		if c.SessionSecret == "" {
			return fmt.Errorf("SESSION_SECRET is required outside development")
		}
		if len(c.SessionSecret) < minSessionSecretLen {
			return fmt.Errorf("SESSION_SECRET must be at least %d characters", minSessionSecretLen)
		}
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}
	if c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0 {
		return fmt.Errorf("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive")
	}

	if c.TLSEnabled {
		if c.TLSCertFile == "" {
			return fmt.Errorf("TLS_CERT_FILE is required when TLS_ENABLED is true")
		}
		if c.TLSKeyFile == "" {
			return fmt.Errorf("TLS_KEY_FILE is required when TLS_ENABLED is true")
		}
	}

	return nil
}
