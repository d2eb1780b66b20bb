package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Port           string        `env:"PORT" envDefault:"8080"`
	AllowedOrigins []string      `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173"`
	PublicDir      string        `env:"PUBLIC_DIR" envDefault:"./public"`
	ShutdownGrace  time.Duration `env:"SHUTDOWN_GRACE" envDefault:"30s"`

	DatabaseURL       string        `env:"DATABASE_URL,required,notEmpty"`
	DBMaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" envDefault:"25"`
	DBMaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" envDefault:"25"`
	DBConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"5m"`

	RedisURL string        `env:"REDIS_URL"`
	CacheTTL time.Duration `env:"CACHE_TTL" envDefault:"30s"`

	Auth AuthConfig

	RequestsDuration time.Duration `env:"REQUESTS_DURATION" envDefault:"1m"`
	MaximumRequests  int           `env:"MAXIMUM_REQUESTS" envDefault:"100"`

	ImportCardsLimit      int    `env:"IMPORT_CARDS_LIMIT" envDefault:"10"`
	GoogleSheetsAPIKey    string `env:"GOOGLE_SHEETS_API_KEY"`
	GoogleCredentialsFile string `env:"GOOGLE_CREDENTIALS_FILE"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	UptimeInterval         time.Duration `env:"UPTIME_INTERVAL" envDefault:"1s"`
	SessionCleanupInterval time.Duration `env:"SESSION_CLEANUP_INTERVAL" envDefault:"1h"`
}

// AuthConfig holds token secrets, lifetimes and refresh cookie attributes.
type AuthConfig struct {
	AccessSecret  string        `env:"JWT_ACCESS_SECRET,required,notEmpty"`
	RefreshSecret string        `env:"JWT_REFRESH_SECRET,required,notEmpty"`
	AccessTTL     time.Duration `env:"ACCESS_TOKEN_TTL" envDefault:"15m"`
	RefreshTTL    time.Duration `env:"REFRESH_TOKEN_TTL" envDefault:"168h"`
	CookieDomain  string        `env:"COOKIE_DOMAIN"`
	CookieSecure  bool          `env:"COOKIE_SECURE" envDefault:"true"`
}

// Load parses the environment into a Config and validates it.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.Auth.AccessSecret == c.Auth.RefreshSecret {
		errs = append(errs, errors.New("JWT_ACCESS_SECRET and JWT_REFRESH_SECRET must differ"))
	}
	if c.Auth.AccessTTL <= 0 {
		errs = append(errs, errors.New("ACCESS_TOKEN_TTL must be positive"))
	}
	if c.Auth.RefreshTTL < c.Auth.AccessTTL {
		errs = append(errs, errors.New("REFRESH_TOKEN_TTL must not be shorter than ACCESS_TOKEN_TTL"))
	}
	if c.ImportCardsLimit <= 0 {
		errs = append(errs, errors.New("IMPORT_CARDS_LIMIT must be positive"))
	}
	if c.MaximumRequests <= 0 || c.RequestsDuration <= 0 {
		errs = append(errs, errors.New("MAXIMUM_REQUESTS and REQUESTS_DURATION must be positive"))
	}
	if c.UptimeInterval <= 0 || c.SessionCleanupInterval <= 0 {
		errs = append(errs, errors.New("UPTIME_INTERVAL and SESSION_CLEANUP_INTERVAL must be positive"))
	}
	return errors.Join(errs...)
}
