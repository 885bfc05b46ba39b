// Package config loads the service configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type HTTPConfig struct {
	Port            int           `env:"PORT" envDefault:"3000"`
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"15s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	// TrustedProxies feeds gin's client IP resolution. Unset trusts no proxy.
	TrustedProxies []string `env:"TRUSTED_PROXIES" envSeparator:","`
}

type DBConfig struct {
	// Driver selects the gorm dialector: "sqlite" or "postgres".
	Driver string `env:"DRIVER" envDefault:"sqlite"`
	// Path is the sqlite database file.
	Path string `env:"PATH" envDefault:"database.sqlite"`

	// DSN wins over the individual postgres settings when set.
	DSN      string `env:"DSN"`
	Host     string `env:"HOST" envDefault:"localhost"`
	Port     int    `env:"PORT" envDefault:"5432"`
	User     string `env:"USER" envDefault:"postgres"`
	Password string `env:"PASSWORD"`
	Name     string `env:"NAME" envDefault:"customer_backend"`
	SSLMode  string `env:"SSLMODE" envDefault:"disable"`

	RunMigrations  bool          `env:"RUN_MIGRATIONS" envDefault:"true"`
	ConnectTimeout time.Duration `env:"CONNECT_TIMEOUT" envDefault:"60s"`
}

type RedisConfig struct {
	// Addr empty disables Redis: sessions fall back to the database and reads are not cached.
	Addr     string        `env:"ADDR"`
	Password string        `env:"PASSWORD"`
	DB       int           `env:"DB" envDefault:"0"`
	CacheTTL time.Duration `env:"CACHE_TTL" envDefault:"5m"`
}

type JWTConfig struct {
	Secret      string        `env:"SECRET,required,notEmpty"`
	AccessTTL   time.Duration `env:"ACCESS_TTL" envDefault:"1h"`
	RefreshTTL  time.Duration `env:"REFRESH_TTL" envDefault:"168h"`
	MaxSessions int           `env:"MAX_SESSIONS" envDefault:"5"`
}

type GoogleConfig struct {
	ClientID     string `env:"CLIENT_ID"`
	ClientSecret string `env:"CLIENT_SECRET"`
	CallbackURL  string `env:"CLIENT_CALLBACK_URL" envDefault:"http://localhost:3000/auth/google/callback"`
}

// Enabled reports whether Google sign-in is configured.
func (g GoogleConfig) Enabled() bool {
	return g.ClientID != "" && g.ClientSecret != ""
}

type RateLimitConfig struct {
	RPS   float64 `env:"RPS" envDefault:"5"`
	Burst int     `env:"BURST" envDefault:"10"`
}

type Config struct {
	Environment string `env:"APP_ENV" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	FrontendURL string `env:"FRONTEND_URL" envDefault:"http://localhost:3001"`
	// InactiveDays is the default window of the inactive-user notification.
	InactiveDays int `env:"INACTIVE_DAYS" envDefault:"30"`

	HTTP      HTTPConfig      `envPrefix:"HTTP_"`
	DB        DBConfig        `envPrefix:"DB_"`
	Redis     RedisConfig     `envPrefix:"REDIS_"`
	JWT       JWTConfig       `envPrefix:"JWT_"`
	Google    GoogleConfig    `envPrefix:"GOOGLE_"`
	RateLimit RateLimitConfig `envPrefix:"RATE_LIMIT_"`
}

// Load reads an optional .env file and parses the environment into a Config.
// A missing .env file is not an error.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c Config) validate() error {
	switch c.DB.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DB.Driver)
	}
	if c.JWT.MaxSessions < 1 {
		return errors.New("JWT_MAX_SESSIONS must be at least 1")
	}
	if c.InactiveDays < 1 {
		return errors.New("INACTIVE_DAYS must be at least 1")
	}
	return nil
}

// IsProduction reports whether the service runs with APP_ENV=production.
func (c Config) IsProduction() bool {
	return c.Environment == "production"
}
