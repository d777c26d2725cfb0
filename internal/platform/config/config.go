// Package config loads application settings from .env, an optional config.yaml and the environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// ErrMissingAPIKey is returned when no quote provider API key is configured.
var ErrMissingAPIKey = errors.New("API_KEY not set")

type Config struct {
	Server ServerConfig `mapstructure:"server"`
	DB     DBConfig     `mapstructure:"db"`
	Redis  RedisConfig  `mapstructure:"redis"`
	Auth   AuthConfig   `mapstructure:"auth"`
	Quote  QuoteConfig  `mapstructure:"quote"`
	Log    LogConfig    `mapstructure:"log"`
}

type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	SecureCookie bool          `mapstructure:"secure_cookie"`
}

type DBConfig struct {
	Driver        string `mapstructure:"driver"` // sqlite or postgres
	Path          string `mapstructure:"path"`   // sqlite file
	Host          string `mapstructure:"host"`
	Port          string `mapstructure:"port"`
	User          string `mapstructure:"user"`
	Password      string `mapstructure:"password"`
	Name          string `mapstructure:"name"`
	SSLMode       string `mapstructure:"sslmode"`
	RunMigrations bool   `mapstructure:"run_migrations"`
}

// RedisConfig is optional; an empty Host disables Redis.
type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type AuthConfig struct {
	SessionSecret string        `mapstructure:"session_secret"`
	SessionTTL    time.Duration `mapstructure:"session_ttl"`
	MaxSessions   int           `mapstructure:"max_sessions"`
	InitialCash   string        `mapstructure:"initial_cash"`
	LoginRPS      float64       `mapstructure:"login_rps"`
	LoginBurst    int           `mapstructure:"login_burst"`
}

type QuoteConfig struct {
	APIKey            string        `mapstructure:"api_key"`
	BaseURL           string        `mapstructure:"base_url"`
	Timeout           time.Duration `mapstructure:"timeout"`
	RequestsPerMinute int           `mapstructure:"requests_per_minute"`
}

type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"` // json or text
	File       string `mapstructure:"file"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.secure_cookie", false)

	v.SetDefault("db.driver", "sqlite")
	v.SetDefault("db.path", "finance.db")
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", "5432")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.run_migrations", true)

	v.SetDefault("redis.host", "")
	v.SetDefault("redis.port", "6379")
	v.SetDefault("redis.db", 0)

	v.SetDefault("auth.session_ttl", 24*time.Hour)
	v.SetDefault("auth.max_sessions", 5)
	v.SetDefault("auth.initial_cash", "10000.00")
	v.SetDefault("auth.login_rps", 1.0)
	v.SetDefault("auth.login_burst", 10)

	v.SetDefault("quote.base_url", "https://api.twelvedata.com")
	v.SetDefault("quote.timeout", 10*time.Second)
	v.SetDefault("quote.requests_per_minute", 8)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.max_size", 50)
	v.SetDefault("log.max_backups", 5)
	v.SetDefault("log.max_age", 28)
}

// Load reads .env (best effort), then path/config.yaml if present, then environment variables.
// Environment keys are the upper-cased config keys with "." replaced by "_" (DB_DRIVER, QUOTE_TIMEOUT...).
func Load(path string) (*Config, error) {
	// .envが無い場合はシステムの環境変数を使う
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if path != "" {
		v.AddConfigPath(path)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// API_KEY is the historical name; TWELVE_DATA_API_KEY matches the provider client.
	if err := v.BindEnv("quote.api_key", "QUOTE_API_KEY", "API_KEY", "TWELVE_DATA_API_KEY"); err != nil {
		return nil, err
	}
	if err := v.BindEnv("auth.session_secret", "AUTH_SESSION_SECRET", "SESSION_SECRET", "JWT_SECRET"); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks settings that the server cannot start without.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Quote.APIKey) == "" {
		return ErrMissingAPIKey
	}
	switch c.DB.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unsupported db driver %q", c.DB.Driver)
	}
	if _, err := c.Auth.InitialCashDecimal(); err != nil {
		return err
	}
	return nil
}

// InitialCashDecimal parses the cash granted to newly registered users.
func (a AuthConfig) InitialCashDecimal() (decimal.Decimal, error) {
	d, err := decimal.NewFromString(a.InitialCash)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid auth.initial_cash %q: %w", a.InitialCash, err)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("auth.initial_cash must not be negative")
	}
	return d, nil
}

// RedisEnabled reports whether a Redis host is configured.
func (r RedisConfig) RedisEnabled() bool {
	return r.Host != ""
}

// Addr returns host:port.
func (r RedisConfig) Addr() string {
	return r.Host + ":" + r.Port
}
