// Package config loads the API, worker and seeder configuration from the
// environment, an optional .env file and an optional CONFIG_FILE.
package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvProduction  = "production"
	EnvDevelopment = "development"

	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	minBcryptRounds = 4
	maxBcryptRounds = 31
)

type Config struct {
	Env  string `mapstructure:"APP_ENV"`
	Port string `mapstructure:"PORT"`

	DBDriver       string `mapstructure:"DB_DRIVER"`
	DatabaseURL    string `mapstructure:"DATABASE_URL"`
	DBMaxOpenConns int    `mapstructure:"DB_MAX_OPEN_CONNS"`

	// JWTSecret signs HS256 bearer tokens. Required in production.
	JWTSecret    string `mapstructure:"JWT_SECRET"`
	JWTExpiresIn string `mapstructure:"JWT_EXPIRES_IN"`
	BcryptRounds int    `mapstructure:"BCRYPT_ROUNDS"`

	CORSOrigin           string `mapstructure:"CORS_ORIGIN"`
	RateLimitWindow      string `mapstructure:"RATE_LIMIT_WINDOW"`
	RateLimitMaxRequests int    `mapstructure:"RATE_LIMIT_MAX_REQUESTS"`
	MaxBodyBytes         int64  `mapstructure:"MAX_BODY_BYTES"`
	// TrustProxy takes the client IP from X-Forwarded-For and friends. Only
	// enable it behind a proxy that overwrites those headers.
	TrustProxy            bool   `mapstructure:"TRUST_PROXY"`
	RedisURL              string `mapstructure:"REDIS_URL"`
	AMQPURL               string `mapstructure:"AMQP_URL"`
	SMTPHost              string `mapstructure:"SMTP_HOST"`
	SMTPPort              int    `mapstructure:"SMTP_PORT"`
	SMTPUser              string `mapstructure:"SMTP_USER"`
	SMTPPassword          string `mapstructure:"SMTP_PASSWORD"`
	MailFrom              string `mapstructure:"MAIL_FROM"`
	NotifyEmail           string `mapstructure:"NOTIFY_EMAIL"`
	SeedDefaultUsers      bool   `mapstructure:"SEED_DEFAULT_USERS"`
	LogLevel              string `mapstructure:"LOG_LEVEL"`
	LogDev                bool   `mapstructure:"LOG_DEV"`
	LogFile               string `mapstructure:"LOG_FILE"`
	ShutdownTimeoutSecond int    `mapstructure:"SHUTDOWN_TIMEOUT_SECONDS"`
	// ExpirySweepInterval is how often stale quotes and policies are moved
	// to expired; "0" turns the sweeper off.
	ExpirySweepInterval string `mapstructure:"EXPIRY_SWEEP_INTERVAL"`
}

// Load reads .env (if present) into the process environment, then builds the
// Config through Viper. Env vars win over CONFIG_FILE values.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if file := v.GetString("CONFIG_FILE"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", file, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	// SEED_DEFAULT_USERS defaults to true only outside production.
	if v.IsSet("SEED_DEFAULT_USERS") {
		cfg.SeedDefaultUsers = v.GetBool("SEED_DEFAULT_USERS")
	} else {
		cfg.SeedDefaultUsers = !cfg.IsProduction()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("CONFIG_FILE", "")
	v.SetDefault("APP_ENV", EnvDevelopment)
	v.SetDefault("PORT", "10000")
	v.SetDefault("DB_DRIVER", DriverSQLite)
	v.SetDefault("DATABASE_URL", "data/insurance.db")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_EXPIRES_IN", "7d")
	v.SetDefault("BCRYPT_ROUNDS", 12)
	v.SetDefault("CORS_ORIGIN", "http://localhost:3000")
	v.SetDefault("RATE_LIMIT_WINDOW", "15m")
	v.SetDefault("RATE_LIMIT_MAX_REQUESTS", 100)
	v.SetDefault("MAX_BODY_BYTES", 10<<20)
	v.SetDefault("TRUST_PROXY", false)
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("AMQP_URL", "")
	v.SetDefault("SMTP_HOST", "")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("SMTP_USER", "")
	v.SetDefault("SMTP_PASSWORD", "")
	v.SetDefault("MAIL_FROM", "no-reply@tesinsurance.com")
	v.SetDefault("NOTIFY_EMAIL", "")
	v.SetDefault("LOG_LEVEL", "")
	v.SetDefault("LOG_DEV", false)
	v.SetDefault("LOG_FILE", "")
	v.SetDefault("SHUTDOWN_TIMEOUT_SECONDS", 10)
	v.SetDefault("EXPIRY_SWEEP_INTERVAL", "1h")
}

func (c *Config) Validate() error {
	switch c.DBDriver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("config: DB_DRIVER must be %q or %q, got %q", DriverSQLite, DriverPostgres, c.DBDriver)
	}
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return errors.New("config: DATABASE_URL must be set")
	}
	if c.Port == "" {
		return errors.New("config: PORT must be set")
	}
	if c.JWTSecret == "" {
		if c.IsProduction() {
			return errors.New("config: JWT_SECRET must be set when APP_ENV=production")
		}
		c.JWTSecret = "dev-only-insecure-secret"
	}
	if c.BcryptRounds == 0 {
		c.BcryptRounds = 12
	}
	if c.BcryptRounds < minBcryptRounds || c.BcryptRounds > maxBcryptRounds {
		return fmt.Errorf("config: BCRYPT_ROUNDS must be between %d and %d", minBcryptRounds, maxBcryptRounds)
	}
	if _, err := ParseDuration(c.JWTExpiresIn); err != nil {
		return fmt.Errorf("config: JWT_EXPIRES_IN: %w", err)
	}
	if _, err := ParseDuration(c.RateLimitWindow); err != nil {
		return fmt.Errorf("config: RATE_LIMIT_WINDOW: %w", err)
	}
	if c.RateLimitMaxRequests <= 0 {
		return errors.New("config: RATE_LIMIT_MAX_REQUESTS must be positive")
	}
	if c.ExpirySweepInterval != "" {
		if _, err := ParseDuration(c.ExpirySweepInterval); err != nil {
			return fmt.Errorf("config: EXPIRY_SWEEP_INTERVAL: %w", err)
		}
	}
	if c.MaxBodyBytes <= 0 {
		return errors.New("config: MAX_BODY_BYTES must be positive")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// TokenTTL returns the bearer token lifetime; 7 days if unparsable.
func (c *Config) TokenTTL() time.Duration {
	d, err := ParseDuration(c.JWTExpiresIn)
	if err != nil || d <= 0 {
		return 7 * 24 * time.Hour
	}
	return d
}

// RateWindow returns the rate limit window; 15 minutes if unparsable.
func (c *Config) RateWindow() time.Duration {
	d, err := ParseDuration(c.RateLimitWindow)
	if err != nil || d <= 0 {
		return 15 * time.Minute
	}
	return d
}

func (c *Config) ShutdownTimeout() time.Duration {
	if c.ShutdownTimeoutSecond <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.ShutdownTimeoutSecond) * time.Second
}

// CORSOrigins splits the comma-separated CORS_ORIGIN value.
func (c *Config) CORSOrigins() []string {
	parts := strings.Split(c.CORSOrigin, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// ExpirySweep returns the sweeper interval; zero disables it.
func (c *Config) ExpirySweep() time.Duration {
	d, err := ParseDuration(c.ExpirySweepInterval)
	if err != nil || d < 0 {
		return 0
	}
	return d
}

func (c *Config) MailEnabled() bool {
	return c.SMTPHost != "" && c.NotifyEmail != ""
}

// ParseDuration accepts time.ParseDuration syntax plus a whole-day suffix
// ("7d") and a bare number of milliseconds ("900000").
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.New("empty duration")
	}
	if strings.HasSuffix(s, "d") {
		days, err := strconv.Atoi(strings.TrimSuffix(s, "d"))
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q", s)
		}
		return time.Duration(days) * 24 * time.Hour, nil
	}
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Duration(ms) * time.Millisecond, nil
	}
	return time.ParseDuration(s)
}
