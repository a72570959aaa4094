package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port          string        `mapstructure:"API_PORT"`
	GinMode       string        `mapstructure:"GIN_MODE"`
	LogLevel      string        `mapstructure:"LOG_LEVEL"`
	MongoURI      string        `mapstructure:"MONGO_URI"`
	MongoDatabase string        `mapstructure:"MONGO_DATABASE"`
	JWTSecret     string        `mapstructure:"JWT_SECRET"`
	TokenTTL      time.Duration `mapstructure:"TOKEN_TTL"`
	CORSOrigins   []string      `mapstructure:"CORS_ORIGINS"`
	DefaultRole   string        `mapstructure:"DEFAULT_ROLE"`

	LoginMaxAttempts     int           `mapstructure:"LOGIN_MAX_ATTEMPTS"`
	LoginCooldown        time.Duration `mapstructure:"LOGIN_COOLDOWN"`
	LoginLimiterRedisURL string        `mapstructure:"LOGIN_LIMITER_REDIS_URL"`

	ReportWebhookURL string `mapstructure:"REPORT_WEBHOOK_URL"`
}

var keys = []string{
	"API_PORT", "GIN_MODE", "LOG_LEVEL", "MONGO_URI", "MONGO_DATABASE", "JWT_SECRET", "TOKEN_TTL",
	"CORS_ORIGINS", "DEFAULT_ROLE", "LOGIN_MAX_ATTEMPTS", "LOGIN_COOLDOWN", "LOGIN_LIMITER_REDIS_URL",
	"REPORT_WEBHOOK_URL",
}

// Load reads an optional .env file into the process environment and then
// resolves every setting from the environment, falling back to defaults.
func Load() (*Config, error) {
	// A missing .env is fine; the environment alone is enough.
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("API_PORT", "8080")
	v.SetDefault("GIN_MODE", "release")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("MONGO_DATABASE", "colortherapy")
	v.SetDefault("TOKEN_TTL", "24h")
	v.SetDefault("CORS_ORIGINS", "http://localhost:5173")
	v.SetDefault("DEFAULT_ROLE", "Receptionist")
	v.SetDefault("LOGIN_MAX_ATTEMPTS", 5)
	v.SetDefault("LOGIN_COOLDOWN", "30s")

	for _, k := range keys {
		_ = v.BindEnv(k)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	// viper only splits slices coming from config files, not from the environment.
	if raw := v.GetString("CORS_ORIGINS"); raw != "" {
		cfg.CORSOrigins = splitList(raw)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports settings the server cannot start without.
func (c *Config) Validate() error {
	var errs []error
	if c.MongoURI == "" {
		errs = append(errs, errors.New("MONGO_URI is required"))
	}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.TokenTTL <= 0 {
		errs = append(errs, errors.New("TOKEN_TTL must be positive"))
	}
	if c.LoginMaxAttempts <= 0 {
		errs = append(errs, errors.New("LOGIN_MAX_ATTEMPTS must be positive"))
	}
	return errors.Join(errs...)
}

func (c *Config) IsDebug() bool {
	return c.GinMode == "debug"
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
