package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
)

// Config holds the application configuration.
// It is loaded once at startup and passed by value afterwards; nothing mutates it.
type Config struct {
	DatabaseURL    string        `mapstructure:"DATABASE_URL"`
	JWTSecret      string        `mapstructure:"JWT_SECRET"`
	AccessTokenTTL time.Duration `mapstructure:"ACCESS_TOKEN_TTL"`
	BcryptCost     int           `mapstructure:"BCRYPT_COST"`
	Port           string        `mapstructure:"PORT"`
	GinMode        string        `mapstructure:"GIN_MODE"`
	LogFormat      string        `mapstructure:"LOG_FORMAT"`
	LogLevel       string        `mapstructure:"LOG_LEVEL"`
	CORSOrigins    []string      `mapstructure:"CORS_ORIGINS"` // comma-separated in the environment
}

// Defaults applied before the .env file and the environment are read.
const (
	DefaultAccessTokenTTL = 30 * time.Minute
	DefaultPort           = "8080"
	DefaultLogFormat      = "json"
	DefaultLogLevel       = "info"
	DefaultCORSOrigin     = "http://localhost:3000"
)

// Load reads the configuration from a .env file, environment variables and,
// when flags is non-nil, the command-line flags bound to it.
func Load(flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.AddConfigPath(".")
	v.SetConfigName(".env")
	v.SetConfigType("env")

	v.SetDefault("ACCESS_TOKEN_TTL", DefaultAccessTokenTTL)
	v.SetDefault("BCRYPT_COST", bcrypt.DefaultCost)
	v.SetDefault("PORT", DefaultPort)
	v.SetDefault("GIN_MODE", "release")
	v.SetDefault("LOG_FORMAT", DefaultLogFormat)
	v.SetDefault("LOG_LEVEL", DefaultLogLevel)
	v.SetDefault("CORS_ORIGINS", []string{DefaultCORSOrigin})

	// Unmarshal only sees keys viper knows about, so the required ones are bound explicitly.
	for _, key := range []string{"DATABASE_URL", "JWT_SECRET"} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind %s: %w", key, err)
		}
	}
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read .env: %w", err)
		}
		log.Println("Warning: .env file not found, loading from environment variables")
	}

	if flags != nil {
		if err := bindFlags(v, flags); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}
	cfg.CORSOrigins = normalizeOrigins(cfg.CORSOrigins)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// bindFlags maps kebab-case flags (e.g. --database-url) onto their env-style keys.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	var bindErr error
	flags.VisitAll(func(f *pflag.Flag) {
		if bindErr != nil {
			return
		}
		key := strings.ToUpper(strings.ReplaceAll(f.Name, "-", "_"))
		if err := v.BindPFlag(key, f); err != nil {
			bindErr = fmt.Errorf("bind flag %s: %w", f.Name, err)
		}
	})
	return bindErr
}

// normalizeOrigins trims whitespace and trailing slashes and drops empty entries.
func normalizeOrigins(raw []string) []string {
	origins := make([]string, 0, len(raw))
	for _, o := range raw {
		if o = strings.TrimRight(strings.TrimSpace(o), "/"); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// Validate reports configuration that the server cannot start with.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.AccessTokenTTL <= 0 {
		return fmt.Errorf("ACCESS_TOKEN_TTL must be positive, got %s", c.AccessTokenTTL)
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("BCRYPT_COST must be between %d and %d, got %d", bcrypt.MinCost, bcrypt.MaxCost, c.BcryptCost)
	}
	return nil
}
