package config

import (
	"errors"
	"os"
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
)

const (
	DefaultPort        = "8080"
	DefaultCacheTTL    = 30 * time.Minute
	DefaultMaxUploadMB = 32

	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTest        = "test"
)

var portRe = regexp.MustCompile(`^[0-9]{1,5}$`)

// Config is read from OTARECON_* environment variables, optionally seeded from a .env file.
type Config struct {
	Port        string        `json:"port" envconfig:"PORT"`
	Env         string        `json:"env" envconfig:"ENV"`
	LogLevel    string        `json:"log_level" envconfig:"LOG_LEVEL"`
	LogFormat   string        `json:"log_format" envconfig:"LOG_FORMAT"`
	DatabaseURL string        `json:"database_url" envconfig:"DATABASE_URL"`
	RedisAddr   string        `json:"redis_addr" envconfig:"REDIS_ADDR"`
	CacheTTL    time.Duration `json:"cache_ttl" envconfig:"CACHE_TTL"`
	CORSOrigins []string      `json:"cors_origins" envconfig:"CORS_ORIGINS"`
	MaxUploadMB int64         `json:"max_upload_mb" envconfig:"MAX_UPLOAD_MB"`
}

// Load reads the given .env files (".env" when none are named), then the
// process environment. A missing .env file is not an error.
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		logrus.Debug("no .env file found, relying on system env")
	}

	var cfg Config
	if err := envconfig.Process("otarecon", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.validateAndAddDefaults(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validateAndAddDefaults() error {
	c.Port = strings.TrimSpace(c.Port)
	c.DatabaseURL = strings.TrimSpace(c.DatabaseURL)
	c.RedisAddr = strings.TrimSpace(c.RedisAddr)

	if c.Port == "" {
		c.Port = DefaultPort
	}
	if c.Env == "" {
		c.Env = EnvDevelopment
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogFormat == "" {
		c.LogFormat = "text"
	}
	if c.CacheTTL == 0 {
		c.CacheTTL = DefaultCacheTTL
	}
	if c.MaxUploadMB == 0 {
		c.MaxUploadMB = DefaultMaxUploadMB
	}
	if len(c.CORSOrigins) == 0 {
		c.CORSOrigins = []string{"http://localhost:3000"}
	}

	return validation.ValidateStruct(c,
		validation.Field(&c.Env, validation.In(EnvDevelopment, EnvProduction, EnvTest)),
		validation.Field(&c.LogLevel, validation.In("trace", "debug", "info", "warn", "warning", "error", "fatal", "panic")),
		validation.Field(&c.LogFormat, validation.In("text", "json")),
	)
}

// ValidateServer checks the settings only the HTTP server reads.
func (c *Config) ValidateServer() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Match(portRe)),
		validation.Field(&c.CacheTTL, validation.Min(time.Duration(0))),
		validation.Field(&c.MaxUploadMB, validation.Min(int64(1))),
		validation.Field(&c.CORSOrigins, validation.Each(validation.Required)),
	)
}

// MaxUploadBytes is the multipart memory limit for uploads.
func (c *Config) MaxUploadBytes() int64 { return c.MaxUploadMB << 20 }

func (c *Config) IsProduction() bool { return c.Env == EnvProduction }
