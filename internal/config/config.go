// Package config loads runtime settings from .env, config.yaml, the
// environment and command-line flags, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix namespaces the structured environment variables, e.g.
// BENEFICIARY_ADMIN_SESSION_BACKEND.
const EnvPrefix = "BENEFICIARY_ADMIN"

// Session backends.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Server  ServerConfig  `mapstructure:"server"`
	Session SessionConfig `mapstructure:"session"`
	Redis   RedisConfig   `mapstructure:"redis"`
	Log     LogConfig     `mapstructure:"log"`
}

type APIConfig struct {
	BaseURL    string        `mapstructure:"base_url"`
	AuthScheme string        `mapstructure:"auth_scheme"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

type ServerConfig struct {
	Port int `mapstructure:"port"`
}

func (s ServerConfig) Addr() string { return fmt.Sprintf(":%d", s.Port) }

type SessionConfig struct {
	Backend string        `mapstructure:"backend"`
	DBPath  string        `mapstructure:"db_path"`
	TTL     time.Duration `mapstructure:"ttl"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Key      string `mapstructure:"key"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// legacyEnv maps keys to the bare variable names older deployments use.
var legacyEnv = map[string]string{
	"api.base_url":    "API_HOST",
	"server.port":     "PORT",
	"session.db_path": "DB_PATH",
	"log.level":       "LOG_LEVEL",
	"log.format":      "LOG_FORMAT",
	"redis.addr":      "REDIS_ADDR",
}

// New returns a viper instance with defaults and env bindings applied.
// Callers bind flags onto it before calling Load.
func New() *viper.Viper {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, name := range legacyEnv {
		prefixed := EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		_ = v.BindEnv(key, prefixed, name)
	}

	setDefaults(v)
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.base_url", "")
	v.SetDefault("api.auth_scheme", "JWT")
	v.SetDefault("api.timeout", 30*time.Second)

	v.SetDefault("server.port", 8080)

	v.SetDefault("session.backend", BackendSQLite)
	v.SetDefault("session.db_path", "session.db")
	v.SetDefault("session.ttl", 0)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.key", "beneficiary-admin:session:token")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
}

// LoadDotEnv reads .env into the process environment when present.
func LoadDotEnv(paths ...string) error {
	if err := godotenv.Load(paths...); err != nil {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

// Load reads the optional config file and decodes v into a Config.
func Load(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
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

func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return errors.New("api.base_url is required (set API_HOST)")
	}
	switch c.Session.Backend {
	case BackendSQLite, BackendRedis, BackendMemory:
	default:
		return fmt.Errorf("unknown session.backend %q", c.Session.Backend)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d", c.Server.Port)
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("invalid api.timeout %s", c.API.Timeout)
	}
	return nil
}
