package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type AuthMode string

const (
	AuthModeDev    AuthMode = "dev"    // X-Debug-User-ID, sin verifier
	AuthModeGoTrue AuthMode = "gotrue" // valida contra el servicio de auth hospedado
	AuthModeJWT    AuthMode = "jwt"    // valida HS256 localmente con el secreto del proyecto
)

// Config agrupa todo lo que el proceso lee del entorno.
// Si CONFIG_FILE apunta a un YAML, se carga primero y el env lo pisa.
type Config struct {
	Port    string `yaml:"port"`
	AppName string `yaml:"app_name"`

	DatabaseDSN string `yaml:"database_dsn"`
	AutoMigrate bool   `yaml:"auto_migrate"`

	Auth    AuthConfig    `yaml:"auth"`
	Storage StorageConfig `yaml:"storage"`
	Log     LogConfig     `yaml:"log"`

	RequestTimeout time.Duration `yaml:"request_timeout"`
	Traces         string        `yaml:"traces"` // none|stdout
}

type AuthConfig struct {
	Mode      AuthMode `yaml:"mode"`
	URL       string   `yaml:"url"`
	APIKey    string   `yaml:"api_key"`
	JWTSecret string   `yaml:"jwt_secret"`
	Audience  string   `yaml:"audience"`
}

type StorageConfig struct {
	URL    string `yaml:"url"`
	APIKey string `yaml:"api_key"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

const DefaultRequestTimeout = 10 * time.Second

func Default() Config {
	return Config{
		Port:           "8080",
		AppName:        "kaniu",
		Auth:           AuthConfig{Mode: AuthModeDev, Audience: "authenticated"},
		Log:            LogConfig{Level: "info", Format: "text"},
		RequestTimeout: DefaultRequestTimeout,
		Traces:         "none",
	}
}

// Load lee CONFIG_FILE (opcional) y luego variables de entorno.
func Load() (Config, error) {
	cfg := Default()

	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := Parse(raw, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Parse aplica un documento YAML sobre cfg (los campos ausentes no se tocan).
func Parse(raw []byte, cfg *Config) error {
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return fmt.Errorf("parse config yaml: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	setString(&cfg.Port, "PORT")
	setString(&cfg.AppName, "APP_NAME")
	setString(&cfg.DatabaseDSN, "DB_DSN")
	if v, ok := lookup("AUTO_MIGRATE"); ok {
		cfg.AutoMigrate = isTruthy(v)
	}

	if v, ok := lookup("AUTH_MODE"); ok {
		cfg.Auth.Mode = AuthMode(strings.ToLower(v))
	}
	setString(&cfg.Auth.URL, "AUTH_URL")
	setString(&cfg.Auth.APIKey, "AUTH_API_KEY")
	setString(&cfg.Auth.JWTSecret, "AUTH_JWT_SECRET")
	setString(&cfg.Auth.Audience, "AUTH_AUDIENCE")

	setString(&cfg.Storage.URL, "STORAGE_URL")
	setString(&cfg.Storage.APIKey, "STORAGE_API_KEY")

	setString(&cfg.Log.Level, "LOG_LEVEL")
	setString(&cfg.Log.Format, "LOG_FORMAT")
	setString(&cfg.Traces, "OTEL_TRACES")

	if v, ok := lookup("REQUEST_TIMEOUT"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("REQUEST_TIMEOUT must be a duration (e.g. 5s): %w", err)
		}
		cfg.RequestTimeout = d
	}
	return nil
}

func (c Config) Validate() error {
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive")
	}
	switch c.Auth.Mode {
	case AuthModeDev:
	case AuthModeGoTrue:
		if c.Auth.URL == "" || c.Auth.APIKey == "" {
			return fmt.Errorf("auth mode gotrue requires AUTH_URL and AUTH_API_KEY")
		}
	case AuthModeJWT:
		if c.Auth.JWTSecret == "" {
			return fmt.Errorf("auth mode jwt requires AUTH_JWT_SECRET")
		}
	default:
		return fmt.Errorf("unknown auth mode %q", c.Auth.Mode)
	}
	return nil
}

func (c Config) Addr() string {
	return ":" + strings.TrimPrefix(c.Port, ":")
}

func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}

func setString(dst *string, key string) {
	if v, ok := lookup(key); ok {
		*dst = v
	}
}

func isTruthy(value string) bool {
	value = strings.TrimSpace(strings.ToLower(value))
	return value == "1" || value == "true" || value == "yes"
}
