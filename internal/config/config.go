// Package config loads menucart settings from flags, environment and the
// optional .menucart.yaml file, and validates them.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config is the resolved CLI configuration.
type Config struct {
	BaseURL     string        `mapstructure:"base_url" validate:"required,url"`
	LandingURL  string        `mapstructure:"landing_url" validate:"required,url"`
	FetchMode   string        `mapstructure:"fetch_mode" validate:"oneof=static dynamic auto"`
	Timeout     time.Duration `mapstructure:"timeout" validate:"gt=0"`
	UserAgent   string        `mapstructure:"user_agent"`
	MaxBodySize string        `mapstructure:"max_body_size"`
	Concurrency int           `mapstructure:"concurrency" validate:"min=1,max=16"`
	MaxWeek     int           `mapstructure:"max_week" validate:"min=1,max=200"`
	ChromePath  string        `mapstructure:"chrome_path"`

	Session SessionConfig `mapstructure:"session"`
	Output  OutputConfig  `mapstructure:"output"`
	Store   StoreConfig   `mapstructure:"store"`
}

// SessionConfig holds the login cookie for members-only menus.
type SessionConfig struct {
	CookieName  string `mapstructure:"cookie_name" validate:"required_with=CookieValue"`
	CookieValue string `mapstructure:"cookie_value"`
	Domain      string `mapstructure:"domain"`
}

// OutputConfig controls how results are written.
type OutputConfig struct {
	Format string `mapstructure:"format" validate:"oneof=json jsonl yaml"`
	Path   string `mapstructure:"path"`
	Pretty bool   `mapstructure:"pretty"`
}

// StoreConfig selects where results are persisted.
type StoreConfig struct {
	Backend             string `mapstructure:"backend" validate:"oneof=none file sqlite firestore"`
	Dir                 string `mapstructure:"dir" validate:"required_if=Backend file"`
	SQLitePath          string `mapstructure:"sqlite_path" validate:"required_if=Backend sqlite"`
	FirestoreProject    string `mapstructure:"firestore_project" validate:"required_if=Backend firestore"`
	FirestoreCredential string `mapstructure:"firestore_credentials"`
	FirestoreCollection string `mapstructure:"firestore_collection" validate:"required_if=Backend firestore"`
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("base_url", "https://almacen.paulinacocina.net")
	v.SetDefault("landing_url", "https://almacen.paulinacocina.net/menu-semanal/")
	v.SetDefault("fetch_mode", "static")
	v.SetDefault("timeout", 30*time.Second)
	v.SetDefault("max_body_size", "10MB")
	v.SetDefault("concurrency", 3)
	v.SetDefault("max_week", 20)
	v.SetDefault("output.format", "json")
	v.SetDefault("output.pretty", true)
	v.SetDefault("store.backend", "none")
	v.SetDefault("store.dir", ".")
	v.SetDefault("store.sqlite_path", "menucart.db")
	v.SetDefault("store.firestore_collection", "paulina_menus")
}

// Load decodes and validates the configuration held by v.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field constraints and the body size syntax.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if _, err := c.MaxBodyBytes(); err != nil {
		return err
	}
	return nil
}

// MaxBodyBytes parses MaxBodySize ("10MB", "512KiB"). Empty or "0" means
// the fetcher default.
func (c *Config) MaxBodyBytes() (int, error) {
	s := strings.TrimSpace(c.MaxBodySize)
	if s == "" || s == "0" {
		return 0, nil
	}
	n, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, fmt.Errorf("invalid max_body_size %q: %w", c.MaxBodySize, err)
	}
	return int(n), nil
}
