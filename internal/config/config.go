// Package config provides configuration management for the crawler. Values
// come from defaults, an optional config file, and environment variables, in
// increasing order of precedence, all through viper.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/spf13/viper"

	"github.com/jonesrussell/brandmon/internal/domain"
	"github.com/jonesrussell/brandmon/internal/logger"
)

// Default configuration values.
const (
	DefaultBaseURL           = "https://web-scraping.dev"
	DefaultTargetYear        = 2023
	DefaultRequestTimeout    = 30 * time.Second
	DefaultRequestsPerSecond = 2.0
	DefaultOutputDir         = "data"
	DefaultSecretToken       = "secret123"
)

// Config holds the full application configuration.
type Config struct {
	// BaseURL is the target site's root URL.
	BaseURL string `yaml:"base_url"`
	// Categories is the list of product listing categories to crawl.
	Categories []domain.Category `yaml:"categories"`
	// TargetYear is the calendar year reviews are filtered against.
	TargetYear int `yaml:"target_year"`
	// UserAgent is sent on every request.
	UserAgent string `yaml:"user_agent"`
	// RequestTimeout is the per-request budget.
	RequestTimeout time.Duration `yaml:"request_timeout"`
	// RequestsPerSecond paces requests against the rate-sensitive host.
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	// SecretToken gates testimonial pages past the first one.
	SecretToken string `yaml:"secret_token"`
	// OutputDir is where the CSV tables land.
	OutputDir string `yaml:"output_dir"`
	// SQLitePath enables the optional SQLite sink when non-empty.
	SQLitePath string `yaml:"sqlite_path"`
	// Logger configures the zap logger.
	Logger logger.Config `yaml:"logger"`
}

// Load builds a Config from viper's current state.
func Load() (*Config, error) {
	categories := domain.DefaultCategories()
	if names := viper.GetStringSlice("crawler.categories"); len(names) > 0 {
		categories = make([]domain.Category, 0, len(names))
		for _, name := range names {
			categories = append(categories, domain.Category(name))
		}
	}

	cfg := &Config{
		BaseURL:           viper.GetString("crawler.base_url"),
		Categories:        categories,
		TargetYear:        viper.GetInt("crawler.target_year"),
		UserAgent:         viper.GetString("crawler.user_agent"),
		RequestTimeout:    viper.GetDuration("crawler.request_timeout"),
		RequestsPerSecond: viper.GetFloat64("crawler.requests_per_second"),
		SecretToken:       viper.GetString("crawler.secret_token"),
		OutputDir:         viper.GetString("output.dir"),
		SQLitePath:        viper.GetString("output.sqlite_path"),
		Logger: logger.Config{
			Level:       logger.Level(viper.GetString("logger.level")),
			Development: viper.GetBool("logger.development"),
			Encoding:    viper.GetString("logger.encoding"),
			EnableColor: viper.GetBool("logger.enable_color"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the configuration for values the crawler cannot run with.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return errors.New("base_url is required")
	}
	if _, err := url.Parse(c.BaseURL); err != nil {
		return fmt.Errorf("base_url invalid: %w", err)
	}
	if len(c.Categories) == 0 {
		return errors.New("at least one category is required")
	}
	if c.TargetYear < 1 {
		return errors.New("target_year must be positive")
	}
	if c.RequestTimeout < 0 {
		return errors.New("request_timeout must be non-negative")
	}
	if c.RequestsPerSecond <= 0 {
		return errors.New("requests_per_second must be positive")
	}
	if c.OutputDir == "" {
		return errors.New("output dir is required")
	}
	return nil
}

// SetDefaults registers default values on viper. Called once from the root
// command before flags and env bindings are applied.
func SetDefaults() {
	viper.SetDefault("crawler", map[string]any{
		"base_url":            DefaultBaseURL,
		"target_year":         DefaultTargetYear,
		"user_agent":          "", // fetcher default applies
		"request_timeout":     DefaultRequestTimeout.String(),
		"requests_per_second": DefaultRequestsPerSecond,
		"secret_token":        DefaultSecretToken,
	})

	viper.SetDefault("output", map[string]any{
		"dir":         DefaultOutputDir,
		"sqlite_path": "",
	})

	viper.SetDefault("logger", map[string]any{
		"level":        "info",
		"development":  false,
		"encoding":     "console",
		"enable_color": false,
	})
}
