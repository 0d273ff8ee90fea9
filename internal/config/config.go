// Package config handles loading and validating the pipeline configuration
// from YAML files with environment variable substitution.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/donaldgifford/card-price-catalog/pkg/pricing"
)

// Config is the top-level pipeline configuration.
type Config struct {
	API      APIConfig      `yaml:"api"`
	Paths    PathsConfig    `yaml:"paths"`
	Filter   FilterConfig   `yaml:"filter"`
	Analysis AnalysisConfig `yaml:"analysis"`
	Logging  LoggingConfig  `yaml:"logging"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// APIConfig defines Pokémon TCG API settings.
type APIConfig struct {
	BaseURL   string          `yaml:"base_url"`
	Key       string          `yaml:"key"` // usually ${POKEMONTCG_API_KEY}
	Timeout   time.Duration   `yaml:"timeout"`
	CacheSize int             `yaml:"cache_size"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// RateLimitConfig defines API rate limiting settings.
type RateLimitConfig struct {
	PerSecond  float64 `yaml:"per_second"`
	Burst      int     `yaml:"burst"`
	DailyLimit int64   `yaml:"daily_limit"` // 0 = unlimited
}

// PathsConfig defines where each stage reads and writes.
type PathsConfig struct {
	CardSetsDir  string `yaml:"card_sets_dir"`
	PricedDir    string `yaml:"priced_dir"`
	RareDir      string `yaml:"rare_dir"`
	CombinedFile string `yaml:"combined_file"`
}

// FilterConfig defines the rarity allow-list.
type FilterConfig struct {
	Rarities []string `yaml:"rarities"`
}

// AnalysisConfig defines market price analysis settings.
type AnalysisConfig struct {
	Categories  []string `yaml:"categories"`
	TopN        int      `yaml:"top_n"`
	IncludeZero bool     `yaml:"include_zero"` // count $0 market prices as priced
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// MetricsConfig defines the optional Prometheus textfile output.
type MetricsConfig struct {
	Textfile string `yaml:"textfile"`
}

// DefaultRarities is the rarity allow-list used when none is configured.
func DefaultRarities() []string {
	return []string{
		"Ultra Rare",
		"Hyper Rare",
		"Illustration Rare",
		"Special Illustration Rare",
	}
}

// DefaultCategories is the price category order used when none is configured.
func DefaultCategories() []string {
	return slices.Clone(pricing.DefaultCategories)
}

// Load reads and parses a YAML config file, performing environment variable
// substitution and validation. Variables from a .env file in the working
// directory are loaded first when present. An empty path, or a path that does
// not exist, yields the defaults.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path) //nolint:gosec // config path from trusted CLI flag
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("reading config file: %w", err)
		default:
			// Expand environment variables in the YAML content.
			expanded := os.ExpandEnv(string(data))
			if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
				return nil, fmt.Errorf("parsing config YAML: %w", err)
			}
		}
	}

	applyDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	applyAPIDefaults(&cfg.API)
	applyPathsDefaults(&cfg.Paths)
	applyFilterDefaults(&cfg.Filter)
	applyAnalysisDefaults(&cfg.Analysis)
	applyLoggingDefaults(&cfg.Logging)
}

func applyAPIDefaults(a *APIConfig) {
	if a.BaseURL == "" {
		a.BaseURL = "https://api.pokemontcg.io/v2"
	}
	if a.Key == "" {
		a.Key = os.Getenv("POKEMONTCG_API_KEY")
	}
	if a.Timeout == 0 {
		a.Timeout = 30 * time.Second
	}
	if a.CacheSize == 0 {
		a.CacheSize = 1024
	}
	applyRateLimitDefaults(&a.RateLimit)
}

func applyRateLimitDefaults(r *RateLimitConfig) {
	if r.PerSecond == 0 {
		r.PerSecond = 10.0
	}
	if r.Burst == 0 {
		r.Burst = 1
	}
}

func applyPathsDefaults(p *PathsConfig) {
	if p.CardSetsDir == "" {
		p.CardSetsDir = "card_sets"
	}
	if p.PricedDir == "" {
		p.PricedDir = "card_data_with_prices"
	}
	if p.RareDir == "" {
		p.RareDir = "rare_card_data"
	}
	if p.CombinedFile == "" {
		p.CombinedFile = "all_rare_cards.json"
	}
}

func applyFilterDefaults(f *FilterConfig) {
	if len(f.Rarities) == 0 {
		f.Rarities = DefaultRarities()
	}
}

func applyAnalysisDefaults(a *AnalysisConfig) {
	if len(a.Categories) == 0 {
		a.Categories = DefaultCategories()
	}
	if a.TopN == 0 {
		a.TopN = 5
	}
}

func applyLoggingDefaults(l *LoggingConfig) {
	if l.Level == "" {
		l.Level = "info"
	}
	if l.Format == "" {
		l.Format = "text"
	}
}

func validate(cfg *Config) error {
	var errs []error

	if cfg.API.RateLimit.PerSecond < 0 {
		errs = append(errs, fmt.Errorf("api.rate_limit.per_second must be positive"))
	}
	if cfg.API.RateLimit.Burst < 0 {
		errs = append(errs, fmt.Errorf("api.rate_limit.burst must be positive"))
	}
	if cfg.API.RateLimit.DailyLimit < 0 {
		errs = append(errs, fmt.Errorf("api.rate_limit.daily_limit must not be negative"))
	}
	if cfg.API.CacheSize < 0 {
		errs = append(errs, fmt.Errorf("api.cache_size must not be negative"))
	}
	if cfg.Analysis.TopN < 0 {
		errs = append(errs, fmt.Errorf("analysis.top_n must not be negative"))
	}

	seen := make(map[string]bool, len(cfg.Analysis.Categories))
	for _, c := range cfg.Analysis.Categories {
		if c == "" {
			errs = append(errs, fmt.Errorf("analysis.categories must not contain empty names"))
			continue
		}
		if seen[c] {
			errs = append(errs, fmt.Errorf("analysis.categories lists %q twice", c))
		}
		seen[c] = true
	}

	switch cfg.Logging.Format {
	case "text", "json":
	default:
		errs = append(
			errs,
			fmt.Errorf("logging.format must be one of: text, json (got %q)", cfg.Logging.Format),
		)
	}

	return errors.Join(errs...)
}
