// Package cmd implements the cardprice CLI commands.
package cmd

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/donaldgifford/card-price-catalog/internal/config"
	"github.com/donaldgifford/card-price-catalog/internal/metrics"
	"github.com/donaldgifford/card-price-catalog/internal/pipeline"
	"github.com/donaldgifford/card-price-catalog/internal/tcgapi"
	"github.com/donaldgifford/card-price-catalog/pkg/logger"
	"github.com/donaldgifford/card-price-catalog/pkg/pricing"
)

var (
	cfgFile string
	rootCmd = &cobra.Command{
		Use:   "cardprice",
		Short: "Build and analyze a priced Pokémon card catalog",
		Long: "cardprice enriches local card sets with tcgplayer market prices from\n" +
			"the Pokémon TCG API, filters them down to a rarity allow-list, merges\n" +
			"the sets into one corpus and reports market price statistics.",
		SilenceUsage: true,
	}
)

// Root returns the root cobra command for documentation generation.
func Root() *cobra.Command {
	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initViper)

	rootCmd.PersistentFlags().
		StringVar(&cfgFile, "config", "cardprice.yaml", "config file path")
	rootCmd.PersistentFlags().
		String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().
		String("log-format", "text", "log format (text, json)")
	rootCmd.PersistentFlags().
		String("output", "text", "output format (text, json)")
	rootCmd.PersistentFlags().
		String("metrics-textfile", "", "write Prometheus metrics to this file when done")

	for _, name := range []string{"log-level", "log-format", "output", "metrics-textfile"} {
		cobra.CheckErr(viper.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name)))
	}

	rootCmd.AddCommand(fetchCmd())
	rootCmd.AddCommand(filterCmd())
	rootCmd.AddCommand(combineCmd())
	rootCmd.AddCommand(analyzeCmd())
	rootCmd.AddCommand(runCmd())
	rootCmd.AddCommand(versionCmd())
}

func initViper() {
	viper.SetEnvPrefix("CARDPRICE")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

// app bundles what every stage command needs.
type app struct {
	cfg      *config.Config
	log      *slog.Logger
	pipeline *pipeline.Pipeline
}

// newApp loads the config, applies flag and environment overrides, and wires
// the logger, API client and pipeline.
func newApp() (*app, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if viper.IsSet("log-level") {
		cfg.Logging.Level = viper.GetString("log-level")
	}
	if viper.IsSet("log-format") {
		cfg.Logging.Format = viper.GetString("log-format")
	}
	if viper.IsSet("metrics-textfile") {
		cfg.Metrics.Textfile = viper.GetString("metrics-textfile")
	}

	log, _ := logger.WithRunID(logger.New(cfg.Logging.Level, cfg.Logging.Format))
	log.Debug("starting run", "config", cfgFile)

	client, err := tcgapi.New(
		tcgapi.WithBaseURL(cfg.API.BaseURL),
		tcgapi.WithAPIKey(cfg.API.Key),
		tcgapi.WithHTTPClient(newHTTPClient(cfg.API.Timeout)),
		tcgapi.WithCacheSize(cfg.API.CacheSize),
		tcgapi.WithRateLimiter(tcgapi.NewRateLimiter(
			cfg.API.RateLimit.PerSecond,
			cfg.API.RateLimit.Burst,
			cfg.API.RateLimit.DailyLimit,
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("creating API client: %w", err)
	}

	return &app{
		cfg: cfg,
		log: log,
		pipeline: pipeline.New(
			pipeline.WithLogger(log),
			pipeline.WithFetcher(client),
			pipeline.WithRarities(cfg.Filter.Rarities...),
			pipeline.WithExtractor(newExtractor(cfg.Analysis)),
		),
	}, nil
}

func newExtractor(a config.AnalysisConfig) *pricing.Extractor {
	policy := pricing.SkipZero
	if a.IncludeZero {
		policy = pricing.KeepZero
	}
	return pricing.NewExtractor(
		pricing.WithCategories(a.Categories...),
		pricing.WithZeroPolicy(policy),
	)
}

// finish writes the metrics textfile when one is configured.
func (a *app) finish() {
	if a.cfg.Metrics.Textfile == "" {
		return
	}
	if err := metrics.WriteTextfile(a.cfg.Metrics.Textfile); err != nil {
		a.log.Warn("writing metrics textfile failed", "error", err)
	}
}

func jsonOutput() bool {
	return viper.GetString("output") == "json"
}

func newHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}
