package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/donaldgifford/card-price-catalog/internal/pipeline"
)

func fetchCmd() *cobra.Command {
	var inDir, outDir string

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Enrich local card sets with market prices from the Pokémon TCG API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.finish()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			results, err := a.pipeline.Fetch(ctx,
				orDefault(inDir, a.cfg.Paths.CardSetsDir),
				orDefault(outDir, a.cfg.Paths.PricedDir),
			)
			if err != nil {
				return err
			}
			return printStageResults(pipeline.StageFetch, results)
		},
	}

	cmd.Flags().StringVar(&inDir, "in", "", "directory of card set JSON files (default paths.card_sets_dir)")
	cmd.Flags().StringVar(&outDir, "out", "", "directory for enriched sets (default paths.priced_dir)")
	return cmd
}

func filterCmd() *cobra.Command {
	var inDir, outDir string
	var rarities []string

	cmd := &cobra.Command{
		Use:   "filter",
		Short: "Keep only cards whose rarity is in the allow-list",
		RunE: func(_ *cobra.Command, _ []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.finish()

			p := a.pipeline
			if len(rarities) > 0 {
				p = pipeline.New(pipeline.WithLogger(a.log), pipeline.WithRarities(rarities...))
			}

			results, err := p.Filter(
				orDefault(inDir, a.cfg.Paths.PricedDir),
				orDefault(outDir, a.cfg.Paths.RareDir),
			)
			if err != nil {
				return err
			}
			return printStageResults(pipeline.StageFilter, results)
		},
	}

	cmd.Flags().StringVar(&inDir, "in", "", "directory of enriched sets (default paths.priced_dir)")
	cmd.Flags().StringVar(&outDir, "out", "", "directory for filtered sets (default paths.rare_dir)")
	cmd.Flags().StringSliceVar(&rarities, "rarity", nil, "rarity to keep, repeatable (default filter.rarities)")
	return cmd
}

func combineCmd() *cobra.Command {
	var inDir, outFile string

	cmd := &cobra.Command{
		Use:   "combine",
		Short: "Merge filtered sets into one corpus file",
		RunE: func(_ *cobra.Command, _ []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.finish()

			results, err := a.pipeline.Combine(
				orDefault(inDir, a.cfg.Paths.RareDir),
				orDefault(outFile, a.cfg.Paths.CombinedFile),
			)
			if err != nil {
				return err
			}
			return printStageResults(pipeline.StageCombine, results)
		},
	}

	cmd.Flags().StringVar(&inDir, "in", "", "directory of filtered sets (default paths.rare_dir)")
	cmd.Flags().StringVar(&outFile, "out", "", "combined corpus file (default paths.combined_file)")
	return cmd
}

func analyzeCmd() *cobra.Command {
	var top int
	var includeZero bool

	cmd := &cobra.Command{
		Use:   "analyze [corpus.json]",
		Short: "Report market price statistics for the combined corpus",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.finish()

			path := a.cfg.Paths.CombinedFile
			if len(args) == 1 {
				path = args[0]
			}
			if cmd.Flags().Changed("top") {
				a.cfg.Analysis.TopN = top
			}

			p := a.pipeline
			if cmd.Flags().Changed("include-zero") {
				a.cfg.Analysis.IncludeZero = includeZero
				p = pipeline.New(
					pipeline.WithLogger(a.log),
					pipeline.WithExtractor(newExtractor(a.cfg.Analysis)),
				)
			}

			r, err := p.Analyze(path, a.cfg.Analysis.TopN)
			if err != nil {
				return err
			}
			return printReport(r)
		},
	}

	cmd.Flags().IntVar(&top, "top", 5, "number of most valuable cards to list")
	cmd.Flags().BoolVar(&includeZero, "include-zero", false, "count $0.00 market prices as priced")
	return cmd
}

func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run fetch, filter, combine and analyze in order",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.finish()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return runAll(ctx, a)
		},
	}
}

func runAll(ctx context.Context, a *app) error {
	paths := a.cfg.Paths

	if _, err := a.pipeline.Fetch(ctx, paths.CardSetsDir, paths.PricedDir); err != nil {
		return err
	}
	if _, err := a.pipeline.Filter(paths.PricedDir, paths.RareDir); err != nil {
		return err
	}
	if _, err := a.pipeline.Combine(paths.RareDir, paths.CombinedFile); err != nil {
		return err
	}

	r, err := a.pipeline.Analyze(paths.CombinedFile, a.cfg.Analysis.TopN)
	if err != nil {
		return err
	}
	return printReport(r)
}

func orDefault(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}
