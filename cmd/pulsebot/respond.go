package main

import (
	"context"
	"fmt"

	"github.com/mcortez/pulsebot/internal/app"
	"github.com/mcortez/pulsebot/internal/config"
	"github.com/mcortez/pulsebot/internal/pipeline"
	"github.com/mcortez/pulsebot/internal/source"
	"github.com/spf13/cobra"
)

var respondCmd = &cobra.Command{
	Use:   "respond",
	Short: "Run the pipeline from cached posts only",
	Long: `Replay the most recent cached posts for every tracked account through
the selection, invocation, and composition stages without touching the
network source. Useful after "pulsebot collect" or for reprocessing a run.`,
	RunE: runRespond,
}

func init() {
	rootCmd.AddCommand(respondCmd)
}

func runRespond(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := cfg.ValidateForPipeline(); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	a, err := app.New(cfg)
	if err != nil {
		return fmt.Errorf("initialize app: %w", err)
	}
	defer a.Close()

	if len(a.Catalog.Accounts) == 0 {
		return fmt.Errorf("catalog has no tracked accounts; set CATALOG_PATH")
	}

	cache, err := source.NewCache(cfg.CacheDir)
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}

	collector := source.NewCollector(source.CollectorConfig{
		Source:    source.NewTwitterSource(source.TwitterConfig{BaseURL: cfg.TwitterBaseURL}),
		Cache:     cache,
		CacheOnly: true,
	})

	pipe := pipeline.New(pipeline.Config{
		Catalog:   a.Catalog,
		Collector: collector,
		Selector:  a.Selector,
		Runner:    a.Runner,
		Composer:  a.Composer,
		Sink:      a.Sink,
		Emitter:   a.Tracker,
		CollectOpts: source.CollectOptions{
			LookbackDays:  cfg.LookbackDays,
			MinEngagement: cfg.MinEngagement,
			MaxPerAccount: cfg.MaxPerAccount,
		},
		Threshold: cfg.RelevanceThreshold,
	})

	summary, err := pipe.Run(ctx)
	if err != nil {
		return fmt.Errorf("pipeline run: %w", err)
	}

	fmt.Printf("Processed %d cached posts, %d relevant, %d responses written to %s\n",
		summary.Collected, summary.Relevant, summary.Responses, a.Sink.Path())

	return nil
}
