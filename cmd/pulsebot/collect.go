package main

import (
	"context"
	"fmt"

	"github.com/mcortez/pulsebot/internal/app"
	"github.com/mcortez/pulsebot/internal/config"
	"github.com/mcortez/pulsebot/internal/source"
	"github.com/spf13/cobra"
)

var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Fetch and cache posts without scoring them",
	Long: `Fetch recent posts for every tracked account, apply the recency and
engagement filters, and persist them to the local cache. No LLM calls are
made; use "pulsebot respond" later to process the cached posts.`,
	RunE: runCollect,
}

func init() {
	rootCmd.AddCommand(collectCmd)
}

func runCollect(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := cfg.ValidateForCollection(); err != nil {
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

	posts := a.Collector.Collect(ctx, a.Catalog.Accounts, source.CollectOptions{
		LookbackDays:  cfg.LookbackDays,
		MinEngagement: cfg.MinEngagement,
		MaxPerAccount: cfg.MaxPerAccount,
	})

	fmt.Printf("Collected %d posts from %d accounts (cached in %s)\n",
		len(posts), len(a.Catalog.Accounts), cfg.CacheDir)

	return nil
}
