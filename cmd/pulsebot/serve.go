package main

import (
	"context"
	"fmt"

	"github.com/mcortez/pulsebot/internal/config"
	"github.com/mcortez/pulsebot/internal/review"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the highlight review backend",
	Long: `Serve the REST API the review dashboard talks to: channel and video
listings, highlight review (approve/reject), and publishing.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := cfg.ValidateForServe(); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	store, err := review.NewStore(ctx, cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer store.Close()

	if err := store.Migrate(ctx); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	server := review.NewServer(review.ServerConfig{
		Store: store,
	})

	return server.Run(":" + cfg.Port)
}
