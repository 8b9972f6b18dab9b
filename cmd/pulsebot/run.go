package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/mcortez/pulsebot/internal/app"
	"github.com/mcortez/pulsebot/internal/config"
	"github.com/spf13/cobra"
)

var runReportAddr string

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full pipeline once",
	Long: `Collect posts from the tracked accounts, score them, generate replies
for the relevant ones, and append the results to the output CSV.

With --report-addr, a status endpoint serves live run progress for the
dashboard:

  pulsebot run --report-addr :9090`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVar(&runReportAddr, "report-addr", "", "address for the status endpoint (disabled when empty)")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
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

	if runReportAddr != "" {
		mux := http.NewServeMux()
		mux.HandleFunc("/status", a.Tracker.Handler())
		go func() {
			slog.Info("status endpoint listening", "addr", runReportAddr)
			if err := http.ListenAndServe(runReportAddr, mux); err != nil {
				slog.Error("status endpoint stopped", "error", err)
			}
		}()
	}

	summary, err := a.Pipeline.Run(ctx)
	if err != nil {
		return fmt.Errorf("pipeline run: %w", err)
	}

	fmt.Println()
	fmt.Println("=== Run Summary ===")
	fmt.Printf("Posts collected:    %d\n", summary.Collected)
	fmt.Printf("Relevant (ranked):  %d\n", summary.Relevant)
	fmt.Printf("Responses written:  %d\n", summary.Responses)
	fmt.Printf("Recovered failures: %d\n", summary.Failures)
	fmt.Printf("Output:             %s\n", a.Sink.Path())

	return nil
}
