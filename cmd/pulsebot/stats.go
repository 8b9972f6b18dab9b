package main

import (
	"fmt"

	"github.com/mcortez/pulsebot/internal/config"
	"github.com/mcortez/pulsebot/internal/sink"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize the output file",
	Long:  `Count the responses in the output CSV by review status and tool.`,
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	s, err := sink.NewCSVSink(cfg.OutputPath)
	if err != nil {
		return fmt.Errorf("open sink: %w", err)
	}

	rows, err := s.ReadAll()
	if err != nil {
		return fmt.Errorf("read output: %w", err)
	}

	if len(rows) == 0 {
		fmt.Println("No responses recorded yet.")
		return nil
	}

	byStatus := make(map[string]int)
	byTool := make(map[string]int)
	for _, r := range rows {
		byStatus[r.ReviewStatus]++
		byTool[r.ToolName]++
	}

	fmt.Printf("Responses: %d (%s)\n\n", len(rows), cfg.OutputPath)

	fmt.Println("By review status:")
	for _, status := range []string{"pending", "approved", "rejected"} {
		if n := byStatus[status]; n > 0 {
			fmt.Printf("  %-10s %d\n", status, n)
		}
	}

	fmt.Println("\nBy tool:")
	for tool, n := range byTool {
		fmt.Printf("  %-24s %d\n", tool, n)
	}

	return nil
}
