package main

import (
	"context"
	"fmt"
	"time"

	"github.com/mcortez/pulsebot/internal/app"
	"github.com/mcortez/pulsebot/internal/config"
	"github.com/mcortez/pulsebot/internal/source"
	"github.com/spf13/cobra"
)

var matchCmd = &cobra.Command{
	Use:   "match [post text]",
	Short: "Test tool selection with a post text",
	Long: `Run the relevance and tool selection step on an ad-hoc post text.

Example:
  pulsebot match "New benchmark report shows 40% latency improvement"`,
	Args: cobra.ExactArgs(1),
	RunE: runMatch,
}

func init() {
	rootCmd.AddCommand(matchCmd)
}

func runMatch(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	postText := args[0]

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if cfg.OpenAIAPIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required for matching")
	}

	a, err := app.New(cfg)
	if err != nil {
		return fmt.Errorf("initialize app: %w", err)
	}
	defer a.Close()

	post := source.Post{
		ID:             "adhoc",
		Text:           postText,
		Author:         source.Author{Handle: "adhoc"},
		CreatedAt:      time.Now(),
		ExtractedLinks: source.ExtractLinks(postText),
	}

	verdict := a.Selector.SelectTool(ctx, post, nil)

	fmt.Println()
	fmt.Println("=== Selection Verdict ===")
	fmt.Printf("Relevant: %v\n", verdict.IsRelevant)
	fmt.Printf("Score:    %d\n", verdict.Score)
	if verdict.Tool != nil {
		fmt.Printf("Tool:     %s (%s)\n", verdict.Tool.Name, verdict.Tool.ID)
	} else {
		fmt.Println("Tool:     none")
	}
	fmt.Printf("Reason:   %s\n", verdict.Rationale)
	if verdict.Err != nil {
		fmt.Printf("Error:    %v\n", verdict.Err)
	}

	return nil
}
