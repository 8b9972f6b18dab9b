// Package toolrunner applies a selected marketing tool to a post.
package toolrunner

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mcortez/pulsebot/internal/catalog"
	"github.com/mcortez/pulsebot/internal/llm"
	"github.com/mcortez/pulsebot/internal/source"
)

// ErrorContent is the sentinel content of a failed invocation.
const ErrorContent = "Error generating tool output."

// Output is the result of applying a tool to a post. Metadata carries
// tool-specific extras; a failed invocation sets Metadata["error"]=true.
type Output struct {
	Content   string         `json:"content"`
	Rationale string         `json:"rationale"`
	Metadata  map[string]any `json:"metadata"`
}

// Failed reports whether this output is a failure sentinel.
func (o Output) Failed() bool {
	failed, _ := o.Metadata["error"].(bool)
	return failed
}

// Runner invokes tool-generation prompts.
type Runner struct {
	llm llm.Completer
}

// New creates a new Runner.
func New(client llm.Completer) *Runner {
	return &Runner{llm: client}
}

// invocationResult is the strict shape expected from the model.
type invocationResult struct {
	Content   string         `json:"content"`
	Reasoning string         `json:"reasoning"`
	Metadata  map[string]any `json:"metadata"`
}

// Invoke applies the tool to the post. It never returns an error: any
// failure yields a sentinel Output so the pipeline can continue with the
// next post.
func (r *Runner) Invoke(ctx context.Context, post source.Post, tool catalog.ToolDefinition) Output {
	prompt := buildInvocationPrompt(post, tool)

	response, err := r.llm.CompleteJSON(ctx, invocationSystemPrompt, prompt)
	if err != nil {
		return r.failureOutput(post, tool, fmt.Errorf("invocation call: %w", err))
	}

	var result invocationResult
	if err := llm.DecodeJSON(response, &result); err != nil {
		return r.failureOutput(post, tool, fmt.Errorf("invocation parse: %w", err))
	}

	if result.Content == "" {
		return r.failureOutput(post, tool, fmt.Errorf("invocation returned empty content"))
	}

	metadata := result.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}
	metadata["tool_id"] = tool.ID

	return Output{
		Content:   result.Content,
		Rationale: result.Reasoning,
		Metadata:  metadata,
	}
}

func (r *Runner) failureOutput(post source.Post, tool catalog.ToolDefinition, err error) Output {
	slog.Error("tool invocation failed",
		"tool", tool.ID,
		"post", post.ID,
		"error", err,
	)
	return Output{
		Content:   ErrorContent,
		Rationale: err.Error(),
		Metadata:  map[string]any{"error": true, "tool_id": tool.ID},
	}
}
