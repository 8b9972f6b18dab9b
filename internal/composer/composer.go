// Package composer turns a tool output into a platform-ready reply.
package composer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mcortez/pulsebot/internal/catalog"
	"github.com/mcortez/pulsebot/internal/llm"
	"github.com/mcortez/pulsebot/internal/source"
	"github.com/mcortez/pulsebot/internal/toolrunner"
)

// ErrorReply is the sentinel reply text of a failed composition.
const ErrorReply = "Error generating response."

// ReviewStatus is the human-review state of a composed response.
type ReviewStatus string

const (
	StatusPending  ReviewStatus = "pending"
	StatusApproved ReviewStatus = "approved"
	StatusRejected ReviewStatus = "rejected"
)

// Response is the terminal pipeline entity: a generated reply awaiting
// human review. The pipeline never mutates it after creation.
type Response struct {
	Post         source.Post
	Tool         catalog.ToolDefinition
	ToolOutput   toolrunner.Output
	ReplyText    string
	GeneratedAt  time.Time
	ReviewStatus ReviewStatus
}

// Item pairs the inputs for one composition in a batch.
type Item struct {
	Post   source.Post
	Tool   catalog.ToolDefinition
	Output toolrunner.Output
}

// Composer writes replies around tool outputs.
type Composer struct {
	llm       llm.Completer
	maxLength int
	now       func() time.Time
}

// Config holds configuration for the composer.
type Config struct {
	LLM       llm.Completer
	MaxLength int // reply cap in runes (default: platform limit, 280)
	Now       func() time.Time
}

// New creates a new Composer.
func New(cfg Config) *Composer {
	maxLength := cfg.MaxLength
	if maxLength <= 0 {
		maxLength = PlatformMaxLength
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &Composer{
		llm:       cfg.LLM,
		maxLength: maxLength,
		now:       now,
	}
}

// Compose writes the reply for one post/tool-output pair. It never returns
// an error: any failure yields a rejected sentinel response.
func (c *Composer) Compose(ctx context.Context, post source.Post, tool catalog.ToolDefinition, output toolrunner.Output) Response {
	prompt := buildCompositionPrompt(post, tool, output, c.maxLength)

	reply, err := c.llm.Complete(ctx, compositionSystemPrompt, prompt)
	if err != nil {
		return c.failureResponse(post, tool, output, fmt.Errorf("composition call: %w", err))
	}

	reply = cleanReply(reply)
	if reply == "" {
		return c.failureResponse(post, tool, output, fmt.Errorf("composition returned empty reply"))
	}

	// The prompt asks for the cap, but the model is not trusted to honor it.
	reply = Truncate(reply, c.maxLength)

	return Response{
		Post:         post,
		Tool:         tool,
		ToolOutput:   output,
		ReplyText:    reply,
		GeneratedAt:  c.now(),
		ReviewStatus: StatusPending,
	}
}

func (c *Composer) failureResponse(post source.Post, tool catalog.ToolDefinition, output toolrunner.Output, err error) Response {
	slog.Error("composition failed",
		"tool", tool.ID,
		"post", post.ID,
		"error", err,
	)
	return Response{
		Post:         post,
		Tool:         tool,
		ToolOutput:   output,
		ReplyText:    ErrorReply,
		GeneratedAt:  c.now(),
		ReviewStatus: StatusRejected,
	}
}

// ComposeBatch composes replies strictly sequentially in input order. One
// item's failure never blocks the next.
func (c *Composer) ComposeBatch(ctx context.Context, items []Item) []Response {
	responses := make([]Response, 0, len(items))
	for _, item := range items {
		responses = append(responses, c.Compose(ctx, item.Post, item.Tool, item.Output))
	}
	return responses
}
