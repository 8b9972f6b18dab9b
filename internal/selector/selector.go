// Package selector decides whether a post is worth responding to and which
// marketing tool fits it best.
package selector

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/mcortez/pulsebot/internal/catalog"
	"github.com/mcortez/pulsebot/internal/llm"
	"github.com/mcortez/pulsebot/internal/source"
)

// Verdict is the relevance and tool decision for one post.
//
// Tool is nil when the post is not relevant, or when the model named a tool
// id that does not exist in the catalog. The second case still carries
// IsRelevant=true so reviewers can see the post was judged relevant but
// unresolvable; FilterAndRank excludes it from invocation either way.
type Verdict struct {
	Post       source.Post
	IsRelevant bool
	Tool       *catalog.ToolDefinition
	Score      int // 0-100
	Rationale  string
	Err        error // non-nil when this verdict is a failure sentinel
}

// toolRanker orders catalog tools by fit for a post text, best first.
// *ToolIndex implements it.
type toolRanker interface {
	Rank(ctx context.Context, postText string, k int) ([]catalog.ToolDefinition, error)
}

// Selector scores posts against the tool catalog via the LLM.
type Selector struct {
	llm        llm.Completer
	catalog    *catalog.Catalog
	index      toolRanker // optional semantic pre-ranker
	candidates int
}

// Config holds configuration for the selector.
type Config struct {
	LLM        llm.Completer
	Catalog    *catalog.Catalog
	Index      *ToolIndex // optional; nil falls back to keyword ranking
	Candidates int        // tools listed in the prompt (default: all)
}

// New creates a new Selector.
func New(cfg Config) *Selector {
	s := &Selector{
		llm:        cfg.LLM,
		catalog:    cfg.Catalog,
		candidates: cfg.Candidates,
	}
	if cfg.Index != nil {
		s.index = cfg.Index
	}
	return s
}

// selectionResult is the strict shape expected from the model.
type selectionResult struct {
	IsRelevant     bool   `json:"is_relevant"`
	SelectedToolID string `json:"selected_tool_id"`
	RelevanceScore int    `json:"relevance_score"`
	Reasoning      string `json:"reasoning"`
}

// SelectTool produces a verdict for one post. It never returns an error:
// any failure degrades to a not-relevant sentinel verdict so the batch can
// continue.
func (s *Selector) SelectTool(ctx context.Context, post source.Post, account *catalog.TrackedAccount) Verdict {
	tools := s.rankCandidates(ctx, post)

	prompt := buildSelectionPrompt(post, account, tools)

	response, err := s.llm.CompleteJSON(ctx, selectionSystemPrompt, prompt)
	if err != nil {
		return s.failureVerdict(post, fmt.Errorf("selection call: %w", err))
	}

	var result selectionResult
	if err := llm.DecodeJSON(response, &result); err != nil {
		return s.failureVerdict(post, fmt.Errorf("selection parse: %w", err))
	}

	if result.RelevanceScore < 0 {
		result.RelevanceScore = 0
	}
	if result.RelevanceScore > 100 {
		result.RelevanceScore = 100
	}

	verdict := Verdict{
		Post:       post,
		IsRelevant: result.IsRelevant,
		Score:      result.RelevanceScore,
		Rationale:  result.Reasoning,
	}

	if result.IsRelevant && result.SelectedToolID != "" {
		verdict.Tool = s.catalog.ToolByID(result.SelectedToolID)
		if verdict.Tool == nil {
			slog.Warn("model selected unknown tool",
				"tool_id", result.SelectedToolID,
				"post", post.ID,
			)
		}
	}

	return verdict
}

func (s *Selector) failureVerdict(post source.Post, err error) Verdict {
	slog.Error("selection failed", "post", post.ID, "error", err)
	return Verdict{
		Post:       post,
		IsRelevant: false,
		Score:      0,
		Rationale:  err.Error(),
		Err:        err,
	}
}

// SelectToolBatch scores posts strictly sequentially in input order. One
// post's failure never blocks the next.
func (s *Selector) SelectToolBatch(ctx context.Context, posts []source.Post) []Verdict {
	verdicts := make([]Verdict, 0, len(posts))
	for _, post := range posts {
		account := s.catalog.AccountByHandle(post.Author.Handle)
		verdicts = append(verdicts, s.SelectTool(ctx, post, account))
	}
	return verdicts
}

// rankCandidates orders the catalog's tools by fit for the post, best
// first, so the prompt lists the most promising tools prominently. Uses the
// semantic index when available, keyword overlap otherwise.
func (s *Selector) rankCandidates(ctx context.Context, post source.Post) []catalog.ToolDefinition {
	tools := s.catalog.Tools

	var ranked []catalog.ToolDefinition
	if s.index != nil {
		var err error
		ranked, err = s.index.Rank(ctx, post.Text, len(tools))
		if err != nil {
			slog.Warn("tool index rank failed, using keyword ranking", "error", err)
			ranked = nil
		}
	}

	if len(ranked) > 0 {
		tools = ranked
	} else {
		tools = rankByKeywords(tools, post.Text)
	}

	if s.candidates > 0 && len(tools) > s.candidates {
		tools = tools[:s.candidates]
	}
	return tools
}

// rankByKeywords is the fallback ordering: tools whose match keywords
// appear in the post text come first, ties keep catalog order.
func rankByKeywords(tools []catalog.ToolDefinition, text string) []catalog.ToolDefinition {
	lower := strings.ToLower(text)

	ranked := make([]catalog.ToolDefinition, len(tools))
	copy(ranked, tools)

	hits := func(t catalog.ToolDefinition) int {
		n := 0
		for _, kw := range t.MatchKeywords {
			if strings.Contains(lower, strings.ToLower(kw)) {
				n++
			}
		}
		return n
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return hits(ranked[i]) > hits(ranked[j])
	})
	return ranked
}

// FilterAndRank keeps relevant verdicts with a resolved tool at or above
// threshold, sorted descending by score. The sort is stable, so equal
// scores preserve input order; applying it twice yields the same list.
func FilterAndRank(verdicts []Verdict, threshold int) []Verdict {
	kept := make([]Verdict, 0, len(verdicts))
	for _, v := range verdicts {
		if !v.IsRelevant || v.Tool == nil || v.Score < threshold {
			continue
		}
		kept = append(kept, v)
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].Score > kept[j].Score
	})
	return kept
}
