package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/mcortez/pulsebot/internal/catalog"
	"github.com/mcortez/pulsebot/internal/composer"
	"github.com/mcortez/pulsebot/internal/report"
	"github.com/mcortez/pulsebot/internal/selector"
	"github.com/mcortez/pulsebot/internal/sink"
	"github.com/mcortez/pulsebot/internal/source"
	"github.com/mcortez/pulsebot/internal/toolrunner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedTime = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

// scriptedLLM replays responses in call order across all stages.
type scriptedLLM struct {
	responses []string
	errs      []error
	calls     int
}

func (s *scriptedLLM) next() (string, error) {
	i := s.calls
	s.calls++
	var err error
	if i < len(s.errs) {
		err = s.errs[i]
	}
	var resp string
	if i < len(s.responses) {
		resp = s.responses[i]
	}
	return resp, err
}

func (s *scriptedLLM) Complete(ctx context.Context, system, user string) (string, error) {
	return s.next()
}

func (s *scriptedLLM) CompleteJSON(ctx context.Context, system, user string) (string, error) {
	return s.next()
}

type staticSource struct {
	posts map[string][]source.Post
}

func (s *staticSource) Name() string { return "static" }

func (s *staticSource) FetchPosts(ctx context.Context, handle string, limit int) ([]source.Post, error) {
	if posts, ok := s.posts[handle]; ok {
		return posts, nil
	}
	return nil, fmt.Errorf("unknown handle %s", handle)
}

func testCatalog() *catalog.Catalog {
	return &catalog.Catalog{
		Accounts: []catalog.TrackedAccount{{Handle: "alpha"}},
		Tools: []catalog.ToolDefinition{
			{ID: "thread-summarizer", Name: "Thread Summarizer", Description: "tldr"},
		},
	}
}

func testPosts() []source.Post {
	return []source.Post{
		{
			ID:         "p1",
			URL:        "https://twitter.com/alpha/status/1",
			Author:     source.Author{Handle: "alpha"},
			Text:       "long thread worth summarizing",
			CreatedAt:  fixedTime.Add(-time.Hour),
			Engagement: source.Engagement{LikeCount: 100},
		},
		{
			ID:         "p2",
			URL:        "https://twitter.com/alpha/status/2",
			Author:     source.Author{Handle: "alpha"},
			Text:       "lunch photo",
			CreatedAt:  fixedTime.Add(-2 * time.Hour),
			Engagement: source.Engagement{LikeCount: 50},
		},
	}
}

func newTestPipeline(t *testing.T, llm *scriptedLLM, emitter report.Emitter) (*Pipeline, *sink.CSVSink) {
	t.Helper()

	cat := testCatalog()

	collector := source.NewCollector(source.CollectorConfig{
		Source: &staticSource{posts: map[string][]source.Post{"alpha": testPosts()}},
		Now:    func() time.Time { return fixedTime },
	})

	outputSink, err := sink.NewCSVSink(filepath.Join(t.TempDir(), "responses.csv"))
	require.NoError(t, err)

	pipe := New(Config{
		Catalog:   cat,
		Collector: collector,
		Selector:  selector.New(selector.Config{LLM: llm, Catalog: cat}),
		Runner:    toolrunner.New(llm),
		Composer:  composer.New(composer.Config{LLM: llm, Now: func() time.Time { return fixedTime }}),
		Sink:      outputSink,
		Emitter:   emitter,
		CollectOpts: source.CollectOptions{
			LookbackDays:  7,
			MaxPerAccount: 10,
		},
		Threshold: 50,
	})

	return pipe, outputSink
}

func TestRun_EndToEnd(t *testing.T) {
	llm := &scriptedLLM{responses: []string{
		// selection, in post order
		`{"is_relevant": true, "selected_tool_id": "thread-summarizer", "relevance_score": 90, "reasoning": "dense thread"}`,
		`{"is_relevant": false, "selected_tool_id": "", "relevance_score": 5, "reasoning": "personal"}`,
		// invocation for p1
		`{"content": "three bullets", "reasoning": "tldr", "metadata": {}}`,
		// composition for p1
		`@alpha condensed your thread into three takeaways.`,
	}}

	tracker := report.NewTracker()
	pipe, outputSink := newTestPipeline(t, llm, tracker)

	summary, err := pipe.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Collected)
	assert.Equal(t, 1, summary.Relevant)
	assert.Equal(t, 1, summary.Responses)
	assert.Equal(t, 0, summary.Failures)

	rows, err := outputSink.ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "https://twitter.com/alpha/status/1", rows[0].TweetURL)
	assert.Equal(t, "Thread Summarizer", rows[0].ToolName)
	assert.Equal(t, "@alpha condensed your thread into three takeaways.", rows[0].ReplyText)
	assert.Equal(t, "pending", rows[0].ReviewStatus)

	status := tracker.Snapshot()
	assert.Equal(t, 2, status.Posts.Collected)
	assert.Equal(t, 1, status.Decisions.Matched)
	assert.Equal(t, 1, status.Decisions.Rejected)
	assert.Equal(t, 1, status.Tools.Processed)
	assert.Equal(t, 1, status.Responses.Generated)
	assert.Equal(t, 0, status.Responses.Pending)
	assert.Empty(t, status.Errors)
}

func TestRun_PerItemFailuresDoNotAbort(t *testing.T) {
	llm := &scriptedLLM{
		responses: []string{
			`{"is_relevant": true, "selected_tool_id": "thread-summarizer", "relevance_score": 80, "reasoning": "ok"}`,
			`{"is_relevant": true, "selected_tool_id": "thread-summarizer", "relevance_score": 70, "reasoning": "ok"}`,
			// p1 invocation fails at the transport
			"",
			// p1 composition still runs over the sentinel output
			`@alpha reply one`,
			// p2 invocation and composition succeed
			`{"content": "bullets", "reasoning": "r", "metadata": {}}`,
			`@alpha reply two`,
		},
		errs: []error{nil, nil, fmt.Errorf("invoke timeout"), nil, nil, nil},
	}

	tracker := report.NewTracker()
	pipe, outputSink := newTestPipeline(t, llm, tracker)

	summary, err := pipe.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Relevant)
	assert.Equal(t, 2, summary.Responses)
	assert.Equal(t, 1, summary.Failures)

	rows, err := outputSink.ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	// The failed invocation is visible in its own row, not just the error
	// log, even though composition produced a reply.
	assert.Equal(t, "rejected", rows[0].ReviewStatus)
	assert.Equal(t, "pending", rows[1].ReviewStatus)

	status := tracker.Snapshot()
	require.Len(t, status.Errors, 1)
	assert.Equal(t, "alpha", status.Errors[0].PostAuthor)
}

func TestRun_NoPosts(t *testing.T) {
	llm := &scriptedLLM{}
	cat := testCatalog()

	collector := source.NewCollector(source.CollectorConfig{
		Source: &staticSource{posts: map[string][]source.Post{}},
		Now:    func() time.Time { return fixedTime },
	})

	outputSink, err := sink.NewCSVSink(filepath.Join(t.TempDir(), "responses.csv"))
	require.NoError(t, err)

	pipe := New(Config{
		Catalog:     cat,
		Collector:   collector,
		Selector:    selector.New(selector.Config{LLM: llm, Catalog: cat}),
		Runner:      toolrunner.New(llm),
		Composer:    composer.New(composer.Config{LLM: llm}),
		Sink:        outputSink,
		CollectOpts: source.CollectOptions{LookbackDays: 7, MaxPerAccount: 10},
		Threshold:   50,
	})

	summary, err := pipe.Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, summary.Collected)
	assert.Zero(t, summary.Responses)
	assert.Zero(t, llm.calls)
}
