// Package pipeline wires the collect, select, invoke, compose, and sink
// stages into one sequential run.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mcortez/pulsebot/internal/catalog"
	"github.com/mcortez/pulsebot/internal/composer"
	"github.com/mcortez/pulsebot/internal/report"
	"github.com/mcortez/pulsebot/internal/selector"
	"github.com/mcortez/pulsebot/internal/sink"
	"github.com/mcortez/pulsebot/internal/source"
	"github.com/mcortez/pulsebot/internal/toolrunner"
)

// Pipeline runs the full decision/tool/response sequence. All stages are
// sequential per item; per-item LLM failures degrade to sentinel values,
// only configuration and sink failures abort the run.
type Pipeline struct {
	catalog   *catalog.Catalog
	collector *source.Collector
	selector  *selector.Selector
	runner    *toolrunner.Runner
	composer  *composer.Composer
	sink      *sink.CSVSink
	emitter   report.Emitter

	collectOpts source.CollectOptions
	threshold   int
}

// Config holds pipeline configuration.
type Config struct {
	Catalog     *catalog.Catalog
	Collector   *source.Collector
	Selector    *selector.Selector
	Runner      *toolrunner.Runner
	Composer    *composer.Composer
	Sink        *sink.CSVSink
	Emitter     report.Emitter // optional
	CollectOpts source.CollectOptions
	Threshold   int // relevance threshold, 0-100
}

// New creates a new Pipeline.
func New(cfg Config) *Pipeline {
	emitter := cfg.Emitter
	if emitter == nil {
		emitter = report.Discard
	}

	return &Pipeline{
		catalog:     cfg.Catalog,
		collector:   cfg.Collector,
		selector:    cfg.Selector,
		runner:      cfg.Runner,
		composer:    cfg.Composer,
		sink:        cfg.Sink,
		emitter:     emitter,
		collectOpts: cfg.CollectOpts,
		threshold:   cfg.Threshold,
	}
}

// Summary reports what one run produced.
type Summary struct {
	Collected int
	Relevant  int
	Responses int
	Failures  int
}

// Run executes one full pipeline pass.
func (p *Pipeline) Run(ctx context.Context) (*Summary, error) {
	posts := p.collector.Collect(ctx, p.catalog.Accounts, p.collectOpts)
	p.emitter.Emit(report.Event{Stage: report.StageCollect, Kind: report.KindCollected, Count: len(posts)})

	summary := &Summary{Collected: len(posts)}
	if len(posts) == 0 {
		slog.Info("no posts collected, run complete")
		return summary, nil
	}

	verdicts := p.selectAll(ctx, posts, summary)

	ranked := selector.FilterAndRank(verdicts, p.threshold)
	summary.Relevant = len(ranked)
	slog.Info("verdicts ranked",
		"total", len(verdicts),
		"above_threshold", len(ranked),
		"threshold", p.threshold,
	)

	responses := p.respondAll(ctx, ranked, summary)
	if len(responses) == 0 {
		return summary, nil
	}

	if err := p.sink.Append(responses); err != nil {
		p.emitter.Emit(report.Event{Stage: report.StageSink, Kind: report.KindFailed, Err: err})
		return summary, fmt.Errorf("append to sink: %w", err)
	}
	summary.Responses = len(responses)

	return summary, nil
}

// selectAll produces one verdict per post, sequentially.
func (p *Pipeline) selectAll(ctx context.Context, posts []source.Post, summary *Summary) []selector.Verdict {
	verdicts := p.selector.SelectToolBatch(ctx, posts)

	for _, v := range verdicts {
		if v.Err != nil {
			summary.Failures++
			p.emitter.Emit(report.Event{
				Stage:      report.StageSelect,
				Kind:       report.KindFailed,
				PostAuthor: v.Post.Author.Handle,
				Err:        v.Err,
			})
		}

		kind := report.KindRejected
		if v.IsRelevant && v.Tool != nil {
			kind = report.KindMatched
		}
		p.emitter.Emit(report.Event{
			Stage:      report.StageSelect,
			Kind:       kind,
			PostAuthor: v.Post.Author.Handle,
		})
	}

	return verdicts
}

// respondAll invokes the chosen tool and composes a reply for each ranked
// verdict, sequentially. Failed items still produce a response row so the
// reviewer sees them.
func (p *Pipeline) respondAll(ctx context.Context, ranked []selector.Verdict, summary *Summary) []composer.Response {
	responses := make([]composer.Response, 0, len(ranked))

	for _, v := range ranked {
		p.emitter.Emit(report.Event{Stage: report.StageInvoke, Kind: report.KindStarted, PostAuthor: v.Post.Author.Handle})

		output := p.runner.Invoke(ctx, v.Post, *v.Tool)
		p.emitter.Emit(report.Event{Stage: report.StageInvoke, Kind: report.KindProcessed, PostAuthor: v.Post.Author.Handle})

		if output.Failed() {
			summary.Failures++
			p.emitter.Emit(report.Event{
				Stage:      report.StageInvoke,
				Kind:       report.KindFailed,
				PostAuthor: v.Post.Author.Handle,
				Err:        fmt.Errorf("tool %s: %s", v.Tool.ID, output.Rationale),
			})
		}

		resp := p.composer.Compose(ctx, v.Post, *v.Tool, output)
		if output.Failed() {
			// The row's own status carries the recovered failure, not
			// just the error log.
			resp.ReviewStatus = composer.StatusRejected
		}
		if resp.ReplyText == composer.ErrorReply {
			summary.Failures++
			p.emitter.Emit(report.Event{
				Stage:      report.StageCompose,
				Kind:       report.KindFailed,
				PostAuthor: v.Post.Author.Handle,
				Err:        fmt.Errorf("compose for tool %s failed", v.Tool.ID),
			})
		}

		p.emitter.Emit(report.Event{Stage: report.StageCompose, Kind: report.KindGenerated, PostAuthor: v.Post.Author.Handle})
		responses = append(responses, resp)
	}

	return responses
}
