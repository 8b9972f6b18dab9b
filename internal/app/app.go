// Package app wires the pipeline's dependencies together.
package app

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/mcortez/pulsebot/internal/catalog"
	"github.com/mcortez/pulsebot/internal/composer"
	"github.com/mcortez/pulsebot/internal/config"
	"github.com/mcortez/pulsebot/internal/llm"
	"github.com/mcortez/pulsebot/internal/pipeline"
	"github.com/mcortez/pulsebot/internal/report"
	"github.com/mcortez/pulsebot/internal/selector"
	"github.com/mcortez/pulsebot/internal/sink"
	"github.com/mcortez/pulsebot/internal/source"
	"github.com/mcortez/pulsebot/internal/toolrunner"
)

// App is the pipeline application container holding all dependencies.
type App struct {
	Config    *config.Config
	Catalog   *catalog.Catalog
	Collector *source.Collector
	Selector  *selector.Selector
	Runner    *toolrunner.Runner
	Composer  *composer.Composer
	Sink      *sink.CSVSink
	Tracker   *report.Tracker
	Pipeline  *pipeline.Pipeline

	toolIndex *selector.ToolIndex
}

// New creates a pipeline application with all dependencies wired up.
func New(cfg *config.Config) (*App, error) {
	cat, err := loadCatalog(cfg)
	if err != nil {
		return nil, err
	}

	client := llm.NewClient(llm.Config{
		APIKey: cfg.OpenAIAPIKey,
		Model:  cfg.OpenAIModel,
	})

	// Semantic tool matching is optional; keyword ranking covers its absence.
	var toolIndex *selector.ToolIndex
	if cfg.ToolIndexPath != "" {
		toolIndex, err = selector.NewToolIndex(selector.ToolIndexConfig{
			Path: cfg.ToolIndexPath,
		}, cat)
		if err != nil {
			slog.Warn("failed to open tool index, falling back to keyword ranking", "error", err)
			toolIndex = nil
		} else {
			slog.Info("tool index initialized", "path", cfg.ToolIndexPath)
		}
	}

	cache, err := source.NewCache(cfg.CacheDir)
	if err != nil {
		return nil, fmt.Errorf("create cache: %w", err)
	}

	collector := source.NewCollector(source.CollectorConfig{
		Source: source.NewTwitterSource(source.TwitterConfig{BaseURL: cfg.TwitterBaseURL}),
		Cache:  cache,
	})

	sel := selector.New(selector.Config{
		LLM:     client,
		Catalog: cat,
		Index:   toolIndex,
	})

	runner := toolrunner.New(client)

	comp := composer.New(composer.Config{
		LLM: client,
		Now: time.Now,
	})

	outputSink, err := sink.NewCSVSink(cfg.OutputPath)
	if err != nil {
		return nil, fmt.Errorf("create sink: %w", err)
	}

	tracker := report.NewTracker()

	pipe := pipeline.New(pipeline.Config{
		Catalog:   cat,
		Collector: collector,
		Selector:  sel,
		Runner:    runner,
		Composer:  comp,
		Sink:      outputSink,
		Emitter:   tracker,
		CollectOpts: source.CollectOptions{
			LookbackDays:  cfg.LookbackDays,
			MinEngagement: cfg.MinEngagement,
			MaxPerAccount: cfg.MaxPerAccount,
		},
		Threshold: cfg.RelevanceThreshold,
	})

	return &App{
		Config:    cfg,
		Catalog:   cat,
		Collector: collector,
		Selector:  sel,
		Runner:    runner,
		Composer:  comp,
		Sink:      outputSink,
		Tracker:   tracker,
		Pipeline:  pipe,
		toolIndex: toolIndex,
	}, nil
}

// Close closes all resources.
func (a *App) Close() error {
	if a.toolIndex != nil {
		return a.toolIndex.Close()
	}
	return nil
}

func loadCatalog(cfg *config.Config) (*catalog.Catalog, error) {
	if cfg.CatalogPath == "" {
		slog.Info("no catalog file configured, using built-in tools")
		return catalog.Default(), nil
	}

	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	slog.Info("catalog loaded",
		"path", cfg.CatalogPath,
		"accounts", len(cat.Accounts),
		"tools", len(cat.Tools),
	)
	return cat, nil
}
