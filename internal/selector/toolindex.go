package selector

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/abdul-hamid-achik/veclite"
	"github.com/mcortez/pulsebot/internal/catalog"
)

const toolsCollection = "tools"

// ToolIndex is a VecLite-backed semantic index over the tool catalog. It
// pre-ranks candidate tools for a post by hybrid (vector + BM25) search so
// the selector prompt leads with the best fits.
type ToolIndex struct {
	vecdb    *veclite.DB
	coll     *veclite.Collection
	embedder veclite.Embedder
	tools    map[string]catalog.ToolDefinition
	order    []catalog.ToolDefinition // catalog order, for the unranked tail
}

// ToolIndexConfig holds configuration for the tool index.
type ToolIndexConfig struct {
	// Path to the VecLite database file (e.g., "data/tools.veclite").
	Path string

	// ConfigPath is the path to veclite.yaml config file (optional).
	ConfigPath string
}

// NewToolIndex opens the index and (re)indexes the given catalog. Every tool
// is indexed on its name, description, audience hint and keywords.
func NewToolIndex(cfg ToolIndexConfig, cat *catalog.Catalog) (*ToolIndex, error) {
	vecliteCfg, err := veclite.LoadConfig(cfg.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load veclite config: %w", err)
	}

	embedder, err := veclite.NewEmbedderFromConfig(vecliteCfg.Embedder)
	if err != nil {
		return nil, fmt.Errorf("create embedder: %w", err)
	}

	vecdb, err := veclite.Open(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("open veclite db: %w", err)
	}

	coll, err := vecdb.CreateCollection(toolsCollection,
		veclite.WithDimension(embedder.Dimension()),
		veclite.WithDistanceType(veclite.DistanceCosine),
		veclite.WithTextIndex("name", "description", "keywords"),
		veclite.WithEmbedder(embedder),
	)
	if err != nil {
		coll, err = vecdb.GetCollection(toolsCollection)
		if err != nil {
			vecdb.Close()
			return nil, fmt.Errorf("get collection: %w", err)
		}
	}

	idx := &ToolIndex{
		vecdb:    vecdb,
		coll:     coll,
		embedder: embedder,
		tools:    make(map[string]catalog.ToolDefinition, len(cat.Tools)),
	}

	if err := idx.indexCatalog(cat); err != nil {
		vecdb.Close()
		return nil, err
	}

	return idx, nil
}

// Close closes the underlying VecLite database.
func (x *ToolIndex) Close() error {
	if x.vecdb != nil {
		return x.vecdb.Close()
	}
	return nil
}

func (x *ToolIndex) indexCatalog(cat *catalog.Catalog) error {
	for _, t := range cat.Tools {
		x.tools[t.ID] = t
		x.order = append(x.order, t)

		doc := strings.Join([]string{
			t.Name,
			t.Description,
			t.AudienceHint,
			strings.Join(t.MatchKeywords, " "),
		}, "\n")

		payload := map[string]any{
			"tool_id":     t.ID,
			"name":        t.Name,
			"description": t.Description,
			"keywords":    strings.Join(t.MatchKeywords, " "),
		}

		if _, err := x.coll.InsertText(doc, payload); err != nil {
			return fmt.Errorf("index tool %s: %w", t.ID, err)
		}
	}

	slog.Debug("tool index built", "tools", len(cat.Tools))
	return nil
}

// Rank returns up to k catalog tools ordered by hybrid-search fit for the
// post text, best first. Tools the search misses keep their catalog order
// at the tail, so the selector always sees the full candidate set.
func (x *ToolIndex) Rank(ctx context.Context, postText string, k int) ([]catalog.ToolDefinition, error) {
	queryVec, err := x.embedder.Embed(postText)
	if err != nil {
		return nil, fmt.Errorf("embed post: %w", err)
	}

	results, err := x.coll.HybridSearch(queryVec, postText,
		veclite.TopK(k),
		veclite.WithVectorWeight(1.0),
		veclite.WithTextWeight(0.5),
	)
	if err != nil {
		return nil, fmt.Errorf("hybrid search: %w", err)
	}

	var ranked []catalog.ToolDefinition
	seen := make(map[string]bool, len(results))
	for _, r := range results {
		if r.Record.Payload == nil {
			continue
		}
		id, _ := r.Record.Payload["tool_id"].(string)
		tool, ok := x.tools[id]
		if !ok || seen[id] {
			continue
		}
		ranked = append(ranked, tool)
		seen[id] = true
	}

	for _, tool := range x.order {
		if !seen[tool.ID] {
			ranked = append(ranked, tool)
		}
	}

	return ranked, nil
}
