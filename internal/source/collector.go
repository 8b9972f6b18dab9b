package source

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/mcortez/pulsebot/internal/catalog"
)

// CollectOptions bounds a collection run.
type CollectOptions struct {
	LookbackDays  int // drop posts older than now - LookbackDays
	MinEngagement int // drop posts with likes+shares below this
	MaxPerAccount int // fetch at most this many posts per account
}

// Collector fetches and filters posts for the tracked accounts.
type Collector struct {
	source    Source
	cache     *Cache
	cacheOnly bool
	now       func() time.Time
}

// CollectorConfig holds collector configuration.
type CollectorConfig struct {
	Source    Source
	Cache     *Cache // optional; nil disables caching
	CacheOnly bool   // replay cached posts only, never touch the network
	Now       func() time.Time
}

// NewCollector creates a new collector.
func NewCollector(cfg CollectorConfig) *Collector {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &Collector{
		source:    cfg.Source,
		cache:     cfg.Cache,
		cacheOnly: cfg.CacheOnly,
		now:       now,
	}
}

// Collect fetches posts for each account, applies the recency and engagement
// filters, and returns the surviving posts. A fetch failure for one account
// is logged and skipped; it never aborts the run.
func (c *Collector) Collect(ctx context.Context, accounts []catalog.TrackedAccount, opts CollectOptions) []Post {
	cutoff := c.now().AddDate(0, 0, -opts.LookbackDays)

	var collected []Post
	for _, account := range accounts {
		posts, err := c.fetchAccount(ctx, account.Handle, opts)
		if err != nil {
			slog.Error("account fetch failed",
				"source", c.source.Name(),
				"handle", account.Handle,
				"error", err,
			)
			continue
		}

		kept := 0
		for _, post := range posts {
			if post.IsRepost {
				continue
			}
			if post.CreatedAt.Before(cutoff) {
				continue
			}
			if post.EngagementSum() < opts.MinEngagement {
				continue
			}
			collected = append(collected, post)
			kept++
		}

		slog.Debug("account collected",
			"handle", account.Handle,
			"fetched", len(posts),
			"kept", kept,
		)
	}

	slog.Info("collection complete",
		"accounts", len(accounts),
		"posts", len(collected),
	)

	return collected
}

// fetchAccount returns posts for one handle, preferring a sufficiently
// recent cache file over the network.
func (c *Collector) fetchAccount(ctx context.Context, handle string, opts CollectOptions) ([]Post, error) {
	if c.cacheOnly {
		if c.cache == nil {
			return nil, fmt.Errorf("cache-only collection requires a cache")
		}
		posts, ok := c.cache.ReadAny(handle)
		if !ok {
			return nil, fmt.Errorf("no cached posts for %s", handle)
		}
		return posts, nil
	}

	if c.cache != nil {
		maxAge := time.Duration(opts.LookbackDays) * 24 * time.Hour
		if posts, ok := c.cache.Read(handle, maxAge); ok {
			slog.Debug("using cached posts", "handle", handle, "count", len(posts))
			return posts, nil
		}
	}

	posts, err := c.source.FetchPosts(ctx, handle, opts.MaxPerAccount)
	if err != nil {
		// Stale cache beats nothing when the network is down.
		if c.cache != nil {
			if cached, ok := c.cache.ReadAny(handle); ok {
				slog.Warn("fetch failed, falling back to stale cache",
					"handle", handle,
					"error", err,
				)
				return cached, nil
			}
		}
		return nil, err
	}

	// Sources are newest-first but not guaranteed; keep ordering stable.
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})

	if c.cache != nil {
		if err := c.cache.Write(handle, posts); err != nil {
			slog.Warn("cache write failed", "handle", handle, "error", err)
		}
	}

	return posts, nil
}
