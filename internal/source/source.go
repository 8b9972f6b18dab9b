package source

import (
	"context"
)

// Source is the interface for post-fetching backends.
type Source interface {
	// Name returns the name of this source.
	Name() string

	// FetchPosts retrieves the most recent posts for one account handle,
	// newest first, up to limit.
	FetchPosts(ctx context.Context, handle string, limit int) ([]Post, error)
}
