package review

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	ctx := context.Background()
	store, err := NewStore(ctx, filepath.Join(t.TempDir(), "review.db"))
	require.NoError(t, err)
	require.NoError(t, store.Migrate(ctx))

	t.Cleanup(func() { store.Close() })
	return store
}

func seedChannelAndVideo(t *testing.T, store *Store) (Channel, Video) {
	t.Helper()
	ctx := context.Background()

	ch := Channel{
		ID:          "UC123",
		Name:        "Deep Dives",
		URL:         "https://youtube.com/@deepdives",
		LastChecked: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, store.CreateChannel(ctx, ch))

	v := Video{
		ID:          "vid-1",
		ChannelID:   ch.ID,
		Title:       "Why caches lie",
		Duration:    1800,
		ProcessedAt: time.Date(2026, 8, 2, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, store.CreateVideo(ctx, v))

	return ch, v
}

func TestMigrate_Idempotent(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Migrate(context.Background()))
}

func TestChannelCRUD(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	ch, _ := seedChannelAndVideo(t, store)

	got, err := store.GetChannel(ctx, ch.ID)
	require.NoError(t, err)
	assert.Equal(t, ch.Name, got.Name)
	assert.Equal(t, ch.URL, got.URL)

	_, err = store.GetChannel(ctx, "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)

	// Duplicate id violates the primary key.
	err = store.CreateChannel(ctx, ch)
	assert.Error(t, err)

	channels, err := store.ListChannels(ctx)
	require.NoError(t, err)
	require.Len(t, channels, 1)
}

func TestTouchChannel(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	ch, _ := seedChannelAndVideo(t, store)

	checked := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	require.NoError(t, store.TouchChannel(ctx, ch.ID, checked))

	got, err := store.GetChannel(ctx, ch.ID)
	require.NoError(t, err)
	assert.True(t, got.LastChecked.After(ch.LastChecked))
}

func TestVideosByChannel(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	ch, v1 := seedChannelAndVideo(t, store)

	v2 := Video{
		ID:          "vid-2",
		ChannelID:   ch.ID,
		Title:       "Queues all the way down",
		Duration:    900,
		ProcessedAt: v1.ProcessedAt.Add(24 * time.Hour),
	}
	require.NoError(t, store.CreateVideo(ctx, v2))

	videos, err := store.ListVideosByChannel(ctx, ch.ID)
	require.NoError(t, err)
	require.Len(t, videos, 2)
	// Newest first.
	assert.Equal(t, "vid-2", videos[0].ID)
	assert.Equal(t, "vid-1", videos[1].ID)

	// Foreign key enforcement.
	bad := Video{ID: "vid-3", ChannelID: "missing", ProcessedAt: time.Now()}
	assert.Error(t, store.CreateVideo(ctx, bad))
}

func TestHighlightLifecycle(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, v := seedChannelAndVideo(t, store)

	h := Highlight{
		ID:        "hl-1",
		VideoID:   v.ID,
		TimeStart: 120,
		TimeEnd:   180,
		Topic:     "cache invalidation",
		Quote:     "the cache was never the problem",
		Insight:   "stale reads hide upstream bugs",
		Takeaway:  "measure before evicting",
	}
	require.NoError(t, store.CreateHighlight(ctx, h))

	got, err := store.GetHighlight(ctx, h.ID)
	require.NoError(t, err)
	assert.Equal(t, HighlightPending, got.Status)
	assert.False(t, got.ReviewedAt.Valid)

	reviewedAt := time.Date(2026, 8, 15, 9, 30, 0, 0, time.UTC)
	require.NoError(t, store.ReviewHighlight(ctx, h.ID, HighlightApproved, "ship it", reviewedAt))

	got, err = store.GetHighlight(ctx, h.ID)
	require.NoError(t, err)
	assert.Equal(t, HighlightApproved, got.Status)
	assert.Equal(t, "ship it", got.Comments)
	assert.True(t, got.ReviewedAt.Valid)
}

func TestReviewHighlight_Missing(t *testing.T) {
	store := newTestStore(t)

	err := store.ReviewHighlight(context.Background(), "missing", HighlightApproved, "", time.Now())
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestHighlightsByVideo_ClipOrder(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, v := seedChannelAndVideo(t, store)

	for _, h := range []Highlight{
		{ID: "hl-late", VideoID: v.ID, TimeStart: 600, TimeEnd: 660},
		{ID: "hl-early", VideoID: v.ID, TimeStart: 30, TimeEnd: 90},
		{ID: "hl-mid", VideoID: v.ID, TimeStart: 300, TimeEnd: 360},
	} {
		require.NoError(t, store.CreateHighlight(ctx, h))
	}

	highlights, err := store.ListHighlightsByVideo(ctx, v.ID)
	require.NoError(t, err)
	require.Len(t, highlights, 3)
	assert.Equal(t, "hl-early", highlights[0].ID)
	assert.Equal(t, "hl-mid", highlights[1].ID)
	assert.Equal(t, "hl-late", highlights[2].ID)
}
