package source

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const timelineJSON = `{
  "tweets": [
    {
      "id_str": "111",
      "text": "New benchmark results: https://example.com/bench",
      "author": {"screen_name": "alpha", "name": "Alpha Co"},
      "created_at": "2026-08-01T10:00:00Z",
      "likes": 42,
      "retweets": 7,
      "replies": 3,
      "media": {"photos": [{"url": "https://img.example/1.png"}]}
    },
    {
      "id_str": "112",
      "text": "RT something",
      "author": {"screen_name": "alpha", "name": "Alpha Co"},
      "created_at": "2026-08-01T09:00:00Z",
      "is_retweet": true
    },
    {
      "id_str": "113",
      "text": "a reply",
      "author": {"screen_name": "alpha", "name": "Alpha Co"},
      "created_at": "2026-08-01T08:00:00Z",
      "replying_to_status": "110"
    }
  ]
}`

func TestTwitterSource_FetchPosts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/timeline/alpha", r.URL.Path)
		assert.Equal(t, "10", r.URL.Query().Get("count"))
		fmt.Fprint(w, timelineJSON)
	}))
	defer server.Close()

	src := NewTwitterSource(TwitterConfig{BaseURL: server.URL})

	posts, err := src.FetchPosts(context.Background(), "alpha", 10)
	require.NoError(t, err)
	require.Len(t, posts, 3)

	first := posts[0]
	assert.Equal(t, "111", first.ID)
	assert.Equal(t, "alpha", first.Author.Handle)
	assert.Equal(t, "Alpha Co", first.Author.DisplayName)
	assert.Equal(t, 42, first.Engagement.LikeCount)
	assert.Equal(t, 7, first.Engagement.ShareCount)
	assert.Equal(t, 3, first.Engagement.ReplyCount)
	assert.Equal(t, []string{"https://example.com/bench"}, first.ExtractedLinks)
	assert.Equal(t, []string{"https://img.example/1.png"}, first.Media)
	assert.False(t, first.IsRepost)
	assert.False(t, first.IsReply)
	assert.Equal(t, "https://twitter.com/alpha/status/111", first.URL)

	assert.True(t, posts[1].IsRepost)
	assert.True(t, posts[2].IsReply)
}

func TestTwitterSource_Limit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, timelineJSON)
	}))
	defer server.Close()

	src := NewTwitterSource(TwitterConfig{BaseURL: server.URL})

	posts, err := src.FetchPosts(context.Background(), "alpha", 2)
	require.NoError(t, err)
	assert.Len(t, posts, 2)
}

func TestTwitterSource_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	src := NewTwitterSource(TwitterConfig{BaseURL: server.URL})

	_, err := src.FetchPosts(context.Background(), "alpha", 10)
	assert.Error(t, err)
}

func TestTwitterSource_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"error": "user not found"}`)
	}))
	defer server.Close()

	src := NewTwitterSource(TwitterConfig{BaseURL: server.URL})

	_, err := src.FetchPosts(context.Background(), "nosuchuser", 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "user not found")
}
