package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const (
	defaultTwitterBaseURL = "https://api.fxtwitter.com"
	twitterFetchTimeout   = 30 * time.Second
)

// TwitterSource fetches recent posts for an account through a public
// timeline mirror. No authenticated session is held; the endpoint serves
// read-only JSON.
type TwitterSource struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
}

// TwitterConfig holds configuration for the Twitter source.
type TwitterConfig struct {
	BaseURL   string // override for tests or self-hosted mirrors
	UserAgent string
}

// NewTwitterSource creates a new Twitter source.
func NewTwitterSource(cfg TwitterConfig) *TwitterSource {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultTwitterBaseURL
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = "pulsebot/1.0"
	}

	return &TwitterSource{
		baseURL:   baseURL,
		userAgent: userAgent,
		httpClient: &http.Client{
			Timeout: twitterFetchTimeout,
		},
	}
}

// Name returns the source name.
func (t *TwitterSource) Name() string {
	return "twitter"
}

// rawTweet mirrors the timeline endpoint's tweet payload.
type rawTweet struct {
	ID     string `json:"id_str"`
	URL    string `json:"url"`
	Text   string `json:"text"`
	Author struct {
		ScreenName string `json:"screen_name"`
		Name       string `json:"name"`
	} `json:"author"`
	CreatedAt    string `json:"created_at"` // RFC 3339
	Likes        int    `json:"likes"`
	Retweets     int    `json:"retweets"`
	Replies      int    `json:"replies"`
	IsRetweet    bool   `json:"is_retweet"`
	ReplyingToID string `json:"replying_to_status"`
	Media        struct {
		Photos []struct {
			URL string `json:"url"`
		} `json:"photos"`
		Videos []struct {
			URL string `json:"url"`
		} `json:"videos"`
	} `json:"media"`
}

type timelineResponse struct {
	Tweets []rawTweet `json:"tweets"`
	Error  string     `json:"error,omitempty"`
}

// FetchPosts retrieves up to limit recent posts for one handle.
func (t *TwitterSource) FetchPosts(ctx context.Context, handle string, limit int) ([]Post, error) {
	endpoint := fmt.Sprintf("%s/timeline/%s?count=%s",
		t.baseURL, url.PathEscape(handle), strconv.Itoa(limit))

	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", t.userAgent)

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch timeline: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("timeline API returned status %d for %s", resp.StatusCode, handle)
	}

	var timeline timelineResponse
	if err := json.NewDecoder(resp.Body).Decode(&timeline); err != nil {
		return nil, fmt.Errorf("decode timeline: %w", err)
	}

	if timeline.Error != "" {
		return nil, fmt.Errorf("timeline API error for %s: %s", handle, timeline.Error)
	}

	posts := make([]Post, 0, len(timeline.Tweets))
	for _, tw := range timeline.Tweets {
		posts = append(posts, t.normalize(tw))
		if len(posts) >= limit {
			break
		}
	}

	return posts, nil
}

// normalize converts a raw tweet into the canonical Post record.
func (t *TwitterSource) normalize(tw rawTweet) Post {
	createdAt, err := time.Parse(time.RFC3339, tw.CreatedAt)
	if err != nil {
		createdAt = time.Time{}
	}

	var media []string
	for _, p := range tw.Media.Photos {
		media = append(media, p.URL)
	}
	for _, v := range tw.Media.Videos {
		media = append(media, v.URL)
	}

	postURL := tw.URL
	if postURL == "" && tw.ID != "" {
		postURL = fmt.Sprintf("https://twitter.com/%s/status/%s", tw.Author.ScreenName, tw.ID)
	}

	return Post{
		ID:  tw.ID,
		URL: postURL,
		Author: Author{
			Handle:      tw.Author.ScreenName,
			DisplayName: tw.Author.Name,
		},
		Text:           tw.Text,
		CreatedAt:      createdAt,
		Engagement:     Engagement{LikeCount: tw.Likes, ShareCount: tw.Retweets, ReplyCount: tw.Replies},
		Media:          media,
		ExtractedLinks: ExtractLinks(tw.Text),
		IsReply:        tw.ReplyingToID != "",
		IsRepost:       tw.IsRetweet,
	}
}
