package source

import (
	"regexp"
	"time"
)

// Author identifies the account that wrote a post.
type Author struct {
	Handle      string `json:"handle"`
	DisplayName string `json:"display_name"`
}

// Engagement holds the public interaction counters of a post.
type Engagement struct {
	LikeCount  int `json:"like_count"`
	ShareCount int `json:"share_count"`
	ReplyCount int `json:"reply_count"`
}

// Post is a normalized social-media post. Instances are immutable once
// built by a Source; the pipeline never mutates them.
type Post struct {
	ID             string     `json:"id"`
	URL            string     `json:"url"`
	Author         Author     `json:"author"`
	Text           string     `json:"text"`
	CreatedAt      time.Time  `json:"created_at"`
	Engagement     Engagement `json:"engagement"`
	Media          []string   `json:"media,omitempty"`
	ExtractedLinks []string   `json:"extracted_links,omitempty"`
	IsReply        bool       `json:"is_reply"`
	IsRepost       bool       `json:"is_repost"`
}

// EngagementSum is the score the collector filters on.
func (p Post) EngagementSum() int {
	return p.Engagement.LikeCount + p.Engagement.ShareCount
}

var urlPattern = regexp.MustCompile(`https?://[^\s<>"')\]]+`)

// ExtractLinks pulls every URL out of a post body.
func ExtractLinks(text string) []string {
	return urlPattern.FindAllString(text, -1)
}
