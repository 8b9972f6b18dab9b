package source

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Cache persists fetched posts to local JSON files so a run can be replayed
// without hitting the network. Files are named <handle>_<unix-ts>.json and
// the newest file wins. There is no invalidation beyond the age check the
// reader supplies.
type Cache struct {
	dir string
	now func() time.Time
}

// NewCache creates a cache rooted at dir, creating it if needed.
func NewCache(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	return &Cache{dir: dir, now: time.Now}, nil
}

// Write persists the posts for one handle under a timestamped file.
func (c *Cache) Write(handle string, posts []Post) error {
	data, err := json.MarshalIndent(posts, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal posts: %w", err)
	}

	name := fmt.Sprintf("%s_%d.json", sanitizeHandle(handle), c.now().Unix())
	path := filepath.Join(c.dir, name)

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write cache file: %w", err)
	}
	return nil
}

// Read returns the posts from the newest cache file for handle that is no
// older than maxAge. The second return is false when no such file exists.
func (c *Cache) Read(handle string, maxAge time.Duration) ([]Post, bool) {
	path, ts, ok := c.newestFile(handle)
	if !ok {
		return nil, false
	}

	if c.now().Sub(time.Unix(ts, 0)) > maxAge {
		return nil, false
	}

	return c.readFile(path)
}

// ReadAny returns the newest cached posts for handle regardless of age.
func (c *Cache) ReadAny(handle string) ([]Post, bool) {
	path, _, ok := c.newestFile(handle)
	if !ok {
		return nil, false
	}
	return c.readFile(path)
}

func (c *Cache) readFile(path string) ([]Post, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}

	var posts []Post
	if err := json.Unmarshal(data, &posts); err != nil {
		return nil, false
	}
	return posts, true
}

// newestFile finds the most recent cache file for handle.
func (c *Cache) newestFile(handle string) (path string, ts int64, ok bool) {
	prefix := sanitizeHandle(handle) + "_"

	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return "", 0, false
	}

	type candidate struct {
		name string
		ts   int64
	}
	var candidates []candidate

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, ".json") {
			continue
		}

		raw := strings.TrimSuffix(strings.TrimPrefix(name, prefix), ".json")
		fileTS, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			continue
		}
		candidates = append(candidates, candidate{name: name, ts: fileTS})
	}

	if len(candidates) == 0 {
		return "", 0, false
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].ts > candidates[j].ts
	})

	best := candidates[0]
	return filepath.Join(c.dir, best.name), best.ts, true
}

// sanitizeHandle makes a handle safe to use as a filename fragment.
func sanitizeHandle(handle string) string {
	h := strings.TrimPrefix(strings.ToLower(handle), "@")
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '.':
			return r
		default:
			return '_'
		}
	}, h)
}
