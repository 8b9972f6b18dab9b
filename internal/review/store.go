package review

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/mcortez/pulsebot/internal/review/migrations"
	_ "modernc.org/sqlite"
)

// Store wraps the review database connection.
type Store struct {
	*sql.DB
}

// NewStore creates a new database connection.
func NewStore(ctx context.Context, dbPath string) (*Store, error) {
	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	sqlDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// SQLite doesn't handle concurrent writes well
	sqlDB.SetMaxOpenConns(1)

	if _, err := sqlDB.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}
	if _, err := sqlDB.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	return &Store{DB: sqlDB}, nil
}

// Migrate runs all pending database migrations.
func (s *Store) Migrate(ctx context.Context) error {
	slog.Info("running database migrations")

	_, err := s.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version TEXT PRIMARY KEY,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("create migrations table: %w", err)
	}

	rows, err := s.QueryContext(ctx, "SELECT version FROM schema_migrations ORDER BY version")
	if err != nil {
		return fmt.Errorf("query migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[string]bool)
	for rows.Next() {
		var version string
		if err := rows.Scan(&version); err != nil {
			return fmt.Errorf("scan migration: %w", err)
		}
		applied[version] = true
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate migrations: %w", err)
	}

	entries, err := fs.ReadDir(migrations.FS, ".")
	if err != nil {
		return fmt.Errorf("read migrations dir: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)

	for _, file := range files {
		if applied[file] {
			slog.Debug("migration already applied", "file", file)
			continue
		}

		slog.Info("applying migration", "file", file)

		content, err := fs.ReadFile(migrations.FS, file)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", file, err)
		}

		if _, err := s.ExecContext(ctx, string(content)); err != nil {
			return fmt.Errorf("apply migration %s: %w", file, err)
		}

		if _, err := s.ExecContext(ctx,
			"INSERT INTO schema_migrations (version) VALUES (?)", file); err != nil {
			return fmt.Errorf("record migration %s: %w", file, err)
		}
	}

	return nil
}

// CreateChannel inserts a channel.
func (s *Store) CreateChannel(ctx context.Context, ch Channel) error {
	_, err := s.ExecContext(ctx, `
		INSERT INTO channels (id, name, url, last_checked)
		VALUES (?, ?, ?, ?)`,
		ch.ID, ch.Name, ch.URL, ch.LastChecked.UTC())
	if err != nil {
		return fmt.Errorf("create channel: %w", err)
	}
	return nil
}

// GetChannel fetches one channel by id.
func (s *Store) GetChannel(ctx context.Context, id string) (*Channel, error) {
	var ch Channel
	err := s.QueryRowContext(ctx, `
		SELECT id, name, url, last_checked FROM channels WHERE id = ?`, id).
		Scan(&ch.ID, &ch.Name, &ch.URL, &ch.LastChecked)
	if err != nil {
		return nil, err
	}
	return &ch, nil
}

// ListChannels returns all channels, newest-checked first.
func (s *Store) ListChannels(ctx context.Context) ([]Channel, error) {
	rows, err := s.QueryContext(ctx, `
		SELECT id, name, url, last_checked FROM channels ORDER BY last_checked DESC`)
	if err != nil {
		return nil, fmt.Errorf("list channels: %w", err)
	}
	defer rows.Close()

	var channels []Channel
	for rows.Next() {
		var ch Channel
		if err := rows.Scan(&ch.ID, &ch.Name, &ch.URL, &ch.LastChecked); err != nil {
			return nil, fmt.Errorf("scan channel: %w", err)
		}
		channels = append(channels, ch)
	}
	return channels, rows.Err()
}

// CreateVideo inserts a video.
func (s *Store) CreateVideo(ctx context.Context, v Video) error {
	_, err := s.ExecContext(ctx, `
		INSERT INTO videos (id, channel_id, title, duration, processed_at)
		VALUES (?, ?, ?, ?, ?)`,
		v.ID, v.ChannelID, v.Title, v.Duration, v.ProcessedAt.UTC())
	if err != nil {
		return fmt.Errorf("create video: %w", err)
	}
	return nil
}

// GetVideo fetches one video by id.
func (s *Store) GetVideo(ctx context.Context, id string) (*Video, error) {
	var v Video
	err := s.QueryRowContext(ctx, `
		SELECT id, channel_id, title, duration, processed_at FROM videos WHERE id = ?`, id).
		Scan(&v.ID, &v.ChannelID, &v.Title, &v.Duration, &v.ProcessedAt)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// ListVideosByChannel returns the videos of one channel, newest first.
func (s *Store) ListVideosByChannel(ctx context.Context, channelID string) ([]Video, error) {
	rows, err := s.QueryContext(ctx, `
		SELECT id, channel_id, title, duration, processed_at
		FROM videos WHERE channel_id = ? ORDER BY processed_at DESC`, channelID)
	if err != nil {
		return nil, fmt.Errorf("list videos: %w", err)
	}
	defer rows.Close()

	var videos []Video
	for rows.Next() {
		var v Video
		if err := rows.Scan(&v.ID, &v.ChannelID, &v.Title, &v.Duration, &v.ProcessedAt); err != nil {
			return nil, fmt.Errorf("scan video: %w", err)
		}
		videos = append(videos, v)
	}
	return videos, rows.Err()
}

// CreateHighlight inserts a highlight.
func (s *Store) CreateHighlight(ctx context.Context, h Highlight) error {
	if h.Status == "" {
		h.Status = HighlightPending
	}
	_, err := s.ExecContext(ctx, `
		INSERT INTO highlights
			(id, video_id, time_start, time_end, topic, quote, insight, takeaway, context, status, comments, reviewed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		h.ID, h.VideoID, h.TimeStart, h.TimeEnd, h.Topic, h.Quote,
		h.Insight, h.Takeaway, h.Context, string(h.Status), h.Comments, h.ReviewedAt)
	if err != nil {
		return fmt.Errorf("create highlight: %w", err)
	}
	return nil
}

// GetHighlight fetches one highlight by id.
func (s *Store) GetHighlight(ctx context.Context, id string) (*Highlight, error) {
	var h Highlight
	var status string
	err := s.QueryRowContext(ctx, `
		SELECT id, video_id, time_start, time_end, topic, quote, insight, takeaway,
		       context, status, comments, reviewed_at
		FROM highlights WHERE id = ?`, id).
		Scan(&h.ID, &h.VideoID, &h.TimeStart, &h.TimeEnd, &h.Topic, &h.Quote,
			&h.Insight, &h.Takeaway, &h.Context, &status, &h.Comments, &h.ReviewedAt)
	if err != nil {
		return nil, err
	}
	h.Status = HighlightStatus(status)
	return &h, nil
}

// ListHighlightsByVideo returns the highlights of one video in clip order.
func (s *Store) ListHighlightsByVideo(ctx context.Context, videoID string) ([]Highlight, error) {
	rows, err := s.QueryContext(ctx, `
		SELECT id, video_id, time_start, time_end, topic, quote, insight, takeaway,
		       context, status, comments, reviewed_at
		FROM highlights WHERE video_id = ? ORDER BY time_start`, videoID)
	if err != nil {
		return nil, fmt.Errorf("list highlights: %w", err)
	}
	defer rows.Close()

	var highlights []Highlight
	for rows.Next() {
		var h Highlight
		var status string
		if err := rows.Scan(&h.ID, &h.VideoID, &h.TimeStart, &h.TimeEnd, &h.Topic, &h.Quote,
			&h.Insight, &h.Takeaway, &h.Context, &status, &h.Comments, &h.ReviewedAt); err != nil {
			return nil, fmt.Errorf("scan highlight: %w", err)
		}
		h.Status = HighlightStatus(status)
		highlights = append(highlights, h)
	}
	return highlights, rows.Err()
}

// ReviewHighlight updates the status and comments of a highlight and stamps
// the review time.
func (s *Store) ReviewHighlight(ctx context.Context, id string, status HighlightStatus, comments string, reviewedAt time.Time) error {
	res, err := s.ExecContext(ctx, `
		UPDATE highlights SET status = ?, comments = ?, reviewed_at = ?
		WHERE id = ?`,
		string(status), comments, reviewedAt.UTC(), id)
	if err != nil {
		return fmt.Errorf("review highlight: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("review highlight: %w", err)
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// TouchChannel updates a channel's last-checked time.
func (s *Store) TouchChannel(ctx context.Context, id string, checkedAt time.Time) error {
	_, err := s.ExecContext(ctx, `
		UPDATE channels SET last_checked = ? WHERE id = ?`, checkedAt.UTC(), id)
	if err != nil {
		return fmt.Errorf("touch channel: %w", err)
	}
	return nil
}
