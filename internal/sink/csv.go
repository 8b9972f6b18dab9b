// Package sink persists composed responses to a durable tabular file.
package sink

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/mcortez/pulsebot/internal/composer"
)

// Header is the column layout of the output file.
var Header = []string{
	"tweet_url",
	"author_handle",
	"post_text",
	"tool_name",
	"reply_text",
	"generated_at",
	"review_status",
}

// Row is one record read back from the output file.
type Row struct {
	TweetURL     string
	AuthorHandle string
	PostText     string
	ToolName     string
	ReplyText    string
	GeneratedAt  string // RFC 3339
	ReviewStatus string
}

// CSVSink appends composed responses to a CSV file. A write failure is
// fatal for the run and is returned to the caller; per-item LLM failures
// upstream are not. Concurrent runs against the same file are not
// supported.
type CSVSink struct {
	path string
}

// NewCSVSink creates a sink writing to path, creating parent directories
// as needed.
func NewCSVSink(path string) (*CSVSink, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	return &CSVSink{path: path}, nil
}

// Path returns the output file path.
func (s *CSVSink) Path() string {
	return s.path
}

// Append writes one row per response, creating the file with a header row
// if it does not exist or is empty. Existing rows are preserved across runs.
func (s *CSVSink) Append(responses []composer.Response) error {
	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open output file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat output file: %w", err)
	}

	w := csv.NewWriter(f)

	if info.Size() == 0 {
		if err := w.Write(Header); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}

	for _, r := range responses {
		record := []string{
			r.Post.URL,
			r.Post.Author.Handle,
			r.Post.Text,
			r.Tool.Name,
			r.ReplyText,
			r.GeneratedAt.Format(time.RFC3339),
			string(r.ReviewStatus),
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush output file: %w", err)
	}

	slog.Info("responses appended", "path", s.path, "rows", len(responses))
	return nil
}

// ReadAll reads every data row from the output file. A missing file yields
// an empty slice.
func (s *CSVSink) ReadAll() ([]Row, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open output file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)

	// Skip the header row.
	if _, err := r.Read(); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	var rows []Row
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		if len(record) != len(Header) {
			return nil, fmt.Errorf("malformed row: expected %d fields, got %d", len(Header), len(record))
		}
		rows = append(rows, Row{
			TweetURL:     record[0],
			AuthorHandle: record[1],
			PostText:     record[2],
			ToolName:     record[3],
			ReplyText:    record[4],
			GeneratedAt:  record[5],
			ReviewStatus: record[6],
		})
	}

	return rows, nil
}
