package report

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"
)

// Counts is the per-concern counter block of a status snapshot.
type Counts struct {
	Collected  int `json:"collected"`
	Processed  int `json:"processed"`
	Pending    int `json:"pending"`
	Matched    int `json:"matched"`
	Rejected   int `json:"rejected"`
	InProgress int `json:"in_progress"`
	Generated  int `json:"generated"`
}

// Status is a point-in-time snapshot of a pipeline run.
type Status struct {
	Posts     Counts       `json:"posts"`
	Decisions Counts       `json:"decisions"`
	Tools     Counts       `json:"tools"`
	Responses Counts       `json:"responses"`
	Errors    []ErrorEntry `json:"errors"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// Tracker aggregates pipeline events into a status snapshot. Safe for one
// writer (the run) and many readers (the status endpoint).
type Tracker struct {
	mu     sync.RWMutex
	status Status
	now    func() time.Time
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{now: time.Now}
}

// Emit folds one event into the counters.
func (t *Tracker) Emit(e Event) {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch e.Kind {
	case KindCollected:
		t.status.Posts.Collected += e.Count
		t.status.Posts.Pending += e.Count
	case KindMatched:
		t.status.Decisions.Matched++
		t.markPostProcessed()
	case KindRejected:
		t.status.Decisions.Rejected++
		t.markPostProcessed()
	case KindStarted:
		t.status.Tools.InProgress++
		// Matched verdicts below the threshold never reach invocation, so
		// a response is pending only once its tool run starts.
		t.status.Responses.Pending++
	case KindProcessed:
		t.status.Tools.Processed++
		if t.status.Tools.InProgress > 0 {
			t.status.Tools.InProgress--
		}
	case KindGenerated:
		t.status.Responses.Generated++
		if t.status.Responses.Pending > 0 {
			t.status.Responses.Pending--
		}
	case KindFailed:
		entry := ErrorEntry{
			Timestamp:  t.now(),
			PostAuthor: e.PostAuthor,
		}
		if e.Err != nil {
			entry.Message = e.Err.Error()
		}
		t.status.Errors = append(t.status.Errors, entry)
	}

	t.status.UpdatedAt = t.now()
}

func (t *Tracker) markPostProcessed() {
	t.status.Posts.Processed++
	if t.status.Posts.Pending > 0 {
		t.status.Posts.Pending--
	}
}

// Snapshot returns a copy of the current status.
func (t *Tracker) Snapshot() Status {
	t.mu.RLock()
	defer t.mu.RUnlock()

	snap := t.status
	snap.Errors = make([]ErrorEntry, len(t.status.Errors))
	copy(snap.Errors, t.status.Errors)
	return snap
}

// Handler serves the status snapshot as JSON.
func (t *Tracker) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(t.Snapshot())
	}
}
