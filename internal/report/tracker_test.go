package report

import (
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTracker_Counters(t *testing.T) {
	tr := NewTracker()

	tr.Emit(Event{Stage: StageCollect, Kind: KindCollected, Count: 4})
	tr.Emit(Event{Stage: StageSelect, Kind: KindMatched})
	tr.Emit(Event{Stage: StageSelect, Kind: KindMatched})
	tr.Emit(Event{Stage: StageSelect, Kind: KindRejected})
	tr.Emit(Event{Stage: StageInvoke, Kind: KindStarted})
	tr.Emit(Event{Stage: StageInvoke, Kind: KindProcessed})
	tr.Emit(Event{Stage: StageCompose, Kind: KindGenerated})

	s := tr.Snapshot()

	assert.Equal(t, 4, s.Posts.Collected)
	assert.Equal(t, 3, s.Posts.Processed)
	assert.Equal(t, 1, s.Posts.Pending)
	assert.Equal(t, 2, s.Decisions.Matched)
	assert.Equal(t, 1, s.Decisions.Rejected)
	assert.Equal(t, 1, s.Tools.Processed)
	assert.Equal(t, 0, s.Tools.InProgress)
	assert.Equal(t, 1, s.Responses.Generated)
	assert.Equal(t, 0, s.Responses.Pending)
	assert.False(t, s.UpdatedAt.IsZero())
}

func TestTracker_PendingResponsesDrain(t *testing.T) {
	tr := NewTracker()

	// Two matched verdicts, but only one clears the relevance threshold
	// and gets invoked. Pending tracks the invoked item only and drains
	// once its reply is generated.
	tr.Emit(Event{Stage: StageSelect, Kind: KindMatched})
	tr.Emit(Event{Stage: StageSelect, Kind: KindMatched})

	tr.Emit(Event{Stage: StageInvoke, Kind: KindStarted})
	assert.Equal(t, 1, tr.Snapshot().Responses.Pending)

	tr.Emit(Event{Stage: StageInvoke, Kind: KindProcessed})
	tr.Emit(Event{Stage: StageCompose, Kind: KindGenerated})

	s := tr.Snapshot()
	assert.Equal(t, 0, s.Responses.Pending)
	assert.Equal(t, 1, s.Responses.Generated)
}

func TestTracker_ErrorLog(t *testing.T) {
	tr := NewTracker()
	tr.now = func() time.Time { return time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC) }

	tr.Emit(Event{
		Stage:      StageSelect,
		Kind:       KindFailed,
		PostAuthor: "alpha",
		Err:        fmt.Errorf("selection call: timeout"),
	})
	tr.Emit(Event{Stage: StageSink, Kind: KindFailed, Err: fmt.Errorf("disk full")})

	s := tr.Snapshot()
	require.Len(t, s.Errors, 2)
	assert.Equal(t, "alpha", s.Errors[0].PostAuthor)
	assert.Contains(t, s.Errors[0].Message, "timeout")
	assert.Empty(t, s.Errors[1].PostAuthor)
	assert.False(t, s.Errors[0].Timestamp.IsZero())
}

func TestTracker_SnapshotIsCopy(t *testing.T) {
	tr := NewTracker()
	tr.Emit(Event{Kind: KindFailed, Err: fmt.Errorf("one")})

	snap := tr.Snapshot()
	snap.Errors[0].Message = "mutated"

	assert.Equal(t, "one", tr.Snapshot().Errors[0].Message)
}

func TestTracker_Handler(t *testing.T) {
	tr := NewTracker()
	tr.Emit(Event{Kind: KindCollected, Count: 2})
	tr.Emit(Event{Kind: KindMatched})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/status", nil)
	tr.Handler()(rec, req)

	assert.Equal(t, 200, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var s Status
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &s))
	assert.Equal(t, 2, s.Posts.Collected)
	assert.Equal(t, 1, s.Decisions.Matched)
}

func TestEmitterFunc(t *testing.T) {
	var got Event
	e := EmitterFunc(func(ev Event) { got = ev })

	e.Emit(Event{Kind: KindGenerated, PostAuthor: "alpha"})

	assert.Equal(t, KindGenerated, got.Kind)
	assert.Equal(t, "alpha", got.PostAuthor)
}
