// Package report tracks pipeline progress for the review dashboard.
//
// The pipeline emits events; a Tracker owns the mutable counters and the
// error log. The pipeline run is the single writer, the status endpoint is
// the reader.
package report

import (
	"time"
)

// Stage identifies the pipeline stage an event belongs to.
type Stage string

const (
	StageCollect Stage = "collect"
	StageSelect  Stage = "select"
	StageInvoke  Stage = "invoke"
	StageCompose Stage = "compose"
	StageSink    Stage = "sink"
)

// Event is one progress notification from the pipeline.
type Event struct {
	Stage      Stage
	Kind       EventKind
	Count      int    // for bulk events (e.g. posts collected)
	PostAuthor string // set when the event concerns one post
	Err        error  // set for failure events
}

// EventKind classifies an event within its stage.
type EventKind string

const (
	KindCollected EventKind = "collected" // posts fetched and filtered
	KindMatched   EventKind = "matched"   // verdict: relevant with tool
	KindRejected  EventKind = "rejected"  // verdict: not relevant or below threshold
	KindStarted   EventKind = "started"   // tool invocation began
	KindProcessed EventKind = "processed" // tool invocation finished
	KindGenerated EventKind = "generated" // response composed
	KindFailed    EventKind = "failed"    // recovered per-item failure
)

// Emitter receives pipeline events. Tracker implements it; tests can use
// a function.
type Emitter interface {
	Emit(Event)
}

// EmitterFunc adapts a function to the Emitter interface.
type EmitterFunc func(Event)

// Emit calls f(e).
func (f EmitterFunc) Emit(e Event) { f(e) }

// Discard ignores every event.
var Discard = EmitterFunc(func(Event) {})

// ErrorEntry is one recovered failure visible to the dashboard.
type ErrorEntry struct {
	Timestamp  time.Time `json:"timestamp"`
	Message    string    `json:"message"`
	PostAuthor string    `json:"post_author,omitempty"`
}
