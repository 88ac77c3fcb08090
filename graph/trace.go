package graph

import (
	"time"

	"github.com/blueberrycongee/forge/session"
)

// TraceEventKind tags the concrete shape of a TraceEvent.
type TraceEventKind string

// The trace event kinds spec §3/§4.9 names.
const (
	TraceNodeStart  TraceEventKind = "node_start"
	TraceNodeFinish TraceEventKind = "node_finish"
	TraceCompacted  TraceEventKind = "compacted"
)

// TraceEvent is one entry in an ExecutionTrace.
type TraceEvent struct {
	Kind        TraceEventKind
	Node        string
	DurationMs  int64
	SummaryRef  string
	Timestamp   time.Time
}

// Span covers a node execution window. Additive beyond spec.md's
// trace event list (see SPEC_FULL.md, grounded on original_source's
// TraceSpan) so an audit consumer can chart wall-clock occupancy
// without re-deriving it from paired NodeStart/NodeFinish events.
type Span struct {
	Node       string
	StartMs    int64
	DurationMs int64
}

// ExecutionTrace is an append-only, parallel record of node start/finish
// and compaction activity covering one run (spec §3, §4.9).
type ExecutionTrace struct {
	Events []TraceEvent
	Spans  []Span
}

// NewExecutionTrace creates an empty trace.
func NewExecutionTrace() *ExecutionTrace {
	return &ExecutionTrace{}
}

// RecordNodeStart appends a NodeStart entry.
func (t *ExecutionTrace) RecordNodeStart(node string, at time.Time) {
	t.Events = append(t.Events, TraceEvent{Kind: TraceNodeStart, Node: node, Timestamp: at})
}

// RecordNodeFinish appends a NodeFinish entry and its matching Span.
func (t *ExecutionTrace) RecordNodeFinish(node string, start, end time.Time) {
	duration := end.Sub(start).Milliseconds()
	t.Events = append(t.Events, TraceEvent{
		Kind:       TraceNodeFinish,
		Node:       node,
		DurationMs: duration,
		Timestamp:  end,
	})
	t.Spans = append(t.Spans, Span{
		Node:       node,
		StartMs:    start.UnixMilli(),
		DurationMs: duration,
	})
}

// RecordCompacted appends a Compacted entry.
func (t *ExecutionTrace) RecordCompacted(summaryRef string, at time.Time) {
	t.Events = append(t.Events, TraceEvent{Kind: TraceCompacted, SummaryRef: summaryRef, Timestamp: at})
}

// Snapshot projects the trace into the dependency-free shape a
// session.Snapshot document carries (spec §4.11).
func (t *ExecutionTrace) Snapshot() session.TraceSnapshot {
	events := make([]session.TraceEvent, len(t.Events))
	for i, e := range t.Events {
		events[i] = session.TraceEvent{
			Kind:        string(e.Kind),
			Node:        e.Node,
			DurationMs:  e.DurationMs,
			SummaryRef:  e.SummaryRef,
			TimestampMs: e.Timestamp.UnixMilli(),
		}
	}
	spans := make([]session.TraceSpan, len(t.Spans))
	for i, s := range t.Spans {
		spans[i] = session.TraceSpan{Node: s.Node, StartMs: s.StartMs, DurationMs: s.DurationMs}
	}
	return session.TraceSnapshot{Events: events, Spans: spans}
}
