package graph

import (
	"encoding/json"
	"os"

	"github.com/blueberrycongee/forge/event"
)

// Replay turns a trace back into its own TraceEvent sequence. It is the
// identity operation (spec §4.9): trace entries are already the
// replayable record, so this just hands back a copy a caller can range
// over without aliasing the trace's internal slice.
func Replay(trace *ExecutionTrace) []TraceEvent {
	out := make([]TraceEvent, len(trace.Events))
	copy(out, trace.Events)
	return out
}

// ReplayToSink maps each trace entry onto a runtime event.Event and
// emits it through sink (spec §4.9): NodeStart and NodeFinish each
// become a synthetic SessionPhaseChanged, the two bracketing the node's
// execution window, and Compacted becomes SessionCompacted. This lets
// an observer rebuild a rough timeline from the trace alone; it is not
// a byte-for-byte replay of the original event stream, and neither is
// ReplayToRecordSink, which emits these same derived events.
func ReplayToSink(trace *ExecutionTrace, sink event.Sink) {
	for _, evt := range replayEvents(trace) {
		sink.Emit(evt)
	}
}

// ReplayToRecordSink replays trace into recordSink, assigning fresh
// (seq, timestamp) metadata via a new Sequencer for every entry (spec
// §4.9). Relative order is preserved; sequence numbers and timestamps
// are regenerated, matching the "timestamps may be rewritten ... but
// seq is preserved [in relative order]" contract of spec §4.1 applied
// to trace replay.
func ReplayToRecordSink(trace *ExecutionTrace, recordSink event.RecordSink) {
	seq := event.NewSequencer(nil)
	for _, evt := range replayEvents(trace) {
		recordSink.EmitRecord(event.Record{Meta: seq.Next(), Event: evt})
	}
}

// replayEvents derives the runtime event sequence a trace implies,
// shared by ReplayToSink and ReplayToRecordSink.
func replayEvents(trace *ExecutionTrace) []event.Event {
	out := make([]event.Event, 0, len(trace.Events))
	for _, te := range trace.Events {
		switch te.Kind {
		case TraceNodeStart:
			out = append(out, event.SessionPhaseChanged{From: event.SessionPhaseThinking, To: event.SessionPhaseStreaming})
		case TraceNodeFinish:
			out = append(out, event.SessionPhaseChanged{From: event.SessionPhaseStreaming, To: event.SessionPhaseThinking})
		case TraceCompacted:
			out = append(out, event.SessionCompacted{Summary: te.SummaryRef})
		}
	}
	return out
}

// traceEventJSON is the exported document shape for one TraceEvent,
// used only by ReplayToJSON/WriteAuditLog so the audit export is
// stable independent of the in-memory TraceEvent layout.
type traceEventJSON struct {
	Kind        TraceEventKind `json:"kind"`
	Node        string         `json:"node,omitempty"`
	DurationMs  int64          `json:"duration_ms,omitempty"`
	SummaryRef  string         `json:"summary_ref,omitempty"`
	TimestampMs int64          `json:"timestamp_ms"`
}

type spanJSON struct {
	Node       string `json:"node"`
	StartMs    int64  `json:"start_ms"`
	DurationMs int64  `json:"duration_ms"`
}

type traceDocument struct {
	Events []traceEventJSON `json:"events"`
	Spans  []spanJSON       `json:"spans"`
}

// ReplayToJSON renders trace into the structured document audit
// consumers read (spec §4.9, "for audit export"). The same trace
// always renders to the same document (spec §4.9, "determinism
// requirement for audit").
func ReplayToJSON(trace *ExecutionTrace) (json.RawMessage, error) {
	doc := traceDocument{
		Events: make([]traceEventJSON, len(trace.Events)),
		Spans:  make([]spanJSON, len(trace.Spans)),
	}
	for i, e := range trace.Events {
		doc.Events[i] = traceEventJSON{
			Kind:        e.Kind,
			Node:        e.Node,
			DurationMs:  e.DurationMs,
			SummaryRef:  e.SummaryRef,
			TimestampMs: e.Timestamp.UnixMilli(),
		}
	}
	for i, s := range trace.Spans {
		doc.Spans[i] = spanJSON{Node: s.Node, StartMs: s.StartMs, DurationMs: s.DurationMs}
	}
	return json.MarshalIndent(doc, "", "  ")
}

// WriteAuditLog renders trace to JSON via ReplayToJSON and writes it to
// path (spec §4.9).
func WriteAuditLog(trace *ExecutionTrace, path string) error {
	data, err := ReplayToJSON(trace)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
