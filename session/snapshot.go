package session

import (
	"github.com/blueberrycongee/forge/tool"
)

// SnapshotVersion is the current on-disk/wire shape version for
// Snapshot. Bump whenever a field is added, removed, or reinterpreted
// (spec §4.11).
const SnapshotVersion = 1

// Snapshot is the durable, serializable projection of a session: its
// finalized messages, tool-call records, compaction history, the
// execution trace (as the dependency-free TraceSnapshot mirror, so this
// package never needs to import the executor's package), and opaque
// references to the run logs that produced it (spec §4.11). Unlike
// State it carries no in-flight PendingParts — a Snapshot is always
// taken between turns.
type Snapshot struct {
	Version     int                        `json:"version"`
	SessionID   string                     `json:"session_id"`
	Messages    []Message                  `json:"messages"`
	ToolCalls   map[string]tool.CallRecord `json:"tool_calls"`
	Compactions []CompactionRecord         `json:"compactions"`
	Trace       TraceSnapshot              `json:"trace"`
	RunLogRefs  []string                   `json:"run_log_refs"`
}

// CompactionRecord is one summarization event applied to this
// session's history.
type CompactionRecord struct {
	Summary string `json:"summary"`
	AtStep  uint64 `json:"at_step"`
}

// TraceEvent is the snapshot-document shape of one graph.TraceEvent.
// Session cannot import the graph package (graph already imports
// session, for the reducer), so Snapshot carries trace data as this
// plain, dependency-free mirror rather than the graph package's own
// type; graph.ExecutionTrace.Snapshot() produces one from a live trace.
type TraceEvent struct {
	Kind        string `json:"kind"`
	Node        string `json:"node,omitempty"`
	DurationMs  int64  `json:"duration_ms,omitempty"`
	SummaryRef  string `json:"summary_ref,omitempty"`
	TimestampMs int64  `json:"timestamp_ms"`
}

// TraceSpan mirrors graph.Span for the same reason TraceEvent mirrors
// graph.TraceEvent.
type TraceSpan struct {
	Node       string `json:"node"`
	StartMs    int64  `json:"start_ms"`
	DurationMs int64  `json:"duration_ms"`
}

// TraceSnapshot is the trace field of a Snapshot document (spec §3,
// §4.11: SessionSnapshot carries "trace (ExecutionTrace)").
type TraceSnapshot struct {
	Events []TraceEvent `json:"events"`
	Spans  []TraceSpan  `json:"spans"`
}

// ToSnapshot projects a State (plus any compaction history and run log
// references the caller is tracking alongside it) into a durable
// Snapshot. Any still-pending parts are dropped: callers should
// FinalizeMessage before snapshotting if they want them preserved.
func ToSnapshot(state State, compactions []CompactionRecord, trace TraceSnapshot, runLogRefs []string) Snapshot {
	toolCalls := make(map[string]tool.CallRecord, len(state.ToolCalls))
	for k, v := range state.ToolCalls {
		toolCalls[k] = v
	}
	return Snapshot{
		Version:     SnapshotVersion,
		SessionID:   state.SessionID,
		Messages:    append([]Message(nil), state.Messages...),
		ToolCalls:   toolCalls,
		Compactions: append([]CompactionRecord(nil), compactions...),
		Trace:       trace,
		RunLogRefs:  append([]string(nil), runLogRefs...),
	}
}

// PushMessage appends msg to the snapshot's message history if it
// contains at least one textual part; messages with no renderable
// content are skipped (spec §4.11).
func (s Snapshot) PushMessage(msg Message) Snapshot {
	if !hasTextualPart(msg) {
		return s
	}
	s.Messages = append(append([]Message(nil), s.Messages...), msg)
	return s
}

// hasTextualPart reports whether msg carries a TextDelta or TextFinal
// part.
func hasTextualPart(msg Message) bool {
	for _, p := range msg.Parts {
		switch p.(type) {
		case PartTextDelta, PartTextFinal:
			return true
		}
	}
	return false
}

// ToMessages returns the snapshot's message history.
func (s Snapshot) ToMessages() []Message {
	return s.Messages
}

// Restore rebuilds a live State from a Snapshot, ready to resume
// folding new events into. The restored State starts in PhaseUserInput
// with no pending parts, matching the state of a session between
// turns.
func Restore(snap Snapshot) State {
	toolCalls := make(map[string]tool.CallRecord, len(snap.ToolCalls))
	for k, v := range snap.ToolCalls {
		toolCalls[k] = v
	}
	return State{
		SessionID: snap.SessionID,
		Messages:  append([]Message(nil), snap.Messages...),
		ToolCalls: toolCalls,
		Phase:     PhaseUserInput,
	}
}
