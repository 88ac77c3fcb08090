package graph

import (
	"sync"

	"github.com/blueberrycongee/forge/event"
	"github.com/blueberrycongee/forge/session"
)

// recordingSink is the executor's own event.Sink: every event a node
// handler emits (and every RunStarted/RunPaused/... the executor emits
// itself) passes through here first. It assigns sequence metadata,
// appends to an in-memory history buffer, folds the event through the
// session reducer (re-emitting any derived SessionPhaseChanged /
// SessionPhaseTransitionRejected), and finally forwards to the
// caller's sink, if any (spec §4.3, §5: "the recording sink ... does
// need to synchronise the shared history buffer").
type recordingSink struct {
	mu         sync.Mutex
	seq        *event.Sequencer
	history    []event.Record
	downstream event.Sink
	reducer    session.State
}

func newRecordingSink(seq *event.Sequencer, sessionID string, phase session.Phase, downstream event.Sink) *recordingSink {
	state := session.NewState(sessionID)
	state.Phase = phase
	return &recordingSink{
		seq:        seq,
		downstream: downstream,
		reducer:    state,
	}
}

// Emit implements event.Sink. evt is forwarded to the caller's
// downstream sink and folded through the session reducer. Any
// SessionPhaseChanged/SessionPhaseTransitionRejected events the fold
// derives are recorded into this run's own history (so trace/snapshot
// introspection and P6 hold over the full audit trail) but are not
// re-forwarded to downstream: the caller-visible event stream is the
// sequence of events the graph itself produced, matching spec §8's
// literal scenario event lists, which never interleave phase events
// into the primary stream.
func (s *recordingSink) Emit(evt event.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.record(evt)
	if s.downstream != nil {
		s.downstream.Emit(evt)
	}

	next, derived := session.ApplyEvent(s.reducer, evt)
	s.reducer = next
	for _, d := range derived {
		s.record(d)
	}
}

func (s *recordingSink) record(evt event.Event) {
	meta := s.seq.Next()
	s.history = append(s.history, event.Record{Meta: meta, Event: evt})
}

// History returns a copy of the events recorded so far, in emit order.
func (s *recordingSink) History() []event.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]event.Record, len(s.history))
	copy(out, s.history)
	return out
}

// setHistory replaces the recorded history, used by prune between
// node dispatches.
func (s *recordingSink) setHistory(h []event.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = h
}

// SessionState returns the live session-state projection the reducer
// has folded so far.
func (s *recordingSink) SessionState() session.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reducer
}
