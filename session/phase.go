// Package session implements the deterministic fold from the event
// stream into a structured session record (spec §4.7-§4.8): messages,
// pending parts, tool-call records, and the session phase state
// machine.
package session

import "github.com/blueberrycongee/forge/event"

// Phase aliases event.SessionPhase so callers don't need to import
// both packages for the same concept.
type Phase = event.SessionPhase

// The full set of legal phases (spec §3).
const (
	PhaseUserInput   = event.SessionPhaseUserInput
	PhaseThinking    = event.SessionPhaseThinking
	PhaseStreaming   = event.SessionPhaseStreaming
	PhaseTool        = event.SessionPhaseTool
	PhaseFinalize    = event.SessionPhaseFinalize
	PhaseCompleted   = event.SessionPhaseCompleted
	PhaseInterrupted = event.SessionPhaseInterrupted
	PhaseResumed     = event.SessionPhaseResumed
)

// transitions is the static set of allowed (from, to) pairs (spec §3):
//
//	UserInput → Thinking → Streaming → Finalize → Completed
//	                    ↘ Tool ↗
//	UserInput → Interrupted → Resumed → Thinking
//	Any      → Interrupted (on suspend) → Resumed
var transitions = map[Phase]map[Phase]bool{
	PhaseUserInput: {
		PhaseThinking:    true,
		PhaseInterrupted: true,
	},
	PhaseThinking: {
		PhaseStreaming:   true,
		PhaseTool:        true,
		PhaseInterrupted: true,
	},
	PhaseStreaming: {
		PhaseFinalize:    true,
		PhaseTool:        true,
		PhaseInterrupted: true,
	},
	PhaseTool: {
		PhaseStreaming:   true,
		PhaseInterrupted: true,
	},
	PhaseFinalize: {
		PhaseCompleted:   true,
		PhaseInterrupted: true,
	},
	PhaseCompleted: {
		PhaseInterrupted: true,
	},
	PhaseInterrupted: {
		PhaseResumed: true,
	},
	PhaseResumed: {
		PhaseThinking:    true,
		PhaseInterrupted: true,
	},
}

// CanTransition reports whether (from, to) is a legal phase change.
func CanTransition(from, to Phase) bool {
	return transitions[from][to]
}

// TryTransition returns the resulting phase and whether the
// transition was legal. On failure, from is returned unchanged —
// invalid transitions never abort a run (spec §4.8).
func TryTransition(from, to Phase) (Phase, bool) {
	if CanTransition(from, to) {
		return to, true
	}
	return from, false
}

// TryTransitionWithEvent additionally yields the event the reducer
// should emit: SessionPhaseChanged on success, or
// SessionPhaseTransitionRejected (with From/To left at the unchanged
// current phase and Attempt carrying what was requested) on failure.
func TryTransitionWithEvent(from, to Phase) (Phase, event.Event) {
	if CanTransition(from, to) {
		return to, event.SessionPhaseChanged{From: from, To: to}
	}
	return from, event.SessionPhaseTransitionRejected{From: from, To: from, Attempt: to}
}
