package session

import (
	"github.com/blueberrycongee/forge/event"
	"github.com/blueberrycongee/forge/tool"
)

// Reducer is the pure fold from the event stream into State (spec
// §4.7): apply_event(state, event) -> (state', emitted).
//
// The phase transitions below are not named by an explicit event in spec §4.7
// (which only lists TextDelta/ToolStart/ToolResult/ToolError/StepFinish
// as phase-attempting) but are required to make the phase graph in
// spec §3 reachable by pure event folding alone:
//
//   - RunStarted attempts UserInput -> Thinking: a fresh run already
//     carries its user input in the initial state, so the first event
//     of a run begins the thinking step without a separate "thinking
//     started" event kind.
//   - RunPaused attempts <current> -> Interrupted ("Any -> Interrupted
//     on suspend"); RunResumed attempts Interrupted -> Resumed and then,
//     in the same fold, Resumed -> Thinking, completing the
//     "Interrupted -> Resumed -> Thinking" chain spec §3 draws as one
//     resume event's consequence.
//   - RunCompleted sets State.Complete unconditionally and attempts
//     Finalize -> Completed; a run that reaches __end__ without ever
//     emitting StepFinish (e.g. S1's bare increment node) stays short
//     of the Completed phase and records a rejection instead, but
//     Complete itself is not gated on the phase machine agreeing.
//
// This resolution is recorded in DESIGN.md.
func ApplyEvent(state State, evt event.Event) (State, []event.Event) {
	var emitted []event.Event

	attempt := func(s State, to Phase) (State, event.Event) {
		next, ev := TryTransitionWithEvent(s.Phase, to)
		s.Phase = next
		return s, ev
	}

	switch e := evt.(type) {
	case event.RunStarted:
		var ev event.Event
		state, ev = attempt(state, PhaseThinking)
		emitted = append(emitted, ev)

	case event.RunPaused:
		var ev event.Event
		state, ev = attempt(state, PhaseInterrupted)
		emitted = append(emitted, ev)

	case event.RunResumed:
		var ev event.Event
		state, ev = attempt(state, PhaseResumed)
		emitted = append(emitted, ev)
		state, ev = attempt(state, PhaseThinking)
		emitted = append(emitted, ev)

	case event.TextDelta:
		state = state.Clone()
		state.PendingParts = append(state.PendingParts, PartTextDelta{Text: e.Delta})
		var ev event.Event
		state, ev = attempt(state, PhaseStreaming)
		emitted = append(emitted, ev)

	case event.TextFinal:
		state = state.Clone()
		state.PendingParts = append(state.PendingParts, PartTextFinal{Text: e.Text})

	case event.ToolStart:
		state = state.Clone()
		state.ToolCalls[e.CallID] = tool.CallRecord{
			CallID:   e.CallID,
			ToolName: e.Tool,
			Status:   tool.StateRunning,
		}
		var ev event.Event
		state, ev = attempt(state, PhaseTool)
		emitted = append(emitted, ev)

	case event.ToolResult:
		state = state.Clone()
		rec := state.ToolCalls[e.CallID]
		rec.CallID = e.CallID
		rec.ToolName = e.Tool
		rec.Status = tool.StateCompleted
		output := tool.Output{
			Content: e.Output.Content,
			Metadata: tool.Metadata{
				MimeType:   e.Output.Metadata.MimeType,
				Schema:     e.Output.Metadata.Schema,
				Source:     e.Output.Metadata.Source,
				Attributes: e.Output.Metadata.Attributes,
			},
		}
		rec.Output = &output
		state.ToolCalls[e.CallID] = rec
		state.PendingParts = append(state.PendingParts, PartToolResult{CallID: e.CallID, Output: output})
		var ev event.Event
		state, ev = attempt(state, PhaseStreaming)
		emitted = append(emitted, ev)

	case event.ToolError:
		state = state.Clone()
		rec := state.ToolCalls[e.CallID]
		rec.CallID = e.CallID
		rec.ToolName = e.Tool
		rec.Status = tool.StateError
		rec.Error = e.Error
		state.ToolCalls[e.CallID] = rec
		state.PendingParts = append(state.PendingParts, PartToolError{CallID: e.CallID, Error: e.Error})
		var ev event.Event
		state, ev = attempt(state, PhaseStreaming)
		emitted = append(emitted, ev)

	case event.Attachment:
		state = state.Clone()
		state.PendingParts = append(state.PendingParts, PartAttachment{Payload: e.Payload})

	case event.Error:
		// Errors surface to observers but carry no session-state part
		// shape of their own beyond being visible in the event stream.

	case event.StepFinish:
		state = state.Clone()
		state.PendingParts = append(state.PendingParts, PartTokenUsage{Tokens: e.Tokens})
		var ev event.Event
		state, ev = attempt(state, PhaseFinalize)
		emitted = append(emitted, ev)

	case event.RunCompleted:
		state = state.Clone()
		state.Complete = true
		var ev event.Event
		state, ev = attempt(state, PhaseCompleted)
		emitted = append(emitted, ev)
	}

	return state, emitted
}
