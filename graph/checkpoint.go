package graph

import (
	"time"

	"github.com/blueberrycongee/forge/fault"
)

// Checkpoint is the serializable pause record that encodes where a
// suspended run is and what it is waiting for (spec §3).
type Checkpoint struct {
	RunID             string
	CheckpointID      string
	CreatedAt         time.Time
	State             State
	NextNode          string
	PendingInterrupts []fault.Interrupt
	Iterations        uint32
	ResumeValues      map[string]any
}

// Command resumes a suspended run. If InterruptID is set, the resume
// value is bound under "resume:{node}:{interrupt_id}"; otherwise it is
// bound under "resume:{next_node}" (spec §4.3, §6).
type Command struct {
	InterruptID string
	Value       any
}

// resumeKey builds the well-known resume key for a command (spec §6,
// "Resume key format").
func resumeKey(nodeName, interruptID string) string {
	if interruptID != "" {
		return "resume:" + nodeName + ":" + interruptID
	}
	return "resume:" + nodeName
}

// ResumeValue looks up a node's resume value by the well-known key
// convention, for use inside node handlers.
func ResumeValue(state State, nodeName string) (any, bool) {
	v, ok := state[resumeKey(nodeName, "")]
	return v, ok
}

// ResumeValueForInterrupt looks up a resume value scoped to a specific
// interrupt id.
func ResumeValueForInterrupt(state State, nodeName, interruptID string) (any, bool) {
	v, ok := state[resumeKey(nodeName, interruptID)]
	return v, ok
}

// bindResume returns a copy of state with command's value injected
// under the well-known resume key for nodeName (spec §4.3, "Resume").
func bindResume(state State, nodeName string, cmd Command) State {
	out := state.Clone()
	out[resumeKey(nodeName, cmd.InterruptID)] = cmd.Value
	return out
}

// carriedResumeValues collects every still-present "resume:" entry in
// state, for re-attaching to a follow-on Checkpoint (spec §4.3,
// "resume_values = carried-over map").
func carriedResumeValues(state State) map[string]any {
	out := make(map[string]any)
	for k, v := range state {
		if len(k) > len("resume:") && k[:len("resume:")] == "resume:" {
			out[k] = v
		}
	}
	return out
}
