// Package event defines the wire-level shape of every observable
// happening inside a Forge run: a tagged union of record kinds, each
// an immutable value type that round-trips through JSON.
package event

// Kind identifies the concrete shape of an Event.
type Kind string

// Event kinds. Field stability matters here: these strings are the
// wire-level "kind" tag (spec §6) and must not be renamed once shipped.
const (
	KindRunStarted                     Kind = "run_started"
	KindRunPaused                      Kind = "run_paused"
	KindRunResumed                     Kind = "run_resumed"
	KindRunCompleted                   Kind = "run_completed"
	KindRunFailed                      Kind = "run_failed"
	KindTextDelta                      Kind = "text_delta"
	KindTextFinal                      Kind = "text_final"
	KindAttachment                     Kind = "attachment"
	KindError                          Kind = "error"
	KindToolStart                      Kind = "tool_start"
	KindToolUpdate                     Kind = "tool_update"
	KindToolResult                     Kind = "tool_result"
	KindToolError                      Kind = "tool_error"
	KindToolStatus                     Kind = "tool_status"
	KindPermissionAsked                Kind = "permission_asked"
	KindPermissionReplied              Kind = "permission_replied"
	KindSessionCompacted               Kind = "session_compacted"
	KindSessionPhaseChanged            Kind = "session_phase_changed"
	KindSessionPhaseTransitionRejected Kind = "session_phase_transition_rejected"
	KindStepFinish                     Kind = "step_finish"
)

// Event is the common interface satisfied by every concrete record
// kind. Implementations are value types and equality-comparable.
type Event interface {
	Kind() Kind
}

// ToolState is the lifecycle state of a tracked tool call.
type ToolState string

// Legal tool lifecycle states. The only legal transitions are
// Pending->Running->Completed and Pending->Running->Error (spec §3).
const (
	ToolStatePending   ToolState = "pending"
	ToolStateRunning   ToolState = "running"
	ToolStateCompleted ToolState = "completed"
	ToolStateError     ToolState = "error"
)

// PermissionReply is the caller's answer to a PermissionAsked event.
type PermissionReply string

// The exact set of legal permission replies (spec §6).
const (
	PermissionReplyOnce   PermissionReply = "once"
	PermissionReplyAlways PermissionReply = "always"
	PermissionReplyReject PermissionReply = "reject"
)

// TokenUsage is the token accounting attached to a StepFinish event.
type TokenUsage struct {
	InputTokens     uint64 `json:"input_tokens"`
	OutputTokens    uint64 `json:"output_tokens"`
	ReasoningTokens uint64 `json:"reasoning_tokens,omitempty"`
	CacheReadTokens uint64 `json:"cache_read_tokens,omitempty"`
}

// AttachmentPayload is an opaque reference to attachment content. The
// attachment blob store itself is an external collaborator (spec §1
// Non-goals); Forge only carries the reference.
type AttachmentPayload struct {
	Ref      string `json:"ref"`
	MimeType string `json:"mime_type,omitempty"`
}

// ToolMetadata describes auxiliary information about a ToolOutput.
type ToolMetadata struct {
	MimeType   string         `json:"mime_type,omitempty"`
	Schema     string         `json:"schema,omitempty"`
	Source     string         `json:"source,omitempty"`
	Attributes map[string]any `json:"attributes,omitempty"`
}

// ToolOutput is the result of a completed tool call.
type ToolOutput struct {
	Content  string       `json:"content"`
	Metadata ToolMetadata `json:"metadata"`
}

// RunStarted marks the beginning of a run (or the portion of a run
// that begins at the current dispatch loop entry).
type RunStarted struct {
	RunID string `json:"run_id"`
}

// Kind implements Event.
func (RunStarted) Kind() Kind { return KindRunStarted }

// RunPaused marks a run suspending into a Checkpoint.
type RunPaused struct {
	RunID        string `json:"run_id"`
	CheckpointID string `json:"checkpoint_id"`
}

// Kind implements Event.
func (RunPaused) Kind() Kind { return KindRunPaused }

// RunResumed marks a run continuing from a Checkpoint.
type RunResumed struct {
	RunID        string `json:"run_id"`
	CheckpointID string `json:"checkpoint_id"`
}

// Kind implements Event.
func (RunResumed) Kind() Kind { return KindRunResumed }

// RunCompleted marks a run reaching __end__.
type RunCompleted struct {
	RunID string `json:"run_id"`
}

// Kind implements Event.
func (RunCompleted) Kind() Kind { return KindRunCompleted }

// RunFailed marks a run terminating with a fatal error.
type RunFailed struct {
	RunID   string `json:"run_id"`
	Message string `json:"message"`
}

// Kind implements Event.
func (RunFailed) Kind() Kind { return KindRunFailed }

// TextDelta is an incremental chunk of assistant text.
type TextDelta struct {
	SessionID string `json:"session_id"`
	MessageID string `json:"message_id"`
	Delta     string `json:"delta"`
}

// Kind implements Event.
func (TextDelta) Kind() Kind { return KindTextDelta }

// TextFinal closes the text span a sequence of TextDelta accreted.
type TextFinal struct {
	SessionID string `json:"session_id"`
	MessageID string `json:"message_id"`
	Text      string `json:"text"`
}

// Kind implements Event.
func (TextFinal) Kind() Kind { return KindTextFinal }

// Attachment carries a reference to an out-of-band blob.
type Attachment struct {
	SessionID string            `json:"session_id"`
	MessageID string            `json:"message_id"`
	Payload   AttachmentPayload `json:"payload"`
}

// Kind implements Event.
func (Attachment) Kind() Kind { return KindAttachment }

// Error is a non-fatal, session-scoped error surfaced to observers.
type Error struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

// Kind implements Event.
func (Error) Kind() Kind { return KindError }

// ToolStart marks a tool call beginning execution.
type ToolStart struct {
	Tool   string `json:"tool"`
	CallID string `json:"call_id"`
	Input  any    `json:"input"`
}

// Kind implements Event.
func (ToolStart) Kind() Kind { return KindToolStart }

// ToolUpdate carries an incremental patch for a running tool call.
type ToolUpdate struct {
	CallID string `json:"call_id"`
	Patch  any    `json:"patch"`
}

// Kind implements Event.
func (ToolUpdate) Kind() Kind { return KindToolUpdate }

// ToolResult marks a tool call completing successfully.
type ToolResult struct {
	Tool   string     `json:"tool"`
	CallID string     `json:"call_id"`
	Output ToolOutput `json:"output"`
}

// Kind implements Event.
func (ToolResult) Kind() Kind { return KindToolResult }

// ToolError marks a tool call completing with a failure.
type ToolError struct {
	Tool   string `json:"tool"`
	CallID string `json:"call_id"`
	Error  string `json:"error"`
}

// Kind implements Event.
func (ToolError) Kind() Kind { return KindToolError }

// ToolStatus reports a tool call's lifecycle state transition.
type ToolStatus struct {
	CallID string    `json:"call_id"`
	State  ToolState `json:"state"`
}

// Kind implements Event.
func (ToolStatus) Kind() Kind { return KindToolStatus }

// PermissionAsked marks the loop node suspending on a permission gate.
type PermissionAsked struct {
	Permission string   `json:"permission"`
	Patterns   []string `json:"patterns"`
}

// Kind implements Event.
func (PermissionAsked) Kind() Kind { return KindPermissionAsked }

// PermissionReplied marks a permission prompt being answered.
type PermissionReplied struct {
	Permission string          `json:"permission"`
	Reply      PermissionReply `json:"reply"`
}

// Kind implements Event.
func (PermissionReplied) Kind() Kind { return KindPermissionReplied }

// SessionCompacted marks a compaction hook replacing older history
// with a summary.
type SessionCompacted struct {
	SessionID string `json:"session_id"`
	Summary   string `json:"summary"`
}

// Kind implements Event.
func (SessionCompacted) Kind() Kind { return KindSessionCompacted }

// SessionPhase is the coarse mode of the session state machine.
type SessionPhase string

// The full set of legal session phases (spec §3).
const (
	SessionPhaseUserInput   SessionPhase = "user_input"
	SessionPhaseThinking    SessionPhase = "thinking"
	SessionPhaseStreaming   SessionPhase = "streaming"
	SessionPhaseTool        SessionPhase = "tool"
	SessionPhaseFinalize    SessionPhase = "finalize"
	SessionPhaseCompleted   SessionPhase = "completed"
	SessionPhaseInterrupted SessionPhase = "interrupted"
	SessionPhaseResumed     SessionPhase = "resumed"
)

// SessionPhaseChanged reports a phase transition that was applied.
type SessionPhaseChanged struct {
	From SessionPhase `json:"from"`
	To   SessionPhase `json:"to"`
}

// Kind implements Event.
func (SessionPhaseChanged) Kind() Kind { return KindSessionPhaseChanged }

// SessionPhaseTransitionRejected reports a phase transition that the
// phase machine refused. From/To mirror the current (unchanged) phase;
// Attempt carries the phase that was requested and rejected.
type SessionPhaseTransitionRejected struct {
	From    SessionPhase `json:"from"`
	To      SessionPhase `json:"to"`
	Attempt SessionPhase `json:"attempt"`
}

// Kind implements Event.
func (SessionPhaseTransitionRejected) Kind() Kind { return KindSessionPhaseTransitionRejected }

// StepFinish closes a model generation step with usage accounting.
type StepFinish struct {
	Tokens TokenUsage `json:"tokens"`
	Cost   float64    `json:"cost"`
}

// Kind implements Event.
func (StepFinish) Kind() Kind { return KindStepFinish }
