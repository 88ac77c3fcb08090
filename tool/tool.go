// Package tool implements the tool registry (spec §4.4): a name to
// handler map with a declaration schema, plus the fixed lifecycle
// event sequence every tool invocation emits.
package tool

import "context"

// Definition describes a tool's name, purpose, and expected input
// shape. InputSchema is a structured, JSON-schema-shaped value; Forge
// does not validate against it itself (that's a caller concern).
type Definition struct {
	Name        string
	Description string
	InputSchema any
}

// Call is one invocation of a registered tool.
type Call struct {
	ToolName string
	CallID   string
	Input    any
}

// Metadata is auxiliary, caller-supplied information about an Output.
type Metadata struct {
	MimeType   string         `json:"mime_type,omitempty"`
	Schema     string         `json:"schema,omitempty"`
	Source     string         `json:"source,omitempty"`
	Attributes map[string]any `json:"attributes,omitempty"`
}

// Output is the result of a completed tool call.
type Output struct {
	Content  string   `json:"content"`
	Metadata Metadata `json:"metadata"`
}

// State is the lifecycle state of a tracked tool call (spec §3).
type State string

// The only two legal lifecycle paths are Pending->Running->Completed
// and Pending->Running->Error.
const (
	StatePending   State = "pending"
	StateRunning   State = "running"
	StateCompleted State = "completed"
	StateError     State = "error"
)

// CallRecord is the durable record of one tool call's lifecycle,
// tracked inside session.State.
type CallRecord struct {
	CallID   string  `json:"call_id"`
	ToolName string  `json:"tool_name"`
	Status   State   `json:"status"`
	Output   *Output `json:"output,omitempty"`
	Error    string  `json:"error,omitempty"`
}

// Handler executes a tool call. It receives the call and the
// context.Context given to RunWithEvents; the loop node passes its own
// ctx through unchanged, so a handler has no access to the loop
// node's Context.
type Handler func(ctx context.Context, call Call) (Output, error)
