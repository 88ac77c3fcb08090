package session

import (
	"encoding/json"
	"fmt"

	"github.com/blueberrycongee/forge/event"
	"github.com/blueberrycongee/forge/tool"
)

// Role identifies who produced a Message.
type Role string

// The four message roles (spec §3).
const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// PartKind discriminates the concrete Part shape on the wire, the same
// way event.Kind tags an Event (spec §3, §6: "Each event serialises to
// {kind, ...fields}" — Message.Parts needs the same tagging, since Part
// is a Go interface and encoding/json cannot otherwise pick a concrete
// type to unmarshal into).
type PartKind string

// The six Part kinds spec §3 names.
const (
	PartKindTextDelta  PartKind = "text_delta"
	PartKindTextFinal  PartKind = "text_final"
	PartKindToolResult PartKind = "tool_result"
	PartKindToolError  PartKind = "tool_error"
	PartKindAttachment PartKind = "attachment"
	PartKindTokenUsage PartKind = "token_usage"
)

// Part is one piece of a Message. Parts preserve arrival order; a
// TextDelta accretes until a TextFinal closes the text span.
type Part interface {
	partMarker()
	Kind() PartKind
}

// PartTextDelta is an incremental chunk of streamed text.
type PartTextDelta struct {
	Text string `json:"text"`
}

func (PartTextDelta) partMarker()    {}
func (PartTextDelta) Kind() PartKind { return PartKindTextDelta }

// PartTextFinal closes a text span.
type PartTextFinal struct {
	Text string `json:"text"`
}

func (PartTextFinal) partMarker()    {}
func (PartTextFinal) Kind() PartKind { return PartKindTextFinal }

// PartToolResult records a completed tool call's output inline in the
// message history.
type PartToolResult struct {
	CallID string      `json:"call_id"`
	Output tool.Output `json:"output"`
}

func (PartToolResult) partMarker()    {}
func (PartToolResult) Kind() PartKind { return PartKindToolResult }

// PartToolError records a failed tool call inline in the message
// history.
type PartToolError struct {
	CallID string `json:"call_id"`
	Error  string `json:"error"`
}

func (PartToolError) partMarker()    {}
func (PartToolError) Kind() PartKind { return PartKindToolError }

// PartAttachment carries an attachment reference inline.
type PartAttachment struct {
	Payload event.AttachmentPayload `json:"payload"`
}

func (PartAttachment) partMarker()    {}
func (PartAttachment) Kind() PartKind { return PartKindAttachment }

// PartTokenUsage records token accounting for a completed step.
type PartTokenUsage struct {
	Tokens event.TokenUsage `json:"tokens"`
}

func (PartTokenUsage) partMarker()    {}
func (PartTokenUsage) Kind() PartKind { return PartKindTokenUsage }

// partEnvelope is the {kind, ...fields} wire shape a Part round-trips
// through (spec §6). MarshalJSON/UnmarshalJSON on Message use this to
// pick a concrete Part type on the way back in.
type partEnvelope struct {
	Kind PartKind `json:"kind"`
	Part
}

func (p partEnvelope) MarshalJSON() ([]byte, error) {
	body, err := json.Marshal(p.Part)
	if err != nil {
		return nil, err
	}
	merged := map[string]json.RawMessage{}
	if err := json.Unmarshal(body, &merged); err != nil {
		return nil, err
	}
	kindJSON, err := json.Marshal(p.Kind)
	if err != nil {
		return nil, err
	}
	merged["kind"] = kindJSON
	return json.Marshal(merged)
}

func marshalPart(p Part) (json.RawMessage, error) {
	return json.Marshal(partEnvelope{Kind: p.Kind(), Part: p})
}

func unmarshalPart(data []byte) (Part, error) {
	var head struct {
		Kind PartKind `json:"kind"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, err
	}
	switch head.Kind {
	case PartKindTextDelta:
		var p PartTextDelta
		err := json.Unmarshal(data, &p)
		return p, err
	case PartKindTextFinal:
		var p PartTextFinal
		err := json.Unmarshal(data, &p)
		return p, err
	case PartKindToolResult:
		var p PartToolResult
		err := json.Unmarshal(data, &p)
		return p, err
	case PartKindToolError:
		var p PartToolError
		err := json.Unmarshal(data, &p)
		return p, err
	case PartKindAttachment:
		var p PartAttachment
		err := json.Unmarshal(data, &p)
		return p, err
	case PartKindTokenUsage:
		var p PartTokenUsage
		err := json.Unmarshal(data, &p)
		return p, err
	default:
		return nil, fmt.Errorf("session: unknown part kind %q", head.Kind)
	}
}

// Message is one turn in the session history.
type Message struct {
	Role  Role
	Parts []Part
}

// messageJSON is Message's wire shape: Parts round-trip through the
// {kind, ...fields} envelope so the polymorphic Part interface survives
// encoding/json's concrete-type requirement on Unmarshal.
type messageJSON struct {
	Role  Role              `json:"role"`
	Parts []json.RawMessage `json:"parts"`
}

// MarshalJSON implements json.Marshaler.
func (m Message) MarshalJSON() ([]byte, error) {
	parts := make([]json.RawMessage, len(m.Parts))
	for i, p := range m.Parts {
		raw, err := marshalPart(p)
		if err != nil {
			return nil, err
		}
		parts[i] = raw
	}
	return json.Marshal(messageJSON{Role: m.Role, Parts: parts})
}

// UnmarshalJSON implements json.Unmarshaler.
func (m *Message) UnmarshalJSON(data []byte) error {
	var mj messageJSON
	if err := json.Unmarshal(data, &mj); err != nil {
		return err
	}
	parts := make([]Part, len(mj.Parts))
	for i, raw := range mj.Parts {
		p, err := unmarshalPart(raw)
		if err != nil {
			return err
		}
		parts[i] = p
	}
	m.Role = mj.Role
	m.Parts = parts
	return nil
}

// State is the structured record a Reducer folds the event stream
// into: messages, pending parts, tool-call records, and the session
// phase (spec §3).
type State struct {
	SessionID    string
	MessageID    string
	Step         uint64
	PendingParts []Part
	Messages     []Message
	ToolCalls    map[string]tool.CallRecord
	Phase        Phase
	Next         string
	Complete     bool
}

// NewState creates a fresh State in its default initial phase,
// UserInput (spec §3).
func NewState(sessionID string) State {
	return State{
		SessionID: sessionID,
		ToolCalls: make(map[string]tool.CallRecord),
		Phase:     PhaseUserInput,
	}
}

// Clone returns a deep-enough copy of state for safe independent
// mutation (used by the reducer, which never mutates its input).
func (s State) Clone() State {
	out := s
	out.PendingParts = append([]Part(nil), s.PendingParts...)
	out.Messages = append([]Message(nil), s.Messages...)
	out.ToolCalls = make(map[string]tool.CallRecord, len(s.ToolCalls))
	for k, v := range s.ToolCalls {
		out.ToolCalls[k] = v
	}
	return out
}

// FinalizeMessage drains PendingParts into a new Message appended to
// Messages, tagged with role. No-op if PendingParts is empty (spec
// §4.7).
func (s State) FinalizeMessage(role Role) State {
	if len(s.PendingParts) == 0 {
		return s
	}
	out := s.Clone()
	out.Messages = append(out.Messages, Message{Role: role, Parts: out.PendingParts})
	out.PendingParts = nil
	return out
}
