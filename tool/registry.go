package tool

import (
	"context"
	"fmt"
	"sync"

	"github.com/blueberrycongee/forge/event"
	"github.com/blueberrycongee/forge/fault"
)

// Registry maps tool names to their Definition and Handler. It is
// meant to be built once and shared, read-only, across runs (spec §5:
// "the tool registry and permission session are shared (immutable tool
// registry...)").
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
	defs     map[string]Definition
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		handlers: make(map[string]Handler),
		defs:     make(map[string]Definition),
	}
}

// RegisterWithDefinition stores a tool's declaration and handler.
func (r *Registry) RegisterWithDefinition(def Definition, handler Handler) error {
	if def.Name == "" {
		return fmt.Errorf("tool: definition name cannot be empty")
	}
	if handler == nil {
		return fmt.Errorf("tool: handler cannot be nil for %s", def.Name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.defs[def.Name] = def
	r.handlers[def.Name] = handler
	return nil
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.handlers[name]
	return ok
}

// Definition returns the registered Definition for name, if any.
func (r *Registry) Definition(name string) (Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.defs[name]
	return def, ok
}

// RunWithEvents invokes the named tool, emitting the fixed lifecycle
// event sequence through sink (spec §4.4, a hard contract — see §8 P2):
//
//	ToolStatus(Pending), ToolStart, ToolStatus(Running),
//	then either ToolResult, ToolStatus(Completed)
//	or        ToolError,  ToolStatus(Error).
func (r *Registry) RunWithEvents(ctx context.Context, name string, call Call, sink event.Sink) (Output, error) {
	r.mu.RLock()
	handler, ok := r.handlers[name]
	r.mu.RUnlock()

	if !ok {
		sink.Emit(event.ToolError{Tool: name, CallID: call.CallID, Error: "unknown tool"})
		return Output{}, fault.ExecutionError(name, "unknown tool: "+name)
	}

	sink.Emit(event.ToolStatus{CallID: call.CallID, State: event.ToolStatePending})
	sink.Emit(event.ToolStart{Tool: name, CallID: call.CallID, Input: call.Input})
	sink.Emit(event.ToolStatus{CallID: call.CallID, State: event.ToolStateRunning})

	output, err := handler(ctx, call)
	if err != nil {
		sink.Emit(event.ToolError{Tool: name, CallID: call.CallID, Error: err.Error()})
		sink.Emit(event.ToolStatus{CallID: call.CallID, State: event.ToolStateError})
		return Output{}, err
	}

	sink.Emit(event.ToolResult{
		Tool:   name,
		CallID: call.CallID,
		Output: toEventOutput(output),
	})
	sink.Emit(event.ToolStatus{CallID: call.CallID, State: event.ToolStateCompleted})
	return output, nil
}

func toEventOutput(o Output) event.ToolOutput {
	return event.ToolOutput{
		Content: o.Content,
		Metadata: event.ToolMetadata{
			MimeType:   o.Metadata.MimeType,
			Schema:     o.Metadata.Schema,
			Source:     o.Metadata.Source,
			Attributes: o.Metadata.Attributes,
		},
	}
}
