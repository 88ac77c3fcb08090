// Package graph implements Forge's graph execution engine (spec §2-4):
// a compiled routing plan with deterministic node dispatch, iteration
// bounds, and checkpoint/resume semantics. It is grounded on the
// teacher's graph package (StateGraph builder -> Graph -> Executor),
// simplified to the single-successor-per-step routing model spec.md
// describes rather than the teacher's Pregel-style channel fan-in.
package graph

import (
	"context"

	"github.com/blueberrycongee/forge/event"
	"github.com/blueberrycongee/forge/fault"
)

// Sink is the event sink streaming node handlers emit through. It is
// always the executor's recording sink in practice, but nodes only
// need the bare emit capability.
type Sink = event.Sink

// Sentinel node names reserved by the engine (spec §6). Any node name
// beginning with "__" is rejected at compile time.
const (
	Start = "__start__"
	End   = "__end__"
)

// State is the generic, user-defined data that flows through the
// graph. Following the teacher's graph.State, it is a plain map so
// node handlers can read/write fields without a schema negotiation
// step; Forge's engine only inspects its reserved keys: the "__next__"
// routing override, SessionIDKey, and the "resume:" keys.
type State map[string]any

// Clone returns a shallow copy of the state.
func (s State) Clone() State {
	clone := make(State, len(s))
	for k, v := range s {
		clone[k] = v
	}
	return clone
}

// nextOverrideKey is the reserved state key a node sets to force
// routing to a specific next node, bypassing edges/conditional routers
// (spec §4.2, "Routing rules").
const nextOverrideKey = "__next__"

// WithNext returns a copy of state with the routing override set.
func WithNext(state State, node string) State {
	out := state.Clone()
	out[nextOverrideKey] = node
	return out
}

// SessionIDKey is the reserved state key the executor reads to obtain
// a session id for the session-state reducer side channel (spec §4.3,
// "snapshot messages accrete"). If absent, the executor generates one.
const SessionIDKey = "session_id"

// nextOverride reads and clears the routing override, if present. It
// is one-shot: left uncleared, a node's __next__ would keep winning on
// every subsequent dispatch once its output state flows forward.
func nextOverride(state State) (string, bool) {
	v, ok := state[nextOverrideKey]
	if !ok {
		return "", false
	}
	delete(state, nextOverrideKey)
	s, _ := v.(string)
	return s, s != ""
}

// PlainFunc is a node handler that computes a new state from the
// current one.
type PlainFunc func(ctx context.Context, state State) (State, error)

// StreamFunc is a node handler that additionally streams events
// through sink while computing a new state.
type StreamFunc func(ctx context.Context, state State, sink Sink) (State, error)

// ConditionalFunc determines the next node id from the current state.
type ConditionalFunc func(ctx context.Context, state State) (string, error)

// handlerKind tags which of PlainFunc/StreamFunc a Node wraps.
type handlerKind int

const (
	handlerPlain handlerKind = iota
	handlerStream
)

// Node is one vertex in the graph: a named handler plus its kind.
// Nodes are polymorphic over two shapes (plain vs. streaming); we
// model that as a tagged variant rather than an interface hierarchy so
// the executor can match on it directly (spec §9, "Dynamic dispatch at
// node boundaries").
type Node struct {
	Name string
	kind handlerKind
	plain  PlainFunc
	stream StreamFunc
}

// Edge is a static, unconditional transition between two nodes.
type Edge struct {
	From string
	To   string
}

// ConditionalEdge routes dynamically based on the current state. If
// PathMap is non-nil, the router's result is translated through it;
// otherwise the router's result is used as the next node id directly.
type ConditionalEdge struct {
	From      string
	Router    ConditionalFunc
	PathMap   map[string]string
}

// CompiledGraph is the immutable routing plan produced by Compile. It
// resolves node name -> (handler, static successor, conditional
// router) so the executor never re-derives routing at run time (spec
// §4.2, "Compilation returns an immutable CompiledGraph").
type CompiledGraph struct {
	nodes            map[string]*Node
	staticNext       map[string]string
	conditionalEdges map[string]*ConditionalEdge
	entry            string
}

// Node looks up a compiled node by name.
func (g *CompiledGraph) Node(name string) (*Node, bool) {
	n, ok := g.nodes[name]
	return n, ok
}

// NewStreamNode builds a streaming Node outside a Builder, for
// packages (like loop) that produce a pre-built NodeSpec via their own
// into_node()-style constructor (spec §4.6) and hand it to
// Builder.AddNodeSpec.
func NewStreamNode(name string, fn StreamFunc) *Node {
	return &Node{Name: name, kind: handlerStream, stream: fn}
}

// run dispatches to whichever of plain/stream this node wraps.
func (n *Node) run(ctx context.Context, state State, sink Sink) (State, error) {
	if n.kind == handlerStream {
		return n.stream(ctx, state, sink)
	}
	return n.plain(ctx, state)
}

// EntryPoint returns the node the dispatch loop starts at.
func (g *CompiledGraph) EntryPoint() string {
	return g.entry
}

// resolveNext implements the routing rules of spec §4.2: an explicit
// state override wins; otherwise a conditional router (translated
// through its path map, if any); otherwise the static successor.
func (g *CompiledGraph) resolveNext(ctx context.Context, state State, current string) (string, error) {
	if next, ok := nextOverride(state); ok {
		return next, nil
	}
	if cond, ok := g.conditionalEdges[current]; ok {
		key, err := cond.Router(ctx, state)
		if err != nil {
			return "", fault.BranchError(current, err.Error())
		}
		if cond.PathMap != nil {
			target, ok := cond.PathMap[key]
			if !ok {
				return "", fault.BranchError(current, "conditional result "+key+" not found in path map")
			}
			return target, nil
		}
		return key, nil
	}
	if next, ok := g.staticNext[current]; ok {
		return next, nil
	}
	return End, nil
}
