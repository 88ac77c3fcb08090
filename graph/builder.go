package graph

import (
	"strings"

	"github.com/blueberrycongee/forge/fault"
)

// Builder assembles nodes and edges into a CompiledGraph (spec §4.2).
// Use NewBuilder, add nodes/edges, then Compile.
type Builder struct {
	nodes            map[string]*Node
	order            []string
	edges            map[string]*Edge
	conditionalEdges map[string]*ConditionalEdge
	entry            string
	finish           string
}

// NewBuilder creates an empty graph Builder.
func NewBuilder() *Builder {
	return &Builder{
		nodes:            make(map[string]*Node),
		edges:            make(map[string]*Edge),
		conditionalEdges: make(map[string]*ConditionalEdge),
	}
}

func validNodeName(name string) error {
	if name == "" || name == Start || name == End || strings.HasPrefix(name, "__") {
		return fault.InvalidNodeName(name)
	}
	return nil
}

func (b *Builder) addNode(node *Node) error {
	if err := validNodeName(node.Name); err != nil {
		return err
	}
	if _, exists := b.nodes[node.Name]; exists {
		return fault.NodeAlreadyExists(node.Name)
	}
	b.nodes[node.Name] = node
	b.order = append(b.order, node.Name)
	return nil
}

// AddNode registers a plain node: it computes a new state and returns.
func (b *Builder) AddNode(name string, fn PlainFunc) error {
	return b.addNode(&Node{Name: name, kind: handlerPlain, plain: fn})
}

// AddStreamNode registers a streaming node: it emits events through a
// sink while computing a new state.
func (b *Builder) AddStreamNode(name string, fn StreamFunc) error {
	return b.addNode(&Node{Name: name, kind: handlerStream, stream: fn})
}

// AddNodeSpec registers a pre-built Node, such as one produced by
// loop.Node.IntoNode().
func (b *Builder) AddNodeSpec(node *Node) error {
	return b.addNode(node)
}

// AddEdge adds a static, unconditional edge from one node to another.
// From may be Start; To may be End.
func (b *Builder) AddEdge(from, to string) error {
	if from != Start {
		if _, ok := b.nodes[from]; !ok {
			return fault.InvalidEdge(from, to, "source node does not exist")
		}
	}
	if to != End {
		if _, ok := b.nodes[to]; !ok {
			return fault.InvalidEdge(from, to, "target node does not exist")
		}
	}
	if from == Start {
		b.entry = to
		return nil
	}
	if _, exists := b.conditionalEdges[from]; exists {
		return fault.ValidationError("node " + from + " has overlapping static and conditional successors")
	}
	b.edges[from] = &Edge{From: from, To: to}
	return nil
}

// AddConditionalEdges adds dynamic routing from a node. pathMap may be
// nil, in which case the router's return value is used directly as
// the next node id.
func (b *Builder) AddConditionalEdges(from string, router ConditionalFunc, pathMap map[string]string) error {
	if from != Start {
		if _, ok := b.nodes[from]; !ok {
			return fault.InvalidEdge(from, "", "source node does not exist")
		}
	}
	for _, to := range pathMap {
		if to != End {
			if _, ok := b.nodes[to]; !ok {
				return fault.InvalidEdge(from, to, "target node does not exist")
			}
		}
	}
	if _, exists := b.edges[from]; exists {
		return fault.ValidationError("node " + from + " has overlapping static and conditional successors")
	}
	b.conditionalEdges[from] = &ConditionalEdge{From: from, Router: router, PathMap: pathMap}
	return nil
}

// SetEntryPoint is sugar for AddEdge(Start, node).
func (b *Builder) SetEntryPoint(node string) error {
	return b.AddEdge(Start, node)
}

// SetFinishPoint is sugar for AddEdge(node, End).
func (b *Builder) SetFinishPoint(node string) error {
	return b.AddEdge(node, End)
}

// Compile validates the graph and returns an immutable CompiledGraph
// (spec §4.2, compile-time validation).
func (b *Builder) Compile() (*CompiledGraph, error) {
	if b.entry == "" {
		return nil, fault.NoEntryPoint()
	}
	if _, ok := b.nodes[b.entry]; !ok {
		return nil, fault.NodeNotFound(b.entry)
	}
	if !b.hasPathToEnd(b.entry, make(map[string]bool)) {
		return nil, fault.NoEntryPoint()
	}

	staticNext := make(map[string]string, len(b.edges))
	for from, edge := range b.edges {
		staticNext[from] = edge.To
	}

	compiled := &CompiledGraph{
		nodes:            b.nodes,
		staticNext:       staticNext,
		conditionalEdges: b.conditionalEdges,
		entry:            b.entry,
	}
	return compiled, nil
}

// hasPathToEnd performs a DFS over static and conditional edges to
// confirm __end__ is reachable from node. Conditional edges without a
// path map are assumed reachable (their target is computed at run
// time); edges through a path map are checked against each declared
// target.
func (b *Builder) hasPathToEnd(node string, visited map[string]bool) bool {
	if node == End {
		return true
	}
	if visited[node] {
		return false
	}
	visited[node] = true

	if edge, ok := b.edges[node]; ok {
		if b.hasPathToEnd(edge.To, visited) {
			return true
		}
	}
	if cond, ok := b.conditionalEdges[node]; ok {
		if cond.PathMap == nil {
			// Router result is arbitrary; trust it can reach __end__.
			return true
		}
		for _, to := range cond.PathMap {
			if b.hasPathToEnd(to, visited) {
				return true
			}
		}
	}
	if _, hasEdge := b.edges[node]; !hasEdge {
		if _, hasCond := b.conditionalEdges[node]; !hasCond {
			// No outgoing edges at all: the executor treats this as an
			// implicit route to __end__ (spec §4.2 default).
			return true
		}
	}
	return false
}
