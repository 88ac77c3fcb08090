package loop

import (
	"context"

	"github.com/blueberrycongee/forge/graph"
	"github.com/blueberrycongee/forge/permission"
	"github.com/blueberrycongee/forge/tool"
)

// HandlerFunc is the caller-supplied handler a loop Node wraps (spec
// §4.6): it computes a new state, calling into Context to run tools
// and answer permission prompts.
type HandlerFunc func(ctx context.Context, state graph.State, lc *Context) (graph.State, error)

// Node is a tool-calling streaming node (spec §4.6).
type Node struct {
	Name        string
	Handler     HandlerFunc
	Tools       *tool.Registry
	Permissions *permission.Session
}

// NewNode builds a loop Node.
func NewNode(name string, handler HandlerFunc, tools *tool.Registry, permissions *permission.Session) *Node {
	return &Node{Name: name, Handler: handler, Tools: tools, Permissions: permissions}
}

// IntoNode produces a graph.NodeSpec the builder accepts (spec §4.6).
func (n *Node) IntoNode() *graph.Node {
	return graph.NewStreamNode(n.Name, func(ctx context.Context, state graph.State, sink graph.Sink) (graph.State, error) {
		lc := &Context{
			Sink:        sink,
			Tools:       n.Tools,
			Permissions: n.Permissions,
			NodeName:    n.Name,
		}
		return n.Handler(ctx, state, lc)
	})
}
