// Package loop implements the tool-calling streaming node (spec
// §4.6): a node type that repeatedly invokes external tools under a
// permission gate, emitting lifecycle events and suspending the run to
// ask a human when a tool is not pre-approved.
package loop

import (
	"context"

	"github.com/blueberrycongee/forge/event"
	"github.com/blueberrycongee/forge/fault"
	"github.com/blueberrycongee/forge/permission"
	"github.com/blueberrycongee/forge/tool"
)

// Context is what a loop node's handler receives alongside state: a
// reference to the event sink, the shared tool registry, and the
// shared permission session (spec §4.6). The session-state companion
// spec §4.6 also names is realized one level up, in the executor's
// recording sink: every event RunTool/ReplyPermission/ResumePermission
// emits through Sink already folds through that single reducer, so
// Context does not carry a second, possibly-divergent copy.
type Context struct {
	Sink        event.Sink
	Tools       *tool.Registry
	Permissions *permission.Session
	NodeName    string
}

// permissionFor builds the permission string for a tool call: the
// "tool:{name}" convention (spec §4.6).
func permissionFor(toolName string) string {
	return "tool:" + toolName
}

// RunTool runs a tool call under the permission gate (spec §4.6):
// Allow forwards to the tool registry; Ask emits PermissionAsked and
// suspends the run with a PermissionRequest interrupt; Deny emits a
// synthetic ToolError and fails the node.
func (c *Context) RunTool(ctx context.Context, call tool.Call) (tool.Output, error) {
	perm := permissionFor(call.ToolName)

	switch c.Permissions.Decide(perm) {
	case permission.Allow:
		return c.Tools.RunWithEvents(ctx, call.ToolName, call, c.Sink)

	case permission.Ask:
		c.Sink.Emit(event.PermissionAsked{Permission: perm, Patterns: []string{perm}})
		request := permission.Request{
			Permission: perm,
			Tool:       call.ToolName,
			CallID:     call.CallID,
			Input:      call.Input,
		}
		interrupt := fault.Interrupt{ID: call.CallID, NodeName: c.NodeName, Value: request}
		return tool.Output{}, fault.Interrupted([]fault.Interrupt{interrupt})

	default: // permission.Deny
		c.Sink.Emit(event.ToolError{Tool: call.ToolName, CallID: call.CallID, Error: "permission denied"})
		return tool.Output{}, fault.ExecutionError(c.NodeName, "permission denied")
	}
}

// ReplyPermission applies reply to the permission session and emits
// PermissionReplied (spec §4.6).
func (c *Context) ReplyPermission(perm string, reply permission.Reply) {
	c.Permissions.ApplyReply(perm, reply)
	c.Sink.Emit(event.PermissionReplied{Permission: perm, Reply: event.PermissionReply(reply)})
}

// ResumePermission parses a resume value for a permission interrupt,
// applies it to the session, and emits PermissionReplied (spec §4.6).
func (c *Context) ResumePermission(value any) error {
	rv, ok := value.(permission.ResumeValue)
	if !ok {
		return fault.Other("malformed resume value")
	}
	if err := c.Permissions.ApplyResume(rv); err != nil {
		return err
	}
	c.Sink.Emit(event.PermissionReplied{Permission: rv.Permission, Reply: event.PermissionReply(rv.Reply)})
	return nil
}
