package loop_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blueberrycongee/forge/event"
	"github.com/blueberrycongee/forge/fault"
	"github.com/blueberrycongee/forge/graph"
	"github.com/blueberrycongee/forge/loop"
	"github.com/blueberrycongee/forge/permission"
	"github.com/blueberrycongee/forge/tool"
)

func echoHandler(_ context.Context, call tool.Call) (tool.Output, error) {
	input := call.Input.(map[string]any)
	return tool.Output{Content: input["text"].(string)}, nil
}

func buildEchoRegistry(t *testing.T) *tool.Registry {
	reg := tool.NewRegistry()
	require.NoError(t, reg.RegisterWithDefinition(tool.Definition{Name: "echo"}, echoHandler))
	return reg
}

func echoCallHandler() loop.HandlerFunc {
	return func(ctx context.Context, state graph.State, lc *loop.Context) (graph.State, error) {
		_, err := lc.RunTool(ctx, tool.Call{ToolName: "echo", CallID: "call-1", Input: map[string]any{"text": "hi"}})
		if err != nil {
			return state, err
		}
		return state, nil
	}
}

func buildLoopGraph(t *testing.T, node *loop.Node) *graph.CompiledGraph {
	b := graph.NewBuilder()
	require.NoError(t, b.AddNodeSpec(node.IntoNode()))
	require.NoError(t, b.SetEntryPoint(node.Name))
	require.NoError(t, b.SetFinishPoint(node.Name))
	compiled, err := b.Compile()
	require.NoError(t, err)
	return compiled
}

// S2 — Echo tool allow.
func TestLoopNodeEchoToolAllow(t *testing.T) {
	reg := buildEchoRegistry(t)
	session := permission.NewSession(permission.NewPolicy(permission.Rule{Pattern: "tool:echo", Decision: permission.Allow}))
	node := loop.NewNode("assistant", echoCallHandler(), reg, session)
	compiled := buildLoopGraph(t, node)

	exec := graph.NewExecutor(compiled)
	sink := &event.SliceSink{}

	outcome, err := exec.StreamEvents(context.Background(), graph.State{}, sink)
	require.NoError(t, err)
	assert.Nil(t, outcome.Checkpoint)

	require.Len(t, sink.Events, 7)
	assert.IsType(t, event.RunStarted{}, sink.Events[0])
	assert.Equal(t, event.ToolStatus{CallID: "call-1", State: event.ToolStatePending}, sink.Events[1])
	assert.Equal(t, event.ToolStart{Tool: "echo", CallID: "call-1", Input: map[string]any{"text": "hi"}}, sink.Events[2])
	assert.Equal(t, event.ToolStatus{CallID: "call-1", State: event.ToolStateRunning}, sink.Events[3])
	assert.Equal(t, event.ToolResult{Tool: "echo", CallID: "call-1", Output: event.ToolOutput{Content: "hi"}}, sink.Events[4])
	assert.Equal(t, event.ToolStatus{CallID: "call-1", State: event.ToolStateCompleted}, sink.Events[5])
	assert.IsType(t, event.RunCompleted{}, sink.Events[6])
}

// S3 — Ask and resume.
func TestLoopNodeAskAndResume(t *testing.T) {
	reg := buildEchoRegistry(t)
	session := permission.NewSession(permission.NewPolicy(permission.Rule{Pattern: "tool:echo", Decision: permission.Ask}))
	node := loop.NewNode("assistant", echoCallHandler(), reg, session)
	compiled := buildLoopGraph(t, node)

	exec := graph.NewExecutor(compiled, graph.WithPermissionSession(session))
	sink := &event.SliceSink{}

	outcome, err := exec.StreamEvents(context.Background(), graph.State{}, sink)
	require.NoError(t, err)
	require.NotNil(t, outcome.Checkpoint)

	require.Len(t, sink.Events, 3)
	assert.IsType(t, event.RunStarted{}, sink.Events[0])
	assert.Equal(t, event.PermissionAsked{Permission: "tool:echo", Patterns: []string{"tool:echo"}}, sink.Events[1])
	assert.IsType(t, event.RunPaused{}, sink.Events[2])

	require.Len(t, outcome.Checkpoint.PendingInterrupts, 1)
	req, ok := outcome.Checkpoint.PendingInterrupts[0].Value.(permission.Request)
	require.True(t, ok)
	assert.Equal(t, permission.Request{Permission: "tool:echo", Tool: "echo", CallID: "call-1", Input: map[string]any{"text": "hi"}}, req)
	assert.Equal(t, node.Name, outcome.Checkpoint.NextNode)

	resumeSink := &event.SliceSink{}
	cmd := graph.Command{Value: permission.ResumeValue{Permission: "tool:echo", Reply: permission.ReplyAlways}}
	resumed, err := exec.Resume(context.Background(), *outcome.Checkpoint, cmd, resumeSink)
	require.NoError(t, err)
	assert.Nil(t, resumed.Checkpoint)

	require.Len(t, resumeSink.Events, 8)
	assert.IsType(t, event.RunResumed{}, resumeSink.Events[0])
	assert.Equal(t, event.PermissionReplied{Permission: "tool:echo", Reply: event.PermissionReplyAlways}, resumeSink.Events[1])
	assert.Equal(t, event.ToolStatus{CallID: "call-1", State: event.ToolStatePending}, resumeSink.Events[2])
	assert.IsType(t, event.ToolStart{}, resumeSink.Events[3])
	assert.Equal(t, event.ToolStatus{CallID: "call-1", State: event.ToolStateRunning}, resumeSink.Events[4])
	assert.IsType(t, event.ToolResult{}, resumeSink.Events[5])
	assert.Equal(t, event.ToolStatus{CallID: "call-1", State: event.ToolStateCompleted}, resumeSink.Events[6])
	assert.IsType(t, event.RunCompleted{}, resumeSink.Events[7])

	assert.Equal(t, permission.Allow, session.Decide("tool:echo"))
	snap := session.Snapshot()
	assert.Contains(t, snap.Always, "tool:echo")
}

// S4 — Deny.
func TestLoopNodeDeny(t *testing.T) {
	reg := buildEchoRegistry(t)
	session := permission.NewSession(permission.NewPolicy(permission.Rule{Pattern: "tool:echo", Decision: permission.Deny}))
	node := loop.NewNode("assistant", echoCallHandler(), reg, session)
	compiled := buildLoopGraph(t, node)

	exec := graph.NewExecutor(compiled)
	sink := &event.SliceSink{}

	_, err := exec.StreamEvents(context.Background(), graph.State{}, sink)
	require.Error(t, err)

	var fe *fault.Error
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, fault.KindExecutionError, fe.Kind)
	assert.Contains(t, fe.Message, "permission denied")

	require.Len(t, sink.Events, 3)
	assert.IsType(t, event.RunStarted{}, sink.Events[0])
	assert.Equal(t, event.ToolError{Tool: "echo", CallID: "call-1", Error: "permission denied"}, sink.Events[1])
	assert.IsType(t, event.RunFailed{}, sink.Events[2])
}
