package session_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blueberrycongee/forge/session"
	"github.com/blueberrycongee/forge/tool"
)

func TestToSnapshotAndRestoreRoundTrip(t *testing.T) {
	s := session.NewState("sess-1")
	s.ToolCalls["call-1"] = tool.CallRecord{CallID: "call-1", ToolName: "echo", Status: tool.StateCompleted}
	s = s.FinalizeMessage(session.RoleAssistant) // no-op, nothing pending

	s.PendingParts = []session.Part{session.PartTextFinal{Text: "hi"}}
	s = s.FinalizeMessage(session.RoleAssistant)

	snap := session.ToSnapshot(s, nil, session.TraceSnapshot{}, []string{"run-log-1"})

	assert.Equal(t, session.SnapshotVersion, snap.Version)
	assert.Equal(t, "sess-1", snap.SessionID)
	assert.Len(t, snap.Messages, 1)
	assert.Contains(t, snap.ToolCalls, "call-1")
	assert.Equal(t, []string{"run-log-1"}, snap.RunLogRefs)

	restored := session.Restore(snap)
	assert.Equal(t, session.PhaseUserInput, restored.Phase)
	assert.Empty(t, restored.PendingParts)
	assert.Equal(t, snap.Messages, restored.Messages)
	assert.Contains(t, restored.ToolCalls, "call-1")
}

func TestSnapshotPushMessage(t *testing.T) {
	snap := session.Snapshot{SessionID: "sess-1"}
	snap = snap.PushMessage(session.Message{Role: session.RoleUser, Parts: []session.Part{session.PartTextFinal{Text: "hi"}}})

	require.Len(t, snap.ToMessages(), 1)
	assert.Equal(t, session.RoleUser, snap.ToMessages()[0].Role)
}

func TestSnapshotPushMessageSkipsNonTextualContent(t *testing.T) {
	snap := session.Snapshot{SessionID: "sess-1"}
	snap = snap.PushMessage(session.Message{
		Role:  session.RoleTool,
		Parts: []session.Part{session.PartToolResult{CallID: "call-1"}},
	})

	assert.Empty(t, snap.ToMessages())
}
