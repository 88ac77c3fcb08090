package session_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/blueberrycongee/forge/event"
	"github.com/blueberrycongee/forge/session"
)

func TestCanTransitionLegalPath(t *testing.T) {
	assert.True(t, session.CanTransition(session.PhaseUserInput, session.PhaseThinking))
	assert.True(t, session.CanTransition(session.PhaseThinking, session.PhaseStreaming))
	assert.True(t, session.CanTransition(session.PhaseThinking, session.PhaseTool))
	assert.True(t, session.CanTransition(session.PhaseTool, session.PhaseStreaming))
	assert.True(t, session.CanTransition(session.PhaseStreaming, session.PhaseFinalize))
	assert.True(t, session.CanTransition(session.PhaseFinalize, session.PhaseCompleted))
}

func TestCanTransitionRejectsIllegalJump(t *testing.T) {
	assert.False(t, session.CanTransition(session.PhaseUserInput, session.PhaseCompleted))
	assert.False(t, session.CanTransition(session.PhaseCompleted, session.PhaseThinking))
}

func TestTryTransitionWithEventSuccess(t *testing.T) {
	next, ev := session.TryTransitionWithEvent(session.PhaseThinking, session.PhaseStreaming)
	assert.Equal(t, session.PhaseStreaming, next)
	assert.Equal(t, event.SessionPhaseChanged{From: session.PhaseThinking, To: session.PhaseStreaming}, ev)
}

func TestTryTransitionWithEventRejection(t *testing.T) {
	next, ev := session.TryTransitionWithEvent(session.PhaseUserInput, session.PhaseCompleted)
	assert.Equal(t, session.PhaseUserInput, next, "rejected transitions never change phase")
	assert.Equal(t, event.SessionPhaseTransitionRejected{
		From:    session.PhaseUserInput,
		To:      session.PhaseUserInput,
		Attempt: session.PhaseCompleted,
	}, ev)
}

func TestAnyPhaseCanInterrupt(t *testing.T) {
	for _, p := range []session.Phase{
		session.PhaseUserInput, session.PhaseThinking, session.PhaseStreaming,
		session.PhaseTool, session.PhaseFinalize, session.PhaseCompleted,
	} {
		assert.True(t, session.CanTransition(p, session.PhaseInterrupted), "phase %s should be interruptible", p)
	}
}

func TestInterruptedResumesIntoThinking(t *testing.T) {
	assert.True(t, session.CanTransition(session.PhaseInterrupted, session.PhaseResumed))
	assert.True(t, session.CanTransition(session.PhaseResumed, session.PhaseThinking))
}
