package graph_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/blueberrycongee/forge/graph"
)

func TestResumeValueRoundTrip(t *testing.T) {
	state := graph.State{"resume:ask_human": "yes"}
	v, ok := graph.ResumeValue(state, "ask_human")
	assert.True(t, ok)
	assert.Equal(t, "yes", v)
}

func TestResumeValueForInterruptRoundTrip(t *testing.T) {
	state := graph.State{"resume:ask_human:int-1": "no"}
	v, ok := graph.ResumeValueForInterrupt(state, "ask_human", "int-1")
	assert.True(t, ok)
	assert.Equal(t, "no", v)

	_, ok = graph.ResumeValue(state, "ask_human")
	assert.False(t, ok, "plain resume key is distinct from the interrupt-scoped one")
}
