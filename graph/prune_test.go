package graph_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blueberrycongee/forge/event"
	"github.com/blueberrycongee/forge/graph"
)

func rec(evt event.Event, seq uint64) event.Record {
	return event.Record{Meta: event.Meta{Seq: seq}, Event: evt}
}

func TestPruneToolEventsKeepsMostRecentN(t *testing.T) {
	p := graph.PrunePolicy{Enabled: true, KeepLastNToolEvents: 2}

	history := []event.Record{
		rec(event.RunStarted{RunID: "r1"}, 1),
		rec(event.ToolStart{Tool: "echo", CallID: "c1"}, 2),
		rec(event.ToolStart{Tool: "echo", CallID: "c2"}, 3),
		rec(event.ToolStart{Tool: "echo", CallID: "c3"}, 4),
		rec(event.ToolStart{Tool: "echo", CallID: "c4"}, 5),
		rec(event.ToolStart{Tool: "echo", CallID: "c5"}, 6),
		rec(event.RunCompleted{RunID: "r1"}, 7),
	}

	out := p.PruneToolEvents(history)

	require.Len(t, out, 4) // RunStarted, c4, c5, RunCompleted
	assert.IsType(t, event.RunStarted{}, out[0].Event)
	assert.Equal(t, event.ToolStart{Tool: "echo", CallID: "c4"}, out[1].Event)
	assert.Equal(t, event.ToolStart{Tool: "echo", CallID: "c5"}, out[2].Event)
	assert.IsType(t, event.RunCompleted{}, out[3].Event)
}

func TestPruneToolEventsDisabledIsNoop(t *testing.T) {
	p := graph.PrunePolicy{Enabled: false}
	history := []event.Record{rec(event.ToolStart{Tool: "echo", CallID: "c1"}, 1)}
	assert.Equal(t, history, p.PruneToolEvents(history))
}

func TestPruneToolEventsUnderBudgetIsNoop(t *testing.T) {
	p := graph.PrunePolicy{Enabled: true, KeepLastNToolEvents: 10}
	history := []event.Record{rec(event.ToolStart{Tool: "echo", CallID: "c1"}, 1)}
	assert.Equal(t, history, p.PruneToolEvents(history))
}
