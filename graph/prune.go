package graph

import "github.com/blueberrycongee/forge/event"

// PrunePolicy bounds the retained tool-lifecycle events in recorded
// history (spec §4.10).
type PrunePolicy struct {
	Enabled             bool
	KeepLastNToolEvents int
}

// isToolEvent reports whether kind is one of the tool-lifecycle kinds
// PrunePolicy bounds.
func isToolEvent(kind event.Kind) bool {
	switch kind {
	case event.KindToolStart, event.KindToolUpdate, event.KindToolResult,
		event.KindToolError, event.KindToolStatus:
		return true
	default:
		return false
	}
}

// PruneToolEvents scans history for tool-lifecycle events, keeps only
// the most recent KeepLastNToolEvents of them, and returns the result
// with non-tool events preserved intact and in order (spec §4.10).
func (p PrunePolicy) PruneToolEvents(history []event.Record) []event.Record {
	if !p.Enabled {
		return history
	}
	toolCount := 0
	for _, rec := range history {
		if isToolEvent(rec.Event.Kind()) {
			toolCount++
		}
	}
	drop := toolCount - p.KeepLastNToolEvents
	if drop <= 0 {
		return history
	}

	out := make([]event.Record, 0, len(history)-drop)
	dropped := 0
	for _, rec := range history {
		if isToolEvent(rec.Event.Kind()) && dropped < drop {
			dropped++
			continue
		}
		out = append(out, rec)
	}
	return out
}
