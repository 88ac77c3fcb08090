package event

import (
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Meta is the sequencing envelope attached to every recorded event.
// Within one run seq strictly increases; replay must preserve seq
// order (spec §3, Invariant).
type Meta struct {
	EventID     string `json:"event_id"`
	TimestampMs int64  `json:"timestamp_ms"`
	Seq         uint64 `json:"seq"`
}

// Record pairs an Event with its sequencing Meta. The executor's
// RecordingSink emits Records; a plain Sink only ever sees bare Events.
type Record struct {
	Meta  Meta  `json:"meta"`
	Event Event `json:"event"`
}

// Clock returns the current time. Overridable for deterministic tests.
type Clock func() time.Time

// Sequencer assigns monotonically increasing sequence numbers and
// fresh event ids to every emitted event within one run.
type Sequencer struct {
	seq   atomic.Uint64
	clock Clock
}

// NewSequencer creates a Sequencer using the given clock, or
// time.Now if clock is nil.
func NewSequencer(clock Clock) *Sequencer {
	if clock == nil {
		clock = time.Now
	}
	return &Sequencer{clock: clock}
}

// Next returns a fresh Meta with the next sequence number.
func (s *Sequencer) Next() Meta {
	seq := s.seq.Add(1)
	return Meta{
		EventID:     uuid.New().String(),
		TimestampMs: s.clock().UnixMilli(),
		Seq:         seq,
	}
}
