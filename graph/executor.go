package graph

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/blueberrycongee/forge/event"
	"github.com/blueberrycongee/forge/fault"
	"github.com/blueberrycongee/forge/internal/log"
	"github.com/blueberrycongee/forge/internal/telemetry"
	"github.com/blueberrycongee/forge/permission"
	"github.com/blueberrycongee/forge/session"
)

// Executor runs a compiled graph: dispatch loop, iteration guard,
// checkpoint emission, resume-value injection, and the prune/compaction
// hooks that run between node dispatches (spec §4.3). Grounded on the
// teacher's graph.Executor (NewExecutor(graph, opts...), functional
// ExecutorOptions, a tracer span per run) but synchronous rather than
// channel-fed: spec §4.3's two entry points return a value directly,
// not a stream of framework events.
type Executor struct {
	graph *CompiledGraph

	maxIterations uint32

	compactionPolicy CompactionPolicy
	compactionHook   CompactionHook

	prunePolicy           PrunePolicy
	pruneBeforeCompaction bool

	permissionSession *permission.Session

	clock func() time.Time
}

// ExecutorOption configures an Executor built by NewExecutor.
type ExecutorOption func(*Executor)

// WithMaxIterations overrides the default iteration guard of 25 (spec
// §4.3).
func WithMaxIterations(n uint32) ExecutorOption {
	return func(e *Executor) { e.maxIterations = n }
}

// WithCompactionPolicy installs a CompactionPolicy (default: disabled).
func WithCompactionPolicy(p CompactionPolicy) ExecutorOption {
	return func(e *Executor) { e.compactionPolicy = p }
}

// WithCompactionHook installs a CompactionHook (default: NoopCompactionHook).
func WithCompactionHook(h CompactionHook) ExecutorOption {
	return func(e *Executor) { e.compactionHook = h }
}

// WithPrunePolicy installs a PrunePolicy (default: disabled).
func WithPrunePolicy(p PrunePolicy) ExecutorOption {
	return func(e *Executor) { e.prunePolicy = p }
}

// WithPruneBeforeCompaction overrides the default ordering of true
// (prune runs before compaction) between node dispatches (spec §4.10).
func WithPruneBeforeCompaction(b bool) ExecutorOption {
	return func(e *Executor) { e.pruneBeforeCompaction = b }
}

// WithPermissionSession attaches the permission session a resumed
// permission interrupt should be applied to (spec §4.3, "Resume").
func WithPermissionSession(s *permission.Session) ExecutorOption {
	return func(e *Executor) { e.permissionSession = s }
}

// WithClock overrides the executor's time source, for deterministic
// tests.
func WithClock(clock func() time.Time) ExecutorOption {
	return func(e *Executor) { e.clock = clock }
}

// NewExecutor creates an Executor over a compiled graph.
func NewExecutor(g *CompiledGraph, opts ...ExecutorOption) *Executor {
	e := &Executor{
		graph:                 g,
		maxIterations:         25,
		compactionHook:        NoopCompactionHook{},
		pruneBeforeCompaction: true,
		clock:                 time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Outcome is the result of a run: exactly one of State (completion) or
// Checkpoint (suspension) is meaningful on success; Trace and History
// are always populated with what the run produced before its outcome
// (spec §7, "User-visible failure": "exactly one of a state value, a
// checkpoint, or an error").
type Outcome struct {
	State        State
	Checkpoint   *Checkpoint
	Trace        *ExecutionTrace
	History      []event.Record
	SessionState session.State
}

// Invoke is StreamEvents with a silent sink (spec §4.3).
func (e *Executor) Invoke(ctx context.Context, state State) (Outcome, error) {
	return e.StreamEvents(ctx, state, event.NoopSink{})
}

// StreamEvents runs the graph from its entry point, streaming every
// event through sink in addition to the executor's own recording.
func (e *Executor) StreamEvents(ctx context.Context, state State, sink event.Sink) (Outcome, error) {
	ctx, span := telemetry.Tracer().Start(ctx, "graph.execute")
	defer span.End()

	runID := uuid.NewString()
	sessionID := sessionIDOf(state)
	rs := newRecordingSink(event.NewSequencer(e.clock), sessionID, session.PhaseUserInput, sink)
	trace := NewExecutionTrace()

	rs.Emit(event.RunStarted{RunID: runID})

	return e.loop(ctx, rs, trace, runID, state, e.graph.EntryPoint(), 0)
}

// Resume continues a suspended run from checkpoint with the supplied
// resume command (spec §4.3, "Resume").
func (e *Executor) Resume(ctx context.Context, checkpoint Checkpoint, cmd Command, sink event.Sink) (Outcome, error) {
	ctx, span := telemetry.Tracer().Start(ctx, "graph.resume")
	defer span.End()

	sessionID := sessionIDOf(checkpoint.State)
	rs := newRecordingSink(event.NewSequencer(e.clock), sessionID, session.PhaseInterrupted, sink)
	trace := NewExecutionTrace()

	state := bindResume(checkpoint.State, checkpoint.NextNode, cmd)

	rs.Emit(event.RunResumed{RunID: checkpoint.RunID, CheckpointID: checkpoint.CheckpointID})

	if e.permissionSession != nil {
		for _, interrupt := range checkpoint.PendingInterrupts {
			req, ok := interrupt.Value.(permission.Request)
			if !ok {
				continue
			}
			rv, ok := cmd.Value.(permission.ResumeValue)
			if !ok || rv.Permission != req.Permission {
				continue
			}
			if err := e.permissionSession.ApplyResume(rv); err == nil {
				rs.Emit(event.PermissionReplied{Permission: rv.Permission, Reply: event.PermissionReply(rv.Reply)})
			}
		}
	}

	return e.loop(ctx, rs, trace, checkpoint.RunID, state, checkpoint.NextNode, checkpoint.Iterations)
}

// loop implements the dispatch loop of spec §4.3 step 3 onward, shared
// between a fresh run (after RunStarted) and a resumed one (after
// RunResumed).
func (e *Executor) loop(ctx context.Context, rs *recordingSink, trace *ExecutionTrace, runID string, state State, current string, iterations uint32) (Outcome, error) {
	for current != End {
		iterations++
		if iterations > e.maxIterations {
			err := fault.MaxIterationsExceeded()
			rs.Emit(event.RunFailed{RunID: runID, Message: err.Error()})
			return Outcome{State: state, Trace: trace, History: rs.History(), SessionState: rs.SessionState()}, err
		}

		node, ok := e.graph.Node(current)
		if !ok {
			err := fault.NodeNotFound(current)
			rs.Emit(event.RunFailed{RunID: runID, Message: err.Error()})
			return Outcome{State: state, Trace: trace, History: rs.History(), SessionState: rs.SessionState()}, err
		}

		entryState := state.Clone()
		start := e.clock()
		trace.RecordNodeStart(current, start)

		nodeCtx, nodeSpan := telemetry.Tracer().Start(ctx, "graph.node")
		nodeSpan.SetAttributes(
			telemetry.NodeAttr(current),
			telemetry.RunIDAttr(runID),
			telemetry.IterationAttr(iterations),
		)
		newState, err := node.run(nodeCtx, state, rs)
		nodeSpan.End()
		if err != nil {
			if interrupts, ok := fault.IsInterrupted(err); ok {
				checkpointID := uuid.NewString()
				rs.Emit(event.RunPaused{RunID: runID, CheckpointID: checkpointID})
				checkpoint := &Checkpoint{
					RunID:             runID,
					CheckpointID:      checkpointID,
					CreatedAt:         e.clock(),
					State:             entryState,
					NextNode:          current,
					PendingInterrupts: interrupts,
					Iterations:        iterations,
					ResumeValues:      carriedResumeValues(entryState),
				}
				return Outcome{State: state, Checkpoint: checkpoint, Trace: trace, History: rs.History(), SessionState: rs.SessionState()}, nil
			}
			rs.Emit(event.RunFailed{RunID: runID, Message: err.Error()})
			return Outcome{State: state, Trace: trace, History: rs.History(), SessionState: rs.SessionState()}, err
		}

		state = newState
		end := e.clock()
		trace.RecordNodeFinish(current, start, end)

		e.runHousekeeping(ctx, rs, trace, end)

		next, err := e.graph.resolveNext(ctx, state, current)
		if err != nil {
			rs.Emit(event.RunFailed{RunID: runID, Message: err.Error()})
			return Outcome{State: state, Trace: trace, History: rs.History(), SessionState: rs.SessionState()}, err
		}
		current = next
	}

	rs.Emit(event.RunCompleted{RunID: runID})
	return Outcome{State: state, Trace: trace, History: rs.History(), SessionState: rs.SessionState()}, nil
}

// runHousekeeping runs prune and compaction in the configured order
// between node dispatches (spec §4.10). Neither aborts the run: prune
// has no failure path, and a compaction hook error is written to
// internal/log only; it is not recorded in any Snapshot or event.
func (e *Executor) runHousekeeping(ctx context.Context, rs *recordingSink, trace *ExecutionTrace, at time.Time) {
	prune := func() { rs.setHistory(e.prunePolicy.PruneToolEvents(rs.History())) }
	compact := func() { e.compact(ctx, rs, trace, at) }

	if e.pruneBeforeCompaction {
		prune()
		compact()
		return
	}
	compact()
	prune()
}

func (e *Executor) compact(ctx context.Context, rs *recordingSink, trace *ExecutionTrace, at time.Time) {
	sessionState := rs.SessionState()
	if !e.compactionPolicy.ShouldCompact(len(sessionState.Messages)) {
		return
	}

	messages := make([]any, len(sessionState.Messages))
	for i, m := range sessionState.Messages {
		messages[i] = m
	}

	result, err := e.compactionHook.Compact(ctx, CompactionContext{Messages: messages})
	if err != nil {
		log.Errorf("compaction hook failed: %v", err)
		return
	}
	if result.Summary == "" {
		return
	}

	trace.RecordCompacted(result.Summary, at)
	rs.Emit(event.SessionCompacted{SessionID: sessionState.SessionID, Summary: result.Summary})
}

// sessionIDOf reads the reserved SessionIDKey from state, generating a
// fresh id if absent.
func sessionIDOf(state State) string {
	if v, ok := state[SessionIDKey]; ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	return uuid.NewString()
}
