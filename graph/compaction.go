package graph

import "context"

// CompactionPolicy decides when the message history should be
// summarized (spec §4.10).
type CompactionPolicy struct {
	Enabled          bool
	MessageThreshold int
}

// ShouldCompact reports whether messageCount crosses the threshold.
func (p CompactionPolicy) ShouldCompact(messageCount int) bool {
	return p.Enabled && messageCount > p.MessageThreshold
}

// CompactionContext is the input handed to a CompactionHook.
type CompactionContext struct {
	Messages   []any
	PromptHint string
}

// CompactionResult is a compaction hook's output: a summary that
// replaces the compacted history, plus an optional token estimate.
type CompactionResult struct {
	Summary string
	Tokens  *uint64
}

// CompactionHook summarizes history when the CompactionPolicy fires.
// The default hook is a no-op (spec §4.10).
type CompactionHook interface {
	Compact(ctx context.Context, cctx CompactionContext) (CompactionResult, error)
}

// NoopCompactionHook never summarizes; ShouldCompact gates whether it
// is even consulted, so in practice this only matters if a caller
// enables compaction without supplying a real hook.
type NoopCompactionHook struct{}

// Compact implements CompactionHook.
func (NoopCompactionHook) Compact(context.Context, CompactionContext) (CompactionResult, error) {
	return CompactionResult{}, nil
}

// CompactionHookFunc adapts a function to the CompactionHook interface.
type CompactionHookFunc func(ctx context.Context, cctx CompactionContext) (CompactionResult, error)

// Compact implements CompactionHook.
func (f CompactionHookFunc) Compact(ctx context.Context, cctx CompactionContext) (CompactionResult, error) {
	return f(ctx, cctx)
}
