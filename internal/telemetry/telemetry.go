// Package telemetry wraps the OpenTelemetry tracer the executor uses
// to emit one span per run and one child span per node dispatch,
// mirroring the teacher's telemetry/trace package. Forge does not wire
// an exporter itself (spec §6 names no on-the-wire protocol beyond
// snapshot documents) — callers that want spans exported configure
// their own TracerProvider via otel.SetTracerProvider; Tracer() always
// resolves against the currently installed global provider, which is a
// safe no-op until a caller installs one.
package telemetry

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	oteltrace "go.opentelemetry.io/otel/trace"
)

// TracerName identifies Forge's spans in any configured exporter.
const TracerName = "github.com/blueberrycongee/forge"

// Tracer returns the tracer Forge components use for spans.
func Tracer() oteltrace.Tracer {
	return otel.Tracer(TracerName)
}

// NodeAttr, RunIDAttr, and IterationAttr build the forge.node,
// forge.run_id, and forge.iteration span attributes the executor
// attaches to every per-node child span (SPEC_FULL.md, AMBIENT STACK /
// Tracing).
func NodeAttr(node string) attribute.KeyValue { return attribute.String("forge.node", node) }

// RunIDAttr builds the forge.run_id span attribute.
func RunIDAttr(runID string) attribute.KeyValue { return attribute.String("forge.run_id", runID) }

// IterationAttr builds the forge.iteration span attribute.
func IterationAttr(iteration uint32) attribute.KeyValue {
	return attribute.Int64("forge.iteration", int64(iteration))
}
