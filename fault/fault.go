// Package fault is Forge's structured error taxonomy (spec §7). Every
// failure the core can produce is one of the Kinds below, wrapped in
// an Error so callers can errors.As into it instead of string-matching
// messages — mirroring the sentinel-error style of the teacher's
// graph/errors.go, generalized into a single typed taxonomy because
// spec §7 enumerates the kinds as data, not as one-off globals.
package fault

import "fmt"

// Kind identifies the semantic category of an Error.
type Kind string

// The full error taxonomy from spec §7.
const (
	KindNodeNotFound      Kind = "node_not_found"
	KindNodeAlreadyExists Kind = "node_already_exists"
	KindInvalidNodeName   Kind = "invalid_node_name"
	KindInvalidEdge       Kind = "invalid_edge"
	KindNoEntryPoint      Kind = "no_entry_point"
	KindValidationError   Kind = "validation_error"
	KindMaxIterations     Kind = "max_iterations_exceeded"
	KindExecutionError    Kind = "execution_error"
	KindBranchError       Kind = "branch_error"
	KindNotCompiled       Kind = "not_compiled"
	KindCompilationError  Kind = "compilation_error"
	KindInterrupted       Kind = "interrupted"
	KindOther             Kind = "other"
)

// Interrupt is a single suspension payload raised by a node handler.
// Value is structured — usually a permission.Request or a human-input
// prompt — and opaque to the executor.
type Interrupt struct {
	ID       string
	NodeName string
	Value    any
}

// Error is the concrete type behind every error the core returns.
type Error struct {
	Kind Kind
	// Node is set for node/edge/execution-scoped errors.
	Node string
	// From/To/Reason are set for InvalidEdge.
	From, To, Reason string
	// Message is a human-readable detail.
	Message string
	// Interrupts is set only for Kind == KindInterrupted.
	Interrupts []Interrupt
	// Wrapped is an optional underlying cause.
	Wrapped error
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch e.Kind {
	case KindNodeNotFound:
		return fmt.Sprintf("node not found: %s", e.Node)
	case KindNodeAlreadyExists:
		return fmt.Sprintf("node already exists: %s", e.Node)
	case KindInvalidNodeName:
		return fmt.Sprintf("invalid node name: %s", e.Node)
	case KindInvalidEdge:
		return fmt.Sprintf("invalid edge %s -> %s: %s", e.From, e.To, e.Reason)
	case KindNoEntryPoint:
		return "graph has no path from __start__ to __end__"
	case KindValidationError:
		return fmt.Sprintf("validation error: %s", e.Message)
	case KindMaxIterations:
		return "max iterations exceeded"
	case KindExecutionError:
		return fmt.Sprintf("execution error in node %s: %s", e.Node, e.Message)
	case KindBranchError:
		return fmt.Sprintf("branch error in node %s: %s", e.Node, e.Message)
	case KindNotCompiled:
		return "graph has not been compiled"
	case KindCompilationError:
		return fmt.Sprintf("compilation error: %s", e.Message)
	case KindInterrupted:
		return fmt.Sprintf("interrupted with %d pending interrupt(s)", len(e.Interrupts))
	default:
		return fmt.Sprintf("other error: %s", e.Message)
	}
}

// Unwrap exposes the wrapped cause, if any, for errors.Is/As chains.
func (e *Error) Unwrap() error { return e.Wrapped }

// Is reports whether target is a *Error with the same Kind, so
// errors.Is(err, fault.New(fault.KindNodeNotFound, "")) works without
// comparing the rest of the payload.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// NodeNotFound builds a KindNodeNotFound error.
func NodeNotFound(node string) *Error {
	return &Error{Kind: KindNodeNotFound, Node: node}
}

// NodeAlreadyExists builds a KindNodeAlreadyExists error.
func NodeAlreadyExists(node string) *Error {
	return &Error{Kind: KindNodeAlreadyExists, Node: node}
}

// InvalidNodeName builds a KindInvalidNodeName error.
func InvalidNodeName(node string) *Error {
	return &Error{Kind: KindInvalidNodeName, Node: node}
}

// InvalidEdge builds a KindInvalidEdge error.
func InvalidEdge(from, to, reason string) *Error {
	return &Error{Kind: KindInvalidEdge, From: from, To: to, Reason: reason}
}

// NoEntryPoint builds a KindNoEntryPoint error.
func NoEntryPoint() *Error {
	return &Error{Kind: KindNoEntryPoint}
}

// ValidationError builds a KindValidationError error.
func ValidationError(message string) *Error {
	return &Error{Kind: KindValidationError, Message: message}
}

// MaxIterationsExceeded builds a KindMaxIterations error.
func MaxIterationsExceeded() *Error {
	return &Error{Kind: KindMaxIterations}
}

// ExecutionError builds a KindExecutionError error.
func ExecutionError(node, message string) *Error {
	return &Error{Kind: KindExecutionError, Node: node, Message: message}
}

// BranchError builds a KindBranchError error.
func BranchError(node, message string) *Error {
	return &Error{Kind: KindBranchError, Node: node, Message: message}
}

// NotCompiled builds a KindNotCompiled error.
func NotCompiled() *Error {
	return &Error{Kind: KindNotCompiled}
}

// CompilationError builds a KindCompilationError error.
func CompilationError(message string) *Error {
	return &Error{Kind: KindCompilationError, Message: message}
}

// Interrupted builds a KindInterrupted error carrying the pending
// interrupts the executor must package into a Checkpoint.
func Interrupted(interrupts []Interrupt) *Error {
	return &Error{Kind: KindInterrupted, Interrupts: interrupts}
}

// Other builds a catch-all KindOther error.
func Other(message string) *Error {
	return &Error{Kind: KindOther, Message: message}
}

// IsInterrupted reports whether err is a KindInterrupted *Error and
// returns its pending interrupts.
func IsInterrupted(err error) ([]Interrupt, bool) {
	e, ok := err.(*Error)
	if !ok || e.Kind != KindInterrupted {
		return nil, false
	}
	return e.Interrupts, true
}
