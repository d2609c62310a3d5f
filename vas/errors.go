package vas

import (
	"errors"
	"fmt"
)

// ParseError reports a malformed model file at a specific line. A
// concrete file parser is out of scope for this module; this type
// exists so that an external reader can report failures in the shape
// the rest of the pipeline expects.
type ParseError struct {
	Line   int
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at line %d: %s", e.Line, e.Reason)
}

// ValidationError reports a structurally invalid model: duplicate or
// empty variable names, an initial state that already satisfies the
// target, a non-positive rate constant, or a mismatched vector length.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return "validation error: " + e.Reason }

// ErrInitiallySatisfied is the sentinel checked via errors.Is when a
// DependencyGraphError reports that the initial state already satisfies
// the target.
var ErrInitiallySatisfied = errors.New("dependency graph: initial state already satisfies target")

// ErrDepthLimitExceeded is the sentinel checked via errors.Is when a
// DependencyGraphError reports recursion past the safety depth cap.
var ErrDepthLimitExceeded = errors.New("dependency graph: depth limit exceeded")

// ErrCannotEvaluateProperty is the sentinel for a target property that
// cannot be evaluated against a given state (e.g. index out of range).
var ErrCannotEvaluateProperty = errors.New("dependency graph: cannot evaluate property")

// DependencyGraphError wraps one of the three dependency-graph failure
// sentinels with the context that produced it.
type DependencyGraphError struct {
	Sentinel error
	Detail   string
}

func (e *DependencyGraphError) Error() string {
	if e.Detail == "" {
		return e.Sentinel.Error()
	}
	return fmt.Sprintf("%s: %s", e.Sentinel.Error(), e.Detail)
}

func (e *DependencyGraphError) Unwrap() error { return e.Sentinel }

// BmcFailure reports that bounded model checking exhausted MaxSteps
// without finding the target reachable, that the initial state already
// satisfies the target (StepsTried 0), or that the encoding was
// unsatisfiable outright.
type BmcFailure struct {
	StepsTried int
	Reason     string
}

func (e *BmcFailure) Error() string {
	return fmt.Sprintf("bmc failure after %d steps: %s", e.StepsTried, e.Reason)
}

// TraceGenerationStuck reports that no transitions were enabled at the
// current state during trace generation. This is a warning, not a
// fatal error: the caller gets a (possibly empty) partial trace and the
// builder continues.
type TraceGenerationStuck struct {
	State Vector
}

func (e *TraceGenerationStuck) Error() string {
	return fmt.Sprintf("trace generation stuck: no enabled transitions at state %v", []Value(e.State))
}
