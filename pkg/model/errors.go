package model

import "fmt"

// StructuralCode identifies the kind of structural failure
type StructuralCode string

const (
	// CycleDetected is returned when an edge insertion would close a cycle
	CycleDetected StructuralCode = "cycle_detected"
	// CyclicGraph is returned when a dependency ordering cannot cover the whole graph
	CyclicGraph StructuralCode = "cyclic_graph"
)

// StructuralError reports a graph-shape violation. Structural errors abort the
// current operation and leave prior state unmodified.
type StructuralError struct {
	Code   StructuralCode
	Source string // offending edge source (cycle_detected only)
	Target string // offending edge target (cycle_detected only)
}

func (e *StructuralError) Error() string {
	switch e.Code {
	case CycleDetected:
		return fmt.Sprintf("structural: edge %s -> %s would close a cycle", e.Source, e.Target)
	case CyclicGraph:
		return "structural: graph contains a cycle, no full dependency order exists"
	default:
		return fmt.Sprintf("structural: %s", e.Code)
	}
}

// EvaluationError reports a per-node compute failure. Evaluation errors are
// absorbed at the node boundary: the node's output degrades to 0, the error is
// recorded on the node and in the run's error list, and the run continues.
type EvaluationError struct {
	NodeID string `json:"nodeId"`
	Msg    string `json:"message"`
	Err    error  `json:"-"` // underlying cause, if any
}

func (e *EvaluationError) Error() string {
	return fmt.Sprintf("evaluation failed for node %s: %s", e.NodeID, e.Msg)
}

func (e *EvaluationError) Unwrap() error { return e.Err }

// ValidationError reports a bad configuration value (unknown gate name, bad
// parameter). Validation errors are raised synchronously at call time.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation: %s", e.Msg)
	}
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Msg)
}

// Validationf builds a ValidationError with a formatted message.
func Validationf(field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Field: field, Msg: fmt.Sprintf(format, args...)}
}
