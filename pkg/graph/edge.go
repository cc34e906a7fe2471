package graph

import (
	"github.com/inferlab/logicgraph/pkg/model"
)

// Transform is the value transformation an edge applies to its source's
// output before delivering it to the target.
type Transform string

const (
	TransformDirect  Transform = "direct"
	TransformNegate  Transform = "negate"  // 1 - v, self-inverse on [0,1]
	TransformAmplify Transform = "amplify" // v * weight
	TransformDampen  Transform = "dampen"  // v / weight
	TransformDelay   Transform = "delay"   // emits the edge's previous value
)

var transforms = map[Transform]bool{
	TransformDirect:  true,
	TransformNegate:  true,
	TransformAmplify: true,
	TransformDampen:  true,
	TransformDelay:   true,
}

// Condition gates whether an edge carries a value at all
type Condition string

const (
	ConditionAlways Condition = "always"
	ConditionNever  Condition = "never"
	ConditionCustom Condition = "custom"
)

// EdgeState is the mutable per-run state of an edge
type EdgeState struct {
	Active    bool
	LastValue float64
	Flow      float64 // magnitude of the last transmitted value
	Err       error
}

// Edge is a directed connection between two nodes, referencing its endpoints
// by id. Edges are owned by the Graph.
type Edge struct {
	ID         string
	Source     string
	Target     string
	SourcePort int
	TargetPort int
	Weight     float64
	Cond       Condition
	CondFunc   func(v float64) bool // predicate for ConditionCustom
	Transform  Transform
	Label      string

	Metadata map[string]interface{}
	Visual   map[string]interface{}

	State EdgeState
}

func (e *Edge) resetState() {
	e.State = EdgeState{}
}

// Open reports whether the edge's condition admits the given source value
func (e *Edge) Open(v float64) bool {
	switch e.Cond {
	case ConditionNever:
		return false
	case ConditionCustom:
		if e.CondFunc == nil {
			return true
		}
		return e.CondFunc(v)
	default:
		return true
	}
}

// Apply transforms a source value across the edge, updating the edge's run
// state. A delay edge emits its previously carried value.
func (e *Edge) Apply(v float64) (float64, error) {
	if !e.Open(v) {
		e.State.Active = false
		return 0, nil
	}

	var out float64
	switch e.Transform {
	case TransformNegate:
		out = 1 - v
	case TransformAmplify:
		out = v * e.Weight
	case TransformDampen:
		if e.Weight == 0 {
			err := model.Validationf("edge", "dampen edge %s has zero weight", e.ID)
			e.State.Err = err
			return 0, err
		}
		out = v / e.Weight
	case TransformDelay:
		out = e.State.LastValue
		e.State.Active = true
		e.State.LastValue = v
		e.State.Flow = abs(out)
		return out, nil
	default:
		out = v
	}

	e.State.Active = true
	e.State.LastValue = out
	e.State.Flow = abs(out)
	return out, nil
}

// Invert computes the source value implied by a target value, for
// goal-seeking propagation. Negate is self-inverse; amplify divides by the
// weight and dampen multiplies; delay cannot be inverted and passes through.
func (e *Edge) Invert(v float64) (float64, error) {
	switch e.Transform {
	case TransformNegate:
		return 1 - v, nil
	case TransformAmplify:
		if e.Weight == 0 {
			return 0, model.Validationf("edge", "cannot invert amplify edge %s with zero weight", e.ID)
		}
		return v / e.Weight, nil
	case TransformDampen:
		return v * e.Weight, nil
	default:
		return v, nil
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
