// Package graph implements the logic-graph data model: typed nodes and edges
// held by a Graph that enforces structural invariants (acyclicity, cascade
// removal) over a gonum directed graph, plus node evaluation and a default
// single-pass execution.
package graph

import (
	"fmt"
	"strings"

	"github.com/inferlab/logicgraph/pkg/fuzzy"
	"github.com/inferlab/logicgraph/pkg/logic"
	"github.com/inferlab/logicgraph/pkg/model"
)

// NodeKind selects the evaluation contract of a node
type NodeKind string

const (
	KindDecision      NodeKind = "decision"
	KindLogicGate     NodeKind = "logic_gate"
	KindFuzzyGate     NodeKind = "fuzzy_gate"
	KindProbabilistic NodeKind = "probabilistic"
	KindMultiValued   NodeKind = "multi_valued"
	KindHybrid        NodeKind = "hybrid"
	KindStatistical   NodeKind = "statistical"
)

var nodeKinds = map[NodeKind]bool{
	KindDecision:      true,
	KindLogicGate:     true,
	KindFuzzyGate:     true,
	KindProbabilistic: true,
	KindMultiValued:   true,
	KindHybrid:        true,
	KindStatistical:   true,
}

// ScoringKind selects the decision node's scoring function
type ScoringKind string

const (
	ScoringLinear  ScoringKind = "linear"
	ScoringTanh    ScoringKind = "tanh"
	ScoringSigmoid ScoringKind = "sigmoid"
	ScoringReLU    ScoringKind = "relu"
	ScoringCustom  ScoringKind = "custom"
)

// NodeState is the mutable per-run state of a node. It is reset at the start
// of every execution and never carried across runs.
type NodeState struct {
	LastValue float64
	Branch    int // selected branch index (fuzzy and decision nodes)
	Active    bool
	Visited   bool
	Locked    bool
	Err       error
}

// Node is a vertex in the logic graph. Nodes are owned exclusively by their
// Graph; edges reference them by id only.
type Node struct {
	ID        string
	Name      string
	Kind      NodeKind
	Layer     int
	Position  model.Position
	LogicType string // operator name as configured (wire form)

	gate    logic.Gate // resolved operator for logic_gate/multi_valued/hybrid
	hasGate bool
	fuzzyOp fuzzy.Op // resolved operator for fuzzy_gate
	hasOp   bool

	BranchCount      int
	BranchLabels     []string
	BranchConditions []string

	TruthTable   map[string]bool
	Membership   fuzzy.MembershipFunc // optional per-input remap for fuzzy gates
	Distribution []float64            // probability masses for probabilistic nodes

	Scoring    ScoringKind
	ScoreFunc  func(float64) float64                 // custom scoring
	CustomEval func(inputs []float64) (float64, error) // custom evaluation override

	Weights    []float64
	Thresholds []float64
	Bias       float64

	GateParams  logic.Params
	FuzzyParams fuzzy.OpParams

	membershipSpec *model.MembershipJSON // retained for serialization

	Metadata map[string]interface{}
	Visual   map[string]interface{}

	State NodeState

	evaluator Evaluator
}

// Gate returns the resolved logic gate, if the node has one
func (n *Node) Gate() (logic.Gate, bool) { return n.gate, n.hasGate }

// FuzzyOp returns the resolved fuzzy operator, if the node has one
func (n *Node) FuzzyOp() (fuzzy.Op, bool) { return n.fuzzyOp, n.hasOp }

// SetEvaluator replaces the node's evaluator. Nodes receive the graph's
// evaluator when added; tests and callers may inject their own.
func (n *Node) SetEvaluator(e Evaluator) { n.evaluator = e }

// resetState clears per-run state
func (n *Node) resetState() {
	n.State = NodeState{}
}

// Evaluate runs the node against an ordered input sequence. Evaluation errors
// never escape: they are recorded on the node and the output degrades to 0.
func (n *Node) Evaluate(inputs []float64) float64 {
	n.State.Visited = true
	v, err := n.evaluator.Evaluate(n, inputs)
	if err != nil {
		n.State.Err = &model.EvaluationError{NodeID: n.ID, Msg: err.Error(), Err: err}
		n.State.LastValue = 0
		n.State.Active = false
		return 0
	}
	n.State.Err = nil
	n.State.LastValue = v
	n.State.Active = true
	return v
}

// truthTableKey builds the comma-joined 0/1 lookup key for a truth table
// override, e.g. "1,0,1".
func truthTableKey(inputs []float64) string {
	parts := make([]string, len(inputs))
	for i, v := range inputs {
		if v != 0 {
			parts[i] = "1"
		} else {
			parts[i] = "0"
		}
	}
	return strings.Join(parts, ",")
}

func generateBranchLabels(count int) []string {
	labels := make([]string, count)
	for i := range labels {
		labels[i] = fmt.Sprintf("branch-%d", i)
	}
	return labels
}
