package graph

import (
	"errors"
	"math"
	"testing"

	"github.com/inferlab/logicgraph/pkg/model"
)

func TestNodeEvaluate_AbsorbsErrors(t *testing.T) {
	g := New(TypeDAG)
	n := mustAddNode(t, g, NodeConfig{ID: "n", Kind: KindLogicGate, Operator: "imply"})

	got := n.Evaluate([]float64{1}) // arity violation
	if got != 0 {
		t.Errorf("failed evaluation = %v, want safe fallback 0", got)
	}
	if n.State.Err == nil {
		t.Fatal("expected error recorded on node state")
	}
	var evalErr *model.EvaluationError
	if !errors.As(n.State.Err, &evalErr) {
		t.Fatalf("expected EvaluationError, got %T", n.State.Err)
	}
	if evalErr.NodeID != "n" {
		t.Errorf("error node id = %s, want n", evalErr.NodeID)
	}

	// a subsequent good evaluation clears the error
	if got := n.Evaluate([]float64{0, 1}); got != 1 {
		t.Errorf("imply(0,1) = %v, want 1", got)
	}
	if n.State.Err != nil {
		t.Errorf("error state not cleared: %v", n.State.Err)
	}
}

func TestNodeEvaluate_TruthTableOverride(t *testing.T) {
	g := New(TypeDAG)
	// AND gate overridden to behave like OR for (1,0)
	n := mustAddNode(t, g, NodeConfig{
		ID: "n", Kind: KindLogicGate, Operator: "and",
		TruthTable: map[string]bool{"1,0": true},
	})

	if got := n.Evaluate([]float64{1, 0}); got != 1 {
		t.Errorf("overridden AND(1,0) = %v, want 1", got)
	}
	// combinations not in the table fall through to the gate
	if got := n.Evaluate([]float64{1, 1}); got != 1 {
		t.Errorf("AND(1,1) = %v, want 1", got)
	}
	if got := n.Evaluate([]float64{0, 1}); got != 0 {
		t.Errorf("AND(0,1) = %v, want 0", got)
	}
}

func TestNodeEvaluate_FuzzyGate(t *testing.T) {
	g := New(TypeDAG)
	n := mustAddNode(t, g, NodeConfig{ID: "n", Kind: KindFuzzyGate, Operator: "fuzzy_min"})

	if got := n.Evaluate([]float64{0.3, 0.7}); got != 0.3 {
		t.Errorf("fuzzy_min(0.3, 0.7) = %v, want 0.3", got)
	}
}

func TestNodeEvaluate_FuzzyBranchSelection(t *testing.T) {
	g := New(TypeDAG)
	binary := mustAddNode(t, g, NodeConfig{ID: "bin", Kind: KindFuzzyGate, Operator: "fuzzy_max", BranchCount: 2})
	binary.Evaluate([]float64{0.8})
	if binary.State.Branch != 1 {
		t.Errorf("binary branch for 0.8 = %d, want 1 (threshold 0.5)", binary.State.Branch)
	}
	binary.Evaluate([]float64{0.2})
	if binary.State.Branch != 0 {
		t.Errorf("binary branch for 0.2 = %d, want 0", binary.State.Branch)
	}

	quad := mustAddNode(t, g, NodeConfig{ID: "quad", Kind: KindFuzzyGate, Operator: "fuzzy_max", BranchCount: 4})
	quad.Evaluate([]float64{0.6})
	if quad.State.Branch != 2 {
		t.Errorf("branch for 0.6 over 4 intervals = %d, want 2", quad.State.Branch)
	}
	quad.Evaluate([]float64{1.0})
	if quad.State.Branch != 3 {
		t.Errorf("branch for 1.0 clamps to %d, want 3", quad.State.Branch)
	}
}

func TestNodeEvaluate_FuzzyMembershipRemap(t *testing.T) {
	g := New(TypeDAG)
	n := mustAddNode(t, g, NodeConfig{
		ID: "n", Kind: KindFuzzyGate, Operator: "fuzzy_min",
		Membership: &model.MembershipJSON{Type: "triangular", Params: map[string]float64{"a": 0, "b": 0.5, "c": 1}},
	})

	// input 0.25 remaps to membership 0.5 before the min fold
	got := n.Evaluate([]float64{0.25})
	if math.Abs(got-0.5) > 1e-9 {
		t.Errorf("remapped value = %v, want 0.5", got)
	}
}

func TestNodeEvaluate_DecisionThresholds(t *testing.T) {
	g := New(TypeDAG)
	n := mustAddNode(t, g, NodeConfig{
		ID: "n", Kind: KindDecision, Thresholds: []float64{0.33, 0.66},
	})

	// average of 0.4, 0.6 is 0.5: below 0.66 at index 1
	if got := n.Evaluate([]float64{0.4, 0.6}); got != 1 {
		t.Errorf("decision branch = %v, want 1", got)
	}
	if got := n.Evaluate([]float64{0.1, 0.1}); got != 0 {
		t.Errorf("decision branch for low score = %v, want 0", got)
	}
	if got := n.Evaluate([]float64{0.9, 0.9}); got != 2 {
		t.Errorf("decision branch above all thresholds = %v, want final index 2", got)
	}
}

func TestNodeEvaluate_ScoringFunctions(t *testing.T) {
	g := New(TypeDAG)

	tanh := mustAddNode(t, g, NodeConfig{ID: "t", Kind: KindStatistical, Scoring: ScoringTanh})
	if got := tanh.Evaluate([]float64{0}); got != 0 {
		t.Errorf("tanh(0) = %v, want 0", got)
	}

	sig := mustAddNode(t, g, NodeConfig{ID: "s", Kind: KindStatistical, Scoring: ScoringSigmoid})
	if got := sig.Evaluate([]float64{0}); got != 0.5 {
		t.Errorf("sigmoid(0) = %v, want 0.5", got)
	}

	relu := mustAddNode(t, g, NodeConfig{ID: "r", Kind: KindStatistical, Scoring: ScoringReLU, Bias: -1})
	if got := relu.Evaluate([]float64{0.5}); got != 0 {
		t.Errorf("relu(0.5 - 1) = %v, want 0", got)
	}

	custom := mustAddNode(t, g, NodeConfig{
		ID: "c", Kind: KindStatistical, Scoring: ScoringCustom,
		ScoreFunc: func(x float64) float64 { return x * 10 },
	})
	if got := custom.Evaluate([]float64{0.5}); got != 5 {
		t.Errorf("custom scoring = %v, want 5", got)
	}

	// custom scoring without a function is an absorbed evaluation error
	broken := mustAddNode(t, g, NodeConfig{ID: "x", Kind: KindStatistical, Scoring: ScoringCustom})
	if got := broken.Evaluate([]float64{1}); got != 0 {
		t.Errorf("broken custom scoring = %v, want 0", got)
	}
	if broken.State.Err == nil {
		t.Error("expected recorded error for missing custom scoring function")
	}
}

func TestNodeEvaluate_WeightedDecision(t *testing.T) {
	g := New(TypeDAG)
	n := mustAddNode(t, g, NodeConfig{
		ID: "n", Kind: KindStatistical, Weights: []float64{3, 1},
	})
	// weighted mean of 0.2 (w=3) and 0.6 (w=1) is 0.3
	if got := n.Evaluate([]float64{0.2, 0.6}); math.Abs(got-0.3) > 1e-12 {
		t.Errorf("weighted mean = %v, want 0.3", got)
	}
}

func TestNodeEvaluate_Probabilistic(t *testing.T) {
	g := New(TypeDAG)

	certain := mustAddNode(t, g, NodeConfig{ID: "p1", Kind: KindProbabilistic, Distribution: []float64{1, 0}})
	for i := 0; i < 20; i++ {
		if got := certain.Evaluate(nil); got != 0 {
			t.Fatalf("distribution [1,0] sampled %v, want 0", got)
		}
	}

	lastBucket := mustAddNode(t, g, NodeConfig{ID: "p2", Kind: KindProbabilistic, Distribution: []float64{0, 0, 1}})
	for i := 0; i < 20; i++ {
		if got := lastBucket.Evaluate(nil); got != 2 {
			t.Fatalf("distribution [0,0,1] sampled %v, want 2", got)
		}
	}

	bounded := mustAddNode(t, g, NodeConfig{ID: "p3", Kind: KindProbabilistic, Distribution: []float64{0.5, 0.5}})
	for i := 0; i < 50; i++ {
		got := bounded.Evaluate(nil)
		if got != 0 && got != 1 {
			t.Fatalf("sample %v outside bucket range", got)
		}
	}
}

func TestNodeEvaluate_CustomEvalOverride(t *testing.T) {
	g := New(TypeDAG)
	n := mustAddNode(t, g, NodeConfig{
		ID: "n", Kind: KindLogicGate, Operator: "and",
		CustomEval: func(inputs []float64) (float64, error) { return 42, nil },
	})
	if got := n.Evaluate([]float64{0, 0}); got != 42 {
		t.Errorf("custom eval = %v, want 42", got)
	}
}

func TestEdgeDelayTransform(t *testing.T) {
	e := &Edge{ID: "d", Transform: TransformDelay, Cond: ConditionAlways, Weight: 1}

	first, err := e.Apply(5)
	if err != nil {
		t.Fatalf("Apply error: %v", err)
	}
	if first != 0 {
		t.Errorf("first delay output = %v, want initial 0", first)
	}
	second, _ := e.Apply(7)
	if second != 5 {
		t.Errorf("second delay output = %v, want previous 5", second)
	}
}

func TestEdgeInvert(t *testing.T) {
	amp := &Edge{Transform: TransformAmplify, Weight: 4}
	if v, err := amp.Invert(8); err != nil || v != 2 {
		t.Errorf("invert amplify = %v (%v), want 2", v, err)
	}

	zero := &Edge{Transform: TransformAmplify, Weight: 0}
	if _, err := zero.Invert(8); err == nil {
		t.Error("expected error inverting amplify with zero weight")
	}

	damp := &Edge{Transform: TransformDampen, Weight: 4}
	if v, _ := damp.Invert(2); v != 8 {
		t.Errorf("invert dampen = %v, want 8", v)
	}

	neg := &Edge{Transform: TransformNegate}
	if v, _ := neg.Invert(0.3); v != 0.7 {
		t.Errorf("invert negate = %v, want 0.7 (self-inverse)", v)
	}
}
