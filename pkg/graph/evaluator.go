package graph

import (
	"math"
	"math/rand/v2"
	"sync"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/inferlab/logicgraph/pkg/fuzzy"
	"github.com/inferlab/logicgraph/pkg/logic"
	"github.com/inferlab/logicgraph/pkg/model"
)

// Evaluator computes a node's output from its ordered inputs. A Graph hands
// its evaluator to every node it creates; callers may inject their own
// implementation per node or per graph.
type Evaluator interface {
	Evaluate(n *Node, inputs []float64) (float64, error)
}

// DefaultEvaluator dispatches on node kind to the operator library and the
// fuzzy subsystem. One evaluator is shared by every node of a graph and may
// be called from concurrent goroutines; the mutex serializes draws from the
// PCG source, which mutates its state on every sample.
type DefaultEvaluator struct {
	mu      sync.Mutex
	uniform distuv.Uniform
}

// NewDefaultEvaluator creates an evaluator. The seed drives probabilistic
// node sampling; a fixed seed makes runs reproducible.
func NewDefaultEvaluator(seed uint64) *DefaultEvaluator {
	return &DefaultEvaluator{
		uniform: distuv.Uniform{Min: 0, Max: 1, Src: rand.NewPCG(seed, seed)},
	}
}

// Evaluate implements the node evaluation contract
func (d *DefaultEvaluator) Evaluate(n *Node, inputs []float64) (float64, error) {
	if n.CustomEval != nil {
		return n.CustomEval(inputs)
	}

	switch n.Kind {
	case KindLogicGate, KindMultiValued:
		return d.evalGate(n, inputs)
	case KindFuzzyGate:
		return d.evalFuzzy(n, inputs)
	case KindProbabilistic:
		return d.evalProbabilistic(n, inputs)
	case KindHybrid:
		// hybrid nodes use their gate or fuzzy operator when configured,
		// otherwise score like a decision node
		if n.hasGate {
			return d.evalGate(n, inputs)
		}
		if n.hasOp {
			return d.evalFuzzy(n, inputs)
		}
		return d.evalDecision(n, inputs)
	case KindStatistical:
		return d.evalStatistical(n, inputs)
	default:
		return d.evalDecision(n, inputs)
	}
}

func (d *DefaultEvaluator) evalGate(n *Node, inputs []float64) (float64, error) {
	if !n.hasGate {
		return 0, model.Validationf("node", "node %s has no operator configured", n.ID)
	}
	if len(inputs) < n.gate.MinInputs() {
		return 0, &logic.ArityError{Gate: n.gate, Got: len(inputs), Min: n.gate.MinInputs()}
	}
	if n.TruthTable != nil {
		if out, ok := n.TruthTable[truthTableKey(inputs)]; ok {
			if out {
				return 1, nil
			}
			return 0, nil
		}
	}
	return logic.Eval(n.gate, inputs, n.GateParams)
}

func (d *DefaultEvaluator) evalFuzzy(n *Node, inputs []float64) (float64, error) {
	if !n.hasOp {
		return 0, model.Validationf("node", "node %s has no fuzzy operator configured", n.ID)
	}
	vals := make([]float64, len(inputs))
	for i, v := range inputs {
		v = math.Max(0, math.Min(1, v))
		if n.Membership != nil {
			v = n.Membership(v)
		}
		vals[i] = v
	}
	out, err := fuzzy.EvalOp(n.fuzzyOp, vals, n.FuzzyParams)
	if err != nil {
		return 0, err
	}
	n.State.Branch = fuzzyBranch(out, n.BranchCount, n.Thresholds)
	return out, nil
}

// fuzzyBranch maps a fuzzy value in [0,1] to a branch index: a binary branch
// via threshold for two branches, equal-interval partitioning otherwise.
func fuzzyBranch(v float64, branchCount int, thresholds []float64) int {
	if branchCount == 2 {
		threshold := 0.5
		if len(thresholds) > 0 {
			threshold = thresholds[0]
		}
		if v >= threshold {
			return 1
		}
		return 0
	}
	if branchCount > 2 {
		idx := int(v * float64(branchCount))
		if idx >= branchCount {
			idx = branchCount - 1
		}
		return idx
	}
	return 0
}

// evalProbabilistic draws a uniform sample and walks the cumulative
// distribution, returning the first bucket whose cumulative mass reaches the
// sample. Floating rounding can leave the walk short; the last bucket is the
// fallback.
func (d *DefaultEvaluator) evalProbabilistic(n *Node, _ []float64) (float64, error) {
	if len(n.Distribution) == 0 {
		return 0, model.Validationf("node", "node %s has no probability distribution", n.ID)
	}
	d.mu.Lock()
	sample := d.uniform.Rand()
	d.mu.Unlock()
	cum := 0.0
	for i, mass := range n.Distribution {
		cum += mass
		if cum >= sample {
			return float64(i), nil
		}
	}
	return float64(len(n.Distribution) - 1), nil
}

func (d *DefaultEvaluator) evalDecision(n *Node, inputs []float64) (float64, error) {
	if len(inputs) == 0 {
		return 0, model.Validationf("node", "node %s received no inputs", n.ID)
	}
	var weights []float64
	if len(n.Weights) == len(inputs) {
		weights = n.Weights
	}
	avg := stat.Mean(inputs, weights)

	score, err := applyScoring(n, avg+n.Bias)
	if err != nil {
		return 0, err
	}

	// no thresholds means no bucketing: the score is the result
	if len(n.Thresholds) == 0 {
		return score, nil
	}

	// first-match scan over ascending thresholds; the final bucket catches
	// everything at or above the last threshold
	for i, th := range n.Thresholds {
		if score < th {
			n.State.Branch = i
			return float64(i), nil
		}
	}
	n.State.Branch = len(n.Thresholds)
	return float64(len(n.Thresholds)), nil
}

func (d *DefaultEvaluator) evalStatistical(n *Node, inputs []float64) (float64, error) {
	if len(inputs) == 0 {
		return 0, model.Validationf("node", "node %s received no inputs", n.ID)
	}
	var weights []float64
	if len(n.Weights) == len(inputs) {
		weights = n.Weights
	}
	return applyScoring(n, stat.Mean(inputs, weights)+n.Bias)
}

func applyScoring(n *Node, x float64) (float64, error) {
	switch n.Scoring {
	case "", ScoringLinear:
		return x, nil
	case ScoringTanh:
		return math.Tanh(x), nil
	case ScoringSigmoid:
		return 1 / (1 + math.Exp(-x)), nil
	case ScoringReLU:
		return math.Max(0, x), nil
	case ScoringCustom:
		if n.ScoreFunc == nil {
			return 0, model.Validationf("scoringFunction", "node %s declares custom scoring without a function", n.ID)
		}
		return n.ScoreFunc(x), nil
	default:
		return 0, model.Validationf("scoringFunction", "unknown scoring function %q", n.Scoring)
	}
}
