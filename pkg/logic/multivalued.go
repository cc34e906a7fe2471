package logic

import (
	"math"

	"github.com/inferlab/logicgraph/pkg/model"
)

// Multi-valued gates operate on integer truth levels 0..n-1. Łukasiewicz and
// Post gates take the level count from Params.Levels (default 3); Kleene logic
// is fixed ternary over {0=false, 1=unknown, 2=true} and quaternary gates are
// fixed over {0,1,2,3}.

const (
	kleeneFalse   = 0
	kleeneUnknown = 1
	kleeneTrue    = 2

	quaternaryMax = 3
)

func evalMultiValued(g Gate, inputs []float64, p Params) (float64, error) {
	levels := p.Levels
	if levels <= 0 {
		levels = 3
	}
	maxVal := float64(levels - 1)

	switch g {
	case GateLukasiewiczAND:
		return minOf(inputs), nil
	case GateLukasiewiczOR:
		return maxOf(inputs), nil
	case GateLukasiewiczNOT:
		return maxVal - inputs[0], nil
	case GateLukasiewiczImply:
		return math.Min(maxVal, maxVal-inputs[0]+inputs[1]), nil

	case GatePostNegation:
		return cyclicNegate(inputs[0], levels), nil

	case GateKleeneAND:
		return minOf(inputs), nil
	case GateKleeneOR:
		return maxOf(inputs), nil
	case GateKleeneNOT:
		return kleeneTrue - inputs[0], nil
	case GateKleeneConsensus:
		return kleeneConsensus(inputs), nil

	case GateQuaternaryAND:
		return minOf(inputs), nil
	case GateQuaternaryOR:
		return maxOf(inputs), nil
	case GateQuaternaryNOT:
		return quaternaryMax - inputs[0], nil
	case GateQuaternaryAverage:
		return math.Round(sumOf(inputs) / float64(len(inputs))), nil
	}
	return 0, model.Validationf("gate", "not a multi-valued gate: %v", g)
}

// cyclicNegate is the Post algebra successor: (x+1) mod n
func cyclicNegate(x float64, levels int) float64 {
	return float64((int(x) + 1) % levels)
}

// kleeneConsensus returns the agreed value when all inputs coincide, unknown
// otherwise
func kleeneConsensus(inputs []float64) float64 {
	first := inputs[0]
	for _, v := range inputs[1:] {
		if v != first {
			return kleeneUnknown
		}
	}
	return first
}

func minOf(inputs []float64) float64 {
	m := inputs[0]
	for _, v := range inputs[1:] {
		m = math.Min(m, v)
	}
	return m
}

func maxOf(inputs []float64) float64 {
	m := inputs[0]
	for _, v := range inputs[1:] {
		m = math.Max(m, v)
	}
	return m
}

func sumOf(inputs []float64) float64 {
	s := 0.0
	for _, v := range inputs {
		s += v
	}
	return s
}
