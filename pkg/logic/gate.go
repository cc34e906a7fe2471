// Package logic implements the gate operator library: boolean, threshold,
// multi-valued, and special-purpose gates dispatched over a closed Gate enum.
package logic

import (
	"fmt"
	"math"

	"github.com/inferlab/logicgraph/pkg/model"
)

// Gate identifies an operator. The set is closed; evaluation switches over it
// exhaustively so an unknown operator is impossible past ParseGate.
type Gate int

const (
	GateAND Gate = iota
	GateOR
	GateNOT
	GateNAND
	GateNOR
	GateXOR
	GateXNOR
	GateIMPLY
	GateNIMPLY

	GateMajority
	GateMinority
	GateThresholdK
	GateExactlyK
	GateAtMostK

	GateMUX
	GateDEMUX
	GateEncoder
	GateDecoder
	GateParity
	GateComparator

	GateLukasiewiczAND
	GateLukasiewiczOR
	GateLukasiewiczNOT
	GateLukasiewiczImply
	GatePostNegation
	GateKleeneAND
	GateKleeneOR
	GateKleeneNOT
	GateKleeneConsensus
	GateQuaternaryAND
	GateQuaternaryOR
	GateQuaternaryNOT
	GateQuaternaryAverage
)

var gateNames = map[Gate]string{
	GateAND:               "and",
	GateOR:                "or",
	GateNOT:               "not",
	GateNAND:              "nand",
	GateNOR:               "nor",
	GateXOR:               "xor",
	GateXNOR:              "xnor",
	GateIMPLY:             "imply",
	GateNIMPLY:            "nimply",
	GateMajority:          "majority",
	GateMinority:          "minority",
	GateThresholdK:        "threshold",
	GateExactlyK:          "exactly",
	GateAtMostK:           "at_most",
	GateMUX:               "mux",
	GateDEMUX:             "demux",
	GateEncoder:           "encoder",
	GateDecoder:           "decoder",
	GateParity:            "parity",
	GateComparator:        "comparator",
	GateLukasiewiczAND:    "lukasiewicz_and",
	GateLukasiewiczOR:     "lukasiewicz_or",
	GateLukasiewiczNOT:    "lukasiewicz_not",
	GateLukasiewiczImply:  "lukasiewicz_imply",
	GatePostNegation:      "post_negation",
	GateKleeneAND:         "kleene_and",
	GateKleeneOR:          "kleene_or",
	GateKleeneNOT:         "kleene_not",
	GateKleeneConsensus:   "kleene_consensus",
	GateQuaternaryAND:     "quaternary_and",
	GateQuaternaryOR:      "quaternary_or",
	GateQuaternaryNOT:     "quaternary_not",
	GateQuaternaryAverage: "quaternary_avg",
}

var gatesByName = func() map[string]Gate {
	m := make(map[string]Gate, len(gateNames))
	for g, name := range gateNames {
		m[name] = g
	}
	return m
}()

func (g Gate) String() string {
	if name, ok := gateNames[g]; ok {
		return name
	}
	return fmt.Sprintf("gate(%d)", int(g))
}

// ParseGate resolves an operator name to its Gate. Unknown names are a
// validation error raised at call time, never deferred to evaluation.
func ParseGate(name string) (Gate, error) {
	if g, ok := gatesByName[name]; ok {
		return g, nil
	}
	return 0, model.Validationf("logicType", "unknown gate %q", name)
}

// ArityError reports a call with fewer inputs than the gate requires
type ArityError struct {
	Gate Gate
	Got  int
	Min  int
}

func (e *ArityError) Error() string {
	return fmt.Sprintf("gate %s requires at least %d inputs, got %d", e.Gate, e.Min, e.Got)
}

// MinInputs returns the minimum input arity for a gate
func (g Gate) MinInputs() int {
	switch g {
	case GateIMPLY, GateNIMPLY, GateComparator, GateMUX, GateDEMUX,
		GateLukasiewiczAND, GateLukasiewiczOR, GateLukasiewiczImply,
		GateKleeneAND, GateKleeneOR, GateKleeneConsensus,
		GateQuaternaryAND, GateQuaternaryOR, GateQuaternaryAverage:
		return 2
	default:
		return 1
	}
}

// Params carries gate parameters that are configuration rather than inputs
type Params struct {
	K           int // count for threshold/exactly/at_most gates
	OutputCount int // line count for decoder/demux routing
	Levels      int // value count for Lukasiewicz/Post gates (default 3)
}

func truthy(v float64) bool { return v != 0 }

func boolToF(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func countTrue(inputs []float64) int {
	n := 0
	for _, v := range inputs {
		if truthy(v) {
			n++
		}
	}
	return n
}

// Eval applies a gate to an ordered input sequence. Boolean gates treat any
// non-zero input as true and return 0 or 1.
func Eval(g Gate, inputs []float64, p Params) (float64, error) {
	if len(inputs) < g.MinInputs() {
		return 0, &ArityError{Gate: g, Got: len(inputs), Min: g.MinInputs()}
	}

	switch g {
	case GateAND:
		return boolToF(countTrue(inputs) == len(inputs)), nil
	case GateOR:
		return boolToF(countTrue(inputs) > 0), nil
	case GateNOT:
		return boolToF(!truthy(inputs[0])), nil
	case GateNAND:
		return boolToF(countTrue(inputs) != len(inputs)), nil
	case GateNOR:
		return boolToF(countTrue(inputs) == 0), nil
	case GateXOR:
		return boolToF(countTrue(inputs)%2 == 1), nil
	case GateXNOR:
		return boolToF(countTrue(inputs)%2 == 0), nil
	case GateIMPLY:
		return boolToF(!truthy(inputs[0]) || truthy(inputs[1])), nil
	case GateNIMPLY:
		return boolToF(truthy(inputs[0]) && !truthy(inputs[1])), nil

	case GateMajority:
		return boolToF(float64(countTrue(inputs)) > float64(len(inputs))/2), nil
	case GateMinority:
		return boolToF(float64(countTrue(inputs)) < float64(len(inputs))/2), nil
	case GateThresholdK:
		return boolToF(countTrue(inputs) >= p.K), nil
	case GateExactlyK:
		return boolToF(countTrue(inputs) == p.K), nil
	case GateAtMostK:
		return boolToF(countTrue(inputs) <= p.K), nil

	case GateMUX:
		return evalMux(inputs)
	case GateDEMUX:
		return evalDemux(inputs, p)
	case GateEncoder:
		return evalEncoder(inputs), nil
	case GateDecoder:
		return evalDecoder(inputs, p), nil
	case GateParity:
		return float64(countTrue(inputs) % 2), nil
	case GateComparator:
		return evalComparator(inputs), nil

	case GateLukasiewiczAND, GateLukasiewiczOR, GateLukasiewiczNOT, GateLukasiewiczImply,
		GatePostNegation, GateKleeneAND, GateKleeneOR, GateKleeneNOT, GateKleeneConsensus,
		GateQuaternaryAND, GateQuaternaryOR, GateQuaternaryNOT, GateQuaternaryAverage:
		return evalMultiValued(g, inputs, p)
	}
	// unreachable: the Gate set is closed
	return 0, model.Validationf("gate", "unhandled gate %v", g)
}

// evalMux selects one of the remaining inputs by the first input's value
func evalMux(inputs []float64) (float64, error) {
	sel := int(inputs[0])
	data := inputs[1:]
	if sel < 0 || sel >= len(data) {
		return 0, model.Validationf("mux", "selector %d out of range for %d data inputs", sel, len(data))
	}
	return data[sel], nil
}

// evalDemux routes the first input to the line selected by the second and
// returns the active line index
func evalDemux(inputs []float64, p Params) (float64, error) {
	lines := p.OutputCount
	if lines <= 0 {
		lines = len(inputs)
	}
	sel := int(inputs[1])
	if sel < 0 || sel >= lines {
		return 0, model.Validationf("demux", "selector %d out of range for %d lines", sel, lines)
	}
	return float64(sel), nil
}

// evalEncoder returns the index of the first active input, -1 when none is
func evalEncoder(inputs []float64) float64 {
	for i, v := range inputs {
		if truthy(v) {
			return float64(i)
		}
	}
	return -1
}

// evalDecoder returns the one-hot line index for the input value
func evalDecoder(inputs []float64, p Params) float64 {
	lines := p.OutputCount
	if lines <= 0 {
		lines = 2
	}
	v := int(math.Abs(inputs[0]))
	return float64(v % lines)
}

func evalComparator(inputs []float64) float64 {
	switch {
	case inputs[0] < inputs[1]:
		return -1
	case inputs[0] > inputs[1]:
		return 1
	default:
		return 0
	}
}
