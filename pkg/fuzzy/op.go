package fuzzy

import (
	"fmt"

	"github.com/inferlab/logicgraph/pkg/model"
)

// Op identifies a fuzzy gate operator as used by fuzzy_gate nodes. The set is
// closed; node evaluation switches over it exhaustively.
type Op int

const (
	OpMin Op = iota
	OpProduct
	OpLukasiewiczAnd
	OpDrasticAnd
	OpHamacherAnd
	OpEinsteinAnd
	OpNilpotentAnd

	OpMax
	OpProbabilisticOr
	OpLukasiewiczOr
	OpDrasticOr
	OpHamacherOr
	OpEinsteinOr
	OpNilpotentOr

	OpComplement
	OpSugenoComplement
	OpYagerComplement

	OpImplyKleeneDienes
	OpImplyLukasiewicz
	OpImplyGodel
	OpImplyGoguen
	OpImplyMamdani
	OpImplyLarsen

	OpWeightedAverage
	OpOrderedWeightedAverage
	OpGeometricMean
	OpHarmonicMean
)

var opNames = map[Op]string{
	OpMin:                    "fuzzy_min",
	OpProduct:                "fuzzy_product",
	OpLukasiewiczAnd:         "fuzzy_lukasiewicz_and",
	OpDrasticAnd:             "fuzzy_drastic_and",
	OpHamacherAnd:            "fuzzy_hamacher_and",
	OpEinsteinAnd:            "fuzzy_einstein_and",
	OpNilpotentAnd:           "fuzzy_nilpotent_and",
	OpMax:                    "fuzzy_max",
	OpProbabilisticOr:        "fuzzy_probabilistic_or",
	OpLukasiewiczOr:          "fuzzy_lukasiewicz_or",
	OpDrasticOr:              "fuzzy_drastic_or",
	OpHamacherOr:             "fuzzy_hamacher_or",
	OpEinsteinOr:             "fuzzy_einstein_or",
	OpNilpotentOr:            "fuzzy_nilpotent_or",
	OpComplement:             "fuzzy_not",
	OpSugenoComplement:       "fuzzy_sugeno_not",
	OpYagerComplement:        "fuzzy_yager_not",
	OpImplyKleeneDienes:      "fuzzy_imply_kleene_dienes",
	OpImplyLukasiewicz:       "fuzzy_imply_lukasiewicz",
	OpImplyGodel:             "fuzzy_imply_godel",
	OpImplyGoguen:            "fuzzy_imply_goguen",
	OpImplyMamdani:           "fuzzy_imply_mamdani",
	OpImplyLarsen:            "fuzzy_imply_larsen",
	OpWeightedAverage:        "fuzzy_avg",
	OpOrderedWeightedAverage: "fuzzy_owa",
	OpGeometricMean:          "fuzzy_geometric_mean",
	OpHarmonicMean:           "fuzzy_harmonic_mean",
}

var opsByName = func() map[string]Op {
	m := make(map[string]Op, len(opNames))
	for op, name := range opNames {
		m[name] = op
	}
	return m
}()

func (o Op) String() string {
	if name, ok := opNames[o]; ok {
		return name
	}
	return fmt.Sprintf("op(%d)", int(o))
}

// ParseOp resolves a fuzzy operator name; unknown names are a validation
// error raised at call time.
func ParseOp(name string) (Op, error) {
	if op, ok := opsByName[name]; ok {
		return op, nil
	}
	return 0, model.Validationf("logicType", "unknown fuzzy operator %q", name)
}

// OpParams carries family parameters for the parameterized operators
type OpParams struct {
	Gamma   float64   // Hamacher families
	Lambda  float64   // Sugeno complement
	W       float64   // Yager complement
	Weights []float64 // weighted and ordered-weighted averages
}

// EvalOp evaluates a fuzzy operator over an input sequence. Binary operators
// are left-folded across the inputs; a single input is returned unchanged by
// the fold. Inputs are clamped to [0,1] first.
func EvalOp(op Op, inputs []float64, p OpParams) (float64, error) {
	if len(inputs) == 0 {
		return 0, model.Validationf("fuzzy", "no inputs")
	}
	clamped := make([]float64, len(inputs))
	for i, v := range inputs {
		clamped[i] = clamp01(v)
	}

	switch op {
	case OpMin, OpProduct, OpLukasiewiczAnd, OpDrasticAnd, OpHamacherAnd, OpEinsteinAnd, OpNilpotentAnd:
		t := tNormFor(op)
		return foldBinary(clamped, func(a, b float64) float64 { return t.Apply(a, b, p.Gamma) }), nil

	case OpMax, OpProbabilisticOr, OpLukasiewiczOr, OpDrasticOr, OpHamacherOr, OpEinsteinOr, OpNilpotentOr:
		s := sNormFor(op)
		return foldBinary(clamped, func(a, b float64) float64 { return s.Apply(a, b, p.Gamma) }), nil

	case OpComplement:
		return ComplementStandard.Apply(clamped[0], 0), nil
	case OpSugenoComplement:
		return ComplementSugeno.Apply(clamped[0], p.Lambda), nil
	case OpYagerComplement:
		return ComplementYager.Apply(clamped[0], p.W), nil

	case OpImplyKleeneDienes, OpImplyLukasiewicz, OpImplyGodel, OpImplyGoguen, OpImplyMamdani, OpImplyLarsen:
		if len(clamped) < 2 {
			return 0, model.Validationf("fuzzy", "implication needs 2 inputs, got %d", len(clamped))
		}
		impl := implicationFor(op)
		return foldBinary(clamped, impl.Apply), nil

	case OpWeightedAverage:
		return WeightedAverage(clamped, p.Weights)
	case OpOrderedWeightedAverage:
		return OrderedWeightedAverage(clamped, p.Weights)
	case OpGeometricMean:
		return GeometricMean(clamped)
	case OpHarmonicMean:
		return HarmonicMean(clamped)
	}
	// unreachable: the Op set is closed
	return 0, model.Validationf("fuzzy", "unhandled operator %v", op)
}

func foldBinary(inputs []float64, f func(a, b float64) float64) float64 {
	acc := inputs[0]
	for _, v := range inputs[1:] {
		acc = f(acc, v)
	}
	return acc
}

func tNormFor(op Op) TNorm {
	switch op {
	case OpProduct:
		return TNormProduct
	case OpLukasiewiczAnd:
		return TNormLukasiewicz
	case OpDrasticAnd:
		return TNormDrastic
	case OpHamacherAnd:
		return TNormHamacher
	case OpEinsteinAnd:
		return TNormEinstein
	case OpNilpotentAnd:
		return TNormNilpotent
	default:
		return TNormMin
	}
}

func sNormFor(op Op) SNorm {
	switch op {
	case OpProbabilisticOr:
		return SNormProbabilistic
	case OpLukasiewiczOr:
		return SNormLukasiewicz
	case OpDrasticOr:
		return SNormDrastic
	case OpHamacherOr:
		return SNormHamacher
	case OpEinsteinOr:
		return SNormEinstein
	case OpNilpotentOr:
		return SNormNilpotent
	default:
		return SNormMax
	}
}

func implicationFor(op Op) Implication {
	switch op {
	case OpImplyLukasiewicz:
		return ImplicationLukasiewicz
	case OpImplyGodel:
		return ImplicationGodel
	case OpImplyGoguen:
		return ImplicationGoguen
	case OpImplyMamdani:
		return ImplicationMamdani
	case OpImplyLarsen:
		return ImplicationLarsen
	default:
		return ImplicationKleeneDienes
	}
}
