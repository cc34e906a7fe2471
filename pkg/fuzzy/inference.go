package fuzzy

import (
	"math"

	"github.com/inferlab/logicgraph/pkg/model"
)

// defuzzSteps is the number of equal discretization steps used by the
// centroid defuzzifier.
const defuzzSteps = 100

// Variable is a linguistic variable: a named, ranged axis with named terms
type Variable struct {
	Name  string
	Min   float64
	Max   float64
	terms map[string]MembershipFunc
}

// AddTerm registers a linguistic term on the variable
func (v *Variable) AddTerm(name string, mf MembershipFunc) {
	v.terms[name] = mf
}

// Term returns a registered term's membership function
func (v *Variable) Term(name string) (MembershipFunc, bool) {
	mf, ok := v.terms[name]
	return mf, ok
}

// Rule maps antecedent variable->term conditions to consequent variable->term
// assignments, scaled by a weight.
type Rule struct {
	Antecedent map[string]string
	Consequent map[string]string
	Weight     float64
}

// Inference is a Mamdani fuzzy inference system: fuzzify, fire rules with MIN
// activation, aggregate with MAX, defuzzify by centroid.
type Inference struct {
	inputs  map[string]*Variable
	outputs map[string]*Variable
	rules   []Rule
}

// NewInference creates an empty inference system
func NewInference() *Inference {
	return &Inference{
		inputs:  make(map[string]*Variable),
		outputs: make(map[string]*Variable),
	}
}

// AddInput registers an input variable over [min, max]
func (s *Inference) AddInput(name string, min, max float64) *Variable {
	v := &Variable{Name: name, Min: min, Max: max, terms: make(map[string]MembershipFunc)}
	s.inputs[name] = v
	return v
}

// AddOutput registers an output variable over [min, max]
func (s *Inference) AddOutput(name string, min, max float64) *Variable {
	v := &Variable{Name: name, Min: min, Max: max, terms: make(map[string]MembershipFunc)}
	s.outputs[name] = v
	return v
}

// AddRule registers a rule. Every referenced variable and term must already be
// registered; a weight of 0 is replaced by 1.
func (s *Inference) AddRule(antecedent, consequent map[string]string, weight float64) error {
	if len(antecedent) == 0 || len(consequent) == 0 {
		return model.Validationf("rule", "antecedent and consequent must be non-empty")
	}
	for varName, termName := range antecedent {
		v, ok := s.inputs[varName]
		if !ok {
			return model.Validationf("rule", "unknown input variable %q", varName)
		}
		if _, ok := v.Term(termName); !ok {
			return model.Validationf("rule", "unknown term %q on input %q", termName, varName)
		}
	}
	for varName, termName := range consequent {
		v, ok := s.outputs[varName]
		if !ok {
			return model.Validationf("rule", "unknown output variable %q", varName)
		}
		if _, ok := v.Term(termName); !ok {
			return model.Validationf("rule", "unknown term %q on output %q", termName, varName)
		}
	}
	if weight == 0 {
		weight = 1
	}
	s.rules = append(s.rules, Rule{Antecedent: antecedent, Consequent: consequent, Weight: weight})
	return nil
}

// Infer runs the Mamdani pipeline for the given crisp input values and returns
// one crisp value per output variable.
func (s *Inference) Infer(values map[string]float64) (map[string]float64, error) {
	// fuzzify: membership degree of every input term at its variable's value
	fuzzified := make(map[string]map[string]float64, len(s.inputs))
	for name, v := range s.inputs {
		x, ok := values[name]
		if !ok {
			return nil, model.Validationf("infer", "missing value for input variable %q", name)
		}
		degrees := make(map[string]float64, len(v.terms))
		for termName, mf := range v.terms {
			degrees[termName] = mf(x)
		}
		fuzzified[name] = degrees
	}

	// rule evaluation: activation = min over antecedent degrees, times weight
	type firing struct {
		rule       *Rule
		activation float64
	}
	firings := make([]firing, 0, len(s.rules))
	for i := range s.rules {
		r := &s.rules[i]
		activation := 1.0
		for varName, termName := range r.Antecedent {
			activation = math.Min(activation, fuzzified[varName][termName])
		}
		activation *= r.Weight
		if activation > 0 {
			firings = append(firings, firing{rule: r, activation: activation})
		}
	}

	// aggregation: per output term, MAX activation across firing rules
	aggregated := make(map[string]map[string]float64, len(s.outputs))
	for name := range s.outputs {
		aggregated[name] = make(map[string]float64)
	}
	for _, f := range firings {
		for varName, termName := range f.rule.Consequent {
			if f.activation > aggregated[varName][termName] {
				aggregated[varName][termName] = f.activation
			}
		}
	}

	// defuzzify each output by centroid over the discretized range
	out := make(map[string]float64, len(s.outputs))
	for name, v := range s.outputs {
		out[name] = defuzzifyCentroid(v, aggregated[name])
	}
	return out, nil
}

// defuzzifyCentroid samples the clipped-and-aggregated output surface and
// returns its center of gravity. An all-zero surface yields the range
// midpoint.
func defuzzifyCentroid(v *Variable, activations map[string]float64) float64 {
	step := (v.Max - v.Min) / defuzzSteps
	var num, denom float64
	for i := 0; i <= defuzzSteps; i++ {
		x := v.Min + float64(i)*step
		height := 0.0
		for termName, activation := range activations {
			mf := v.terms[termName]
			clipped := math.Min(activation, mf(x))
			height = math.Max(height, clipped)
		}
		num += x * height
		denom += height
	}
	if denom == 0 {
		return (v.Min + v.Max) / 2
	}
	return num / denom
}
