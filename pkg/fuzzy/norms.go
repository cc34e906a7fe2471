package fuzzy

import "math"

// TNorm identifies a fuzzy AND family member
type TNorm int

const (
	TNormMin TNorm = iota
	TNormProduct
	TNormLukasiewicz
	TNormDrastic
	TNormHamacher
	TNormEinstein
	TNormNilpotent
)

// Apply evaluates the T-norm for a, b in [0,1]. gamma parameterizes the
// Hamacher family and is ignored by the others.
func (t TNorm) Apply(a, b, gamma float64) float64 {
	switch t {
	case TNormMin:
		return math.Min(a, b)
	case TNormProduct:
		return a * b
	case TNormLukasiewicz:
		return math.Max(0, a+b-1)
	case TNormDrastic:
		switch {
		case a == 1:
			return b
		case b == 1:
			return a
		default:
			return 0
		}
	case TNormHamacher:
		denom := gamma + (1-gamma)*(a+b-a*b)
		if denom == 0 {
			return 0
		}
		return a * b / denom
	case TNormEinstein:
		return a * b / (2 - (a + b - a*b))
	case TNormNilpotent:
		if a+b > 1 {
			return math.Min(a, b)
		}
		return 0
	}
	return 0
}

// SNorm identifies a fuzzy OR family member
type SNorm int

const (
	SNormMax SNorm = iota
	SNormProbabilistic
	SNormLukasiewicz
	SNormDrastic
	SNormHamacher
	SNormEinstein
	SNormNilpotent
)

// Apply evaluates the S-norm for a, b in [0,1]. gamma parameterizes the
// Hamacher family and is ignored by the others.
func (s SNorm) Apply(a, b, gamma float64) float64 {
	switch s {
	case SNormMax:
		return math.Max(a, b)
	case SNormProbabilistic:
		return a + b - a*b
	case SNormLukasiewicz:
		return math.Min(1, a+b)
	case SNormDrastic:
		switch {
		case a == 0:
			return b
		case b == 0:
			return a
		default:
			return 1
		}
	case SNormHamacher:
		denom := 1 - (1-gamma)*a*b
		if denom == 0 {
			return 1
		}
		return (a + b - a*b - (1-gamma)*a*b) / denom
	case SNormEinstein:
		return (a + b) / (1 + a*b)
	case SNormNilpotent:
		if a+b < 1 {
			return math.Max(a, b)
		}
		return 1
	}
	return 0
}

// Complement identifies a fuzzy negation
type Complement int

const (
	ComplementStandard Complement = iota
	ComplementSugeno
	ComplementYager
)

// Apply evaluates the complement of a. param is lambda for Sugeno and w for
// Yager; the standard complement ignores it.
func (c Complement) Apply(a, param float64) float64 {
	switch c {
	case ComplementStandard:
		return 1 - a
	case ComplementSugeno:
		return (1 - a) / (1 + param*a)
	case ComplementYager:
		if param == 0 {
			return 1 - a
		}
		return math.Pow(1-math.Pow(a, param), 1/param)
	}
	return 1 - a
}

// Implication identifies a fuzzy implication operator
type Implication int

const (
	ImplicationKleeneDienes Implication = iota
	ImplicationLukasiewicz
	ImplicationGodel
	ImplicationGoguen
	ImplicationMamdani
	ImplicationLarsen
)

// Apply evaluates a -> b
func (i Implication) Apply(a, b float64) float64 {
	switch i {
	case ImplicationKleeneDienes:
		return math.Max(1-a, b)
	case ImplicationLukasiewicz:
		return math.Min(1, 1-a+b)
	case ImplicationGodel:
		if a <= b {
			return 1
		}
		return b
	case ImplicationGoguen:
		if a == 0 {
			return 1
		}
		return math.Min(1, b/a)
	case ImplicationMamdani:
		return math.Min(a, b)
	case ImplicationLarsen:
		return a * b
	}
	return 0
}
