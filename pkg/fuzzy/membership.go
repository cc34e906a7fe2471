// Package fuzzy implements the fuzzy subsystem: membership functions,
// T-norm/S-norm families, complements, implications, aggregations, sparse
// fuzzy sets, and a Mamdani inference pipeline.
package fuzzy

import (
	"fmt"
	"math"
	"sort"

	"github.com/inferlab/logicgraph/pkg/model"
)

// MembershipFunc maps a crisp value to a degree of membership in [0,1]
type MembershipFunc func(x float64) float64

// Triangular rises linearly from a to a peak at b, then falls to c
func Triangular(a, b, c float64) MembershipFunc {
	return func(x float64) float64 {
		switch {
		case x <= a || x >= c:
			return 0
		case x == b:
			return 1
		case x < b:
			return (x - a) / (b - a)
		default:
			return (c - x) / (c - b)
		}
	}
}

// Trapezoidal rises from a to b, holds 1 until c, then falls to d
func Trapezoidal(a, b, c, d float64) MembershipFunc {
	return func(x float64) float64 {
		switch {
		case x <= a || x >= d:
			return 0
		case x >= b && x <= c:
			return 1
		case x < b:
			return (x - a) / (b - a)
		default:
			return (d - x) / (d - c)
		}
	}
}

// Gaussian is exp(-(x-mean)^2 / (2 sigma^2))
func Gaussian(mean, sigma float64) MembershipFunc {
	return func(x float64) float64 {
		d := x - mean
		return math.Exp(-(d * d) / (2 * sigma * sigma))
	}
}

// Bell is the generalized bell 1 / (1 + |(x-c)/a|^(2b))
func Bell(a, b, c float64) MembershipFunc {
	return func(x float64) float64 {
		return 1 / (1 + math.Pow(math.Abs((x-c)/a), 2*b))
	}
}

// Sigmoid is 1 / (1 + exp(-a(x-c)))
func Sigmoid(a, c float64) MembershipFunc {
	return func(x float64) float64 {
		return 1 / (1 + math.Exp(-a*(x-c)))
	}
}

// SCurve is the smooth spline rising from 0 at a to 1 at b
func SCurve(a, b float64) MembershipFunc {
	return func(x float64) float64 {
		switch {
		case x <= a:
			return 0
		case x >= b:
			return 1
		case x <= (a+b)/2:
			t := (x - a) / (b - a)
			return 2 * t * t
		default:
			t := (x - b) / (b - a)
			return 1 - 2*t*t
		}
	}
}

// ZCurve is the mirror of SCurve: 1 - S(x; a, b)
func ZCurve(a, b float64) MembershipFunc {
	s := SCurve(a, b)
	return func(x float64) float64 { return 1 - s(x) }
}

// PiShaped composes an S-curve shoulder (a,b) with a Z-curve shoulder (c,d)
func PiShaped(a, b, c, d float64) MembershipFunc {
	s := SCurve(a, b)
	z := ZCurve(c, d)
	return func(x float64) float64 { return s(x) * z(x) }
}

// Piecewise interpolates linearly between (x, y) breakpoints. Outside the
// breakpoint range the nearest endpoint's y is held.
func Piecewise(xs, ys []float64) (MembershipFunc, error) {
	if len(xs) != len(ys) || len(xs) == 0 {
		return nil, model.Validationf("piecewise", "need equal non-empty x and y lists, got %d and %d", len(xs), len(ys))
	}
	if !sort.Float64sAreSorted(xs) {
		return nil, model.Validationf("piecewise", "x breakpoints must be ascending")
	}
	return func(x float64) float64 {
		if x <= xs[0] {
			return ys[0]
		}
		if x >= xs[len(xs)-1] {
			return ys[len(ys)-1]
		}
		i := sort.SearchFloat64s(xs, x)
		x0, x1 := xs[i-1], xs[i]
		y0, y1 := ys[i-1], ys[i]
		return y0 + (y1-y0)*(x-x0)/(x1-x0)
	}, nil
}

// BuildMembership constructs a membership function from its wire form.
// Piecewise breakpoints are carried as n plus x0..x{n-1}, y0..y{n-1} params.
func BuildMembership(m model.MembershipJSON) (MembershipFunc, error) {
	p := m.Params
	get := func(key string, def float64) float64 {
		if v, ok := p[key]; ok {
			return v
		}
		return def
	}

	switch m.Type {
	case "triangular":
		return Triangular(get("a", 0), get("b", 0.5), get("c", 1)), nil
	case "trapezoidal":
		return Trapezoidal(get("a", 0), get("b", 0.25), get("c", 0.75), get("d", 1)), nil
	case "gaussian":
		return Gaussian(get("mean", 0.5), get("sigma", 0.1)), nil
	case "bell":
		return Bell(get("a", 0.2), get("b", 2), get("c", 0.5)), nil
	case "sigmoid":
		return Sigmoid(get("a", 10), get("c", 0.5)), nil
	case "scurve":
		return SCurve(get("a", 0), get("b", 1)), nil
	case "zcurve":
		return ZCurve(get("a", 0), get("b", 1)), nil
	case "pi":
		return PiShaped(get("a", 0), get("b", 0.4), get("c", 0.6), get("d", 1)), nil
	case "piecewise":
		n := int(get("n", 0))
		xs := make([]float64, n)
		ys := make([]float64, n)
		for i := 0; i < n; i++ {
			xs[i] = get(fmt.Sprintf("x%d", i), 0)
			ys[i] = get(fmt.Sprintf("y%d", i), 0)
		}
		return Piecewise(xs, ys)
	default:
		return nil, model.Validationf("fuzzyMembership", "unknown membership type %q", m.Type)
	}
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
