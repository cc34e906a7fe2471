package fuzzy

// Set is a sparse fuzzy set: a mapping from discrete elements to membership
// degrees. Degrees are clamped to [0,1] on insertion; absent elements have
// degree 0.
type Set struct {
	members map[string]float64
}

// Alpha thresholds used for support and core queries
const (
	supportAlpha = 1e-9
	coreAlpha    = 1 - 1e-9
)

// NewSet creates an empty fuzzy set
func NewSet() *Set {
	return &Set{members: make(map[string]float64)}
}

// Add sets an element's membership degree, clamping to [0,1]
func (s *Set) Add(element string, degree float64) {
	s.members[element] = clamp01(degree)
}

// Degree returns the membership degree of an element (0 if absent)
func (s *Set) Degree(element string) float64 {
	return s.members[element]
}

// Len returns the number of elements with recorded membership
func (s *Set) Len() int { return len(s.members) }

// Elements returns every element with recorded membership
func (s *Set) Elements() []string {
	out := make([]string, 0, len(s.members))
	for e := range s.members {
		out = append(out, e)
	}
	return out
}

// Union combines two sets with an S-norm (use SNormMax for the standard union)
func (s *Set) Union(other *Set, norm SNorm) *Set {
	out := NewSet()
	for e, d := range s.members {
		out.Add(e, norm.Apply(d, other.Degree(e), 0))
	}
	for e, d := range other.members {
		if _, seen := s.members[e]; !seen {
			out.Add(e, norm.Apply(0, d, 0))
		}
	}
	return out
}

// Intersect combines two sets with a T-norm (use TNormMin for the standard
// intersection)
func (s *Set) Intersect(other *Set, norm TNorm) *Set {
	out := NewSet()
	for e, d := range s.members {
		out.Add(e, norm.Apply(d, other.Degree(e), 0))
	}
	return out
}

// Complement returns the set with every recorded degree standard-complemented
func (s *Set) Complement() *Set {
	out := NewSet()
	for e, d := range s.members {
		out.Add(e, 1-d)
	}
	return out
}

// AlphaCut returns the elements whose membership is at least alpha
func (s *Set) AlphaCut(alpha float64) []string {
	out := make([]string, 0)
	for e, d := range s.members {
		if d >= alpha {
			out = append(out, e)
		}
	}
	return out
}

// Support returns the elements with any positive membership
func (s *Set) Support() []string { return s.AlphaCut(supportAlpha) }

// Core returns the elements with full membership
func (s *Set) Core() []string { return s.AlphaCut(coreAlpha) }

// Cardinality returns the sum of all membership degrees
func (s *Set) Cardinality() float64 {
	sum := 0.0
	for _, d := range s.members {
		sum += d
	}
	return sum
}
