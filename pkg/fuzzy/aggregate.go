package fuzzy

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/inferlab/logicgraph/pkg/model"
)

// WeightedAverage computes sum(w_i x_i) / sum(w_i). A nil weight slice means
// uniform weights.
func WeightedAverage(values, weights []float64) (float64, error) {
	if len(values) == 0 {
		return 0, model.Validationf("aggregate", "no values to aggregate")
	}
	if weights != nil && len(weights) != len(values) {
		return 0, model.Validationf("aggregate", "got %d weights for %d values", len(weights), len(values))
	}
	return stat.Mean(values, weights), nil
}

// OrderedWeightedAverage sorts values descending, then applies the weights
// positionally (OWA operator).
func OrderedWeightedAverage(values, weights []float64) (float64, error) {
	if len(values) == 0 {
		return 0, model.Validationf("aggregate", "no values to aggregate")
	}
	if weights != nil && len(weights) != len(values) {
		return 0, model.Validationf("aggregate", "got %d weights for %d values", len(weights), len(values))
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Sort(sort.Reverse(sort.Float64Slice(sorted)))
	return stat.Mean(sorted, weights), nil
}

// GeometricMean computes the unweighted geometric mean
func GeometricMean(values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, model.Validationf("aggregate", "no values to aggregate")
	}
	return stat.GeometricMean(values, nil), nil
}

// HarmonicMean computes the unweighted harmonic mean
func HarmonicMean(values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, model.Validationf("aggregate", "no values to aggregate")
	}
	return stat.HarmonicMean(values, nil), nil
}
