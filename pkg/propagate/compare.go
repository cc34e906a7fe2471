package propagate

import (
	"context"

	"github.com/inferlab/logicgraph/pkg/graph"
	"github.com/inferlab/logicgraph/pkg/model"
)

// StrategyReport holds the outcome of one strategy during a comparison run.
// Err is set when the strategy failed; Results and Metrics are valid
// otherwise.
type StrategyReport struct {
	Strategy Strategy           `json:"strategy"`
	Results  map[string]float64 `json:"results,omitempty"`
	Metrics  Metrics            `json:"metrics"`
	Err      string             `json:"error,omitempty"`
}

// CompareStrategies runs the named strategies against the same graph, start
// nodes and inputs, each on a fresh engine. An empty name list compares all
// strategies. Unknown names fail the whole call up front; one strategy
// failing during its run (a cyclic graph under topological, say) never
// aborts the others.
func CompareStrategies(ctx context.Context, g *graph.Graph, names []string, startNodes []string, inputs map[string][]float64) ([]StrategyReport, error) {
	selected := make([]Strategy, 0, len(names))
	if len(names) == 0 {
		selected = Strategies()
	} else {
		for _, name := range names {
			s := Strategy(name)
			if !validStrategies[s] {
				return nil, model.Validationf("strategy", "unknown strategy %q", name)
			}
			selected = append(selected, s)
		}
	}

	reports := make([]StrategyReport, 0, len(selected))
	for _, s := range selected {
		e := New(g)
		_ = e.SetStrategy(string(s))
		results, err := e.Propagate(ctx, startNodes, inputs)
		r := StrategyReport{Strategy: s, Metrics: e.Metrics()}
		if err != nil {
			r.Err = err.Error()
		} else {
			r.Results = results
		}
		reports = append(reports, r)
	}
	return reports, nil
}
