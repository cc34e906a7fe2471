package propagate

import (
	"context"

	"github.com/inferlab/logicgraph/pkg/model"
)

// runLazy computes only the demanded nodes, recursively pulling parent
// values on first use and memoizing them. Each node is evaluated at most
// once per run. A node demanded while its own evaluation is in progress
// means the graph has a cycle through it; that node degrades to zero with a
// recorded error rather than recursing forever.
func (e *Engine) runLazy(ctx context.Context, demanded []string, inputs map[string][]float64) error {
	e.g.ClearState()
	inProgress := make(map[string]bool)

	var getValue func(id string) (float64, error)
	getValue = func(id string) (float64, error) {
		if err := checkCancelled(ctx); err != nil {
			return 0, err
		}
		e.mu.Lock()
		if v, ok := e.results[id]; ok {
			e.mu.Unlock()
			return v, nil
		}
		e.mu.Unlock()

		if inProgress[id] {
			err := &model.EvaluationError{NodeID: id, Msg: "demand cycle detected"}
			e.mu.Lock()
			e.errs = append(e.errs, err)
			e.results[id] = 0
			e.mu.Unlock()
			return 0, nil
		}
		n, ok := e.g.Node(id)
		if !ok {
			// unknown ids are skipped, matching the other strategies
			return 0, nil
		}
		inProgress[id] = true
		defer delete(inProgress, id)

		var vals []float64
		for _, edge := range e.g.InEdges(id) {
			pv, err := getValue(edge.Source)
			if err != nil {
				return 0, err
			}
			out, err := edge.Apply(pv)
			if err != nil {
				e.recordError(id, err)
				continue
			}
			if !edge.State.Active {
				continue
			}
			e.mu.Lock()
			e.metrics.EdgesTraversed++
			e.mu.Unlock()
			vals = append(vals, out)
		}
		if len(vals) == 0 {
			vals = inputs[id]
		}

		v := e.evaluateNode(n, vals)
		e.mu.Lock()
		e.visited[id] = true
		e.mu.Unlock()
		return v, nil
	}

	for _, id := range demanded {
		if _, err := getValue(id); err != nil {
			return err
		}
	}
	return nil
}
