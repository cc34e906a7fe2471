package propagate

import (
	"context"
	"errors"

	"github.com/inferlab/logicgraph/pkg/logging"
	"github.com/inferlab/logicgraph/pkg/model"
)

// runTopological evaluates every node exactly once in canonical topological
// order. A cyclic graph is a hard failure.
func (e *Engine) runTopological(ctx context.Context, inputs map[string][]float64) error {
	order, err := e.g.TopologicalOrder()
	if err != nil {
		return err
	}
	return e.runOrdered(ctx, order, inputs)
}

// runEager is topological evaluation that degrades instead of failing: when
// the graph is cyclic it falls back to insertion order, evaluating each node
// once with whatever inputs are available at that point.
func (e *Engine) runEager(ctx context.Context, inputs map[string][]float64) error {
	order, err := e.g.TopologicalOrder()
	if err != nil {
		var serr *model.StructuralError
		if !errors.As(err, &serr) {
			return err
		}
		logging.Warn("eager propagation degraded to insertion order", "reason", serr.Code)
		order = e.g.InsertionOrder()
		e.mu.Lock()
		e.metrics.Degraded = true
		e.mu.Unlock()
	}
	return e.runOrdered(ctx, order, inputs)
}

func (e *Engine) runOrdered(ctx context.Context, order []string, inputs map[string][]float64) error {
	e.g.ClearState()
	for _, id := range order {
		if err := checkCancelled(ctx); err != nil {
			return err
		}
		n, ok := e.g.Node(id)
		if !ok {
			continue
		}
		vals := e.gatherInputs(id, inputs)
		e.evaluateNode(n, vals)
		e.mu.Lock()
		e.visited[id] = true
		e.mu.Unlock()
	}
	return nil
}
