package propagate

import (
	"context"
	"sync"
)

// runBackward is goal-seeking: it seeds from goal nodes with target values
// and walks incoming edges, inverse-applying each edge transform to compute
// the value implied at the parent. Parents are enqueued once. An edge that
// cannot be inverted (amplify with zero weight) records an evaluation error
// for the parent instead of propagating Inf or NaN.
func (e *Engine) runBackward(ctx context.Context, goalNodes []string, targets map[string][]float64) error {
	e.g.ClearState()

	queued := make(map[string]bool)
	queue := make([]string, 0, len(goalNodes))

	for _, id := range goalNodes {
		if _, ok := e.g.Node(id); !ok {
			continue
		}
		target := 0.0
		if vals := targets[id]; len(vals) > 0 {
			target = vals[0]
		}
		e.setResult(id, target)
		e.logStep(id, "seek", target, map[string]interface{}{"seed": true})
		queue = append(queue, id)
		queued[id] = true
	}

	for len(queue) > 0 {
		if err := checkCancelled(ctx); err != nil {
			return err
		}
		id := queue[0]
		queue = queue[1:]

		e.mu.Lock()
		seen := e.visited[id]
		e.visited[id] = true
		value := e.results[id]
		e.metrics.NodesEvaluated++
		e.mu.Unlock()
		if seen {
			continue
		}

		for _, edge := range e.g.InEdges(id) {
			implied, err := edge.Invert(value)
			if err != nil {
				e.recordError(edge.Source, err)
				continue
			}
			e.mu.Lock()
			e.metrics.EdgesTraversed++
			_, known := e.results[edge.Source]
			e.mu.Unlock()
			if !known {
				e.setResult(edge.Source, implied)
				e.logStep(edge.Source, "seek", implied, map[string]interface{}{"edge": edge.ID})
			}
			if !queued[edge.Source] {
				queue = append(queue, edge.Source)
				queued[edge.Source] = true
			}
		}
	}
	return nil
}

// runBidirectional runs the forward and backward passes concurrently as
// independent engines, then merges: forward results win on key collision,
// metrics are summed, and the step logs are merged in timestamp order.
func (e *Engine) runBidirectional(ctx context.Context, startNodes []string, inputs map[string][]float64) error {
	fwd := New(e.g)
	bwd := New(e.g)
	_ = bwd.SetStrategy(string(StrategyBackward))

	// the two passes share the graph's node state; serialize ClearState by
	// letting each engine run against its own snapshot of the worklist while
	// a single lock guards node evaluation
	var wg sync.WaitGroup
	var fwdErr, bwdErr error

	wg.Add(2)
	go func() {
		defer wg.Done()
		fwdErr = fwd.runForwardLocked(ctx, startNodes, inputs)
	}()
	go func() {
		defer wg.Done()
		bwdErr = bwd.runBackwardLocked(ctx, startNodes, inputs)
	}()
	wg.Wait()

	if fwdErr != nil {
		return fwdErr
	}
	if bwdErr != nil {
		return bwdErr
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	for k, v := range bwd.results {
		e.results[k] = v
	}
	for k, v := range fwd.results { // forward entries take precedence
		e.results[k] = v
	}
	e.metrics.NodesEvaluated = fwd.metrics.NodesEvaluated + bwd.metrics.NodesEvaluated
	e.metrics.EdgesTraversed = fwd.metrics.EdgesTraversed + bwd.metrics.EdgesTraversed
	if bwd.metrics.MaxDepth > fwd.metrics.MaxDepth {
		e.metrics.MaxDepth = bwd.metrics.MaxDepth
	} else {
		e.metrics.MaxDepth = fwd.metrics.MaxDepth
	}
	e.steps = sortedSteps(append(append([]Step{}, fwd.steps...), bwd.steps...))
	e.errs = append(append(e.errs, fwd.errs...), bwd.errs...)
	return nil
}

// nodeEvalMu serializes node evaluation when two logical passes run over the
// same graph concurrently: node and edge run state is per-graph, not
// per-engine.
var nodeEvalMu sync.Mutex

func (e *Engine) runForwardLocked(ctx context.Context, startNodes []string, inputs map[string][]float64) error {
	nodeEvalMu.Lock()
	defer nodeEvalMu.Unlock()
	return e.runForward(ctx, startNodes, inputs)
}

func (e *Engine) runBackwardLocked(ctx context.Context, goalNodes []string, targets map[string][]float64) error {
	nodeEvalMu.Lock()
	defer nodeEvalMu.Unlock()
	return e.runBackward(ctx, goalNodes, targets)
}
