package propagate

import (
	"context"
	"sort"
	"sync"

	"github.com/inferlab/logicgraph/pkg/graph"
)

// runLevelParallel groups nodes by topological level and evaluates each
// level as a batch of goroutines, with a barrier between levels. All parents
// of a node live in strictly earlier levels, so within a level the
// evaluations are independent.
func (e *Engine) runLevelParallel(ctx context.Context, inputs map[string][]float64) error {
	levels, err := e.g.Levels()
	if err != nil {
		return err
	}
	e.g.ClearState()

	for d, batch := range levels {
		if err := checkCancelled(ctx); err != nil {
			return err
		}
		batch := append([]string{}, batch...)
		sort.Strings(batch)

		var wg sync.WaitGroup
		for _, id := range batch {
			n, ok := e.g.Node(id)
			if !ok {
				continue
			}
			wg.Add(1)
			go func(id string, n *graph.Node) {
				defer wg.Done()
				vals := e.gatherInputs(id, inputs)
				e.evaluateNode(n, vals)
				e.mu.Lock()
				e.visited[id] = true
				e.mu.Unlock()
			}(id, n)
		}
		wg.Wait()

		e.mu.Lock()
		if d > e.metrics.MaxDepth {
			e.metrics.MaxDepth = d
		}
		e.mu.Unlock()
	}
	return nil
}
