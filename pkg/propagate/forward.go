package propagate

import (
	"context"
)

// runForward is worklist-driven FIFO expansion from the start nodes. Each
// visited node evaluates, then every outgoing edge transforms the result and
// appends it to the target's pending-input list; newly reached nodes are
// enqueued once. Pending inputs accumulate in edge-traversal order.
func (e *Engine) runForward(ctx context.Context, startNodes []string, inputs map[string][]float64) error {
	e.g.ClearState()

	pending := make(map[string][]float64)
	queued := make(map[string]bool)
	queue := make([]string, 0, len(startNodes))

	for _, id := range startNodes {
		if _, ok := e.g.Node(id); !ok {
			continue
		}
		pending[id] = append(pending[id], inputs[id]...)
		if !queued[id] {
			queue = append(queue, id)
			queued[id] = true
		}
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
		e.mu.Unlock()
		if seen {
			continue
		}

		n, _ := e.g.Node(id)
		vals := pending[id]
		if len(vals) == 0 {
			vals = inputs[id]
		}
		result := e.evaluateNode(n, vals)

		for _, edge := range e.g.OutEdges(id) {
			v, err := edge.Apply(result)
			if err != nil {
				e.recordError(edge.Target, err)
				continue
			}
			if !edge.State.Active {
				continue
			}
			e.mu.Lock()
			e.metrics.EdgesTraversed++
			e.mu.Unlock()
			e.logStep(edge.Target, "transmit", v, map[string]interface{}{"edge": edge.ID})
			pending[edge.Target] = append(pending[edge.Target], v)
			if !queued[edge.Target] {
				queue = append(queue, edge.Target)
				queued[edge.Target] = true
			}
		}
	}
	return nil
}

// runTraversal is the shared breadth-first / depth-first walk. Unlike
// forward propagation, a node's input here is the single value delivered by
// the parent that discovered it. Depth-first pushes children in reverse so
// the leftmost child is explored first.
func (e *Engine) runTraversal(ctx context.Context, startNodes []string, inputs map[string][]float64, depthFirst bool) error {
	e.g.ClearState()

	type item struct {
		id    string
		vals  []float64
		depth int
	}

	stack := make([]item, 0, len(startNodes))
	for _, id := range startNodes {
		if _, ok := e.g.Node(id); !ok {
			continue
		}
		stack = append(stack, item{id: id, vals: inputs[id]})
	}

	for len(stack) > 0 {
		if err := checkCancelled(ctx); err != nil {
			return err
		}

		var cur item
		if depthFirst {
			cur = stack[len(stack)-1]
			stack = stack[:len(stack)-1]
		} else {
			cur = stack[0]
			stack = stack[1:]
		}

		e.mu.Lock()
		seen := e.visited[cur.id]
		e.visited[cur.id] = true
		if cur.depth > e.metrics.MaxDepth {
			e.metrics.MaxDepth = cur.depth
		}
		e.mu.Unlock()
		if seen {
			continue
		}

		n, _ := e.g.Node(cur.id)
		result := e.evaluateNode(n, cur.vals)

		outEdges := e.g.OutEdges(cur.id)
		discover := func(edgeIdx int) {
			edge := outEdges[edgeIdx]
			v, err := edge.Apply(result)
			if err != nil {
				e.recordError(edge.Target, err)
				return
			}
			if !edge.State.Active {
				return
			}
			e.mu.Lock()
			e.metrics.EdgesTraversed++
			e.mu.Unlock()
			e.logStep(edge.Target, "transmit", v, map[string]interface{}{"edge": edge.ID})
			stack = append(stack, item{id: edge.Target, vals: []float64{v}, depth: cur.depth + 1})
		}

		outgoing := len(outEdges)
		if depthFirst {
			for i := outgoing - 1; i >= 0; i-- {
				discover(i)
			}
		} else {
			for i := 0; i < outgoing; i++ {
				discover(i)
			}
		}
	}
	return nil
}
