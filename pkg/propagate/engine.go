// Package propagate implements the propagation engine: nine execution
// strategies that walk a logic graph, invoking node evaluation and edge
// transforms, producing a per-node result map plus a step log and metrics.
package propagate

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/inferlab/logicgraph/pkg/graph"
	"github.com/inferlab/logicgraph/pkg/model"
)

// Strategy names an execution strategy
type Strategy string

const (
	StrategyForward       Strategy = "forward"
	StrategyBackward      Strategy = "backward"
	StrategyBidirectional Strategy = "bidirectional"
	StrategyBFS           Strategy = "bfs"
	StrategyDFS           Strategy = "dfs"
	StrategyTopological   Strategy = "topological"
	StrategyLevelParallel Strategy = "level_parallel"
	StrategyLazy          Strategy = "lazy"
	StrategyEager         Strategy = "eager"
)

// Strategies returns every available strategy name
func Strategies() []Strategy {
	return []Strategy{
		StrategyForward, StrategyBackward, StrategyBidirectional,
		StrategyBFS, StrategyDFS, StrategyTopological,
		StrategyLevelParallel, StrategyLazy, StrategyEager,
	}
}

var validStrategies = func() map[Strategy]bool {
	m := make(map[Strategy]bool)
	for _, s := range Strategies() {
		m[s] = true
	}
	return m
}()

// Status is the engine's run state. failed is reached only by a structural
// error or cancellation, never by a per-node evaluation error.
type Status string

const (
	StatusIdle      Status = "idle"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Step is one entry in the ordered step log kept for replay and audit
type Step struct {
	NodeID string                 `json:"nodeId"`
	Action string                 `json:"action"` // evaluate, transmit, seek, level
	Value  float64                `json:"value"`
	Meta   map[string]interface{} `json:"meta,omitempty"`
	At     time.Time              `json:"at"`
}

// Metrics are per-run performance counters
type Metrics struct {
	NodesEvaluated int           `json:"nodesEvaluated"`
	EdgesTraversed int           `json:"edgesTraversed"`
	MaxDepth       int           `json:"maxDepth"`
	Elapsed        time.Duration `json:"elapsedNs"`
	Degraded       bool          `json:"degraded,omitempty"` // eager fell back to unordered evaluation
}

// Engine runs propagation strategies over a graph. All strategy state
// (visited set, results, step log, metrics) is cleared by Reset, which runs
// at the start of every Propagate call.
type Engine struct {
	g        *graph.Graph
	strategy Strategy

	mu      sync.Mutex
	status  Status
	visited map[string]bool
	results map[string]float64
	steps   []Step
	metrics Metrics
	errs    []*model.EvaluationError
}

// New creates an engine for a graph, defaulting to forward propagation
func New(g *graph.Graph) *Engine {
	e := &Engine{g: g, strategy: StrategyForward}
	e.Reset()
	return e
}

// SetStrategy selects the strategy by name
func (e *Engine) SetStrategy(name string) error {
	s := Strategy(name)
	if !validStrategies[s] {
		return model.Validationf("strategy", "unknown strategy %q", name)
	}
	e.strategy = s
	return nil
}

// CurrentStrategy returns the selected strategy
func (e *Engine) CurrentStrategy() Strategy { return e.strategy }

// Reset clears all per-run state and returns the engine to idle
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.status = StatusIdle
	e.visited = make(map[string]bool)
	e.results = make(map[string]float64)
	e.steps = nil
	e.metrics = Metrics{}
	e.errs = nil
}

// Status returns the engine's run state
func (e *Engine) Status() Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.status
}

// StepHistory returns a copy of the ordered step log
func (e *Engine) StepHistory() []Step {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Step, len(e.steps))
	copy(out, e.steps)
	return out
}

// Metrics returns the last run's performance counters
func (e *Engine) Metrics() Metrics {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.metrics
}

// Results returns a copy of the per-node result map
func (e *Engine) Results() map[string]float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make(map[string]float64, len(e.results))
	for k, v := range e.results {
		out[k] = v
	}
	return out
}

// Errors returns the per-node evaluation errors recorded during the last run
func (e *Engine) Errors() []*model.EvaluationError {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]*model.EvaluationError, len(e.errs))
	copy(out, e.errs)
	return out
}

// Propagate executes the selected strategy from the given start nodes with
// the given initial inputs. Backward-style strategies interpret the start
// nodes as goals and the first input value per node as its target value.
// Structural errors and cancellation fail the run; per-node evaluation
// errors are recorded and the run completes.
func (e *Engine) Propagate(ctx context.Context, startNodes []string, inputs map[string][]float64) (map[string]float64, error) {
	e.Reset()
	e.setStatus(StatusRunning)
	start := time.Now()

	var err error
	switch e.strategy {
	case StrategyForward:
		err = e.runForward(ctx, startNodes, inputs)
	case StrategyBackward:
		err = e.runBackward(ctx, startNodes, inputs)
	case StrategyBidirectional:
		err = e.runBidirectional(ctx, startNodes, inputs)
	case StrategyBFS:
		err = e.runTraversal(ctx, startNodes, inputs, false)
	case StrategyDFS:
		err = e.runTraversal(ctx, startNodes, inputs, true)
	case StrategyTopological:
		err = e.runTopological(ctx, inputs)
	case StrategyLevelParallel:
		err = e.runLevelParallel(ctx, inputs)
	case StrategyLazy:
		err = e.runLazy(ctx, startNodes, inputs)
	case StrategyEager:
		err = e.runEager(ctx, inputs)
	}

	e.mu.Lock()
	e.metrics.Elapsed = time.Since(start)
	e.mu.Unlock()

	if err != nil {
		e.setStatus(StatusFailed)
		return nil, err
	}
	e.setStatus(StatusCompleted)
	return e.Results(), nil
}

func (e *Engine) setStatus(s Status) {
	e.mu.Lock()
	e.status = s
	e.mu.Unlock()
}

func (e *Engine) logStep(nodeID, action string, value float64, meta map[string]interface{}) {
	e.mu.Lock()
	e.steps = append(e.steps, Step{NodeID: nodeID, Action: action, Value: value, Meta: meta, At: time.Now()})
	e.mu.Unlock()
}

func (e *Engine) setResult(id string, v float64) {
	e.mu.Lock()
	e.results[id] = v
	e.mu.Unlock()
}

func (e *Engine) recordNodeError(n *graph.Node) {
	if n.State.Err == nil {
		return
	}
	if evalErr, ok := n.State.Err.(*model.EvaluationError); ok {
		e.mu.Lock()
		e.errs = append(e.errs, evalErr)
		e.mu.Unlock()
	}
}

func (e *Engine) recordError(nodeID string, err error) {
	e.mu.Lock()
	e.errs = append(e.errs, &model.EvaluationError{NodeID: nodeID, Msg: err.Error(), Err: err})
	e.mu.Unlock()
}

// evaluateNode runs one node against its inputs, recording the step, the
// result, and any absorbed error.
func (e *Engine) evaluateNode(n *graph.Node, vals []float64) float64 {
	v := n.Evaluate(vals)
	e.mu.Lock()
	e.metrics.NodesEvaluated++
	e.mu.Unlock()
	e.setResult(n.ID, v)
	e.logStep(n.ID, "evaluate", v, nil)
	e.recordNodeError(n)
	return v
}

// gatherInputs collects a node's inputs from its incoming edges against
// already-known results, falling back to the caller-supplied primary input.
// Accumulation order follows edge id order, not target port index.
func (e *Engine) gatherInputs(id string, inputs map[string][]float64) []float64 {
	vals := make([]float64, 0)
	for _, edge := range e.g.InEdges(id) {
		e.mu.Lock()
		src, ok := e.results[edge.Source]
		e.mu.Unlock()
		if !ok {
			continue
		}
		v, err := edge.Apply(src)
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
		vals = append(vals, v)
	}
	if len(vals) == 0 {
		vals = inputs[id]
	}
	return vals
}

func checkCancelled(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}

func sortedSteps(steps []Step) []Step {
	out := make([]Step, len(steps))
	copy(out, steps)
	sort.SliceStable(out, func(i, j int) bool { return out[i].At.Before(out[j].At) })
	return out
}
