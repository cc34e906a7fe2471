package graph

import (
	"sort"
	"time"

	"github.com/google/uuid"
	gograph "gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/inferlab/logicgraph/pkg/fuzzy"
	"github.com/inferlab/logicgraph/pkg/logic"
	"github.com/inferlab/logicgraph/pkg/model"
)

// Type classifies the graph's structural regime
type Type string

const (
	TypeDAG        Type = "dag"
	TypeCyclic     Type = "cyclic"
	TypeHypergraph Type = "hypergraph"
)

// Result is the outcome of one execution run. Evaluation errors are collected
// rather than aborting the run; callers distinguish a completed run with
// partial failures from a structural failure by the returned error.
type Result struct {
	Results map[string]float64       `json:"results"`
	Errors  []*model.EvaluationError `json:"errors,omitempty"`
	Elapsed time.Duration            `json:"elapsedNs"`
}

// Graph owns a collection of nodes and edges. Topology is mirrored into a
// gonum directed graph so acyclicity checks and ordering reuse one canonical
// implementation; the edge map remains the single source of truth and
// adjacency views are derived from it on demand.
type Graph struct {
	ID          string
	Name        string
	Version     string
	Type        Type
	AllowCycles bool
	Metadata    map[string]interface{}

	nodes map[string]*Node
	edges map[string]*Edge
	order []string // node insertion order

	dg     *simple.DirectedGraph
	gids   map[string]int64
	byGID  map[int64]string
	nextID int64

	created  time.Time
	modified time.Time

	lastRun   *Result
	executed  bool
	evaluator Evaluator
}

// New creates an empty graph. A dag-typed graph rejects cycle-closing edges;
// cyclic and hypergraph types allow them.
func New(graphType Type) *Graph {
	return &Graph{
		ID:          uuid.NewString(),
		Type:        graphType,
		AllowCycles: graphType != TypeDAG,
		nodes:       make(map[string]*Node),
		edges:       make(map[string]*Edge),
		dg:          simple.NewDirectedGraph(),
		gids:        make(map[string]int64),
		byGID:       make(map[int64]string),
		created:     time.Now().UTC(),
		modified:    time.Now().UTC(),
		evaluator:   NewDefaultEvaluator(uint64(time.Now().UnixNano())),
	}
}

// SetEvaluator replaces the evaluator handed to nodes created from now on and
// rebinds every existing node.
func (g *Graph) SetEvaluator(e Evaluator) {
	g.evaluator = e
	for _, n := range g.nodes {
		n.evaluator = e
	}
}

// NodeConfig describes a node to be added
type NodeConfig struct {
	ID       string
	Name     string
	Kind     NodeKind
	Operator string // gate or fuzzy operator name, resolved by Kind
	Layer    int
	Position model.Position

	BranchCount      int
	BranchLabels     []string
	BranchConditions []string

	TruthTable   map[string]bool
	Membership   *model.MembershipJSON
	Distribution []float64

	Scoring    ScoringKind
	ScoreFunc  func(float64) float64
	CustomEval func(inputs []float64) (float64, error)

	Weights    []float64
	Thresholds []float64
	Bias       float64

	GateParams  logic.Params
	FuzzyParams fuzzy.OpParams

	Metadata map[string]interface{}
	Visual   map[string]interface{}
}

// AddNode validates the configuration and inserts a new node
func (g *Graph) AddNode(cfg NodeConfig) (*Node, error) {
	if cfg.Kind == "" {
		cfg.Kind = KindDecision
	}
	if !nodeKinds[cfg.Kind] {
		return nil, model.Validationf("nodeType", "unknown node kind %q", cfg.Kind)
	}
	id := cfg.ID
	if id == "" {
		id = uuid.NewString()
	}
	if _, exists := g.nodes[id]; exists {
		return nil, model.Validationf("id", "node %q already exists", id)
	}

	n := &Node{
		ID:               id,
		Name:             cfg.Name,
		Kind:             cfg.Kind,
		Layer:            cfg.Layer,
		Position:         cfg.Position,
		LogicType:        cfg.Operator,
		BranchCount:      cfg.BranchCount,
		BranchLabels:     cfg.BranchLabels,
		BranchConditions: cfg.BranchConditions,
		TruthTable:       cfg.TruthTable,
		Distribution:     cfg.Distribution,
		Scoring:          cfg.Scoring,
		ScoreFunc:        cfg.ScoreFunc,
		CustomEval:       cfg.CustomEval,
		Weights:          cfg.Weights,
		Thresholds:       cfg.Thresholds,
		Bias:             cfg.Bias,
		GateParams:       cfg.GateParams,
		FuzzyParams:      cfg.FuzzyParams,
		membershipSpec:   cfg.Membership,
		Metadata:         cfg.Metadata,
		Visual:           cfg.Visual,
		evaluator:        g.evaluator,
	}

	if cfg.Operator != "" {
		switch cfg.Kind {
		case KindFuzzyGate:
			op, err := fuzzy.ParseOp(cfg.Operator)
			if err != nil {
				return nil, err
			}
			n.fuzzyOp, n.hasOp = op, true
		case KindLogicGate, KindMultiValued, KindHybrid:
			gate, err := logic.ParseGate(cfg.Operator)
			if err != nil {
				return nil, err
			}
			n.gate, n.hasGate = gate, true
		}
	}

	if cfg.Membership != nil {
		mf, err := fuzzy.BuildMembership(*cfg.Membership)
		if err != nil {
			return nil, err
		}
		n.Membership = mf
	}

	for _, mass := range cfg.Distribution {
		if mass < 0 {
			return nil, model.Validationf("probabilityDistribution", "negative mass %v", mass)
		}
	}

	if n.BranchCount > 0 && len(n.BranchLabels) == 0 {
		n.BranchLabels = generateBranchLabels(n.BranchCount)
	}

	g.nodes[id] = n
	g.order = append(g.order, id)

	gid := g.nextID
	g.nextID++
	g.gids[id] = gid
	g.byGID[gid] = id
	g.dg.AddNode(simple.Node(gid))

	g.modified = time.Now().UTC()
	return n, nil
}

// EdgeConfig describes an edge to be added
type EdgeConfig struct {
	ID         string
	SourcePort int
	TargetPort int
	Weight     float64
	Cond       Condition
	CondFunc   func(v float64) bool
	Transform  Transform
	Label      string
	Metadata   map[string]interface{}
	Visual     map[string]interface{}
}

// AddEdge connects source to target. With AllowCycles disabled, an edge that
// would close a cycle is rejected before anything is mutated, so the graph is
// never observed in a partially linked state.
func (g *Graph) AddEdge(source, target string, cfg EdgeConfig) (*Edge, error) {
	if _, ok := g.nodes[source]; !ok {
		return nil, model.Validationf("source", "unknown node %q", source)
	}
	if _, ok := g.nodes[target]; !ok {
		return nil, model.Validationf("target", "unknown node %q", target)
	}
	if cfg.Transform == "" {
		cfg.Transform = TransformDirect
	}
	if !transforms[cfg.Transform] {
		return nil, model.Validationf("operator", "unknown transform %q", cfg.Transform)
	}
	if cfg.Cond == "" {
		cfg.Cond = ConditionAlways
	}

	if !g.AllowCycles {
		// check-then-commit: a path target ~> source means this edge closes
		// a cycle
		if source == target || topo.PathExistsIn(g.dg, simple.Node(g.gids[target]), simple.Node(g.gids[source])) {
			return nil, &model.StructuralError{Code: model.CycleDetected, Source: source, Target: target}
		}
	}

	id := cfg.ID
	if id == "" {
		id = uuid.NewString()
	}
	if _, exists := g.edges[id]; exists {
		return nil, model.Validationf("id", "edge %q already exists", id)
	}

	weight := cfg.Weight
	if weight == 0 && cfg.Transform != TransformDampen {
		weight = 1
	}

	e := &Edge{
		ID:         id,
		Source:     source,
		Target:     target,
		SourcePort: cfg.SourcePort,
		TargetPort: cfg.TargetPort,
		Weight:     weight,
		Cond:       cfg.Cond,
		CondFunc:   cfg.CondFunc,
		Transform:  cfg.Transform,
		Label:      cfg.Label,
		Metadata:   cfg.Metadata,
		Visual:     cfg.Visual,
	}
	g.edges[id] = e

	if source != target && !g.dg.HasEdgeFromTo(g.gids[source], g.gids[target]) {
		g.dg.SetEdge(g.dg.NewEdge(simple.Node(g.gids[source]), simple.Node(g.gids[target])))
	}

	g.modified = time.Now().UTC()
	return e, nil
}

// RemoveNode deletes a node and cascades to every edge touching it
func (g *Graph) RemoveNode(id string) bool {
	n, ok := g.nodes[id]
	if !ok {
		return false
	}
	for _, e := range g.Edges() {
		if e.Source == id || e.Target == id {
			g.RemoveEdge(e.ID)
		}
	}
	delete(g.nodes, n.ID)
	for i, nid := range g.order {
		if nid == id {
			g.order = append(g.order[:i], g.order[i+1:]...)
			break
		}
	}
	gid := g.gids[id]
	g.dg.RemoveNode(gid)
	delete(g.gids, id)
	delete(g.byGID, gid)
	g.modified = time.Now().UTC()
	return true
}

// RemoveEdge deletes an edge. The topology arc is dropped only when no
// parallel edge remains between the same endpoints.
func (g *Graph) RemoveEdge(id string) bool {
	e, ok := g.edges[id]
	if !ok {
		return false
	}
	delete(g.edges, id)

	parallel := false
	for _, other := range g.edges {
		if other.Source == e.Source && other.Target == e.Target {
			parallel = true
			break
		}
	}
	if !parallel && e.Source != e.Target {
		g.dg.RemoveEdge(g.gids[e.Source], g.gids[e.Target])
	}
	g.modified = time.Now().UTC()
	return true
}

// Node returns a node by id
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Edge returns an edge by id
func (g *Graph) Edge(id string) (*Edge, bool) {
	e, ok := g.edges[id]
	return e, ok
}

// Nodes returns all nodes in insertion order
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, 0, len(g.nodes))
	for _, id := range g.order {
		out = append(out, g.nodes[id])
	}
	return out
}

// Edges returns all edges sorted by id
func (g *Graph) Edges() []*Edge {
	out := make([]*Edge, 0, len(g.edges))
	for _, e := range g.edges {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// NodeCount returns the number of nodes
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges
func (g *Graph) EdgeCount() int { return len(g.edges) }

// InEdges returns the edges targeting a node, sorted by edge id so input
// accumulation order is deterministic.
func (g *Graph) InEdges(id string) []*Edge {
	out := make([]*Edge, 0)
	for _, e := range g.Edges() {
		if e.Target == id {
			out = append(out, e)
		}
	}
	return out
}

// OutEdges returns the edges leaving a node, sorted by edge id
func (g *Graph) OutEdges(id string) []*Edge {
	out := make([]*Edge, 0)
	for _, e := range g.Edges() {
		if e.Source == id {
			out = append(out, e)
		}
	}
	return out
}

// Parents returns the distinct ids of nodes feeding into a node
func (g *Graph) Parents(id string) []string {
	gid, ok := g.gids[id]
	if !ok {
		return nil
	}
	return g.gidsToIDs(g.dg.To(gid))
}

// Children returns the distinct ids of nodes fed by a node
func (g *Graph) Children(id string) []string {
	gid, ok := g.gids[id]
	if !ok {
		return nil
	}
	return g.gidsToIDs(g.dg.From(gid))
}

func (g *Graph) gidsToIDs(it gograph.Nodes) []string {
	out := make([]string, 0)
	for it.Next() {
		out = append(out, g.byGID[it.Node().ID()])
	}
	sort.Strings(out)
	return out
}

func (g *Graph) hasSelfLoop() bool {
	for _, e := range g.edges {
		if e.Source == e.Target {
			return true
		}
	}
	return false
}

// HasCycle reports whether the graph contains any directed cycle
func (g *Graph) HasCycle() bool {
	if g.hasSelfLoop() {
		return true
	}
	_, err := topo.SortStabilized(g.dg, nil)
	return err != nil
}

// TopologicalOrder returns every node id in dependency order. This is the one
// canonical ordering used by both graph execution and topological
// propagation; a cyclic graph yields a CyclicGraph structural error.
func (g *Graph) TopologicalOrder() ([]string, error) {
	if g.hasSelfLoop() {
		return nil, &model.StructuralError{Code: model.CyclicGraph}
	}
	sorted, err := topo.SortStabilized(g.dg, nil)
	if err != nil {
		return nil, &model.StructuralError{Code: model.CyclicGraph}
	}
	out := make([]string, 0, len(sorted))
	for _, n := range sorted {
		out = append(out, g.byGID[n.ID()])
	}
	return out, nil
}

// Levels partitions node ids into dependency levels: sources are level 0 and
// every node sits one past its deepest parent. Cyclic graphs cannot be
// leveled.
func (g *Graph) Levels() ([][]string, error) {
	order, err := g.TopologicalOrder()
	if err != nil {
		return nil, err
	}
	level := make(map[string]int, len(order))
	maxLevel := 0
	for _, id := range order {
		l := 0
		for _, parent := range g.Parents(id) {
			if level[parent]+1 > l {
				l = level[parent] + 1
			}
		}
		level[id] = l
		if l > maxLevel {
			maxLevel = l
		}
	}
	out := make([][]string, maxLevel+1)
	for _, id := range order {
		out[level[id]] = append(out[level[id]], id)
	}
	return out, nil
}

// InsertionOrder returns node ids in the order they were added
func (g *Graph) InsertionOrder() []string {
	out := make([]string, len(g.order))
	copy(out, g.order)
	return out
}

// ClearState resets every node's and edge's per-run state and the last run
// record.
func (g *Graph) ClearState() {
	for _, n := range g.nodes {
		n.resetState()
	}
	for _, e := range g.edges {
		e.resetState()
	}
	g.lastRun = nil
	g.executed = false
}

// LastRun returns the most recent execution result, if any
func (g *Graph) LastRun() (*Result, bool) {
	return g.lastRun, g.executed
}

// Execute runs a single forward pass: nodes are evaluated in topological
// order (insertion order when the graph is cyclic), each gathering its inputs
// from incoming edge transforms of already-computed parents, falling back to
// the caller-supplied primary inputs for that node. Per-node failures are
// recorded and do not abort the run.
func (g *Graph) Execute(inputs map[string][]float64) *Result {
	g.ClearState()
	start := time.Now()

	order, err := g.TopologicalOrder()
	if err != nil {
		order = g.InsertionOrder()
	}

	res := &Result{Results: make(map[string]float64, len(order))}
	for _, id := range order {
		n := g.nodes[id]
		vals := make([]float64, 0)
		for _, e := range g.InEdges(id) {
			src, ok := res.Results[e.Source]
			if !ok {
				continue
			}
			v, err := e.Apply(src)
			if err != nil {
				res.Errors = append(res.Errors, &model.EvaluationError{NodeID: id, Msg: err.Error(), Err: err})
				continue
			}
			if e.State.Active {
				vals = append(vals, v)
			}
		}
		if len(vals) == 0 {
			vals = inputs[id]
		}

		value := n.Evaluate(vals)
		if n.State.Err != nil {
			if evalErr, ok := n.State.Err.(*model.EvaluationError); ok {
				res.Errors = append(res.Errors, evalErr)
			}
		}
		res.Results[id] = value
	}

	res.Elapsed = time.Since(start)
	g.lastRun = res
	g.executed = true
	return res
}
