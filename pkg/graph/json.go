package graph

import (
	"encoding/json"

	"github.com/inferlab/logicgraph/pkg/fuzzy"
	"github.com/inferlab/logicgraph/pkg/logic"
	"github.com/inferlab/logicgraph/pkg/model"
)

// Metadata keys used to carry operator parameters through the wire format
const (
	metaK            = "k"
	metaOutputCount  = "outputCount"
	metaLevels       = "levels"
	metaGamma        = "gamma"
	metaLambda       = "lambda"
	metaYagerW       = "yagerW"
	metaFuzzyWeights = "fuzzyWeights"
)

// ToJSON produces the round-trippable wire form of the graph. Custom Go
// functions (condition predicates, custom scoring and evaluation) are not
// serializable and are dropped.
func (g *Graph) ToJSON() *model.GraphJSON {
	gj := &model.GraphJSON{
		ID:       g.ID,
		Name:     g.Name,
		Version:  g.Version,
		Type:     string(g.Type),
		Metadata: g.Metadata,
		Created:  g.created,
		Modified: g.modified,
		Nodes:    make([]model.NodeJSON, 0, len(g.nodes)),
		Edges:    make([]model.EdgeJSON, 0, len(g.edges)),
	}

	for _, n := range g.Nodes() {
		gj.Nodes = append(gj.Nodes, model.NodeJSON{
			ID:                      n.ID,
			Name:                    n.Name,
			Layer:                   n.Layer,
			Position:                n.Position,
			NodeType:                string(n.Kind),
			LogicType:               n.LogicType,
			BranchCount:             n.BranchCount,
			BranchLabels:            n.BranchLabels,
			BranchConditions:        n.BranchConditions,
			TruthTable:              n.TruthTable,
			FuzzyMembership:         n.membershipSpec,
			ProbabilityDistribution: n.Distribution,
			ScoringFunction:         string(n.Scoring),
			Weights:                 n.Weights,
			Thresholds:              n.Thresholds,
			Bias:                    n.Bias,
			Metadata:                paramsToMetadata(n),
			Visual:                  n.Visual,
		})
	}

	for _, e := range g.Edges() {
		gj.Edges = append(gj.Edges, model.EdgeJSON{
			ID:         e.ID,
			Source:     e.Source,
			Target:     e.Target,
			SourcePort: e.SourcePort,
			TargetPort: e.TargetPort,
			Weight:     e.Weight,
			Condition:  string(e.Cond),
			Label:      e.Label,
			Operator:   string(e.Transform),
			Visual:     e.Visual,
			Metadata:   e.Metadata,
		})
	}
	return gj
}

// MarshalJSON encodes the wire form
func (g *Graph) MarshalJSON() ([]byte, error) {
	return json.Marshal(g.ToJSON())
}

// FromJSON reconstructs a graph from its wire form. Edges are re-added
// through the same mutation path as live edits, so a dag-typed document with
// a cycle is rejected.
func FromJSON(gj *model.GraphJSON) (*Graph, error) {
	graphType := Type(gj.Type)
	if graphType == "" {
		graphType = TypeDAG
	}
	g := New(graphType)
	g.ID = gj.ID
	g.Name = gj.Name
	g.Version = gj.Version
	g.Metadata = gj.Metadata
	if !gj.Created.IsZero() {
		g.created = gj.Created
	}
	if !gj.Modified.IsZero() {
		g.modified = gj.Modified
	}

	for _, nj := range gj.Nodes {
		cfg := NodeConfig{
			ID:               nj.ID,
			Name:             nj.Name,
			Kind:             NodeKind(nj.NodeType),
			Operator:         nj.LogicType,
			Layer:            nj.Layer,
			Position:         nj.Position,
			BranchCount:      nj.BranchCount,
			BranchLabels:     nj.BranchLabels,
			BranchConditions: nj.BranchConditions,
			TruthTable:       nj.TruthTable,
			Membership:       nj.FuzzyMembership,
			Distribution:     nj.ProbabilityDistribution,
			Scoring:          ScoringKind(nj.ScoringFunction),
			Weights:          nj.Weights,
			Thresholds:       nj.Thresholds,
			Bias:             nj.Bias,
			Metadata:         nj.Metadata,
			Visual:           nj.Visual,
		}
		cfg.GateParams, cfg.FuzzyParams = paramsFromMetadata(nj.Metadata)
		if _, err := g.AddNode(cfg); err != nil {
			return nil, err
		}
	}

	for _, ej := range gj.Edges {
		e, err := g.AddEdge(ej.Source, ej.Target, EdgeConfig{
			ID:         ej.ID,
			SourcePort: ej.SourcePort,
			TargetPort: ej.TargetPort,
			Weight:     ej.Weight,
			Cond:       Condition(ej.Condition),
			Transform:  Transform(ej.Operator),
			Label:      ej.Label,
			Metadata:   ej.Metadata,
			Visual:     ej.Visual,
		})
		if err != nil {
			return nil, err
		}
		e.Weight = ej.Weight // preserve an explicit zero weight
	}

	if !gj.Modified.IsZero() {
		g.modified = gj.Modified
	}
	return g, nil
}

// Parse decodes and reconstructs a graph from raw JSON
func Parse(data []byte) (*Graph, error) {
	var gj model.GraphJSON
	if err := json.Unmarshal(data, &gj); err != nil {
		return nil, model.Validationf("graph", "invalid graph document: %v", err)
	}
	return FromJSON(&gj)
}

func paramsToMetadata(n *Node) map[string]interface{} {
	p, fp := n.GateParams, n.FuzzyParams
	if p == (logic.Params{}) && fp.Gamma == 0 && fp.Lambda == 0 && fp.W == 0 && fp.Weights == nil {
		return n.Metadata
	}
	out := make(map[string]interface{}, len(n.Metadata)+6)
	for k, v := range n.Metadata {
		out[k] = v
	}
	if p.K != 0 {
		out[metaK] = float64(p.K)
	}
	if p.OutputCount != 0 {
		out[metaOutputCount] = float64(p.OutputCount)
	}
	if p.Levels != 0 {
		out[metaLevels] = float64(p.Levels)
	}
	if fp.Gamma != 0 {
		out[metaGamma] = fp.Gamma
	}
	if fp.Lambda != 0 {
		out[metaLambda] = fp.Lambda
	}
	if fp.W != 0 {
		out[metaYagerW] = fp.W
	}
	if len(fp.Weights) > 0 {
		out[metaFuzzyWeights] = append([]float64{}, fp.Weights...)
	}
	return out
}

func paramsFromMetadata(meta map[string]interface{}) (logic.Params, fuzzy.OpParams) {
	var p logic.Params
	var fp fuzzy.OpParams
	num := func(key string) (float64, bool) {
		v, ok := meta[key]
		if !ok {
			return 0, false
		}
		f, ok := v.(float64)
		return f, ok
	}
	if v, ok := num(metaK); ok {
		p.K = int(v)
	}
	if v, ok := num(metaOutputCount); ok {
		p.OutputCount = int(v)
	}
	if v, ok := num(metaLevels); ok {
		p.Levels = int(v)
	}
	if v, ok := num(metaGamma); ok {
		fp.Gamma = v
	}
	if v, ok := num(metaLambda); ok {
		fp.Lambda = v
	}
	if v, ok := num(metaYagerW); ok {
		fp.W = v
	}
	// weights arrive as []float64 in-process and as []interface{} after a
	// JSON decode
	switch ws := meta[metaFuzzyWeights].(type) {
	case []float64:
		fp.Weights = append([]float64{}, ws...)
	case []interface{}:
		for _, w := range ws {
			if f, ok := w.(float64); ok {
				fp.Weights = append(fp.Weights, f)
			}
		}
	}
	return p, fp
}
