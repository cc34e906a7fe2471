package model

import "time"

// Position is a 2D canvas coordinate carried for external editors. The core
// never interprets it.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// MembershipJSON is the serialized form of a parameterized membership function
type MembershipJSON struct {
	Type   string             `json:"type"`             // e.g., "triangular", "gaussian"
	Params map[string]float64 `json:"params,omitempty"` // function-specific parameters
}

// NodeJSON is the wire representation of a node
type NodeJSON struct {
	ID                      string                 `json:"id"`
	Name                    string                 `json:"name"`
	Layer                   int                    `json:"layer"`
	Position                Position               `json:"position"`
	NodeType                string                 `json:"nodeType"`  // decision, logic_gate, fuzzy_gate, ...
	LogicType               string                 `json:"logicType"` // operator name, e.g. "and", "fuzzy_min"
	BranchCount             int                    `json:"branchCount"`
	BranchLabels            []string               `json:"branchLabels,omitempty"`
	BranchConditions        []string               `json:"branchConditions,omitempty"`
	TruthTable              map[string]bool        `json:"truthTable,omitempty"` // input vector key -> output
	FuzzyMembership         *MembershipJSON        `json:"fuzzyMembership,omitempty"`
	ProbabilityDistribution []float64              `json:"probabilityDistribution,omitempty"`
	ScoringFunction         string                 `json:"scoringFunction,omitempty"` // linear, tanh, sigmoid, relu, custom
	Weights                 []float64              `json:"weights,omitempty"`
	Thresholds              []float64              `json:"thresholds,omitempty"`
	Bias                    float64                `json:"bias,omitempty"`
	Metadata                map[string]interface{} `json:"metadata,omitempty"`
	Visual                  map[string]interface{} `json:"visual,omitempty"`
}

// EdgeJSON is the wire representation of an edge
type EdgeJSON struct {
	ID         string                 `json:"id"`
	Source     string                 `json:"source"`
	Target     string                 `json:"target"`
	SourcePort int                    `json:"sourcePort"`
	TargetPort int                    `json:"targetPort"`
	Weight     float64                `json:"weight"`
	Condition  string                 `json:"condition,omitempty"` // always, never, custom
	Label      string                 `json:"label,omitempty"`
	Operator   string                 `json:"operator,omitempty"` // transform: direct, negate, amplify, dampen, delay
	Visual     map[string]interface{} `json:"visual,omitempty"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
}

// GraphJSON is the round-trippable wire representation of a whole graph
type GraphJSON struct {
	ID       string                 `json:"id"`
	Name     string                 `json:"name"`
	Version  string                 `json:"version"`
	Type     string                 `json:"type"` // dag, cyclic, hypergraph
	Nodes    []NodeJSON             `json:"nodes"`
	Edges    []EdgeJSON             `json:"edges"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
	Created  time.Time              `json:"created"`
	Modified time.Time              `json:"modified"`
}
