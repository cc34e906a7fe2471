package graph

import (
	"sort"

	gograph "gonum.org/v1/gonum/graph"
)

// Cycles returns every strongly connected component with more than one node,
// plus self-loops, as lists of node ids. Tarjan's algorithm over the mirrored
// topology; O(V+E).
func (g *Graph) Cycles() [][]string {
	t := &tarjanSCC{
		graph:   g.dg,
		onStack: make(map[int64]bool),
		indices: make(map[int64]int),
		lowLink: make(map[int64]int),
	}
	sccs := t.findSCCs()

	out := make([][]string, 0, len(sccs))
	for _, scc := range sccs {
		ids := make([]string, 0, len(scc))
		for _, gid := range scc {
			ids = append(ids, g.byGID[gid])
		}
		sort.Strings(ids)
		out = append(out, ids)
	}

	// self-loops are invisible to the mirrored topology
	for _, e := range g.Edges() {
		if e.Source == e.Target {
			out = append(out, []string{e.Source})
		}
	}
	return out
}

// tarjanSCC finds strongly connected components in a directed graph
type tarjanSCC struct {
	graph   gograph.Directed
	index   int
	stack   []int64
	onStack map[int64]bool
	indices map[int64]int
	lowLink map[int64]int
	sccs    [][]int64
}

func (t *tarjanSCC) findSCCs() [][]int64 {
	nodes := t.graph.Nodes()
	for nodes.Next() {
		node := nodes.Node()
		if _, visited := t.indices[node.ID()]; !visited {
			t.strongConnect(node.ID())
		}
	}
	return t.sccs
}

func (t *tarjanSCC) strongConnect(nodeID int64) {
	t.indices[nodeID] = t.index
	t.lowLink[nodeID] = t.index
	t.index++

	t.stack = append(t.stack, nodeID)
	t.onStack[nodeID] = true

	successors := t.graph.From(nodeID)
	for successors.Next() {
		successorID := successors.Node().ID()
		if _, visited := t.indices[successorID]; !visited {
			t.strongConnect(successorID)
			t.lowLink[nodeID] = min(t.lowLink[nodeID], t.lowLink[successorID])
		} else if t.onStack[successorID] {
			t.lowLink[nodeID] = min(t.lowLink[nodeID], t.indices[successorID])
		}
	}

	// nodeID roots an SCC: pop the stack down to it
	if t.lowLink[nodeID] == t.indices[nodeID] {
		scc := make([]int64, 0)
		for {
			w := t.stack[len(t.stack)-1]
			t.stack = t.stack[:len(t.stack)-1]
			t.onStack[w] = false
			scc = append(scc, w)
			if w == nodeID {
				break
			}
		}
		// single-node SCCs are not cycles
		if len(scc) > 1 {
			t.sccs = append(t.sccs, scc)
		}
	}
}
