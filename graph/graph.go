package graph

import (
	"fmt"

	"github.com/shilpagarg/vg/internal/logging"
)

var log = logging.New("vg/graph")

// Graph is the minimal read interface the alignment, site-building and
// traversal packages need. It intentionally does not expose mutation,
// import/export or indexing beyond what those algorithms require —
// building a general-purpose graph store is out of scope.
type Graph interface {
	Node(id NodeID) *Node
	EdgesOf(id NodeID) []Edge
	// NodesNext returns the traversals reachable by taking one valid
	// step from t, following the from/to-start/end orientation rules.
	NodesNext(t NodeTraversal) []NodeTraversal
	// TopoOrder returns node IDs in a topological order (Kahn's
	// algorithm over the normalized, non-reversing edge set).
	TopoOrder() []NodeID
}

// VariationGraph is a concrete, in-memory adjacency-list Graph.
type VariationGraph struct {
	nodes map[NodeID]*Node
	edges map[NodeID][]Edge // keyed by From, normalized form
	rev   map[NodeID][]Edge // keyed by To, normalized form, for edges_of lookups
}

// NewVariationGraph builds a graph from nodes and edges. It panics if any
// edge is a true reversing edge (FromStart != ToEnd) — see Edge.Normalize.
func NewVariationGraph(nodes []*Node, edges []Edge) *VariationGraph {
	g := &VariationGraph{
		nodes: make(map[NodeID]*Node, len(nodes)),
		edges: make(map[NodeID][]Edge),
		rev:   make(map[NodeID][]Edge),
	}
	for _, n := range nodes {
		g.nodes[n.ID] = n
	}
	for _, e := range edges {
		norm, reversing := e.Normalize()
		if reversing {
			panic(fmt.Errorf("vg/graph: reversing edge %+v is not supported", e))
		}
		g.edges[norm.From] = append(g.edges[norm.From], norm)
		g.rev[norm.To] = append(g.rev[norm.To], norm)
	}
	log.Debugf("built graph with %d nodes, %d edges", len(g.nodes), len(edges))
	return g
}

// Node returns the node with the given ID, or nil if absent.
func (g *VariationGraph) Node(id NodeID) *Node { return g.nodes[id] }

// AllNodes returns every node in the graph, in TopoOrder.
func (g *VariationGraph) AllNodes() []*Node {
	order := g.TopoOrder()
	out := make([]*Node, len(order))
	for i, id := range order {
		out[i] = g.nodes[id]
	}
	return out
}

// AllEdges returns every normalized edge in the graph.
func (g *VariationGraph) AllEdges() []Edge {
	var out []Edge
	for _, edges := range g.edges {
		out = append(out, edges...)
	}
	return out
}

// EdgesOf returns all edges incident to id, in the normalized form in
// which they are stored (see Edge.Normalize).
func (g *VariationGraph) EdgesOf(id NodeID) []Edge {
	var out []Edge
	out = append(out, g.edges[id]...)
	if id2 := id; true {
		for _, e := range g.rev[id2] {
			// Avoid double-listing self-loops already present in edges[id].
			if e.From == id2 {
				continue
			}
			out = append(out, e)
		}
	}
	return out
}

// NodesNext implements stack_up_valid_walks from the reference
// implementation: a walk leaving a node's start only follows edges
// attached to that node's start, and a walk leaving a node's end only
// follows edges attached to that node's end.
func (g *VariationGraph) NodesNext(t NodeTraversal) []NodeTraversal {
	var out []NodeTraversal
	headID := t.Node.ID
	for _, e := range g.EdgesOf(headID) {
		if t.Backward {
			// Leaving from the start of the node.
			if e.From == headID && e.FromStart {
				out = append(out, NodeTraversal{Node: g.nodes[e.To], Backward: e.ToEnd})
			} else if e.To == headID && !e.ToEnd {
				out = append(out, NodeTraversal{Node: g.nodes[e.From], Backward: e.FromStart})
			}
		} else {
			// Leaving from the end of the node.
			if e.From == headID && !e.FromStart {
				out = append(out, NodeTraversal{Node: g.nodes[e.To], Backward: e.ToEnd})
			} else if e.To == headID && e.ToEnd {
				out = append(out, NodeTraversal{Node: g.nodes[e.From], Backward: e.FromStart})
			}
		}
	}
	return out
}

// TopoOrder returns a topological order of node IDs using Kahn's
// algorithm over the normalized From->To edge set (reversing edges are
// rejected at construction time, so this set is a DAG for any graph
// this type accepts).
func (g *VariationGraph) TopoOrder() []NodeID {
	indeg := make(map[NodeID]int, len(g.nodes))
	for id := range g.nodes {
		indeg[id] = 0
	}
	for _, edges := range g.edges {
		for _, e := range edges {
			indeg[e.To]++
		}
	}
	var queue []NodeID
	for id, d := range indeg {
		if d == 0 {
			queue = append(queue, id)
		}
	}
	// Deterministic order: sort the initial frontier and each subsequent
	// expansion by NodeID so TopoOrder is stable across runs.
	sortNodeIDs(queue)

	var order []NodeID
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		order = append(order, id)
		var newlyFree []NodeID
		for _, e := range g.edges[id] {
			indeg[e.To]--
			if indeg[e.To] == 0 {
				newlyFree = append(newlyFree, e.To)
			}
		}
		sortNodeIDs(newlyFree)
		queue = append(queue, newlyFree...)
	}
	if len(order) != len(g.nodes) {
		panic(fmt.Errorf("vg/graph: graph contains a cycle among %d unordered nodes", len(g.nodes)-len(order)))
	}
	return order
}

func sortNodeIDs(ids []NodeID) {
	for i := 1; i < len(ids); i++ {
		for j := i; j > 0 && ids[j-1] > ids[j]; j-- {
			ids[j-1], ids[j] = ids[j], ids[j-1]
		}
	}
}
