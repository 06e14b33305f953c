// Package graph implements the variation-graph data model: nodes, edges,
// node traversals and embedded paths, plus a concrete in-memory graph.
package graph

import "fmt"

// NodeID identifies a node uniquely within a Graph.
type NodeID uint64

// Node is a sequence-bearing vertex of the variation graph.
type Node struct {
	ID       NodeID
	Sequence []byte
}

// Len returns the number of bases in the node.
func (n *Node) Len() int { return len(n.Sequence) }

// Edge connects two node ends. FromStart and ToEnd record which end of
// each node the edge attaches to, following the gssw/vg convention:
// an edge normally leaves the end of From and enters the start of To
// (FromStart=false, ToEnd=false).
type Edge struct {
	From      NodeID
	FromStart bool
	To        NodeID
	ToEnd     bool
}

// Normalize returns the edge in its canonical "from end, to start" form
// and reports whether the edge was a true reversing edge (orientation
// flips when crossed), which is fatal in this module.
//
// Resolution of the from_start/to_end semantics (see DESIGN.md): an edge
// with FromStart==ToEnd==false is already normal. An edge with
// FromStart==ToEnd==true is not reversing either — it is the same edge
// written from the other node's point of view, and is un-flipped here
// into a normal From->To edge. Only FromStart != ToEnd is a genuine
// reversing edge.
func (e Edge) Normalize() (Edge, bool) {
	if e.FromStart == e.ToEnd {
		if !e.FromStart {
			return e, false
		}
		// Both ends flipped: rewrite as To(end) -> From(start), normal.
		return Edge{From: e.To, FromStart: false, To: e.From, ToEnd: false}, false
	}
	return e, true
}

// NodeSide names one end of a node: the start (left, End=false) or the
// end (right, End=true) in forward orientation.
type NodeSide struct {
	Node NodeID
	End  bool
}

func (s NodeSide) String() string {
	if s.End {
		return fmt.Sprintf("%d<end>", s.Node)
	}
	return fmt.Sprintf("%d<start>", s.Node)
}

// NodeTraversal is a node visited in a particular orientation while
// walking the graph.
type NodeTraversal struct {
	Node     *Node
	Backward bool
}

// ID is a convenience accessor for the wrapped node's ID.
func (t NodeTraversal) ID() NodeID { return t.Node.ID }

// Sequence returns the node's sequence as oriented by this traversal,
// reverse-complemented when Backward is set.
func (t NodeTraversal) Sequence() []byte {
	if !t.Backward {
		return t.Node.Sequence
	}
	return ReverseComplement(t.Node.Sequence)
}

// LeftSide and RightSide give the NodeSide entered/left when walking
// this traversal forward: Left is where the traversal is entered from,
// Right is where it continues to the next traversal.
func (t NodeTraversal) LeftSide() NodeSide {
	return NodeSide{Node: t.Node.ID, End: t.Backward}
}

func (t NodeTraversal) RightSide() NodeSide {
	return NodeSide{Node: t.Node.ID, End: !t.Backward}
}

// Reverse flips the traversal's orientation.
func (t NodeTraversal) Reverse() NodeTraversal {
	return NodeTraversal{Node: t.Node, Backward: !t.Backward}
}
