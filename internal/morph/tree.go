// Package morph holds the in-memory neuron skeleton: a rooted tree of nodes
// keyed by id, the geometry engine that keeps endpoints consistent with
// length and angle, and the edit operations that mutate it.
//
// Parent and child links are plain ids into a flat map. The children list of a
// node is only ever changed together with the parent link of the child, so the
// two directions cannot diverge.
package morph

import (
	"fmt"
	"slices"

	"gonum.org/v1/gonum/spatial/r2"
)

// RootID is the id of the root of a freshly created tree.
const RootID NodeID = 1

// Tree is the node registry. It is not safe for concurrent use; the owning
// session serializes all calls.
type Tree struct {
	nodes  map[NodeID]*Node
	root   NodeID
	nextID NodeID
}

// New returns a tree holding only a soma root centered on anchor.
func New(anchor r2.Vec, rootRadius float64) *Tree {
	t := &Tree{
		nodes:  make(map[NodeID]*Node),
		root:   RootID,
		nextID: RootID + 1,
	}
	t.nodes[RootID] = &Node{
		ID:       RootID,
		ParentID: NoParent,
		Type:     TypeSoma,
		Endpoint: anchor,
		Radius:   max(rootRadius, 0),
	}
	return t
}

// Point is an absolute sample used to assemble a tree from file data.
type Point struct {
	ID       NodeID
	ParentID NodeID
	Type     NodeType
	Pos      r2.Vec
	Z        float64
	Radius   float64
}

// FromPoints assembles a tree from absolute samples. Exactly one point must
// have ParentID NoParent; every other parent must exist and be reachable from
// it. Children keep the order the points are given in. Length and angle of
// every segment are derived from the endpoints.
func FromPoints(points []Point) (*Tree, error) {
	t := &Tree{nodes: make(map[NodeID]*Node, len(points)), root: NoParent}

	for _, p := range points {
		if _, dup := t.nodes[p.ID]; dup {
			return nil, &InvalidOperationError{Op: "assemble", Reason: fmt.Sprintf("duplicate id %d", p.ID)}
		}
		if p.ParentID == NoParent {
			if t.root != NoParent {
				return nil, &InvalidOperationError{Op: "assemble", Reason: "multiple roots"}
			}
			t.root = p.ID
		}
		t.nodes[p.ID] = &Node{
			ID:       p.ID,
			ParentID: p.ParentID,
			Type:     p.Type,
			Endpoint: p.Pos,
			Z:        p.Z,
			Radius:   p.Radius,
		}
		if p.ID >= t.nextID {
			t.nextID = p.ID + 1
		}
	}
	if t.root == NoParent {
		return nil, &InvalidOperationError{Op: "assemble", Reason: "no root"}
	}

	for _, p := range points {
		if p.ParentID == NoParent {
			continue
		}
		parent, ok := t.nodes[p.ParentID]
		if !ok {
			return nil, &InvalidOperationError{Op: "assemble", Reason: "unresolved parent", Err: &NotFoundError{ID: p.ParentID}}
		}
		parent.Children = append(parent.Children, p.ID)
	}

	if reached := len(t.subtree(t.root)); reached != len(t.nodes) {
		return nil, &InvalidOperationError{Op: "assemble", Reason: "cycle detected"}
	}

	t.deriveSegments(t.root, 0)
	return t, nil
}

// Root returns the id of the root node.
func (t *Tree) Root() NodeID {
	return t.root
}

// Len returns the number of nodes, root included.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Contains reports whether id is in the tree.
func (t *Tree) Contains(id NodeID) bool {
	_, ok := t.nodes[id]
	return ok
}

// Node returns a copy of the node with the given id.
func (t *Tree) Node(id NodeID) (Node, bool) {
	n, ok := t.nodes[id]
	if !ok {
		return Node{}, false
	}
	return n.clone(), true
}

// Parent returns the parent of id. It returns false for the root and for
// unknown ids.
func (t *Tree) Parent(id NodeID) (NodeID, bool) {
	n, ok := t.nodes[id]
	if !ok || n.ParentID == NoParent {
		return NoParent, false
	}
	return n.ParentID, true
}

// Children returns the ordered child ids of id.
func (t *Tree) Children(id NodeID) []NodeID {
	n, ok := t.nodes[id]
	if !ok {
		return nil
	}
	return slices.Clone(n.Children)
}

// Depth returns the number of edges between id and the root, or -1 if id is
// not in the tree.
func (t *Tree) Depth(id NodeID) int {
	depth := -1
	for cur, ok := id, t.Contains(id); ok; cur, ok = t.Parent(cur) {
		depth++
	}
	return depth
}

// Walk visits nodes in pre-order starting at the root, children in insertion
// order. Returning false from fn stops the walk.
func (t *Tree) Walk(fn func(n Node, depth int) bool) {
	var visit func(id NodeID, depth int) bool
	visit = func(id NodeID, depth int) bool {
		n := t.nodes[id]
		if !fn(n.clone(), depth) {
			return false
		}
		for _, c := range n.Children {
			if !visit(c, depth+1) {
				return false
			}
		}
		return true
	}
	visit(t.root, 0)
}

// PreOrder returns every node in pre-order, root first. This is the order SWC
// export uses for sample numbering.
func (t *Tree) PreOrder() []Node {
	out := make([]Node, 0, len(t.nodes))
	t.Walk(func(n Node, _ int) bool {
		out = append(out, n)
		return true
	})
	return out
}

// Subtree returns id and all of its descendants in pre-order.
func (t *Tree) Subtree(id NodeID) []NodeID {
	if !t.Contains(id) {
		return nil
	}
	return t.subtree(id)
}

func (t *Tree) subtree(id NodeID) []NodeID {
	var out []NodeID
	stack := []NodeID{id}
	seen := make(map[NodeID]bool)
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[cur] {
			continue
		}
		n, ok := t.nodes[cur]
		if !ok {
			continue
		}
		seen[cur] = true
		out = append(out, cur)
		children := n.Children
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, children[i])
		}
	}
	return out
}

// Clone returns a deep copy of the tree.
func (t *Tree) Clone() *Tree {
	c := &Tree{
		nodes:  make(map[NodeID]*Node, len(t.nodes)),
		root:   t.root,
		nextID: t.nextID,
	}
	for id, n := range t.nodes {
		cp := n.clone()
		c.nodes[id] = &cp
	}
	return c
}
