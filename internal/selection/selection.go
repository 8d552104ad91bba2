// Package selection tracks the active node and moves it around the tree.
//
// Every move is a pure function of the tree and the current active id. Moves
// that have nowhere to go return the active id unchanged.
package selection

import (
	"slices"

	"github.com/npratt/swcedit/internal/morph"
)

// None is the active id when nothing is selected. Node ids are never negative.
const None morph.NodeID = -1

// Tree is the read-only view of the registry that navigation needs.
type Tree interface {
	Contains(id morph.NodeID) bool
	Parent(id morph.NodeID) (morph.NodeID, bool)
	Children(id morph.NodeID) []morph.NodeID
}

// Child returns the first child of active, or active if it has none.
func Child(t Tree, active morph.NodeID) morph.NodeID {
	if !t.Contains(active) {
		return active
	}
	children := t.Children(active)
	if len(children) == 0 {
		return active
	}
	return children[0]
}

// Parent returns the parent of active. At the root it returns active.
func Parent(t Tree, active morph.NodeID) morph.NodeID {
	if p, ok := t.Parent(active); ok {
		return p
	}
	return active
}

// Sibling returns the next child of active's parent, wrapping after the
// last. The root and only children stay put.
func Sibling(t Tree, active morph.NodeID) morph.NodeID {
	return step(t, active, 1)
}

// PrevSibling is Sibling in the other direction.
func PrevSibling(t Tree, active morph.NodeID) morph.NodeID {
	return step(t, active, -1)
}

func step(t Tree, active morph.NodeID, delta int) morph.NodeID {
	p, ok := t.Parent(active)
	if !ok {
		return active
	}
	siblings := t.Children(p)
	i := slices.Index(siblings, active)
	if i < 0 || len(siblings) < 2 {
		return active
	}
	n := len(siblings)
	return siblings[((i+delta)%n+n)%n]
}

// Select returns id if it is in the tree and active otherwise.
func Select(t Tree, active, id morph.NodeID) morph.NodeID {
	if t.Contains(id) {
		return id
	}
	return active
}

// Deselect clears the selection.
func Deselect() morph.NodeID {
	return None
}

// Move names a navigation transition.
type Move string

const (
	MoveChild       Move = "child"
	MoveParent      Move = "parent"
	MoveSibling     Move = "sibling"
	MovePrevSibling Move = "prev-sibling"
	MoveDeselect    Move = "deselect"
)

// Apply runs the named move. Unknown moves leave active unchanged.
func Apply(t Tree, active morph.NodeID, m Move) morph.NodeID {
	switch m {
	case MoveChild:
		return Child(t, active)
	case MoveParent:
		return Parent(t, active)
	case MoveSibling:
		return Sibling(t, active)
	case MovePrevSibling:
		return PrevSibling(t, active)
	case MoveDeselect:
		return Deselect()
	default:
		return active
	}
}
