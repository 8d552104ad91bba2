package selection

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/npratt/swcedit/internal/morph"
)

// fanTree builds root(1) with children 2, 3, 4 and a grandchild 5 under 2.
func fanTree(t *testing.T) *morph.Tree {
	t.Helper()
	tree := morph.New(r2.Vec{}, morph.DefaultRootRadius)
	for range 3 {
		if _, err := tree.AddChild(tree.Root(), morph.DefaultSegment()); err != nil {
			t.Fatalf("AddChild: %v", err)
		}
	}
	if _, err := tree.AddChild(2, morph.DefaultSegment()); err != nil {
		t.Fatalf("AddChild: %v", err)
	}
	return tree
}

func TestMoves(t *testing.T) {
	tree := fanTree(t)

	tests := []struct {
		name   string
		move   Move
		active morph.NodeID
		want   morph.NodeID
	}{
		{"child of root is first child", MoveChild, 1, 2},
		{"child of tip is no-op", MoveChild, 3, 3},
		{"child of grandparent", MoveChild, 2, 5},
		{"parent of child", MoveParent, 4, 1},
		{"parent of root is no-op", MoveParent, 1, 1},
		{"sibling advances", MoveSibling, 2, 3},
		{"sibling wraps", MoveSibling, 4, 2},
		{"only child is no-op", MoveSibling, 5, 5},
		{"root has no siblings", MoveSibling, 1, 1},
		{"prev sibling wraps", MovePrevSibling, 2, 4},
		{"deselect", MoveDeselect, 3, None},
		{"child of none", MoveChild, None, None},
		{"parent of none", MoveParent, None, None},
		{"sibling of none", MoveSibling, None, None},
		{"stale id", MoveChild, 99, 99},
		{"unknown move", Move("sideways"), 3, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Apply(tree, tt.active, tt.move); got != tt.want {
				t.Errorf("Apply(%s, %d) = %d, want %d", tt.move, tt.active, got, tt.want)
			}
		})
	}
}

func TestSibling_CyclesBackAfterK(t *testing.T) {
	tree := fanTree(t)
	k := len(tree.Children(tree.Root()))

	for _, start := range tree.Children(tree.Root()) {
		id := start
		for range k {
			id = Sibling(tree, id)
		}
		if id != start {
			t.Errorf("after %d sibling moves from %d got %d", k, start, id)
		}
	}
}

func TestSelect(t *testing.T) {
	tree := fanTree(t)

	if got := Select(tree, None, 4); got != 4 {
		t.Errorf("Select(4) = %d, want 4", got)
	}
	if got := Select(tree, 2, 42); got != 2 {
		t.Errorf("Select(42) = %d, want unchanged 2", got)
	}
}

func TestMoves_DoNotMutateTree(t *testing.T) {
	tree := fanTree(t)
	before := tree.PreOrder()

	id := tree.Root()
	for _, m := range []Move{MoveChild, MoveSibling, MoveChild, MoveParent, MovePrevSibling, MoveParent, MoveDeselect} {
		id = Apply(tree, id, m)
	}

	after := tree.PreOrder()
	if len(before) != len(after) {
		t.Fatalf("node count changed: %d -> %d", len(before), len(after))
	}
	for i := range before {
		if before[i].ID != after[i].ID || before[i].Endpoint != after[i].Endpoint {
			t.Errorf("node %d changed", before[i].ID)
		}
	}
}
