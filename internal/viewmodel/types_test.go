package viewmodel

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/npratt/swcedit/internal/morph"
)

func TestFromTree(t *testing.T) {
	tree := morph.New(r2.Vec{X: 50, Y: 50}, 4)
	a, err := tree.AddChild(tree.Root(), morph.Segment{Length: 10, Radius: 1, Type: morph.TypeAxon})
	if err != nil {
		t.Fatalf("AddChild: %v", err)
	}

	s := FromTree(tree, "cell.swc", a)

	if s.Name != "cell.swc" || s.ActiveID != a || s.RootRadius != 4 {
		t.Errorf("header = %q %d %v", s.Name, s.ActiveID, s.RootRadius)
	}
	if len(s.Nodes) != 2 {
		t.Fatalf("got %d nodes, want 2", len(s.Nodes))
	}

	root := s.Nodes[0]
	if root.ParentX != 50 || root.ParentY != 50 || len(root.Children) != 1 {
		t.Errorf("root view = %+v", root)
	}

	v, ok := s.Active()
	if !ok {
		t.Fatal("active node missing from snapshot")
	}
	if v.X != 60 || v.Y != 50 || v.ParentX != 50 || v.Depth != 1 || v.Label != "axon" {
		t.Errorf("active view = %+v", v)
	}
	if v.Children == nil {
		t.Error("tip children should be empty, not nil")
	}
}

func TestFromTree_Heading(t *testing.T) {
	tree := morph.New(r2.Vec{}, 3)
	a, _ := tree.AddChild(tree.Root(), morph.Segment{Length: 5, Angle: 0.5, Radius: 1})
	b, _ := tree.AddChild(a, morph.Segment{Length: 5, Angle: 1.75, Radius: 1})

	s := FromTree(tree, "", b)

	if v, _ := s.Node(a); v.Heading != 0.5 {
		t.Errorf("heading of %d = %v, want 0.5", a, v.Heading)
	}
	if v, _ := s.Node(b); v.Heading != 0.25 || v.Angle != 1.75 {
		t.Errorf("node %d angle=%v heading=%v, want 1.75 and 0.25", b, v.Angle, v.Heading)
	}
}

func TestSnapshot_IsDetached(t *testing.T) {
	tree := morph.New(r2.Vec{}, 3)
	a, _ := tree.AddChild(tree.Root(), morph.DefaultSegment())
	s := FromTree(tree, "", a)

	if _, err := tree.AddChild(tree.Root(), morph.DefaultSegment()); err != nil {
		t.Fatalf("AddChild: %v", err)
	}
	if err := tree.UpdateLength(a, 99); err != nil {
		t.Fatalf("UpdateLength: %v", err)
	}

	if got := len(s.Nodes[0].Children); got != 1 {
		t.Errorf("snapshot root children = %d, want 1", got)
	}
	if v, _ := s.Node(a); v.Length != 10 {
		t.Errorf("snapshot length = %v, want 10", v.Length)
	}
}

func TestSnapshot_NoActive(t *testing.T) {
	s := FromTree(morph.New(r2.Vec{}, 3), "", -1)
	if _, ok := s.Active(); ok {
		t.Error("Active() should report false when nothing is selected")
	}
}
