package morph

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/spatial/r2"
)

// EndpointTolerance is the absolute/relative tolerance used when checking that
// stored endpoints match their segment geometry.
const EndpointTolerance = 1e-6

// Validate checks every structural and geometric invariant of the tree and
// returns all violations joined, or nil.
func (t *Tree) Validate() error {
	var errs []error

	roots := 0
	for id, n := range t.nodes {
		if id != n.ID {
			errs = append(errs, fmt.Errorf("node %d stored under id %d", n.ID, id))
		}
		if n.ParentID == NoParent {
			roots++
			if id != t.root {
				errs = append(errs, fmt.Errorf("node %d has no parent but is not the root", id))
			}
			if n.Length != 0 || n.Angle != 0 {
				errs = append(errs, fmt.Errorf("root %d carries segment geometry", id))
			}
		} else if p, ok := t.nodes[n.ParentID]; !ok {
			errs = append(errs, fmt.Errorf("node %d references missing parent %d", id, n.ParentID))
		} else if count(p.Children, id) != 1 {
			errs = append(errs, fmt.Errorf("node %d listed %d times under parent %d", id, count(p.Children, id), p.ID))
		}

		for _, c := range n.Children {
			child, ok := t.nodes[c]
			if !ok {
				errs = append(errs, fmt.Errorf("node %d lists missing child %d", id, c))
				continue
			}
			if child.ParentID != id {
				errs = append(errs, fmt.Errorf("node %d lists child %d whose parent is %d", id, c, child.ParentID))
			}
		}

		if n.Radius < 0 {
			errs = append(errs, fmt.Errorf("node %d has negative radius %g", id, n.Radius))
		}
		if n.Length < 0 {
			errs = append(errs, fmt.Errorf("node %d has negative length %g", id, n.Length))
		}
		if n.Angle < 0 || n.Angle > MaxAngle {
			errs = append(errs, fmt.Errorf("node %d has angle %g outside [0, 2]", id, n.Angle))
		}
	}
	if roots != 1 {
		errs = append(errs, fmt.Errorf("tree has %d roots", roots))
	}
	if _, ok := t.nodes[t.root]; !ok {
		errs = append(errs, fmt.Errorf("root %d missing", t.root))
		return errors.Join(errs...)
	}
	if reached := len(t.subtree(t.root)); reached != len(t.nodes) {
		errs = append(errs, fmt.Errorf("%d of %d nodes unreachable from the root", len(t.nodes)-reached, len(t.nodes)))
	}

	if len(errs) == 0 {
		errs = append(errs, t.checkGeometry()...)
	}
	return errors.Join(errs...)
}

// checkGeometry verifies every endpoint against its parent endpoint, length
// and angle. The tree must already be structurally sound.
func (t *Tree) checkGeometry() []error {
	var errs []error
	var visit func(id NodeID, frame float64)
	visit = func(id NodeID, frame float64) {
		n := t.nodes[id]
		heading := frame
		if n.ParentID != NoParent {
			p := t.nodes[n.ParentID]
			heading = NormalizeAngle(frame + n.Angle)
			want := r2.Add(p.Endpoint, Polar(n.Length, heading))
			if !closeTo(want, n.Endpoint) {
				errs = append(errs, fmt.Errorf("node %d endpoint (%g, %g) stale, want (%g, %g)",
					id, n.Endpoint.X, n.Endpoint.Y, want.X, want.Y))
			}
		}
		for _, c := range n.Children {
			visit(c, heading)
		}
	}
	visit(t.root, 0)
	return errs
}

func closeTo(a, b r2.Vec) bool {
	return scalar.EqualWithinAbsOrRel(a.X, b.X, EndpointTolerance, EndpointTolerance) &&
		scalar.EqualWithinAbsOrRel(a.Y, b.Y, EndpointTolerance, EndpointTolerance)
}

func count(ids []NodeID, id NodeID) int {
	n := 0
	for _, c := range ids {
		if c == id {
			n++
		}
	}
	return n
}
