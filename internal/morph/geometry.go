package morph

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// MaxAngle is the upper bound of the half-turn angle encoding.
const MaxAngle = 2.0

// Polar returns the offset of a segment with the given length and absolute
// direction in half turns.
func Polar(length, halfTurns float64) r2.Vec {
	rad := halfTurns * math.Pi
	return r2.Vec{X: length * math.Cos(rad), Y: length * math.Sin(rad)}
}

// Direction returns the direction of v in half turns, in [0,2).
func Direction(v r2.Vec) float64 {
	return NormalizeAngle(math.Atan2(v.Y, v.X) / math.Pi)
}

// NormalizeAngle wraps a half-turn angle into [0,2).
func NormalizeAngle(a float64) float64 {
	a = math.Mod(a, MaxAngle)
	if a < 0 {
		a += MaxAngle
	}
	if a >= MaxAngle {
		a = 0
	}
	return a
}

// Propagate recomputes the endpoint of id from anchor and its own length and
// angle, then repeats for every descendant depth first. Siblings and
// ancestors of id are never touched. Depth coordinates are left unchanged.
//
// For the root, anchor is its new position. For any other node anchor must be
// the parent's current endpoint.
func (t *Tree) Propagate(id NodeID, anchor r2.Vec) error {
	n, ok := t.nodes[id]
	if !ok {
		return &NotFoundError{ID: id}
	}
	if n.ParentID == NoParent {
		n.Endpoint = anchor
		n.heading = 0
		for _, c := range n.Children {
			t.propagate(c, anchor, 0)
		}
		return nil
	}

	parent := t.nodes[n.ParentID]
	if parent.Endpoint != anchor {
		return &InvalidOperationError{Op: "propagate", Reason: "anchor is not the parent endpoint"}
	}
	t.propagate(id, anchor, parent.heading)
	return nil
}

// propagate places id relative to anchor in the rotation frame inherited from
// its parent heading.
func (t *Tree) propagate(id NodeID, anchor r2.Vec, frame float64) {
	n := t.nodes[id]
	n.heading = NormalizeAngle(frame + n.Angle)
	n.Endpoint = r2.Add(anchor, Polar(n.Length, n.heading))
	for _, c := range n.Children {
		t.propagate(c, n.Endpoint, n.heading)
	}
}

// deriveSegments is the inverse of propagate: it fills length, angle and
// heading of every descendant of id from the absolute endpoints. A zero
// length segment keeps its parent's heading.
func (t *Tree) deriveSegments(id NodeID, heading float64) {
	n := t.nodes[id]
	n.heading = heading
	for _, cid := range n.Children {
		c := t.nodes[cid]
		d := r2.Sub(c.Endpoint, n.Endpoint)
		c.Length = r2.Norm(d)
		childHeading := heading
		c.Angle = 0
		if c.Length > 0 {
			childHeading = Direction(d)
			c.Angle = NormalizeAngle(childHeading - heading)
		}
		t.deriveSegments(cid, childHeading)
	}
}
