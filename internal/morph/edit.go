package morph

import (
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/gonum/spatial/r2"
)

// Segment holds the initial values of a newly added node.
type Segment struct {
	Length float64
	Radius float64
	Angle  float64
	Type   NodeType
}

// DefaultSegment returns the values new nodes get when nothing is configured.
func DefaultSegment() Segment {
	return Segment{
		Length: 10,
		Radius: 0.1,
		Angle:  0.1,
		Type:   TypeUndefined,
	}
}

// DefaultRootRadius is the soma radius of a fresh tree.
const DefaultRootRadius = 3.0

// Validate checks that every value of s is in range.
func (s Segment) Validate() error {
	if err := checkLength(s.Length); err != nil {
		return err
	}
	if err := checkRadius(s.Radius); err != nil {
		return err
	}
	if err := checkAngle(s.Angle); err != nil {
		return err
	}
	return checkType(s.Type)
}

// Field names a mutable node attribute.
type Field string

const (
	FieldType   Field = "type"
	FieldRadius Field = "radius"
	FieldLength Field = "length"
	FieldAngle  Field = "angle"
)

// ParseField converts a field name to a Field.
func ParseField(s string) (Field, error) {
	switch f := Field(s); f {
	case FieldType, FieldRadius, FieldLength, FieldAngle:
		return f, nil
	}
	return "", fmt.Errorf("unknown field %q", s)
}

// AddChild appends a new node under parent and places it. It returns the id
// of the new node.
func (t *Tree) AddChild(parent NodeID, seg Segment) (NodeID, error) {
	p, ok := t.nodes[parent]
	if !ok {
		return 0, &NotFoundError{ID: parent}
	}
	if err := seg.Validate(); err != nil {
		return 0, err
	}

	id := t.nextID
	t.nextID++
	t.nodes[id] = &Node{
		ID:       id,
		ParentID: parent,
		Type:     seg.Type,
		Z:        p.Z,
		Radius:   seg.Radius,
		Length:   seg.Length,
		Angle:    seg.Angle,
	}
	p.Children = append(p.Children, id)
	t.propagate(id, p.Endpoint, p.heading)
	return id, nil
}

// Delete removes id together with its whole subtree. The root can never be
// deleted.
func (t *Tree) Delete(id NodeID) error {
	n, ok := t.nodes[id]
	if !ok {
		return &InvalidOperationError{Op: "delete", Reason: "node does not exist", Err: &NotFoundError{ID: id}}
	}
	if n.ParentID == NoParent {
		return &InvalidOperationError{Op: "delete", Reason: "the root cannot be deleted"}
	}

	parent := t.nodes[n.ParentID]
	parent.Children = slices.DeleteFunc(parent.Children, func(c NodeID) bool { return c == id })
	for _, d := range t.subtree(id) {
		delete(t.nodes, d)
	}
	return nil
}

// UpdateField sets one attribute of id. Type and radius are plain field
// writes; length and angle re-place the node and its subtree.
func (t *Tree) UpdateField(id NodeID, field Field, value float64) error {
	switch field {
	case FieldType:
		if value != math.Trunc(value) {
			return &ValidationError{Field: string(FieldType), Value: value, Reason: "must be an integer code"}
		}
		return t.SetType(id, NodeType(value))
	case FieldRadius:
		return t.SetRadius(id, value)
	case FieldLength:
		return t.UpdateLength(id, value)
	case FieldAngle:
		return t.UpdateAngle(id, value)
	default:
		return &InvalidOperationError{Op: "update", Reason: fmt.Sprintf("unknown field %q", field)}
	}
}

// SetType changes the structure type of a segment. The root is always soma.
func (t *Tree) SetType(id NodeID, typ NodeType) error {
	n, err := t.segment(id, "set type")
	if err != nil {
		return err
	}
	if err := checkType(typ); err != nil {
		return err
	}
	n.Type = typ
	return nil
}

// SetRadius changes the radius of any node, the root included.
func (t *Tree) SetRadius(id NodeID, radius float64) error {
	n, ok := t.nodes[id]
	if !ok {
		return &NotFoundError{ID: id}
	}
	if err := checkRadius(radius); err != nil {
		return err
	}
	n.Radius = radius
	return nil
}

// UpdateLength changes the length of a segment and re-places its subtree.
func (t *Tree) UpdateLength(id NodeID, length float64) error {
	n, err := t.segment(id, "update length")
	if err != nil {
		return err
	}
	if err := checkLength(length); err != nil {
		return err
	}
	n.Length = length
	return t.Propagate(id, t.nodes[n.ParentID].Endpoint)
}

// UpdateAngle changes the angle of a segment and re-places its subtree.
func (t *Tree) UpdateAngle(id NodeID, angle float64) error {
	n, err := t.segment(id, "update angle")
	if err != nil {
		return err
	}
	if err := checkAngle(angle); err != nil {
		return err
	}
	n.Angle = angle
	return t.Propagate(id, t.nodes[n.ParentID].Endpoint)
}

// UpdateRootRadius changes the soma radius. Geometry is not affected.
func (t *Tree) UpdateRootRadius(radius float64) error {
	return t.SetRadius(t.root, radius)
}

// RootRadius returns the soma radius.
func (t *Tree) RootRadius() float64 {
	return t.nodes[t.root].Radius
}

// Resize moves the root to anchor and re-places every segment relative to it.
func (t *Tree) Resize(anchor r2.Vec) {
	// Propagate cannot fail for the root.
	_ = t.Propagate(t.root, anchor)
}

// segment looks up a non-root node for op.
func (t *Tree) segment(id NodeID, op string) (*Node, error) {
	n, ok := t.nodes[id]
	if !ok {
		return nil, &NotFoundError{ID: id}
	}
	if n.ParentID == NoParent {
		return nil, &InvalidOperationError{Op: op, Reason: "the root is not a segment"}
	}
	return n, nil
}

func checkFinite(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return &ValidationError{Field: field, Value: v, Reason: "must be a finite number"}
	}
	return nil
}

func checkRadius(v float64) error {
	if err := checkFinite("radius", v); err != nil {
		return err
	}
	if v < 0 {
		return &ValidationError{Field: "radius", Value: v, Reason: "must not be negative"}
	}
	return nil
}

func checkLength(v float64) error {
	if err := checkFinite("length", v); err != nil {
		return err
	}
	if v < 0 {
		return &ValidationError{Field: "length", Value: v, Reason: "must not be negative"}
	}
	return nil
}

func checkAngle(v float64) error {
	if err := checkFinite("angle", v); err != nil {
		return err
	}
	if v < 0 || v > MaxAngle {
		return &ValidationError{Field: "angle", Value: v, Reason: "must be within [0, 2] half turns"}
	}
	return nil
}

func checkType(t NodeType) error {
	if !t.Valid() {
		return &ValidationError{Field: "type", Value: float64(t), Reason: "must not be negative"}
	}
	return nil
}
