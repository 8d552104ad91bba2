package morph

import (
	"slices"

	"gonum.org/v1/gonum/spatial/r2"
)

// NodeID identifies a node within a tree. IDs are never reused.
type NodeID int

// NoParent is the parent id of the root node.
const NoParent NodeID = -1

// NodeType is the SWC structure identifier of a node.
// It affects labelling and color only, never geometry.
type NodeType int

const (
	TypeUndefined NodeType = iota
	TypeSoma
	TypeAxon
	TypeBasalDendrite
	TypeApicalDendrite
	TypeCustom
)

// String returns the long label used in editors.
func (t NodeType) String() string {
	switch t {
	case TypeUndefined:
		return "undefined"
	case TypeSoma:
		return "soma"
	case TypeAxon:
		return "axon"
	case TypeBasalDendrite:
		return "basal dendrite"
	case TypeApicalDendrite:
		return "apical dendrite"
	default:
		if t >= TypeCustom {
			return "custom"
		}
		return "unknown"
	}
}

// ShortLabel returns the abbreviated label used in compact views.
func (t NodeType) ShortLabel() string {
	switch t {
	case TypeUndefined:
		return "undef"
	case TypeSoma:
		return "soma"
	case TypeAxon:
		return "axon"
	case TypeBasalDendrite:
		return "basal"
	case TypeApicalDendrite:
		return "apic"
	default:
		if t >= TypeCustom {
			return "custom"
		}
		return "?"
	}
}

// Color returns the display color for segments of this type.
func (t NodeType) Color() string {
	switch t {
	case TypeUndefined:
		return "#677be9"
	case TypeSoma:
		return "#809798"
	case TypeAxon:
		return "#0E90E9"
	case TypeBasalDendrite:
		return "#DE7324"
	case TypeApicalDendrite:
		return "#E13A1C"
	default:
		return "#000000"
	}
}

// Valid reports whether t can be written to an SWC file.
func (t NodeType) Valid() bool {
	return t >= 0
}

// Next returns the following standard type, wrapping after custom.
func (t NodeType) Next() NodeType {
	if t < TypeUndefined || t >= TypeCustom {
		return TypeUndefined
	}
	return t + 1
}

// Types lists the standard node types in code order.
var Types = []NodeType{
	TypeUndefined,
	TypeSoma,
	TypeAxon,
	TypeBasalDendrite,
	TypeApicalDendrite,
	TypeCustom,
}

// Node is one morphology sample: the terminus of the segment drawn from its
// parent. Endpoint and heading are derived from the parent chain and are only
// written by the geometry engine.
type Node struct {
	ID       NodeID
	ParentID NodeID
	Type     NodeType
	Endpoint r2.Vec
	Z        float64 // depth, carried through propagation unchanged
	Radius   float64
	Length   float64
	Angle    float64 // relative to the parent heading, in half turns [0,2]
	Children []NodeID

	heading float64 // absolute direction in half turns
}

// IsRoot reports whether n is the tree root.
func (n Node) IsRoot() bool {
	return n.ParentID == NoParent
}

// Heading returns the absolute direction of the segment in half turns.
func (n Node) Heading() float64 {
	return n.heading
}

// clone returns a copy that shares no slices with n.
func (n *Node) clone() Node {
	c := *n
	c.Children = slices.Clone(n.Children)
	return c
}
