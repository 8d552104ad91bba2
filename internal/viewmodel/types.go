// Package viewmodel provides the read-only tree snapshot handed to renderers.
package viewmodel

import "github.com/npratt/swcedit/internal/morph"

// NodeView is one node as a renderer sees it.
type NodeView struct {
	ID       morph.NodeID   `json:"id" yaml:"id"`
	ParentID morph.NodeID   `json:"parent_id" yaml:"parent_id"` // -1 for the root
	Type     morph.NodeType `json:"type" yaml:"type"`
	Label    string         `json:"label" yaml:"label"`
	X        float64        `json:"x" yaml:"x"` // absolute endpoint
	Y        float64        `json:"y" yaml:"y"`
	Z        float64        `json:"z" yaml:"z"`
	ParentX  float64        `json:"parent_x" yaml:"parent_x"` // segment start; equals X for the root
	ParentY  float64        `json:"parent_y" yaml:"parent_y"`
	Radius   float64        `json:"radius" yaml:"radius"`
	Length   float64        `json:"length" yaml:"length"`
	Angle    float64        `json:"angle" yaml:"angle"`     // half turns, relative to the parent heading
	Heading  float64        `json:"heading" yaml:"heading"` // absolute direction in half turns
	Depth    int            `json:"depth" yaml:"depth"`
	Children []morph.NodeID `json:"children" yaml:"children"`
}

// Snapshot is an immutable copy of the session state. A new one is built
// after every committed operation.
type Snapshot struct {
	Name       string       `json:"name" yaml:"name"`           // export filename
	ActiveID   morph.NodeID `json:"active_id" yaml:"active_id"` // -1 when nothing is selected
	RootRadius float64      `json:"root_radius" yaml:"root_radius"`
	Nodes      []NodeView   `json:"nodes" yaml:"nodes"` // pre-order, root first
}

// FromTree builds a snapshot of t.
func FromTree(t *morph.Tree, name string, active morph.NodeID) Snapshot {
	s := Snapshot{
		Name:       name,
		ActiveID:   active,
		RootRadius: t.RootRadius(),
		Nodes:      make([]NodeView, 0, t.Len()),
	}
	t.Walk(func(n morph.Node, depth int) bool {
		v := NodeView{
			ID:       n.ID,
			ParentID: n.ParentID,
			Type:     n.Type,
			Label:    n.Type.ShortLabel(),
			X:        n.Endpoint.X,
			Y:        n.Endpoint.Y,
			Z:        n.Z,
			ParentX:  n.Endpoint.X,
			ParentY:  n.Endpoint.Y,
			Radius:   n.Radius,
			Length:   n.Length,
			Angle:    n.Angle,
			Heading:  n.Heading(),
			Depth:    depth,
			Children: n.Children,
		}
		if v.Children == nil {
			v.Children = []morph.NodeID{}
		}
		if p, ok := t.Node(n.ParentID); ok {
			v.ParentX, v.ParentY = p.Endpoint.X, p.Endpoint.Y
		}
		s.Nodes = append(s.Nodes, v)
		return true
	})
	return s
}

// Node returns the view of id.
func (s Snapshot) Node(id morph.NodeID) (NodeView, bool) {
	for _, n := range s.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return NodeView{}, false
}

// Active returns the view of the active node, if any.
func (s Snapshot) Active() (NodeView, bool) {
	return s.Node(s.ActiveID)
}
