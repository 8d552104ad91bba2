package swc

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/npratt/swcedit/internal/morph"
)

// Serialize writes nodes as SWC text. Sample ids are assigned 1..N in list
// order, so the caller's order decides the numbering; every parent must be
// listed before its children.
//
// The root is always sample 1 of type soma with parent -1 and radius
// rootRadius. If nodes starts with the root its depth and position are used;
// otherwise the list holds only segments, the root is the one parent id that
// is not listed, and it is written at the anchor. Coordinates are written
// relative to (anchorX, anchorY). The output has no trailing newline.
func Serialize(nodes []morph.Node, rootRadius, anchorX, anchorY float64) (string, error) {
	root := morph.Node{ID: morph.NoParent, ParentID: morph.NoParent, Type: morph.TypeSoma}
	root.Endpoint.X, root.Endpoint.Y = anchorX, anchorY
	segments := nodes
	if len(nodes) > 0 && nodes[0].IsRoot() {
		root.ID = nodes[0].ID
		root.Endpoint = nodes[0].Endpoint
		root.Z = nodes[0].Z
		segments = nodes[1:]
	} else {
		id, err := implicitRoot(segments)
		if err != nil {
			return "", err
		}
		root.ID = id
	}

	samples := make(map[morph.NodeID]int, len(segments)+1)
	samples[root.ID] = 1

	lines := make([]string, 0, len(segments)+1)
	lines = append(lines, formatRecord(1, morph.TypeSoma, root.Endpoint.X-anchorX, root.Endpoint.Y-anchorY, root.Z, rootRadius, rootParent))

	for i, n := range segments {
		if n.IsRoot() {
			return "", fmt.Errorf("serialize: node %d is a second root", n.ID)
		}
		if _, dup := samples[n.ID]; dup {
			return "", fmt.Errorf("serialize: node %d listed twice", n.ID)
		}
		parent, ok := samples[n.ParentID]
		if !ok {
			return "", fmt.Errorf("serialize: node %d listed before its parent %d", n.ID, n.ParentID)
		}
		sample := i + 2
		samples[n.ID] = sample
		lines = append(lines, formatRecord(sample, n.Type, n.Endpoint.X-anchorX, n.Endpoint.Y-anchorY, n.Z, n.Radius, parent))
	}

	return strings.Join(lines, "\n"), nil
}

// Export serializes a whole tree in pre-order, relative to its root.
func Export(t *morph.Tree) (string, error) {
	root, _ := t.Node(t.Root())
	return Serialize(t.PreOrder(), root.Radius, root.Endpoint.X, root.Endpoint.Y)
}

// implicitRoot finds the single parent id referenced by segments but not
// listed among them.
func implicitRoot(segments []morph.Node) (morph.NodeID, error) {
	listed := make(map[morph.NodeID]bool, len(segments))
	for _, n := range segments {
		listed[n.ID] = true
	}
	root := morph.NoParent
	for _, n := range segments {
		if listed[n.ParentID] || n.ParentID == root {
			continue
		}
		if root != morph.NoParent {
			return 0, fmt.Errorf("serialize: segments hang from both %d and %d", root, n.ParentID)
		}
		root = n.ParentID
	}
	return root, nil
}

func formatRecord(sample int, typ morph.NodeType, x, y, z, radius float64, parent int) string {
	return fmt.Sprintf("%d %d %s %s %s %s %d", sample, int(typ), formatFloat(x), formatFloat(y), formatFloat(z), formatFloat(radius), parent)
}

// formatFloat writes the shortest text that parses back to v exactly.
func formatFloat(v float64) string {
	if v == 0 {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
