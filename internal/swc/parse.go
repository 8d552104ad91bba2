// Package swc converts between SWC morphology text and the in-memory tree.
//
// An SWC data line is "sample type x y z radius parent", whitespace
// separated, with parent -1 marking the root. Lines starting with '#' are
// comments.
package swc

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/npratt/swcedit/internal/morph"
)

// rootParent is the parent id that marks the root record.
const rootParent = -1

// fieldNames names the seven record columns for error messages.
var fieldNames = [7]string{"sample", "type", "x", "y", "z", "radius", "parent"}

// record is one parsed data line.
type record struct {
	line   int
	id     int
	typ    int
	x, y   float64
	z      float64
	radius float64
	parent int
}

// Parse reads SWC text into a tree whose root sits on (anchorX, anchorY).
// Every coordinate is translated by the same offset; depth is kept as is.
// Sample ids become node ids and children keep file order. On any error no
// tree is returned.
func Parse(text string, anchorX, anchorY float64) (*morph.Tree, error) {
	records, err := readRecords(text)
	if err != nil {
		return nil, err
	}

	byID := make(map[int]*record, len(records))
	for i := range records {
		r := &records[i]
		if prev, dup := byID[r.id]; dup {
			return nil, &FormatError{Line: r.line, Reason: fmt.Sprintf("duplicate sample id %d (first on line %d)", r.id, prev.line)}
		}
		byID[r.id] = r
	}

	root, err := findRoot(records, byID)
	if err != nil {
		return nil, err
	}
	if err := checkReachable(records, root); err != nil {
		return nil, err
	}

	offset := r2.Sub(r2.Vec{X: anchorX, Y: anchorY}, r2.Vec{X: root.x, Y: root.y})
	points := make([]morph.Point, len(records))
	for i, r := range records {
		parent := morph.NodeID(r.parent)
		if &records[i] == root {
			parent = morph.NoParent
		}
		points[i] = morph.Point{
			ID:       morph.NodeID(r.id),
			ParentID: parent,
			Type:     morph.NodeType(r.typ),
			Pos:      r2.Add(r2.Vec{X: r.x, Y: r.y}, offset),
			Z:        r.z,
			Radius:   r.radius,
		}
	}

	tree, err := morph.FromPoints(points)
	if err != nil {
		var ioe *morph.InvalidOperationError
		if errors.As(err, &ioe) {
			return nil, &FormatError{Reason: ioe.Reason}
		}
		return nil, err
	}
	return tree, nil
}

// readRecords parses every data line, skipping blanks and comments.
func readRecords(text string) ([]record, error) {
	var records []record
	for i, line := range strings.Split(text, "\n") {
		lineNo := i + 1
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) != len(fieldNames) {
			return nil, &FormatError{Line: lineNo, Reason: fmt.Sprintf("expected %d fields, got %d", len(fieldNames), len(fields))}
		}

		var v [7]float64
		for j, f := range fields {
			n, err := strconv.ParseFloat(f, 64)
			if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
				return nil, &FormatError{Line: lineNo, Reason: fmt.Sprintf("%s %q is not a number", fieldNames[j], f)}
			}
			v[j] = n
		}
		for _, j := range []int{0, 1, 6} {
			if v[j] != math.Trunc(v[j]) {
				return nil, &FormatError{Line: lineNo, Reason: fmt.Sprintf("%s %q is not an integer", fieldNames[j], fields[j])}
			}
			if math.Abs(v[j]) > math.MaxInt32 {
				return nil, &FormatError{Line: lineNo, Reason: fmt.Sprintf("%s %q out of range", fieldNames[j], fields[j])}
			}
		}

		r := record{
			line:   lineNo,
			id:     int(v[0]),
			typ:    int(v[1]),
			x:      v[2],
			y:      v[3],
			z:      v[4],
			radius: v[5],
			parent: int(v[6]),
		}
		switch {
		case r.id < 0:
			return nil, &FormatError{Line: lineNo, Reason: fmt.Sprintf("negative sample id %d", r.id)}
		case r.typ < 0:
			return nil, &FormatError{Line: lineNo, Reason: fmt.Sprintf("negative type %d", r.typ)}
		case r.radius < 0:
			return nil, &FormatError{Line: lineNo, Reason: fmt.Sprintf("negative radius %g", r.radius)}
		case r.parent < rootParent:
			return nil, &FormatError{Line: lineNo, Reason: fmt.Sprintf("invalid parent id %d", r.parent)}
		case r.parent == r.id:
			return nil, &FormatError{Line: lineNo, Reason: "cycle detected"}
		}
		records = append(records, r)
	}
	return records, nil
}

// findRoot picks the single root record. Records with parent -1 are roots.
// Without one, a single record whose parent does not resolve is promoted.
func findRoot(records []record, byID map[int]*record) (*record, error) {
	var explicit, dangling []*record
	for i := range records {
		r := &records[i]
		if r.parent == rootParent {
			explicit = append(explicit, r)
		} else if _, ok := byID[r.parent]; !ok {
			dangling = append(dangling, r)
		}
	}

	switch {
	case len(explicit) > 1:
		return nil, &FormatError{Line: explicit[1].line, Reason: "multiple roots"}
	case len(explicit) == 1 && len(dangling) > 0:
		return nil, &FormatError{Line: dangling[0].line, Reason: "unresolved parent"}
	case len(explicit) == 1:
		return explicit[0], nil
	case len(dangling) > 1:
		return nil, &FormatError{Line: dangling[1].line, Reason: "multiple roots"}
	case len(dangling) == 1:
		return dangling[0], nil
	case len(records) == 0:
		return nil, &FormatError{Reason: "no root"}
	default:
		return nil, &FormatError{Line: records[0].line, Reason: "no root"}
	}
}

// checkReachable rejects records that cannot be reached from the root. With
// every parent resolved, those can only sit on a cycle.
func checkReachable(records []record, root *record) error {
	children := make(map[int][]int, len(records))
	for _, r := range records {
		if r.id != root.id {
			children[r.parent] = append(children[r.parent], r.id)
		}
	}

	seen := map[int]bool{root.id: true}
	queue := []int{root.id}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, c := range children[id] {
			if !seen[c] {
				seen[c] = true
				queue = append(queue, c)
			}
		}
	}

	for _, r := range records {
		if !seen[r.id] {
			return &FormatError{Line: r.line, Reason: "cycle detected"}
		}
	}
	return nil
}
