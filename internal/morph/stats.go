package morph

// Stats summarizes the shape of a tree.
type Stats struct {
	Nodes        int              `json:"nodes" yaml:"nodes"`
	Segments     int              `json:"segments" yaml:"segments"`
	Tips         int              `json:"tips" yaml:"tips"`
	BranchPoints int              `json:"branch_points" yaml:"branch_points"`
	MaxDepth     int              `json:"max_depth" yaml:"max_depth"`
	TotalLength  float64          `json:"total_length" yaml:"total_length"`
	SomaRadius   float64          `json:"soma_radius" yaml:"soma_radius"`
	TypeCounts   map[NodeType]int `json:"type_counts" yaml:"type_counts"`
}

// Stats walks the tree once and returns its summary. The root counts as a
// node but not as a segment, tip or branch point.
func (t *Tree) Stats() Stats {
	s := Stats{
		SomaRadius: t.RootRadius(),
		TypeCounts: make(map[NodeType]int),
	}
	t.Walk(func(n Node, depth int) bool {
		s.Nodes++
		s.MaxDepth = max(s.MaxDepth, depth)
		if n.IsRoot() {
			return true
		}
		s.Segments++
		s.TotalLength += n.Length
		s.TypeCounts[n.Type]++
		switch {
		case len(n.Children) == 0:
			s.Tips++
		case len(n.Children) > 1:
			s.BranchPoints++
		}
		return true
	})
	return s
}
