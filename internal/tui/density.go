package tui

// NodeDensity represents the level of detail shown per tree line.
type NodeDensity int

const (
	// DensityCompact shows the id and short type label.
	DensityCompact NodeDensity = iota
	// DensityStandard adds length and angle.
	DensityStandard
	// DensityDetailed adds radius and depth.
	DensityDetailed
)

// String returns a string representation of the NodeDensity.
func (d NodeDensity) String() string {
	switch d {
	case DensityCompact:
		return "compact"
	case DensityStandard:
		return "standard"
	case DensityDetailed:
		return "detailed"
	default:
		return "unknown"
	}
}

// Next cycles compact, standard, detailed.
func (d NodeDensity) Next() NodeDensity {
	return (d + 1) % (DensityDetailed + 1)
}

// ParseDensity converts a string to NodeDensity. Unknown names give
// DensityStandard.
func ParseDensity(s string) NodeDensity {
	switch s {
	case "compact":
		return DensityCompact
	case "detailed":
		return DensityDetailed
	default:
		return DensityStandard
	}
}
