package swc

import "strings"

// Normalize cleans SWC-like text from outside sources before parsing. Every
// line is trimmed, runs of whitespace inside data lines collapse to a single
// space, and blank lines are dropped.
func Normalize(raw string) string {
	lines := strings.Split(raw, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		switch {
		case line == "":
			continue
		case strings.HasPrefix(line, "#"):
			out = append(out, line)
		case line[0] >= '0' && line[0] <= '9':
			out = append(out, strings.Join(strings.Fields(line), " "))
		default:
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}
