package swc

import "fmt"

// FormatError reports malformed, ambiguous or cyclic SWC input. Line is the
// 1-based line the problem was found on, or 0 when it concerns the whole
// file.
type FormatError struct {
	Line   int
	Reason string
}

func (e *FormatError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("swc: line %d: %s", e.Line, e.Reason)
	}
	return "swc: " + e.Reason
}
