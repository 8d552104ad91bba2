package events

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

const (
	maxNameLength     = 40
	maxMessageLength  = 100
	truncateIndicator = "..."
)

// Format converts an event to a one-line description for the activity log.
// It returns an empty string for nil or unknown events.
func Format(event Event) string {
	if event == nil {
		return ""
	}

	switch e := event.(type) {
	case *TreeImportedEvent:
		return fmt.Sprintf("imported %s (%d nodes)", Truncate(e.Name, maxNameLength), e.Nodes)
	case *TreeResetEvent:
		return fmt.Sprintf("new tree %s, soma r=%g", Truncate(e.Name, maxNameLength), e.RootRadius)
	case *TreeExportedEvent:
		return fmt.Sprintf("exported %s (%d nodes, %d bytes)", Truncate(e.Name, maxNameLength), e.Nodes, e.Bytes)
	case *TreeResizedEvent:
		return fmt.Sprintf("root moved to (%g, %g)", e.X, e.Y)
	case *NodeAddedEvent:
		return fmt.Sprintf("[+] node %d under %d", e.NodeID, e.ParentID)
	case *NodeDeletedEvent:
		if e.Removed > 1 {
			return fmt.Sprintf("[x] node %d and %d descendants", e.NodeID, e.Removed-1)
		}
		return fmt.Sprintf("[x] node %d", e.NodeID)
	case *NodeUpdatedEvent:
		return fmt.Sprintf("[~] node %d %s: %g -> %g", e.NodeID, e.Field, e.Old, e.New)
	case *SelectionChangedEvent:
		if e.To < 0 {
			return "selection cleared"
		}
		return fmt.Sprintf("selected %d", e.To)
	case *ErrorEvent:
		return formatError(e)
	default:
		return ""
	}
}

// FormatWithTimestamp formats an event with a clock prefix.
func FormatWithTimestamp(event Event) string {
	if event == nil {
		return ""
	}
	ts := event.Timestamp().Format("15:04:05")
	detail := Format(event)
	if detail == "" {
		return fmt.Sprintf("[%s] %s", ts, event.Type())
	}
	return fmt.Sprintf("[%s] %s", ts, detail)
}

func formatError(e *ErrorEvent) string {
	severity := SafeString(e.Severity)
	if severity == "" {
		severity = SeverityError
	}
	prefix := strings.ToUpper(severity)
	msg := Truncate(e.Message, maxMessageLength)
	if e.Op != "" {
		return fmt.Sprintf("%s: %s: %s", prefix, SafeString(e.Op), msg)
	}
	return fmt.Sprintf("%s: %s", prefix, msg)
}

// Truncate shortens s to maxLen bytes, marking the cut with "...".
func Truncate(s string, maxLen int) string {
	s = SafeString(s)
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= len(truncateIndicator) {
		return truncateIndicator
	}
	return s[:maxLen-len(truncateIndicator)] + truncateIndicator
}

var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// StripANSI removes ANSI escape sequences from a string.
func StripANSI(s string) string {
	return ansiRegex.ReplaceAllString(s, "")
}

// SafeString makes untrusted text (file names, error messages quoting file
// content) safe for a single terminal line.
func SafeString(s string) string {
	s = StripANSI(s)
	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, s)
	return strings.Join(strings.Fields(s), " ")
}
