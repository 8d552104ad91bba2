package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/npratt/swcedit/internal/events"
	"github.com/npratt/swcedit/internal/viewmodel"
)

const (
	minWidth  = 50
	minHeight = 15

	// chromeLines counts every rendered line that is not a tree or event
	// line, borders included.
	chromeLines = 11
	// minTreeLines is the smallest tree pane worth drawing.
	minTreeLines = 3
)

// View implements tea.Model. This renders the full TUI display.
func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	if m.width < minWidth || m.height < minHeight {
		return m.renderTooSmall()
	}

	w := safeWidth(m.width - 4)
	eventRows, treeRows := m.paneHeights()

	sections := []string{
		m.renderHeader(w),
		m.renderDivider(w),
		m.renderTree(w, treeRows),
		m.renderDivider(w),
		m.renderDetail(w),
		m.renderDivider(w),
		m.renderEvents(w, eventRows),
		m.renderDivider(w),
		m.renderBottomLine(w),
		m.renderFooter(w),
	}

	rendered := styles.Container.
		Width(safeWidth(m.width - 2)).
		Render(strings.Join(sections, "\n"))

	return lipgloss.Place(m.width, m.height, lipgloss.Left, lipgloss.Top, rendered)
}

// paneHeights splits the free rows between the event log and the tree. The
// tree keeps at least minTreeLines.
func (m model) paneHeights() (eventRows, treeRows int) {
	free := m.height - chromeLines
	eventRows = max(0, min(m.maxEvents, free-minTreeLines))
	return eventRows, max(minTreeLines, free-eventRows)
}

func (m model) renderTooSmall() string {
	msg := fmt.Sprintf("Terminal too small (%dx%d)\nMinimum: %dx%d",
		m.width, m.height, minWidth, minHeight)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, msg)
}

// renderHeader shows the export name, node count and active node.
func (m model) renderHeader(w int) string {
	title := styles.Title.Render(events.Truncate(m.snap.Name, max(10, w/2)))

	active := "none"
	if n, ok := m.snap.Active(); ok {
		active = fmt.Sprintf("#%d %s", n.ID, n.Label)
	}
	stats := styles.Stat.Render(fmt.Sprintf("nodes: %d  active: %s", len(m.snap.Nodes), active))

	line := lipgloss.JoinHorizontal(
		lipgloss.Top,
		title,
		strings.Repeat(" ", max(1, w-lipgloss.Width(title)-lipgloss.Width(stats))),
		stats,
	)
	settings := styles.Stat.Render(fmt.Sprintf("root radius: %s  density: %s",
		formatValue(m.snap.RootRadius), m.density))
	return line + "\n" + settings
}

func (m model) renderDivider(w int) string {
	return styles.Divider.Render(strings.Repeat("─", w))
}

// renderTree draws the nodes in pre-order, one per line, scrolled so the
// active node stays visible.
func (m model) renderTree(w, rows int) string {
	start := 0
	if i := m.activeIndex(); i >= rows {
		start = i - rows + 1
	}
	start = safeScroll(start, len(m.snap.Nodes), rows)
	end := min(start+rows, len(m.snap.Nodes))

	lines := make([]string, 0, rows)
	for _, n := range m.snap.Nodes[start:end] {
		lines = append(lines, m.renderNode(n, w))
	}
	for len(lines) < rows {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

// renderNode formats one tree line according to the current density.
func (m model) renderNode(n viewmodel.NodeView, w int) string {
	indent := strings.Repeat("  ", n.Depth)
	text := fmt.Sprintf("#%d %s", n.ID, n.Type.ShortLabel())

	switch m.density {
	case DensityStandard:
		if n.ParentID >= 0 {
			text += fmt.Sprintf("  len %.4g  ang %.4g", n.Length, n.Angle)
		}
	case DensityDetailed:
		if n.ParentID >= 0 {
			text += fmt.Sprintf("  len %.4g  ang %.4g", n.Length, n.Angle)
		}
		text += fmt.Sprintf("  r %.4g  depth %d  children %d", n.Radius, n.Depth, len(n.Children))
	}

	if m.showCoords {
		text += styles.Coords.Render(fmt.Sprintf("  (%.1f, %.1f)", n.X, n.Y))
	}

	line := styles.Guide.Render(indent)
	if n.ID == m.snap.ActiveID {
		line += styles.NodeSelected.Render(text)
	} else {
		line += typeStyle(n.Type).Render(text)
	}
	return truncateStyled(line, w)
}

// renderDetail describes the active node in full.
func (m model) renderDetail(w int) string {
	n, ok := m.snap.Active()
	if !ok {
		return styles.Stat.Render("nothing selected")
	}
	var text string
	if n.ParentID < 0 {
		text = fmt.Sprintf("#%d %s  r %g  at (%g, %g, %g)", n.ID, n.Label, n.Radius, n.X, n.Y, n.Z)
	} else {
		text = fmt.Sprintf("#%d %s  parent #%d  len %g  ang %g  hdg %.4g  r %g  at (%g, %g, %g)",
			n.ID, n.Label, n.ParentID, n.Length, n.Angle, n.Heading, n.Radius, n.X, n.Y, n.Z)
	}
	return styles.Node.Render(events.Truncate(text, w))
}

// renderEvents shows the newest event lines.
func (m model) renderEvents(w, rows int) string {
	if rows == 0 {
		return ""
	}
	start := max(0, len(m.eventLines)-rows)

	lines := make([]string, 0, rows)
	for _, el := range m.eventLines[start:] {
		lines = append(lines, m.renderEventLine(el, w))
	}
	for len(lines) < rows {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

// renderEventLine renders a single event with timestamp and styling.
func (m model) renderEventLine(el eventLine, maxWidth int) string {
	prefix := el.Time.Format("15:04:05") + " "
	text := events.Truncate(el.Text, max(10, maxWidth-len(prefix)))
	return styles.Stat.Render(prefix) + el.Style.Render(text)
}

// renderBottomLine shows the prompt while one is open, else the status.
func (m model) renderBottomLine(w int) string {
	if m.prompt != promptNone {
		return styles.Prompt.Render(m.prompt.label()+": ") + m.input.View()
	}
	if m.status == "" {
		return ""
	}
	if m.statusErr {
		return styles.Error.Render(events.Truncate(m.status, w))
	}
	return styles.Status.Render(events.Truncate(m.status, w))
}

// renderFooter renders keyboard shortcuts help text.
func (m model) renderFooter(w int) string {
	if m.prompt != promptNone {
		return styles.Footer.Render("enter: apply  esc: cancel")
	}
	return truncateStyled(styles.Footer.Render(
		"j/k: move  h/l: parent/child  s/S: sibling  a: add  x: delete  t: type  "+
			"L/A/r/R: length/angle/radius/root  C: canvas  o: open  w: write  n: new  v/c: view  q: quit"), w)
}

// truncateStyled cuts a rendered line to w cells.
func truncateStyled(s string, w int) string {
	if lipgloss.Width(s) <= w {
		return s
	}
	return lipgloss.NewStyle().MaxWidth(w).Render(s)
}

// safeWidth returns a width that is at least 1 to prevent negative values.
func safeWidth(w int) int {
	if w < 1 {
		return 1
	}
	return w
}

// safeScroll clamps scroll position to valid bounds.
func safeScroll(pos, totalLines, visibleLines int) int {
	if pos < 0 {
		return 0
	}
	maxScroll := totalLines - visibleLines
	if maxScroll < 0 {
		return 0
	}
	if pos > maxScroll {
		return maxScroll
	}
	return pos
}
