package tui

import (
	"strings"
	"testing"

	"github.com/npratt/swcedit/internal/events"
	"github.com/npratt/swcedit/internal/testutil"
)

func TestView_Loading(t *testing.T) {
	m := newTestModel(t, nil)
	m.width, m.height = 0, 0

	if got := m.View(); got != "Loading..." {
		t.Errorf("View() = %q, want Loading...", got)
	}
}

func TestView_TooSmall(t *testing.T) {
	m := newTestModel(t, nil)
	m.width, m.height = 30, 10

	if got := m.View(); !strings.Contains(got, "Terminal too small") {
		t.Errorf("View() = %q", got)
	}
}

func TestView_ShowsTree(t *testing.T) {
	m := newTestModel(t, nil)
	if err := m.session.Import("branched.swc", testutil.BranchedSWC); err != nil {
		t.Fatalf("Import: %v", err)
	}
	m.refresh()

	view := m.View()

	for _, want := range []string{"branched.swc", "nodes: 6", "active: #1 soma", "#5 apic", "#3 basal"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestView_NothingSelected(t *testing.T) {
	m := newTestModel(t, nil)
	m = press(t, m, "esc")

	view := m.View()

	if !strings.Contains(view, "active: none") {
		t.Error("header should show no active node")
	}
	if !strings.Contains(view, "nothing selected") {
		t.Error("detail line should say nothing is selected")
	}
}

func TestView_Prompt(t *testing.T) {
	m := newTestModel(t, nil)
	m = press(t, m, "a", "A")

	view := m.View()

	if !strings.Contains(view, "angle (half turns):") {
		t.Error("view should show the prompt label")
	}
	if !strings.Contains(view, "enter: apply") {
		t.Error("footer should show prompt help")
	}
}

func TestView_Status(t *testing.T) {
	m := newTestModel(t, nil)
	m = press(t, m, "x")

	if !strings.Contains(m.View(), "root cannot be deleted") {
		t.Errorf("view should show the error status %q", m.status)
	}
}

func TestView_EventLog(t *testing.T) {
	m := newTestModel(t, nil)
	m.handleEvent(&events.TreeImportedEvent{
		BaseEvent: events.NewEditorEvent(events.EventTreeImported),
		Name:      "cell.swc",
		Nodes:     6,
	})

	if !strings.Contains(m.View(), "imported cell.swc (6 nodes)") {
		t.Error("view should show the event line")
	}
}

func TestRenderNode_Density(t *testing.T) {
	m := newTestModel(t, nil)
	m.showCoords = false
	m = press(t, m, "a")
	n, _ := m.snap.Active()

	tests := []struct {
		density NodeDensity
		want    []string
		notWant []string
	}{
		{DensityCompact, []string{"#2 undef"}, []string{"len", "depth"}},
		{DensityStandard, []string{"len 10", "ang 0.1"}, []string{"depth"}},
		{DensityDetailed, []string{"len 10", "r 0.1", "depth 1", "children 0"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.density.String(), func(t *testing.T) {
			m.density = tt.density
			line := m.renderNode(n, 200)
			for _, w := range tt.want {
				if !strings.Contains(line, w) {
					t.Errorf("line %q missing %q", line, w)
				}
			}
			for _, w := range tt.notWant {
				if strings.Contains(line, w) {
					t.Errorf("line %q should not contain %q", line, w)
				}
			}
		})
	}
}

func TestRenderDetail_ShowsHeading(t *testing.T) {
	m := newTestModel(t, nil)
	m = press(t, m, "a")
	m = press(t, m, "a")

	line := m.renderDetail(200)
	for _, want := range []string{"#3", "parent #2", "ang 0.1", "hdg 0.2"} {
		if !strings.Contains(line, want) {
			t.Errorf("detail %q missing %q", line, want)
		}
	}
}

func TestRenderNode_Coordinates(t *testing.T) {
	m := newTestModel(t, nil)
	m.showCoords = true
	root := m.snap.Nodes[0]

	if line := m.renderNode(root, 200); !strings.Contains(line, "(100.0, 100.0)") {
		t.Errorf("line %q should show coordinates", line)
	}
}

func TestRenderTree_KeepsActiveVisible(t *testing.T) {
	m := newTestModel(t, nil)
	for range 10 {
		m = press(t, m, "a")
	}

	tree := m.renderTree(80, 3)

	if !strings.Contains(tree, "#11 ") {
		t.Errorf("active node should be visible:\n%s", tree)
	}
	if strings.Contains(tree, "#1 soma") {
		t.Errorf("root should have scrolled away:\n%s", tree)
	}
}

func TestPaneHeights(t *testing.T) {
	m := newTestModel(t, nil)
	m.maxEvents = 5

	m.height = 30
	eventRows, treeRows := m.paneHeights()
	if eventRows != 5 || treeRows != 30-chromeLines-5 {
		t.Errorf("paneHeights() = %d, %d", eventRows, treeRows)
	}

	m.height = minHeight
	eventRows, treeRows = m.paneHeights()
	if treeRows < minTreeLines || eventRows+treeRows != minHeight-chromeLines {
		t.Errorf("paneHeights() at minimum = %d, %d", eventRows, treeRows)
	}
}

func TestSafeScroll(t *testing.T) {
	tests := []struct {
		pos, total, visible, want int
	}{
		{-1, 10, 5, 0},
		{3, 10, 5, 3},
		{8, 10, 5, 5},
		{2, 3, 5, 0},
	}
	for _, tt := range tests {
		if got := safeScroll(tt.pos, tt.total, tt.visible); got != tt.want {
			t.Errorf("safeScroll(%d, %d, %d) = %d, want %d", tt.pos, tt.total, tt.visible, got, tt.want)
		}
	}
}
