package editor

import (
	"bytes"
	"errors"
	"log/slog"
	"math"
	"strings"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/npratt/swcedit/internal/config"
	"github.com/npratt/swcedit/internal/events"
	"github.com/npratt/swcedit/internal/morph"
	"github.com/npratt/swcedit/internal/selection"
	"github.com/npratt/swcedit/internal/swc"
	"github.com/npratt/swcedit/internal/testutil"
)

// recorder collects emitted events.
type recorder struct {
	events []events.Event
}

func (r *recorder) Emit(e events.Event) {
	r.events = append(r.events, e)
}

func (r *recorder) types() []events.EventType {
	out := make([]events.EventType, len(r.events))
	for i, e := range r.events {
		out[i] = e.Type()
	}
	return out
}

func (r *recorder) last() events.Event {
	if len(r.events) == 0 {
		return nil
	}
	return r.events[len(r.events)-1]
}

func newSession(t *testing.T) (*Session, *recorder) {
	t.Helper()
	rec := &recorder{}
	cfg := config.Default()
	cfg.Canvas = config.CanvasConfig{Width: 200, Height: 200}
	s, err := New(cfg, rec, slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s, rec
}

func TestNew_FreshTree(t *testing.T) {
	s, rec := newSession(t)

	snap := s.Snapshot()
	if len(snap.Nodes) != 1 {
		t.Fatalf("fresh tree has %d nodes, want 1", len(snap.Nodes))
	}
	root := snap.Nodes[0]
	if root.X != 100 || root.Y != 100 || root.Radius != morph.DefaultRootRadius {
		t.Errorf("root = %+v, want soma r=3 at (100,100)", root)
	}
	if snap.ActiveID != root.ID {
		t.Errorf("active = %d, want root", snap.ActiveID)
	}
	if s.Name() != "swcTree.swc" {
		t.Errorf("Name() = %q", s.Name())
	}
	if len(rec.events) != 0 {
		t.Errorf("New should not emit, got %v", rec.types())
	}
}

func TestNew_InvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Defaults.Angle = 5
	if _, err := New(cfg, nil, nil); err == nil {
		t.Error("expected error for invalid defaults")
	}
}

func TestAddChild_UsesDefaultsAndSelectsNewNode(t *testing.T) {
	s, rec := newSession(t)

	id, err := s.AddChild()
	if err != nil {
		t.Fatalf("AddChild: %v", err)
	}
	if s.Active() != id {
		t.Errorf("active = %d, want new node %d", s.Active(), id)
	}

	v, _ := s.Snapshot().Node(id)
	if v.Length != 10 || v.Radius != 0.1 || v.Angle != 0.1 || v.Type != morph.TypeUndefined {
		t.Errorf("new node = %+v, want defaults", v)
	}
	want := r2.Add(r2.Vec{X: 100, Y: 100}, morph.Polar(10, 0.1))
	if math.Abs(v.X-want.X) > 1e-9 || math.Abs(v.Y-want.Y) > 1e-9 {
		t.Errorf("endpoint = (%v, %v), want %v", v.X, v.Y, want)
	}

	got := rec.types()
	if len(got) != 2 || got[0] != events.EventNodeAdded || got[1] != events.EventSelectionChanged {
		t.Errorf("events = %v", got)
	}
}

func TestAddChild_EventCarriesDepth(t *testing.T) {
	s, rec := newSession(t)
	if _, err := s.AddChild(); err != nil {
		t.Fatal(err)
	}
	id, err := s.AddChild()
	if err != nil {
		t.Fatal(err)
	}

	var added *events.NodeAddedEvent
	for _, e := range rec.events {
		if a, ok := e.(*events.NodeAddedEvent); ok {
			added = a
		}
	}
	if added == nil || added.NodeID != id || added.Depth != 2 {
		t.Errorf("last add event = %#v, want node %d at depth 2", added, id)
	}
}

func TestAddChild_NothingSelected(t *testing.T) {
	s, rec := newSession(t)
	s.Navigate(selection.MoveDeselect)

	_, err := s.AddChild()
	if !errors.Is(err, ErrNoSelection) {
		t.Fatalf("err = %v, want ErrNoSelection", err)
	}
	if len(s.Snapshot().Nodes) != 1 {
		t.Error("tree changed after rejected add")
	}
	if e, ok := rec.last().(*events.ErrorEvent); !ok || e.Op != "add" {
		t.Errorf("last event = %#v, want add error", rec.last())
	}
}

func TestDelete_SelectsParent(t *testing.T) {
	s, rec := newSession(t)
	a, _ := s.AddChild()
	b, _ := s.AddChild()
	if err := s.Select(a); err != nil {
		t.Fatal(err)
	}

	if err := s.Delete(); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	snap := s.Snapshot()
	if len(snap.Nodes) != 1 {
		t.Errorf("%d nodes left, want 1", len(snap.Nodes))
	}
	if _, ok := snap.Node(b); ok {
		t.Error("descendant survived delete")
	}
	if s.Active() != snap.Nodes[0].ID {
		t.Errorf("active = %d, want root", s.Active())
	}

	var deleted *events.NodeDeletedEvent
	for _, e := range rec.events {
		if d, ok := e.(*events.NodeDeletedEvent); ok {
			deleted = d
		}
	}
	if deleted == nil || deleted.NodeID != a || deleted.Removed != 2 {
		t.Errorf("delete event = %+v", deleted)
	}
}

func TestDelete_RootRejected(t *testing.T) {
	s, _ := newSession(t)
	before := s.Snapshot()

	err := s.Delete()

	var ioe *morph.InvalidOperationError
	if !errors.As(err, &ioe) {
		t.Fatalf("err = %v, want InvalidOperationError", err)
	}
	if after := s.Snapshot(); len(after.Nodes) != len(before.Nodes) || after.ActiveID != before.ActiveID {
		t.Error("state changed after rejected delete")
	}
}

func TestUpdate(t *testing.T) {
	s, rec := newSession(t)
	a, _ := s.AddChild()
	b, _ := s.AddChild()
	if err := s.Select(a); err != nil {
		t.Fatal(err)
	}

	if err := s.Update(morph.FieldAngle, 0); err != nil {
		t.Fatalf("Update angle: %v", err)
	}
	if err := s.Update(morph.FieldLength, 20); err != nil {
		t.Fatalf("Update length: %v", err)
	}
	if err := s.Update(morph.FieldType, float64(morph.TypeAxon)); err != nil {
		t.Fatalf("Update type: %v", err)
	}

	snap := s.Snapshot()
	va, _ := snap.Node(a)
	if va.X != 120 || va.Y != 100 || va.Type != morph.TypeAxon {
		t.Errorf("a = %+v", va)
	}
	vb, _ := snap.Node(b)
	if vb.ParentX != 120 || vb.Length != 10 {
		t.Errorf("b did not follow its parent: %+v", vb)
	}

	u, ok := rec.last().(*events.NodeUpdatedEvent)
	if !ok || u.Field != morph.FieldType || u.Old != 0 || u.New != 2 {
		t.Errorf("last event = %#v", rec.last())
	}
}

func TestUpdate_RejectedLeavesTreeIntact(t *testing.T) {
	s, _ := newSession(t)
	a, _ := s.AddChild()
	before, _ := s.Snapshot().Node(a)

	tests := []struct {
		name  string
		field morph.Field
		value float64
	}{
		{"negative length", morph.FieldLength, -1},
		{"angle above range", morph.FieldAngle, 2.1},
		{"negative radius", morph.FieldRadius, -0.5},
		{"fractional type", morph.FieldType, 1.5},
		{"unknown field", morph.Field("colour"), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := s.Update(tt.field, tt.value); err == nil {
				t.Fatal("expected error")
			}
			after, _ := s.Snapshot().Node(a)
			if after.Length != before.Length || after.Angle != before.Angle || after.Radius != before.Radius || after.Type != before.Type {
				t.Errorf("node changed: %+v -> %+v", before, after)
			}
		})
	}
}

func TestSetRootRadius(t *testing.T) {
	s, _ := newSession(t)
	s.Navigate(selection.MoveDeselect)

	if err := s.SetRootRadius(8); err != nil {
		t.Fatalf("SetRootRadius: %v", err)
	}
	if got := s.Snapshot().RootRadius; got != 8 {
		t.Errorf("RootRadius = %v, want 8", got)
	}
	if err := s.SetRootRadius(-1); err == nil {
		t.Error("expected error for negative radius")
	}
}

func TestResize_MovesWholeTreeAndLaterResets(t *testing.T) {
	s, _ := newSession(t)
	a, _ := s.AddChild()
	before, _ := s.Snapshot().Node(a)

	s.Resize(r2.Vec{X: 300, Y: 50})

	after, _ := s.Snapshot().Node(a)
	if math.Abs(after.X-(before.X+200)) > 1e-9 || math.Abs(after.Y-(before.Y-50)) > 1e-9 {
		t.Errorf("node moved from (%v,%v) to (%v,%v)", before.X, before.Y, after.X, after.Y)
	}

	s.Reset()
	root := s.Snapshot().Nodes[0]
	if root.X != 300 || root.Y != 50 {
		t.Errorf("reset root at (%v,%v), want new anchor", root.X, root.Y)
	}
}

func TestImport(t *testing.T) {
	s, rec := newSession(t)

	if err := s.Import("/tmp/uploads/cell.swc", testutil.IrregularSWC); err != nil {
		t.Fatalf("Import: %v", err)
	}

	snap := s.Snapshot()
	if len(snap.Nodes) != 6 {
		t.Fatalf("imported %d nodes, want 6", len(snap.Nodes))
	}
	if snap.Nodes[0].X != 100 || snap.Nodes[0].Y != 100 {
		t.Errorf("root not anchored: %+v", snap.Nodes[0])
	}
	if snap.Name != "cell.swc" || snap.ActiveID != 1 {
		t.Errorf("name=%q active=%d", snap.Name, snap.ActiveID)
	}
	if rec.types()[0] != events.EventTreeImported {
		t.Errorf("events = %v", rec.types())
	}
}

func TestImport_FailureKeepsTree(t *testing.T) {
	s, rec := newSession(t)
	a, _ := s.AddChild()

	err := s.Import("bad.swc", testutil.TwoRootsSWC)

	var fe *swc.FormatError
	if !errors.As(err, &fe) || fe.Reason != "multiple roots" {
		t.Fatalf("err = %v, want multiple roots FormatError", err)
	}
	if _, ok := s.Snapshot().Node(a); !ok || s.Name() != "swcTree.swc" || s.Active() != a {
		t.Error("failed import changed the session")
	}
	if e, ok := rec.last().(*events.ErrorEvent); !ok || e.Op != "import" {
		t.Errorf("last event = %#v", rec.last())
	}
}

func TestImport_ErrorNamesFileLine(t *testing.T) {
	s, _ := newSession(t)

	err := s.Import("gaps.swc", "# header\n\n\n1 1 0 0 0 3 -1\n\n2 2 10 0 0 1\n")

	var fe *swc.FormatError
	if !errors.As(err, &fe) {
		t.Fatalf("err = %v, want FormatError", err)
	}
	if fe.Line != 6 {
		t.Errorf("line = %d, want 6 (%v)", fe.Line, err)
	}
}

func TestExport_RoundTripThroughSession(t *testing.T) {
	s, rec := newSession(t)
	if err := s.Import("chain", testutil.ChainSWC); err != nil {
		t.Fatal(err)
	}

	name, text, err := s.Export()
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if name != "chain.swc" {
		t.Errorf("name = %q, want chain.swc", name)
	}
	if !strings.HasPrefix(text, "1 1 0 0 0 3 -1\n2 2 10 0 0 1 1\n") {
		t.Errorf("unexpected export:\n%s", text)
	}
	if e, ok := rec.last().(*events.TreeExportedEvent); !ok || e.Bytes != len(text) {
		t.Errorf("last event = %#v", rec.last())
	}
}

func TestReset_RestoresName(t *testing.T) {
	s, rec := newSession(t)
	if err := s.Import("chain.swc", testutil.ChainSWC); err != nil {
		t.Fatal(err)
	}
	if err := s.Select(3); err != nil {
		t.Fatal(err)
	}

	s.Reset()

	if s.Name() != "swcTree.swc" || len(s.Snapshot().Nodes) != 1 || s.Active() != 1 {
		t.Errorf("reset state: name=%q nodes=%d active=%d", s.Name(), len(s.Snapshot().Nodes), s.Active())
	}
	types := rec.types()
	if types[len(types)-2] != events.EventTreeReset || types[len(types)-1] != events.EventSelectionChanged {
		t.Errorf("events = %v", types)
	}
}

func TestNavigate(t *testing.T) {
	s, rec := newSession(t)
	if err := s.Import("b.swc", testutil.BranchedSWC); err != nil {
		t.Fatal(err)
	}
	n := len(rec.events)

	steps := []struct {
		move selection.Move
		want morph.NodeID
	}{
		{selection.MoveChild, 2},
		{selection.MoveChild, 3},
		{selection.MoveSibling, 4},
		{selection.MoveSibling, 3},
		{selection.MoveParent, 2},
		{selection.MoveSibling, 5},
		{selection.MoveParent, 1},
		{selection.MoveParent, 1},
		{selection.MoveDeselect, selection.None},
	}
	for i, st := range steps {
		if got := s.Navigate(st.move); got != st.want {
			t.Fatalf("step %d %s: active = %d, want %d", i, st.move, got, st.want)
		}
	}

	// The no-op parent move at the root publishes nothing.
	if got := len(rec.events) - n; got != len(steps)-1 {
		t.Errorf("%d selection events, want %d", got, len(steps)-1)
	}
}

func TestSelect_Unknown(t *testing.T) {
	s, _ := newSession(t)
	var nf *morph.NotFoundError
	if err := s.Select(42); !errors.As(err, &nf) {
		t.Errorf("err = %v, want NotFoundError", err)
	}
}

func TestTree_IsACopy(t *testing.T) {
	s, _ := newSession(t)
	tree := s.Tree()
	if _, err := tree.AddChild(tree.Root(), morph.DefaultSegment()); err != nil {
		t.Fatal(err)
	}
	if got := s.Stats().Nodes; got != 1 {
		t.Errorf("session has %d nodes after editing a copy", got)
	}
}

func TestExportName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"cell.swc", "cell.swc"},
		{"/data/neurons/cell.swc", "cell.swc"},
		{`C:\Users\me\cell.SWC`, "cell.SWC"},
		{"NMO_00001", "NMO_00001.swc"},
		{"", "swcTree.swc"},
		{"  ", "swcTree.swc"},
	}
	for _, tt := range tests {
		if got := exportName(tt.in, "swcTree.swc"); got != tt.want {
			t.Errorf("exportName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
