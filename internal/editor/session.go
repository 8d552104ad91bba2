// Package editor owns one editing session: the tree, the active node and the
// export name. It is the single writer of the tree; every change goes through
// a Session method, is logged and is published as an event.
package editor

import (
	"errors"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"sync"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/npratt/swcedit/internal/config"
	"github.com/npratt/swcedit/internal/events"
	"github.com/npratt/swcedit/internal/morph"
	"github.com/npratt/swcedit/internal/selection"
	"github.com/npratt/swcedit/internal/swc"
	"github.com/npratt/swcedit/internal/viewmodel"
)

// ErrNoSelection is returned by operations on the active node when nothing
// is selected.
var ErrNoSelection = errors.New("no node selected")

// Session serializes all edits of one tree.
type Session struct {
	mu sync.Mutex

	tree   *morph.Tree
	active morph.NodeID
	name   string
	anchor r2.Vec

	defaults   morph.Segment
	rootRadius float64
	resetName  string

	emitter events.Emitter
	logger  *slog.Logger
}

// New creates a session holding a fresh tree at the canvas center. A nil
// emitter drops events; a nil logger uses slog.Default.
func New(cfg *config.Config, emitter events.Emitter, logger *slog.Logger) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("editor config: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	s := &Session{
		anchor:     cfg.Canvas.Anchor(),
		defaults:   cfg.Defaults.Segment(),
		rootRadius: cfg.Defaults.RootRadius,
		resetName:  cfg.Export.ResetName,
		emitter:    emitter,
		logger:     logger,
	}
	s.reset()
	s.active = s.tree.Root()
	return s, nil
}

// Reset replaces the tree with a lone soma at the anchor and restores the
// default export name. The root becomes active.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reset()
	s.logger.Debug("tree reset", "name", s.name)
	s.emit(&events.TreeResetEvent{
		BaseEvent:  events.NewEditorEvent(events.EventTreeReset),
		Name:       s.name,
		RootRadius: s.rootRadius,
	})
	s.setActive(s.tree.Root())
}

func (s *Session) reset() {
	s.tree = morph.New(s.anchor, s.rootRadius)
	s.name = s.resetName
}

// Import parses SWC text and, on success, replaces the tree
// wholesale. name is the file the text came from; only its base name is
// kept for export. On failure the current tree is untouched.
func (s *Session) Import(name, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tree, err := swc.Parse(text, s.anchor.X, s.anchor.Y)
	if err != nil {
		return s.reject("import", selection.None, err)
	}

	s.tree = tree
	s.name = exportName(name, s.resetName)
	s.logger.Info("tree imported", "name", s.name, "nodes", tree.Len())
	s.emit(&events.TreeImportedEvent{
		BaseEvent: events.NewEditorEvent(events.EventTreeImported),
		Name:      s.name,
		Nodes:     tree.Len(),
	})
	s.setActive(tree.Root())
	return nil
}

// Export serializes the tree in pre-order and returns it with the file name
// it should be saved under.
func (s *Session) Export() (name, text string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	text, err = swc.Export(s.tree)
	if err != nil {
		return "", "", s.reject("export", selection.None, err)
	}
	s.logger.Debug("tree exported", "name", s.name, "bytes", len(text))
	s.emit(&events.TreeExportedEvent{
		BaseEvent: events.NewEditorEvent(events.EventTreeExported),
		Name:      s.name,
		Nodes:     s.tree.Len(),
		Bytes:     len(text),
	})
	return s.name, text, nil
}

// AddChild appends a default segment to the active node and makes it
// active.
func (s *Session) AddChild() (morph.NodeID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	parent := s.active
	if parent == selection.None {
		return 0, s.reject("add", parent, ErrNoSelection)
	}
	id, err := s.tree.AddChild(parent, s.defaults)
	if err != nil {
		return 0, s.reject("add", parent, err)
	}

	depth := s.tree.Depth(id)
	s.logger.Debug("node added", "id", id, "parent", parent, "depth", depth)
	s.emit(&events.NodeAddedEvent{
		BaseEvent: events.NewEditorEvent(events.EventNodeAdded),
		NodeID:    id,
		ParentID:  parent,
		Depth:     depth,
	})
	s.setActive(id)
	return id, nil
}

// Delete removes the active node and its subtree. Its parent becomes
// active.
func (s *Session) Delete() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.active
	if id == selection.None {
		return s.reject("delete", id, ErrNoSelection)
	}
	parent, _ := s.tree.Parent(id)
	removed := len(s.tree.Subtree(id))
	if err := s.tree.Delete(id); err != nil {
		return s.reject("delete", id, err)
	}

	s.logger.Debug("node deleted", "id", id, "removed", removed)
	s.emit(&events.NodeDeletedEvent{
		BaseEvent: events.NewEditorEvent(events.EventNodeDeleted),
		NodeID:    id,
		Removed:   removed,
	})
	s.setActive(parent)
	return nil
}

// Update sets one field of the active node.
func (s *Session) Update(field morph.Field, value float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.active
	if id == selection.None {
		return s.reject("update", id, ErrNoSelection)
	}
	n, ok := s.tree.Node(id)
	if !ok {
		return s.reject("update", id, &morph.NotFoundError{ID: id})
	}
	old := fieldValue(n, field)
	if err := s.tree.UpdateField(id, field, value); err != nil {
		return s.reject("update", id, err)
	}
	s.updated(id, field, old, value)
	return nil
}

// SetRootRadius changes the soma radius. It works whatever is selected.
func (s *Session) SetRootRadius(radius float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	root := s.tree.Root()
	old := s.tree.RootRadius()
	if err := s.tree.UpdateRootRadius(radius); err != nil {
		return s.reject("root radius", root, err)
	}
	s.updated(root, morph.FieldRadius, old, radius)
	return nil
}

// Resize moves the anchor, for example when the drawing surface changes
// size, and re-places the whole tree around it. Later resets use the new
// anchor too.
func (s *Session) Resize(anchor r2.Vec) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.anchor = anchor
	s.tree.Resize(anchor)
	s.logger.Debug("tree resized", "x", anchor.X, "y", anchor.Y)
	s.emit(&events.TreeResizedEvent{
		BaseEvent: events.NewEditorEvent(events.EventTreeResized),
		X:         anchor.X,
		Y:         anchor.Y,
	})
}

// Navigate applies a selection move and returns the new active id.
func (s *Session) Navigate(m selection.Move) morph.NodeID {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.setActive(selection.Apply(s.tree, s.active, m))
	return s.active
}

// Select makes id active.
func (s *Session) Select(id morph.NodeID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.tree.Contains(id) {
		return s.reject("select", id, &morph.NotFoundError{ID: id})
	}
	s.setActive(id)
	return nil
}

// Active returns the active id, or selection.None.
func (s *Session) Active() morph.NodeID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// Name returns the current export file name.
func (s *Session) Name() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.name
}

// Snapshot returns an immutable view of the current state for renderers.
func (s *Session) Snapshot() viewmodel.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return viewmodel.FromTree(s.tree, s.name, s.active)
}

// Tree returns a deep copy of the current tree.
func (s *Session) Tree() *morph.Tree {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tree.Clone()
}

// Stats returns summary statistics of the current tree.
func (s *Session) Stats() morph.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tree.Stats()
}

func (s *Session) setActive(id morph.NodeID) {
	if id == s.active {
		return
	}
	from := s.active
	s.active = id
	s.emit(&events.SelectionChangedEvent{
		BaseEvent: events.NewEditorEvent(events.EventSelectionChanged),
		From:      from,
		To:        id,
	})
}

func (s *Session) updated(id morph.NodeID, field morph.Field, old, value float64) {
	s.logger.Debug("node updated", "id", id, "field", field, "old", old, "new", value)
	s.emit(&events.NodeUpdatedEvent{
		BaseEvent: events.NewEditorEvent(events.EventNodeUpdated),
		NodeID:    id,
		Field:     field,
		Old:       old,
		New:       value,
	})
}

// reject logs and publishes a refused operation and returns err wrapped with
// the operation name.
func (s *Session) reject(op string, id morph.NodeID, err error) error {
	s.logger.Warn("operation rejected", "op", op, "id", id, "error", err)
	ev := &events.ErrorEvent{
		BaseEvent: events.NewEditorEvent(events.EventError),
		Op:        op,
		Message:   err.Error(),
		Severity:  events.SeverityError,
	}
	if id != selection.None {
		ev.NodeID = id
	}
	s.emit(ev)
	return fmt.Errorf("%s: %w", op, err)
}

// emit sends an event to the emitter if available.
func (s *Session) emit(event events.Event) {
	if s.emitter != nil {
		s.emitter.Emit(event)
	}
}

func fieldValue(n morph.Node, field morph.Field) float64 {
	switch field {
	case morph.FieldType:
		return float64(n.Type)
	case morph.FieldRadius:
		return n.Radius
	case morph.FieldLength:
		return n.Length
	case morph.FieldAngle:
		return n.Angle
	default:
		return 0
	}
}

// exportName keeps the base name of an imported file, falling back when
// there is none.
func exportName(name, fallback string) string {
	name = strings.TrimSpace(path.Base(strings.ReplaceAll(name, `\`, "/")))
	switch name {
	case "", ".", "/":
		return fallback
	}
	if path.Ext(name) == "" {
		name += ".swc"
	}
	return name
}
