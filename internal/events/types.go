// Package events defines the edit events a session publishes and the router
// and sinks that carry them to the terminal view and the event log.
package events

import (
	"time"

	"github.com/npratt/swcedit/internal/morph"
)

// EventType identifies the category and nature of an event.
type EventType string

const (
	// Whole-tree events
	EventTreeImported EventType = "tree.imported"
	EventTreeReset    EventType = "tree.reset"
	EventTreeExported EventType = "tree.exported"
	EventTreeResized  EventType = "tree.resized"

	// Node events
	EventNodeAdded   EventType = "node.added"
	EventNodeDeleted EventType = "node.deleted"
	EventNodeUpdated EventType = "node.updated"

	EventSelectionChanged EventType = "selection.changed"

	EventError EventType = "error"
)

// SourceEditor marks events published by an editing session.
const SourceEditor = "editor"

// Event is the base interface for all events in the system.
type Event interface {
	Type() EventType
	Timestamp() time.Time
	Source() string
}

// BaseEvent provides the common fields for all events.
type BaseEvent struct {
	EventType EventType `json:"type"`
	Time      time.Time `json:"timestamp"`
	Src       string    `json:"source"`
}

// Type returns the event type.
func (e BaseEvent) Type() EventType {
	return e.EventType
}

// Timestamp returns when the event occurred.
func (e BaseEvent) Timestamp() time.Time {
	return e.Time
}

// Source returns the origin of the event.
func (e BaseEvent) Source() string {
	return e.Src
}

// TreeImportedEvent is emitted when SWC text replaces the session tree.
type TreeImportedEvent struct {
	BaseEvent
	Name  string `json:"name"`
	Nodes int    `json:"nodes"`
}

// TreeResetEvent is emitted when the session starts over with a lone soma.
type TreeResetEvent struct {
	BaseEvent
	Name       string  `json:"name"`
	RootRadius float64 `json:"root_radius"`
}

// TreeExportedEvent is emitted after the tree is serialized.
type TreeExportedEvent struct {
	BaseEvent
	Name  string `json:"name"`
	Nodes int    `json:"nodes"`
	Bytes int    `json:"bytes"`
}

// TreeResizedEvent is emitted when the drawing surface moves the root.
type TreeResizedEvent struct {
	BaseEvent
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NodeAddedEvent is emitted for every new node.
type NodeAddedEvent struct {
	BaseEvent
	NodeID   morph.NodeID `json:"node_id"`
	ParentID morph.NodeID `json:"parent_id"`
	Depth    int          `json:"depth"`
}

// NodeDeletedEvent is emitted when a subtree is removed. Removed counts the
// node itself and all of its descendants.
type NodeDeletedEvent struct {
	BaseEvent
	NodeID  morph.NodeID `json:"node_id"`
	Removed int          `json:"removed"`
}

// NodeUpdatedEvent is emitted when a single field changes. The root radius
// is reported as a radius update of the root.
type NodeUpdatedEvent struct {
	BaseEvent
	NodeID morph.NodeID `json:"node_id"`
	Field  morph.Field  `json:"field"`
	Old    float64      `json:"old"`
	New    float64      `json:"new"`
}

// SelectionChangedEvent is emitted when the active node changes. -1 means
// nothing is selected.
type SelectionChangedEvent struct {
	BaseEvent
	From morph.NodeID `json:"from"`
	To   morph.NodeID `json:"to"`
}

// Severity constants for error events.
const (
	SeverityWarning = "warning"
	SeverityError   = "error"
)

// ErrorEvent is emitted when an operation is rejected. The tree is
// unchanged.
type ErrorEvent struct {
	BaseEvent
	Op       string       `json:"op"`
	Message  string       `json:"message"`
	Severity string       `json:"severity"`
	NodeID   morph.NodeID `json:"node_id,omitempty"`
}

// NewEvent creates a BaseEvent with the given type and source.
func NewEvent(eventType EventType, source string) BaseEvent {
	return BaseEvent{
		EventType: eventType,
		Time:      time.Now(),
		Src:       source,
	}
}

// NewEditorEvent creates a BaseEvent with the editor as the source.
func NewEditorEvent(eventType EventType) BaseEvent {
	return NewEvent(eventType, SourceEditor)
}
