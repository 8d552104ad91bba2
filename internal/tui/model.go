package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/npratt/swcedit/internal/config"
	"github.com/npratt/swcedit/internal/editor"
	"github.com/npratt/swcedit/internal/events"
	"github.com/npratt/swcedit/internal/viewmodel"
)

// promptKind identifies what the input line is collecting.
type promptKind int

const (
	promptNone promptKind = iota
	promptLength
	promptAngle
	promptRadius
	promptRootRadius
	promptCanvas
	promptOpen
)

// label is shown in front of the input line.
func (p promptKind) label() string {
	switch p {
	case promptLength:
		return "length"
	case promptAngle:
		return "angle (half turns)"
	case promptRadius:
		return "radius"
	case promptRootRadius:
		return "root radius"
	case promptCanvas:
		return "canvas WxH"
	case promptOpen:
		return "open file"
	default:
		return ""
	}
}

// eventLine represents a formatted event for display.
type eventLine struct {
	Time  time.Time
	Text  string
	Style lipgloss.Style
}

// eventMsg wraps an events.Event for the bubbletea message system.
type eventMsg events.Event

// model is the bubbletea model for the TUI.
type model struct {
	session   *editor.Session
	eventChan <-chan events.Event
	snap      viewmodel.Snapshot

	eventLines []eventLine
	maxEvents  int

	width  int
	height int

	density    NodeDensity
	showCoords bool

	status        string
	statusErr     bool
	statusSeq     int
	statusTimeout time.Duration

	input  textarea.Model
	prompt promptKind

	exportDir string
	onQuit    func()
}

// newModel creates a model for session.
func newModel(session *editor.Session, eventChan <-chan events.Event, cfg config.TUIConfig, exportDir string, onQuit func()) model {
	ta := textarea.New()
	ta.SetHeight(1)
	ta.CharLimit = 256
	ta.ShowLineNumbers = false
	ta.Prompt = ""
	ta.KeyMap.InsertNewline.SetEnabled(false)

	return model{
		session:       session,
		eventChan:     eventChan,
		snap:          session.Snapshot(),
		maxEvents:     cfg.EventLines,
		density:       ParseDensity(cfg.Density),
		showCoords:    cfg.ShowCoordinates,
		statusTimeout: cfg.StatusTimeout,
		input:         ta,
		exportDir:     exportDir,
		onQuit:        onQuit,
	}
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	if m.eventChan == nil {
		return nil
	}
	return waitForEvent(m.eventChan)
}

// activeIndex returns the pre-order position of the active node, or -1.
func (m model) activeIndex() int {
	for i, n := range m.snap.Nodes {
		if n.ID == m.snap.ActiveID {
			return i
		}
	}
	return -1
}
