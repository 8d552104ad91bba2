// Package tui provides a terminal editor for one swcedit session using
// bubbletea. It renders session snapshots and turns key presses into session
// operations.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/npratt/swcedit/internal/config"
	"github.com/npratt/swcedit/internal/editor"
	"github.com/npratt/swcedit/internal/events"
)

// TUI is the terminal editor.
type TUI struct {
	session   *editor.Session
	eventChan <-chan events.Event
	cfg       config.TUIConfig
	exportDir string
	onQuit    func()
}

// Option configures the TUI.
type Option func(*TUI)

// New creates a TUI editing session. eventChan feeds the activity log and
// may be nil.
func New(session *editor.Session, eventChan <-chan events.Event, opts ...Option) *TUI {
	t := &TUI{
		session:   session,
		eventChan: eventChan,
		cfg:       config.Default().TUI,
		exportDir: ".",
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// WithConfig sets display options.
func WithConfig(cfg config.TUIConfig) Option {
	return func(t *TUI) {
		t.cfg = cfg
	}
}

// WithExportDir sets the directory 'w' writes SWC files to.
func WithExportDir(dir string) Option {
	return func(t *TUI) {
		t.exportDir = dir
	}
}

// WithOnQuit sets the callback invoked when the user quits.
func WithOnQuit(fn func()) Option {
	return func(t *TUI) {
		t.onQuit = fn
	}
}

// Run starts the TUI and blocks until it exits.
func (t *TUI) Run() error {
	if !isTerminal() {
		return ErrNoTerminal
	}

	m := newModel(t.session, t.eventChan, t.cfg, t.exportDir, t.onQuit)

	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
