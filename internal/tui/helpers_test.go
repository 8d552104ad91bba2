package tui

import (
	"io"
	"log/slog"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/npratt/swcedit/internal/config"
	"github.com/npratt/swcedit/internal/editor"
	"github.com/npratt/swcedit/internal/events"
)

// newTestModel returns a sized model over a fresh session whose anchor is
// (100, 100).
func newTestModel(t *testing.T, eventChan <-chan events.Event) model {
	t.Helper()
	cfg := config.Default()
	cfg.Canvas = config.CanvasConfig{Width: 200, Height: 200}
	session, err := editor.New(cfg, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("editor.New: %v", err)
	}
	m := newModel(session, eventChan, cfg.TUI, t.TempDir(), nil)
	m.width = 100
	m.height = 30
	return m
}

// key builds the KeyMsg a terminal would deliver for s.
func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEscape}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

// press feeds keys to m in order and returns the resulting model.
func press(t *testing.T, m model, keys ...string) model {
	t.Helper()
	for _, k := range keys {
		next, _ := m.Update(key(k))
		var ok bool
		m, ok = next.(model)
		if !ok {
			t.Fatalf("Update returned %T", next)
		}
	}
	return m
}
