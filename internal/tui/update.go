package tui

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/npratt/swcedit/internal/config"
	"github.com/npratt/swcedit/internal/events"
	"github.com/npratt/swcedit/internal/morph"
	"github.com/npratt/swcedit/internal/selection"
)

const (
	// trimEventLines is the number of lines to remove when the buffer is full.
	trimEventLines = 10
)

// channelClosedMsg signals that the event channel was closed.
type channelClosedMsg struct{}

// statusExpiredMsg clears the status line if nothing replaced it.
type statusExpiredMsg struct{ seq int }

// waitForEvent creates a command that waits for the next event from the channel.
// Returns channelClosedMsg if the channel is closed.
func waitForEvent(ch <-chan events.Event) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-ch
		if !ok {
			return channelClosedMsg{}
		}
		return eventMsg(event)
	}
}

// Update implements tea.Model. It handles all message types and updates the model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.prompt != promptNone {
			return m.handlePromptKey(msg)
		}
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.SetWidth(safeWidth(m.width - 4 - len(m.prompt.label())))
		return m, nil

	case eventMsg:
		m.handleEvent(events.Event(msg))
		return m, waitForEvent(m.eventChan)

	case channelClosedMsg:
		m.eventChan = nil
		return m, nil

	case statusExpiredMsg:
		if msg.seq == m.statusSeq {
			m.status = ""
			m.statusErr = false
		}
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input outside the prompt.
func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		if m.onQuit != nil {
			m.onQuit()
		}
		return m, tea.Quit

	case "j", "down":
		return m.stepPreOrder(1)
	case "k", "up":
		return m.stepPreOrder(-1)
	case "l", "right":
		return m.navigate(selection.MoveChild)
	case "h", "left":
		return m.navigate(selection.MoveParent)
	case "s":
		return m.navigate(selection.MoveSibling)
	case "S":
		return m.navigate(selection.MovePrevSibling)
	case "esc":
		return m.navigate(selection.MoveDeselect)

	case "a":
		id, err := m.session.AddChild()
		if err != nil {
			return m.fail(err)
		}
		return m.done(fmt.Sprintf("added node %d", id))

	case "x":
		id := m.snap.ActiveID
		if err := m.session.Delete(); err != nil {
			return m.fail(err)
		}
		return m.done(fmt.Sprintf("deleted node %d", id))

	case "t":
		n, ok := m.snap.Active()
		if !ok {
			return m.fail(errors.New("no node selected"))
		}
		next := n.Type.Next()
		if err := m.session.Update(morph.FieldType, float64(next)); err != nil {
			return m.fail(err)
		}
		return m.done(fmt.Sprintf("node %d is now %s", n.ID, next))

	case "L":
		return m.openPrompt(promptLength)
	case "A":
		return m.openPrompt(promptAngle)
	case "r":
		return m.openPrompt(promptRadius)
	case "R":
		return m.openPrompt(promptRootRadius)
	case "C":
		return m.openPrompt(promptCanvas)
	case "o":
		return m.openPrompt(promptOpen)

	case "v":
		m.density = m.density.Next()
		return m.done("density: " + m.density.String())
	case "c":
		m.showCoords = !m.showCoords
		return m, nil

	case "w":
		return m.export()
	case "n":
		m.session.Reset()
		return m.done("new tree")
	}

	return m, nil
}

// stepPreOrder selects the node delta positions away in display order.
func (m model) stepPreOrder(delta int) (tea.Model, tea.Cmd) {
	if len(m.snap.Nodes) == 0 {
		return m, nil
	}
	i := m.activeIndex()
	switch {
	case i < 0:
		i = 0
	default:
		i = max(0, min(len(m.snap.Nodes)-1, i+delta))
	}
	if err := m.session.Select(m.snap.Nodes[i].ID); err != nil {
		return m.fail(err)
	}
	m.refresh()
	return m, nil
}

func (m model) navigate(move selection.Move) (tea.Model, tea.Cmd) {
	m.session.Navigate(move)
	m.refresh()
	return m, nil
}

// openPrompt shows the input line, prefilled with the current value.
func (m model) openPrompt(kind promptKind) (tea.Model, tea.Cmd) {
	value := ""
	n, ok := m.snap.Active()
	switch kind {
	case promptLength, promptAngle, promptRadius:
		if !ok {
			return m.fail(errors.New("no node selected"))
		}
		switch kind {
		case promptLength:
			value = formatValue(n.Length)
		case promptAngle:
			value = formatValue(n.Angle)
		default:
			value = formatValue(n.Radius)
		}
	case promptRootRadius:
		value = formatValue(m.snap.RootRadius)
	}

	m.prompt = kind
	m.input.Reset()
	m.input.SetValue(value)
	m.input.SetWidth(safeWidth(m.width - 4 - len(kind.label())))
	return m, m.input.Focus()
}

// handlePromptKey routes keys to the input line.
func (m model) handlePromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		if m.onQuit != nil {
			m.onQuit()
		}
		return m, tea.Quit
	case "esc":
		m.closePrompt()
		return m, nil
	case "enter":
		kind := m.prompt
		value := strings.TrimSpace(m.input.Value())
		m.closePrompt()
		return m.submit(kind, value)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *model) closePrompt() {
	m.prompt = promptNone
	m.input.Blur()
	m.input.Reset()
}

// submit applies a prompt value to the session.
func (m model) submit(kind promptKind, value string) (tea.Model, tea.Cmd) {
	switch kind {
	case promptCanvas:
		canvas, err := parseCanvas(value)
		if err != nil {
			return m.fail(err)
		}
		m.session.Resize(canvas.Anchor())
		return m.done(fmt.Sprintf("canvas %gx%g", canvas.Width, canvas.Height))

	case promptOpen:
		return m.open(value)
	}

	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return m.fail(fmt.Errorf("%s: %q is not a number", kind.label(), value))
	}

	switch kind {
	case promptLength:
		err = m.session.Update(morph.FieldLength, v)
	case promptAngle:
		err = m.session.Update(morph.FieldAngle, v)
	case promptRadius:
		err = m.session.Update(morph.FieldRadius, v)
	case promptRootRadius:
		err = m.session.SetRootRadius(v)
	}
	if err != nil {
		return m.fail(err)
	}
	return m.done(fmt.Sprintf("%s set to %s", kind.label(), formatValue(v)))
}

// open imports an SWC file from disk.
func (m model) open(path string) (tea.Model, tea.Cmd) {
	path, err := config.ExpandPath(path)
	if err != nil {
		return m.fail(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return m.fail(err)
	}
	if err := m.session.Import(path, string(data)); err != nil {
		return m.fail(err)
	}
	return m.done(fmt.Sprintf("opened %s", m.session.Name()))
}

// export writes the current tree into the export directory.
func (m model) export() (tea.Model, tea.Cmd) {
	name, text, err := m.session.Export()
	if err != nil {
		return m.fail(err)
	}
	path := filepath.Join(m.exportDir, name)
	if err := os.WriteFile(path, []byte(text+"\n"), 0o644); err != nil {
		return m.fail(err)
	}
	return m.done("wrote " + path)
}

// done refreshes the snapshot and shows msg.
func (m model) done(msg string) (tea.Model, tea.Cmd) {
	m.refresh()
	cmd := m.setStatus(msg, false)
	return m, cmd
}

// fail shows err. The session is unchanged on error.
func (m model) fail(err error) (tea.Model, tea.Cmd) {
	m.refresh()
	cmd := m.setStatus(err.Error(), true)
	return m, cmd
}

func (m *model) setStatus(msg string, isErr bool) tea.Cmd {
	m.statusSeq++
	m.status = events.SafeString(msg)
	m.statusErr = isErr
	if m.statusTimeout <= 0 {
		return nil
	}
	seq := m.statusSeq
	return tea.Tick(m.statusTimeout, func(time.Time) tea.Msg {
		return statusExpiredMsg{seq: seq}
	})
}

func (m *model) refresh() {
	m.snap = m.session.Snapshot()
}

// handleEvent records an event in the log and picks up the new state.
func (m *model) handleEvent(event events.Event) {
	if event == nil {
		return
	}

	style := styles.Event
	if _, ok := event.(*events.ErrorEvent); ok {
		style = styles.Error
	}
	m.eventLines = append(m.eventLines, eventLine{
		Time:  event.Timestamp(),
		Text:  events.Format(event),
		Style: style,
	})
	if limit := max(m.maxEvents, 1) * 20; len(m.eventLines) > limit {
		m.eventLines = m.eventLines[min(trimEventLines, len(m.eventLines)):]
	}

	m.refresh()
}

// parseCanvas reads "WIDTHxHEIGHT".
func parseCanvas(s string) (config.CanvasConfig, error) {
	w, h, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return config.CanvasConfig{}, fmt.Errorf("canvas %q: want WIDTHxHEIGHT", s)
	}
	width, err := strconv.ParseFloat(strings.TrimSpace(w), 64)
	if err != nil {
		return config.CanvasConfig{}, fmt.Errorf("canvas %q: bad width", s)
	}
	height, err := strconv.ParseFloat(strings.TrimSpace(h), 64)
	if err != nil {
		return config.CanvasConfig{}, fmt.Errorf("canvas %q: bad height", s)
	}
	if !(width > 0 && height > 0) || math.IsInf(width+height, 0) {
		return config.CanvasConfig{}, fmt.Errorf("canvas %q: dimensions must be positive", s)
	}
	return config.CanvasConfig{Width: width, Height: height}, nil
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
