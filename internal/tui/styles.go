package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/npratt/swcedit/internal/morph"
)

// styles contains all lipgloss styles used by the TUI.
var styles = struct {
	// Layout styles
	Container lipgloss.Style
	Divider   lipgloss.Style

	// Header styles
	Title lipgloss.Style
	Stat  lipgloss.Style

	// Tree styles
	Node         lipgloss.Style
	NodeSelected lipgloss.Style
	Guide        lipgloss.Style
	Coords       lipgloss.Style

	// Bottom area
	Event  lipgloss.Style
	Error  lipgloss.Style
	Status lipgloss.Style
	Prompt lipgloss.Style
	Footer lipgloss.Style
}{
	Container: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")),

	Divider: lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")),

	Title: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("212")),

	Stat: lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")),

	Node: lipgloss.NewStyle().
		Foreground(lipgloss.Color("252")),

	NodeSelected: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("39")).
		Background(lipgloss.Color("236")),

	Guide: lipgloss.NewStyle().
		Foreground(lipgloss.Color("238")),

	Coords: lipgloss.NewStyle().
		Foreground(lipgloss.Color("243")),

	Event: lipgloss.NewStyle().
		Foreground(lipgloss.Color("250")),

	Error: lipgloss.NewStyle().
		Foreground(lipgloss.Color("196")),

	Status: lipgloss.NewStyle().
		Foreground(lipgloss.Color("114")),

	Prompt: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("220")),

	Footer: lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")),
}

// typeStyle colors a type label with the node type's display color.
func typeStyle(t morph.NodeType) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(t.Color()))
}
