// Package config provides configuration types and defaults for swcedit.
package config

import (
	"errors"
	"fmt"
	"time"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/npratt/swcedit/internal/morph"
)

// Config holds all configuration for swcedit.
type Config struct {
	Canvas      CanvasConfig      `yaml:"canvas" mapstructure:"canvas"`
	Defaults    DefaultsConfig    `yaml:"defaults" mapstructure:"defaults"`
	Export      ExportConfig      `yaml:"export" mapstructure:"export"`
	Paths       PathsConfig       `yaml:"paths" mapstructure:"paths"`
	LogRotation LogRotationConfig `yaml:"log_rotation" mapstructure:"log_rotation"`
	TUI         TUIConfig         `yaml:"tui" mapstructure:"tui"`
}

// CanvasConfig describes the drawing surface. The root is anchored at its
// center.
type CanvasConfig struct {
	Width  float64 `yaml:"width" mapstructure:"width"`
	Height float64 `yaml:"height" mapstructure:"height"`
}

// Anchor returns the center of the canvas.
func (c CanvasConfig) Anchor() r2.Vec {
	return r2.Vec{X: c.Width / 2, Y: c.Height / 2}
}

// DefaultsConfig holds the values given to new nodes.
type DefaultsConfig struct {
	Length     float64 `yaml:"length" mapstructure:"length"`
	Radius     float64 `yaml:"radius" mapstructure:"radius"`
	Angle      float64 `yaml:"angle" mapstructure:"angle"` // half turns relative to the parent
	Type       int     `yaml:"type" mapstructure:"type"`
	RootRadius float64 `yaml:"root_radius" mapstructure:"root_radius"` // soma radius of a fresh tree
}

// Segment returns the defaults as the initial values of a new node.
func (d DefaultsConfig) Segment() morph.Segment {
	return morph.Segment{
		Length: d.Length,
		Radius: d.Radius,
		Angle:  d.Angle,
		Type:   morph.NodeType(d.Type),
	}
}

// ExportConfig holds SWC export settings.
type ExportConfig struct {
	ResetName string `yaml:"reset_name" mapstructure:"reset_name"` // file name used until something is imported
}

// PathsConfig holds file locations.
type PathsConfig struct {
	Log    string `yaml:"log" mapstructure:"log"`       // directory for swcedit-debug.log
	Events string `yaml:"events" mapstructure:"events"` // JSON lines event log
}

// LogRotationConfig holds lumberjack rotation settings shared by the debug
// log and the event log.
type LogRotationConfig struct {
	MaxSizeMB  int  `yaml:"max_size_mb" mapstructure:"max_size_mb"`
	MaxBackups int  `yaml:"max_backups" mapstructure:"max_backups"`
	MaxAgeDays int  `yaml:"max_age_days" mapstructure:"max_age_days"`
	Compress   bool `yaml:"compress" mapstructure:"compress"`
}

// TUIConfig holds settings for the terminal editor.
type TUIConfig struct {
	Density         string        `yaml:"density" mapstructure:"density"`                   // "compact", "standard" or "detailed"
	ShowCoordinates bool          `yaml:"show_coordinates" mapstructure:"show_coordinates"` // print endpoints in the tree pane
	EventLines      int           `yaml:"event_lines" mapstructure:"event_lines"`           // activity log height (0 hides it)
	StatusTimeout   time.Duration `yaml:"status_timeout" mapstructure:"status_timeout"`     // how long status messages stay up
}

// Default returns a Config with the values of the original web editor.
func Default() *Config {
	seg := morph.DefaultSegment()
	return &Config{
		Canvas: CanvasConfig{
			Width:  800,
			Height: 600,
		},
		Defaults: DefaultsConfig{
			Length:     seg.Length,
			Radius:     seg.Radius,
			Angle:      seg.Angle,
			Type:       int(seg.Type),
			RootRadius: morph.DefaultRootRadius,
		},
		Export: ExportConfig{
			ResetName: "swcTree.swc",
		},
		Paths: PathsConfig{
			Log:    ".swcedit",
			Events: ".swcedit/events.jsonl",
		},
		LogRotation: LogRotationConfig{
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 7,
			Compress:   true,
		},
		TUI: TUIConfig{
			Density:         "standard",
			ShowCoordinates: true,
			EventLines:      5,
			StatusTimeout:   3 * time.Second,
		},
	}
}

// Validate reports every out-of-range setting.
func (c *Config) Validate() error {
	var errs []error
	if c.Canvas.Width <= 0 || c.Canvas.Height <= 0 {
		errs = append(errs, fmt.Errorf("canvas: size must be positive, got %gx%g", c.Canvas.Width, c.Canvas.Height))
	}
	if err := c.Defaults.Segment().Validate(); err != nil {
		errs = append(errs, fmt.Errorf("defaults: %w", err))
	}
	if c.Defaults.RootRadius < 0 {
		errs = append(errs, fmt.Errorf("defaults: root_radius must not be negative, got %g", c.Defaults.RootRadius))
	}
	if c.Export.ResetName == "" {
		errs = append(errs, errors.New("export: reset_name must not be empty"))
	}
	switch c.TUI.Density {
	case "compact", "standard", "detailed":
	default:
		errs = append(errs, fmt.Errorf("tui: unknown density %q", c.TUI.Density))
	}
	if c.TUI.EventLines < 0 {
		errs = append(errs, fmt.Errorf("tui: event_lines must not be negative, got %d", c.TUI.EventLines))
	}
	return errors.Join(errs...)
}
