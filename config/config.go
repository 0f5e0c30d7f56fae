// Package config loads cigraph settings from defaults, an optional YAML file
// and CIGRAPH_* environment variables, in that order.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"

	"github.com/TFMV/cigraph/logging"
	"github.com/TFMV/cigraph/physics"
	"github.com/TFMV/cigraph/style"
	"github.com/TFMV/cigraph/view"
)

// DefaultConfig returns the dashboard settings.
func DefaultConfig() *Config {
	layout := physics.DefaultConfig()
	return &Config{
		Anchor:   style.DefaultAnchor,
		LogLevel: "info",
		Canvas: CanvasConfig{
			Width:      layout.Width,
			Height:     layout.Height,
			Padding:    layout.Padding,
			Background: "#0a0a14",
		},
		Layout: LayoutConfig{
			MaxIterations:   layout.MaxIterations,
			IdealEdgeLength: layout.IdealEdgeLength,
			Convergence:     layout.Convergence,
			Cooling:         layout.Cooling,
			Seed:            layout.Seed,
		},
		Server: ServerConfig{
			Port:            8080,
			AllowAllOrigins: true,
		},
	}
}

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (CIGRAPH_*). A missing file is not an error.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	cfg := DefaultConfig()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("accessing config %s: %w", path, err)
		}
	}

	// CIGRAPH_LAYOUT__MAX_ITERATIONS -> layout.max_iterations. Keys are
	// lowercased, so theme labels are matched case-insensitively in BuildTheme.
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		return strings.ReplaceAll(key, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log_level %q: must be one of debug, info, warn, error", c.LogLevel)
	}
	if c.Canvas.Width <= 0 || c.Canvas.Height <= 0 {
		return fmt.Errorf("canvas width and height must be positive")
	}
	if c.Canvas.Padding < 0 || 2*c.Canvas.Padding >= c.Canvas.Width || 2*c.Canvas.Padding >= c.Canvas.Height {
		return fmt.Errorf("canvas padding %.0f does not fit a %.0fx%.0f canvas", c.Canvas.Padding, c.Canvas.Width, c.Canvas.Height)
	}
	if c.Layout.MaxIterations <= 0 {
		return fmt.Errorf("layout.max_iterations must be positive")
	}
	if c.Layout.IdealEdgeLength <= 0 {
		return fmt.Errorf("layout.ideal_edge_length must be positive")
	}
	if c.Layout.Convergence <= 0 {
		return fmt.Errorf("layout.convergence must be positive")
	}
	if c.Layout.Cooling <= 0 || c.Layout.Cooling >= 1 {
		return fmt.Errorf("layout.cooling must be in (0, 1)")
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d", c.Server.Port)
	}
	return nil
}

// PhysicsConfig converts the canvas and layout sections for the layout pass.
func (c *Config) PhysicsConfig() physics.Config {
	return physics.Config{
		Width:           c.Canvas.Width,
		Height:          c.Canvas.Height,
		Padding:         c.Canvas.Padding,
		MaxIterations:   c.Layout.MaxIterations,
		IdealEdgeLength: c.Layout.IdealEdgeLength,
		Convergence:     c.Layout.Convergence,
		Cooling:         c.Layout.Cooling,
		Randomize:       c.Layout.Randomize,
		Seed:            c.Layout.Seed,
	}
}

// BuildTheme applies the theme overrides to the default theme.
func (c *Config) BuildTheme() style.Theme {
	return style.DefaultTheme().WithOverrides(c.Theme.Nodes, c.Theme.Edges)
}

// ViewOptions assembles everything needed to mount a view.
func (c *Config) ViewOptions(logger *slog.Logger, onSelect view.SelectFunc) view.Options {
	return view.Options{
		Anchor:   c.Anchor,
		Theme:    c.BuildTheme(),
		Layout:   c.PhysicsConfig(),
		OnSelect: onSelect,
		Logger:   logger,
	}
}
