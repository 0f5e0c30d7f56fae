package config

import "github.com/TFMV/cigraph/models"

// DefaultPath is where the CLI looks for a config file.
const DefaultPath = "cigraph.yml"

// EnvPrefix prefixes environment overrides. A double underscore separates
// nesting levels, e.g. CIGRAPH_LAYOUT__MAX_ITERATIONS.
const EnvPrefix = "CIGRAPH_"

// Config is the top-level cigraph configuration, corresponding to cigraph.yml.
type Config struct {
	Anchor   string       `yaml:"anchor" koanf:"anchor"`
	LogLevel string       `yaml:"log_level" koanf:"log_level"`
	DataFile string       `yaml:"data_file" koanf:"data_file"`
	Watch    bool         `yaml:"watch" koanf:"watch"`
	Canvas   CanvasConfig `yaml:"canvas" koanf:"canvas"`
	Layout   LayoutConfig `yaml:"layout" koanf:"layout"`
	Server   ServerConfig `yaml:"server" koanf:"server"`
	Theme    ThemeConfig  `yaml:"theme,omitempty" koanf:"theme"`
}

// CanvasConfig sizes the rendering surface.
type CanvasConfig struct {
	Width      float64 `yaml:"width" koanf:"width"`
	Height     float64 `yaml:"height" koanf:"height"`
	Padding    float64 `yaml:"padding" koanf:"padding"`
	Background string  `yaml:"background" koanf:"background"`
}

// LayoutConfig tunes the one-shot force-directed pass.
type LayoutConfig struct {
	MaxIterations   int     `yaml:"max_iterations" koanf:"max_iterations"`
	IdealEdgeLength float64 `yaml:"ideal_edge_length" koanf:"ideal_edge_length"`
	Convergence     float64 `yaml:"convergence" koanf:"convergence"`
	Cooling         float64 `yaml:"cooling" koanf:"cooling"`
	Randomize       bool    `yaml:"randomize" koanf:"randomize"`
	Seed            int64   `yaml:"seed" koanf:"seed"`
}

// ServerConfig holds HTTP settings.
type ServerConfig struct {
	Port            int      `yaml:"port" koanf:"port"`
	AllowAllOrigins bool     `yaml:"allow_all_origins" koanf:"allow_all_origins"`
	AllowedOrigins  []string `yaml:"allowed_origins,omitempty" koanf:"allowed_origins"`
}

// ThemeConfig overrides palette entries. Labels and relationships not listed
// keep their default colors.
type ThemeConfig struct {
	Nodes map[string]models.ColorSet `yaml:"nodes,omitempty" koanf:"nodes"`
	Edges map[string]string          `yaml:"edges,omitempty" koanf:"edges"`
}
