package render

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/TFMV/cigraph/models"
	"github.com/TFMV/cigraph/view"
)

// ErrUnknownFormat is returned by GetRenderer for formats with no renderer.
var ErrUnknownFormat = errors.New("unsupported output format")

// Canvas colors of the dashboard surface
const (
	colorBackground   = "#0a0a14"
	colorNodeText     = "#cbd5e1"
	colorEdgeText     = "#64748b"
	colorLegendText   = "#94a3b8"
	colorPanel        = "rgba(10, 10, 20, 0.85)"
	colorPanelBorder  = "rgba(124, 58, 237, 0.3)"
	defaultEdgeFont   = 8.0
	defaultArrowSize  = 8.0
	legendSwatchSize  = 12.0
	legendRowSpacing  = 92.0
	tooltipMinWidth   = 160.0
	tooltipHeight     = 46.0
	overlayMargin     = 16.0
	maxLabelRunes     = 28
	maxASCIILabelRune = 18
)

// OutputOptions defines rendering configuration options
type OutputOptions struct {
	Format         string // Output format (svg, png, echarts, html, json, dot, ascii)
	Title          string
	Background     string
	ShowLabels     bool // Show node names
	ShowEdgeLabels bool // Show relationship names
	ShowLegend     bool
	ShowTooltip    bool
	WebSocketURL   string // HTML mode: where the page sends pointer events; empty disables the bridge
	EventsURL      string // HTML mode: REST fallback for pointer events
}

// Renderer interface defines methods that all rendering backends must implement
type Renderer interface {
	// Render draws the snapshot using the provided options
	Render(snap *view.Snapshot, options *OutputOptions) ([]byte, error)

	// Name returns the name of the renderer
	Name() string

	// Description returns a description of the renderer
	Description() string

	// ContentType is the MIME type of the rendered bytes
	ContentType() string
}

// NewDefaultOptions creates a default set of output options
func NewDefaultOptions(format string) *OutputOptions {
	return &OutputOptions{
		Format:         format,
		Title:          "Competitive Intelligence Graph",
		Background:     colorBackground,
		ShowLabels:     true,
		ShowEdgeLabels: true,
		ShowLegend:     true,
		ShowTooltip:    true,
	}
}

var renderers = map[string]func() Renderer{
	"svg":     func() Renderer { return &SVGRenderer{} },
	"png":     func() Renderer { return &PNGRenderer{} },
	"echarts": func() Renderer { return &EChartsRenderer{} },
	"html":    func() Renderer { return &HTMLRenderer{} },
	"json":    func() Renderer { return &JSONRenderer{} },
	"dot":     func() Renderer { return &DOTRenderer{} },
	"ascii":   func() Renderer { return &ASCIIRenderer{} },
}

// GetRenderer returns the appropriate renderer based on format
func GetRenderer(format string) (Renderer, error) {
	mk, ok := renderers[strings.ToLower(strings.TrimSpace(format))]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
	return mk(), nil
}

// Formats lists the supported output formats in sorted order.
func Formats() []string {
	out := make([]string, 0, len(renderers))
	for f := range renderers {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// Generate renders the snapshot in the given format with default options.
func Generate(snap *view.Snapshot, format string) ([]byte, error) {
	return GenerateWithOptions(snap, NewDefaultOptions(format))
}

// GenerateWithOptions renders the snapshot with specific output options.
func GenerateWithOptions(snap *view.Snapshot, options *OutputOptions) ([]byte, error) {
	if snap == nil {
		return nil, errors.New("render: nil snapshot")
	}
	renderer, err := GetRenderer(options.Format)
	if err != nil {
		return nil, err
	}
	out, err := renderer.Render(snap, options)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", renderer.Name(), err)
	}
	return out, nil
}

// segment is a drawable edge resolved to coordinates, trimmed so that it
// starts and ends on the node borders.
type segment struct {
	edge   models.RenderEdge
	x1, y1 float64
	x2, y2 float64
	mx, my float64
	angle  float64
	loop   bool
}

func segments(snap *view.Snapshot) []segment {
	nodes := make(map[string]models.RenderNode, len(snap.Nodes))
	for _, n := range snap.Nodes {
		nodes[n.ID] = n
	}
	edges := snap.DrawableEdges()
	out := make([]segment, 0, len(edges))
	for _, e := range edges {
		src, dst := nodes[e.Source], nodes[e.Target]
		s := segment{edge: e}
		if e.Source == e.Target {
			r := src.Style.Size / 2
			s.loop = true
			s.x1, s.y1 = src.Position.X, src.Position.Y-r
			s.x2, s.y2 = src.Position.X+r, src.Position.Y
			s.mx, s.my = src.Position.X+r, src.Position.Y-r
			out = append(out, s)
			continue
		}
		dx := dst.Position.X - src.Position.X
		dy := dst.Position.Y - src.Position.Y
		d := math.Hypot(dx, dy)
		if d == 0 {
			d = 1
		}
		ux, uy := dx/d, dy/d
		rs, rt := src.Style.Size/2, dst.Style.Size/2
		s.x1, s.y1 = src.Position.X+ux*rs, src.Position.Y+uy*rs
		s.x2, s.y2 = dst.Position.X-ux*rt, dst.Position.Y-uy*rt
		s.mx, s.my = (src.Position.X+dst.Position.X)/2, (src.Position.Y+dst.Position.Y)/2
		s.angle = math.Atan2(dy, dx)
		out = append(out, s)
	}
	return out
}

// arrowHead returns the triangle at the end of the segment.
func (s segment) arrowHead(size float64) (xs, ys [3]float64) {
	a := s.angle
	if s.loop {
		a = math.Pi / 2
	}
	xs[0], ys[0] = s.x2, s.y2
	xs[1] = s.x2 - size*math.Cos(a-math.Pi/7)
	ys[1] = s.y2 - size*math.Sin(a-math.Pi/7)
	xs[2] = s.x2 - size*math.Cos(a+math.Pi/7)
	ys[2] = s.y2 - size*math.Sin(a+math.Pi/7)
	return xs, ys
}

func arrowSize(width float64) float64 {
	return defaultArrowSize + width
}

func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}

// Clamp a value between lo and hi
func clamp(val, lo, hi int) int {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
