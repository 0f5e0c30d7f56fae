package render

import (
	"bytes"
	"fmt"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/TFMV/cigraph/models"
	"github.com/TFMV/cigraph/overlay"
	"github.com/TFMV/cigraph/view"
)

// cyElement is one Cytoscape element: data plus a preset position and an
// inline style.
type cyElement struct {
	Group    string         `json:"group"`
	Data     map[string]any `json:"data"`
	Position *cyPosition    `json:"position,omitempty"`
	Style    map[string]any `json:"style"`
	Locked   bool           `json:"locked,omitempty"`
	Grab     bool           `json:"grabbable"`
}

type cyPosition struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type cyDocument struct {
	ViewID   string                `json:"viewId"`
	Revision int                   `json:"revision"`
	State    string                `json:"state"`
	Width    float64               `json:"width"`
	Height   float64               `json:"height"`
	Elements []cyElement           `json:"elements"`
	Legend   []overlay.LegendEntry `json:"legend"`
	Tooltip  overlay.Tooltip       `json:"tooltip"`
}

func cytoscapeDocument(snap *view.Snapshot) cyDocument {
	doc := cyDocument{
		ViewID:   snap.ViewID,
		Revision: snap.Revision,
		State:    snap.State,
		Width:    snap.Width,
		Height:   snap.Height,
		Elements: make([]cyElement, 0, len(snap.Nodes)+len(snap.Edges)),
		Legend:   snap.Legend,
		Tooltip:  snap.Tooltip,
	}
	for _, n := range snap.Nodes {
		style := map[string]any{
			"background-color": n.Style.Colors.Main,
			"border-color":     n.Style.BorderColor,
			"border-width":     n.Style.BorderWidth,
			"width":            n.Style.Size,
			"height":           n.Style.Size,
			"font-size":        n.Style.FontSize,
		}
		if n.Style.Bold {
			style["font-weight"] = "bold"
		}
		doc.Elements = append(doc.Elements, cyElement{
			Group:    "nodes",
			Data:     map[string]any{"id": n.ID, "name": n.Name, "label": n.Label, "index": n.Index},
			Position: &cyPosition{X: n.Position.X, Y: n.Position.Y},
			Style:    style,
			Locked:   n.Locked,
		})
	}
	for _, e := range snap.DrawableEdges() {
		doc.Elements = append(doc.Elements, cyElement{
			Group: "edges",
			Data: map[string]any{
				"id":           e.ID,
				"source":       e.Source,
				"target":       e.Target,
				"relationship": e.Relationship,
			},
			Style: map[string]any{
				"line-color":         e.Style.LineColor,
				"target-arrow-color": e.Style.ArrowColor,
				"width":              e.Style.Width,
			},
		})
	}
	return doc
}

// JSONRenderer outputs Cytoscape-compatible JSON
type JSONRenderer struct{}

// Name returns the name of the renderer
func (r *JSONRenderer) Name() string {
	return "JSON Renderer"
}

// Description returns a description of the renderer
func (r *JSONRenderer) Description() string {
	return "Renders the graph as Cytoscape elements with styles and preset positions"
}

func (r *JSONRenderer) ContentType() string { return "application/json" }

// Render creates a JSON representation of the snapshot
func (r *JSONRenderer) Render(snap *view.Snapshot, options *OutputOptions) ([]byte, error) {
	return json.MarshalIndent(cytoscapeDocument(snap), "", "  ")
}

// DOTRenderer outputs Graphviz DOT format
type DOTRenderer struct{}

// Name returns the name of the renderer
func (r *DOTRenderer) Name() string {
	return "DOT Renderer"
}

// Description returns a description of the renderer
func (r *DOTRenderer) Description() string {
	return "Renders the graph in Graphviz DOT format with pinned positions (use neato -n)"
}

func (r *DOTRenderer) ContentType() string { return "text/vnd.graphviz" }

// Render creates a DOT representation of the snapshot. Positions are in
// points with y flipped, as Graphviz puts the origin bottom left.
func (r *DOTRenderer) Render(snap *view.Snapshot, options *OutputOptions) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("digraph G {\n")
	fmt.Fprintf(&buf, "  graph [bgcolor=%s, size=\"%.2f,%.2f\"];\n",
		dotQuote(hexColor(options.Background)), snap.Width/72.0, snap.Height/72.0)
	buf.WriteString("  node [shape=circle, style=filled, fixedsize=true, fontname=\"Arial\"];\n")
	fmt.Fprintf(&buf, "  edge [fontname=\"Arial\", fontsize=%.0f];\n", defaultEdgeFont)

	for _, n := range snap.Nodes {
		attrs := []string{
			"label=" + dotQuote(n.Name),
			"fillcolor=" + dotQuote(hexColor(n.Style.Colors.Main)),
			"color=" + dotQuote(hexColor(n.Style.BorderColor)),
			fmt.Sprintf("penwidth=%.1f", n.Style.BorderWidth),
			fmt.Sprintf("width=%.2f", n.Style.Size/72.0),
			fmt.Sprintf("fontsize=%.0f", n.Style.FontSize),
			fmt.Sprintf("pos=\"%.1f,%.1f!\"", n.Position.X, snap.Height-n.Position.Y),
		}
		fmt.Fprintf(&buf, "  %s [%s];\n", dotQuote(n.ID), strings.Join(attrs, ", "))
	}

	for _, e := range snap.DrawableEdges() {
		attrs := []string{
			"id=" + dotQuote(e.ID),
			"color=" + dotQuote(hexColor(e.Style.LineColor)),
			fmt.Sprintf("penwidth=%.1f", e.Style.Width),
		}
		if options.ShowEdgeLabels && e.Relationship != "" {
			attrs = append(attrs, "label="+dotQuote(e.Relationship))
		}
		fmt.Fprintf(&buf, "  %s -> %s [%s];\n", dotQuote(e.Source), dotQuote(e.Target), strings.Join(attrs, ", "))
	}

	buf.WriteString("}\n")
	return buf.Bytes(), nil
}

func dotQuote(s string) string {
	return `"` + strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`).Replace(s) + `"`
}

// ASCIIRenderer outputs ASCII art format
type ASCIIRenderer struct{}

// Name returns the name of the renderer
func (r *ASCIIRenderer) Name() string {
	return "ASCII Renderer"
}

// Description returns a description of the renderer
func (r *ASCIIRenderer) Description() string {
	return "Renders the graph as ASCII art for terminal previews"
}

func (r *ASCIIRenderer) ContentType() string { return "text/plain; charset=utf-8" }

// labelSymbols gives every taxonomy label its own glyph
var labelSymbols = map[string]rune{
	models.LabelCompany:    'C',
	models.LabelProduct:    'P',
	models.LabelPartner:    'A',
	models.LabelRegion:     'R',
	models.LabelInvestment: '$',
}

// Render creates an ASCII representation of the snapshot
func (r *ASCIIRenderer) Render(snap *view.Snapshot, options *OutputOptions) ([]byte, error) {
	width := max(int(snap.Width/10), 40)
	height := max(int(snap.Height/20), 20)

	grid := make([][]rune, height)
	for i := range grid {
		grid[i] = make([]rune, width)
		for j := range grid[i] {
			grid[i][j] = ' '
		}
	}

	for i := 0; i < width; i++ {
		grid[0][i] = '-'
		grid[height-1][i] = '-'
	}
	for i := 0; i < height; i++ {
		grid[i][0] = '|'
		grid[i][width-1] = '|'
	}
	grid[0][0] = '+'
	grid[0][width-1] = '+'
	grid[height-1][0] = '+'
	grid[height-1][width-1] = '+'

	toGrid := func(x, y float64) (int, int) {
		gx := int(x*float64(width-2)/snap.Width) + 1
		gy := int(y*float64(height-2)/snap.Height) + 1
		return clamp(gx, 1, width-2), clamp(gy, 1, height-2)
	}

	positions := snap.Positions()
	for _, e := range snap.DrawableEdges() {
		if e.Source == e.Target {
			continue
		}
		x1, y1 := toGrid(positions[e.Source].X, positions[e.Source].Y)
		x2, y2 := toGrid(positions[e.Target].X, positions[e.Target].Y)
		drawLine(grid, x1, y1, x2, y2)
	}

	focused := snap.Tooltip.NodeID
	for _, n := range snap.Nodes {
		x, y := toGrid(n.Position.X, n.Position.Y)
		symbol, ok := labelSymbols[n.Label]
		if !ok {
			symbol = 'o'
		}
		if n.Style.Anchor {
			symbol = '@'
		}
		if snap.Tooltip.Visible && n.ID == focused {
			symbol = '*'
		}
		grid[y][x] = symbol

		if options.ShowLabels && n.Name != "" && y+1 < height-1 {
			label := []rune(truncate(n.Name, maxASCIILabelRune))
			for i := 0; i < len(label) && x+i < width-1; i++ {
				grid[y+1][x+i] = label[i]
			}
		}
	}

	title := []rune(options.Title)
	if len(title) > 0 && len(title) < width-4 && height > 3 {
		for i, c := range title {
			grid[1][i+2] = c
		}
	}

	var result strings.Builder
	for _, row := range grid {
		result.WriteString(string(row))
		result.WriteRune('\n')
	}
	if options.ShowLegend {
		for _, entry := range snap.Legend {
			fmt.Fprintf(&result, "%c %s  ", labelSymbols[entry.Label], entry.Label)
		}
		result.WriteString("@ anchor\n")
	}
	if options.ShowTooltip && snap.Tooltip.Visible {
		fmt.Fprintf(&result, "> %s (Type: %s)\n", snap.Tooltip.Name, snap.Tooltip.Type)
	}
	return []byte(result.String()), nil
}

// drawLine plots an edge on the grid with Bresenham's algorithm, leaving
// node glyphs in place.
func drawLine(grid [][]rune, x1, y1, x2, y2 int) {
	dx := abs(x2 - x1)
	dy := -abs(y2 - y1)
	sx := 1
	if x1 >= x2 {
		sx = -1
	}
	sy := 1
	if y1 >= y2 {
		sy = -1
	}
	err := dx + dy

	for {
		if y1 >= 0 && y1 < len(grid) && x1 >= 0 && x1 < len(grid[y1]) && grid[y1][x1] == ' ' {
			grid[y1][x1] = '.'
		}
		if x1 == x2 && y1 == y2 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x1 += sx
		}
		if e2 <= dx {
			err += dx
			y1 += sy
		}
	}
}
