package render

import (
	"bytes"
	"fmt"
	"html"

	svg "github.com/ajstarks/svgo"

	"github.com/TFMV/cigraph/view"
)

// SVGRenderer outputs SVG format
type SVGRenderer struct{}

// Name returns the name of the renderer
func (r *SVGRenderer) Name() string {
	return "SVG Renderer"
}

// Description returns a description of the renderer
func (r *SVGRenderer) Description() string {
	return "Renders the graph as Scalable Vector Graphics with legend and tooltip"
}

func (r *SVGRenderer) ContentType() string { return "image/svg+xml" }

// Render creates an SVG representation of the snapshot
func (r *SVGRenderer) Render(snap *view.Snapshot, options *OutputOptions) ([]byte, error) {
	var buf bytes.Buffer
	width, height := int(snap.Width), int(snap.Height)

	canvas := svg.New(&buf)
	canvas.Start(width, height)
	if options.Title != "" {
		canvas.Title(options.Title)
	}
	bg, bgAlpha := svgPaint(options.Background)
	canvas.Rect(0, 0, width, height, fmt.Sprintf("fill:%s;fill-opacity:%.2f", bg, bgAlpha))

	segs := segments(snap)
	for _, s := range segs {
		line, lineAlpha := svgPaint(s.edge.Style.LineColor)
		stroke := fmt.Sprintf("stroke:%s;stroke-opacity:%.2f;stroke-width:%.1f;fill:none", line, lineAlpha, s.edge.Style.Width)
		attr := fmt.Sprintf(`data-edge="%s"`, html.EscapeString(s.edge.ID))
		if s.loop {
			canvas.Path(fmt.Sprintf("M%.1f,%.1f C%.1f,%.1f %.1f,%.1f %.1f,%.1f",
				s.x1, s.y1, s.mx, s.my-20, s.mx+20, s.my, s.x2, s.y2), attr, stroke)
		} else {
			canvas.Line(int(s.x1), int(s.y1), int(s.x2), int(s.y2), attr, stroke)
		}

		xs, ys := s.arrowHead(arrowSize(s.edge.Style.Width))
		arrow, arrowAlpha := svgPaint(s.edge.Style.ArrowColor)
		canvas.Polygon(
			[]int{int(xs[0]), int(xs[1]), int(xs[2])},
			[]int{int(ys[0]), int(ys[1]), int(ys[2])},
			fmt.Sprintf("fill:%s;fill-opacity:%.2f", arrow, arrowAlpha),
		)
	}

	if options.ShowEdgeLabels {
		for _, s := range segs {
			canvas.Text(int(s.mx), int(s.my), s.edge.Relationship,
				fmt.Sprintf("fill:%s;font-size:%.0fpx;font-family:sans-serif;text-anchor:middle", colorEdgeText, defaultEdgeFont))
		}
	}

	for _, n := range snap.Nodes {
		x, y := int(n.Position.X), int(n.Position.Y)
		radius := int(n.Style.Size / 2)
		fill, _ := svgPaint(n.Style.Colors.Main)
		border, borderAlpha := svgPaint(n.Style.BorderColor)
		canvas.Circle(x, y, radius,
			fmt.Sprintf(`data-node="%s"`, html.EscapeString(n.ID)),
			fmt.Sprintf("fill:%s;fill-opacity:0.9;stroke:%s;stroke-opacity:%.2f;stroke-width:%.1f",
				fill, border, borderAlpha, n.Style.BorderWidth))

		if options.ShowLabels && n.Name != "" {
			weight := "normal"
			if n.Style.Bold {
				weight = "bold"
			}
			canvas.Text(x, y+radius+8+int(n.Style.FontSize), truncate(n.Name, maxLabelRunes),
				fmt.Sprintf("fill:%s;font-size:%.0fpx;font-weight:%s;font-family:sans-serif;text-anchor:middle;paint-order:stroke;stroke:%s;stroke-width:2",
					colorNodeText, n.Style.FontSize, weight, colorBackground))
		}
	}

	if options.ShowLegend {
		drawLegendSVG(canvas, snap)
	}
	if options.ShowTooltip && snap.Tooltip.Visible {
		drawTooltipSVG(canvas, snap)
	}

	canvas.End()
	return buf.Bytes(), nil
}

func drawLegendSVG(canvas *svg.SVG, snap *view.Snapshot) {
	x := int(overlayMargin)
	y := int(snap.Height - overlayMargin)
	for i, entry := range snap.Legend {
		cx := x + i*int(legendRowSpacing)
		fill, _ := svgPaint(entry.Color)
		canvas.Circle(cx+int(legendSwatchSize/2), y-int(legendSwatchSize/2), int(legendSwatchSize/2), "fill:"+fill)
		canvas.Text(cx+int(legendSwatchSize)+6, y-2, entry.Label,
			fmt.Sprintf("fill:%s;font-size:12px;font-family:sans-serif", colorLegendText))
	}
}

func drawTooltipSVG(canvas *svg.SVG, snap *view.Snapshot) {
	tip := snap.Tooltip
	w := int(tooltipMinWidth)
	if n := len([]rune(tip.Name))*8 + 24; n > w {
		w = n
	}
	x := int(snap.Width-overlayMargin) - w
	y := int(overlayMargin)

	panel, panelAlpha := svgPaint(colorPanel)
	border, borderAlpha := svgPaint(colorPanelBorder)
	canvas.Roundrect(x, y, w, int(tooltipHeight), 10, 10,
		fmt.Sprintf("fill:%s;fill-opacity:%.2f;stroke:%s;stroke-opacity:%.2f", panel, panelAlpha, border, borderAlpha))
	name, _ := svgPaint(tip.Color)
	canvas.Text(x+12, y+20, tip.Name,
		fmt.Sprintf("fill:%s;font-size:14px;font-weight:600;font-family:sans-serif", name))
	canvas.Text(x+12, y+36, "Type: "+tip.Type,
		fmt.Sprintf("fill:%s;font-size:12px;font-family:sans-serif", colorLegendText))
}
