package render

import (
	"bytes"
	"fmt"

	"git.sr.ht/~sbinet/gg"
	"golang.org/x/image/font/basicfont"

	"github.com/TFMV/cigraph/view"
)

// nodeAlpha is the fill opacity of node discs, 90% of 255.
const nodeAlpha = 230

// PNGRenderer rasterizes the snapshot
type PNGRenderer struct{}

// Name returns the name of the renderer
func (r *PNGRenderer) Name() string {
	return "PNG Renderer"
}

// Description returns a description of the renderer
func (r *PNGRenderer) Description() string {
	return "Renders the graph as a PNG image"
}

func (r *PNGRenderer) ContentType() string { return "image/png" }

// Render creates a PNG representation of the snapshot
func (r *PNGRenderer) Render(snap *view.Snapshot, options *OutputOptions) ([]byte, error) {
	width, height := int(snap.Width), int(snap.Height)
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid canvas %dx%d", width, height)
	}

	dc := gg.NewContext(width, height)
	dc.SetColor(parseColor(options.Background))
	dc.Clear()
	dc.SetFontFace(basicfont.Face7x13)

	segs := segments(snap)
	for _, s := range segs {
		dc.SetColor(parseColor(s.edge.Style.LineColor))
		dc.SetLineWidth(s.edge.Style.Width)
		if s.loop {
			dc.MoveTo(s.x1, s.y1)
			dc.CubicTo(s.mx, s.my-20, s.mx+20, s.my, s.x2, s.y2)
		} else {
			dc.DrawLine(s.x1, s.y1, s.x2, s.y2)
		}
		dc.Stroke()

		xs, ys := s.arrowHead(arrowSize(s.edge.Style.Width))
		dc.SetColor(parseColor(s.edge.Style.ArrowColor))
		dc.NewSubPath()
		dc.MoveTo(xs[0], ys[0])
		dc.LineTo(xs[1], ys[1])
		dc.LineTo(xs[2], ys[2])
		dc.ClosePath()
		dc.Fill()
	}

	if options.ShowEdgeLabels {
		dc.SetColor(parseColor(colorEdgeText))
		for _, s := range segs {
			dc.DrawStringAnchored(s.edge.Relationship, s.mx, s.my, 0.5, 0.5)
		}
	}

	for _, n := range snap.Nodes {
		radius := n.Style.Size / 2
		fill := parseColor(n.Style.Colors.Main)
		fill.A = nodeAlpha
		dc.DrawCircle(n.Position.X, n.Position.Y, radius)
		dc.SetColor(fill)
		dc.FillPreserve()
		dc.SetColor(parseColor(n.Style.BorderColor))
		dc.SetLineWidth(n.Style.BorderWidth)
		dc.Stroke()

		if options.ShowLabels && n.Name != "" {
			dc.SetColor(parseColor(colorNodeText))
			dc.DrawStringAnchored(truncate(n.Name, maxLabelRunes), n.Position.X, n.Position.Y+radius+8+n.Style.FontSize/2, 0.5, 0.5)
		}
	}

	if options.ShowLegend {
		drawLegendPNG(dc, snap)
	}
	if options.ShowTooltip && snap.Tooltip.Visible {
		drawTooltipPNG(dc, snap)
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func drawLegendPNG(dc *gg.Context, snap *view.Snapshot) {
	y := snap.Height - overlayMargin - legendSwatchSize/2
	for i, entry := range snap.Legend {
		x := overlayMargin + float64(i)*legendRowSpacing
		dc.SetColor(parseColor(entry.Color))
		dc.DrawCircle(x+legendSwatchSize/2, y, legendSwatchSize/2)
		dc.Fill()
		dc.SetColor(parseColor(colorLegendText))
		dc.DrawStringAnchored(entry.Label, x+legendSwatchSize+6, y, 0, 0.5)
	}
}

func drawTooltipPNG(dc *gg.Context, snap *view.Snapshot) {
	tip := snap.Tooltip
	w := tooltipMinWidth
	if tw, _ := dc.MeasureString(tip.Name); tw+24 > w {
		w = tw + 24
	}
	x := snap.Width - overlayMargin - w
	y := overlayMargin

	dc.SetColor(parseColor(colorPanel))
	dc.DrawRoundedRectangle(x, y, w, tooltipHeight, 10)
	dc.FillPreserve()
	dc.SetColor(parseColor(colorPanelBorder))
	dc.SetLineWidth(1)
	dc.Stroke()

	dc.SetColor(parseColor(tip.Color))
	dc.DrawStringAnchored(tip.Name, x+12, y+16, 0, 0.5)
	dc.SetColor(parseColor(colorLegendText))
	dc.DrawStringAnchored("Type: "+tip.Type, x+12, y+32, 0, 0.5)
}
