package render

import (
	"bytes"
	"fmt"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/TFMV/cigraph/models"
	"github.com/TFMV/cigraph/view"
)

// EChartsRenderer outputs a go-echarts HTML page
type EChartsRenderer struct{}

// Name returns the name of the renderer
func (r *EChartsRenderer) Name() string {
	return "ECharts Renderer"
}

// Description returns a description of the renderer
func (r *EChartsRenderer) Description() string {
	return "Renders the graph as an ECharts page with fixed positions and a category legend"
}

func (r *EChartsRenderer) ContentType() string { return "text/html; charset=utf-8" }

// Render creates an ECharts page. Positions come from the frozen layout, so
// the chart runs with layout "none" and dragging disabled.
func (r *EChartsRenderer) Render(snap *view.Snapshot, options *OutputOptions) ([]byte, error) {
	categories, categoryOf := echartsCategories(snap)
	nodes := make([]opts.GraphNode, 0, len(snap.Nodes))
	for _, n := range snap.Nodes {
		nodes = append(nodes, opts.GraphNode{
			Name:       n.ID,
			X:          float32(n.Position.X),
			Y:          float32(n.Position.Y),
			Category:   categoryOf[n.Label],
			SymbolSize: n.Style.Size,
			ItemStyle: &opts.ItemStyle{
				Color:       hexColor(n.Style.Colors.Main),
				BorderColor: hexColor(n.Style.BorderColor),
			},
		})
	}

	edges := snap.DrawableEdges()
	links := make([]opts.GraphLink, 0, len(edges))
	for _, e := range edges {
		links = append(links, opts.GraphLink{
			Source: e.Source,
			Target: e.Target,
			LineStyle: &opts.LineStyle{
				Color: hexColor(e.Style.LineColor),
				Width: float32(e.Style.Width),
			},
		})
	}

	graph := charts.NewGraph()
	graph.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle:       options.Title,
			Width:           fmt.Sprintf("%.0fpx", snap.Width),
			Height:          fmt.Sprintf("%.0fpx", snap.Height),
			BackgroundColor: hexColor(options.Background),
		}),
		charts.WithTitleOpts(opts.Title{
			Title: options.Title,
		}),
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(options.ShowLegend),
			Left: "left",
			Top:  "bottom",
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show: opts.Bool(options.ShowTooltip),
		}),
	)
	graph.AddSeries(
		"graph",
		nodes,
		links,
		charts.WithGraphChartOpts(
			opts.GraphChart{
				Layout:     "none",
				Draggable:  opts.Bool(false),
				Roam:       opts.Bool(true),
				EdgeSymbol: []string{"none", "arrow"},
				Categories: categories,
			},
		),
		charts.WithLabelOpts(opts.Label{
			Show:     opts.Bool(options.ShowLabels),
			Color:    colorNodeText,
			Position: "bottom",
		}),
	)

	page := components.NewPage()
	page.PageTitle = options.Title
	page.AddCharts(graph)

	var buf bytes.Buffer
	if err := page.Render(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// echartsCategories maps the taxonomy to chart categories; labels outside it
// share a trailing "Other" category.
func echartsCategories(snap *view.Snapshot) ([]*opts.GraphCategory, map[string]int) {
	categories := make([]*opts.GraphCategory, 0, len(models.Labels)+1)
	index := make(map[string]int, len(models.Labels)+1)
	for _, label := range models.Labels {
		index[label] = len(categories)
		categories = append(categories, &opts.GraphCategory{Name: label})
	}
	other := -1
	for _, n := range snap.Nodes {
		if _, ok := index[n.Label]; ok {
			continue
		}
		if other < 0 {
			other = len(categories)
			categories = append(categories, &opts.GraphCategory{Name: "Other"})
		}
		index[n.Label] = other
	}
	return categories, index
}
