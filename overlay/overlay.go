// Package overlay derives the legend and the hover tooltip shown on top of
// the graph. Both are pure functions of the theme and the interaction state.
package overlay

import (
	"github.com/TFMV/cigraph/graph"
	"github.com/TFMV/cigraph/interact"
	"github.com/TFMV/cigraph/models"
	"github.com/TFMV/cigraph/style"
)

// LegendEntry is one label -> color row of the legend
type LegendEntry struct {
	Label string `json:"label"`
	Color string `json:"color"`
}

// Tooltip is the floating card shown while a node is focused
type Tooltip struct {
	Visible bool   `json:"visible"`
	NodeID  string `json:"id,omitempty"`
	Name    string `json:"name,omitempty"`
	Type    string `json:"type,omitempty"`
	Color   string `json:"color,omitempty"`
}

// Overlay bundles everything drawn above the graph
type Overlay struct {
	Legend  []LegendEntry `json:"legend"`
	Tooltip Tooltip       `json:"tooltip"`
}

// Legend lists the fixed taxonomy in order. It does not depend on data.
func Legend(theme style.Theme) []LegendEntry {
	out := make([]LegendEntry, 0, len(models.Labels))
	for _, label := range models.Labels {
		cs, _ := theme.Palette(label)
		out = append(out, LegendEntry{Label: label, Color: cs.Main})
	}
	return out
}

// TooltipFor returns a visible tooltip if and only if the state is focused on
// a node present in el.
func TooltipFor(s interact.State, el *graph.Elements, theme style.Theme) Tooltip {
	id, ok := s.FocusedID()
	if !ok || el == nil {
		return Tooltip{}
	}
	n, ok := el.Node(id)
	if !ok {
		return Tooltip{}
	}

	color := theme.Emphasis.TooltipColor
	if cs, known := theme.Palette(n.Label); known {
		color = cs.Main
	}
	return Tooltip{
		Visible: true,
		NodeID:  n.ID,
		Name:    n.Name,
		Type:    n.Label,
		Color:   color,
	}
}

// Build derives the whole overlay
func Build(s interact.State, el *graph.Elements, theme style.Theme) Overlay {
	return Overlay{
		Legend:  Legend(theme),
		Tooltip: TooltipFor(s, el, theme),
	}
}
