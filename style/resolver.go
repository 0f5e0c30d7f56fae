package style

import (
	"github.com/TFMV/cigraph/models"
)

// Resolver annotates render records with their resting style.
type Resolver struct {
	theme  Theme
	anchor string
}

// NewResolver builds a resolver over a private copy of theme. An empty anchor
// disables the anchor override.
func NewResolver(theme Theme, anchor string) *Resolver {
	return &Resolver{theme: theme.Clone(), anchor: anchor}
}

// Theme returns a copy of the resolver's theme.
func (r *Resolver) Theme() Theme {
	return r.theme.Clone()
}

// Anchor returns the configured anchor identity.
func (r *Resolver) Anchor() string {
	return r.anchor
}

// IsAnchor reports whether a node name is the anchor entity.
func (r *Resolver) IsAnchor(name string) bool {
	return r.anchor != "" && name == r.anchor
}

// Colors returns the label palette, falling back to the default label.
func (r *Resolver) Colors(label string) models.ColorSet {
	if cs, ok := r.theme.Nodes[label]; ok {
		return cs
	}
	return r.theme.Nodes[r.theme.FallbackLabel]
}

// Node returns the resting style of a node. The anchor override wins over the
// label palette for every label, known or not.
func (r *Resolver) Node(name, label string) models.NodeStyle {
	if r.IsAnchor(name) {
		return models.NodeStyle{
			Colors:      r.theme.Anchor,
			Size:        r.theme.AnchorSize,
			BorderColor: r.theme.Anchor.Border,
			BorderWidth: r.theme.AnchorBorderWidth,
			FontSize:    r.theme.AnchorFontSize,
			Bold:        true,
			Anchor:      true,
		}
	}
	cs := r.Colors(label)
	return models.NodeStyle{
		Colors:      cs,
		Size:        r.theme.NodeSize,
		BorderColor: cs.Border,
		BorderWidth: r.theme.BorderWidth,
		FontSize:    r.theme.FontSize,
	}
}

// Edge returns the resting style of an edge. Unknown relationships get the
// translucent fallback line with a more opaque arrowhead.
func (r *Resolver) Edge(relationship string) models.EdgeStyle {
	if c, ok := r.theme.Edges[relationship]; ok {
		return models.EdgeStyle{LineColor: c, ArrowColor: c, Width: r.theme.EdgeWidth}
	}
	return models.EdgeStyle{
		LineColor:  r.theme.FallbackLine,
		ArrowColor: r.theme.FallbackArrow,
		Width:      r.theme.EdgeWidth,
	}
}

// EmphasizedNode returns the focused style derived from a resting style.
func (r *Resolver) EmphasizedNode(rest models.NodeStyle) models.NodeStyle {
	out := rest
	out.Size = rest.Size + r.theme.Emphasis.NodeGrowth
	out.BorderWidth = r.theme.Emphasis.BorderWidth
	out.BorderColor = r.theme.Emphasis.BorderColor
	return out
}

// EmphasizedEdge returns the style of an edge incident to the focused node.
func (r *Resolver) EmphasizedEdge() models.EdgeStyle {
	return models.EdgeStyle{
		LineColor:  r.theme.Emphasis.EdgeColor,
		ArrowColor: r.theme.Emphasis.EdgeColor,
		Width:      r.theme.Emphasis.EdgeWidth,
	}
}

// Annotate writes resting styles onto every node and edge in place.
func (r *Resolver) Annotate(nodes []models.RenderNode, edges []models.RenderEdge) {
	for i := range nodes {
		nodes[i].Style = r.Node(nodes[i].Name, nodes[i].Label)
	}
	for i := range edges {
		edges[i].Style = r.Edge(edges[i].Relationship)
	}
}
