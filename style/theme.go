// Package style maps entity labels and relationship types to a deterministic
// visual encoding. Tables live in a Theme that is copied on construction of a
// Resolver and never mutated afterwards.
package style

import (
	"maps"
	"strings"

	"github.com/TFMV/cigraph/models"
)

// DefaultAnchor is the home entity the dashboard is oriented around.
const DefaultAnchor = "Infosys"

// Emphasis describes how a focused node and its incident edges are drawn.
type Emphasis struct {
	NodeGrowth   float64 // added to the resting size
	BorderWidth  float64
	BorderColor  string
	EdgeWidth    float64
	EdgeColor    string
	TooltipColor string // tooltip text color for unknown labels
}

// Theme is the immutable configuration consumed by the Resolver.
type Theme struct {
	Nodes             map[string]models.ColorSet
	Anchor            models.ColorSet
	Edges             map[string]string
	FallbackLabel     string
	FallbackLine      string
	FallbackArrow     string
	NodeSize          float64
	AnchorSize        float64
	BorderWidth       float64
	AnchorBorderWidth float64
	FontSize          float64
	AnchorFontSize    float64
	EdgeWidth         float64
	Emphasis          Emphasis
}

// DefaultTheme returns the dashboard palette.
func DefaultTheme() Theme {
	return Theme{
		Nodes: map[string]models.ColorSet{
			models.LabelCompany:    {Main: "#3b82f6", Border: "#60a5fa", Highlight: "#93c5fd"},
			models.LabelProduct:    {Main: "#a855f7", Border: "#c084fc", Highlight: "#d8b4fe"},
			models.LabelPartner:    {Main: "#10b981", Border: "#34d399", Highlight: "#6ee7b7"},
			models.LabelRegion:     {Main: "#f59e0b", Border: "#fbbf24", Highlight: "#fde68a"},
			models.LabelInvestment: {Main: "#ef4444", Border: "#f87171", Highlight: "#fca5a5"},
		},
		Anchor: models.ColorSet{Main: "#0066cc", Border: "#3399ff", Highlight: "#66b2ff"},
		Edges: map[string]string{
			models.RelCompetesWith: "#ef4444",
			models.RelPartnersWith: "#10b981",
			models.RelInvestsIn:    "#f59e0b",
			models.RelOffers:       "#a855f7",
			models.RelUses:         "#3b82f6",
			models.RelOperatesIn:   "#64748b",
		},
		FallbackLabel:     models.LabelCompany,
		FallbackLine:      "rgba(124, 58, 237, 0.3)",
		FallbackArrow:     "rgba(124, 58, 237, 0.5)",
		NodeSize:          45,
		AnchorSize:        65,
		BorderWidth:       2,
		AnchorBorderWidth: 3,
		FontSize:          11,
		AnchorFontSize:    13,
		EdgeWidth:         1.5,
		Emphasis: Emphasis{
			NodeGrowth:   15,
			BorderWidth:  3,
			BorderColor:  "#c084fc",
			EdgeWidth:    3,
			EdgeColor:    "#a855f7",
			TooltipColor: "#a855f7",
		},
	}
}

// Clone returns a deep copy of the theme.
func (t Theme) Clone() Theme {
	out := t
	out.Nodes = maps.Clone(t.Nodes)
	out.Edges = maps.Clone(t.Edges)
	if out.Nodes == nil {
		out.Nodes = map[string]models.ColorSet{}
	}
	if out.Edges == nil {
		out.Edges = map[string]string{}
	}
	return out
}

// WithOverrides returns a copy of the theme with label palettes and edge
// colors replaced where the override maps carry a value.
func (t Theme) WithOverrides(nodes map[string]models.ColorSet, edges map[string]string) Theme {
	out := t.Clone()
	for label, cs := range nodes {
		label = canonicalKey(out.Nodes, label)
		base := out.Nodes[label]
		if cs.Main != "" {
			base.Main = cs.Main
		}
		if cs.Border != "" {
			base.Border = cs.Border
		}
		if cs.Highlight != "" {
			base.Highlight = cs.Highlight
		}
		out.Nodes[label] = base
	}
	for rel, c := range edges {
		if c != "" {
			out.Edges[canonicalKey(out.Edges, rel)] = c
		}
	}
	return out
}

// canonicalKey returns the existing key of m that equals key ignoring case,
// or key itself. Environment overrides arrive lowercased.
func canonicalKey[V any](m map[string]V, key string) string {
	if _, ok := m[key]; ok {
		return key
	}
	for k := range m {
		if strings.EqualFold(k, key) {
			return k
		}
	}
	return key
}

// Palette returns the color set registered for a label and whether the label
// is part of the taxonomy.
func (t Theme) Palette(label string) (models.ColorSet, bool) {
	cs, ok := t.Nodes[label]
	return cs, ok
}
