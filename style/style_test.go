package style

import (
	"testing"

	"github.com/TFMV/cigraph/models"
)

func TestNodeStylesByLabel(t *testing.T) {
	r := NewResolver(DefaultTheme(), DefaultAnchor)

	cases := []struct {
		label string
		main  string
	}{
		{models.LabelCompany, "#3b82f6"},
		{models.LabelProduct, "#a855f7"},
		{models.LabelPartner, "#10b981"},
		{models.LabelRegion, "#f59e0b"},
		{models.LabelInvestment, "#ef4444"},
		{"Startup", "#3b82f6"},
		{"", "#3b82f6"},
	}
	for _, tc := range cases {
		t.Run(tc.label, func(t *testing.T) {
			s := r.Node("Somebody", tc.label)
			if s.Colors.Main != tc.main {
				t.Errorf("main = %q, want %q", s.Colors.Main, tc.main)
			}
			if s.Size != 45 || s.BorderWidth != 2 || s.FontSize != 11 || s.Anchor {
				t.Errorf("unexpected resting style %+v", s)
			}
		})
	}
}

func TestAnchorOverridesEveryLabel(t *testing.T) {
	r := NewResolver(DefaultTheme(), DefaultAnchor)
	for _, label := range append([]string{"Startup"}, models.Labels...) {
		s := r.Node("Infosys", label)
		if !s.Anchor || !s.Bold || s.Size != 65 || s.Colors.Main != "#0066cc" || s.BorderWidth != 3 || s.FontSize != 13 {
			t.Errorf("label %s: unexpected anchor style %+v", label, s)
		}
	}
}

func TestEmptyAnchorDisablesOverride(t *testing.T) {
	r := NewResolver(DefaultTheme(), "")
	if r.Node("Infosys", models.LabelCompany).Anchor {
		t.Error("anchor style applied with anchor disabled")
	}
	if r.IsAnchor("") {
		t.Error("empty name treated as anchor")
	}
}

func TestEdgeStyles(t *testing.T) {
	r := NewResolver(DefaultTheme(), DefaultAnchor)
	if s := r.Edge(models.RelCompetesWith); s.LineColor != "#ef4444" || s.ArrowColor != "#ef4444" || s.Width != 1.5 {
		t.Errorf("COMPETES_WITH style %+v", s)
	}
	s := r.Edge("ACQUIRED")
	if s.LineColor != "rgba(124, 58, 237, 0.3)" || s.ArrowColor != "rgba(124, 58, 237, 0.5)" {
		t.Errorf("fallback style %+v", s)
	}
}

func TestEmphasis(t *testing.T) {
	r := NewResolver(DefaultTheme(), DefaultAnchor)

	rest := r.Node("Infosys", models.LabelCompany)
	hot := r.EmphasizedNode(rest)
	if hot.Size != 80 || hot.BorderWidth != 3 || hot.BorderColor != "#c084fc" {
		t.Errorf("emphasized anchor %+v", hot)
	}
	if hot.Colors != rest.Colors || !hot.Anchor {
		t.Error("emphasis changed the fill colors or the anchor flag")
	}

	plain := r.EmphasizedNode(r.Node("TCS", models.LabelCompany))
	if plain.Size != 60 {
		t.Errorf("emphasized size = %v, want 60", plain.Size)
	}

	e := r.EmphasizedEdge()
	if e.Width != 3 || e.LineColor != "#a855f7" || e.ArrowColor != "#a855f7" {
		t.Errorf("emphasized edge %+v", e)
	}
}

func TestResolverOwnsItsTheme(t *testing.T) {
	theme := DefaultTheme()
	r := NewResolver(theme, DefaultAnchor)

	theme.Nodes[models.LabelCompany] = models.ColorSet{Main: "#000000"}
	if got := r.Node("TCS", models.LabelCompany).Colors.Main; got != "#3b82f6" {
		t.Errorf("resolver saw caller mutation: %s", got)
	}

	copied := r.Theme()
	copied.Edges[models.RelUses] = "#ffffff"
	if got := r.Edge(models.RelUses).LineColor; got != "#3b82f6" {
		t.Errorf("resolver saw mutation of Theme(): %s", got)
	}
}

func TestWithOverrides(t *testing.T) {
	base := DefaultTheme()
	out := base.WithOverrides(
		map[string]models.ColorSet{models.LabelRegion: {Main: "#123456"}},
		map[string]string{"ACQUIRED": "#abcdef"},
	)
	cs, _ := out.Palette(models.LabelRegion)
	if cs.Main != "#123456" || cs.Border != "#fbbf24" {
		t.Errorf("region override %+v", cs)
	}
	if out.Edges["ACQUIRED"] != "#abcdef" {
		t.Error("edge override missing")
	}
	if orig, _ := base.Palette(models.LabelRegion); orig.Main != "#f59e0b" {
		t.Error("override mutated the base theme")
	}
}

func TestWithOverridesIgnoresKeyCase(t *testing.T) {
	out := DefaultTheme().WithOverrides(
		map[string]models.ColorSet{"company": {Main: "#000000"}},
		map[string]string{"competes_with": "#111111"},
	)
	if cs, _ := out.Palette(models.LabelCompany); cs.Main != "#000000" || cs.Border != "#60a5fa" {
		t.Errorf("company override %+v", cs)
	}
	if _, ok := out.Nodes["company"]; ok {
		t.Error("lowercase label added to the palette")
	}
	if out.Edges[models.RelCompetesWith] != "#111111" {
		t.Error("edge override missing")
	}
	if _, ok := out.Edges["competes_with"]; ok {
		t.Error("lowercase relationship added to the edge table")
	}
}

func TestAnnotate(t *testing.T) {
	r := NewResolver(DefaultTheme(), DefaultAnchor)
	nodes := []models.RenderNode{{ID: "a", Name: "Infosys", Label: models.LabelCompany}, {ID: "b", Name: "Azure", Label: models.LabelPartner}}
	edges := []models.RenderEdge{{Source: "a", Target: "b", Relationship: models.RelUses}}
	r.Annotate(nodes, edges)
	if !nodes[0].Style.Anchor || nodes[1].Style.Colors.Main != "#10b981" {
		t.Errorf("annotated nodes %+v", nodes)
	}
	if edges[0].Style.LineColor != "#3b82f6" {
		t.Errorf("annotated edge %+v", edges[0].Style)
	}
}
