package overlay

import (
	"testing"

	"github.com/TFMV/cigraph/graph"
	"github.com/TFMV/cigraph/interact"
	"github.com/TFMV/cigraph/models"
	"github.com/TFMV/cigraph/style"
)

func TestLegendIsFixed(t *testing.T) {
	legend := Legend(style.DefaultTheme())
	want := []LegendEntry{
		{models.LabelCompany, "#3b82f6"},
		{models.LabelProduct, "#a855f7"},
		{models.LabelPartner, "#10b981"},
		{models.LabelRegion, "#f59e0b"},
		{models.LabelInvestment, "#ef4444"},
	}
	if len(legend) != len(want) {
		t.Fatalf("legend has %d entries", len(legend))
	}
	for i := range want {
		if legend[i] != want[i] {
			t.Errorf("entry %d = %+v, want %+v", i, legend[i], want[i])
		}
	}
}

func TestTooltip(t *testing.T) {
	el := graph.Build(&models.GraphPayload{Nodes: []models.PayloadNode{
		{ID: "t", Name: "Topaz", Label: models.LabelProduct},
		{ID: "m", Name: "Mystery", Label: "Startup"},
	}})
	theme := style.DefaultTheme()

	if tip := TooltipFor(interact.Idle(), el, theme); tip.Visible {
		t.Errorf("idle tooltip visible: %+v", tip)
	}

	tip := TooltipFor(interact.Focused("t"), el, theme)
	if !tip.Visible || tip.Name != "Topaz" || tip.Type != models.LabelProduct || tip.Color != "#a855f7" {
		t.Errorf("tooltip %+v", tip)
	}

	unknown := TooltipFor(interact.Focused("m"), el, theme)
	if unknown.Color != "#a855f7" || unknown.Type != "Startup" {
		t.Errorf("unknown label tooltip %+v", unknown)
	}

	if gone := TooltipFor(interact.Focused("ghost"), el, theme); gone.Visible {
		t.Error("tooltip visible for a node that is not in the graph")
	}
}

func TestBuild(t *testing.T) {
	ov := Build(interact.Idle(), nil, style.DefaultTheme())
	if len(ov.Legend) != 5 || ov.Tooltip.Visible {
		t.Errorf("overlay %+v", ov)
	}
}
