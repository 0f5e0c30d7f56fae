package models

import (
	"testing"
)

func samplePayload() *GraphPayload {
	return &GraphPayload{
		Nodes: []PayloadNode{
			{ID: "infosys", Name: "Infosys", Label: LabelCompany},
			{Name: "Topaz", Label: LabelProduct},
			{ID: "tcs", Name: "TCS", Label: LabelCompany},
			{ID: "aws", Name: "AWS", Label: LabelPartner},
		},
		Edges: []PayloadEdge{
			{Source: "infosys", Target: "Topaz", Relationship: RelOffers},
			{Source: "tcs", Target: "infosys", Relationship: RelCompetesWith},
			{Source: "infosys", Target: "aws", Relationship: RelPartnersWith},
			{Source: "tcs", Target: "aws", Relationship: RelPartnersWith},
		},
	}
}

func TestNodeIDFallsBackToName(t *testing.T) {
	if got := (PayloadNode{ID: "x", Name: "X"}).NodeID(); got != "x" {
		t.Errorf("NodeID = %q, want x", got)
	}
	if got := (PayloadNode{Name: "X"}).NodeID(); got != "X" {
		t.Errorf("NodeID = %q, want X", got)
	}
}

func TestEdgeID(t *testing.T) {
	if EdgeID(0) != "e0" || EdgeID(12) != "e12" {
		t.Errorf("unexpected edge ids %q %q", EdgeID(0), EdgeID(12))
	}
}

func TestLayoutIsFrozen(t *testing.T) {
	positions := map[string]Position{"a": {X: 1, Y: 2}}
	layout := NewLayout(positions, 800, 600)

	positions["a"] = Position{X: 99, Y: 99}
	positions["b"] = Position{}

	p, ok := layout.Position("a")
	if !ok || p != (Position{X: 1, Y: 2}) {
		t.Errorf("layout changed through the source map: %+v", p)
	}
	if layout.Len() != 1 {
		t.Errorf("Len = %d, want 1", layout.Len())
	}

	copied := layout.Positions()
	copied["a"] = Position{}
	if p, _ := layout.Position("a"); p.X != 1 {
		t.Error("layout changed through Positions()")
	}
}

func TestDistance(t *testing.T) {
	if d := (Position{X: 0, Y: 0}).Distance(Position{X: 3, Y: 4}); d != 5 {
		t.Errorf("Distance = %v, want 5", d)
	}
}

func TestEdgesByRelationship(t *testing.T) {
	g := samplePayload()
	if got := len(g.EdgesByRelationship(RelPartnersWith)); got != 2 {
		t.Errorf("EdgesByRelationship(PARTNERS_WITH) = %d, want 2", got)
	}
}

func TestSubgraphByCompany(t *testing.T) {
	g := samplePayload()

	sub := g.Subgraph("topaz")
	if len(sub.Edges) != 1 || sub.Edges[0].Relationship != RelOffers {
		t.Fatalf("Subgraph(topaz) edges = %+v", sub.Edges)
	}
	if len(sub.Nodes) != 2 || sub.Nodes[0].Name != "Infosys" || sub.Nodes[1].Name != "Topaz" {
		t.Errorf("Subgraph(topaz) nodes = %+v", sub.Nodes)
	}

	// Substring match on names, not ids: "Info" hits the three Infosys edges.
	sub = g.Subgraph("Info")
	if len(sub.Edges) != 3 || len(sub.Nodes) != 4 {
		t.Errorf("Subgraph(Info) = %d nodes, %d edges", len(sub.Nodes), len(sub.Edges))
	}

	if empty := g.Subgraph("wipro"); len(empty.Nodes) != 0 || len(empty.Edges) != 0 {
		t.Errorf("Subgraph(wipro) = %+v", empty)
	}
	if same := g.Subgraph("  "); same != g {
		t.Error("blank company should return the payload unchanged")
	}
}

func TestCommonPartners(t *testing.T) {
	g := samplePayload()
	got := g.CommonPartners("Infosys", "TCS")
	if len(got) != 1 || got[0] != "AWS" {
		t.Errorf("CommonPartners = %v, want [AWS]", got)
	}
	if got := g.CommonPartners("Infosys", "Topaz"); len(got) != 0 {
		t.Errorf("CommonPartners(Infosys, Topaz) = %v", got)
	}
}

func TestExposureTo(t *testing.T) {
	g := samplePayload()
	got := g.ExposureTo("AWS")
	want := []Exposure{
		{Company: "Infosys", Relationship: RelPartnersWith, Entity: "AWS"},
		{Company: "TCS", Relationship: RelPartnersWith, Entity: "AWS"},
	}
	if len(got) != len(want) {
		t.Fatalf("ExposureTo(AWS) = %+v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("exposure %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}
