package ingest

import "github.com/TFMV/cigraph/models"

// Triple is one (source)-[relationship]->(target) statement.
type Triple struct {
	SourceLabel  string
	SourceName   string
	Relationship string
	TargetLabel  string
	TargetName   string
}

// FromTriples builds a payload whose node ids are the entity names. Nodes
// keep the order in which they are first mentioned; a later mention updates
// the label.
func FromTriples(triples []Triple) *models.GraphPayload {
	payload := &models.GraphPayload{
		Nodes: []models.PayloadNode{},
		Edges: make([]models.PayloadEdge, 0, len(triples)),
	}
	index := make(map[string]int)
	upsert := func(name, label string) {
		if i, ok := index[name]; ok {
			payload.Nodes[i].Label = label
			return
		}
		index[name] = len(payload.Nodes)
		payload.Nodes = append(payload.Nodes, models.PayloadNode{ID: name, Name: name, Label: label})
	}
	for _, t := range triples {
		upsert(t.SourceName, t.SourceLabel)
		upsert(t.TargetName, t.TargetLabel)
		payload.Edges = append(payload.Edges, models.PayloadEdge{
			Source:       t.SourceName,
			Target:       t.TargetName,
			Relationship: t.Relationship,
		})
	}
	return payload
}

// SeedTriples is the demo competitive landscape around Infosys.
var SeedTriples = []Triple{
	// Infosys
	{models.LabelCompany, "Infosys", models.RelOffers, models.LabelProduct, "Topaz"},
	{models.LabelCompany, "Infosys", models.RelOffers, models.LabelProduct, "Cobalt"},
	{models.LabelProduct, "Topaz", models.RelUses, models.LabelPartner, "NVIDIA"},
	{models.LabelProduct, "Topaz", models.RelUses, models.LabelPartner, "OpenAI"},
	{models.LabelCompany, "Infosys", models.RelPartnersWith, models.LabelPartner, "Microsoft"},
	{models.LabelCompany, "Infosys", models.RelOperatesIn, models.LabelRegion, "North America"},
	{models.LabelCompany, "Infosys", models.RelOperatesIn, models.LabelRegion, "Europe"},
	{models.LabelCompany, "Infosys", models.RelOperatesIn, models.LabelRegion, "Nordics"},
	// TCS
	{models.LabelCompany, "TCS", models.RelOffers, models.LabelProduct, "AI.Cloud"},
	{models.LabelCompany, "TCS", models.RelOffers, models.LabelProduct, "TCS CloudEX"},
	{models.LabelCompany, "TCS", models.RelPartnersWith, models.LabelPartner, "AWS"},
	{models.LabelCompany, "TCS", models.RelPartnersWith, models.LabelPartner, "Google Cloud"},
	{models.LabelCompany, "TCS", models.RelOperatesIn, models.LabelRegion, "North America"},
	{models.LabelCompany, "TCS", models.RelOperatesIn, models.LabelRegion, "UK"},
	{models.LabelCompany, "TCS", models.RelCompetesWith, models.LabelCompany, "Infosys"},
	// Wipro
	{models.LabelCompany, "Wipro", models.RelOffers, models.LabelProduct, "ai360"},
	{models.LabelCompany, "Wipro", models.RelOffers, models.LabelProduct, "FullStride Cloud"},
	{models.LabelCompany, "Wipro", models.RelPartnersWith, models.LabelPartner, "IBM"},
	{models.LabelCompany, "Wipro", models.RelOperatesIn, models.LabelRegion, "North America"},
	{models.LabelCompany, "Wipro", models.RelCompetesWith, models.LabelCompany, "Infosys"},
	// HCLTech
	{models.LabelCompany, "HCLTech", models.RelOffers, models.LabelProduct, "AI Force"},
	{models.LabelCompany, "HCLTech", models.RelOffers, models.LabelProduct, "CloudSMART"},
	{models.LabelCompany, "HCLTech", models.RelPartnersWith, models.LabelPartner, "Microsoft"},
	{models.LabelCompany, "HCLTech", models.RelPartnersWith, models.LabelPartner, "Google Cloud"},
	{models.LabelCompany, "HCLTech", models.RelOperatesIn, models.LabelRegion, "North America"},
	{models.LabelCompany, "HCLTech", models.RelOperatesIn, models.LabelRegion, "Nordics"},
	{models.LabelCompany, "HCLTech", models.RelCompetesWith, models.LabelCompany, "Infosys"},
	// Accenture
	{models.LabelCompany, "Accenture", models.RelOffers, models.LabelProduct, "AI Navigator"},
	{models.LabelCompany, "Accenture", models.RelOffers, models.LabelProduct, "Cloud First"},
	{models.LabelCompany, "Accenture", models.RelInvestsIn, models.LabelPartner, "NVIDIA"},
	{models.LabelCompany, "Accenture", models.RelPartnersWith, models.LabelPartner, "AWS"},
	{models.LabelCompany, "Accenture", models.RelPartnersWith, models.LabelPartner, "Salesforce"},
	{models.LabelCompany, "Accenture", models.RelOperatesIn, models.LabelRegion, "Global"},
	{models.LabelCompany, "Accenture", models.RelCompetesWith, models.LabelCompany, "Infosys"},
}

// DemoPayload returns the seed landscape as a payload.
func DemoPayload() *models.GraphPayload {
	return FromTriples(SeedTriples)
}
