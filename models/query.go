package models

import (
	"strings"
)

// Exposure is one relationship pointing at an entity
type Exposure struct {
	Company      string `json:"company"`
	Relationship string `json:"relationship"`
	Entity       string `json:"entity"`
}

// names maps node ids to display names
func (g *GraphPayload) names() map[string]string {
	out := make(map[string]string, len(g.Nodes))
	for _, node := range g.Nodes {
		if id := node.NodeID(); id != "" {
			if _, dup := out[id]; !dup {
				out[id] = node.Name
			}
		}
	}
	return out
}

func endpointName(names map[string]string, id string) string {
	if name, ok := names[id]; ok && name != "" {
		return name
	}
	return id
}

// EdgesByRelationship returns all edges of a relationship type
func (g *GraphPayload) EdgesByRelationship(rel string) []PayloadEdge {
	var result []PayloadEdge
	for _, edge := range g.Edges {
		if edge.Relationship == rel {
			result = append(result, edge)
		}
	}
	return result
}

// Subgraph keeps the edges whose source or target name contains company
// (case-insensitive) and the nodes those edges touch, in input order. An
// empty company returns the payload unchanged.
func (g *GraphPayload) Subgraph(company string) *GraphPayload {
	needle := strings.ToLower(strings.TrimSpace(company))
	if needle == "" || g == nil {
		return g
	}
	names := g.names()

	out := &GraphPayload{Nodes: []PayloadNode{}, Edges: []PayloadEdge{}}
	keep := make(map[string]bool)
	for _, edge := range g.Edges {
		src := strings.ToLower(endpointName(names, edge.Source))
		dst := strings.ToLower(endpointName(names, edge.Target))
		if strings.Contains(src, needle) || strings.Contains(dst, needle) {
			out.Edges = append(out.Edges, edge)
			keep[edge.Source] = true
			keep[edge.Target] = true
		}
	}
	for _, node := range g.Nodes {
		if keep[node.NodeID()] {
			out.Nodes = append(out.Nodes, node)
		}
	}
	return out
}

// CommonPartners lists the PARTNERS_WITH targets shared by two companies,
// matched by name, in the order they appear for a.
func (g *GraphPayload) CommonPartners(a, b string) []string {
	names := g.names()
	partnersOf := func(company string) []string {
		var out []string
		for _, edge := range g.EdgesByRelationship(RelPartnersWith) {
			if endpointName(names, edge.Source) == company {
				out = append(out, endpointName(names, edge.Target))
			}
		}
		return out
	}

	ofB := make(map[string]bool)
	for _, p := range partnersOf(b) {
		ofB[p] = true
	}
	result := []string{}
	seen := make(map[string]bool)
	for _, p := range partnersOf(a) {
		if ofB[p] && !seen[p] {
			seen[p] = true
			result = append(result, p)
		}
	}
	return result
}

// ExposureTo lists every relationship whose target is the named entity
func (g *GraphPayload) ExposureTo(entity string) []Exposure {
	names := g.names()
	result := []Exposure{}
	for _, edge := range g.Edges {
		if endpointName(names, edge.Target) != entity {
			continue
		}
		result = append(result, Exposure{
			Company:      endpointName(names, edge.Source),
			Relationship: edge.Relationship,
			Entity:       entity,
		})
	}
	return result
}
