// Package graph turns a host payload into ordered render records.
package graph

import (
	"github.com/TFMV/cigraph/models"
)

// Skip records a payload node that could not be rendered.
type Skip struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
	ID     string `json:"id,omitempty"`
}

// Elements is the ordered output of Build: nodes first, then edges.
type Elements struct {
	Nodes   []models.RenderNode
	Edges   []models.RenderEdge
	Skipped []Skip

	nodeIndex map[string]int
	incident  map[string][]int
}

// Build maps a payload onto render records without positions or styles. The
// output preserves input order so entrance animations get a stable stagger
// index. A nil payload, or one without nodes, yields empty Elements.
func Build(payload *models.GraphPayload) *Elements {
	el := &Elements{
		nodeIndex: make(map[string]int),
		incident:  make(map[string][]int),
	}
	if payload == nil || len(payload.Nodes) == 0 {
		return el
	}

	el.Nodes = make([]models.RenderNode, 0, len(payload.Nodes))
	for i, n := range payload.Nodes {
		id := n.NodeID()
		if id == "" {
			el.Skipped = append(el.Skipped, Skip{Index: i, Reason: "node has neither id nor name"})
			continue
		}
		if _, dup := el.nodeIndex[id]; dup {
			el.Skipped = append(el.Skipped, Skip{Index: i, Reason: "duplicate node id", ID: id})
			continue
		}
		el.nodeIndex[id] = len(el.Nodes)
		el.Nodes = append(el.Nodes, models.RenderNode{
			ID:    id,
			Name:  n.Name,
			Label: n.Label,
			Index: len(el.Nodes),
		})
	}

	el.Edges = make([]models.RenderEdge, 0, len(payload.Edges))
	for i, e := range payload.Edges {
		el.Edges = append(el.Edges, models.RenderEdge{
			ID:           models.EdgeID(i),
			Index:        len(el.Nodes) + i,
			Source:       e.Source,
			Target:       e.Target,
			Relationship: e.Relationship,
		})
		el.incident[e.Source] = append(el.incident[e.Source], i)
		if e.Target != e.Source {
			el.incident[e.Target] = append(el.incident[e.Target], i)
		}
	}

	return el
}

// Len returns the total number of render records.
func (el *Elements) Len() int {
	return len(el.Nodes) + len(el.Edges)
}

// Empty reports whether nothing would be drawn.
func (el *Elements) Empty() bool {
	return len(el.Nodes) == 0
}

// Node returns a pointer to the render node with the given id.
func (el *Elements) Node(id string) (*models.RenderNode, bool) {
	i, ok := el.nodeIndex[id]
	if !ok {
		return nil, false
	}
	return &el.Nodes[i], true
}

// Incident returns the positions in Edges of every edge touching id.
func (el *Elements) Incident(id string) []int {
	return el.incident[id]
}

// Drawable reports whether both endpoints of an edge exist. Dangling edges
// stay in the model but the rendering surface leaves them out.
func (el *Elements) Drawable(e models.RenderEdge) bool {
	_, src := el.nodeIndex[e.Source]
	_, dst := el.nodeIndex[e.Target]
	return src && dst
}
