package view

import (
	"github.com/TFMV/cigraph/models"
	"github.com/TFMV/cigraph/overlay"
)

// Snapshot is a read-only copy of everything a renderer needs to draw the
// view at one instant.
type Snapshot struct {
	ViewID   string                `json:"viewId"`
	Revision int                   `json:"revision"`
	Anchor   string                `json:"anchor,omitempty"`
	State    string                `json:"state"`
	Width    float64               `json:"width"`
	Height   float64               `json:"height"`
	Nodes    []models.RenderNode   `json:"nodes"`
	Edges    []models.RenderEdge   `json:"edges"`
	Legend   []overlay.LegendEntry `json:"legend"`
	Tooltip  overlay.Tooltip       `json:"tooltip"`
}

// Snapshot copies the current render records, layout and overlay.
func (v *View) Snapshot() *Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()

	ov := overlay.Build(v.state, v.elements, v.resolver.Theme())
	width, height := v.frozen.Width, v.frozen.Height
	if width == 0 || height == 0 {
		width, height = v.layout.Width, v.layout.Height
	}
	snap := &Snapshot{
		ViewID:   v.id,
		Revision: v.revision,
		Anchor:   v.resolver.Anchor(),
		State:    v.state.String(),
		Width:    width,
		Height:   height,
		Nodes:    append([]models.RenderNode(nil), v.elements.Nodes...),
		Edges:    append([]models.RenderEdge(nil), v.elements.Edges...),
		Legend:   ov.Legend,
		Tooltip:  ov.Tooltip,
	}
	if snap.Nodes == nil {
		snap.Nodes = []models.RenderNode{}
	}
	if snap.Edges == nil {
		snap.Edges = []models.RenderEdge{}
	}
	return snap
}

// NodeByID looks up a node in the snapshot.
func (s *Snapshot) NodeByID(id string) (models.RenderNode, bool) {
	for _, n := range s.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return models.RenderNode{}, false
}

// DrawableEdges returns the edges whose endpoints both exist, in order.
// Dangling edges are silently left out.
func (s *Snapshot) DrawableEdges() []models.RenderEdge {
	ids := make(map[string]bool, len(s.Nodes))
	for _, n := range s.Nodes {
		ids[n.ID] = true
	}
	out := make([]models.RenderEdge, 0, len(s.Edges))
	for _, e := range s.Edges {
		if ids[e.Source] && ids[e.Target] {
			out = append(out, e)
		}
	}
	return out
}

// Positions maps node ids to their locked positions.
func (s *Snapshot) Positions() map[string]models.Position {
	out := make(map[string]models.Position, len(s.Nodes))
	for _, n := range s.Nodes {
		out[n.ID] = n.Position
	}
	return out
}
