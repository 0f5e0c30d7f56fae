package models

import (
	"fmt"
	"math"
)

// NodeID returns the id the node renders under: ID, or Name when ID is empty.
func (n PayloadNode) NodeID() string {
	if n.ID != "" {
		return n.ID
	}
	return n.Name
}

// Data returns the host-facing record for the node
func (n RenderNode) Data() NodeData {
	return NodeData{ID: n.ID, Name: n.Name, Label: n.Label}
}

// EdgeID synthesizes the positional id of the i-th edge
func EdgeID(i int) string {
	return fmt.Sprintf("e%d", i)
}

// NewLayout freezes a position map. The map is copied so later writes by the
// caller never reach the layout.
func NewLayout(positions map[string]Position, width, height float64) Layout {
	frozen := make(map[string]Position, len(positions))
	for id, p := range positions {
		frozen[id] = p
	}
	return Layout{positions: frozen, Width: width, Height: height}
}

// Position returns the frozen position of a node
func (l Layout) Position(id string) (Position, bool) {
	p, ok := l.positions[id]
	return p, ok
}

// Len returns the number of positioned nodes
func (l Layout) Len() int {
	return len(l.positions)
}

// Positions returns a copy of all frozen positions
func (l Layout) Positions() map[string]Position {
	out := make(map[string]Position, len(l.positions))
	for id, p := range l.positions {
		out[id] = p
	}
	return out
}

// Distance returns the euclidean distance between two points
func (p Position) Distance(o Position) float64 {
	dx := p.X - o.X
	dy := p.Y - o.Y
	return math.Sqrt(dx*dx + dy*dy)
}
