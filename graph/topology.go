package graph

import (
	"sort"

	gonum "gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// Components groups node ids into connected components, treating edges as
// undirected. Components are ordered by the index of their first node and ids
// within a component keep input order, so the result is deterministic.
// Dangling edges and self loops are ignored.
func (el *Elements) Components() [][]string {
	if len(el.Nodes) == 0 {
		return nil
	}

	g := simple.NewUndirectedGraph()
	for i := range el.Nodes {
		g.AddNode(simple.Node(int64(i)))
	}
	for _, e := range el.Edges {
		src, okS := el.nodeIndex[e.Source]
		dst, okT := el.nodeIndex[e.Target]
		if !okS || !okT || src == dst {
			continue
		}
		g.SetEdge(simple.Edge{F: simple.Node(int64(src)), T: simple.Node(int64(dst))})
	}

	comps := topo.ConnectedComponents(g)
	indexed := make([][]int, 0, len(comps))
	for _, c := range comps {
		idx := nodeIndexes(c)
		sort.Ints(idx)
		indexed = append(indexed, idx)
	}
	sort.Slice(indexed, func(i, j int) bool { return indexed[i][0] < indexed[j][0] })

	out := make([][]string, 0, len(indexed))
	for _, c := range indexed {
		ids := make([]string, 0, len(c))
		for _, i := range c {
			ids = append(ids, el.Nodes[i].ID)
		}
		out = append(out, ids)
	}
	return out
}

// Degree returns the number of drawable edges touching each node.
func (el *Elements) Degree() map[string]int {
	deg := make(map[string]int, len(el.Nodes))
	for _, n := range el.Nodes {
		deg[n.ID] = 0
	}
	for _, e := range el.Edges {
		if !el.Drawable(e) {
			continue
		}
		deg[e.Source]++
		if e.Target != e.Source {
			deg[e.Target]++
		}
	}
	return deg
}

func nodeIndexes(nodes []gonum.Node) []int {
	out := make([]int, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, int(n.ID()))
	}
	return out
}
