// Package view is the mounted graph component. It owns the render records,
// the frozen layout and the interaction state for one rendering surface, and
// forwards node selections to the host.
//
// Every mutation runs under a single lock: payload replacement (including the
// synchronous layout pass) and pointer events are serialized, so two layouts
// never overlap on the same view and pointer events never observe a half
// replaced payload.
package view

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/TFMV/cigraph/graph"
	"github.com/TFMV/cigraph/interact"
	"github.com/TFMV/cigraph/models"
	"github.com/TFMV/cigraph/overlay"
	"github.com/TFMV/cigraph/physics"
	"github.com/TFMV/cigraph/style"
)

// SelectFunc receives the data of a tapped node.
type SelectFunc func(models.NodeData)

// Options configures a View.
type Options struct {
	Anchor   string
	Theme    style.Theme
	Layout   physics.Config
	OnSelect SelectFunc
	Logger   *slog.Logger
}

// View is one mounted instance of the graph component.
type View struct {
	id       string
	resolver *style.Resolver
	layout   physics.Config
	onSelect SelectFunc
	log      *slog.Logger

	mu        sync.Mutex
	elements  *graph.Elements
	frozen    models.Layout
	state     interact.State
	restNodes map[string]models.NodeStyle
	restEdges []models.EdgeStyle
	revision  int
}

// New mounts an empty view. A zero Theme falls back to the default theme.
func New(opts Options) *View {
	theme := opts.Theme
	if theme.Nodes == nil {
		theme = style.DefaultTheme()
	}
	layout := opts.Layout
	if layout == (physics.Config{}) {
		layout = physics.DefaultConfig()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	v := &View{
		id:       uuid.New().String(),
		resolver: style.NewResolver(theme, opts.Anchor),
		layout:   layout,
		onSelect: opts.OnSelect,
		log:      logger,
	}
	v.elements = graph.Build(nil)
	return v
}

// ID identifies the mounted view.
func (v *View) ID() string {
	return v.id
}

// Resolver exposes the style resolver.
func (v *View) Resolver() *style.Resolver {
	return v.resolver
}

// SetPayload discards all derived state and rebuilds it from payload: build,
// annotate, lay out once, freeze. The interaction state resets to Idle. A nil
// payload renders nothing.
func (v *View) SetPayload(payload *models.GraphPayload) physics.Stats {
	v.mu.Lock()
	defer v.mu.Unlock()

	el := graph.Build(payload)
	for _, s := range el.Skipped {
		v.log.Warn("skipping node", "view", v.id, "index", s.Index, "id", s.ID, "reason", s.Reason)
	}
	v.resolver.Annotate(el.Nodes, el.Edges)

	frozen, stats := physics.Compute(el, v.layout)

	restNodes := make(map[string]models.NodeStyle, len(el.Nodes))
	for _, n := range el.Nodes {
		restNodes[n.ID] = n.Style
	}
	restEdges := make([]models.EdgeStyle, len(el.Edges))
	for i, e := range el.Edges {
		restEdges[i] = e.Style
	}

	v.elements = el
	v.frozen = frozen
	v.state = interact.Idle()
	v.restNodes = restNodes
	v.restEdges = restEdges
	v.revision++

	v.log.Info("payload replaced",
		"view", v.id,
		"revision", v.revision,
		"nodes", len(el.Nodes),
		"edges", len(el.Edges),
		"skipped", len(el.Skipped),
		"iterations", stats.Iterations,
		"stable", stats.Stable,
		"elapsed", stats.Elapsed,
	)
	return stats
}

// Patch describes what changed in response to one pointer event.
type Patch struct {
	Revision int                 `json:"revision"`
	State    string              `json:"state"`
	Nodes    []models.RenderNode `json:"nodes,omitempty"`
	Edges    []models.RenderEdge `json:"edges,omitempty"`
	Tooltip  overlay.Tooltip     `json:"tooltip"`
	Selected *models.NodeData    `json:"selected,omitempty"`
}

// Dispatch feeds a pointer event through the state machine and applies the
// resulting effects. Events for ids that are not in the current payload are
// ignored. Selections are delivered to the host after the lock is released.
func (v *View) Dispatch(ev interact.Event) Patch {
	v.mu.Lock()
	patch, selected := v.dispatchLocked(ev)
	v.mu.Unlock()

	if selected != nil {
		v.log.Info("node selected", "view", v.id, "id", selected.ID, "name", selected.Name)
		if v.onSelect != nil {
			v.onSelect(*selected)
		}
	}
	return patch
}

// PointerEnter is shorthand for Dispatch(interact.Enter(id)).
func (v *View) PointerEnter(id string) Patch { return v.Dispatch(interact.Enter(id)) }

// PointerLeave is shorthand for Dispatch(interact.Leave(id)).
func (v *View) PointerLeave(id string) Patch { return v.Dispatch(interact.Leave(id)) }

// Tap is shorthand for Dispatch(interact.Click(id)).
func (v *View) Tap(id string) Patch { return v.Dispatch(interact.Click(id)) }

func (v *View) dispatchLocked(ev interact.Event) (Patch, *models.NodeData) {
	patch := Patch{Revision: v.revision}
	if _, ok := v.elements.Node(ev.NodeID); !ok {
		patch.State = v.state.String()
		patch.Tooltip = overlay.TooltipFor(v.state, v.elements, v.resolver.Theme())
		return patch, nil
	}

	next, effects := interact.Transition(v.state, ev)
	v.state = next

	var selected *models.NodeData
	touchedNodes := make(map[string]bool)
	touchedEdges := make(map[int]bool)
	for _, eff := range effects {
		switch eff.Kind {
		case interact.Emphasize:
			v.paint(eff.NodeID, true, touchedNodes, touchedEdges)
		case interact.Restore:
			v.paint(eff.NodeID, false, touchedNodes, touchedEdges)
		case interact.Select:
			n, _ := v.elements.Node(eff.NodeID)
			d := n.Data()
			selected = &d
		}
	}

	for _, n := range v.elements.Nodes {
		if touchedNodes[n.ID] {
			patch.Nodes = append(patch.Nodes, n)
		}
	}
	for i, e := range v.elements.Edges {
		if touchedEdges[i] {
			patch.Edges = append(patch.Edges, e)
		}
	}
	patch.State = v.state.String()
	patch.Tooltip = overlay.TooltipFor(v.state, v.elements, v.resolver.Theme())
	patch.Selected = selected
	return patch, selected
}

// paint sets the node and its incident edges to the emphasized or resting
// style. Resting styles come from the snapshot taken when the payload was
// annotated, so a restore is exact.
func (v *View) paint(id string, emphasize bool, nodes map[string]bool, edges map[int]bool) {
	n, ok := v.elements.Node(id)
	if !ok {
		return
	}
	rest := v.restNodes[id]
	if emphasize {
		n.Style = v.resolver.EmphasizedNode(rest)
	} else {
		n.Style = rest
	}
	nodes[id] = true

	for _, i := range v.elements.Incident(id) {
		if emphasize {
			v.elements.Edges[i].Style = v.resolver.EmphasizedEdge()
		} else {
			v.elements.Edges[i].Style = v.restEdges[i]
		}
		edges[i] = true
	}
}

// State returns the current interaction state.
func (v *View) State() interact.State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

// Layout returns the frozen layout of the current payload.
func (v *View) Layout() models.Layout {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.frozen
}

// Overlay returns the legend and the tooltip for the current state.
func (v *View) Overlay() overlay.Overlay {
	v.mu.Lock()
	defer v.mu.Unlock()
	return overlay.Build(v.state, v.elements, v.resolver.Theme())
}
