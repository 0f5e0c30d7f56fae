// Package interact is the hover/selection state machine of the graph view.
//
// The state is a tagged variant, Idle or Focused(id), and every transition is
// a pure function from (State, Event) to (State, []Effect). Effects tell the
// caller what to repaint and what to report to the host; nothing here touches
// node positions.
package interact

import "fmt"

// State is either Idle or Focused on exactly one node.
type State struct {
	focused string
	active  bool
}

// Idle returns the state with no focus.
func Idle() State {
	return State{}
}

// Focused returns the state focused on id.
func Focused(id string) State {
	return State{focused: id, active: true}
}

// IsIdle reports whether no node is focused.
func (s State) IsIdle() bool {
	return !s.active
}

// FocusedID returns the focused node id, if any.
func (s State) FocusedID() (string, bool) {
	return s.focused, s.active
}

func (s State) String() string {
	if !s.active {
		return "Idle"
	}
	return fmt.Sprintf("Focused(%s)", s.focused)
}

// EventKind enumerates pointer events dispatched by the rendering surface.
type EventKind int

const (
	PointerEnter EventKind = iota
	PointerLeave
	Tap
)

func (k EventKind) String() string {
	switch k {
	case PointerEnter:
		return "enter"
	case PointerLeave:
		return "leave"
	case Tap:
		return "tap"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// ParseEventKind maps the wire names enter, leave and tap (also mouseover,
// mouseout and click) to an EventKind.
func ParseEventKind(s string) (EventKind, error) {
	switch s {
	case "enter", "mouseover", "pointerenter":
		return PointerEnter, nil
	case "leave", "mouseout", "pointerleave":
		return PointerLeave, nil
	case "tap", "click":
		return Tap, nil
	}
	return 0, fmt.Errorf("unknown pointer event %q", s)
}

// Event is a pointer event targeting a node.
type Event struct {
	Kind   EventKind
	NodeID string
}

// Enter builds a pointer-enter event.
func Enter(id string) Event { return Event{Kind: PointerEnter, NodeID: id} }

// Leave builds a pointer-leave event.
func Leave(id string) Event { return Event{Kind: PointerLeave, NodeID: id} }

// Click builds a tap event.
func Click(id string) Event { return Event{Kind: Tap, NodeID: id} }

// EffectKind enumerates what a transition asks the caller to do.
type EffectKind int

const (
	// Emphasize enlarges the node and highlights its incident edges.
	Emphasize EffectKind = iota
	// Restore returns the node and its incident edges to their resting style.
	Restore
	// Select reports the node to the host.
	Select
)

func (k EffectKind) String() string {
	switch k {
	case Emphasize:
		return "emphasize"
	case Restore:
		return "restore"
	case Select:
		return "select"
	default:
		return fmt.Sprintf("EffectKind(%d)", int(k))
	}
}

// Effect is a side effect requested by a transition.
type Effect struct {
	Kind   EffectKind
	NodeID string
}

// Transition applies ev to s. Entering another node while focused restores
// the old node and emphasizes the new one in a single step, so a dual focus
// is never observable. Taps never change the state.
func Transition(s State, ev Event) (State, []Effect) {
	switch ev.Kind {
	case PointerEnter:
		if s.active {
			if s.focused == ev.NodeID {
				return s, nil
			}
			return Focused(ev.NodeID), []Effect{
				{Kind: Restore, NodeID: s.focused},
				{Kind: Emphasize, NodeID: ev.NodeID},
			}
		}
		return Focused(ev.NodeID), []Effect{{Kind: Emphasize, NodeID: ev.NodeID}}

	case PointerLeave:
		if s.active && s.focused == ev.NodeID {
			return Idle(), []Effect{{Kind: Restore, NodeID: ev.NodeID}}
		}
		return s, nil

	case Tap:
		return s, []Effect{{Kind: Select, NodeID: ev.NodeID}}
	}
	return s, nil
}
