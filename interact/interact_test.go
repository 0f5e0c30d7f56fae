package interact

import (
	"reflect"
	"testing"

	"pgregory.net/rapid"
)

func TestTransitions(t *testing.T) {
	tests := []struct {
		name    string
		state   State
		event   Event
		want    State
		effects []Effect
	}{
		{"enter from idle", Idle(), Enter("a"), Focused("a"), []Effect{{Emphasize, "a"}}},
		{"enter same node", Focused("a"), Enter("a"), Focused("a"), nil},
		{"enter other node", Focused("a"), Enter("b"), Focused("b"), []Effect{{Restore, "a"}, {Emphasize, "b"}}},
		{"leave focused", Focused("a"), Leave("a"), Idle(), []Effect{{Restore, "a"}}},
		{"leave other", Focused("a"), Leave("b"), Focused("a"), nil},
		{"leave while idle", Idle(), Leave("a"), Idle(), nil},
		{"tap while idle", Idle(), Click("a"), Idle(), []Effect{{Select, "a"}}},
		{"tap while focused", Focused("a"), Click("b"), Focused("a"), []Effect{{Select, "b"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, effects := Transition(tt.state, tt.event)
			if got != tt.want {
				t.Errorf("state = %s, want %s", got, tt.want)
			}
			if !reflect.DeepEqual(effects, tt.effects) {
				t.Errorf("effects = %v, want %v", effects, tt.effects)
			}
		})
	}
}

func TestStateString(t *testing.T) {
	if Idle().String() != "Idle" {
		t.Errorf("Idle() = %s", Idle())
	}
	if Focused("tcs").String() != "Focused(tcs)" {
		t.Errorf("Focused(tcs) = %s", Focused("tcs"))
	}
	if id, ok := Focused("x").FocusedID(); !ok || id != "x" {
		t.Errorf("FocusedID = %q, %v", id, ok)
	}
	if !Idle().IsIdle() || Focused("x").IsIdle() {
		t.Error("IsIdle mismatch")
	}
}

func TestParseEventKind(t *testing.T) {
	tests := map[string]EventKind{
		"enter": PointerEnter, "mouseover": PointerEnter,
		"leave": PointerLeave, "mouseout": PointerLeave,
		"tap": Tap, "click": Tap,
	}
	for in, want := range tests {
		got, err := ParseEventKind(in)
		if err != nil || got != want {
			t.Errorf("ParseEventKind(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseEventKind("drag"); err == nil {
		t.Error("expected an error for drag")
	}
}

// At most one node is ever focused, whatever the event sequence.
func TestSingleFocus(t *testing.T) {
	events := []Event{Enter("a"), Enter("b"), Click("c"), Leave("a"), Enter("c"), Leave("c"), Leave("b")}
	emphasized := map[string]bool{}
	s := Idle()
	for _, ev := range events {
		var effects []Effect
		s, effects = Transition(s, ev)
		for _, e := range effects {
			switch e.Kind {
			case Emphasize:
				emphasized[e.NodeID] = true
			case Restore:
				delete(emphasized, e.NodeID)
			}
		}
		if len(emphasized) > 1 {
			t.Fatalf("after %v: %d nodes emphasized", ev, len(emphasized))
		}
		if id, ok := s.FocusedID(); ok != (len(emphasized) == 1) || (ok && !emphasized[id]) {
			t.Fatalf("after %v: state %s disagrees with emphasized %v", ev, s, emphasized)
		}
	}
	if !s.IsIdle() {
		t.Errorf("final state %s, want Idle", s)
	}
}

func TestTransitionProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		ids := []string{"a", "b", "c", "d"}
		kinds := []EventKind{PointerEnter, PointerLeave, Tap}
		emphasized := map[string]bool{}
		s := Idle()
		for i, n := 0, rapid.IntRange(0, 40).Draw(t, "events"); i < n; i++ {
			ev := Event{Kind: rapid.SampledFrom(kinds).Draw(t, "kind"), NodeID: rapid.SampledFrom(ids).Draw(t, "id")}
			before := s
			var effects []Effect
			s, effects = Transition(s, ev)

			selects := 0
			for _, e := range effects {
				switch e.Kind {
				case Emphasize:
					emphasized[e.NodeID] = true
				case Restore:
					delete(emphasized, e.NodeID)
				case Select:
					selects++
				}
			}
			if ev.Kind == Tap && (selects != 1 || s != before) {
				t.Fatalf("tap %s: %d selections, state %s -> %s", ev.NodeID, selects, before, s)
			}
			if ev.Kind != Tap && selects != 0 {
				t.Fatalf("%v selected", ev)
			}
			if id, ok := s.FocusedID(); ok != (len(emphasized) == 1) || (ok && !emphasized[id]) || len(emphasized) > 1 {
				t.Fatalf("after %v: state %s disagrees with emphasized %v", ev, s, emphasized)
			}
			if ev.Kind == PointerEnter {
				if after, _ := Transition(s, Leave(ev.NodeID)); !after.IsIdle() {
					t.Fatalf("leave %s after enter left %s", ev.NodeID, after)
				}
			}
		}
	})
}
