package logic

import "github.com/sweeney/trailkit/internal/mathx"

// edgePriority is the order in which simultaneous edges are considered.
// Only the first edge that is valid in the current mode fires.
var edgePriority = []Button{ButtonRight, ButtonSelect, ButtonLeft, ButtonUp, ButtonDown}

// Menu is the view navigation state machine.
//
//	Menu(i)   --up-->     Menu((i-1+N) mod N)
//	Menu(i)   --down-->   Menu((i+1) mod N)
//	Menu(i)   --right-->  Detail(i), activates items[i]
//	Menu(i)   --select--> Detail(i), activates items[i]
//	Detail(i) --select--> Detail(i), re-activates items[i]
//	Detail(i) --left-->   Menu(i)
type Menu struct {
	items []string
	state MenuState
}

// NewMenu creates a Menu over items starting in Menu(0).
// items must not be empty.
func NewMenu(items []string) *Menu {
	cp := make([]string, len(items))
	copy(cp, items)
	return &Menu{
		items: cp,
		state: MenuState{Mode: ModeMenu, Index: 0},
	}
}

// State returns the current MenuState.
func (m *Menu) State() MenuState {
	return m.state
}

// Items returns the menu items in order.
func (m *Menu) Items() []string {
	cp := make([]string, len(m.items))
	copy(cp, m.items)
	return cp
}

// Selected returns the item at the current index.
func (m *Menu) Selected() string {
	return m.items[m.state.Index]
}

// Handle applies at most one transition for the edges of one poll iteration.
// Edges other than EdgePressed are ignored.
func (m *Menu) Handle(events []ButtonEvent) Transition {
	pressed := make(map[Button]bool, len(events))
	for _, e := range events {
		if e.Edge == EdgePressed {
			pressed[e.Button] = true
		}
	}

	for _, b := range edgePriority {
		if !pressed[b] {
			continue
		}
		if tr, ok := m.apply(b); ok {
			return tr
		}
	}
	return Transition{From: m.state, To: m.state}
}

// apply fires b against the current state. It returns false when b has no
// transition in the current mode.
func (m *Menu) apply(b Button) (Transition, bool) {
	from := m.state
	n := len(m.items)
	to := from
	activated := false

	switch from.Mode {
	case ModeMenu:
		switch b {
		case ButtonUp:
			to.Index = mathx.Wrap(from.Index-1, n)
		case ButtonDown:
			to.Index = mathx.Wrap(from.Index+1, n)
		case ButtonRight, ButtonSelect:
			to.Mode = ModeDetail
			activated = true
		default:
			return Transition{}, false
		}
	case ModeDetail:
		switch b {
		case ButtonLeft:
			to.Mode = ModeMenu
		case ButtonSelect:
			activated = true
		default:
			return Transition{}, false
		}
	default:
		return Transition{}, false
	}

	m.state = to
	tr := Transition{
		Changed:   to != from,
		Activated: activated,
		From:      from,
		To:        to,
		Button:    b,
	}
	if activated {
		tr.Item = m.items[to.Index]
	}
	return tr, true
}
