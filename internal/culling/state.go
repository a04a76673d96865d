package culling

// State is an object's last applied visibility.
type State uint8

const (
	StateUnset State = iota
	StateVisible
	StateInvisible
)

func (s State) String() string {
	switch s {
	case StateVisible:
		return "visible"
	case StateInvisible:
		return "invisible"
	}
	return "unset"
}

func stateFor(visible bool) State {
	if visible {
		return StateVisible
	}
	return StateInvisible
}
