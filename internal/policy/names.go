package policy

import "fmt"

// String renders the system action's wire/display name, used by settings
// persistence and the status/doctor CLI output.
func (s SystemAction) String() string {
	switch s {
	case MissionControl:
		return "mission-control"
	case AppExpose:
		return "app-expose"
	case ShowDesktop:
		return "show-desktop"
	case Launchpad:
		return "launchpad"
	case SwitchSpaceLeft:
		return "switch-space-left"
	case SwitchSpaceRight:
		return "switch-space-right"
	default:
		return fmt.Sprintf("system-action(%d)", uint8(s))
	}
}

// ParseSystemAction is the inverse of String, used when decoding settings.
func ParseSystemAction(s string) (SystemAction, error) {
	for _, a := range []SystemAction{MissionControl, AppExpose, ShowDesktop, Launchpad, SwitchSpaceLeft, SwitchSpaceRight} {
		if a.String() == s {
			return a, nil
		}
	}
	return 0, fmt.Errorf("policy: unrecognized system action %q", s)
}

// String renders the editing action's wire/display name.
func (e EditingAction) String() string {
	switch e {
	case Back:
		return "back"
	case Forward:
		return "forward"
	case Copy:
		return "copy"
	case Cut:
		return "cut"
	case Paste:
		return "paste"
	case Undo:
		return "undo"
	case Redo:
		return "redo"
	case SelectAll:
		return "select-all"
	case Fullscreen:
		return "fullscreen"
	case MiddleClick:
		return "middle-click"
	case MoveUp:
		return "move-up"
	case MoveDown:
		return "move-down"
	case MoveLeft:
		return "move-left"
	case MoveRight:
		return "move-right"
	default:
		return fmt.Sprintf("editing-action(%d)", uint8(e))
	}
}

// ParseEditingAction is the inverse of String.
func ParseEditingAction(s string) (EditingAction, error) {
	all := []EditingAction{Back, Forward, Copy, Cut, Paste, Undo, Redo, SelectAll, Fullscreen, MiddleClick, MoveUp, MoveDown, MoveLeft, MoveRight}
	for _, a := range all {
		if a.String() == s {
			return a, nil
		}
	}
	return 0, fmt.Errorf("policy: unrecognized editing action %q", s)
}

// String renders the named key's wire/display name.
func (n NamedKey) String() string {
	switch n {
	case Home:
		return "home"
	case End:
		return "end"
	case Insert:
		return "insert"
	case ForwardDelete:
		return "forward-delete"
	case PageUp:
		return "page-up"
	case PageDown:
		return "page-down"
	case PrintScreen:
		return "print-screen"
	default:
		return fmt.Sprintf("named-key(%d)", uint8(n))
	}
}

// ParseNamedKey is the inverse of String.
func ParseNamedKey(s string) (NamedKey, error) {
	all := []NamedKey{Home, End, Insert, ForwardDelete, PageUp, PageDown, PrintScreen}
	for _, n := range all {
		if n.String() == s {
			return n, nil
		}
	}
	return 0, fmt.Errorf("policy: unrecognized named key %q", s)
}

// String renders the drag direction's wire/display name.
func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return fmt.Sprintf("direction(%d)", uint8(d))
	}
}

// ParseDirection is the inverse of String.
func ParseDirection(s string) (Direction, error) {
	for _, d := range []Direction{Up, Down, Left, Right} {
		if d.String() == s {
			return d, nil
		}
	}
	return 0, fmt.Errorf("policy: unrecognized direction %q", s)
}
