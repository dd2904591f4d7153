package policy

// ActionKind tags which variant of Action is populated.
type ActionKind uint8

const (
	// ActionInert passes the triggering event through (or merely suppresses
	// it, for contexts where pass-through isn't an option).
	ActionInert ActionKind = iota
	// ActionSystem fires one of the platform's named system gestures.
	ActionSystem
	// ActionEditing fires a named editing/navigation shortcut.
	ActionEditing
	// ActionCustom fires an arbitrary user-chosen key combination.
	ActionCustom
)

// SystemAction enumerates the platform-level gestures §3 lists. All six
// are continuous-capable (§4.4).
type SystemAction uint8

const (
	MissionControl SystemAction = iota
	AppExpose
	ShowDesktop
	Launchpad
	SwitchSpaceLeft
	SwitchSpaceRight
)

// continuousCapable is the §4.4 set of system actions a DockSwipe can drive.
var continuousCapable = map[SystemAction]bool{
	MissionControl:   true,
	AppExpose:        true,
	ShowDesktop:      true,
	Launchpad:        true,
	SwitchSpaceLeft:  true,
	SwitchSpaceRight: true,
}

// EditingAction enumerates the named editing/navigation shortcuts §3 lists,
// including the cursor-motion equivalents used by keyboard remaps.
type EditingAction uint8

const (
	Back EditingAction = iota
	Forward
	Copy
	Cut
	Paste
	Undo
	Redo
	SelectAll
	Fullscreen
	MiddleClick
	MoveUp
	MoveDown
	MoveLeft
	MoveRight
)

// editingCombos gives each named editing action its default key combination.
// MiddleClick has no combo — it's driven by a synthesized mouse click, not a
// keyboard combo (see internal/dispatch).
var editingCombos = map[EditingAction]KeyCombo{
	Back:       {KeyCode: 0x21, Modifiers: ModCommand},                // Cmd+[
	Forward:    {KeyCode: 0x1E, Modifiers: ModCommand},                // Cmd+]
	Copy:       {KeyCode: 0x08, Modifiers: ModCommand},                // Cmd+C
	Cut:        {KeyCode: 0x07, Modifiers: ModCommand},                // Cmd+X
	Paste:      {KeyCode: 0x09, Modifiers: ModCommand},                // Cmd+V
	Undo:       {KeyCode: 0x06, Modifiers: ModCommand},                // Cmd+Z
	Redo:       {KeyCode: 0x06, Modifiers: ModCommand | ModShift},     // Cmd+Shift+Z
	SelectAll:  {KeyCode: 0x00, Modifiers: ModCommand},                // Cmd+A
	Fullscreen: {KeyCode: 0x03, Modifiers: ModControl | ModCommand},   // Ctrl+Cmd+F
	MoveUp:     {KeyCode: 0x7E, Modifiers: 0},
	MoveDown:   {KeyCode: 0x7D, Modifiers: 0},
	MoveLeft:   {KeyCode: 0x7B, Modifiers: 0},
	MoveRight:  {KeyCode: 0x7C, Modifiers: 0},
}

// Action is the tagged variant described in §3. Only the field matching
// Kind is meaningful.
type Action struct {
	Kind    ActionKind
	System  SystemAction
	Editing EditingAction
	Combo   KeyCombo
}

// Inert returns the pass-through/suppress action.
func Inert() Action { return Action{Kind: ActionInert} }

// OfSystem returns a named system action.
func OfSystem(s SystemAction) Action { return Action{Kind: ActionSystem, System: s} }

// OfEditing returns a named editing action.
func OfEditing(e EditingAction) Action { return Action{Kind: ActionEditing, Editing: e} }

// OfCombo returns a custom key-combo action.
func OfCombo(k KeyCombo) Action { return Action{Kind: ActionCustom, Combo: k} }

// IsInert reports whether the action is a no-op.
func (a Action) IsInert() bool { return a.Kind == ActionInert }

// ContinuousCapable reports whether the Gesture Engine can drive this
// action via a DockSwipe rather than firing it as a discrete shortcut
// (§4.4).
func (a Action) ContinuousCapable() bool {
	return a.Kind == ActionSystem && continuousCapable[a.System]
}

// KeyCombo resolves an editing or custom action to the combo that should be
// synthesized for it. Returns false for system actions, which are driven by
// symbolic hotkeys or dedicated HID codes instead (§4.5), and for inert.
func (a Action) KeyCombo() (KeyCombo, bool) {
	switch a.Kind {
	case ActionCustom:
		return a.Combo, true
	case ActionEditing:
		if a.Editing == MiddleClick {
			return KeyCombo{}, false
		}
		combo, ok := editingCombos[a.Editing]
		return combo, ok
	default:
		return KeyCombo{}, false
	}
}
