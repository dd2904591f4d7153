package policy

import "fmt"

// Direction is one of the four drag directions a committed continuous
// gesture can lock onto (§3 Drag direction mapping).
type Direction uint8

const (
	Up Direction = iota
	Down
	Left
	Right
)

// MouseButtonMapping pairs an auxiliary button number with an action.
// Buttons 0 and 1 are the reserved primary clicks and are rejected by
// ButtonMappings.Set.
type MouseButtonMapping struct {
	Button uint8
	Action Action
}

// ButtonMappings is the ordered, at-most-one-per-button collection §3
// describes. Ordering is preserved for display purposes; lookup is by a
// small index map since button numbers are sparse.
type ButtonMappings struct {
	order []uint8
	byNum map[uint8]Action
}

// NewButtonMappings returns an empty mapping collection.
func NewButtonMappings() *ButtonMappings {
	return &ButtonMappings{byNum: make(map[uint8]Action)}
}

// Set assigns (or replaces) the action for a button. Rejects primary
// buttons 0 and 1 at policy time, per §3 and the boundary behavior in §8.
func (b *ButtonMappings) Set(button uint8, action Action) error {
	if button < 2 {
		return fmt.Errorf("policy: button %d is a reserved primary click and cannot be remapped", button)
	}
	if _, exists := b.byNum[button]; !exists {
		b.order = append(b.order, button)
	}
	b.byNum[button] = action
	return nil
}

// Get returns the action configured for button, if any.
func (b *ButtonMappings) Get(button uint8) (Action, bool) {
	a, ok := b.byNum[button]
	return a, ok
}

// Remove clears any mapping for button.
func (b *ButtonMappings) Remove(button uint8) {
	if _, ok := b.byNum[button]; !ok {
		return
	}
	delete(b.byNum, button)
	for i, n := range b.order {
		if n == button {
			b.order = append(b.order[:i], b.order[i+1:]...)
			break
		}
	}
}

// All returns the mappings in insertion order.
func (b *ButtonMappings) All() []MouseButtonMapping {
	out := make([]MouseButtonMapping, 0, len(b.order))
	for _, n := range b.order {
		out = append(out, MouseButtonMapping{Button: n, Action: b.byNum[n]})
	}
	return out
}

// DirectionMap maps each of the four drag directions to at most one action.
// A plain fixed-size array indexed by direction ordinal avoids hashing on
// the hot path (§9 design notes).
type DirectionMap [4]*Action

// Set assigns the action for a direction.
func (d *DirectionMap) Set(dir Direction, action Action) {
	a := action
	d[dir] = &a
}

// Get returns the action for a direction, if configured.
func (d *DirectionMap) Get(dir Direction) (Action, bool) {
	if d[dir] == nil {
		return Action{}, false
	}
	return *d[dir], true
}

// All returns the configured direction/action pairs, in Up/Down/Left/Right
// order.
func (d *DirectionMap) All() []struct {
	Direction Direction
	Action    Action
} {
	var out []struct {
		Direction Direction
		Action    Action
	}
	for dir := Up; dir <= Right; dir++ {
		if a, ok := d.Get(dir); ok {
			out = append(out, struct {
				Direction Direction
				Action    Action
			}{dir, a})
		}
	}
	return out
}

// NamedKey is the small closed set of special keys §3 allows as a keyboard
// remap source without specifying a raw (keycode, modifier) pair.
type NamedKey uint8

const (
	Home NamedKey = iota
	End
	Insert
	ForwardDelete
	PageUp
	PageDown
	PrintScreen
)

// namedKeyCodes gives each named key its real virtual key code, with no
// modifiers — these are dedicated physical keys.
var namedKeyCodes = map[NamedKey]uint16{
	Home:          0x73,
	End:           0x77,
	Insert:        0x72, // mapped from Help on most external keyboards
	ForwardDelete: 0x75,
	PageUp:        0x74,
	PageDown:      0x79,
	PrintScreen:   0x69, // F13 on most external keyboards
}

// KeySource identifies the origin side of a keyboard remap: either one of
// the named keys or an arbitrary custom combo.
type KeySource struct {
	named   NamedKey
	isNamed bool
	custom  KeyCombo
}

// NamedSource builds a KeySource from the closed set of named keys.
func NamedSource(n NamedKey) KeySource { return KeySource{named: n, isNamed: true} }

// CustomSource builds a KeySource from an arbitrary (keycode, modifier) pair.
func CustomSource(k KeyCombo) KeySource { return KeySource{custom: k} }

// Canonical resolves the source to the KeyCombo used for matching.
func (s KeySource) Canonical() KeyCombo {
	if s.isNamed {
		return KeyCombo{KeyCode: namedKeyCodes[s.named]}
	}
	return s.custom
}

// IsNamed reports whether the source is one of the closed named-key set,
// as opposed to a custom (keycode, modifier) pair. Used by settings
// persistence to pick an encoding.
func (s KeySource) IsNamed() bool { return s.isNamed }

// Named returns the named key. Only meaningful when IsNamed is true.
func (s KeySource) Named() NamedKey { return s.named }

// Custom returns the custom combo. Only meaningful when IsNamed is false.
func (s KeySource) Custom() KeyCombo { return s.custom }

// KeyboardRemap pairs a source key with the action it should trigger.
type KeyboardRemap struct {
	Source KeySource
	Target Action
}

// KeyboardRemapTable is the canonical-keycode-keyed lookup §4.5 reads from
// on every key event.
type KeyboardRemapTable struct {
	byCombo map[uint64]KeyboardRemap
}

// NewKeyboardRemapTable returns an empty remap table.
func NewKeyboardRemapTable() *KeyboardRemapTable {
	return &KeyboardRemapTable{byCombo: make(map[uint64]KeyboardRemap)}
}

// Add installs a remap, keyed by its source's canonical combo.
func (t *KeyboardRemapTable) Add(remap KeyboardRemap) {
	t.byCombo[remap.Source.Canonical().canonicalKey()] = remap
}

// Lookup finds the remap (if any) whose source matches combo, canonically.
func (t *KeyboardRemapTable) Lookup(combo KeyCombo) (KeyboardRemap, bool) {
	r, ok := t.byCombo[combo.canonicalKey()]
	return r, ok
}

// All returns every configured remap, in no particular order.
func (t *KeyboardRemapTable) All() []KeyboardRemap {
	out := make([]KeyboardRemap, 0, len(t.byCombo))
	for _, r := range t.byCombo {
		out = append(out, r)
	}
	return out
}
