// Package dispatch implements the Button & Key Dispatcher (§4.5): auxiliary
// button mapping execution and the keyboard-remap pipeline.
package dispatch

import (
	"sync"

	"github.com/extinput/hidremap/internal/policy"
)

// Dispatcher tracks which buttons/keys it has swallowed the down event for,
// so the matching up event is swallowed too even if settings change
// mid-press.
type Dispatcher struct {
	mu sync.Mutex

	execute func(policy.Action)

	pressedButtons map[uint8]bool
	pressedKeys    map[uint16]bool
}

// NewDispatcher returns a Dispatcher that runs actions via execute (the
// darwin-backed system/editing/custom action synthesizer in production,
// a recording fake in tests).
func NewDispatcher(execute func(policy.Action)) *Dispatcher {
	return &Dispatcher{
		execute:        execute,
		pressedButtons: make(map[uint8]bool),
		pressedKeys:    make(map[uint16]bool),
	}
}

// Execute runs action directly, satisfying internal/gesture.ActionExecutor
// so the Gesture Engine's discrete-direction and middle-click actions run
// through the same executor as button/key mappings.
func (d *Dispatcher) Execute(a policy.Action) {
	d.execute(a)
}

func isClickStyle(a policy.Action) bool {
	return a.Kind == policy.ActionEditing && a.Editing == policy.MiddleClick
}

// OnButtonDown implements §4.5's "Buttons": for a configured mapping,
// swallow the down and, for press-style actions, execute immediately.
// Click-style actions (MiddleClick) defer execution to the matching up.
// Returns false (pass through) if button has no mapping.
func (d *Dispatcher) OnButtonDown(button uint8, mappings *policy.ButtonMappings) (suppress bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	action, ok := mappings.Get(button)
	if !ok {
		return false
	}
	d.pressedButtons[button] = true
	if !isClickStyle(action) {
		d.execute(action)
	}
	return true
}

// OnButtonUp completes a click-style action and always swallows the up
// event for a button whose down was swallowed, even if the mapping was
// removed mid-press. Returns false if this button's down was never
// swallowed (the button had no mapping when it went down).
func (d *Dispatcher) OnButtonUp(button uint8, mappings *policy.ButtonMappings) (suppress bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.pressedButtons[button] {
		return false
	}
	delete(d.pressedButtons, button)

	if action, ok := mappings.Get(button); ok && isClickStyle(action) {
		d.execute(action)
	}
	return true
}

// KeyboardPipelineActive implements §4.5's keyboard-remap gate: the
// pipeline runs iff an external keyboard is present (or the device
// override forces the assumption) and the frontmost application's bundle
// id is not excluded.
func KeyboardPipelineActive(externalKeyboardPresent, assumeExternalKeyboard bool, frontmostBundleID string, excludedBundleIDs map[string]struct{}) bool {
	if !externalKeyboardPresent && !assumeExternalKeyboard {
		return false
	}
	_, excluded := excludedBundleIDs[frontmostBundleID]
	return !excluded
}

// OnKeyDown looks up combo in remaps; if a non-inert mapping exists it
// executes the target and reports the original should be suppressed.
// Returns false (pass through) if the pipeline is inactive, unmapped, or
// the mapping is inert.
func (d *Dispatcher) OnKeyDown(combo policy.KeyCombo, remaps *policy.KeyboardRemapTable, pipelineActive bool) (suppress bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !pipelineActive {
		return false
	}
	remap, ok := remaps.Lookup(combo)
	if !ok || remap.Target.IsInert() {
		return false
	}
	d.pressedKeys[combo.KeyCode] = true
	d.execute(remap.Target)
	return true
}

// OnKeyUp suppresses the up event for a key whose down was suppressed.
func (d *Dispatcher) OnKeyUp(combo policy.KeyCombo, pipelineActive bool) (suppress bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !pipelineActive || !d.pressedKeys[combo.KeyCode] {
		return false
	}
	delete(d.pressedKeys, combo.KeyCode)
	return true
}
