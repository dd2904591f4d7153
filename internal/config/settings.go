// Package config holds the Settings snapshot the tap callbacks read through
// a synchronized Bridge, plus YAML+environment persistence for it, following
// the layering of belowdeck's own internal/config package.
package config

import (
	"github.com/extinput/hidremap/internal/policy"
)

// SmoothLevel selects the Scroll Engine's smoothing preset.
type SmoothLevel uint8

const (
	Off SmoothLevel = iota
	Smooth
	VerySmooth
)

// ModifierBehaviors holds the four per-modifier scroll behaviors §3 names.
type ModifierBehaviors struct {
	ShiftHorizontal bool
	OptionPrecision bool
	PrecisionMult   float64 // 0-1
	ControlFast     bool
	FastMult        float64 // >=1
	CommandZoom     bool
}

// DeviceOverrides force-assumes an external mouse/keyboard is present even
// when the Device Registry disagrees, for machines where HID enumeration
// misclassifies a device.
type DeviceOverrides struct {
	AssumeExternalMouse    bool
	AssumeExternalKeyboard bool
}

// Settings is the full read-mostly policy snapshot described in §3. A
// single *Settings is never mutated after publication — config.Bridge
// swaps in a freshly built one on every change.
type Settings struct {
	MasterMouseEnabled    bool
	MasterKeyboardEnabled bool

	ReverseScroll bool
	SmoothLevel   SmoothLevel

	Modifiers ModifierBehaviors

	DragThresholdPixels float64
	ContinuousGestureOn bool

	Overrides DeviceOverrides

	// Debug gates the rate-limited verbose logging described in §7.
	Debug bool

	ExcludedBundleIDs map[string]struct{}

	ButtonMappings *policy.ButtonMappings
	Directions     policy.DirectionMap
	KeyboardRemaps *policy.KeyboardRemapTable
}

// Default returns the settings a fresh install starts with: master
// mouse/keyboard enables on, no modifier behaviors or reverse scroll
// enabled, smooth scrolling on at the Smooth preset, conservative
// multipliers, and empty mapping tables.
func Default() *Settings {
	return &Settings{
		MasterMouseEnabled:    true,
		MasterKeyboardEnabled: true,
		SmoothLevel:           Smooth,
		Modifiers: ModifierBehaviors{
			PrecisionMult: 0.25,
			FastMult:      3,
		},
		DragThresholdPixels: 12,
		ExcludedBundleIDs:   make(map[string]struct{}),
		ButtonMappings:      policy.NewButtonMappings(),
		KeyboardRemaps:      policy.NewKeyboardRemapTable(),
	}
}

// IsBundleExcluded reports whether bundleID is in the keyboard-remap
// exclusion set.
func (s *Settings) IsBundleExcluded(bundleID string) bool {
	_, excluded := s.ExcludedBundleIDs[bundleID]
	return excluded
}

// Clone returns a deep-enough copy safe to mutate and republish through a
// Bridge without affecting the snapshot in flight to readers.
func (s *Settings) Clone() *Settings {
	c := *s
	c.ExcludedBundleIDs = make(map[string]struct{}, len(s.ExcludedBundleIDs))
	for id := range s.ExcludedBundleIDs {
		c.ExcludedBundleIDs[id] = struct{}{}
	}
	buttons := policy.NewButtonMappings()
	for _, m := range s.ButtonMappings.All() {
		_ = buttons.Set(m.Button, m.Action)
	}
	c.ButtonMappings = buttons
	remaps := policy.NewKeyboardRemapTable()
	for _, r := range s.KeyboardRemaps.All() {
		remaps.Add(r)
	}
	c.KeyboardRemaps = remaps
	return &c
}
