// Package policy defines the data model shared by settings, the dispatcher,
// and the gesture/scroll engines: key combinations, mouse/drag/keyboard
// mappings, and the tagged Action variant they all resolve to.
package policy

import (
	"fmt"
	"strconv"
	"strings"
)

// ModifierMask is a bitfield over modifier keys. Only the four primary bits
// participate in canonical comparisons; Function and any future bits are
// carried but ignored by Equal/Canonical.
type ModifierMask uint64

const (
	ModControl ModifierMask = 1 << iota
	ModOption
	ModShift
	ModCommand
	ModFunction
)

// primaryMods is the canonical subset used for combo equality (§3: "the
// four primary modifiers only; layout/caps-lock bits are ignored").
const primaryMods = ModControl | ModOption | ModShift | ModCommand

// Canonical returns the mask restricted to the four primary modifiers.
func (m ModifierMask) Canonical() ModifierMask {
	return m & primaryMods
}

// KeyCombo is a virtual key code paired with a modifier mask.
type KeyCombo struct {
	KeyCode   uint16
	Modifiers ModifierMask
}

// Equal compares two combos by key code and canonical modifier subset.
// Canonicalizing before comparison is idempotent: canonicalizing an already
// canonical mask is a no-op, so Equal is stable under repeated calls.
func (k KeyCombo) Equal(other KeyCombo) bool {
	return k.KeyCode == other.KeyCode && k.Modifiers.Canonical() == other.Modifiers.Canonical()
}

// canonicalKey packs a combo's canonical form into a single comparable
// value, used as the map key by KeyboardRemapTable (a map keyed on this
// avoids any custom hashing on the hot path beyond the packing itself).
func (k KeyCombo) canonicalKey() uint64 {
	return uint64(k.KeyCode) | uint64(k.Modifiers.Canonical())<<16
}

var modifierSymbols = []struct {
	bit ModifierMask
	sym string
}{
	{ModControl, "⌃"}, // ⌃
	{ModOption, "⌥"},  // ⌥
	{ModShift, "⇧"},   // ⇧
	{ModCommand, "⌘"}, // ⌘
}

// keyDisplayNames covers common letters, brackets, whitespace/editing keys
// and function keys used in default action combos; anything else
// (including digits and the named navigation keys such as Home) falls back
// to a decodable hex form.
var keyDisplayNames = map[uint16]string{
	0x00: "A", 0x01: "S", 0x02: "D", 0x03: "F", 0x05: "G", 0x06: "Z", 0x07: "X",
	0x08: "C", 0x09: "V", 0x0B: "B", 0x0C: "Q", 0x0D: "W", 0x0E: "E", 0x0F: "R",
	0x10: "Y", 0x11: "T", 0x1F: "O", 0x20: "U", 0x22: "I", 0x23: "P", 0x25: "L",
	0x26: "J", 0x28: "K", 0x2D: "N", 0x2E: "M", 0x21: "[", 0x1E: "]",
	0x31: "Space", 0x24: "Return", 0x35: "Escape", 0x33: "Delete", 0x30: "Tab",
	0x60: "F5", 0x61: "F6", 0x62: "F7", 0x63: "F3", 0x64: "F8", 0x65: "F9",
	0x67: "F11", 0x6D: "F10", 0x6F: "F12", 0x76: "F4", 0x78: "F2", 0x7A: "F1",
}

var displayNameToKey = func() map[string]uint16 {
	m := make(map[string]uint16, len(keyDisplayNames))
	for code, name := range keyDisplayNames {
		m[name] = code
	}
	return m
}()

// DisplayString renders a combo as the conventional macOS modifier-glyph
// prefix followed by the key name, e.g. "⇧⌘C" or "⌃Key0x73" for keys with
// no friendly name on record.
func (k KeyCombo) DisplayString() string {
	var b strings.Builder
	for _, m := range modifierSymbols {
		if k.Modifiers.Canonical()&m.bit != 0 {
			b.WriteString(m.sym)
		}
	}
	if name, ok := keyDisplayNames[k.KeyCode]; ok {
		b.WriteString(name)
	} else {
		fmt.Fprintf(&b, "Key0x%02X", k.KeyCode)
	}
	return b.String()
}

// ParseDisplayString is the inverse of DisplayString, restricted to the four
// primary modifiers as required for a lossless round trip.
func ParseDisplayString(s string) (KeyCombo, error) {
	var k KeyCombo
	rest := s
	for _, m := range modifierSymbols {
		if strings.HasPrefix(rest, m.sym) {
			k.Modifiers |= m.bit
			rest = strings.TrimPrefix(rest, m.sym)
		}
	}
	if rest == "" {
		return KeyCombo{}, fmt.Errorf("policy: empty key in display string %q", s)
	}
	if code, ok := displayNameToKey[rest]; ok {
		k.KeyCode = code
		return k, nil
	}
	if strings.HasPrefix(rest, "Key0x") {
		v, err := strconv.ParseUint(strings.TrimPrefix(rest, "Key0x"), 16, 16)
		if err != nil {
			return KeyCombo{}, fmt.Errorf("policy: malformed key code %q: %w", rest, err)
		}
		k.KeyCode = uint16(v)
		return k, nil
	}
	return KeyCombo{}, fmt.Errorf("policy: unrecognized key name %q", rest)
}
