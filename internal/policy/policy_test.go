package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModifierMaskCanonical(t *testing.T) {
	m := ModControl | ModShift | ModFunction
	assert.Equal(t, ModControl|ModShift, m.Canonical())
	assert.Equal(t, m.Canonical(), m.Canonical().Canonical())
}

func TestKeyComboEqualIgnoresFunctionBit(t *testing.T) {
	a := KeyCombo{KeyCode: 0x08, Modifiers: ModCommand}
	b := KeyCombo{KeyCode: 0x08, Modifiers: ModCommand | ModFunction}
	assert.True(t, a.Equal(b))

	c := KeyCombo{KeyCode: 0x08, Modifiers: ModCommand | ModShift}
	assert.False(t, a.Equal(c))
}

func TestKeyComboDisplayStringRoundTrip(t *testing.T) {
	cases := []KeyCombo{
		{KeyCode: 0x08, Modifiers: ModCommand},
		{KeyCode: 0x06, Modifiers: ModCommand | ModShift},
		{KeyCode: 0x03, Modifiers: ModControl | ModCommand},
		{KeyCode: 0x73},
	}
	for _, combo := range cases {
		s := combo.DisplayString()
		parsed, err := ParseDisplayString(s)
		require.NoError(t, err)
		assert.True(t, combo.Equal(parsed), "round trip of %q produced %+v, want %+v", s, parsed, combo)
	}
}

func TestParseDisplayStringRejectsEmptyKey(t *testing.T) {
	_, err := ParseDisplayString("⌘⇧")
	require.Error(t, err)
}

func TestActionContinuousCapable(t *testing.T) {
	assert.True(t, OfSystem(MissionControl).ContinuousCapable())
	assert.True(t, OfSystem(SwitchSpaceRight).ContinuousCapable())
	assert.False(t, OfEditing(Copy).ContinuousCapable())
	assert.False(t, Inert().ContinuousCapable())
}

func TestActionKeyComboResolution(t *testing.T) {
	combo, ok := OfEditing(Copy).KeyCombo()
	require.True(t, ok)
	assert.Equal(t, KeyCombo{KeyCode: 0x08, Modifiers: ModCommand}, combo)

	_, ok = OfEditing(MiddleClick).KeyCombo()
	assert.False(t, ok, "middle click has no key combo, it's a synthesized mouse click")

	_, ok = OfSystem(MissionControl).KeyCombo()
	assert.False(t, ok, "system actions resolve via symbolic hotkeys, not KeyCombo")

	custom := OfCombo(KeyCombo{KeyCode: 0x31, Modifiers: ModOption})
	combo, ok = custom.KeyCombo()
	require.True(t, ok)
	assert.Equal(t, uint16(0x31), combo.KeyCode)
}

func TestButtonMappingsRejectsPrimaryButtons(t *testing.T) {
	bm := NewButtonMappings()
	require.Error(t, bm.Set(0, OfEditing(Back)))
	require.Error(t, bm.Set(1, OfEditing(Forward)))
	assert.Empty(t, bm.All())
}

func TestButtonMappingsSetGetRemove(t *testing.T) {
	bm := NewButtonMappings()
	require.NoError(t, bm.Set(2, OfEditing(Back)))
	require.NoError(t, bm.Set(3, OfEditing(Forward)))

	a, ok := bm.Get(2)
	require.True(t, ok)
	assert.Equal(t, Back, a.Editing)

	require.NoError(t, bm.Set(2, OfEditing(Copy)))
	a, ok = bm.Get(2)
	require.True(t, ok)
	assert.Equal(t, Copy, a.Editing, "Set on an existing button replaces, not duplicates")
	assert.Len(t, bm.All(), 2)

	bm.Remove(2)
	_, ok = bm.Get(2)
	assert.False(t, ok)
	assert.Len(t, bm.All(), 1)
}

func TestDirectionMapAtMostOnePerDirection(t *testing.T) {
	var dm DirectionMap
	dm.Set(Up, OfSystem(MissionControl))
	dm.Set(Up, OfSystem(ShowDesktop))

	a, ok := dm.Get(Up)
	require.True(t, ok)
	assert.Equal(t, ShowDesktop, a.System, "second Set on the same direction replaces the first")

	_, ok = dm.Get(Down)
	assert.False(t, ok)
}

func TestKeySourceCanonical(t *testing.T) {
	assert.Equal(t, KeyCombo{KeyCode: 0x73}, NamedSource(Home).Canonical())

	custom := KeyCombo{KeyCode: 0x31, Modifiers: ModOption}
	assert.Equal(t, custom, CustomSource(custom).Canonical())
}

func TestKeyboardRemapTableLookup(t *testing.T) {
	table := NewKeyboardRemapTable()
	table.Add(KeyboardRemap{Source: NamedSource(Home), Target: OfEditing(MoveUp)})
	table.Add(KeyboardRemap{
		Source: CustomSource(KeyCombo{KeyCode: 0x31, Modifiers: ModOption}),
		Target: OfSystem(Launchpad),
	})

	remap, ok := table.Lookup(KeyCombo{KeyCode: 0x73})
	require.True(t, ok)
	assert.Equal(t, MoveUp, remap.Target.Editing)

	remap, ok = table.Lookup(KeyCombo{KeyCode: 0x31, Modifiers: ModOption | ModFunction})
	require.True(t, ok, "lookup canonicalizes modifiers, ignoring the Function bit")
	assert.Equal(t, Launchpad, remap.Target.System)

	_, ok = table.Lookup(KeyCombo{KeyCode: 0x24})
	assert.False(t, ok)
}
