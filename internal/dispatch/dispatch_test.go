package dispatch

import (
	"testing"

	"github.com/extinput/hidremap/internal/policy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recordingDispatcher() (*Dispatcher, *[]policy.Action) {
	var executed []policy.Action
	d := NewDispatcher(func(a policy.Action) { executed = append(executed, a) })
	return d, &executed
}

func TestOnButtonDownExecutesPressStyleImmediately(t *testing.T) {
	d, executed := recordingDispatcher()
	mappings := policy.NewButtonMappings()
	require.NoError(t, mappings.Set(3, policy.OfEditing(policy.Copy)))

	assert.True(t, d.OnButtonDown(3, mappings))
	require.Len(t, *executed, 1)
	assert.Equal(t, policy.Copy, (*executed)[0].Editing)
}

func TestOnButtonDownDefersClickStyleToUp(t *testing.T) {
	d, executed := recordingDispatcher()
	mappings := policy.NewButtonMappings()
	require.NoError(t, mappings.Set(4, policy.OfEditing(policy.MiddleClick)))

	assert.True(t, d.OnButtonDown(4, mappings))
	assert.Empty(t, *executed)

	assert.True(t, d.OnButtonUp(4, mappings))
	require.Len(t, *executed, 1)
}

func TestOnButtonDownUnmappedPassesThrough(t *testing.T) {
	d, executed := recordingDispatcher()
	mappings := policy.NewButtonMappings()
	assert.False(t, d.OnButtonDown(5, mappings))
	assert.Empty(t, *executed)
}

func TestOnButtonUpWithoutMatchingDownPassesThrough(t *testing.T) {
	d, _ := recordingDispatcher()
	mappings := policy.NewButtonMappings()
	require.NoError(t, mappings.Set(3, policy.OfEditing(policy.Copy)))
	assert.False(t, d.OnButtonUp(3, mappings))
}

func TestKeyboardPipelineActiveGating(t *testing.T) {
	excluded := map[string]struct{}{"com.apple.Terminal": {}}

	assert.False(t, KeyboardPipelineActive(false, false, "com.example.app", excluded))
	assert.True(t, KeyboardPipelineActive(true, false, "com.example.app", excluded))
	assert.True(t, KeyboardPipelineActive(false, true, "com.example.app", excluded))
	assert.False(t, KeyboardPipelineActive(true, false, "com.apple.Terminal", excluded))
}

func TestOnKeyDownExecutesMappedComboAndSuppresses(t *testing.T) {
	d, executed := recordingDispatcher()
	remaps := policy.NewKeyboardRemapTable()
	source := policy.KeyCombo{KeyCode: 0x73} // Home
	remaps.Add(policy.KeyboardRemap{Source: policy.CustomSource(source), Target: policy.OfEditing(policy.MoveUp)})

	assert.True(t, d.OnKeyDown(source, remaps, true))
	require.Len(t, *executed, 1)
	assert.Equal(t, policy.MoveUp, (*executed)[0].Editing)

	assert.True(t, d.OnKeyUp(source, true))
}

func TestOnKeyDownInactivePipelinePassesThrough(t *testing.T) {
	d, executed := recordingDispatcher()
	remaps := policy.NewKeyboardRemapTable()
	combo := policy.KeyCombo{KeyCode: 0x73}
	remaps.Add(policy.KeyboardRemap{Source: policy.CustomSource(combo), Target: policy.OfEditing(policy.MoveUp)})

	assert.False(t, d.OnKeyDown(combo, remaps, false))
	assert.Empty(t, *executed)
}

func TestOnKeyDownUnmappedPassesThrough(t *testing.T) {
	d, _ := recordingDispatcher()
	remaps := policy.NewKeyboardRemapTable()
	combo := policy.KeyCombo{KeyCode: 0x12}
	assert.False(t, d.OnKeyDown(combo, remaps, true))
}

func TestOnKeyDownInertMappingPassesThrough(t *testing.T) {
	d, executed := recordingDispatcher()
	remaps := policy.NewKeyboardRemapTable()
	combo := policy.KeyCombo{KeyCode: 0x12}
	remaps.Add(policy.KeyboardRemap{Source: policy.CustomSource(combo), Target: policy.Inert()})

	assert.False(t, d.OnKeyDown(combo, remaps, true))
	assert.Empty(t, *executed)
}

func TestOnKeyUpWithoutMatchingDownPassesThrough(t *testing.T) {
	d, _ := recordingDispatcher()
	combo := policy.KeyCombo{KeyCode: 0x73}
	assert.False(t, d.OnKeyUp(combo, true))
}
