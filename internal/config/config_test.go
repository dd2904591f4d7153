package config

import (
	"path/filepath"
	"testing"

	"github.com/extinput/hidremap/internal/policy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigPathHonorsEnvOverride(t *testing.T) {
	t.Setenv("HIDREMAP_CONFIG", "/tmp/hidremap-test-config.yaml")
	assert.Equal(t, "/tmp/hidremap-test-config.yaml", DefaultConfigPath())
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	t.Setenv("HIDREMAP_CONFIG", filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	s, err := Load()
	require.NoError(t, err)
	assert.True(t, s.MasterMouseEnabled)
	assert.Equal(t, Smooth, s.SmoothLevel)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Setenv("HIDREMAP_CONFIG", filepath.Join(t.TempDir(), "config.yaml"))

	s := Default()
	s.ReverseScroll = true
	s.SmoothLevel = VerySmooth
	s.Modifiers.CommandZoom = true
	s.ExcludedBundleIDs["com.example.game"] = struct{}{}
	require.NoError(t, s.ButtonMappings.Set(3, policy.OfEditing(policy.Back)))
	s.Directions.Set(policy.Up, policy.OfSystem(policy.MissionControl))
	s.KeyboardRemaps.Add(policy.KeyboardRemap{
		Source: policy.NamedSource(policy.Home),
		Target: policy.OfEditing(policy.MoveUp),
	})

	require.NoError(t, Save(s))

	loaded, err := Load()
	require.NoError(t, err)

	assert.True(t, loaded.ReverseScroll)
	assert.Equal(t, VerySmooth, loaded.SmoothLevel)
	assert.True(t, loaded.Modifiers.CommandZoom)
	assert.True(t, loaded.IsBundleExcluded("com.example.game"))

	a, ok := loaded.ButtonMappings.Get(3)
	require.True(t, ok)
	assert.Equal(t, policy.Back, a.Editing)

	a, ok = loaded.Directions.Get(policy.Up)
	require.True(t, ok)
	assert.Equal(t, policy.MissionControl, a.System)

	remap, ok := loaded.KeyboardRemaps.Lookup(policy.KeyCombo{KeyCode: 0x73})
	require.True(t, ok)
	assert.Equal(t, policy.MoveUp, remap.Target.Editing)
}

func TestSettingsCloneIsIndependent(t *testing.T) {
	s := Default()
	require.NoError(t, s.ButtonMappings.Set(2, policy.OfEditing(policy.Copy)))
	s.ExcludedBundleIDs["com.example.a"] = struct{}{}

	clone := s.Clone()
	require.NoError(t, clone.ButtonMappings.Set(2, policy.OfEditing(policy.Paste)))
	clone.ExcludedBundleIDs["com.example.b"] = struct{}{}

	original, ok := s.ButtonMappings.Get(2)
	require.True(t, ok)
	assert.Equal(t, policy.Copy, original.Editing, "mutating the clone must not affect the original")
	assert.False(t, s.IsBundleExcluded("com.example.b"))
}

func TestBridgePublishIsVisibleToSnapshot(t *testing.T) {
	b := NewBridge(Default())
	assert.True(t, b.Snapshot().MasterMouseEnabled)

	updated := Default()
	updated.MasterMouseEnabled = false
	b.Publish(updated)
	assert.False(t, b.Snapshot().MasterMouseEnabled)
}

func TestBridgeFrontmostBundleID(t *testing.T) {
	b := NewBridge(Default())
	assert.Equal(t, "", b.FrontmostBundleID())
	b.SetFrontmostBundleID("com.apple.Safari")
	assert.Equal(t, "com.apple.Safari", b.FrontmostBundleID())
}

func TestBridgeHotPathAppliesOverrides(t *testing.T) {
	s := Default()
	s.Overrides.AssumeExternalKeyboard = true
	b := NewBridge(s)

	tuple := b.HotPath(false, false)
	assert.False(t, tuple.ExternalMousePresent)
	assert.True(t, tuple.ExternalKeyboardPresent, "override should force presence even with no real device")
}
