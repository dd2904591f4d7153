package scroll

import (
	"testing"
	"time"

	"github.com/extinput/hidremap/internal/policy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWheelEventOriginClassification(t *testing.T) {
	mouse := WheelEvent{MomentumPhase: 0, ScrollPhase: 0}
	assert.True(t, mouse.IsMouseOrigin())
	assert.False(t, mouse.IsTrackpadOrigin())

	trackpad := WheelEvent{IsContinuous: true, ScrollPhase: 1}
	assert.False(t, trackpad.IsMouseOrigin())
	assert.True(t, trackpad.IsTrackpadOrigin())
}

func TestApplyModifiersShiftSwapsAxes(t *testing.T) {
	w := WheelEvent{DeltaAxis1: 5, Modifiers: policy.ModShift}
	settings := ModifierSettings{ShiftHorizontal: true}

	out, changed := ApplyModifiers(w, settings)
	require.True(t, changed)
	assert.Equal(t, int32(0), out.DeltaAxis1)
	assert.Equal(t, int32(5), out.DeltaAxis2)
}

func TestApplyModifiersSkipsTrackpadOrigin(t *testing.T) {
	w := WheelEvent{IsContinuous: true, ScrollPhase: 1, Modifiers: policy.ModShift}
	settings := ModifierSettings{ShiftHorizontal: true}

	out, changed := ApplyModifiers(w, settings)
	assert.False(t, changed)
	assert.Equal(t, w, out)
}

func TestApplyModifiersPrecisionAndFastScaling(t *testing.T) {
	w := WheelEvent{DeltaAxis1: 10, Modifiers: policy.ModOption}
	settings := ModifierSettings{OptionPrecision: true, PrecisionMult: 0.25}

	out, changed := ApplyModifiers(w, settings)
	require.True(t, changed)
	assert.Equal(t, int32(2), out.DeltaAxis1)

	w2 := WheelEvent{DeltaAxis1: 10, Modifiers: policy.ModControl}
	settings2 := ModifierSettings{ControlFast: true, FastMult: 3}
	out2, changed2 := ApplyModifiers(w2, settings2)
	require.True(t, changed2)
	assert.Equal(t, int32(30), out2.DeltaAxis1)
}

func TestApplyModifiersReversalRequiresExternalMouse(t *testing.T) {
	w := WheelEvent{DeltaAxis1: 4}
	settings := ModifierSettings{ReverseScroll: true, ExternalMouse: false}
	out, changed := ApplyModifiers(w, settings)
	assert.False(t, changed)
	assert.Equal(t, int32(4), out.DeltaAxis1)

	settings.ExternalMouse = true
	out2, changed2 := ApplyModifiers(w, settings)
	require.True(t, changed2)
	assert.Equal(t, int32(-4), out2.DeltaAxis1)
}

func TestSmoothEligibleRejectsOptionAndFast(t *testing.T) {
	base := WheelEvent{DeltaAxis1: 1}
	assert.True(t, SmoothEligible(base, ModifierSettings{}, true))
	assert.False(t, SmoothEligible(base, ModifierSettings{}, false))

	withOption := WheelEvent{DeltaAxis1: 1, Modifiers: policy.ModOption}
	assert.False(t, SmoothEligible(withOption, ModifierSettings{}, true))

	withControl := WheelEvent{DeltaAxis1: 1, Modifiers: policy.ModControl}
	assert.False(t, SmoothEligible(withControl, ModifierSettings{ControlFast: true}, true))
}

func TestZoomTrackerEmitsBeganThenChanged(t *testing.T) {
	var z ZoomTracker
	events := z.OnWheelTick(50)
	require.Len(t, events, 2)
	assert.Equal(t, int64(1), events[0].Phase)
	assert.Equal(t, float64(0), events[0].Magnification)
	assert.Equal(t, int64(2), events[1].Phase)
	assert.Equal(t, 1.0, events[1].Magnification)

	events2 := z.OnWheelTick(25)
	require.Len(t, events2, 1)
	assert.Equal(t, 0.5, events2[0].Magnification)

	assert.True(t, z.Active())
	end := z.OnTimeoutOrRelease()
	require.NotNil(t, end)
	assert.Equal(t, int64(4), end.Phase)
	assert.False(t, z.Active())
	assert.Nil(t, z.OnTimeoutOrRelease())
}

func TestAnimatorBeginsAndEasesTowardTarget(t *testing.T) {
	a := NewAnimator(SmoothPreset)
	start := time.Now()
	a.OnInput(start, 6, 0) // 6 ticks * 60px/tick = 360px target

	emissions := a.Tick(start.Add(10 * time.Millisecond))
	require.Len(t, emissions, 2)
	assert.Equal(t, EmitBegan, emissions[0].Kind)
	assert.Equal(t, EmitScroll, emissions[1].Kind)
	assert.Equal(t, Animating, a.Phase())

	emissions2 := a.Tick(start.Add(20 * time.Millisecond))
	require.Len(t, emissions2, 1)
	assert.Equal(t, EmitScroll, emissions2[0].Kind)
}

func TestAnimatorConvergesToTickDeltaTimesPxPerTick(t *testing.T) {
	a := NewAnimator(SmoothPreset)
	start := time.Now()
	a.OnInput(start, 3, 0)

	var sum int32
	now := start
	for i := 0; i < 200 && a.Phase() != Idle; i++ {
		now = now.Add(16 * time.Millisecond)
		for _, e := range a.Tick(now) {
			sum += e.DeltaY
		}
	}

	want := 3.0 * SmoothPreset.PxPerTick
	assert.InDelta(t, want, float64(sum), 1)
}

func TestAnimatorTransitionsToMomentumOnDurationComplete(t *testing.T) {
	a := NewAnimator(SmoothPreset)
	start := time.Now()
	a.OnInput(start, 6, 0)

	// advance well past the preset duration (140ms)
	emissions := a.Tick(start.Add(200 * time.Millisecond))
	require.NotEmpty(t, emissions)
	var sawEnded bool
	for _, e := range emissions {
		if e.Kind == EmitGestureEnded {
			sawEnded = true
		}
	}
	assert.True(t, sawEnded)
	assert.Equal(t, Momentum, a.Phase())
}

func TestAnimatorInputTimeoutTriggersEarlyMomentum(t *testing.T) {
	a := NewAnimator(SmoothPreset)
	start := time.Now()
	a.OnInput(start, 6, 0)

	// no further input; jump past the 80ms input timeout but before the
	// 140ms animation duration completes on its own.
	emissions := a.Tick(start.Add(100 * time.Millisecond))
	require.NotEmpty(t, emissions)
	assert.Equal(t, Momentum, a.Phase())
}

func TestAnimatorMomentumEventuallyStopsAndResetsIdle(t *testing.T) {
	a := NewAnimator(SmoothPreset)
	start := time.Now()
	a.OnInput(start, 6, 0)
	now := start

	for i := 0; i < 200 && a.Phase() != Idle; i++ {
		now = now.Add(16 * time.Millisecond)
		a.Tick(now)
	}
	assert.Equal(t, Idle, a.Phase())
}

func TestAnimatorCancelResetsImmediately(t *testing.T) {
	a := NewAnimator(SmoothPreset)
	a.OnInput(time.Now(), 6, 0)
	require.NotEqual(t, Idle, a.Phase())
	a.Cancel()
	assert.Equal(t, Idle, a.Phase())
	assert.Nil(t, a.Tick(time.Now()))
}

func TestEngineHandleWheelRoutesZoomWhenCommandHeld(t *testing.T) {
	e := NewEngine(SmoothPreset)
	decision := e.HandleWheel(time.Now(), WheelEvent{DeltaAxis1: 50}, ModifierSettings{}, true, true)
	assert.True(t, decision.Suppress)
	require.Len(t, decision.Zoom, 2)
}

func TestEngineHandleWheelDrivesAnimatorWhenSmoothEligible(t *testing.T) {
	e := NewEngine(SmoothPreset)
	decision := e.HandleWheel(time.Now(), WheelEvent{DeltaAxis1: 4}, ModifierSettings{}, false, true)
	assert.True(t, decision.Suppress)
	assert.True(t, decision.DriveAnimator)
	assert.True(t, e.AnimatorActive())
}

func TestEngineHandleWheelMutatesWhenNotSmoothButModified(t *testing.T) {
	e := NewEngine(SmoothPreset)
	w := WheelEvent{DeltaAxis1: 4, Modifiers: policy.ModControl}
	decision := e.HandleWheel(time.Now(), w, ModifierSettings{ControlFast: true, FastMult: 2}, false, false)
	require.NotNil(t, decision.Mutate)
	assert.Equal(t, int32(8), decision.Mutate.DeltaAxis1)
	assert.False(t, e.AnimatorActive())
}

func TestEngineHandleWheelPassesThroughUnmodifiedTrackpad(t *testing.T) {
	e := NewEngine(SmoothPreset)
	w := WheelEvent{IsContinuous: true, ScrollPhase: 1}
	decision := e.HandleWheel(time.Now(), w, ModifierSettings{}, false, true)
	assert.True(t, decision.PassThrough)
}
