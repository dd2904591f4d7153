package gesture

import (
	"testing"

	"github.com/extinput/hidremap/internal/policy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingExecutor struct {
	executed []policy.Action
}

func (r *recordingExecutor) Execute(a policy.Action) { r.executed = append(r.executed, a) }

func fixedSpaceCounter(n int) func() int { return func() int { return n } }

func newTestEngine() (*Engine, *recordingExecutor) {
	exec := &recordingExecutor{}
	e := NewEngine(exec, fixedSpaceCounter(4))
	e.Configure(10, true, policy.OfEditing(policy.MiddleClick), policy.DirectionMap{})
	return e, exec
}

func TestOnDownSuppressesOnlyWhenMiddleClickRemapped(t *testing.T) {
	e, _ := newTestEngine()
	assert.False(t, e.OnDown(Point{}))

	e2, _ := newTestEngine()
	e2.Configure(10, true, policy.OfEditing(policy.Copy), policy.DirectionMap{})
	assert.True(t, e2.OnDown(Point{}))
}

func TestOnDragDiscreteCommitsOnFullThresholdWhenNotContinuousCapable(t *testing.T) {
	e, exec := newTestEngine()
	var dirs policy.DirectionMap
	dirs.Set(policy.Right, policy.OfEditing(policy.Copy))
	e.Configure(20, true, policy.OfEditing(policy.MiddleClick), dirs)

	e.OnDown(Point{X: 0, Y: 0})

	// half-threshold crossed (10px) but not full (20px): not yet committed,
	// and Copy isn't continuous-capable so full threshold is required.
	result := e.OnDrag(Point{X: 12, Y: 0}, 1440, 900)
	assert.False(t, result.Suppress)
	assert.Empty(t, exec.executed)

	result2 := e.OnDrag(Point{X: 25, Y: 0}, 1440, 900)
	assert.True(t, result2.Suppress)
	require.Len(t, exec.executed, 1)
	assert.Equal(t, policy.Copy, exec.executed[0].Editing)
}

func TestOnDragContinuousLocksAtHalfThreshold(t *testing.T) {
	e, _ := newTestEngine()
	var dirs policy.DirectionMap
	dirs.Set(policy.Up, policy.OfSystem(policy.MissionControl))
	e.Configure(20, true, policy.OfEditing(policy.MiddleClick), dirs)

	e.OnDown(Point{X: 0, Y: 0})
	result := e.OnDrag(Point{X: 0, Y: -11}, 1440, 900) // half threshold = 10
	require.True(t, result.Suppress)
	require.NotNil(t, result.Began)
	assert.Equal(t, SwipeVertical, result.Began.SwipeType)
	assert.Equal(t, 4, result.Began.NSpaces)
	assert.True(t, e.ContinuousActive())
}

func TestOnDragContinuousAccumulatesCumulativeOffset(t *testing.T) {
	e, _ := newTestEngine()
	var dirs policy.DirectionMap
	dirs.Set(policy.Up, policy.OfSystem(policy.MissionControl))
	e.Configure(20, true, policy.OfEditing(policy.MiddleClick), dirs)

	e.OnDown(Point{X: 0, Y: 0})
	begin := e.OnDrag(Point{X: 0, Y: -11}, 1440, 900)
	require.NotNil(t, begin.Began)

	changed := e.OnDrag(Point{X: 0, Y: -30}, 1440, 900)
	require.NotNil(t, changed.Changed)
	assert.NotEqual(t, begin.Began.InitialOffset, changed.Changed.CumulativeOffset)
}

func TestOnUpEndsContinuousGestureWithExitSpeed(t *testing.T) {
	e, _ := newTestEngine()
	var dirs policy.DirectionMap
	dirs.Set(policy.Up, policy.OfSystem(policy.MissionControl))
	e.Configure(20, true, policy.OfEditing(policy.MiddleClick), dirs)

	e.OnDown(Point{X: 0, Y: 0})
	e.OnDrag(Point{X: 0, Y: -11}, 1440, 900)

	up := e.OnUp(Point{X: 0, Y: -11})
	require.NotNil(t, up.End)
	assert.False(t, up.End.Cancelled)
	assert.InDelta(t, 11.0/900*100, up.End.ExitSpeed, 1e-9) // lastDelta x 100
	assert.False(t, e.ContinuousActive())
}

func TestOnUpPassesThroughUnmappedMiddleClick(t *testing.T) {
	e, _ := newTestEngine()
	e.OnDown(Point{X: 0, Y: 0})
	up := e.OnUp(Point{X: 0, Y: 0})
	assert.True(t, up.PassThroughClick)
	assert.False(t, up.Suppress)
}

func TestOnUpExecutesConfiguredClickAction(t *testing.T) {
	e, exec := newTestEngine()
	e.Configure(20, true, policy.OfEditing(policy.Paste), policy.DirectionMap{})
	e.OnDown(Point{X: 0, Y: 0})
	up := e.OnUp(Point{X: 0, Y: 0})
	assert.True(t, up.Suppress)
	require.Len(t, exec.executed, 1)
	assert.Equal(t, policy.Paste, exec.executed[0].Editing)
}

func TestForceStopCancelsActiveContinuousGesture(t *testing.T) {
	e, _ := newTestEngine()
	var dirs policy.DirectionMap
	dirs.Set(policy.Up, policy.OfSystem(policy.MissionControl))
	e.Configure(20, true, policy.OfEditing(policy.MiddleClick), dirs)

	e.OnDown(Point{X: 0, Y: 0})
	e.OnDrag(Point{X: 0, Y: -11}, 1440, 900)

	end := e.ForceStop()
	require.NotNil(t, end)
	assert.True(t, end.Cancelled)
	assert.False(t, e.ContinuousActive())
}

func TestForceStopWithoutActiveGestureReturnsNil(t *testing.T) {
	e, _ := newTestEngine()
	assert.Nil(t, e.ForceStop())
}

func TestSelectSwipeTypeByActionIdentity(t *testing.T) {
	tp, ok := SelectSwipeType(policy.OfSystem(policy.SwitchSpaceLeft))
	require.True(t, ok)
	assert.Equal(t, SwipeHorizontal, tp)

	tp2, ok2 := SelectSwipeType(policy.OfSystem(policy.AppExpose))
	require.True(t, ok2)
	assert.Equal(t, SwipeVertical, tp2)

	tp3, ok3 := SelectSwipeType(policy.OfSystem(policy.Launchpad))
	require.True(t, ok3)
	assert.Equal(t, SwipePinch, tp3)

	_, ok4 := SelectSwipeType(policy.OfEditing(policy.Copy))
	assert.False(t, ok4)
}

func TestOriginOffsetForOneSpace(t *testing.T) {
	assert.Equal(t, 2.0, OriginOffsetForOneSpace(1))
	assert.Equal(t, 2.0, OriginOffsetForOneSpace(2))
	assert.InDelta(t, 1.5, OriginOffsetForOneSpace(3), 0.0001)
}

func TestPixelsToDockSwipeDeltaInvertsSign(t *testing.T) {
	delta := PixelsToDockSwipeDelta(SwipeVertical, 90, 4, 1440, 900)
	assert.Less(t, delta, 0.0) // positive (down) pixel motion -> negative delta
	delta2 := PixelsToDockSwipeDelta(SwipeVertical, -90, 4, 1440, 900)
	assert.Greater(t, delta2, 0.0)
}
