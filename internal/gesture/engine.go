package gesture

import (
	"sync"

	"github.com/extinput/hidremap/internal/policy"
)

type lockedAxis uint8

const (
	axisUnset lockedAxis = iota
	axisHorizontal
	axisVertical
)

// ActionExecutor runs a resolved Action (§4.5); internal/dispatch.Dispatcher
// implements this.
type ActionExecutor interface {
	Execute(policy.Action)
}

// ContinuousBegin is the first DockSwipe emission of a continuous gesture.
type ContinuousBegin struct {
	SwipeType     SwipeType
	NSpaces       int
	InitialOffset float64
}

// ContinuousChanged is every subsequent DockSwipe emission.
type ContinuousChanged struct {
	SwipeType        SwipeType
	Delta            float64
	CumulativeOffset float64
}

// ContinuousEnd is the final DockSwipe emission, on release or forced stop.
type ContinuousEnd struct {
	SwipeType        SwipeType
	CumulativeOffset float64
	ExitSpeed        float64
	Cancelled        bool
}

// DragResult is what OnDrag produces for the caller to act on.
type DragResult struct {
	Suppress bool
	Began    *ContinuousBegin
	Changed  *ContinuousChanged
}

// UpResult is what OnUp produces for the caller to act on.
type UpResult struct {
	Suppress         bool
	PassThroughClick bool
	End              *ContinuousEnd
}

// Engine is the middle-button discrete-trigger and continuous-gesture state
// machine of §4.4.
type Engine struct {
	mu sync.Mutex

	threshold    float64
	continuousOn bool
	middleClick  policy.Action
	directions   policy.DirectionMap

	executor     ActionExecutor
	spaceCounter func() int

	pressed   bool
	start     Point
	lastPos   Point
	committed bool
	axis      lockedAxis

	continuousActive bool
	swipeType        SwipeType
	nSpaces          int
	cumulativeOffset float64
	lastDelta        float64

	generation uint64
}

// NewEngine returns an Engine driven by executor for discrete actions and
// spaceCounter for the once-per-gesture Space-count query (§4.4 step 2).
func NewEngine(executor ActionExecutor, spaceCounter func() int) *Engine {
	return &Engine{executor: executor, spaceCounter: spaceCounter}
}

// Configure installs the current settings snapshot's gesture-relevant
// fields. Safe to call at any time, including mid-gesture (takes effect on
// the next gesture).
func (e *Engine) Configure(thresholdPixels float64, continuousOn bool, middleClick policy.Action, directions policy.DirectionMap) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.threshold = thresholdPixels
	e.continuousOn = continuousOn
	e.middleClick = middleClick
	e.directions = directions
}

func isPassthroughMiddleClick(a policy.Action) bool {
	return a.Kind == policy.ActionEditing && a.Editing == policy.MiddleClick
}

// Generation returns a counter incremented on every new press, letting
// callers cancel stale scheduled retransmits by comparing against the
// value captured when they were scheduled.
func (e *Engine) Generation() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.generation
}

// OnDown records the press origin and reports whether the down event
// should be suppressed — true unless the configured middle-button action
// is the pass-through middle click.
func (e *Engine) OnDown(pos Point) (suppressDown bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pressed = true
	e.start = pos
	e.lastPos = pos
	e.committed = false
	e.axis = axisUnset
	e.generation++
	return !isPassthroughMiddleClick(e.middleClick)
}

func axisPairDirections(axis lockedAxis) (policy.Direction, policy.Direction) {
	if axis == axisHorizontal {
		return policy.Left, policy.Right
	}
	return policy.Up, policy.Down
}

func (e *Engine) eitherContinuousCapable(axis lockedAxis) bool {
	a, b := axisPairDirections(axis)
	if action, ok := e.directions.Get(a); ok && action.ContinuousCapable() {
		return true
	}
	if action, ok := e.directions.Get(b); ok && action.ContinuousCapable() {
		return true
	}
	return false
}

// OnDrag processes one drag sample while the button is held, performing
// axis-lock detection on the first qualifying sample and either committing
// a discrete direction action or beginning/continuing a DockSwipe
// continuous gesture, per §4.4.
func (e *Engine) OnDrag(pos Point, screenWidth, screenHeight int) DragResult {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.pressed {
		return DragResult{}
	}

	if e.continuousActive {
		incremental := componentForAxis(pos.Sub(e.lastPos), e.axis)
		delta := PixelsToDockSwipeDelta(e.swipeType, incremental, e.nSpaces, screenWidth, screenHeight)
		e.cumulativeOffset += delta
		e.lastDelta = delta
		e.lastPos = pos
		return DragResult{Changed: &ContinuousChanged{SwipeType: e.swipeType, Delta: delta, CumulativeOffset: e.cumulativeOffset}}
	}

	if e.committed {
		return DragResult{Suppress: true}
	}

	delta := pos.Sub(e.start)
	halfCrossed := abs(delta.X) >= e.threshold/2 || abs(delta.Y) >= e.threshold/2
	if !halfCrossed {
		return DragResult{}
	}

	var direction policy.Direction
	var axis lockedAxis
	if abs(delta.X) >= abs(delta.Y) {
		axis = axisHorizontal
		if delta.X >= 0 {
			direction = policy.Right
		} else {
			direction = policy.Left
		}
	} else {
		axis = axisVertical
		if delta.Y >= 0 {
			direction = policy.Down
		} else {
			direction = policy.Up
		}
	}

	continuousEligible := e.continuousOn && e.eitherContinuousCapable(axis)
	if !continuousEligible {
		fullCrossed := abs(delta.X) >= e.threshold || abs(delta.Y) >= e.threshold
		if !fullCrossed {
			return DragResult{}
		}
	}

	e.axis = axis
	action, _ := e.directions.Get(direction)

	if continuousEligible {
		swipeType, ok := SelectSwipeType(action)
		if !ok {
			// The dragged direction's action is not continuous-capable
			// (eitherContinuousCapable matched the opposite direction on
			// this axis, or this direction is unmapped); fall back to
			// discrete.
			e.committed = true
			e.executor.Execute(action)
			return DragResult{Suppress: true}
		}
		e.continuousActive = true
		e.swipeType = swipeType
		e.nSpaces = e.spaceCounter()
		initialPixels := componentForAxis(delta, axis)
		initialOffset := PixelsToDockSwipeDelta(swipeType, initialPixels, e.nSpaces, screenWidth, screenHeight)
		e.cumulativeOffset = initialOffset
		e.lastDelta = initialOffset
		e.lastPos = pos
		return DragResult{Suppress: true, Began: &ContinuousBegin{SwipeType: swipeType, NSpaces: e.nSpaces, InitialOffset: initialOffset}}
	}

	e.committed = true
	e.executor.Execute(action)
	return DragResult{Suppress: true}
}

// OnUp processes button release: ends an active continuous gesture,
// silently absorbs a committed discrete gesture's up event, or executes
// the middle-button click action (or passes through the real click).
func (e *Engine) OnUp(pos Point) UpResult {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.pressed {
		return UpResult{}
	}
	e.pressed = false

	if e.continuousActive {
		end := &ContinuousEnd{SwipeType: e.swipeType, CumulativeOffset: e.cumulativeOffset, ExitSpeed: e.lastDelta * 100}
		e.continuousActive = false
		e.axis = axisUnset
		return UpResult{Suppress: true, End: end}
	}

	if e.committed {
		e.committed = false
		return UpResult{Suppress: true}
	}

	if isPassthroughMiddleClick(e.middleClick) {
		return UpResult{PassThroughClick: true}
	}
	e.executor.Execute(e.middleClick)
	return UpResult{Suppress: true}
}

// ForceStop cancels an in-flight continuous gesture (§4.1's stop contract:
// "force-cancelled before taps are torn down") and resets all press state.
// Returns the cancel emission to synthesize, or nil if nothing was active.
func (e *Engine) ForceStop() *ContinuousEnd {
	e.mu.Lock()
	defer e.mu.Unlock()

	var end *ContinuousEnd
	if e.continuousActive {
		end = &ContinuousEnd{SwipeType: e.swipeType, CumulativeOffset: e.cumulativeOffset, Cancelled: true}
	}
	e.pressed = false
	e.committed = false
	e.continuousActive = false
	e.axis = axisUnset
	return end
}

// ContinuousActive reports whether a DockSwipe gesture is in progress,
// which callers use to decide whether the HID drag tap should be enabled.
func (e *Engine) ContinuousActive() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.continuousActive
}
