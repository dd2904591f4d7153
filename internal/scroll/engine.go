package scroll

import (
	"sync"
	"time"
)

// Decision tells the caller (the Interceptor Core, via engine_darwin.go's
// glue) what to do with one intercepted wheel event.
type Decision struct {
	// PassThrough means forward the original event unmodified.
	PassThrough bool
	// Suppress means drop the original event entirely — the engine is
	// driving synthesis itself (smooth-scroll animator or zoom gesture).
	Suppress bool
	// Mutate, when non-nil, is the event the caller should write back onto
	// the original CGEvent in place (the non-smooth modifier-pipeline path).
	Mutate *WheelEvent
	// Zoom carries magnification events to synthesize when Suppress is set
	// because a Command+wheel zoom tick fired.
	Zoom []ZoomEvent
	// DriveAnimator signals the wheel tick was handed to the Animator and
	// the caller should ensure its display-link frame loop is running.
	DriveAnimator bool
}

// Engine is the Scroll Engine of §4.3: mouse/trackpad classification, the
// Command+wheel zoom conversion, the modifier pipeline, the smooth-scroll
// gate, and the Animator it drives.
type Engine struct {
	// mu guards animator and zoom. Tap callbacks (HandleWheel,
	// OnCommandReleased) and the frame callback (Tick) run on different OS
	// threads and both mutate this state; the lock scope never spans event
	// synthesis, which callers do after the call returns (§5.1).
	mu       sync.Mutex
	animator *Animator
	zoom     ZoomTracker
}

// NewEngine returns an Engine with the given starting smooth-scroll preset.
func NewEngine(preset Preset) *Engine {
	return &Engine{animator: NewAnimator(preset)}
}

// SetPreset switches the Animator's smoothing parameters, e.g. when the
// user changes the smooth level in settings. Safe to call mid-animation;
// takes effect from the next Tick, including for an animation or momentum
// coast already in flight.
func (e *Engine) SetPreset(preset Preset) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.animator.preset = preset
}

// HandleWheel processes one mouse-origin-classified wheel tick. Trackpad-
// origin events are always passed through untouched.
func (e *Engine) HandleWheel(now time.Time, w WheelEvent, settings ModifierSettings, commandHeld, smoothOn bool) Decision {
	if !w.IsMouseOrigin() {
		return Decision{PassThrough: true}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if commandHeld {
		events := e.zoom.OnWheelTick(w.DeltaAxis1)
		return Decision{Suppress: true, Zoom: events}
	}

	mutated, changed := ApplyModifiers(w, settings)

	if SmoothEligible(mutated, settings, smoothOn) {
		e.animator.OnInput(now, mutated.DeltaAxis1, mutated.DeltaAxis2)
		return Decision{Suppress: true, DriveAnimator: true}
	}

	if changed {
		return Decision{Mutate: &mutated}
	}
	return Decision{PassThrough: true}
}

// OnCommandReleased ends an in-progress zoom gesture immediately, returning
// the "ended" event to synthesize, or nil if no zoom was active.
func (e *Engine) OnCommandReleased() *ZoomEvent {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.zoom.OnTimeoutOrRelease()
}

// ZoomTrailingTimeout is the duration the caller should arm a timer for
// after each zoom tick.
func (e *Engine) ZoomTrailingTimeout() time.Duration {
	return e.zoom.TrailingTimeout()
}

// Tick drives one Animator frame. The caller should invoke this from its
// display-link callback for as long as AnimatorActive reports true.
func (e *Engine) Tick(now time.Time) []Emission {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.animator.Tick(now)
}

// AnimatorActive reports whether the Animator has an in-flight animation or
// momentum coast, i.e. whether the caller still needs to drive Tick.
func (e *Engine) AnimatorActive() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.animator.Phase() != Idle
}

// CancelAnimator forces the Animator back to Idle, used when the
// Interceptor Core is stopped or the animator loop is told to stop.
func (e *Engine) CancelAnimator() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.animator.Cancel()
}
