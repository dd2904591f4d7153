package scroll

import "time"

// zoomTrailingTimeout is the "≈300 ms after the last event" window §4.3
// item 1 uses to end a Command+wheel zoom gesture.
const zoomTrailingTimeout = 300 * time.Millisecond

// ZoomEvent is one magnification event the zoom gesture wants emitted.
type ZoomEvent struct {
	Phase         int64 // matches quartz.GesturePhase* constants
	Magnification float64
}

const (
	zoomPhaseBegan     int64 = 1
	zoomPhaseChanged   int64 = 2
	zoomPhaseEnded     int64 = 4
)

// ZoomTracker implements §4.3 item 1: Command+wheel convert-to-zoom, with
// a trailing timer that ends the gesture 300ms after the last contributing
// wheel tick, or immediately on Command release if that happens first.
type ZoomTracker struct {
	active bool
}

// Active reports whether a zoom gesture is in progress.
func (z *ZoomTracker) Active() bool { return z.active }

// OnWheelTick converts deltaAxis1 (the dominant axis delta) to a
// magnification value via delta/50.0 and returns the events to emit:
// a "began" (magnification=0) on the first tick, then a "changed" on
// every tick including the first.
func (z *ZoomTracker) OnWheelTick(deltaAxis1 int32) []ZoomEvent {
	var events []ZoomEvent
	if !z.active {
		z.active = true
		events = append(events, ZoomEvent{Phase: zoomPhaseBegan, Magnification: 0})
	}
	magnification := float64(deltaAxis1) / 50.0
	events = append(events, ZoomEvent{Phase: zoomPhaseChanged, Magnification: magnification})
	return events
}

// OnTimeoutOrRelease ends the active gesture, returning the "ended" event,
// or nil if no gesture was active. Called either by the 300ms trailing
// timer or immediately when Command is released first.
func (z *ZoomTracker) OnTimeoutOrRelease() *ZoomEvent {
	if !z.active {
		return nil
	}
	z.active = false
	return &ZoomEvent{Phase: zoomPhaseEnded, Magnification: 0}
}

// TrailingTimeout is the duration a caller should arm a timer for after
// each OnWheelTick to drive OnTimeoutOrRelease if no further tick arrives.
func (z *ZoomTracker) TrailingTimeout() time.Duration { return zoomTrailingTimeout }
