package gesture

import (
	"time"

	"github.com/extinput/hidremap/internal/quartz"
	"github.com/extinput/hidremap/internal/source"
)

// PointFromEvent extracts the pointer location from a live CGEventRef.
func PointFromEvent(event quartz.CGEventRef) Point {
	p := quartz.CGEventGetLocation(event)
	return Point{X: p.X, Y: p.Y}
}

func toQuartzSwipeType(t SwipeType) quartz.DockSwipeType {
	switch t {
	case SwipeHorizontal:
		return quartz.DockSwipeTypeHorizontal
	case SwipeVertical:
		return quartz.DockSwipeTypeVertical
	default:
		return quartz.DockSwipeTypePinch
	}
}

// EmitBegin posts the DockSwipe begin pair and enables the HID drag tap /
// dissociates the pointer, per §4.4 step 4. enableHIDTap and dissociate are
// injected so this package doesn't need to own tap-handle lifetime.
func EmitBegin(b ContinuousBegin, inverted bool, enableHIDTap func(bool), dissociatePointer func(bool)) {
	enableHIDTap(true)
	dissociatePointer(true)
	source.PostGesturePair(source.GesturePairFields{
		Type:             toQuartzSwipeType(b.SwipeType),
		CumulativeOffset: b.InitialOffset,
		Inverted:         inverted,
		Phase:            quartz.GesturePhaseBegan,
	})
}

// EmitChanged posts a DockSwipe changed pair.
func EmitChanged(c ContinuousChanged, inverted bool) {
	source.PostGesturePair(source.GesturePairFields{
		Type:             toQuartzSwipeType(c.SwipeType),
		CumulativeOffset: c.CumulativeOffset,
		Inverted:         inverted,
		Phase:            quartz.GesturePhaseChanged,
	})
	_ = c.Delta // carried in the cumulative offset; kept on the struct for callers that log/display per-tick deltas
}

// EmitEnd posts the end or cancelled pair, disables the HID tap, and
// re-associates the pointer (§4.4's end/forced-stop sections).
func EmitEnd(e ContinuousEnd, inverted bool, enableHIDTap func(bool), dissociatePointer func(bool)) {
	phase := int64(quartz.GesturePhaseEnded)
	if e.Cancelled {
		phase = quartz.GesturePhaseCancelled
	}
	exitSpeed := e.ExitSpeed
	source.PostGesturePair(source.GesturePairFields{
		Type:             toQuartzSwipeType(e.SwipeType),
		CumulativeOffset: e.CumulativeOffset,
		Inverted:         inverted,
		Phase:            phase,
		ExitSpeed:        &exitSpeed,
	})
	enableHIDTap(false)
	dissociatePointer(false)
}

// ScheduleEndRetransmits arms the two end-event retries §4.4's end section
// requires ("a known drop of the end event by the window server") at +300ms
// and +500ms, each skipped if engine has since started a new gesture
// (detected via Generation()).
func ScheduleEndRetransmits(engine *Engine, e ContinuousEnd, inverted bool, observedGeneration uint64) {
	retransmit := func() {
		if engine.Generation() != observedGeneration {
			return
		}
		exitSpeed := e.ExitSpeed
		source.PostGesturePair(source.GesturePairFields{
			Type:             toQuartzSwipeType(e.SwipeType),
			CumulativeOffset: e.CumulativeOffset,
			Inverted:         inverted,
			Phase:            quartz.GesturePhaseEnded,
			ExitSpeed:        &exitSpeed,
		})
	}
	time.AfterFunc(300*time.Millisecond, retransmit)
	time.AfterFunc(500*time.Millisecond, retransmit)
}

// SpaceCounter is the quartz-backed implementation of Engine's
// once-per-gesture Space-count query.
func SpaceCounter() int { return quartz.SpaceCount() }

// ScreenSize is the quartz-backed main-display pixel dimensions used by
// OnDrag's pixel-to-DockSwipe-unit conversion.
func ScreenSize() (width, height int) { return quartz.MainDisplaySize() }

// AssociatePointer toggles cursor/mouse association (§4.4 step 4, §5's
// "pointer association is toggled exactly around continuous-gesture
// lifetime"): connected=false freezes the pointer during a gesture.
func AssociatePointer(connected bool) {
	quartz.CGAssociateMouseAndMouseCursorPosition(connected)
}
