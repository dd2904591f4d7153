// Package source implements the Event Source Helper (§4.6): it
// constructs synthetic events, stamps them with the self-origin marker,
// and posts them at the correct tap location. Every other engine routes
// its synthesized output through here so the origin tag is applied
// exactly once, in one place.
package source

import (
	"math"

	"github.com/extinput/hidremap/internal/policy"
	"github.com/extinput/hidremap/internal/quartz"
)

// OriginTag is the stable 64-bit constant stamped on every synthesized
// event (§3: "Synthetic-origin tag (stable 64-bit constant)"; §9: "pick
// something unlikely to be produced by other tools"). The first five bytes
// spell "HIDRE" in ASCII; the value is not a meaningful magic number
// beyond being memorable and improbable.
const OriginTag int64 = 0x4849445245004201

// IsSelfOrigin reports whether event carries the self-origin tag, the
// single check the Interceptor Core's callback makes before anything else
// (§4.1 step 1, §8's "for all events e with origin(e) == selfTag, the
// pipeline returns e unchanged").
func IsSelfOrigin(event quartz.CGEventRef) bool {
	return quartz.CGEventGetIntegerValueField(event, quartz.KCGEventSourceUserData) == OriginTag
}

func tag(event quartz.CGEventRef) quartz.CGEventRef {
	quartz.CGEventSetIntegerValueField(event, quartz.KCGEventSourceUserData, OriginTag)
	return event
}

// PostKeyCombo synthesizes key-down then key-up for combo, with the
// combo's modifier flags applied to both, tagged and posted at the HID
// tap (§4.6).
func PostKeyCombo(combo policy.KeyCombo) {
	flags := modifierCGFlags(combo.Modifiers)

	down := quartz.CGEventCreateKeyboardEvent(0, quartz.CGKeyCode(combo.KeyCode), true)
	quartz.CGEventSetFlags(down, flags)
	tag(down)
	quartz.CGEventPost(quartz.KCGHIDEventTap, down)

	up := quartz.CGEventCreateKeyboardEvent(0, quartz.CGKeyCode(combo.KeyCode), false)
	quartz.CGEventSetFlags(up, flags)
	tag(up)
	quartz.CGEventPost(quartz.KCGHIDEventTap, up)
}

// PostFunctionKey synthesizes key-down then key-up for a dedicated HID key
// code with the function-key flag set (plus any extra flags), tagged and
// posted at the HID tap — used for Show Desktop's F11 trigger and the
// dedicated-keycode fallback path for symbolic hotkeys (§4.5).
func PostFunctionKey(keyCode uint16, extra quartz.CGEventFlags) {
	flags := quartz.KCGEventFlagMaskSecondaryFn | extra

	down := quartz.CGEventCreateKeyboardEvent(0, quartz.CGKeyCode(keyCode), true)
	quartz.CGEventSetFlags(down, flags)
	tag(down)
	quartz.CGEventPost(quartz.KCGHIDEventTap, down)

	up := quartz.CGEventCreateKeyboardEvent(0, quartz.CGKeyCode(keyCode), false)
	quartz.CGEventSetFlags(up, flags)
	tag(up)
	quartz.CGEventPost(quartz.KCGHIDEventTap, up)
}

// PostMiddleClick synthesizes a real middle-button click at the current
// pointer location, tagged and posted at the HID tap — used when the
// Button Dispatcher executes a MiddleClick action bound to a button other
// than the physical middle button (§4.5).
func PostMiddleClick() {
	probe := quartz.CGEventCreate(0)
	pos := quartz.CGEventGetLocation(probe)

	down := quartz.CGEventCreateMouseEvent(0, quartz.KCGEventOtherMouseDown, pos, 2)
	tag(down)
	quartz.CGEventPost(quartz.KCGHIDEventTap, down)

	up := quartz.CGEventCreateMouseEvent(0, quartz.KCGEventOtherMouseUp, pos, 2)
	tag(up)
	quartz.CGEventPost(quartz.KCGHIDEventTap, up)
}

func modifierCGFlags(m policy.ModifierMask) quartz.CGEventFlags {
	var f quartz.CGEventFlags
	c := m.Canonical()
	if c&policy.ModShift != 0 {
		f |= quartz.KCGEventFlagMaskShift
	}
	if c&policy.ModOption != 0 {
		f |= quartz.KCGEventFlagMaskAlternate
	}
	if c&policy.ModControl != 0 {
		f |= quartz.KCGEventFlagMaskControl
	}
	if c&policy.ModCommand != 0 {
		f |= quartz.KCGEventFlagMaskCommand
	}
	return f
}

// PostScroll builds a two-wheel pixel-unit scroll event with the
// continuous flag set, both point-delta and fixed-point-delta fields
// populated, and the given scroll/momentum phases, tagged and posted at
// the HID tap (§4.6).
func PostScroll(deltaY, deltaX int32, scrollPhase, momentumPhase int64) {
	event := quartz.CGEventCreateScrollWheelEvent2(0, quartz.KCGScrollEventUnitPixel, 2, deltaY, deltaX, 0)
	quartz.CGEventSetIntegerValueField(event, quartz.KCGScrollWheelEventIsContinuous, 1)
	quartz.CGEventSetIntegerValueField(event, quartz.KCGScrollWheelEventScrollPhase, scrollPhase)
	quartz.CGEventSetIntegerValueField(event, quartz.KCGScrollWheelEventMomentumPhase, momentumPhase)
	quartz.CGEventSetIntegerValueField(event, quartz.KCGScrollWheelEventPointDeltaAxis1, int64(deltaY))
	quartz.CGEventSetIntegerValueField(event, quartz.KCGScrollWheelEventPointDeltaAxis2, int64(deltaX))
	quartz.CGEventSetIntegerValueField(event, quartz.KCGScrollWheelEventFixedPtDeltaAxis1, int64(deltaY))
	quartz.CGEventSetIntegerValueField(event, quartz.KCGScrollWheelEventFixedPtDeltaAxis2, int64(deltaX))
	tag(event)
	quartz.CGEventPost(quartz.KCGHIDEventTap, event)
}

// GesturePairFields carries the data-bearing DockSwipe event's payload,
// named per §4.4's construction note: two redundant type fields, a
// per-type constant, a dual double/bit-cast cumulative offset, the
// inverted flag, and an optional exit speed on end/cancel.
type GesturePairFields struct {
	Type              quartz.DockSwipeType
	CumulativeOffset  float64
	Inverted          bool
	Phase             int64
	ExitSpeed         *float64
}

// PostGesturePair emits the companion (type=29) event and the
// data-bearing (type=30) DockSwipe event, both posted at the session tap
// in companion-then-data order (§4.4, §5's ordering guarantee).
func PostGesturePair(fields GesturePairFields) {
	companion := quartz.CGEventCreate(0)
	quartz.CGEventSetType(companion, quartz.KCGEventGesture)
	quartz.CGEventSetIntegerValueField(companion, quartz.FieldGestureSubtype, int64(quartz.GestureSubtypeDockSwipe))
	quartz.CGEventSetIntegerValueField(companion, quartz.FieldGesturePhase, fields.Phase)
	tag(companion)
	quartz.CGEventPost(quartz.KCGSessionEventTap, companion)

	data := quartz.CGEventCreate(0)
	quartz.CGEventSetType(data, quartz.KCGEventDockSwipeData)
	quartz.CGEventSetIntegerValueField(data, quartz.FieldDockSwipeTypePrimary, int64(fields.Type))
	quartz.CGEventSetIntegerValueField(data, quartz.FieldDockSwipeTypeSecondary, int64(fields.Type))
	quartz.CGEventSetDoubleValueField(data, quartz.FieldGestureSubtype, quartz.TypeConstant(fields.Type))
	quartz.CGEventSetDoubleValueField(data, quartz.FieldDockSwipeCumulativeOffsetDouble, fields.CumulativeOffset)
	quartz.CGEventSetIntegerValueField(data, quartz.FieldDockSwipeCumulativeOffsetBits, int64(math.Float32bits(float32(fields.CumulativeOffset))))
	invertedBit := int64(0)
	if fields.Inverted {
		invertedBit = 1
	}
	quartz.CGEventSetIntegerValueField(data, quartz.FieldDockSwipeIsInverted, invertedBit)
	if fields.ExitSpeed != nil {
		quartz.CGEventSetDoubleValueField(data, quartz.FieldDockSwipeExitSpeed, *fields.ExitSpeed)
	}
	tag(data)
	quartz.CGEventPost(quartz.KCGSessionEventTap, data)
}

// PostMagnify emits a single gesture event (type=29, subtype=Zoom) with
// phase and magnification delta, posted at the HID tap (§4.4, §4.6).
func PostMagnify(phase int64, magnification float64) {
	event := quartz.CGEventCreate(0)
	quartz.CGEventSetType(event, quartz.KCGEventGesture)
	quartz.CGEventSetIntegerValueField(event, quartz.FieldGestureSubtype, int64(quartz.GestureSubtypeZoom))
	quartz.CGEventSetIntegerValueField(event, quartz.FieldGesturePhase, phase)
	quartz.CGEventSetDoubleValueField(event, quartz.FieldMagnificationAmount, magnification)
	tag(event)
	quartz.CGEventPost(quartz.KCGHIDEventTap, event)
}
