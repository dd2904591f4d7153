package quartz

import (
	"fmt"
	"unsafe"

	"github.com/ebitengine/purego"
)

// CGEvent/CGEventTap type aliases and constants, grounded on the cgo shape
// other_examples/junsooki-AirMac__cgevent.go and
// other_examples/abaj8494-typing-telemetry__inertia_darwin.go use,
// translated to the purego binding idiom.
// CGPoint is the struct CGEventGetLocation returns, laid out to match
// CoreGraphics' two-double definition for purego's struct-by-value ABI.
type CGPoint struct {
	X, Y float64
}

type (
	CGEventRef     uintptr
	CGEventTapProxy uintptr
	CGEventTapLocation uint32
	CGEventTapPlacement uint32
	CGEventTapOptions  uint32
	CGEventMask        uint64
	CGEventType        uint32
	CGEventFlags       uint64
	CGKeyCode          uint16
	CGMouseButton      uint32
	CGScrollEventUnit  uint32
	CGEventField       uint32
)

const (
	KCGSessionEventTap CGEventTapLocation = 1
	KCGHIDEventTap      CGEventTapLocation = 0

	KCGHeadInsertEventTap CGEventTapPlacement = 0

	KCGEventTapOptionDefault  CGEventTapOptions = 0
	KCGEventTapOptionListenOnly CGEventTapOptions = 1

	// Event types the Interceptor Core subscribes to (§4.1).
	KCGEventKeyDown        CGEventType = 10
	KCGEventKeyUp          CGEventType = 11
	KCGEventFlagsChanged   CGEventType = 12
	KCGEventScrollWheel    CGEventType = 22
	KCGEventOtherMouseDown CGEventType = 25
	KCGEventOtherMouseUp   CGEventType = 26
	KCGEventOtherMouseDragged CGEventType = 27
	// Gesture event types per §4.4 ("companion" + "data-bearing").
	KCGEventGesture        CGEventType = 29
	KCGEventDockSwipeData  CGEventType = 30

	KCGEventTapDisabledByTimeout   CGEventType = 0xFFFFFFFE
	KCGEventTapDisabledByUserInput CGEventType = 0xFFFFFFFF

	KCGEventFlagMaskShift   CGEventFlags = 1 << 17
	KCGEventFlagMaskControl CGEventFlags = 1 << 18
	KCGEventFlagMaskAlternate CGEventFlags = 1 << 19 // Option
	KCGEventFlagMaskCommand CGEventFlags = 1 << 20
	KCGEventFlagMaskSecondaryFn CGEventFlags = 1 << 23

	KCGScrollEventUnitPixel CGScrollEventUnit = 0
	KCGScrollEventUnitLine  CGScrollEventUnit = 1

	// CGEventField indices used by the Scroll/Gesture engines. Public,
	// documented values (unlike the gesture-event private fields in
	// gesturefields_darwin.go).
	KCGScrollWheelEventIsContinuous       CGEventField = 88
	KCGScrollWheelEventDeltaAxis1         CGEventField = 11
	KCGScrollWheelEventDeltaAxis2         CGEventField = 12
	KCGScrollWheelEventFixedPtDeltaAxis1  CGEventField = 93
	KCGScrollWheelEventFixedPtDeltaAxis2  CGEventField = 94
	KCGScrollWheelEventPointDeltaAxis1    CGEventField = 96
	KCGScrollWheelEventPointDeltaAxis2    CGEventField = 97
	KCGScrollWheelEventScrollPhase        CGEventField = 99
	KCGScrollWheelEventMomentumPhase      CGEventField = 123

	KCGMouseEventNumber CGEventField = 54

	KCGKeyboardEventKeycode CGEventField = 9

	KCGEventSourceUserData CGEventField = 67 // origin tag field

	KCGEventSourceStateID CGEventField = 0
)

func maskBit(t CGEventType) CGEventMask { return CGEventMask(1) << CGEventMask(t) }

// BuildEventMask ORs together the bits for the given event types.
func BuildEventMask(types ...CGEventType) CGEventMask {
	var m CGEventMask
	for _, t := range types {
		m |= maskBit(t)
	}
	return m
}

// CGEventTapCallBack matches the callback signature CGEventTapCreate
// expects: (proxy, type, event, userInfo) -> CGEventRef (0 to suppress).
type CGEventTapCallBack func(proxy CGEventTapProxy, eventType CGEventType, event CGEventRef, userInfo unsafe.Pointer) CGEventRef

var (
	CGEventTapCreate func(tap CGEventTapLocation, place CGEventTapPlacement, options CGEventTapOptions, eventsOfInterest CGEventMask, callback uintptr, userInfo unsafe.Pointer) CFTypeRef
	CGEventTapEnable func(tap CFTypeRef, enable bool)
	CGEventTapIsEnabled func(tap CFTypeRef) bool
	CFMachPortCreateRunLoopSource func(allocator CFAllocatorRef, port CFTypeRef, order CFIndex) CFRunLoopSourceRef

	CGEventGetIntegerValueField func(event CGEventRef, field CGEventField) int64
	CGEventSetIntegerValueField func(event CGEventRef, field CGEventField, value int64)
	CGEventGetDoubleValueField  func(event CGEventRef, field CGEventField) float64
	CGEventSetDoubleValueField  func(event CGEventRef, field CGEventField, value float64)
	CGEventGetFlags             func(event CGEventRef) CGEventFlags
	CGEventSetFlags             func(event CGEventRef, flags CGEventFlags)
	CGEventGetLocation          func(event CGEventRef) CGPoint
	CGEventGetType              func(event CGEventRef) CGEventType
	CGEventSetType              func(event CGEventRef, eventType CGEventType)

	CGEventCreateKeyboardEvent func(source CFTypeRef, keycode CGKeyCode, keyDown bool) CGEventRef
	CGEventCreateScrollWheelEvent2 func(source CFTypeRef, units CGScrollEventUnit, wheelCount uint32, wheel1 int32, wheel2 int32, wheel3 int32) CGEventRef
	CGEventCreateMouseEvent func(source CFTypeRef, mouseType CGEventType, point CGPoint, button CGMouseButton) CGEventRef
	CGEventCreate               func(source CFTypeRef) CGEventRef
	CGEventPost                 func(tap CGEventTapLocation, event CGEventRef)
	CGEventPostToPSN            func(psn unsafe.Pointer, event CGEventRef)
	CGEventSetSource            func(event CGEventRef, source CFTypeRef)

	CGAssociateMouseAndMouseCursorPosition func(connected bool) int32

	AXIsProcessTrusted func() bool
)

func init() {
	appServices, err := purego.Dlopen("/System/Library/Frameworks/ApplicationServices.framework/ApplicationServices", purego.RTLD_LAZY|purego.RTLD_GLOBAL)
	if err != nil {
		panic(fmt.Errorf("quartz: loading ApplicationServices: %w", err))
	}

	purego.RegisterLibFunc(&CGEventTapCreate, appServices, "CGEventTapCreate")
	purego.RegisterLibFunc(&CGEventTapEnable, appServices, "CGEventTapEnable")
	purego.RegisterLibFunc(&CGEventTapIsEnabled, appServices, "CGEventTapIsEnabled")
	purego.RegisterLibFunc(&CFMachPortCreateRunLoopSource, appServices, "CFMachPortCreateRunLoopSource")

	purego.RegisterLibFunc(&CGEventGetIntegerValueField, appServices, "CGEventGetIntegerValueField")
	purego.RegisterLibFunc(&CGEventSetIntegerValueField, appServices, "CGEventSetIntegerValueField")
	purego.RegisterLibFunc(&CGEventGetDoubleValueField, appServices, "CGEventGetDoubleValueField")
	purego.RegisterLibFunc(&CGEventSetDoubleValueField, appServices, "CGEventSetDoubleValueField")
	purego.RegisterLibFunc(&CGEventGetFlags, appServices, "CGEventGetFlags")
	purego.RegisterLibFunc(&CGEventSetFlags, appServices, "CGEventSetFlags")
	purego.RegisterLibFunc(&CGEventGetLocation, appServices, "CGEventGetLocation")
	purego.RegisterLibFunc(&CGEventGetType, appServices, "CGEventGetType")
	purego.RegisterLibFunc(&CGEventSetType, appServices, "CGEventSetType")

	purego.RegisterLibFunc(&CGEventCreateKeyboardEvent, appServices, "CGEventCreateKeyboardEvent")
	purego.RegisterLibFunc(&CGEventCreateScrollWheelEvent2, appServices, "CGEventCreateScrollWheelEvent2")
	purego.RegisterLibFunc(&CGEventCreateMouseEvent, appServices, "CGEventCreateMouseEvent")
	purego.RegisterLibFunc(&CGEventCreate, appServices, "CGEventCreate")
	purego.RegisterLibFunc(&CGEventPost, appServices, "CGEventPost")
	purego.RegisterLibFunc(&CGEventSetSource, appServices, "CGEventSetSource")

	purego.RegisterLibFunc(&CGAssociateMouseAndMouseCursorPosition, appServices, "CGAssociateMouseAndMouseCursorPosition")
	purego.RegisterLibFunc(&AXIsProcessTrusted, appServices, "AXIsProcessTrusted")
}

// IsProcessTrusted reports whether Accessibility/Input Monitoring trust has
// been granted, backing §7's permission-denied error path and the `doctor`
// subcommand (SPEC_FULL §C.1).
func IsProcessTrusted() bool { return AXIsProcessTrusted() }
