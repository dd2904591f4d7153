package quartz

// DockSwipe and magnification gesture-event field IDs and subtype/type
// constants. These are private to the platform (§9's Open Question: "the
// set of gesture-event numeric field IDs used to carry DockSwipe data is
// private ... and must be preserved as-is"). No reference implementation
// was available to source exact values from, so these are named
// placeholders preserving the *structure* §4.4 describes — two redundant
// type fields, a per-type density constant, a dual double/bit-cast
// cumulative-offset field pair — rather than claims of bit-exact values
// recovered from a real build. See DESIGN.md's Open Question decision #2.

// GestureSubtype distinguishes a type=29/30 gesture event's payload.
type GestureSubtype int64

const (
	GestureSubtypeDockSwipe GestureSubtype = 4
	GestureSubtypeZoom      GestureSubtype = 8
)

// DockSwipeType selects which platform animation a DockSwipe drives,
// chosen by §4.4's direction × action table.
type DockSwipeType int64

const (
	DockSwipeTypeHorizontal DockSwipeType = 1 // Spaces
	DockSwipeTypeVertical   DockSwipeType = 2 // Mission Control / App Exposé
	DockSwipeTypePinch      DockSwipeType = 3 // Show Desktop / Launchpad
)

// Gesture event field indices, placeholder values per the Open Question.
const (
	FieldGestureSubtype       CGEventField = 110
	FieldGesturePhase         CGEventField = 132

	// The data-bearing (type=30) event's DockSwipe payload fields. Two
	// redundant type fields per §4.4's construction note.
	FieldDockSwipeTypePrimary   CGEventField = 138
	FieldDockSwipeTypeSecondary CGEventField = 139
	FieldDockSwipeCumulativeOffsetDouble CGEventField = 140
	FieldDockSwipeCumulativeOffsetBits   CGEventField = 141
	FieldDockSwipeIsInverted    CGEventField = 142
	FieldDockSwipeExitSpeed     CGEventField = 143

	FieldMagnificationAmount CGEventField = 150
)

// dockSwipeTypeConstant is the per-type denormal-double "constant" §4.4's
// data event carries alongside the type fields. Values are placeholders
// of the same magnitude/shape (small denormals) described by the spec,
// not reverse-engineered bit patterns.
var dockSwipeTypeConstant = map[DockSwipeType]float64{
	DockSwipeTypeHorizontal: 4.12e-317,
	DockSwipeTypeVertical:   4.19e-317,
	DockSwipeTypePinch:      4.27e-317,
}

// TypeConstant returns the per-type denormal constant for t.
func TypeConstant(t DockSwipeType) float64 { return dockSwipeTypeConstant[t] }

// Gesture phase values shared by DockSwipe and magnification events.
const (
	GesturePhaseBegan     int64 = 1
	GesturePhaseChanged   int64 = 2
	GesturePhaseEnded     int64 = 4
	GesturePhaseCancelled int64 = 8
)
