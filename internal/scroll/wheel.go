// Package scroll implements the Scroll Engine (§4.3): mouse-origin
// classification, the reversal/swap/precision/fast modifier pipeline, the
// smooth-scroll decision gate, the non-smooth write-order quirk, and the
// physics-based smooth-scroll Animator.
package scroll

import "github.com/extinput/hidremap/internal/policy"

// WheelEvent is the platform-independent view of a wheel event's fields,
// decoupled from quartz.CGEventRef so the modifier pipeline and
// classification logic can be unit tested without a live event tap.
type WheelEvent struct {
	IsContinuous  bool
	MomentumPhase int64
	ScrollPhase   int64

	DeltaAxis1 int32 // Y
	DeltaAxis2 int32 // X

	FixedPtDeltaAxis1 int32
	FixedPtDeltaAxis2 int32
	PointDeltaAxis1   int32
	PointDeltaAxis2   int32

	Modifiers policy.ModifierMask
}

// IsMouseOrigin reports whether the event originated from a physical mouse
// wheel rather than a trackpad (§4.3: "momentumPhase == 0 ∧ scrollPhase == 0").
func (w WheelEvent) IsMouseOrigin() bool {
	return w.MomentumPhase == 0 && w.ScrollPhase == 0
}

// IsTrackpadOrigin reports whether the event is a continuous trackpad
// gesture the Scroll Engine must leave untouched (§4.3).
func (w WheelEvent) IsTrackpadOrigin() bool {
	return w.IsContinuous && !w.IsMouseOrigin()
}

// ModifierSettings is the subset of config.Settings the modifier pipeline
// and smooth-scroll gate consult.
type ModifierSettings struct {
	ShiftHorizontal bool
	OptionPrecision bool
	PrecisionMult   float64
	ControlFast     bool
	FastMult        float64
	ReverseScroll   bool
	ExternalMouse   bool
}

// ApplyModifiers runs pipeline steps 2-5 of §4.3 in order (zoom, step 1, is
// handled separately by ZoomTracker since it has gesture side effects
// rather than just mutating deltas): shift axis swap, option precision
// scaling, control fast scaling, reversal. Returns the transformed event
// and whether anything changed.
func ApplyModifiers(w WheelEvent, s ModifierSettings) (WheelEvent, bool) {
	if !w.IsMouseOrigin() {
		return w, false
	}
	changed := false

	if s.ShiftHorizontal && w.Modifiers.Canonical()&policy.ModShift != 0 {
		w.DeltaAxis2 = w.DeltaAxis1
		w.FixedPtDeltaAxis2 = w.FixedPtDeltaAxis1
		w.PointDeltaAxis2 = w.PointDeltaAxis1
		w.DeltaAxis1 = 0
		w.FixedPtDeltaAxis1 = 0
		w.PointDeltaAxis1 = 0
		changed = true
	}

	optionHeld := w.Modifiers.Canonical()&policy.ModOption != 0
	if s.OptionPrecision && optionHeld {
		w = scaleDeltas(w, s.PrecisionMult)
		changed = true
	}

	if s.ControlFast && w.Modifiers.Canonical()&policy.ModControl != 0 {
		w = scaleDeltas(w, s.FastMult)
		changed = true
	}

	if s.ReverseScroll && s.ExternalMouse {
		w = negateDeltas(w)
		changed = true
	}

	return w, changed
}

func scaleDeltas(w WheelEvent, mult float64) WheelEvent {
	w.DeltaAxis1 = int32(float64(w.DeltaAxis1) * mult)
	w.DeltaAxis2 = int32(float64(w.DeltaAxis2) * mult)
	w.FixedPtDeltaAxis1 = int32(float64(w.FixedPtDeltaAxis1) * mult)
	w.FixedPtDeltaAxis2 = int32(float64(w.FixedPtDeltaAxis2) * mult)
	w.PointDeltaAxis1 = int32(float64(w.PointDeltaAxis1) * mult)
	w.PointDeltaAxis2 = int32(float64(w.PointDeltaAxis2) * mult)
	return w
}

func negateDeltas(w WheelEvent) WheelEvent {
	w.DeltaAxis1 = -w.DeltaAxis1
	w.DeltaAxis2 = -w.DeltaAxis2
	w.FixedPtDeltaAxis1 = -w.FixedPtDeltaAxis1
	w.FixedPtDeltaAxis2 = -w.FixedPtDeltaAxis2
	w.PointDeltaAxis1 = -w.PointDeltaAxis1
	w.PointDeltaAxis2 = -w.PointDeltaAxis2
	return w
}

// SmoothEligible reports whether smooth mode applies to this event, per
// §4.3's decision: smooth level on, mouse-origin, no horizontal swap,
// Option not held (precision and smooth are mutually exclusive), Control-
// fast not held.
func SmoothEligible(w WheelEvent, s ModifierSettings, smoothOn bool) bool {
	if !smoothOn || !w.IsMouseOrigin() {
		return false
	}
	if s.ShiftHorizontal && w.Modifiers.Canonical()&policy.ModShift != 0 {
		return false
	}
	if w.Modifiers.Canonical()&policy.ModOption != 0 {
		return false
	}
	if s.ControlFast && w.Modifiers.Canonical()&policy.ModControl != 0 {
		return false
	}
	return true
}
