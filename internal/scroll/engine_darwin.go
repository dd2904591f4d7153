package scroll

import (
	"runtime"
	"time"

	"github.com/extinput/hidremap/internal/policy"
	"github.com/extinput/hidremap/internal/quartz"
	"github.com/extinput/hidremap/internal/source"
)

// ReadWheelEvent copies a CGEventRef's scroll fields into a WheelEvent and
// resolves its held modifiers against flags, so the pure modifier pipeline
// never touches quartz types directly.
func ReadWheelEvent(event quartz.CGEventRef, flags quartz.CGEventFlags) WheelEvent {
	return WheelEvent{
		IsContinuous:      quartz.CGEventGetIntegerValueField(event, quartz.KCGScrollWheelEventIsContinuous) != 0,
		MomentumPhase:     quartz.CGEventGetIntegerValueField(event, quartz.KCGScrollWheelEventMomentumPhase),
		ScrollPhase:       quartz.CGEventGetIntegerValueField(event, quartz.KCGScrollWheelEventScrollPhase),
		DeltaAxis1:        int32(quartz.CGEventGetIntegerValueField(event, quartz.KCGScrollWheelEventDeltaAxis1)),
		DeltaAxis2:        int32(quartz.CGEventGetIntegerValueField(event, quartz.KCGScrollWheelEventDeltaAxis2)),
		FixedPtDeltaAxis1: int32(quartz.CGEventGetIntegerValueField(event, quartz.KCGScrollWheelEventFixedPtDeltaAxis1)),
		FixedPtDeltaAxis2: int32(quartz.CGEventGetIntegerValueField(event, quartz.KCGScrollWheelEventFixedPtDeltaAxis2)),
		PointDeltaAxis1:   int32(quartz.CGEventGetIntegerValueField(event, quartz.KCGScrollWheelEventPointDeltaAxis1)),
		PointDeltaAxis2:   int32(quartz.CGEventGetIntegerValueField(event, quartz.KCGScrollWheelEventPointDeltaAxis2)),
		Modifiers:         modifierMaskFromFlags(flags),
	}
}

func modifierMaskFromFlags(flags quartz.CGEventFlags) policy.ModifierMask {
	var m policy.ModifierMask
	if flags&quartz.KCGEventFlagMaskShift != 0 {
		m |= policy.ModShift
	}
	if flags&quartz.KCGEventFlagMaskAlternate != 0 {
		m |= policy.ModOption
	}
	if flags&quartz.KCGEventFlagMaskControl != 0 {
		m |= policy.ModControl
	}
	if flags&quartz.KCGEventFlagMaskCommand != 0 {
		m |= policy.ModCommand
	}
	return m
}

// WriteMutation applies a Decision.Mutate result back onto the live
// CGEventRef in place, for the non-smooth modifier-pipeline path. The
// integer delta fields are written before the fixed-point fields: writing
// the fixed-point fields first and the integer fields second causes the
// system to re-derive the fixed-point values from the (still original)
// integer ones, silently discarding the mutation — so integer fields go
// first here.
func WriteMutation(event quartz.CGEventRef, w WheelEvent) {
	quartz.CGEventSetIntegerValueField(event, quartz.KCGScrollWheelEventDeltaAxis1, int64(w.DeltaAxis1))
	quartz.CGEventSetIntegerValueField(event, quartz.KCGScrollWheelEventDeltaAxis2, int64(w.DeltaAxis2))
	quartz.CGEventSetIntegerValueField(event, quartz.KCGScrollWheelEventPointDeltaAxis1, int64(w.PointDeltaAxis1))
	quartz.CGEventSetIntegerValueField(event, quartz.KCGScrollWheelEventPointDeltaAxis2, int64(w.PointDeltaAxis2))
	quartz.CGEventSetIntegerValueField(event, quartz.KCGScrollWheelEventFixedPtDeltaAxis1, int64(w.FixedPtDeltaAxis1))
	quartz.CGEventSetIntegerValueField(event, quartz.KCGScrollWheelEventFixedPtDeltaAxis2, int64(w.FixedPtDeltaAxis2))
}

// EmitZoom synthesizes one ZoomEvent via internal/source.
func EmitZoom(z ZoomEvent) {
	source.PostMagnify(z.Phase, z.Magnification)
}

// EmitFrame synthesizes one Animator Emission via internal/source. Began
// and gesture-ended emissions carry no delta; the scroll emission carries
// the frame's Y/X delta and phases.
func EmitFrame(e Emission) {
	switch e.Kind {
	case EmitBegan:
		source.PostScroll(0, 0, scrollPhaseBegan, momentumPhaseNone)
	case EmitGestureEnded:
		source.PostScroll(0, 0, scrollPhaseEnded, momentumPhaseNone)
	case EmitMomentumEnd:
		source.PostScroll(0, 0, scrollPhaseNone, momentumPhaseEnded)
	case EmitScroll:
		source.PostScroll(e.DeltaY, e.DeltaX, e.ScrollPhase, e.MomentumPhase)
	}
}

// RunAnimatorLoop drives a display-link-synchronized Tick loop until the
// Animator returns to Idle, synthesizing every emission it produces along
// the way. Intended to be called from a goroutine started when
// Engine.HandleWheel first returns DriveAnimator true. Falls back to a
// plain time.Ticker when CVDisplayLinkCreateWithActiveCGDisplays can't
// produce a link (no active CGDisplay, e.g. headless CI).
func RunAnimatorLoop(engine *Engine, frameInterval time.Duration, stop <-chan struct{}) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	dl, err := quartz.NewDisplayLink(func() {
		for _, emission := range engine.Tick(time.Now()) {
			EmitFrame(emission)
		}
	})
	if err != nil {
		runAnimatorLoopTicker(engine, frameInterval, stop)
		return
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for engine.AnimatorActive() {
			select {
			case <-stop:
				engine.CancelAnimator()
				dl.Close()
				return
			case <-time.After(frameInterval):
			}
		}
		dl.Close()
	}()

	if runErr := dl.Run(); runErr != nil {
		engine.CancelAnimator()
	}
	<-done
}

// runAnimatorLoopTicker is the fallback driver used when the display link
// can't be created.
func runAnimatorLoopTicker(engine *Engine, frameInterval time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()
	for engine.AnimatorActive() {
		select {
		case <-stop:
			engine.CancelAnimator()
			return
		case now := <-ticker.C:
			for _, emission := range engine.Tick(now) {
				EmitFrame(emission)
			}
		}
	}
}
