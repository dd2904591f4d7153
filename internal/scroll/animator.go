package scroll

import (
	"math"
	"time"
)

// Phase is the Animator's state machine position (§3, §4.3): Idle, the
// base-curve Animating phase, and the post-lift Momentum coast.
type Phase uint8

const (
	Idle Phase = iota
	Animating
	Momentum
)

// Preset is one of the two smoothing tunable sets §4.3's parameter table
// names.
type Preset struct {
	Duration     time.Duration
	DragCoeff    float64
	DragExponent float64
	PxPerTick    float64
	MaxVelocity  float64 // px/s
	StopSpeed    float64 // px/s
	InputTimeout time.Duration
}

// SmoothPreset and VerySmoothPreset are §4.3's two named parameter sets.
var (
	SmoothPreset = Preset{
		Duration: 140 * time.Millisecond, DragCoeff: 18, DragExponent: 0.85,
		PxPerTick: 60, MaxVelocity: 2500, StopSpeed: 8, InputTimeout: 80 * time.Millisecond,
	}
	VerySmoothPreset = Preset{
		Duration: 220 * time.Millisecond, DragCoeff: 25, DragExponent: 0.65,
		PxPerTick: 60 * 1.3, MaxVelocity: 2500, StopSpeed: 8, InputTimeout: 80 * time.Millisecond,
	}
)

type axisState struct {
	velocity        float64
	target          float64
	alreadyScrolled float64
}

// Animator is the physics-based smooth-scroll state machine described in
// §4.3. It holds no quartz/OS dependency — callers feed it wheel ticks and
// frame times, and read back the emissions to synthesize.
type Animator struct {
	preset Preset
	phase  Phase

	y, x axisState

	animStart time.Time
	lastInput time.Time
	lastFrame time.Time

	needsBegan    bool
	momentumBegan bool
}

// NewAnimator returns an Idle animator using preset.
func NewAnimator(preset Preset) *Animator {
	return &Animator{preset: preset, phase: Idle}
}

// Phase reports the animator's current state.
func (a *Animator) Phase() Phase { return a.phase }

// OnInput implements §4.3's "On wheel input": begins a fresh animation
// from Idle/Momentum, or accumulates onto the in-flight curve from
// Animating. tickDeltaY/X are this event's already-modifier-transformed
// deltas.
func (a *Animator) OnInput(now time.Time, tickDeltaY, tickDeltaX int32) {
	pxToAddY := float64(tickDeltaY) * a.preset.PxPerTick
	pxToAddX := float64(tickDeltaX) * a.preset.PxPerTick

	if a.phase == Idle || a.phase == Momentum {
		a.y = axisState{target: pxToAddY}
		a.x = axisState{target: pxToAddX}
		a.animStart = now
		a.needsBegan = true
		a.momentumBegan = false
	} else {
		a.y.target = (a.y.target - a.y.alreadyScrolled) + pxToAddY
		a.y.alreadyScrolled = 0
		a.x.target = (a.x.target - a.x.alreadyScrolled) + pxToAddX
		a.x.alreadyScrolled = 0
		a.animStart = now
	}
	a.lastInput = now
	a.phase = Animating
}

// EmissionKind tags one scroll/gesture-phase emission a Tick call produces.
type EmissionKind uint8

const (
	EmitBegan EmissionKind = iota
	EmitGestureEnded
	EmitScroll
	EmitMomentumEnd
)

// Emission is one event the caller should synthesize via
// internal/source.PostScroll, in the order returned by Tick.
type Emission struct {
	Kind          EmissionKind
	DeltaY        int32
	DeltaX        int32
	ScrollPhase   int64
	MomentumPhase int64
}

const (
	scrollPhaseNone    int64 = 0
	scrollPhaseBegan   int64 = 1
	scrollPhaseChanged int64 = 2
	scrollPhaseEnded   int64 = 4

	momentumPhaseNone    int64 = 0
	momentumPhaseBegan   int64 = 1
	momentumPhaseChanged int64 = 2
	momentumPhaseEnded   int64 = 3
)

func clampMagnitude(v, max float64) float64 {
	if v > max {
		return max
	}
	if v < -max {
		return -max
	}
	return v
}

func dragStep(v, coeff, exponent, dt float64) float64 {
	if v == 0 {
		return 0
	}
	sign := 1.0
	if v < 0 {
		sign = -1.0
	}
	delta := sign * math.Pow(math.Abs(v), exponent) * coeff * dt
	if math.Abs(delta) >= math.Abs(v) {
		return 0
	}
	return v - delta
}

// Tick runs one display-link frame and returns the emissions to
// synthesize, in order, per §4.3's "Emission order for each active
// frame." Returns no emissions once the animator is Idle.
func (a *Animator) Tick(now time.Time) []Emission {
	if a.phase == Idle {
		return nil
	}
	if a.lastFrame.IsZero() {
		a.lastFrame = a.animStart
	}
	dt := now.Sub(a.lastFrame).Seconds()
	a.lastFrame = now

	var emissions []Emission
	shouldSendGestureEnded := false
	var frameDeltaY, frameDeltaX float64

	if a.phase == Animating && now.Sub(a.lastInput) > a.preset.InputTimeout && now.Sub(a.animStart) < a.preset.Duration {
		elapsed := now.Sub(a.animStart).Seconds()
		durationSec := a.preset.Duration.Seconds()
		t := elapsed / durationSec
		if t > 1 {
			t = 1
		}
		exitSpeed := func(target float64) float64 {
			s := (2 * (1 - t)) * (target / durationSec)
			return clampMagnitude(s, 0.7*a.preset.MaxVelocity)
		}
		a.y.velocity = exitSpeed(a.y.target)
		a.x.velocity = exitSpeed(a.x.target)
		a.phase = Momentum
		shouldSendGestureEnded = true
		a.momentumBegan = false
	} else if a.phase == Animating && now.Sub(a.animStart) >= a.preset.Duration {
		frameDeltaY = a.y.target - a.y.alreadyScrolled
		frameDeltaX = a.x.target - a.x.alreadyScrolled
		a.y.alreadyScrolled = a.y.target
		a.x.alreadyScrolled = a.x.target
		exitFrom := func(delta float64) float64 {
			if dt == 0 {
				return 0
			}
			return clampMagnitude(delta/dt, 0.5*a.preset.MaxVelocity)
		}
		a.y.velocity = exitFrom(frameDeltaY)
		a.x.velocity = exitFrom(frameDeltaX)
		a.phase = Momentum
		shouldSendGestureEnded = true
	} else if a.phase == Animating {
		elapsed := now.Sub(a.animStart).Seconds()
		t := elapsed / a.preset.Duration.Seconds()
		if t > 1 {
			t = 1
		}
		eased := 1 - (1-t)*(1-t)
		newY := a.y.target * eased
		newX := a.x.target * eased
		frameDeltaY = newY - a.y.alreadyScrolled
		frameDeltaX = newX - a.x.alreadyScrolled
		a.y.alreadyScrolled = newY
		a.x.alreadyScrolled = newX
	}

	if a.phase == Momentum {
		if frameDeltaY == 0 && frameDeltaX == 0 {
			frameDeltaY = a.y.velocity * dt
			frameDeltaX = a.x.velocity * dt
			a.y.velocity = dragStep(a.y.velocity, a.preset.DragCoeff, a.preset.DragExponent, dt)
			a.x.velocity = dragStep(a.x.velocity, a.preset.DragCoeff, a.preset.DragExponent, dt)
		}

		if math.Abs(a.y.velocity) < a.preset.StopSpeed && math.Abs(a.x.velocity) < a.preset.StopSpeed {
			emissions = append(emissions, Emission{Kind: EmitMomentumEnd, ScrollPhase: scrollPhaseNone, MomentumPhase: momentumPhaseEnded})
			emissions = append(emissions, Emission{Kind: EmitGestureEnded, ScrollPhase: scrollPhaseEnded, MomentumPhase: momentumPhaseNone})
			a.reset()
			return emissions
		}
	}

	if a.needsBegan && a.phase != Momentum {
		emissions = append(emissions, Emission{Kind: EmitBegan, ScrollPhase: scrollPhaseBegan, MomentumPhase: momentumPhaseNone})
		a.needsBegan = false
	}
	if shouldSendGestureEnded {
		emissions = append(emissions, Emission{Kind: EmitGestureEnded, ScrollPhase: scrollPhaseEnded, MomentumPhase: momentumPhaseNone})
	}

	scrollPhase := scrollPhaseChanged
	momentumPhase := momentumPhaseNone
	if a.phase == Momentum {
		scrollPhase = scrollPhaseNone
		if !a.momentumBegan {
			momentumPhase = momentumPhaseBegan
			a.momentumBegan = true
		} else {
			momentumPhase = momentumPhaseChanged
		}
	}
	emissions = append(emissions, Emission{
		Kind: EmitScroll, DeltaY: int32(math.Round(frameDeltaY)), DeltaX: int32(math.Round(frameDeltaX)),
		ScrollPhase: scrollPhase, MomentumPhase: momentumPhase,
	})
	return emissions
}

func (a *Animator) reset() {
	a.phase = Idle
	a.y = axisState{}
	a.x = axisState{}
	a.needsBegan = false
	a.momentumBegan = false
	a.animStart = time.Time{}
	a.lastInput = time.Time{}
	a.lastFrame = time.Time{}
}

// Cancel forces the animator back to Idle without emitting a final
// momentum/ended pair — used on forced stop (§4.1's stop contract does not
// apply to scroll directly, but mirrors the gesture engine's cancel path
// for symmetry and is used by the Interceptor Core's teardown).
func (a *Animator) Cancel() { a.reset() }
