package main

import (
	"fmt"
	"image/color"
	"time"

	"github.com/extinput/hidremap/internal/gesture"
	"github.com/extinput/hidremap/internal/policy"
	"github.com/extinput/hidremap/internal/scroll"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

const (
	windowWidth  = 720
	windowHeight = 420

	maxLogLines = 12
)

// loggingExecutor implements gesture.ActionExecutor (and is interchangeable
// with a real dispatch.Dispatcher) by appending a human-readable line to
// the on-screen dispatch log instead of synthesizing a real event.
type loggingExecutor struct {
	game *game
}

func (l loggingExecutor) Execute(a policy.Action) {
	l.game.appendLog(describeAction(a))
}

func describeAction(a policy.Action) string {
	switch a.Kind {
	case policy.ActionInert:
		return "inert"
	case policy.ActionSystem:
		return fmt.Sprintf("system action %d", a.System)
	case policy.ActionEditing:
		if a.Editing == policy.MiddleClick {
			return "middle click"
		}
		return fmt.Sprintf("editing action %d", a.Editing)
	case policy.ActionCustom:
		if combo, ok := a.KeyCombo(); ok {
			return fmt.Sprintf("custom combo %s", combo.DisplayString())
		}
		return "custom action"
	default:
		return "unknown action"
	}
}

// game drives the Scroll Engine and Gesture Engine with synthetic input —
// mouse wheel ticks for scroll, a middle-button drag for the DockSwipe
// gesture — and renders their internal state so the physics model and
// state machine are visible without an attached external mouse.
type game struct {
	scrollEng  *scroll.Engine
	gestureEng *gesture.Engine

	smoothOn     bool
	zoomActive   bool
	lastEmission scroll.Emission
	haveEmission bool

	continuousOffset float64
	continuousType   gesture.SwipeType
	continuousActive bool

	dispatchLog []string

	zoomIconDark *ebiten.Image
	titleLabel   *ebiten.Image
}

func newGame() *game {
	g := &game{smoothOn: true}
	g.scrollEng = scroll.NewEngine(scroll.SmoothPreset)
	g.gestureEng = gesture.NewEngine(loggingExecutor{g}, func() int { return 4 })
	var dirs policy.DirectionMap
	dirs.Set(policy.Up, policy.OfSystem(policy.MissionControl))
	dirs.Set(policy.Down, policy.OfSystem(policy.AppExpose))
	dirs.Set(policy.Left, policy.OfSystem(policy.SwitchSpaceLeft))
	dirs.Set(policy.Right, policy.OfSystem(policy.SwitchSpaceRight))
	g.gestureEng.Configure(12, true, policy.OfEditing(policy.MiddleClick), dirs)

	icon := renderSVGIcon(zoomRingSVG, 48, color.RGBA{R: 0x4a, G: 0xa3, B: 0xff, A: 0xff})
	g.zoomIconDark = ebiten.NewImageFromImage(icon)
	g.titleLabel = renderLabel("hidremap debug visualizer", color.White)
	return g
}

func (g *game) appendLog(line string) {
	g.dispatchLog = append(g.dispatchLog, line)
	if len(g.dispatchLog) > maxLogLines {
		g.dispatchLog = g.dispatchLog[len(g.dispatchLog)-maxLogLines:]
	}
}

func (g *game) Update() error {
	now := time.Now()

	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.smoothOn = !g.smoothOn
		g.appendLog(fmt.Sprintf("smooth scrolling: %v", g.smoothOn))
	}

	if _, wheelY := ebiten.Wheel(); wheelY != 0 {
		g.handleWheel(now, wheelY)
	}

	g.handleMiddleDrag(now)

	if g.scrollEng.AnimatorActive() {
		for _, e := range g.scrollEng.Tick(now) {
			g.lastEmission = e
			g.haveEmission = true
		}
	}

	return nil
}

func (g *game) handleWheel(now time.Time, wheelY float64) {
	ctrl := ebiten.IsKeyPressed(ebiten.KeyControl)
	cmd := ebiten.IsKeyPressed(ebiten.KeyMeta)

	var mods policy.ModifierMask
	if ctrl {
		mods |= policy.ModControl
	}
	w := scroll.WheelEvent{
		DeltaAxis1:        int32(wheelY * 3),
		FixedPtDeltaAxis1: int32(wheelY * 3),
		PointDeltaAxis1:   int32(wheelY * 3),
		Modifiers:         mods,
	}
	ms := scroll.ModifierSettings{ControlFast: true, FastMult: 3, ExternalMouse: true}

	decision := g.scrollEng.HandleWheel(now, w, ms, cmd, g.smoothOn)
	switch {
	case len(decision.Zoom) > 0:
		g.zoomActive = true
		g.appendLog(fmt.Sprintf("zoom tick: magnification=%.3f", decision.Zoom[len(decision.Zoom)-1].Magnification))
	case decision.DriveAnimator:
		g.appendLog(fmt.Sprintf("wheel tick: deltaY=%d ctrl=%v", w.DeltaAxis1, ctrl))
	}

	if !cmd && g.zoomActive {
		if ended := g.scrollEng.OnCommandReleased(); ended != nil {
			g.appendLog("zoom ended")
		}
		g.zoomActive = false
	}
}

func (g *game) handleMiddleDrag(now time.Time) {
	x, y := ebiten.CursorPosition()
	pos := gesture.Point{X: float64(x), Y: float64(y)}

	switch {
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonMiddle):
		g.gestureEng.OnDown(pos)
		g.appendLog("middle button down")
	case inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonMiddle):
		result := g.gestureEng.OnUp(pos)
		if result.End != nil {
			g.continuousActive = false
			g.appendLog(fmt.Sprintf("continuous gesture ended: offset=%.1f cancelled=%v", result.End.CumulativeOffset, result.End.Cancelled))
		} else {
			g.appendLog("middle button up")
		}
	case ebiten.IsMouseButtonPressed(ebiten.MouseButtonMiddle):
		result := g.gestureEng.OnDrag(pos, windowWidth, windowHeight)
		if result.Began != nil {
			g.continuousActive = true
			g.continuousType = result.Began.SwipeType
			g.continuousOffset = result.Began.InitialOffset
			g.appendLog(fmt.Sprintf("continuous gesture began: nSpaces=%d", result.Began.NSpaces))
		}
		if result.Changed != nil {
			g.continuousOffset = result.Changed.CumulativeOffset
		}
	}
}

func (g *game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 0x18, G: 0x1a, B: 0x20, A: 0xff})

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(10, 8)
	screen.DrawImage(g.titleLabel, op)
	ebitenutil.DebugPrintAt(screen, "scroll wheel = scroll ticks | ctrl/cmd held = fast/zoom | space = toggle smooth | middle-drag = DockSwipe", 10, 24)

	g.drawScrollPanel(screen)
	g.drawGesturePanel(screen)
	g.drawLogPanel(screen)

	if g.zoomActive {
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate(windowWidth-64, 48)
		screen.DrawImage(g.zoomIconDark, op)
	}
}

func (g *game) drawScrollPanel(screen *ebiten.Image) {
	y := 60
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("Scroll Engine  smooth=%v  animatorActive=%v", g.smoothOn, g.scrollEng.AnimatorActive()), 10, y)
	if g.haveEmission {
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("  last emission: kind=%d deltaY=%d deltaX=%d scrollPhase=%d momentumPhase=%d",
			g.lastEmission.Kind, g.lastEmission.DeltaY, g.lastEmission.DeltaX, g.lastEmission.ScrollPhase, g.lastEmission.MomentumPhase), 10, y+16)
	}

	barX, barY, barW, barH := 10, y+40, 300, 16
	ebitenutil.DrawRect(screen, float64(barX), float64(barY), float64(barW), float64(barH), color.RGBA{R: 0x30, G: 0x33, B: 0x3a, A: 0xff})
	fill := clampf(float64(g.lastEmission.DeltaY)/60*float64(barW)/2+float64(barW)/2, 0, float64(barW))
	ebitenutil.DrawRect(screen, float64(barX), float64(barY), fill, float64(barH), color.RGBA{R: 0x4a, G: 0xa3, B: 0xff, A: 0xff})
}

func (g *game) drawGesturePanel(screen *ebiten.Image) {
	y := 150
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("Gesture Engine  continuousActive=%v  generation=%d", g.gestureEng.ContinuousActive(), g.gestureEng.Generation()), 10, y)
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("  swipeType=%d  cumulativeOffset=%.1f", g.continuousType, g.continuousOffset), 10, y+16)

	barX, barY, barW, barH := 10, y+40, 300, 16
	ebitenutil.DrawRect(screen, float64(barX), float64(barY), float64(barW), float64(barH), color.RGBA{R: 0x30, G: 0x33, B: 0x3a, A: 0xff})
	mid := float64(barX) + float64(barW)/2
	offsetPx := clampf(g.continuousOffset, -float64(barW)/2, float64(barW)/2)
	if offsetPx >= 0 {
		ebitenutil.DrawRect(screen, mid, float64(barY), offsetPx, float64(barH), color.RGBA{R: 0xff, G: 0xa1, B: 0x4a, A: 0xff})
	} else {
		ebitenutil.DrawRect(screen, mid+offsetPx, float64(barY), -offsetPx, float64(barH), color.RGBA{R: 0xff, G: 0xa1, B: 0x4a, A: 0xff})
	}
}

func (g *game) drawLogPanel(screen *ebiten.Image) {
	y := 230
	ebitenutil.DebugPrintAt(screen, "Dispatch log:", 10, y)
	for i, line := range g.dispatchLog {
		ebitenutil.DebugPrintAt(screen, line, 10, y+16+i*14)
	}
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return windowWidth, windowHeight
}

func clampf(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
