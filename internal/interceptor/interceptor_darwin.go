package interceptor

import (
	"context"
	"fmt"
	"log"
	"runtime"
	"sync"
	"time"
	"unsafe"

	"github.com/ebitengine/purego"
	"github.com/extinput/hidremap/internal/config"
	"github.com/extinput/hidremap/internal/dispatch"
	"github.com/extinput/hidremap/internal/gesture"
	"github.com/extinput/hidremap/internal/policy"
	"github.com/extinput/hidremap/internal/quartz"
	"github.com/extinput/hidremap/internal/ratelog"
	"github.com/extinput/hidremap/internal/registry"
	"github.com/extinput/hidremap/internal/scroll"
	"github.com/extinput/hidremap/internal/source"
)

// animatorFrameInterval is the fallback cadence used when the display link
// can't be created (scroll.RunAnimatorLoop handles the display-link path
// itself); kept close to 60Hz so the ticker fallback still feels smooth.
const animatorFrameInterval = time.Second / 60

// Interceptor owns the two CGEventTap lifecycle and the shared callback
// contract of §4.1, wiring intercepted events to the Scroll Engine, Gesture
// Engine, and Button & Key Dispatcher.
type Interceptor struct {
	bridge     *config.Bridge
	devices    *registry.Registry
	dispatcher *dispatch.Dispatcher
	scrollEng  *scroll.Engine
	gestureEng *gesture.Engine
	rlog       *ratelog.Limiter

	mu      sync.Mutex
	running bool
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	sessionTap    quartz.CFTypeRef
	hidTap        quartz.CFTypeRef
	runLoop       quartz.CFRunLoopRef
	sessionSource quartz.CFRunLoopSourceRef
	hidSource     quartz.CFRunLoopSourceRef
	activation    *quartz.ActivationObserver

	animatorMu      sync.Mutex
	animatorRunning bool
	animatorStop    chan struct{}

	zoomMu    sync.Mutex
	zoomTimer *time.Timer
}

// New wires an Interceptor from its already-constructed collaborators; see
// cmd/hidremap for production assembly order (Registry and Bridge must
// already be running before Start is called).
func New(bridge *config.Bridge, devices *registry.Registry, dispatcher *dispatch.Dispatcher, scrollEng *scroll.Engine, gestureEng *gesture.Engine) *Interceptor {
	return &Interceptor{
		bridge:     bridge,
		devices:    devices,
		dispatcher: dispatcher,
		scrollEng:  scrollEng,
		gestureEng: gestureEng,
		rlog:       ratelog.New(5, 10),
	}
}

// Start creates both event taps, hosts them on a dedicated run-loop thread,
// and blocks until ctx is cancelled or Stop is called, at which point it
// tears everything down and returns. Idempotent: a second call while
// already running returns nil immediately.
func (ic *Interceptor) Start(ctx context.Context) error {
	ic.mu.Lock()
	if ic.running {
		ic.mu.Unlock()
		return nil
	}
	ic.running = true
	ic.ctx, ic.cancel = context.WithCancel(ctx)
	ic.mu.Unlock()

	if !quartz.IsProcessTrusted() {
		ic.mu.Lock()
		ic.running = false
		ic.mu.Unlock()
		return fmt.Errorf("interceptor: accessibility/input monitoring permission not granted")
	}

	observer, err := quartz.NewActivationObserver(ic.bridge.SetFrontmostBundleID)
	if err != nil {
		log.Printf("interceptor: activation observer unavailable, keyboard-remap exclusions disabled: %v", err)
	} else {
		ic.activation = observer
	}

	ready := make(chan error, 1)
	ic.wg.Add(1)
	go func() {
		defer ic.wg.Done()
		ic.runLoopThread(ready)
	}()

	if err := <-ready; err != nil {
		ic.cancel()
		ic.wg.Wait()
		ic.mu.Lock()
		ic.running = false
		ic.mu.Unlock()
		return err
	}

	<-ic.ctx.Done()
	return ic.teardown()
}

// Stop requests a running Start call to unwind. Safe to call more than
// once, and safe to call before Start (a no-op).
func (ic *Interceptor) Stop() {
	ic.mu.Lock()
	cancel := ic.cancel
	ic.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

func (ic *Interceptor) runLoopThread(ready chan<- error) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	sessionMask := quartz.BuildEventMask(
		quartz.KCGEventScrollWheel,
		quartz.KCGEventFlagsChanged,
		quartz.KCGEventOtherMouseDown,
		quartz.KCGEventOtherMouseUp,
		quartz.KCGEventOtherMouseDragged,
		quartz.KCGEventKeyDown,
		quartz.KCGEventKeyUp,
	)
	hidMask := quartz.BuildEventMask(quartz.KCGEventOtherMouseDragged)

	sessionCB := purego.NewCallback(ic.sessionCallback)
	sessionTap := quartz.CGEventTapCreate(quartz.KCGSessionEventTap, quartz.KCGHeadInsertEventTap, quartz.KCGEventTapOptionDefault, sessionMask, sessionCB, nil)
	if sessionTap == 0 {
		ready <- fmt.Errorf("interceptor: CGEventTapCreate failed for the session tap")
		return
	}

	hidCB := purego.NewCallback(ic.hidCallback)
	hidTap := quartz.CGEventTapCreate(quartz.KCGHIDEventTap, quartz.KCGHeadInsertEventTap, quartz.KCGEventTapOptionDefault, hidMask, hidCB, nil)
	if hidTap == 0 {
		log.Println("interceptor: CGEventTapCreate failed for the HID tap; continuous DockSwipe gestures will still start but will not receive drags once the window server captures them")
	}

	rl := quartz.CFRunLoopGetCurrent()
	sessionSource := quartz.CFMachPortCreateRunLoopSource(quartz.KCFAllocatorDefault, sessionTap, 0)
	quartz.CFRunLoopAddSource(rl, sessionSource, quartz.KCFRunLoopDefaultMode)

	var hidSource quartz.CFRunLoopSourceRef
	if hidTap != 0 {
		hidSource = quartz.CFMachPortCreateRunLoopSource(quartz.KCFAllocatorDefault, hidTap, 0)
		quartz.CFRunLoopAddSource(rl, hidSource, quartz.KCFRunLoopDefaultMode)
		// Created enabled by CGEventTapCreate; the HID tap only matters
		// while a continuous gesture is in flight (§4.1, §4.4 step 4).
		quartz.CGEventTapEnable(hidTap, false)
	}

	ic.mu.Lock()
	ic.sessionTap = sessionTap
	ic.hidTap = hidTap
	ic.runLoop = rl
	ic.sessionSource = sessionSource
	ic.hidSource = hidSource
	ic.mu.Unlock()

	ready <- nil

	go func() {
		<-ic.ctx.Done()
		quartz.CFRunLoopStop(rl)
	}()

	log.Println("interceptor: event taps running")
	quartz.CFRunLoopRun()
	log.Println("interceptor: event taps stopped")
}

func (ic *Interceptor) teardown() error {
	if end := ic.gestureEng.ForceStop(); end != nil {
		gesture.EmitEnd(*end, false, ic.enableHIDTap, ic.dissociatePointer)
	}
	ic.scrollEng.CancelAnimator()

	ic.animatorMu.Lock()
	if ic.animatorStop != nil {
		close(ic.animatorStop)
		ic.animatorStop = nil
	}
	ic.animatorMu.Unlock()

	ic.zoomMu.Lock()
	if ic.zoomTimer != nil {
		ic.zoomTimer.Stop()
		ic.zoomTimer = nil
	}
	ic.zoomMu.Unlock()

	ic.mu.Lock()
	if ic.sessionTap != 0 {
		quartz.CGEventTapEnable(ic.sessionTap, false)
	}
	if ic.hidTap != 0 {
		quartz.CGEventTapEnable(ic.hidTap, false)
	}
	if ic.runLoop != 0 {
		if ic.sessionSource != 0 {
			quartz.CFRunLoopRemoveSource(ic.runLoop, ic.sessionSource, quartz.KCFRunLoopDefaultMode)
		}
		if ic.hidSource != 0 {
			quartz.CFRunLoopRemoveSource(ic.runLoop, ic.hidSource, quartz.KCFRunLoopDefaultMode)
		}
	}
	ic.sessionTap, ic.hidTap = 0, 0
	ic.runLoop, ic.sessionSource, ic.hidSource = 0, 0, 0
	ic.running = false
	ic.mu.Unlock()

	if ic.activation != nil {
		ic.activation.Close()
		ic.activation = nil
	}
	ic.bridge.SetFrontmostBundleID("")

	ic.wg.Wait()
	return nil
}

func (ic *Interceptor) enableHIDTap(enable bool) {
	ic.mu.Lock()
	tap := ic.hidTap
	ic.mu.Unlock()
	if tap != 0 {
		quartz.CGEventTapEnable(tap, enable)
	}
}

// dissociatePointer wraps gesture.AssociatePointer to match the
// freeze-means-true polarity EmitBegin/EmitEnd call with.
func (ic *Interceptor) dissociatePointer(freeze bool) {
	gesture.AssociatePointer(!freeze)
}

func (ic *Interceptor) sessionCallback(_ quartz.CGEventTapProxy, eventType quartz.CGEventType, event quartz.CGEventRef, _ unsafe.Pointer) quartz.CGEventRef {
	if source.IsSelfOrigin(event) {
		return event
	}

	if eventType == quartz.KCGEventTapDisabledByTimeout || eventType == quartz.KCGEventTapDisabledByUserInput {
		ic.mu.Lock()
		tap := ic.sessionTap
		ic.mu.Unlock()
		if tap != 0 {
			quartz.CGEventTapEnable(tap, true)
		}
		ic.rlog.Printf(ic.bridge.Snapshot().Debug, "interceptor: session tap re-enabled after disable (type=%d)", eventType)
		return event
	}

	settings := ic.bridge.Snapshot()
	hotpath := ic.bridge.HotPath(ic.devices.ExternalMousePresent(), ic.devices.ExternalKeyboardPresent())

	switch eventType {
	case quartz.KCGEventScrollWheel:
		if !ShouldProcessMouse(hotpath) {
			return event
		}
		return ic.handleWheel(event, settings)
	case quartz.KCGEventFlagsChanged:
		return ic.handleFlagsChanged(event)
	case quartz.KCGEventOtherMouseDown, quartz.KCGEventOtherMouseUp, quartz.KCGEventOtherMouseDragged:
		if !ShouldProcessMouse(hotpath) {
			return event
		}
		return ic.handleAuxButton(eventType, event, settings)
	case quartz.KCGEventKeyDown, quartz.KCGEventKeyUp:
		if !ShouldProcessKeyboard(hotpath) {
			return event
		}
		return ic.handleKey(eventType, event, settings, hotpath)
	default:
		return event
	}
}

func (ic *Interceptor) hidCallback(_ quartz.CGEventTapProxy, eventType quartz.CGEventType, event quartz.CGEventRef, _ unsafe.Pointer) quartz.CGEventRef {
	if source.IsSelfOrigin(event) {
		return event
	}

	if eventType == quartz.KCGEventTapDisabledByTimeout || eventType == quartz.KCGEventTapDisabledByUserInput {
		ic.mu.Lock()
		tap := ic.hidTap
		ic.mu.Unlock()
		if tap != 0 && ic.gestureEng.ContinuousActive() {
			quartz.CGEventTapEnable(tap, true)
		}
		return event
	}

	if eventType != quartz.KCGEventOtherMouseDragged {
		return event
	}

	settings := ic.bridge.Snapshot()
	if AuxButtonID(quartz.CGEventGetIntegerValueField(event, quartz.KCGMouseEventNumber)) != 2 {
		return event
	}
	ic.gestureEng.Configure(settings.DragThresholdPixels, settings.ContinuousGestureOn, middleClickAction(settings), settings.Directions)
	return ic.handleMiddleDrag(event, settings)
}

func (ic *Interceptor) handleWheel(event quartz.CGEventRef, settings *config.Settings) quartz.CGEventRef {
	flags := quartz.CGEventGetFlags(event)
	w := scroll.ReadWheelEvent(event, flags)

	ms := scroll.ModifierSettings{
		ShiftHorizontal: settings.Modifiers.ShiftHorizontal,
		OptionPrecision: settings.Modifiers.OptionPrecision,
		PrecisionMult:   settings.Modifiers.PrecisionMult,
		ControlFast:     settings.Modifiers.ControlFast,
		FastMult:        settings.Modifiers.FastMult,
		ReverseScroll:   settings.ReverseScroll,
		ExternalMouse:   ic.bridge.HotPath(ic.devices.ExternalMousePresent(), ic.devices.ExternalKeyboardPresent()).ExternalMousePresent,
	}

	commandHeld := settings.Modifiers.CommandZoom && flags&quartz.KCGEventFlagMaskCommand != 0
	smoothOn := settings.SmoothLevel != config.Off

	decision := ic.scrollEng.HandleWheel(time.Now(), w, ms, commandHeld, smoothOn)

	switch {
	case decision.PassThrough:
		return event
	case len(decision.Zoom) > 0:
		for _, z := range decision.Zoom {
			scroll.EmitZoom(z)
		}
		ic.armZoomTimer()
		return 0
	case decision.DriveAnimator:
		ic.ensureAnimatorRunning()
		return 0
	case decision.Mutate != nil:
		scroll.WriteMutation(event, *decision.Mutate)
		return event
	case decision.Suppress:
		return 0
	default:
		return event
	}
}

func (ic *Interceptor) handleFlagsChanged(event quartz.CGEventRef) quartz.CGEventRef {
	flags := quartz.CGEventGetFlags(event)
	if flags&quartz.KCGEventFlagMaskCommand != 0 {
		return event
	}
	ic.zoomMu.Lock()
	if ic.zoomTimer != nil {
		ic.zoomTimer.Stop()
		ic.zoomTimer = nil
	}
	ic.zoomMu.Unlock()
	if ended := ic.scrollEng.OnCommandReleased(); ended != nil {
		scroll.EmitZoom(*ended)
	}
	return event
}

func (ic *Interceptor) armZoomTimer() {
	timeout := ic.scrollEng.ZoomTrailingTimeout()
	ic.zoomMu.Lock()
	defer ic.zoomMu.Unlock()
	if ic.zoomTimer != nil {
		ic.zoomTimer.Stop()
	}
	ic.zoomTimer = time.AfterFunc(timeout, func() {
		if ended := ic.scrollEng.OnCommandReleased(); ended != nil {
			scroll.EmitZoom(*ended)
		}
	})
}

func (ic *Interceptor) ensureAnimatorRunning() {
	ic.animatorMu.Lock()
	defer ic.animatorMu.Unlock()
	if ic.animatorRunning {
		return
	}
	ic.animatorRunning = true
	stop := make(chan struct{})
	ic.animatorStop = stop
	ic.wg.Add(1)
	go func() {
		defer ic.wg.Done()
		scroll.RunAnimatorLoop(ic.scrollEng, animatorFrameInterval, stop)
		ic.animatorMu.Lock()
		ic.animatorRunning = false
		ic.animatorMu.Unlock()
	}()
}

func (ic *Interceptor) handleAuxButton(eventType quartz.CGEventType, event quartz.CGEventRef, settings *config.Settings) quartz.CGEventRef {
	button := AuxButtonID(quartz.CGEventGetIntegerValueField(event, quartz.KCGMouseEventNumber))

	if button == 2 {
		ic.gestureEng.Configure(settings.DragThresholdPixels, settings.ContinuousGestureOn, middleClickAction(settings), settings.Directions)
		switch eventType {
		case quartz.KCGEventOtherMouseDown:
			return ic.handleMiddleDown(event)
		case quartz.KCGEventOtherMouseDragged:
			return ic.handleMiddleDrag(event, settings)
		case quartz.KCGEventOtherMouseUp:
			return ic.handleMiddleUp(event, settings)
		}
		return event
	}

	switch eventType {
	case quartz.KCGEventOtherMouseDown:
		if ic.dispatcher.OnButtonDown(button, settings.ButtonMappings) {
			return 0
		}
	case quartz.KCGEventOtherMouseUp:
		if ic.dispatcher.OnButtonUp(button, settings.ButtonMappings) {
			return 0
		}
	}
	return event
}

func middleClickAction(settings *config.Settings) policy.Action {
	if a, ok := settings.ButtonMappings.Get(2); ok {
		return a
	}
	return policy.OfEditing(policy.MiddleClick)
}

func (ic *Interceptor) handleMiddleDown(event quartz.CGEventRef) quartz.CGEventRef {
	pos := gesture.PointFromEvent(event)
	if ic.gestureEng.OnDown(pos) {
		return 0
	}
	return event
}

// handleMiddleDrag is shared by the session tap (drags before a continuous
// gesture commits) and the HID tap (drags once the window server enters
// DockSwipe capture and session-tap drag delivery stops — §4.1's design
// note on why a second tap exists).
func (ic *Interceptor) handleMiddleDrag(event quartz.CGEventRef, settings *config.Settings) quartz.CGEventRef {
	pos := gesture.PointFromEvent(event)
	width, height := gesture.ScreenSize()
	result := ic.gestureEng.OnDrag(pos, width, height)

	inverted := dockSwipeInverted(settings)
	if result.Began != nil {
		gesture.EmitBegin(*result.Began, inverted, ic.enableHIDTap, ic.dissociatePointer)
	}
	if result.Changed != nil {
		gesture.EmitChanged(*result.Changed, inverted)
	}
	if result.Suppress {
		return 0
	}
	return event
}

func (ic *Interceptor) handleMiddleUp(event quartz.CGEventRef, settings *config.Settings) quartz.CGEventRef {
	pos := gesture.PointFromEvent(event)
	result := ic.gestureEng.OnUp(pos)

	if result.End != nil {
		inverted := dockSwipeInverted(settings)
		gesture.EmitEnd(*result.End, inverted, ic.enableHIDTap, ic.dissociatePointer)
		gesture.ScheduleEndRetransmits(ic.gestureEng, *result.End, inverted, ic.gestureEng.Generation())
	}
	if result.PassThroughClick {
		return event
	}
	if result.Suppress {
		return 0
	}
	return event
}

func (ic *Interceptor) handleKey(eventType quartz.CGEventType, event quartz.CGEventRef, settings *config.Settings, hotpath config.HotPathTuple) quartz.CGEventRef {
	combo := policy.KeyCombo{
		KeyCode:   uint16(quartz.CGEventGetIntegerValueField(event, quartz.KCGKeyboardEventKeycode)),
		Modifiers: modifierMaskFromFlags(quartz.CGEventGetFlags(event)),
	}

	// hotpath.ExternalKeyboardPresent already folds in the device-override
	// setting (config.Bridge.HotPath), so the override isn't passed again.
	pipelineActive := dispatch.KeyboardPipelineActive(
		hotpath.ExternalKeyboardPresent,
		false,
		ic.bridge.FrontmostBundleID(),
		settings.ExcludedBundleIDs,
	)

	switch eventType {
	case quartz.KCGEventKeyDown:
		if ic.dispatcher.OnKeyDown(combo, settings.KeyboardRemaps, pipelineActive) {
			return 0
		}
	case quartz.KCGEventKeyUp:
		if ic.dispatcher.OnKeyUp(combo, pipelineActive) {
			return 0
		}
	}
	return event
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
