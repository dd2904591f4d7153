package quartz

import (
	"fmt"
	"runtime"
	"unsafe"

	"github.com/ebitengine/purego"
)

// CVDisplayLink bindings driving the Scroll Engine's frame-locked animator
// (§4.3 "display-link resource started when smooth-scroll first needs it").
type (
	CVDisplayLinkRef uintptr
	CVReturn         int32
	CVTimeStamp      struct {
		Version      uint32
		VideoTimeScale int32
		VideoTime      int64
		HostTime       uint64
		RateScalar     float64
		VideoRefreshPeriod int64
		SMPTETime      [4]int64
		Flags          uint64
		Reserved       uint64
	}
)

const KCVReturnSuccess CVReturn = 0

// CVDisplayLinkOutputCallback matches CVDisplayLinkSetOutputCallback's
// callback signature. The two timestamp pointers are unused by the
// animator (it reads wall-clock time itself) but kept to match the ABI.
type CVDisplayLinkOutputCallback func(displayLink CVDisplayLinkRef, inNow, inOutputTime unsafe.Pointer, flagsIn uint64, flagsOut unsafe.Pointer, userInfo unsafe.Pointer) CVReturn

var (
	CVDisplayLinkCreateWithActiveCGDisplays func(displayLinkOut *CVDisplayLinkRef) CVReturn
	CVDisplayLinkSetOutputCallback          func(displayLink CVDisplayLinkRef, callback uintptr, userInfo unsafe.Pointer) CVReturn
	CVDisplayLinkStart                      func(displayLink CVDisplayLinkRef) CVReturn
	CVDisplayLinkStop                       func(displayLink CVDisplayLinkRef) CVReturn
	CVDisplayLinkRelease                    func(displayLink CVDisplayLinkRef)
	CVDisplayLinkIsRunning                  func(displayLink CVDisplayLinkRef) bool
)

func init() {
	cv, err := purego.Dlopen("/System/Library/Frameworks/CoreVideo.framework/CoreVideo", purego.RTLD_LAZY|purego.RTLD_GLOBAL)
	if err != nil {
		panic(fmt.Errorf("quartz: loading CoreVideo: %w", err))
	}

	purego.RegisterLibFunc(&CVDisplayLinkCreateWithActiveCGDisplays, cv, "CVDisplayLinkCreateWithActiveCGDisplays")
	purego.RegisterLibFunc(&CVDisplayLinkSetOutputCallback, cv, "CVDisplayLinkSetOutputCallback")
	purego.RegisterLibFunc(&CVDisplayLinkStart, cv, "CVDisplayLinkStart")
	purego.RegisterLibFunc(&CVDisplayLinkStop, cv, "CVDisplayLinkStop")
	purego.RegisterLibFunc(&CVDisplayLinkRelease, cv, "CVDisplayLinkRelease")
	purego.RegisterLibFunc(&CVDisplayLinkIsRunning, cv, "CVDisplayLinkIsRunning")
}

// DisplayLink wraps a CVDisplayLinkRef with the single-creating-thread
// discipline §9's design notes require: "the handle may only be
// invalidated on the same thread that created it; ensure teardown hops to
// that thread."
type DisplayLink struct {
	ref       CVDisplayLinkRef
	teardown  chan struct{}
	onFrame   func()
}

// NewDisplayLink creates (but does not start) a display link bound to the
// calling goroutine's OS thread. Callers must invoke Close from a function
// run via the same mechanism that created it — see Run.
func NewDisplayLink(onFrame func()) (*DisplayLink, error) {
	dl := &DisplayLink{teardown: make(chan struct{}), onFrame: onFrame}
	if rv := CVDisplayLinkCreateWithActiveCGDisplays(&dl.ref); rv != KCVReturnSuccess {
		return nil, fmt.Errorf("quartz: CVDisplayLinkCreateWithActiveCGDisplays failed: %d", rv)
	}
	cb := purego.NewCallback(func(_ CVDisplayLinkRef, _, _ unsafe.Pointer, _ uint64, _ unsafe.Pointer, userInfo unsafe.Pointer) CVReturn {
		(*(*func())(userInfo))()
		return KCVReturnSuccess
	})
	if rv := CVDisplayLinkSetOutputCallback(dl.ref, cb, unsafe.Pointer(&dl.onFrame)); rv != KCVReturnSuccess {
		return nil, fmt.Errorf("quartz: CVDisplayLinkSetOutputCallback failed: %d", rv)
	}
	return dl, nil
}

// Run starts the display link and blocks until Close is called, hopping
// teardown back onto the thread Run is executing on — the thread that
// created dl, as required by NewDisplayLink's contract. Callers run this
// in a dedicated goroutine with runtime.LockOSThread held.
func (dl *DisplayLink) Run() error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if rv := CVDisplayLinkStart(dl.ref); rv != KCVReturnSuccess {
		return fmt.Errorf("quartz: CVDisplayLinkStart failed: %d", rv)
	}
	<-dl.teardown
	CVDisplayLinkStop(dl.ref)
	CVDisplayLinkRelease(dl.ref)
	return nil
}

// Close signals Run to stop and release the display link. Safe to call
// from any thread.
func (dl *DisplayLink) Close() {
	close(dl.teardown)
}
