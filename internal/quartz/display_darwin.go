package quartz

import "github.com/ebitengine/purego"

// CGDirectDisplayID identifies a physical display.
type CGDirectDisplayID uint32

var (
	CGMainDisplayID      func() CGDirectDisplayID
	CGDisplayPixelsWide  func(display CGDirectDisplayID) int
	CGDisplayPixelsHigh  func(display CGDirectDisplayID) int
)

func init() {
	coreGraphics, err := purego.Dlopen("/System/Library/Frameworks/CoreGraphics.framework/CoreGraphics", purego.RTLD_LAZY|purego.RTLD_GLOBAL)
	if err != nil {
		return
	}
	purego.RegisterLibFunc(&CGMainDisplayID, coreGraphics, "CGMainDisplayID")
	purego.RegisterLibFunc(&CGDisplayPixelsWide, coreGraphics, "CGDisplayPixelsWide")
	purego.RegisterLibFunc(&CGDisplayPixelsHigh, coreGraphics, "CGDisplayPixelsHigh")
}

// MainDisplaySize returns the main display's pixel dimensions, used by the
// Gesture Engine's pixel-to-DockSwipe-unit conversion (§4.4). Returns a
// conservative nonzero fallback if CoreGraphics failed to load, so the
// conversion formulas never divide by zero.
func MainDisplaySize() (width, height int) {
	if CGMainDisplayID == nil {
		return 1440, 900
	}
	id := CGMainDisplayID()
	w, h := CGDisplayPixelsWide(id), CGDisplayPixelsHigh(id)
	if w == 0 || h == 0 {
		return 1440, 900
	}
	return w, h
}
