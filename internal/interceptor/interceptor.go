// Package interceptor implements the Interceptor Core (§4.1): the two
// CGEventTap lifecycle, the shared callback contract (self-tag short
// circuit, tap-disabled re-enable, master-enable gating, event-type
// routing to the Scroll/Gesture engines and the Button & Key Dispatcher),
// and idempotent start/stop.
package interceptor

import "github.com/extinput/hidremap/internal/config"

// ShouldProcessMouse reports whether the hot-path tuple permits mouse-
// origin events (wheel, aux button, drag) to reach the engines, per §4.1
// step 3's master-enable gate.
func ShouldProcessMouse(h config.HotPathTuple) bool {
	return h.MasterMouseEnabled
}

// ShouldProcessKeyboard is the same gate for keyboard-origin events.
func ShouldProcessKeyboard(h config.HotPathTuple) bool {
	return h.MasterKeyboardEnabled
}

// AuxButtonID narrows the raw CGMouseButton-numbered field macOS reports
// (0=left, 1=right, 2=middle, 3+=extra) to the uint8 id the policy package's
// button mappings are keyed on — the wire numbering already matches.
func AuxButtonID(raw int64) uint8 {
	return uint8(raw)
}

// dockSwipeInverted reports the inverted-scroll flag §4.4's DockSwipe data
// event carries, which tracks the user's reverse-scroll setting rather
// than the per-tick sign (that's handled inside the pixel-conversion
// formula itself).
func dockSwipeInverted(s *config.Settings) bool {
	return s.ReverseScroll
}
