package quartz

import (
	"fmt"

	"github.com/ebitengine/purego"
)

// SymbolicHotKey enumerates the private CoreServices indices for the
// system actions §4.5 says "use either dedicated HID key codes or a
// private symbolic-hotkey API" for. The numeric indices below are the
// well-known ones used by system-wide keyboard shortcut tooling; Show
// Desktop and the two Switch Space actions are handled by the named
// constants below rather than by this table (Show Desktop uses F11 with
// the function-key flag per §4.5; Switch Space uses indices 79/81).
type SymbolicHotKey int32

const (
	HotKeyMissionControl SymbolicHotKey = 32
	HotKeyAppExpose       SymbolicHotKey = 33
	HotKeyShowDesktop     SymbolicHotKey = 36
	HotKeyLaunchpad       SymbolicHotKey = 160
	HotKeySwitchSpaceLeft SymbolicHotKey = 79
	HotKeySwitchSpaceRight SymbolicHotKey = 81
)

var (
	CoreDockSendNotification func(name CFStringRef)
	// CoreDockGetWorkspacesCount backs SpaceCount below. Private and
	// undocumented like the notification pair above.
	CoreDockGetWorkspacesCount func() int32
)

func init() {
	// CoreDockSendNotification lives in the private SkyLight/Dock support
	// surface; several system-automation tools resolve it by symbol name
	// from the Dock or SkyLight framework rather than link against a
	// header, which is the only way to reach it without Apple Events.
	lib, err := purego.Dlopen("/System/Library/PrivateFrameworks/SkyLight.framework/SkyLight", purego.RTLD_LAZY|purego.RTLD_GLOBAL)
	if err != nil {
		// Not fatal: Mission Control, App Exposé and Launchpad degrade to
		// the HID-keycode fallback path in internal/dispatch if this
		// framework can't be resolved; the Switch Space actions do nothing.
		return
	}
	defer func() { recover() }() //nolint: errcheck -- best-effort symbol resolution
	purego.RegisterLibFunc(&CoreDockSendNotification, lib, "CoreDockSendNotification")
	purego.RegisterLibFunc(&CoreDockGetWorkspacesCount, lib, "CoreDockGetWorkspacesCount")
}

// SpaceCount queries the current number of Spaces from the window server,
// cached by the Gesture Engine once per continuous gesture (§4.4). Falls
// back to 2 — the minimum that makes the originOffsetForOneSpace formula
// well-defined — if the private symbol didn't resolve.
func SpaceCount() int {
	if CoreDockGetWorkspacesCount == nil {
		return 2
	}
	if n := int(CoreDockGetWorkspacesCount()); n >= 1 {
		return n
	}
	return 2
}

// symbolicHotKeyNotification maps each hotkey to the Dock notification
// name that fires it, the mechanism system automation tools use in place
// of the deprecated CGSGetSymbolicHotKeyValue/CGSSetSymbolicHotKeyValue
// pair on current macOS releases.
var symbolicHotKeyNotification = map[SymbolicHotKey]string{
	HotKeyMissionControl:  "com.apple.expose.awake",
	HotKeyAppExpose:       "com.apple.expose.front.awake",
	HotKeyShowDesktop:     "com.apple.showdesktop.awake",
	HotKeyLaunchpad:       "com.apple.launchpad.toggle",
	HotKeySwitchSpaceLeft: "com.apple.spaces.switchleft",
	HotKeySwitchSpaceRight: "com.apple.spaces.switchright",
}

// Fire triggers the named system action via its Dock notification. Returns
// an error if the notification name isn't known or the private symbol
// failed to resolve at init time (CoreDockSendNotification is nil).
func Fire(key SymbolicHotKey) error {
	name, ok := symbolicHotKeyNotification[key]
	if !ok {
		return fmt.Errorf("quartz: no notification mapped for symbolic hotkey %d", key)
	}
	if CoreDockSendNotification == nil {
		return fmt.Errorf("quartz: CoreDockSendNotification unavailable")
	}
	cfName := NewCFString(name)
	defer CFRelease(CFTypeRef(cfName))
	CoreDockSendNotification(cfName)
	return nil
}
