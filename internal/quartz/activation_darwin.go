package quartz

import (
	"fmt"
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"
)

// Frontmost-application activation tracking (§3: "Cached frontmost-
// application bundle id (updated by activation notification, not queried
// per-event)"). NSWorkspace's notification center is Objective-C and
// block/selector based, not a plain C callback table like IOKit's, so this
// synthesizes a minimal Objective-C class from Go — the same
// objc_allocateClassPair/class_addMethod technique ebitengine/gomobile
// uses for its Cocoa app delegate, extending the purego binding idiom
// usbwatch already established for IOKit to libobjc. See DESIGN.md's Open
// Question decision #3.

type (
	objcID    uintptr
	objcClass uintptr
	objcSEL   uintptr
)

var (
	objcGetClass          func(name string) objcClass
	objcAllocateClassPair func(superclass objcClass, name string, extraBytes uintptr) objcClass
	objcRegisterClassPair func(cls objcClass)
	objcMsgSend           func(receiver objcID, sel objcSEL, args ...uintptr) objcID
	selRegisterName       func(name string) objcSEL
	classAddMethod        func(cls objcClass, sel objcSEL, imp uintptr, types string) bool
)

func init() {
	lib, err := purego.Dlopen("/usr/lib/libobjc.A.dylib", purego.RTLD_LAZY|purego.RTLD_GLOBAL)
	if err != nil {
		panic(fmt.Errorf("quartz: loading libobjc: %w", err))
	}
	purego.RegisterLibFunc(&objcGetClass, lib, "objc_getClass")
	purego.RegisterLibFunc(&objcAllocateClassPair, lib, "objc_allocateClassPair")
	purego.RegisterLibFunc(&objcRegisterClassPair, lib, "objc_registerClassPair")
	purego.RegisterLibFunc(&objcMsgSend, lib, "objc_msgSend")
	purego.RegisterLibFunc(&selRegisterName, lib, "sel_registerName")
	purego.RegisterLibFunc(&classAddMethod, lib, "class_addMethod")
}

// ActivationObserver registers for NSWorkspace's
// NSWorkspaceDidActivateApplicationNotification and invokes onActivate
// with the newly frontmost application's bundle identifier.
type ActivationObserver struct {
	mu         sync.Mutex
	instance   objcID
	onActivate func(bundleID string)
}

var (
	activationObservers   = map[objcID]*ActivationObserver{}
	activationObserversMu sync.Mutex
	observerClass         objcClass
	observerClassOnce      sync.Once
)

func ensureObserverClass() {
	observerClassOnce.Do(func() {
		superclass := objcGetClass("NSObject")
		observerClass = objcAllocateClassPair(superclass, "HidremapActivationObserver", 0)
		sel := selRegisterName("handleActivate:")
		imp := purego.NewCallback(func(self objcID, _ objcSEL, notification objcID) {
			bundleID := extractBundleID(notification)
			activationObserversMu.Lock()
			obs := activationObservers[self]
			activationObserversMu.Unlock()
			if obs != nil && obs.onActivate != nil {
				obs.onActivate(bundleID)
			}
		})
		// "v@:@" — void return, self, _cmd, one object argument.
		classAddMethod(observerClass, sel, imp, "v@:@")
		objcRegisterClassPair(observerClass)
	})
}

// extractBundleID pulls -bundleIdentifier off the notification's
// NSRunningApplication payload (userInfo[NSWorkspaceApplicationKey]).
func extractBundleID(notification objcID) string {
	selUserInfo := selRegisterName("userInfo")
	userInfo := objcID(objcMsgSend(notification, selUserInfo))
	if userInfo == 0 {
		return ""
	}
	selObjectForKey := selRegisterName("objectForKey:")
	keyStr := NewCFString("NSWorkspaceApplicationKey")
	defer CFRelease(CFTypeRef(keyStr))
	app := objcID(objcMsgSend(userInfo, selObjectForKey, uintptr(keyStr)))
	if app == 0 {
		return ""
	}
	selBundleID := selRegisterName("bundleIdentifier")
	nsStr := objcID(objcMsgSend(app, selBundleID))
	if nsStr == 0 {
		return ""
	}
	return GoString(CFStringRef(nsStr))
}

// NewActivationObserver creates and registers an observer. Call Close to
// unregister it; a *quartz.ActivationObserver must be Closed before the
// process exits to avoid NSWorkspace holding a dangling selector target.
func NewActivationObserver(onActivate func(bundleID string)) (*ActivationObserver, error) {
	ensureObserverClass()

	selAlloc := selRegisterName("alloc")
	selInit := selRegisterName("init")
	instance := objcID(objcMsgSend(objcID(observerClass), selAlloc))
	instance = objcID(objcMsgSend(instance, selInit))
	if instance == 0 {
		return nil, fmt.Errorf("quartz: failed to allocate activation observer")
	}

	obs := &ActivationObserver{onActivate: onActivate}
	activationObserversMu.Lock()
	activationObservers[instance] = obs
	activationObserversMu.Unlock()

	workspace := sharedWorkspace()
	nc := workspaceNotificationCenter(workspace)
	name := NewCFString("NSWorkspaceDidActivateApplicationNotification")
	defer CFRelease(CFTypeRef(name))

	selAddObserver := selRegisterName("addObserver:selector:name:object:")
	sel := selRegisterName("handleActivate:")
	objcMsgSend(nc, selAddObserver, uintptr(instance), uintptr(sel), uintptr(name), 0)

	obs.instance = instance
	return obs, nil
}

func sharedWorkspace() objcID {
	cls := objcGetClass("NSWorkspace")
	sel := selRegisterName("sharedWorkspace")
	return objcID(objcMsgSend(objcID(cls), sel))
}

func workspaceNotificationCenter(workspace objcID) objcID {
	sel := selRegisterName("notificationCenter")
	return objcID(objcMsgSend(workspace, sel))
}

// Close unregisters the observer from NSWorkspace's notification center.
func (o *ActivationObserver) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.instance == 0 {
		return
	}
	workspace := sharedWorkspace()
	nc := workspaceNotificationCenter(workspace)
	selRemove := selRegisterName("removeObserver:")
	objcMsgSend(nc, selRemove, uintptr(o.instance))

	activationObserversMu.Lock()
	delete(activationObservers, o.instance)
	activationObserversMu.Unlock()
	o.instance = 0
}
