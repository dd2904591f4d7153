// Package quartz binds the CoreFoundation, IOKit, ApplicationServices,
// CoreGraphics, CoreVideo, and libobjc entry points the Interceptor Core,
// Device Registry, and Scroll/Gesture engines need, the same way
// internal/usbwatch binds IOKit: purego.Dlopen + purego.RegisterLibFunc,
// no cgo.
package quartz

import (
	"fmt"
	"unsafe"

	"github.com/ebitengine/purego"
)

// CoreFoundation type aliases, extended from the usbwatch convention with
// the extra types the event-tap and device-registry surfaces need.
type (
	CFAllocatorRef         uintptr
	CFDictionaryRef        uintptr
	CFIndex                int64
	CFMutableDictionaryRef uintptr
	CFNumberRef            uintptr
	CFNumberType           = CFIndex
	CFRunLoopRef           uintptr
	CFRunLoopSourceRef     uintptr
	CFStringRef            uintptr
	CFTypeRef              uintptr
	CFStringEncoding       uint32
	CFTimeInterval         float64
)

const (
	KCFAllocatorDefault   CFAllocatorRef   = 0
	KCFNumberSInt16Type   CFNumberType     = 2
	KCFNumberSInt32Type   CFNumberType     = 3
	KCFNumberDoubleType   CFNumberType     = 13
	KCFStringEncodingUTF8 CFStringEncoding = 0x08000100
)

var (
	CFNumberCreate          func(allocator CFAllocatorRef, theType CFNumberType, valuePtr unsafe.Pointer) CFNumberRef
	CFNumberGetValue        func(number CFNumberRef, theType CFNumberType, valuePtr unsafe.Pointer) bool
	CFRelease               func(cf CFTypeRef)
	CFRetain                func(cf CFTypeRef) CFTypeRef
	CFRunLoopGetCurrent     func() CFRunLoopRef
	CFRunLoopRun            func()
	CFRunLoopStop           func(runLoop CFRunLoopRef)
	CFRunLoopAddSource      func(rl CFRunLoopRef, source CFRunLoopSourceRef, mode CFStringRef)
	CFRunLoopRemoveSource   func(rl CFRunLoopRef, source CFRunLoopSourceRef, mode CFStringRef)
	CFStringCreateWithBytes func(alloc CFAllocatorRef, bytes []byte, numBytes CFIndex, encoding CFStringEncoding, isExternalRepresentation bool) CFStringRef
	CFStringGetLength       func(s CFStringRef) CFIndex
	CFStringGetCString      func(s CFStringRef, buffer []byte, bufferSize CFIndex, encoding CFStringEncoding) bool

	CFDictionaryCreateMutable func(allocator CFAllocatorRef, capacity CFIndex, keyCallBacks, valueCallBacks uintptr) CFMutableDictionaryRef
	CFDictionarySetValue      func(dict CFMutableDictionaryRef, key, value unsafe.Pointer)

	CFSetGetCount       func(set CFTypeRef) CFIndex
	CFSetApplyFunction  func(set CFTypeRef, applier uintptr, context unsafe.Pointer)
)

// KCFRunLoopDefaultMode is resolved at init time from the CoreFoundation
// symbol table, following the same *(**CFStringRef) trick usbwatch uses
// for the one extern CFStringRef constant it needs.
var KCFRunLoopDefaultMode CFStringRef

var coreFoundation uintptr

func init() {
	var err error
	coreFoundation, err = purego.Dlopen("/System/Library/Frameworks/CoreFoundation.framework/CoreFoundation", purego.RTLD_LAZY|purego.RTLD_GLOBAL)
	if err != nil {
		panic(fmt.Errorf("quartz: loading CoreFoundation: %w", err))
	}

	purego.RegisterLibFunc(&CFNumberCreate, coreFoundation, "CFNumberCreate")
	purego.RegisterLibFunc(&CFNumberGetValue, coreFoundation, "CFNumberGetValue")
	purego.RegisterLibFunc(&CFRelease, coreFoundation, "CFRelease")
	purego.RegisterLibFunc(&CFRetain, coreFoundation, "CFRetain")
	purego.RegisterLibFunc(&CFRunLoopGetCurrent, coreFoundation, "CFRunLoopGetCurrent")
	purego.RegisterLibFunc(&CFRunLoopRun, coreFoundation, "CFRunLoopRun")
	purego.RegisterLibFunc(&CFRunLoopStop, coreFoundation, "CFRunLoopStop")
	purego.RegisterLibFunc(&CFRunLoopAddSource, coreFoundation, "CFRunLoopAddSource")
	purego.RegisterLibFunc(&CFRunLoopRemoveSource, coreFoundation, "CFRunLoopRemoveSource")
	purego.RegisterLibFunc(&CFStringCreateWithBytes, coreFoundation, "CFStringCreateWithBytes")
	purego.RegisterLibFunc(&CFStringGetLength, coreFoundation, "CFStringGetLength")
	purego.RegisterLibFunc(&CFStringGetCString, coreFoundation, "CFStringGetCString")
	purego.RegisterLibFunc(&CFDictionaryCreateMutable, coreFoundation, "CFDictionaryCreateMutable")
	purego.RegisterLibFunc(&CFDictionarySetValue, coreFoundation, "CFDictionarySetValue")
	purego.RegisterLibFunc(&CFSetGetCount, coreFoundation, "CFSetGetCount")
	purego.RegisterLibFunc(&CFSetApplyFunction, coreFoundation, "CFSetApplyFunction")

	sym, err := purego.Dlsym(coreFoundation, "kCFRunLoopDefaultMode")
	if err != nil {
		panic(fmt.Errorf("quartz: resolving kCFRunLoopDefaultMode: %w", err))
	}
	KCFRunLoopDefaultMode = *(*CFStringRef)(unsafe.Pointer(sym))
}

// NewCFString creates a CFStringRef from a Go string. Callers own the
// returned reference and must CFRelease it.
func NewCFString(s string) CFStringRef {
	b := []byte(s)
	return CFStringCreateWithBytes(KCFAllocatorDefault, b, CFIndex(len(b)), KCFStringEncodingUTF8, false)
}

// GoString reads a CFStringRef into a Go string.
func GoString(s CFStringRef) string {
	n := CFStringGetLength(s)
	if n == 0 {
		return ""
	}
	buf := make([]byte, n*4+1)
	if !CFStringGetCString(s, buf, CFIndex(len(buf)), KCFStringEncodingUTF8) {
		return ""
	}
	for i, b := range buf {
		if b == 0 {
			return string(buf[:i])
		}
	}
	return string(buf)
}
