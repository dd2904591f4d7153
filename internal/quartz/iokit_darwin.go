package quartz

import (
	"fmt"
	"unsafe"

	"github.com/ebitengine/purego"
)

// IOKit type aliases, extending the usbwatch convention with the property
// keys and usage-page matching the Device Registry needs.
type (
	IOHIDDeviceRef  uintptr
	IOHIDManagerRef uintptr
	IOOptionBits    uint32
	IOReturn        int32
)

const (
	KIOHIDOptionsTypeNone IOOptionBits = 0
	KIOReturnSuccess      IOReturn     = 0

	// Generic-desktop usage page/usages, matching §4.2's enumeration scope.
	KHIDUsagePageGenericDesktop = 0x01
	KHIDUsageGDMouse            = 0x02
	KHIDUsageGDPointer          = 0x01
	KHIDUsageGDKeyboard         = 0x06
)

var (
	IOHIDDeviceGetProperty                     func(device IOHIDDeviceRef, key CFStringRef) CFTypeRef
	IOHIDManagerClose                          func(manager IOHIDManagerRef, options IOOptionBits) IOReturn
	IOHIDManagerCreate                         func(allocator CFAllocatorRef, options IOOptionBits) IOHIDManagerRef
	IOHIDManagerOpen                           func(manager IOHIDManagerRef, options IOOptionBits) IOReturn
	IOHIDManagerSetDeviceMatching               func(manager IOHIDManagerRef, matching CFDictionaryRef)
	IOHIDManagerSetDeviceMatchingMultiple       func(manager IOHIDManagerRef, matchingArray uintptr)
	IOHIDManagerRegisterDeviceMatchingCallback  func(manager IOHIDManagerRef, callback uintptr, context unsafe.Pointer)
	IOHIDManagerRegisterDeviceRemovalCallback   func(manager IOHIDManagerRef, callback uintptr, context unsafe.Pointer)
	IOHIDManagerScheduleWithRunLoop             func(manager IOHIDManagerRef, runLoop CFRunLoopRef, runLoopMode CFStringRef)
	IOHIDManagerCopyDevices                     func(manager IOHIDManagerRef) CFTypeRef
)

func init() {
	iokit, err := purego.Dlopen("/System/Library/Frameworks/IOKit.framework/IOKit", purego.RTLD_LAZY|purego.RTLD_GLOBAL)
	if err != nil {
		panic(fmt.Errorf("quartz: loading IOKit: %w", err))
	}

	purego.RegisterLibFunc(&IOHIDDeviceGetProperty, iokit, "IOHIDDeviceGetProperty")
	purego.RegisterLibFunc(&IOHIDManagerClose, iokit, "IOHIDManagerClose")
	purego.RegisterLibFunc(&IOHIDManagerCreate, iokit, "IOHIDManagerCreate")
	purego.RegisterLibFunc(&IOHIDManagerOpen, iokit, "IOHIDManagerOpen")
	purego.RegisterLibFunc(&IOHIDManagerSetDeviceMatching, iokit, "IOHIDManagerSetDeviceMatching")
	purego.RegisterLibFunc(&IOHIDManagerSetDeviceMatchingMultiple, iokit, "IOHIDManagerSetDeviceMatchingMultiple")
	purego.RegisterLibFunc(&IOHIDManagerRegisterDeviceMatchingCallback, iokit, "IOHIDManagerRegisterDeviceMatchingCallback")
	purego.RegisterLibFunc(&IOHIDManagerRegisterDeviceRemovalCallback, iokit, "IOHIDManagerRegisterDeviceRemovalCallback")
	purego.RegisterLibFunc(&IOHIDManagerScheduleWithRunLoop, iokit, "IOHIDManagerScheduleWithRunLoop")
	purego.RegisterLibFunc(&IOHIDManagerCopyDevices, iokit, "IOHIDManagerCopyDevices")
}

// NewUsagePageMatchingDictionary builds the {DeviceUsagePage: usagePage}
// matching dictionary IOHIDManagerSetDeviceMatching expects, the same
// shape usbwatch would build for a vendor-id match, generalized to a
// usage-page match for mouse/pointer/keyboard enumeration.
func NewUsagePageMatchingDictionary(usagePage int32) CFDictionaryRef {
	dict := CFDictionaryCreateMutable(KCFAllocatorDefault, 1, 0, 0)
	key := NewCFString("DeviceUsagePage")
	defer CFRelease(CFTypeRef(key))
	val := CFNumberCreate(KCFAllocatorDefault, KCFNumberSInt32Type, unsafe.Pointer(&usagePage))
	defer CFRelease(CFTypeRef(val))
	CFDictionarySetValue(dict, unsafe.Pointer(key), unsafe.Pointer(val))
	return CFDictionaryRef(dict)
}

func getDeviceUint16Property(device IOHIDDeviceRef, propertyName string) (uint16, bool) {
	key := NewCFString(propertyName)
	defer CFRelease(CFTypeRef(key))

	prop := IOHIDDeviceGetProperty(device, key)
	if prop == 0 {
		return 0, false
	}
	var v uint16
	if !CFNumberGetValue(CFNumberRef(prop), KCFNumberSInt16Type, unsafe.Pointer(&v)) {
		return 0, false
	}
	return v, true
}

func getDeviceStringProperty(device IOHIDDeviceRef, propertyName string) (string, bool) {
	key := NewCFString(propertyName)
	defer CFRelease(CFTypeRef(key))

	prop := IOHIDDeviceGetProperty(device, key)
	if prop == 0 {
		return "", false
	}
	return GoString(CFStringRef(prop)), true
}

// DeviceVendorID reads a HID device's VendorID property.
func DeviceVendorID(device IOHIDDeviceRef) (uint16, bool) { return getDeviceUint16Property(device, "VendorID") }

// DeviceProductID reads a HID device's ProductID property.
func DeviceProductID(device IOHIDDeviceRef) (uint16, bool) { return getDeviceUint16Property(device, "ProductID") }

// DeviceUsagePage reads a HID device's primary usage page.
func DeviceUsagePage(device IOHIDDeviceRef) (uint16, bool) { return getDeviceUint16Property(device, "PrimaryUsagePage") }

// DeviceUsage reads a HID device's primary usage.
func DeviceUsage(device IOHIDDeviceRef) (uint16, bool) { return getDeviceUint16Property(device, "PrimaryUsage") }

// DeviceManufacturer reads a HID device's vendor/manufacturer name.
func DeviceManufacturer(device IOHIDDeviceRef) (string, bool) { return getDeviceStringProperty(device, "Manufacturer") }

// DeviceProduct reads a HID device's product name.
func DeviceProduct(device IOHIDDeviceRef) (string, bool) { return getDeviceStringProperty(device, "Product") }
