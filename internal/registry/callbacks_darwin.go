package registry

import (
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"
	"github.com/extinput/hidremap/internal/quartz"
)

// registryCallbacks maps a live IOHIDManagerRef to the Registry that owns
// it, mirroring usbwatch's package-level callbackCtx convention. The
// callbacks look it up without the key (see lookupRegistry), so only one
// running registry at a time receives hot-plug refreshes.
var (
	registryCallbacks   = map[quartz.IOHIDManagerRef]*Registry{}
	registryCallbacksMu sync.Mutex
)

func lookupRegistry() *Registry {
	registryCallbacksMu.Lock()
	defer registryCallbacksMu.Unlock()
	// Exactly one registry runs its loop at a time in this process; the
	// callback ABI doesn't thread the manager handle through conveniently,
	// so the single-entry map is read without a key the same way usbwatch
	// reads its single package-level callbackCtx.
	for _, r := range registryCallbacks {
		return r
	}
	return nil
}

var deviceMatchCallbackPtr = purego.NewCallback(func(_ unsafe.Pointer, _ quartz.IOReturn, _ uintptr, _ quartz.IOHIDDeviceRef) {
	if r := lookupRegistry(); r != nil {
		r.refresh()
	}
})

var deviceRemovalCallbackPtr = purego.NewCallback(func(_ unsafe.Pointer, _ quartz.IOReturn, _ uintptr, _ quartz.IOHIDDeviceRef) {
	if r := lookupRegistry(); r != nil {
		r.refresh()
	}
})

type deviceCollector struct {
	devices []Device
}

var collectApplierPtr = purego.NewCallback(func(value unsafe.Pointer, context unsafe.Pointer) {
	device := quartz.IOHIDDeviceRef(uintptr(value))
	collector := (*deviceCollector)(context)

	vendorID, _ := quartz.DeviceVendorID(device)
	productID, _ := quartz.DeviceProductID(device)
	vendorName, _ := quartz.DeviceManufacturer(device)
	productName, _ := quartz.DeviceProduct(device)
	usage, _ := quartz.DeviceUsage(device)

	kind := KindMouse
	if usage == quartz.KHIDUsageGDKeyboard {
		kind = KindKeyboard
	}

	collector.devices = append(collector.devices, Device{
		VendorID:    vendorID,
		ProductID:   productID,
		VendorName:  vendorName,
		ProductName: productName,
		Kind:        kind,
		FirstParty:  isFirstParty(vendorID, vendorName, productName),
	})
})

// refresh re-enumerates devices from the IOHIDManager's current device set
// and publishes a change notification iff the classified set differs by
// value from what was previously published (§4.2: "deliberately ignoring
// synthetic per-instance identity to avoid redraw storms from the refresh
// timer").
func (r *Registry) refresh() {
	if r.manager == 0 {
		return
	}
	setRef := quartz.IOHIDManagerCopyDevices(r.manager)
	if setRef == 0 {
		return
	}
	defer quartz.CFRelease(setRef)

	collector := &deviceCollector{}
	quartz.CFSetApplyFunction(setRef, collectApplierPtr, unsafe.Pointer(collector))

	r.mu.Lock()
	changed := !sameDeviceSet(r.devices, collector.devices)
	if changed {
		r.devices = collector.devices
	}
	subscribers := append([]func([]Device){}, r.onChange...)
	snapshot := append([]Device{}, r.devices...)
	r.mu.Unlock()

	if changed {
		for _, fn := range subscribers {
			fn(snapshot)
		}
	}
}
