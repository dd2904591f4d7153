// Package registry implements the Device Registry (§4.2): HID device
// enumeration, first-party/external classification, hot-plug change
// notification, and a safety-net refresh timer for devices that don't
// reliably emit hot-plug callbacks.
package registry

import (
	"context"
	"log"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/extinput/hidremap/internal/quartz"
	"golang.org/x/sync/errgroup"
)

// Kind classifies a device by the HID usage it enumerated under.
type Kind uint8

const (
	KindMouse Kind = iota
	KindKeyboard
)

// firstPartyVendorID is Apple's USB vendor id — devices carrying it, or
// whose vendor/product name contains firstPartyBrand, are classified
// first-party and excluded from transformation (§4.2).
const firstPartyVendorID uint16 = 0x05AC

const firstPartyBrand = "apple"

// Device is the display-only snapshot of one enumerated HID device.
type Device struct {
	VendorID     uint16
	ProductID    uint16
	VendorName   string
	ProductName  string
	Kind         Kind
	FirstParty   bool
}

func (d Device) equalByValue(o Device) bool {
	return d.VendorID == o.VendorID && d.ProductID == o.ProductID &&
		d.VendorName == o.VendorName && d.ProductName == o.ProductName &&
		d.Kind == o.Kind && d.FirstParty == o.FirstParty
}

func isFirstParty(vendorID uint16, vendorName, productName string) bool {
	if vendorID == firstPartyVendorID {
		return true
	}
	lowerV := strings.ToLower(vendorName)
	lowerP := strings.ToLower(productName)
	return strings.Contains(lowerV, firstPartyBrand) || strings.Contains(lowerP, firstPartyBrand)
}

// safetyNetInterval is the coarse refresh period for Bluetooth stacks that
// don't emit reliable hot-plug callbacks (§4.2: "~30 s").
const safetyNetInterval = 30 * time.Second

// Registry tracks connected external mice/keyboards and notifies
// subscribers when the classified device set changes by value.
type Registry struct {
	mu       sync.RWMutex
	devices  []Device
	onChange []func([]Device)

	manager quartz.IOHIDManagerRef
}

// Open creates and starts a Registry, scheduling its IOKit manager on a
// dedicated OS thread's run loop the way usbwatch.Watch does, and starts
// the ~30s safety-net refresh via an errgroup so both the callback-driven
// updates and the timer share one cancellation path.
func Open(ctx context.Context) (*Registry, error) {
	r := &Registry{}

	ready := make(chan error, 1)
	go r.runLoop(ctx, ready)
	if err := <-ready; err != nil {
		return nil, err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		r.safetyNetLoop(gctx)
		return nil
	})

	return r, nil
}

func (r *Registry) runLoop(ctx context.Context, ready chan<- error) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	mgr := quartz.IOHIDManagerCreate(quartz.KCFAllocatorDefault, quartz.KIOHIDOptionsTypeNone)
	if rv := quartz.IOHIDManagerOpen(mgr, quartz.KIOHIDOptionsTypeNone); rv != quartz.KIOReturnSuccess {
		ready <- errOpenFailed(rv)
		return
	}
	r.manager = mgr

	matching := quartz.NewUsagePageMatchingDictionary(quartz.KHIDUsagePageGenericDesktop)
	quartz.IOHIDManagerSetDeviceMatching(mgr, matching)

	rl := quartz.CFRunLoopGetCurrent()
	quartz.IOHIDManagerScheduleWithRunLoop(mgr, rl, quartz.KCFRunLoopDefaultMode)

	registryCallbacksMu.Lock()
	registryCallbacks[mgr] = r
	registryCallbacksMu.Unlock()

	quartz.IOHIDManagerRegisterDeviceMatchingCallback(mgr, deviceMatchCallbackPtr, nil)
	quartz.IOHIDManagerRegisterDeviceRemovalCallback(mgr, deviceRemovalCallbackPtr, nil)

	ready <- nil
	r.refresh()

	go func() {
		<-ctx.Done()
		quartz.CFRunLoopStop(rl)
	}()

	log.Println("registry: listening for HID device hot-plug")
	quartz.CFRunLoopRun()

	registryCallbacksMu.Lock()
	delete(registryCallbacks, mgr)
	registryCallbacksMu.Unlock()

	quartz.IOHIDManagerClose(mgr, quartz.KIOHIDOptionsTypeNone)
	log.Println("registry: stopped")
}

func (r *Registry) safetyNetLoop(ctx context.Context) {
	t := time.NewTicker(safetyNetInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r.refresh()
		}
	}
}

// OnChange registers a subscriber invoked with the new device list
// whenever it changes by value-equality.
func (r *Registry) OnChange(fn func([]Device)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onChange = append(r.onChange, fn)
}

// Devices returns the currently connected device list, for display.
func (r *Registry) Devices() []Device {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Device, len(r.devices))
	copy(out, r.devices)
	return out
}

// ExternalMousePresent reports whether any connected, non-first-party
// device classifies as a mouse/pointer.
func (r *Registry) ExternalMousePresent() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, d := range r.devices {
		if d.Kind == KindMouse && !d.FirstParty {
			return true
		}
	}
	return false
}

// ExternalKeyboardPresent reports whether any connected, non-first-party
// device classifies as a keyboard.
func (r *Registry) ExternalKeyboardPresent() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, d := range r.devices {
		if d.Kind == KindKeyboard && !d.FirstParty {
			return true
		}
	}
	return false
}

func sameDeviceSet(a, b []Device) bool {
	if len(a) != len(b) {
		return false
	}
	used := make([]bool, len(b))
	for _, da := range a {
		found := false
		for i, db := range b {
			if used[i] {
				continue
			}
			if da.equalByValue(db) {
				used[i] = true
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func errOpenFailed(rv quartz.IOReturn) error {
	return &openError{rv: rv}
}

type openError struct{ rv quartz.IOReturn }

func (e *openError) Error() string { return "registry: IOHIDManagerOpen failed" }
