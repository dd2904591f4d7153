package config

import "sync/atomic"

// Bridge is the synchronized accessor §5.1 calls for: tap callbacks read a
// small set of user-policy fields through it, the UI/CLI side publishes a
// new snapshot on every change. Using atomic.Pointer rather than a
// main-thread hop makes every Load a single lock-free read, and makes
// "recursive" re-entry trivially safe since there is no lock to re-enter.
type Bridge struct {
	current     atomic.Pointer[Settings]
	frontmostID atomic.Pointer[string]
}

// NewBridge publishes an initial snapshot and returns the bridge.
func NewBridge(initial *Settings) *Bridge {
	b := &Bridge{}
	b.current.Store(initial)
	empty := ""
	b.frontmostID.Store(&empty)
	return b
}

// Snapshot returns the current settings pointer. Callers must not mutate
// the returned value — publish a new one via Publish instead.
func (b *Bridge) Snapshot() *Settings {
	return b.current.Load()
}

// Publish installs a new settings snapshot, atomically visible to every
// subsequent Snapshot call.
func (b *Bridge) Publish(s *Settings) {
	b.current.Store(s)
}

// HotPathTuple is the minimal set of fields the Interceptor Core's callback
// needs on every single event — hoisting just these avoids touching the
// full Settings struct (and its maps) on the hot path, per §5.1's "the read
// is made small by hoisting only the needed fields."
type HotPathTuple struct {
	MasterMouseEnabled      bool
	MasterKeyboardEnabled   bool
	ExternalMousePresent    bool
	ExternalKeyboardPresent bool
}

// HotPath returns the tuple the tap callback consults first, given the
// Device Registry's current presence booleans (derived externally, not
// stored in Settings itself, per §3's "External-device presence booleans
// (derived from Device Registry)").
func (b *Bridge) HotPath(externalMouse, externalKeyboard bool) HotPathTuple {
	s := b.Snapshot()
	return HotPathTuple{
		MasterMouseEnabled:      s.MasterMouseEnabled,
		MasterKeyboardEnabled:   s.MasterKeyboardEnabled,
		ExternalMousePresent:    externalMouse || s.Overrides.AssumeExternalMouse,
		ExternalKeyboardPresent: externalKeyboard || s.Overrides.AssumeExternalKeyboard,
	}
}

// FrontmostBundleID returns the cached frontmost application bundle id,
// updated only by SetFrontmostBundleID (driven by an activation
// notification, never queried per-event — see internal/quartz).
func (b *Bridge) FrontmostBundleID() string {
	return *b.frontmostID.Load()
}

// SetFrontmostBundleID updates the cached frontmost bundle id.
func (b *Bridge) SetFrontmostBundleID(id string) {
	b.frontmostID.Store(&id)
}
