package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsFirstPartyByVendorID(t *testing.T) {
	assert.True(t, isFirstParty(firstPartyVendorID, "Unbranded", "Unbranded"))
}

func TestIsFirstPartyByNameSubstring(t *testing.T) {
	assert.True(t, isFirstParty(0x1234, "Apple Inc.", ""))
	assert.True(t, isFirstParty(0x1234, "", "Apple Magic Keyboard"))
	assert.True(t, isFirstParty(0x1234, "APPLE", ""), "match is case-insensitive")
}

func TestIsFirstPartyRejectsUnrelatedDevice(t *testing.T) {
	assert.False(t, isFirstParty(0x046D, "Logitech", "MX Master 3"))
}

func TestSameDeviceSetIgnoresOrder(t *testing.T) {
	a := []Device{
		{VendorID: 1, ProductID: 1, Kind: KindMouse},
		{VendorID: 2, ProductID: 2, Kind: KindKeyboard},
	}
	b := []Device{
		{VendorID: 2, ProductID: 2, Kind: KindKeyboard},
		{VendorID: 1, ProductID: 1, Kind: KindMouse},
	}
	assert.True(t, sameDeviceSet(a, b))
}

func TestSameDeviceSetDetectsChange(t *testing.T) {
	a := []Device{{VendorID: 1, ProductID: 1, Kind: KindMouse}}
	b := []Device{{VendorID: 1, ProductID: 2, Kind: KindMouse}}
	assert.False(t, sameDeviceSet(a, b))

	c := []Device{{VendorID: 1, ProductID: 1, Kind: KindMouse}, {VendorID: 2, ProductID: 2, Kind: KindMouse}}
	assert.False(t, sameDeviceSet(a, c), "different length is never equal")
}

func TestRegistryPresenceAccessorsIgnoreFirstParty(t *testing.T) {
	r := &Registry{
		devices: []Device{
			{Kind: KindMouse, FirstParty: true},
			{Kind: KindKeyboard, FirstParty: false},
		},
	}
	assert.False(t, r.ExternalMousePresent(), "the only mouse present is first-party")
	assert.True(t, r.ExternalKeyboardPresent())
}
