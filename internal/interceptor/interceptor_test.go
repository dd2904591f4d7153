package interceptor

import (
	"testing"

	"github.com/extinput/hidremap/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestShouldProcessMouseAndKeyboardReflectHotPath(t *testing.T) {
	h := config.HotPathTuple{MasterMouseEnabled: true, MasterKeyboardEnabled: false}
	assert.True(t, ShouldProcessMouse(h))
	assert.False(t, ShouldProcessKeyboard(h))
}

func TestAuxButtonIDNarrowsRawField(t *testing.T) {
	assert.Equal(t, uint8(2), AuxButtonID(2))
	assert.Equal(t, uint8(4), AuxButtonID(4))
}

func TestDockSwipeInvertedTracksReverseScrollSetting(t *testing.T) {
	s := config.Default()
	assert.False(t, dockSwipeInverted(s))
	s.ReverseScroll = true
	assert.True(t, dockSwipeInverted(s))
}
