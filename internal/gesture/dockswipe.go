package gesture

import "github.com/extinput/hidremap/internal/policy"

// SwipeType mirrors quartz.DockSwipeType without importing the platform
// package, so the pixel-conversion math stays unit-testable.
type SwipeType uint8

const (
	SwipeHorizontal SwipeType = 1
	SwipeVertical   SwipeType = 2
	SwipePinch      SwipeType = 3
)

// SelectSwipeType implements §4.4 step 1: the DockSwipe type is chosen by
// the triggering system action's identity, not by the drag's geometric
// axis — SwitchSpace is always horizontal, Mission Control/App Exposé
// always vertical, Show Desktop/Launchpad always pinch, regardless of
// which physical direction the user dragged to reach that action.
func SelectSwipeType(action policy.Action) (SwipeType, bool) {
	if action.Kind != policy.ActionSystem {
		return 0, false
	}
	switch action.System {
	case policy.SwitchSpaceLeft, policy.SwitchSpaceRight:
		return SwipeHorizontal, true
	case policy.MissionControl, policy.AppExpose:
		return SwipeVertical, true
	case policy.ShowDesktop, policy.Launchpad:
		return SwipePinch, true
	default:
		return 0, false
	}
}

// OriginOffsetForOneSpace implements §4.4's horizontal-conversion
// coefficient: 1 + 1/(nSpaces-1) for nSpaces >= 2, else 2.
func OriginOffsetForOneSpace(nSpaces int) float64 {
	if nSpaces >= 2 {
		return 1 + 1/float64(nSpaces-1)
	}
	return 2
}

// PixelsToDockSwipeDelta converts a pixel delta along the locked axis to a
// DockSwipe unit delta per §4.4 step 3. Horizontal swipes scale by the
// origin-offset coefficient and the screen width plus a 63px fudge factor;
// vertical and pinch swipes scale by screen height alone. The sign is
// inverted relative to the raw pixel delta (up/left pixel motion yields a
// positive DockSwipe delta) per the construction note's sign convention.
func PixelsToDockSwipeDelta(swipe SwipeType, pixelDelta float64, nSpaces, screenWidth, screenHeight int) float64 {
	var magnitude float64
	switch swipe {
	case SwipeHorizontal:
		offset := OriginOffsetForOneSpace(nSpaces)
		magnitude = (pixelDelta * offset) / (float64(screenWidth) + 63)
	default: // Vertical, Pinch
		magnitude = pixelDelta / float64(screenHeight)
	}
	return -magnitude
}

// componentForAxis extracts the signed pixel component relevant to the
// locked axis from a delta vector.
func componentForAxis(d Point, axis lockedAxis) float64 {
	if axis == axisHorizontal {
		return d.X
	}
	return d.Y
}
