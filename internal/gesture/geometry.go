// Package gesture implements the Gesture Engine (§4.4): the middle-button
// discrete-trigger and continuous DockSwipe drag state machines driven off
// auxiliary button #2.
package gesture

import "math"

// Point is a pointer position in screen pixels.
type Point struct {
	X, Y float64
}

// Sub returns p minus o.
func (p Point) Sub(o Point) Point {
	return Point{X: p.X - o.X, Y: p.Y - o.Y}
}

func abs(v float64) float64 { return math.Abs(v) }
