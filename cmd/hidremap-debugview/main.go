// Command hidremap-debugview drives the Scroll Engine and Gesture Engine
// with synthetic input — no real CGEventTap — and renders their internal
// phase, velocity, and offset so the physics model can be inspected
// without an attached external mouse.
package main

import (
	"log"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	ebiten.SetWindowSize(windowWidth, windowHeight)
	ebiten.SetWindowTitle("hidremap debug visualizer")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeDisabled)

	if err := ebiten.RunGame(newGame()); err != nil {
		log.Fatal(err)
	}
}
