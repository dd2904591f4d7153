package main

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/hajimehoshi/ebiten/v2"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// renderLabel rasterizes text with the fixed-width basicfont face into an
// ebiten.Image, the way weather.Module.drawText rasterizes onto a Stream
// Deck key/strip image — here the canvas is an *image.RGBA blitted onto the
// ebiten screen instead of a hardware key surface.
func renderLabel(text string, col color.Color) *ebiten.Image {
	face := basicfont.Face7x13
	bounds, _ := font.BoundString(face, text)
	width := (bounds.Max.X - bounds.Min.X).Ceil() + 2
	height := face.Metrics().Height.Ceil() + 2
	if width <= 0 {
		width = 1
	}
	if height <= 0 {
		height = 1
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), &image.Uniform{color.Transparent}, image.Point{}, draw.Src)

	d := &font.Drawer{
		Dst:  img,
		Src:  &image.Uniform{col},
		Face: face,
		Dot:  fixed.P(1, face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(text)

	return ebiten.NewImageFromImage(img)
}
