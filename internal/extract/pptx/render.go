package pptx

import (
	"image"
	"image/color"
	"image/draw"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

var (
	renderBackground = image.NewUniform(color.White)
	renderInk        = image.NewUniform(color.RGBA{R: 0x20, G: 0x20, B: 0x20, A: 0xff})
)

// renderSlide rasterises the slide's text onto a 16:9 canvas of the given
// height. Fidelity is intentionally low: the raster feeds the perceptual
// fingerprint and gives the index a browsable image without a native
// presentation renderer. Fragments are drawn top to bottom; text that
// overflows the canvas is clipped.
func renderSlide(texts []string, height int) image.Image {
	width := height * 16 / 9
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), renderBackground, image.Point{}, draw.Src)

	face := basicfont.Face7x13
	drawer := &font.Drawer{
		Dst:  img,
		Src:  renderInk,
		Face: face,
	}

	margin := height / 12
	lineHeight := face.Metrics().Height.Ceil() + 2
	y := margin + face.Metrics().Ascent.Ceil()

	for _, fragment := range texts {
		for _, line := range strings.Split(fragment, "\n") {
			if y > height-margin {
				return img
			}
			drawer.Dot = fixed.P(margin, y)
			drawer.DrawString(line)
			y += lineHeight
		}
		y += lineHeight / 2
	}
	return img
}
