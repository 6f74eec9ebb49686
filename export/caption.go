package export

import (
	"fmt"
	"image"
	"image/color"

	"github.com/stewi1014/shaderviewer/navigator"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const captionPadding = 4

// CaptionLines describes the exported view.
func CaptionLines(shader string, r navigator.Readout) []string {
	minReal, maxReal, minImag, maxImag, length, zoom := r.Strings()
	return []string{
		shader,
		fmt.Sprintf("Re [%v, %v]", minReal, maxReal),
		fmt.Sprintf("Im [%v, %v]", minImag, maxImag),
		fmt.Sprintf("range %v  zoom x%v", length, zoom),
	}
}

// Caption writes lines in the bottom left corner of dst over a dark backing.
func Caption(dst draw.Image, lines []string) {
	if len(lines) == 0 {
		return
	}

	face := basicfont.Face7x13
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(color.White),
		Face: face,
	}

	width := 0
	for _, line := range lines {
		width = max(width, d.MeasureString(line).Ceil())
	}
	lineHeight := face.Metrics().Height.Ceil()

	bounds := dst.Bounds()
	box := image.Rect(
		bounds.Min.X,
		bounds.Max.Y-len(lines)*lineHeight-2*captionPadding,
		bounds.Min.X+width+2*captionPadding,
		bounds.Max.Y,
	).Intersect(bounds)
	draw.Draw(dst, box, image.NewUniform(color.NRGBA{A: 0xa0}), image.Point{}, draw.Over)

	ascent := face.Metrics().Ascent.Ceil()
	for i, line := range lines {
		d.Dot = fixed.P(box.Min.X+captionPadding, box.Min.Y+captionPadding+i*lineHeight+ascent)
		d.DrawString(line)
	}
}
