package pixeldiff

import (
	"design-diff/internal/raster"
	"design-diff/pkg/colorutil"
)

// renderOverlay draws a faded grayscale copy of actual with differing pixels
// in red and excluded anti-aliased pixels in yellow.
func renderOverlay(actual *raster.Image, r *Result, fade float64) *raster.Image {
	w, h := actual.Width(), actual.Height()
	pix := make([]byte, w*h*4)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := (y*w + x) * 4
			c := colorutil.White
			switch {
			case r.Mask.At(x, y):
				c = colorutil.Red
			case r.AntiAliased.At(x, y):
				c = colorutil.Yellow
			default:
				g := colorutil.Fade(colorutil.Luminance(actual.At(x, y)), fade)
				c.R, c.G, c.B = g, g, g
			}
			pix[i], pix[i+1], pix[i+2], pix[i+3] = c.R, c.G, c.B, 255
		}
	}

	// Dimensions come from a validated image, so New cannot fail here.
	out, _ := raster.New(w, h, pix)
	return out
}
