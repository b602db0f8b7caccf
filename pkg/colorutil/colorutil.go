// Package colorutil provides shared color utilities for comparing rendered images.
package colorutil

import (
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// Overlay colors used by the visual diff.
var (
	Black  = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	White  = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	Red    = color.RGBA{R: 255, G: 0, B: 0, A: 255}
	Yellow = color.RGBA{R: 255, G: 255, B: 0, A: 255}
)

// MaxRGBDistance is the Euclidean distance between black and white in RGB space.
var MaxRGBDistance = math.Sqrt(3 * 255 * 255)

// BlendOverWhite composites a straight-alpha RGBA color over an opaque white
// background and returns the resulting channels in 0-255.
func BlendOverWhite(c color.RGBA) (r, g, b float64) {
	a := float64(c.A) / 255.0
	r = 255 + (float64(c.R)-255)*a
	g = 255 + (float64(c.G)-255)*a
	b = 255 + (float64(c.B)-255)*a
	return r, g, b
}

// PerceptualDistance returns the CIE-Lab distance between two colors after
// blending both over white, clamped to [0, 1]. Black vs white is 1.0.
func PerceptualDistance(c1, c2 color.RGBA) float64 {
	if c1 == c2 {
		return 0
	}
	r1, g1, b1 := BlendOverWhite(c1)
	r2, g2, b2 := BlendOverWhite(c2)
	a := colorful.Color{R: r1 / 255, G: g1 / 255, B: b1 / 255}
	b := colorful.Color{R: r2 / 255, G: g2 / 255, B: b2 / 255}
	d := a.DistanceLab(b)
	if d > 1 {
		return 1
	}
	return d
}

// RGBDistance returns the Euclidean distance between the RGB channels of two
// colors (0 to MaxRGBDistance). Alpha is ignored.
func RGBDistance(c1, c2 color.RGBA) float64 {
	dr := float64(c1.R) - float64(c2.R)
	dg := float64(c1.G) - float64(c2.G)
	db := float64(c1.B) - float64(c2.B)
	return math.Sqrt(dr*dr + dg*dg + db*db)
}

// Luminance returns the YIQ luma of a color blended over white (0-255).
func Luminance(c color.RGBA) float64 {
	r, g, b := BlendOverWhite(c)
	return r*0.29889531 + g*0.58662247 + b*0.11448223
}

// Fade blends a gray level toward white by alpha (0 = white, 1 = unchanged).
func Fade(gray, alpha float64) uint8 {
	v := 255 + (gray-255)*alpha
	return uint8(math.Round(math.Max(0, math.Min(255, v))))
}
