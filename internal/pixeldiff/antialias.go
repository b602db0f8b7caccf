package pixeldiff

import (
	"design-diff/internal/raster"
	"design-diff/pkg/colorutil"
)

// isAntiAliased reports whether the pixel at (x, y) in a looks like an
// anti-aliased edge: its 3x3 neighborhood has both a darker and a brighter
// neighbor, at most two identical neighbors, and the darkest or brightest
// neighbor sits inside a flat area in both images.
func isAntiAliased(a, b *raster.Image, x, y int) bool {
	w, h := a.Width(), a.Height()
	x0, y0 := max(x-1, 0), max(y-1, 0)
	x1, y1 := min(x+1, w-1), min(y+1, h-1)

	zeroes := 0
	if x == x0 || x == x1 || y == y0 || y == y1 {
		zeroes = 1
	}

	center := a.At(x, y)
	centerLum := colorutil.Luminance(center)
	var minDelta, maxDelta float64
	var minX, minY, maxX, maxY int

	for ny := y0; ny <= y1; ny++ {
		for nx := x0; nx <= x1; nx++ {
			if nx == x && ny == y {
				continue
			}
			delta := colorutil.Luminance(a.At(nx, ny)) - centerLum
			switch {
			case delta == 0:
				zeroes++
				if zeroes > 2 {
					return false
				}
			case delta < minDelta:
				minDelta, minX, minY = delta, nx, ny
			case delta > maxDelta:
				maxDelta, maxX, maxY = delta, nx, ny
			}
		}
	}

	// Edges need a gradient on both sides.
	if minDelta == 0 || maxDelta == 0 {
		return false
	}

	return (hasManySiblings(a, minX, minY) && hasManySiblings(b, minX, minY)) ||
		(hasManySiblings(a, maxX, maxY) && hasManySiblings(b, maxX, maxY))
}

// hasManySiblings reports whether more than two neighbors of (x, y) share its exact color.
func hasManySiblings(m *raster.Image, x, y int) bool {
	w, h := m.Width(), m.Height()
	x0, y0 := max(x-1, 0), max(y-1, 0)
	x1, y1 := min(x+1, w-1), min(y+1, h-1)

	zeroes := 0
	if x == x0 || x == x1 || y == y0 || y == y1 {
		zeroes = 1
	}

	c := m.At(x, y)
	for ny := y0; ny <= y1; ny++ {
		for nx := x0; nx <= x1; nx++ {
			if nx == x && ny == y {
				continue
			}
			if m.At(nx, ny) == c {
				zeroes++
			}
			if zeroes > 2 {
				return true
			}
		}
	}
	return false
}
