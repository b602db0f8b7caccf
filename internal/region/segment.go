package region

import (
	"fmt"
	"sort"

	"design-diff/internal/pixeldiff"
	"design-diff/pkg/geometry"
)

// Segmentation holds the regions found in a mask plus what was discarded.
type Segmentation struct {
	Regions           []Region
	DroppedComponents int // components or quadrants below MinRegionSize
	DroppedPixels     int
	SplitComponents   int // components whose padded box was split into quadrants
}

// Segment partitions the set cells of mask into 4-connected regions.
//
// Components smaller than MinRegionSize are dropped. A component whose padded
// box exceeds MaxRegionDimension on either axis is split once into quadrants
// of that box; each quadrant keeps only the component's own pixels and is
// dropped if it falls below MinRegionSize. Quadrants are not split again.
// Regions are ordered by pixel count, largest first.
func Segment(mask *pixeldiff.Mask, params Params) *Segmentation {
	seg := &Segmentation{Regions: []Region{}}
	if mask == nil || mask.Len() == 0 {
		return seg
	}

	w, h := mask.Width, mask.Height
	visited := make([]bool, w*h)
	// Reused across components; an explicit stack keeps deep blobs off the call stack.
	stack := make([]int, 0, 256)

	for start := 0; start < w*h; start++ {
		if !mask.Index(start) || visited[start] {
			continue
		}

		var pixels []geometry.PointInt
		stack = append(stack[:0], start)
		visited[start] = true

		for len(stack) > 0 {
			idx := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			px, py := idx%w, idx/w
			pixels = append(pixels, geometry.PointInt{X: px, Y: py})

			for _, d := range [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}} {
				nx, ny := px+d[0], py+d[1]
				if nx < 0 || nx >= w || ny < 0 || ny >= h {
					continue
				}
				nidx := ny*w + nx
				if mask.Index(nidx) && !visited[nidx] {
					visited[nidx] = true
					stack = append(stack, nidx)
				}
			}
		}

		if len(pixels) < params.MinRegionSize {
			seg.DroppedComponents++
			seg.DroppedPixels += len(pixels)
			continue
		}

		padded := tightBounds(pixels).Expand(params.Padding).Clamp(w, h)
		if params.MaxRegionDimension > 0 &&
			(padded.Width > params.MaxRegionDimension || padded.Height > params.MaxRegionDimension) {
			seg.SplitComponents++
			seg.splitQuadrants(padded, pixels, params)
			continue
		}

		seg.Regions = append(seg.Regions, newRegion(pixels, padded))
	}

	sort.SliceStable(seg.Regions, func(i, j int) bool {
		a, b := seg.Regions[i], seg.Regions[j]
		if a.PixelCount != b.PixelCount {
			return a.PixelCount > b.PixelCount
		}
		if a.PixelBounds.Y != b.PixelBounds.Y {
			return a.PixelBounds.Y < b.PixelBounds.Y
		}
		return a.PixelBounds.X < b.PixelBounds.X
	})
	for i := range seg.Regions {
		seg.Regions[i].ID = fmt.Sprintf("region-%03d", i+1)
	}
	return seg
}

// splitQuadrants distributes a component's pixels over the four quadrants of
// its padded box and keeps the quadrants that are still large enough.
func (s *Segmentation) splitQuadrants(padded geometry.RectInt, pixels []geometry.PointInt, params Params) {
	quads := padded.Quadrants()
	var parts [4][]geometry.PointInt
	for _, p := range pixels {
		for qi, q := range quads {
			if q.Contains(p.X, p.Y) {
				parts[qi] = append(parts[qi], p)
				break
			}
		}
	}

	for qi, part := range parts {
		if len(part) == 0 {
			continue
		}
		if len(part) < params.MinRegionSize {
			s.DroppedComponents++
			s.DroppedPixels += len(part)
			continue
		}
		s.Regions = append(s.Regions, newRegion(part, quads[qi]))
	}
}

func newRegion(pixels []geometry.PointInt, box geometry.RectInt) Region {
	tight := tightBounds(pixels)
	return Region{
		Pixels:      pixels,
		BoundingBox: box,
		PixelBounds: tight,
		Center:      tight.Center(),
		PixelCount:  len(pixels),
	}
}

func tightBounds(pixels []geometry.PointInt) geometry.RectInt {
	minX, minY := pixels[0].X, pixels[0].Y
	maxX, maxY := minX, minY
	for _, p := range pixels[1:] {
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}
	return geometry.RectFromBounds(minX, minY, maxX, maxY)
}
