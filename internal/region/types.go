// Package region segments a diff mask into connected regions and classifies
// each region by shape and color change.
package region

import (
	"design-diff/pkg/geometry"
)

// Type labels the kind of difference a region represents.
type Type string

const (
	TypeUnclassified      Type = ""
	TypeSmallDetail       Type = "small_detail"
	TypeLargeArea         Type = "large_area"
	TypeHorizontalElement Type = "horizontal_element"
	TypeVerticalElement   Type = "vertical_element"
	TypeColorMismatch     Type = "color_mismatch"
	TypeGeneralDifference Type = "general_difference"
)

// Severity buckets how visible a region's difference is.
type Severity string

const (
	SeverityUnrated  Severity = ""
	SeverityTrivial  Severity = "trivial"
	SeverityMinor    Severity = "minor"
	SeverityMajor    Severity = "major"
	SeverityCritical Severity = "critical"
)

// ColorStats summarizes the RGB distance between expected and actual over a
// sample of a region's pixels.
type ColorStats struct {
	Avg     float64 `json:"avg"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Samples int     `json:"samples"`
}

// Region is one connected group of differing pixels.
//
// Pixels lists the member pixels in flood-fill order. BoundingBox is the
// padded box used for context crops; PixelBounds is the tight box around
// Pixels and is what shape, overlap and size computations use.
type Region struct {
	ID          string              `json:"id"`
	Pixels      []geometry.PointInt `json:"-"`
	BoundingBox geometry.RectInt    `json:"boundingBox"`
	PixelBounds geometry.RectInt    `json:"pixelBounds"`
	Center      geometry.Point2D    `json:"center"`
	PixelCount  int                 `json:"pixelCount"`
	ColorStats  ColorStats          `json:"colorStats"`
	Type        Type                `json:"regionType"`
	Severity    Severity            `json:"severity"`
}

// Area returns the tight bounding box area.
func (r Region) Area() int {
	return r.PixelBounds.Area()
}

// Density returns the fraction of the tight bounding box covered by member pixels.
func (r Region) Density() float64 {
	area := r.Area()
	if area == 0 {
		return 0
	}
	return float64(r.PixelCount) / float64(area)
}
