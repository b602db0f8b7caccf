// Package geometry provides basic geometric types used throughout the application.
package geometry

import (
	"math"
)

// Point2D represents a 2D point with floating-point coordinates.
type Point2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Distance returns the Euclidean distance to another point.
func (p Point2D) Distance(other Point2D) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Sub returns the difference of two points.
func (p Point2D) Sub(other Point2D) Point2D {
	return Point2D{X: p.X - other.X, Y: p.Y - other.Y}
}

// PointInt represents a 2D point with integer coordinates.
type PointInt struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// ToFloat converts to Point2D.
func (p PointInt) ToFloat() Point2D {
	return Point2D{X: float64(p.X), Y: float64(p.Y)}
}

// Rect represents a rectangle with floating-point coordinates.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// NewRect creates a new Rect.
func NewRect(x, y, width, height float64) Rect {
	return Rect{X: x, Y: y, Width: width, Height: height}
}

// Center returns the center point of the rectangle.
func (r Rect) Center() Point2D {
	return Point2D{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Area returns the rectangle's area. Degenerate rectangles have zero area.
func (r Rect) Area() float64 {
	if r.Width <= 0 || r.Height <= 0 {
		return 0
	}
	return r.Width * r.Height
}

// Size returns the rectangle's dimensions.
func (r Rect) Size() Size {
	return Size{Width: r.Width, Height: r.Height}
}

// Intersects returns true if this rectangle intersects with another.
func (r Rect) Intersects(other Rect) bool {
	return r.X < other.X+other.Width && r.X+r.Width > other.X &&
		r.Y < other.Y+other.Height && r.Y+r.Height > other.Y
}

// Intersection returns the overlapping part of two rectangles.
// Non-overlapping rectangles yield a zero Rect.
func (r Rect) Intersection(other Rect) Rect {
	if !r.Intersects(other) {
		return Rect{}
	}
	x := math.Max(r.X, other.X)
	y := math.Max(r.Y, other.Y)
	x2 := math.Min(r.X+r.Width, other.X+other.Width)
	y2 := math.Min(r.Y+r.Height, other.Y+other.Height)
	return Rect{X: x, Y: y, Width: x2 - x, Height: y2 - y}
}

// RectInt represents a rectangle with integer coordinates.
// It covers the half-open pixel range [X, X+Width) x [Y, Y+Height).
type RectInt struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// RectFromBounds builds the rectangle covering the inclusive pixel range
// (minX, minY)-(maxX, maxY).
func RectFromBounds(minX, minY, maxX, maxY int) RectInt {
	return RectInt{X: minX, Y: minY, Width: maxX - minX + 1, Height: maxY - minY + 1}
}

// ToFloat converts to Rect.
func (r RectInt) ToFloat() Rect {
	return Rect{X: float64(r.X), Y: float64(r.Y), Width: float64(r.Width), Height: float64(r.Height)}
}

// Area returns the number of pixels covered.
func (r RectInt) Area() int {
	if r.Width <= 0 || r.Height <= 0 {
		return 0
	}
	return r.Width * r.Height
}

// Center returns the center point of the rectangle.
func (r RectInt) Center() Point2D {
	return r.ToFloat().Center()
}

// MaxX returns the last column covered.
func (r RectInt) MaxX() int { return r.X + r.Width - 1 }

// MaxY returns the last row covered.
func (r RectInt) MaxY() int { return r.Y + r.Height - 1 }

// Contains returns true if the pixel (x, y) lies inside the rectangle.
func (r RectInt) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// AspectRatio returns width/height, or 0 for a degenerate rectangle.
func (r RectInt) AspectRatio() float64 {
	if r.Height <= 0 {
		return 0
	}
	return float64(r.Width) / float64(r.Height)
}

// Expand grows the rectangle by margin pixels on every side.
func (r RectInt) Expand(margin int) RectInt {
	return RectInt{
		X:      r.X - margin,
		Y:      r.Y - margin,
		Width:  r.Width + 2*margin,
		Height: r.Height + 2*margin,
	}
}

// Clamp restricts the rectangle to [0, width) x [0, height).
func (r RectInt) Clamp(width, height int) RectInt {
	x1 := max(r.X, 0)
	y1 := max(r.Y, 0)
	x2 := min(r.X+r.Width, width)
	y2 := min(r.Y+r.Height, height)
	if x2 <= x1 || y2 <= y1 {
		return RectInt{X: x1, Y: y1}
	}
	return RectInt{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}

// Quadrants splits the rectangle at its midpoint into top-left, top-right,
// bottom-left and bottom-right parts. Odd sizes give the extra row/column
// to the right and bottom quadrants.
func (r RectInt) Quadrants() [4]RectInt {
	hw := r.Width / 2
	hh := r.Height / 2
	return [4]RectInt{
		{X: r.X, Y: r.Y, Width: hw, Height: hh},
		{X: r.X + hw, Y: r.Y, Width: r.Width - hw, Height: hh},
		{X: r.X, Y: r.Y + hh, Width: hw, Height: r.Height - hh},
		{X: r.X + hw, Y: r.Y + hh, Width: r.Width - hw, Height: r.Height - hh},
	}
}

// AffineTransform represents a 2x3 affine transformation matrix.
// [a b tx]
// [c d ty]
type AffineTransform struct {
	A, B, TX float64
	C, D, TY float64
}

// Scale returns a scaling transform.
func Scale(sx, sy float64) AffineTransform {
	return AffineTransform{A: sx, D: sy}
}

// Apply applies the transform to a point.
func (t AffineTransform) Apply(p Point2D) Point2D {
	return Point2D{
		X: t.A*p.X + t.B*p.Y + t.TX,
		Y: t.C*p.X + t.D*p.Y + t.TY,
	}
}

// ApplyRect maps both corners of an axis-aligned rectangle and returns the
// axis-aligned box spanning them. Exact for scale and translation.
func (t AffineTransform) ApplyRect(r Rect) Rect {
	p1 := t.Apply(Point2D{X: r.X, Y: r.Y})
	p2 := t.Apply(Point2D{X: r.X + r.Width, Y: r.Y + r.Height})
	x := math.Min(p1.X, p2.X)
	y := math.Min(p1.Y, p2.Y)
	return Rect{X: x, Y: y, Width: math.Abs(p2.X - p1.X), Height: math.Abs(p2.Y - p1.Y)}
}

// Inverse returns the inverse transform, if it exists.
func (t AffineTransform) Inverse() (AffineTransform, bool) {
	det := t.A*t.D - t.B*t.C
	if math.Abs(det) < 1e-10 {
		return AffineTransform{}, false
	}

	invDet := 1.0 / det
	return AffineTransform{
		A:  t.D * invDet,
		B:  -t.B * invDet,
		TX: (t.B*t.TY - t.D*t.TX) * invDet,
		C:  -t.C * invDet,
		D:  t.A * invDet,
		TY: (t.C*t.TX - t.A*t.TY) * invDet,
	}, true
}

// Size represents a 2D size.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Sub returns the component-wise difference of two sizes.
func (s Size) Sub(other Size) Size {
	return Size{Width: s.Width - other.Width, Height: s.Height - other.Height}
}
