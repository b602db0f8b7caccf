// Package raster provides the immutable RGBA buffer the comparison pipeline
// works on, boundary loading/saving, and dimension normalization.
package raster

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

var (
	// ErrCorruptImageData reports a malformed or empty pixel buffer.
	ErrCorruptImageData = errors.New("raster: corrupt image data")
	// ErrExtremeDimensionMismatch reports images too different in size to resample.
	ErrExtremeDimensionMismatch = errors.New("raster: extreme dimension mismatch")
)

// Image is a row-major RGBA buffer of width*height*4 bytes with straight
// (non-premultiplied) alpha. It is never modified after construction.
type Image struct {
	width  int
	height int
	pix    []byte
}

// New copies pix into a new Image, validating its length against the dimensions.
func New(width, height int, pix []byte) (*Image, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: dimensions %dx%d", ErrCorruptImageData, width, height)
	}
	if len(pix) != width*height*4 {
		return nil, fmt.Errorf("%w: buffer is %d bytes, want %d for %dx%d",
			ErrCorruptImageData, len(pix), width*height*4, width, height)
	}
	buf := make([]byte, len(pix))
	copy(buf, pix)
	return &Image{width: width, height: height, pix: buf}, nil
}

// Filled creates a width x height image where every pixel is c.
func Filled(width, height int, c color.RGBA) (*Image, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: dimensions %dx%d", ErrCorruptImageData, width, height)
	}
	pix := make([]byte, width*height*4)
	for i := 0; i < len(pix); i += 4 {
		pix[i], pix[i+1], pix[i+2], pix[i+3] = c.R, c.G, c.B, c.A
	}
	return &Image{width: width, height: height, pix: pix}, nil
}

// FromImage converts any image.Image into an Image anchored at (0, 0).
func FromImage(src image.Image) (*Image, error) {
	if src == nil {
		return nil, fmt.Errorf("%w: nil image", ErrCorruptImageData)
	}
	b := src.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, fmt.Errorf("%w: empty bounds %v", ErrCorruptImageData, b)
	}

	// NRGBA keeps straight alpha, matching the buffer contract.
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return &Image{width: b.Dx(), height: b.Dy(), pix: dst.Pix}, nil
}

// Width returns the image width in pixels.
func (m *Image) Width() int { return m.width }

// Height returns the image height in pixels.
func (m *Image) Height() int { return m.height }

// Bounds returns the image rectangle.
func (m *Image) Bounds() image.Rectangle {
	return image.Rect(0, 0, m.width, m.height)
}

// SameSize reports whether two images have identical dimensions.
func (m *Image) SameSize(other *Image) bool {
	return m.width == other.width && m.height == other.height
}

// At returns the color at (x, y). Out-of-range coordinates return transparent black.
func (m *Image) At(x, y int) color.RGBA {
	if x < 0 || x >= m.width || y < 0 || y >= m.height {
		return color.RGBA{}
	}
	i := (y*m.width + x) * 4
	return color.RGBA{R: m.pix[i], G: m.pix[i+1], B: m.pix[i+2], A: m.pix[i+3]}
}

// NRGBA returns a copy of the buffer as an image.NRGBA.
func (m *Image) NRGBA() *image.NRGBA {
	out := image.NewNRGBA(m.Bounds())
	copy(out.Pix, m.pix)
	return out
}

// Pix returns a copy of the raw buffer.
func (m *Image) Pix() []byte {
	buf := make([]byte, len(m.pix))
	copy(buf, m.pix)
	return buf
}

// Validate checks the internal invariants; useful for images built by
// collaborators outside this package.
func (m *Image) Validate() error {
	if m == nil {
		return fmt.Errorf("%w: nil image", ErrCorruptImageData)
	}
	if m.width <= 0 || m.height <= 0 || len(m.pix) != m.width*m.height*4 {
		return fmt.Errorf("%w: %dx%d with %d bytes", ErrCorruptImageData, m.width, m.height, len(m.pix))
	}
	return nil
}
