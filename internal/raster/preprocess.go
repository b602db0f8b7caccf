package raster

import (
	"fmt"
	"image"
	"math"

	"golang.org/x/image/draw"
)

// NormalizeParams configures dimension normalization.
type NormalizeParams struct {
	// MaxScaleRatio is the first per-axis scale (or aspect-ratio) factor that
	// is rejected as an extreme mismatch. 3.0 rejects a 100px vs 300px pair.
	MaxScaleRatio float64 `yaml:"max_scale_ratio" json:"maxScaleRatio"`
}

// DefaultNormalizeParams returns the default normalization parameters.
func DefaultNormalizeParams() NormalizeParams {
	return NormalizeParams{MaxScaleRatio: 3.0}
}

// Dimensions is a width/height pair.
type Dimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

func (d Dimensions) String() string {
	return fmt.Sprintf("%dx%d", d.Width, d.Height)
}

// DimensionsOf returns the dimensions of an image.
func DimensionsOf(m *Image) Dimensions {
	return Dimensions{Width: m.width, Height: m.height}
}

// Resize records a resampling applied during normalization.
type Resize struct {
	From Dimensions `json:"from"`
	To   Dimensions `json:"to"`
}

// Normalized holds a pair of images with identical dimensions.
type Normalized struct {
	Expected *Image
	Actual   *Image
	Resize   *Resize // nil when the inputs already matched
}

// Normalize makes expected match actual's dimensions. Matching inputs are
// passed through untouched; otherwise expected is resampled with nearest
// neighbor. Pairs whose scale or aspect ratio differ by MaxScaleRatio or more
// fail with ErrExtremeDimensionMismatch.
func Normalize(expected, actual *Image, params NormalizeParams) (*Normalized, error) {
	if err := expected.Validate(); err != nil {
		return nil, fmt.Errorf("expected image: %w", err)
	}
	if err := actual.Validate(); err != nil {
		return nil, fmt.Errorf("actual image: %w", err)
	}

	if expected.SameSize(actual) {
		return &Normalized{Expected: expected, Actual: actual}, nil
	}

	from := DimensionsOf(expected)
	to := DimensionsOf(actual)
	if ratio := mismatchRatio(from, to); params.MaxScaleRatio > 0 && ratio >= params.MaxScaleRatio {
		return nil, fmt.Errorf("%w: expected %s vs actual %s (factor %.2f, limit %.2f)",
			ErrExtremeDimensionMismatch, from, to, ratio, params.MaxScaleRatio)
	}

	return &Normalized{
		Expected: resizeNearest(expected, to),
		Actual:   actual,
		Resize:   &Resize{From: from, To: to},
	}, nil
}

// mismatchRatio returns the largest of the per-axis scale factors and the
// aspect-ratio factor, each expressed as larger/smaller.
func mismatchRatio(a, b Dimensions) float64 {
	sx := factor(float64(a.Width), float64(b.Width))
	sy := factor(float64(a.Height), float64(b.Height))
	aspect := factor(float64(a.Width)/float64(a.Height), float64(b.Width)/float64(b.Height))
	return math.Max(aspect, math.Max(sx, sy))
}

func factor(a, b float64) float64 {
	if a > b {
		return a / b
	}
	return b / a
}

func resizeNearest(src *Image, to Dimensions) *Image {
	dst := image.NewNRGBA(image.Rect(0, 0, to.Width, to.Height))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src.NRGBA(), src.Bounds(), draw.Src, nil)
	return &Image{width: to.Width, height: to.Height, pix: dst.Pix}
}
