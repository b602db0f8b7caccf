// Package pixeldiff computes per-pixel differences between two equally sized
// images and renders a visual overlay of the result.
package pixeldiff

import (
	"fmt"

	"design-diff/internal/raster"
	"design-diff/pkg/colorutil"
)

// Options configures the diff.
type Options struct {
	// Threshold is the perceptual distance (0-1) a pixel pair must exceed to
	// count as different. Values outside [0, 1] are clamped.
	Threshold float64 `yaml:"threshold" json:"threshold"`

	// IncludeAntiAliasing counts anti-aliased edge pixels as differences.
	// When false they are tracked separately and left out of the diff count.
	IncludeAntiAliasing bool `yaml:"include_anti_aliasing" json:"includeAntiAliasing"`

	// DrawOverlay renders Result.Overlay.
	DrawOverlay bool `yaml:"draw_overlay" json:"drawOverlay"`

	// OverlayFade is the opacity (0-1) of the grayscale actual image under the
	// overlay's highlighted pixels.
	OverlayFade float64 `yaml:"overlay_fade" json:"overlayFade"`
}

// DefaultOptions returns the default diff options.
func DefaultOptions() Options {
	return Options{
		Threshold:   0.1,
		DrawOverlay: true,
		OverlayFade: 0.1,
	}
}

// WithThreshold returns a copy of the options with a different threshold.
func (o Options) WithThreshold(threshold float64) Options {
	o.Threshold = threshold
	return o
}

// Result holds the outcome of a diff.
type Result struct {
	Mask              *Mask // differing pixels
	AntiAliased       *Mask // pixels over threshold but excluded as anti-aliasing
	DiffPixels        int
	AntiAliasedPixels int
	TotalPixels       int
	Overlay           *raster.Image // nil unless Options.DrawOverlay
}

// MatchPercentage returns the share of non-differing pixels, 0-100.
func (r *Result) MatchPercentage() float64 {
	if r.TotalPixels == 0 {
		return 100
	}
	return float64(r.TotalPixels-r.DiffPixels) / float64(r.TotalPixels) * 100
}

// Empty reports whether no pixel differs.
func (r *Result) Empty() bool {
	return r.DiffPixels == 0
}

// Compute compares expected and actual pixel by pixel. Both images must have
// the same dimensions.
func Compute(expected, actual *raster.Image, opts Options) (*Result, error) {
	if err := expected.Validate(); err != nil {
		return nil, fmt.Errorf("expected image: %w", err)
	}
	if err := actual.Validate(); err != nil {
		return nil, fmt.Errorf("actual image: %w", err)
	}
	if !expected.SameSize(actual) {
		return nil, fmt.Errorf("%w: diff requires equal dimensions, got %dx%d and %dx%d",
			raster.ErrCorruptImageData, expected.Width(), expected.Height(), actual.Width(), actual.Height())
	}

	threshold := opts.Threshold
	if threshold < 0 {
		threshold = 0
	} else if threshold > 1 {
		threshold = 1
	}

	w, h := actual.Width(), actual.Height()
	result := &Result{
		Mask:        NewMask(w, h),
		AntiAliased: NewMask(w, h),
		TotalPixels: w * h,
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			ec := expected.At(x, y)
			ac := actual.At(x, y)
			if ec == ac {
				continue
			}
			if colorutil.PerceptualDistance(ec, ac) <= threshold {
				continue
			}
			if !opts.IncludeAntiAliasing &&
				(isAntiAliased(expected, actual, x, y) || isAntiAliased(actual, expected, x, y)) {
				result.AntiAliased.Set(x, y)
				result.AntiAliasedPixels++
				continue
			}
			result.Mask.Set(x, y)
			result.DiffPixels++
		}
	}

	if opts.DrawOverlay {
		result.Overlay = renderOverlay(actual, result, opts.OverlayFade)
	}
	return result, nil
}
