package region

import (
	"math"

	"design-diff/internal/raster"
	"design-diff/pkg/colorutil"
	"design-diff/pkg/geometry"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Classification is the feature-derived description of a region.
type Classification struct {
	ColorStats ColorStats
	Type       Type
	Severity   Severity
}

// Classify computes color statistics, type and severity for one region.
// expected and actual must be the normalized images the mask came from.
func Classify(r Region, expected, actual *raster.Image, params ClassifyParams) Classification {
	stats := sampleColorStats(r.Pixels, expected, actual, params.SampleSize)
	return Classification{
		ColorStats: stats,
		Type:       classifyType(r, stats, params),
		Severity:   classifySeverity(r, stats, params),
	}
}

// ClassifyAll returns classified copies of regions. The input slice is not modified.
func ClassifyAll(regions []Region, expected, actual *raster.Image, params ClassifyParams) []Region {
	out := make([]Region, len(regions))
	for i, r := range regions {
		c := Classify(r, expected, actual, params)
		r.ColorStats = c.ColorStats
		r.Type = c.Type
		r.Severity = c.Severity
		out[i] = r
	}
	return out
}

// samplePixels picks up to n pixels spread evenly over fill order.
func samplePixels(pixels []geometry.PointInt, n int) []geometry.PointInt {
	if n <= 0 || len(pixels) <= n {
		return pixels
	}
	out := make([]geometry.PointInt, n)
	for i := range out {
		out[i] = pixels[i*len(pixels)/n]
	}
	return out
}

func sampleColorStats(pixels []geometry.PointInt, expected, actual *raster.Image, n int) ColorStats {
	sample := samplePixels(pixels, n)
	if len(sample) == 0 {
		return ColorStats{}
	}

	dists := make([]float64, len(sample))
	for i, p := range sample {
		dists[i] = colorutil.RGBDistance(expected.At(p.X, p.Y), actual.At(p.X, p.Y))
	}
	return ColorStats{
		Avg:     stat.Mean(dists, nil),
		Min:     floats.Min(dists),
		Max:     floats.Max(dists),
		Samples: len(dists),
	}
}

func classifyType(r Region, stats ColorStats, params ClassifyParams) Type {
	area := r.Area()
	aspect := r.PixelBounds.AspectRatio()
	switch {
	case area < params.SmallDetailArea:
		return TypeSmallDetail
	case area > params.LargeArea:
		return TypeLargeArea
	case aspect > params.HorizontalAspect:
		return TypeHorizontalElement
	case aspect < params.VerticalAspect:
		return TypeVerticalElement
	case stats.Avg > params.ColorMismatchDistance:
		return TypeColorMismatch
	default:
		return TypeGeneralDifference
	}
}

// severityScore blends normalized area and color change into [0, 1].
func severityScore(r Region, stats ColorStats, params ClassifyParams) float64 {
	areaScore := 0.0
	if params.LargeArea > 0 {
		areaScore = math.Min(1, float64(r.Area())/float64(params.LargeArea))
	}
	colorScore := math.Min(1, stats.Avg/colorutil.MaxRGBDistance)
	return params.AreaWeight*areaScore + params.ColorWeight*colorScore
}

func classifySeverity(r Region, stats ColorStats, params ClassifyParams) Severity {
	score := severityScore(r, stats, params)
	switch {
	case score >= params.CriticalScore:
		return SeverityCritical
	case score >= params.MajorScore:
		return SeverityMajor
	case score >= params.MinorScore:
		return SeverityMinor
	default:
		return SeverityTrivial
	}
}
