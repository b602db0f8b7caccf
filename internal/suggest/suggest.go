// Package suggest turns matched regions into prioritized fix suggestions.
package suggest

import (
	"fmt"
	"math"
	"sort"

	"design-diff/internal/design"
	"design-diff/internal/match"
	"design-diff/internal/region"
	"design-diff/pkg/geometry"
)

// Priority orders suggestions by expected impact.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

func (p Priority) rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	default:
		return 1
	}
}

// UnmatchedFix is the guidance given when no design node explains a region.
const UnmatchedFix = "Unmatched region: check for a missing or extraneous element"

// Params configures prioritization.
type Params struct {
	HighPixelCount   int     `yaml:"high_pixel_count" json:"highPixelCount"`
	HighDensity      float64 `yaml:"high_density" json:"highDensity"`
	MediumPixelCount int     `yaml:"medium_pixel_count" json:"mediumPixelCount"`
	MediumDensity    float64 `yaml:"medium_density" json:"mediumDensity"`
	// DeltaTolerance is the offset in pixels below which position and size
	// deltas do not produce their own fix line.
	DeltaTolerance float64 `yaml:"delta_tolerance" json:"deltaTolerance"`
}

// DefaultParams returns default prioritization parameters.
func DefaultParams() Params {
	return Params{
		HighPixelCount:   1000,
		HighDensity:      0.5,
		MediumPixelCount: 200,
		MediumDensity:    0.2,
		DeltaTolerance:   2,
	}
}

// Suggestion is one actionable fix for a region.
type Suggestion struct {
	Priority        Priority          `json:"priority"`
	RegionID        string            `json:"regionId"`
	NodeID          *string           `json:"nodeId"`
	NodeName        string            `json:"nodeName,omitempty"`
	NodeType        string            `json:"nodeType,omitempty"`
	Confidence      float64           `json:"confidence"`
	PositionalDelta *geometry.Point2D `json:"positionalDelta"`
	SizeDelta       *geometry.Size    `json:"sizeDelta"`
	Fixes           []string          `json:"fixes"`

	pixelCount int
}

// PriorityFor derives a region's priority from its size and density alone.
func PriorityFor(r region.Region, params Params) Priority {
	density := r.Density()
	switch {
	case r.PixelCount > params.HighPixelCount || density > params.HighDensity:
		return PriorityHigh
	case r.PixelCount > params.MediumPixelCount || density > params.MediumDensity:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

// Generate builds one suggestion per region, ordered high to low priority,
// then by pixel count and region ID. Matches are looked up by region ID;
// regions without a match are treated as unmatched.
func Generate(regions []region.Region, matches []match.Match, params Params) []Suggestion {
	byRegion := make(map[string]match.Match, len(matches))
	for _, m := range matches {
		byRegion[m.RegionID] = m
	}

	out := make([]Suggestion, 0, len(regions))
	for _, r := range regions {
		m, ok := byRegion[r.ID]
		if !ok || m.BestCandidate == nil {
			out = append(out, unmatchedSuggestion(r, params))
			continue
		}
		out = append(out, matchedSuggestion(r, *m.BestCandidate, params))
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Priority.rank() != b.Priority.rank() {
			return a.Priority.rank() > b.Priority.rank()
		}
		if a.pixelCount != b.pixelCount {
			return a.pixelCount > b.pixelCount
		}
		return a.RegionID < b.RegionID
	})
	return out
}

func unmatchedSuggestion(r region.Region, params Params) Suggestion {
	fixes := []string{UnmatchedFix}
	if hint := regionTypeHint(r.Type); hint != "" {
		fixes = append(fixes, hint)
	}
	return Suggestion{
		Priority:   PriorityFor(r, params),
		RegionID:   r.ID,
		Fixes:      fixes,
		pixelCount: r.PixelCount,
	}
}

func matchedSuggestion(r region.Region, c match.Candidate, params Params) Suggestion {
	nodeID := c.NodeID
	pos := r.Center.Sub(c.BoundingBox.Center())
	size := r.PixelBounds.ToFloat().Size().Sub(c.BoundingBox.Size())

	fixes := kindFixes(design.KindOf(c.NodeType), c.NodeName)
	if math.Abs(pos.X) > params.DeltaTolerance || math.Abs(pos.Y) > params.DeltaTolerance {
		fixes = append(fixes, fmt.Sprintf("Offset from design by (%+.0f, %+.0f) px; check margin, padding and alignment", pos.X, pos.Y))
	}
	if math.Abs(size.Width) > params.DeltaTolerance || math.Abs(size.Height) > params.DeltaTolerance {
		fixes = append(fixes, fmt.Sprintf("Differing area is %+.0f x %+.0f px off the element size; check width, height and box-sizing", size.Width, size.Height))
	}
	if hint := regionTypeHint(r.Type); hint != "" {
		fixes = append(fixes, hint)
	}

	return Suggestion{
		Priority:        PriorityFor(r, params),
		RegionID:        r.ID,
		NodeID:          &nodeID,
		NodeName:        c.NodeName,
		NodeType:        c.NodeType,
		Confidence:      c.Confidence,
		PositionalDelta: &pos,
		SizeDelta:       &size,
		Fixes:           fixes,
		pixelCount:      r.PixelCount,
	}
}

func kindFixes(kind design.Kind, name string) []string {
	label := name
	if label == "" {
		label = "element"
	}
	switch kind {
	case design.KindAsset:
		return []string{
			fmt.Sprintf("Verify the %q asset is loaded and positioned correctly", label),
			"Check the asset's intrinsic size, scaling and object-fit",
		}
	case design.KindText:
		return []string{
			fmt.Sprintf("Check font family, size and weight of %q", label),
			"Check line-height, letter-spacing and text alignment",
		}
	case design.KindShape:
		return []string{
			fmt.Sprintf("Check background color of %q", label),
			"Check border, border-radius and box-shadow",
		}
	default:
		return []string{fmt.Sprintf("Compare %q against the design for position, size and color", label)}
	}
}

func regionTypeHint(t region.Type) string {
	switch t {
	case region.TypeColorMismatch:
		return "Colors differ strongly; compare against the design's color tokens"
	case region.TypeHorizontalElement:
		return "Wide thin difference; check borders, dividers or a shifted text line"
	case region.TypeVerticalElement:
		return "Tall thin difference; check vertical borders, scrollbars or column gaps"
	case region.TypeLargeArea:
		return "Large area differs; check section backgrounds and overall layout"
	case region.TypeSmallDetail:
		return "Small detail; check icons, glyphs and fine borders"
	default:
		return ""
	}
}
