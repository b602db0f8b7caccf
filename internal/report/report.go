// Package report defines the DiffReport produced by a comparison and renders
// it as JSON or human-readable text.
package report

import (
	"encoding/json"

	"design-diff/internal/match"
	"design-diff/internal/raster"
	"design-diff/internal/region"
	"design-diff/internal/suggest"
)

// Warning codes for recoverable conditions.
const (
	WarnDimensionMismatch = "dimension_mismatch"
	WarnMissingDesignTree = "missing_design_tree"
)

// Warning records a recoverable condition met during a comparison.
type Warning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// DiffReport is the complete result of one comparison. All pixel-space
// coordinates are in the actual image's coordinate system.
type DiffReport struct {
	MatchPercentage   float64             `json:"matchPercentage"`
	DiffPixels        int                 `json:"diffPixels"`
	AntiAliasedPixels int                 `json:"antiAliasedPixels"`
	TotalPixels       int                 `json:"totalPixels"`
	Dimensions        raster.Dimensions   `json:"dimensions"`
	Resize            *raster.Resize      `json:"resize,omitempty"`
	Regions           []region.Region     `json:"regions"`
	Matches           []match.Match       `json:"matches"`
	Suggestions       []suggest.Suggestion `json:"suggestions"`
	Summary           suggest.Summary     `json:"summary"`
	Warnings          []Warning           `json:"warnings"`

	// Overlay is the visual diff image; it is written separately from the JSON.
	Overlay *raster.Image `json:"-"`
}

// New returns a report with every list initialized so JSON renders [] not null.
func New(dims raster.Dimensions) *DiffReport {
	return &DiffReport{
		MatchPercentage: 100,
		TotalPixels:     dims.Width * dims.Height,
		Dimensions:      dims,
		Regions:         []region.Region{},
		Matches:         []match.Match{},
		Suggestions:     []suggest.Suggestion{},
		Warnings:        []Warning{},
	}
}

// ResizeApplied reports whether expected was resampled before diffing.
func (r *DiffReport) ResizeApplied() bool {
	return r.Resize != nil
}

// HasWarning reports whether a warning with the given code was recorded.
func (r *DiffReport) HasWarning(code string) bool {
	for _, w := range r.Warnings {
		if w.Code == code {
			return true
		}
	}
	return false
}

// JSON returns the indented JSON encoding of the report. The encoding is
// deterministic for identical reports.
func (r *DiffReport) JSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}
