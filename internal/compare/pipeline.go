// Package compare runs the full comparison pipeline: normalize, diff,
// segment, classify, match and recommend.
package compare

import (
	"fmt"

	"design-diff/internal/design"
	"design-diff/internal/match"
	"design-diff/internal/pixeldiff"
	"design-diff/internal/raster"
	"design-diff/internal/region"
	"design-diff/internal/report"
	"design-diff/internal/suggest"
)

// Run compares actual against expected and explains the differences using
// the design tree, which may be nil. Run holds no state between calls and is
// safe to call concurrently.
//
// Fatal failures are returned as *StageError. Recoverable conditions such as
// a resampled input or a missing design tree are recorded as report warnings.
func Run(expected, actual *raster.Image, tree *design.Node, cfg Config) (*report.DiffReport, error) {
	if err := cfg.Validate(); err != nil {
		return nil, stageErr(StagePreprocess, err)
	}

	norm, err := raster.Normalize(expected, actual, cfg.Normalize)
	if err != nil {
		return nil, stageErr(StagePreprocess, err)
	}

	rep := report.New(raster.DimensionsOf(norm.Actual))
	if norm.Resize != nil {
		rep.Resize = norm.Resize
		rep.Warnings = append(rep.Warnings, report.Warning{
			Code:    report.WarnDimensionMismatch,
			Message: fmt.Sprintf("expected resized from %s to %s", norm.Resize.From, norm.Resize.To),
		})
	}

	diff, err := pixeldiff.Compute(norm.Expected, norm.Actual, cfg.Diff)
	if err != nil {
		return nil, stageErr(StageDiff, err)
	}
	rep.MatchPercentage = diff.MatchPercentage()
	rep.DiffPixels = diff.DiffPixels
	rep.AntiAliasedPixels = diff.AntiAliasedPixels
	rep.TotalPixels = diff.TotalPixels
	rep.Overlay = diff.Overlay

	if diff.Empty() {
		rep.Summary = suggest.Summarize(nil, rep.MatchPercentage)
		return rep, nil
	}

	seg := region.Segment(diff.Mask, cfg.Segment)
	regions := region.ClassifyAll(seg.Regions, norm.Expected, norm.Actual, cfg.Classify)

	if tree == nil {
		rep.Warnings = append(rep.Warnings, report.Warning{
			Code:    report.WarnMissingDesignTree,
			Message: "no design tree supplied, all regions are unmatched",
		})
	} else if err := tree.Validate(); err != nil {
		return nil, stageErr(StageMatch, err)
	}
	matches := match.Regions(regions, tree, cfg.Match)

	suggestions := suggest.Generate(regions, matches, cfg.Suggest)

	rep.Regions = regions
	rep.Matches = matches
	rep.Suggestions = suggestions
	rep.Summary = suggest.Summarize(suggestions, rep.MatchPercentage)
	return rep, nil
}
