package suggest

import (
	"testing"

	"design-diff/internal/match"
	"design-diff/internal/region"
	"design-diff/pkg/geometry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func regionWith(id string, bounds geometry.RectInt, pixels int, typ region.Type) region.Region {
	return region.Region{
		ID:          id,
		PixelBounds: bounds,
		BoundingBox: bounds.Expand(10),
		Center:      bounds.Center(),
		PixelCount:  pixels,
		Type:        typ,
	}
}

func TestPriorityFor(t *testing.T) {
	params := DefaultParams()
	cases := []struct {
		name   string
		bounds geometry.RectInt
		pixels int
		want   Priority
	}{
		{"many pixels", geometry.RectInt{Width: 100, Height: 100}, 1500, PriorityHigh},
		{"dense", geometry.RectInt{Width: 20, Height: 20}, 400, PriorityHigh},
		{"medium count", geometry.RectInt{Width: 100, Height: 100}, 300, PriorityMedium},
		{"medium density", geometry.RectInt{Width: 20, Height: 20}, 120, PriorityMedium},
		{"sparse", geometry.RectInt{Width: 50, Height: 50}, 150, PriorityLow},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := regionWith("r", tc.bounds, tc.pixels, region.TypeGeneralDifference)
			assert.Equal(t, tc.want, PriorityFor(r, params))
		})
	}
}

func TestGenerateMatched(t *testing.T) {
	r := regionWith("region-001", geometry.RectInt{X: 14, Y: 10, Width: 20, Height: 24}, 400, region.TypeColorMismatch)
	best := match.Candidate{
		NodeID:      "label",
		NodeName:    "Label",
		NodeType:    "TEXT",
		BoundingBox: geometry.NewRect(10, 10, 20, 20),
		Confidence:  80,
	}
	matches := []match.Match{{RegionID: "region-001", Candidates: []match.Candidate{best}, BestCandidate: &best}}

	out := Generate([]region.Region{r}, matches, DefaultParams())
	require.Len(t, out, 1)
	s := out[0]
	require.NotNil(t, s.NodeID)
	assert.Equal(t, "label", *s.NodeID)
	assert.Equal(t, PriorityHigh, s.Priority)
	assert.Equal(t, &geometry.Point2D{X: 4, Y: 2}, s.PositionalDelta)
	assert.Equal(t, &geometry.Size{Width: 0, Height: 4}, s.SizeDelta)
	assert.Contains(t, s.Fixes[0], "font family")
	assert.Len(t, s.Fixes, 5, "text fixes, offset, size and color hint")
}

func TestGenerateFixesByKind(t *testing.T) {
	r := regionWith("region-001", geometry.RectInt{X: 10, Y: 10, Width: 20, Height: 20}, 400, region.TypeGeneralDifference)
	for nodeType, want := range map[string]string{
		"IMAGE":     "asset is loaded",
		"RECTANGLE": "background color",
		"SLICE":     "Compare",
	} {
		best := match.Candidate{NodeID: "n", NodeName: "N", NodeType: nodeType, BoundingBox: geometry.NewRect(10, 10, 20, 20)}
		out := Generate([]region.Region{r}, []match.Match{{RegionID: r.ID, BestCandidate: &best}}, DefaultParams())
		require.Len(t, out, 1)
		assert.Contains(t, out[0].Fixes[0], want, nodeType)
		assert.Equal(t, &geometry.Point2D{}, out[0].PositionalDelta)
	}
}

func TestGenerateUnmatched(t *testing.T) {
	r := regionWith("region-001", geometry.RectInt{X: 0, Y: 0, Width: 50, Height: 50}, 150, region.TypeGeneralDifference)
	matches := []match.Match{{RegionID: "region-001", Candidates: []match.Candidate{}, Unmatched: true}}

	out := Generate([]region.Region{r}, matches, DefaultParams())
	require.Len(t, out, 1)
	assert.Nil(t, out[0].NodeID)
	assert.Nil(t, out[0].PositionalDelta)
	assert.Nil(t, out[0].SizeDelta)
	assert.Equal(t, []string{UnmatchedFix}, out[0].Fixes)
	assert.Equal(t, PriorityLow, out[0].Priority)

	// Regions missing from the match list are unmatched too.
	out = Generate([]region.Region{r}, nil, DefaultParams())
	assert.Nil(t, out[0].NodeID)
}

func TestGenerateOrdering(t *testing.T) {
	regions := []region.Region{
		regionWith("region-001", geometry.RectInt{Width: 50, Height: 50}, 150, ""),   // low
		regionWith("region-002", geometry.RectInt{Width: 100, Height: 100}, 300, ""), // medium
		regionWith("region-003", geometry.RectInt{Width: 100, Height: 100}, 2000, ""), // high
		regionWith("region-004", geometry.RectInt{Width: 20, Height: 20}, 400, ""),   // high, fewer pixels
	}
	out := Generate(regions, nil, DefaultParams())
	var ids []string
	for _, s := range out {
		ids = append(ids, s.RegionID)
	}
	assert.Equal(t, []string{"region-003", "region-004", "region-002", "region-001"}, ids)

	sum := Summarize(out, 97.5)
	assert.Equal(t, Summary{
		Total: 4, High: 2, Medium: 1, Low: 1, Unmatched: 4, Grade: "B",
		Verdict: "Pixel match 97.50% (grade B): 4 regions, 2 high priority, 4 unmatched",
	}, sum)
}

func TestGrade(t *testing.T) {
	assert.Equal(t, "A", Grade(100))
	assert.Equal(t, "C", Grade(90))
	assert.Equal(t, "D", Grade(85))
	assert.Equal(t, "F", Grade(10))
	assert.Equal(t, "Pixel match 100.00%, no regions to fix", Summarize(nil, 100).Verdict)
}
