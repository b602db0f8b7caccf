package compare

import (
	"encoding/json"
	"errors"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"design-diff/internal/design"
	"design-diff/internal/raster"
	"design-diff/internal/report"
	"design-diff/internal/suggest"
	"design-diff/pkg/colorutil"
	"design-diff/pkg/geometry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func white(t *testing.T, w, h int) *raster.Image {
	t.Helper()
	m, err := raster.Filled(w, h, colorutil.White)
	require.NoError(t, err)
	return m
}

func withBlock(t *testing.T, base *raster.Image, x0, y0, w, h int, c color.RGBA) *raster.Image {
	t.Helper()
	pix := base.Pix()
	for y := y0; y < y0+h; y++ {
		for x := x0; x < x0+w; x++ {
			i := (y*base.Width() + x) * 4
			pix[i], pix[i+1], pix[i+2], pix[i+3] = c.R, c.G, c.B, c.A
		}
	}
	m, err := raster.New(base.Width(), base.Height(), pix)
	require.NoError(t, err)
	return m
}

func redBlockPair(t *testing.T) (*raster.Image, *raster.Image) {
	expected := white(t, 100, 100)
	return expected, withBlock(t, expected, 10, 10, 20, 20, colorutil.Red)
}

func tree(children ...*design.Node) *design.Node {
	return &design.Node{ID: "root", Name: "Screen", Type: "FRAME", BoundingBox: &geometry.Rect{Width: 100, Height: 100}, Children: children}
}

func TestRunIdenticalImages(t *testing.T) {
	rep, err := Run(white(t, 100, 100), white(t, 100, 100), tree(), DefaultConfig())
	require.NoError(t, err)
	assert.Zero(t, rep.DiffPixels)
	assert.Equal(t, 100.0, rep.MatchPercentage)
	assert.Empty(t, rep.Regions)
	assert.NotNil(t, rep.Regions)
	assert.Empty(t, rep.Suggestions)
	assert.Equal(t, "A", rep.Summary.Grade)
	assert.Empty(t, rep.Warnings)
}

func TestRunSingleBlock(t *testing.T) {
	expected, actual := redBlockPair(t)
	rep, err := Run(expected, actual, tree(), DefaultConfig())
	require.NoError(t, err)

	assert.Equal(t, 400, rep.DiffPixels)
	assert.InDelta(t, 96.0, rep.MatchPercentage, 1e-9)
	require.Len(t, rep.Regions, 1)
	r := rep.Regions[0]
	assert.Equal(t, "region-001", r.ID)
	assert.Equal(t, geometry.RectInt{X: 10, Y: 10, Width: 20, Height: 20}, r.PixelBounds)
	assert.Equal(t, 29, r.PixelBounds.MaxX())
	assert.Equal(t, 29, r.PixelBounds.MaxY())
	assert.Equal(t, 400, r.PixelCount)
	assert.NotEmpty(t, r.Type)
	assert.NotEmpty(t, r.Severity)
	require.Len(t, rep.Suggestions, 1)
	require.NotNil(t, rep.Overlay)
}

func TestRunMatchesExactNode(t *testing.T) {
	expected, actual := redBlockPair(t)
	button := &design.Node{ID: "btn", Name: "Button", Type: "RECTANGLE", BoundingBox: &geometry.Rect{X: 10, Y: 10, Width: 20, Height: 20}}
	rep, err := Run(expected, actual, tree(button), DefaultConfig())
	require.NoError(t, err)

	require.Len(t, rep.Matches, 1)
	best := rep.Matches[0].BestCandidate
	require.NotNil(t, best)
	assert.Equal(t, "btn", best.NodeID)
	assert.InDelta(t, 100.0, best.OverlapPercentage, 1e-9)
	assert.InDelta(t, 0.0, best.Distance, 1e-9)
	assert.InDelta(t, 94.0, best.Confidence, 1e-9)

	s := rep.Suggestions[0]
	require.NotNil(t, s.NodeID)
	assert.Equal(t, "btn", *s.NodeID)
	assert.Equal(t, &geometry.Point2D{}, s.PositionalDelta)
}

func TestRunScaledDesign(t *testing.T) {
	expected, actual := redBlockPair(t)
	button := &design.Node{ID: "btn", Name: "Button", Type: "RECTANGLE", BoundingBox: &geometry.Rect{X: 5, Y: 5, Width: 10, Height: 10}}
	cfg := DefaultConfig()
	cfg.Match = cfg.Match.WithScaleFactor(2)

	rep, err := Run(expected, actual, tree(button), cfg)
	require.NoError(t, err)
	require.NotNil(t, rep.Matches[0].BestCandidate)
	assert.Equal(t, "btn", rep.Matches[0].BestCandidate.NodeID)
}

func TestRunExtremeDimensionMismatch(t *testing.T) {
	rep, err := Run(white(t, 100, 100), white(t, 300, 100), nil, DefaultConfig())
	require.Error(t, err)
	assert.Nil(t, rep)
	assert.True(t, errors.Is(err, raster.ErrExtremeDimensionMismatch))

	var se *StageError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, StagePreprocess, se.Stage)
}

func TestRunUnmatchedRegion(t *testing.T) {
	expected, actual := redBlockPair(t)
	far := &design.Node{ID: "far", Name: "Footer", Type: "TEXT", BoundingBox: &geometry.Rect{X: 70, Y: 70, Width: 20, Height: 20}}
	root := &design.Node{ID: "root", Name: "Screen", Type: "FRAME", Children: []*design.Node{far}}
	rep, err := Run(expected, actual, root, DefaultConfig())
	require.NoError(t, err)

	require.Len(t, rep.Matches, 1)
	assert.Nil(t, rep.Matches[0].BestCandidate)
	assert.True(t, rep.Matches[0].Unmatched)

	require.Len(t, rep.Suggestions, 1)
	s := rep.Suggestions[0]
	assert.Nil(t, s.NodeID)
	require.NotEmpty(t, s.Fixes)
	assert.Equal(t, suggest.UnmatchedFix, s.Fixes[0])
	assert.Equal(t, suggest.PriorityFor(rep.Regions[0], DefaultConfig().Suggest), s.Priority)
	assert.Equal(t, 1, rep.Summary.Unmatched)
}

func TestRunRootFrameIsCandidate(t *testing.T) {
	expected, actual := redBlockPair(t)
	rep, err := Run(expected, actual, tree(), DefaultConfig())
	require.NoError(t, err)
	require.NotNil(t, rep.Matches[0].BestCandidate)
	assert.Equal(t, "root", rep.Matches[0].BestCandidate.NodeID)
}

func TestRunMissingTreeWarning(t *testing.T) {
	expected, actual := redBlockPair(t)
	rep, err := Run(expected, actual, nil, DefaultConfig())
	require.NoError(t, err)
	assert.True(t, rep.HasWarning(report.WarnMissingDesignTree))
	require.Len(t, rep.Matches, 1)
	assert.True(t, rep.Matches[0].Unmatched)
}

func TestRunResizeWarning(t *testing.T) {
	rep, err := Run(white(t, 50, 50), white(t, 100, 100), tree(), DefaultConfig())
	require.NoError(t, err)
	assert.True(t, rep.HasWarning(report.WarnDimensionMismatch))
	assert.True(t, rep.ResizeApplied())
	assert.Equal(t, raster.Dimensions{Width: 50, Height: 50}, rep.Resize.From)
	assert.Equal(t, raster.Dimensions{Width: 100, Height: 100}, rep.Dimensions)
	assert.Zero(t, rep.DiffPixels)
}

func TestRunInvalidTree(t *testing.T) {
	expected, actual := redBlockPair(t)
	bad := tree(&design.Node{ID: "root"})
	_, err := Run(expected, actual, bad, DefaultConfig())
	require.Error(t, err)
	assert.True(t, errors.Is(err, design.ErrInvalidTree))

	var se *StageError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, StageMatch, se.Stage)
}

func TestRunInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Diff.Threshold = 2
	_, err := Run(white(t, 10, 10), white(t, 10, 10), nil, cfg)
	assert.True(t, errors.Is(err, ErrInvalidConfig))
}

func TestRunDeterministicJSON(t *testing.T) {
	expected := white(t, 200, 120)
	actual := withBlock(t, expected, 10, 10, 40, 30, colorutil.Red)
	actual = withBlock(t, actual, 120, 60, 50, 40, color.RGBA{R: 20, G: 40, B: 200, A: 255})
	root := tree(
		&design.Node{ID: "title", Name: "Title", Type: "TEXT", BoundingBox: &geometry.Rect{X: 8, Y: 8, Width: 45, Height: 35}},
		&design.Node{ID: "card", Name: "Card", Type: "RECTANGLE", BoundingBox: &geometry.Rect{X: 115, Y: 55, Width: 60, Height: 50}},
	)

	first, err := Run(expected, actual, root, DefaultConfig())
	require.NoError(t, err)
	second, err := Run(expected, actual, root, DefaultConfig())
	require.NoError(t, err)

	a, err := first.JSON()
	require.NoError(t, err)
	b, err := second.JSON()
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
	assert.Len(t, first.Regions, 2)
}

func TestLoadConfigMergesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	require.NoError(t, os.WriteFile(path, []byte("diff:\n  threshold: 0.25\nmatch:\n  top_k: 3\n"), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 0.25, cfg.Diff.Threshold)
	assert.Equal(t, 3, cfg.Match.TopK)
	assert.Equal(t, DefaultConfig().Segment, cfg.Segment)
	assert.True(t, cfg.Diff.DrawOverlay)
}

func TestLoadConfigJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"segment": {"minRegionSize": 10}}`), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.Segment.MinRegionSize)
	assert.Equal(t, DefaultConfig().Diff, cfg.Diff)
}

func TestLoadConfigJSONRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Diff.Threshold = 0.3
	cfg.Segment.MinRegionSize = 7
	cfg.Classify.LargeArea = 20000
	cfg.Match.TopK = 2
	cfg.Suggest.DeltaTolerance = 4

	data, err := json.Marshal(cfg)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "cfg.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadConfigRejectsUnknownKeys(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]string{
		"typo.yaml":  "diff:\n  treshold: 0.2\n",
		"snake.json": `{"segment": {"min_region_size": 10}}`,
	}
	for name, content := range cases {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		_, err := LoadConfig(path)
		assert.Error(t, err, name)
	}
}

func TestLoadConfigEmptyFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	require.NoError(t, os.WriteFile(path, []byte("match:\n  scale_factor: -1\n"), 0o644))
	_, err := LoadConfig(path)
	assert.True(t, errors.Is(err, ErrInvalidConfig))

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestConfigValidate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())

	cases := map[string]func(*Config){
		"zero scale ratio":      func(c *Config) { c.Normalize.MaxScaleRatio = 0 },
		"scale ratio below one": func(c *Config) { c.Normalize.MaxScaleRatio = 0.5 },
		"overlay fade":          func(c *Config) { c.Diff.OverlayFade = 1.5 },
		"negative weight":       func(c *Config) { c.Match.DensityWeight = -0.1 },
		"zero density norm":     func(c *Config) { c.Match.DensityNorm = 0 },
		"area rules reversed":   func(c *Config) { c.Classify.LargeArea = 100 },
		"aspect rules reversed": func(c *Config) { c.Classify.HorizontalAspect = 0.1 },
		"negative color weight": func(c *Config) { c.Classify.ColorWeight = -1 },
		"score buckets":         func(c *Config) { c.Classify.MajorScore = 0.9 },
		"priority counts":       func(c *Config) { c.Suggest.MediumPixelCount = 5000 },
		"priority density":      func(c *Config) { c.Suggest.HighDensity = 1.5 },
		"delta tolerance":       func(c *Config) { c.Suggest.DeltaTolerance = -1 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := DefaultConfig()
			mutate(&cfg)
			assert.True(t, errors.Is(cfg.Validate(), ErrInvalidConfig))
		})
	}
}

func TestBatchPreservesOrder(t *testing.T) {
	expected, actual := redBlockPair(t)
	jobs := []Job{
		{Name: "same", Inputs: Inputs{Expected: expected, Actual: expected}, Config: DefaultConfig()},
		{Name: "block", Inputs: Inputs{Expected: expected, Actual: actual}, Config: DefaultConfig()},
		{Name: "broken", Inputs: Inputs{Expected: white(t, 10, 10), Actual: white(t, 40, 10)}, Config: DefaultConfig()},
	}

	outcomes := Batch(jobs, 2)
	require.Len(t, outcomes, 3)
	for i, o := range outcomes {
		assert.Equal(t, jobs[i].Name, o.Name)
	}
	require.NoError(t, outcomes[0].Err)
	assert.Zero(t, outcomes[0].Report.DiffPixels)
	require.NoError(t, outcomes[1].Err)
	assert.Equal(t, 400, outcomes[1].Report.DiffPixels)
	assert.True(t, errors.Is(outcomes[2].Err, raster.ErrExtremeDimensionMismatch))
	assert.True(t, strings.HasPrefix(outcomes[2].Err.Error(), "preprocess:"))
}

func TestBatchLoadFailureStaysLocal(t *testing.T) {
	expected, actual := redBlockPair(t)
	good := func() (Inputs, error) {
		return Inputs{Expected: expected, Actual: actual}, nil
	}
	corrupt := func() (Inputs, error) {
		return Inputs{}, fmt.Errorf("%w: bad header", raster.ErrCorruptImageData)
	}
	jobs := []Job{
		{Name: "first", Load: good, Config: DefaultConfig()},
		{Name: "corrupt", Load: corrupt, Config: DefaultConfig()},
		{Name: "last", Load: good, Config: DefaultConfig()},
	}

	outcomes := Batch(jobs, 1)
	require.Len(t, outcomes, 3)
	require.NoError(t, outcomes[0].Err)
	require.NoError(t, outcomes[2].Err)
	assert.Equal(t, 400, outcomes[2].Report.DiffPixels)

	assert.Nil(t, outcomes[1].Report)
	assert.True(t, errors.Is(outcomes[1].Err, raster.ErrCorruptImageData))
	var se *StageError
	require.True(t, errors.As(outcomes[1].Err, &se))
	assert.Equal(t, StageLoad, se.Stage)
}
