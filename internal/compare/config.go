package compare

import (
	"errors"
	"fmt"
	"os"

	"design-diff/internal/match"
	"design-diff/internal/pixeldiff"
	"design-diff/internal/raster"
	"design-diff/internal/region"
	"design-diff/internal/suggest"
)

// ErrInvalidConfig reports a configuration value outside its valid range.
var ErrInvalidConfig = errors.New("compare: invalid config")

// Config holds the parameters of every pipeline stage.
type Config struct {
	Normalize raster.NormalizeParams `yaml:"normalize" json:"normalize"`
	Diff      pixeldiff.Options      `yaml:"diff" json:"diff"`
	Segment   region.Params          `yaml:"segment" json:"segment"`
	Classify  region.ClassifyParams  `yaml:"classify" json:"classify"`
	Match     match.Params           `yaml:"match" json:"match"`
	Suggest   suggest.Params         `yaml:"suggest" json:"suggest"`
}

// DefaultConfig returns a Config with every stage at its defaults.
func DefaultConfig() Config {
	return Config{
		Normalize: raster.DefaultNormalizeParams(),
		Diff:      pixeldiff.DefaultOptions(),
		Segment:   region.DefaultParams(),
		Classify:  region.DefaultClassifyParams(),
		Match:     match.DefaultParams(),
		Suggest:   suggest.DefaultParams(),
	}
}

// LoadConfig reads a YAML or JSON file (chosen by extension, see DecodeFile)
// and merges it over the defaults. Keys absent from the file keep their
// default values.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := DecodeFile(path, data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks the ranges the pipeline depends on.
func (c Config) Validate() error {
	if err := c.validateStages(); err != nil {
		return err
	}
	if err := c.validateClassify(); err != nil {
		return err
	}
	return c.validateSuggest()
}

func (c Config) validateStages() error {
	switch {
	case c.Normalize.MaxScaleRatio < 1:
		return invalid("max scale ratio %v must be at least 1", c.Normalize.MaxScaleRatio)
	case c.Diff.Threshold < 0 || c.Diff.Threshold > 1:
		return invalid("diff threshold %v not in [0, 1]", c.Diff.Threshold)
	case c.Diff.OverlayFade < 0 || c.Diff.OverlayFade > 1:
		return invalid("overlay fade %v not in [0, 1]", c.Diff.OverlayFade)
	case c.Segment.MinRegionSize < 0:
		return invalid("negative min region size")
	case c.Segment.Padding < 0:
		return invalid("negative padding")
	case c.Segment.MaxRegionDimension <= 0:
		return invalid("max region dimension must be positive")
	case c.Match.ScaleFactor <= 0:
		return invalid("scale factor must be positive")
	case c.Match.MinOverlapPercent < 0 || c.Match.MinOverlapPercent > 100:
		return invalid("min overlap %v not in [0, 100]", c.Match.MinOverlapPercent)
	case c.Match.TopK <= 0:
		return invalid("top-k must be positive")
	case c.Match.MaxDistanceNorm <= 0 || c.Match.DensityNorm <= 0:
		return invalid("distance and density norms must be positive")
	case c.Match.OverlapWeight < 0 || c.Match.ProximityWeight < 0 || c.Match.DensityWeight < 0:
		return invalid("negative confidence weight")
	case c.Match.OverlapWeight+c.Match.ProximityWeight+c.Match.DensityWeight <= 0:
		return invalid("confidence weights sum to zero")
	}
	return nil
}

func (c Config) validateClassify() error {
	p := c.Classify
	switch {
	case p.SampleSize < 0:
		return invalid("negative classify sample size")
	case p.SmallDetailArea < 0 || p.LargeArea < p.SmallDetailArea:
		return invalid("classify areas must satisfy 0 <= small detail <= large")
	case p.VerticalAspect <= 0 || p.HorizontalAspect < p.VerticalAspect:
		return invalid("classify aspects must satisfy 0 < vertical <= horizontal")
	case p.ColorMismatchDistance < 0:
		return invalid("negative color mismatch distance")
	case p.AreaWeight < 0 || p.ColorWeight < 0 || p.AreaWeight+p.ColorWeight <= 0:
		return invalid("severity weights must be non-negative and not both zero")
	case p.MinorScore < 0 || p.MinorScore > p.MajorScore || p.MajorScore > p.CriticalScore:
		return invalid("severity scores must satisfy 0 <= minor <= major <= critical")
	}
	return nil
}

func (c Config) validateSuggest() error {
	p := c.Suggest
	switch {
	case p.MediumPixelCount < 0 || p.HighPixelCount < p.MediumPixelCount:
		return invalid("priority pixel counts must satisfy 0 <= medium <= high")
	case p.MediumDensity < 0 || p.HighDensity < p.MediumDensity || p.HighDensity > 1:
		return invalid("priority densities must satisfy 0 <= medium <= high <= 1")
	case p.DeltaTolerance < 0:
		return invalid("negative delta tolerance")
	}
	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
}
