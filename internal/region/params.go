package region

// Params configures segmentation.
type Params struct {
	MinRegionSize      int `yaml:"min_region_size" json:"minRegionSize"`           // components below this pixel count are noise
	Padding            int `yaml:"padding" json:"padding"`                         // bounding box margin in pixels
	MaxRegionDimension int `yaml:"max_region_dimension" json:"maxRegionDimension"` // padded boxes wider or taller than this are split once
}

// DefaultParams returns default segmentation parameters.
func DefaultParams() Params {
	return Params{
		MinRegionSize:      100,
		Padding:            10,
		MaxRegionDimension: 300,
	}
}

// WithMinRegionSize returns a copy of params with a different noise floor.
func (p Params) WithMinRegionSize(n int) Params {
	p.MinRegionSize = n
	return p
}

// ClassifyParams holds the empirically chosen classification thresholds.
type ClassifyParams struct {
	// SampleSize caps how many pixels feed the color statistics.
	SampleSize int `yaml:"sample_size" json:"sampleSize"`

	// Shape rules, evaluated in order after the area rules.
	SmallDetailArea  int     `yaml:"small_detail_area" json:"smallDetailArea"`
	LargeArea        int     `yaml:"large_area" json:"largeArea"`
	HorizontalAspect float64 `yaml:"horizontal_aspect" json:"horizontalAspect"`
	VerticalAspect   float64 `yaml:"vertical_aspect" json:"verticalAspect"`

	// ColorMismatchDistance is the average RGB distance (0-441) above which a
	// region is a color mismatch.
	ColorMismatchDistance float64 `yaml:"color_mismatch_distance" json:"colorMismatchDistance"`

	// Severity = AreaWeight*areaScore + ColorWeight*colorScore, bucketed.
	AreaWeight    float64 `yaml:"area_weight" json:"areaWeight"`
	ColorWeight   float64 `yaml:"color_weight" json:"colorWeight"`
	MinorScore    float64 `yaml:"minor_score" json:"minorScore"`
	MajorScore    float64 `yaml:"major_score" json:"majorScore"`
	CriticalScore float64 `yaml:"critical_score" json:"criticalScore"`
}

// DefaultClassifyParams returns default classification parameters.
func DefaultClassifyParams() ClassifyParams {
	return ClassifyParams{
		SampleSize:            100,
		SmallDetailArea:       500,
		LargeArea:             10000,
		HorizontalAspect:      3,
		VerticalAspect:        1.0 / 3.0,
		ColorMismatchDistance: 100,
		AreaWeight:            0.5,
		ColorWeight:           0.5,
		MinorScore:            0.25,
		MajorScore:            0.5,
		CriticalScore:         0.75,
	}
}
