// Package match attributes diff regions to elements of a design tree by
// bounding-box overlap, center proximity and pixel density.
package match

import (
	"math"
	"sort"

	"design-diff/internal/design"
	"design-diff/internal/region"
	"design-diff/pkg/geometry"
)

// Params configures matching.
type Params struct {
	ScaleFactor       float64 `yaml:"scale_factor" json:"scaleFactor"`             // design units -> pixels
	MinOverlapPercent float64 `yaml:"min_overlap_percent" json:"minOverlapPercent"` // candidates must exceed this
	TopK              int     `yaml:"top_k" json:"topK"`
	MaxDistanceNorm   float64 `yaml:"max_distance_norm" json:"maxDistanceNorm"` // center distance at which proximity reaches 0
	DensityNorm       float64 `yaml:"density_norm" json:"densityNorm"`          // pixel count at which density saturates

	OverlapWeight   float64 `yaml:"overlap_weight" json:"overlapWeight"`
	ProximityWeight float64 `yaml:"proximity_weight" json:"proximityWeight"`
	DensityWeight   float64 `yaml:"density_weight" json:"densityWeight"`
}

// DefaultParams returns default matching parameters.
func DefaultParams() Params {
	return Params{
		ScaleFactor:       1,
		MinOverlapPercent: 30,
		TopK:              5,
		MaxDistanceNorm:   100,
		DensityNorm:       500,
		OverlapWeight:     0.4,
		ProximityWeight:   0.3,
		DensityWeight:     0.3,
	}
}

// WithScaleFactor returns a copy of params with a different design-to-pixel scale.
func (p Params) WithScaleFactor(scale float64) Params {
	p.ScaleFactor = scale
	return p
}

// Transform returns the design-space to pixel-space mapping.
func (p Params) Transform() geometry.AffineTransform {
	s := p.ScaleFactor
	if s <= 0 {
		s = 1
	}
	return geometry.Scale(s, s)
}

// Candidate is a design node that may explain a region. BoundingBox is in
// pixel space.
type Candidate struct {
	NodeID            string        `json:"nodeId"`
	NodeName          string        `json:"nodeName"`
	NodeType          string        `json:"nodeType"`
	BoundingBox       geometry.Rect `json:"boundingBox"`
	OverlapPercentage float64       `json:"overlapPercentage"`
	Distance          float64       `json:"distance"`
	Confidence        float64       `json:"confidence"` // 0-100
}

// Match lists the candidates for one region, best first.
type Match struct {
	RegionID      string      `json:"regionId"`
	Candidates    []Candidate `json:"candidates"`
	BestCandidate *Candidate  `json:"bestCandidate"`
	Unmatched     bool        `json:"unmatched"`
}

// scaledNode is a design node with its box already mapped to pixels.
type scaledNode struct {
	node  *design.Node
	box   geometry.Rect
	order int
}

// Regions produces one Match per region, in region order. A nil tree leaves
// every region unmatched.
func Regions(regions []region.Region, root *design.Node, params Params) []Match {
	nodes := flatten(root, params.Transform())
	matches := make([]Match, len(regions))
	for i, r := range regions {
		matches[i] = matchRegion(r, nodes, params)
	}
	return matches
}

func flatten(root *design.Node, t geometry.AffineTransform) []scaledNode {
	var nodes []scaledNode
	root.Walk(func(n *design.Node, _ int) bool {
		if n.BoundingBox != nil {
			nodes = append(nodes, scaledNode{node: n, box: t.ApplyRect(*n.BoundingBox), order: len(nodes)})
		}
		return true
	})
	return nodes
}

func matchRegion(r region.Region, nodes []scaledNode, params Params) Match {
	m := Match{RegionID: r.ID, Candidates: []Candidate{}}
	box := r.PixelBounds.ToFloat()
	area := box.Area()

	type scored struct {
		Candidate
		order int
	}
	var found []scored
	for _, sn := range nodes {
		if area == 0 {
			break
		}
		overlap := box.Intersection(sn.box).Area() * 100 / area
		if overlap <= params.MinOverlapPercent {
			continue
		}
		dist := r.Center.Distance(sn.box.Center())
		found = append(found, scored{
			Candidate: Candidate{
				NodeID:            sn.node.ID,
				NodeName:          sn.node.Name,
				NodeType:          sn.node.Type,
				BoundingBox:       sn.box,
				OverlapPercentage: overlap,
				Distance:          dist,
				Confidence:        confidence(overlap, dist, r.PixelCount, params),
			},
			order: sn.order,
		})
	}

	sort.SliceStable(found, func(i, j int) bool {
		a, b := found[i], found[j]
		if a.Confidence != b.Confidence {
			return a.Confidence > b.Confidence
		}
		if a.OverlapPercentage != b.OverlapPercentage {
			return a.OverlapPercentage > b.OverlapPercentage
		}
		return a.order < b.order
	})
	if params.TopK > 0 && len(found) > params.TopK {
		found = found[:params.TopK]
	}

	for _, f := range found {
		m.Candidates = append(m.Candidates, f.Candidate)
	}
	if len(m.Candidates) == 0 {
		m.Unmatched = true
		return m
	}
	best := m.Candidates[0]
	m.BestCandidate = &best
	return m
}

// confidence blends overlap, proximity and density scores into 0-100.
func confidence(overlapPct, dist float64, pixelCount int, params Params) float64 {
	overlapScore := clamp01(overlapPct / 100)

	proximityScore := 0.0
	if params.MaxDistanceNorm > 0 {
		proximityScore = clamp01(1 - dist/params.MaxDistanceNorm)
	} else if dist == 0 {
		proximityScore = 1
	}

	densityScore := 1.0
	if params.DensityNorm > 0 {
		densityScore = clamp01(float64(pixelCount) / params.DensityNorm)
	}

	weightSum := params.OverlapWeight + params.ProximityWeight + params.DensityWeight
	if weightSum <= 0 {
		return 0
	}
	score := (params.OverlapWeight*overlapScore +
		params.ProximityWeight*proximityScore +
		params.DensityWeight*densityScore) / weightSum
	return clamp01(score) * 100
}

// ToDesignSpace maps a pixel-space rectangle back into design units.
func ToDesignSpace(r geometry.Rect, params Params) geometry.Rect {
	inv, ok := params.Transform().Inverse()
	if !ok {
		return r
	}
	return inv.ApplyRect(r)
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(1, v))
}
