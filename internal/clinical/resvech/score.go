// Package resvech computes the bounded additive wound severity score and
// maps it onto prognosis bands.
package resvech

import "woundcare-workers/internal/models"

// MaxScore is the ceiling of the severity score.
const MaxScore = 35

// Score sums the six scored components and clamps the result to MaxScore.
// Missing components count as zero. Each component is capped at MaxScore
// before adding so oversized inputs cannot overflow the sum.
func Score(p models.WoundParameters) int {
	total := 0
	for _, c := range models.ScoredComponents {
		total += clamp(p.Points(c), 0, MaxScore)
	}
	return clamp(total, 0, MaxScore)
}

// Breakdown is the per-component view of a score.
type Breakdown struct {
	Size      int `json:"size"`
	Depth     int `json:"depth"`
	Edges     int `json:"edges"`
	Tissue    int `json:"tissue"`
	Exudate   int `json:"exudate"`
	Infection int `json:"infection"`
	Total     int `json:"total"`
}

func NewBreakdown(p models.WoundParameters) Breakdown {
	return Breakdown{
		Size:      p.Points(models.ComponentSize),
		Depth:     p.Points(models.ComponentDepth),
		Edges:     p.Points(models.ComponentEdges),
		Tissue:    p.Points(models.ComponentTissue),
		Exudate:   p.Points(models.ComponentExudate),
		Infection: p.Points(models.ComponentInfection),
		Total:     Score(p),
	}
}

func clamp(value, min, max int) int {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
