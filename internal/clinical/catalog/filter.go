package catalog

import (
	"fmt"
	"strings"

	"woundcare-workers/internal/models"
)

// ProductView is a product as reported in a recommendation result.
type ProductView struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	Manufacturer     string   `json:"manufacturer,omitempty"`
	Category         string   `json:"category,omitempty"`
	Description      string   `json:"description,omitempty"`
	Alignment        string   `json:"alignment,omitempty"`
	Link             string   `json:"link,omitempty"`
	MatchedRules     []string `json:"matchedRules,omitempty"`
	RejectionReasons []string `json:"rejectionReasons,omitempty"`
}

// Result splits the catalog for one assessment. A product appears in at most
// one list, and products with no matching rule appear in neither.
type Result struct {
	Recommended []ProductView `json:"recommended"`
	Misaligned  []ProductView `json:"misaligned"`
}

var componentLabels = map[models.Component]string{
	models.ComponentSize:      "Wound size",
	models.ComponentDepth:     "Wound depth",
	models.ComponentEdges:     "Edge involvement",
	models.ComponentTissue:    "Necrotic/slough load",
	models.ComponentExudate:   "Exudate level",
	models.ComponentInfection: "High infection/inflammation",
	models.ComponentTotal:     "Severity score",
}

// Filter evaluates every product in catalog order. Any exclusion moves a
// product to Misaligned regardless of how many inclusion rules matched.
func Filter(cat *Catalog, axes map[models.Axis]models.AxisAssessment, score int, params models.WoundParameters) Result {
	res := Result{
		Recommended: []ProductView{},
		Misaligned:  []ProductView{},
	}
	if cat == nil {
		return res
	}
	for _, p := range cat.products {
		matched, rejected := evaluate(p.Rules, axes, score, params)
		switch {
		case len(rejected) > 0:
			v := newView(p)
			v.MatchedRules = matched
			v.RejectionReasons = rejected
			res.Misaligned = append(res.Misaligned, v)
		case len(matched) > 0:
			v := newView(p)
			v.MatchedRules = matched
			res.Recommended = append(res.Recommended, v)
		}
	}
	return res
}

func evaluate(rules RuleSet, axes map[models.Axis]models.AxisAssessment, score int, params models.WoundParameters) (matched, rejected []string) {
	for _, axis := range rules.triggerAxes() {
		assessment, ok := axes[axis]
		if !ok {
			continue
		}
		status := strings.ToLower(assessment.Status)
		for _, keyword := range rules.Triggers[axis] {
			if strings.Contains(status, strings.ToLower(keyword)) {
				matched = append(matched, fmt.Sprintf("%s.%s: %q matches %q", RuleKeyTimers, axis, keyword, assessment.Status))
				break
			}
		}
	}

	for _, t := range rules.Min {
		if v := componentValue(t.Component, score, params); v >= t.Limit {
			matched = append(matched, fmt.Sprintf("%s: %d >= %d", t.Key, v, t.Limit))
		}
	}

	for _, t := range rules.Max {
		if v := componentValue(t.Component, score, params); v > t.Limit {
			rejected = append(rejected, fmt.Sprintf("Contraindicated: %s (%d, max %d)", componentLabels[t.Component], v, t.Limit))
		}
	}
	return matched, rejected
}

func componentValue(c models.Component, score int, params models.WoundParameters) int {
	if c == models.ComponentTotal {
		return score
	}
	return params.Points(c)
}

func newView(p Product) ProductView {
	return ProductView{
		ID:           p.ID,
		Name:         p.Name,
		Manufacturer: p.Manufacturer,
		Category:     p.Category,
		Description:  p.Description,
		Alignment:    p.Alignment,
		Link:         p.Link,
	}
}
