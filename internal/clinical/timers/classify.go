// Package timers classifies a wound on the TIMERS care axes, either from
// free-text descriptions with numeric fallbacks or from a categorical tissue type.
package timers

import (
	"strings"

	"woundcare-workers/internal/clinical/resvech"
	"woundcare-workers/internal/models"
)

// Axis outcomes. Both classification modes report these exact values.
var (
	TissueNonViable = models.AxisAssessment{Axis: models.AxisTissue, Status: "Non-viable tissue", Action: "Debridement required", Triggered: true}
	TissueViable    = models.AxisAssessment{Axis: models.AxisTissue, Status: "Viable", Action: "Maintain healthy bed"}

	InfectionSuspected  = models.AxisAssessment{Axis: models.AxisInfection, Status: "Infection/Biofilm suspected", Action: "Antimicrobials/Anti-biofilm agents", Triggered: true}
	InfectionControlled = models.AxisAssessment{Axis: models.AxisInfection, Status: "Controlled", Action: "Monitor for signs"}

	MoistureMaceration = models.AxisAssessment{Axis: models.AxisMoisture, Status: "Maceration risk", Action: "Absorbent dressings", Triggered: true}
	MoistureDesiccated = models.AxisAssessment{Axis: models.AxisMoisture, Status: "Desiccated", Action: "Hydrate wound bed", Triggered: true}
	MoistureBalanced   = models.AxisAssessment{Axis: models.AxisMoisture, Status: "Balanced", Action: "Protect moisture balance"}

	EdgeStalled   = models.AxisAssessment{Axis: models.AxisEdge, Status: "Stalled edges", Action: "Address underlying causes/Biofilm", Triggered: true}
	EdgeAdvancing = models.AxisAssessment{Axis: models.AxisEdge, Status: "Advancing", Action: "Protect wound margin"}

	RepairStalled     = models.AxisAssessment{Axis: models.AxisRegeneration, Status: "Stalled healing", Action: "Consider advanced/regenerative therapies", Triggered: true}
	RepairProgressing = models.AxisAssessment{Axis: models.AxisRegeneration, Status: "Progressing", Action: "Continue current plan"}

	SocialStandard = models.AxisAssessment{Axis: models.AxisSocial, Status: "Standard", Action: "Monitor adherence and support needs"}
)

// DominanceOrder ranks triggered axes when picking the phase of a wound.
var DominanceOrder = []models.Axis{
	models.AxisInfection,
	models.AxisTissue,
	models.AxisMoisture,
	models.AxisEdge,
	models.AxisRegeneration,
	models.AxisSocial,
}

type observation struct {
	params models.WoundParameters
	score  int
	table  resvech.RuleTable
}

type axisRule func(o observation) models.AxisAssessment

var rules = map[models.Axis]axisRule{
	models.AxisTissue:       classifyTissue,
	models.AxisInfection:    classifyInfection,
	models.AxisMoisture:     classifyMoisture,
	models.AxisEdge:         classifyEdge,
	models.AxisRegeneration: classifyRegeneration,
	models.AxisSocial:       classifySocial,
}

// Classify returns one assessment per requested axis. With no axes it
// classifies the axes the table declares. Unknown axes are skipped.
func Classify(p models.WoundParameters, table resvech.RuleTable, axes ...models.Axis) map[models.Axis]models.AxisAssessment {
	if len(axes) == 0 {
		axes = table.Axes
	}
	o := observation{params: p, score: resvech.Score(p), table: table}

	out := make(map[models.Axis]models.AxisAssessment, len(axes))
	for _, a := range axes {
		rule, ok := rules[a]
		if !ok {
			continue
		}
		out[a] = rule(o)
	}
	return out
}

// DominantAxis returns the first triggered axis in DominanceOrder.
func DominantAxis(assessments map[models.Axis]models.AxisAssessment) (models.Axis, bool) {
	for _, a := range DominanceOrder {
		if as, ok := assessments[a]; ok && as.Triggered {
			return a, true
		}
	}
	return "", false
}

func classifyTissue(o observation) models.AxisAssessment {
	text := normalize(o.params.TissueDescription)
	if text != "" {
		if containsAny(text, "necrotic", "slough") {
			return TissueNonViable
		}
		return TissueViable
	}
	if o.params.Points(models.ComponentTissue) >= o.table.NonViableTissueAt && o.table.NonViableTissueAt > 0 {
		return TissueNonViable
	}
	return TissueViable
}

func classifyInfection(o observation) models.AxisAssessment {
	if o.params.Points(models.ComponentInfection) > o.table.InfectionCutoff {
		return InfectionSuspected
	}
	return InfectionControlled
}

func classifyMoisture(o observation) models.AxisAssessment {
	text := normalize(o.params.ExudateDescription)
	if text != "" {
		switch {
		case containsAny(text, "high", "heavy"):
			return MoistureMaceration
		case containsAny(text, "dry"):
			return MoistureDesiccated
		}
		return MoistureBalanced
	}
	if o.params.Points(models.ComponentExudate) >= o.table.HighExudateAt && o.table.HighExudateAt > 0 {
		return MoistureMaceration
	}
	return MoistureBalanced
}

func classifyEdge(o observation) models.AxisAssessment {
	text := normalize(o.params.EdgesDescription)
	if text != "" {
		if containsAny(text, "non-advancing", "undermined") {
			return EdgeStalled
		}
		return EdgeAdvancing
	}
	if o.params.Points(models.ComponentEdges) >= o.table.StalledEdgesAt && o.table.StalledEdgesAt > 0 {
		return EdgeStalled
	}
	return EdgeAdvancing
}

func classifyRegeneration(o observation) models.AxisAssessment {
	if o.score > o.table.StalledHealingAbove {
		return RepairStalled
	}
	return RepairProgressing
}

// Patient and social context is not part of the observation record.
func classifySocial(observation) models.AxisAssessment {
	return SocialStandard
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func containsAny(text string, keywords ...string) bool {
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}
