package timers

import (
	"sort"
	"strings"

	"woundcare-workers/internal/models"
)

// Tissue types understood by the categorical mode.
const (
	TissueNecrotic    = "NECROTIC"
	TissueSlough      = "SLOUGH"
	TissueInfected    = "INFECTED"
	TissueGranulation = "GRANULATION"
	TissueEpithelial  = "EPITHELIAL"
	TissueMacerated   = "MACERATED"
)

// ManualEvaluationPhase is reported for tissue types with no profile.
const ManualEvaluationPhase = "Manual Evaluation"

// UnknownPattern is the outcome of a tissue type with no profile. It names no
// axis and never triggers.
var UnknownPattern = models.AxisAssessment{Status: "Unknown tissue pattern", Action: "Manual clinical evaluation required"}

// TissueProfile is the fixed clinical reading of one categorical tissue type.
type TissueProfile struct {
	TissueType string                `json:"tissueType"`
	Recognized bool                  `json:"recognized"`
	Axis       models.Axis           `json:"axis,omitempty"`
	Phase      string                `json:"phase"`
	Diagnosis  string                `json:"diagnosis"`
	Treatment  string                `json:"treatment"`
	Dressing   string                `json:"dressing,omitempty"`
	Urgency    models.Urgency        `json:"urgency"`
	Outcome    models.AxisAssessment `json:"outcome"`
}

var profiles = map[string]TissueProfile{
	TissueNecrotic: {
		Axis:      models.AxisTissue,
		Diagnosis: "Presence of devitalized necrotic tissue (eschar).",
		Treatment: "Sharp or enzymatic debridement recommended.",
		Dressing:  "Hydrogel to soften eschar ahead of debridement",
		Urgency:   models.UrgencyHigh,
		Outcome:   TissueNonViable,
	},
	TissueSlough: {
		Axis:      models.AxisTissue,
		Diagnosis: "Fibrinous slough layer covering wound bed.",
		Treatment: "Mechanical cleansing and autolytic debridement dressings.",
		Dressing:  "Hydrofiber or alginate with autolytic action",
		Urgency:   models.UrgencyMedium,
		Outcome:   TissueNonViable,
	},
	TissueInfected: {
		Axis:      models.AxisInfection,
		Diagnosis: "Clinical signs of local infection or biofilm.",
		Treatment: "Topical antimicrobials and anti-biofilm cleansing.",
		Dressing:  "Silver or PHMB antimicrobial dressing",
		Urgency:   models.UrgencyHigh,
		Outcome:   InfectionSuspected,
	},
	TissueGranulation: {
		Axis:      models.AxisRegeneration,
		Diagnosis: "Healthy granulation tissue observed.",
		Treatment: "Continue current therapy. Maintain moist wound environment.",
		Dressing:  "Foam dressing to maintain moisture",
		Urgency:   models.UrgencyLow,
		Outcome:   RepairProgressing,
	},
	TissueEpithelial: {
		Axis:      models.AxisEdge,
		Diagnosis: "Epithelial migration active at wound edges.",
		Treatment: "Protective dressing (silicone-based) to guard delicate new skin.",
		Dressing:  "Silicone contact layer",
		Urgency:   models.UrgencyLow,
		Outcome:   EdgeAdvancing,
	},
	TissueMacerated: {
		Axis:      models.AxisMoisture,
		Diagnosis: "Periwound maceration from excess exudate.",
		Treatment: "Manage exudate and protect periwound skin.",
		Dressing:  "Superabsorbent dressing with barrier film",
		Urgency:   models.UrgencyMedium,
		Outcome:   MoistureMaceration,
	},
}

// ProfileFor looks up a tissue type ignoring case and surrounding space.
// Unknown types yield an unrecognized profile asking for manual evaluation.
func ProfileFor(tissueType string) TissueProfile {
	key := strings.ToUpper(strings.TrimSpace(tissueType))
	p, ok := profiles[key]
	if !ok {
		return TissueProfile{
			TissueType: key,
			Phase:      ManualEvaluationPhase,
			Diagnosis:  "Unknown tissue pattern.",
			Treatment:  "Manual clinical evaluation required.",
			Urgency:    models.UrgencyMedium,
			Outcome:    UnknownPattern,
		}
	}
	p.TissueType = key
	p.Recognized = true
	p.Phase = p.Axis.Phase()
	return p
}

// TissueTypes lists the recognized categorical types in sorted order.
func TissueTypes() []string {
	out := make([]string, 0, len(profiles))
	for k := range profiles {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// ApplyProfile merges a recognized profile into text-mode assessments. The
// profile outcome replaces its axis unless that axis already triggered on the
// observation and the profile outcome did not.
func ApplyProfile(assessments map[models.Axis]models.AxisAssessment, profile TissueProfile) map[models.Axis]models.AxisAssessment {
	out := make(map[models.Axis]models.AxisAssessment, len(assessments)+1)
	for k, v := range assessments {
		out[k] = v
	}
	if !profile.Recognized {
		return out
	}
	if current, ok := out[profile.Axis]; ok && current.Triggered && !profile.Outcome.Triggered {
		return out
	}
	out[profile.Axis] = profile.Outcome
	return out
}
