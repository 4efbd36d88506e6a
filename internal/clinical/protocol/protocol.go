// Package protocol selects the escalation protocol and urgency for an assessed wound.
package protocol

import (
	"woundcare-workers/internal/clinical/resvech"
	"woundcare-workers/internal/models"
)

const (
	NameBiofilm  = "Biofilm-Based Wound Care"
	NameStandard = "Standard Care"
)

// Step actions.
const (
	ActionDebride = "DEBRIDE"
	ActionCleanse = "CLEANSE"
	ActionKill    = "KILL"
	ActionPrevent = "PREVENT"
	ActionProtect = "PROTECT"
)

type Step struct {
	Action string `json:"action"`
	Detail string `json:"detail"`
}

type Protocol struct {
	Name       string `json:"name"`
	Aggressive bool   `json:"aggressive"`
	Steps      []Step `json:"steps"`
}

// Selector chooses between the aggressive biofilm protocol and standard care.
type Selector struct {
	// AggressiveAt is the infection component at or above which the biofilm protocol applies.
	AggressiveAt int
}

func NewSelector(table resvech.RuleTable) Selector {
	return Selector{AggressiveAt: table.AggressiveInfectionAt}
}

// Select builds a new protocol on every call.
func (s Selector) Select(infection int, suspected bool) Protocol {
	if suspected || infection >= s.AggressiveAt {
		return biofilmProtocol()
	}
	return standardProtocol()
}

func biofilmProtocol() Protocol {
	return Protocol{
		Name:       NameBiofilm,
		Aggressive: true,
		Steps: []Step{
			{Action: ActionDebride, Detail: "Remove biofilm and devitalized tissue (sharp or ultrasonic debridement)"},
			{Action: ActionCleanse, Detail: "Cleanse with surfactant antiseptic solution (PHMB or betaine)"},
			{Action: ActionKill, Detail: "Apply topical antimicrobial dressing (silver, iodine or PHMB)"},
			{Action: ActionPrevent, Detail: "Prevent reformation with repeated cleansing at each dressing change"},
		},
	}
}

func standardProtocol() Protocol {
	return Protocol{
		Name: NameStandard,
		Steps: []Step{
			{Action: ActionCleanse, Detail: "Standard cleansing"},
			{Action: ActionProtect, Detail: "Standard antimicrobial dressing if clinically indicated"},
		},
	}
}

// BiofilmSuspected reports whether a score alone signals biofilm under table.
func BiofilmSuspected(score int, table resvech.RuleTable) bool {
	return table.SuspicionEnabled && score > table.SuspicionAbove
}

// DeriveUrgency escalates critical wounds, wounds in the infection phase and
// wounds whose infection axis triggered whatever phase won.
// LOW is only produced by the categorical tissue path.
func DeriveUrgency(prognosis resvech.Prognosis, phaseAxis models.Axis, axes map[models.Axis]models.AxisAssessment) models.Urgency {
	if prognosis == resvech.PrognosisCritical || phaseAxis == models.AxisInfection {
		return models.UrgencyHigh
	}
	if axes[models.AxisInfection].Triggered {
		return models.UrgencyHigh
	}
	return models.UrgencyMedium
}
