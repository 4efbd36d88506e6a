// internal/models/timers.go
package models

import (
	"fmt"
	"strings"
)

// Axis is one TIMERS care dimension.
type Axis string

const (
	AxisTissue       Axis = "T"
	AxisInfection    Axis = "I"
	AxisMoisture     Axis = "M"
	AxisEdge         Axis = "E"
	AxisRegeneration Axis = "R"
	AxisSocial       Axis = "S"
)

// CoreAxes is the TIME subset classified by the simple scale.
var CoreAxes = []Axis{AxisTissue, AxisInfection, AxisMoisture, AxisEdge}

// AllAxes is the full TIMERS set in canonical order.
var AllAxes = []Axis{AxisTissue, AxisInfection, AxisMoisture, AxisEdge, AxisRegeneration, AxisSocial}

var axisPhases = map[Axis]string{
	AxisTissue:       "Tissue Management",
	AxisInfection:    "Infection/Inflammation",
	AxisMoisture:     "Moisture Balance",
	AxisEdge:         "Edge Advancement",
	AxisRegeneration: "Regeneration/Repair",
	AxisSocial:       "Social Factors",
}

// Phase returns the clinical phase name of the axis.
func (a Axis) Phase() string {
	return axisPhases[a]
}

// Valid reports whether a is one of the six TIMERS axes.
func (a Axis) Valid() bool {
	_, ok := axisPhases[a]
	return ok
}

// ParseAxis accepts an axis key in any case.
func ParseAxis(key string) (Axis, error) {
	a := Axis(strings.ToUpper(strings.TrimSpace(key)))
	if !a.Valid() {
		return "", fmt.Errorf("unknown TIMERS axis %q", key)
	}
	return a, nil
}

// AxisAssessment is the outcome of classifying one axis.
type AxisAssessment struct {
	Axis      Axis   `json:"axis"`
	Status    string `json:"status"`
	Action    string `json:"action"`
	Triggered bool   `json:"triggered"`
}

// Urgency is the escalation level attached to an assessment.
type Urgency string

const (
	UrgencyLow    Urgency = "LOW"
	UrgencyMedium Urgency = "MEDIUM"
	UrgencyHigh   Urgency = "HIGH"
)
