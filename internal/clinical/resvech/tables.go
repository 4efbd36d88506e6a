package resvech

import (
	"fmt"
	"sort"

	"woundcare-workers/internal/models"
)

const (
	VersionResvech20    = "resvech-2.0"
	VersionTimersSimple = "timers-simple"

	// DefaultVersion is the table used when configuration names none.
	DefaultVersion = VersionResvech20
)

// ExtendedScale covers the full RESVECH 2.0 ranges.
var ExtendedScale = Scale{
	Name: "resvech-extended",
	Max: map[models.Component]int{
		models.ComponentSize:      6,
		models.ComponentDepth:     3,
		models.ComponentEdges:     4,
		models.ComponentTissue:    4,
		models.ComponentExudate:   3,
		models.ComponentInfection: 14,
	},
}

// SimpleScale is the reduced range used by early TIMERS forms.
var SimpleScale = Scale{
	Name: "timers-simple",
	Max: map[models.Component]int{
		models.ComponentSize:      5,
		models.ComponentDepth:     3,
		models.ComponentEdges:     3,
		models.ComponentTissue:    6,
		models.ComponentExudate:   5,
		models.ComponentInfection: 10,
	},
}

func resvech20() RuleTable {
	return RuleTable{
		Version: VersionResvech20,
		Scale:   ExtendedScale,
		Bands: []Band{
			{Prognosis: PrognosisHealed, Min: 0, Max: 0, Description: "Wound closed"},
			{Prognosis: PrognosisFavorable, Min: 1, Max: 10, Description: "Healing expected with standard care"},
			{Prognosis: PrognosisStagnant, Min: 11, Max: 20, Description: "Healing stalled, review care plan"},
			{Prognosis: PrognosisCritical, Min: 21, Max: MaxScore, Description: "Severe wound, specialist referral"},
		},
		InfectionCutoff:       3,
		AggressiveInfectionAt: 5,
		SuspicionEnabled:      true,
		SuspicionAbove:        15,
		NonViableTissueAt:     4,
		HighExudateAt:         3,
		StalledEdgesAt:        3,
		StalledHealingAbove:   15,
		Axes:                  append([]models.Axis(nil), models.AllAxes...),
	}
}

func timersSimple() RuleTable {
	return RuleTable{
		Version: VersionTimersSimple,
		Scale:   SimpleScale,
		Bands: []Band{
			{Prognosis: PrognosisFavorable, Min: 0, Max: 5, Description: "Favorable healing trajectory"},
			{Prognosis: PrognosisModerate, Min: 6, Max: 10, Description: "Moderate severity"},
			{Prognosis: PrognosisDifficult, Min: 11, Max: 15, Description: "Difficult healing expected"},
			{Prognosis: PrognosisCritical, Min: 16, Max: MaxScore, Description: "Critical wound"},
		},
		InfectionCutoff:       3,
		AggressiveInfectionAt: 5,
		NonViableTissueAt:     4,
		HighExudateAt:         3,
		StalledEdgesAt:        3,
		StalledHealingAbove:   15,
		Axes:                  append([]models.Axis(nil), models.CoreAxes...),
	}
}

var builtin = map[string]func() RuleTable{
	VersionResvech20:    resvech20,
	VersionTimersSimple: timersSimple,
}

// Lookup returns a fresh copy of the named built-in table. An empty version
// selects DefaultVersion.
func Lookup(version string) (RuleTable, error) {
	if version == "" {
		version = DefaultVersion
	}
	build, ok := builtin[version]
	if !ok {
		return RuleTable{}, fmt.Errorf("unknown rule table %q (available: %v)", version, Versions())
	}
	t := build()
	if err := t.Validate(); err != nil {
		return RuleTable{}, err
	}
	return t, nil
}

// Default returns the canonical table.
func Default() RuleTable {
	t, _ := Lookup(DefaultVersion)
	return t
}

// Versions lists the built-in table versions in sorted order.
func Versions() []string {
	out := make([]string, 0, len(builtin))
	for v := range builtin {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// Tables returns every built-in table in version order.
func Tables() []RuleTable {
	out := make([]RuleTable, 0, len(builtin))
	for _, v := range Versions() {
		out = append(out, builtin[v]())
	}
	return out
}
