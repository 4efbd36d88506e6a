package resvech

import (
	"fmt"
	"sort"
	"strings"

	"woundcare-workers/internal/models"
)

// Prognosis is the categorical band a score falls into.
type Prognosis string

const (
	PrognosisHealed    Prognosis = "HEALED"
	PrognosisFavorable Prognosis = "FAVORABLE"
	PrognosisModerate  Prognosis = "MODERATE"
	PrognosisDifficult Prognosis = "DIFFICULT"
	PrognosisStagnant  Prognosis = "STAGNANT"
	PrognosisCritical  Prognosis = "CRITICAL"
)

// Band covers the inclusive score range [Min, Max].
type Band struct {
	Prognosis   Prognosis `json:"prognosis"`
	Min         int       `json:"min"`
	Max         int       `json:"max"`
	Description string    `json:"description"`
}

func (b Band) Contains(score int) bool {
	return score >= b.Min && score <= b.Max
}

// Scale holds the per-component maxima of a scoring scale.
type Scale struct {
	Name string                   `json:"name"`
	Max  map[models.Component]int `json:"max"`
}

// Violation reports a component recorded above its scale maximum.
type Violation struct {
	Component models.Component `json:"component"`
	Value     int              `json:"value"`
	Max       int              `json:"max"`
}

func (v Violation) String() string {
	return fmt.Sprintf("%s=%d exceeds scale maximum %d", v.Component, v.Value, v.Max)
}

// OutOfRange lists the components of p above the scale maxima, in score order.
// It never alters the score.
func (s Scale) OutOfRange(p models.WoundParameters) []Violation {
	var out []Violation
	for _, c := range models.ScoredComponents {
		max, ok := s.Max[c]
		if !ok {
			continue
		}
		if v := p.Points(c); v > max {
			out = append(out, Violation{Component: c, Value: v, Max: max})
		}
	}
	return out
}

// RuleTable is one versioned set of thresholds and bands. Tables are values
// and are never mutated after construction.
type RuleTable struct {
	Version string `json:"version"`
	Scale   Scale  `json:"scale"`
	Bands   []Band `json:"bands"`

	// InfectionCutoff triggers the I axis when the infection component is strictly above it.
	InfectionCutoff int `json:"infectionCutoff"`
	// AggressiveInfectionAt selects the biofilm protocol when infection >= it.
	AggressiveInfectionAt int `json:"aggressiveInfectionAt"`

	SuspicionEnabled bool `json:"suspicionEnabled"`
	SuspicionAbove   int  `json:"suspicionAbove"`

	// Numeric fallbacks used when the matching description is empty.
	NonViableTissueAt int `json:"nonViableTissueAt"`
	HighExudateAt     int `json:"highExudateAt"`
	StalledEdgesAt    int `json:"stalledEdgesAt"`

	StalledHealingAbove int           `json:"stalledHealingAbove"`
	Axes                []models.Axis `json:"axes"`
}

// Classify returns the band containing score. Scores outside [0, MaxScore]
// are clamped first so exactly one band always applies to a valid table.
func (t RuleTable) Classify(score int) Band {
	score = clamp(score, 0, MaxScore)
	for _, b := range t.Bands {
		if b.Contains(score) {
			return b
		}
	}
	// Unreachable for a table that passed Validate.
	return t.Bands[len(t.Bands)-1]
}

// Validate checks that the bands partition [0, MaxScore] and that thresholds are sane.
func (t RuleTable) Validate() error {
	var problems []string
	if strings.TrimSpace(t.Version) == "" {
		problems = append(problems, "version is required")
	}
	if len(t.Bands) == 0 {
		problems = append(problems, "at least one band is required")
	} else {
		bands := append([]Band(nil), t.Bands...)
		sort.SliceStable(bands, func(i, j int) bool { return bands[i].Min < bands[j].Min })
		if bands[0].Min != 0 {
			problems = append(problems, fmt.Sprintf("first band starts at %d, want 0", bands[0].Min))
		}
		if last := bands[len(bands)-1]; last.Max != MaxScore {
			problems = append(problems, fmt.Sprintf("last band ends at %d, want %d", last.Max, MaxScore))
		}
		for i, b := range bands {
			if b.Min > b.Max {
				problems = append(problems, fmt.Sprintf("band %s has min %d > max %d", b.Prognosis, b.Min, b.Max))
			}
			if i > 0 && b.Min != bands[i-1].Max+1 {
				problems = append(problems, fmt.Sprintf("band %s starts at %d, want %d", b.Prognosis, b.Min, bands[i-1].Max+1))
			}
		}
	}
	for name, v := range map[string]int{
		"infectionCutoff":       t.InfectionCutoff,
		"aggressiveInfectionAt": t.AggressiveInfectionAt,
		"suspicionAbove":        t.SuspicionAbove,
		"nonViableTissueAt":     t.NonViableTissueAt,
		"highExudateAt":         t.HighExudateAt,
		"stalledEdgesAt":        t.StalledEdgesAt,
		"stalledHealingAbove":   t.StalledHealingAbove,
	} {
		if v < 0 {
			problems = append(problems, fmt.Sprintf("%s must be non-negative, got %d", name, v))
		}
	}
	for _, a := range t.Axes {
		if !a.Valid() {
			problems = append(problems, fmt.Sprintf("unknown axis %q", a))
		}
	}
	if len(problems) > 0 {
		sort.Strings(problems)
		return fmt.Errorf("rule table %q invalid: %s", t.Version, strings.Join(problems, "; "))
	}
	return nil
}
