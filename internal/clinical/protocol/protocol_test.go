package protocol

import (
	"testing"

	"woundcare-workers/internal/clinical/resvech"
	"woundcare-workers/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelector_Select(t *testing.T) {
	s := NewSelector(resvech.Default())

	tests := []struct {
		name       string
		infection  int
		suspected  bool
		aggressive bool
		firstStep  string
	}{
		{"below threshold", 4, false, false, ActionCleanse},
		{"at threshold", 5, false, true, ActionDebride},
		{"above threshold", 12, false, true, ActionDebride},
		{"suspicion alone", 0, true, true, ActionDebride},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := s.Select(tt.infection, tt.suspected)
			assert.Equal(t, tt.aggressive, p.Aggressive)
			require.NotEmpty(t, p.Steps)
			assert.Equal(t, tt.firstStep, p.Steps[0].Action)
		})
	}
}

func TestSelector_BiofilmStepsInOrder(t *testing.T) {
	p := Selector{AggressiveAt: 5}.Select(5, false)

	actions := make([]string, 0, len(p.Steps))
	for _, s := range p.Steps {
		actions = append(actions, s.Action)
		assert.NotEmpty(t, s.Detail)
	}
	assert.Equal(t, []string{ActionDebride, ActionCleanse, ActionKill, ActionPrevent}, actions)
	assert.Equal(t, NameBiofilm, p.Name)
}

func TestSelector_StandardCare(t *testing.T) {
	p := Selector{AggressiveAt: 5}.Select(0, false)

	assert.Equal(t, NameStandard, p.Name)
	assert.Equal(t, []Step{
		{Action: ActionCleanse, Detail: "Standard cleansing"},
		{Action: ActionProtect, Detail: "Standard antimicrobial dressing if clinically indicated"},
	}, p.Steps)
}

func TestSelector_ReturnsFreshValues(t *testing.T) {
	s := Selector{AggressiveAt: 5}
	first := s.Select(9, false)
	first.Steps[0].Action = "TAMPERED"

	second := s.Select(9, false)
	assert.Equal(t, ActionDebride, second.Steps[0].Action)
}

func TestBiofilmSuspected(t *testing.T) {
	extended := resvech.Default()
	simple, err := resvech.Lookup(resvech.VersionTimersSimple)
	require.NoError(t, err)

	assert.False(t, BiofilmSuspected(15, extended))
	assert.True(t, BiofilmSuspected(16, extended))
	assert.True(t, BiofilmSuspected(18, extended))
	assert.False(t, BiofilmSuspected(35, simple))
}

func TestDeriveUrgency(t *testing.T) {
	tests := []struct {
		name      string
		prognosis resvech.Prognosis
		axis      models.Axis
		axes      map[models.Axis]models.AxisAssessment
		expected  models.Urgency
	}{
		{"critical band", resvech.PrognosisCritical, models.AxisEdge, nil, models.UrgencyHigh},
		{"infection phase", resvech.PrognosisFavorable, models.AxisInfection, nil, models.UrgencyHigh},
		{"favorable edges", resvech.PrognosisFavorable, models.AxisEdge, nil, models.UrgencyMedium},
		{"stagnant repair", resvech.PrognosisStagnant, models.AxisRegeneration, nil, models.UrgencyMedium},
		{"healed without axis", resvech.PrognosisHealed, "", nil, models.UrgencyMedium},
		{
			"infection axis triggered under edge phase", resvech.PrognosisStagnant, models.AxisEdge,
			map[models.Axis]models.AxisAssessment{models.AxisInfection: {Axis: models.AxisInfection, Triggered: true}},
			models.UrgencyHigh,
		},
		{
			"infection axis controlled", resvech.PrognosisStagnant, models.AxisEdge,
			map[models.Axis]models.AxisAssessment{models.AxisInfection: {Axis: models.AxisInfection}},
			models.UrgencyMedium,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeriveUrgency(tt.prognosis, tt.axis, tt.axes)
			assert.Equal(t, tt.expected, got)
			assert.NotEqual(t, models.UrgencyLow, got)
		})
	}
}
