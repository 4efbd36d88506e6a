// internal/workers/clinical/assess-wound/models.go
package assesswound

import (
	"woundcare-workers/internal/clinical/assessment"
	"woundcare-workers/internal/clinical/resvech"
	"woundcare-workers/internal/models"
)

type Input struct {
	PatientID  string                 `json:"patientId"`
	WoundID    string                 `json:"woundId"`
	TissueType string                 `json:"tissueType"`
	RuleTable  string                 `json:"ruleTable"`
	Parameters models.WoundParameters `json:"parameters"`
}

type Output struct {
	AssessmentID string            `json:"assessmentId"`
	Assessment   assessment.Result `json:"assessment"`
	Prognosis    resvech.Prognosis `json:"prognosis"`
	Urgency      models.Urgency    `json:"urgency"`
	UrgentReview bool              `json:"urgentReview"`
}
